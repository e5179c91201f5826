package filesystem

import (
	"os"
	"syscall"

	"github.com/docketworks/platform/errors"
)

// mapOSError folds an operating system failure into the platform
// taxonomy. The path recorded is the one the caller handed in, so error
// messages match what they typed.
func mapOSError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case os.IsNotExist(err):
		return errors.PathNotFound(op, path)
	case os.IsPermission(err):
		return errors.PermissionDenied(op, path, err)
	case os.IsExist(err):
		return errors.AlreadyExists(op, path)
	}

	var errno syscall.Errno
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.As(pathErr.Err, &errno) {
		return mapErrno(op, path, err, errno)
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.As(linkErr.Err, &errno) {
		return mapErrno(op, path, err, errno)
	}

	return errors.New(errors.CodeIO, op).Path(path).Cause(err).Build()
}

func mapErrno(op, path string, cause error, errno syscall.Errno) error {
	var code errors.Code
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		code = errors.CodePermissionDenied
	case syscall.ENOENT, syscall.ENOTDIR:
		code = errors.CodeNotFound
	case syscall.EEXIST:
		code = errors.CodeAlreadyExists
	case syscall.EISDIR, syscall.EINVAL:
		code = errors.CodeInvalidArgument
	case syscall.ENOTEMPTY:
		code = errors.CodeError
	case syscall.ENOMEM:
		code = errors.CodeOutOfMemory
	default:
		code = errors.CodeIO
	}
	return errors.New(code, op).Path(path).Cause(cause).Build()
}
