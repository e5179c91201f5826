package filesystem

import (
	"io"
	"os"

	"github.com/docketworks/platform/errors"
)

// Exists reports whether path refers to anything at all. A missing path
// is a negative answer, not a failure; only a stat error other than
// absence (an unreadable parent, say) comes back as an error.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, mapOSError("fs.exists", path, err)
}

// IsDirectory reports whether path exists and is a directory. A missing
// path answers false without error, same as Exists.
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, mapOSError("fs.isdirectory", path, err)
	}
	return info.IsDir(), nil
}

// FileSize returns the size stat reports for path. A missing path is
// not_found. Directories report whatever the filesystem says for them.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, mapOSError("fs.filesize", path, err)
	}
	return info.Size(), nil
}

// Mkdir creates a directory. With recursive it creates missing parents
// and tolerates the directory already existing; without it the parent
// must exist and an existing target is already_exists.
func Mkdir(path string, recursive bool) error {
	if recursive {
		if err := os.MkdirAll(path, 0755); err != nil {
			return mapOSError("fs.mkdir", path, err)
		}
		return nil
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return mapOSError("fs.mkdir", path, err)
	}
	return nil
}

// Remove deletes a file or an empty directory.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return mapOSError("fs.remove", path, err)
	}
	return nil
}

// Rmdir deletes a directory. With recursive it removes the contents
// first; without it the directory must be empty. A path that is not a
// directory is not_found, matching rmdir(2)'s ENOTDIR.
func Rmdir(path string, recursive bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return mapOSError("fs.rmdir", path, err)
	}
	if !info.IsDir() {
		return errors.New(errors.CodeNotFound, "fs.rmdir").Path(path).Detail("not a directory").Build()
	}

	if recursive {
		if err := os.RemoveAll(path); err != nil {
			return mapOSError("fs.rmdir", path, err)
		}
		return nil
	}
	if err := os.Remove(path); err != nil {
		return mapOSError("fs.rmdir", path, err)
	}
	return nil
}

// Rename moves oldPath to newPath. An existing file destination is
// replaced where the OS allows it.
func Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return mapOSError("fs.rename", oldPath, err)
	}
	return nil
}

// CopyFile copies src's contents and permission bits to dst, replacing
// dst if present. The copy streams, so large files do not load into
// memory. dst is written in place, not atomically.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return mapOSError("fs.copyfile", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return mapOSError("fs.copyfile", src, err)
	}
	if info.IsDir() {
		return errors.Invalid("fs.copyfile", "source is a directory")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return mapOSError("fs.copyfile", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return mapOSError("fs.copyfile", dst, err)
	}
	if err := out.Close(); err != nil {
		return mapOSError("fs.copyfile", dst, err)
	}
	return nil
}

// ReadFile returns the complete contents of path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapOSError("fs.readfile", path, err)
	}
	return data, nil
}

// WriteFile replaces path's contents, creating the file if missing.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return mapOSError("fs.writefile", path, err)
	}
	return nil
}

// AppendFile adds data at the end of path, creating the file if missing.
func AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return mapOSError("fs.appendfile", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return mapOSError("fs.appendfile", path, err)
	}
	if err := f.Close(); err != nil {
		return mapOSError("fs.appendfile", path, err)
	}
	return nil
}
