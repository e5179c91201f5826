package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Code:   CodeIO,
				Op:     "copy",
				Path:   "/var/docket/cases",
				Detail: "short write",
			},
			contains: []string{"[copy]", "io", "/var/docket/cases", "short write"},
		},
		{
			name: "minimal error",
			err: &Error{
				Code: CodeWouldBlock,
				Op:   "recv",
			},
			contains: []string{"[recv]", "would_block"},
		},
		{
			name: "error with cause",
			err: &Error{
				Code:   CodeOutOfMemory,
				Op:     "alloc",
				Detail: "arena full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "out_of_memory", "arena full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Code:  CodeIO,
		Op:    "send",
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Code: CodeNotFound,
		Op:   "connect",
	}

	if !err.Is(&Error{Code: CodeNotFound, Op: "connect"}) {
		t.Error("Is should match same code and op")
	}

	if !err.Is(&Error{Code: CodeNotFound}) {
		t.Error("Is should treat empty op as wildcard")
	}

	if err.Is(&Error{Code: CodeIO, Op: "connect"}) {
		t.Error("Is should not match different code")
	}

	if err.Is(&Error{Code: CodeNotFound, Op: "accept"}) {
		t.Error("Is should not match different op")
	}

	if err.Is(errors.New("plain")) {
		t.Error("Is should not match non-platform errors")
	}
}

func TestError_IsThroughChain(t *testing.T) {
	inner := Timeout("recv")
	outer := fmt.Errorf("request failed: %w", inner)

	if !errors.Is(outer, &Error{Code: CodeTimeout}) {
		t.Error("errors.Is should find the timeout through the wrap chain")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("disk gone")
	err := New(CodeIO, "write").
		Path("/tmp/x").
		Value(42).
		Cause(cause).
		Detail("wrote %d of %d bytes", 10, 42).
		Build()

	if err.Code != CodeIO {
		t.Errorf("expected code %q, got %q", CodeIO, err.Code)
	}
	if err.Op != "write" {
		t.Errorf("expected op write, got %q", err.Op)
	}
	if err.Path != "/tmp/x" {
		t.Errorf("expected path /tmp/x, got %q", err.Path)
	}
	if err.Detail != "wrote 10 of 42 bytes" {
		t.Errorf("unexpected detail %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through chain")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code Code
	}{
		{"invalid", Invalid("bind", "negative backlog"), CodeInvalidArgument},
		{"notfound", NotFound("symbol", "export", "add"), CodeNotFound},
		{"pathnotfound", PathNotFound("stat", "/missing"), CodeNotFound},
		{"alreadyexists", AlreadyExists("mkdir", "/present"), CodeAlreadyExists},
		{"permission", PermissionDenied("open", "/etc/shadow", nil), CodePermissionDenied},
		{"io", IO("send", errors.New("broken pipe")), CodeIO},
		{"timeout", Timeout("recv"), CodeTimeout},
		{"wouldblock", WouldBlock("accept"), CodeWouldBlock},
		{"allocation", AllocationFailed("alloc", 1 << 20), CodeOutOfMemory},
		{"notsupported", NotSupported("memory", "no backend for this OS"), CodeNotSupported},
		{"notinitialized", NotInitialized("socket", "network subsystem"), CodeError},
		{"closed", Closed("lock", "mutex"), CodeInvalidArgument},
		{"wrap", Wrap(CodeIO, "copy", errors.New("x"), "stream failed"), CodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, tt.err.Code)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if c := CodeOf(nil); c != CodeOK {
		t.Errorf("CodeOf(nil) = %q, want %q", c, CodeOK)
	}
	if c := CodeOf(Timeout("recv")); c != CodeTimeout {
		t.Errorf("CodeOf(timeout) = %q, want %q", c, CodeTimeout)
	}
	if c := CodeOf(errors.New("foreign")); c != CodeError {
		t.Errorf("CodeOf(foreign) = %q, want %q", c, CodeError)
	}
}
