// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    Spec
		want    string
		wantErr error
	}{
		{name: "native command", spec: Spec{Command: "/opt/itam/export"}, want: "*source.CommandSource"},
		{name: "explicit native", spec: Spec{Command: "/opt/itam/export", Runtime: RuntimeNative}, want: "*source.CommandSource"},
		{name: "virtual command", spec: Spec{Command: "echo hi", Runtime: RuntimeVirtual}, want: "*source.VirtualSource"},
		{name: "file", spec: Spec{File: "export.csv"}, want: "*source.FileSource"},
		{name: "stdin", spec: Spec{File: StdinPath}, want: "*source.ReaderSource"},
		{name: "command wins over file", spec: Spec{Command: "/opt/itam/export", File: "export.csv"}, want: "*source.CommandSource"},
		{name: "nothing configured", spec: Spec{}, wantErr: ErrNoSource},
		{name: "blank command", spec: Spec{Command: "   "}, wantErr: ErrNoSource},
		{name: "bad runtime", spec: Spec{Command: "x", Runtime: "docker"}, wantErr: ErrInvalidRuntime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := New(tt.spec)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if got := typeName(src); got != tt.want {
				t.Errorf("New() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(src Source) string {
	switch src.(type) {
	case *CommandSource:
		return "*source.CommandSource"
	case *VirtualSource:
		return "*source.VirtualSource"
	case *FileSource:
		return "*source.FileSource"
	case *ReaderSource:
		return "*source.ReaderSource"
	default:
		return "unknown"
	}
}

func TestRuntimeIsValid(t *testing.T) {
	t.Parallel()

	for _, r := range []Runtime{"", RuntimeNative, RuntimeVirtual} {
		if valid, errs := r.IsValid(); !valid || errs != nil {
			t.Errorf("Runtime(%q).IsValid() = %v, %v", r, valid, errs)
		}
	}

	valid, errs := Runtime("container").IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v; want invalid with one error", valid, errs)
	}
	var rtErr *InvalidRuntimeError
	if !errors.As(errs[0], &rtErr) || rtErr.Value != "container" {
		t.Errorf("error = %v, want *InvalidRuntimeError for container", errs[0])
	}
}

func TestVirtualSourceRead(t *testing.T) {
	t.Parallel()

	src := &VirtualSource{Script: `echo "dbhost01a,gz01"; echo "web01,$1"`, Args: []string{"gz02"}}
	lines, err := Lines(context.Background(), src)
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	want := []string{"dbhost01a,gz01", "web01,gz02", ""}
	if !slices.Equal(lines, want) {
		t.Errorf("Lines() = %q, want %q", lines, want)
	}
}

func TestVirtualSourceEnv(t *testing.T) {
	t.Parallel()

	src := &VirtualSource{Script: `echo "$EXPORT_TAG"`, Env: []string{"EXPORT_TAG=nightly"}}
	out, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if out != "nightly\n" {
		t.Errorf("Read() = %q, want %q", out, "nightly\n")
	}
}

func TestVirtualSourceExitStatus(t *testing.T) {
	t.Parallel()

	src := &VirtualSource{Script: `echo "itam unavailable" >&2; exit 3`}
	_, err := src.Read(context.Background())

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Read() error = %v, want *CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Error(), "itam unavailable") {
		t.Errorf("Error() = %q, want stderr text", cmdErr.Error())
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("errors.Is(err, ErrCommandFailed) = false")
	}
}

func TestVirtualSourceSyntaxError(t *testing.T) {
	t.Parallel()

	src := &VirtualSource{Script: `echo "unterminated`}
	if err := src.Validate(); err == nil {
		t.Error("Validate() expected error")
	}
	if _, err := src.Read(context.Background()); err == nil {
		t.Error("Read() expected error")
	}
}

func TestCommandSourceRead(t *testing.T) {
	t.Parallel()

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	src := &CommandSource{Path: sh, Args: []string{"-c", "printf 'a,b\\nc,d\\n'"}}
	lines, err := Lines(context.Background(), src)
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if !slices.Equal(lines, []string{"a,b", "c,d", ""}) {
		t.Errorf("Lines() = %q", lines)
	}
}

func TestCommandSourceFailure(t *testing.T) {
	t.Parallel()

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	src := &CommandSource{Path: sh, Args: []string{"-c", "echo boom >&2; exit 2"}}
	_, err = src.Read(context.Background())

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Read() error = %v, want *CommandError", err)
	}
	if cmdErr.ExitCode != 2 || strings.TrimSpace(cmdErr.Stderr) != "boom" {
		t.Errorf("CommandError = %+v", cmdErr)
	}
}

func TestCommandSourceMissingBinary(t *testing.T) {
	t.Parallel()

	src := &CommandSource{Path: filepath.Join(t.TempDir(), "no-such-export")}
	_, err := src.Read(context.Background())
	if err == nil {
		t.Fatal("Read() expected error")
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		t.Errorf("missing binary should not be a CommandError: %v", err)
	}
}

func TestFileSourceRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("a,b\r\nc,d\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := Lines(context.Background(), &FileSource{Path: path})
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if !slices.Equal(lines, []string{"a,b", "c,d", ""}) {
		t.Errorf("Lines() = %q", lines)
	}

	if _, err := (&FileSource{Path: path + ".missing"}).Read(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestReaderSourceRead(t *testing.T) {
	t.Parallel()

	src, err := New(Spec{File: StdinPath, Stdin: strings.NewReader("x,y\n")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if src.Name() != "stdin" {
		t.Errorf("Name() = %q, want stdin", src.Name())
	}
	out, err := src.Read(context.Background())
	if err != nil || out != "x,y\n" {
		t.Errorf("Read() = %q, %v", out, err)
	}
}

func TestReadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (&FileSource{Path: "whatever"}).Read(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("FileSource.Read() error = %v, want context.Canceled", err)
	}
	if _, err := (&ReaderSource{Label: "stdin", Reader: strings.NewReader("")}).Read(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ReaderSource.Read() error = %v, want context.Canceled", err)
	}
}
