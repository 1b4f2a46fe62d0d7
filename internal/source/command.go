// SPDX-License-Identifier: MPL-2.0

package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandSource runs an executable on the host and captures its stdout.
type CommandSource struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// Name returns the command line.
func (s *CommandSource) Name() string {
	return strings.Join(append([]string{s.Path}, s.Args...), " ")
}

// Read runs the command to completion.
func (s *CommandSource) Read(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	cmd.Dir = s.Dir
	if s.Env != nil {
		cmd.Env = s.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{Command: s.Name(), ExitCode: exitErr.ExitCode(), Stderr: stderr.String(), Err: err}
		}
		return "", fmt.Errorf("run %s: %w", s.Name(), err)
	}
	return stdout.String(), nil
}
