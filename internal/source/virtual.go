// SPDX-License-Identifier: MPL-2.0

package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualSource interprets a shell snippet with mvdan/sh, so exports can be
// produced without a host shell. Args are exposed as $1, $2, ...
type VirtualSource struct {
	Script string
	Args   []string
	Dir    string
	Env    []string
}

// Name returns the script text.
func (s *VirtualSource) Name() string {
	return s.Script
}

// Validate checks that the script parses.
func (s *VirtualSource) Validate() error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(s.Script), "source"); err != nil {
		return fmt.Errorf("source script syntax error: %w", err)
	}
	return nil
}

// Read interprets the script and captures its stdout.
func (s *VirtualSource) Read(ctx context.Context) (string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(s.Script), "source")
	if err != nil {
		return "", fmt.Errorf("failed to parse source script: %w", err)
	}

	env := s.Env
	if env == nil {
		env = os.Environ()
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, &stderr),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}
	// "--" keeps args such as "-v" from being read as shell options.
	if len(s.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, s.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return "", &CommandError{Command: s.Name(), ExitCode: int(exitStatus), Stderr: stderr.String(), Err: err}
		}
		return "", fmt.Errorf("source script execution failed: %w", err)
	}
	return stdout.String(), nil
}
