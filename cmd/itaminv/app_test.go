// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/itaminv/itaminv/internal/config"
	"github.com/itaminv/itaminv/internal/inventory"
	"github.com/itaminv/itaminv/internal/issue"
	"github.com/itaminv/itaminv/internal/source"
	"github.com/itaminv/itaminv/pkg/itam"
)

const testExport = `db01a,gz01,RHEL8,Production,Retail,groups=Oracle|owner=dba,Database,R640,SN1,2020-01-01,CH01:1,Active
db01b,gz01,RHEL8,DR,Retail,,Database,R640,SN2,2020-01-01,CH01:2,Active
dev01,gz02,RHEL9,Development,Labs,,Sandbox,R650,SN3,2021-01-01,CH02:1,Active
`

type fakeProvider struct {
	cfg  *config.Config
	err  error
	opts config.LoadOptions
}

func (p *fakeProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	p.opts = opts
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

func testConfig(tier itam.Tier) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Tier = tier
	cfg.Source.File = "export.csv"
	cfg.Output.Indent = 0
	return cfg
}

func readerOpener(export string) SourceOpener {
	return func(spec source.Spec) (source.Source, error) {
		return &source.ReaderSource{Label: spec.File, Reader: strings.NewReader(export)}, nil
	}
}

type testRun struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	err    error
}

func runApp(t *testing.T, provider ConfigProvider, opener SourceOpener, args ...string) testRun {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:     provider,
		OpenSource: opener,
		Stdin:      strings.NewReader(""),
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	root := newRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return testRun{app: app, stdout: &stdout, stderr: &stderr, err: err}
}

func TestInventoryList(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{cfg: testConfig(itam.TierProduction)}
	run := runApp(t, provider, readerOpener(testExport), "--list")
	if run.err != nil {
		t.Fatalf("run error: %v", run.err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(run.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, run.stdout)
	}

	for _, group := range []string{"db0_cluster", "gz01_zones", "Oracle", "RHEL8", "CH01", "_meta"} {
		if _, ok := doc[group]; !ok {
			t.Errorf("group %q missing from %s", group, run.stdout)
		}
	}
	if _, ok := doc["gz02_zones"]; ok {
		t.Errorf("out-of-tier group gz02_zones present")
	}

	var cluster struct {
		Hosts []string `json:"hosts"`
	}
	if err := json.Unmarshal(doc["db0_cluster"], &cluster); err != nil {
		t.Fatalf("db0_cluster: %v", err)
	}
	if strings.Join(cluster.Hosts, ",") != "db01a,db01b" {
		t.Errorf("db0_cluster hosts = %v, want [db01a db01b]", cluster.Hosts)
	}
}

func TestInventoryHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want map[string]any
	}{
		{
			name: "known host",
			host: "db01a",
			want: map[string]any{"Env": "Production", "owner": "dba", "Chassis": "CH01"},
		},
		{
			name: "out of tier host",
			host: "dev01",
		},
		{
			name: "unknown host",
			host: "nosuchhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{cfg: testConfig(itam.TierProduction)}
			run := runApp(t, provider, readerOpener(testExport), "--host", tt.host)
			if run.err != nil {
				t.Fatalf("run error: %v", run.err)
			}

			if tt.want == nil {
				if got := run.stdout.String(); got != "{}\n" {
					t.Errorf("stdout = %q, want {}", got)
				}
				return
			}

			var vars map[string]any
			if err := json.Unmarshal(run.stdout.Bytes(), &vars); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			for k, v := range tt.want {
				if vars[k] != v {
					t.Errorf("%s = %v, want %v", k, vars[k], v)
				}
			}
		})
	}
}

func TestInventoryOverrides(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{cfg: testConfig(itam.TierUAT)}
	run := runApp(t, provider, readerOpener(""),
		"--tier", "UAT", "--source-cmd", "/opt/itam/export", "--format", "yaml", "--indent", "2", "--config", "custom.cue")
	if run.err != nil {
		t.Fatalf("run error: %v", run.err)
	}

	opts := provider.opts
	if opts.ConfigFilePath != "custom.cue" {
		t.Errorf("ConfigFilePath = %q, want custom.cue", opts.ConfigFilePath)
	}
	want := map[string]any{
		"tier":           "UAT",
		"source.command": "/opt/itam/export",
		"source.file":    "",
		"output.format":  "yaml",
		"output.indent":  2,
	}
	if len(opts.Overrides) != len(want) {
		t.Errorf("Overrides = %v, want %v", opts.Overrides, want)
	}
	for k, v := range want {
		if opts.Overrides[k] != v {
			t.Errorf("Overrides[%q] = %v, want %v", k, opts.Overrides[k], v)
		}
	}
}

func TestInventoryErrors(t *testing.T) {
	t.Parallel()

	corrupt := testExport + "web02a,gz01,RHEL8,Production,Retail,,Web, server,R640,SN1,2020-01-01,CH07:4,Active\n"

	tests := []struct {
		name      string
		cfg       *config.Config
		loadErr   error
		opener    SourceOpener
		wantIssue issue.Id
		wantIs    error
	}{
		{
			name:      "missing tier",
			cfg:       testConfig(""),
			opener:    readerOpener(testExport),
			wantIssue: issue.InvalidTierId,
			wantIs:    itam.ErrInvalidTier,
		},
		{
			name:      "unknown tier",
			cfg:       testConfig("Staging"),
			opener:    readerOpener(testExport),
			wantIssue: issue.InvalidTierId,
			wantIs:    itam.ErrInvalidTier,
		},
		{
			name: "no source",
			cfg: func() *config.Config {
				cfg := testConfig(itam.TierUAT)
				cfg.Source.File = ""
				return cfg
			}(),
			wantIssue: issue.SourceNotConfiguredId,
			wantIs:    source.ErrNoSource,
		},
		{
			name: "source fails",
			cfg:  testConfig(itam.TierUAT),
			opener: func(spec source.Spec) (source.Source, error) {
				return failingSource{}, nil
			},
			wantIssue: issue.SourceFailedId,
			wantIs:    source.ErrCommandFailed,
		},
		{
			name:      "embedded delimiter",
			cfg:       testConfig(itam.TierProduction),
			opener:    readerOpener(corrupt),
			wantIssue: issue.EmbeddedDelimiterId,
			wantIs:    inventory.ErrEmbeddedDelimiter,
		},
		{
			name: "unknown format",
			cfg: func() *config.Config {
				cfg := testConfig(itam.TierUAT)
				cfg.Output.Format = "xml"
				return cfg
			}(),
			opener:    readerOpener(testExport),
			wantIssue: issue.InvalidOutputFormatId,
			wantIs:    inventory.ErrInvalidFormat,
		},
		{
			name:    "config load fails",
			loadErr: issue.NewErrorContext().WithOperation("load configuration").WithIssue(issue.ConfigLoadFailedId).Wrap(config.ErrInvalidConfig).BuildError(),
			opener:  readerOpener(testExport),
			wantIssue: issue.ConfigLoadFailedId,
			wantIs:    config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{cfg: tt.cfg, err: tt.loadErr}
			run := runApp(t, provider, tt.opener)
			if run.err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(run.err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", run.err, tt.wantIs)
			}
			entry, ok := issue.IssueOf(run.err)
			if !ok {
				t.Fatalf("no catalog entry linked to %v", run.err)
			}
			if entry.Id() != tt.wantIssue {
				t.Errorf("issue = %d, want %d", entry.Id(), tt.wantIssue)
			}
			if run.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want no document", run.stdout)
			}
		})
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "/opt/itam/export" }

func (failingSource) Read(context.Context) (string, error) {
	return "", &source.CommandError{Command: "/opt/itam/export", ExitCode: 2, Stderr: "login failed\n"}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("locate ITAM export").
		WithIssue(issue.SourceNotConfiguredId).
		WithSuggestion("Set ITAM_PATH to the export program").
		Wrap(source.ErrNoSource).
		BuildError()

	t.Run("default is one line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		app := &App{}
		app.renderError(&buf, err)

		got := buf.String()
		if strings.Count(got, "\n") != 1 {
			t.Errorf("expected a single line, got %q", got)
		}
		if !strings.Contains(got, "failed to locate ITAM export: no record source configured") {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("verbose adds details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		app := &App{verbose: true}
		app.renderError(&buf, err)

		got := buf.String()
		for _, want := range []string{"Set ITAM_PATH to the export program", "Error chain:", "No ITAM export configured!"} {
			if !strings.Contains(got, want) {
				t.Errorf("verbose output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("reported exit error is silent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		app := &App{verbose: true}
		app.renderError(&buf, &ExitError{Code: 1})
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		app := &App{}
		app.renderError(&buf, errors.New("boom"))
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 3}, 3},
		{"exit error without code", &ExitError{}, 1},
		{"wrapped exit error", &ExitError{Code: 2, Err: errors.New("boom")}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	t.Run("clean export", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{cfg: testConfig(itam.TierProduction)}
		run := runApp(t, provider, readerOpener(testExport), "check")
		if run.err != nil {
			t.Fatalf("run error: %v", run.err)
		}
		out := run.stdout.String()
		if !strings.Contains(out, "3 record line(s): 2 in scope, 1 out of scope") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		if !strings.Contains(out, "no problems found") {
			t.Errorf("expected a clean report:\n%s", out)
		}
	})

	t.Run("embedded delimiter fails", func(t *testing.T) {
		t.Parallel()

		export := testExport + "web02a,gz01,RHEL8,Production,Retail,,Web, server,R640,SN4,2020-01-01,CH07:4,Active\n"
		provider := &fakeProvider{cfg: testConfig(itam.TierProduction)}
		run := runApp(t, provider, readerOpener(export), "check")

		var exitErr *ExitError
		if !errors.As(run.err, &exitErr) || exitErr.Code != 1 {
			t.Fatalf("expected ExitError with code 1, got %v", run.err)
		}
		out := run.stdout.String()
		for _, want := range []string{"embedded-delimiter", "web02a", "suspected embedded commas"} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("duplicate host is a warning", func(t *testing.T) {
		t.Parallel()

		export := testExport + "db01a,gz01,RHEL8,Production,Retail,,Database,R640,SN9,2020-01-01,CH01:3,Active\n"
		provider := &fakeProvider{cfg: testConfig(itam.TierProduction)}
		run := runApp(t, provider, readerOpener(export), "check")
		if run.err != nil {
			t.Fatalf("run error: %v", run.err)
		}
		out := run.stdout.String()
		if !strings.Contains(out, "duplicate-host") || !strings.Contains(out, "1 finding(s)") {
			t.Errorf("expected a duplicate-host warning:\n%s", out)
		}
	})
}
