// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/itaminv/itaminv/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "itaminv"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every itaminv environment variable.
	EnvPrefix = "ITAMINV"

	// LegacyTierEnv is the tier variable of the original inventory script.
	LegacyTierEnv = "IMPORT_ENV"
	// LegacyCommandEnv is the export command variable of the original inventory script.
	LegacyCommandEnv = "ITAM_PATH"
)

//go:embed config_schema.cue
var configSchema string

// envBindings maps config keys to environment variables, highest precedence first.
var envBindings = [][]string{
	{"tier", EnvPrefix + "_TIER", LegacyTierEnv},
	{"source.command", EnvPrefix + "_SOURCE_COMMAND", LegacyCommandEnv},
	{"source.args", EnvPrefix + "_SOURCE_ARGS"},
	{"source.runtime", EnvPrefix + "_SOURCE_RUNTIME"},
	{"source.file", EnvPrefix + "_SOURCE_FILE"},
	{"output.format", EnvPrefix + "_OUTPUT_FORMAT"},
	{"output.indent", EnvPrefix + "_OUTPUT_INDENT"},
	{"ui.verbose", EnvPrefix + "_UI_VERBOSE"},
}

// ConfigDir returns the itaminv configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns the config file path inside ConfigDir.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a Viper instance carrying the defaults and env bindings.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("tier", string(defaults.Tier))
	v.SetDefault("source.command", defaults.Source.Command)
	v.SetDefault("source.args", defaults.Source.Args)
	v.SetDefault("source.runtime", string(defaults.Source.Runtime))
	v.SetDefault("source.file", defaults.Source.File)
	v.SetDefault("output.format", string(defaults.Output.Format))
	v.SetDefault("output.indent", defaults.Output.Indent)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	for _, binding := range envBindings {
		if err := v.BindEnv(binding...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", binding[0], err)
		}
	}

	return v, nil
}

// loadWithOptions performs option-driven config loading. Precedence, highest
// first: opts.Overrides, environment, config file, defaults.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	resolvedPath, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'itaminv config init' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.FilePath = resolvedPath

	// Env vars and overrides bypass the CUE schema, so re-check what they can set.
	if err := validateLoaded(&cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the ITAMINV_* environment variables and command-line flags").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// resolveConfigPath returns the config file to load, or "" when none exists.
// An explicit ConfigFilePath must exist.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}

	fileName := ConfigFileName + "." + ConfigFileExt
	if cuePath := filepath.Join(cfgDir, fileName); fileExists(cuePath) {
		return cuePath, nil
	}

	localCuePath := fileName
	if opts.BaseDir != "" {
		localCuePath = filepath.Join(opts.BaseDir, fileName)
	}
	if fileExists(localCuePath) {
		return localCuePath, nil
	}

	return "", nil
}

// validateLoaded checks the values that can reach Config without passing
// the CUE schema. The tier is checked by the CLI before compiling.
func validateLoaded(cfg *Config) error {
	var errs []error
	if valid, fieldErrs := cfg.Source.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := cfg.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Concrete(false) is used because every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, path); err != nil {
		return err
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// decodeCUE validates data against #Config and decodes it to a map.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}

	return configMap, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists. It
// returns the file path and whether a file was written.
func CreateDefaultConfig() (string, bool, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration. Unset
// optional fields are written as comments.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// itaminv configuration file\n")
	sb.WriteString("// Environment variables (IMPORT_ENV, ITAM_PATH, ITAMINV_*) override these values.\n\n")

	if cfg.Tier != "" {
		fmt.Fprintf(&sb, "tier: %q\n", cfg.Tier)
	} else {
		sb.WriteString("// tier: \"Production\" | \"UAT\" | \"Lower\"\n")
	}

	sb.WriteString("\nsource: {\n")
	if cfg.Source.Command != "" {
		fmt.Fprintf(&sb, "\tcommand: %q\n", cfg.Source.Command)
	} else {
		sb.WriteString("\t// command: \"/opt/itam/bin/export\"\n")
	}
	if len(cfg.Source.Args) > 0 {
		quoted := make([]string, len(cfg.Source.Args))
		for i, a := range cfg.Source.Args {
			quoted[i] = fmt.Sprintf("%q", a)
		}
		fmt.Fprintf(&sb, "\targs: [%s]\n", strings.Join(quoted, ", "))
	}
	if cfg.Source.Runtime != "" {
		fmt.Fprintf(&sb, "\truntime: %q\n", cfg.Source.Runtime)
	}
	if cfg.Source.File != "" {
		fmt.Fprintf(&sb, "\tfile: %q\n", cfg.Source.File)
	}
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	if cfg.Output.Format != "" {
		fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	}
	fmt.Fprintf(&sb, "\tindent: %d\n", cfg.Output.Indent)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
