// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every bound variable. Viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, binding := range envBindings {
		for _, name := range binding[1:] {
			t.Setenv(name, "")
		}
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
