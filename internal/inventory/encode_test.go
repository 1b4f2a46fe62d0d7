// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/itaminv/itaminv/pkg/itam"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// groupHosts extracts doc[group]["hosts"] from a decoded document.
func groupHosts(t *testing.T, doc map[string]any, group string) []any {
	t.Helper()
	entry, ok := doc[group].(map[string]any)
	if !ok {
		t.Fatalf("group %q missing or wrong type: %T", group, doc[group])
	}
	hosts, ok := entry["hosts"].([]any)
	if !ok {
		t.Fatalf("group %q hosts wrong type: %T", group, entry["hosts"])
	}
	return hosts
}

func TestEncode_Formats(t *testing.T) {
	t.Parallel()

	inv := compileLines(t, itam.TierProduction, dbPrimary.line(), dbReplica.line())

	decoders := map[Format]func([]byte, *map[string]any) error{
		FormatJSON: func(b []byte, v *map[string]any) error { return json.Unmarshal(b, v) },
		FormatYAML: func(b []byte, v *map[string]any) error { return yaml.Unmarshal(b, v) },
		FormatTOML: func(b []byte, v *map[string]any) error { return toml.Unmarshal(b, v) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, inv.Document(), format, DefaultIndent); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			var doc map[string]any
			if err := decode(buf.Bytes(), &doc); err != nil {
				t.Fatalf("decode %s: %v\n%s", format, err, buf.String())
			}

			if got := groupHosts(t, doc, "dbhost0_cluster"); len(got) != 2 {
				t.Errorf("dbhost0_cluster hosts = %v", got)
			}
			meta, ok := doc[MetaKey].(map[string]any)
			if !ok {
				t.Fatalf("_meta wrong type: %T", doc[MetaKey])
			}
			hostvars, ok := meta["hostvars"].(map[string]any)
			if !ok || len(hostvars) != 2 {
				t.Fatalf("hostvars = %v", meta["hostvars"])
			}
			if len(doc) != len(inv.Groups)+1 {
				t.Errorf("document has %d keys, want %d groups plus _meta", len(doc), len(inv.Groups))
			}
		})
	}
}

func TestEncode_JSONShape(t *testing.T) {
	t.Parallel()

	inv := compileLines(t, itam.TierProduction, dbPrimary.line())
	var buf bytes.Buffer
	if err := Encode(&buf, inv.Document(), FormatJSON, DefaultIndent); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "\n    \"_meta\": {") {
		t.Errorf("expected four-space indentation, got:\n%s", out)
	}
	if !strings.Contains(out, `"Membership": [`) {
		t.Errorf("hostvars lack Membership:\n%s", out)
	}

	compact, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if bytes.Contains(compact, []byte("\n")) {
		t.Error("MarshalJSON() output should be compact")
	}
}

func TestEncode_EmptyGroupIsEmptyList(t *testing.T) {
	t.Parallel()

	inv := Assemble(itam.TierUAT, map[string]Host{}, []string{"lonely"}, nil)
	var buf bytes.Buffer
	if err := Encode(&buf, inv.Document(), FormatJSON, 0); err != nil {
		t.Fatal(err)
	}
	want := `{"_meta":{"hostvars":{}},"lonely":{"hosts":[]}}` + "\n"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Encode(&bytes.Buffer{}, map[string]any{}, Format("xml"), 0)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Encode() error = %v, want ErrInvalidFormat", err)
	}
}
