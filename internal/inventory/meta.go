// SPDX-License-Identifier: MPL-2.0

package inventory

import "strings"

const (
	metaGroupsKey      = "groups"
	metaGroupsPrefix   = metaGroupsKey + "="
	metaDirectiveSep   = "|"
	metaAssignSep      = "="
	metaGroupSep       = ";"
	metaForbiddenChars = ","
)

// DirectiveKind identifies what a meta directive declares.
type DirectiveKind int

const (
	// DirectiveGroups declares extra groups for the host.
	DirectiveGroups DirectiveKind = iota + 1
	// DirectiveVar assigns a host variable.
	DirectiveVar
)

type (
	// Directive is one parsed `key=value` segment of a meta field.
	Directive struct {
		Kind DirectiveKind
		// Groups is set for DirectiveGroups.
		Groups []string
		// Key and Value are set for DirectiveVar.
		Key   string
		Value string
	}

	// Meta is the parse result of a valid meta field.
	Meta struct {
		Directives []Directive
	}
)

// ValidMeta reports whether a meta field may be used. The check is a loose
// structural heuristic, not a grammar:
//   - it contains "=" and starts with "groups="
//   - it neither starts nor ends with a space and contains no comma
//   - with more than one "|" segment, there are at least as many "=" as segments
func ValidMeta(meta string) bool {
	if !strings.Contains(meta, metaAssignSep) {
		return false
	}
	if strings.HasPrefix(meta, " ") || strings.HasSuffix(meta, " ") {
		return false
	}
	if strings.ContainsAny(meta, metaForbiddenChars) {
		return false
	}
	if !strings.HasPrefix(meta, metaGroupsPrefix) {
		return false
	}
	segments := strings.Count(meta, metaDirectiveSep) + 1
	if segments > 1 && segments > strings.Count(meta, metaAssignSep) {
		return false
	}
	return true
}

// ParseMeta parses a meta field. It returns false for an invalid field, in
// which case the field contributes nothing.
func ParseMeta(meta string) (Meta, bool) {
	if !ValidMeta(meta) {
		return Meta{}, false
	}

	var m Meta
	for _, segment := range strings.Split(meta, metaDirectiveSep) {
		key, value, ok := strings.Cut(segment, metaAssignSep)
		if !ok {
			continue
		}

		if strings.TrimSpace(key) == metaGroupsKey {
			m.Directives = append(m.Directives, Directive{
				Kind:   DirectiveGroups,
				Groups: splitGroups(value),
			})
			continue
		}

		// "a=b=c" assigns b=c; the outer key only introduces the pair.
		if nestedKey, nestedValue, nested := strings.Cut(value, metaAssignSep); nested {
			key, value = nestedKey, nestedValue
		}
		m.Directives = append(m.Directives, Directive{Kind: DirectiveVar, Key: key, Value: value})
	}
	return m, true
}

func splitGroups(value string) []string {
	var groups []string
	for _, name := range strings.Split(value, metaGroupSep) {
		if name == "" {
			continue
		}
		groups = append(groups, name)
	}
	return groups
}

// Groups returns every group declared by the meta field, in declaration order.
func (m Meta) Groups() []string {
	var out []string
	for _, d := range m.Directives {
		if d.Kind == DirectiveGroups {
			out = append(out, d.Groups...)
		}
	}
	return out
}

// Vars returns the host variables assigned by the meta field. A later
// assignment to the same key wins.
func (m Meta) Vars() map[string]string {
	out := make(map[string]string)
	for _, d := range m.Directives {
		if d.Kind == DirectiveVar {
			out[d.Key] = d.Value
		}
	}
	return out
}
