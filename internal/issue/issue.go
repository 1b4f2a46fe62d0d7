// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidTierId
	SourceNotConfiguredId
	SourceFailedId
	EmbeddedDelimiterId
	InvalidOutputFormatId
	InvalidRuntimeId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const ansibleInventoryDocs HttpLink = "https://docs.ansible.com/ansible/latest/dev_guide/developing_inventory.html"

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Search locations (in order of precedence):
1. The file given with ` + "`--config`" + `
2. ` + "`config.cue`" + ` in the itaminv configuration directory
3. ` + "`config.cue`" + ` in the current directory

## Things you can try:
- Print the effective configuration:
~~~
$ itaminv config show
~~~

- Regenerate a default file:
~~~
$ itaminv config init
~~~

## Example config.cue:
~~~cue
tier: "Production"
source: {
	command: "/opt/itam/bin/export"
	runtime: "native"
}
output: {
	format: "json"
	indent: 4
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	invalidTierIssue = &Issue{
		id: InvalidTierId,
		mdMsg: `
# Invalid deployment tier!

The inventory is always compiled for exactly one tier. Each tier selects
the ITAM environments it contains:

| Tier       | Environments      |
|------------|-------------------|
| Production | Production, DR    |
| UAT        | UAT               |
| Lower      | Development, QA   |

## Things you can try:
- Export the tier before running Ansible:
~~~
$ export IMPORT_ENV=Production
~~~

- Or pass it explicitly:
~~~
$ itaminv --tier UAT --list
~~~`,
		extLinks: []HttpLink{ansibleInventoryDocs},
	}

	sourceNotConfiguredIssue = &Issue{
		id: SourceNotConfiguredId,
		mdMsg: `
# No ITAM export configured!

itaminv needs either a command that prints the ITAM export or a saved
export file.

## Things you can try:
- Point ` + "`ITAM_PATH`" + ` at the export program:
~~~
$ export ITAM_PATH=/opt/itam/bin/export
~~~

- Read a saved export (use ` + "`-`" + ` for stdin):
~~~
$ itaminv --source-file export.csv --list
~~~

- Or set ` + "`source.command`" + ` in config.cue.`,
	}

	sourceFailedIssue = &Issue{
		id: SourceFailedId,
		mdMsg: `
# The ITAM export failed!

The export command exited with a non-zero status, or the export file could
not be read. No inventory was written.

## Things you can try:
- Run the export by hand and inspect its stderr
- Check credentials and network access of the ITAM system
- Try the embedded shell if the host shell is unavailable:
~~~
$ itaminv --runtime virtual --list
~~~`,
	}

	embeddedDelimiterIssue = &Issue{
		id: EmbeddedDelimiterId,
		mdMsg: `
# A record contains an embedded comma!

Every ITAM record must have exactly 12 comma-separated fields. A record
with more fields matched a group but produced no host, which means a comma
slipped into one of its values. The whole inventory is rejected so that
Ansible never runs against a partial host list.

## Things you can try:
- Locate the offending records:
~~~
$ itaminv check
~~~

- Remove the comma from the field in the ITAM system
- Re-run the inventory`,
	}

	invalidOutputFormatIssue = &Issue{
		id: InvalidOutputFormatId,
		mdMsg: `
# Unknown output format!

Supported formats are ` + "`json`" + ` (what Ansible reads), ` + "`yaml`" + ` and ` + "`toml`" + `.

## Things you can try:
~~~
$ itaminv --format yaml --list
~~~`,
	}

	invalidRuntimeIssue = &Issue{
		id: InvalidRuntimeId,
		mdMsg: `
# Unknown source runtime!

The export command can run in one of two runtimes:

- ` + "`native`" + `: executed directly on the host
- ` + "`virtual`" + `: interpreted by the embedded POSIX shell

## Things you can try:
~~~cue
source: runtime: "virtual"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The export program or file could not be accessed.

## Things you can try:
- Make sure the export program is executable:
~~~
$ chmod +x /opt/itam/bin/export
~~~

- Run itaminv as the user Ansible runs as
- Check permissions on the configuration directory`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidTierIssue.Id():         invalidTierIssue,
		sourceNotConfiguredIssue.Id(): sourceNotConfiguredIssue,
		sourceFailedIssue.Id():        sourceFailedIssue,
		embeddedDelimiterIssue.Id():   embeddedDelimiterIssue,
		invalidOutputFormatIssue.Id(): invalidOutputFormatIssue,
		invalidRuntimeIssue.Id():      invalidRuntimeIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, iss := range issues {
		out = append(out, iss)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
