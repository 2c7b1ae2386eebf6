// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ConfigNotFoundId Id = iota + 1
	ManifestParseErrorId
	IncompleteAssetId
	ResolutionFailedId
	InvariantViolationId
)

type (
	Id int

	MarkdownMsg string

	// Issue is a catalog entry with Markdown guidance for one class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance with the given glamour style ("dark", "light",
// "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# No configuration found!

minipack needs to know which entry manifests to resolve.

## Things you can try:
- Create a ` + "`minipack.cue`" + ` in your project directory:
~~~cue
target: "wx"
output: "dist"
entries: ["src/app.json"]
~~~

- Or point to a config file explicitly:
~~~
$ minipack --config path/to/minipack.cue resolve
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse an entry manifest!

An ` + "`app.json`" + ` listed in ` + "`entries`" + ` is missing or is not valid JSON.

## Common issues:
- Trailing commas or comments in JSON
- ` + "`pages`" + ` is not a list of strings
- ` + "`subPackages`" + ` entries without a ` + "`root`" + `

## Things you can try:
- Check the error message above for the offending field
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	incompleteAssetIssue = &Issue{
		id: IncompleteAssetId,
		mdMsg: `
# Page or component is incomplete!

Every page and component needs at least two of its companion files
(template, config, script, stylesheet) next to each other with the same
base name. Incomplete ones are left out of the manifest.

## Things you can try:
- Add the missing ` + "`.wxml`" + ` / ` + "`.js`" + ` file
- Remove the page from ` + "`pages`" + ` if it is no longer used`,
	}

	resolutionFailedIssue = &Issue{
		id: ResolutionFailedId,
		mdMsg: `
# Could not resolve a component!

A ` + "`usingComponents`" + ` entry points to a file that does not exist.

## Things you can try:
- Check the path for typos; relative paths start from the JSON file
- Paths starting with ` + "`/`" + ` are resolved from the app root
- Add an alias in ` + "`minipack.cue`" + `:
~~~cue
alias: {
  "@components": "src/components"
}
~~~`,
	}

	invariantViolationIssue = &Issue{
		id: InvariantViolationId,
		mdMsg: `
# Internal invariant violated!

minipack was called in a way it does not support. This is a bug in
the integration, not in your project files.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` and report the error chain`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():     configNotFoundIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		incompleteAssetIssue.Id():    incompleteAssetIssue,
		resolutionFailedIssue.Id():   resolutionFailedIssue,
		invariantViolationIssue.Id(): invariantViolationIssue,
	}
)

// Values returns all catalog entries ordered by id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError maps an error to its catalog entry, or nil when none applies.
func ForError(err error) *Issue {
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return Get(ConfigNotFoundId)
	case errors.Is(err, ErrConfiguration):
		return Get(ManifestParseErrorId)
	case errors.Is(err, ErrResolution):
		return Get(ResolutionFailedId)
	case errors.Is(err, ErrIncompleteAsset):
		return Get(IncompleteAssetId)
	case errors.Is(err, ErrInvariantViolation):
		return Get(InvariantViolationId)
	default:
		return nil
	}
}
