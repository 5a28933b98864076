package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var alignValues = regexp.MustCompile(`^(left|center|right)$`)

// DefaultPolicy returns the sanitizer used for untrusted previews: the
// bluemonday UGC policy plus what rendered documents need to keep their
// styling hooks (classes, ids, data attributes and disabled task checkboxes).
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id", "role").Globally()
	p.AllowDataAttributes()
	p.AllowElements("section", "input")
	p.AllowAttrs("type").Matching(bluemonday.SpaceSeparatedTokens).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("align").Matching(alignValues).OnElements("td", "th")
	return p
}
