package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/doxify/go-doxify/internal/tree"
)

// ClassPrefix is prepended to the directive name to form its CSS hook.
const ClassPrefix = "doxify-"

// defaultDirectiveName is used for directives written without a name.
const defaultDirectiveName = "note"

// directive rewrites any directive node into a div. The class list starts
// with the doxify-<name> hook followed by the directive's own classes; the
// other attributes keep their source order. Event handler attributes are
// never emitted.
func (r *Renderer) directive(parent *html.Node, n *tree.Node) {
	div := element(atom.Div)
	setAttr(div, "class", DirectiveClass(n))
	for _, a := range n.Attributes {
		if a.Key == "class" || isEventHandler(a.Key) {
			continue
		}
		setAttr(div, a.Key, a.Value)
	}

	if n.Kind == tree.KindTextDirective {
		r.children(div, n)
		parent.AppendChild(div)
		return
	}
	div.AppendChild(text("\n"))
	r.children(div, n)
	if n.Kind == tree.KindLeafDirective {
		div.AppendChild(text("\n"))
	}
	appendBlock(parent, div)
}

// DirectiveClass returns the class attribute value for a directive node.
func DirectiveClass(n *tree.Node) string {
	name := n.Name
	if name == "" {
		name = defaultDirectiveName
	}
	classes := []string{ClassPrefix + name}
	if extra, ok := n.Attributes.Get("class"); ok {
		classes = append(classes, strings.Fields(extra)...)
	}
	return strings.Join(classes, " ")
}

func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
