// Package tree defines the document syntax tree shared by the block extractor
// and the HTML renderer.
//
// A Node owns its children exclusively; trees are built fresh per parse and
// never contain cycles. Consumers dispatch on Kind with a switch.
package tree

// Kind discriminates node types.
type Kind uint8

// Node kinds. The set is closed.
const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindDelete
	KindInlineCode
	KindBreak
	KindCode
	KindBlockquote
	KindList
	KindListItem
	KindThematicBreak
	KindTable
	KindTableRow
	KindTableCell
	KindLink
	KindImage
	KindHTML
	KindContainerDirective
	KindLeafDirective
	KindTextDirective
	KindFootnoteReference
	KindFootnoteDefinition
)

var kindNames = [...]string{
	KindDocument:           "document",
	KindHeading:            "heading",
	KindParagraph:          "paragraph",
	KindText:               "text",
	KindEmphasis:           "emphasis",
	KindStrong:             "strong",
	KindDelete:             "delete",
	KindInlineCode:         "inlineCode",
	KindBreak:              "break",
	KindCode:               "code",
	KindBlockquote:         "blockquote",
	KindList:               "list",
	KindListItem:           "listItem",
	KindThematicBreak:      "thematicBreak",
	KindTable:              "table",
	KindTableRow:           "tableRow",
	KindTableCell:          "tableCell",
	KindLink:               "link",
	KindImage:              "image",
	KindHTML:               "html",
	KindContainerDirective: "containerDirective",
	KindLeafDirective:      "leafDirective",
	KindTextDirective:      "textDirective",
	KindFootnoteReference:  "footnoteReference",
	KindFootnoteDefinition: "footnoteDefinition",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsDirective reports whether k is one of the three directive kinds.
func (k Kind) IsDirective() bool {
	return k == KindContainerDirective || k == KindLeafDirective || k == KindTextDirective
}

// Align is a table column alignment.
type Align uint8

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

// Node is a tagged-union tree node. Only the fields relevant to Kind are set.
type Node struct {
	Kind     Kind
	Children []*Node

	// Value holds the literal of Text, InlineCode, Code and HTML nodes.
	Value string

	// Heading
	Depth int
	ID    string

	// Code
	Lang string
	Meta string

	// Link, Image
	URL   string
	Title string
	Alt   string

	// List, ListItem
	Ordered bool
	Start   int
	Spread  bool
	Checked *bool

	// Table, TableRow
	Align  []Align
	Header bool

	// Directives
	Name       string
	Attributes Attributes

	// Footnotes. Index is the 1-based order of first reference.
	Label string
	Index int
}

// Append adds children to n and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attribute is a single directive attribute.
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps directive attributes in source order.
type Attributes []Attribute

// Get returns the value for key and whether it is present.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key or appends a new one.
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value})
}

// Map copies the attributes into a map. It returns nil when empty.
func (a Attributes) Map() map[string]any {
	if len(a) == 0 {
		return nil
	}
	m := make(map[string]any, len(a))
	for _, attr := range a {
		m[attr.Key] = attr.Value
	}
	return m
}
