package render

import (
	"fmt"
	"html"
	"strings"
)

// pageTemplate wraps a rendered fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
%s</head>
<body>
%s</body>
</html>
`

// Page wraps fragment in a standalone HTML5 document. The title is escaped
// and css, when present, is embedded in a <style> block.
func Page(fragment, title, css string) string {
	if title == "" {
		title = "Document"
	}
	var style string
	if css != "" {
		style = "<style>" + sanitizeCSS(css) + "</style>\n"
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), style, fragment)
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
