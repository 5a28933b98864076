// Package doxify parses documentation pages into frontmatter metadata and a
// flat list of content blocks, and renders them to HTML.
//
// # Quick Start
//
//	result, err := doxify.Parse("---\ntitle: Intro\n---\n# Hello\n\nWorld", doxify.FormatMarkdown)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Metadata["title"], len(result.Blocks))
//
//	html, err := doxify.Render(":::warning\nCareful\n:::", doxify.FormatMarkdown)
//
// # Pipeline
//
// Both operations share the first stages:
//
//  1. Input normalization (BOM, line endings, NUL bytes)
//  2. Frontmatter extraction (YAML between --- delimiters)
//  3. Markdown parsing via Goldmark (CommonMark, GFM, footnotes, directives)
//
// Parse then walks the tree into blocks. Render maps it onto an HTML tree in
// which every directive becomes a div with a doxify-<name> class.
//
// # Directives
//
// Three directive forms are recognized:
//
//	:::name[label]{#id .class key=value}   container, closed by :::
//	::name[label]{attrs}                    leaf, one line
//	:name[label]{attrs}                     text, inline
//
// Unnamed containers default to "note". Malformed markers stay literal text.
//
// # Blocks
//
// Extraction visits every node, so a paragraph inside a blockquote yields a
// blockquote block and a paragraph block with the same text. Stored blocks
// depend on this shape.
//
// # Configuration
//
//	p := doxify.NewParser(
//	    doxify.WithLogger(logger),
//	    doxify.WithMaxContentSize(1<<20),
//	    doxify.WithHighlighting("github"),
//	    doxify.WithSanitizer(doxify.DefaultSanitizer()),
//	)
//
// A Parser is safe for concurrent use. ParseOrEmpty suits write paths that
// must store something even when frontmatter is broken.
package doxify
