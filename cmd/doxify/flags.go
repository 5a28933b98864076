package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logJSON bool
}

// parserFlags holds flags that configure the library Parser.
type parserFlags struct {
	format         string
	maxContentSize int
	maxDepth       int
	baseURL        string
}

// parseFlags holds all flags for the parse command.
type parseFlags struct {
	common    commonFlags
	parser    parserFlags
	output    string
	outFormat string
	workers   int
	lenient   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	parser    parserFlags
	output    string
	workers   int
	highlight string
	sanitize  bool
	page      bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	parser    parserFlags
	addr      string
	highlight string
	sanitize  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
	fs.BoolVar(&f.logJSON, "log-json", false, "emit logs as JSON lines")
}

// addParserFlags adds library option flags to a FlagSet.
func addParserFlags(fs *flag.FlagSet, f *parserFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "input format: markdown, mdx (default: from extension)")
	fs.IntVar(&f.maxContentSize, "max-size", 0, "largest accepted document in bytes (0 = config)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum tree nesting depth (0 = config)")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative links against this URL")
}

// addHTMLFlags adds HTML output flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, highlight *string, sanitize *bool) {
	fs.StringVar(highlight, "highlight", "", "chroma style for code highlighting (empty = off)")
	fs.BoolVar(sanitize, "sanitize", false, "filter HTML through the default sanitizer policy")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseParseFlags parses parse command flags and returns positional args.
func parseParseFlags(args []string, stderr io.Writer) (*parseFlags, []string, error) {
	f := &parseFlags{}
	fs := newFlagSet("parse", printParseUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "write <name>.json|yaml files into this directory")
	fs.StringVar(&f.outFormat, "out", "", "result encoding: json, yaml (default: config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.lenient, "lenient", false, "store empty blocks instead of failing on bad frontmatter")

	addCommonFlags(fs, &f.common)
	addParserFlags(fs, &f.parser)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", printRenderUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "write <name>.html files into this directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.page, "page", false, "wrap output in a standalone HTML document")

	addCommonFlags(fs, &f.common)
	addParserFlags(fs, &f.parser)
	addHTMLFlags(fs, &f.highlight, &f.sanitize)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, stderr)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: config)")

	addCommonFlags(fs, &f.common)
	addParserFlags(fs, &f.parser)
	addHTMLFlags(fs, &f.highlight, &f.sanitize)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
