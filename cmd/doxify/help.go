package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxify <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse      Extract frontmatter and blocks as JSON or YAML")
	fmt.Fprintln(w, "  render     Render documents to HTML")
	fmt.Fprintln(w, "  serve      Run the HTTP parse/render service")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'doxify help <command>' for details on a specific command.")
}

// printCommonUsage prints flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Parser:")
	fmt.Fprintln(w, "  -f, --format <s>          Input format: markdown, mdx (default: from extension)")
	fmt.Fprintln(w, "      --max-size <n>        Largest accepted document in bytes")
	fmt.Fprintln(w, "      --max-depth <n>       Maximum tree nesting depth")
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative links against this URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w, "      --log-json            Emit logs as JSON lines")
}

// printParseUsage prints usage for the parse command.
func printParseUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxify parse <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extract frontmatter metadata and content blocks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Write <name>.json|yaml files (default: stdout)")
	fmt.Fprintln(w, "      --out <s>             Encoding: json, yaml")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --lenient             Store empty blocks on frontmatter errors")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxify render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render documents to HTML. Directives become div.doxify-<name>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Write <name>.html files (default: stdout)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --page                Wrap output in a standalone HTML document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	fmt.Fprintln(w, "      --highlight <style>   Chroma style for code highlighting")
	fmt.Fprintln(w, "      --sanitize            Filter HTML through the default policy")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxify serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP service.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  POST /v1/parse     {\"content\": \"...\", \"format\": \"markdown\"}")
	fmt.Fprintln(w, "  POST /v1/render    {\"content\": \"...\", \"format\": \"mdx\"}")
	fmt.Fprintln(w, "  GET  /healthz")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address")
	fmt.Fprintln(w, "      --highlight <style>   Chroma style for code highlighting")
	fmt.Fprintln(w, "      --sanitize            Filter HTML through the default policy")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "parse":
		printParseUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: doxify version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: doxify help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
