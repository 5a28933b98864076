// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when known, the user config location to create.
func ForConfigNotFound(userConfigPath string) string {
	hint := "use --config /path/to/file.yaml or set DOXIFY_CONFIG"
	if userConfigPath != "" {
		hint += ", or create " + userConfigPath
	}
	return format(hint)
}

// ForFrontmatter returns hints for documents whose frontmatter cannot be read.
func ForFrontmatter() string {
	return formatHints([]string{
		"close the block with a line containing only ---",
		"the block must be a YAML mapping",
		"use --lenient to store an empty result instead",
	})
}

// ForContentTooLarge returns a hint about raising the size limit.
func ForContentTooLarge() string {
	return format("raise --max-size or parser.maxContentSize in the config file")
}

// ForNotMarkdown returns a hint for explicit inputs without a markdown extension.
func ForNotMarkdown() string {
	return format("use --format markdown or --format mdx to accept other extensions")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for unknown highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForAddrInUse returns a hint for listen failures.
func ForAddrInUse() string {
	return format("pick another --addr or set DOXIFY_ADDR")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
