package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/fileutil"
)

// stdinArg selects standard input as a document source.
const stdinArg = "-"

// stdinName labels standard input in messages and output file names.
const stdinName = "stdin"

// Sentinel errors for input discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// inputFile is a single document to process.
type inputFile struct {
	Path       string // source path, or "-" for stdin
	OutputPath string // empty = write to stdout
	Format     doxify.Format
}

// IsStdin reports whether the document comes from standard input.
func (f inputFile) IsStdin() bool {
	return f.Path == stdinArg
}

// DisplayName returns the name used in status messages.
func (f inputFile) DisplayName() string {
	if f.IsStdin() {
		return "<" + stdinName + ">"
	}
	return f.Path
}

// discoverInputs expands arguments into documents. Directories are walked
// for markdown files; explicit files must carry a markdown extension unless
// forced is set. outputDir and outExt determine output paths.
func discoverInputs(args []string, outputDir, outExt string, forced doxify.Format) ([]inputFile, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []inputFile
	seenStdin := false
	for _, arg := range args {
		if arg == stdinArg {
			if seenStdin {
				return nil, fmt.Errorf("%w: stdin given more than once", ErrUsage)
			}
			seenStdin = true
			files = append(files, inputFile{
				Path:       stdinArg,
				OutputPath: resolveOutputPath(stdinName+".md", outputDir, "", outExt),
				Format:     formatOr(forced, doxify.FormatMarkdown),
			})
			continue
		}

		found, err := discoverPath(arg, outputDir, outExt, forced)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// discoverPath handles a single file or directory argument.
func discoverPath(inputPath, outputDir, outExt string, forced doxify.Format) ([]inputFile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		format, err := formatForFile(inputPath, forced)
		if err != nil {
			return nil, err
		}
		return []inputFile{{
			Path:       inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, "", outExt),
			Format:     format,
		}}, nil
	}

	var files []inputFile
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		format, err := formatForFile(path, forced)
		if err != nil {
			return err
		}
		files = append(files, inputFile{
			Path:       path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath, outExt),
			Format:     format,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}
	return files, nil
}

// formatForFile picks the forced format or derives one from the extension.
func formatForFile(path string, forced doxify.Format) (doxify.Format, error) {
	if forced != "" {
		return forced, nil
	}
	name, err := fileutil.FormatForPath(path)
	if err != nil {
		return "", err
	}
	return doxify.ParseFormat(name)
}

// resolveOutputPath determines the output path for a document.
// Without an output directory results go to stdout.
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string) string {
	if outputDir == "" {
		return ""
	}

	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+outExt)
		}
	}
	return filepath.Join(outputDir, base+outExt)
}

func formatOr(f, fallback doxify.Format) doxify.Format {
	if f == "" {
		return fallback
	}
	return f
}
