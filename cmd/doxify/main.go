package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/fileutil"
	"github.com/doxify/go-doxify/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(os.Args, env.Stderr)))

	ctx, stop := notifyContext(context.Background())
	err := run(ctx, os.Args, env)
	stop()

	if err != nil {
		fmt.Fprintln(env.Stderr, err.Error()+hintFor(err))
	}
	os.Exit(exitCodeFor(err))
}

// run dispatches args[1] to a command. args[0] is the program name.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "parse":
		return runParse(ctx, rest, env)
	case "render":
		return runRender(ctx, rest, env)
	case "serve":
		return runServe(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "doxify %s (%s)\n", Version, runtime.Version())
		return nil
	case "help", "--help", "-h":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// hintFor returns an actionable hint for err, or "".
// Config-not-found hints are attached where the config name is known.
func hintFor(err error) string {
	switch {
	case errors.Is(err, doxify.ErrFrontmatter):
		return hints.ForFrontmatter()
	case errors.Is(err, doxify.ErrContentTooLarge):
		return hints.ForContentTooLarge()
	case errors.Is(err, fileutil.ErrNotMarkdown):
		return hints.ForNotMarkdown()
	case errors.Is(err, config.ErrUnknownStyle):
		return hints.ForStyleNotFound(styles.Names())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddrInUse()
	}
	return ""
}

// usageError classifies a flag parsing error. --help is not an error.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// maxprocsLogger reports GOMAXPROCS adjustments only in verbose mode.
func maxprocsLogger(args []string, w io.Writer) func(string, ...any) {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return func(format string, v ...any) {
				fmt.Fprintf(w, format+"\n", v...)
			}
		}
	}
	return func(string, ...any) {}
}

// notifyContext returns a context that is canceled when an interrupt
// or termination signal is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
