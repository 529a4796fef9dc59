package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/km-arc/go-simple-di/framework/validation"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Options is the parsed command line. Empty flag values leave the
// corresponding configuration untouched.
type Options struct {
	EnvFile   string
	Dir       string
	LogLevel  string
	LogFormat string
	Addr      string

	Command string
	Args    []string
}

// commands maps each command to the number of arguments it takes.
var commands = map[string]int{
	"tree":  1,
	"check": 0,
	"get":   1,
	"tags":  1,
	"serve": 0,
}

const usage = `
simpledi - inspect and serve a dependency injection container.

Usage:
  simpledi [options] <command> [argument]

Commands:
  tree <name>   Print the dependency tree of a module.
  check         Report missing dependencies, cycles and owner problems.
  get <name>    Resolve a module and print it.
  tags <tag>    List the modules carrying a tag.
  serve         Serve the read-only inspection API.

Options:
`

// Parse processes command-line arguments. It returns the Options, a boolean
// telling the caller to exit cleanly (help was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("simpledi", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	opts := &Options{}
	flagSet.StringVar(&opts.EnvFile, "env", ".env", "Path to the .env file.")
	flagSet.StringVar(&opts.Dir, "dir", "", "Directory manifests are discovered from (overrides DI_ROOT).")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error' (overrides LOG_LEVEL).")
	flagSet.StringVar(&opts.LogFormat, "log-format", "", "Log output format: 'text' or 'json' (overrides LOG_FORMAT).")
	flagSet.StringVar(&opts.Addr, "addr", "", "Listen address for serve (overrides INSPECT_ADDR).")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}

	v := validation.Make(map[string]string{
		"log-level":  opts.LogLevel,
		"log-format": opts.LogFormat,
	}, validation.Rules{
		"log-level":  "nullable|in:debug,info,warn,error",
		"log-format": "nullable|in:text,json",
	})
	if err := v.Validate(); err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, false, usageError("missing command")
	}
	opts.Command = strings.ToLower(flagSet.Arg(0))
	opts.Args = flagSet.Args()[1:]

	want, ok := commands[opts.Command]
	if !ok {
		return nil, false, usageError("unknown command %q", opts.Command)
	}
	if len(opts.Args) != want {
		return nil, false, usageError("%s: expected %d argument(s), got %d", opts.Command, want, len(opts.Args))
	}
	return opts, false, nil
}
