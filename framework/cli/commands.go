package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/km-arc/go-simple-di/framework/app"
	"github.com/km-arc/go-simple-di/framework/config"
	"github.com/km-arc/go-simple-di/framework/graph"
	"github.com/km-arc/go-simple-di/framework/loader"
)

// Main parses args, runs the command and returns the process exit code.
// Errors are printed to stderr.
func Main(ctx context.Context, args []string, catalog *loader.Catalog, stdout, stderr io.Writer) int {
	opts, exit, err := Parse(args, stderr)
	if err == nil && !exit {
		err = Run(ctx, opts, catalog, stdout, stderr)
	}
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, newStyles(stderr).bad.Render("error: ")+err.Error())
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Config loads the configuration for opts: the env file first, then the
// flags on top.
func Config(opts *Options) *config.Config {
	cfg := config.Load(opts.EnvFile)
	if opts.Dir != "" {
		cfg.Loader.Root = opts.Dir
		cfg.Loader.Patterns = nil
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.Addr != "" {
		cfg.Inspect.Addr = opts.Addr
	}
	return cfg
}

// Run boots an application for opts and executes its command. Logs go to
// stderr, command output to stdout.
func Run(ctx context.Context, opts *Options, catalog *loader.Catalog, stdout, stderr io.Writer) error {
	a, err := app.New(Config(opts), app.WithCatalog(catalog), app.WithLogOutput(stderr))
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	if err := a.Boot(); err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	st := newStyles(stdout)
	switch opts.Command {
	case "tree":
		return tree(a, st, stdout, opts.Args[0])
	case "check":
		return check(a, st, stdout)
	case "get":
		return get(a, st, stdout, opts.Args[0])
	case "tags":
		return tags(a, st, stdout, opts.Args[0])
	case "serve":
		return a.Run(ctx)
	}
	return usageError("unknown command %q", opts.Command)
}

func tree(a *app.Application, st styles, w io.Writer, name string) error {
	root, ok := graph.Tree(a.Container, name)
	if !ok {
		return &ExitError{Code: 1, Message: fmt.Sprintf("module %q is not registered", name)}
	}
	fmt.Fprint(w, graph.Render(root, st.label))
	return nil
}

func check(a *app.Application, st styles, w io.Writer) error {
	problems := graph.Check(a.Container)
	if len(problems) == 0 {
		fmt.Fprintln(w, st.ok.Render(fmt.Sprintf("✓ %d modules, no problems found", len(a.Names()))))
		return nil
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = fmt.Sprintf("%s %s", st.muted.Render(p.Module+":"), p.Message)
	}
	fmt.Fprintln(w, st.problem.Render(strings.Join(lines, "\n")))
	return &ExitError{Code: 1, Message: fmt.Sprintf("%d problem(s) found", len(problems))}
}

func get(a *app.Application, st styles, w io.Writer, name string) error {
	inst, found, err := a.Get(name)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	if !found {
		return &ExitError{Code: 1, Message: fmt.Sprintf("module %q is not registered", name)}
	}
	fmt.Fprintf(w, "%s = %v\n", st.title.Render(name), inst)
	return nil
}

func tags(a *app.Application, st styles, w io.Writer, tag string) error {
	names := a.Tagged(tag)
	fmt.Fprintln(w, st.title.Render("#"+tag))
	if len(names) == 0 {
		fmt.Fprintln(w, st.muted.Render("  (no modules)"))
		return nil
	}
	for _, name := range names {
		info, _ := a.Lookup(name)
		fmt.Fprintf(w, "  %s %s\n", name, st.muted.Render("["+info.Lifecycle.String()+"]"))
	}
	return nil
}
