package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"tacc/pkg/compiler"
	"tacc/pkg/utils"
)

type config struct {
	showTokens  bool
	showSymbols bool
	scoped      bool
	outDir      string
	jobs        int
	verbose     bool
}

// result is the outcome of compiling one input.
type result struct {
	arg  string
	name string
	prog *compiler.Program
	err  error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tacc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	fs.BoolVar(&cfg.showTokens, "tokens", false, "print the token stream before the code")
	fs.BoolVar(&cfg.showSymbols, "symbols", false, "print the symbol table after the code")
	fs.BoolVar(&cfg.scoped, "scoped", false, "give each block its own scope")
	fs.StringVar(&cfg.outDir, "out", "", "write each listing to <dir>/<name>.tac instead of stdout")
	fs.IntVar(&cfg.jobs, "j", runtime.NumCPU(), "number of files compiled in parallel")
	fs.BoolVar(&cfg.verbose, "v", false, "print progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: tacc [flags] file... (use - for stdin)")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "nothing to do: provide one or more source files, or - for stdin")
		fs.Usage()
		return 2
	}
	stdinUses := 0
	for _, arg := range inputs {
		if arg == utils.StdinPath {
			stdinUses++
		}
	}
	if stdinUses > 1 {
		fmt.Fprintln(stderr, "standard input (-) can only be given once")
		return 2
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}

	results, err := compileAll(context.Background(), inputs, stdin, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return 1
	}

	status := 0
	for _, res := range results {
		if res.err != nil {
			reportError(stderr, res.arg, res.err)
			status = 1
			continue
		}
		if err := emitResult(stdout, res, cfg, len(results) > 1); err != nil {
			fmt.Fprintf(stderr, "failed to write listing for %q: %v\n", res.arg, err)
			status = 1
			continue
		}
		if cfg.verbose {
			fmt.Fprintf(stderr, "compiled %s: %d instructions\n", res.arg, len(res.prog.Code))
		}
	}
	return status
}

// compileAll compiles every input concurrently and returns the results in
// argument order. Only read failures abort the run; compile errors are kept
// per file.
func compileAll(ctx context.Context, inputs []string, stdin io.Reader, cfg config) ([]result, error) {
	var opts []compiler.Option
	if cfg.scoped {
		opts = append(opts, compiler.WithBlockScopes(true))
	}

	results := make([]result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)

	for i, arg := range inputs {
		i, arg := i, arg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, src, err := utils.ReadSource(arg, stdin)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			prog, err := compiler.Compile(src, opts...)
			results[i] = result{arg: arg, name: name, prog: prog, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func reportError(w io.Writer, arg string, err error) {
	var (
		lexErr  *compiler.LexicalError
		declErr *compiler.DeclarationError
		synErr  *compiler.SyntaxError
	)
	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintf(w, "%s: lex error: %v\n", arg, err)
	case errors.As(err, &declErr):
		fmt.Fprintf(w, "%s: declaration error: %v\n", arg, err)
	case errors.As(err, &synErr):
		fmt.Fprintf(w, "%s: parse error: %v\n", arg, err)
	default:
		fmt.Fprintf(w, "%s: %v\n", arg, err)
	}
}

func emitResult(stdout io.Writer, res result, cfg config, multi bool) error {
	var b strings.Builder
	if cfg.showTokens {
		fmt.Fprintf(&b, "Tokens (%d)\n", len(res.prog.Tokens))
		for _, tok := range res.prog.Tokens {
			fmt.Fprintln(&b, " ", tok)
		}
		fmt.Fprintln(&b)
	}
	b.WriteString(res.prog.TAC())
	if cfg.showSymbols {
		fmt.Fprintln(&b)
		b.WriteString(res.prog.Symbols.String())
	}

	if cfg.outDir != "" && res.arg != utils.StdinPath {
		if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(utils.OutputPath(res.name, cfg.outDir), []byte(b.String()), 0o644)
	}

	if multi {
		fmt.Fprintf(stdout, "== %s ==\n", res.arg)
	}
	_, err := io.WriteString(stdout, b.String())
	return err
}
