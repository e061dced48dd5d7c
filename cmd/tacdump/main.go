package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sanity-io/litter"

	"tacc/pkg/compiler"
	"tacc/pkg/utils"
)

const testSource = `int x = 10;
int y = 20;
if (x < y) {
	x = y - x;
}
return x;
`

func main() {
	useLitter := flag.Bool("litter", false, "dump tokens, symbols and code as Go values")
	scoped := flag.Bool("scoped", false, "give each block its own scope")
	flag.Parse()

	src := testSource
	if flag.NArg() > 0 {
		_, data, err := utils.ReadSource(flag.Arg(0), os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = data
	}

	if err := dump(os.Stdout, src, *useLitter, *scoped); err != nil {
		os.Exit(1)
	}
}

func dump(w io.Writer, src string, useLitter, scoped bool) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		return err
	}

	fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
	if useLitter {
		fmt.Fprintln(w, litter.Sdump(tokens))
	} else {
		for _, tok := range tokens {
			fmt.Fprintln(w, " ", tok)
		}
	}
	fmt.Fprintln(w)

	// Parse and emit
	syms, gen, err := compiler.Parse(tokens, src, compiler.Options{BlockScopes: scoped})
	if err != nil {
		var declErr *compiler.DeclarationError
		if errors.As(err, &declErr) {
			fmt.Fprintln(os.Stderr, "declaration error:", err)
		} else {
			fmt.Fprintln(os.Stderr, "parse error:", err)
		}
		return err
	}

	fmt.Fprintln(w, "Three-Address Code")
	if useLitter {
		fmt.Fprintln(w, litter.Sdump(gen.Instructions()))
	} else {
		if _, err := gen.WriteTo(w); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)

	if useLitter {
		fmt.Fprintln(w, litter.Sdump(syms.Symbols()))
		return nil
	}
	fmt.Fprint(w, syms)
	return nil
}
