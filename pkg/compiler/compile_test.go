package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSource = `
// running total with a countdown
int x;
int total = 0;
x = 0;

for (int i = 0; i < 10; i = i + 1) {
	total = total + i * 2;
}

while (x < total) {
	x = x + 3;
}

if (x == total || x > 100) {
	cout << "done: " << x;
} else {
	x = 200;
}

string s = "tab\there";
char c = 'q';
double d = 2.75;
return x;
`

func TestCompile_Scenarios(t *testing.T) {
	t.Run("sum", func(t *testing.T) {
		prog, err := Compile("int x; x = 2 + 3;")
		require.NoError(t, err)
		require.Equal(t, "T0 = 2 + 3\nx = T0\n", prog.TAC())
		require.Len(t, prog.Tokens, 10)
		require.Equal(t, EOF, prog.Tokens[len(prog.Tokens)-1].Type)

		sym, ok := prog.Symbols.Lookup("x")
		require.True(t, ok)
		require.Equal(t, "int", sym.Type)
		require.Equal(t, "T0", sym.Value)
	})

	t.Run("if-else", func(t *testing.T) {
		prog, err := Compile("int x; x = 1; if (x > 0) { x = 2; } else { x = 3; }")
		require.NoError(t, err)
		require.Equal(t, strings.Join([]string{
			"x = 1", "T0 = x > 0", "if T0 goto L0", "goto L1", "L0:",
			"x = 2", "goto L2", "L1:", "x = 3", "L2:",
		}, "\n")+"\n", prog.TAC())
	})

	t.Run("unterminated string", func(t *testing.T) {
		prog, err := Compile("int a;\nstring s = \"abc")
		require.Nil(t, prog)
		var lexErr *LexicalError
		require.ErrorAs(t, err, &lexErr)
		require.Equal(t, 2, lexErr.Line)
		require.Contains(t, lexErr.Msg, "unterminated string")
	})

	t.Run("multi-line string", func(t *testing.T) {
		prog, err := Compile("string s = \"ab\ncd\";\ns = \"x\";")
		require.NoError(t, err)
		require.Equal(t, "s = \"ab\\ncd\"\ns = \"x\"\n", prog.TAC())
		sym, _ := prog.Symbols.Lookup("s")
		require.Equal(t, 1, sym.Line)
		require.Equal(t, 3, prog.Tokens[len(prog.Tokens)-1].Line)
	})

	t.Run("undeclared", func(t *testing.T) {
		prog, err := Compile("y = 5;")
		require.Nil(t, prog)
		require.ErrorIs(t, err, ErrUndeclaredVariable)
		var declErr *DeclarationError
		require.ErrorAs(t, err, &declErr)
		require.Equal(t, "y", declErr.Name)
		require.Equal(t, 1, declErr.Line)
		require.Equal(t, `line 1: variable "y" is not declared`, err.Error())
	})
}

func TestCompile_Sample(t *testing.T) {
	prog, err := Compile(sampleSource)
	require.NoError(t, err)
	require.NotEmpty(t, prog.Code)

	tac := prog.TAC()
	require.Contains(t, tac, `print "done: "`)
	require.Contains(t, tac, `s = "tab\there"`)
	require.Contains(t, tac, "c = 'q'")
	require.Contains(t, tac, "d = 2.75")
	require.True(t, strings.HasSuffix(tac, "return x\n"), tac)

	names := make([]string, 0)
	for _, sym := range prog.Symbols.Symbols() {
		names = append(names, sym.Name)
	}
	require.Equal(t, []string{"x", "total", "i", "s", "c", "d"}, names)
}

func TestCompile_BlockScopesOption(t *testing.T) {
	src := "{ int x = 1; } { int x = 2; }"

	_, err := Compile(src)
	require.ErrorIs(t, err, ErrDuplicateDeclaration)

	prog, err := Compile(src, WithBlockScopes(true))
	require.NoError(t, err)
	require.Equal(t, "x = 1\nx = 2\n", prog.TAC())
}

// The properties below hold for every valid program; they are checked over
// a handful of representative ones.

var propertySources = []string{
	sampleSource,
	"int x; x = 1; if (x > 0) { x = 2; } else { x = 3; }",
	"int a; int b; a = 1; b = 2; if (a < b) a = b; if (a == b) { if (b > 1) b = 0; else b = 1; } else a = 0;",
	"int n = 3; while (n > 0) { if (n == 1) cout << n; n = n - 1; }",
	"bool f = true; if (f) f = false; if (f && true) { } else { f = true; }",
}

var (
	labelDef    = regexp.MustCompile(`^(L\d+):$`)
	jumpTarget  = regexp.MustCompile(`goto (L\d+)$`)
	generatedID = regexp.MustCompile(`\b[TL]\d+\b`)
)

func TestProperty_IfJumpPairs(t *testing.T) {
	for i, src := range propertySources[1:] {
		if strings.Contains(src, "while") || strings.Contains(src, "for") {
			continue
		}
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			prog, err := Compile(src)
			require.NoError(t, err)

			ifs := 0
			for _, tok := range prog.Tokens {
				if tok.Type == IF {
					ifs++
				}
			}
			pairs := 0
			for j, in := range prog.Code {
				if in.Op == OpIfGoto {
					require.Less(t, j+1, len(prog.Code))
					require.Equal(t, OpGoto, prog.Code[j+1].Op, "conditional jump not followed by goto")
					pairs++
				}
			}
			require.Equal(t, ifs, pairs)
		})
	}
}

func TestProperty_LabelsDefinedAndTargetedOnce(t *testing.T) {
	for i, src := range propertySources {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			prog, err := Compile(src)
			require.NoError(t, err)

			defs := map[string]int{}
			targets := map[string]int{}
			for _, line := range strings.Split(strings.TrimSuffix(prog.TAC(), "\n"), "\n") {
				if m := labelDef.FindStringSubmatch(line); m != nil {
					defs[m[1]]++
				}
				if m := jumpTarget.FindStringSubmatch(line); m != nil {
					targets[m[1]]++
				}
			}
			for label, n := range defs {
				require.Equal(t, 1, n, "label %s defined %d times", label, n)
				require.Positive(t, targets[label], "label %s never targeted", label)
			}
			for label := range targets {
				require.Contains(t, defs, label, "jump to undefined label %s", label)
			}

			// Labels of if statements are targeted exactly once.
			if !strings.Contains(src, "while") && !strings.Contains(src, "for") {
				for label, n := range targets {
					require.Equal(t, 1, n, "label %s targeted %d times", label, n)
				}
			}
		})
	}
}

func TestProperty_GeneratedNamesLexAsIdentifiers(t *testing.T) {
	for _, src := range propertySources {
		prog, err := Compile(src)
		require.NoError(t, err)
		for _, name := range generatedID.FindAllString(prog.TAC(), -1) {
			tokens, err := Lex(name)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			require.Equal(t, IDENTIFIER, tokens[0].Type, name)
			require.Equal(t, name, tokens[0].Lexeme)
		}
	}
}

func TestProperty_Deterministic(t *testing.T) {
	for _, src := range propertySources {
		first, err := Compile(src)
		require.NoError(t, err)
		second, err := Compile(src)
		require.NoError(t, err)
		require.Equal(t, first.TAC(), second.TAC())
		require.Equal(t, first.Code, second.Code)
	}

	bad := "int x;\nx = (1 + ;"
	_, err1 := Compile(bad)
	_, err2 := Compile(bad)
	require.Error(t, err1)
	require.Equal(t, err1.Error(), err2.Error())
}

func TestProperty_DuplicateAnywhere(t *testing.T) {
	tests := []string{
		"int x; int x;",
		"int x; x = 1; while (x < 3) { x = x + 1; } float x;",
		"int x; { { if (true) { bool x; } } }",
		"int x; for (int x = 0; x < 1; x = x + 1) { }",
	}
	for _, src := range tests {
		_, err := Compile(src)
		require.ErrorIs(t, err, ErrDuplicateDeclaration, src)
		var declErr *DeclarationError
		require.True(t, errors.As(err, &declErr))
		require.Equal(t, "x", declErr.Name)
	}
}

func TestProperty_UseBeforeDeclarationCitesUse(t *testing.T) {
	src := "int a;\na = 1;\nb = a;\nint b;"
	_, err := Compile(src)
	require.ErrorIs(t, err, ErrUndeclaredVariable)
	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	require.Equal(t, "b", declErr.Name)
	require.Equal(t, 3, declErr.Line)
}
