package compiler

// Options configures a compilation.
type Options struct {
	// BlockScopes gives every { } block and every for statement its own
	// symbol table frame. The default is one flat namespace for the whole
	// program.
	BlockScopes bool
}

// Option mutates Options.
type Option func(*Options)

// WithBlockScopes turns block scoping on or off.
func WithBlockScopes(on bool) Option {
	return func(o *Options) { o.BlockScopes = on }
}

// Program is the result of a successful compilation.
type Program struct {
	Tokens  []Token
	Symbols *SymbolTable
	Code    []Instruction
}

// TAC renders the program's code, one instruction per line.
func (p *Program) TAC() string {
	return Listing(p.Code)
}

// Compile lexes and parses src and returns the generated three-address
// code. Every call starts from fresh counters, so identical input always
// produces identical output. The returned error is a *LexicalError,
// *DeclarationError or *SyntaxError; no Program is returned with it.
func Compile(src string, opts ...Option) (*Program, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	syms, gen, err := Parse(tokens, src, o)
	if err != nil {
		return nil, err
	}

	return &Program{
		Tokens:  tokens,
		Symbols: syms,
		Code:    gen.Instructions(),
	}, nil
}
