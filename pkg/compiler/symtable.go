package compiler

import (
	"fmt"
	"strings"
)

// Symbol is one declared variable.
type Symbol struct {
	Name  string
	Type  string // declared type keyword, e.g. "int"
	Value string // last assigned value in textual form; empty until assigned
	Line  int    // declaration line
}

// SymbolTable maps variable names to their declared type and last known
// value.
//
// The table starts with a single frame that covers the whole program.
// EnterScope and ExitScope push and pop further frames for callers that
// want block scoping; lookups search from the innermost frame outwards and
// redeclaration is only checked against the innermost frame.
type SymbolTable struct {
	frames []map[string]*Symbol

	// Declaration order across all frames, for deterministic dumps.
	order []*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		frames: []map[string]*Symbol{make(map[string]*Symbol)},
	}
}

func (s *SymbolTable) EnterScope() {
	s.frames = append(s.frames, make(map[string]*Symbol))
}

// ExitScope pops the innermost frame. The outermost frame is never popped.
func (s *SymbolTable) ExitScope() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of active frames.
func (s *SymbolTable) Depth() int {
	return len(s.frames)
}

// Declare adds name with type typ to the innermost frame.
func (s *SymbolTable) Declare(name, typ string, line int) error {
	current := s.frames[len(s.frames)-1]
	if _, ok := current[name]; ok {
		return &DeclarationError{Name: name, Line: line, Err: ErrDuplicateDeclaration}
	}
	sym := &Symbol{Name: name, Type: typ, Line: line}
	current[name] = sym
	s.order = append(s.order, sym)
	return nil
}

func (s *SymbolTable) resolve(name string) *Symbol {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i][name]; ok {
			return sym
		}
	}
	return nil
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym := s.resolve(name)
	if sym == nil {
		return Symbol{}, false
	}
	return *sym, true
}

// LookupType returns the declared type of name. line is the line of the
// use and is reported if name is undeclared.
func (s *SymbolTable) LookupType(name string, line int) (string, error) {
	sym := s.resolve(name)
	if sym == nil {
		return "", &DeclarationError{Name: name, Line: line, Err: ErrUndeclaredVariable}
	}
	return sym.Type, nil
}

func (s *SymbolTable) SetValue(name, value string, line int) error {
	sym := s.resolve(name)
	if sym == nil {
		return &DeclarationError{Name: name, Line: line, Err: ErrUndeclaredVariable}
	}
	sym.Value = value
	return nil
}

func (s *SymbolTable) GetValue(name string, line int) (string, error) {
	sym := s.resolve(name)
	if sym == nil {
		return "", &DeclarationError{Name: name, Line: line, Err: ErrUndeclaredVariable}
	}
	return sym.Value, nil
}

// Symbols returns every symbol ever declared, in declaration order,
// including those whose frame has since been popped.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(s.order))
	for i, sym := range s.order {
		out[i] = *sym
	}
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.order) == 0 {
		sb.WriteString("Symbols: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Symbols:\n")
	for _, sym := range s.order {
		value := sym.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&sb, "  %-20s  Type: %-6s  Value: %-10s  (line %d)\n", sym.Name, sym.Type, value, sym.Line)
	}
	return sb.String()
}
