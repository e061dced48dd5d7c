// Package compiler provides the front end of a small C-like language: a
// lexer, a symbol table and a recursive-descent parser that emits
// three-address code while it checks the grammar.
//
// Pipeline: source → Lex → Parse (SymbolTable + Generator) → TAC listing
package compiler
