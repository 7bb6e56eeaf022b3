// Copyright 2024 The Edif Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sexpr tokenises and parses the parenthesised, Lisp-like text
// EDIF is written in into a generic tree of nodes (§4.1). It knows
// nothing about EDIF's keyword grammar; that is the job of package
// ediast. sexpr only knows List, Symbol, String and Number.
package sexpr

import (
	"strconv"

	"github.com/edifgo/edif/internal/atom"
	"github.com/edifgo/edif/internal/perrors"
)

// Kind identifies which alternative of Node is populated.
type Kind int

const (
	List Kind = iota
	Symbol
	String
	Number
)

// A Node is one s-expression: a list, a symbol, a string literal, or a
// number. Every node records the source position of its first character.
type Node struct {
	Kind Kind
	Pos  perrors.Position

	Elems []Node    // Kind == List
	Sym   atom.Atom // Kind == Symbol
	Str   string    // Kind == String
	Num   int32     // Kind == Number
}

// Parse reads a single top-level s-expression from text. Trailing
// whitespace after the expression is tolerated; trailing non-whitespace
// content is an error, since EDIF files contain exactly one top-level
// form.
func Parse(text string) (Node, error) {
	r := &reader{src: []rune(text), line: 1, col: 1}
	r.skipSpace()
	n, err := r.node()
	if err != nil {
		return Node{}, err
	}
	r.skipSpace()
	if !r.atEnd() {
		return Node{}, perrors.Newf(r.pos(), perrors.KindSyntax,
			"unexpected trailing content after top-level expression")
	}
	return n, nil
}

type reader struct {
	src  []rune
	off  int
	line int
	col  int
}

func (r *reader) atEnd() bool { return r.off >= len(r.src) }

func (r *reader) peek() rune {
	if r.atEnd() {
		return 0
	}
	return r.src[r.off]
}

func (r *reader) pos() perrors.Position {
	return perrors.Position{Line: r.line, Column: r.col}
}

func (r *reader) advance() rune {
	c := r.src[r.off]
	r.off++
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (r *reader) skipSpace() {
	for !r.atEnd() && isSpace(r.peek()) {
		r.advance()
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isSymbolStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '|' || c == '&'
}

func isSymbolCont(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_' || c == '&'
}

// node parses exactly one expression starting at the reader's current
// position, which must not be whitespace.
func (r *reader) node() (Node, error) {
	start := r.pos()
	if r.atEnd() {
		return Node{}, perrors.Newf(start, perrors.KindSyntax, "unexpected end of input")
	}

	switch c := r.peek(); {
	case c == '(':
		return r.list(start)
	case c == '"':
		return r.string(start)
	case isDigit(c):
		return r.number(start)
	case isSymbolStart(c):
		return r.symbol(start)
	default:
		return Node{}, perrors.Newf(start, perrors.KindLex, "unexpected character %q", c)
	}
}

func (r *reader) list(start perrors.Position) (Node, error) {
	r.advance() // '('
	var elems []Node
	for {
		r.skipSpace()
		if r.atEnd() {
			return Node{}, perrors.Newf(r.pos(), perrors.KindSyntax, "unexpected end of list")
		}
		if r.peek() == ')' {
			r.advance()
			return Node{Kind: List, Pos: start, Elems: elems}, nil
		}
		n, err := r.node()
		if err != nil {
			return Node{}, err
		}
		elems = append(elems, n)
	}
}

func (r *reader) string(start perrors.Position) (Node, error) {
	r.advance() // opening quote
	var sb []rune
	for {
		if r.atEnd() {
			return Node{}, perrors.Newf(start, perrors.KindLex, "unterminated string literal")
		}
		c := r.advance()
		if c == '"' {
			return Node{Kind: String, Pos: start, Str: string(sb)}, nil
		}
		sb = append(sb, c)
	}
}

func (r *reader) number(start perrors.Position) (Node, error) {
	var sb []rune
	for !r.atEnd() && isDigit(r.peek()) {
		sb = append(sb, r.advance())
	}
	n, err := strconv.ParseInt(string(sb), 10, 32)
	if err != nil {
		return Node{}, perrors.Newf(start, perrors.KindLex, "malformed number %q: %v", string(sb), err)
	}
	return Node{Kind: Number, Pos: start, Num: int32(n)}, nil
}

func (r *reader) symbol(start perrors.Position) (Node, error) {
	var sb []rune
	sb = append(sb, r.advance())
	for !r.atEnd() && isSymbolCont(r.peek()) {
		sb = append(sb, r.advance())
	}
	return Node{Kind: Symbol, Pos: start, Sym: atom.Intern(string(sb))}, nil
}
