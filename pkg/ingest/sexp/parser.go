// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

// Parse parses a given string into a single S-expression, returning an error
// if the string is malformed or contains trailing content.
func Parse(s string) (SExp, error) {
	p := NewParser(s)

	sExp, err := p.Parse()
	if err == nil && p.index != len(p.text) {
		return nil, p.error("unexpected remainder")
	}

	return sExp, err
}

// ParseAll parses a string into zero or more top-level S-expressions, e.g.
// the OrCAD pstchip.dat and pstxprt.dat files, which hold a sequence of
// top-level lists rather than the single list of a KiCad netlist.
func ParseAll(s string) ([]SExp, error) {
	terms := make([]SExp, 0)
	p := NewParser(s)

	for {
		term, err := p.Parse()
		if err != nil {
			return terms, err
		} else if term == nil {
			return terms, nil
		}

		terms = append(terms, term)
	}
}

// Parser parses a string into one or more S-expressions.
type Parser struct {
	text  []rune
	index int
}

// NewParser constructs a new Parser over text.
func NewParser(text string) *Parser {
	return &Parser{text: []rune(text), index: 0}
}

// Parse parses the next S-Expression, or returns (nil, nil) at end-of-input.
func (p *Parser) Parse() (SExp, error) {
	token, quoted, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case token == nil:
		return nil, nil
	case !quoted && len(token) == 1 && token[0] == ')':
		p.index--
		return nil, p.error("unexpected end-of-list")
	case !quoted && len(token) == 1 && token[0] == '(':
		var elements []SExp

		for c := p.lookahead(0); c == nil || *c != ')'; c = p.lookahead(0) {
			element, err := p.Parse()
			if err != nil {
				return nil, err
			} else if element == nil {
				p.index--
				return nil, p.error("unexpected end-of-file")
			}

			elements = append(elements, element)
		}

		p.next() // consume ')'

		return &List{elements}, nil
	default:
		return &Symbol{string(token)}, nil
	}
}

// next extracts the next raw token, reporting whether it was a quoted
// string (in which case surrounding quotes have already been stripped and
// escapes resolved).
func (p *Parser) next() ([]rune, bool, error) {
	index := p.index
	if index == len(p.text) {
		return nil, false, nil
	}

	switch p.text[index] {
	case '(', ')':
		p.index++
		return p.text[index:p.index], false, nil
	case ' ', '\t', '\n', '\r':
		p.index++
		return p.next()
	case ';':
		return p.parseComment()
	case '"':
		tok, err := p.parseQuoted()
		return tok, true, err
	}

	tok, err := p.parseSymbol()

	return tok, false, err
}

// lookahead peeks at the next significant punctuation character, skipping
// over whitespace, without consuming anything.
func (p *Parser) lookahead(i int) *rune {
	pos := i + p.index
	if len(p.text) <= pos {
		return nil
	}

	switch p.text[pos] {
	case '(', ')', ';', '"':
		return &p.text[pos]
	case ' ', '\n', '\t', '\r':
		return p.lookahead(i + 1)
	default:
		return nil
	}
}

func (p *Parser) parseSymbol() ([]rune, error) {
	i := len(p.text)

	for j := p.index; j < i; j++ {
		switch p.text[j] {
		case '(', ')', ' ', '\n', '\t', '\r':
			i = j
		default:
			continue
		}

		break
	}

	token := p.text[p.index:i]
	p.index = i

	return token, nil
}

// parseQuoted consumes a double-quoted string, resolving backslash escapes
// for '"' and '\\' (the only two KiCad/EDIF netlists ever emit).
func (p *Parser) parseQuoted() ([]rune, error) {
	start := p.index
	p.index++ // opening quote

	var out []rune

	for {
		if p.index >= len(p.text) {
			p.index = start
			return nil, p.error("unterminated string")
		}

		c := p.text[p.index]

		switch c {
		case '"':
			p.index++
			return out, nil
		case '\\':
			if p.index+1 >= len(p.text) {
				p.index = start
				return nil, p.error("unterminated escape")
			}

			out = append(out, p.text[p.index+1])
			p.index += 2
		default:
			out = append(out, c)
			p.index++
		}
	}
}

func (p *Parser) parseComment() ([]rune, bool, error) {
	i := len(p.text)

	for j := p.index; j < i; j++ {
		if p.text[j] == '\n' {
			i = j
			break
		}
	}

	p.index = i

	return p.next()
}

// error constructs a parser error at the current position in the input.
func (p *Parser) error(msg string) *SyntaxError {
	return &SyntaxError{Span{p.index, p.index + 1}, msg}
}
