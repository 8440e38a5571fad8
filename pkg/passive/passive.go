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

// Package passive parses resistor (and other passive-component) value
// strings into ohms, following the three surface forms found on real BOMs:
// not-delimited ("5k", "1R", "10 kΩ"), letter-delimited ("4R7", "1k2"), and
// dot-delimited ("15.5", "1.0k").
package passive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ohm is a resistance value.
type Ohm float32

func (o Ohm) String() string {
	return strconv.FormatFloat(float64(o), 'g', -1, 32) + "Ω"
}

// Warning is a closed set of non-fatal issues noticed while parsing a value.
type Warning uint8

// The closed set of parse warnings.
const (
	// RedundantSpace marks more than one whitespace character between the
	// number and its unit, e.g. "0  R".
	RedundantSpace Warning = iota
	// SmallR marks a lowercase "r" used where a capital "R" or "Ω" was
	// expected, e.g. "49r".
	SmallR
	// BigRInsteadOfOhmSymbol marks a literal "R" used as the ohm symbol
	// where "Ω" was expected, e.g. "499kR".
	BigRInsteadOfOhmSymbol
)

func (w Warning) String() string {
	switch w {
	case RedundantSpace:
		return "RedundantSpace"
	case SmallR:
		return "SmallR"
	case BigRInsteadOfOhmSymbol:
		return "BigRInsteadOfOhmSymbol"
	default:
		return "Unknown"
	}
}

var passiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `[ \t]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Micro", Pattern: `µ|μ|u`},
	{Name: "Milli", Pattern: `m`},
	{Name: "Kilo", Pattern: `k|K`},
	{Name: "Mega", Pattern: `M`},
	{Name: "Giga", Pattern: `G`},
	{Name: "RLetter", Pattern: `r|R`},
	{Name: "OhmSym", Pattern: `Ω`},
})

// prefixAST is the r_prefix production: a single scaling letter, shared by
// all three surface forms.
type prefixAST struct {
	Micro string `@Micro`
	Milli string `| @Milli`
	R     string `| @RLetter`
	Kilo  string `| @Kilo`
	Mega  string `| @Mega`
	Giga  string `| @Giga`
}

// prefixOhmAST is the prefix_ohm production: an optional scaling letter
// followed by an optional ohm symbol, with optional leading whitespace.
type prefixOhmAST struct {
	Space  string     `@Space?`
	Prefix *prefixAST `@@?`
	Ohm    string     `(@OhmSym | @RLetter)?`
}

// notDelimitedAST is the r_not_delimited production, e.g. "100", "5k", "1R".
type notDelimitedAST struct {
	Int       string        `@Int`
	PrefixOhm *prefixOhmAST `@@?`
}

// letterDelimitedAST is the r_letter_delimited production, e.g. "1k2", "4R7".
type letterDelimitedAST struct {
	Int        string    `@Int`
	Prefix     prefixAST `@@`
	Fractional string    `@Int`
}

// dotDelimitedAST is the r_dot_delimited production, e.g. "15.5", "1.0k".
type dotDelimitedAST struct {
	Int        string        `@Int`
	Dot        string        `@Dot`
	Fractional string        `@Int`
	PrefixOhm  *prefixOhmAST `@@?`
}

var (
	notDelimitedParser    = participle.MustBuild[notDelimitedAST](participle.Lexer(passiveLexer))
	letterDelimitedParser = participle.MustBuild[letterDelimitedAST](participle.Lexer(passiveLexer))
	dotDelimitedParser    = participle.MustBuild[dotDelimitedAST](participle.Lexer(passiveLexer))
)

// reLetterDelimited recognizes the letter-delimited surface form: a single
// scaling letter sandwiched between two digit runs, with no dot.
var reLetterDelimited = regexp.MustCompile(`^[0-9]+(µ|μ|u|m|r|R|k|K|M|G)[0-9]+$`)

// Parse parses a passive-component value string into an Ohm value, following
// the same three-production grammar as the original ecad_file_format parser.
// It returns at most one Warning: later warnings observed during parsing
// overwrite earlier ones, matching the original's last-write-wins behavior.
func Parse(raw string) (Ohm, *Warning, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil, fmt.Errorf("passive: empty value")
	}

	switch {
	case reLetterDelimited.MatchString(trimmed):
		return parseLetterDelimited(trimmed)
	case strings.Contains(trimmed, "."):
		return parseDotDelimited(trimmed)
	default:
		return parseNotDelimited(trimmed)
	}
}

func parseNotDelimited(s string) (Ohm, *Warning, error) {
	ast, err := notDelimitedParser.ParseString("", s)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	base, err := strconv.ParseFloat(ast.Int, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	mul, warn := prefixOhmMultiplier(ast.PrefixOhm)

	return Ohm(base * mul), warn, nil
}

func parseLetterDelimited(s string) (Ohm, *Warning, error) {
	ast, err := letterDelimitedParser.ParseString("", s)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	mul, warn := prefixMultiplier(&ast.Prefix)

	val, err := strconv.ParseFloat(ast.Int+"."+ast.Fractional, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	return Ohm(val * mul), warn, nil
}

func parseDotDelimited(s string) (Ohm, *Warning, error) {
	ast, err := dotDelimitedParser.ParseString("", s)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	val, err := strconv.ParseFloat(ast.Int+"."+ast.Fractional, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("passive: %w", err)
	}

	mul, warn := prefixOhmMultiplier(ast.PrefixOhm)

	return Ohm(val * mul), warn, nil
}

// prefixOhmMultiplier computes the scaling multiplier and worst warning for
// an optional prefix_ohm capture.
func prefixOhmMultiplier(p *prefixOhmAST) (float64, *Warning) {
	if p == nil {
		return 1.0, nil
	}

	var warn *Warning

	if len(p.Space) > 1 {
		w := RedundantSpace
		warn = &w
	}

	mul := 1.0

	if p.Prefix != nil {
		m, w := prefixMultiplier(p.Prefix)
		mul = m

		if w != nil {
			warn = w
		}
	}

	if p.Ohm == "R" {
		w := BigRInsteadOfOhmSymbol
		warn = &w
	}

	return mul, warn
}

// prefixMultiplier computes the scaling multiplier and warning (if any) for
// a single r_prefix capture.
func prefixMultiplier(p *prefixAST) (float64, *Warning) {
	switch {
	case p.Micro != "":
		return 0.000001, nil
	case p.Milli != "":
		return 0.001, nil
	case p.R != "":
		if p.R == "r" {
			w := SmallR
			return 1.0, &w
		}

		return 1.0, nil
	case p.Kilo != "":
		return 1_000.0, nil
	case p.Mega != "":
		return 1_000_000.0, nil
	case p.Giga != "":
		return 1_000_000_000.0, nil
	default:
		return 1.0, nil
	}
}
