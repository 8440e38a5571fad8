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

import (
	"reflect"
	"testing"
)

func TestSexp_0(t *testing.T) {
	checkOk(t, nil, "")
}

func TestSexp_1(t *testing.T) {
	e1 := List{nil}
	checkOk(t, &e1, "()")
}

func TestSexp_2(t *testing.T) {
	e1 := List{nil}
	e2 := List{[]SExp{&e1}}
	checkOk(t, &e2, "(())")
}

func TestSexp_7(t *testing.T) {
	e1 := Symbol{"symbol"}
	checkOk(t, &e1, "symbol")
}

func TestSexp_8(t *testing.T) {
	e1 := Symbol{"12345"}
	checkOk(t, &e1, "12345")
}

func TestSexp_11(t *testing.T) {
	e1 := Symbol{"symbol"}
	e2 := List{[]SExp{&e1, &e1}}
	checkOk(t, &e2, "(symbol symbol)")
}

func TestSexp_13(t *testing.T) {
	e1 := Symbol{"hello"}
	e2 := Symbol{"world"}
	e3 := List{[]SExp{&e2}}
	e4 := List{[]SExp{&e1, &e3}}
	checkOk(t, &e4, "(hello (world))")
}

func TestSexp_QuotedString(t *testing.T) {
	e1 := Symbol{"value"}
	e2 := Symbol{"10k 1%"}
	e3 := List{[]SExp{&e1, &e2}}
	checkOk(t, &e3, `(value "10k 1%")`)
}

func TestSexp_QuotedStringEscapes(t *testing.T) {
	e1 := Symbol{`say "hi"`}
	checkOk(t, &e1, `"say \"hi\""`)
}

func TestSexp_KicadShaped(t *testing.T) {
	sexp, err := Parse(`(comp (ref "R1") (value 1k) (footprint "R_0402"))`)
	if err != nil {
		t.Fatal(err)
	}

	l, ok := sexp.(*List)
	if !ok {
		t.Fatalf("expected a list, got %T", sexp)
	}

	if v, ok := l.Field("ref", 1); !ok || v != "R1" {
		t.Errorf("Field(ref,1) = (%q,%v), want (R1,true)", v, ok)
	}

	if v, ok := l.Field("value", 1); !ok || v != "1k" {
		t.Errorf("Field(value,1) = (%q,%v), want (1k,true)", v, ok)
	}

	if _, ok := l.Named("missing"); ok {
		t.Errorf("Named(missing) should not match")
	}
}

func TestSexp_AllNamed(t *testing.T) {
	sexp, err := Parse(`(net (node (ref R1) (pin 1)) (node (ref R2) (pin 2)))`)
	if err != nil {
		t.Fatal(err)
	}

	l := sexp.(*List)
	nodes := l.AllNamed("node")

	if len(nodes) != 2 {
		t.Fatalf("AllNamed(node) = %d elements, want 2", len(nodes))
	}
}

// unexpected end of list
func TestSexp_Err1(t *testing.T) {
	checkErr(t, ")")
}

// unexpected end of list
func TestSexp_Err2(t *testing.T) {
	checkErr(t, "())")
}

func TestSexp_ErrUnterminatedString(t *testing.T) {
	checkErr(t, `(value "10k)`)
}

func checkOk(t *testing.T, want SExp, input string) {
	t.Helper()

	got, err := Parse(input)
	if err != nil {
		t.Error(err)
	} else if !reflect.DeepEqual(want, got) {
		t.Errorf("%s != %s", want, got)
	}
}

func checkErr(t *testing.T, input string) {
	t.Helper()

	if _, err := Parse(input); err == nil {
		t.Errorf("input should not have parsed: %q", input)
	}
}
