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
package csvshape_test

import (
	"strings"
	"testing"

	"github.com/romixlab/go-erc/pkg/csvshape"
)

func TestDetectSeparatorComma(t *testing.T) {
	sep, ok := csvshape.DetectSeparator(strings.NewReader("Ref,Val,Package\nR1,1k,0402\n"))
	if !ok || sep != ',' {
		t.Fatalf("DetectSeparator = (%q,%v), want (',',true)", sep, ok)
	}
}

func TestDetectSeparatorSemicolon(t *testing.T) {
	sep, ok := csvshape.DetectSeparator(strings.NewReader("Ref;Val;Package\nR1;1k;0402\n"))
	if !ok || sep != ';' {
		t.Fatalf("DetectSeparator = (%q,%v), want (';',true)", sep, ok)
	}
}

func TestFindHeaderRowKicad(t *testing.T) {
	content := "Ref,Val,Package,PosX,PosY,Rot,Side\nR1,1k,0402,1.0,2.0,0,top\n"

	idx, row, ok := csvshape.FindHeaderRow(
		strings.NewReader(content), strings.NewReader(content),
		csvshape.MinimumPnPColumnsRequired, csvshape.PossiblePnPColumnNames,
	)
	if !ok {
		t.Fatalf("FindHeaderRow failed to find a header row")
	}

	if idx != 0 {
		t.Errorf("idx = %d, want 0", idx)
	}

	want := []string{"Ref", "Val", "Package", "PosX", "PosY", "Rot", "Side"}
	if len(row) != len(want) {
		t.Fatalf("row = %v, want %v", row, want)
	}

	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestFindHeaderRowSkipsPreamble(t *testing.T) {
	content := "Generated by Altium\n,,,,,,\n\nRefDes,Center-X,Center-Y,Rotation,Layer\nR1,1.0,2.0,0,TOP\n"

	idx, _, ok := csvshape.FindHeaderRow(
		strings.NewReader(content), strings.NewReader(content),
		csvshape.MinimumPnPColumnsRequired, csvshape.PossiblePnPColumnNames,
	)
	if !ok {
		t.Fatalf("FindHeaderRow failed to find a header row")
	}

	if idx != 2 {
		t.Errorf("idx = %d, want 2", idx)
	}
}
