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

// Package csvshape sniffs the delimiter and header row of pick-and-place CSV
// exports, whose column names and header position vary wildly between CAD
// tools.
package csvshape

import (
	"bufio"
	"encoding/csv"
	"io"
)

// PossiblePnPColumnNames lists every column header observed across vendor
// pick-and-place exports. A row is a header candidate once it contains at
// least MinimumPnPColumnsRequired of these names.
var PossiblePnPColumnNames = []string{
	"RefDes", "Ref", "Designator",
	"Center-X", "PosX", "Center-X(mm)",
	"Center-Y", "PosY", "Center-Y(mm)",
	"Rotation", "Rot",
	"Layer", "Side",
}

// MinimumPnPColumnsRequired is the minimum number of recognized columns
// (designator, X, Y, rotation, side) a header row must contain.
const MinimumPnPColumnsRequired = 5

// DetectSeparator scans r byte-by-byte and returns whichever of comma, tab,
// or semicolon occurs most often. It does not rewind r; callers that also
// need to read the content afterward should pass a copy or re-open.
func DetectSeparator(r io.Reader) (rune, bool) {
	counts := map[rune]int{',': 0, '\t': 0, ';': 0}

	br := bufio.NewReader(r)

	for {
		b, err := br.ReadByte()
		if err != nil {
			break
		}

		switch b {
		case ',':
			counts[',']++
		case '\t':
			counts['\t']++
		case ';':
			counts[';']++
		}
	}

	best, bestCount := ',', -1

	for _, sep := range []rune{',', '\t', ';'} {
		if counts[sep] > bestCount {
			best, bestCount = sep, counts[sep]
		}
	}

	if bestCount <= 0 {
		return 0, false
	}

	return best, true
}

// FindHeaderRow detects the separator from sepReader, then scans the records
// of recordReader (a second reader over the same content) looking for the
// first row containing at least threshold of the given possible column names. Empty rows are skipped without counting
// toward the row index.
func FindHeaderRow(sepReader io.Reader, recordReader io.Reader, threshold int, possibleColumns []string) (int, []string, bool) {
	sep, ok := DetectSeparator(sepReader)
	if !ok {
		return 0, nil, false
	}

	wanted := make(map[string]struct{}, len(possibleColumns))
	for _, c := range possibleColumns {
		wanted[c] = struct{}{}
	}

	reader := csv.NewReader(recordReader)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	idx := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return 0, nil, false
		}

		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}

		count := 0

		for _, col := range record {
			if _, match := wanted[col]; match {
				count++
			}
		}

		if count >= threshold {
			return idx, record, true
		}

		idx++
	}

	return 0, nil, false
}
