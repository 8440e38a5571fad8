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

// Package netlist holds the unified, vendor-neutral netlist data model and
// its graph-query primitives.
package netlist

import (
	"regexp"
	"strings"
)

// Designator identifies a single component instance on the board (e.g.
// "R12", "U3"). Comparison is exact and case-sensitive.
type Designator string

// NetName identifies an equipotential net.
type NetName string

// PinId identifies a pin within a LibPart, after vendor-prefix normalization
// (e.g. a leading "&" from EDIF is stripped by the relevant parser before a
// PinId value is ever constructed).
type PinId string

// PinName is the human-readable function name of a pin (e.g. "SCL", "GATE").
type PinName string

// LibName identifies a parts library.
type LibName string

// LibPartName identifies a part definition within a library.
type LibPartName string

// LibKey uniquely identifies a LibPart within a Netlist.
type LibKey struct {
	Lib  LibName
	Part LibPartName
}

var (
	reResistor   = regexp.MustCompile(`^R`)
	reCapacitor  = regexp.MustCompile(`^C`)
	reInductor   = regexp.MustCompile(`^L[0-9]`)
	reTransistor = regexp.MustCompile(`^Q`)
	reIC         = regexp.MustCompile(`^U`)
)

// IsResistor reports whether a designator names a resistor ("R...").
func IsResistor(d Designator) bool { return reResistor.MatchString(string(d)) }

// IsCapacitor reports whether a designator names a capacitor ("C...").
func IsCapacitor(d Designator) bool { return reCapacitor.MatchString(string(d)) }

// IsInductor reports whether a designator names an inductor: "L" followed by
// a digit, so that "LED*" and "LD*" designators are excluded.
func IsInductor(d Designator) bool { return reInductor.MatchString(string(d)) }

// IsTransistor reports whether a designator names a transistor ("Q...").
func IsTransistor(d Designator) bool { return reTransistor.MatchString(string(d)) }

// IsIC reports whether a designator names an integrated circuit ("U...").
func IsIC(d Designator) bool { return reIC.MatchString(string(d)) }

// IsRF reports whether a name (designator or net) looks RF-related, by the
// simple substring heuristic used throughout power/switching-node analysis.
func IsRF(name string) bool { return strings.Contains(name, "RF") }
