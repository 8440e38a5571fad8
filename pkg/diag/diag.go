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

// Package diag holds the diagnostic taxonomy emitted by the I2C and style
// passes: plain value types (reflect.DeepEqual-comparable; most are also
// `==`-comparable) so tests can assert on exact diagnostic content.
package diag

import (
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/passive"
)

// Severity ranks a diagnostic's importance.
type Severity uint8

// The closed set of severities.
const (
	Error Severity = iota
	Warning
	Info
	Suggestion
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Suggestion:
		return "Suggestion"
	default:
		return "Unknown"
	}
}

// I2cDiagnosticKind is a closed variant set of small value structs, so tests
// can assert on diagnostic content directly. Most members are `==`-comparable;
// RedundantPullUps and PullUpToNowhere carry a []netlist.Designator and must
// be compared with reflect.DeepEqual (or by comparing their Designators
// slices) instead.
type I2cDiagnosticKind interface {
	i2cDiagnosticKind()
}

// NonStandardPullUps reports a pull-up resistor value outside the
// configured acceptable range.
type NonStandardPullUps struct{ Resistance passive.Ohm }

// NonEqualPullUps reports an SCL/SDA pull-up pair with differing values.
type NonEqualPullUps struct{ Scl, Sda passive.Ohm }

// WrongPullUpValue reports a pull-up resistor whose value failed to parse.
type WrongPullUpValue struct{ Msg string }

// RedundantPullUps reports a set of pull-up resistors beyond the one chosen
// pair for a bus or a direct segment.
type RedundantPullUps struct{ Designators []netlist.Designator }

// TieTooHighValue reports a tie resistor whose value exceeds the configured
// maximum tie resistance.
type TieTooHighValue struct {
	Resistance passive.Ohm
	OtherSide  netlist.NetName
}

// NoPullUps reports a direct segment with no pull-up at all.
type NoPullUps struct{}

// PullUpToNowhere reports a pull-up resistor pair whose common net reaches
// no other component (or only a single further resistor reaching nothing).
type PullUpToNowhere struct{ Designators []netlist.Designator }

// UnknownNode reports a node on a bus that Phase C could not classify.
type UnknownNode struct{ Designator netlist.Designator }

func (NonStandardPullUps) i2cDiagnosticKind() {}
func (NonEqualPullUps) i2cDiagnosticKind()    {}
func (WrongPullUpValue) i2cDiagnosticKind()   {}
func (RedundantPullUps) i2cDiagnosticKind()   {}
func (TieTooHighValue) i2cDiagnosticKind()    {}
func (NoPullUps) i2cDiagnosticKind()          {}
func (PullUpToNowhere) i2cDiagnosticKind()    {}
func (UnknownNode) i2cDiagnosticKind()        {}

// I2cDiagnostic is one finding raised against a bus (or segment, reported
// under its first bus's name).
type I2cDiagnostic struct {
	BusName netlist.NetName
	Kind    I2cDiagnosticKind
}

// StyleDiagnosticKind is a closed variant set for style-check findings.
type StyleDiagnosticKind interface {
	styleDiagnosticKind()
}

// WrongValue reports a component value that failed to parse as its
// designator's expected kind (e.g. an unparsable resistor value).
type WrongValue struct{ Msg string }

// NonStandardValue reports a resistor value parsed with a warning (unusual
// notation, e.g. a bare "R" where "Ω" was meant).
type NonStandardValue struct{ Warning passive.Warning }

// NoValue reports a component with an empty value field.
type NoValue struct{}

// CalculateLaterValue reports a placeholder value (leading/trailing "?").
type CalculateLaterValue struct{}

func (WrongValue) styleDiagnosticKind()         {}
func (NonStandardValue) styleDiagnosticKind()   {}
func (NoValue) styleDiagnosticKind()            {}
func (CalculateLaterValue) styleDiagnosticKind() {}

// StyleDiagnostic is one per-component style finding.
type StyleDiagnostic struct {
	Severity   Severity
	Designator netlist.Designator
	Kind       StyleDiagnosticKind
}

// Diagnostics aggregates every finding produced for one Pcba.
type Diagnostics struct {
	I2c   []I2cDiagnostic
	Style []StyleDiagnostic
}
