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
package netlist

// PinType is a closed variant set describing the electrical function of a
// pin. Adding a new variant is a breaking change and must be reviewed
// against every switch statement matching on PinType.
type PinType uint8

// The closed set of pin types.
const (
	DigitalInput PinType = iota
	DigitalOutput
	DigitalIO
	AnalogInput
	AnalogOutput
	AnalogIO
	PowerIn
	PowerOut
	PowerIO
	PowerUnspecified
	OpenCollector
	OpenEmitter
	TriState
	Unconnected
	Unspecified
	Passive
)

//nolint:cyclop
func (t PinType) String() string {
	switch t {
	case DigitalInput:
		return "DigitalInput"
	case DigitalOutput:
		return "DigitalOutput"
	case DigitalIO:
		return "DigitalIO"
	case AnalogInput:
		return "AnalogInput"
	case AnalogOutput:
		return "AnalogOutput"
	case AnalogIO:
		return "AnalogIO"
	case PowerIn:
		return "PowerIn"
	case PowerOut:
		return "PowerOut"
	case PowerIO:
		return "PowerIO"
	case PowerUnspecified:
		return "PowerUnspecified"
	case OpenCollector:
		return "OpenCollector"
	case OpenEmitter:
		return "OpenEmitter"
	case TriState:
		return "TriState"
	case Unconnected:
		return "Unconnected"
	case Unspecified:
		return "Unspecified"
	case Passive:
		return "Passive"
	default:
		return "Unknown"
	}
}

// IsPower reports whether this pin type is one of the power-related variants
// (used by C6 to find pin-typed rails).
func (t PinType) IsPower() bool {
	switch t {
	case PowerIn, PowerOut, PowerIO, PowerUnspecified:
		return true
	default:
		return false
	}
}

// IOStandard is a closed variant set of supported IO voltage standards.
type IOStandard uint8

// The closed set of IO standards.
const (
	LVTTL IOStandard = iota
	LVCMOS33
	LVCMOS18
	LVCMOS15
	LVCMOS12
)

// PullKind distinguishes how a Pull is specified.
type PullKind uint8

// The closed set of pull kinds.
const (
	PullUnknown PullKind = iota
	PullResistor
	PullCurrent
)

// Pull describes a pull-up or pull-down on a pin's default/alternate mode.
type Pull struct {
	Kind       PullKind
	Resistance float32 // valid when Kind == PullResistor
	Current    float32 // valid when Kind == PullCurrent
}

// PinMode captures one operating mode of a pin.
type PinMode struct {
	Type       PinType
	PullUp     *Pull
	PullDown   *Pull
	IOStandard *IOStandard
}
