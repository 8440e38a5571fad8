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

// Package pinmap holds the vendor pin-direction/io-type vocabularies shared
// by the EDIF and wirelist loaders, each of which spells pin electrical
// function as a different bareword string.
package pinmap

import "github.com/romixlab/go-erc/pkg/netlist"

// EdifDirection maps an EDIF "port" direction keyword (INPUT/OUTPUT/INOUT)
// to a PinType. Any other direction keyword (or an EDIF file that omits the
// direction clause entirely) is treated as Passive, matching the original
// loader's behavior for ports it doesn't recognize.
func EdifDirection(direction string) netlist.PinType {
	switch direction {
	case "INOUT":
		return netlist.DigitalIO
	case "INPUT":
		return netlist.DigitalInput
	case "OUTPUT":
		return netlist.DigitalOutput
	default:
		return netlist.Passive
	}
}

// KicadPinType maps a KiCad libpart pin "type" attribute to a PinType. This
// follows KiCad's own documented netlist pin-type vocabulary (not present in
// the prototype sources, which never implemented the KiCad loader); any
// value outside that vocabulary falls back to Unspecified.
func KicadPinType(t string) netlist.PinType {
	switch t {
	case "input":
		return netlist.DigitalInput
	case "output":
		return netlist.DigitalOutput
	case "bidirectional":
		return netlist.DigitalIO
	case "tri_state":
		return netlist.TriState
	case "passive":
		return netlist.Passive
	case "power_in":
		return netlist.PowerIn
	case "power_out":
		return netlist.PowerOut
	case "open_collector":
		return netlist.OpenCollector
	case "open_emitter":
		return netlist.OpenEmitter
	case "not_connected":
		return netlist.Unconnected
	case "unspecified", "":
		return netlist.Unspecified
	default:
		return netlist.Unspecified
	}
}

// WirelistIOType maps a wirelist "io_type" column value to a PinType.
// Unrecognized values fall back to Passive.
func WirelistIOType(ioType string) netlist.PinType {
	switch ioType {
	case "PASSIVE":
		return netlist.Passive
	case "OUTPUT":
		return netlist.DigitalOutput
	case "INPUT":
		return netlist.DigitalInput
	case "I/O":
		return netlist.DigitalIO
	case "OPEN COLLECTOR":
		return netlist.OpenCollector
	case "OPEN EMITTER":
		return netlist.OpenEmitter
	case "POWER":
		return netlist.PowerUnspecified
	default:
		return netlist.Passive
	}
}
