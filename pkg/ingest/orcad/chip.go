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
package orcad

import (
	"regexp"
	"strconv"
	"strings"

	isexp "github.com/romixlab/go-erc/pkg/ingest/sexp"
	"github.com/romixlab/go-erc/pkg/netlist"
)

// loadPrimitives parses pstchip.dat's top-level
// "(primitive NAME (pins (pin NAME (param ...)*)+) (body (param ...)*))"
// forms into LibParts, keyed under the "orcad" library. It returns each
// primitive's declared VALUE field, for loadInstances to back-propagate
// onto the Components that reference it.
func loadPrimitives(nl *netlist.Netlist, forms []isexp.SExp) map[netlist.LibPartName]string {
	values := make(map[netlist.LibPartName]string)

	for _, form := range forms {
		primitive, ok := form.(*isexp.List)
		if !ok || !primitive.MatchSymbols(1, "primitive") || primitive.Len() < 2 {
			continue
		}

		name, ok := primitive.Elements[1].(*isexp.Symbol)
		if !ok || name.Value == "" {
			continue
		}

		key := netlist.LibKey{Lib: "orcad", Part: netlist.LibPartName(name.Value)}

		libPart := netlist.LibPart{
			Fields: map[string]string{},
			Pins:   map[netlist.PinId]netlist.Pin{},
		}

		if pins, ok := primitive.Named("pins"); ok {
			for _, pin := range pins.AllNamed("pin") {
				loadPrimitivePin(&libPart, pin)
			}
		}

		if body, ok := primitive.Named("body"); ok {
			for _, param := range body.AllNamed("param") {
				loadPrimitiveParam(&libPart, param)
			}
		}

		if value, ok := libPart.Fields["VALUE"]; ok {
			values[netlist.LibPartName(name.Value)] = value
		}

		nl.LibParts[key] = libPart
	}

	return values
}

func loadPrimitivePin(libPart *netlist.LibPart, pin *isexp.List) {
	if pin.Len() < 2 {
		return
	}

	raw, ok := pin.Elements[1].(*isexp.Symbol)
	if !ok {
		return
	}

	pinID, section, ok := disambiguatePinID(raw.Value)
	if !ok {
		pinID = netlist.PinId(raw.Value)
	}

	libPart.Pins[pinID] = netlist.Pin{Section: section}
}

func loadPrimitiveParam(libPart *netlist.LibPart, param *isexp.List) {
	if param.Len() < 3 {
		return
	}

	name, ok := param.Elements[1].(*isexp.Symbol)
	if !ok {
		return
	}

	value, ok := param.Elements[2].(*isexp.Symbol)
	if !ok {
		return
	}

	libPart.Fields[name.Value] = value.Value
}

// rePinSlots matches a gate-swappable pin id of the literal "N,N,N,N" shape
// pstchip.dat emits for multi-section parts.
var rePinSlots = regexp.MustCompile(`^\d+\s*,\s*\d+\s*,\s*\d+\s*,\s*\d+$`)

// disambiguatePinID reads a "0,0,N,0"-shaped pin id: exactly one of the four
// comma-separated slots is non-zero. That slot's value is the chip's
// physical pin number, and its position names the section the pin belongs
// to in that slot's gate ('A' for slot 0, 'B' for slot 1, and so on). ok is
// false for an ordinary (non-multi-section) pin id, which callers should use
// as-is.
func disambiguatePinID(raw string) (pinID netlist.PinId, section string, ok bool) {
	if !rePinSlots.MatchString(raw) {
		return "", "", false
	}

	slots := strings.Split(raw, ",")
	nonZero := -1

	for i, slot := range slots {
		n, err := strconv.Atoi(strings.TrimSpace(slot))
		if err != nil {
			return "", "", false
		}

		if n == 0 {
			continue
		}

		if nonZero != -1 {
			return "", "", false // more than one non-zero slot: not a valid disambiguation
		}

		nonZero = i
		pinID = netlist.PinId(strconv.Itoa(n))
	}

	if nonZero == -1 {
		return "", "", false
	}

	return pinID, string(rune('A' + nonZero)), true
}
