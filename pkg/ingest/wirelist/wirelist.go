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

// Package wirelist loads the plain-text "wire list" report Altium exports
// alongside its EDIF netlist: a component table (part number, designator,
// footprint) followed by one block per net, each block a net index/name
// header line followed by indented connection rows (designator, pin id, pin
// name, io type, part value).
package wirelist

import (
	"bufio"
	"strings"

	"github.com/romixlab/go-erc/pkg/ingest/pinmap"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/textio"
)

// Load reads and parses an Altium wire-list report file.
func Load(path string) (*netlist.Netlist, error) {
	text, err := textio.ReadFileDecoded(path)
	if err != nil {
		return nil, err
	}

	return LoadString(text), nil
}

// LoadString parses wire-list report text already in memory, populating a
// fresh Netlist. Malformed lines are skipped rather than failing the whole
// load, since wirelist reports are free-form text, not a strict grammar.
func LoadString(text string) *netlist.Netlist {
	nl := netlist.New()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inNets := false

	var (
		curNetName netlist.NetName
		curNet     netlist.Net
		haveNet    bool
	)

	flush := func() {
		if haveNet && curNetName != "" {
			nl.AddNet(curNetName, curNet)
		}

		haveNet = false
	}

	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			inNets = true
			continue
		}

		indented := len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t')
		fields := strings.Fields(raw)

		switch {
		case !inNets:
			if len(fields) < 2 {
				continue
			}

			loadComponentLine(nl, fields)
		case !indented:
			flush()

			if len(fields) < 2 {
				haveNet = false
				continue
			}

			curNetName = netlist.NetName(strings.Join(fields[1:], " "))
			curNet = netlist.Net{Nodes: map[netlist.Node]struct{}{}}
			haveNet = true
		default:
			if !haveNet || len(fields) < 5 {
				continue
			}

			loadConnectionLine(nl, &curNet, fields)
		}
	}

	flush()
	nl.Finalize()

	return nl
}

// loadComponentLine parses a "<part_number> <designator> <footprint>" row,
// where the part number may itself contain spaces, so designator and
// footprint are taken from the end and the rest is the part number.
func loadComponentLine(nl *netlist.Netlist, fields []string) {
	if len(fields) < 3 {
		return
	}

	footprint := fields[len(fields)-1]
	designator := fields[len(fields)-2]
	partNumber := strings.Join(fields[:len(fields)-2], " ")

	if designator == "" {
		nl.Stats.SkippedComponents++
		return
	}

	nl.Components[netlist.Designator(designator)] = netlist.Component{
		Value:  partNumber,
		Fields: map[string]string{"Footprint": footprint},
	}
}

// loadConnectionLine parses a "<designator> <pin_id> <pin_name> <io_type>
// <part_value>" row, where io_type may itself be two words ("OPEN
// COLLECTOR", "OPEN EMITTER", "I/O" is one token).
func loadConnectionLine(nl *netlist.Netlist, net *netlist.Net, fields []string) {
	designator := fields[0]
	pinID := fields[1]
	pinName := fields[2]
	rest := fields[3:]

	ioType := rest[0]
	if len(rest) >= 2 && (ioType == "OPEN") {
		ioType = ioType + " " + rest[1]
		rest = rest[1:]
	}

	net.Nodes[netlist.Node{Designator: netlist.Designator(designator), PinId: netlist.PinId(pinID)}] = struct{}{}

	key := netlist.LibKey{Part: netlist.LibPartName(designator)}
	lp, ok := nl.LibParts[key]

	if !ok {
		lp = netlist.LibPart{Pins: map[netlist.PinId]netlist.Pin{}}
	}

	lp.Pins[netlist.PinId(pinID)] = netlist.Pin{
		Name:        netlist.PinName(pinName),
		DefaultMode: netlist.PinMode{Type: pinmap.WirelistIOType(ioType)},
	}

	nl.LibParts[key] = lp
}
