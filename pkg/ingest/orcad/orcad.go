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

// Package orcad loads OrCAD Capture's three sibling report files: a
// "pstxnet.dat" net report (a handful of brace-wrapped exporter comment
// lines followed by one block per net, each block a net-name header line
// followed by indented node rows of the form "DESIGNATOR-PIN_ID
// INSTANCE_NAME PIN_NAME"), a "pstxprt.dat" parts report (S-expression
// shaped instance declarations with multi-section metadata), and a
// "pstchip.dat" chip report (S-expression shaped primitive/pin/value
// declarations). All three live alongside each other under a fixed
// filename convention; Load derives the other two from whichever one it is
// given.
package orcad

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/romixlab/go-erc/pkg/ercerr"
	isexp "github.com/romixlab/go-erc/pkg/ingest/sexp"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/textio"
)

const (
	netFilename   = "pstxnet.dat"
	partsFilename = "pstxprt.dat"
	chipFilename  = "pstchip.dat"
)

// Load reads and merges an OrCAD Capture netlist from its three sibling
// report files, deriving the filenames not matching anyPath's basename from
// anyPath's directory.
func Load(anyPath string) (*netlist.Netlist, error) {
	dir := filepath.Dir(anyPath)
	netPath := filepath.Join(dir, netFilename)
	partsPath := filepath.Join(dir, partsFilename)
	chipPath := filepath.Join(dir, chipFilename)

	netText, err := textio.ReadFileDecoded(netPath)
	if err != nil {
		return nil, err
	}

	nl := LoadString(netText)

	chipText, err := textio.ReadFileDecoded(chipPath)
	if err != nil {
		return nil, &ercerr.MissingCompanionFileError{Primary: netPath, Companion: chipPath}
	}

	chipForms, err := isexp.ParseAll(chipText)
	if err != nil {
		return nil, &ercerr.ParseError{Grammar: "orcad-chip", Path: chipPath, Err: err}
	}

	values := loadPrimitives(nl, chipForms)

	partsText, err := textio.ReadFileDecoded(partsPath)
	if err != nil {
		return nil, &ercerr.MissingCompanionFileError{Primary: netPath, Companion: partsPath}
	}

	partsForms, err := isexp.ParseAll(partsText)
	if err != nil {
		return nil, &ercerr.ParseError{Grammar: "orcad-parts", Path: partsPath, Err: err}
	}

	loadInstances(nl, partsForms, values)

	nl.Finalize()

	return nl, nil
}

// LoadString parses pstxnet.dat text already in memory, populating only
// Nets; Components and LibParts are left for loadPrimitives/loadInstances
// to fill in from the chip/parts siblings, since pstxnet.dat itself carries
// no part definitions.
func LoadString(text string) *netlist.Netlist {
	nl := netlist.New()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

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
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "{") {
			continue // exporter_comment
		}

		indented := raw[0] == ' ' || raw[0] == '\t'

		if !indented {
			flush()

			curNetName = netlist.NetName(strings.Fields(trimmed)[0])
			curNet = netlist.Net{Nodes: map[netlist.Node]struct{}{}}
			haveNet = true

			continue
		}

		if !haveNet {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}

		loadNodeField(&curNet, fields[0])
	}

	flush()
	nl.Finalize()

	return nl
}

// loadNodeField splits a "DESIGNATOR-PIN_ID" token into its Node, ignoring
// any trailing instance/pin-name columns the caller has already stripped.
func loadNodeField(net *netlist.Net, field string) {
	idx := strings.LastIndexByte(field, '-')
	if idx <= 0 || idx == len(field)-1 {
		return
	}

	designator := field[:idx]
	pinID := field[idx+1:]

	net.Nodes[netlist.Node{Designator: netlist.Designator(designator), PinId: netlist.PinId(pinID)}] = struct{}{}
}
