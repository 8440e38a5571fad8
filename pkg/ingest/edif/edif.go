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

// Package edif loads Altium's EDIF 2 0 0 netlist export: an S-expression
// document with two kinds of (library ...) blocks, distinguished by name --
// "COMPONENT_LIB" describes part pinouts, "SHEET_LIB" describes the actual
// board instances and nets -- plus (rename ...) wrappers wherever EDIF's
// symbol alphabet can't spell the real designator/net name.
package edif

import (
	"strings"

	"github.com/romixlab/go-erc/pkg/ercerr"
	"github.com/romixlab/go-erc/pkg/ingest/pinmap"
	isexp "github.com/romixlab/go-erc/pkg/ingest/sexp"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/textio"
)

// Load reads and parses an EDIF netlist export file.
func Load(path string) (*netlist.Netlist, error) {
	text, err := textio.ReadFileDecoded(path)
	if err != nil {
		return nil, err
	}

	return LoadString(path, text)
}

// LoadString parses EDIF document text already in memory.
func LoadString(path, text string) (*netlist.Netlist, error) {
	top, err := isexp.Parse(text)
	if err != nil {
		return nil, &ercerr.ParseError{Grammar: "edif", Path: path, Err: err}
	}

	root, ok := top.(*isexp.List)
	if !ok || len(root.Elements) == 0 {
		return nil, &ercerr.ParseError{Grammar: "edif", Path: path, Err: errNotEdif}
	}

	nl := netlist.New()

	for _, item := range root.Elements {
		l, ok := item.(*isexp.List)
		if !ok || len(l.Elements) == 0 {
			continue
		}

		head, ok := l.Elements[0].(*isexp.Symbol)
		if !ok || head.Value != "library" {
			continue
		}

		loadLibrary(nl, l)
	}

	nl.Finalize()

	return nl, nil
}

type errString string

func (e errString) Error() string { return string(e) }

var errNotEdif = errString("expected an EDIF document")

func loadLibrary(nl *netlist.Netlist, lib *isexp.List) {
	if len(lib.Elements) < 2 {
		return
	}

	name, _ := symbolOrRenameFrom(lib.Elements[1])

	for _, cellExp := range lib.Elements[2:] {
		cell, ok := cellExp.(*isexp.List)
		if !ok || !cell.MatchSymbols(1, "cell") {
			continue
		}

		switch name {
		case "COMPONENT_LIB":
			loadComponentCell(nl, cell)
		case "SHEET_LIB":
			loadSheetCell(nl, cell)
		}
	}
}

func loadComponentCell(nl *netlist.Netlist, cell *isexp.List) {
	if len(cell.Elements) < 2 {
		return
	}

	libPartName, _ := symbolOrRenameFrom(cell.Elements[1])

	view, ok := cell.Named("view")
	if !ok {
		return
	}

	iface, ok := view.Named("interface")
	if !ok {
		return
	}

	pins := map[netlist.PinId]netlist.Pin{}

	for _, portExp := range iface.Elements {
		port, ok := portExp.(*isexp.List)
		if !ok || !port.MatchSymbols(1, "port") || len(port.Elements) < 2 {
			continue
		}

		pinID, _ := symbolOrRenameFrom(port.Elements[1])
		pinID = strings.TrimPrefix(pinID, "&")

		direction := ""
		if d, ok := port.Field("direction", 1); ok {
			direction = d
		}

		pins[netlist.PinId(pinID)] = netlist.Pin{
			DefaultMode: netlist.PinMode{Type: pinmap.EdifDirection(direction)},
		}
	}

	key := netlist.LibKey{Lib: "COMPONENT_LIB", Part: netlist.LibPartName(libPartName)}
	nl.LibParts[key] = netlist.LibPart{Pins: pins}
}

func loadSheetCell(nl *netlist.Netlist, cell *isexp.List) {
	view, ok := cell.Named("view")
	if !ok {
		return
	}

	contents, ok := view.Named("contents")
	if !ok {
		return
	}

	for _, item := range contents.Elements {
		l, ok := item.(*isexp.List)
		if !ok || len(l.Elements) == 0 {
			continue
		}

		head, ok := l.Elements[0].(*isexp.Symbol)
		if !ok {
			continue
		}

		switch head.Value {
		case "instance":
			loadInstance(nl, l)
		case "net":
			loadNet(nl, l)
		}
	}
}

func loadInstance(nl *netlist.Netlist, instance *isexp.List) {
	if len(instance.Elements) < 3 {
		return
	}

	designator, _ := symbolOrRenameFrom(instance.Elements[1])
	if designator == "" {
		nl.Stats.SkippedComponents++
		return
	}

	viewRef, ok := instance.Elements[2].(*isexp.List)
	if !ok || len(viewRef.Elements) < 2 {
		return
	}

	cellRef, ok := viewRef.Elements[len(viewRef.Elements)-1].(*isexp.List)
	if !ok || len(cellRef.Elements) < 2 {
		return
	}

	libPartName, _ := symbolOrRenameFrom(cellRef.Elements[1])

	fields := map[string]string{}

	for _, propExp := range instance.Elements[3:] {
		prop, ok := propExp.(*isexp.List)
		if !ok || !prop.MatchSymbols(1, "property") || len(prop.Elements) < 3 {
			continue
		}

		_, name := symbolOrRenameFrom(prop.Elements[1])

		value := propertyValue(prop)
		if value != "" {
			fields[name] = value
		}
	}

	value := fields["Value"]
	if value == "" {
		value = fields["Comment"]
	}

	key := netlist.LibKey{Lib: "COMPONENT_LIB", Part: netlist.LibPartName(libPartName)}

	if footprint := fields["Footprint"]; footprint != "" {
		if lp, ok := nl.LibParts[key]; ok {
			lp.Footprints = append(lp.Footprints, footprint)
			nl.LibParts[key] = lp
		}
	}

	nl.Components[netlist.Designator(designator)] = netlist.Component{
		Value:       value,
		Description: fields["Description"],
		LibSource:   key,
		Fields:      fields,
	}
}

func loadNet(nl *netlist.Netlist, netExp *isexp.List) {
	if len(netExp.Elements) < 3 {
		return
	}

	_, netName := symbolOrRenameFrom(netExp.Elements[1])
	if netName == "" {
		return
	}

	joined, ok := netExp.Elements[2].(*isexp.List)
	if !ok || !joined.MatchSymbols(1, "joined") {
		return
	}

	nodes := map[netlist.Node]struct{}{}

	for _, portRefExp := range joined.Elements[1:] {
		portRef, ok := portRefExp.(*isexp.List)
		if !ok || !portRef.MatchSymbols(1, "portRef") || len(portRef.Elements) < 3 {
			continue
		}

		pinID, _ := symbolOrRenameFrom(portRef.Elements[1])
		pinID = strings.TrimPrefix(pinID, "&")

		instRef, ok := portRef.Elements[2].(*isexp.List)
		if !ok || len(instRef.Elements) < 2 {
			continue
		}

		designator, _ := symbolOrRenameFrom(instRef.Elements[1])

		nodes[netlist.Node{Designator: netlist.Designator(designator), PinId: netlist.PinId(pinID)}] = struct{}{}
	}

	properties := map[string]string{}

	for _, propExp := range netExp.Elements[3:] {
		prop, ok := propExp.(*isexp.List)
		if !ok || !prop.MatchSymbols(1, "property") || len(prop.Elements) < 3 {
			continue
		}

		_, name := symbolOrRenameFrom(prop.Elements[1])
		properties[name] = propertyValue(prop)
	}

	nl.AddNet(netlist.NetName(netName), netlist.Net{Nodes: nodes, Properties: properties})
}

// propertyValue extracts the leaf string value out of a
// (property NAME (type (value V))) or (property NAME (string V)) shape.
func propertyValue(prop *isexp.List) string {
	for _, e := range prop.Elements[2:] {
		l, ok := e.(*isexp.List)
		if !ok || len(l.Elements) < 2 {
			continue
		}

		if inner, ok := l.Elements[1].(*isexp.List); ok && len(inner.Elements) >= 2 {
			if sym, ok := inner.Elements[1].(*isexp.Symbol); ok {
				return sym.Value
			}
		}

		if sym, ok := l.Elements[1].(*isexp.Symbol); ok {
			return sym.Value
		}
	}

	return ""
}

// symbolOrRenameFrom mirrors the original's symbol_or_rename_get: an EDIF
// identifier is either a bare (symbol) token or a
// (rename symbol (stringDisplay "Real Name")) pair; it returns (from, to),
// where "from" is the raw EDIF-legal symbol and "to" is the human name
// (equal to "from" when there is no rename).
func symbolOrRenameFrom(e isexp.SExp) (string, string) {
	if sym, ok := e.(*isexp.Symbol); ok {
		return sym.Value, sym.Value
	}

	l, ok := e.(*isexp.List)
	if !ok || !l.MatchSymbols(1, "rename") || len(l.Elements) < 3 {
		return "", ""
	}

	from, ok := l.Elements[1].(*isexp.Symbol)
	if !ok {
		return "", ""
	}

	display, ok := l.Elements[2].(*isexp.List)
	if !ok || len(display.Elements) < 2 {
		return from.Value, from.Value
	}

	to, ok := display.Elements[1].(*isexp.Symbol)
	if !ok {
		return from.Value, from.Value
	}

	return from.Value, to.Value
}
