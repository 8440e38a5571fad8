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

// Package kicad loads KiCad's S-expression netlist export format (the
// "(export (version ...) (design ...) (components ...) (libparts ...)
// (libraries ...) (nets ...))" shape emitted by Eeschema/KiCad 6+).
package kicad

import (
	"github.com/romixlab/go-erc/pkg/ercerr"
	"github.com/romixlab/go-erc/pkg/ingest/pinmap"
	isexp "github.com/romixlab/go-erc/pkg/ingest/sexp"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/textio"
)

// Load reads and parses a KiCad netlist export file.
func Load(path string) (*netlist.Netlist, error) {
	text, err := textio.ReadFileDecoded(path)
	if err != nil {
		return nil, err
	}

	return LoadString(path, text)
}

// LoadString parses KiCad netlist export text already in memory. path is
// used only for error messages.
func LoadString(path, text string) (*netlist.Netlist, error) {
	top, err := isexp.Parse(text)
	if err != nil {
		return nil, &ercerr.ParseError{Grammar: "kicad", Path: path, Err: err}
	}

	export, ok := top.(*isexp.List)
	if !ok || !export.MatchSymbols(1, "export") {
		return nil, &ercerr.ParseError{Grammar: "kicad", Path: path, Err: errUnexpectedTop}
	}

	nl := netlist.New()

	if libparts, ok := export.Named("libparts"); ok {
		loadLibParts(nl, libparts)
	}

	if components, ok := export.Named("components"); ok {
		loadComponents(nl, components)
	}

	if nets, ok := export.Named("nets"); ok {
		loadNets(nl, nets)
	}

	nl.Finalize()

	return nl, nil
}

var errUnexpectedTop = errTop("expected top-level (export ...) list")

type errTop string

func (e errTop) Error() string { return string(e) }

func loadLibParts(nl *netlist.Netlist, libparts *isexp.List) {
	for _, lp := range libparts.AllNamed("libpart") {
		lib, _ := lp.Field("lib", 1)
		part, _ := lp.Field("part", 1)
		key := netlist.LibKey{Lib: netlist.LibName(lib), Part: netlist.LibPartName(part)}

		libPart := netlist.LibPart{
			Fields: map[string]string{},
			Pins:   map[netlist.PinId]netlist.Pin{},
		}

		if desc, ok := lp.Field("description", 1); ok {
			libPart.Description = desc
		}

		if fields, ok := lp.Named("fields"); ok {
			for _, f := range fields.AllNamed("field") {
				name, _ := f.Field("name", 1)
				if name == "" || len(f.Elements) < 2 {
					continue
				}

				if val, ok := f.Elements[len(f.Elements)-1].(*isexp.Symbol); ok && len(f.Elements) >= 3 {
					libPart.Fields[name] = val.Value
				}
			}
		}

		if footprints, ok := lp.Named("footprints"); ok {
			for _, fp := range footprints.AllNamed("fp") {
				if len(fp.Elements) >= 2 {
					if sym, ok := fp.Elements[1].(*isexp.Symbol); ok {
						libPart.Footprints = append(libPart.Footprints, sym.Value)
					}
				}
			}
		}

		if pins, ok := lp.Named("pins"); ok {
			for _, p := range pins.AllNamed("pin") {
				num, _ := p.Field("num", 1)
				name, _ := p.Field("name", 1)
				pinType, _ := p.Field("type", 1)

				libPart.Pins[netlist.PinId(num)] = netlist.Pin{
					Name: netlist.PinName(name),
					DefaultMode: netlist.PinMode{
						Type: pinmap.KicadPinType(pinType),
					},
				}
			}
		}

		nl.LibParts[key] = libPart
	}
}

func loadComponents(nl *netlist.Netlist, components *isexp.List) {
	for _, c := range components.AllNamed("comp") {
		ref, _ := c.Field("ref", 1)
		if ref == "" {
			nl.Stats.SkippedComponents++
			continue
		}

		comp := netlist.Component{Fields: map[string]string{}}

		if value, ok := c.Field("value", 1); ok {
			comp.Value = value
		}

		if desc, ok := c.Field("description", 1); ok {
			comp.Description = desc
		}

		if libsource, ok := c.Named("libsource"); ok {
			lib, _ := libsource.Field("lib", 1)
			part, _ := libsource.Field("part", 1)
			comp.LibSource = netlist.LibKey{Lib: netlist.LibName(lib), Part: netlist.LibPartName(part)}
		}

		if footprint, ok := c.Field("footprint", 1); ok {
			comp.Fields["Footprint"] = footprint
		}

		nl.Components[netlist.Designator(ref)] = comp
	}
}

func loadNets(nl *netlist.Netlist, nets *isexp.List) {
	for _, n := range nets.AllNamed("net") {
		name, ok := n.Field("name", 1)
		if !ok || name == "" {
			continue
		}

		net := netlist.Net{Nodes: map[netlist.Node]struct{}{}}

		for _, node := range n.AllNamed("node") {
			ref, _ := node.Field("ref", 1)
			pin, _ := node.Field("pin", 1)

			if ref == "" || pin == "" {
				continue
			}

			net.Nodes[netlist.Node{Designator: netlist.Designator(ref), PinId: netlist.PinId(pin)}] = struct{}{}
		}

		nl.AddNet(netlist.NetName(name), net)
	}
}
