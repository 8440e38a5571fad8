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

	isexp "github.com/romixlab/go-erc/pkg/ingest/sexp"
	"github.com/romixlab/go-erc/pkg/netlist"
)

// rePage extracts a page number from a section's path annotation, e.g.
// "@SHEET1:page3/gate_A" -> 3.
var rePage = regexp.MustCompile(`:page(\d+)`)

// loadInstances parses pstxprt.dat's top-level
// "(instance (designator D) (primitive P) (section (name S) (path PATH))*)"
// forms into Components, resolving each instance's LibSource against the
// primitives pstchip.dat declared and back-propagating that primitive's
// VALUE field (from values, as built by loadPrimitives).
func loadInstances(nl *netlist.Netlist, forms []isexp.SExp, values map[netlist.LibPartName]string) {
	for _, form := range forms {
		instance, ok := form.(*isexp.List)
		if !ok || !instance.MatchSymbols(1, "instance") {
			continue
		}

		designator, ok := instance.Field("designator", 1)
		if !ok || designator == "" {
			nl.Stats.SkippedComponents++
			continue
		}

		primitive, _ := instance.Field("primitive", 1)
		partName := netlist.LibPartName(primitive)

		comp := netlist.Component{
			Fields:    map[string]string{},
			LibSource: netlist.LibKey{Lib: "orcad", Part: partName},
			Value:     values[partName],
			Sections:  loadSections(instance),
		}

		nl.Components[netlist.Designator(designator)] = comp
	}
}

func loadSections(instance *isexp.List) []netlist.Section {
	var sections []netlist.Section

	for _, s := range instance.AllNamed("section") {
		name, _ := s.Field("name", 1)
		section := netlist.Section{Name: name}

		if path, ok := s.Field("path", 1); ok {
			if m := rePage.FindStringSubmatch(path); m != nil {
				if page, err := strconv.Atoi(m[1]); err == nil {
					section.Page = &page
				}
			}
		}

		sections = append(sections, section)
	}

	return sections
}
