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

// Pin describes one pin of a LibPart.
type Pin struct {
	Name           PinName
	DefaultMode    PinMode
	AlternateModes map[string]PinMode
	Bank           string // empty if unassigned
	Section        string // empty if unassigned
}

// Bank aggregates current budget information for a group of pins sharing a
// supply domain.
type Bank struct {
	TotalSourceCurrent float32
	TotalSinkCurrent   float32
}

// LibPart is a part definition shared by zero or more Components.
type LibPart struct {
	Description string
	Footprints  []string
	Fields      map[string]string
	Pins        map[PinId]Pin
	Banks       map[string]Bank
}

// Section describes one section of a multi-section (e.g. multi-gate) part.
type Section struct {
	Name string
	Page *int // nil if no page number was recorded
}

// Component is one instantiated part on the board.
type Component struct {
	Value       string
	Description string
	LibSource   LibKey
	Fields      map[string]string
	Sections    []Section
}

// Node identifies one pin of one component instance. Equality is structural,
// and Node is comparable so it can be used directly as a map key (realizing
// spec.md's set<Node>).
type Node struct {
	Designator Designator
	PinId      PinId
}

// Net is an equipotential set of Nodes plus vendor-supplied free-form
// properties.
type Net struct {
	Nodes      map[Node]struct{}
	Properties map[string]string
}

// Stats tracks soft invariant violations observed during ingestion, for
// future diagnostic exposure (spec.md §9, first open question).
type Stats struct {
	SkippedComponents   int
	DroppedDuplicateNets int
	DanglingNodes       int
}

// Netlist is the unified, vendor-neutral root aggregate: parts, lib-parts,
// pins, and nets, plus the inverted indices used by the graph-query
// surface. All Netlist instances are treated as immutable once returned by
// an ingestion loader.
type Netlist struct {
	LibParts   map[LibKey]LibPart
	Components map[Designator]Component
	Nets       map[NetName]Net
	Stats      Stats

	// Inverted indices, built once by Finalize. Not part of the spec's data
	// model proper, but an explicitly sanctioned performance aid (spec.md
	// §9): designator -> set of nets it touches, and net -> set of
	// designators touching it.
	partNets map[Designator]map[NetName]struct{}
	netParts map[NetName]map[Designator]struct{}
}

// New constructs an empty Netlist ready to be populated by an ingestion
// loader.
func New() *Netlist {
	return &Netlist{
		LibParts:   make(map[LibKey]LibPart),
		Components: make(map[Designator]Component),
		Nets:       make(map[NetName]Net),
	}
}

// AddNet inserts a net, applying first-writer-wins semantics on duplicate
// names (spec.md §3 invariant 3, §9 design note). Returns true if the net
// was inserted, false if a net with this name already existed (in which
// case nl.Stats.DroppedDuplicateNets is incremented and the new net is
// discarded).
func (nl *Netlist) AddNet(name NetName, net Net) bool {
	if _, exists := nl.Nets[name]; exists {
		nl.Stats.DroppedDuplicateNets++
		return false
	}

	nl.Nets[name] = net

	return true
}

// Finalize (re)builds the inverted indices used by the graph-query surface.
// Ingestion loaders must call this once, after all components/nets have
// been inserted, before the Netlist is handed to analysis code.
func (nl *Netlist) Finalize() {
	nl.partNets = make(map[Designator]map[NetName]struct{})
	nl.netParts = make(map[NetName]map[Designator]struct{})

	for netName, net := range nl.Nets {
		parts := make(map[Designator]struct{}, len(net.Nodes))

		for node := range net.Nodes {
			parts[node.Designator] = struct{}{}

			if nl.partNets[node.Designator] == nil {
				nl.partNets[node.Designator] = make(map[NetName]struct{})
			}

			nl.partNets[node.Designator][netName] = struct{}{}
		}

		nl.netParts[netName] = parts
	}
}
