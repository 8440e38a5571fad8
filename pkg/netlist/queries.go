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

import (
	"sort"

	"github.com/romixlab/go-erc/pkg/passive"
)

// ensureIndices lazily builds the inverted indices if Finalize was never
// called (e.g. for Netlists assembled directly by tests).
func (nl *Netlist) ensureIndices() {
	if nl.partNets == nil || nl.netParts == nil {
		nl.Finalize()
	}
}

// PinNet looks up the net containing the given (part, pin) node. Returns
// ("", false) if the part has no connection on that pin (a LookupError
// condition per spec.md §7: never panics, just an empty result).
func (nl *Netlist) PinNet(part Designator, pin PinId) (NetName, bool) {
	nl.ensureIndices()

	for netName := range nl.partNets[part] {
		net := nl.Nets[netName]
		if _, ok := net.Nodes[Node{Designator: part, PinId: pin}]; ok {
			return netName, true
		}
	}

	return "", false
}

// PartNets returns the set of all nets touched by any pin of the given part.
func (nl *Netlist) PartNets(part Designator) map[NetName]struct{} {
	nl.ensureIndices()

	result := make(map[NetName]struct{}, len(nl.partNets[part]))
	for n := range nl.partNets[part] {
		result[n] = struct{}{}
	}

	return result
}

// IsConnected reports whether the given part has a pin on the given net.
func (nl *Netlist) IsConnected(part Designator, net NetName) bool {
	nl.ensureIndices()
	_, ok := nl.partNets[part][net]

	return ok
}

// AreConnected reports whether two parts share at least one net.
func (nl *Netlist) AreConnected(a, b Designator) bool {
	return len(nl.PartsCommonNets(a, b)) > 0
}

// PartsCommonNets returns the set of nets touched by both a and b.
func (nl *Netlist) PartsCommonNets(a, b Designator) map[NetName]struct{} {
	nl.ensureIndices()

	result := make(map[NetName]struct{})
	for n := range nl.partNets[a] {
		if _, ok := nl.partNets[b][n]; ok {
			result[n] = struct{}{}
		}
	}

	return result
}

// PartNetsExcludePinNames returns, as a sorted slice for determinism, the
// nets touched by part, excluding any net reached only via pins whose
// PinName is in excludeNames. This is used to ignore e.g. MOSFET gate nets
// when tracing source/drain continuity.
func (nl *Netlist) PartNetsExcludePinNames(part Designator, excludeNames map[string]struct{}) []NetName {
	libPart, hasLib := nl.libPartOf(part)

	nl.ensureIndices()

	seen := make(map[NetName]struct{})

	for netName := range nl.partNets[part] {
		net := nl.Nets[netName]
		if netReachedOnlyViaExcluded(net, part, libPart, hasLib, excludeNames) {
			continue
		}

		seen[netName] = struct{}{}
	}

	return sortedNetNames(seen)
}

// netReachedOnlyViaExcluded reports whether every node belonging to part on
// this net uses an excluded pin name.
func netReachedOnlyViaExcluded(
	net Net, part Designator, libPart LibPart, hasLib bool, excludeNames map[string]struct{},
) bool {
	any := false

	for node := range net.Nodes {
		if node.Designator != part {
			continue
		}

		any = true

		name := ""
		if hasLib {
			if pin, ok := libPart.Pins[node.PinId]; ok {
				name = string(pin.Name)
			}
		}

		if _, excluded := excludeNames[name]; !excluded {
			return false
		}
	}

	return any
}

// AnyNetParts returns the union of designators touching any of the given
// nets.
func (nl *Netlist) AnyNetParts(nets map[NetName]struct{}) map[Designator]struct{} {
	nl.ensureIndices()

	result := make(map[Designator]struct{})

	for n := range nets {
		for d := range nl.netParts[n] {
			result[d] = struct{}{}
		}
	}

	return result
}

// FindNetsWithPinTypes returns all nets containing at least one node whose
// lib-part pin has one of the given pin types.
func (nl *Netlist) FindNetsWithPinTypes(types map[PinType]struct{}) map[NetName]struct{} {
	result := make(map[NetName]struct{})

	for netName, net := range nl.Nets {
		for node := range net.Nodes {
			libPart, ok := nl.libPartOf(node.Designator)
			if !ok {
				continue
			}

			pin, ok := libPart.Pins[node.PinId]
			if !ok {
				continue
			}

			if _, match := types[pin.DefaultMode.Type]; match {
				result[netName] = struct{}{}
				break
			}
		}
	}

	return result
}

// Resistance parses the resistance value of a resistor component, failing if
// the designator does not name a resistor or carries no value.
func (nl *Netlist) Resistance(d Designator) (passive.Ohm, error) {
	if !IsResistor(d) {
		return 0, &ResistanceError{Designator: d, Msg: "not a resistor designator"}
	}

	comp, ok := nl.Components[d]
	if !ok {
		return 0, &ResistanceError{Designator: d, Msg: "component not found"}
	}

	if comp.Value == "" {
		return 0, &ResistanceError{Designator: d, Msg: "empty value"}
	}

	ohm, _, err := passive.Parse(comp.Value)
	if err != nil {
		return 0, &ResistanceError{Designator: d, Msg: err.Error()}
	}

	return ohm, nil
}

// ResistanceError reports that a resistance value could not be computed for
// a given designator.
type ResistanceError struct {
	Designator Designator
	Msg        string
}

func (e *ResistanceError) Error() string {
	return string(e.Designator) + ": " + e.Msg
}

// ReachablePin is one (pin, designator) result of FindReachablePins.
type ReachablePin struct {
	PinId      PinId
	Designator Designator
}

// FindReachablePins explores every net containing a pin of start, except
// the pin named exceptPin, and returns all (pin, designator) pairs on those
// nets whose designator passes endFilter and is not start itself.
func (nl *Netlist) FindReachablePins(
	start Designator, exceptPin PinName, endFilter func(Designator) bool,
) []ReachablePin {
	libPart, hasLib := nl.libPartOf(start)
	nl.ensureIndices()

	var result []ReachablePin

	seen := make(map[ReachablePin]struct{})

	for netName := range nl.partNets[start] {
		if nl.netReachedOnlyViaPin(netName, start, libPart, hasLib, exceptPin) {
			continue
		}

		net := nl.Nets[netName]
		for node := range net.Nodes {
			if node.Designator == start || !endFilter(node.Designator) {
				continue
			}

			rp := ReachablePin{PinId: node.PinId, Designator: node.Designator}
			if _, dup := seen[rp]; !dup {
				seen[rp] = struct{}{}
				result = append(result, rp)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Designator != result[j].Designator {
			return result[i].Designator < result[j].Designator
		}

		return result[i].PinId < result[j].PinId
	})

	return result
}

// netReachedOnlyViaPin reports whether the only node start has on this net
// uses the given pin name (so the net should be excluded).
func (nl *Netlist) netReachedOnlyViaPin(
	netName NetName, start Designator, libPart LibPart, hasLib bool, exceptPin PinName,
) bool {
	net := nl.Nets[netName]

	for node := range net.Nodes {
		if node.Designator != start {
			continue
		}

		if !hasLib {
			return false
		}

		pin, ok := libPart.Pins[node.PinId]
		if !ok || pin.Name != exceptPin {
			return false
		}
	}

	return true
}

// FindNetChains finds all length-N chains of parts such that the first part
// sits on startNet, each consecutive pair shares some net, the last part
// sits on endNet, and the part at position i satisfies goesThrough[i].
func (nl *Netlist) FindNetChains(
	startNet NetName, goesThrough []func(Designator) bool, endNet NetName,
) [][]ReachablePin {
	if len(goesThrough) == 0 {
		return nil
	}

	nl.ensureIndices()

	startParts, ok := nl.netParts[startNet]
	if !ok {
		return nil
	}

	layers := make([][]ReachablePin, len(goesThrough))

	for d := range startParts {
		if goesThrough[0](d) {
			layers[0] = append(layers[0], ReachablePin{Designator: d})
		}
	}

	sortReachable(layers[0])

	for i := 1; i < len(goesThrough); i++ {
		seen := make(map[ReachablePin]struct{})

		for _, prev := range layers[i-1] {
			for netName := range nl.partNets[prev.Designator] {
				net := nl.Nets[netName]
				for node := range net.Nodes {
					if node.Designator == prev.Designator || !goesThrough[i](node.Designator) {
						continue
					}

					rp := ReachablePin{PinId: node.PinId, Designator: node.Designator}
					if _, dup := seen[rp]; !dup {
						seen[rp] = struct{}{}
						layers[i] = append(layers[i], rp)
					}
				}
			}
		}

		sortReachable(layers[i])
	}

	last := len(layers) - 1
	endParts := nl.netParts[endNet]
	filtered := layers[last][:0:0]

	for _, rp := range layers[last] {
		if _, ok := endParts[rp.Designator]; ok {
			filtered = append(filtered, rp)
		}
	}

	layers[last] = filtered

	return cartesianConnectedChains(nl, layers)
}

// cartesianConnectedChains forms the Cartesian product of per-layer
// candidates and filters out products whose consecutive elements are not
// connected.
func cartesianConnectedChains(nl *Netlist, layers [][]ReachablePin) [][]ReachablePin {
	for _, l := range layers {
		if len(l) == 0 {
			return nil
		}
	}

	chains := [][]ReachablePin{{}}

	for _, layer := range layers {
		var next [][]ReachablePin

		for _, chain := range chains {
			for _, candidate := range layer {
				if len(chain) > 0 && !nl.AreConnected(chain[len(chain)-1].Designator, candidate.Designator) {
					continue
				}

				extended := make([]ReachablePin, len(chain)+1)
				copy(extended, chain)
				extended[len(chain)] = candidate
				next = append(next, extended)
			}
		}

		chains = next
	}

	return chains
}

func sortReachable(rps []ReachablePin) {
	sort.Slice(rps, func(i, j int) bool {
		return rps[i].Designator < rps[j].Designator
	})
}

func sortedNetNames(m map[NetName]struct{}) []NetName {
	result := make([]NetName, 0, len(m))
	for n := range m {
		result = append(result, n)
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })

	return result
}

// libPartOf resolves the LibPart referenced by a component's lib_source.
func (nl *Netlist) libPartOf(d Designator) (LibPart, bool) {
	comp, ok := nl.Components[d]
	if !ok {
		return LibPart{}, false
	}

	lp, ok := nl.LibParts[comp.LibSource]

	return lp, ok
}
