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
package i2c

import (
	"fmt"
	"sort"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/ercconfig"
	"github.com/romixlab/go-erc/pkg/netlist"
)

var gatePinNames = map[string]struct{}{"G": {}, "GATE": {}}

// discoverInterconnects implements Phase C: for every Unknown resistor or
// transistor node on a bus, try to resolve it into a Tie or voltage
// translator joining that bus to another; failing that, try to synthesize
// an entirely new ad-hoc bus reached through it. Passes repeat until one
// makes no progress, at most 8 of them, since ad-hoc synthesis can itself
// introduce new Unknown nodes to resolve.
func discoverInterconnects(nl *netlist.Netlist, buses map[netlist.NetName]*Bus, cfg ercconfig.Config) []diag.I2cDiagnostic {
	var diagnostics []diag.I2cDiagnostic

	for pass := 0; pass < 8; pass++ {
		progressed := false

		for _, bus := range sortedBuses(buses) {
			for _, d := range sortedUnknowns(bus) {
				if !netlist.IsResistor(d) && !netlist.IsTransistor(d) {
					continue
				}

				if resolveTie(nl, buses, bus, d, cfg, &diagnostics) {
					progressed = true
					continue
				}

				if synthesizeAdHocBus(nl, buses, bus, d) {
					progressed = true
				}
			}
		}

		promoteTranslators(nl, buses)

		if !progressed {
			break
		}
	}

	return diagnostics
}

func sortedUnknowns(bus *Bus) []netlist.Designator {
	var out []netlist.Designator

	for d, kind := range bus.Nodes {
		if _, ok := kind.(Unknown); ok {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// resolveTie looks for a matching single-part chain from d's "other side"
// net into another known bus's far line, and if found, wires a Tie or
// VoltageTranslatorDiscrete node into both buses.
func resolveTie(
	nl *netlist.Netlist, buses map[netlist.NetName]*Bus, bus *Bus, d netlist.Designator,
	cfg ercconfig.Config, diagnostics *[]diag.I2cDiagnostic,
) bool {
	excludePins := map[string]struct{}{}
	if netlist.IsTransistor(d) {
		excludePins = gatePinNames
	}

	nets := nl.PartNetsExcludePinNames(d, excludePins)

	nearIsScl := false
	otherSide := netlist.NetName("")

	for _, n := range nets {
		switch n {
		case bus.SclNet:
			nearIsScl = true
		case bus.SdaNet:
			nearIsScl = false
		default:
			otherSide = n
		}
	}

	if otherSide == "" {
		return false
	}

	complementaryNet := bus.SdaNet
	if !nearIsScl {
		complementaryNet = bus.SclNet
	}

	for _, other := range sortedBuses(buses) {
		if other.Name == bus.Name {
			continue
		}

		var otherLine netlist.NetName

		switch otherSide {
		case other.SclNet:
			otherLine = other.SdaNet
		case other.SdaNet:
			otherLine = other.SclNet
		default:
			continue
		}

		predicate := netlist.IsResistor
		if netlist.IsTransistor(d) {
			predicate = netlist.IsTransistor
		}

		chains := nl.FindNetChains(complementaryNet, []func(netlist.Designator) bool{predicate}, otherLine)
		if len(chains) == 0 {
			continue
		}

		sort.Slice(chains, func(i, j int) bool { return chains[i][0].Designator < chains[j][0].Designator })
		complement := chains[0][0].Designator

		sclD, sdaD := d, complement
		if !nearIsScl {
			sclD, sdaD = complement, d
		}

		if netlist.IsTransistor(d) {
			bus.Nodes[d] = VoltageTranslatorDiscrete{SclFet: sclD, SdaFet: sdaD, OtherSide: other.Name}
			other.Nodes[complement] = VoltageTranslatorDiscrete{SclFet: sclD, SdaFet: sdaD, OtherSide: bus.Name}

			return true
		}

		bus.Nodes[d] = Tie{SclTie: sclD, SdaTie: sdaD, OtherSide: other.Name}
		other.Nodes[complement] = Tie{SclTie: sclD, SdaTie: sdaD, OtherSide: bus.Name}

		sclR, sclErr := nl.Resistance(sclD)
		sdaR, sdaErr := nl.Resistance(sdaD)

		maxR := sclR
		if sdaErr == nil && (sclErr != nil || sdaR > sclR) {
			maxR = sdaR
		}

		if (sclErr == nil && sclR > cfg.MaxTieResistance) || (sdaErr == nil && sdaR > cfg.MaxTieResistance) {
			*diagnostics = append(*diagnostics,
				diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.TieTooHighValue{Resistance: maxR, OtherSide: other.Name}},
				diag.I2cDiagnostic{BusName: other.Name, Kind: diag.TieTooHighValue{Resistance: maxR, OtherSide: bus.Name}},
			)
		}

		return true
	}

	return false
}

// synthesizeAdHocBus implements Phase C step 3: if exactly one far part on
// d's other-side net is reachable from exactly one other Unknown resistor
// or transistor on the same bus, a new bus is born between their two
// "other side" nets.
func synthesizeAdHocBus(nl *netlist.Netlist, buses map[netlist.NetName]*Bus, bus *Bus, d netlist.Designator) bool {
	excludePins := map[string]struct{}{}
	if netlist.IsTransistor(d) {
		excludePins = gatePinNames
	}

	nets := nl.PartNetsExcludePinNames(d, excludePins)

	otherSide := netlist.NetName("")

	for _, n := range nets {
		if n != bus.SclNet && n != bus.SdaNet {
			otherSide = n
			break
		}
	}

	if otherSide == "" {
		return false
	}

	farParts := nl.AnyNetParts(map[netlist.NetName]struct{}{otherSide: {}})
	delete(farParts, d)

	type candidate struct {
		farPart netlist.Designator
		dPrime  netlist.Designator
	}

	var candidates []candidate

	for dPrime, kind := range bus.Nodes {
		if dPrime == d {
			continue
		}

		if _, ok := kind.(Unknown); !ok {
			continue
		}

		if netlist.IsResistor(dPrime) != netlist.IsResistor(d) || netlist.IsTransistor(dPrime) != netlist.IsTransistor(d) {
			continue
		}

		for farPart := range farParts {
			if nl.AreConnected(dPrime, farPart) {
				candidates = append(candidates, candidate{farPart: farPart, dPrime: dPrime})
			}
		}
	}

	if len(candidates) != 1 {
		return false
	}

	dPrime := candidates[0].dPrime
	farPart := candidates[0].farPart

	otherSideOfDPrime := commonNetExcluding(nl, dPrime, farPart)
	if otherSideOfDPrime == "" {
		return false
	}

	newName := netlist.NetName(fmt.Sprintf("%s_to_%s", bus.Name, farPart))
	if _, exists := buses[newName]; exists {
		return false
	}

	connected := nl.AnyNetParts(map[netlist.NetName]struct{}{otherSide: {}, otherSideOfDPrime: {}})
	pullUp, _ := findPullUps(nl, otherSide, otherSideOfDPrime)

	excluded := map[netlist.Designator]struct{}{}
	if pullUp != nil {
		excluded[pullUp.SclResistor] = struct{}{}
		excluded[pullUp.SdaResistor] = struct{}{}
	}

	buses[newName] = &Bus{
		Name:           newName,
		SclNet:         otherSide,
		SdaNet:         otherSideOfDPrime,
		ConnectedParts: connected,
		PullUp:         pullUp,
		Nodes:          partsToNodes(nl, connected, excluded),
	}

	return true
}

// promoteTranslators handles the post-Phase-C sweep: any remaining
// Unknown(U*) node whose lib-part description implies level-shifting is
// resolved into either a VoltageTranslator (if exactly one of its non-line
// nets is another known bus's scl) or a plain Device otherwise.
func promoteTranslators(nl *netlist.Netlist, buses map[netlist.NetName]*Bus) {
	for _, bus := range sortedBuses(buses) {
		for _, d := range sortedUnknowns(bus) {
			if !looksLikeTranslator(nl, d) {
				continue
			}

			otherNets := nl.PartNetsExcludePinNames(d, nil)

			var candidates []netlist.NetName

			for _, n := range otherNets {
				if n == bus.SclNet || n == bus.SdaNet {
					continue
				}

				for _, other := range buses {
					if n == other.SclNet {
						candidates = append(candidates, other.Name)
					}
				}
			}

			if len(candidates) == 1 {
				bus.Nodes[d] = VoltageTranslator{Designator: d, OtherSide: candidates[0]}
			} else {
				bus.Nodes[d] = Device{}
			}
		}
	}
}

// segment implements Phase D: partition bus names into direct segments
// (joined by Tie) and logical same-bus segments (joined by Tie or any
// voltage-translator node).
func segment(buses map[netlist.NetName]*Bus) (direct, sameBus []map[netlist.NetName]struct{}) {
	direct = partitionBy(buses, func(kind NodeKind) (netlist.NetName, bool) {
		t, ok := kind.(Tie)
		if !ok {
			return "", false
		}

		return t.OtherSide, true
	})

	sameBus = partitionBy(buses, func(kind NodeKind) (netlist.NetName, bool) {
		switch k := kind.(type) {
		case Tie:
			return k.OtherSide, true
		case VoltageTranslator:
			return k.OtherSide, true
		case VoltageTranslatorDiscrete:
			return k.OtherSide, true
		default:
			return "", false
		}
	})

	return direct, sameBus
}

func partitionBy(
	buses map[netlist.NetName]*Bus, link func(NodeKind) (netlist.NetName, bool),
) []map[netlist.NetName]struct{} {
	var segments []map[netlist.NetName]struct{}

	for _, bus := range sortedBuses(buses) {
		local := map[netlist.NetName]struct{}{bus.Name: {}}

		for _, kind := range bus.Nodes {
			if other, ok := link(kind); ok {
				local[other] = struct{}{}
			}
		}

		absorbed := false

		for _, seg := range segments {
			if intersects(seg, local) {
				for n := range local {
					seg[n] = struct{}{}
				}

				absorbed = true

				break
			}
		}

		if !absorbed {
			segments = append(segments, local)
		}
	}

	return mergeOverlapping(segments)
}

func intersects(a, b map[netlist.NetName]struct{}) bool {
	for n := range b {
		if _, ok := a[n]; ok {
			return true
		}
	}

	return false
}

// mergeOverlapping repeatedly merges any segments that ended up sharing a
// member, since absorption order in partitionBy can leave two segments that
// should have combined split across an earlier and later pass.
func mergeOverlapping(segments []map[netlist.NetName]struct{}) []map[netlist.NetName]struct{} {
	changed := true

	for changed {
		changed = false

		for i := 0; i < len(segments); i++ {
			for j := i + 1; j < len(segments); j++ {
				if intersects(segments[i], segments[j]) {
					for n := range segments[j] {
						segments[i][n] = struct{}{}
					}

					segments = append(segments[:j], segments[j+1:]...)
					changed = true

					break
				}
			}

			if changed {
				break
			}
		}
	}

	return segments
}

// checkSegmentPullUps implements Phase E.
func checkSegmentPullUps(
	nl *netlist.Netlist, buses map[netlist.NetName]*Bus, directSegments []map[netlist.NetName]struct{},
) []diag.I2cDiagnostic {
	var diagnostics []diag.I2cDiagnostic

	for _, seg := range directSegments {
		names := sortedNetNameSlice(seg)

		var withPullUp []*Bus

		for _, name := range names {
			if bus := buses[name]; bus != nil && bus.PullUp != nil {
				withPullUp = append(withPullUp, bus)
			}
		}

		reportBus := names[0]

		switch len(withPullUp) {
		case 0:
			diagnostics = append(diagnostics, diag.I2cDiagnostic{BusName: reportBus, Kind: diag.NoPullUps{}})
		case 1:
			checkPullUpToNowhere(nl, withPullUp[0], &diagnostics)
		default:
			var all []netlist.Designator

			for _, bus := range withPullUp {
				all = append(all, bus.PullUp.SclResistor, bus.PullUp.SdaResistor)
			}

			sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

			diagnostics = append(diagnostics, diag.I2cDiagnostic{BusName: reportBus, Kind: diag.RedundantPullUps{Designators: all}})

			for _, bus := range withPullUp {
				checkPullUpToNowhere(nl, bus, &diagnostics)
			}
		}
	}

	return diagnostics
}

// checkPullUpToNowhere flags a pull-up pair whose v_net reaches nothing
// else (exactly the two resistors), or reaches exactly one further resistor
// that itself dead-ends (its other net has only itself on it).
func checkPullUpToNowhere(nl *netlist.Netlist, bus *Bus, diagnostics *[]diag.I2cDiagnostic) {
	if bus.PullUp == nil || bus.PullUp.VNet == "" {
		return
	}

	net, ok := nl.Nets[bus.PullUp.VNet]
	if !ok {
		return
	}

	pair := []netlist.Designator{bus.PullUp.SclResistor, bus.PullUp.SdaResistor}

	switch len(net.Nodes) {
	case 2:
		*diagnostics = append(*diagnostics, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.PullUpToNowhere{Designators: pair}})
	case 3:
		third := thirdNode(net, bus.PullUp.SclResistor, bus.PullUp.SdaResistor)
		if third == "" || !netlist.IsResistor(third) {
			return
		}

		otherNets := nl.PartNets(third)
		delete(otherNets, bus.PullUp.VNet)

		for otherNet := range otherNets {
			if len(nl.Nets[otherNet].Nodes) == 1 {
				*diagnostics = append(*diagnostics, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.PullUpToNowhere{Designators: pair}})

				return
			}
		}
	}
}

func thirdNode(net netlist.Net, a, b netlist.Designator) netlist.Designator {
	for node := range net.Nodes {
		if node.Designator != a && node.Designator != b {
			return node.Designator
		}
	}

	return ""
}

// reportUnknownNodes implements Phase F: anything still Unknown after
// Phase C's fixpoint is a real diagnostic.
func reportUnknownNodes(buses map[netlist.NetName]*Bus) []diag.I2cDiagnostic {
	var diagnostics []diag.I2cDiagnostic

	for _, bus := range sortedBuses(buses) {
		for _, d := range sortedUnknowns(bus) {
			diagnostics = append(diagnostics, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.UnknownNode{Designator: d}})
		}
	}

	return diagnostics
}
