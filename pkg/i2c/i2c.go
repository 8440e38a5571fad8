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

// Package i2c discovers I2C bus segments from net names (SCL/SDA pairing),
// classifies the parts hanging off each bus, resolves pull-up resistors,
// finds ties and voltage translators connecting independent buses into one
// logical segment, and reports the resulting diagnostics.
package i2c

import (
	"regexp"
	"sort"
	"strings"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/ercconfig"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/passive"
)

// NodeKind is a closed variant set describing the role a part plays on a
// bus, once resolved.
type NodeKind interface {
	i2cNodeKind()
}

// Connector is a board-edge connector carrying the bus off-board.
type Connector struct{}

// TestPoint is a bare test point on the bus.
type TestPoint struct{}

// Device is a bus participant (sensor, MCU, etc.) with no special role.
type Device struct{}

// Unknown is a node Phase A/C could not (yet) classify.
type Unknown struct{ Designator netlist.Designator }

// Tie is a resistor pair joining two buses' corresponding lines directly.
type Tie struct {
	SclTie, SdaTie netlist.Designator
	OtherSide      netlist.NetName
}

// VoltageTranslator is a U-part whose lib-part description implies
// level-shifting, joining this bus to another's SCL line.
type VoltageTranslator struct {
	Designator netlist.Designator
	OtherSide  netlist.NetName
}

// VoltageTranslatorDiscrete is a transistor pair joining two buses, in place
// of an integrated level-shifter.
type VoltageTranslatorDiscrete struct {
	SclFet, SdaFet netlist.Designator
	OtherSide      netlist.NetName
}

func (Connector) i2cNodeKind()                 {}
func (TestPoint) i2cNodeKind()                 {}
func (Device) i2cNodeKind()                    {}
func (Unknown) i2cNodeKind()                   {}
func (Tie) i2cNodeKind()                       {}
func (VoltageTranslator) i2cNodeKind()         {}
func (VoltageTranslatorDiscrete) i2cNodeKind() {}

// PullUp is a discovered resistor pair tying both bus lines to a common
// supply net.
type PullUp struct {
	SclResistor netlist.Designator
	SdaResistor netlist.Designator
	VNet        netlist.NetName
}

// Bus is one discovered (or ad-hoc synthesized) I2C bus.
type Bus struct {
	Name           netlist.NetName
	SclNet, SdaNet netlist.NetName
	ConnectedParts map[netlist.Designator]struct{}
	PullUp         *PullUp
	Nodes          map[netlist.Designator]NodeKind
}

// Buses is the full result of bus discovery, keyed by derived bus name.
type Buses struct {
	ByName map[netlist.NetName]*Bus
}

var reUnderscores = regexp.MustCompile(`_+`)

func collapseUnderscores(s string) string {
	return reUnderscores.ReplaceAllString(s, "_")
}

// Discover runs the full bus-discovery and rule-check pipeline over a
// netlist and returns the resulting buses plus every diagnostic raised
// along the way.
func Discover(nl *netlist.Netlist, cfg ercconfig.Config) (*Buses, []diag.I2cDiagnostic) {
	buses := findBuses(nl)

	var diagnostics []diag.I2cDiagnostic

	for _, bus := range sortedBuses(buses) {
		diagnostics = append(diagnostics, checkPullUpValues(bus, nl, cfg)...)

		if bus.PullUp != nil {
			if _, redundant := findPullUps(nl, bus.SclNet, bus.SdaNet); len(redundant) > 0 {
				diagnostics = append(diagnostics, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.RedundantPullUps{Designators: redundant}})
			}
		}
	}

	diagnostics = append(diagnostics, discoverInterconnects(nl, buses, cfg)...)

	directSegments, sameBusSegments := segment(buses)

	diagnostics = append(diagnostics, checkSegmentPullUps(nl, buses, directSegments)...)
	diagnostics = append(diagnostics, reportUnknownNodes(buses)...)

	_ = sameBusSegments // exposed via Segments, computed on demand by callers

	return &Buses{ByName: buses}, diagnostics
}

// Segments recomputes the direct and logical (same-bus) segment partitions
// for an already-discovered set of buses. Each partition is a list of sets
// of bus names.
func Segments(buses *Buses) (direct, sameBus []map[netlist.NetName]struct{}) {
	return segment(buses.ByName)
}

func sortedBuses(buses map[netlist.NetName]*Bus) []*Bus {
	names := make([]netlist.NetName, 0, len(buses))
	for n := range buses {
		names = append(names, n)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	result := make([]*Bus, 0, len(names))
	for _, n := range names {
		result = append(result, buses[n])
	}

	return result
}

// findBuses implements Phase A: scan every net name for "SCL", pair it with
// its "SDA" counterpart, and build a candidate bus for every pair that
// exists.
func findBuses(nl *netlist.Netlist) map[netlist.NetName]*Bus {
	buses := make(map[netlist.NetName]*Bus)

	for netName := range nl.Nets {
		s := string(netName)

		sclStart := strings.Index(s, "SCL")
		if sclStart < 0 {
			continue
		}

		prefix := s[:sclStart]
		suffix := ""

		if sclStart+3 < len(s) {
			suffix = s[sclStart+3:]
		}

		sdaNet := netlist.NetName(prefix + "SDA" + suffix)
		if _, ok := nl.Nets[sdaNet]; !ok {
			continue
		}

		derivedName := netlist.NetName(collapseUnderscores(prefix + "I2C" + suffix))

		connected := nl.AnyNetParts(map[netlist.NetName]struct{}{netName: {}, sdaNet: {}})

		pullUp, _ := findPullUps(nl, netName, sdaNet)

		excluded := map[netlist.Designator]struct{}{}
		if pullUp != nil {
			excluded[pullUp.SclResistor] = struct{}{}
			excluded[pullUp.SdaResistor] = struct{}{}
		}

		buses[derivedName] = &Bus{
			Name:           derivedName,
			SclNet:         netName,
			SdaNet:         sdaNet,
			ConnectedParts: connected,
			PullUp:         pullUp,
			Nodes:          partsToNodes(nl, connected, excluded),
		}
	}

	return buses
}

// findPullUps locates the scl-to-sda two-resistor chain to use as a bus's
// pull-up, per the documented tie-break (lexicographically smallest
// (scl-designator, sda-designator) pair among the chains found), plus any
// redundant single-resistor pull-ups from either line to the chosen v_net.
func findPullUps(nl *netlist.Netlist, scl, sda netlist.NetName) (*PullUp, []netlist.Designator) {
	chains := nl.FindNetChains(scl, []func(netlist.Designator) bool{netlist.IsResistor, netlist.IsResistor}, sda)
	if len(chains) == 0 {
		return nil, nil
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i][0].Designator != chains[j][0].Designator {
			return chains[i][0].Designator < chains[j][0].Designator
		}

		return chains[i][1].Designator < chains[j][1].Designator
	})

	chosen := chains[0]
	sclR := chosen[0].Designator
	sdaR := chosen[1].Designator

	vNet := commonNetExcluding(nl, sclR, sdaR, scl, sda)

	var redundant []netlist.Designator

	if vNet != "" {
		redundant = append(redundant, redundantSingleResistorChain(nl, scl, vNet, sclR)...)
		redundant = append(redundant, redundantSingleResistorChain(nl, sda, vNet, sdaR)...)
	}

	return &PullUp{SclResistor: sclR, SdaResistor: sdaR, VNet: vNet}, dedupDesignators(redundant)
}

func commonNetExcluding(nl *netlist.Netlist, a, b netlist.Designator, exclude ...netlist.NetName) netlist.NetName {
	common := nl.PartsCommonNets(a, b)
	names := sortedNetNameSlice(common)

	for _, n := range names {
		excluded := false

		for _, e := range exclude {
			if n == e {
				excluded = true
				break
			}
		}

		if !excluded {
			return n
		}
	}

	if len(names) > 0 {
		return names[0]
	}

	return ""
}

func redundantSingleResistorChain(nl *netlist.Netlist, line, vNet netlist.NetName, chosen netlist.Designator) []netlist.Designator {
	chains := nl.FindNetChains(line, []func(netlist.Designator) bool{netlist.IsResistor}, vNet)

	var out []netlist.Designator

	for _, chain := range chains {
		d := chain[len(chain)-1].Designator
		if d != chosen {
			out = append(out, d)
		}
	}

	return out
}

func dedupDesignators(ds []netlist.Designator) []netlist.Designator {
	seen := make(map[netlist.Designator]struct{}, len(ds))

	var out []netlist.Designator

	for _, d := range ds {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}

	return out
}

func sortedNetNameSlice(m map[netlist.NetName]struct{}) []netlist.NetName {
	out := make([]netlist.NetName, 0, len(m))
	for n := range m {
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// partsToNodes classifies every connected part (other than the chosen
// pull-up resistors) into a NodeKind, per the designator-prefix heuristic:
// "J*" -> Connector, "TP*" -> TestPoint, "U*" -> Device unless its lib-part
// description mentions level-shifting (then Unknown, resolved in Phase C),
// everything else -> Unknown.
func partsToNodes(
	nl *netlist.Netlist, connected map[netlist.Designator]struct{}, excluded map[netlist.Designator]struct{},
) map[netlist.Designator]NodeKind {
	nodes := make(map[netlist.Designator]NodeKind, len(connected))

	for d := range connected {
		if _, skip := excluded[d]; skip {
			continue
		}

		s := string(d)

		switch {
		case strings.HasPrefix(s, "J"):
			nodes[d] = Connector{}
		case strings.HasPrefix(s, "TP"):
			nodes[d] = TestPoint{}
		case strings.HasPrefix(s, "U"):
			if looksLikeTranslator(nl, d) {
				nodes[d] = Unknown{Designator: d}
			} else {
				nodes[d] = Device{}
			}
		default:
			nodes[d] = Unknown{Designator: d}
		}
	}

	return nodes
}

func looksLikeTranslator(nl *netlist.Netlist, d netlist.Designator) bool {
	comp, ok := nl.Components[d]
	if !ok {
		return false
	}

	lp, ok := nl.LibParts[comp.LibSource]
	if !ok {
		return false
	}

	desc := strings.ToLower(lp.Description)

	return strings.Contains(desc, "shifter") || strings.Contains(desc, "translator")
}

// checkPullUpValues implements Phase B.
func checkPullUpValues(bus *Bus, nl *netlist.Netlist, cfg ercconfig.Config) []diag.I2cDiagnostic {
	if bus.PullUp == nil {
		return nil
	}

	var out []diag.I2cDiagnostic

	sclVal, sclErr := nl.Resistance(bus.PullUp.SclResistor)
	sdaVal, sdaErr := nl.Resistance(bus.PullUp.SdaResistor)

	if sclErr != nil {
		out = append(out, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.WrongPullUpValue{Msg: sclErr.Error()}})
	} else if outsideAcceptableRange(sclVal, cfg) {
		out = append(out, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.NonStandardPullUps{Resistance: sclVal}})
	}

	if sdaErr != nil {
		out = append(out, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.WrongPullUpValue{Msg: sdaErr.Error()}})
	} else if outsideAcceptableRange(sdaVal, cfg) {
		out = append(out, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.NonStandardPullUps{Resistance: sdaVal}})
	}

	if sclErr == nil && sdaErr == nil && sclVal != sdaVal {
		out = append(out, diag.I2cDiagnostic{BusName: bus.Name, Kind: diag.NonEqualPullUps{Scl: sclVal, Sda: sdaVal}})
	}

	return out
}

// outsideAcceptableRange reports a value as non-standard even when it lands
// exactly on a configured bound: the acceptable band is open, not closed.
func outsideAcceptableRange(v passive.Ohm, cfg ercconfig.Config) bool {
	return v <= cfg.I2CAcceptablePullUpRange.Min || v >= cfg.I2CAcceptablePullUpRange.Max
}
