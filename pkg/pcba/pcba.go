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

// Package pcba aggregates every analysis pass (power, I2C, optional style
// checks) over one Netlist into a single reconciled view, and provides the
// cross-cutting part-chain traversals that depend on more than one pass's
// output.
package pcba

import (
	"strings"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/ercconfig"
	"github.com/romixlab/go-erc/pkg/i2c"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/power"
)

// StyleChecker is the external per-component style linter this package
// depends on only by interface; pcba never implements one itself.
type StyleChecker interface {
	Check(nl *netlist.Netlist) []diag.StyleDiagnostic
}

// Pcba is the fully reconciled analysis result for one Netlist.
type Pcba struct {
	Netlist        *netlist.Netlist
	Power          power.Power
	SwitchingNodes map[netlist.NetName]struct{}
	I2cBuses       *i2c.Buses
	Diagnostics    diag.Diagnostics
}

// Option configures New.
type Option func(*options)

type options struct {
	cfg          ercconfig.Config
	styleChecker StyleChecker
}

// WithConfig overrides the default analysis thresholds.
func WithConfig(cfg ercconfig.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithStyleChecker injects a per-component style linter. Without one, no
// StyleDiagnostic is ever produced.
func WithStyleChecker(c StyleChecker) Option {
	return func(o *options) { o.styleChecker = c }
}

// New runs the full analysis pipeline: power derivation (strict), I2C bus
// discovery and rule checks, optional style checks, switching-node
// inference (removed from power rails), and I2C bus net reclassification
// (also removed from power rails, since name heuristics routinely
// misclassify an I2C rail's SCL/SDA as a supply net).
func New(nl *netlist.Netlist, opts ...Option) *Pcba {
	o := options{cfg: ercconfig.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	pw := power.Derive(nl, true)
	buses, i2cDiagnostics := i2c.Discover(nl, o.cfg)

	var styleDiagnostics []diag.StyleDiagnostic
	if o.styleChecker != nil {
		styleDiagnostics = o.styleChecker.Check(nl)
	}

	p := &Pcba{
		Netlist:  nl,
		Power:    pw,
		I2cBuses: buses,
		Diagnostics: diag.Diagnostics{
			I2c:   i2cDiagnostics,
			Style: styleDiagnostics,
		},
	}

	switchingNodes := FindSwitchingNodes(p)
	for net := range switchingNodes {
		p.Power.RemoveRail(net)
	}

	p.SwitchingNodes = switchingNodes

	for _, bus := range buses.ByName {
		p.Power.RemoveRail(bus.SclNet)
		p.Power.RemoveRail(bus.SdaNet)
	}

	return p
}

// FindConnectedParts returns the set of components matching toFilter that
// share at least one net with from. When ignorePowerNets is set, nets
// already classified as power rails or ground are not considered a
// connection (the common case: you rarely care that two parts share VCC).
func (p *Pcba) FindConnectedParts(from netlist.Designator, toFilter func(netlist.Designator) bool, ignorePowerNets bool) map[netlist.Designator]struct{} {
	parts := make(map[netlist.Designator]struct{})

	for designator := range p.Netlist.Components {
		if !toFilter(designator) {
			continue
		}

		common := p.Netlist.PartsCommonNets(from, designator)

		if ignorePowerNets {
			for net := range common {
				if p.Power.IsPowerNet(net) {
					delete(common, net)
				}
			}
		}

		if len(common) > 0 {
			parts[designator] = struct{}{}
		}
	}

	return parts
}

// FindPartChains extends FindConnectedParts into multi-hop chains: starting
// from every part matching goesThrough[0], it grows every chain one link at
// a time via FindConnectedParts(lastLink, goesThrough[i], ...). Returns
// empty when fewer than two predicates are given.
func (p *Pcba) FindPartChains(goesThrough []func(netlist.Designator) bool, ignorePowerNets bool) [][]netlist.Designator {
	if len(goesThrough) < 2 {
		return nil
	}

	var chains [][]netlist.Designator

	for designator := range p.Netlist.Components {
		if goesThrough[0](designator) {
			chains = append(chains, []netlist.Designator{designator})
		}
	}

	for _, nextLink := range goesThrough[1:] {
		var next [][]netlist.Designator

		for _, chain := range chains {
			last := chain[len(chain)-1]

			for part := range p.FindConnectedParts(last, nextLink, ignorePowerNets) {
				extended := make([]netlist.Designator, len(chain)+1)
				copy(extended, chain)
				extended[len(chain)] = part
				next = append(next, extended)
			}
		}

		chains = next
	}

	return chains
}

// FindSwitchingNodes infers DC-DC converter switching nodes: for every
// IC-to-inductor chain, the net the two share (minus known power/ground
// rails, unless it's an LX/SW-named net) is the switching node, provided
// neither it nor the inductor's other side looks RF-related.
func FindSwitchingNodes(p *Pcba) map[netlist.NetName]struct{} {
	switchingNodes := make(map[netlist.NetName]struct{})

	chains := p.FindPartChains([]func(netlist.Designator) bool{netlist.IsIC, netlist.IsInductor}, false)

	for _, chain := range chains {
		ic, inductor := chain[0], chain[1]

		nets := p.Netlist.PartsCommonNets(ic, inductor)

		for ground := range p.Power.GroundNets {
			delete(nets, ground)
		}

		for railName := range p.Power.Rails {
			if strings.Contains(string(railName), "LX") || strings.Contains(string(railName), "SW") {
				continue
			}

			delete(nets, railName)
		}

		switchingNet, ok := firstNetName(nets)
		if !ok {
			continue
		}

		inductorNets := p.Netlist.PartNets(inductor)
		delete(inductorNets, switchingNet)

		otherSideNet, ok := firstNetName(inductorNets)
		if !ok {
			continue
		}

		if !netlist.IsRF(string(switchingNet)) && !netlist.IsRF(string(otherSideNet)) {
			switchingNodes[switchingNet] = struct{}{}
		}
	}

	return switchingNodes
}

func firstNetName(m map[netlist.NetName]struct{}) (netlist.NetName, bool) {
	for n := range m {
		return n, true
	}

	return "", false
}
