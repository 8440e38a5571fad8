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
package pcba_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/pcba"
)

// buildConverter models a minimal buck converter: U1 (IC) drives L1
// (inductor) through switching node "SW1", and L1's other side is the
// "+3V3" rail.
func buildConverter() *netlist.Netlist {
	nl := netlist.New()

	nl.LibParts[netlist.LibKey{Part: "IC"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{"1": {}},
	}
	nl.LibParts[netlist.LibKey{Part: "L"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{"1": {}, "2": {}},
	}

	nl.Components["U1"] = netlist.Component{LibSource: netlist.LibKey{Part: "IC"}}
	nl.Components["L1"] = netlist.Component{LibSource: netlist.LibKey{Part: "L"}}

	nl.AddNet("SW1", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "U1", PinId: "1"}: {},
		{Designator: "L1", PinId: "1"}: {},
	}})
	nl.AddNet("+3V3", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "L1", PinId: "2"}: {},
	}})

	nl.Finalize()

	return nl
}

func TestSwitchingNodeExcludedFromRails(t *testing.T) {
	nl := buildConverter()
	p := pcba.New(nl)

	if _, ok := p.SwitchingNodes["SW1"]; !ok {
		t.Fatalf("expected SW1 to be inferred as a switching node, got %+v", p.SwitchingNodes)
	}

	if _, ok := p.Power.Rails["SW1"]; ok {
		t.Error("SW1 should have been removed from power rails (P6)")
	}
}

type stubStyleChecker struct{ findings []diag.StyleDiagnostic }

func (s stubStyleChecker) Check(*netlist.Netlist) []diag.StyleDiagnostic { return s.findings }

func TestStyleCheckerInjection(t *testing.T) {
	nl := buildConverter()

	want := []diag.StyleDiagnostic{{Designator: "U1", Kind: diag.NoValue{}}}

	p := pcba.New(nl, pcba.WithStyleChecker(stubStyleChecker{findings: want}))

	if len(p.Diagnostics.Style) != 1 {
		t.Fatalf("len(Diagnostics.Style) = %d, want 1", len(p.Diagnostics.Style))
	}
}

func TestNoStyleCheckerYieldsNoStyleDiagnostics(t *testing.T) {
	nl := buildConverter()
	p := pcba.New(nl)

	if len(p.Diagnostics.Style) != 0 {
		t.Errorf("len(Diagnostics.Style) = %d, want 0 with no injected style checker", len(p.Diagnostics.Style))
	}
}
