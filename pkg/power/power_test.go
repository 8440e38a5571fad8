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
package power_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/power"
)

func buildNetlist() *netlist.Netlist {
	nl := netlist.New()
	nl.LibParts[netlist.LibKey{Part: "U"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{
			"1": {DefaultMode: netlist.PinMode{Type: netlist.PowerIn}},
		},
	}
	nl.Components["U1"] = netlist.Component{LibSource: netlist.LibKey{Part: "U"}}

	nl.AddNet("+3V3", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "U1", PinId: "1"}: {},
	}})
	nl.AddNet("GND", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "U1", PinId: "1"}: {},
	}})
	nl.AddNet("VBUS_SENSE", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "U1", PinId: "1"}: {},
	}})

	nl.Finalize()

	return nl
}

func TestDeriveVoltageRail(t *testing.T) {
	nl := buildNetlist()
	p := power.Derive(nl, true)

	rail, ok := p.Rails["+3V3"]
	if !ok {
		t.Fatal("expected +3V3 to be a recognized rail")
	}

	if rail.Voltage == nil || *rail.Voltage < 3.29 || *rail.Voltage > 3.31 {
		t.Errorf("Voltage = %v, want ~3.3", rail.Voltage)
	}
}

func TestDeriveGroundNet(t *testing.T) {
	nl := buildNetlist()
	p := power.Derive(nl, true)

	if !p.IsPowerNet("GND") {
		t.Error("GND should be classified as a power net (ground)")
	}
}

func TestDerivePinTypedRail(t *testing.T) {
	nl := buildNetlist()
	p := power.Derive(nl, true)

	if _, ok := p.Rails["VBUS_SENSE"]; !ok {
		t.Error("VBUS_SENSE should be picked up via its PowerIn pin")
	}
}
