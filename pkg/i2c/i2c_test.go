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
package i2c_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/ercconfig"
	"github.com/romixlab/go-erc/pkg/i2c"
	"github.com/romixlab/go-erc/pkg/netlist"
)

// buildBus returns a single clean I2C bus: SCL1/SDA1, a pull-up pair
// (R1/R2) to VCC, an MCU (U1), a connector (J1) and a test point (TP1).
func buildBus(sclValue, sdaValue string) *netlist.Netlist {
	nl := netlist.New()

	nl.LibParts[netlist.LibKey{Part: "R"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{
			"1": {DefaultMode: netlist.PinMode{Type: netlist.Passive}},
			"2": {DefaultMode: netlist.PinMode{Type: netlist.Passive}},
		},
	}
	nl.LibParts[netlist.LibKey{Part: "U"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{
			"1": {Name: "SCL", DefaultMode: netlist.PinMode{Type: netlist.DigitalIO}},
			"2": {Name: "SDA", DefaultMode: netlist.PinMode{Type: netlist.DigitalIO}},
		},
	}
	nl.LibParts[netlist.LibKey{Part: "J"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{"1": {}},
	}
	nl.LibParts[netlist.LibKey{Part: "TP"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{"1": {}},
	}

	nl.Components["R1"] = netlist.Component{Value: sclValue, LibSource: netlist.LibKey{Part: "R"}}
	nl.Components["R2"] = netlist.Component{Value: sdaValue, LibSource: netlist.LibKey{Part: "R"}}
	nl.Components["U1"] = netlist.Component{LibSource: netlist.LibKey{Part: "U"}}
	nl.Components["J1"] = netlist.Component{LibSource: netlist.LibKey{Part: "J"}}
	nl.Components["TP1"] = netlist.Component{LibSource: netlist.LibKey{Part: "TP"}}

	nl.AddNet("SCL1", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "R1", PinId: "1"}: {},
		{Designator: "U1", PinId: "1"}: {},
		{Designator: "J1", PinId: "1"}: {},
	}})
	nl.AddNet("SDA1", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "R2", PinId: "1"}: {},
		{Designator: "U1", PinId: "2"}: {},
		{Designator: "TP1", PinId: "1"}: {},
	}})
	nl.AddNet("VCC", netlist.Net{Nodes: map[netlist.Node]struct{}{
		{Designator: "R1", PinId: "2"}: {},
		{Designator: "R2", PinId: "2"}: {},
	}})

	nl.Finalize()

	return nl
}

func TestDiscoverFindsBusAndPullUp(t *testing.T) {
	nl := buildBus("4k7", "4k7")

	buses, diagnostics := i2c.Discover(nl, ercconfig.Default())

	bus, ok := buses.ByName["I2C1"]
	if !ok {
		t.Fatalf("expected a derived bus named I2C1, got %+v", buses.ByName)
	}

	if bus.PullUp == nil {
		t.Fatal("expected a pull-up to be found")
	}

	if bus.PullUp.SclResistor != "R1" || bus.PullUp.SdaResistor != "R2" {
		t.Errorf("PullUp = %+v, want R1/R2", bus.PullUp)
	}

	for d, kind := range bus.Nodes {
		switch d {
		case "J1":
			if _, ok := kind.(i2c.Connector); !ok {
				t.Errorf("J1 classified as %T, want Connector", kind)
			}
		case "TP1":
			if _, ok := kind.(i2c.TestPoint); !ok {
				t.Errorf("TP1 classified as %T, want TestPoint", kind)
			}
		case "U1":
			if _, ok := kind.(i2c.Device); !ok {
				t.Errorf("U1 classified as %T, want Device", kind)
			}
		}
	}

	for _, d := range diagnostics {
		if _, ok := d.Kind.(diag.UnknownNode); ok {
			t.Errorf("unexpected UnknownNode diagnostic: %+v", d)
		}
	}
}

func TestPullUpBoundaryIsNonStandard(t *testing.T) {
	nl := buildBus("2200", "10000")

	_, diagnostics := i2c.Discover(nl, ercconfig.Default())

	var sawLow, sawHigh, sawUnequal bool

	for _, d := range diagnostics {
		switch k := d.Kind.(type) {
		case diag.NonStandardPullUps:
			if k.Resistance == 2200 {
				sawLow = true
			}

			if k.Resistance == 10000 {
				sawHigh = true
			}
		case diag.NonEqualPullUps:
			sawUnequal = true
		}
	}

	if !sawLow {
		t.Error("expected NonStandardPullUps for the 2200 ohm resistor (bound is exclusive)")
	}

	if !sawHigh {
		t.Error("expected NonStandardPullUps for the 10000 ohm resistor (bound is exclusive)")
	}

	if !sawUnequal {
		t.Error("expected NonEqualPullUps since 2200 != 10000")
	}
}

func TestNoPullUpsDiagnostic(t *testing.T) {
	nl := netlist.New()

	nl.LibParts[netlist.LibKey{Part: "U"}] = netlist.LibPart{
		Pins: map[netlist.PinId]netlist.Pin{
			"1": {Name: "SCL"},
			"2": {Name: "SDA"},
		},
	}
	nl.Components["U1"] = netlist.Component{LibSource: netlist.LibKey{Part: "U"}}

	nl.AddNet("SCL1", netlist.Net{Nodes: map[netlist.Node]struct{}{{Designator: "U1", PinId: "1"}: {}}})
	nl.AddNet("SDA1", netlist.Net{Nodes: map[netlist.Node]struct{}{{Designator: "U1", PinId: "2"}: {}}})
	nl.Finalize()

	_, diagnostics := i2c.Discover(nl, ercconfig.Default())

	found := false

	for _, d := range diagnostics {
		if _, ok := d.Kind.(diag.NoPullUps); ok && d.BusName == "I2C1" {
			found = true
		}
	}

	if !found {
		t.Error("expected a NoPullUps diagnostic for a bus with no pull-up resistors")
	}
}

// TestDiscoverIsIdempotent re-runs Discover over the same netlist and
// requires the same bus set and diagnostic count each time, since nothing
// about discovery should depend on map iteration order.
func TestDiscoverIsIdempotent(t *testing.T) {
	nl := buildBus("4k7", "4k7")

	firstBuses, firstDiagnostics := i2c.Discover(nl, ercconfig.Default())
	secondBuses, secondDiagnostics := i2c.Discover(nl, ercconfig.Default())

	if len(firstBuses.ByName) != len(secondBuses.ByName) {
		t.Fatalf("bus count changed across runs: %d vs %d", len(firstBuses.ByName), len(secondBuses.ByName))
	}

	for name := range firstBuses.ByName {
		if _, ok := secondBuses.ByName[name]; !ok {
			t.Errorf("bus %s present on first run but missing on second", name)
		}
	}

	if len(firstDiagnostics) != len(secondDiagnostics) {
		t.Errorf("diagnostic count changed across runs: %d vs %d", len(firstDiagnostics), len(secondDiagnostics))
	}
}
