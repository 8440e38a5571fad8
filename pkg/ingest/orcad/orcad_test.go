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
package orcad_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/romixlab/go-erc/pkg/ingest/orcad"
	"github.com/romixlab/go-erc/pkg/netlist"
)

const sample = `{ OrCAD Capture Netlist Tools }
{ Generated by pstxnet }

TOUCH_INT_N
    R610-2    U3    TOUCH_INT_N
    Q34-3     Q3    TOUCH_INT_N
    R636-1    U4    TOUCH_INT_N
GND
    R610-1    U3    GND
    Q34-1     Q3    GND
`

func TestLoadString(t *testing.T) {
	nl := orcad.LoadString(sample)

	if len(nl.Nets) != 2 {
		t.Fatalf("len(Nets) = %d, want 2", len(nl.Nets))
	}

	touch := nl.Nets["TOUCH_INT_N"]
	if len(touch.Nodes) != 3 {
		t.Fatalf("len(TOUCH_INT_N.Nodes) = %d, want 3", len(touch.Nodes))
	}

	want := []netlist.Node{
		{Designator: "R610", PinId: "2"},
		{Designator: "Q34", PinId: "3"},
		{Designator: "R636", PinId: "1"},
	}

	for _, n := range want {
		if _, ok := touch.Nodes[n]; !ok {
			t.Errorf("TOUCH_INT_N missing node %+v", n)
		}
	}

	if len(nl.Components) != 0 {
		t.Errorf("len(Components) = %d, want 0 (pstxnet.dat carries no parts)", len(nl.Components))
	}
}

const chipSample = `(primitive OPAMP_QUAD
  (pins
    (pin "1,0,0,0")
    (pin "2,0,0,0")
    (pin "0,0,1,0"))
  (body
    (param VALUE "LM324")))
`

const partsSample = `(instance
  (designator "U3")
  (primitive "OPAMP_QUAD")
  (section (name "A") (path "@SHEET1:page3/gate_A"))
  (section (name "C") (path "@SHEET1:page5/gate_C")))
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	netPath := filepath.Join(dir, "pstxnet.dat")
	if err := os.WriteFile(netPath, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "pstchip.dat"), []byte(chipSample), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "pstxprt.dat"), []byte(partsSample), 0o600); err != nil {
		t.Fatal(err)
	}

	nl, err := orcad.Load(netPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(nl.Nets) != 2 {
		t.Fatalf("len(Nets) = %d, want 2", len(nl.Nets))
	}

	key := netlist.LibKey{Lib: "orcad", Part: "OPAMP_QUAD"}

	lp, ok := nl.LibParts[key]
	if !ok {
		t.Fatalf("LibParts missing %+v", key)
	}

	if len(lp.Pins) == 0 {
		t.Errorf("lib part %+v has no pins", key)
	}

	comp, ok := nl.Components["U3"]
	if !ok {
		t.Fatalf("Components missing U3")
	}

	if comp.LibSource != key {
		t.Errorf("U3.LibSource = %+v, want %+v", comp.LibSource, key)
	}

	if comp.Value != "LM324" {
		t.Errorf("U3.Value = %q, want %q (back-propagated from primitive VALUE)", comp.Value, "LM324")
	}

	if len(comp.Sections) != 2 {
		t.Fatalf("len(U3.Sections) = %d, want 2", len(comp.Sections))
	}

	wantPages := map[string]int{"A": 3, "C": 5}

	for _, s := range comp.Sections {
		wantPage, ok := wantPages[s.Name]
		if !ok {
			t.Errorf("unexpected section %q", s.Name)
			continue
		}

		if s.Page == nil || *s.Page != wantPage {
			t.Errorf("section %q page = %v, want %d", s.Name, s.Page, wantPage)
		}
	}
}

func TestLoadMissingCompanion(t *testing.T) {
	dir := t.TempDir()

	netPath := filepath.Join(dir, "pstxnet.dat")
	if err := os.WriteFile(netPath, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := orcad.Load(netPath); err == nil {
		t.Fatal("Load() error = nil, want a missing-companion error")
	}
}
