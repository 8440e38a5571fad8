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
package kicad_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/ingest/kicad"
	"github.com/romixlab/go-erc/pkg/netlist"
)

const sample = `(export (version "E")
  (design (source "x") (date "x") (tool "Eeschema 8.0.4"))
  (components
    (comp (ref "R1") (value "1k") (footprint "R_0402")
      (libsource (lib "Device") (part "R") (description "Resistor")))
    (comp (ref "R2") (value "2k2")
      (libsource (lib "Device") (part "R") (description "Resistor"))))
  (libparts
    (libpart (lib "Device") (part "R")
      (description "Resistor")
      (footprints (fp "R_*"))
      (pins
        (pin (num "1") (name "~") (type "passive"))
        (pin (num "2") (name "~") (type "passive")))))
  (libraries)
  (nets
    (net (code "1") (name "VCC") (node (ref "R1") (pin "1")))
    (net (code "2") (name "MID") (node (ref "R1") (pin "2")) (node (ref "R2") (pin "1")))
    (net (code "3") (name "GND") (node (ref "R2") (pin "2")))))`

func TestLoadString(t *testing.T) {
	nl, err := kicad.LoadString("test.net", sample)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if len(nl.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(nl.Components))
	}

	r1 := nl.Components["R1"]
	if r1.Value != "1k" {
		t.Errorf("R1.Value = %q, want 1k", r1.Value)
	}

	if len(nl.Nets) != 3 {
		t.Fatalf("len(Nets) = %d, want 3", len(nl.Nets))
	}

	mid := nl.Nets["MID"]
	if _, ok := mid.Nodes[netlist.Node{Designator: "R1", PinId: "2"}]; !ok {
		t.Errorf("MID should contain R1.2")
	}

	if _, ok := mid.Nodes[netlist.Node{Designator: "R2", PinId: "1"}]; !ok {
		t.Errorf("MID should contain R2.1")
	}

	libPart, ok := nl.LibParts[netlist.LibKey{Lib: "Device", Part: "R"}]
	if !ok {
		t.Fatalf("missing libpart Device:R")
	}

	if len(libPart.Pins) != 2 {
		t.Errorf("len(Pins) = %d, want 2", len(libPart.Pins))
	}
}
