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
package altium_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/ingest/altium"
	"github.com/romixlab/go-erc/pkg/ingest/edif"
	"github.com/romixlab/go-erc/pkg/ingest/wirelist"
	"github.com/romixlab/go-erc/pkg/netlist"
)

const edifSample = `(edif boardname
  (library COMPONENT_LIB
    (edifLevel 0) (technology (numberDefinition))
    (cell RES0402
      (cellType GENERIC)
      (view netlist (viewType NETLIST)
        (interface
          (port 1 (direction INOUT))
          (port 2 (direction INOUT))))))
  (library SHEET_LIB
    (edifLevel 0) (technology (numberDefinition))
    (cell sheet1
      (cellType GENERIC)
      (view netlist (viewType NETLIST)
        (interface)
        (contents
          (instance R1 (viewRef netlist (cellRef RES0402 (libraryRef COMPONENT_LIB)))
            (property Value (string (value 1k))))
          (net NetR1
            (joined
              (portRef 1 (instanceRef R1)))))))))`

const wirelistSample = `RES0402 R1 0402

1 NetR1
    R1 1 A PASSIVE RES0402
    R1 2 B PASSIVE RES0402
`

func TestMerge(t *testing.T) {
	nl, err := edif.LoadString("test.edf", edifSample)
	if err != nil {
		t.Fatalf("edif.LoadString: %v", err)
	}

	wl := wirelist.LoadString(wirelistSample)

	altium.Merge(nl, wl)

	key := netlist.LibKey{Lib: "COMPONENT_LIB", Part: "RES0402"}

	lp, ok := nl.LibParts[key]
	if !ok {
		t.Fatalf("missing libpart %+v", key)
	}

	pin1 := lp.Pins["1"]
	if pin1.Name != "A" {
		t.Errorf("pin 1 Name = %q, want A", pin1.Name)
	}

	pin2 := lp.Pins["2"]
	if pin2.Name != "B" {
		t.Errorf("pin 2 Name = %q, want B", pin2.Name)
	}
}

func TestDeriveWirelistPath(t *testing.T) {
	got := altium.DeriveWirelistPath("board.edf")
	if got != "board.wlist" {
		t.Errorf("DeriveWirelistPath = %q, want board.wlist", got)
	}
}
