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
package wirelist_test

import (
	"testing"

	"github.com/romixlab/go-erc/pkg/ingest/wirelist"
	"github.com/romixlab/go-erc/pkg/netlist"
)

const sample = `RES0402 R1 0402
RES0402 R2 0402

1 GND
    R1 2 ~ PASSIVE RES0402
    R2 2 ~ PASSIVE RES0402
2 MID
    R1 1 ~ PASSIVE RES0402
    R2 1 ~ PASSIVE RES0402
`

func TestLoadString(t *testing.T) {
	nl := wirelist.LoadString(sample)

	if len(nl.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(nl.Components))
	}

	if len(nl.Nets) != 2 {
		t.Fatalf("len(Nets) = %d, want 2", len(nl.Nets))
	}

	gnd := nl.Nets["GND"]
	if _, ok := gnd.Nodes[netlist.Node{Designator: "R1", PinId: "2"}]; !ok {
		t.Errorf("GND should contain R1.2")
	}
}
