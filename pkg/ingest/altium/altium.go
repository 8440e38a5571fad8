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

// Package altium loads a full Altium export: the EDIF netlist (parts,
// libparts, nets with designator/pin connectivity) merged with its
// companion wire-list report, which is the only place Altium records each
// pin's human-readable name and electrical type.
package altium

import (
	"strings"

	"github.com/romixlab/go-erc/pkg/ercerr"
	"github.com/romixlab/go-erc/pkg/ingest/edif"
	"github.com/romixlab/go-erc/pkg/ingest/wirelist"
	"github.com/romixlab/go-erc/pkg/netlist"
)

// Load reads edifPath and its companion wirelistPath and merges them into a
// single Netlist. edifPath supplies parts/libparts/nets; wirelistPath
// supplies pin names and electrical types the EDIF port list omits.
func Load(edifPath, wirelistPath string) (*netlist.Netlist, error) {
	nl, err := edif.Load(edifPath)
	if err != nil {
		return nil, err
	}

	wl, err := wirelist.Load(wirelistPath)
	if err != nil {
		return nil, &ercerr.MissingCompanionFileError{Primary: edifPath, Companion: wirelistPath}
	}

	Merge(nl, wl)

	return nl, nil
}

// Merge copies pin name/type information recorded in wl (keyed by
// designator, since wirelist reports don't carry a stable lib-part key) onto
// nl's lib-parts, matching pins by PinId.
func Merge(nl, wl *netlist.Netlist) {
	for designator, comp := range nl.Components {
		wlKey := netlist.LibKey{Part: netlist.LibPartName(designator)}

		wlPart, ok := wl.LibParts[wlKey]
		if !ok {
			continue
		}

		lp, ok := nl.LibParts[comp.LibSource]
		if !ok {
			continue
		}

		for pinID, wlPin := range wlPart.Pins {
			pin, ok := lp.Pins[pinID]
			if !ok {
				continue
			}

			pin.Name = wlPin.Name
			pin.DefaultMode.Type = wlPin.DefaultMode.Type
			lp.Pins[pinID] = pin
		}

		nl.LibParts[comp.LibSource] = lp
	}

	nl.Finalize()
}

// DeriveWirelistPath guesses the companion wire-list path for an EDIF export
// following Altium's naming convention of swapping the file extension.
func DeriveWirelistPath(edifPath string) string {
	if ext := extOf(edifPath); ext != "" {
		return strings.TrimSuffix(edifPath, ext) + ".wlist"
	}

	return edifPath + ".wlist"
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}

	return path[idx:]
}
