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

// Package power derives power-rail and ground-net classifications from a
// Netlist's net names and pin types, and infers switching nodes (e.g. a
// DC-DC converter's LX/SW node) from IC-to-inductor chains.
package power

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/romixlab/go-erc/pkg/netlist"
)

// Volt is a rail voltage inferred from a net name such as "+3V3".
type Volt float32

func (v Volt) String() string { return fmt.Sprintf("%gV", float32(v)) }

// Rail is one recognized power rail net.
type Rail struct {
	// Voltage is nil when the net was recognized as a rail (by a "+V"/"VDD"/
	// "VCC" substring, or by a power-typed pin) but no "+xVy" pattern was
	// found in its name to derive a concrete value from.
	Voltage *Volt
}

func (r Rail) String() string {
	if r.Voltage == nil {
		return "Rail(? V)"
	}

	return fmt.Sprintf("Rail(%s)", *r.Voltage)
}

// Power is the derived power-structure view of a Netlist: recognized rails,
// recognized ground nets.
type Power struct {
	Rails      map[netlist.NetName]Rail
	GroundNets map[netlist.NetName]struct{}
}

var (
	reVoltageStrict = regexp.MustCompile(`.*\+(\d+)V(\d+).*`)
	reVoltageLoose  = regexp.MustCompile(`.*(\d+)V(\d+).*`)
)

// Derive classifies netlist nets into power rails and ground nets. strict
// restricts the "+xVy" voltage pattern match to names carrying an explicit
// "+" sign (so "U2V1" isn't mistaken for a 2.1V rail); passing false widens
// the match to any "<int>V<int>" substring.
func Derive(nl *netlist.Netlist, strict bool) Power {
	re := reVoltageLoose
	if strict {
		re = reVoltageStrict
	}

	rails := make(map[netlist.NetName]Rail)

	for name := range nl.Nets {
		s := string(name)

		if m := re.FindStringSubmatch(s); m != nil {
			v := parseVoltage(m[1], m[2])
			rails[name] = Rail{Voltage: &v}

			continue
		}

		if strings.Contains(s, "+V") {
			if _, ok := rails[name]; !ok {
				rails[name] = Rail{}
			}

			continue
		}

		if strings.Contains(s, "VDD") || strings.Contains(s, "VCC") {
			if _, ok := rails[name]; !ok {
				rails[name] = Rail{}
			}
		}
	}

	groundNets := make(map[netlist.NetName]struct{})

	for name := range nl.Nets {
		s := string(name)
		if strings.Contains(s, "GND") || strings.Contains(s, "VSS") || strings.Contains(s, "VEE") || strings.HasPrefix(s, "ISO") {
			groundNets[name] = struct{}{}
		}
	}

	powerPinNets := nl.FindNetsWithPinTypes(map[netlist.PinType]struct{}{
		netlist.PowerIn:          {},
		netlist.PowerOut:         {},
		netlist.PowerUnspecified: {},
		netlist.PowerIO:          {},
	})

	for net := range powerPinNets {
		if _, isRail := rails[net]; isRail {
			continue
		}

		if _, isGround := groundNets[net]; isGround {
			continue
		}

		rails[net] = Rail{}
	}

	return Power{Rails: rails, GroundNets: groundNets}
}

// parseVoltage reconstructs a decimal voltage from the integer and
// fractional capture groups of the "+xVy" pattern, the fractional digit
// count setting its place value: "3","3" -> 3.3V, "1","25" -> 1.25V and
// "3","30" -> 3.30V.
func parseVoltage(intPart, fracPart string) Volt {
	integer, _ := strconv.Atoi(intPart)
	fractional, _ := strconv.Atoi(fracPart)

	scale := float32(1)
	for range fracPart {
		scale *= 10
	}

	return Volt(float32(integer) + float32(fractional)/scale)
}

// IsPowerNet reports whether name was classified as a rail or a ground net.
func (p Power) IsPowerNet(name netlist.NetName) bool {
	if _, ok := p.Rails[name]; ok {
		return true
	}

	_, ok := p.GroundNets[name]

	return ok
}

// RemoveRail drops name from the recognized rail set, e.g. once it has been
// reclassified as a switching node or an I2C bus net.
func (p Power) RemoveRail(name netlist.NetName) {
	delete(p.Rails, name)
}
