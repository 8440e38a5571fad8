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

// Package ercconfig holds the tunable thresholds the analysis passes check
// findings against. Defaults mirror values tuned against real board designs
// in the original implementation; callers may override them per run.
package ercconfig

import "github.com/romixlab/go-erc/pkg/passive"

// OhmRange is an inclusive resistance range.
type OhmRange struct {
	Min passive.Ohm
	Max passive.Ohm
}

// Contains reports whether v falls within [r.Min, r.Max].
func (r OhmRange) Contains(v passive.Ohm) bool {
	return v >= r.Min && v <= r.Max
}

// Config holds every tunable used by the power and I2C analysis passes.
type Config struct {
	// MaxTieResistance is the largest value a resistor tying two I2C buses
	// together may have; a tie above it draws a TieTooHighValue diagnostic.
	// Ties are recognised whatever their value.
	MaxTieResistance passive.Ohm

	// I2CAcceptablePullUpRange bounds the I2C pull-up values that draw no
	// diagnostic: only values strictly between Min and Max are accepted, so
	// a value equal to either bound is flagged.
	I2CAcceptablePullUpRange OhmRange
}

// Default returns the configuration used when the caller has no project-
// specific overrides.
func Default() Config {
	return Config{
		MaxTieResistance:         100.0,
		I2CAcceptablePullUpRange: OhmRange{Min: 2200.0, Max: 10_000.0},
	}
}
