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
package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/romixlab/go-erc/pkg/diag"
	"github.com/romixlab/go-erc/pkg/ercconfig"
	"github.com/romixlab/go-erc/pkg/ingest/altium"
	"github.com/romixlab/go-erc/pkg/ingest/edif"
	"github.com/romixlab/go-erc/pkg/ingest/kicad"
	"github.com/romixlab/go-erc/pkg/ingest/orcad"
	"github.com/romixlab/go-erc/pkg/netlist"
	"github.com/romixlab/go-erc/pkg/passive"
	"github.com/romixlab/go-erc/pkg/pcba"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full ERC pipeline (power, I2C bus discovery, rule
// checks) over a single netlist file and reports every diagnostic found.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] netlist_file",
	Short: "Run electrical rule checks against a netlist.",
	Long: `Run electrical rule checks against a netlist.
	Supported formats: kicad, edif (Altium, pair with --wirelist), orcad.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		nl, err := loadNetlist(cmd, args[0])
		if err != nil {
			log.Fatalf("failed to load netlist: %s", err)
		}

		cfg := ercconfig.Default()

		if v := GetFloat(cmd, "max-tie-resistance"); v > 0 {
			cfg.MaxTieResistance = passive.Ohm(v)
		}

		p := pcba.New(nl, pcba.WithConfig(cfg))

		reportDiagnostics(p.Diagnostics)

		if len(p.Diagnostics.I2c) > 0 || len(p.Diagnostics.Style) > 0 {
			os.Exit(1)
		}
	},
}

// loadNetlist dispatches to the ingest package matching --format, inferring
// it from the file extension when left unset.
func loadNetlist(cmd *cobra.Command, filename string) (*netlist.Netlist, error) {
	format := GetString(cmd, "format")
	if format == "" {
		format = inferFormat(filename)
	}

	switch format {
	case "kicad":
		return kicad.Load(filename)
	case "edif":
		wirelist := GetString(cmd, "wirelist")
		if wirelist != "" {
			return altium.Load(filename, wirelist)
		}

		return edif.Load(filename)
	case "orcad":
		return orcad.Load(filename)
	default:
		return nil, fmt.Errorf("unknown or unsupported netlist format %q", format)
	}
}

func inferFormat(filename string) string {
	switch path.Ext(filename) {
	case ".net":
		return "kicad"
	case ".edf", ".edif":
		return "edif"
	case ".dat":
		return "orcad"
	default:
		return ""
	}
}

// reportDiagnostics logs every finding at a severity matching its kind: rule
// violations as warnings, the style pass's own Severity field otherwise.
func reportDiagnostics(d diag.Diagnostics) {
	for _, finding := range d.I2c {
		log.Warnf("[%s] %s", finding.BusName, describeI2c(finding.Kind))
	}

	for _, finding := range d.Style {
		logAtSeverity(finding.Severity, "%s: %s", finding.Designator, describeStyle(finding.Kind))
	}
}

func logAtSeverity(severity diag.Severity, format string, args ...any) {
	switch severity {
	case diag.Error:
		log.Errorf(format, args...)
	case diag.Warning:
		log.Warnf(format, args...)
	case diag.Suggestion:
		log.Debugf(format, args...)
	default:
		log.Infof(format, args...)
	}
}

func describeI2c(kind diag.I2cDiagnosticKind) string {
	switch k := kind.(type) {
	case diag.NonStandardPullUps:
		return fmt.Sprintf("non-standard pull-up value: %s", k.Resistance)
	case diag.NonEqualPullUps:
		return fmt.Sprintf("unequal SCL/SDA pull-ups: %s vs %s", k.Scl, k.Sda)
	case diag.WrongPullUpValue:
		return fmt.Sprintf("unparsable pull-up value: %s", k.Msg)
	case diag.RedundantPullUps:
		return fmt.Sprintf("redundant pull-ups: %v", k.Designators)
	case diag.TieTooHighValue:
		return fmt.Sprintf("tie resistor to %s exceeds maximum tie resistance: %s", k.OtherSide, k.Resistance)
	case diag.NoPullUps:
		return "no pull-up resistors found"
	case diag.PullUpToNowhere:
		return fmt.Sprintf("pull-up reaches no other component: %v", k.Designators)
	case diag.UnknownNode:
		return fmt.Sprintf("could not classify node %s on this bus", k.Designator)
	default:
		return fmt.Sprintf("%+v", k)
	}
}

func describeStyle(kind diag.StyleDiagnosticKind) string {
	switch k := kind.(type) {
	case diag.WrongValue:
		return fmt.Sprintf("wrong value: %s", k.Msg)
	case diag.NonStandardValue:
		return fmt.Sprintf("non-standard value notation: %s", k.Warning)
	case diag.NoValue:
		return "missing value"
	case diag.CalculateLaterValue:
		return "value marked to be calculated later"
	default:
		return fmt.Sprintf("%+v", k)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("format", "", "netlist format: kicad, edif, orcad (inferred from extension if unset)")
	analyzeCmd.Flags().String("wirelist", "", "companion Altium wirelist file (pairs with --format edif)")
	analyzeCmd.Flags().Float64("max-tie-resistance", 0, "override the maximum tie resistance, in ohms (0 keeps the default)")
}
