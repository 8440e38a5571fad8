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

// Package textio reads netlist export files of unknown encoding, sniffing
// the charset the way CAD tools actually emit it (UTF-8, UTF-16, or a
// legacy Windows/DOS code page) rather than assuming UTF-8.
package textio

import (
	"io"
	"os"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/romixlab/go-erc/pkg/ercerr"
)

// ReadDecoded reads every byte of r and decodes it to a UTF-8 string,
// sniffing the source encoding with a charset detector. If detection fails
// or the guessed charset is unknown to the runtime, the bytes are assumed to
// already be UTF-8. Errors are unpathed; callers reading from a named file
// should use ReadFileDecoded instead, which attaches the path.
func ReadDecoded(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &ercerr.IOError{Err: err}
	}

	text, err := Decode(raw)
	if err != nil {
		return "", &ercerr.DecodeError{Err: err}
	}

	return text, nil
}

// ReadFileDecoded opens path and decodes its contents, sniffing the source
// encoding per Decode. Open/read failures surface as *ercerr.IOError; a
// failure to decode the detected charset surfaces as *ercerr.DecodeError.
func ReadFileDecoded(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ercerr.IOError{Path: path, Err: err}
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", &ercerr.IOError{Path: path, Err: err}
	}

	text, err := Decode(raw)
	if err != nil {
		return "", &ercerr.DecodeError{Path: path, Err: err}
	}

	return text, nil
}

// Decode sniffs the charset of raw and returns its UTF-8 decoding.
func Decode(raw []byte) (string, error) {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result == nil {
		return string(raw), nil
	}

	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		// Unrecognized charset name: fall back to treating the bytes as
		// already being UTF-8 rather than failing the whole ingestion.
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}
