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
package sexp

import "fmt"

// Span is a contiguous run of rune indices in the original input string.
type Span struct {
	Start int
	End   int
}

// SyntaxError is a parse error retaining the Span of the input where it
// arose, so callers can report "line N" style diagnostics.
type SyntaxError struct {
	span Span
	msg  string
}

// Span returns the span of input this error applies to.
func (e *SyntaxError) Span() Span { return e.span }

// Message returns the human-readable error message.
func (e *SyntaxError) Message() string { return e.msg }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.span.Start, e.span.End, e.msg)
}
