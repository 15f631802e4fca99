// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag formats preprocessor diagnostics in the wire format
// spec.md §6 mandates, matching original_source/preproc.c's
// error_or_warning: a one-line location/severity/message header,
// followed by the offending source line and a caret underline of the
// same length.
package diag

import (
	"fmt"
	"strings"

	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// Severity distinguishes a fatal diagnostic (#error, a malformed
// directive) from a non-fatal one (#warning).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single located preprocessor message. It implements
// error so it can be returned and wrapped like any other Go error;
// Format renders the full multi-line wire representation.
type Diagnostic struct {
	File     string
	Location token.Cursor
	Severity Severity
	Message  string
	Line     string // the raw source line the diagnostic refers to, if known
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s %s %s: '%s'", d.File, d.Location, d.Severity, d.Message)
}

// Format renders the full diagnostic: header line, the source line
// it refers to, and a caret underline as long as that line. When Line
// is empty only the header is returned.
func (d *Diagnostic) Format() string {
	var b strings.Builder
	b.WriteString(d.Error())
	if d.Line != "" {
		b.WriteByte('\n')
		b.WriteString(d.Line)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("^", len(d.Line)))
	}
	return b.String()
}

// Errorf builds an Error-severity Diagnostic.
func Errorf(file string, loc token.Cursor, line string, format string, args ...any) *Diagnostic {
	return &Diagnostic{File: file, Location: loc, Severity: Error, Message: fmt.Sprintf(format, args...), Line: line}
}

// Warnf builds a Warning-severity Diagnostic.
func Warnf(file string, loc token.Cursor, line string, format string, args ...any) *Diagnostic {
	return &Diagnostic{File: file, Location: loc, Severity: Warning, Message: fmt.Sprintf(format, args...), Line: line}
}
