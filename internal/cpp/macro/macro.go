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

// Package macro holds the macro table and #define/#undef parsing
// described in spec.md §4.2: an ObjectLike/FunctionLike macro model
// with redefinition-warns-and-replaces semantics, plus the body
// whitespace normalization the reference preprocessor performs when
// capturing a macro's replacement text.
package macro

import (
	"fmt"
	"strings"

	"github.com/rofl0r/gocpp/internal/cpp/lexer"
	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// Flavor distinguishes an object-like macro (#define NAME body) from
// a function-like one (#define NAME(args) body), including the
// zero-parameter function-like case #define NAME() body, which is
// not the same thing as an object-like macro.
type Flavor int

const (
	ObjectLike Flavor = iota
	FunctionLike
)

// Macro is a single #define entry. Variadic macros (a trailing "..."
// parameter and __VA_ARGS__) are out of scope for this module.
type Macro struct {
	Name       string
	Flavor     Flavor
	Parameters []string
	Body       string
}

// Table is a macro name to definition map plus the redefinition
// bookkeeping spec.md §4.2 requires: defining an already-defined name
// is not an error, only a warning, and the new definition wins.
type Table struct {
	macros map[string]Macro
}

// NewTable returns an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string]Macro)}
}

// Lookup returns the macro registered under name, if any.
func (t *Table) Lookup(name string) (Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Defined reports whether name has a current definition.
func (t *Table) Defined(name string) bool {
	_, ok := t.macros[name]
	return ok
}

// Define installs m, replacing any prior definition. It reports
// whether a prior definition existed, so callers can surface the
// spec's redefinition warning; Define itself never fails.
func (t *Table) Define(m Macro) (redefined bool) {
	_, redefined = t.macros[m.Name]
	t.macros[m.Name] = m
	return redefined
}

// Undef removes name's definition, if any. Undefining a name that
// was never defined is not an error, matching the reference
// preprocessor's #undef handling.
func (t *Table) Undef(name string) {
	delete(t.macros, name)
}

// DefineObjectLike is a convenience used by CLI -D flag population:
// it installs name as an ObjectLike macro whose body is value (the
// empty string for a bare "-D NAME" with no "=value").
func (t *Table) DefineObjectLike(name, value string) {
	t.Define(Macro{Name: name, Flavor: ObjectLike, Body: normalizeBody(value)})
}

// String renders m the way #define would have spelled it, used in
// diagnostics.
func (m Macro) String() string {
	if m.Flavor == ObjectLike {
		return fmt.Sprintf("#define %s %s", m.Name, m.Body)
	}
	args := ""
	for i, p := range m.Parameters {
		if i > 0 {
			args += ", "
		}
		args += p
	}
	return fmt.Sprintf("#define %s(%s) %s", m.Name, args, m.Body)
}

// normalizeBody re-tokenizes s and joins the tokens back together,
// with a single space wherever any whitespace separated two tokens
// and none at either end. Collapsing happens between tokens only, so
// whitespace inside a string or character literal (a single token)
// survives untouched.
func normalizeBody(s string) string {
	tz := lexer.New(strings.NewReader(s))
	var b strings.Builder
	pendingSpace := false
	for {
		tok, _ := tz.Next()
		if tok.Kind == token.EndOfFile {
			// an unterminated string literal at the end of the body
			// leaves its partial spelling in the scratch buffer
			if text := tz.Scratch(); text != "" {
				if pendingSpace && b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
			break
		}
		if tok.IsHorizontalWhitespace() || tok.IsNewline() {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteString(tok.Spelling())
	}
	return b.String()
}
