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

// Package expand implements the two-pass macro expansion engine from
// spec.md §4.3: parameter substitution with the # (stringize) and ##
// (concatenation) operators, followed by innermost-out recursive
// re-expansion of any macro calls the substitution produced, capped
// by MaxRecursion.
package expand

import (
	"fmt"
	"strings"

	"github.com/rofl0r/gocpp/internal/cpp/lexer"
	"github.com/rofl0r/gocpp/internal/cpp/macro"
	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// MaxRecursion bounds how many nested expansions a single top-level
// Expand call may perform. It is a self-recursion guard, not true
// hygiene: #define X X will hit this limit rather than loop forever,
// matching spec.md §4.3 and the reference preprocessor's rec_level
// parameter to expand_macro.
const MaxRecursion = 32

// Engine expands macro invocations against a fixed macro table.
type Engine struct {
	table *macro.Table
}

// NewEngine returns an Engine that looks up macros in table.
func NewEngine(table *macro.Table) *Engine {
	return &Engine{table: table}
}

// Expand performs full macro expansion of text: every macro call it
// contains, including ones produced by substitution, is expanded
// until no further macro names remain or MaxRecursion is hit.
func (e *Engine) Expand(text string) (string, error) {
	return e.expandText(text, 0)
}

// ExpandIdent expands the identifier name that was just read from tz,
// returning the replacement text. Identifiers that do not name a
// macro come back verbatim. For a FunctionLike macro the argument
// list is read from tz itself, so the call may consume arbitrarily
// more of the stream, including newlines inside the argument list.
func (e *Engine) ExpandIdent(tz *lexer.Tokenizer, name string) (string, error) {
	m, found := e.table.Lookup(name)
	if !found {
		return name, nil
	}
	return e.expandCall(tz, m, 0)
}

// newScanner builds a Tokenizer over already-captured macro text
// (a body or an argument). No comment markers are registered: body
// text has already passed through the top-level tokenizer once, so
// any "//" or "/*" it contains is ordinary punctuation, not a new
// comment to skip.
func newScanner(text string) *lexer.Tokenizer {
	return lexer.New(strings.NewReader(text))
}

func (e *Engine) expandText(text string, recLevel int) (string, error) {
	if recLevel > MaxRecursion {
		return "", fmt.Errorf("max recursion level reached expanding %q", text)
	}
	tz := newScanner(text)
	var out strings.Builder
	for {
		tok, ok := tz.Next()
		if tok.Kind == token.EndOfFile {
			break
		}
		if !ok && tok.Kind != token.Unknown {
			return "", fmt.Errorf("error re-scanning macro expansion: %s", tok.Kind)
		}
		if tok.Kind == token.Identifier {
			if m, found := e.table.Lookup(tok.Text); found {
				expanded, err := e.expandCall(tz, m, recLevel)
				if err != nil {
					return "", err
				}
				out.WriteString(expanded)
				continue
			}
		}
		out.WriteString(tok.Spelling())
	}
	return out.String(), nil
}

// expandCall expands a single invocation of m. name has already been
// consumed from tz; for a FunctionLike macro the argument list (if
// any) is read from tz as well, so this may consume arbitrarily more
// of the stream.
func (e *Engine) expandCall(tz *lexer.Tokenizer, m macro.Macro, recLevel int) (string, error) {
	if m.Flavor == macro.ObjectLike {
		return e.expandText(m.Body, recLevel+1)
	}

	// Horizontal whitespace may separate the name from its argument
	// list, but the '(' itself is mandatory: a bare function-like
	// macro name is an error, not a pass-through.
	tz.SkipChars(" \t")
	if tz.Peek() != '(' {
		return "", fmt.Errorf("macro %s: expected '('", m.Name)
	}
	tz.Next() // consume '('

	args, err := captureArgs(tz)
	if err != nil {
		return "", fmt.Errorf("macro %s: %w", m.Name, err)
	}
	if len(args) == 1 && len(m.Parameters) == 0 && strings.TrimSpace(args[0]) == "" {
		args = nil
	}
	if len(args) != len(m.Parameters) {
		return "", fmt.Errorf("macro %s expects %d argument(s), got %d", m.Name, len(m.Parameters), len(args))
	}

	cwae, err := substituteParams(m, args)
	if err != nil {
		return "", fmt.Errorf("macro %s: %w", m.Name, err)
	}
	return e.expandText(cwae, recLevel+1)
}

// captureArgs reads a function-like macro's argument list from tz,
// whose next token is either the first argument's content or an
// immediate ')'. The opening '(' has already been consumed.
// Arguments are split on top-level commas; parentheses nested inside
// an argument are tracked so a comma inside a nested call does not
// split the argument. Returned argument text is raw (unexpanded) and
// trimmed of leading/trailing whitespace.
func captureArgs(tz *lexer.Tokenizer) ([]string, error) {
	var args []string
	var cur strings.Builder
	depth := 0
	for {
		tok, ok := tz.Next()
		switch tok.Kind {
		case token.EndOfFile:
			return nil, fmt.Errorf("unterminated argument list")
		case token.Unknown:
			// pass through
		default:
			if !ok {
				return nil, fmt.Errorf("error reading argument list: %s", tok.Kind)
			}
		}
		if tok.Kind == token.Separator {
			switch tok.Value {
			case '(':
				depth++
			case ')':
				if depth == 0 {
					args = append(args, strings.TrimSpace(cur.String()))
					return args, nil
				}
				depth--
			case ',':
				if depth == 0 {
					args = append(args, strings.TrimSpace(cur.String()))
					cur.Reset()
					continue
				}
			}
		}
		cur.WriteString(tok.Spelling())
	}
}

// bodyToken is one lexeme of a macro body together with whether a
// literal space preceded it in the (already whitespace-normalized)
// body text.
type bodyToken struct {
	text           string
	hadSpaceBefore bool
}

func tokenizeBody(body string) []bodyToken {
	tz := newScanner(body)
	var toks []bodyToken
	pendingSpace := false
	for {
		tok, _ := tz.Next()
		if tok.Kind == token.EndOfFile {
			break
		}
		if tok.Kind == token.Separator && tok.Value == ' ' {
			pendingSpace = true
			continue
		}
		toks = append(toks, bodyToken{text: tok.Spelling(), hadSpaceBefore: pendingSpace})
		pendingSpace = false
	}
	return toks
}

// substituteParams performs Pass A of macro expansion (spec.md
// §4.3): it walks m.Body, replacing parameter names with the
// corresponding unexpanded argument text, applying # (stringize) to
// a parameter immediately preceded by '#', and applying ## to delete
// the whitespace between (and otherwise leave untouched) the two
// tokens it joins.
func substituteParams(m macro.Macro, args []string) (string, error) {
	argOf := make(map[string]string, len(m.Parameters))
	for i, p := range m.Parameters {
		argOf[p] = args[i]
	}

	toks := tokenizeBody(m.Body)
	type piece struct {
		text  string
		space bool
	}
	var pieces []piece
	forceNoSpace := false

	emit := func(text string, space bool) {
		pieces = append(pieces, piece{text: text, space: space && !forceNoSpace})
		forceNoSpace = false
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if t.text == "#" && i+1 < len(toks) && !toks[i+1].hadSpaceBefore && toks[i+1].text == "#" {
			if i == 0 {
				return "", fmt.Errorf("'##' cannot appear at the start of a macro body")
			}
			if i+2 >= len(toks) {
				return "", fmt.Errorf("'##' cannot appear at the end of a macro body")
			}
			if toks[i+2].text == "#" && !toks[i+2].hadSpaceBefore {
				return "", fmt.Errorf("at most two consecutive '#' characters are allowed")
			}
			forceNoSpace = true
			i++
			continue
		}

		if t.text == "#" {
			if i+1 >= len(toks) {
				return "", fmt.Errorf("'#' is not followed by a macro parameter")
			}
			param := toks[i+1]
			argText, isParam := argOf[param.text]
			if !isParam {
				return "", fmt.Errorf("'#' is not followed by a macro parameter")
			}
			emit(stringize(argText), t.hadSpaceBefore)
			i++
			continue
		}

		if argText, isParam := argOf[t.text]; isParam {
			emit(argText, t.hadSpaceBefore)
			continue
		}

		emit(t.text, t.hadSpaceBefore)
	}

	var out strings.Builder
	for i, p := range pieces {
		if i > 0 && p.space {
			out.WriteByte(' ')
		}
		out.WriteString(p.text)
	}
	return out.String(), nil
}

// stringize brackets s in double quotes without touching its
// contents, matching the '#' operator from spec.md §4.3: "characters
// inside are not re-escaped". The reference preprocessor emits a
// literal '"' token, the argument's own tokens verbatim, then a
// closing '"' — it never walks the argument text looking for
// characters to backslash-escape.
func stringize(s string) string {
	return `"` + s + `"`
}
