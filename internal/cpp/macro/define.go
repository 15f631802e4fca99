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

package macro

import (
	"fmt"

	"github.com/rofl0r/gocpp/internal/cpp/lexer"
	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// ParseDefine reads a #define body from tz, whose next token is the
// macro name (the "#define" keyword and the whitespace after it have
// already been consumed by the directive driver). It distinguishes
// FunctionLike from ObjectLike exactly the way the reference
// parse_macro does: a '(' immediately following the name with no
// intervening whitespace starts a parameter list; anything else,
// including a single space before '(', makes an ObjectLike macro
// whose body happens to start with '('.
func ParseDefine(tz *lexer.Tokenizer) (Macro, error) {
	nameTok, ok := tz.Next()
	if !ok || nameTok.Kind != token.Identifier {
		return Macro{}, fmt.Errorf("#define: expected macro name, got %s", nameTok.Kind)
	}
	m := Macro{Name: nameTok.Text}

	if tz.Peek() == '(' {
		tz.Next() // consume '('
		m.Flavor = FunctionLike
		params, err := parseParamList(tz)
		if err != nil {
			return Macro{}, err
		}
		m.Parameters = params
	} else {
		m.Flavor = ObjectLike
	}

	tz.SkipChars(" \t")
	body, err := captureBody(tz)
	if err != nil {
		return Macro{}, err
	}
	m.Body = normalizeBody(body)
	return m, nil
}

// parseParamList reads a FunctionLike macro's parameter names up to
// and including the closing ')', skipping whitespace and
// backslash-newline continuations around each ',' and around ')'.
// Variadic parameter lists ("...") are not supported.
func parseParamList(tz *lexer.Tokenizer) (params []string, err error) {
	if err := skipParamBlanks(tz); err != nil {
		return nil, err
	}
	if tz.Peek() == ')' {
		tz.Next()
		return nil, nil
	}
	for {
		if err := skipParamBlanks(tz); err != nil {
			return nil, err
		}
		tok, ok := tz.Next()
		if !ok || tok.Kind != token.Identifier {
			return nil, fmt.Errorf("#define: expected parameter name in parameter list")
		}
		params = append(params, tok.Text)
		if err := skipParamBlanks(tz); err != nil {
			return nil, err
		}
		sep, ok := tz.Next()
		if !ok {
			return nil, fmt.Errorf("#define: unterminated parameter list")
		}
		if sep.IsSeparator(')') {
			return params, nil
		}
		if !sep.IsSeparator(',') {
			return nil, fmt.Errorf("#define: expected ',' or ')' in parameter list, got %q", sep.Text)
		}
	}
}

// skipParamBlanks consumes horizontal whitespace and backslash-newline
// line continuations between parameter-list tokens. A backslash not
// followed by a newline is malformed here.
func skipParamBlanks(tz *lexer.Tokenizer) error {
	for {
		tz.SkipChars(" \t")
		if tz.Peek() != '\\' {
			return nil
		}
		tz.Advance()
		if tz.Peek() != '\n' {
			return fmt.Errorf("#define: unexpected '\\' in parameter list")
		}
		tz.Advance()
	}
}

// captureBody reads raw text up to (but not including) the next
// unescaped newline, honoring backslash-newline line continuation the
// way the reference parse_macro's body capture does: a trailing '\'
// immediately before the newline splices the next line in instead of
// ending the body.
func captureBody(tz *lexer.Tokenizer) (string, error) {
	var out []byte
	for {
		c := tz.Peek()
		if c < 0 {
			break
		}
		if c == '\n' {
			break
		}
		if c == '\\' {
			// backslash immediately followed by newline is a line
			// continuation; both characters are dropped from the body.
			tz.Advance()
			if tz.Peek() == '\n' {
				tz.Advance()
				continue
			}
			out = append(out, '\\')
			continue
		}
		tok, ok := tz.Next()
		if !ok && tok.Kind != token.Unknown {
			return "", fmt.Errorf("#define: error reading macro body")
		}
		out = append(out, tok.Spelling()...)
	}
	return string(out), nil
}
