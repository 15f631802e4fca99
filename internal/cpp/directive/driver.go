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

// Package directive is the top-level driver: it streams tokens off a
// file, recognizing directive lines at the start of a logical line and
// macro-expanding everything else, recursing into #include'd files
// through a shared Session.
package directive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rofl0r/gocpp/internal/cpp/diag"
	"github.com/rofl0r/gocpp/internal/cpp/expand"
	"github.com/rofl0r/gocpp/internal/cpp/lexer"
	"github.com/rofl0r/gocpp/internal/cpp/macro"
	"github.com/rofl0r/gocpp/internal/cpp/session"
	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// Driver runs the directive dispatch loop against a Session.
type Driver struct {
	sess   *session.Session
	engine *expand.Engine
}

// New returns a Driver operating against sess.
func New(sess *session.Session) *Driver {
	return &Driver{sess: sess, engine: expand.NewEngine(sess.Macros)}
}

// ProcessFile reads path, expands it, and writes the result to the
// Session's output, recursively following any #include directives it
// contains.
func (d *Driver) ProcessFile(path string) error {
	if d.sess.Depth > session.MaxIncludeDepth {
		return fmt.Errorf("%s: #include nesting too deep", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return d.processReader(path, filepath.Dir(path), f)
}

func (d *Driver) processReader(path, dir string, r io.Reader) error {
	tz := lexer.New(r)
	tz.RegisterMarker(lexer.SingleLineCommentStart, "//")
	tz.RegisterMarker(lexer.MultiLineCommentStart, "/*")
	tz.RegisterMarker(lexer.MultiLineCommentEnd, "*/")
	tz.SetFilename(path)

	cond := &ConditionalStack{}

	// Horizontal whitespace is not copied through directly: a run of
	// it becomes a single pending space, flushed before the next
	// emitted token. atLineStart tracks whether only whitespace has
	// been seen since the last newline, which is what makes a '#'
	// a directive rather than a stray.
	atLineStart := true
	pendingSpace := false

	flushSpace := func() {
		if pendingSpace {
			io.WriteString(d.sess.Out, " ")
			pendingSpace = false
		}
	}

	for {
		tok, ok := tz.Next()
		if tok.Kind == token.EndOfFile {
			if cond.Active() {
				flushSpace()
			}
			break
		}
		if !ok {
			return diag.Errorf(path, tok.Location, tz.CurrentLine(), "malformed token: %s", tok.Kind)
		}
		if tok.Location.Column == 0 {
			// Tokens can land on a fresh line without an intervening
			// newline token, e.g. after a macro argument list that
			// spanned lines.
			atLineStart = true
		}
		if tok.IsHorizontalWhitespace() {
			pendingSpace = true
			continue
		}
		if tok.IsSeparator('#') {
			if !atLineStart {
				return diag.Errorf(path, tok.Location, tz.CurrentLine(), "stray #")
			}
			pendingSpace = false
			stop, err := d.dispatch(tz, cond, path, dir)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			continue
		}
		if tok.IsNewline() {
			if cond.Active() {
				flushSpace()
				io.WriteString(d.sess.Out, "\n")
			}
			pendingSpace = false
			atLineStart = true
			continue
		}
		atLineStart = false
		if !cond.Active() {
			pendingSpace = false
			continue
		}
		flushSpace()
		if tok.Kind == token.Identifier {
			expanded, err := d.engine.ExpandIdent(tz, tok.Text)
			if err != nil {
				return diag.Errorf(path, tok.Location, tz.CurrentLine(), "%s", err)
			}
			io.WriteString(d.sess.Out, expanded)
			continue
		}
		io.WriteString(d.sess.Out, tok.Spelling())
	}

	if cond.Level() != 0 {
		return diag.Errorf(path, tz.Cursor(), tz.CurrentLine(), "unterminated #if")
	}
	return nil
}

// skipToEndOfLine discards tokens up to and including the next
// newline, or EOF. Directive handlers call this once they have
// consumed whatever they need from the line, so the dispatch loop
// restarts cleanly at the next line regardless of trailing garbage.
func skipToEndOfLine(tz *lexer.Tokenizer) {
	for {
		tok, _ := tz.Next()
		if tok.Kind == token.EndOfFile || tok.IsNewline() {
			return
		}
	}
}

// dispatch handles one directive line; the leading '#' has already
// been consumed. It reports stop=true when processing of the whole
// file should end, which happens on an unrecognized directive name:
// the driver stops there and reports success without a diagnostic.
// That behavior is inherited from the original tool and kept as is.
func (d *Driver) dispatch(tz *lexer.Tokenizer, cond *ConditionalStack, path, dir string) (stop bool, err error) {
	tz.SkipChars(" \t")
	if tz.Peek() == '\n' || tz.Peek() < 0 {
		// A lone '#' on a line is the null directive: no-op.
		return false, nil
	}
	kw, ok := tz.Next()
	if !ok || kw.Kind != token.Identifier {
		// Not even an identifier after '#': report it, but still
		// terminate with success like any unrecognized directive.
		fmt.Fprintln(os.Stderr, diag.Errorf(path, kw.Location, tz.CurrentLine(), "unexpected token after '#'").Format())
		return true, nil
	}

	switch kw.Text {
	case "define":
		if !cond.Active() {
			skipToEndOfLine(tz)
			return false, nil
		}
		tz.SkipChars(" \t")
		loc := tz.Cursor()
		m, err := macro.ParseDefine(tz)
		if err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}
		if d.sess.Macros.Define(m) {
			fmt.Fprintln(os.Stderr, diag.Warnf(path, loc, tz.CurrentLine(), "redefinition of %q", m.Name).Format())
		}
		skipToEndOfLine(tz)

	case "undef":
		if !cond.Active() {
			skipToEndOfLine(tz)
			return false, nil
		}
		tz.SkipChars(" \t")
		name, ok := tz.Next()
		if !ok || name.Kind != token.Identifier {
			return false, diag.Errorf(path, name.Location, tz.CurrentLine(), "#undef: expected macro name")
		}
		d.sess.Macros.Undef(name.Text)
		skipToEndOfLine(tz)

	case "include":
		if !cond.Active() {
			skipToEndOfLine(tz)
			return false, nil
		}
		loc := tz.Cursor()
		name, quoted, err := parseIncludeTarget(tz)
		if err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}
		skipToEndOfLine(tz)
		resolved, err := d.sess.Search.Resolve(dir, name, quoted)
		if err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}
		d.sess.Depth++
		err = d.ProcessFile(resolved)
		d.sess.Depth--
		if err != nil {
			return false, err
		}

	case "if":
		loc := tz.Cursor()
		val, err := d.evalDirectiveCondition(tz, cond.Active())
		if err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}
		cond.PushIf(val != 0)

	case "ifdef":
		tz.SkipChars(" \t")
		name, ok := tz.Next()
		defined := ok && name.Kind == token.Identifier && d.sess.Macros.Defined(name.Text)
		if name.Kind != token.EndOfFile && !name.IsNewline() {
			skipToEndOfLine(tz)
		}
		cond.PushIf(defined)

	case "elif":
		loc := tz.Cursor()
		val, err := d.evalDirectiveCondition(tz, cond.ElifArmed())
		if err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}
		if err := cond.Elif(val != 0); err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}

	case "else":
		loc := tz.Cursor()
		skipToEndOfLine(tz)
		if err := cond.Else(); err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}

	case "endif":
		loc := tz.Cursor()
		skipToEndOfLine(tz)
		if err := cond.Endif(); err != nil {
			return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", err)
		}

	case "error":
		tz.SkipChars(" \t")
		loc := tz.Cursor()
		tz.ReadUntil("\n", false)
		msg := tz.Scratch()
		if !cond.Active() {
			return false, nil
		}
		return false, diag.Errorf(path, loc, tz.CurrentLine(), "%s", msg)

	case "warning":
		tz.SkipChars(" \t")
		loc := tz.Cursor()
		tz.ReadUntil("\n", false)
		msg := tz.Scratch()
		if cond.Active() {
			fmt.Fprintln(os.Stderr, diag.Warnf(path, loc, tz.CurrentLine(), "%s", msg).Format())
		}

	default:
		// Unrecognized directive: stop processing this file and
		// report success, the preserved quirk of the original tool.
		return true, nil
	}
	return false, nil
}

// evalDirectiveCondition consumes the remainder of an #if/#elif line.
// When armed is true the expression text is macro-expanded and run
// through the stub evaluator (eval.go); when false the line is only
// consumed, so expressions in unreachable branches can never raise
// expansion errors.
func (d *Driver) evalDirectiveCondition(tz *lexer.Tokenizer, armed bool) (int, error) {
	tz.SkipChars(" \t")
	raw := readConditionText(tz)
	if !armed {
		return 0, nil
	}
	if raw == "" {
		return 0, fmt.Errorf("#if/#elif with no expression")
	}
	expanded, err := d.engine.Expand(raw)
	if err != nil {
		return 0, err
	}
	return evalCondition(expanded), nil
}

// readConditionText captures an #if/#elif expression's raw text up to
// the end of the logical line, honoring backslash-newline
// continuation (backslash and newline are both dropped). Comments are
// stripped by the tokenizer itself.
func readConditionText(tz *lexer.Tokenizer) string {
	var b strings.Builder
	for {
		tok, _ := tz.Next()
		if tok.Kind == token.EndOfFile || tok.IsNewline() {
			return b.String()
		}
		if tok.Kind == token.Unknown && tok.Text == `\` {
			if tz.Peek() == '\n' {
				tz.Advance()
			}
			continue
		}
		b.WriteString(tok.Spelling())
	}
}

// parseIncludeTarget reads an #include filename in either quoted or
// angle-bracket form. It consumes the opening delimiter itself
// (bypassing the tokenizer's own string-literal scanning, which would
// interpret backslash escapes filenames should not have) and reads up
// to, but not including, the matching closing delimiter.
func parseIncludeTarget(tz *lexer.Tokenizer) (name string, quoted bool, err error) {
	tz.SkipChars(" \t")
	switch tz.Peek() {
	case '"':
		tz.Advance()
		if !tz.ReadUntil("\"", false) {
			return "", false, fmt.Errorf("#include: unterminated filename")
		}
		return tz.Scratch(), true, nil
	case '<':
		tz.Advance()
		if !tz.ReadUntil(">", false) {
			return "", false, fmt.Errorf("#include: unterminated filename")
		}
		return tz.Scratch(), false, nil
	default:
		return "", false, fmt.Errorf(`#include expects "FILE" or <FILE>`)
	}
}
