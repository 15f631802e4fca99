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

// Package lexer implements the streaming character-level tokenizer
// described in spec.md §4.1: a finite-state scanner over an
// io.Reader with multi-character look-ahead, configurable comment
// markers, and raw "read until marker" operations used by the
// directive driver to parse #include filenames and #error/#warning
// text.
package lexer

import (
	"io"

	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// Flags configures optional Tokenizer behavior.
type Flags int

// ParseStrings enables quoted-string tokenization: when set, a `'`
// or `"` separator switches the scanner into string mode instead of
// being emitted as an ordinary Separator token.
const ParseStrings Flags = 1 << iota

// MarkerSlot names one of the three configurable comment markers.
type MarkerSlot int

const (
	SingleLineCommentStart MarkerSlot = iota
	MultiLineCommentStart
	MultiLineCommentEnd
	markerSlotCount
)

// MaxTokLen is the largest lexeme spelling the tokenizer will
// accumulate before reporting Overflow, matching MAX_TOK_LEN from
// spec.md §3.
const MaxTokLen = 4096

// Tokenizer is a finite-state lexer over a character stream. It is
// not safe for concurrent use from multiple goroutines.
type Tokenizer struct {
	buf      *charBuffer
	flags    Flags
	markers  [markerSlotCount]string
	filename string
	scratch  []byte
}

// New constructs a Tokenizer reading from r. By default no comment
// markers are registered and ParseStrings is set; callers typically
// call RegisterMarker for "//", "/*", "*/" right after construction,
// matching the original parse_file setup.
func New(r io.Reader) *Tokenizer {
	return &Tokenizer{
		buf:     newCharBuffer(r),
		flags:   ParseStrings,
		scratch: make([]byte, 0, MaxTokLen),
	}
}

// SetFlags replaces the tokenizer's flag set.
func (t *Tokenizer) SetFlags(f Flags) { t.flags = f }

// Flags returns the tokenizer's current flag set.
func (t *Tokenizer) Flags() Flags { return t.flags }

// SetFilename records the name used in diagnostics for this stream.
func (t *Tokenizer) SetFilename(name string) { t.filename = name }

// Filename returns the name set via SetFilename.
func (t *Tokenizer) Filename() string { return t.filename }

// RegisterMarker assigns the string recognized for the given marker
// slot (comment delimiters).
func (t *Tokenizer) RegisterMarker(slot MarkerSlot, text string) { t.markers[slot] = text }

// Cursor returns the position of the next unread character.
func (t *Tokenizer) Cursor() token.Cursor { return t.buf.cursor() }

// CurrentLine returns the text of the logical line currently being
// read, up to the last character consumed. Diagnostics print it under
// the location header, with a caret underline of matching length.
func (t *Tokenizer) CurrentLine() string { return t.buf.currentLine() }

// Rewind repositions the underlying stream to the start and resets
// line/column counters. It only succeeds for seekable inputs.
func (t *Tokenizer) Rewind() bool { return t.buf.rewind() }

// Peek returns the next character without consuming it, or -1 at
// end of file.
func (t *Tokenizer) Peek() int {
	c := t.buf.getc()
	if c >= 0 {
		t.buf.ungetc(c)
	}
	return c
}

// Advance consumes and returns the next raw character, or -1 at end
// of file, bypassing token classification entirely. Directive parsing
// uses this to step over a single delimiter (such as the opening
// quote of an #include filename) without triggering the tokenizer's
// own string-literal scanning.
func (t *Tokenizer) Advance() int { return t.buf.getc() }

// Scratch returns the text most recently captured by ReadUntil.
func (t *Tokenizer) Scratch() string { return string(t.scratch) }

// matchFrom reports whether the already-consumed character first,
// together with however many further characters are needed, spells
// out which. On a match the further characters are consumed; on a
// mismatch nothing beyond first is consumed. first is never pushed
// back by this call: on failure the caller still owns it as an
// ordinary character, exactly as in the original tokenizer.
func (t *Tokenizer) matchFrom(first int, which string) bool {
	if which == "" || first != int(which[0]) {
		return false
	}
	if len(which) == 1 {
		return true
	}
	rest := which[1:]
	peeked := make([]int, 0, len(rest))
	ok := true
	for i := 0; i < len(rest); i++ {
		c := t.buf.getc()
		peeked = append(peeked, c)
		if c < 0 || byte(c) != rest[i] {
			ok = false
			break
		}
	}
	if ok {
		return true
	}
	for i := len(peeked) - 1; i >= 0; i-- {
		t.buf.ungetc(peeked[i])
	}
	return false
}

// skipThroughMarker discards characters (counting newlines) up to
// and including the first occurrence of marker, matching
// ignore_until from the reference tokenizer. It returns false if EOF
// is reached first.
func (t *Tokenizer) skipThroughMarker(marker string) bool {
	for {
		c := t.buf.getc()
		if c < 0 {
			return false
		}
		if t.matchFrom(c, marker) {
			return true
		}
	}
}

// SkipUntil discards up to and including the first occurrence of
// marker.
func (t *Tokenizer) SkipUntil(marker string) bool { return t.skipThroughMarker(marker) }

// SkipChars skips a run of characters that are members of set,
// returning the count skipped.
func (t *Tokenizer) SkipChars(set string) int {
	n := 0
	for {
		c := t.buf.getc()
		if c < 0 {
			return n
		}
		if !containsByte(set, byte(c)) {
			t.buf.ungetc(c)
			return n
		}
		n++
	}
}

func containsByte(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// ReadUntil reads characters into the tokenizer's scratch buffer
// until stop is matched, optionally keeping stop out of the
// captured text. It is used for raw reads such as #include
// filenames and #error/#warning message bodies. It returns false if
// EOF is reached before stop is found, or if the captured text would
// overflow MaxTokLen.
func (t *Tokenizer) ReadUntil(stop string, keepStop bool) bool {
	t.scratch = t.scratch[:0]
	for {
		c := t.buf.getc()
		if c < 0 {
			return false
		}
		if t.matchFrom(c, stop) {
			if keepStop {
				t.scratch = append(t.scratch, stop...)
			}
			return true
		}
		if len(t.scratch) >= MaxTokLen-1 {
			return false
		}
		t.scratch = append(t.scratch, byte(c))
	}
}

// Next produces the next token. It returns false on a
// tokenizer-internal failure; the returned Token's Kind still
// indicates which kind of failure occurred: Unknown for an
// unclassifiable lexeme or a string cut off by a newline, Overflow
// for an over-long lexeme or string, EndOfFile for a string or
// multi-line comment left open at end of file.
func (t *Tokenizer) Next() (token.Token, bool) {
	t.scratch = t.scratch[:0]
	var lexStart token.Cursor
	for {
		start := t.buf.cursor()
		c := t.buf.getc()
		if c < 0 {
			if len(t.scratch) > 0 {
				// EOF ends a pending lexeme the same way a separator
				// does; EndOfFile itself comes on the next call.
				break
			}
			return token.Token{Kind: token.EndOfFile, Location: start}, true
		}
		if t.matchFrom(c, t.markers[MultiLineCommentStart]) {
			if !t.skipThroughMarker(t.markers[MultiLineCommentEnd]) {
				return token.Token{Kind: token.EndOfFile, Location: start}, false
			}
			continue
		}
		if t.matchFrom(c, t.markers[SingleLineCommentStart]) {
			t.skipThroughMarker("\n")
			continue
		}
		if isSeparator(c) {
			t.buf.ungetc(c)
			break
		}
		if len(t.scratch) == 0 {
			lexStart = start
		}
		if len(t.scratch) >= MaxTokLen-1 {
			return token.Token{Kind: token.Overflow, Location: start}, false
		}
		t.scratch = append(t.scratch, byte(c))
	}

	if len(t.scratch) == 0 {
		return t.nextSeparatorOrString()
	}

	kind := categorize(string(t.scratch))
	return token.Token{Kind: kind, Location: lexStart, Text: string(t.scratch)}, kind != token.Unknown
}

// nextSeparatorOrString handles the case where the very first
// character of the candidate lexeme was itself a separator: either a
// one-character Separator token, or — when ParseStrings is set and
// the character is a quote — the start of a quoted string literal.
func (t *Tokenizer) nextSeparatorOrString() (token.Token, bool) {
	loc := t.buf.cursor()
	c := t.buf.getc()
	if (c == '\'' || c == '"') && t.flags&ParseStrings != 0 {
		return t.scanString(byte(c), loc)
	}
	tok := token.Token{Kind: token.Separator, Location: loc, Value: rune(c), Text: string(rune(c))}
	return tok, true
}

// scanString consumes a quoted string literal starting at the
// already-read opening quote, matching get_string from the
// reference tokenizer: an embedded newline is an unterminated
// string (Unknown, failure); EOF inside the string is EndOfFile
// with failure.
func (t *Tokenizer) scanString(quote byte, loc token.Cursor) (token.Token, bool) {
	t.scratch = t.scratch[:0]
	t.scratch = append(t.scratch, quote)
	escaped := false
	for {
		c := t.buf.getc()
		if c < 0 {
			return token.Token{Kind: token.EndOfFile, Location: loc}, false
		}
		if c == '\n' {
			return token.Token{Kind: token.Unknown, Location: loc, Text: string(t.scratch)}, false
		}
		if len(t.scratch) >= MaxTokLen-1 {
			return token.Token{Kind: token.Overflow, Location: loc}, false
		}
		if !escaped && byte(c) == quote {
			t.scratch = append(t.scratch, byte(c))
			kind := token.DoubleQuoteString
			if quote == '\'' {
				kind = token.SingleQuoteString
			}
			return token.Token{Kind: kind, Location: loc, Text: string(t.scratch)}, true
		}
		escaped = !escaped && c == '\\'
		t.scratch = append(t.scratch, byte(c))
	}
}
