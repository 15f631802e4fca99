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

package lexer

import (
	"bufio"
	"io"

	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// maxUngetc bounds the number of characters that can be pushed back
// onto a charBuffer, matching the tokenizer's multi-character
// look-ahead requirements (comment markers, operators).
const maxUngetc = 8

// charBuffer is a bounded push-back buffer over an io.Reader. It
// tracks the line/column of the next character to be read and
// supports rewinding to the beginning of the stream when the
// underlying reader is seekable (an io.ReadSeeker).
//
// Unlike bufio.Reader's single-byte UnreadByte, charBuffer allows up
// to maxUngetc characters of look-ahead to be pushed back, most
// recently read first, by keeping a small ring of the most recently
// read bytes and replaying them.
type charBuffer struct {
	src  io.Reader
	r    *bufio.Reader
	seek io.Seeker // non-nil when the source is rewindable

	ring      [maxUngetc]byte
	cnt       int // total characters read, modulo ring size indexes ring
	buffered  int // how many of the last characters read are queued for replay
	line, col int
	prevCol   int // column at which the most recent newline was read

	// lineBuf holds the characters of the current logical line
	// consumed so far, for diagnostics. It is cleared lazily, on the
	// first read after a newline, so a diagnostic raised right after
	// the terminating newline still sees the offending line.
	lineBuf      []byte
	pendingReset bool
}

func newCharBuffer(r io.Reader) *charBuffer {
	seek, _ := r.(io.Seeker)
	return &charBuffer{src: r, r: bufio.NewReader(r), seek: seek, line: 1}
}

// cursor returns the position of the next character to be read.
func (b *charBuffer) cursor() token.Cursor {
	return token.Cursor{Line: b.line, Column: b.col}
}

// getc returns the next byte, or -1 at end of file. It advances
// line/column bookkeeping, counting every '\n' it returns.
func (b *charBuffer) getc() int {
	var c byte
	if b.buffered > 0 {
		b.buffered--
		c = b.ring[b.cnt%len(b.ring)]
	} else {
		raw, err := b.r.ReadByte()
		if err != nil {
			return -1
		}
		c = raw
		b.ring[b.cnt%len(b.ring)] = c
	}
	b.cnt++
	if b.pendingReset {
		b.lineBuf = b.lineBuf[:0]
		b.pendingReset = false
	}
	if c == '\n' {
		b.line++
		b.prevCol = b.col
		b.col = 0
		b.pendingReset = true
	} else {
		b.col++
		b.lineBuf = append(b.lineBuf, c)
	}
	return int(c)
}

// ungetc pushes c back onto the buffer so the next getc call returns
// it again. At most maxUngetc characters may be pushed back without
// an intervening getc.
func (b *charBuffer) ungetc(c int) {
	if c < 0 {
		return
	}
	b.buffered++
	b.cnt--
	if c == '\n' {
		b.line--
		b.pendingReset = false
		// callers never push back a newline they have not just
		// consumed, so col is restored to the position right before
		// the newline was read.
		b.col = b.prevCol
	} else {
		b.col--
		if n := len(b.lineBuf); n > 0 {
			b.lineBuf = b.lineBuf[:n-1]
		}
	}
}

// currentLine returns the text of the logical line being read, up to
// the last character consumed.
func (b *charBuffer) currentLine() string { return string(b.lineBuf) }

// rewind repositions the buffer to the start of the stream and
// resets line/column counters. It is valid only for seekable inputs.
func (b *charBuffer) rewind() bool {
	if b.seek == nil {
		return false
	}
	if _, err := b.seek.Seek(0, io.SeekStart); err != nil {
		return false
	}
	b.r.Reset(b.src)
	b.cnt, b.buffered = 0, 0
	b.line, b.col = 1, 0
	b.lineBuf, b.pendingReset = b.lineBuf[:0], false
	return true
}
