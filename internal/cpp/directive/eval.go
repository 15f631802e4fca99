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

package directive

import (
	"strconv"
	"strings"

	"github.com/rofl0r/gocpp/internal/cpp/lexer"
	"github.com/rofl0r/gocpp/internal/cpp/token"
)

// evalCondition is the stub #if/#elif expression evaluator carried
// over from original_source/preproc.c's do_eval: it does not parse a
// real constant expression grammar. It scans the already
// macro-expanded condition text and returns the value of the first
// decimal integer literal it finds, or 0 if there is none. This is a
// documented limitation (spec.md §4.4, §9), not a general evaluator:
// `#if 1 + 1` evaluates to 1, not 2, and `#if FOO` where FOO expands
// to an identifier (not a literal) evaluates to 0.
func evalCondition(expanded string) int {
	tz := lexer.New(strings.NewReader(expanded))
	for {
		tok, _ := tz.Next()
		if tok.Kind == token.EndOfFile {
			return 0
		}
		if tok.Kind == token.DecInt {
			v, err := strconv.ParseInt(strings.TrimRight(tok.Text, "uUlL"), 10, 64)
			if err != nil {
				return 0
			}
			return int(v)
		}
	}
}
