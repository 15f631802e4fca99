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

// Package session bundles the state that must survive across
// #include boundaries into a single value threaded through recursive
// file processing, rather than the global macro table the original
// C implementation relies on (spec.md §9 design note).
package session

import (
	"io"

	"github.com/rofl0r/gocpp/internal/cpp/include"
	"github.com/rofl0r/gocpp/internal/cpp/macro"
)

// Session is the state shared by the processing of a file and every
// file it (transitively) #includes: the macro table, which is
// visible and mutable across include boundaries exactly as the
// reference preprocessor's global hash table is, the include search
// path, and the sink every non-directive line of output is written
// to.
type Session struct {
	Macros *macro.Table
	Search *include.SearchPath
	Out    io.Writer

	// Depth counts nested #include files, guarding against runaway
	// (or cyclic) include chains independent of macro recursion.
	Depth int
}

// New creates a Session ready to process a top-level file.
func New(macros *macro.Table, search *include.SearchPath, out io.Writer) *Session {
	return &Session{Macros: macros, Search: search, Out: out}
}

// MaxIncludeDepth bounds nested #include processing.
const MaxIncludeDepth = 200
