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

// Package include resolves #include filenames against an ordered
// search path, per spec.md §4.5/§6: a "quoted" include first checks
// the directory of the file containing the directive, then falls
// through to the same -I search path an <angle-bracket> include uses
// exclusively.
package include

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchPath is an ordered list of directories to search for
// <angle-bracket> includes, and as the fallback for "quoted" ones.
type SearchPath struct {
	dirs []string
}

// NewSearchPath expands each entry of rawDirs as a doublestar glob
// pattern (plain directories match themselves) and returns the
// concatenation of all matches, in order, duplicates included — this
// module does not second-guess a caller that lists the same -I twice.
// A pattern that matches nothing is silently kept as a literal
// directory, so a non-existent plain -I path still behaves like the
// original tool (resolution simply fails later, at Resolve time).
func NewSearchPath(rawDirs []string) (*SearchPath, error) {
	sp := &SearchPath{}
	for _, raw := range rawDirs {
		if !doublestar.ValidatePattern(raw) {
			return nil, fmt.Errorf("include: invalid -I pattern %q", raw)
		}
		matches, err := doublestar.FilepathGlob(raw)
		if err != nil {
			return nil, fmt.Errorf("include: expanding -I %q: %w", raw, err)
		}
		if len(matches) == 0 {
			sp.dirs = append(sp.dirs, raw)
			continue
		}
		sp.dirs = append(sp.dirs, matches...)
	}
	return sp, nil
}

// Dirs returns the expanded, ordered list of search directories.
func (sp *SearchPath) Dirs() []string { return sp.dirs }

// Resolve finds the file backing an #include directive. includerDir
// is the directory of the file containing the directive (used only
// for quoted includes); name is the text between the quotes or
// angle brackets; quoted reports which form was used.
func (sp *SearchPath) Resolve(includerDir, name string, quoted bool) (string, error) {
	if quoted {
		candidate := filepath.Join(includerDir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	for _, dir := range sp.dirs {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("include: %q not found", name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
