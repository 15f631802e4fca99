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

import "fmt"

// condFrame tracks one #if..#endif chain. It is the frame-stack
// equivalent of the reference preprocessor's if_level/if_level_active
// /if_level_satisfied trio of counters: active reports whether text
// under the current branch should be emitted, satisfied reports
// whether some branch of this chain has already matched (gating
// later #elif/#else), and everActive records whether the chain was
// reachable at all, so a chain nested inside an inactive branch stays
// inactive regardless of its own conditions.
type condFrame struct {
	active     bool
	satisfied  bool
	everActive bool
}

// ConditionalStack is the per-file #if/#ifdef/#elif/#else/#endif
// nesting state described in spec.md §4.4.
type ConditionalStack struct {
	frames []condFrame
}

// Active reports whether text at the current nesting level should be
// emitted. An empty stack (no open #if) is always active.
func (c *ConditionalStack) Active() bool {
	if len(c.frames) == 0 {
		return true
	}
	return c.frames[len(c.frames)-1].active
}

// Level reports the current #if nesting depth.
func (c *ConditionalStack) Level() int { return len(c.frames) }

// PushIf opens a new #if (or #ifdef) branch with the given
// condition result.
func (c *ConditionalStack) PushIf(cond bool) {
	parentActive := c.Active()
	c.frames = append(c.frames, condFrame{
		active:     parentActive && cond,
		satisfied:  cond,
		everActive: parentActive,
	})
}

// Elif evaluates an #elif branch against the innermost open chain.
func (c *ConditionalStack) Elif(cond bool) error {
	if len(c.frames) == 0 {
		return fmt.Errorf("#elif without #if")
	}
	f := &c.frames[len(c.frames)-1]
	switch {
	case !f.everActive:
		f.active = false
	case f.satisfied:
		f.active = false
	default:
		f.active = cond
		if cond {
			f.satisfied = true
		}
	}
	return nil
}

// Else takes the #else branch of the innermost open chain. Per
// spec.md §9, #else has no condition of its own: it is taken whenever
// the chain has not yet been satisfied, which is the behavior
// "#else always evaluates as true" describes.
func (c *ConditionalStack) Else() error {
	if len(c.frames) == 0 {
		return fmt.Errorf("#else without #if")
	}
	f := &c.frames[len(c.frames)-1]
	switch {
	case !f.everActive:
		f.active = false
	case f.satisfied:
		f.active = false
	default:
		f.active = true
		f.satisfied = true
	}
	return nil
}

// ElifArmed reports whether an #elif/#if condition at the current
// depth still needs evaluating: the chain must be reachable
// (everActive) and no earlier branch may have matched. When it
// returns false the branch is skipped without looking at its
// expression, so macro errors inside a dead condition never fire.
func (c *ConditionalStack) ElifArmed() bool {
	if len(c.frames) == 0 {
		return false
	}
	f := c.frames[len(c.frames)-1]
	return f.everActive && !f.satisfied
}

// Endif closes the innermost open chain.
func (c *ConditionalStack) Endif() error {
	if len(c.frames) == 0 {
		return fmt.Errorf("#endif without #if")
	}
	c.frames = c.frames[:len(c.frames)-1]
	return nil
}
