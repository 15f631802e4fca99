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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalStackSimpleIf(t *testing.T) {
	c := &ConditionalStack{}
	assert.True(t, c.Active())
	c.PushIf(true)
	assert.True(t, c.Active())
	require.NoError(t, c.Endif())
	assert.True(t, c.Active())
}

func TestConditionalStackFalseIfSkips(t *testing.T) {
	c := &ConditionalStack{}
	c.PushIf(false)
	assert.False(t, c.Active())
}

func TestConditionalStackElseTakenWhenUnsatisfied(t *testing.T) {
	c := &ConditionalStack{}
	c.PushIf(false)
	require.NoError(t, c.Else())
	assert.True(t, c.Active())
}

func TestConditionalStackElseNotTakenWhenAlreadySatisfied(t *testing.T) {
	c := &ConditionalStack{}
	c.PushIf(true)
	require.NoError(t, c.Else())
	assert.False(t, c.Active())
}

func TestConditionalStackElifChain(t *testing.T) {
	c := &ConditionalStack{}
	c.PushIf(false)
	require.NoError(t, c.Elif(false))
	assert.False(t, c.Active())
	require.NoError(t, c.Elif(true))
	assert.True(t, c.Active())
	require.NoError(t, c.Elif(true))
	assert.False(t, c.Active(), "a later #elif must not re-activate once satisfied")
}

func TestConditionalStackNestedInsideInactiveStaysInactive(t *testing.T) {
	c := &ConditionalStack{}
	c.PushIf(false)
	c.PushIf(true)
	assert.False(t, c.Active())
	require.NoError(t, c.Else())
	assert.False(t, c.Active())
}

func TestConditionalStackEndifWithoutIfErrors(t *testing.T) {
	c := &ConditionalStack{}
	assert.Error(t, c.Endif())
}

func TestConditionalStackElseWithoutIfErrors(t *testing.T) {
	c := &ConditionalStack{}
	assert.Error(t, c.Else())
}

func TestConditionalStackElifArmed(t *testing.T) {
	c := &ConditionalStack{}
	assert.False(t, c.ElifArmed(), "no open chain")

	c.PushIf(false)
	assert.True(t, c.ElifArmed(), "unsatisfied reachable chain")

	require.NoError(t, c.Elif(true))
	assert.False(t, c.ElifArmed(), "satisfied chain")
	require.NoError(t, c.Endif())

	c.PushIf(false) // inactive parent
	c.PushIf(true)
	assert.False(t, c.ElifArmed(), "chain nested in inactive parent")
}

func TestConditionalStackLevelTracksNesting(t *testing.T) {
	c := &ConditionalStack{}
	assert.Equal(t, 0, c.Level())
	c.PushIf(true)
	assert.Equal(t, 1, c.Level())
	c.PushIf(true)
	assert.Equal(t, 2, c.Level())
	require.NoError(t, c.Endif())
	assert.Equal(t, 1, c.Level())
}
