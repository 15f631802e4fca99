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

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpellingUsesValueForSeparators(t *testing.T) {
	sep := Token{Kind: Separator, Value: '+'}
	assert.Equal(t, "+", sep.Spelling())

	iden := Token{Kind: Identifier, Text: "foo"}
	assert.Equal(t, "foo", iden.Spelling())
}

func TestWhitespacePredicates(t *testing.T) {
	assert.True(t, Token{Kind: Separator, Value: ' '}.IsHorizontalWhitespace())
	assert.True(t, Token{Kind: Separator, Value: '\t'}.IsHorizontalWhitespace())
	assert.False(t, Token{Kind: Separator, Value: '\n'}.IsHorizontalWhitespace())
	assert.True(t, Token{Kind: Separator, Value: '\n'}.IsNewline())
	assert.False(t, Token{Kind: Identifier, Text: "n"}.IsNewline())
}

func TestCursorString(t *testing.T) {
	assert.Equal(t, "3:14", Cursor{Line: 3, Column: 14}.String())
}
