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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofl0r/gocpp/internal/cpp/lexer"
)

func newDefineTokenizer(text string) *lexer.Tokenizer {
	tz := lexer.New(strings.NewReader(text))
	tz.RegisterMarker(lexer.SingleLineCommentStart, "//")
	tz.RegisterMarker(lexer.MultiLineCommentStart, "/*")
	tz.RegisterMarker(lexer.MultiLineCommentEnd, "*/")
	return tz
}

func TestParseDefineObjectLike(t *testing.T) {
	tz := newDefineTokenizer("FOO 1 + 2\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, "FOO", m.Name)
	assert.Equal(t, ObjectLike, m.Flavor)
	assert.Equal(t, "1 + 2", m.Body)
}

func TestParseDefineFunctionLikeNoSpaceBeforeParen(t *testing.T) {
	tz := newDefineTokenizer("MAX(a, b) ((a) > (b) ? (a) : (b))\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, FunctionLike, m.Flavor)
	assert.Equal(t, []string{"a", "b"}, m.Parameters)
	assert.Equal(t, "((a) > (b) ? (a) : (b))", m.Body)
}

func TestParseDefineSpaceBeforeParenIsObjectLike(t *testing.T) {
	// A space between the macro name and '(' makes this an
	// object-like macro whose body happens to start with '('.
	tz := newDefineTokenizer("FOO (a, b)\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, ObjectLike, m.Flavor)
	assert.Equal(t, "(a, b)", m.Body)
}

func TestParseDefineFunctionLikeZeroArgs(t *testing.T) {
	tz := newDefineTokenizer("F() body\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, FunctionLike, m.Flavor)
	assert.Empty(t, m.Parameters)
	assert.Equal(t, "body", m.Body)
}

func TestParseDefineBodyContinuesAcrossBackslashNewline(t *testing.T) {
	tz := newDefineTokenizer("FOO a + \\\nb\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, "a + b", m.Body)
}

func TestParseDefineStringBodyKeepsInnerWhitespace(t *testing.T) {
	tz := newDefineTokenizer("S \"a   b\"\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, `"a   b"`, m.Body)
}

func TestParseDefineEmptyBody(t *testing.T) {
	tz := newDefineTokenizer("FOO\n")
	m, err := ParseDefine(tz)
	require.NoError(t, err)
	assert.Equal(t, "", m.Body)
}
