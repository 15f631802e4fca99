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

package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofl0r/gocpp/internal/cpp/macro"
)

func TestExpandObjectLike(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "FOO", Flavor: macro.ObjectLike, Body: "1 + 2"})
	e := NewEngine(tbl)

	got, err := e.Expand("x = FOO;")
	require.NoError(t, err)
	assert.Equal(t, "x = 1 + 2;", got)
}

func TestExpandTextWithNoMacrosIsIdentity(t *testing.T) {
	tbl := macro.NewTable()
	e := NewEngine(tbl)

	got, err := e.Expand("int x = 1;")
	require.NoError(t, err)
	assert.Equal(t, "int x = 1;", got)
}

func TestExpandFunctionLikeSubstitutesArguments(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "MAX",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a", "b"},
		Body:       "((a) > (b) ? (a) : (b))",
	})
	e := NewEngine(tbl)

	got, err := e.Expand("MAX(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, "((1) > (2) ? (1) : (2))", got)
}

func TestExpandFunctionLikeWrongArityErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "MAX",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a", "b"},
		Body:       "a",
	})
	e := NewEngine(tbl)

	_, err := e.Expand("MAX(1)")
	assert.Error(t, err)
}

func TestExpandFunctionLikeBareNameErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "F", Flavor: macro.FunctionLike, Parameters: []string{"a"}, Body: "a"})
	e := NewEngine(tbl)

	_, err := e.Expand("F + 1")
	assert.ErrorContains(t, err, "expected '('")
}

func TestExpandFunctionLikeAllowsSpaceBeforeParen(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "F", Flavor: macro.FunctionLike, Parameters: []string{"a"}, Body: "(a)"})
	e := NewEngine(tbl)

	got, err := e.Expand("F (1)")
	require.NoError(t, err)
	assert.Equal(t, "(1)", got)
}

func TestExpandZeroArityAcceptsOnlyEmptyArgumentList(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "NIL", Flavor: macro.FunctionLike, Body: "0"})
	e := NewEngine(tbl)

	got, err := e.Expand("NIL()")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = e.Expand("NIL(x)")
	assert.Error(t, err)
}

func TestExpandStringize(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "STR",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"x"},
		Body:       "#x",
	})
	e := NewEngine(tbl)

	got, err := e.Expand(`STR(hello)`)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, got)
}

func TestExpandConcatenation(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "CAT",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a", "b"},
		Body:       "a ## b",
	})
	e := NewEngine(tbl)

	got, err := e.Expand("CAT(foo, bar)")
	require.NoError(t, err)
	assert.Equal(t, "foobar", got)
}

func TestExpandNestedMacroCallInArgument(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "ONE", Flavor: macro.ObjectLike, Body: "1"})
	tbl.Define(macro.Macro{
		Name:       "INC",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"x"},
		Body:       "(x + 1)",
	})
	e := NewEngine(tbl)

	got, err := e.Expand("INC(ONE)")
	require.NoError(t, err)
	assert.Equal(t, "(1 + 1)", got)
}

func TestExpandRecursionCapIsHit(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{Name: "X", Flavor: macro.ObjectLike, Body: "X"})
	e := NewEngine(tbl)

	_, err := e.Expand("X")
	assert.Error(t, err)
}

func TestExpandNestedParenthesesInArgumentAreNotSplit(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "ID",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"x"},
		Body:       "x",
	})
	e := NewEngine(tbl)

	got, err := e.Expand("ID(f(1, 2))")
	require.NoError(t, err)
	assert.Equal(t, "f(1, 2)", got)
}

func TestStringizeDoesNotReescapeCharacters(t *testing.T) {
	assert.Equal(t, `"a"b\c"`, stringize(`a"b\c`))
}

func TestExpandConcatenationAtStartOfBodyErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "BAD",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a"},
		Body:       "## a",
	})
	e := NewEngine(tbl)

	_, err := e.Expand("BAD(x)")
	assert.Error(t, err)
}

func TestExpandConcatenationAtEndOfBodyErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "BAD",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a"},
		Body:       "a ##",
	})
	e := NewEngine(tbl)

	_, err := e.Expand("BAD(x)")
	assert.Error(t, err)
}

func TestExpandThreeHashesInARowErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "BAD",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a", "b"},
		Body:       "a ###b",
	})
	e := NewEngine(tbl)

	_, err := e.Expand("BAD(x, y)")
	assert.ErrorContains(t, err, "two consecutive '#'")
}

func TestExpandStringizeNonParameterErrors(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "BAD",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a"},
		Body:       "#other",
	})
	e := NewEngine(tbl)

	_, err := e.Expand("BAD(x)")
	assert.ErrorContains(t, err, "macro parameter")
}

func TestExpandConcatenationDeletesAdjacentWhitespace(t *testing.T) {
	tbl := macro.NewTable()
	tbl.Define(macro.Macro{
		Name:       "JOIN",
		Flavor:     macro.FunctionLike,
		Parameters: []string{"a", "b"},
		Body:       "x a ## b y",
	})
	e := NewEngine(tbl)

	got, err := e.Expand("JOIN(foo, bar)")
	require.NoError(t, err)
	assert.Equal(t, "x foobar y", got)
}
