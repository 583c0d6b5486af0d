// Copyright 2020-2021 Dolthub, Inc.
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

package paramset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/pgshardrouter/paramset"
)

func TestTextDecodesTextFormatParam(t *testing.T) {
	vec := paramset.Vector{
		{Raw: []byte("acme-corp"), Format: paramset.FormatText},
	}
	value, ok := vec.Text(0)
	require.True(t, ok)
	require.Equal(t, "acme-corp", value)
}

func TestTextOutOfRangeIsNotOK(t *testing.T) {
	var vec paramset.Vector
	_, ok := vec.Text(0)
	require.False(t, ok)
	_, ok = vec.Text(-1)
	require.False(t, ok)
}

func TestTextArrayDecodesTextLiteral(t *testing.T) {
	vec := paramset.Vector{
		{Raw: []byte("{1,2,3}"), Format: paramset.FormatText},
	}
	elements, ok := vec.TextArray(0)
	require.True(t, ok)
	require.Equal(t, []string{"1", "2", "3"}, elements)
}

func TestTextArrayOutOfRangeIsNotOK(t *testing.T) {
	var vec paramset.Vector
	_, ok := vec.TextArray(0)
	require.False(t, ok)
}

func TestParseArrayLiteral(t *testing.T) {
	elements, ok := paramset.ParseArrayLiteral("{1,2,3}")
	require.True(t, ok)
	require.Equal(t, []string{"1", "2", "3"}, elements)
}

func TestParseArrayLiteralMalformed(t *testing.T) {
	_, ok := paramset.ParseArrayLiteral("not-an-array")
	require.False(t, ok)
}

func TestParseArrayLiteralQuotedElements(t *testing.T) {
	elements, ok := paramset.ParseArrayLiteral(`{"acme","globex"}`)
	require.True(t, ok)
	require.Equal(t, []string{"acme", "globex"}, elements)
}
