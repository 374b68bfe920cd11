package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lderr "github.com/linkden/linkden/internal/errors"
)

func TestBuildIndexQuery_WrapsTextAsPhrase(t *testing.T) {
	expr, err := BuildIndexQuery("react hooks", nil)
	require.NoError(t, err)
	assert.Equal(t, `"react hooks"`, expr)
}

func TestBuildIndexQuery_TrimsWhitespace(t *testing.T) {
	expr, err := BuildIndexQuery("  react  ", nil)
	require.NoError(t, err)
	assert.Equal(t, `"react"`, expr)
}

func TestBuildIndexQuery_EmptyTextIsValidationError(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := BuildIndexQuery(text, nil)
		require.Error(t, err, "text %q", text)
		assert.True(t, lderr.IsValidation(err))
		assert.Equal(t, lderr.ErrCodeQueryEmpty, lderr.GetCode(err))
	}
}

func TestBuildIndexQuery_EscapesQuotes(t *testing.T) {
	// Embedded quotes must not alter query structure
	expr, err := BuildIndexQuery(`say "hello" AND drop`, nil)
	require.NoError(t, err)
	assert.Equal(t, `"say ""hello"" AND drop"`, expr)
}

func TestBuildIndexQuery_TagsOrTogetherAndConjoin(t *testing.T) {
	expr, err := BuildIndexQuery("testing", []string{"go", " tdd ", ""})
	require.NoError(t, err)
	assert.Equal(t, `"testing" AND ("go" OR "tdd")`, expr)
}

func TestBuildIndexQuery_TagQuotesEscaped(t *testing.T) {
	expr, err := BuildIndexQuery("x", []string{`a"b`})
	require.NoError(t, err)
	assert.Equal(t, `"x" AND ("a""b")`, expr)
}

func TestPrefix_AppendsStar(t *testing.T) {
	assert.Equal(t, `"rea"*`, Prefix("rea").String())
	assert.Equal(t, `"a""b"*`, Prefix(`a"b`).String())
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"  ", nil},
		{"go", []string{"go"}},
		{"go, tdd , ,sql", []string{"go", "tdd", "sql"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTags(tt.input), "input %q", tt.input)
	}
}
