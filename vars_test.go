package configcrunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessVarsForRendersAgainstOwnBody(t *testing.T) {
	body, err := FromDict(mapValueOf("str_field", "hello"), "base")
	require.NoError(t, err)

	out, err := body.ProcessVarsFor("{{ .str_field }} {{ simple_helper }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello simple", out)
}

func TestProcessVarsForWithExtraHelper(t *testing.T) {
	body, err := FromDict(mapValueOf("str_field", "x"), "base")
	require.NoError(t, err)

	out, err := body.ProcessVarsFor("{{ shout }}", map[string]any{
		"shout": func() string { return "LOUD" },
	})
	require.NoError(t, err)
	assert.Equal(t, "LOUD", out)
}

func TestProcessVarsNumericLiteralConvergesOnFirstPass(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "42"), "base")
	require.NoError(t, err)

	_, err = doc.ProcessVars()
	require.NoError(t, err)
}

func TestProcessVarsExceedingIterationBoundFails(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "{{ .str_field }}x"), "base", WithMaxVariableIterations(3))
	require.NoError(t, err)

	_, err = doc.ProcessVars()
	require.Error(t, err)
	var verr *VariableProcessingError
	require.ErrorAs(t, err, &verr)
}

func TestParentHelperFallsBackToSelfAtRoot(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "top", "more", "{{ parent.str_field }}"), "base")
	require.NoError(t, err)

	_, err = doc.ProcessVars()
	require.NoError(t, err)

	more, _ := doc.body.Get("more")
	s, _ := more.String()
	assert.Equal(t, "top", s)
}
