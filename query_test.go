package configcrunch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func TestQueryFindsMatchingNodes(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "hello", "int_field", "1"), "base")
	require.NoError(t, err)

	matches, err := doc.Query("$.str_field")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	s, ok := matches[0].String()
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestQueryNoMatchReturnsEmpty(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "hello"), "base")
	require.NoError(t, err)

	matches, err := doc.Query("$.no_such_field")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryRejectsInvalidExpression(t *testing.T) {
	doc, err := FromDict(mapValueOf("str_field", "hello"), "base")
	require.NoError(t, err)

	_, err = doc.Query("$[")
	assert.Error(t, err)
}

// TestFindWithDeadlineTimesOutOnSlowFind proves the 500ms gatekeeper around
// the JSONPath walk actually fires, by substituting a find function that
// blocks well past queryTimeout.
func TestFindWithDeadlineTimesOutOnSlowFind(t *testing.T) {
	start := time.Now()
	_, err := findWithDeadline(func() ([]*yaml.Node, error) {
		time.Sleep(2 * time.Second)
		return nil, nil
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 2*time.Second)
	assert.GreaterOrEqual(t, elapsed, queryTimeout)
}

func TestFindWithDeadlineReturnsFastResult(t *testing.T) {
	want := []*yaml.Node{{Kind: yaml.ScalarNode, Value: "x"}}
	got, err := findWithDeadline(func() ([]*yaml.Node, error) {
		return want, nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
