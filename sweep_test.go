package configcrunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configcrunch/configcrunch/value"
)

func TestSweepDropsRemoveScalarEntries(t *testing.T) {
	m := value.NewMap()
	m.Set("a", value.String("keep"))
	m.Set("b", value.String(value.Remove))

	swept, err := sweepRemoveMarkers(value.FromMap(m), "test")
	require.NoError(t, err)

	out, _ := swept.Map()
	_, hasB := out.Get("b")
	assert.False(t, hasB)
	a, _ := out.Get("a")
	s, _ := a.String()
	assert.Equal(t, "keep", s)
}

func TestSweepDropsRemoveListMarkers(t *testing.T) {
	v := value.Seq([]value.Value{value.String("x"), value.String("$remove::y")})

	swept, err := sweepRemoveMarkers(v, "test")
	require.NoError(t, err)

	seq, _ := swept.Seq()
	require.Len(t, seq, 1)
	s, _ := seq[0].String()
	assert.Equal(t, "x", s)
}

func TestSweepRejectsBareRemoveAsScalarValue(t *testing.T) {
	m := value.NewMap()
	m.Set("a", value.Seq([]value.Value{value.String(value.Remove)}))

	_, err := sweepRemoveMarkers(value.FromMap(m), "test")
	require.Error(t, err)
	var rerr *InvalidRemoveError
	require.ErrorAs(t, err, &rerr)
}
