package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesMapOrder(t *testing.T) {
	v, err := Parse([]byte("c: 1\na: 2\nb: 3\n"))
	require.NoError(t, err)

	m, ok := v.Map()
	require.True(t, ok)
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
}

func TestParseScalarKinds(t *testing.T) {
	v, err := Parse([]byte("a: true\nb: 12\nc: 1.5\nd: hello\ne: null\n"))
	require.NoError(t, err)

	m, _ := v.Map()

	bv, _ := m.Get("a")
	assert.Equal(t, BoolKind, bv.Kind())
	b, ok := bv.Bool()
	assert.True(t, ok)
	assert.True(t, b)

	iv, _ := m.Get("b")
	assert.Equal(t, IntKind, iv.Kind())
	i, _ := iv.Int()
	assert.Equal(t, int64(12), i)

	fv, _ := m.Get("c")
	assert.Equal(t, FloatKind, fv.Kind())

	sv, _ := m.Get("d")
	assert.Equal(t, StringKind, sv.Kind())
	s, _ := sv.String()
	assert.Equal(t, "hello", s)

	nv, _ := m.Get("e")
	assert.True(t, nv.IsNull())
}

func TestIsRemoveAndRemoveFromListPayload(t *testing.T) {
	assert.True(t, IsRemove(String(Remove)))
	assert.False(t, IsRemove(String("$remove::x")))
	assert.False(t, IsRemove(Int(1)))

	payload, ok := RemoveFromListPayload(String("$remove::y"))
	assert.True(t, ok)
	assert.Equal(t, "y", payload)

	_, ok = RemoveFromListPayload(String("y"))
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	a := Seq([]Value{Int(1), String("x")})
	b := Seq([]Value{Int(1), String("x")})
	c := Seq([]Value{Int(1), String("y")})

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))

	m1 := NewMap()
	m1.Set("k", Bool(true))
	m2 := NewMap()
	m2.Set("k", Bool(true))
	assert.True(t, Equal(FromMap(m1), FromMap(m2)))
}

func TestToPlainRoundTripsContainers(t *testing.T) {
	m := NewMap()
	m.Set("list", Seq([]Value{Int(1), Int(2)}))
	m.Set("str", String("hi"))

	plain := ToPlain(FromMap(m), func(Doc) string { return "" })
	out, ok := plain.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi", out["str"])
	assert.Equal(t, []any{int64(1), int64(2)}, out["list"])
}

func TestToYAMLNodeThenFromYAMLNode(t *testing.T) {
	v, err := Parse([]byte("a: 1\nb: [x, y]\n"))
	require.NoError(t, err)

	node := ToYAMLNode(v)
	back, err := FromYAMLNode(node)
	require.NoError(t, err)

	assert.True(t, Equal(v, back))
}

func TestCopyMapIsIndependent(t *testing.T) {
	m := NewMap()
	m.Set("a", Int(1))

	cp := CopyMap(m)
	cp.Set("b", Int(2))

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, cp.Len())
}
