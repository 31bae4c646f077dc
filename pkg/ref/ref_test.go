package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recera/visgraph/pkg/env"
)

func TestAssign_Shapes(t *testing.T) {
	var fromFunc int
	var fromNamed int
	obj := &Object[int]{}

	assert.NoError(t, Assign(func(v int) { fromFunc = v }, 1))
	assert.NoError(t, Assign(Func[int](func(v int) { fromNamed = v }), 2))
	assert.NoError(t, Assign(obj, 3))
	assert.NoError(t, Assign[int](nil, 4))
	assert.NoError(t, Assign(struct{}{}, 5))

	assert.Equal(t, 1, fromFunc)
	assert.Equal(t, 2, fromNamed)
	assert.Equal(t, 3, obj.Current())
}

func TestAssign_StringRef(t *testing.T) {
	prev := env.Set(env.Development)
	defer env.Set(prev)

	assert.ErrorIs(t, Assign("myRef", 1), ErrStringRef)

	env.Set(env.Production)
	assert.NoError(t, Assign("myRef", 1))
}

func TestChain(t *testing.T) {
	a := &Object[string]{}
	var b string
	Chain[string](a, func(v string) { b = v }).Set("net")

	assert.Equal(t, "net", a.Current())
	assert.Equal(t, "net", b)
}

func TestSame(t *testing.T) {
	f := func(int) {}
	g := func(int) {}
	m := map[string]any{"a": 1}
	obj := &Object[int]{}

	assert.True(t, Same(nil, nil))
	assert.True(t, Same(f, f))
	assert.False(t, Same(f, g))
	assert.True(t, Same(m, m))
	assert.False(t, Same(m, map[string]any{"a": 1}))
	assert.True(t, Same(obj, obj))
	assert.False(t, Same(obj, &Object[int]{}))
	assert.True(t, Same("x", "x"))
	assert.False(t, Same(f, nil))
	assert.False(t, Same(1, "1"))
}
