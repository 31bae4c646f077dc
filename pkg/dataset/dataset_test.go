package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rec is a minimal keyed record used across the package tests.
type rec struct {
	ID    string
	Label string
	Tags  map[string]string
}

func (r rec) Key() string { return r.ID }

func (r rec) Clone() rec {
	c := r
	if r.Tags != nil {
		c.Tags = make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			c.Tags[k] = v
		}
	}
	return c
}

func TestDataSet_AddRejectsDuplicates(t *testing.T) {
	ds, err := New(rec{ID: "1"})
	require.NoError(t, err)

	err = ds.Add(rec{ID: "2"}, rec{ID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, []string{"1"}, ds.Keys(), "failed add must not insert anything")

	err = ds.Add(rec{ID: "3"}, rec{ID: "3"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, ds.Len())
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New(rec{ID: "a"}, rec{ID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDataSet_UpdateUpserts(t *testing.T) {
	ds, err := New(rec{ID: "1", Label: "A"})
	require.NoError(t, err)

	var got []Change[rec]
	ds.On(func(c Change[rec]) { got = append(got, c) })

	ds.Update(rec{ID: "1", Label: "B"}, rec{ID: "2", Label: "C"})

	assert.Equal(t, []rec{{ID: "1", Label: "B"}, {ID: "2", Label: "C"}}, ds.Get())
	require.Len(t, got, 1)
	assert.Equal(t, OpUpdate, got[0].Op)
	assert.Equal(t, []string{"1", "2"}, got[0].Keys)
	assert.Equal(t, []rec{{ID: "1", Label: "A"}, {}}, got[0].Old)
}

func TestDataSet_RemoveKeepsOrder(t *testing.T) {
	ds, err := New(rec{ID: "a"}, rec{ID: "b"}, rec{ID: "c"}, rec{ID: "d"})
	require.NoError(t, err)

	var changes int
	ds.On(func(Change[rec]) { changes++ })

	removed := ds.Remove("c", "missing", "a", "c")
	assert.Equal(t, []string{"c", "a"}, removed)
	assert.Equal(t, []string{"b", "d"}, ds.Keys())
	assert.Equal(t, 1, changes)

	assert.Nil(t, ds.Remove("missing"))
	assert.Equal(t, 1, changes, "removing nothing emits nothing")
}

func TestDataSet_Off(t *testing.T) {
	ds, err := New[rec]()
	require.NoError(t, err)

	calls := 0
	id := ds.On(func(Change[rec]) { calls++ })
	require.NoError(t, ds.Add(rec{ID: "x"}))
	ds.Off(id)
	require.NoError(t, ds.Add(rec{ID: "y"}))

	assert.Equal(t, 1, calls)
}

func TestDataSet_NewCopiesItems(t *testing.T) {
	in := rec{ID: "1", Tags: map[string]string{"k": "v"}}
	ds, err := New(in)
	require.NoError(t, err)

	in.Tags["k"] = "changed"
	got, ok := ds.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "v", got.Tags["k"])
}
