package dataset

import (
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordChanges(ds *DataSet[rec]) *[]Change[rec] {
	var got []Change[rec]
	ds.On(func(c Change[rec]) { got = append(got, c) })
	return &got
}

func TestSyncer_AppliesRemoveAddUpdate(t *testing.T) {
	s, err := NewSyncer([]rec{{ID: "1"}, {ID: "2", Label: "x"}, {ID: "3"}})
	require.NoError(t, err)
	changes := recordChanges(s.DataSet())

	d, err := s.Sync([]rec{{ID: "2", Label: "y"}, {ID: "3"}, {ID: "4"}})
	require.NoError(t, err)

	assert.Equal(t, []rec{{ID: "1"}}, d.Removed)
	assert.Equal(t, []rec{{ID: "4"}}, d.Added)
	assert.Equal(t, []rec{{ID: "2", Label: "y"}}, d.Updated)
	assert.Equal(t, []rec{{ID: "3"}}, d.Unchanged)

	require.Len(t, *changes, 3)
	assert.Equal(t, OpRemove, (*changes)[0].Op)
	assert.Equal(t, OpAdd, (*changes)[1].Op)
	assert.Equal(t, OpUpdate, (*changes)[2].Op)
	for _, c := range *changes {
		assert.NotContains(t, c.Keys, "3", "unchanged records must not be touched")
	}
}

func TestSyncer_ShortCircuitsOnEqualInput(t *testing.T) {
	initial := []rec{{ID: "1", Label: "A"}}
	s, err := NewSyncer(initial)
	require.NoError(t, err)
	changes := recordChanges(s.DataSet())

	d, err := s.Sync([]rec{{ID: "1", Label: "A"}})
	require.NoError(t, err)
	assert.True(t, d.Empty())
	assert.Empty(t, *changes)
}

func TestSyncer_CopiesInboundRecords(t *testing.T) {
	s, err := NewSyncer[rec](nil)
	require.NoError(t, err)

	next := []rec{{ID: "1", Tags: map[string]string{"color": "red"}}}
	_, err = s.Sync(next)
	require.NoError(t, err)

	next[0].Tags["color"] = "blue"
	got, _ := s.DataSet().Lookup("1")
	assert.Equal(t, "red", got.Tags["color"])
}

func TestSyncer_DuplicateKeysFail(t *testing.T) {
	s, err := NewSyncer[rec](nil)
	require.NoError(t, err)

	_, err = s.Sync([]rec{{ID: "1"}, {ID: "1", Label: "again"}})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestSyncer_DuplicateKeysLeaveDatasetUntouched(t *testing.T) {
	s, err := NewSyncer([]rec{{ID: "1"}})
	require.NoError(t, err)
	changes := recordChanges(s.DataSet())

	_, err = s.Sync([]rec{{ID: "2"}, {ID: "2", Label: "dup"}})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Empty(t, *changes)
	assert.Equal(t, []string{"1"}, s.DataSet().Keys())

	_, err = s.Sync([]rec{{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, s.DataSet().Keys())
}

func TestSyncer_RecoversAfterFailedPass(t *testing.T) {
	s, err := NewSyncer([]rec{{ID: "1"}})
	require.NoError(t, err)

	// A listener inserting "3" on removal makes the add of "3" collide.
	ds := s.DataSet()
	id := ds.On(func(c Change[rec]) {
		if c.Op == OpRemove {
			_ = ds.Add(rec{ID: "3", Label: "foreign"})
		}
	})
	_, err = s.Sync([]rec{{ID: "3"}})
	require.ErrorIs(t, err, ErrDuplicateID)
	ds.Off(id)
	assert.Equal(t, []string{"3"}, ds.Keys())

	_, err = s.Sync([]rec{{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ds.Keys())
}

func byKey(items []rec) []rec {
	out := append([]rec(nil), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func TestSyncer_Converges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	slots := gen.SliceOfN(8, gen.IntRange(-1, 2))

	properties.Property("live contents equal the declared sequence after sync", prop.ForAll(
		func(a, b []int) bool {
			s, err := NewSyncer(records(a))
			if err != nil {
				return false
			}
			to := records(b)
			if _, err := s.Sync(to); err != nil {
				return false
			}
			return reflect.DeepEqual(byKey(s.DataSet().Get()), byKey(to))
		},
		slots, slots,
	))

	properties.TestingRun(t)
}
