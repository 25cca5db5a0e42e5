package timeindex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
	"github.com/oceanridge/coverage-engine/internal/coverage/timeindex"
)

type fakeDescriptor struct {
	id string
	tr *model.TimeRange
}

func (f fakeDescriptor) ID() string                            { return f.id }
func (f fakeDescriptor) TimeRange() (model.TimeRange, bool)     { return derefTR(f.tr) }
func (f fakeDescriptor) CenterTime() time.Time                  { return model.DeriveCenterTime(f.tr) }
func (f fakeDescriptor) Envelope() model.Envelope               { return model.Envelope{} }
func (f fakeDescriptor) GeographicArea() model.Rectangle        { return model.Rectangle{} }
func (f fakeDescriptor) GridGeometry() model.GridGeometry       { return model.GridGeometry{} }
func (f fakeDescriptor) SampleBands() []model.Band              { return nil }
func (f fakeDescriptor) CoordinateSystem() model.CS             { return model.CS{} }

func derefTR(tr *model.TimeRange) (model.TimeRange, bool) {
	if tr == nil {
		return model.TimeRange{}, false
	}
	return *tr, true
}

func at(ms int64) time.Time { return time.UnixMilli(ms) }

func ranged(startMs, endMs int64) *model.TimeRange {
	return &model.TimeRange{Start: at(startMs), End: at(endMs)}
}

func TestIndex_ExactAndInsertion(t *testing.T) {
	descs := []model.Descriptor{
		fakeDescriptor{id: "a", tr: ranged(0, 100)},
		fakeDescriptor{id: "b", tr: ranged(100, 200)},
		fakeDescriptor{id: "c", tr: ranged(200, 300)},
	}
	ix := timeindex.New(descs)
	require.Equal(t, 3, ix.Len())
	require.Equal(t, 0, ix.FirstRealIndex())

	res := ix.Search(at(150))
	assert.Equal(t, timeindex.Exact, res.Kind)
	assert.Equal(t, "b", ix.Descriptor(res.Index).ID())

	res = ix.Search(at(175))
	assert.Equal(t, timeindex.Insertion, res.Kind)
	assert.Equal(t, 2, res.Index)

	res = ix.Search(at(-50))
	assert.Equal(t, timeindex.Insertion, res.Kind)
	assert.Equal(t, 0, res.Index)

	res = ix.Search(at(5000))
	assert.Equal(t, timeindex.Insertion, res.Kind)
	assert.Equal(t, 3, res.Index)
}

func TestIndex_TimelessSortsToFront(t *testing.T) {
	descs := []model.Descriptor{
		fakeDescriptor{id: "timeless", tr: nil},
		fakeDescriptor{id: "real", tr: ranged(100, 200)},
	}
	ix := timeindex.New(descs)
	require.Equal(t, 1, ix.FirstRealIndex())
	assert.Equal(t, "timeless", ix.Descriptor(0).ID())

	res := ix.Search(at(50))
	assert.Equal(t, timeindex.Insertion, res.Kind)
	assert.Equal(t, 1, res.Index)
}

func TestIndex_AllTimeless(t *testing.T) {
	descs := []model.Descriptor{
		fakeDescriptor{id: "t1", tr: nil},
		fakeDescriptor{id: "t2", tr: nil},
	}
	ix := timeindex.New(descs)
	require.Equal(t, 2, ix.FirstRealIndex())
	res := ix.Search(at(50))
	assert.Equal(t, timeindex.Insertion, res.Kind)
	assert.Equal(t, 2, res.Index)

	_, _, ok := ix.NearestReal(at(50))
	assert.False(t, ok)
}

func TestIndex_NearestReal_TieBreaksLater(t *testing.T) {
	descs := []model.Descriptor{
		fakeDescriptor{id: "lo", tr: ranged(0, 100)},
		fakeDescriptor{id: "hi", tr: ranged(200, 300)},
	}
	ix := timeindex.New(descs)
	// center times are 50 and 250; instant 150 is equidistant.
	idx, _, ok := ix.NearestReal(at(150))
	require.True(t, ok)
	assert.Equal(t, "hi", ix.Descriptor(idx).ID())
}
