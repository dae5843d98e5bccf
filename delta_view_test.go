package sharingmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sharingmap "github.com/lleo/sharingmap"
)

func byKey(entries []sharingmap.DeltaEntry[string, int]) map[string]sharingmap.DeltaEntry[string, int] {
	m := make(map[string]sharingmap.DeltaEntry[string, int], len(entries))
	for _, e := range entries {
		m[e.Key] = e
	}
	return m
}

func TestDeltaViewOfIdenticalClonesIsEmpty(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e", "f"} {
		base.Insert(k, i)
	}

	clone := base.Clone()
	require.Empty(t, base.DeltaView(clone, false))
	require.Empty(t, clone.DeltaView(base, false))
}

func TestDeltaViewOfEmptyMaps(t *testing.T) {
	a := sharingmap.New[string, int]()
	b := sharingmap.New[string, int]()
	require.Empty(t, a.DeltaView(b, false))

	b.Insert("x", 1)
	require.Empty(t, a.DeltaView(b, false), "an empty receiver never reports keys that only exist in other")
}

func TestDeltaViewReportsOnlyInReceiverKey(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		base.Insert(k, i)
	}

	other := base.Clone()
	base.Insert("new-in-a", 99)

	delta := base.DeltaView(other, false)
	got := byKey(delta)

	require.Contains(t, got, "new-in-a")
	require.False(t, got["new-in-a"].InBothMaps())
	require.Equal(t, 99, got["new-in-a"].Value)
}

func TestDeltaViewOnlyCommonExcludesReceiverOnlyKeys(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		base.Insert(k, i)
	}

	other := base.Clone()
	base.Insert("new-in-a", 99)

	delta := base.DeltaView(other, true)
	got := byKey(delta)
	require.NotContains(t, got, "new-in-a")
}

func TestDeltaViewNeverReportsOtherOnlyKeys(t *testing.T) {
	base := sharingmap.New[string, int]()
	base.Insert("a", 1)

	other := base.Clone()
	other.Insert("only-in-other", 2)

	delta := base.DeltaView(other, false)
	require.Empty(t, delta)
}

func TestDeltaViewReportsChangedValue(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d"} {
		base.Insert(k, i)
	}

	other := base.Clone()
	base.Replace("b", 1000)

	delta := base.DeltaView(other, false)
	got := byKey(delta)

	require.Contains(t, got, "b")
	require.True(t, got["b"].InBothMaps())
	require.Equal(t, 1000, got["b"].Value)
	require.Equal(t, 1, *got["b"].OtherValue)

	require.NotContains(t, got, "a")
	require.NotContains(t, got, "c")
	require.NotContains(t, got, "d")
}

func TestDeltaViewOmitsKeyErasedFromReceiver(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d"} {
		base.Insert(k, i)
	}

	other := base.Clone()
	base.Erase("c")

	delta := base.DeltaView(other, false)
	got := byKey(delta)
	require.NotContains(t, got, "c", "erasing c from the receiver means c is no longer one of the receiver's keys")
}

func TestDeltaViewIsAsymmetricAcrossErase(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d"} {
		base.Insert(k, i)
	}

	other := base.Clone()
	other.Erase("c")

	delta := base.DeltaView(other, false)
	got := byKey(delta)
	require.Contains(t, got, "c", "c is present in the receiver but not other, so it is reported as receiver-only")
	require.False(t, got["c"].InBothMaps())
}

func TestDeltaViewOnlyTouchesDivergedSubtree(t *testing.T) {
	base := sharingmap.New[int, int]()
	const n = 2000
	for i := 0; i < n; i++ {
		base.Insert(i, i)
	}

	other := base.Clone()
	base.Replace(42, -1)

	delta := base.DeltaView(other, false)
	require.Len(t, delta, 1)
	require.Equal(t, 42, delta[0].Key)
	require.Equal(t, -1, delta[0].Value)
	require.Equal(t, 42, *delta[0].OtherValue)
}
