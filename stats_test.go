package sharingmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sharingmap "github.com/lleo/sharingmap"
)

func TestSharingStatsSingleMap(t *testing.T) {
	m := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		m.Insert(k, i)
	}

	stats := sharingmap.GetSharingStats([]*sharingmap.Map[string, int]{m})
	require.Equal(t, 5, stats.NumLeaves)
	require.Equal(t, 5, stats.NumUniqueLeaves, "a single map shares nothing with itself")
	require.Equal(t, stats.NumNodes, stats.NumUniqueNodes)
}

func TestSharingStatsOfUnrelatedEmptyMaps(t *testing.T) {
	a := sharingmap.New[string, int]()
	b := sharingmap.New[string, int]()

	stats := sharingmap.GetSharingStats([]*sharingmap.Map[string, int]{a, b})
	require.Equal(t, 0, stats.NumLeaves)
	require.Equal(t, 0, stats.NumUniqueLeaves)
}

func TestSharingStatsOfIdenticalClonesIsFullyShared(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		base.Insert(k, i)
	}
	clone := base.Clone()

	stats := sharingmap.GetSharingStats([]*sharingmap.Map[string, int]{base, clone})

	require.Equal(t, 2*stats.NumUniqueLeaves, stats.NumLeaves, "a clone with no mutations shares every leaf with its origin")
	require.Equal(t, stats.NumUniqueLeaves, 7)
	require.Equal(t, stats.NumUniqueNodes, stats.NumNodes/2)
}

func TestSharingStatsAfterDivergenceCountsBothSharedAndUnique(t *testing.T) {
	base := sharingmap.New[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		base.Insert(k, i)
	}
	clone := base.Clone()
	clone.Replace("c", 999)
	clone.Insert("new", 1)

	stats := sharingmap.GetSharingStats([]*sharingmap.Map[string, int]{base, clone})

	// total leaves counts every map's leaves including repeats: 5 (base) + 6 (clone).
	require.Equal(t, 11, stats.NumLeaves)
	// unique leaves: a, b, d, e shared (4) + old "c" (base) + new "c" (clone) + "new" (clone) = 7.
	require.Equal(t, 7, stats.NumUniqueLeaves)
}
