package jigsaw

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func countID(pieces []Piece, id int) int {
	n := 0
	for _, p := range pieces {
		if p.ID == id {
			n++
		}
	}
	return n
}

func TestBuildChoicesSize(t *testing.T) {
	pieces, err := GeneratePieces(5, 500, 500)
	require.NoError(t, err)
	r := testRand()

	for _, k := range []int{-1, 0, 1, 2, 3, 24, 30} {
		for _, target := range pieces {
			choices := BuildChoices(target, pieces, k, r)
			require.Len(t, choices, 1+min(max(k, 0), len(pieces)-1), "k=%d", k)
			require.Equal(t, 1, countID(choices, target.ID))

			seen := map[int]bool{}
			for _, c := range choices {
				require.False(t, seen[c.ID], "duplicate %d", c.ID)
				seen[c.ID] = true
			}
		}
	}
}

func TestBuildChoicesSkipsPlacedAndTargetDuplicates(t *testing.T) {
	pieces, err := GeneratePieces(3, 90, 90)
	require.NoError(t, err)
	for i := range 6 {
		pieces[i].IsPlaced = true
	}
	r := testRand()
	for range 50 {
		choices := BuildChoices(pieces[7], pieces, 3, r)
		require.Len(t, choices, 3)
		for _, c := range choices {
			require.False(t, c.IsPlaced)
		}
	}
}

func TestBuildChoicesLastPiece(t *testing.T) {
	pieces, err := GeneratePieces(3, 90, 90)
	require.NoError(t, err)
	for i := range 8 {
		pieces[i].IsPlaced = true
	}
	unplaced := Unplaced(pieces)
	require.Equal(t, []int{8}, ids(unplaced))

	choices := BuildChoices(pieces[8], unplaced, 3, testRand())
	require.Equal(t, []Piece{pieces[8]}, choices)
}

func TestBuildChoicesDeterministicWithSeed(t *testing.T) {
	pieces, err := GeneratePieces(4, 100, 100)
	require.NoError(t, err)

	a := BuildChoices(pieces[5], pieces, 3, rand.New(rand.NewPCG(7, 7)))
	b := BuildChoices(pieces[5], pieces, 3, rand.New(rand.NewPCG(7, 7)))
	require.Equal(t, a, b)

	// the same draw in a different order is still the same set
	sortedA := slices.Sorted(slices.Values(ids(a)))
	sortedB := slices.Sorted(slices.Values(ids(b)))
	require.Equal(t, sortedA, sortedB)
}

func TestBuildChoicesShuffleCoversPositions(t *testing.T) {
	pieces, err := GeneratePieces(4, 100, 100)
	require.NoError(t, err)
	r := testRand()
	positions := map[int]int{}
	for range 400 {
		choices := BuildChoices(pieces[0], pieces, 3, r)
		positions[slices.IndexFunc(choices, func(p Piece) bool { return p.ID == 0 })]++
	}
	for pos := range 4 {
		require.Greater(t, positions[pos], 50, "target never lands at %d often enough", pos)
	}
}

func TestBuildChoicesDoesNotMutateInput(t *testing.T) {
	pieces, err := GeneratePieces(3, 90, 90)
	require.NoError(t, err)
	before := slices.Clone(pieces)
	BuildChoices(pieces[4], pieces, 3, testRand())
	require.Equal(t, before, pieces)
}
