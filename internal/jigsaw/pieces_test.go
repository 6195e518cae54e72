package jigsaw

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePieces(t *testing.T) {
	tests := []struct {
		name          string
		gridSize      int
		width, height float64
	}{
		{"easy", 3, 300, 400},
		{"medium", 4, 343, 257.25},
		{"hard", 5, 1000, 1000},
		{"large", 8, 64, 48},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n := test.gridSize
			pieces, err := GeneratePieces(n, test.width, test.height)
			require.NoError(t, err)
			require.Len(t, pieces, n*n)

			pw, ph := test.width/float64(n), test.height/float64(n)
			var area float64
			for i, p := range pieces {
				require.Equal(t, i, p.ID)
				require.Equal(t, p.Row*n+p.Col, p.ID)
				require.Equal(t, pw, p.Width)
				require.Equal(t, ph, p.Height)
				require.InDelta(t, float64(p.Col)*pw, p.X, 1e-9)
				require.InDelta(t, float64(p.Row)*ph, p.Y, 1e-9)
				require.False(t, p.IsPlaced)
				require.Equal(t, PlacedNone, p.PlacedBy)
				area += p.Width * p.Height
			}
			require.InDelta(t, test.width*test.height, area, 1e-6)

			// tiling: each piece starts where its left and upper neighbours end
			for _, p := range pieces {
				if p.Col > 0 {
					left := pieces[p.ID-1]
					require.InDelta(t, left.X+left.Width, p.X, 1e-9)
				}
				if p.Row > 0 {
					up := pieces[p.ID-n]
					require.InDelta(t, up.Y+up.Height, p.Y, 1e-9)
				}
				if p.Col == n-1 {
					require.InDelta(t, test.width, p.X+p.Width, 1e-9)
				}
				if p.Row == n-1 {
					require.InDelta(t, test.height, p.Y+p.Height, 1e-9)
				}
			}
		})
	}
}

func TestGeneratePiecesIdempotent(t *testing.T) {
	a, err := GeneratePieces(4, 320, 240)
	require.NoError(t, err)
	b, err := GeneratePieces(4, 320, 240)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGeneratePiecesInvalid(t *testing.T) {
	cases := []struct {
		n    int
		w, h float64
	}{
		{1, 100, 100},
		{0, 100, 100},
		{-3, 100, 100},
		{3, 0, 100},
		{3, 100, -5},
		{3, math.Inf(1), 100},
		{3, 100, math.NaN()},
	}
	for _, c := range cases {
		_, err := GeneratePieces(c.n, c.w, c.h)
		require.ErrorIs(t, err, ErrInvalidConfiguration, "%+v", c)
	}
}

func TestPieceHelpers(t *testing.T) {
	pieces, err := GeneratePieces(2, 10, 10)
	require.NoError(t, err)
	require.False(t, IsComplete(pieces))
	require.False(t, IsComplete(nil))
	require.Zero(t, Progress(nil))

	pieces[1].IsPlaced = true
	pieces[3].IsPlaced = true
	require.Equal(t, 2, PlacedCount(pieces))
	require.Equal(t, 50.0, Progress(pieces))
	require.Equal(t, []int{0, 2}, ids(Unplaced(pieces)))

	pieces[0].IsPlaced = true
	pieces[2].IsPlaced = true
	require.True(t, IsComplete(pieces))
}

func TestPlacementJSON(t *testing.T) {
	b, err := json.Marshal(Piece{ID: 4, PlacedBy: PlacedHint, IsPlaced: true})
	require.NoError(t, err)
	require.Contains(t, string(b), `"placed_by":"hint"`)

	var p Piece
	require.NoError(t, json.Unmarshal(b, &p))
	require.Equal(t, PlacedHint, p.PlacedBy)

	var bad Placement
	require.Error(t, json.Unmarshal([]byte(`"sideways"`), &bad))
}

func ids(pieces []Piece) []int {
	out := make([]int, len(pieces))
	for i, p := range pieces {
		out[i] = p.ID
	}
	return out
}
