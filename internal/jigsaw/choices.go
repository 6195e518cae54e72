package jigsaw

import (
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

// shuffle is an unbiased in-place Fisher-Yates shuffle driven by rnd.
func shuffle(rnd *rand.Rand, pieces []Piece) {
	rnd.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})
}

// BuildChoices offers the target piece together with up to wrongCount
// distractors drawn from the unplaced pool, in random order. The result
// always holds exactly one piece with the target's id; when the pool has
// nothing else left it is just the target.
func BuildChoices(target Piece, unplaced []Piece, wrongCount int, rnd *rand.Rand) []Piece {
	pool := lo.Filter(unplaced, func(p Piece, _ int) bool {
		return p.ID != target.ID && !p.IsPlaced
	})
	shuffle(rnd, pool)

	n := min(max(wrongCount, 0), len(pool))
	choices := make([]Piece, 0, n+1)
	choices = append(choices, target)
	choices = append(choices, pool[:n]...)
	shuffle(rnd, choices)
	return slices.Clip(choices)
}
