package jigsaw

import (
	"fmt"

	"github.com/samber/lo"
)

type Difficulty struct {
	Key              string `json:"key"`
	GridSize         int    `json:"grid_size"`
	Label            string `json:"label"`
	WrongChoiceCount int    `json:"wrong_choices"`
	HintBudget       int    `json:"hint_pieces"`
}

const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

var difficultyOrder = []string{Easy, Medium, Hard}

var difficulties = map[string]Difficulty{
	Easy:   {Key: Easy, GridSize: 3, Label: "Easy (3x3)", WrongChoiceCount: 1, HintBudget: 0},
	Medium: {Key: Medium, GridSize: 4, Label: "Medium (4x4)", WrongChoiceCount: 2, HintBudget: 2},
	Hard:   {Key: Hard, GridSize: 5, Label: "Hard (5x5)", WrongChoiceCount: 3, HintBudget: 3},
}

func LookupDifficulty(key string) (Difficulty, error) {
	d, ok := difficulties[key]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w %q", ErrUnknownDifficulty, key)
	}
	return d, nil
}

// Difficulties lists the presets from easiest to hardest.
func Difficulties() []Difficulty {
	return lo.Map(difficultyOrder, func(key string, _ int) Difficulty {
		return difficulties[key]
	})
}
