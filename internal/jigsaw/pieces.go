package jigsaw

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

type Placement int

const (
	PlacedNone Placement = iota
	PlacedCorrect
	PlacedHint
)

var placementNames = map[Placement]string{
	PlacedNone:    "none",
	PlacedCorrect: "correct",
	PlacedHint:    "hint",
}

func (p Placement) String() string {
	if s, ok := placementNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

func (p Placement) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Placement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, v := range placementNames {
		if v == s {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown placement %q", s)
}

type Piece struct {
	ID       int       `json:"id"`
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	IsPlaced bool      `json:"is_placed"`
	PlacedBy Placement `json:"placed_by"`
}

func (p Piece) Coordinate() GridCoordinate {
	return GridCoordinate{Row: p.Row, Col: p.Col}
}

func validGridSize(gridSize int) bool {
	return gridSize >= 2
}

// GeneratePieces cuts a totalWidth x totalHeight area into gridSize^2
// equal pieces in row-major order. Calling it twice with the same input
// yields identical pieces.
func GeneratePieces(gridSize int, totalWidth, totalHeight float64) ([]Piece, error) {
	if !validGridSize(gridSize) {
		return nil, fmt.Errorf("%w: grid size %d, need at least 2", ErrInvalidConfiguration, gridSize)
	}
	if !validDimension(totalWidth) || !validDimension(totalHeight) {
		return nil, fmt.Errorf("%w: puzzle size %vx%v", ErrInvalidConfiguration, totalWidth, totalHeight)
	}

	width := totalWidth / float64(gridSize)
	height := totalHeight / float64(gridSize)
	pieces := make([]Piece, 0, gridSize*gridSize)
	for row := range gridSize {
		for col := range gridSize {
			pieces = append(pieces, Piece{
				ID:     row*gridSize + col,
				Row:    row,
				Col:    col,
				X:      float64(col) * width,
				Y:      float64(row) * height,
				Width:  width,
				Height: height,
			})
		}
	}
	return pieces, nil
}

func Unplaced(pieces []Piece) []Piece {
	return lo.Filter(pieces, func(p Piece, _ int) bool {
		return !p.IsPlaced
	})
}

func PlacedCount(pieces []Piece) int {
	return lo.CountBy(pieces, func(p Piece) bool {
		return p.IsPlaced
	})
}

// IsComplete reports whether every piece has been placed. An empty set is
// never complete.
func IsComplete(pieces []Piece) bool {
	return len(pieces) > 0 && lo.EveryBy(pieces, func(p Piece) bool {
		return p.IsPlaced
	})
}

// Progress is the placed share of the puzzle in percent.
func Progress(pieces []Piece) float64 {
	if len(pieces) == 0 {
		return 0
	}
	return float64(PlacedCount(pieces)) / float64(len(pieces)) * 100
}
