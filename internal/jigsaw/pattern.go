package jigsaw

// Side is the shape of one piece edge.
type Side int8

const (
	Blank Side = -1 // indents into the piece
	Flat  Side = 0  // grid boundary
	Tab   Side = +1 // protrudes out of the piece
)

func (s Side) String() string {
	switch s {
	case Tab:
		return "tab"
	case Blank:
		return "blank"
	default:
		return "flat"
	}
}

type EdgePattern struct {
	Top    Side `json:"top"`
	Right  Side `json:"right"`
	Bottom Side `json:"bottom"`
	Left   Side `json:"left"`
}

type GridCoordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func parity(n int, even, odd Side) Side {
	if n%2 == 0 {
		return even
	}
	return odd
}

// rightEdge and bottomEdge own the internal edges; the neighbour on the
// other side reads the same value negated, so shared edges always pair a
// tab with a blank.
func rightEdge(row, col, gridSize int) Side {
	if col == gridSize-1 {
		return Flat
	}
	seed := row*gridSize + col
	return parity(seed+col, Tab, Blank)
}

func bottomEdge(row, col, gridSize int) Side {
	if row == gridSize-1 {
		return Flat
	}
	seed := row*gridSize + col
	return parity(seed+row+1, Blank, Tab)
}

// PatternAt returns the edge shapes of the piece at (row, col). It only
// depends on grid coordinates, so any two calls for adjacent pieces agree
// on their shared edge.
func PatternAt(row, col, gridSize int) EdgePattern {
	p := EdgePattern{
		Right:  rightEdge(row, col, gridSize),
		Bottom: bottomEdge(row, col, gridSize),
	}
	if row > 0 {
		p.Top = -bottomEdge(row-1, col, gridSize)
	}
	if col > 0 {
		p.Left = -rightEdge(row, col-1, gridSize)
	}
	return p
}

func (c GridCoordinate) Pattern(gridSize int) EdgePattern {
	return PatternAt(c.Row, c.Col, gridSize)
}
