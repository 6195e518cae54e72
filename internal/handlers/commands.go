package handlers

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/jigsaw-server/internal/jigsaw"
)

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get
	"s": 1, // select slot
	"c": 1, // choose piece
	"h": 0, // hint
	"p": 0, // skip preview
	"r": 0, // restart
	"x": 1, // clear wrong marker
}

func parsePiece(g *jigsaw.Game, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New("argument must be an int")
	}
	if !validPiece(g, id) {
		return 0, errInvalidPiece
	}
	return id, nil
}

func executeCommand(g *jigsaw.Game, c string) error {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}

	switch parts[0] {
	case "g":
		return nil
	case "h":
		g.UseHint()
		return nil
	case "p":
		g.SkipPreview()
		return nil
	case "r":
		return g.Restart()
	}

	id, err := parsePiece(g, parts[1])
	if err != nil {
		return err
	}
	switch parts[0] {
	case "s":
		g.SelectSlot(id)
	case "c":
		g.ChooseChoice(id)
	case "x":
		g.ClearWrongMarker(id)
	}
	return nil
}
