package jigsaw

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrUnknownDifficulty    = fmt.Errorf("%w: unknown difficulty", ErrInvalidConfiguration)
)
