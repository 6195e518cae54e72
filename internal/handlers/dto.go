package handlers

import (
	"github.com/gorilla/schema"

	"github.com/vancomm/jigsaw-server/internal/jigsaw"
	"github.com/vancomm/jigsaw-server/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decode[T any](src map[string][]string) (T, error) {
	var dto T
	err := decoder.Decode(&dto, src)
	return dto, err
}

// CreateSessionDTO carries the natural image size; the server fits it into
// the configured puzzle area unless max_width/max_height narrow it further.
type CreateSessionDTO struct {
	Difficulty  string  `schema:"difficulty,required"`
	ImageRef    string  `schema:"image_ref"`
	ImageWidth  float64 `schema:"image_width"`
	ImageHeight float64 `schema:"image_height"`
	MaxWidth    float64 `schema:"max_width"`
	MaxHeight   float64 `schema:"max_height"`
}

type PieceDTO struct {
	Piece int `schema:"piece,required"`
}

type OutlineQueryDTO struct {
	GridSize int     `schema:"grid_size,required"`
	Row      int     `schema:"row,required"`
	Col      int     `schema:"col,required"`
	Width    float64 `schema:"width,required"`
	Height   float64 `schema:"height,required"`
}

type SessionDTO struct {
	SessionID string `json:"session_id"`
	ImageRef  string `json:"image_ref"`
	CreatedAt int64  `json:"created_at"`
	jigsaw.Snapshot
}

func NewSessionDTO(s *session.Session, snap jigsaw.Snapshot) SessionDTO {
	return SessionDTO{
		SessionID: s.ID,
		ImageRef:  s.ImageRef,
		CreatedAt: s.CreatedAt.UnixMilli(),
		Snapshot:  snap,
	}
}

type CreatedSessionDTO struct {
	Token string `json:"token"`
	SessionDTO
}

type BoundsDTO struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// OutlineDTO describes one piece clip path. The path is drawn inside a box
// of BoxWidth x BoxHeight with the piece rectangle inset by Padding.
type OutlineDTO struct {
	ID        int                `json:"id"`
	Row       int                `json:"row"`
	Col       int                `json:"col"`
	Pattern   jigsaw.EdgePattern `json:"pattern"`
	Padding   float64            `json:"padding"`
	BoxWidth  float64            `json:"box_width"`
	BoxHeight float64            `json:"box_height"`
	Path      string             `json:"path"`
	Bounds    BoundsDTO          `json:"bounds"`
}

func NewOutlineDTO(id, row, col int, width, height float64, pattern jigsaw.EdgePattern) (OutlineDTO, error) {
	pad := jigsaw.OutlinePadding(width, height)
	o, err := jigsaw.BuildOutline(width, height, pattern, pad, pad)
	if err != nil {
		return OutlineDTO{}, err
	}
	b := o.Bounds()
	return OutlineDTO{
		ID:        id,
		Row:       row,
		Col:       col,
		Pattern:   pattern,
		Padding:   pad,
		BoxWidth:  width + 2*pad,
		BoxHeight: height + 2*pad,
		Path:      o.SVG(),
		Bounds: BoundsDTO{
			MinX: b.Min.X,
			MinY: b.Min.Y,
			MaxX: b.Max.X,
			MaxY: b.Max.Y,
		},
	}, nil
}
