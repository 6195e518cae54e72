package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/jigsaw-server/internal/config"
	"github.com/vancomm/jigsaw-server/internal/jigsaw"
	"github.com/vancomm/jigsaw-server/internal/session"
)

var errInvalidPiece = errors.New("invalid piece id")

type SessionHandler struct {
	log    logrus.FieldLogger
	store  *session.Store
	tokens *config.JWT
	ws     *config.WebSocket
	game   *config.Game
}

func NewSessionHandler(
	log logrus.FieldLogger,
	store *session.Store,
	tokens *config.JWT,
	ws *config.WebSocket,
	game *config.Game,
) *SessionHandler {
	return &SessionHandler{
		log:    log,
		store:  store,
		tokens: tokens,
		ws:     ws,
		game:   game,
	}
}

func (h SessionHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.log, jigsaw.Difficulties())
}

func (h SessionHandler) puzzleSize(dto CreateSessionDTO) (float64, float64) {
	maxW, maxH := h.game.MaxWidth, h.game.MaxHeight
	if dto.MaxWidth > 0 {
		maxW = min(maxW, dto.MaxWidth)
	}
	if dto.MaxHeight > 0 {
		maxH = min(maxH, dto.MaxHeight)
	}
	return jigsaw.FitPuzzle(dto.ImageWidth, dto.ImageHeight, maxW, maxH)
}

func (h SessionHandler) New(w http.ResponseWriter, r *http.Request) {
	dto, err := decode[CreateSessionDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	width, height := h.puzzleSize(dto)
	s, err := h.store.Create(dto.Difficulty, dto.ImageRef, width, height)
	if errors.Is(err, jigsaw.ErrInvalidConfiguration) {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to create session")
		return
	}

	token, err := h.tokens.Sign(s.ID)
	if err != nil {
		_ = h.store.Delete(s.ID)
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to sign session token")
		return
	}

	sendJSONOrLog(w, h.log, CreatedSessionDTO{
		Token:      token,
		SessionDTO: NewSessionDTO(s, s.Snapshot()),
	})
}

func (h SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, h.log, http.StatusNotFound, err)
		return nil, false
	}
	return s, true
}

func (h SessionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.log, NewSessionDTO(s, s.Snapshot()))
}

func (h SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.PathValue("id")); err != nil {
		sendError(w, h.log, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// act runs fn against the session's game and responds with the result.
// fn may reject the request with an error, which is sent as 400.
func (h SessionHandler) act(w http.ResponseWriter, r *http.Request, fn func(g *jigsaw.Game) error) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var err error
	snap, doErr := s.Do(func(g *jigsaw.Game) { err = fn(g) })
	if doErr != nil {
		sendError(w, h.log, http.StatusNotFound, doErr)
		return
	}
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	sendJSONOrLog(w, h.log, NewSessionDTO(s, snap))
}

func validPiece(g *jigsaw.Game, id int) bool {
	n := g.Difficulty().GridSize
	return id >= 0 && id < n*n
}

// withPiece decodes the piece query parameter and hands it to fn.
func (h SessionHandler) withPiece(fn func(g *jigsaw.Game, id int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := decode[PieceDTO](r.URL.Query())
		if err != nil {
			sendError(w, h.log, http.StatusBadRequest, err)
			return
		}
		h.act(w, r, func(g *jigsaw.Game) error {
			if !validPiece(g, dto.Piece) {
				return errInvalidPiece
			}
			fn(g, dto.Piece)
			return nil
		})
	}
}

func (h SessionHandler) Select() http.HandlerFunc {
	return h.withPiece((*jigsaw.Game).SelectSlot)
}

func (h SessionHandler) Choose() http.HandlerFunc {
	return h.withPiece((*jigsaw.Game).ChooseChoice)
}

func (h SessionHandler) ClearWrong() http.HandlerFunc {
	return h.withPiece((*jigsaw.Game).ClearWrongMarker)
}

func (h SessionHandler) Hint(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(g *jigsaw.Game) error {
		g.UseHint()
		return nil
	})
}

func (h SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(g *jigsaw.Game) error {
		g.SkipPreview()
		return nil
	})
}

func (h SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*jigsaw.Game).Restart)
}

// Outlines returns the clip path of every piece in the session, in slot
// order.
func (h SessionHandler) Outlines(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	snap := s.Snapshot()
	outlines := make([]OutlineDTO, 0, len(snap.Pieces))
	for _, p := range snap.Pieces {
		o, err := NewOutlineDTO(p.ID, p.Row, p.Col, p.Width, p.Height, p.Coordinate().Pattern(snap.GridSize))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.log.WithError(err).WithField("piece", p.ID).Error("unable to build outline")
			return
		}
		outlines = append(outlines, o)
	}
	sendJSONOrLog(w, h.log, outlines)
}

func (h SessionHandler) Outline(w http.ResponseWriter, r *http.Request) {
	dto, err := decode[OutlineQueryDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	inGrid := func(v int) bool { return v >= 0 && v < dto.GridSize }
	if dto.GridSize < 2 || !lo.EveryBy([]int{dto.Row, dto.Col}, inGrid) {
		sendError(w, h.log, http.StatusBadRequest, fmt.Errorf("%w: cell outside grid", jigsaw.ErrInvalidConfiguration))
		return
	}
	pattern := jigsaw.PatternAt(dto.Row, dto.Col, dto.GridSize)
	o, err := NewOutlineDTO(dto.Row*dto.GridSize+dto.Col, dto.Row, dto.Col, dto.Width, dto.Height, pattern)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	sendJSONOrLog(w, h.log, o)
}
