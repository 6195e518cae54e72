package jigsaw

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

const (
	DefaultPreviewTime = 10
	TickInterval       = time.Second
)

var ErrNotStarted = errors.New("no session started")

type Phase int

const (
	PhasePreview Phase = iota
	PhasePlaying
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePreview:
		return "preview"
	case PhasePlaying:
		return "playing"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Scheduler runs fn once after delay unless the returned cancel func is
// called first.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// Game is the state of one play-through. It is not safe for concurrent
// use: all entry points and all scheduled callbacks must be serialized by
// the owner.
type Game struct {
	width, height float64
	difficulty    Difficulty
	started       bool

	pieces         []Piece
	selectedSlot   int
	hasSelection   bool
	choices        []Piece
	elapsed        int
	moves          int
	phase          Phase
	countdown      int
	remainingHints int
	wrongSlots     map[int]struct{}

	rnd                 *rand.Rand
	sched               Scheduler
	log                 logrus.FieldLogger
	observer            func(Snapshot)
	previewTime         int
	completionDelay     time.Duration
	wrongMarkerDuration time.Duration

	// generation is bumped on every start so callbacks scheduled for a
	// superseded session do nothing; ticker does the same for ticks.
	generation     uint64
	ticker         uint64
	cancelTick     func()
	cancelComplete func()
	completing     bool
	// wrongTimers holds the pending auto clear of each marked slot.
	wrongTimers    map[int]func()
}

type Option func(*Game)

func WithRand(rnd *rand.Rand) Option {
	return func(g *Game) { g.rnd = rnd }
}

// WithScheduler lets the game drive its own one-second ticker and delayed
// transitions. Without one, the owner calls Tick.
func WithScheduler(s Scheduler) Option {
	return func(g *Game) { g.sched = s }
}

func WithPreviewTime(seconds int) Option {
	return func(g *Game) { g.previewTime = seconds }
}

// WithCompletionDelay holds the COMPLETE transition back for d after the
// last piece lands. Needs a scheduler.
func WithCompletionDelay(d time.Duration) Option {
	return func(g *Game) { g.completionDelay = d }
}

// WithWrongMarkerDuration makes the game clear wrong-choice markers on its
// own after d. Needs a scheduler; otherwise see ClearWrongMarker.
func WithWrongMarkerDuration(d time.Duration) Option {
	return func(g *Game) { g.wrongMarkerDuration = d }
}

// WithObserver registers fn to receive a snapshot after every change.
func WithObserver(fn func(Snapshot)) Option {
	return func(g *Game) { g.observer = fn }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Game) { g.log = l }
}

// NewGame prepares a game over a puzzle area of width x height. Nothing is
// generated until StartSession.
func NewGame(width, height float64, opts ...Option) *Game {
	g := &Game{
		width:       width,
		height:      height,
		previewTime: DefaultPreviewTime,
		wrongSlots:  make(map[int]struct{}),
		wrongTimers: make(map[int]func()),
		log:         Log,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// StartSession generates a fresh puzzle for the difficulty key and enters
// the preview phase. On error the current session is left as it was.
func (g *Game) StartSession(key string) error {
	d, err := LookupDifficulty(key)
	if err != nil {
		return err
	}
	pieces, err := GeneratePieces(d.GridSize, g.width, g.height)
	if err != nil {
		return err
	}
	g.difficulty = d
	g.started = true
	g.reset(pieces)

	g.log.WithFields(logrus.Fields{
		"difficulty": d.Key,
		"grid_size":  d.GridSize,
		"pieces":     len(pieces),
		"width":      g.width,
		"height":     g.height,
	}).Debug("session started")

	g.notify()
	return nil
}

// Restart starts over with the current difficulty.
func (g *Game) Restart() error {
	if !g.started {
		return ErrNotStarted
	}
	g.log.WithField("difficulty", g.difficulty.Key).Debug("restart")
	return g.StartSession(g.difficulty.Key)
}

// Stop cancels every pending timer and drops callbacks already in flight.
// The state stays readable; Restart brings the timers back.
func (g *Game) Stop() {
	g.generation++
	g.stopTicker()
	if g.cancelComplete != nil {
		g.cancelComplete()
		g.cancelComplete = nil
	}
	g.completing = false
	for _, cancel := range g.wrongTimers {
		cancel()
	}
	clear(g.wrongTimers)
}

func (g *Game) reset(pieces []Piece) {
	g.Stop()

	g.pieces = pieces
	g.clearSelection()
	g.elapsed = 0
	g.moves = 0
	g.remainingHints = max(g.difficulty.HintBudget, 0)
	g.wrongSlots = make(map[int]struct{})
	g.completing = false
	g.phase = PhasePreview
	g.countdown = g.previewTime

	if g.countdown <= 0 {
		g.beginPlay()
		return
	}
	g.startTicker()
}

// Tick advances game time by one second: the preview countdown while
// previewing, the play clock while playing. Games built with a scheduler
// call it themselves.
func (g *Game) Tick() {
	switch g.phase {
	case PhasePreview:
		if !g.started {
			return
		}
		g.countdown--
		if g.countdown <= 0 {
			g.log.Debug("preview over")
			g.beginPlay()
		}
	case PhasePlaying:
		g.elapsed++
	default:
		return
	}
	g.notify()
}

func (g *Game) SkipPreview() {
	if !g.started || g.phase != PhasePreview {
		return
	}
	g.log.Debug("preview skipped")
	g.beginPlay()
	g.notify()
}

func (g *Game) beginPlay() {
	g.phase = PhasePlaying
	g.countdown = 0
	g.startTicker()
}

func (g *Game) startTicker() {
	g.stopTicker()
	if g.sched == nil || g.phase == PhaseComplete {
		return
	}
	token := g.ticker
	g.cancelTick = g.sched.Schedule(TickInterval, func() {
		if g.ticker != token {
			return
		}
		g.cancelTick = nil
		g.Tick()
		if g.ticker == token {
			g.startTicker()
		}
	})
}

func (g *Game) stopTicker() {
	g.ticker++
	if g.cancelTick != nil {
		g.cancelTick()
		g.cancelTick = nil
	}
}

func (g *Game) indexOf(id int) int {
	if id >= 0 && id < len(g.pieces) && g.pieces[id].ID == id {
		return id
	}
	return slices.IndexFunc(g.pieces, func(p Piece) bool { return p.ID == id })
}

// SelectSlot picks an empty slot and deals a choice set for it. Ignored
// outside the playing phase and for placed or unknown pieces.
func (g *Game) SelectSlot(id int) {
	if g.phase != PhasePlaying {
		return
	}
	i := g.indexOf(id)
	if i < 0 || g.pieces[i].IsPlaced {
		return
	}
	target := g.pieces[i]
	g.selectedSlot = id
	g.hasSelection = true
	g.choices = BuildChoices(target, Unplaced(g.pieces), g.difficulty.WrongChoiceCount, g.rnd)

	g.log.WithFields(logrus.Fields{
		"slot":    id,
		"row":     target.Row,
		"col":     target.Col,
		"choices": len(g.choices),
	}).Debug("slot selected")

	g.notify()
}

// ChooseChoice answers the selected slot with the piece chosenID. Every
// answer counts as a move; a wrong one only marks the slot.
func (g *Game) ChooseChoice(chosenID int) {
	if !g.hasSelection {
		return
	}
	slot := g.selectedSlot
	g.moves++

	correct := chosenID == slot
	g.log.WithFields(logrus.Fields{
		"slot":    slot,
		"chosen":  chosenID,
		"correct": correct,
		"moves":   g.moves,
	}).Debug("choice made")

	if correct {
		g.place(slot, PlacedCorrect)
		g.cancelWrongClear(slot)
		delete(g.wrongSlots, slot)
	} else {
		g.wrongSlots[slot] = struct{}{}
		g.scheduleWrongClear(slot)
	}
	g.clearSelection()
	g.checkCompletion()
	g.notify()
}

// UseHint fills the selected slot for free, spending one hint.
func (g *Game) UseHint() {
	if !g.hasSelection || g.remainingHints <= 0 || g.phase != PhasePlaying {
		return
	}
	slot := g.selectedSlot
	g.place(slot, PlacedHint)
	g.remainingHints--

	g.log.WithFields(logrus.Fields{
		"slot":            slot,
		"remaining_hints": g.remainingHints,
	}).Debug("hint used")

	g.clearSelection()
	g.checkCompletion()
	g.notify()
}

// ClearWrongMarker drops the wrong-choice marker of a slot.
func (g *Game) ClearWrongMarker(slotID int) {
	if _, ok := g.wrongSlots[slotID]; !ok {
		return
	}
	g.cancelWrongClear(slotID)
	delete(g.wrongSlots, slotID)
	g.notify()
}

// scheduleWrongClear restarts the slot's marker timer, so a repeated
// wrong answer is shown for the full duration.
func (g *Game) scheduleWrongClear(slot int) {
	if g.sched == nil || g.wrongMarkerDuration <= 0 {
		return
	}
	g.cancelWrongClear(slot)
	gen := g.generation
	g.wrongTimers[slot] = g.sched.Schedule(g.wrongMarkerDuration, func() {
		if g.generation != gen {
			return
		}
		delete(g.wrongTimers, slot)
		g.ClearWrongMarker(slot)
	})
}

func (g *Game) cancelWrongClear(slot int) {
	if cancel, ok := g.wrongTimers[slot]; ok {
		cancel()
		delete(g.wrongTimers, slot)
	}
}

func (g *Game) place(id int, by Placement) {
	i := g.indexOf(id)
	if i < 0 {
		return
	}
	g.pieces[i].IsPlaced = true
	g.pieces[i].PlacedBy = by
}

func (g *Game) clearSelection() {
	g.selectedSlot = 0
	g.hasSelection = false
	g.choices = nil
}

func (g *Game) checkCompletion() {
	if g.phase != PhasePlaying || g.completing || !IsComplete(g.pieces) {
		return
	}
	if g.sched == nil || g.completionDelay <= 0 {
		g.complete()
		return
	}
	g.completing = true
	gen := g.generation
	g.cancelComplete = g.sched.Schedule(g.completionDelay, func() {
		if g.generation != gen {
			return
		}
		g.cancelComplete = nil
		g.complete()
		g.notify()
	})
}

func (g *Game) complete() {
	g.phase = PhaseComplete
	g.completing = false
	g.stopTicker()
	g.log.WithFields(logrus.Fields{
		"difficulty": g.difficulty.Key,
		"elapsed":    FormatTime(g.elapsed),
		"moves":      g.moves,
		"hints_left": g.remainingHints,
	}).Info("puzzle complete")
}

func (g *Game) notify() {
	if g.observer != nil {
		g.observer(g.Snapshot())
	}
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) Difficulty() Difficulty {
	return g.difficulty
}

func (g *Game) Started() bool {
	return g.started
}

// Snapshot is a read-only copy of a game, safe to hand to renderers and
// to marshal.
type Snapshot struct {
	Difficulty       string  `json:"difficulty"`
	GridSize         int     `json:"grid_size"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Phase            Phase   `json:"phase"`
	PreviewCountdown int     `json:"preview_countdown"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	Elapsed          string  `json:"elapsed"`
	MoveCount        int     `json:"move_count"`
	RemainingHints   int     `json:"remaining_hints"`
	SelectedSlotID   *int    `json:"selected_slot_id"`
	Pieces           []Piece `json:"pieces"`
	CurrentChoices   []Piece `json:"current_choices"`
	WrongSlotIDs     []int   `json:"wrong_slot_ids"`
	PlacedCount      int     `json:"placed_count"`
	Progress         float64 `json:"progress"`
}

func (g *Game) Snapshot() Snapshot {
	var selected *int
	if g.hasSelection {
		id := g.selectedSlot
		selected = &id
	}
	wrong := lo.Keys(g.wrongSlots)
	slices.Sort(wrong)

	return Snapshot{
		Difficulty:       g.difficulty.Key,
		GridSize:         g.difficulty.GridSize,
		Width:            g.width,
		Height:           g.height,
		Phase:            g.phase,
		PreviewCountdown: g.countdown,
		ElapsedSeconds:   g.elapsed,
		Elapsed:          FormatTime(g.elapsed),
		MoveCount:        g.moves,
		RemainingHints:   g.remainingHints,
		SelectedSlotID:   selected,
		Pieces:           append([]Piece{}, g.pieces...),
		CurrentChoices:   append([]Piece{}, g.choices...),
		WrongSlotIDs:     wrong,
		PlacedCount:      PlacedCount(g.pieces),
		Progress:         Progress(g.pieces),
	}
}
