package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/jigsaw-server/internal/config"
	"github.com/vancomm/jigsaw-server/internal/jigsaw"
	"github.com/vancomm/jigsaw-server/internal/middleware"
	"github.com/vancomm/jigsaw-server/internal/session"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

type App struct {
	log     *logrus.Logger
	router  *http.ServeMux
	store   *session.Store
	tokens  *config.JWT
	ws      *config.WebSocket
	game    *config.Game
	limiter *middleware.Limiter
	addr    string
}

// New reads the configuration from the environment and registers all
// routes. Nothing is started until Start.
func New(log *logrus.Logger) (*App, error) {
	game, err := config.NewGame()
	if err != nil {
		return nil, err
	}
	tokens, err := config.NewJWT(game.SessionTTL)
	if err != nil {
		return nil, err
	}
	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, err
	}
	limits, err := config.NewRateLimit()
	if err != nil {
		return nil, err
	}

	jigsaw.Log = log

	a := &App{
		log:    log,
		router: http.NewServeMux(),
		store: session.NewStore(session.Options{
			PreviewTime:         game.PreviewTime,
			CompletionDelay:     game.CompletionDelay,
			WrongMarkerDuration: game.WrongMarkerDuration,
			TTL:                 game.SessionTTL,
			Logger:              log,
		}),
		tokens:  tokens,
		ws:      ws,
		game:    game,
		limiter: middleware.NewLimiter(limits.RPS, limits.Burst),
		addr:    config.Addr(),
	}
	a.loadRoutes(config.BasePath())
	return a, nil
}

// EphemeralSecret reports whether session tokens are signed with a key
// generated at startup.
func (a *App) EphemeralSecret() bool {
	return a.tokens.Ephemeral()
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.RateLimit(a.limiter),
		middleware.Cors(),
		middleware.Logging(a.log),
		middleware.RequestIDs(),
	)
}

// Start serves until ctx is done, then drains in-flight requests and ends
// every session.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", a.addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.store.Run(ctx, sweepInterval)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				a.limiter.Forget(now.Add(-sweepInterval))
			}
		}
	})

	return g.Wait()
}
