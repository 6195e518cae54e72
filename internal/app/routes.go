package app

import (
	"net/http"

	"github.com/vancomm/jigsaw-server/internal/handlers"
	"github.com/vancomm/jigsaw-server/internal/middleware"
)

func (a *App) loadRoutes(base string) {
	h := handlers.NewSessionHandler(a.log, a.store, a.tokens, a.ws, a.game)
	auth := func(fn http.HandlerFunc) http.Handler {
		return middleware.Route(fn, middleware.SessionToken(a.log, a.tokens))
	}
	v1 := base + "/v1"

	a.router.HandleFunc("GET "+v1+"/difficulties", h.Difficulties)
	a.router.HandleFunc("GET "+v1+"/outline", h.Outline)

	a.router.HandleFunc("POST "+v1+"/session", h.New)
	a.router.HandleFunc("GET "+v1+"/session/{id}", h.Fetch)
	a.router.HandleFunc("GET "+v1+"/session/{id}/outlines", h.Outlines)
	a.router.Handle("DELETE "+v1+"/session/{id}", auth(h.Delete))
	a.router.Handle("POST "+v1+"/session/{id}/select", auth(h.Select()))
	a.router.Handle("POST "+v1+"/session/{id}/choose", auth(h.Choose()))
	a.router.Handle("POST "+v1+"/session/{id}/hint", auth(h.Hint))
	a.router.Handle("POST "+v1+"/session/{id}/skip", auth(h.Skip))
	a.router.Handle("POST "+v1+"/session/{id}/restart", auth(h.Restart))
	a.router.Handle("POST "+v1+"/session/{id}/clear-wrong", auth(h.ClearWrong()))
	a.router.Handle(v1+"/session/{id}/connect", auth(h.ConnectWS))
}
