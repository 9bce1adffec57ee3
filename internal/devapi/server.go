// Package devapi is a local implementation of the backend the dashboard
// talks to: accounts, websites and their tick history.
package devapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/upmonitor/internal/devapi/middleware"
	"github.com/hamed0406/upmonitor/internal/probe"
	"github.com/hamed0406/upmonitor/internal/repo"
	"github.com/hamed0406/upmonitor/internal/security"
)

// listTicks is how many ticks each website carries in the list response.
const listTicks = 10

type Server struct {
	Logger   *zap.Logger
	Users    repo.UserStore
	Websites repo.WebsiteStore
	Ticks    repo.TickStore
	Tokens   *security.TokenService
	// Checker, when set, probes a website once as it is added so the first
	// tick shows up without waiting for the rechecker.
	Checker  probe.Checker
	validate *validator.Validate
	now      func() time.Time
}

// Store is the full storage surface; repo/memory implements it.
type Store interface {
	repo.UserStore
	repo.WebsiteStore
	repo.TickStore
}

func NewServer(l *zap.Logger, st Store, tokens *security.TokenService, c probe.Checker) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{
		Logger:   l,
		Users:    st,
		Websites: st,
		Ticks:    st,
		Tokens:   tokens,
		Checker:  c,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Router wires the routes. publicRPM/publicBurst limit the unauthenticated
// account endpoints per client IP; 0 disables the limit.
func (s *Server) Router(publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Post("/user/signup", s.handleSignUp)
		r.Post("/user/signin", s.handleSignIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireUser(s.Tokens.Verify))
		r.Get("/websites", s.handleListWebsites)
		r.Get("/status/{websiteId}", s.handleWebsiteStatus)
		r.Post("/website", s.handleAddWebsite)
		r.Delete("/website/{websiteId}", s.handleDeleteWebsite)
		r.Delete("/user", s.handleDeleteUser)
	})

	return r
}
