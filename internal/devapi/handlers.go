package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/upmonitor/internal/devapi/middleware"
	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/repo"
	"github.com/hamed0406/upmonitor/internal/security"
)

type credentialsPayload struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

type addPayload struct {
	URL string `json:"url" validate:"required,url"`
}

type websiteBody struct {
	ID        domain.WebsiteID `json:"id"`
	URL       string           `json:"url"`
	Ticks     []domain.Tick    `json:"ticks"`
	CreatedAt *time.Time       `json:"createdAt,omitempty"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if !s.decode(w, r, &p) {
		return
	}
	hash, err := security.HashPassword(p.Password)
	if err != nil {
		s.Logger.Error("hash_password_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}
	u := &repo.User{Username: strings.TrimSpace(p.Username), PasswordHash: hash, CreatedAt: s.now()}
	switch err := s.Users.CreateUser(r.Context(), u); {
	case errors.Is(err, repo.ErrConflict):
		writeError(w, http.StatusConflict, "username taken")
		return
	case err != nil:
		s.Logger.Error("create_user_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}
	s.Logger.Info("user_signed_up", zap.String("user_id", string(u.ID)))
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if !s.decode(w, r, &p) {
		return
	}
	u, err := s.Users.UserByName(r.Context(), strings.TrimSpace(p.Username))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.Error("user_lookup_failed", zap.Error(err))
		}
		writeError(w, http.StatusForbidden, "incorrect credentials")
		return
	}
	ok, err := security.ComparePassword(p.Password, u.PasswordHash)
	if err != nil || !ok {
		writeError(w, http.StatusForbidden, "incorrect credentials")
		return
	}
	tok, err := s.Tokens.Issue(*u)
	if err != nil {
		s.Logger.Error("issue_token_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"jwt": tok})
}

func (s *Server) handleListWebsites(w http.ResponseWriter, r *http.Request) {
	owner, _ := apimw.UserFrom(r.Context())
	ws, err := s.Websites.WebsitesByOwner(r.Context(), owner)
	if err != nil {
		s.Logger.Error("list_websites_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	out := make([]websiteBody, 0, len(ws))
	for _, site := range ws {
		ticks, err := s.Ticks.Ticks(r.Context(), site.ID, listTicks)
		if err != nil {
			s.Logger.Error("list_ticks_failed", zap.String("website_id", string(site.ID)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list error")
			return
		}
		out = append(out, websiteBody{ID: site.ID, URL: site.URL, Ticks: ticks})
	}
	writeJSON(w, http.StatusOK, map[string]any{"websites": out})
}

func (s *Server) handleWebsiteStatus(w http.ResponseWriter, r *http.Request) {
	owner, _ := apimw.UserFrom(r.Context())
	id := domain.WebsiteID(chi.URLParam(r, "websiteId"))
	site, err := s.Websites.WebsiteByID(r.Context(), owner, id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "website not found")
		return
	}
	if err != nil {
		s.Logger.Error("get_website_failed", zap.String("website_id", string(id)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status error")
		return
	}
	ticks, err := s.Ticks.Ticks(r.Context(), id, 0)
	if err != nil {
		s.Logger.Error("get_ticks_failed", zap.String("website_id", string(id)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status error")
		return
	}
	created := site.CreatedAt
	writeJSON(w, http.StatusOK, websiteBody{ID: site.ID, URL: site.URL, Ticks: ticks, CreatedAt: &created})
}

func (s *Server) handleAddWebsite(w http.ResponseWriter, r *http.Request) {
	owner, _ := apimw.UserFrom(r.Context())
	var p addPayload
	if !s.decode(w, r, &p) {
		return
	}
	if !isValidHTTPURL(p.URL) {
		writeError(w, http.StatusBadRequest, "url must be http or https")
		return
	}
	u := normalizeHTTPURL(p.URL)

	existing, err := s.Websites.WebsitesByOwner(r.Context(), owner)
	if err != nil {
		s.Logger.Error("list_websites_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add")
		return
	}
	for _, e := range existing {
		if e.URL == u {
			writeError(w, http.StatusConflict, "website already monitored")
			return
		}
	}

	site := &repo.Website{Owner: owner, URL: u, CreatedAt: s.now()}
	if err := s.Websites.AddWebsite(r.Context(), site); err != nil {
		s.Logger.Error("add_website_failed", zap.String("url", u), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add")
		return
	}

	// Single synchronous check for immediate feedback.
	if s.Checker != nil {
		s.checkNow(r.Context(), site)
	}

	s.Logger.Info("website_added", zap.String("website_id", string(site.ID)), zap.String("url", u))
	writeJSON(w, http.StatusOK, map[string]any{"id": site.ID})
}

func (s *Server) checkNow(ctx context.Context, site *repo.Website) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out := s.Checker.Check(cctx, site.URL)
	if err := s.Ticks.AppendTick(ctx, site.ID, out.Tick(s.now())); err != nil {
		s.Logger.Warn("initial_tick_failed", zap.String("website_id", string(site.ID)), zap.Error(err))
	}
}

func (s *Server) handleDeleteWebsite(w http.ResponseWriter, r *http.Request) {
	owner, _ := apimw.UserFrom(r.Context())
	id := domain.WebsiteID(chi.URLParam(r, "websiteId"))
	switch err := s.Websites.DeleteWebsite(r.Context(), owner, id); {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "website not found")
	case err != nil:
		s.Logger.Error("delete_website_failed", zap.String("website_id", string(id)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete")
	default:
		s.Logger.Info("website_deleted", zap.String("website_id", string(id)))
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	owner, _ := apimw.UserFrom(r.Context())
	switch err := s.Users.DeleteUser(r.Context(), owner); {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case err != nil:
		s.Logger.Error("delete_user_failed", zap.String("user_id", string(owner)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete")
	default:
		s.Logger.Info("user_deleted", zap.String("user_id", string(owner)))
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}
}

// decode reads a JSON body into dst and validates it, answering 400 itself
// when either fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
