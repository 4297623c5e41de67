package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
	"github.com/go-chi/chi/v5"
)

// maxPageBytes bounds the profile page body accepted by the page endpoint.
const maxPageBytes = 4 << 20

// statusFor maps a failure category to an HTTP status code.
func statusFor(f *tasks.Failure) int {
	switch f.Category {
	case tasks.CategoryPlayerNotFound:
		return http.StatusNotFound
	case tasks.CategoryInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// localizer picks a message catalog for the request.
func (s *Server) localizer(r *http.Request) *shared.Catalog {
	return shared.NewCatalog(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), s.locale)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "fstat",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) playerStats(w http.ResponseWriter, r *http.Request) {
	s.lookupJSON(w, r, chi.URLParam(r, "externalID"))
}

// pageStats extracts the identifier from a posted profile page and looks it up.
func (s *Server) pageStats(w http.ResponseWriter, r *http.Request) {
	l := s.localizer(r)

	id, err := shared.ExtractSteamID(io.LimitReader(r.Body, maxPageBytes))
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidInput) {
			log.FromContext(r.Context()).Warn("unreadable page body", "err", err)
		}
		f := tasks.Categorize(err, l)
		if f.Category != tasks.CategoryInvalidInput {
			f = &tasks.Failure{Category: tasks.CategoryInvalidInput, Message: l.Localize(shared.MsgSteamIDError), Err: err}
		}
		respondFailure(w, f)
		return
	}

	s.lookupJSON(w, r, id)
}

func (s *Server) lookupJSON(w http.ResponseWriter, r *http.Request, externalID string) {
	stats, err := s.pipeline.WithLocalizer(s.localizer(r)).Run(r.Context(), externalID, nil)
	if err != nil {
		respondFailure(w, asFailure(err))
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// embed renders the HTML block for the host page. Failures render the error block with the mapped status.
func (s *Server) embed(w http.ResponseWriter, r *http.Request) {
	l := s.localizer(r)
	renderer := s.renderer.WithLocalizer(l)

	stats, err := s.pipeline.WithLocalizer(l).Run(r.Context(), chi.URLParam(r, "externalID"), nil)

	var (
		body   []byte
		status = http.StatusOK
	)
	if err != nil {
		f := asFailure(err)
		status = statusFor(f)
		body, err = renderer.ErrorBlock(f)
	} else {
		body, err = renderer.StatsBlock(stats)
	}
	if err != nil {
		log.FromContext(r.Context()).Error("render failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func asFailure(err error) *tasks.Failure {
	var f *tasks.Failure
	if errors.As(err, &f) {
		return f
	}
	return &tasks.Failure{Category: tasks.CategoryAPIRequest, Message: err.Error(), Err: err}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondFailure(w http.ResponseWriter, f *tasks.Failure) {
	respondJSON(w, statusFor(f), map[string]any{"error": f})
}

// styles serves the stylesheet alone for hosts that inject it once per page.
func (s *Server) styles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.WriteString(w, formatter.Stylesheet)
}
