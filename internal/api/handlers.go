// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/semestra/semestra/internal/advisor"
	"github.com/semestra/semestra/internal/logging"
)

// HealthLive reports process liveness.
func (rt *Router) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady reports readiness: the graph must have loaded at least
// once.
func (rt *Router) HealthReady(w http.ResponseWriter, _ *http.Request) {
	stats := rt.engine.Stats()
	if stats == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "graph has not been loaded", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"status":  "ready",
		"triples": stats.Triples,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login exchanges admin credentials for a bearer token. Only available
// in jwt auth mode.
func (rt *Router) Login(w http.ResponseWriter, r *http.Request) {
	if rt.jwt == nil || rt.creds == nil {
		respondError(w, http.StatusBadRequest, "AUTH_DISABLED", "authentication is not enabled", nil)
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !rt.creds.Verify(req.Username, req.Password) {
		rt.security.LogEvent(&logging.SecurityEvent{
			Event:     "login",
			Username:  req.Username,
			Provider:  "jwt",
			IPAddress: r.RemoteAddr,
			Success:   false,
			Error:     "invalid credentials",
		})
		respondError(w, http.StatusUnauthorized, "AUTH_ERROR", "invalid credentials", nil)
		return
	}

	token, err := rt.jwt.GenerateToken(req.Username, "admin")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue token", err)
		return
	}
	rt.security.LogEvent(&logging.SecurityEvent{
		Event:     "login",
		Username:  req.Username,
		Provider:  "jwt",
		IPAddress: r.RemoteAddr,
		Success:   true,
	})
	respondData(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(rt.cfg.Security.SessionTimeout.Seconds()),
	})
}

// Students lists all students sorted by label.
func (rt *Router) Students(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]any{
		"students": rt.engine.ListStudents(),
	})
}

// Student returns one student's profile.
func (rt *Router) Student(w http.ResponseWriter, r *http.Request) {
	profile, err := rt.engine.Profile(chi.URLParam(r, "id"))
	if err != nil {
		rt.studentError(w, err)
		return
	}
	respondData(w, http.StatusOK, profile)
}

// Recommendations returns the student's profile together with course,
// career, and paper recommendations and their explanations.
func (rt *Router) Recommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := rt.engine.Profile(id)
	if err != nil {
		rt.studentError(w, err)
		return
	}
	rec, err := rt.engine.Recommend(id)
	if err != nil {
		rt.studentError(w, err)
		return
	}
	rec, ok := limitRecommendations(w, r, rec)
	if !ok {
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"student":         profile,
		"recommendations": rec,
	})
}

// limitRecommendations applies the optional courses/careers/papers
// count limits. The result is a shallow copy so cached responses stay
// intact.
func limitRecommendations(w http.ResponseWriter, r *http.Request, rec *advisor.Recommendations) (*advisor.Recommendations, bool) {
	out := *rec
	q := r.URL.Query()
	for _, lim := range []struct {
		param string
		apply func(int)
	}{
		{"courses", func(n int) {
			if n < len(out.Courses) {
				out.Courses = out.Courses[:n]
			}
		}},
		{"careers", func(n int) {
			if n < len(out.Careers) {
				out.Careers = out.Careers[:n]
			}
		}},
		{"papers", func(n int) {
			if n < len(out.Papers) {
				out.Papers = out.Papers[:n]
			}
		}},
	} {
		raw := q.Get(lim.param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				lim.param+" must be a non-negative integer", nil)
			return nil, false
		}
		lim.apply(n)
	}
	return &out, true
}

func (rt *Router) studentError(w http.ResponseWriter, err error) {
	if errors.Is(err, advisor.ErrStudentNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "request failed", err)
}
