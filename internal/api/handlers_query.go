// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/semestra/semestra/internal/advisor"
	"github.com/semestra/semestra/internal/graph"
	"github.com/semestra/semestra/internal/metrics"
	"github.com/semestra/semestra/internal/sparql"
	"github.com/semestra/semestra/internal/store"
)

// QueryTemplates returns the built-in query templates. With ?student=
// the student placeholder is bound to that student's IRI.
func (rt *Router) QueryTemplates(w http.ResponseWriter, r *http.Request) {
	studentIRI := ""
	if s := r.URL.Query().Get("student"); s != "" {
		st, err := rt.engine.ResolveStudent(s)
		if err != nil {
			rt.studentError(w, err)
			return
		}
		studentIRI = st.Value
	}
	respondData(w, http.StatusOK, map[string]any{
		"templates": advisor.Templates(rt.engine.Vocabulary(), studentIRI),
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

// termJSON is the wire form of one bound RDF term.
type termJSON struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
}

type queryResult struct {
	Vars []string              `json:"vars"`
	Rows []map[string]termJSON `json:"rows"`
}

// Query parses and evaluates an ad-hoc query against the current
// graph, bounded by the configured timeout and row limit.
func (rt *Router) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := sparql.Parse(req.Query)
	if err != nil {
		metrics.RecordQuery("adhoc", 0, 0, "parse")
		rt.parseError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), rt.cfg.Query.Timeout)
	defer cancel()

	start := time.Now()
	res, err := q.Eval(ctx, rt.engine.Graph(), sparql.Options{MaxRows: rt.cfg.Query.MaxRows})
	if err != nil {
		switch {
		case errors.Is(err, sparql.ErrTooManyRows):
			metrics.RecordQuery("adhoc", 0, 0, "row_limit")
			respondError(w, http.StatusRequestEntityTooLarge, "ROW_LIMIT", err.Error(), nil)
		case errors.Is(err, context.DeadlineExceeded):
			metrics.RecordQuery("adhoc", 0, 0, "timeout")
			respondError(w, http.StatusGatewayTimeout, "TIMEOUT", "query timed out", nil)
		default:
			metrics.RecordQuery("adhoc", 0, 0, "eval")
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "query evaluation failed", err)
		}
		return
	}
	elapsed := time.Since(start)
	metrics.RecordQuery("adhoc", len(res.Rows), elapsed, "")

	respondTimed(w, http.StatusOK, resultJSON(res), elapsed)
}

func resultJSON(res *sparql.Result) queryResult {
	out := queryResult{
		Vars: res.Vars,
		Rows: make([]map[string]termJSON, 0, len(res.Rows)),
	}
	for _, sol := range res.Rows {
		row := make(map[string]termJSON, len(sol))
		for name, term := range sol {
			tj := termJSON{Value: term.Value}
			if term.IsIRI() {
				tj.Type = "iri"
			} else {
				tj.Type = "literal"
				if term.Datatype != graph.XSDString {
					tj.Datatype = term.Datatype
				}
			}
			row[name] = tj
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (rt *Router) parseError(w http.ResponseWriter, err error) {
	var pe *sparql.ParseError
	if errors.As(err, &pe) {
		respondJSON(w, http.StatusBadRequest, &Response{
			Status:   "error",
			Metadata: Metadata{Timestamp: time.Now().UTC()},
			Error: &APIError{
				Code:    "PARSE_ERROR",
				Message: pe.Error(),
				Details: map[string]any{"line": pe.Line, "col": pe.Col},
			},
		})
		return
	}
	respondError(w, http.StatusBadRequest, "PARSE_ERROR", err.Error(), nil)
}

type savedQueryRequest struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// SavedQueryList returns all saved queries sorted by name.
func (rt *Router) SavedQueryList(w http.ResponseWriter, _ *http.Request) {
	list, err := rt.store.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list saved queries", err)
		return
	}
	metrics.SavedQueries.Set(float64(len(list)))
	respondData(w, http.StatusOK, map[string]any{"saved_queries": list})
}

// SavedQueryCreate stores a new saved query. The query text must
// parse.
func (rt *Router) SavedQueryCreate(w http.ResponseWriter, r *http.Request) {
	var req savedQueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, err := sparql.Parse(req.Query); err != nil {
		rt.parseError(w, err)
		return
	}
	sq, err := rt.store.Create(req.Name, req.Query)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	respondData(w, http.StatusCreated, sq)
}

// SavedQueryGet returns one saved query by ID.
func (rt *Router) SavedQueryGet(w http.ResponseWriter, r *http.Request) {
	sq, err := rt.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		rt.savedError(w, err)
		return
	}
	respondData(w, http.StatusOK, sq)
}

// SavedQueryUpdate replaces the name and/or query of a saved query.
// Empty fields keep their stored values.
func (rt *Router) SavedQueryUpdate(w http.ResponseWriter, r *http.Request) {
	var req savedQueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query != "" {
		if _, err := sparql.Parse(req.Query); err != nil {
			rt.parseError(w, err)
			return
		}
	}
	sq, err := rt.store.Update(chi.URLParam(r, "id"), req.Name, req.Query)
	if err != nil {
		rt.savedError(w, err)
		return
	}
	respondData(w, http.StatusOK, sq)
}

// SavedQueryDelete removes a saved query.
func (rt *Router) SavedQueryDelete(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.Delete(chi.URLParam(r, "id")); err != nil {
		rt.savedError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (rt *Router) savedError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "saved query operation failed", err)
}
