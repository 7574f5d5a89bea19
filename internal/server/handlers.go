package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/internal/store"
	"github.com/etnz/allocation/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list plans")
		s.writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	out := make([]map[string]any, 0, len(plans))
	for _, p := range plans {
		out = append(out, map[string]any{
			"id":      p.ID,
			"name":    p.Name,
			"type":    p.Type,
			"details": len(p.Details),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// loadPlan maps the plan named by the id URL parameter. It writes the error
// response itself and returns false on failure.
func (s *Server) loadPlan(w http.ResponseWriter, r *http.Request) (*allocation.Plan, *allocation.FractalPlan[allocation.PlannedAllocation], bool) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	p, h, err := s.store.Plan(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return nil, nil, false
	}
	fp, err := allocation.MapFractalHierarchy(p.Details, h)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, nil, false
	}
	return p, fp, true
}

func (s *Server) handlePlanTree(w http.ResponseWriter, r *http.Request) {
	p, fp, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, renderer.RenderTree(renderer.NewTree(p, fp)))
}

func (s *Server) handleNewPlanChart(w http.ResponseWriter, r *http.Request) {
	p, fp, ok := s.loadPlan(w, r)
	if !ok {
		return
	}
	sess := s.sessions.open(allocation.NewFractalDataSource(fp), "")
	sessionsOpened.WithLabelValues("plan").Inc()
	s.log.Info().Str("session", sess.id.String()).Str("plan", p.Name).Msg("Chart opened")
	s.writeView(w, http.StatusCreated, sess, sess.ctrl.View(), nil)
}

func (s *Server) handleNewSnapshotChart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	snap, h, err := s.store.Snapshot(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	src, err := allocation.NewMultiLevelDataSource(snap.Positions, h)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sess := s.sessions.open(src, snap.Currency)
	sessionsOpened.WithLabelValues("snapshot").Inc()
	s.log.Info().Str("session", sess.id.String()).Str("snapshot", snap.Name).Msg("Chart opened")
	s.writeView(w, http.StatusCreated, sess, sess.ctrl.View(), nil)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeView(w, http.StatusOK, sess, sess.ctrl.View(), nil)
}

// clickRequest is a click on a chart. A missing index is a click on empty space.
type clickRequest struct {
	Index *int `json:"index"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid click: "+err.Error())
		return
	}

	ev, target := allocation.BackgroundClick(), "background"
	if req.Index != nil {
		ev, target = allocation.SegmentClick(*req.Index), "segment"
	}
	v, changed := sess.ctrl.Click(ev)
	result := "ignored"
	if changed {
		result = "changed"
	}
	clicksTotal.WithLabelValues(target, result).Inc()
	s.writeView(w, http.StatusOK, sess, v, map[string]any{"changed": changed})
}

// session finds the session named by the URL, answering 404 when it does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "session"))
	if err == nil {
		if sess, ok := s.sessions.get(id); ok {
			return sess, true
		}
	}
	s.writeError(w, http.StatusNotFound, "unknown chart session")
	return nil, false
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid id: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// writeView writes v, the chart displayed by sess, with extra fields.
func (s *Server) writeView(w http.ResponseWriter, status int, sess *session, v allocation.View, extra map[string]any) {
	datasetSegments.Observe(float64(v.Dataset.Len()))
	response := map[string]any{
		"session": sess.id,
		"label":   v.Label,
		"key":     v.Key,
		"chart":   v.Dataset,
	}
	if sess.currency != "" {
		response["currency"] = sess.currency
	}
	for k, val := range extra {
		response[k] = val
	}
	s.writeJSON(w, status, response)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("Store failure")
	s.writeError(w, http.StatusInternalServerError, "store failure")
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
