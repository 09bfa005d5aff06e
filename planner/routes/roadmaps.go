package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"planner/planner/controllers"
	"planner/planner/sources/psql/dao"
	"planner/planner/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func handleRoadmapJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func statusFor(err error) int {
	if errors.Is(err, dao.ErrRoadmapNotFound) || errors.Is(err, dao.ErrItemNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func RoadmapRoutes(ctrl *controllers.RoadmapController) chi.Router {
	r := chi.NewRouter()

	// GET /roadmaps/?session_key= : all roadmaps for a session, newest first
	r.Get("/", handleRoadmapJSON(func(r *http.Request) (any, int, error) {
		sessionKey := r.URL.Query().Get("session_key")
		if sessionKey == "" {
			return nil, http.StatusBadRequest, errors.New("session_key is required")
		}
		roadmaps, err := ctrl.ListRoadmaps(r.Context(), sessionKey)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return roadmaps, http.StatusOK, nil
	}))

	// GET /roadmaps/{roadmap_id}/progress : stats plus the item checklist
	r.Get("/{roadmap_id}/progress", handleRoadmapJSON(func(r *http.Request) (any, int, error) {
		roadmapID, err := uuid.Parse(chi.URLParam(r, "roadmap_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		resp, err := ctrl.Progress(r.Context(), roadmapID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	// POST /roadmaps/{roadmap_id}/items/{node_key} : toggle one item
	r.Post("/{roadmap_id}/items/{node_key}", handleRoadmapJSON(func(r *http.Request) (any, int, error) {
		roadmapID, err := uuid.Parse(chi.URLParam(r, "roadmap_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		var req types.ToggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		stats, err := ctrl.Toggle(r.Context(), roadmapID, chi.URLParam(r, "node_key"), req.Completed)
		if err != nil {
			return nil, statusFor(err), err
		}
		return stats, http.StatusOK, nil
	}))

	return r
}
