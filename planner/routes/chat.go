package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"planner/planner/controllers"
	"planner/planner/types"
	"planner/planner/utils/logging"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()

	// POST /chat/ : send message, get the full reply
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := ctrl.Chat(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(resp)
	})

	// POST /chat/reset : clear the session's message log
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		var req types.ResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.ResetSession(r.Context(), req.SessionKey); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// GET /chat/session/{session_key}/messages : full message log
	r.Get("/session/{session_key}/messages", func(w http.ResponseWriter, r *http.Request) {
		sessionKey := chi.URLParam(r, "session_key")
		msgs, err := ctrl.GetMessages(r.Context(), sessionKey)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(msgs)
	})

	// GET /chat/ws : streaming chat over websocket
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		// Cancelling on return unblocks the stream producer when the
		// client goes away mid-stream.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var req types.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		for event := range ctrl.ChatStream(ctx, req) {
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
		conn.Close(websocket.StatusNormalClosure, "done")
	})

	return r
}
