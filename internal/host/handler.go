package host

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mobboss/internal/middleware"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/stream"
)

// Error codes returned by the bridge API
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnknownEvent   = "UNKNOWN_EVENT"
	CodeInternalError  = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

type proofRequest struct {
	InitData string `json:"init_data"`
}

type eventRequest struct {
	Event          model.HostEvent `json:"event"`
	SessionPresent bool            `json:"session_present"`
}

type sessionResponse struct {
	Present  bool            `json:"present"`
	Identity *model.Identity `json:"identity,omitempty"`
}

// Handler returns the HTTP API the embedding shell uses to drive the bridge
func (b *Bridge) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(middleware.Recovery(b.logger, writeInternalError))
	api.Use(middleware.Logging(b.logger))

	api.HandleFunc("/proof", b.handlePutProof).Methods(http.MethodPut)
	api.HandleFunc("/events", b.handlePostEvent).Methods(http.MethodPost)
	api.HandleFunc("/session", b.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/session", b.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/stream", b.handleStream).Methods(http.MethodGet)
	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	return r
}

func (b *Bridge) handlePutProof(w http.ResponseWriter, r *http.Request) {
	var req proofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}
	b.SetProof(req.InitData)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Bridge) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}
	if !req.Event.Valid() {
		writeError(w, http.StatusBadRequest, CodeUnknownEvent, "unknown event: "+string(req.Event))
		return
	}

	// The shell lost track of our session; forget it so bootstrap does not reuse it
	if req.Event == model.HostEventSignedOut {
		if err := b.ClearSession(r.Context()); err != nil {
			b.logger.Error("failed to clear host session", slog.String("error", err.Error()))
		}
	}

	if !b.Publish(model.HostNotification{Event: req.Event, SessionPresent: req.SessionPresent}) {
		writeError(w, http.StatusServiceUnavailable, CodeInternalError, "notification buffer full")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (b *Bridge) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := b.CurrentSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to read session")
		return
	}
	resp := sessionResponse{Present: session != nil}
	if session != nil {
		resp.Identity = &session.Identity
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Bridge) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := b.ClearSession(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to clear session")
		return
	}
	b.Publish(model.HostNotification{Event: model.HostEventSignedOut})
	w.WriteHeader(http.StatusNoContent)
}

func (b *Bridge) handleStream(w http.ResponseWriter, r *http.Request) {
	stream.Serve(w, r, b.hub)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

func writeInternalError(w http.ResponseWriter, _ *http.Request, _ any) {
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
