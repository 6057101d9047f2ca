package scenes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/stage/internal/collab"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/scenestore"
)

// ErrSceneOpen is returned when a scene with connected clients is deleted.
var ErrSceneOpen = errors.New("scene is open")

const maxCreateBody = 4 << 10

type Handler struct {
	service *Service
	hub     *collab.Hub
}

func NewHandler(service *Service, hub *collab.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

type createRequest struct {
	Name string `json:"name"`
}

// Scene returns the live scene of a room, or its stored scene when no client
// has it open.
func (h *Handler) Scene(roomID string) (*document.Document, error) {
	snap, err := h.snapshot(roomID)
	if err != nil {
		return nil, err
	}
	return document.Parse(snap.Document)
}

func (h *Handler) snapshot(roomID string) (collab.DocSyncPayload, error) {
	if err := scenestore.ValidateRoomID(roomID); err != nil {
		return collab.DocSyncPayload{}, err
	}
	return h.hub.Snapshot(roomID)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	body := http.MaxBytesReader(w, r.Body, maxCreateBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	info, err := h.service.Create(req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// Get returns the scene of a room together with the shared editor state and
// the sequence number a client should resume from.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(mux.Vars(r)["roomId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.List()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	if h.hub.IsOpen(roomID) {
		handleServiceError(w, ErrSceneOpen)
		return
	}
	if err := h.service.Delete(roomID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, scenestore.ErrInvalidRoomID):
		writeError(w, http.StatusBadRequest, "invalid room id")
	case errors.Is(err, ErrSceneOpen):
		writeError(w, http.StatusConflict, "scene is open in an editor")
	default:
		slog.Error("scene request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
