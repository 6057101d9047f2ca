package export

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/scenestore"
)

const maxPreviewWidth = 4096

// SceneSource returns the current scene of a room.
type SceneSource func(roomID string) (*document.Document, error)

type Handler struct {
	scenes SceneSource
	cfg    config.Editor
}

func NewHandler(scenes SceneSource, cfg config.Editor) *Handler {
	return &Handler{scenes: scenes, cfg: cfg}
}

// Preview handles GET /api/scenes/{roomId}/preview.png?width=N.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPreviewWidth {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}
		width = n
	}

	doc, err := h.scenes(roomID)
	if err != nil {
		if errors.Is(err, scenestore.ErrInvalidRoomID) {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		slog.Error("load scene for preview", "room", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, doc, h.cfg, width); err != nil {
		slog.Error("render preview", "room", roomID, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())

	slog.Debug("preview rendered", "room", roomID, "width", width, "size", buf.Len())
}
