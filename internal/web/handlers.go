package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/hygload/internal/core"
)

// progressResponse is the JSON form of a progress snapshot.
type progressResponse struct {
	core.Progress
	Percent float64 `json:"percent"`
}

func newProgressResponse(p core.Progress) progressResponse {
	return progressResponse{Progress: p, Percent: p.Percent()}
}

// handleHealth reports that the process is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleProgress returns the latest progress snapshot.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, newProgressResponse(s.tracker.Snapshot()))
}

// handleProgressStream streams progress as server-sent events until the
// run finishes or the client disconnects.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming not supported")
		return
	}

	progressCh := s.tracker.Subscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			data, _ := json.Marshal(newProgressResponse(progress))
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
