package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProgressEvent is one server-sent event on a streaming endpoint.
type ProgressEvent struct {
	Type      string `json:"type"`      // "progress", "step", "result", "error"
	Step      string `json:"step"`      // current step description
	Message   string `json:"message"`   // progress message
	Iteration int    `json:"iteration"` // current iteration number
	Total     int    `json:"total"`     // total iterations
	Data      string `json:"data"`      // additional data (final payload, etc.)
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
}

func sendSSEEvent(w http.ResponseWriter, event ProgressEvent) {
	data, _ := json.Marshal(event)
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sendSSEError(w http.ResponseWriter, message string) {
	sendSSEEvent(w, ProgressEvent{
		Type:    "error",
		Message: message,
	})
}

func sendSSEResult(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		sendSSEError(w, fmt.Sprintf("Error encoding result: %v", err))
		return
	}
	sendSSEEvent(w, ProgressEvent{
		Type: "result",
		Data: string(data),
	})
}
