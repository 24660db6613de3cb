// Package stream лента исходов спинов через Server-Sent Events для внешних отрисовщиков.
package stream

import (
	"net/http"
	"time"

	"haunted_slot/internal/events"
	"haunted_slot/internal/model"
	"haunted_slot/pkg/resp"

	"go.uber.org/zap"
)

const (
	bufferSize   = 64
	pingInterval = 15 * time.Second
)

type source interface {
	Subscribe(size int) (<-chan *model.Outcome, func())
}

type HandlerDeps struct {
	Bus source
	Log *zap.Logger
}

type Handler struct {
	bus source
	log *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{bus: deps.Bus, log: log}
}

// Outcomes держит соединение и пишет каждое событие как "event: outcome"
func (h *Handler) Outcomes(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		resp.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := h.bus.Subscribe(bufferSize)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case o, ok := <-ch:
			if !ok {
				return
			}
			data, err := events.Encode(o)
			if err != nil {
				h.log.Warn("encode outcome", zap.String("spin_id", o.SpinID), zap.Error(err))
				continue
			}
			if _, err := w.Write(frame(data)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func frame(data []byte) []byte {
	out := make([]byte, 0, len(data)+24)
	out = append(out, "event: outcome\ndata: "...)
	out = append(out, data...)
	return append(out, '\n', '\n')
}
