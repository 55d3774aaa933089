package stream_events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/events"
)

const (
	msgInvalidZoneID = "некорректный параметр zoneId"
	msgNoStreaming   = "потоковая передача не поддерживается"
	msgInvalidLastID = "некорректный заголовок Last-Event-ID"
)

type Handler struct {
	stream EventStream
	logger Logger
}

func NewHandler(stream EventStream, logger Logger) *Handler {
	return &Handler{
		stream: stream,
		logger: logger,
	}
}

// Handle GET /api/v1/events/stream?zoneId=
// SSE-поток изменений. При переподключении клиент передает Last-Event-ID
// и дочитывает пропущенные события из буфера повторной доставки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var zoneID int64
	if raw := r.URL.Query().Get("zoneId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.logger.Warn("GET /events/stream - Invalid zone ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidZoneID)
			return
		}
		zoneID = parsed
	}

	var lastSeq int64
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /events/stream - Invalid Last-Event-ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLastID)
			return
		}
		lastSeq = parsed
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /events/stream - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusInternalServerError, msgNoStreaming)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.stream.Subscribe(zoneID)
	defer h.stream.Unsubscribe(sub.ID)

	h.logger.Info("GET /events/stream - Subscriber %s connected (zone=%d, last_seq=%d)",
		sub.ID, zoneID, lastSeq)

	// Дочитываем пропущенное до живого потока
	for _, ev := range h.stream.Replay(lastSeq, zoneID) {
		if err := writeEvent(w, ev); err != nil {
			h.logger.Warn("GET /events/stream - Subscriber %s write failed: %v", sub.ID, err)
			return
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /events/stream - Subscriber %s disconnected", sub.ID)
			return

		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				h.logger.Warn("GET /events/stream - Subscriber %s write failed: %v", sub.ID, err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\ndata: %s\n\n", ev.Seq, data)
	return err
}
