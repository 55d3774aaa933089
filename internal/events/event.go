package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Channel канал LISTEN/NOTIFY, в который триггеры БД публикуют изменения
const Channel = "parking_events"

// Event событие изменения, доставляемое подписчикам.
// Seq монотонно растёт в пределах процесса и служит курсором
// для дочитывания пропущенного после переподключения
type Event struct {
	Seq      int64     `json:"seq"`
	Table    string    `json:"table"`
	Op       string    `json:"op"`
	EntityID int64     `json:"entityId"`
	ZoneID   int64     `json:"zoneId"`
	At       time.Time `json:"at"`
}

// rawPayload форма, в которой триггер notify_parking_change собирает JSON
type rawPayload struct {
	Table  string `json:"table"`
	Op     string `json:"op"`
	ID     int64  `json:"id"`
	ZoneID int64  `json:"zone_id"`
}

// parsePayload разбирает текст уведомления pg_notify
func parsePayload(data string) (Event, error) {
	var raw rawPayload
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Event{}, fmt.Errorf("events: malformed payload: %w", err)
	}

	return Event{
		Table:    raw.Table,
		Op:       raw.Op,
		EntityID: raw.ID,
		ZoneID:   raw.ZoneID,
	}, nil
}
