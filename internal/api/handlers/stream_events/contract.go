package stream_events

import (
	"github.com/m04kA/SMC-ParkingService/internal/events"
)

// EventStream интерфейс хаба событий
type EventStream interface {
	Subscribe(zoneID int64) *events.Subscription
	Unsubscribe(id string)
	Replay(afterSeq int64, zoneID int64) []events.Event
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
