package events

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

const (
	// subscriberBuffer размер буфера канала подписчика: медленный клиент
	// теряет события, а не блокирует доставку остальным
	subscriberBuffer = 64

	// replayTTL время жизни события в буфере повторной доставки
	replayTTL = 5 * time.Minute

	// pingInterval интервал проверки соединения с БД, рекомендация lib/pq
	pingInterval = 90 * time.Second
)

// NotificationSource источник уведомлений БД.
// Адаптер над *pq.Listener; интерфейс нужен для тестирования без Postgres
type NotificationSource interface {
	Listen(channel string) error
	Notifications() <-chan *pq.Notification
	Ping() error
	Close() error
}

// PQSource адаптер pq.Listener под NotificationSource
type PQSource struct {
	*pq.Listener
}

// Notifications возвращает канал уведомлений слушателя
func (s PQSource) Notifications() <-chan *pq.Notification {
	return s.Listener.Notify
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Subscription подписка на поток изменений
type Subscription struct {
	ID     string
	ZoneID int64 // 0 - все зоны
	C      <-chan Event

	ch chan Event
}

// Hub доставляет изменения БД подключённым клиентам.
// События приходят из триггеров через LISTEN/NOTIFY, нумеруются в пределах
// процесса и раскладываются по каналам подписчиков. Короткий буфер повторной
// доставки позволяет переподключившемуся клиенту дочитать пропущенное по seq
type Hub struct {
	source  NotificationSource
	metrics *metrics.Metrics
	logger  Logger

	mu     sync.RWMutex
	subs   map[string]*Subscription
	replay *cache.Cache
	seq    atomic.Int64
}

// NewHub создает новый хаб событий
func NewHub(source NotificationSource, m *metrics.Metrics, logger Logger) *Hub {
	return &Hub{
		source:  source,
		metrics: m,
		logger:  logger,
		subs:    make(map[string]*Subscription),
		replay:  cache.New(replayTTL, replayTTL),
	}
}

// Run слушает канал БД до отмены контекста
func (h *Hub) Run(ctx context.Context) error {
	if err := h.source.Listen(Channel); err != nil {
		h.logger.Error("Hub: failed to listen on %s: %v", Channel, err)
		return err
	}
	h.logger.Info("Hub: listening on channel %s", Channel)

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Hub: stopped")
			return h.source.Close()

		case n := <-h.source.Notifications():
			// nil приходит после восстановления соединения: уведомления
			// могли потеряться, клиенты дочитают состояние сами
			if n == nil {
				h.logger.Warn("Hub: connection re-established, notifications may have been lost")
				continue
			}
			ev, err := parsePayload(n.Extra)
			if err != nil {
				h.logger.Error("Hub: %v", err)
				continue
			}
			h.Publish(ev)

		case <-pingTicker.C:
			if err := h.source.Ping(); err != nil {
				h.logger.Error("Hub: ping failed: %v", err)
			}
		}
	}
}

// Publish нумерует событие, кладёт его в буфер повторной доставки
// и раздаёт подписчикам. Переполненный подписчик событие теряет
func (h *Hub) Publish(ev Event) {
	ev.Seq = h.seq.Add(1)
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.replay.Set(strconv.FormatInt(ev.Seq, 10), ev, cache.DefaultExpiration)

	if h.metrics != nil {
		h.metrics.EventsPublishedTotal.WithLabelValues(ev.Table).Inc()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.ZoneID != 0 && ev.ZoneID != sub.ZoneID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("Hub: subscriber %s is slow, dropping event seq=%d", sub.ID, ev.Seq)
		}
	}
}

// Subscribe регистрирует подписчика.
// zoneID = 0 подписывает на изменения всех зон
func (h *Hub) Subscribe(zoneID int64) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{
		ID:     uuid.NewString(),
		ZoneID: zoneID,
		C:      ch,
		ch:     ch,
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.StreamSubscribers.WithLabelValues("sse").Inc()
	}

	h.logger.Info("Hub: subscriber %s connected (zone=%d)", sub.ID, zoneID)
	return sub
}

// Unsubscribe снимает подписку и закрывает канал подписчика
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	close(sub.ch)
	if h.metrics != nil {
		h.metrics.StreamSubscribers.WithLabelValues("sse").Dec()
	}
	h.logger.Info("Hub: subscriber %s disconnected", id)
}

// Replay возвращает события с seq больше указанного, по возрастанию.
// Используется при переподключении клиента с заголовком Last-Event-ID
func (h *Hub) Replay(afterSeq int64, zoneID int64) []Event {
	items := h.replay.Items()

	out := make([]Event, 0, len(items))
	for _, item := range items {
		ev, ok := item.Object.(Event)
		if !ok || ev.Seq <= afterSeq {
			continue
		}
		if zoneID != 0 && ev.ZoneID != zoneID {
			continue
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
