package domain

import "time"

// Projection derived display values for a reservation at a given instant.
// Pure data, recomputed on demand; never persisted.
type Projection struct {
	Status               ReservationStatus
	TimeRemainingSeconds int64
	ProgressPercent      float64
}

// Project computes the countdown/progress view of a reservation as of now.
// Stateless on purpose: callers drive it from whatever scheduling primitive
// they use (ticker on the server, refetch on the client).
func Project(now time.Time, r *Reservation) Projection {
	w := r.Window()
	status := r.EffectiveStatus(now)

	remaining := int64(0)
	if status == StatusUpcoming || status == StatusActive {
		if d := w.End().Sub(now); d > 0 {
			// Округляем вверх, чтобы последняя секунда не показывала ноль
			remaining = int64((d + time.Second - 1) / time.Second)
		}
	}

	progress := 0.0
	if w.Duration > 0 {
		elapsed := now.Sub(w.Start)
		progress = float64(elapsed) / float64(w.Duration) * 100
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
	}

	// Завершённые и истекшие сессии всегда показывают полный прогресс
	if r.IsTerminal() && status != StatusCancelled {
		progress = 100
		remaining = 0
	}

	return Projection{
		Status:               status,
		TimeRemainingSeconds: remaining,
		ProgressPercent:      progress,
	}
}
