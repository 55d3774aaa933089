package get_free_slots

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// freeSlots вычисляет свободные номера слотов из диапазона [1, capacity]
// для кандидатного окна. Слот занят, если хотя бы одно бронирование,
// удерживающее слот, пересекается с окном по правилу полуоткрытых интервалов:
// existing.start < candidate.end AND candidate.start < existing.end.
// Граничные случаи (окна встык) пересечением не считаются.
func freeSlots(candidate domain.Window, capacity int, reservations []*domain.Reservation) []int {
	// Некорректное окно защитно трактуется как "свободных слотов нет"
	if !candidate.IsValid() || capacity <= 0 {
		return []int{}
	}

	occupied := make(map[int]bool, len(reservations))
	for _, res := range reservations {
		// Завершённые/истекшие/отменённые бронирования слот не удерживают
		if !res.ClaimsSlot() {
			continue
		}
		if res.Window().Overlaps(candidate) {
			occupied[res.SlotNumber] = true
		}
	}

	free := make([]int, 0, capacity)
	for slot := 1; slot <= capacity; slot++ {
		if !occupied[slot] {
			free = append(free, slot)
		}
	}

	return free
}
