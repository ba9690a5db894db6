package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ConflictResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type RoomAvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

type ShortageResponse struct {
	EquipmentID    uuid.UUID `json:"equipment_id"`
	Requested      int       `json:"requested"`
	AvailableCount int       `json:"available_count"`
}

type EquipmentAvailabilityResponse struct {
	Available bool               `json:"available"`
	Shortages []ShortageResponse `json:"shortages"`
}

// Conflict responses deliberately omit the other client's identity.
func FromRoomAvailability(result *queries.RoomAvailabilityResult) RoomAvailabilityResponse {
	resp := RoomAvailabilityResponse{
		Available: result.Available,
		Conflicts: make([]ConflictResponse, 0, len(result.Conflicts)),
	}
	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictResponse{
			ID:        c.ID,
			RoomID:    c.RoomID,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Status:    c.Status,
		})
	}
	return resp
}

func FromEquipmentAvailability(result *queries.EquipmentAvailabilityResult) EquipmentAvailabilityResponse {
	resp := EquipmentAvailabilityResponse{
		Available: result.Available,
		Shortages: make([]ShortageResponse, 0, len(result.Shortages)),
	}
	for _, s := range result.Shortages {
		resp.Shortages = append(resp.Shortages, ShortageResponse{
			EquipmentID:    s.EquipmentID,
			Requested:      s.Requested,
			AvailableCount: s.AvailableCount,
		})
	}
	return resp
}

func ShortagesFrom(shortages []queries.EquipmentShortage) []ShortageResponse {
	out := make([]ShortageResponse, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, ShortageResponse{
			EquipmentID:    s.EquipmentID,
			Requested:      s.Requested,
			AvailableCount: s.AvailableCount,
		})
	}
	return out
}

func ConflictsFrom(conflicts []queries.BookingSummary) []ConflictResponse {
	out := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictResponse{
			ID:        c.ID,
			RoomID:    c.RoomID,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Status:    c.Status,
		})
	}
	return out
}
