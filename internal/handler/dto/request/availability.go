package request

import (
	"time"

	"github.com/google/uuid"
)

type RoomAvailabilityQuery struct {
	RoomID    uuid.UUID  `form:"room_id" binding:"required"`
	StartTime time.Time  `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time  `form:"end_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Exclude   *uuid.UUID `form:"exclude_booking_id"`
}

// EquipmentAvailabilityRequest checks several items in one round trip so a
// client can validate a whole booking form at once.
type EquipmentAvailabilityRequest struct {
	Items     []EquipmentLineRequest `json:"items" binding:"required,min=1,dive"`
	StartTime time.Time              `json:"start_time" binding:"required"`
	EndTime   time.Time              `json:"end_time" binding:"required,gtfield=StartTime"`
	Exclude   *uuid.UUID             `json:"exclude_booking_id"`
}
