package api

import (
	"errors"
	"net/http"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary Check room availability
// @Description Report whether a room is free for a half-open time range; touching edges do not conflict
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param room_id query string true "Room ID"
// @Param start_time query string true "Range start (RFC 3339)"
// @Param end_time query string true "Range end (RFC 3339)"
// @Param exclude_booking_id query string false "Booking to ignore, for edit flows"
// @Success 200 {object} resdto.RoomAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/rooms [get]
func (h *AvailabilityHandler) CheckRoom(c *gin.Context) {
	var q reqdto.RoomAvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	result, err := h.availability.CheckRoom(c.Request.Context(), q.RoomID, q.StartTime, q.EndTime, q.Exclude)
	if err != nil {
		respondAvailabilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRoomAvailability(result))
}

// @Summary Check equipment availability
// @Description Report per-item shortages for a set of equipment requests over a time range
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.EquipmentAvailabilityRequest true "Items and time range"
// @Success 200 {object} resdto.EquipmentAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/equipment [post]
func (h *AvailabilityHandler) CheckEquipment(c *gin.Context) {
	var req reqdto.EquipmentAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	items := toEquipmentRequests(req.Items)
	result, err := h.availability.CheckEquipment(c.Request.Context(), items, req.StartTime, req.EndTime, req.Exclude)
	if err != nil {
		respondAvailabilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEquipmentAvailability(result))
}

func respondAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrInvalidRange), errors.Is(err, queries.ErrInvalidQuantity), errors.Is(err, queries.ErrNoEquipment):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.Is(err, queries.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", nil)
	case errors.Is(err, queries.ErrEquipmentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Equipment not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
