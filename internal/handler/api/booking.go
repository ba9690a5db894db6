package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/payment"
	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookings commands.BookingCommands
	payments commands.PaymentCommands
	reads    queries.BookingQueries
}

func NewBookingHandler(bookings commands.BookingCommands, payments commands.PaymentCommands, reads queries.BookingQueries) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments, reads: reads}
}

// @Summary Create booking
// @Description Book a room, optionally reserving equipment for the slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.bookings.Create(c.Request.Context(), actor, commands.CreateBookingInput{
		RoomID:          req.RoomID,
		ClientID:        req.ClientID,
		StaffAssigned:   req.StaffAssigned,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Purpose:         req.Purpose,
		Attendees:       req.Attendees,
		SpecialRequests: req.SpecialRequests,
		Equipment:       toEquipmentRequests(req.Equipment),
		Currency:        req.Currency,
	})
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.reads.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListItemResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items, err := h.reads.ListByClient(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary List room schedule
// @Description Bookings touching the given range on one room
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {array} resdto.BookingListItemResponse
// @Failure 400 {object} map[string]string
// @Router /rooms/{id}/bookings [get]
func (h *BookingHandler) ListByRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp"})
		return
	}

	items, err := h.reads.ListByRoom(c.Request.Context(), roomID, from, to)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary Update booking
// @Description Reschedule, change equipment, or edit details
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings/{id} [patch]
func (h *BookingHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	in := commands.UpdateBookingInput{
		RoomID:          req.RoomID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Purpose:         req.Purpose,
		Attendees:       req.Attendees,
		SpecialRequests: req.SpecialRequests,
		StaffAssigned:   req.StaffAssigned,
	}
	if req.Equipment != nil {
		in.Equipment = toEquipmentRequests(req.Equipment)
	}

	if err := h.bookings.Update(c.Request.Context(), actor, id, in); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Confirm booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.lifecycle(c, h.bookings.Confirm)
}

// @Summary Complete booking
// @Description Allowed only after the booking's end time has passed
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.lifecycle(c, h.bookings.Complete)
}

// @Summary Cancel booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 204
// @Failure 409 {object} map[string]any
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	if err := h.bookings.Cancel(c.Request.Context(), actor, id, req.Reason); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Add note
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AddNoteRequest true "Note"
// @Success 204
// @Router /bookings/{id}/notes [post]
func (h *BookingHandler) AddNote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bookings.AddNote(c.Request.Context(), actor, id, req.Content); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Attach prep material
// @Description Record a file reference for the session; the file itself is stored elsewhere
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AttachPrepMaterialRequest true "Material"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings/{id}/materials [post]
func (h *BookingHandler) AttachPrepMaterial(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.AttachPrepMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bookings.AttachPrepMaterial(c.Request.Context(), actor, id, commands.PrepMaterialInput{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
	}); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Record payment transaction
// @Description Append a payment or refund to the booking's ledger
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RecordTransactionRequest true "Transaction"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/payments [post]
func (h *BookingHandler) RecordTransaction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status, err := h.payments.RecordTransaction(c.Request.Context(), actor, id, commands.RecordTransactionInput{
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Notes:       req.Notes,
	})
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PaymentStatusResponse{Status: status.String()})
}

func (h *BookingHandler) lifecycle(c *gin.Context, op func(ctx context.Context, actor commands.Actor, id uuid.UUID) error) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), actor, id); err != nil {
		respondCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func currentActor(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: userID, Role: role}, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func toEquipmentRequests(lines []reqdto.EquipmentLineRequest) []queries.EquipmentRequest {
	out := make([]queries.EquipmentRequest, 0, len(lines))
	for _, line := range lines {
		out = append(out, queries.EquipmentRequest{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}
	return out
}

// respondCommandError maps command-layer failures onto the HTTP surface.
// Conflict and shortage errors carry their full report so callers can show
// what blocks the request.
func respondCommandError(c *gin.Context, err error) {
	var conflict *commands.ConflictError
	var shortage *commands.ShortageError
	var transition *commands.InvalidTransitionError

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Room is not available for the requested time",
			"conflicts": resdto.ConflictsFrom(conflict.Conflicts),
		})
	case errors.As(err, &shortage):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Insufficient equipment for the requested time",
			"shortages": resdto.ShortagesFrom(shortage.Shortages),
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Illegal status transition",
			"from":  transition.From.String(),
			"to":    transition.To.String(),
		})
	case errors.Is(err, booking.ErrNotYetEnded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking cannot be completed before its end time",
		})
	case errors.Is(err, payment.ErrOverRefund):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Refund exceeds net paid amount",
		})
	case errors.Is(err, payment.ErrOverPayment):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Payment exceeds outstanding amount",
		})
	case errors.Is(err, payment.ErrInvalidAmount), errors.Is(err, payment.ErrInvalidKind):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, commands.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, commands.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, commands.ErrEquipmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
	case errors.Is(err, commands.ErrRoomCapacityExceeded),
		errors.Is(err, booking.ErrInvalidTimeRange),
		errors.Is(err, booking.ErrInvalidAttendees),
		errors.Is(err, booking.ErrInvalidQuantity),
		errors.Is(err, booking.ErrDuplicateEquipment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
