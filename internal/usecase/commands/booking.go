package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/domain/user"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/patch"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Actor identifies the authenticated caller of a command.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type CreateBookingInput struct {
	RoomID          uuid.UUID
	ClientID        uuid.UUID
	StaffAssigned   []uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Purpose         string
	Attendees       int
	SpecialRequests string
	Equipment       []queries.EquipmentRequest
	Currency        string
}

type UpdateBookingInput struct {
	RoomID          *uuid.UUID
	StartTime       *time.Time
	EndTime         *time.Time
	Purpose         *string
	Attendees       *int
	SpecialRequests *string
	Equipment       []queries.EquipmentRequest // nil means keep current lines
	StaffAssigned   []uuid.UUID                // nil means keep current assignment
}

type BookingCommands interface {
	Create(ctx context.Context, actor Actor, in CreateBookingInput) (uuid.UUID, error)
	Update(ctx context.Context, actor Actor, bookingID uuid.UUID, in UpdateBookingInput) error
	Confirm(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	Cancel(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) error
	Complete(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	AddNote(ctx context.Context, actor Actor, bookingID uuid.UUID, content string) error
	AttachPrepMaterial(ctx context.Context, actor Actor, bookingID uuid.UUID, in PrepMaterialInput) error
}

type PrepMaterialInput struct {
	Title       string
	Description string
	FileURL     string
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cache queries.AvailabilityCache
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cache queries.AvailabilityCache) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk, cache: cache}
}

const reminderLead = 24 * time.Hour

func (c *bookingCommandsImpl) Create(ctx context.Context, actor Actor, in CreateBookingInput) (uuid.UUID, error) {
	if !actor.Role.Has(user.CapCreateBooking) {
		return uuid.Nil, ErrForbidden
	}
	// Clients book for themselves only.
	if actor.Role == user.RoleClient && in.ClientID != actor.ID {
		return uuid.Nil, ErrForbidden
	}

	slot, err := booking.NewTimeSlot(in.StartTime, in.EndTime)
	if err != nil {
		return uuid.Nil, err
	}
	lines, err := toEquipmentLines(in.Equipment)
	if err != nil {
		return uuid.Nil, err
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		room, err := tx.Reads().RoomByID(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomNotFound
		}
		if !room.Fits(in.Attendees) {
			return ErrRoomCapacityExceeded
		}

		if err := checkRoomFree(ctx, tx, in.RoomID, slot, nil); err != nil {
			return err
		}
		if err := checkEquipmentFree(ctx, tx, in.Equipment, slot, nil); err != nil {
			return err
		}

		b, err := booking.NewBooking(booking.NewBookingInput{
			StudioID:        room.StudioID(),
			RoomID:          in.RoomID,
			ClientID:        in.ClientID,
			StaffAssigned:   in.StaffAssigned,
			Slot:            slot,
			Purpose:         in.Purpose,
			Attendees:       in.Attendees,
			SpecialRequests: in.SpecialRequests,
			Equipment:       lines,
		})
		if err != nil {
			return err
		}

		pay, err := payment.NewRecord(quoteCents(room.HourlyRateCents(), slot.Duration()), in.Currency)
		if err != nil {
			return err
		}

		id, err := tx.Bookings().Create(ctx, b, pay)
		if err != nil {
			return err
		}
		bookingID = id

		if err := tx.Bookings().AppendNote(ctx, id, c.note(actor.ID, "booking created")); err != nil {
			return err
		}
		if err := c.enqueueEvent(ctx, tx, "booking_created", id, in.ClientID); err != nil {
			return err
		}
		// Reminder fires a day before the session, or immediately for
		// bookings made inside the lead window.
		runAt := slot.Start().Add(-reminderLead)
		if now := c.clock.Now(); runAt.Before(now) {
			runAt = now
		}
		return c.enqueueEventAt(ctx, tx, "booking_reminder", id, in.ClientID, runAt)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// The exclusion constraint caught an overlap the advisory
			// pre-check missed, typically a racing writer.
			return uuid.Nil, &ConflictError{}
		}
		return uuid.Nil, err
	}

	c.invalidateRoom(ctx, in.RoomID)
	return bookingID, nil
}

func (c *bookingCommandsImpl) Update(ctx context.Context, actor Actor, bookingID uuid.UUID, in UpdateBookingInput) error {
	var roomsTouched []uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadOwned(ctx, tx, actor, bookingID, user.CapUpdateAny)
		if err != nil {
			return err
		}
		if b.Status().IsTerminal() {
			return &InvalidTransitionError{From: b.Status(), To: b.Status()}
		}
		// Clients may only reshape their booking while it is pending;
		// confirmed bookings change through staff.
		if !actor.Role.Has(user.CapUpdateAny) && b.Status() != booking.StatusPending {
			return ErrForbidden
		}
		roomsTouched = append(roomsTouched, b.RoomID())

		roomID := patch.Coalesce(in.RoomID, b.RoomID())
		slot := b.Slot()
		if in.StartTime != nil || in.EndTime != nil {
			slot, err = booking.NewTimeSlot(
				patch.Coalesce(in.StartTime, slot.Start()),
				patch.Coalesce(in.EndTime, slot.End()),
			)
			if err != nil {
				return err
			}
		}

		rescheduled := roomID != b.RoomID() || !slot.Start().Equal(b.Slot().Start()) || !slot.End().Equal(b.Slot().End())
		if rescheduled {
			room, err := tx.Reads().RoomByID(ctx, roomID)
			if err != nil {
				return err
			}
			if room == nil {
				return ErrRoomNotFound
			}
			exclude := b.ID()
			if err := checkRoomFree(ctx, tx, roomID, slot, &exclude); err != nil {
				return err
			}
			if err := b.Reschedule(roomID, slot); err != nil {
				return err
			}
			roomsTouched = append(roomsTouched, roomID)
		}

		if in.Equipment != nil {
			lines, err := toEquipmentLines(in.Equipment)
			if err != nil {
				return err
			}
			exclude := b.ID()
			if err := checkEquipmentFree(ctx, tx, in.Equipment, slot, &exclude); err != nil {
				return err
			}
			if err := b.ReplaceEquipment(lines); err != nil {
				return err
			}
		} else if rescheduled && len(b.Equipment()) > 0 {
			// Moving the slot changes which other bookings compete for
			// the same gear, so the current lines are re-checked too.
			reqs := make([]queries.EquipmentRequest, 0, len(b.Equipment()))
			for _, line := range b.Equipment() {
				reqs = append(reqs, queries.EquipmentRequest{EquipmentID: line.EquipmentID(), Quantity: line.Quantity()})
			}
			exclude := b.ID()
			if err := checkEquipmentFree(ctx, tx, reqs, slot, &exclude); err != nil {
				return err
			}
		}

		if in.Purpose != nil || in.Attendees != nil || in.SpecialRequests != nil {
			err := b.SetDetails(
				patch.Coalesce(in.Purpose, b.Purpose()),
				patch.Coalesce(in.Attendees, b.Attendees()),
				patch.Coalesce(in.SpecialRequests, b.SpecialRequests()),
			)
			if err != nil {
				return err
			}
		}
		if in.StaffAssigned != nil {
			if !actor.Role.Has(user.CapUpdateAny) {
				return ErrForbidden
			}
			b.AssignStaff(in.StaffAssigned)
		}

		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		return tx.Bookings().AppendNote(ctx, bookingID, c.note(actor.ID, "booking updated"))
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return &ConflictError{}
		}
		return err
	}

	for _, roomID := range roomsTouched {
		c.invalidateRoom(ctx, roomID)
	}
	return nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	if !actor.Role.Has(user.CapConfirmBooking) {
		return ErrForbidden
	}
	return c.transition(ctx, actor, bookingID, booking.StatusConfirmed, "booking confirmed", "booking_confirmed",
		func(b *booking.Booking) error { return b.Confirm() })
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) error {
	note := "booking cancelled"
	if reason != "" {
		note = "booking cancelled: " + reason
	}
	var roomID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadOwned(ctx, tx, actor, bookingID, user.CapCancelAny)
		if err != nil {
			return err
		}
		roomID = b.RoomID()
		if err := b.Cancel(); err != nil {
			return &InvalidTransitionError{From: b.Status(), To: booking.StatusCancelled}
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, b.Status()); err != nil {
			return err
		}
		if err := tx.Bookings().AppendNote(ctx, bookingID, c.note(actor.ID, note)); err != nil {
			return err
		}
		return c.enqueueEvent(ctx, tx, "booking_cancelled", bookingID, b.ClientID())
	})
	if err != nil {
		return err
	}
	c.invalidateRoom(ctx, roomID)
	return nil
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	if !actor.Role.Has(user.CapCompleteBooking) {
		return ErrForbidden
	}
	now := c.clock.Now()
	return c.transition(ctx, actor, bookingID, booking.StatusCompleted, "booking completed", "booking_completed",
		func(b *booking.Booking) error { return b.Complete(now) })
}

func (c *bookingCommandsImpl) AddNote(ctx context.Context, actor Actor, bookingID uuid.UUID, content string) error {
	if content == "" {
		return errs.New("note content is required")
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := c.loadOwned(ctx, tx, actor, bookingID, user.CapUpdateAny); err != nil {
			return err
		}
		return tx.Bookings().AppendNote(ctx, bookingID, c.note(actor.ID, content))
	})
}

// AttachPrepMaterial records a file reference for the session; it does not
// store the file itself.
func (c *bookingCommandsImpl) AttachPrepMaterial(ctx context.Context, actor Actor, bookingID uuid.UUID, in PrepMaterialInput) error {
	if in.Title == "" || in.FileURL == "" {
		return errs.New("material title and file url are required")
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadOwned(ctx, tx, actor, bookingID, user.CapUpdateAny)
		if err != nil {
			return err
		}
		if b.Status().IsTerminal() {
			return &InvalidTransitionError{From: b.Status(), To: b.Status()}
		}
		return tx.Bookings().AttachPrepMaterial(ctx, bookingID, booking.PrepMaterial{
			Title:       in.Title,
			Description: in.Description,
			FileURL:     in.FileURL,
			UploadedBy:  actor.ID,
			UploadedAt:  c.clock.Now(),
		})
	})
}

func (c *bookingCommandsImpl) note(actorID uuid.UUID, content string) booking.Note {
	return booking.Note{AuthorID: actorID, Content: content, CreatedAt: c.clock.Now()}
}

// transition runs a status change end to end: load with row lock, apply the
// domain rule, persist, audit, enqueue the event.
func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
	target booking.Status,
	note, eventKind string,
	apply func(b *booking.Booking) error,
) error {
	var roomID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}
		roomID = b.RoomID()
		from := b.Status()
		if err := apply(b); err != nil {
			if errors.Is(err, booking.ErrInvalidTransition) {
				return &InvalidTransitionError{From: from, To: target}
			}
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, b.Status()); err != nil {
			return err
		}
		if err := tx.Bookings().AppendNote(ctx, bookingID, c.note(actor.ID, note)); err != nil {
			return err
		}
		return c.enqueueEvent(ctx, tx, eventKind, bookingID, b.ClientID())
	})
	if err != nil {
		return err
	}
	c.invalidateRoom(ctx, roomID)
	return nil
}

// loadOwned loads a booking and enforces that the actor either holds the
// override capability or owns the booking as its client.
func (c *bookingCommandsImpl) loadOwned(ctx context.Context, tx shared.Tx, actor Actor, bookingID uuid.UUID, override user.Capability) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !actor.Role.Has(override) && b.ClientID() != actor.ID {
		return nil, ErrForbidden
	}
	return b, nil
}

func checkRoomFree(ctx context.Context, tx shared.Tx, roomID uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) error {
	conflicts, err := tx.Bookings().FindRoomConflicts(ctx, roomID, slot, exclude)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

func checkEquipmentFree(ctx context.Context, tx shared.Tx, items []queries.EquipmentRequest, slot booking.TimeSlot, exclude *uuid.UUID) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.EquipmentID)
	}
	catalog, err := tx.Reads().EquipmentByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return errs.Mark(errs.New("unknown equipment id "+id.String()), ErrEquipmentNotFound)
		}
	}
	reserved, err := tx.Bookings().SumEquipmentReserved(ctx, ids, slot, exclude)
	if err != nil {
		return err
	}
	if result := queries.EvaluateShortages(items, catalog, reserved); !result.Available {
		return &ShortageError{Shortages: result.Shortages}
	}
	return nil
}

func toEquipmentLines(items []queries.EquipmentRequest) ([]booking.EquipmentLine, error) {
	lines := make([]booking.EquipmentLine, 0, len(items))
	for _, item := range items {
		line, err := booking.NewEquipmentLine(item.EquipmentID, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// quoteCents prices the slot at the room's hourly rate, pro-rated by the
// minute and rounded to the nearest cent.
func quoteCents(hourlyRateCents int64, d time.Duration) int64 {
	minutes := int64(d / time.Minute)
	return (hourlyRateCents*minutes + 30) / 60
}

type eventPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
	ClientID  uuid.UUID `json:"client_id"`
}

func (c *bookingCommandsImpl) enqueueEvent(ctx context.Context, tx shared.Tx, kind string, bookingID, clientID uuid.UUID) error {
	return c.enqueueEventAt(ctx, tx, kind, bookingID, clientID, c.clock.Now())
}

func (c *bookingCommandsImpl) enqueueEventAt(ctx context.Context, tx shared.Tx, kind string, bookingID, clientID uuid.UUID, runAt time.Time) error {
	payload, err := json.Marshal(eventPayload{BookingID: bookingID, ClientID: clientID})
	if err != nil {
		return errs.Wrap(err, "marshal notification payload")
	}
	return tx.Notifications().CreateJob(ctx, kind, "bookings/"+bookingID.String(), payload, runAt)
}

func (c *bookingCommandsImpl) invalidateRoom(ctx context.Context, roomID uuid.UUID) {
	if c.cache == nil || roomID == uuid.Nil {
		return
	}
	// Cache invalidation is best-effort; the pre-check is advisory only.
	_ = c.cache.InvalidateRoom(ctx, roomID)
}
