//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/equipment"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/domain/user"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes over the shared ports ----

type fakeState struct {
	bookings  map[uuid.UUID]*booking.Booking
	payments  map[uuid.UUID]payment.Record
	rooms     map[uuid.UUID]*studio.Room
	catalog   map[uuid.UUID]*equipment.Equipment
	notes     []string
	materials []booking.PrepMaterial
	jobs      []string
	createErr error // forced failure for the next Create

	createdUser   *user.User
	userCreateErr error
}

func newFakeState() *fakeState {
	return &fakeState{
		bookings: make(map[uuid.UUID]*booking.Booking),
		payments: make(map[uuid.UUID]payment.Record),
		rooms:    make(map[uuid.UUID]*studio.Room),
		catalog:  make(map[uuid.UUID]*equipment.Equipment),
	}
}

type fakeUow struct{ tx *fakeTx }

func (u *fakeUow) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

type fakeTx struct{ s *fakeState }

func (t *fakeTx) Bookings() shared.BookingRepository           { return (*fakeBookingRepo)(t) }
func (t *fakeTx) Payments() shared.PaymentRepository           { return (*fakePaymentRepo)(t) }
func (t *fakeTx) Users() shared.UserRepository                 { return (*fakeUserRepo)(t) }
func (t *fakeTx) Notifications() shared.NotificationRepository { return (*fakeNotifRepo)(t) }
func (t *fakeTx) Reads() shared.CommandReads                   { return (*fakeReads)(t) }

type fakeBookingRepo fakeTx

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking, pay payment.Record) (uuid.UUID, error) {
	if r.s.createErr != nil {
		return uuid.Nil, r.s.createErr
	}
	r.s.bookings[b.ID()] = b
	r.s.payments[b.ID()] = pay
	return b.ID(), nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.s.bookings[id], nil
}

func (r *fakeBookingRepo) Update(_ context.Context, _ *booking.Booking) error { return nil }

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ booking.Status) error {
	return nil
}

func (r *fakeBookingRepo) AppendNote(_ context.Context, _ uuid.UUID, note booking.Note) error {
	r.s.notes = append(r.s.notes, note.Content)
	return nil
}

func (r *fakeBookingRepo) AttachPrepMaterial(_ context.Context, _ uuid.UUID, material booking.PrepMaterial) error {
	r.s.materials = append(r.s.materials, material)
	return nil
}

func (r *fakeBookingRepo) FindRoomConflicts(_ context.Context, roomID uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) ([]queries.BookingSummary, error) {
	var out []queries.BookingSummary
	for id, b := range r.s.bookings {
		if exclude != nil && id == *exclude {
			continue
		}
		if b.RoomID() != roomID || !b.Status().Blocks() || !b.Slot().Overlaps(slot) {
			continue
		}
		out = append(out, queries.BookingSummary{
			ID:        id,
			RoomID:    b.RoomID(),
			ClientID:  b.ClientID(),
			StartTime: b.Slot().Start(),
			EndTime:   b.Slot().End(),
			Status:    b.Status().String(),
		})
	}
	return out, nil
}

func (r *fakeBookingRepo) SumEquipmentReserved(_ context.Context, ids []uuid.UUID, slot booking.TimeSlot, exclude *uuid.UUID) (map[uuid.UUID]int, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[uuid.UUID]int)
	for id, b := range r.s.bookings {
		if exclude != nil && id == *exclude {
			continue
		}
		if !b.Status().Blocks() || !b.Slot().Overlaps(slot) {
			continue
		}
		for _, line := range b.Equipment() {
			if _, ok := wanted[line.EquipmentID()]; ok {
				out[line.EquipmentID()] += line.Quantity()
			}
		}
	}
	return out, nil
}

type fakePaymentRepo fakeTx

func (r *fakePaymentRepo) RecordForBooking(_ context.Context, bookingID uuid.UUID) (payment.Record, error) {
	return r.s.payments[bookingID], nil
}

func (r *fakePaymentRepo) AppendTransaction(_ context.Context, bookingID uuid.UUID, tx payment.Transaction, _ payment.Status) error {
	rec := r.s.payments[bookingID]
	r.s.payments[bookingID] = payment.ReconstructRecord(
		rec.AmountCents(), rec.Currency(), append(rec.Transactions(), tx),
	)
	return nil
}

type fakeUserRepo fakeTx

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) (uuid.UUID, error) {
	if r.s.userCreateErr != nil {
		return uuid.Nil, r.s.userCreateErr
	}
	r.s.createdUser = u
	return u.ID(), nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

type fakeNotifRepo fakeTx

func (r *fakeNotifRepo) CreateJob(_ context.Context, kind, _ string, _ []byte, _ time.Time) error {
	r.s.jobs = append(r.s.jobs, kind)
	return nil
}

type fakeReads fakeTx

func (r *fakeReads) RoomByID(_ context.Context, id uuid.UUID) (*studio.Room, error) {
	return r.s.rooms[id], nil
}

func (r *fakeReads) EquipmentByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*equipment.Equipment, error) {
	out := make(map[uuid.UUID]*equipment.Equipment)
	for _, id := range ids {
		if eq, ok := r.s.catalog[id]; ok {
			out[id] = eq
		}
	}
	return out, nil
}

// ---- test env ----

type env struct {
	state *fakeState
	clock *clock.MockClock
	cmds  commands.BookingCommands
	pays  commands.PaymentCommands
	auth  commands.AuthCommands
}

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()
	state := newFakeState()
	clk := clock.NewMockClock(baseTime)
	uow := &fakeUow{tx: &fakeTx{s: state}}
	return &env{
		state: state,
		clock: clk,
		cmds:  commands.NewBookingCommands(uow, clk, nil),
		pays:  commands.NewPaymentCommands(uow, clk),
		auth:  commands.NewAuthCommands(uow, nil, nil),
	}
}

func (e *env) addRoom(t *testing.T, capacity int, rateCents int64) uuid.UUID {
	t.Helper()
	room, err := studio.NewRoom(uuid.New(), "Room A", capacity, rateCents)
	require.NoError(t, err)
	e.state.rooms[room.ID()] = room
	return room.ID()
}

func (e *env) addEquipment(t *testing.T, stock int) uuid.UUID {
	t.Helper()
	eq, err := equipment.NewEquipment(uuid.New(), "Condenser Mic", stock)
	require.NoError(t, err)
	e.state.catalog[eq.ID()] = eq
	return eq.ID()
}

func staffActor() commands.Actor {
	return commands.Actor{ID: uuid.New(), Role: user.RoleStaff}
}

func clientActor() commands.Actor {
	return commands.Actor{ID: uuid.New(), Role: user.RoleClient}
}

func createInput(roomID, clientID uuid.UUID, startOffset, endOffset time.Duration) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		RoomID:    roomID,
		ClientID:  clientID,
		StartTime: baseTime.Add(startOffset),
		EndTime:   baseTime.Add(endOffset),
		Attendees: 3,
		Purpose:   "rehearsal",
	}
}

// ---- tests ----

func TestBookingCommands_Create(t *testing.T) {
	t.Run("creates a pending booking with a quoted ledger", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		actor := clientActor()

		id, err := e.cmds.Create(context.Background(), actor, createInput(roomID, actor.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)

		b := e.state.bookings[id]
		require.NotNil(t, b)
		assert.Equal(t, booking.StatusPending, b.Status())

		rec := e.state.payments[id]
		assert.Equal(t, int64(12000), rec.AmountCents())
		assert.Equal(t, payment.StatusPending, rec.Status())
		assert.Contains(t, e.state.jobs, "booking_created")
		assert.Contains(t, e.state.jobs, "booking_reminder")
	})

	t.Run("client cannot book on behalf of another client", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)

		_, err := e.cmds.Create(context.Background(), clientActor(), createInput(roomID, uuid.New(), time.Hour, 2*time.Hour))
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("rejects unknown room", func(t *testing.T) {
		e := newEnv(t)
		actor := clientActor()

		_, err := e.cmds.Create(context.Background(), actor, createInput(uuid.New(), actor.ID, time.Hour, 2*time.Hour))
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("rejects attendees over capacity", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 2, 6000)
		actor := clientActor()
		in := createInput(roomID, actor.ID, time.Hour, 2*time.Hour)
		in.Attendees = 3

		_, err := e.cmds.Create(context.Background(), actor, in)
		assert.ErrorIs(t, err, commands.ErrRoomCapacityExceeded)
	})

	t.Run("overlapping booking on the same room reports the conflict", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		first := clientActor()
		firstID, err := e.cmds.Create(context.Background(), first, createInput(roomID, first.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)

		second := clientActor()
		_, err = e.cmds.Create(context.Background(), second, createInput(roomID, second.ID, 2*time.Hour, 4*time.Hour))

		var conflict *commands.ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, firstID, conflict.Conflicts[0].ID)
	})

	t.Run("back-to-back bookings do not conflict", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		first := clientActor()
		_, err := e.cmds.Create(context.Background(), first, createInput(roomID, first.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)

		second := clientActor()
		_, err = e.cmds.Create(context.Background(), second, createInput(roomID, second.ID, 3*time.Hour, 5*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("cancelled bookings never block the slot", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		first := clientActor()
		firstID, err := e.cmds.Create(context.Background(), first, createInput(roomID, first.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)
		require.NoError(t, e.cmds.Cancel(context.Background(), first, firstID, "changed plans"))

		second := clientActor()
		_, err = e.cmds.Create(context.Background(), second, createInput(roomID, second.ID, time.Hour, 3*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("equipment shortage lists every short item", func(t *testing.T) {
		e := newEnv(t)
		roomA := e.addRoom(t, 10, 6000)
		roomB := e.addRoom(t, 10, 6000)
		mics := e.addEquipment(t, 3)
		amps := e.addEquipment(t, 1)

		first := clientActor()
		in := createInput(roomA, first.ID, time.Hour, 3*time.Hour)
		in.Equipment = []queries.EquipmentRequest{
			{EquipmentID: mics, Quantity: 2},
			{EquipmentID: amps, Quantity: 1},
		}
		_, err := e.cmds.Create(context.Background(), first, in)
		require.NoError(t, err)

		second := clientActor()
		in2 := createInput(roomB, second.ID, 2*time.Hour, 4*time.Hour)
		in2.Equipment = []queries.EquipmentRequest{
			{EquipmentID: mics, Quantity: 2},
			{EquipmentID: amps, Quantity: 1},
		}
		_, err = e.cmds.Create(context.Background(), second, in2)

		var shortage *commands.ShortageError
		require.ErrorAs(t, err, &shortage)
		require.Len(t, shortage.Shortages, 2)
		for _, s := range shortage.Shortages {
			switch s.EquipmentID {
			case mics:
				assert.Equal(t, 2, s.Requested)
				assert.Equal(t, 1, s.AvailableCount)
			case amps:
				assert.Equal(t, 1, s.Requested)
				assert.Equal(t, 0, s.AvailableCount)
			default:
				t.Fatalf("unexpected shortage for %s", s.EquipmentID)
			}
		}
	})

	t.Run("exclusion constraint violation surfaces as a conflict", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		actor := clientActor()
		e.state.createErr = infra.RepositoryError{Kind: infra.KindConflict}

		_, err := e.cmds.Create(context.Background(), actor, createInput(roomID, actor.ID, time.Hour, 2*time.Hour))

		var conflict *commands.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("unknown equipment id is rejected", func(t *testing.T) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		actor := clientActor()
		in := createInput(roomID, actor.ID, time.Hour, 2*time.Hour)
		in.Equipment = []queries.EquipmentRequest{{EquipmentID: uuid.New(), Quantity: 1}}

		_, err := e.cmds.Create(context.Background(), actor, in)
		assert.ErrorIs(t, err, commands.ErrEquipmentNotFound)
	})
}

func TestBookingCommands_Lifecycle(t *testing.T) {
	setup := func(t *testing.T) (*env, commands.Actor, uuid.UUID) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		client := clientActor()
		id, err := e.cmds.Create(context.Background(), client, createInput(roomID, client.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)
		return e, client, id
	}

	t.Run("confirm requires staff capability", func(t *testing.T) {
		e, client, id := setup(t)
		err := e.cmds.Confirm(context.Background(), client, id)
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("pending confirms then completes after end time", func(t *testing.T) {
		e, _, id := setup(t)
		staff := staffActor()
		require.NoError(t, e.cmds.Confirm(context.Background(), staff, id))
		assert.Equal(t, booking.StatusConfirmed, e.state.bookings[id].Status())

		e.clock.Set(baseTime.Add(4 * time.Hour))
		require.NoError(t, e.cmds.Complete(context.Background(), staff, id))
		assert.Equal(t, booking.StatusCompleted, e.state.bookings[id].Status())
		assert.Contains(t, e.state.jobs, "booking_confirmed")
		assert.Contains(t, e.state.jobs, "booking_completed")
	})

	t.Run("completion before end time is refused", func(t *testing.T) {
		e, _, id := setup(t)
		staff := staffActor()
		require.NoError(t, e.cmds.Confirm(context.Background(), staff, id))

		e.clock.Set(baseTime.Add(2 * time.Hour))
		err := e.cmds.Complete(context.Background(), staff, id)
		assert.ErrorIs(t, err, booking.ErrNotYetEnded)
		assert.Equal(t, booking.StatusConfirmed, e.state.bookings[id].Status())
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		e, _, id := setup(t)
		e.clock.Set(baseTime.Add(4 * time.Hour))
		err := e.cmds.Complete(context.Background(), staffActor(), id)

		var transition *commands.InvalidTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, booking.StatusPending, transition.From)
		assert.Equal(t, booking.StatusCompleted, transition.To)
	})

	t.Run("terminal states absorb further transitions", func(t *testing.T) {
		e, client, id := setup(t)
		require.NoError(t, e.cmds.Cancel(context.Background(), client, id, ""))

		err := e.cmds.Confirm(context.Background(), staffActor(), id)
		var transition *commands.InvalidTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, booking.StatusCancelled, transition.From)

		err = e.cmds.Cancel(context.Background(), client, id, "")
		assert.ErrorAs(t, err, &transition)
	})

	t.Run("client cannot cancel another client's booking", func(t *testing.T) {
		e, _, id := setup(t)
		err := e.cmds.Cancel(context.Background(), clientActor(), id, "")
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("reschedule into an occupied slot reports the conflict", func(t *testing.T) {
		e, client, id := setup(t)
		other := clientActor()
		roomID := e.state.bookings[id].RoomID()
		_, err := e.cmds.Create(context.Background(), other, createInput(roomID, other.ID, 5*time.Hour, 7*time.Hour))
		require.NoError(t, err)

		newStart := baseTime.Add(6 * time.Hour)
		newEnd := baseTime.Add(8 * time.Hour)
		err = e.cmds.Update(context.Background(), client, id, commands.UpdateBookingInput{
			StartTime: &newStart,
			EndTime:   &newEnd,
		})
		var conflict *commands.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("reschedule excludes the booking itself", func(t *testing.T) {
		e, client, id := setup(t)
		newEnd := baseTime.Add(2 * time.Hour)
		err := e.cmds.Update(context.Background(), client, id, commands.UpdateBookingInput{EndTime: &newEnd})
		assert.NoError(t, err)
		assert.True(t, e.state.bookings[id].Slot().End().Equal(newEnd))
	})

	t.Run("client cannot update a confirmed booking, staff can", func(t *testing.T) {
		e, client, id := setup(t)
		require.NoError(t, e.cmds.Confirm(context.Background(), staffActor(), id))

		newEnd := baseTime.Add(2 * time.Hour)
		err := e.cmds.Update(context.Background(), client, id, commands.UpdateBookingInput{EndTime: &newEnd})
		assert.ErrorIs(t, err, commands.ErrForbidden)

		err = e.cmds.Update(context.Background(), staffActor(), id, commands.UpdateBookingInput{EndTime: &newEnd})
		assert.NoError(t, err)
	})
}

func TestBookingCommands_AttachPrepMaterial(t *testing.T) {
	setup := func(t *testing.T) (*env, commands.Actor, uuid.UUID) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		client := clientActor()
		id, err := e.cmds.Create(context.Background(), client, createInput(roomID, client.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)
		return e, client, id
	}

	material := func() commands.PrepMaterialInput {
		return commands.PrepMaterialInput{
			Title:       "setlist",
			Description: "final running order",
			FileURL:     "https://files.example.com/setlist.pdf",
		}
	}

	t.Run("owner attaches a material to their booking", func(t *testing.T) {
		e, client, id := setup(t)

		require.NoError(t, e.cmds.AttachPrepMaterial(context.Background(), client, id, material()))

		require.Len(t, e.state.materials, 1)
		got := e.state.materials[0]
		assert.Equal(t, "setlist", got.Title)
		assert.Equal(t, "https://files.example.com/setlist.pdf", got.FileURL)
		assert.Equal(t, client.ID, got.UploadedBy)
		assert.True(t, got.UploadedAt.Equal(baseTime))
	})

	t.Run("title and file url are required", func(t *testing.T) {
		e, client, id := setup(t)

		in := material()
		in.Title = ""
		assert.Error(t, e.cmds.AttachPrepMaterial(context.Background(), client, id, in))

		in = material()
		in.FileURL = ""
		assert.Error(t, e.cmds.AttachPrepMaterial(context.Background(), client, id, in))
		assert.Empty(t, e.state.materials)
	})

	t.Run("another client cannot attach", func(t *testing.T) {
		e, _, id := setup(t)
		err := e.cmds.AttachPrepMaterial(context.Background(), clientActor(), id, material())
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("terminal booking refuses new materials", func(t *testing.T) {
		e, client, id := setup(t)
		require.NoError(t, e.cmds.Cancel(context.Background(), client, id, ""))

		err := e.cmds.AttachPrepMaterial(context.Background(), client, id, material())
		var transition *commands.InvalidTransitionError
		assert.ErrorAs(t, err, &transition)
	})
}

func TestPaymentCommands_RecordTransaction(t *testing.T) {
	setup := func(t *testing.T) (*env, uuid.UUID) {
		e := newEnv(t)
		roomID := e.addRoom(t, 10, 6000)
		client := clientActor()
		id, err := e.cmds.Create(context.Background(), client, createInput(roomID, client.ID, time.Hour, 3*time.Hour))
		require.NoError(t, err)
		return e, id
	}

	pay := func(amount int64) commands.RecordTransactionInput {
		return commands.RecordTransactionInput{Kind: "payment", AmountCents: amount, Method: "card"}
	}
	refund := func(amount int64) commands.RecordTransactionInput {
		return commands.RecordTransactionInput{Kind: "refund", AmountCents: amount, Method: "card"}
	}

	t.Run("status follows the transaction history", func(t *testing.T) {
		e, id := setup(t)
		staff := staffActor()

		status, err := e.pays.RecordTransaction(context.Background(), staff, id, pay(5000))
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPartial, status)

		status, err = e.pays.RecordTransaction(context.Background(), staff, id, pay(7000))
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, status)

		status, err = e.pays.RecordTransaction(context.Background(), staff, id, refund(12000))
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, status)
	})

	t.Run("refund beyond net paid is rejected", func(t *testing.T) {
		e, id := setup(t)
		staff := staffActor()
		_, err := e.pays.RecordTransaction(context.Background(), staff, id, pay(5000))
		require.NoError(t, err)

		_, err = e.pays.RecordTransaction(context.Background(), staff, id, refund(6000))
		assert.ErrorIs(t, err, payment.ErrOverRefund)

		rec := e.state.payments[id]
		assert.Len(t, rec.Transactions(), 1)
	})

	t.Run("clients cannot record payments", func(t *testing.T) {
		e, id := setup(t)
		_, err := e.pays.RecordTransaction(context.Background(), clientActor(), id, pay(1000))
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("unknown booking", func(t *testing.T) {
		e, _ := setup(t)
		_, err := e.pays.RecordTransaction(context.Background(), staffActor(), uuid.New(), pay(1000))
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestBookingCommands_Errors(t *testing.T) {
	t.Run("conflict error message counts conflicts", func(t *testing.T) {
		err := &commands.ConflictError{Conflicts: make([]queries.BookingSummary, 2)}
		assert.Contains(t, err.Error(), "2 conflicting")
	})

	t.Run("invalid transition matches the domain sentinel", func(t *testing.T) {
		err := &commands.InvalidTransitionError{From: booking.StatusCancelled, To: booking.StatusConfirmed}
		assert.True(t, errors.Is(err, booking.ErrInvalidTransition))
	})
}
