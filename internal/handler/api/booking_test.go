//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/payment"
	"studio-booking/internal/domain/user"
	"studio-booking/internal/handler/api"
	"studio-booking/internal/handler/dto/request"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Function-field stubs for the command/query ports. Each test plugs in only
// the behavior it exercises.

type stubBookingCommands struct {
	create   func(ctx context.Context, actor commands.Actor, in commands.CreateBookingInput) (uuid.UUID, error)
	update   func(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.UpdateBookingInput) error
	confirm  func(ctx context.Context, actor commands.Actor, id uuid.UUID) error
	cancel   func(ctx context.Context, actor commands.Actor, id uuid.UUID, reason string) error
	complete func(ctx context.Context, actor commands.Actor, id uuid.UUID) error
	addNote  func(ctx context.Context, actor commands.Actor, id uuid.UUID, content string) error
	attach   func(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.PrepMaterialInput) error
}

func (s *stubBookingCommands) Create(ctx context.Context, actor commands.Actor, in commands.CreateBookingInput) (uuid.UUID, error) {
	return s.create(ctx, actor, in)
}

func (s *stubBookingCommands) Update(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.UpdateBookingInput) error {
	return s.update(ctx, actor, id, in)
}

func (s *stubBookingCommands) Confirm(ctx context.Context, actor commands.Actor, id uuid.UUID) error {
	return s.confirm(ctx, actor, id)
}

func (s *stubBookingCommands) Cancel(ctx context.Context, actor commands.Actor, id uuid.UUID, reason string) error {
	return s.cancel(ctx, actor, id, reason)
}

func (s *stubBookingCommands) Complete(ctx context.Context, actor commands.Actor, id uuid.UUID) error {
	return s.complete(ctx, actor, id)
}

func (s *stubBookingCommands) AddNote(ctx context.Context, actor commands.Actor, id uuid.UUID, content string) error {
	return s.addNote(ctx, actor, id, content)
}

func (s *stubBookingCommands) AttachPrepMaterial(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.PrepMaterialInput) error {
	return s.attach(ctx, actor, id, in)
}

type stubPaymentCommands struct {
	record func(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.RecordTransactionInput) (payment.Status, error)
}

func (s *stubPaymentCommands) RecordTransaction(ctx context.Context, actor commands.Actor, id uuid.UUID, in commands.RecordTransactionInput) (payment.Status, error) {
	return s.record(ctx, actor, id, in)
}

type stubBookingQueries struct {
	getByID func(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

func (s *stubBookingQueries) GetByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return s.getByID(ctx, id)
}

func (s *stubBookingQueries) ListByClient(ctx context.Context, clientID uuid.UUID) ([]queries.BookingListItem, error) {
	return nil, nil
}

func (s *stubBookingQueries) ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]queries.BookingListItem, error) {
	return nil, nil
}

type handlerEnv struct {
	router   *gin.Engine
	bookings *stubBookingCommands
	payments *stubPaymentCommands
	reads    *stubBookingQueries
	actorID  uuid.UUID
}

func newHandlerEnv(t *testing.T, role user.Role) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	request.RegisterValidations()

	e := &handlerEnv{
		bookings: &stubBookingCommands{},
		payments: &stubPaymentCommands{},
		reads:    &stubBookingQueries{},
		actorID:  uuid.New(),
	}

	h := api.NewBookingHandler(e.bookings, e.payments, e.reads)

	e.router = gin.New()
	e.router.Use(func(c *gin.Context) {
		c.Set("user_id", e.actorID)
		c.Set("user_role", role)
	})
	e.router.POST("/bookings", h.Create)
	e.router.GET("/bookings/:id", h.Get)
	e.router.POST("/bookings/:id/confirm", h.Confirm)
	e.router.POST("/bookings/:id/cancel", h.Cancel)
	e.router.POST("/bookings/:id/payments", h.RecordTransaction)
	return e
}

func (e *handlerEnv) do(t *testing.T, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func validCreateBody(clientID uuid.UUID) map[string]any {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	return map[string]any{
		"room_id":    uuid.New().String(),
		"client_id":  clientID.String(),
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(2 * time.Hour).Format(time.RFC3339),
		"purpose":    "rehearsal",
		"attendees":  4,
		"currency":   "USD",
	}
}

func TestBookingHandler_Create(t *testing.T) {
	t.Run("returns 201 with the new booking id", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		created := uuid.New()
		e.bookings.create = func(_ context.Context, actor commands.Actor, in commands.CreateBookingInput) (uuid.UUID, error) {
			assert.Equal(t, e.actorID, actor.ID)
			assert.Equal(t, "rehearsal", in.Purpose)
			return created, nil
		}

		rec := e.do(t, http.MethodPost, "/bookings", validCreateBody(e.actorID))

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, created.String(), body["id"])
	})

	t.Run("returns 409 with the conflict report", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		blocking := queries.BookingSummary{
			ID:        uuid.New(),
			RoomID:    uuid.New(),
			StartTime: time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC),
			Status:    "confirmed",
		}
		e.bookings.create = func(context.Context, commands.Actor, commands.CreateBookingInput) (uuid.UUID, error) {
			return uuid.Nil, &commands.ConflictError{Conflicts: []queries.BookingSummary{blocking}}
		}

		rec := e.do(t, http.MethodPost, "/bookings", validCreateBody(e.actorID))

		require.Equal(t, http.StatusConflict, rec.Code)
		var body struct {
			Conflicts []struct {
				ID string `json:"id"`
			} `json:"conflicts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Conflicts, 1)
		assert.Equal(t, blocking.ID.String(), body.Conflicts[0].ID)
	})

	t.Run("returns 409 with the shortage report", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		short := queries.EquipmentShortage{EquipmentID: uuid.New(), Requested: 3, AvailableCount: 1}
		e.bookings.create = func(context.Context, commands.Actor, commands.CreateBookingInput) (uuid.UUID, error) {
			return uuid.Nil, &commands.ShortageError{Shortages: []queries.EquipmentShortage{short}}
		}

		rec := e.do(t, http.MethodPost, "/bookings", validCreateBody(e.actorID))

		require.Equal(t, http.StatusConflict, rec.Code)
		var body struct {
			Shortages []struct {
				Requested      int `json:"requested"`
				AvailableCount int `json:"available_count"`
			} `json:"shortages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Shortages, 1)
		assert.Equal(t, 3, body.Shortages[0].Requested)
		assert.Equal(t, 1, body.Shortages[0].AvailableCount)
	})

	t.Run("returns 400 on validation errors", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		e.bookings.create = func(context.Context, commands.Actor, commands.CreateBookingInput) (uuid.UUID, error) {
			t.Fatal("command must not run on invalid input")
			return uuid.Nil, nil
		}

		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{"missing room_id", func(m map[string]any) { delete(m, "room_id") }},
			{"end before start", func(m map[string]any) {
				m["end_time"] = time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC).Format(time.RFC3339)
			}},
			{"lowercase currency", func(m map[string]any) { m["currency"] = "usd" }},
			{"negative attendees", func(m map[string]any) { m["attendees"] = -1 }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				body := validCreateBody(e.actorID)
				tc.mutate(body)
				rec := e.do(t, http.MethodPost, "/bookings", body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("returns 403 when the command refuses the actor", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		e.bookings.create = func(context.Context, commands.Actor, commands.CreateBookingInput) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrForbidden
		}

		rec := e.do(t, http.MethodPost, "/bookings", validCreateBody(e.actorID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestBookingHandler_Lifecycle(t *testing.T) {
	t.Run("confirm returns 204", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		id := uuid.New()
		e.bookings.confirm = func(_ context.Context, _ commands.Actor, got uuid.UUID) error {
			assert.Equal(t, id, got)
			return nil
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+id.String()+"/confirm", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("illegal transition maps to 409 with from and to", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		e.bookings.confirm = func(context.Context, commands.Actor, uuid.UUID) error {
			return &commands.InvalidTransitionError{From: booking.StatusCancelled, To: booking.StatusConfirmed}
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/confirm", nil)

		require.Equal(t, http.StatusConflict, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "cancelled", body["from"])
		assert.Equal(t, "confirmed", body["to"])
	})

	t.Run("cancel passes the reason through", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleClient)
		var gotReason string
		e.bookings.cancel = func(_ context.Context, _ commands.Actor, _ uuid.UUID, reason string) error {
			gotReason = reason
			return nil
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/cancel",
			map[string]any{"reason": "schedule change"})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "schedule change", gotReason)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		rec := e.do(t, http.MethodPost, "/bookings/not-a-uuid/confirm", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown booking returns 404", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		e.bookings.confirm = func(context.Context, commands.Actor, uuid.UUID) error {
			return commands.ErrBookingNotFound
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/confirm", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookingHandler_RecordTransaction(t *testing.T) {
	t.Run("returns the derived payment status", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		e.payments.record = func(_ context.Context, _ commands.Actor, _ uuid.UUID, in commands.RecordTransactionInput) (payment.Status, error) {
			assert.Equal(t, "payment", in.Kind)
			assert.Equal(t, int64(5000), in.AmountCents)
			return payment.StatusPartial, nil
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/payments",
			map[string]any{"kind": "payment", "amount_cents": 5000, "method": "card"})

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "partial", body["status"])
	})

	t.Run("over-refund maps to 422", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		e.payments.record = func(context.Context, commands.Actor, uuid.UUID, commands.RecordTransactionInput) (payment.Status, error) {
			return "", payment.ErrOverRefund
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/payments",
			map[string]any{"kind": "refund", "amount_cents": 99999})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("rejects unknown transaction kinds at the binding layer", func(t *testing.T) {
		e := newHandlerEnv(t, user.RoleStaff)
		e.payments.record = func(context.Context, commands.Actor, uuid.UUID, commands.RecordTransactionInput) (payment.Status, error) {
			t.Fatal("command must not run on invalid input")
			return "", nil
		}

		rec := e.do(t, http.MethodPost, "/bookings/"+uuid.New().String()+"/payments",
			map[string]any{"kind": "chargeback", "amount_cents": 100})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
