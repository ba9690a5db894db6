package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount   = errors.New("transaction amount must be positive")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrOverRefund      = errors.New("refund exceeds net paid amount")
	ErrOverPayment     = errors.New("payment exceeds outstanding amount")
	ErrNegativeTotal   = errors.New("payment total cannot be negative")
	ErrInvalidCurrency = errors.New("currency code is required")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPartial  Status = "partial"
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

type Kind string

const (
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
)

func NewKind(s string) (Kind, error) {
	k := Kind(s)
	if k != KindPayment && k != KindRefund {
		return "", ErrInvalidKind
	}
	return k, nil
}

type Transaction struct {
	ID          uuid.UUID
	Kind        Kind
	AmountCents int64
	Timestamp   time.Time
	Method      string
	Notes       string
}

// Record is a booking's payment sub-ledger. Status is always derived from
// the transaction history, never patched incrementally.
type Record struct {
	amountCents  int64
	currency     string
	transactions []Transaction
}

func NewRecord(amountCents int64, currency string) (Record, error) {
	if amountCents < 0 {
		return Record{}, ErrNegativeTotal
	}
	if currency == "" {
		currency = "USD"
	}
	return Record{amountCents: amountCents, currency: currency}, nil
}

func ReconstructRecord(amountCents int64, currency string, transactions []Transaction) Record {
	return Record{
		amountCents:  amountCents,
		currency:     currency,
		transactions: transactions,
	}
}

func (r Record) AmountCents() int64          { return r.amountCents }
func (r Record) Currency() string            { return r.currency }
func (r Record) Transactions() []Transaction { return r.transactions }

// NetPaidCents is the sum of payments minus the sum of refunds to date.
func (r Record) NetPaidCents() int64 {
	var net int64
	for _, tx := range r.transactions {
		switch tx.Kind {
		case KindPayment:
			net += tx.AmountCents
		case KindRefund:
			net -= tx.AmountCents
		}
	}
	return net
}

func (r Record) hasRefund() bool {
	for _, tx := range r.transactions {
		if tx.Kind == KindRefund {
			return true
		}
	}
	return false
}

// Status recomputes the payment status from the full history:
// nothing paid -> pending, partially paid -> partial, fully paid -> paid,
// refunded back to zero after a refund -> refunded.
func (r Record) Status() Status {
	net := r.NetPaidCents()
	switch {
	case net <= 0 && r.hasRefund():
		return StatusRefunded
	case net <= 0:
		return StatusPending
	case net < r.amountCents:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// Apply validates and appends a transaction, returning the updated record.
// The receiver is unchanged; callers persist the returned value.
func (r Record) Apply(tx Transaction) (Record, error) {
	if tx.AmountCents <= 0 {
		return Record{}, ErrInvalidAmount
	}
	switch tx.Kind {
	case KindPayment:
		if r.NetPaidCents()+tx.AmountCents > r.amountCents {
			return Record{}, ErrOverPayment
		}
	case KindRefund:
		if tx.AmountCents > r.NetPaidCents() {
			return Record{}, ErrOverRefund
		}
	default:
		return Record{}, ErrInvalidKind
	}

	next := Record{
		amountCents:  r.amountCents,
		currency:     r.currency,
		transactions: make([]Transaction, len(r.transactions), len(r.transactions)+1),
	}
	copy(next.transactions, r.transactions)
	next.transactions = append(next.transactions, tx)
	return next, nil
}
