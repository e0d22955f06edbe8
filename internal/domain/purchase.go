package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending         PurchaseStatus = "PENDING"
	PurchaseAwaitingPayment PurchaseStatus = "AWAITING_PAYMENT"
	PurchaseConfirmed       PurchaseStatus = "CONFIRMED"
	PurchaseProcessing      PurchaseStatus = "PROCESSING"
	PurchaseCompleted       PurchaseStatus = "COMPLETED"
	PurchaseCancelled       PurchaseStatus = "CANCELLED"
	PurchaseExpired         PurchaseStatus = "EXPIRED"
)

// forward is the happy path, CANCELLED and EXPIRED excluded.
var forward = map[PurchaseStatus]PurchaseStatus{
	PurchasePending:         PurchaseAwaitingPayment,
	PurchaseAwaitingPayment: PurchaseConfirmed,
	PurchaseConfirmed:       PurchaseProcessing,
	PurchaseProcessing:      PurchaseCompleted,
}

func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseCompleted || s == PurchaseCancelled || s == PurchaseExpired
}

// NextStatus returns the single legal forward transition, if any.
func (s PurchaseStatus) NextStatus() (PurchaseStatus, bool) {
	next, ok := forward[s]
	return next, ok
}

func ParsePurchaseStatus(s string) (PurchaseStatus, error) {
	switch PurchaseStatus(s) {
	case PurchasePending, PurchaseAwaitingPayment, PurchaseConfirmed, PurchaseProcessing,
		PurchaseCompleted, PurchaseCancelled, PurchaseExpired:
		return PurchaseStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown purchase status %q", ErrInvalidRequestBodyValue, s)
}

type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

type PurchaseItem struct {
	ID          string
	PurchaseID  string
	VariantID   string
	ProductName string
	VariantType string
	Quantity    int
	BoughtPrice decimal.Decimal
	Note        string
}

func (i PurchaseItem) Subtotal() decimal.Decimal {
	return i.BoughtPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Purchase struct {
	ID           string
	AccountID    string
	Reference    string
	Address      string
	Coordinate   Coordinate
	Status       PurchaseStatus
	Fee          decimal.Decimal
	Items        []PurchaseItem
	Transactions []*Transaction
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Purchase) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range p.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// Total is the payable amount: items at their bought price plus the fee.
func (p *Purchase) Total() decimal.Decimal {
	return p.Subtotal().Add(p.Fee)
}

func (p *Purchase) PendingTransaction() *Transaction {
	for _, tx := range p.Transactions {
		if tx.Status == TransactionPending {
			return tx
		}
	}
	return nil
}

func (p *Purchase) SettledAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range p.Transactions {
		if tx.Status == TransactionSettled {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

func (p *Purchase) OutstandingBalance() decimal.Decimal {
	balance := p.Total().Sub(p.SettledAmount())
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

func (p *Purchase) HasSettled(paymentType PaymentType) bool {
	for _, tx := range p.Transactions {
		if tx.Status == TransactionSettled && tx.PaymentType == paymentType {
			return true
		}
	}
	return false
}

func (p *Purchase) TransactionByCorrelationID(correlationID string) *Transaction {
	for _, tx := range p.Transactions {
		if tx.CorrelationID == correlationID {
			return tx
		}
	}
	return nil
}

// ===== transitions =====

func (p *Purchase) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s purchase %s in status %s", ErrIllegalOperation, action, p.ID, p.Status)
}

func (p *Purchase) moveTo(status PurchaseStatus, at time.Time) {
	p.Status = status
	p.UpdatedAt = at
}

// AttachTransaction records a freshly opened payment attempt. The first one
// moves a PENDING purchase to AWAITING_PAYMENT.
func (p *Purchase) AttachTransaction(tx *Transaction, at time.Time) error {
	if p.Status.IsTerminal() {
		return p.illegal("attach transaction to")
	}
	if pending := p.PendingTransaction(); pending != nil {
		return fmt.Errorf("%w: purchase %s already has pending transaction %s", ErrIllegalOperation, p.ID, pending.ID)
	}
	tx.PurchaseID = p.ID
	p.Transactions = append(p.Transactions, tx)
	if p.Status == PurchasePending {
		p.moveTo(PurchaseAwaitingPayment, at)
	}
	return nil
}

// Confirm applies settlement of a payment. Purchases already CONFIRMED or
// further along are left unchanged and report changed=false.
func (p *Purchase) Confirm(at time.Time) (bool, error) {
	switch p.Status {
	case PurchaseAwaitingPayment:
		p.moveTo(PurchaseConfirmed, at)
		return true, nil
	case PurchaseConfirmed, PurchaseProcessing:
		return false, nil
	}
	return false, p.illegal("confirm")
}

// Advance applies the next admin-driven forward transition.
func (p *Purchase) Advance(at time.Time) (PurchaseStatus, error) {
	if p.Status.IsTerminal() {
		return "", p.illegal("advance")
	}
	next, ok := p.Status.NextStatus()
	// AWAITING_PAYMENT is only entered by opening a transaction.
	if !ok || next == PurchaseAwaitingPayment {
		return "", p.illegal("advance")
	}
	p.moveTo(next, at)
	return next, nil
}

func (p *Purchase) CanCancel() bool {
	switch p.Status {
	case PurchasePending, PurchaseAwaitingPayment, PurchaseConfirmed:
		return true
	}
	return false
}

func (p *Purchase) Cancel(at time.Time) error {
	if !p.CanCancel() {
		return p.illegal("cancel")
	}
	p.moveTo(PurchaseCancelled, at)
	return nil
}

func (p *Purchase) Expire(at time.Time) error {
	if p.Status != PurchasePending && p.Status != PurchaseAwaitingPayment {
		return p.illegal("expire")
	}
	p.moveTo(PurchaseExpired, at)
	return nil
}
