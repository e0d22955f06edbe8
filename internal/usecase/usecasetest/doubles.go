package usecasetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

// FakeGateway opens sessions with sequential correlation ids.
type FakeGateway struct {
	mu        sync.Mutex
	TTL       time.Duration
	Now       func() time.Time
	OpenErr   error
	CancelErr error
	Opened    []domain.OpenSessionRequest
	Cancelled []string
}

func (g *FakeGateway) OpenSession(_ context.Context, req domain.OpenSessionRequest) (*domain.PaymentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.OpenErr != nil {
		return nil, g.OpenErr
	}
	g.Opened = append(g.Opened, req)
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	ttl := g.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &domain.PaymentSession{
		CorrelationID: req.CorrelationID,
		Token:         fmt.Sprintf("tok-%d", len(g.Opened)),
		RedirectURL:   "https://pay.example/" + req.CorrelationID,
		ExpiresAt:     now.Add(ttl),
	}, nil
}

func (g *FakeGateway) CancelSession(_ context.Context, correlationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Cancelled = append(g.Cancelled, correlationID)
	return g.CancelErr
}

func (g *FakeGateway) OpenedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Opened)
}

func (g *FakeGateway) CancelledIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.Cancelled...)
}

type StaticFee struct {
	Fee decimal.Decimal
	Err error
}

func (f StaticFee) ComputeFee(context.Context, domain.Coordinate) (decimal.Decimal, error) {
	return f.Fee, f.Err
}

type StaticCatalog map[string]*domain.Variant

func (c StaticCatalog) GetVariant(_ context.Context, variantID string) (*domain.Variant, error) {
	v, ok := c[variantID]
	if !ok {
		return nil, fmt.Errorf("%w: variant %s", domain.ErrNotFound, variantID)
	}
	return v, nil
}

// RecordingAudit keeps audit entries in memory.
type RecordingAudit struct {
	mu            sync.Mutex
	Notifications []*domain.NotificationLog
	Rejected      []*domain.RejectedPurchase
}

func (a *RecordingAudit) LogNotification(_ context.Context, entry *domain.NotificationLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Notifications = append(a.Notifications, entry)
	return nil
}

func (a *RecordingAudit) LogRejectedPurchase(_ context.Context, entry *domain.RejectedPurchase) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Rejected = append(a.Rejected, entry)
	return nil
}

func (a *RecordingAudit) NotificationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Notifications)
}

func (a *RecordingAudit) RejectedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Rejected)
}

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []kafka.PurchaseEvent
}

func (p *RecordingPublisher) PublishPurchase(_ context.Context, event kafka.PurchaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []kafka.PurchaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.PurchaseEvent(nil), p.events...)
}

// EventTypes lists published event types in order.
func (p *RecordingPublisher) EventTypes() []string {
	var types []string
	for _, e := range p.Events() {
		types = append(types, e.EventType)
	}
	return types
}
