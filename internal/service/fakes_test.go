package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/art-gallery-service/internal/domain"
	"github.com/spec-kit/art-gallery-service/internal/events"
	"github.com/spec-kit/art-gallery-service/internal/payments"
	"github.com/spec-kit/art-gallery-service/internal/repository"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.PaymentOrder
	failAll bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.PaymentOrder{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.New("db down")
	}
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, id, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.New("db down")
	}
	order, ok := r.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = domain.PaymentOrderPaid
	order.PaymentID = &paymentID
	return nil
}

type fakeReplayCache struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (c *fakeReplayCache) Remember(_ context.Context, paymentID, _ string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	if c.seen[paymentID] {
		return false, nil
	}
	c.seen[paymentID] = true
	return true, nil
}

type fakeGateway struct {
	lastAmount  int64
	lastReceipt string
	err         error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payments.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lastAmount = amount
	g.lastReceipt = receipt
	return &payments.Order{ID: "order_test_1", Amount: amount, Currency: currency}, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

func newRecordingDispatcher() (events.Dispatcher, *eventLog) {
	d := events.NewInMemoryDispatcher()
	log := &eventLog{}
	for _, t := range []events.EventType{
		events.EventUserRegistered,
		events.EventPaymentOrderCreated,
		events.EventPaymentVerified,
		events.EventPaymentRejected,
	} {
		d.Subscribe(t, log.handle)
	}
	return d, log
}

type outcomeLog struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *outcomeLog) RecordPaymentVerification(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}
