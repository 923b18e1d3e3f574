// Package adapter wraps the external Telegram client with session
// discipline and turns its error-driven API into explicit lookup outcomes.
//
// The adapter owns exactly one live session. It is created lazily on first
// use; the creation/reconnect check is guarded by a mutex so concurrent
// first callers cannot race two sessions into existence. The lock is held
// only across the connectivity check, never across a full lookup. A session
// that fails to (re)connect is discarded so the next call starts from
// scratch instead of reusing a known-bad handle.
package adapter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/nkka404/tginfo/internal/model"
	"github.com/nkka404/tginfo/internal/normalize"
	"github.com/nkka404/tginfo/internal/telegram"
)

// Status is the explicit outcome variant of a lookup. There is no
// exception-style control flow past this point: callers switch on Status.
type Status int

const (
	// StatusOK means the entity was resolved.
	StatusOK Status = iota
	// StatusNotFound means the platform confirmed the entity is absent.
	StatusNotFound
	// StatusTransient means the session or platform failed; the reason is
	// preserved for diagnostics but callers treat it like a miss.
	StatusTransient
)

// AccountOutcome is the result of an account resolution attempt.
type AccountOutcome struct {
	Status  Status
	Account *model.Account
	Reason  string
}

// GroupOutcome is the result of a group/channel resolution attempt.
type GroupOutcome struct {
	Status Status
	Group  *model.Group
	Reason string
}

// Adapter drives the external client on behalf of the orchestrator.
type Adapter struct {
	factory telegram.Factory
	breaker *gobreaker.CircuitBreaker
	flights singleflight.Group
	logger  *slog.Logger

	mu     sync.Mutex
	client telegram.Client
}

// New creates an Adapter. No session is established until the first call.
func New(factory telegram.Factory, logger *slog.Logger) *Adapter {
	settings := gobreaker.Settings{
		Name:        "telegram-client",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return &Adapter{
		factory: factory,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// ensureSession returns a connected client, creating or reconnecting the
// shared session as needed.
func (a *Adapter) ensureSession(ctx context.Context) (telegram.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		a.logger.Debug("creating telegram session")
		client, err := a.factory()
		if err != nil {
			return nil, err
		}
		a.client = client
	}

	if !a.client.IsConnected() {
		if err := a.client.Connect(ctx); err != nil {
			// Known-bad handle: discard so the next caller retries
			// creation from scratch.
			_ = a.client.Close()
			a.client = nil
			return nil, err
		}
	}
	return a.client, nil
}

// Healthy reports whether a session can be established right now.
func (a *Adapter) Healthy(ctx context.Context) error {
	_, err := a.ensureSession(ctx)
	return err
}

// Close tears down the session if one exists.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// ResolveAccount attempts to resolve the canonical identifier as an
// account. All-digits identifiers (with optional leading minus) take the
// numeric path, everything else the handle path. Concurrent calls for the
// same identifier share one outbound flight.
func (a *Adapter) ResolveAccount(ctx context.Context, id string) AccountOutcome {
	v, err, _ := a.flights.Do("account:"+id, func() (any, error) {
		return a.resolveAccount(ctx, id), nil
	})
	if err != nil {
		return AccountOutcome{Status: StatusTransient, Reason: err.Error()}
	}
	return v.(AccountOutcome)
}

func (a *Adapter) resolveAccount(ctx context.Context, id string) AccountOutcome {
	client, err := a.ensureSession(ctx)
	if err != nil {
		a.logger.Error("telegram session unavailable", slog.String("error", err.Error()))
		return AccountOutcome{Status: StatusTransient, Reason: err.Error()}
	}

	account, err := a.guarded(func() (any, error) {
		if numeric, ok := numericID(id); ok {
			return client.AccountByID(ctx, numeric)
		}
		return client.AccountByHandle(ctx, id)
	})
	switch {
	case err == nil:
		return AccountOutcome{Status: StatusOK, Account: account.(*model.Account)}
	case errors.Is(err, telegram.ErrNotFound):
		return AccountOutcome{Status: StatusNotFound}
	default:
		a.logger.Error("account lookup failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return AccountOutcome{Status: StatusTransient, Reason: err.Error()}
	}
}

// ResolveGroup attempts to resolve the canonical identifier as a group,
// supergroup or channel. Dispatch rules mirror ResolveAccount.
func (a *Adapter) ResolveGroup(ctx context.Context, id string) GroupOutcome {
	v, err, _ := a.flights.Do("group:"+id, func() (any, error) {
		return a.resolveGroup(ctx, id), nil
	})
	if err != nil {
		return GroupOutcome{Status: StatusTransient, Reason: err.Error()}
	}
	return v.(GroupOutcome)
}

func (a *Adapter) resolveGroup(ctx context.Context, id string) GroupOutcome {
	client, err := a.ensureSession(ctx)
	if err != nil {
		a.logger.Error("telegram session unavailable", slog.String("error", err.Error()))
		return GroupOutcome{Status: StatusTransient, Reason: err.Error()}
	}

	group, err := a.guarded(func() (any, error) {
		if numeric, ok := numericID(id); ok {
			return client.GroupByID(ctx, numeric)
		}
		return client.GroupByHandle(ctx, id)
	})
	switch {
	case err == nil:
		return GroupOutcome{Status: StatusOK, Group: group.(*model.Group)}
	case errors.Is(err, telegram.ErrNotFound):
		return GroupOutcome{Status: StatusNotFound}
	default:
		a.logger.Error("group lookup failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return GroupOutcome{Status: StatusTransient, Reason: err.Error()}
	}
}

// guarded runs a lookup through the circuit breaker. NotFound is a valid
// answer, not a failure, so it must not trip the breaker; it is tunneled
// past the breaker's accounting and re-surfaced afterwards.
func (a *Adapter) guarded(call func() (any, error)) (any, error) {
	var notFound bool
	v, err := a.breaker.Execute(func() (any, error) {
		v, err := call()
		if errors.Is(err, telegram.ErrNotFound) {
			notFound = true
			return nil, nil
		}
		return v, err
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, telegram.ErrNotFound
	}
	return v, nil
}

func numericID(id string) (int64, bool) {
	if !normalize.IsNumeric(id) {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
