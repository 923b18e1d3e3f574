package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkka404/tginfo/internal/model"
	"github.com/nkka404/tginfo/internal/telegram"
)

// fakeClient is an in-memory telegram.Client with scriptable behaviour.
type fakeClient struct {
	mu         sync.Mutex
	connected  bool
	connectErr error
	connects   int

	account    *model.Account
	accountErr error
	group      *model.Group
	groupErr   error

	lastCall string
}

func (f *fakeClient) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *fakeClient) AccountByHandle(ctx context.Context, handle string) (*model.Account, error) {
	f.mu.Lock()
	f.lastCall = "account-by-handle"
	f.mu.Unlock()
	return f.account, f.accountErr
}

func (f *fakeClient) AccountByID(ctx context.Context, id int64) (*model.Account, error) {
	f.mu.Lock()
	f.lastCall = "account-by-id"
	f.mu.Unlock()
	return f.account, f.accountErr
}

func (f *fakeClient) GroupByHandle(ctx context.Context, handle string) (*model.Group, error) {
	f.mu.Lock()
	f.lastCall = "group-by-handle"
	f.mu.Unlock()
	return f.group, f.groupErr
}

func (f *fakeClient) GroupByID(ctx context.Context, id int64) (*model.Group, error) {
	f.mu.Lock()
	f.lastCall = "group-by-id"
	f.mu.Unlock()
	return f.group, f.groupErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestResolveAccount_DispatchesByIdentifierShape(t *testing.T) {
	fake := &fakeClient{account: &model.Account{ID: 777000, FirstName: "Telegram"}}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())

	out := a.ResolveAccount(context.Background(), "777000")
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, "account-by-id", fake.lastCall)
	assert.Equal(t, int64(777000), out.Account.ID)

	out = a.ResolveAccount(context.Background(), "telegram")
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, "account-by-handle", fake.lastCall)
}

func TestResolveGroup_NegativeIDTakesNumericPath(t *testing.T) {
	fake := &fakeClient{group: &model.Group{ID: -1001234567890, Kind: model.GroupKindSupergroup}}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())

	out := a.ResolveGroup(context.Background(), "-1001234567890")
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, "group-by-id", fake.lastCall)
}

func TestSessionCreatedOnceUnderConcurrency(t *testing.T) {
	fake := &fakeClient{account: &model.Account{ID: 1}}
	var factoryCalls int
	var mu sync.Mutex
	a := New(func() (telegram.Client, error) {
		mu.Lock()
		factoryCalls++
		mu.Unlock()
		return fake, nil
	}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Distinct identifiers so singleflight cannot mask a session race.
			a.ResolveAccount(context.Background(), fmt.Sprintf("user%d", n))
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, factoryCalls, "concurrent first callers must share one session")
}

func TestFailedConnectDiscardsSession(t *testing.T) {
	bad := &fakeClient{connectErr: errors.New("auth key rejected")}
	good := &fakeClient{account: &model.Account{ID: 42, FirstName: "a"}}
	clients := []telegram.Client{bad, good}
	var factoryCalls int
	a := New(func() (telegram.Client, error) {
		c := clients[factoryCalls]
		factoryCalls++
		return c, nil
	}, testLogger())

	out := a.ResolveAccount(context.Background(), "42")
	require.Equal(t, StatusTransient, out.Status)
	assert.Contains(t, out.Reason, "auth key rejected")

	// The bad handle was discarded; the next call creates a fresh session.
	out = a.ResolveAccount(context.Background(), "42")
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 2, factoryCalls)
}

func TestReconnectBeforeOperation(t *testing.T) {
	fake := &fakeClient{account: &model.Account{ID: 1}}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())

	out := a.ResolveAccount(context.Background(), "1")
	require.Equal(t, StatusOK, out.Status)

	// Simulate a dropped connection; the adapter must reconnect the same
	// session rather than report a failure.
	fake.Close()
	out = a.ResolveAccount(context.Background(), "1")
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 2, fake.connects)
}

func TestNotFoundAndTransientOutcomes(t *testing.T) {
	fake := &fakeClient{accountErr: telegram.ErrNotFound, groupErr: errors.New("FLOOD_WAIT_42")}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())

	acc := a.ResolveAccount(context.Background(), "ghost")
	assert.Equal(t, StatusNotFound, acc.Status)
	assert.Empty(t, acc.Reason)

	grp := a.ResolveGroup(context.Background(), "ghost")
	assert.Equal(t, StatusTransient, grp.Status)
	assert.Contains(t, grp.Reason, "FLOOD_WAIT_42")
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	fake := &fakeClient{accountErr: telegram.ErrNotFound}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())

	// Well past the consecutive-failure threshold.
	for i := 0; i < 20; i++ {
		out := a.ResolveAccount(context.Background(), fmt.Sprintf("ghost%d", i))
		assert.Equal(t, StatusNotFound, out.Status)
	}

	fake.mu.Lock()
	fake.accountErr = nil
	fake.account = &model.Account{ID: 9, FirstName: "b"}
	fake.mu.Unlock()

	out := a.ResolveAccount(context.Background(), "real")
	assert.Equal(t, StatusOK, out.Status, "breaker must stay closed through NotFound answers")
}

func TestHealthy(t *testing.T) {
	fake := &fakeClient{}
	a := New(func() (telegram.Client, error) { return fake, nil }, testLogger())
	assert.NoError(t, a.Healthy(context.Background()))

	failing := &fakeClient{connectErr: errors.New("network unreachable")}
	b := New(func() (telegram.Client, error) { return failing, nil }, testLogger())
	assert.Error(t, b.Healthy(context.Background()))
}
