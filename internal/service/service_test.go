package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mdazar123/billsplitr/internal/auth"
	"github.com/Mdazar123/billsplitr/internal/cache"
	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/middleware"
	"github.com/Mdazar123/billsplitr/internal/storage"
	"github.com/Mdazar123/billsplitr/internal/storage/sqlite"
	"github.com/Mdazar123/billsplitr/pkg/api"
	"github.com/Mdazar123/billsplitr/pkg/api/apiconnect"
)

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// testEnv is a full server over a temp-file SQLite store.
type testEnv struct {
	auth      apiconnect.AuthServiceClient
	groups    apiconnect.GroupServiceClient
	expenses  apiconnect.ExpenseServiceClient
	payments  apiconnect.PaymentServiceClient
	store     *sqlite.SQLiteStore
	cache     *cache.Memory
	changes   *GroupChanges
	published *recordingPublisher
}

// testUser is a registered account and its bearer token.
type testUser struct {
	id    string
	email string
	token string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	return setupTestServerWith(t, nil)
}

// setupTestServerWith lets a test wrap the store the services see.
func setupTestServerWith(t *testing.T, wrap func(storage.Store) storage.Store) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	balanceCache := cache.NewMemory(time.Minute)
	published := &recordingPublisher{}
	changes := NewGroupChanges(balanceCache, published)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var services storage.Store = store
	if wrap != nil {
		services = wrap(store)
	}

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, store, jwtManager, logger), optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(services, changes), required))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(services, changes), required))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(services, changes), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:    apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		payments:  apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
		store:     store,
		cache:     balanceCache,
		changes:   changes,
		published: published,
	}
}

func (env *testEnv) register(t *testing.T, name, email string) testUser {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return testUser{id: resp.Msg.User.Id, email: email, token: resp.Msg.Token}
}

// newGroup creates a group owned by owner with the given members added.
func (env *testEnv) newGroup(t *testing.T, owner testUser, name string, members ...testUser) *api.Group {
	t.Helper()

	resp, err := env.groups.CreateGroup(context.Background(), as(owner, &api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := resp.Msg.Group
	for _, m := range members {
		addResp, err := env.groups.AddMember(context.Background(), as(owner, &api.AddMemberRequest{
			GroupId: group.Id,
			Email:   m.email,
		}))
		if err != nil {
			t.Fatalf("AddMember(%s) failed: %v", m.email, err)
		}
		group = addResp.Msg.Group
	}
	return group
}

// as builds a request authenticated as user.
func as[T any](user testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+user.token)
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}
