package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
	"github.com/mmynk/splitledger/pkg/logging"
)

// testServer bundles the clients of every service running against one database.
type testServer struct {
	groups      apiconnect.GroupServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	auth        apiconnect.AuthServiceClient

	events  *events.Recorder
	metrics *metrics.Metrics
}

// setupTestServer starts every service on a temp database. A non-empty passcode
// puts the group, expense and settlement services behind a bearer token.
func setupTestServer(t *testing.T, passcode string) (*testServer, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	logger := logging.New(io.Discard, "error", "text")
	recorder := &events.Recorder{}
	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret-key-for-service-tests", time.Hour)

	var authenticator auth.Authenticator
	open := middleware.Chain(logger, m, nil)
	protected := open
	if passcode != "" {
		a, err := auth.NewPasscodeAuthenticator(passcode, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}
		authenticator = a
		protected = middleware.Chain(logger, m, jwtManager)
	}

	ledger := NewLedger(store, m)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(
		NewGroupService(store, recorder, logger),
		connect.WithInterceptors(protected...),
	))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		NewExpenseService(store, recorder, m, logger),
		connect.WithInterceptors(protected...),
	))
	mux.Handle(apiconnect.NewSettlementServiceHandler(
		NewSettlementService(store, ledger, recorder, logger),
		connect.WithInterceptors(protected...),
	))
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, logger),
		connect.WithInterceptors(open...),
	))

	server := httptest.NewServer(mux)

	ts := &testServer{
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		events:      recorder,
		metrics:     m,
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return ts, cleanup
}

// requireCode fails the test unless err is a Connect error with the given code.
func requireCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	connectErr, ok := err.(*connect.Error)
	if !ok {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected %v, got %v (%v)", want, connectErr.Code(), connectErr.Message())
	}
	return connectErr
}
