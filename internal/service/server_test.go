package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/railstats/internal/auth"
	"github.com/mmynk/railstats/internal/cache"
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/middleware"
	"github.com/mmynk/railstats/internal/reports"
	"github.com/mmynk/railstats/internal/storage/sqlite"
)

// testServer is a full railstats server backed by a temp SQLite database.
type testServer struct {
	t     *testing.T
	url   string
	token string
	cache *cache.Memory
}

// setupTestServer creates a test server and registers one operator whose
// token authorizes the protected procedures.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "railstats-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name(), calculator.ComputePrice)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("service-test-secret-0123", time.Hour)
	reportCache := cache.NewMemory(time.Minute)

	mux := http.NewServeMux()
	Register(mux, Services{
		Auth:     NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, nil),
		Entities: NewEntityService(store, reportCache, nil),
		Reports:  NewReportService(reports.NewEngine(store), reportCache, 10, nil),
		JWT:      jwtManager,
	}, connect.WithInterceptors(middleware.MetricsInterceptor(), middleware.LoggingInterceptor()))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	ts := &testServer{t: t, url: server.URL, cache: reportCache}
	resp, err := ts.callAs("", AuthServiceName, "Register", map[string]any{
		"email":        "operator@rail.example",
		"display_name": "Operator",
		"password":     "operator-password",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	ts.token = resp.Fields["token"].GetStringValue()
	if ts.token == "" {
		t.Fatal("Register returned no token")
	}
	return ts
}

// callAs invokes one procedure with the given bearer token ("" for none).
func (ts *testServer) callAs(token, service, method string, fields map[string]any) (*structpb.Struct, error) {
	ts.t.Helper()

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		ts.t.Fatalf("bad request fields: %v", err)
	}
	client := connect.NewClient[structpb.Struct, structpb.Struct](http.DefaultClient, ts.url+path(service, method))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}

	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// call invokes a procedure as the registered operator.
func (ts *testServer) call(service, method string, fields map[string]any) (*structpb.Struct, error) {
	ts.t.Helper()
	return ts.callAs(ts.token, service, method, fields)
}

// mustCall is call that fails the test on error.
func (ts *testServer) mustCall(service, method string, fields map[string]any) map[string]any {
	ts.t.Helper()
	resp, err := ts.call(service, method, fields)
	if err != nil {
		ts.t.Fatalf("%s/%s failed: %v", service, method, err)
	}
	return resp.AsMap()
}

// createdID creates an entity and returns the new ID.
func (ts *testServer) createdID(method, key string, fields map[string]any) string {
	ts.t.Helper()
	out := ts.mustCall(EntityServiceName, method, fields)
	entity, _ := out[key].(map[string]any)
	id, _ := entity["id"].(string)
	if id == "" {
		ts.t.Fatalf("%s returned no id: %v", method, out)
	}
	return id
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func num(t *testing.T, m map[string]any, key string) float64 {
	t.Helper()
	v, ok := m[key].(float64)
	if !ok {
		t.Fatalf("field %q is %T (%v), want number", key, m[key], m[key])
	}
	return v
}
