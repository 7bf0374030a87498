package cashfree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-payout-attest/core"
)

type recordingEngine struct {
	mu       sync.Mutex
	requests []core.ProofRequest
	generate func(req core.ProofRequest) (*core.Proof, error)
}

func (e *recordingEngine) GenerateProof(_ context.Context, req core.ProofRequest) (*core.Proof, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()
	if e.generate != nil {
		return e.generate(req)
	}
	return &core.Proof{
		Identifier: "proof-1",
		Epoch:      1,
		Signatures: []string{"sig"},
		Witnesses:  []core.Witness{{ID: "w1", URL: "wss://witness.example.com/ws"}},
		ExtractedValues: map[string]string{
			core.FieldTransferID:     "txn_123",
			core.FieldCFTransferID:   "CF456",
			core.FieldStatus:         "SUCCESS",
			core.FieldTransferAmount: "100.50",
		},
	}, nil
}

func (e *recordingEngine) lastRequest(t *testing.T) core.ProofRequest {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		t.Fatalf("expected at least one engine request")
	}
	return e.requests[len(e.requests)-1]
}

type patternOnlyEngine struct {
	recordingEngine
}

func (*patternOnlyEngine) SupportsStructuralPaths() bool { return false }

type memoryProofStore struct {
	mu      sync.Mutex
	records []core.ProofRecord
}

func (s *memoryProofStore) SaveProof(_ context.Context, record core.ProofRecord) (core.ProofRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return record, nil
}

func (s *memoryProofStore) GetByTransfer(_ context.Context, transferID string) (core.ProofRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].TransferID == transferID {
			return s.records[i], nil
		}
	}
	return core.ProofRecord{}, fmt.Errorf("memory store: proof not found")
}

func (s *memoryProofStore) ListRecent(_ context.Context, limit int) ([]core.ProofRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]core.ProofRecord, limit)
	copy(out, s.records[len(s.records)-limit:])
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newAuthorizeServer serves the token exchange and counts authorize calls.
func newAuthorizeServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/authorize") {
			http.NotFound(w, r)
			return
		}
		n := atomic.AddInt32(calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "SUCCESS",
			"data":   map[string]any{"token": fmt.Sprintf("bearer-%d", n)},
		})
	}))
}

func testProfile(serverURL string) *EndpointProfile {
	profile := ProfileV2()
	profile.AuthDomains = map[Environment]string{EnvironmentSandbox: serverURL}
	profile.APIDomains = map[Environment]string{EnvironmentSandbox: serverURL}
	return &profile
}

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	client, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientUsesPreSuppliedTokenWithoutAuthorizing(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{
			ClientID:     "client-1",
			ClientSecret: "secret-1",
			StaticToken:  "pre-obtained",
		},
		Profile: testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	result, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_123"})
	if err != nil {
		t.Fatalf("prove status: %v", err)
	}
	if result.Status != "SUCCESS" {
		t.Fatalf("unexpected result status %q", result.Status)
	}
	if got := atomic.LoadInt32(&authorizeCalls); got != 0 {
		t.Fatalf("expected no authorize calls with fresh pre-supplied token, got %d", got)
	}
	secret := engine.lastRequest(t).Secret
	if secret.Headers["Authorization"] != "Bearer pre-obtained" {
		t.Fatalf("expected pre-supplied bearer, got %q", secret.Headers["Authorization"])
	}
}

func TestClientReusesTokenAndReauthorizesOnceAfterExpiry(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	clock := newTestClock()
	engine := &recordingEngine{}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{
			ClientID:     "client-1",
			ClientSecret: "secret-1",
		},
		Profile: testProfile(server.URL),
	}, WithEngine(engine), WithClock(clock.Now))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.ProveTransferStatus(ctx, StatusProofRequest{TransferID: "txn_123"}); err != nil {
			t.Fatalf("prove %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&authorizeCalls); got != 1 {
		t.Fatalf("expected one authorize across fresh-token proofs, got %d", got)
	}
	if auth := engine.lastRequest(t).Secret.Headers["Authorization"]; auth != "Bearer bearer-1" {
		t.Fatalf("expected first bearer reused, got %q", auth)
	}

	clock.Advance(10 * time.Minute)
	if _, err := client.ProveTransferStatus(ctx, StatusProofRequest{TransferID: "txn_123"}); err != nil {
		t.Fatalf("prove after expiry: %v", err)
	}
	if got := atomic.LoadInt32(&authorizeCalls); got != 2 {
		t.Fatalf("expected exactly one re-authorization after expiry, got %d", got)
	}
	if auth := engine.lastRequest(t).Secret.Headers["Authorization"]; auth != "Bearer bearer-2" {
		t.Fatalf("expected refreshed bearer, got %q", auth)
	}
}

func TestStatusProofSeparatesPublicAndSecretDescriptors(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{
			ClientID:     "client-1",
			ClientSecret: "secret-1",
		},
		Profile: testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	_, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{
		TransferID:     "txn_123",
		ExpectedStatus: "SUCCESS",
		Context:        map[string]string{"purpose": "audit"},
	})
	if err != nil {
		t.Fatalf("prove status: %v", err)
	}

	req := engine.lastRequest(t)
	if req.Public.Method != "GET" {
		t.Fatalf("expected GET, got %q", req.Public.Method)
	}
	if !strings.Contains(req.URL, "transfer_id=txn_123") {
		t.Fatalf("expected transfer id in url, got %q", req.URL)
	}
	for key := range req.Public.Headers {
		if core.IsSensitiveHeaderKey(key) {
			t.Fatalf("sensitive header %q leaked into public descriptor", key)
		}
	}
	if req.Public.Headers["x-api-version"] != "2024-01-01" {
		t.Fatalf("expected profile api version in public headers, got %q", req.Public.Headers["x-api-version"])
	}
	if req.Public.Context["purpose"] != "audit" {
		t.Fatalf("expected context propagated, got %#v", req.Public.Context)
	}

	secret := req.Secret
	if secret.Headers["Authorization"] != "Bearer bearer-1" {
		t.Fatalf("expected bearer in secret headers, got %q", secret.Headers["Authorization"])
	}
	if secret.Headers["x-client-id"] != "client-1" || secret.Headers["x-client-secret"] != "secret-1" {
		t.Fatalf("expected credential headers in secret descriptor, got %#v", secret.Headers)
	}

	if len(secret.MatchRules) != 4 {
		t.Fatalf("expected 4 match rules, got %d", len(secret.MatchRules))
	}
	if secret.MatchRules[0].Field != core.FieldStatus || secret.MatchRules[0].Expected != "SUCCESS" {
		t.Fatalf("expected leading status assertion, got %#v", secret.MatchRules[0])
	}
	if len(secret.RedactionRules) != 4 {
		t.Fatalf("expected 4 redaction rules, got %d", len(secret.RedactionRules))
	}
}

func TestStatusProofFailsWhenEngineReturnsNoProof(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{
		generate: func(core.ProofRequest) (*core.Proof, error) {
			// Assertion failed upstream: completed, no proof.
			return nil, nil
		},
	}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	_, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{
		TransferID:     "txn_123",
		ExpectedStatus: "FAILED",
	})
	if err == nil {
		t.Fatalf("expected proof generation failure")
	}
	var proofErr *core.ProofGenerationError
	if !errors.As(err, &proofErr) {
		t.Fatalf("expected *core.ProofGenerationError, got %T", err)
	}
	if proofErr.Operation != core.OperationStatusCheck {
		t.Fatalf("expected status-check operation, got %q", proofErr.Operation)
	}
	if !errors.Is(err, core.ErrProofGeneration) {
		t.Fatalf("expected sentinel match, got %v", err)
	}
}

func TestStatusProofWithoutAmountYieldsNilAmount(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{
		generate: func(core.ProofRequest) (*core.Proof, error) {
			return &core.Proof{
				Identifier: "proof-2",
				ExtractedValues: map[string]string{
					core.FieldTransferID: "txn_456",
					core.FieldStatus:     "PENDING",
				},
			}, nil
		},
	}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	result, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_456"})
	if err != nil {
		t.Fatalf("prove status: %v", err)
	}
	if result.Status != "PENDING" {
		t.Fatalf("expected PENDING, got %q", result.Status)
	}
	if result.TransferAmount != nil {
		t.Fatalf("expected nil amount, got %v", *result.TransferAmount)
	}
}

func TestStatusProofParsesAmount(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	result, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_123"})
	if err != nil {
		t.Fatalf("prove status: %v", err)
	}
	if result.TransferAmount == nil || *result.TransferAmount != 100.50 {
		t.Fatalf("expected amount 100.50, got %v", result.TransferAmount)
	}
	if result.CFTransferID != "CF456" {
		t.Fatalf("expected cf transfer id, got %q", result.CFTransferID)
	}
}

func TestCreationProofPostsBodyAndFallsBackToBodyTransferID(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &recordingEngine{
		generate: func(core.ProofRequest) (*core.Proof, error) {
			return &core.Proof{
				Identifier: "proof-3",
				ExtractedValues: map[string]string{
					core.FieldCFTransferID: "CF900",
					core.FieldStatus:       "ACCEPTED",
				},
			}, nil
		},
	}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	body := `{"transfer_id":"txn_789","amount":42.00,"beneficiary_id":"ben_1"}`
	result, err := client.ProveTransferCreation(context.Background(), CreationProofRequest{
		Body: json.RawMessage(body),
	})
	if err != nil {
		t.Fatalf("prove creation: %v", err)
	}
	if result.TransferID != "txn_789" {
		t.Fatalf("expected transfer id from request body, got %q", result.TransferID)
	}
	if result.CFTransferID != "CF900" || result.Status != "ACCEPTED" {
		t.Fatalf("unexpected result %#v", result)
	}

	req := engine.lastRequest(t)
	if req.Public.Method != "POST" {
		t.Fatalf("expected POST, got %q", req.Public.Method)
	}
	if req.Public.Body != body {
		t.Fatalf("expected body forwarded verbatim, got %q", req.Public.Body)
	}
	if strings.Contains(req.URL, "?") {
		t.Fatalf("creation url must carry no query, got %q", req.URL)
	}
}

func TestClientRecordsRedactedProofToLedger(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	store := &memoryProofStore{}
	engine := &recordingEngine{
		generate: func(core.ProofRequest) (*core.Proof, error) {
			return &core.Proof{
				Identifier: "proof-4",
				Witnesses:  []core.Witness{{ID: "w1", URL: "wss://witness.example.com/ws"}},
				ExtractedValues: map[string]string{
					core.FieldTransferID: "txn_123",
					core.FieldStatus:     "SUCCESS",
					"session_token":      "leaked-material",
				},
			}, nil
		},
	}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithProofStore(store), WithClock(newTestClock().Now))

	if _, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_123"}); err != nil {
		t.Fatalf("prove status: %v", err)
	}

	record, err := store.GetByTransfer(context.Background(), "txn_123")
	if err != nil {
		t.Fatalf("ledger lookup: %v", err)
	}
	if record.Operation != core.OperationStatusCheck || record.ProviderID != ProviderID {
		t.Fatalf("unexpected ledger record %#v", record)
	}
	if record.ExtractedValues["session_token"] != core.RedactedValue {
		t.Fatalf("expected token-like extracted value redacted, got %q", record.ExtractedValues["session_token"])
	}
	if len(record.WitnessHosts) != 1 || record.WitnessHosts[0] != "witness.example.com" {
		t.Fatalf("expected witness host projection, got %#v", record.WitnessHosts)
	}
}

func TestClientFallsBackToPatternRulesForPathIncapableEngines(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	engine := &patternOnlyEngine{}
	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithEngine(engine), WithClock(newTestClock().Now))

	if _, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_123"}); err != nil {
		t.Fatalf("prove status: %v", err)
	}
	for _, rule := range engine.lastRequest(t).Secret.MatchRules {
		if rule.Kind != core.RuleKindPattern {
			t.Fatalf("expected pattern rules for path-incapable engine, got %#v", rule)
		}
	}
}

func TestNewClientWithoutEngineFailsLoudlyOnProve(t *testing.T) {
	var authorizeCalls int32
	server := newAuthorizeServer(t, &authorizeCalls)
	defer server.Close()

	client := newTestClient(t, Config{
		Credentials: core.Credentials{ClientID: "client-1", ClientSecret: "secret-1"},
		Profile:     testProfile(server.URL),
	}, WithClock(newTestClock().Now))

	if _, err := client.ProveTransferStatus(context.Background(), StatusProofRequest{TransferID: "txn_123"}); !errors.Is(err, core.ErrProofGeneration) {
		t.Fatalf("expected proof generation failure without an engine, got %v", err)
	}
}

func TestNewClientValidatesCredentials(t *testing.T) {
	_, err := New(Config{Credentials: core.Credentials{ClientID: "client-1"}})
	if err == nil {
		t.Fatalf("expected credential validation error")
	}
	_, err = New(Config{Credentials: core.Credentials{ClientSecret: "s"}})
	if err == nil {
		t.Fatalf("expected missing client id error")
	}
}
