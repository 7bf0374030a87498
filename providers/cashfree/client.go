package cashfree

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/goliatone/go-payout-attest/auth"
	"github.com/goliatone/go-payout-attest/core"
	"github.com/goliatone/go-payout-attest/descriptor"
	"github.com/goliatone/go-payout-attest/engine"
)

const (
	headerAuthorization = "Authorization"
	headerClientIDKey   = "x-client-id"
	headerClientSecret  = "x-client-secret"
)

type Config struct {
	Credentials core.Credentials
	Environment Environment

	// Profile overrides the endpoint profile resolved from runtime config.
	Profile *EndpointProfile

	// Runtime carries config overrides layered over defaults and any loaded
	// configuration.
	Runtime core.Config
}

// Client orchestrates proof generation: AcquireToken, BuildDescriptors,
// Generate, ParseResult. Safe for concurrent use; all calls share one token
// cache.
type Client struct {
	credentials core.Credentials
	environment Environment
	profile     EndpointProfile
	baseURL     string
	proofEngine core.ProofEngine
	store       core.ProofStore
	cache       *auth.Cache
	signer      auth.SignatureGenerator
	observer    core.Observer
	logger      core.Logger
	now         func() time.Time
}

// StatusProofRequest describes one transfer-status proof. ExtraMatchRules
// and ExtraRedactionRules append to the defaults, never replace them.
// Retries and RetryInterval are delegated to the engine untouched.
type StatusProofRequest struct {
	TransferID          string
	ExpectedStatus      string
	ExtraMatchRules     []core.MatchRule
	ExtraRedactionRules []core.RedactionRule
	Context             map[string]string
	Retries             int
	RetryInterval       time.Duration
}

// CreationProofRequest describes one transfer-creation proof. Body is the
// JSON transfer request forwarded verbatim to the payout API.
type CreationProofRequest struct {
	Body                json.RawMessage
	ExtraMatchRules     []core.MatchRule
	ExtraRedactionRules []core.RedactionRule
	Context             map[string]string
	Retries             int
	RetryInterval       time.Duration
}

func New(cfg Config, opts ...Option) (*Client, error) {
	builder := clientBuilder{
		metricsRecorder: core.NopMetricsRecorder{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve(ProviderID, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(ProviderID); named != nil {
			logger = glog.Ensure(named)
		}
	}

	now := builder.now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	resolved, err := core.ResolveConfig(context.Background(), builder.configProvider, builder.optionsResolver, cfg.Runtime)
	if err != nil {
		return nil, err
	}

	environment := cfg.Environment
	if strings.TrimSpace(string(environment)) == "" {
		environment = Environment(resolved.Environment)
	}

	profile := ProfileV2()
	if cfg.Profile != nil {
		profile = *cfg.Profile
	} else if resolved.Profile != "" {
		profile, err = ProfileByName(resolved.Profile)
		if err != nil {
			return nil, err
		}
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	credentials := cfg.Credentials
	if resolved.EncryptedCredentials {
		credentials, err = decryptCredentials(context.Background(), builder.secretProvider, credentials)
		if err != nil {
			return nil, err
		}
	}
	if credentials.APIVersion == "" {
		credentials.APIVersion = profile.APIVersion
	}
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := profile.BaseURL(environment)
	if err != nil {
		return nil, err
	}

	signer := builder.signer
	if signer == nil && credentials.HasPrivateKey() {
		generator, genErr := auth.NewGenerator(auth.GeneratorConfig{
			PrivateKeyPEM: credentials.PrivateKeyPEM,
			Now:           now,
		})
		if genErr != nil {
			return nil, genErr
		}
		signer = generator
	}

	var authorize auth.AuthorizeFunc
	if strings.TrimSpace(credentials.ClientSecret) != "" {
		authorizeURL, urlErr := profile.AuthorizeURL(environment)
		if urlErr != nil {
			return nil, urlErr
		}
		authority, authErr := auth.NewAuthority(auth.AuthorityConfig{
			ClientID:       credentials.ClientID,
			ClientSecret:   credentials.ClientSecret,
			AuthorizeURL:   authorizeURL,
			Signer:         signer,
			HTTPClient:     builder.httpClient,
			RequestTimeout: resolved.RequestTimeout,
		})
		if authErr != nil {
			return nil, authErr
		}
		authorize = authority.Authorize
	}

	cache := auth.NewCache(auth.CacheConfig{
		Authorize:      authorize,
		SafetyWindow:   resolved.TokenSafetyWindow,
		SeededToken:    credentials.StaticToken,
		SeededLifetime: resolved.SeededTokenLifetime,
		Now:            now,
	})

	proofEngine := builder.engine
	if proofEngine == nil {
		proofEngine = engine.NewUnsupportedEngine("wire a zkTLS attestation adapter via cashfree.WithEngine")
	}

	return &Client{
		credentials: credentials,
		environment: environment,
		profile:     profile,
		baseURL:     baseURL,
		proofEngine: proofEngine,
		store:       builder.proofStore,
		cache:       cache,
		signer:      signer,
		observer: core.Observer{
			Logger:  logger,
			Metrics: builder.metricsRecorder,
		},
		logger: logger,
		now:    now,
	}, nil
}

// BaseURL returns the resolved API domain for the client's environment and
// profile.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) Environment() Environment {
	if c == nil {
		return ""
	}
	return c.environment
}

func (c *Client) Profile() EndpointProfile {
	if c == nil {
		return EndpointProfile{}
	}
	return c.profile
}

// SecretHeaders resolves the current secret header set, refreshing the
// bearer token when stale. The returned map is built fresh per call; mutating
// it never affects the client.
func (c *Client) SecretHeaders(ctx context.Context) (map[string]string, error) {
	if c == nil {
		return nil, fmt.Errorf("providers/cashfree: client is nil")
	}
	token, err := c.cache.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		headerAuthorization: "Bearer " + token,
	}
	if clientID := strings.TrimSpace(c.credentials.ClientID); clientID != "" {
		headers[headerClientIDKey] = clientID
	}
	if secret := strings.TrimSpace(c.credentials.ClientSecret); secret != "" {
		headers[headerClientSecret] = secret
	}
	if c.signer != nil {
		signature, signErr := c.signer.Sign(c.credentials.ClientID)
		if signErr != nil {
			return nil, signErr
		}
		headers[auth.HeaderSignature] = signature
	}

	// The profile's mandated header set is all-or-nothing: a partially
	// populated secret descriptor must never reach the engine.
	for _, required := range c.profile.RequiredSecretHeaders {
		if strings.TrimSpace(headers[required]) == "" {
			return nil, fmt.Errorf("providers/cashfree: secret header %q is required by profile %q", required, c.profile.Name)
		}
	}

	return headers, nil
}

// ProveTransferStatus generates a proof that the payout API reported the
// given transfer, optionally asserting an expected status. The engine fails
// the proof, rather than extracting empty values, when the assertion does
// not hold.
func (c *Client) ProveTransferStatus(ctx context.Context, req StatusProofRequest) (core.TransferStatusResult, error) {
	if c == nil {
		return core.TransferStatusResult{}, fmt.Errorf("providers/cashfree: client is nil")
	}
	startedAt := c.now()
	fields := map[string]any{
		"provider_id": ProviderID,
		"operation":   core.OperationStatusCheck,
		"environment": string(c.environment),
		"transfer_id": strings.TrimSpace(req.TransferID),
	}

	result, err := c.proveTransferStatus(ctx, req)
	c.observer.Observe(ctx, startedAt, "transfer_status_proof", err, fields)
	return result, err
}

func (c *Client) proveTransferStatus(ctx context.Context, req StatusProofRequest) (core.TransferStatusResult, error) {
	transferID := strings.TrimSpace(req.TransferID)
	if transferID == "" {
		return core.TransferStatusResult{}, fmt.Errorf("providers/cashfree: transfer id is required")
	}

	secretHeaders, err := c.SecretHeaders(ctx)
	if err != nil {
		return core.TransferStatusResult{}, err
	}

	kind := c.ruleKind()
	matchRules := descriptor.StatusMatchRules(req.ExpectedStatus, kind, req.ExtraMatchRules...)
	redactionRules := descriptor.DefaultRedactionRules(kind, req.ExtraRedactionRules...)

	public, err := descriptor.BuildPublic(descriptor.PublicRequest{
		Method:     "GET",
		APIVersion: c.credentials.APIVersion,
		Context:    req.Context,
	})
	if err != nil {
		return core.TransferStatusResult{}, err
	}
	secret := descriptor.BuildSecret(secretHeaders, matchRules, redactionRules)

	statusURL, err := c.profile.StatusURL(c.environment, transferID)
	if err != nil {
		return core.TransferStatusResult{}, err
	}

	proof, err := c.generate(ctx, core.OperationStatusCheck, core.ProofRequest{
		URL:           statusURL,
		Public:        public,
		Secret:        secret,
		Retries:       req.Retries,
		RetryInterval: req.RetryInterval,
	})
	if err != nil {
		return core.TransferStatusResult{}, err
	}

	extracted := proof.ExtractedValues
	result := core.TransferStatusResult{
		TransferID:     firstNonEmpty(extracted[core.FieldTransferID], transferID),
		CFTransferID:   extracted[core.FieldCFTransferID],
		Status:         extracted[core.FieldStatus],
		TransferAmount: parseAmount(extracted[core.FieldTransferAmount]),
		Proof:          proof,
	}
	c.recordProof(ctx, core.OperationStatusCheck, result.TransferID, result.CFTransferID, result.Status, result.TransferAmount, proof)
	return result, nil
}

// ProveTransferCreation generates a proof that the payout API accepted the
// given transfer request. The remote call moves money: it is not idempotent,
// and no retry happens beyond what the caller explicitly requests.
func (c *Client) ProveTransferCreation(ctx context.Context, req CreationProofRequest) (core.TransferCreationResult, error) {
	if c == nil {
		return core.TransferCreationResult{}, fmt.Errorf("providers/cashfree: client is nil")
	}
	startedAt := c.now()
	fields := map[string]any{
		"provider_id": ProviderID,
		"operation":   core.OperationCreation,
		"environment": string(c.environment),
	}

	result, err := c.proveTransferCreation(ctx, req)
	if result.TransferID != "" {
		fields["transfer_id"] = result.TransferID
	}
	c.observer.Observe(ctx, startedAt, "transfer_creation_proof", err, fields)
	return result, err
}

func (c *Client) proveTransferCreation(ctx context.Context, req CreationProofRequest) (core.TransferCreationResult, error) {
	body := strings.TrimSpace(string(req.Body))
	if body == "" {
		return core.TransferCreationResult{}, fmt.Errorf("providers/cashfree: transfer request body is required")
	}

	secretHeaders, err := c.SecretHeaders(ctx)
	if err != nil {
		return core.TransferCreationResult{}, err
	}

	kind := c.ruleKind()
	matchRules := descriptor.CreationMatchRules(kind, req.ExtraMatchRules...)
	redactionRules := descriptor.DefaultRedactionRules(kind, req.ExtraRedactionRules...)

	public, err := descriptor.BuildPublic(descriptor.PublicRequest{
		Method:     "POST",
		Body:       body,
		APIVersion: c.credentials.APIVersion,
		Context:    req.Context,
	})
	if err != nil {
		return core.TransferCreationResult{}, err
	}
	secret := descriptor.BuildSecret(secretHeaders, matchRules, redactionRules)

	createURL, err := c.profile.CreateURL(c.environment)
	if err != nil {
		return core.TransferCreationResult{}, err
	}

	proof, err := c.generate(ctx, core.OperationCreation, core.ProofRequest{
		URL:           createURL,
		Public:        public,
		Secret:        secret,
		Retries:       req.Retries,
		RetryInterval: req.RetryInterval,
	})
	if err != nil {
		return core.TransferCreationResult{}, err
	}

	extracted := proof.ExtractedValues
	result := core.TransferCreationResult{
		TransferID:   firstNonEmpty(extracted[core.FieldTransferID], transferIDFromBody(req.Body)),
		CFTransferID: extracted[core.FieldCFTransferID],
		Status:       extracted[core.FieldStatus],
		Proof:        proof,
	}
	c.recordProof(ctx, core.OperationCreation, result.TransferID, result.CFTransferID, result.Status, nil, proof)
	return result, nil
}

func (c *Client) generate(ctx context.Context, operation string, req core.ProofRequest) (*core.Proof, error) {
	proof, err := c.proofEngine.GenerateProof(ctx, req)
	if err != nil {
		return nil, &core.ProofGenerationError{
			Operation: operation,
			URL:       req.URL,
			Message:   "engine failed",
			Cause:     err,
		}
	}
	if proof == nil {
		return nil, &core.ProofGenerationError{
			Operation: operation,
			URL:       req.URL,
			Message:   "engine returned no proof",
		}
	}
	return proof, nil
}

// ruleKind prefers structural paths and falls back to named-capture patterns
// when the engine reports it cannot evaluate paths.
func (c *Client) ruleKind() core.RuleKind {
	if capable, ok := c.proofEngine.(core.StructuralPathCapable); ok && !capable.SupportsStructuralPaths() {
		return core.RuleKindPattern
	}
	return core.RuleKindPath
}

// recordProof appends to the proof ledger when one is configured. Ledger
// failures are logged, not surfaced: the proof itself already succeeded.
func (c *Client) recordProof(
	ctx context.Context,
	operation string,
	transferID string,
	cfTransferID string,
	status string,
	amount *float64,
	proof *core.Proof,
) {
	if c.store == nil || proof == nil {
		return
	}
	record := core.ProofRecord{
		ID:              uuid.NewString(),
		ProviderID:      ProviderID,
		Operation:       operation,
		TransferID:      transferID,
		CFTransferID:    cfTransferID,
		Status:          status,
		TransferAmount:  amount,
		ExtractedValues: redactExtractedValues(proof.ExtractedValues),
		WitnessHosts:    witnessHosts(proof.Witnesses),
		CreatedAt:       c.now(),
	}
	if _, err := c.store.SaveProof(ctx, record); err != nil && c.logger != nil {
		c.logger.Error("proof ledger save failed", "operation", operation, "transfer_id", transferID, "error", err.Error())
	}
}

func decryptCredentials(ctx context.Context, provider core.SecretProvider, credentials core.Credentials) (core.Credentials, error) {
	if provider == nil {
		return core.Credentials{}, fmt.Errorf("providers/cashfree: encrypted credentials require a secret provider")
	}
	decrypted := credentials
	if strings.TrimSpace(credentials.ClientSecret) != "" {
		plaintext, err := provider.Decrypt(ctx, []byte(credentials.ClientSecret))
		if err != nil {
			return core.Credentials{}, fmt.Errorf("providers/cashfree: decrypt client secret: %w", err)
		}
		decrypted.ClientSecret = string(plaintext)
	}
	if strings.TrimSpace(credentials.PrivateKeyPEM) != "" {
		plaintext, err := provider.Decrypt(ctx, []byte(credentials.PrivateKeyPEM))
		if err != nil {
			return core.Credentials{}, fmt.Errorf("providers/cashfree: decrypt private key: %w", err)
		}
		decrypted.PrivateKeyPEM = string(plaintext)
	}
	return decrypted, nil
}

func redactExtractedValues(values map[string]string) map[string]string {
	return core.RedactSensitiveHeaders(values)
}

func witnessHosts(witnesses []core.Witness) []string {
	if len(witnesses) == 0 {
		return nil
	}
	hosts := make([]string, 0, len(witnesses))
	for _, witness := range witnesses {
		trimmed := strings.TrimSpace(witness.URL)
		if trimmed == "" {
			continue
		}
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			hosts = append(hosts, parsed.Host)
			continue
		}
		hosts = append(hosts, trimmed)
	}
	return hosts
}

func transferIDFromBody(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if value, ok := payload[core.FieldTransferID].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func parseAmount(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &amount
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
