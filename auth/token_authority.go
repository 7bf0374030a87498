package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-payout-attest/core"
)

const (
	defaultAuthorizeRequestTimeout = 30 * time.Second
	maxAuthorizeResponseBodyBytes  = 1 << 20

	authorizeSuccessStatus = "SUCCESS"

	HeaderClientID     = "X-Client-Id"
	HeaderClientSecret = "X-Client-Secret"
	HeaderSignature    = "X-Cf-Signature"
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type AuthorityConfig struct {
	ClientID       string
	ClientSecret   string
	AuthorizeURL   string
	Signer         SignatureGenerator
	HTTPClient     HTTPDoer
	RequestTimeout time.Duration
}

// Authority exchanges long-lived client credentials for a short-lived bearer
// token. One authenticated POST per call; retries belong to the caller.
type Authority struct {
	config     AuthorityConfig
	httpClient HTTPDoer
}

func NewAuthority(cfg AuthorityConfig) (*Authority, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	authorizeURL := strings.TrimSpace(cfg.AuthorizeURL)
	if clientID == "" {
		return nil, &core.AuthorizationError{Message: "client id is required"}
	}
	if clientSecret == "" {
		return nil, &core.AuthorizationError{Message: "client secret is required"}
	}
	if authorizeURL == "" {
		return nil, &core.AuthorizationError{Message: "authorize url is required"}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultAuthorizeRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Authority{
		config: AuthorityConfig{
			ClientID:       clientID,
			ClientSecret:   clientSecret,
			AuthorizeURL:   authorizeURL,
			Signer:         cfg.Signer,
			RequestTimeout: timeout,
		},
		httpClient: httpClient,
	}, nil
}

// Authorize issues the authorization exchange and returns the bearer token.
// Must only be called when a token is genuinely needed; the caller owns
// caching and coalescing.
func (a *Authority) Authorize(ctx context.Context) (string, error) {
	if a == nil || a.httpClient == nil {
		return "", &core.AuthorizationError{Message: "http client is not configured"}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx := ctx
	cancel := func() {}
	if a.config.RequestTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
	}
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		requestCtx,
		http.MethodPost,
		a.config.AuthorizeURL,
		strings.NewReader("{}"),
	)
	if err != nil {
		return "", &core.AuthorizationError{Message: "build authorize request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderClientID, a.config.ClientID)
	httpReq.Header.Set(HeaderClientSecret, a.config.ClientSecret)
	if a.config.Signer != nil {
		// Signed fresh per attempt: the embedded timestamp must fall inside
		// the server's validity window.
		signature, signErr := a.config.Signer.Sign(a.config.ClientID)
		if signErr != nil {
			return "", signErr
		}
		httpReq.Header.Set(HeaderSignature, signature)
	}

	response, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", &core.AuthorizationError{Message: "authorize request failed", Cause: err}
	}
	defer response.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(response.Body, maxAuthorizeResponseBodyBytes+1))
	if readErr != nil {
		return "", &core.AuthorizationError{StatusCode: response.StatusCode, Message: "read authorize response", Cause: readErr}
	}
	if int64(len(body)) > maxAuthorizeResponseBodyBytes {
		return "", &core.AuthorizationError{StatusCode: response.StatusCode, Message: "authorize response exceeds size limit"}
	}

	payload := map[string]any{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", &core.AuthorizationError{StatusCode: response.StatusCode, Message: "decode authorize response", Cause: err}
		}
	}

	status := strings.TrimSpace(readAnyString(payload["status"]))
	serverMessage := strings.TrimSpace(readAnyString(payload["message"]))
	token := ""
	if data, ok := payload["data"].(map[string]any); ok {
		token = strings.TrimSpace(readAnyString(data["token"]))
	}

	if !strings.EqualFold(status, authorizeSuccessStatus) || token == "" {
		message := "authorize response missing token"
		if !strings.EqualFold(status, authorizeSuccessStatus) {
			message = "authorize status is not SUCCESS"
		}
		return "", &core.AuthorizationError{
			StatusCode:    response.StatusCode,
			ServerMessage: serverMessage,
			Message:       message,
		}
	}

	return token, nil
}
