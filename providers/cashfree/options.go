package cashfree

import (
	"time"

	"github.com/goliatone/go-payout-attest/auth"
	"github.com/goliatone/go-payout-attest/core"
)

type Option func(*clientBuilder)

type clientBuilder struct {
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	engine          core.ProofEngine
	proofStore      core.ProofStore
	secretProvider  core.SecretProvider
	httpClient      auth.HTTPDoer
	signer          auth.SignatureGenerator
	now             func() time.Time
}

func WithLogger(logger core.Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

func WithEngine(proofEngine core.ProofEngine) Option {
	return func(b *clientBuilder) {
		b.engine = proofEngine
	}
}

func WithProofStore(store core.ProofStore) Option {
	return func(b *clientBuilder) {
		b.proofStore = store
	}
}

func WithSecretProvider(provider core.SecretProvider) Option {
	return func(b *clientBuilder) {
		b.secretProvider = provider
	}
}

func WithHTTPClient(client auth.HTTPDoer) Option {
	return func(b *clientBuilder) {
		b.httpClient = client
	}
}

func WithSignatureGenerator(signer auth.SignatureGenerator) Option {
	return func(b *clientBuilder) {
		b.signer = signer
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *clientBuilder) {
		b.now = now
	}
}
