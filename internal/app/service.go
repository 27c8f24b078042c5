// Package service provides the core request handler that validates,
// authenticates, and dispatches method requests to their scoring
// operations.
package service

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/okian/clientscore/internal/adapters/store"
	"github.com/okian/clientscore/internal/auth"
	"github.com/okian/clientscore/internal/domain/request"
	"github.com/okian/clientscore/internal/domain/scoring"
	"github.com/okian/clientscore/pkg/logger"
	"github.com/okian/clientscore/pkg/metrics"
)

// adminScore is the fixed score returned to the admin identity without
// consulting the store.
const adminScore = 42

// RequestContext carries per-request observability state the handlers
// fill in as a side effect.
type RequestContext struct {
	RequestID string

	// Has lists which optional score fields were present.
	Has []string

	// NClients is how many client identifiers an interests request named.
	NClients int
}

// Service implements the method dispatcher over a cache-backed store.
type Service struct {
	mu sync.Mutex

	// Collaborators
	store  store.Store
	authn  *auth.Authenticator
	scorer *scoring.Scorer

	// Configuration
	storeAddr      string
	storeDB        int
	attempts       int
	retryDelay     time.Duration
	connectTimeout time.Duration
	salt           string
	adminSalt      string
	scoreTTL       time.Duration

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore injects a store, bypassing construction at Start.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithAuthenticator injects an authenticator, bypassing construction at
// Start.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(s *Service) {
		if a != nil {
			s.authn = a
		}
	}
}

// WithStoreAddr sets the cache backend address.
func WithStoreAddr(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.storeAddr = addr
		}
	}
}

// WithStoreDB selects the backend database index.
func WithStoreDB(db int) Option {
	return func(s *Service) {
		if db >= 0 {
			s.storeDB = db
		}
	}
}

// WithStoreRetry sets the retry budget and the fixed inter-attempt delay.
func WithStoreRetry(attempts int, delay time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay >= 0 {
			s.retryDelay = delay
		}
	}
}

// WithStoreConnectTimeout bounds each connection dial.
func WithStoreConnectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithSecrets sets the token derivation secrets.
func WithSecrets(salt, adminSalt string) Option {
	return func(s *Service) {
		s.salt = salt
		s.adminSalt = adminSalt
	}
}

// WithScoreTTL sets the cache lifetime of computed scores.
func WithScoreTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.scoreTTL = ttl
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeAddr:      "localhost:6379",
		attempts:       3,
		retryDelay:     100 * time.Millisecond,
		connectTimeout: 5 * time.Second,
		salt:           "Otus",
		adminSalt:      "42",
		scoreTTL:       60 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service collaborators.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	if s.store == nil {
		s.store = store.New(s.storeAddr,
			store.WithDB(s.storeDB),
			store.WithAttempts(s.attempts),
			store.WithRetryDelay(s.retryDelay),
			store.WithConnectTimeout(s.connectTimeout),
			store.WithLogger(s.log),
		)
	}
	if s.authn == nil {
		s.authn = auth.New(s.salt, s.adminSalt)
	}
	s.scorer = scoring.New(s.store,
		scoring.WithTTL(s.scoreTTL),
		scoring.WithLogger(s.log),
	)

	s.started = true
	s.log.Info(ctx, "scoring service started",
		logger.String("storeAddr", s.storeAddr),
		logger.Int("retryAttempts", s.attempts),
	)
	return nil
}

// Stop releases the service collaborators.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.log.Info(context.Background(), "scoring service stopped")
}

// Handle validates and dispatches one raw method request. Preconditions
// are checked in order: envelope schema, authentication, method lookup,
// per-method argument schema. The returned payload is either the method
// result or the ordered validation error list.
func (s *Service) Handle(ctx context.Context, body map[string]any, reqCtx *RequestContext) (any, int) {
	if len(body) == 0 {
		return nil, http.StatusUnprocessableEntity
	}

	m := request.ValidateMethod(body)
	if !m.Valid() {
		metrics.RecordValidationError("method")
		return m.Messages(), http.StatusUnprocessableEntity
	}

	if !s.authn.Check(m) {
		metrics.RecordAuthFailure()
		s.log.Info(ctx, "authentication failed",
			logger.String("login", m.Login()),
			logger.String("requestID", reqCtx.RequestID),
		)
		return nil, http.StatusForbidden
	}

	switch m.Name() {
	case request.MethodOnlineScore:
		return s.handleOnlineScore(ctx, m, reqCtx)
	case request.MethodClientsInterests:
		return s.handleClientsInterests(ctx, m, reqCtx)
	default:
		metrics.RecordUnknownMethod()
		return nil, http.StatusNotFound
	}
}

func (s *Service) handleOnlineScore(ctx context.Context, m request.Method, reqCtx *RequestContext) (any, int) {
	args := request.ValidateOnlineScore(m.Arguments())
	if !args.Valid() {
		metrics.RecordValidationError(request.MethodOnlineScore)
		return args.Messages(), http.StatusUnprocessableEntity
	}

	reqCtx.Has = args.PresentFields()

	if m.IsAdmin() {
		return map[string]any{"score": float64(adminScore)}, http.StatusOK
	}

	in := scoring.Input{
		Phone:     args.Str("phone"),
		Email:     args.Str("email"),
		FirstName: args.Str("first_name"),
		LastName:  args.Str("last_name"),
	}
	if bd, ok := args.Date("birthday"); ok {
		in.Birthday = &bd
	}
	if g, ok := args.Int("gender"); ok {
		in.Gender = &g
	}

	return map[string]any{"score": s.scorer.Score(ctx, in)}, http.StatusOK
}

func (s *Service) handleClientsInterests(ctx context.Context, m request.Method, reqCtx *RequestContext) (any, int) {
	args := request.ValidateClientsInterests(m.Arguments())
	if !args.Valid() {
		metrics.RecordValidationError(request.MethodClientsInterests)
		return args.Messages(), http.StatusUnprocessableEntity
	}

	ids := args.ClientIDs()
	resp := make(map[string]any, len(ids))
	for _, id := range ids {
		interests, err := s.scorer.Interests(ctx, id)
		if err != nil {
			s.log.Error(ctx, "interest lookup failed",
				logger.Int("clientID", id),
				logger.String("requestID", reqCtx.RequestID),
				logger.Error(err),
			)
			return nil, http.StatusInternalServerError
		}
		resp[strconv.Itoa(id)] = interests
	}

	reqCtx.NClients = len(ids)
	return resp, http.StatusOK
}
