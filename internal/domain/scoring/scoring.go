// Package scoring computes client scores and interest lookups backed by
// the cache store.
package scoring

import (
	"context"
	"crypto/md5" //nolint:gosec // cache key derivation, not integrity
	"encoding/hex"
	"strconv"
	"time"

	"github.com/okian/clientscore/internal/adapters/store"
	"github.com/okian/clientscore/pkg/logger"
	"github.com/okian/clientscore/pkg/metrics"
)

// Score weights per present field group.
const (
	phoneWeight    = 1.5
	emailWeight    = 1.5
	birthGenWeight = 1.5
	nameWeight     = 0.5
)

// Cache key namespaces.
const (
	scoreKeyPrefix    = "uid:"
	interestKeyPrefix = "i:"
)

// keyDateLayout formats the birthday component of the cache key.
const keyDateLayout = "20060102"

// defaultTTL is how long a computed score stays cached.
const defaultTTL = 60 * time.Minute

// Input carries the validated, normalized score arguments. Pointer fields
// distinguish absent from zero: gender code 0 is a present value.
type Input struct {
	Phone     string
	Email     string
	Birthday  *time.Time
	Gender    *int
	FirstName string
	LastName  string
}

// Scorer computes scores through the cache store.
type Scorer struct {
	store store.Store
	ttl   time.Duration
	log   logger.Logger
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTTL overrides the cache lifetime of computed scores.
func WithTTL(ttl time.Duration) Option {
	return func(s *Scorer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(log logger.Logger) Option {
	return func(s *Scorer) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Scorer over the given store.
func New(st store.Store, opts ...Option) *Scorer {
	s := &Scorer{store: st, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheKey derives the deterministic cache key for a score input. The key
// material deliberately covers only the name and birthday fields: two
// inputs sharing those collide and the second caller gets the cached
// score. Known coarse-caching behavior, kept as-is.
func CacheKey(in Input) string {
	material := in.FirstName + in.LastName
	if in.Birthday != nil {
		material += in.Birthday.Format(keyDateLayout)
	}
	sum := md5.Sum([]byte(material)) //nolint:gosec // see import note
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}

// Score returns the cached score for the input's identity when present,
// otherwise computes a weighted score from which fields are set and writes
// it through with the configured TTL.
func (s *Scorer) Score(ctx context.Context, in Input) float64 {
	key := CacheKey(in)
	if cached, ok := s.store.CacheGet(ctx, key); ok && cached != 0 {
		return cached
	}

	var score float64
	if in.Phone != "" {
		score += phoneWeight
	}
	if in.Email != "" {
		score += emailWeight
	}
	if in.Birthday != nil && in.Gender != nil {
		score += birthGenWeight
	}
	if in.FirstName != "" && in.LastName != "" {
		score += nameWeight
	}

	metrics.RecordScoreComputed()
	if s.log != nil {
		s.log.Debug(ctx, "score computed",
			logger.String("key", key),
			logger.Float64("score", score),
		)
	}
	s.store.CacheSet(ctx, key, score, s.ttl)
	return score
}

// Interests returns the interest list stored for a client identifier. A
// client without an entry has an empty list; an unreachable store is an
// error.
func (s *Scorer) Interests(ctx context.Context, clientID int) ([]string, error) {
	items, err := s.store.GetList(ctx, interestKeyPrefix+strconv.Itoa(clientID))
	if err != nil {
		return nil, err
	}
	metrics.RecordInterestsLookup()
	if items == nil {
		items = []string{}
	}
	return items, nil
}
