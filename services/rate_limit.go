package services

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/shared"
)

// RateLimitPolicy is the immutable quota configuration for one
// submission category.
type RateLimitPolicy struct {
	Category    string
	MaxPoints   int
	Window      time.Duration
	Description string
}

// RateLimitStore is the counter backend behind the limiter. The
// in-memory store is the default and enforces quotas per process only;
// the redis store shares counters across instances. Consume must
// serialize increment-and-check per bucket.
type RateLimitStore interface {
	Consume(policy RateLimitPolicy, clientKey string) (*dto.RateLimitInfo, error)
	Reset(category, clientKey string) error
	Remaining(policy RateLimitPolicy, clientKey string) (int, error)
}

type RateLimitService struct {
	context.DefaultService

	policies map[string]RateLimitPolicy
	mutex    sync.RWMutex

	store RateLimitStore
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc *RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.initDefaultPolicies()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	if svc.store == nil {
		if os.Getenv("RATE_LIMIT_STORE") == "redis" {
			redisSvc := svc.Service(REDIS_SVC).(*RedisService)
			svc.store = NewRedisRateLimitStore(redisSvc.GetClient())
			log.Info("Rate limiter using redis counter store")
		} else {
			store := NewMemoryRateLimitStore()
			go store.startCleanupJob()
			svc.store = store
		}
	}
	return nil
}

func (svc *RateLimitService) initDefaultPolicies() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.policies = map[string]RateLimitPolicy{
		shared.CategoryRegistration: {
			Category:    shared.CategoryRegistration,
			MaxPoints:   5,
			Window:      15 * time.Minute,
			Description: "Interest registration rate limit",
		},
		shared.CategoryWaitlist: {
			Category:    shared.CategoryWaitlist,
			MaxPoints:   5,
			Window:      15 * time.Minute,
			Description: "Waitlist signup rate limit",
		},
		shared.CategoryContact: {
			Category:    shared.CategoryContact,
			MaxPoints:   5,
			Window:      10 * time.Minute,
			Description: "Contact form rate limit",
		},
		shared.CategoryRecommendation: {
			Category:    shared.CategoryRecommendation,
			MaxPoints:   10,
			Window:      time.Hour,
			Description: "Recommendation form rate limit",
		},
		shared.CategoryGdpr: {
			Category:    shared.CategoryGdpr,
			MaxPoints:   3,
			Window:      time.Hour,
			Description: "GDPR request rate limit",
		},
	}
}

// Policy returns the policy for a category. An unknown category is a
// programming error, not a runtime condition.
func (svc *RateLimitService) Policy(category string) RateLimitPolicy {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	policy, exists := svc.policies[category]
	if !exists {
		panic(fmt.Sprintf("no rate limit policy for category %q", category))
	}
	return policy
}

// CheckLimit consumes one point from the (clientKey, category) bucket.
func (svc *RateLimitService) CheckLimit(category, clientKey string) (*dto.RateLimitInfo, error) {
	return svc.store.Consume(svc.Policy(category), clientKey)
}

// Reset drops the bucket for a (clientKey, category) pair.
func (svc *RateLimitService) Reset(category, clientKey string) error {
	svc.Policy(category)
	return svc.store.Reset(category, clientKey)
}

// Remaining reports how many points are left in the current window
// without consuming one.
func (svc *RateLimitService) Remaining(category, clientKey string) (int, error) {
	return svc.store.Remaining(svc.Policy(category), clientKey)
}

// ==================== IN-MEMORY STORE ====================

type rateLimitBucket struct {
	pointsConsumed int
	windowStart    time.Time
}

// MemoryRateLimitStore keeps buckets in a process-local map. Multiple
// instances behind a load balancer under-enforce proportionally; that
// is an accepted limitation of the in-memory store.
type MemoryRateLimitStore struct {
	buckets map[string]*rateLimitBucket
	mutex   sync.Mutex

	now func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		buckets: make(map[string]*rateLimitBucket),
		now:     time.Now,
	}
}

func bucketKey(category, clientKey string) string {
	return category + ":" + clientKey
}

func (s *MemoryRateLimitStore) Consume(policy RateLimitPolicy, clientKey string) (*dto.RateLimitInfo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	key := bucketKey(policy.Category, clientKey)

	bucket, exists := s.buckets[key]
	if !exists || now.Sub(bucket.windowStart) >= policy.Window {
		bucket = &rateLimitBucket{windowStart: now}
		s.buckets[key] = bucket
	}

	if bucket.pointsConsumed >= policy.MaxPoints {
		resetTime := bucket.windowStart.Add(policy.Window)
		retryAfter := int(resetTime.Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return &dto.RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
			ResetTime:  &resetTime,
		}, nil
	}

	bucket.pointsConsumed++
	resetTime := bucket.windowStart.Add(policy.Window)
	return &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: policy.MaxPoints - bucket.pointsConsumed,
		ResetTime: &resetTime,
	}, nil
}

func (s *MemoryRateLimitStore) Reset(category, clientKey string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.buckets, bucketKey(category, clientKey))
	return nil
}

func (s *MemoryRateLimitStore) Remaining(policy RateLimitPolicy, clientKey string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	bucket, exists := s.buckets[bucketKey(policy.Category, clientKey)]
	if !exists || s.now().Sub(bucket.windowStart) >= policy.Window {
		return policy.MaxPoints, nil
	}

	remaining := policy.MaxPoints - bucket.pointsConsumed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// startCleanupJob drops expired buckets hourly so idle client keys do
// not accumulate forever.
func (s *MemoryRateLimitStore) startCleanupJob() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := s.cleanup(24 * time.Hour)
		if removed > 0 {
			log.WithField("removed", removed).Info("Rate limit bucket cleanup completed")
		}
	}
}

func (s *MemoryRateLimitStore) cleanup(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	removed := 0
	for key, bucket := range s.buckets {
		if now.Sub(bucket.windowStart) >= maxAge {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}
