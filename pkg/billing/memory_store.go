package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AMR-Works/toolshub/pkg/entitlement"
)

type checkoutKey struct {
	userID     uuid.UUID
	checkoutID string
}

// MemorySubscriptionStore implements SubscriptionStore in memory.
// Intended for tests and local development.
type MemorySubscriptionStore struct {
	mu      sync.RWMutex
	records map[checkoutKey]*SubscriptionRecord
}

// NewMemorySubscriptionStore creates an empty in-memory subscription store.
func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{records: make(map[checkoutKey]*SubscriptionRecord)}
}

func (s *MemorySubscriptionStore) Upsert(ctx context.Context, record *SubscriptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := checkoutKey{userID: record.UserID, checkoutID: record.CheckoutID}
	now := time.Now().UTC()

	if existing, ok := s.records[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = uuid.New()
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	copied := *record
	s.records[key] = &copied
	return nil
}

func (s *MemorySubscriptionStore) GetByCheckoutID(ctx context.Context, userID uuid.UUID, checkoutID string) (*SubscriptionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[checkoutKey{userID: userID, checkoutID: checkoutID}]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	copied := *record
	return &copied, nil
}

// Len reports the number of stored checkout attempts.
func (s *MemorySubscriptionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// MemoryAccessStore implements AccessStore in memory.
type MemoryAccessStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]entitlement.AccessRecord
}

// NewMemoryAccessStore creates an empty in-memory access store.
func NewMemoryAccessStore() *MemoryAccessStore {
	return &MemoryAccessStore{records: make(map[uuid.UUID]entitlement.AccessRecord)}
}

func (s *MemoryAccessStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.AccessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, ErrAccessRecordNotFound
	}
	return &record, nil
}

func (s *MemoryAccessStore) Set(ctx context.Context, record entitlement.AccessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.UserID] = record
	return nil
}
