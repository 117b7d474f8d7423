package storage

import (
	"context"
	"sync"

	"nutriplan"
)

// SyncPlanStore serializes access to a PlanStore shared by several goroutines.
type SyncPlanStore struct {
	mu    sync.Mutex
	inner PlanStore
}

func NewSyncPlanStore(inner PlanStore) *SyncPlanStore {
	return &SyncPlanStore{inner: inner}
}

func (s *SyncPlanStore) Save(ctx context.Context, plan *nutriplan.MealPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Save(ctx, plan)
}

func (s *SyncPlanStore) Load(ctx context.Context, id string) (*nutriplan.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Load(ctx, id)
}
