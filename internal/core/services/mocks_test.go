package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type MockStreakRepo struct {
	mock.Mock
}

func (m *MockStreakRepo) Get(ctx context.Context, userID string) (*domain.UserStreak, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStreak), args.Error(1)
}

// Mutate feeds the configured current streak through fn, mirroring what
// the real adapters do under their per-user lock.
func (m *MockStreakRepo) Mutate(ctx context.Context, userID string, fn func(current *domain.UserStreak) (*domain.UserStreak, error)) (*domain.UserStreak, error) {
	args := m.Called(ctx, userID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	var current *domain.UserStreak
	if args.Get(0) != nil {
		copied := *args.Get(0).(*domain.UserStreak)
		current = &copied
	}

	return fn(current)
}

type MockBadgeAwardRepo struct {
	mock.Mock
}

func (m *MockBadgeAwardRepo) Create(ctx context.Context, award *domain.BadgeAward) error {
	args := m.Called(ctx, award)
	return args.Error(0)
}

func (m *MockBadgeAwardRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.BadgeAward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BadgeAward), args.Error(1)
}

func (m *MockBadgeAwardRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Append(ctx context.Context, entry *domain.PointEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.PointEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PointEntry), args.Error(1)
}

func (m *MockLedgerRepo) SumByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockStatsRepo) Upsert(ctx context.Context, stats *domain.UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockStatsRepo) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LeaderboardEntry), args.Error(1)
}

type MockCountReader struct {
	mock.Mock
}

func (m *MockCountReader) NeedsReported(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCountReader) CohortsCreated(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCountReader) PlansGenerated(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockStreakReader struct {
	mock.Mock
}

func (m *MockStreakReader) CurrentStreak(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(userID string) {}

type recordingEnqueuer struct {
	enqueued []string
}

func (r *recordingEnqueuer) Enqueue(userID string) {
	r.enqueued = append(r.enqueued, userID)
}
