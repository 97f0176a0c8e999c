package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

// In-memory implementations of every port. They back the test suites and
// local development, and they honor the same contracts as the Postgres
// adapters: per-user exclusion on streak mutation, uniqueness on badge
// awards, append-only ledger.

type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}

	copied := *user
	r.byID[user.ID] = &copied
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *InMemoryUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type InMemoryStreakRepository struct {
	mu    sync.Mutex
	store map[string]*domain.UserStreak
	locks map[string]*sync.Mutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[string]*domain.UserStreak),
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *InMemoryStreakRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

func (r *InMemoryStreakRepository) Get(ctx context.Context, userID string) (*domain.UserStreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	streak, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	copied := *streak
	return &copied, nil
}

// Mutate serializes per user: the equivalent of the row lock the
// Postgres adapter takes with SELECT ... FOR UPDATE.
func (r *InMemoryStreakRepository) Mutate(ctx context.Context, userID string, fn func(current *domain.UserStreak) (*domain.UserStreak, error)) (*domain.UserStreak, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	var current *domain.UserStreak
	if stored, ok := r.store[userID]; ok {
		copied := *stored
		current = &copied
	}
	r.mu.Unlock()

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	copied := *updated
	r.store[userID] = &copied
	r.mu.Unlock()

	result := *updated
	return &result, nil
}

type InMemoryBadgeAwardRepository struct {
	mu     sync.RWMutex
	awards map[string]map[string]*domain.BadgeAward
}

func NewInMemoryBadgeAwardRepository() *InMemoryBadgeAwardRepository {
	return &InMemoryBadgeAwardRepository{
		awards: make(map[string]map[string]*domain.BadgeAward),
	}
}

func (r *InMemoryBadgeAwardRepository) Create(ctx context.Context, award *domain.BadgeAward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userAwards, ok := r.awards[award.UserID]
	if !ok {
		userAwards = make(map[string]*domain.BadgeAward)
		r.awards[award.UserID] = userAwards
	}

	if _, exists := userAwards[award.BadgeID]; exists {
		return domain.ErrBadgeAlreadyAwarded
	}

	copied := *award
	userAwards[award.BadgeID] = &copied
	return nil
}

func (r *InMemoryBadgeAwardRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BadgeAward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.BadgeAward
	for _, award := range r.awards[userID] {
		copied := *award
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EarnedAt.After(out[j].EarnedAt)
	})
	return out, nil
}

func (r *InMemoryBadgeAwardRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.awards[userID]), nil
}

type InMemoryLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.PointEntry
}

func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{}
}

func (r *InMemoryLedgerRepository) Append(ctx context.Context, entry *domain.PointEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *InMemoryLedgerRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.PointEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.PointEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			copied := *r.entries[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *InMemoryLedgerRepository) SumByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, e := range r.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

type InMemoryStatsRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.UserStats
	users *InMemoryUserRepository
}

func NewInMemoryStatsRepository(users *InMemoryUserRepository) *InMemoryStatsRepository {
	return &InMemoryStatsRepository{
		store: make(map[string]*domain.UserStats),
		users: users,
	}
}

func (r *InMemoryStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrStatsNotFound
	}
	copied := *stats
	return &copied, nil
}

func (r *InMemoryStatsRepository) Upsert(ctx context.Context, stats *domain.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *stats
	r.store[stats.UserID] = &copied
	return nil
}

func (r *InMemoryStatsRepository) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	r.mu.RLock()
	rows := make([]*domain.UserStats, 0, len(r.store))
	for _, s := range r.store {
		copied := *s
		rows = append(rows, &copied)
	}
	r.mu.RUnlock()

	type rowWithUser struct {
		stats  *domain.UserStats
		name   string
		joined time.Time
	}

	enriched := make([]rowWithUser, 0, len(rows))
	for _, s := range rows {
		row := rowWithUser{stats: s, name: s.UserID}
		if r.users != nil {
			if user, err := r.users.GetByID(ctx, s.UserID); err == nil {
				row.name = user.Name
				row.joined = user.CreatedAt
			}
		}
		enriched = append(enriched, row)
	}

	sort.Slice(enriched, func(i, j int) bool {
		a, b := enriched[i], enriched[j]
		if a.stats.TotalPoints != b.stats.TotalPoints {
			return a.stats.TotalPoints > b.stats.TotalPoints
		}
		if a.stats.BadgesEarned != b.stats.BadgesEarned {
			return a.stats.BadgesEarned > b.stats.BadgesEarned
		}
		if !a.joined.Equal(b.joined) {
			return a.joined.Before(b.joined)
		}
		return a.stats.UserID < b.stats.UserID
	})

	if len(enriched) > limit {
		enriched = enriched[:limit]
	}

	out := make([]*domain.LeaderboardEntry, 0, len(enriched))
	for _, row := range enriched {
		out = append(out, &domain.LeaderboardEntry{
			UserID:        row.stats.UserID,
			Name:          row.name,
			TotalPoints:   row.stats.TotalPoints,
			BadgesEarned:  row.stats.BadgesEarned,
			NeedsReported: row.stats.NeedsReported,
		})
	}
	return out, nil
}

// InMemoryActivityCounts stands in for the externally owned activity
// stores. Tests bump the counters explicitly to simulate the business
// actions committing upstream.
type InMemoryActivityCounts struct {
	mu      sync.RWMutex
	needs   map[string]int
	cohorts map[string]int
	plans   map[string]int
}

func NewInMemoryActivityCounts() *InMemoryActivityCounts {
	return &InMemoryActivityCounts{
		needs:   make(map[string]int),
		cohorts: make(map[string]int),
		plans:   make(map[string]int),
	}
}

func (r *InMemoryActivityCounts) AddNeed(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needs[userID]++
}

func (r *InMemoryActivityCounts) AddCohort(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cohorts[userID]++
}

func (r *InMemoryActivityCounts) AddPlan(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[userID]++
}

func (r *InMemoryActivityCounts) NeedsReported(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.needs[userID], nil
}

func (r *InMemoryActivityCounts) CohortsCreated(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cohorts[userID], nil
}

func (r *InMemoryActivityCounts) PlansGenerated(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plans[userID], nil
}
