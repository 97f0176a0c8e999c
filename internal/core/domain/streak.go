package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidActivityTime = errors.New("activity time precedes last recorded activity")
	ErrStreakInvalidUserID = errors.New("invalid user id")
)

// StreakOutcome describes what a Touch did to the streak.
type StreakOutcome int

const (
	StreakUnchanged StreakOutcome = iota
	StreakStarted
	StreakExtended
	StreakReset
)

type UserStreak struct {
	UserID         string    `json:"user_id" db:"user_id"`
	CurrentStreak  int       `json:"current_streak" db:"current_streak"`
	LongestStreak  int       `json:"longest_streak" db:"longest_streak"`
	LastActiveDate time.Time `json:"last_active_date" db:"last_active_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewUserStreak(userID string, today time.Time) (*UserStreak, error) {
	if userID == "" {
		return nil, ErrStreakInvalidUserID
	}

	now := time.Now().UTC()
	return &UserStreak{
		UserID:         userID,
		CurrentStreak:  1,
		LongestStreak:  1,
		LastActiveDate: Day(today),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Advance applies one day of activity to the streak. The transition is a
// pure function of the whole-day difference between today and the last
// active date:
//
//	0   same day, nothing changes
//	1   consecutive day, current grows and may set a new longest
//	>=2 streak broken, current restarts at 1, longest keeps the old best
//	<0  out-of-order timestamp, rejected
func (s *UserStreak) Advance(today time.Time) (StreakOutcome, error) {
	day := Day(today)
	daysDiff := int(day.Sub(Day(s.LastActiveDate)).Hours() / 24)

	if daysDiff < 0 {
		return StreakUnchanged, ErrInvalidActivityTime
	}

	if daysDiff == 0 {
		return StreakUnchanged, nil
	}

	now := time.Now().UTC()

	if daysDiff == 1 {
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
		s.LastActiveDate = day
		s.UpdatedAt = now
		return StreakExtended, nil
	}

	s.CurrentStreak = 1
	s.LastActiveDate = day
	s.UpdatedAt = now
	return StreakReset, nil
}
