package digest

import (
	"fmt"
	"time"

	"techdigest/app/database"
)

const (
	TypeDaily  = "daily"
	TypeWeekly = "weekly"
)

// Gate decides whether a digest of a given type is due for a user. It is the
// sole duplicate-send protection and is advisory: the check and the later log
// append are not atomic, so a single periodic trigger per user and period is
// assumed.
type Gate struct {
	logRepo database.DigestLogRepository
	now     func() time.Time
}

func NewGate(logRepo database.DigestLogRepository) *Gate {
	return &Gate{
		logRepo: logRepo,
		now:     time.Now,
	}
}

// ShouldSend reports whether no digest of this type was sent to the user in
// the current period. The daily period starts at midnight of the current
// calendar day; the weekly period is a rolling 7-day window. The asymmetry is
// intentional and load-bearing for dedup behavior.
func (g *Gate) ShouldSend(user database.User, digestType string) (bool, error) {
	switch digestType {
	case TypeDaily:
		if !user.DailyDigestEnabled {
			return false, nil
		}
	case TypeWeekly:
		if !user.WeeklyDigestEnabled {
			return false, nil
		}
	default:
		return false, fmt.Errorf("unknown digest type: %s", digestType)
	}

	cutoff, err := g.periodCutoff(digestType)
	if err != nil {
		return false, err
	}

	sent, err := g.logRepo.HasSentDigestSince(user.ID, digestType, cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to check digest history for user %s: %w", user.ID, err)
	}

	return !sent, nil
}

func (g *Gate) periodCutoff(digestType string) (time.Time, error) {
	now := g.now()

	switch digestType {
	case TypeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case TypeWeekly:
		return now.Add(-7 * 24 * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unknown digest type: %s", digestType)
	}
}
