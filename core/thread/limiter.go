package thread

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// storeLimiter counts today's threads straight from the Repository.
type storeLimiter struct {
	repo Repository
}

var _ Limiter = (*storeLimiter)(nil)

func NewStoreLimiter(repo Repository) Limiter {
	return &storeLimiter{repo: repo}
}

func (l *storeLimiter) Reserve(ctx context.Context, userID string, dayStart time.Time, limit int) (bool, error) {
	count, err := l.repo.CountThreadsSince(ctx, userID, dayStart)
	if err != nil {
		return false, errors.Wrap(err, "counting today's threads")
	}
	return count < limit, nil
}

func (l *storeLimiter) Release(context.Context, string, time.Time) error { return nil }
