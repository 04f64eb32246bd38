package thread

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
)

var (
	// errors
	ErrNotFound      = errors.New("Thread not found")
	ErrReplyNotFound = errors.New("Reply not found")

	nowFunc = time.Now // mockable
)

// DailyLimitError is returned when a user already opened their daily quota of threads.
type DailyLimitError struct {
	Limit int
}

func (e DailyLimitError) Error() string {
	return fmt.Sprintf("Daily thread limit reached (%d threads per day)", e.Limit)
}

type (
	Repository interface {
		// QueryThreads returns every thread (users joined) sorted by createdAt DESC.
		QueryThreads(ctx context.Context) ([]Thread, error)
		GetThread(ctx context.Context, id string) (Thread, error)
		CreateThread(ctx context.Context, t Thread) (Thread, error)
		DeleteThread(ctx context.Context, id string) error
		// IncrementViews atomically adds one view and returns the refreshed thread.
		IncrementViews(ctx context.Context, id string) (Thread, error)
		// CountThreadsSince counts the threads the user created at or after since.
		CountThreadsSince(ctx context.Context, userID string, since time.Time) (int, error)
		AddReply(ctx context.Context, threadID string, r Reply) (Thread, error)
		DeleteReply(ctx context.Context, threadID, replyID string) (Thread, error)
	}

	// Limiter guards the daily thread quota.
	Limiter interface {
		// Reserve takes one slot of the user's quota for the day starting at dayStart.
		// ok is false when the quota is exhausted.
		Reserve(ctx context.Context, userID string, dayStart time.Time, limit int) (ok bool, err error)
		// Release gives back a slot taken by Reserve when the thread could not be created.
		Release(ctx context.Context, userID string, dayStart time.Time) error
	}

	Service struct {
		repo       Repository
		limiter    Limiter
		dailyLimit int
	}
)

// NewService returns a thread Service. When limiter is nil, the quota is counted from the store.
func NewService(repo Repository, limiter Limiter, dailyLimit int) *Service {
	if limiter == nil {
		limiter = NewStoreLimiter(repo)
	}
	return &Service{repo: repo, limiter: limiter, dailyLimit: dailyLimit}
}

// dayStart returns the local midnight of t.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (svc *Service) Query(ctx context.Context) ([]Thread, error) {
	return svc.repo.QueryThreads(ctx)
}

// View returns the thread and counts one more view.
func (svc *Service) View(ctx context.Context, id string) (Thread, error) {
	return svc.repo.IncrementViews(ctx, id)
}

func (svc *Service) Create(ctx context.Context, actor core.Actor, nt NewThread) (Thread, error) {
	now := nowFunc()
	day := dayStart(now)

	ok, err := svc.limiter.Reserve(ctx, actor.ID, day, svc.dailyLimit)
	if err != nil {
		return Thread{}, errors.Wrap(err, "reserving thread quota")
	}
	if !ok {
		return Thread{}, DailyLimitError{Limit: svc.dailyLimit}
	}

	t := Thread{
		User:      core.UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email},
		Title:     nt.Title,
		Content:   nt.Content,
		Tags:      nt.Tags,
		Replies:   []Reply{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t, err = svc.repo.CreateThread(ctx, t)
	if err != nil {
		_ = svc.limiter.Release(ctx, actor.ID, day)
		return Thread{}, errors.Wrap(err, "creating thread")
	}
	return t, nil
}

func (svc *Service) AddReply(ctx context.Context, threadID string, actor core.Actor, nr NewReply) (Thread, error) {
	if _, err := svc.repo.GetThread(ctx, threadID); err != nil {
		return Thread{}, err
	}
	r := Reply{
		ID:        uuid.New().String(),
		User:      core.UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email},
		Content:   nr.Content,
		CreatedAt: nowFunc().UTC(),
	}
	return svc.repo.AddReply(ctx, threadID, r)
}

// Delete removes a thread; only its owner may do so.
func (svc *Service) Delete(ctx context.Context, id string, actor core.Actor) error {
	t, err := svc.repo.GetThread(ctx, id)
	if err != nil {
		return err
	}
	if t.User.ID != actor.ID {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteThread(ctx, id)
}

// DeleteReply removes a reply; only the reply's owner may do so.
func (svc *Service) DeleteReply(ctx context.Context, threadID, replyID string, actor core.Actor) (Thread, error) {
	t, err := svc.repo.GetThread(ctx, threadID)
	if err != nil {
		return Thread{}, err
	}
	var reply *Reply
	for i := range t.Replies {
		if t.Replies[i].ID == replyID {
			reply = &t.Replies[i]
			break
		}
	}
	if reply == nil {
		return Thread{}, ErrReplyNotFound
	}
	if reply.User.ID != actor.ID {
		return Thread{}, core.ErrPermissionDenied
	}
	return svc.repo.DeleteReply(ctx, threadID, replyID)
}
