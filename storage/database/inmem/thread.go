package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/dotcoder/core/thread"
)

type threadRepository struct {
	db *DB
}

var _ thread.Repository = (*threadRepository)(nil)

func NewThreadRepository(db *DB) thread.Repository {
	return &threadRepository{db: db}
}

// load copies a stored thread and joins its users; the caller holds the lock.
func (repo *threadRepository) load(t thread.Thread) thread.Thread {
	t.Tags = copyStrings(t.Tags)
	repo.db.joinUser(&t.User)
	replies := make([]thread.Reply, len(t.Replies))
	for i, r := range t.Replies {
		repo.db.joinUser(&r.User)
		replies[i] = r
	}
	t.Replies = replies
	return t
}

func (repo *threadRepository) QueryThreads(context.Context) ([]thread.Thread, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	threads := make([]thread.Thread, 0, len(repo.db.threads))
	for _, t := range repo.db.threads {
		threads = append(threads, repo.load(t))
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].CreatedAt.After(threads[j].CreatedAt) })
	return threads, nil
}

func (repo *threadRepository) GetThread(_ context.Context, id string) (thread.Thread, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.threads[id]; ok {
		return repo.load(t), nil
	}
	return thread.Thread{}, thread.ErrNotFound
}

func (repo *threadRepository) CreateThread(_ context.Context, t thread.Thread) (thread.Thread, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = newID()
	t.Views = 0
	t.Replies = []thread.Reply{}
	repo.db.threads[t.ID] = repo.load(t)
	return repo.load(t), nil
}

func (repo *threadRepository) DeleteThread(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.threads[id]; !ok {
		return thread.ErrNotFound
	}
	delete(repo.db.threads, id)
	return nil
}

func (repo *threadRepository) IncrementViews(_ context.Context, id string) (thread.Thread, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.threads[id]
	if !ok {
		return thread.Thread{}, thread.ErrNotFound
	}
	t.Views++
	repo.db.threads[id] = t
	return repo.load(t), nil
}

func (repo *threadRepository) CountThreadsSince(_ context.Context, userID string, since time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, t := range repo.db.threads {
		if t.User.ID == userID && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *threadRepository) AddReply(_ context.Context, threadID string, r thread.Reply) (thread.Thread, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.threads[threadID]
	if !ok {
		return thread.Thread{}, thread.ErrNotFound
	}
	t = repo.load(t)
	t.Replies = append(t.Replies, r)
	t.UpdatedAt = r.CreatedAt
	repo.db.threads[threadID] = t
	return repo.load(t), nil
}

func (repo *threadRepository) DeleteReply(_ context.Context, threadID, replyID string) (thread.Thread, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.threads[threadID]
	if !ok {
		return thread.Thread{}, thread.ErrNotFound
	}
	replies := make([]thread.Reply, 0, len(t.Replies))
	for _, r := range t.Replies {
		if r.ID != replyID {
			replies = append(replies, r)
		}
	}
	if len(replies) == len(t.Replies) {
		return thread.Thread{}, thread.ErrReplyNotFound
	}
	t.Replies = replies
	repo.db.threads[threadID] = t
	return repo.load(t), nil
}
