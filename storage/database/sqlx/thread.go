package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/thread"
)

type threadRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	UserName  string         `db:"user_name"`
	UserEmail string         `db:"user_email"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Tags      pq.StringArray `db:"tags"`
	Views     int            `db:"views"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r threadRow) thread() thread.Thread {
	return thread.Thread{
		ID:        r.ID,
		User:      core.UserRef{ID: r.UserID, Name: r.UserName, Email: r.UserEmail},
		Title:     r.Title,
		Content:   r.Content,
		Tags:      nonNilStrings(r.Tags),
		Replies:   []thread.Reply{},
		Views:     r.Views,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type replyRow struct {
	ID        string    `db:"id"`
	ThreadID  string    `db:"thread_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	UserEmail string    `db:"user_email"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

func (r replyRow) reply() thread.Reply {
	return thread.Reply{
		ID:        r.ID,
		User:      core.UserRef{ID: r.UserID, Name: r.UserName, Email: r.UserEmail},
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const (
	threadSelect = `SELECT t.id, t.user_id, u.name AS user_name, u.email AS user_email, t.title, t.content,
		t.tags, t.views, t.created_at, t.updated_at
	FROM threads t
	JOIN users u ON u.id = t.user_id`

	replySelect = `SELECT r.id, r.thread_id, r.user_id, u.name AS user_name, u.email AS user_email, r.content, r.created_at
	FROM thread_replies r
	JOIN users u ON u.id = r.user_id`
)

type threadRepository struct {
	db core.DB
}

var _ thread.Repository = (*threadRepository)(nil)

func NewThreadRepository(db core.DB) thread.Repository {
	return &threadRepository{db: db}
}

// loadReplies fills the replies of threads, oldest first.
func (repo *threadRepository) loadReplies(ctx context.Context, threads []thread.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	ids := make([]string, 0, len(threads))
	index := make(map[string]int, len(threads))
	for i, t := range threads {
		ids = append(ids, t.ID)
		index[t.ID] = i
	}

	var rows []replyRow
	q := replySelect + ` WHERE r.thread_id = ANY($1) ORDER BY r.created_at ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "selecting thread replies")
	}
	for _, r := range rows {
		i := index[r.ThreadID]
		threads[i].Replies = append(threads[i].Replies, r.reply())
	}
	return nil
}

func (repo *threadRepository) QueryThreads(ctx context.Context) ([]thread.Thread, error) {
	var rows []threadRow
	if err := repo.db.SelectContext(ctx, &rows, threadSelect+` ORDER BY t.created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "selecting threads")
	}
	threads := make([]thread.Thread, 0, len(rows))
	for _, r := range rows {
		threads = append(threads, r.thread())
	}
	if err := repo.loadReplies(ctx, threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (repo *threadRepository) GetThread(ctx context.Context, id string) (thread.Thread, error) {
	if !validID(id) {
		return thread.Thread{}, thread.ErrNotFound
	}
	var row threadRow
	if err := repo.db.GetContext(ctx, &row, threadSelect+` WHERE t.id = $1`, id); err != nil {
		return thread.Thread{}, trapNoRowsErr(err, thread.ErrNotFound)
	}
	threads := []thread.Thread{row.thread()}
	if err := repo.loadReplies(ctx, threads); err != nil {
		return thread.Thread{}, err
	}
	return threads[0], nil
}

func (repo *threadRepository) CreateThread(ctx context.Context, t thread.Thread) (thread.Thread, error) {
	t.ID = newID()
	q := `INSERT INTO threads (id, user_id, title, content, tags, views, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 0, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q, t.ID, t.User.ID, t.Title, t.Content, pq.StringArray(nonNilStrings(t.Tags)), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return thread.Thread{}, errors.Wrap(err, "inserting thread")
	}
	return repo.GetThread(ctx, t.ID)
}

// DeleteThread relies on ON DELETE CASCADE for the replies.
func (repo *threadRepository) DeleteThread(ctx context.Context, id string) error {
	if !validID(id) {
		return thread.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting thread")
	}
	return checkAffected(res, thread.ErrNotFound)
}

func (repo *threadRepository) IncrementViews(ctx context.Context, id string) (thread.Thread, error) {
	if !validID(id) {
		return thread.Thread{}, thread.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE threads SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return thread.Thread{}, errors.Wrap(err, "incrementing thread views")
	}
	if err = checkAffected(res, thread.ErrNotFound); err != nil {
		return thread.Thread{}, err
	}
	return repo.GetThread(ctx, id)
}

func (repo *threadRepository) CountThreadsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var count int
	q := `SELECT COUNT(*) FROM threads WHERE user_id = $1 AND created_at >= $2`
	err := repo.db.GetContext(ctx, &count, q, userID, since)
	return count, errors.Wrap(err, "counting threads")
}

func (repo *threadRepository) AddReply(ctx context.Context, threadID string, r thread.Reply) (thread.Thread, error) {
	if !validID(threadID) {
		return thread.Thread{}, thread.ErrNotFound
	}
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO thread_replies (id, thread_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, q, r.ID, threadID, r.User.ID, r.Content, r.CreatedAt); err != nil {
			return errors.Wrap(err, "inserting reply")
		}
		res, err := tx.ExecContext(ctx, `UPDATE threads SET updated_at = $1 WHERE id = $2`, r.CreatedAt, threadID)
		if err != nil {
			return errors.Wrap(err, "touching thread")
		}
		return checkAffected(res, thread.ErrNotFound)
	})
	if err != nil {
		return thread.Thread{}, err
	}
	return repo.GetThread(ctx, threadID)
}

func (repo *threadRepository) DeleteReply(ctx context.Context, threadID, replyID string) (thread.Thread, error) {
	if !validID(threadID) || !validID(replyID) {
		return thread.Thread{}, thread.ErrReplyNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM thread_replies WHERE id = $1 AND thread_id = $2`, replyID, threadID)
	if err != nil {
		return thread.Thread{}, errors.Wrap(err, "deleting reply")
	}
	if err = checkAffected(res, thread.ErrReplyNotFound); err != nil {
		return thread.Thread{}, err
	}
	return repo.GetThread(ctx, threadID)
}
