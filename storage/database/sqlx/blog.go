package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/blog"
)

type blogRow struct {
	ID              string         `db:"id"`
	AuthorID        string         `db:"author_id"`
	AuthorName      string         `db:"author_name"`
	AuthorEmail     string         `db:"author_email"`
	Title           string         `db:"title"`
	Subtitle        string         `db:"subtitle"`
	Content         string         `db:"content"`
	CoverImage      null.String    `db:"cover_image"`
	Tags            pq.StringArray `db:"tags"`
	Status          string         `db:"status"`
	RejectionReason null.String    `db:"rejection_reason"`
	ReadTime        int            `db:"read_time"`
	Views           int            `db:"views"`
	Likes           pq.StringArray `db:"likes"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func newBlogRow(b blog.Blog) blogRow {
	return blogRow{
		ID:              b.ID,
		AuthorID:        b.Author.ID,
		Title:           b.Title,
		Subtitle:        b.Subtitle,
		Content:         b.Content,
		CoverImage:      null.NewString(b.CoverImage, b.CoverImage != ""),
		Tags:            pq.StringArray(nonNilStrings(b.Tags)),
		Status:          b.Status,
		RejectionReason: null.NewString(b.RejectionReason, b.RejectionReason != ""),
		ReadTime:        b.ReadTime,
		Views:           b.Views,
		Likes:           pq.StringArray(nonNilStrings(b.Likes)),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (r blogRow) blog() blog.Blog {
	return blog.Blog{
		ID:              r.ID,
		Title:           r.Title,
		Subtitle:        r.Subtitle,
		Content:         r.Content,
		CoverImage:      r.CoverImage.String,
		Tags:            nonNilStrings(r.Tags),
		Author:          core.UserRef{ID: r.AuthorID, Name: r.AuthorName, Email: r.AuthorEmail},
		Status:          r.Status,
		RejectionReason: r.RejectionReason.String,
		ReadTime:        r.ReadTime,
		Views:           r.Views,
		Likes:           nonNilStrings(r.Likes),
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

const (
	blogColumns = `id, author_id, title, subtitle, content, cover_image, tags, status, rejection_reason,
	read_time, views, likes, created_at, updated_at`

	blogSelect = `SELECT b.id, b.author_id, u.name AS author_name, u.email AS author_email, b.title, b.subtitle,
		b.content, b.cover_image, b.tags, b.status, b.rejection_reason, b.read_time, b.views, b.likes,
		b.created_at, b.updated_at
	FROM blogs b
	JOIN users u ON u.id = b.author_id`
)

type blogRepository struct {
	db core.DB
}

var _ blog.Repository = (*blogRepository)(nil)

func NewBlogRepository(db core.DB) blog.Repository {
	return &blogRepository{db: db}
}

func (repo *blogRepository) QueryBlogs(ctx context.Context, filter blog.Filter) ([]blog.Blog, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.AuthorID != "" {
		if !validID(filter.AuthorID) {
			return []blog.Blog{}, nil
		}
		args = append(args, filter.AuthorID)
		conds = append(conds, "b.author_id = $1")
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "b.status = $"+strconv.Itoa(len(args)))
	}

	q := blogSelect
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY b.created_at DESC"

	var rows []blogRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting blogs")
	}
	blogs := make([]blog.Blog, 0, len(rows))
	for _, r := range rows {
		blogs = append(blogs, r.blog())
	}
	return blogs, nil
}

func (repo *blogRepository) GetBlog(ctx context.Context, id string) (blog.Blog, error) {
	if !validID(id) {
		return blog.Blog{}, blog.ErrNotFound
	}
	var row blogRow
	if err := repo.db.GetContext(ctx, &row, blogSelect+" WHERE b.id = $1", id); err != nil {
		return blog.Blog{}, trapNoRowsErr(err, blog.ErrNotFound)
	}
	return row.blog(), nil
}

func (repo *blogRepository) CreateBlog(ctx context.Context, b blog.Blog) (blog.Blog, error) {
	b.ID = newID()
	q := `INSERT INTO blogs (` + blogColumns + `)
	VALUES (:id, :author_id, :title, :subtitle, :content, :cover_image, :tags, :status, :rejection_reason,
		:read_time, :views, :likes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, newBlogRow(b)); err != nil {
		return blog.Blog{}, errors.Wrap(err, "inserting blog")
	}
	return repo.GetBlog(ctx, b.ID)
}

func (repo *blogRepository) UpdateBlog(ctx context.Context, b blog.Blog) (blog.Blog, error) {
	q := `UPDATE blogs SET title = :title, subtitle = :subtitle, content = :content, cover_image = :cover_image,
		tags = :tags, status = :status, rejection_reason = :rejection_reason, read_time = :read_time,
		updated_at = :updated_at
	WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, newBlogRow(b))
	if err != nil {
		return blog.Blog{}, errors.Wrap(err, "updating blog")
	}
	if err = checkAffected(res, blog.ErrNotFound); err != nil {
		return blog.Blog{}, err
	}
	return repo.GetBlog(ctx, b.ID)
}

func (repo *blogRepository) DeleteBlog(ctx context.Context, id string) error {
	if !validID(id) {
		return blog.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting blog")
	}
	return checkAffected(res, blog.ErrNotFound)
}

func (repo *blogRepository) IncrementViews(ctx context.Context, id string) (blog.Blog, error) {
	if !validID(id) {
		return blog.Blog{}, blog.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE blogs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return blog.Blog{}, errors.Wrap(err, "incrementing blog views")
	}
	if err = checkAffected(res, blog.ErrNotFound); err != nil {
		return blog.Blog{}, err
	}
	return repo.GetBlog(ctx, id)
}

func (repo *blogRepository) ToggleLike(ctx context.Context, id, userID string) (blog.Blog, error) {
	if !validID(id) {
		return blog.Blog{}, blog.ErrNotFound
	}
	q := `UPDATE blogs SET likes = CASE
		WHEN $2::text = ANY(likes) THEN array_remove(likes, $2::text)
		ELSE array_append(likes, $2::text)
	END
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return blog.Blog{}, errors.Wrap(err, "toggling blog like")
	}
	if err = checkAffected(res, blog.ErrNotFound); err != nil {
		return blog.Blog{}, err
	}
	return repo.GetBlog(ctx, id)
}
