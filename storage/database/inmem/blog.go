package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/dotcoder/core/blog"
)

type blogRepository struct {
	db *DB
}

var _ blog.Repository = (*blogRepository)(nil)

func NewBlogRepository(db *DB) blog.Repository {
	return &blogRepository{db: db}
}

// load copies a stored blog and joins its author; the caller holds the lock.
func (repo *blogRepository) load(b blog.Blog) blog.Blog {
	b.Tags = copyStrings(b.Tags)
	b.Likes = copyStrings(b.Likes)
	repo.db.joinUser(&b.Author)
	return b
}

func (repo *blogRepository) QueryBlogs(_ context.Context, filter blog.Filter) ([]blog.Blog, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	blogs := make([]blog.Blog, 0)
	for _, b := range repo.db.blogs {
		if filter.AuthorID != "" && b.Author.ID != filter.AuthorID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		blogs = append(blogs, repo.load(b))
	}
	sort.Slice(blogs, func(i, j int) bool { return blogs[i].CreatedAt.After(blogs[j].CreatedAt) })
	return blogs, nil
}

func (repo *blogRepository) GetBlog(_ context.Context, id string) (blog.Blog, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.blogs[id]; ok {
		return repo.load(b), nil
	}
	return blog.Blog{}, blog.ErrNotFound
}

func (repo *blogRepository) CreateBlog(_ context.Context, b blog.Blog) (blog.Blog, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b.ID = newID()
	b.Tags = copyStrings(b.Tags)
	b.Likes = copyStrings(b.Likes)
	repo.db.blogs[b.ID] = b
	return repo.load(b), nil
}

func (repo *blogRepository) UpdateBlog(_ context.Context, b blog.Blog) (blog.Blog, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	current, ok := repo.db.blogs[b.ID]
	if !ok {
		return blog.Blog{}, blog.ErrNotFound
	}
	// views & likes only change through their own atomic operations
	b.Views = current.Views
	b.Likes = copyStrings(current.Likes)
	b.Tags = copyStrings(b.Tags)
	repo.db.blogs[b.ID] = b
	return repo.load(b), nil
}

func (repo *blogRepository) DeleteBlog(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.blogs[id]; !ok {
		return blog.ErrNotFound
	}
	delete(repo.db.blogs, id)
	return nil
}

func (repo *blogRepository) IncrementViews(_ context.Context, id string) (blog.Blog, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b, ok := repo.db.blogs[id]
	if !ok {
		return blog.Blog{}, blog.ErrNotFound
	}
	b.Views++
	repo.db.blogs[id] = b
	return repo.load(b), nil
}

func (repo *blogRepository) ToggleLike(_ context.Context, id, userID string) (blog.Blog, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b, ok := repo.db.blogs[id]
	if !ok {
		return blog.Blog{}, blog.ErrNotFound
	}
	likes := make([]string, 0, len(b.Likes)+1)
	liked := false
	for _, uid := range b.Likes {
		if uid == userID {
			liked = true
			continue
		}
		likes = append(likes, uid)
	}
	if !liked {
		likes = append(likes, userID)
	}
	b.Likes = likes
	repo.db.blogs[id] = b
	return repo.load(b), nil
}
