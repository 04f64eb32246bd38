package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/dotcoder/core/practice"
)

type practiceRepository struct {
	db *DB
}

var _ practice.Repository = (*practiceRepository)(nil)

func NewPracticeRepository(db *DB) practice.Repository {
	return &practiceRepository{db: db}
}

func copyTest(t practice.Test) practice.Test {
	questions := make([]practice.TestQuestion, len(t.Questions))
	for i, q := range t.Questions {
		q.Tags = copyStrings(q.Tags)
		questions[i] = q
	}
	t.Questions = questions
	return t
}

func copyMindmap(m practice.Mindmap) practice.Mindmap {
	m.Nodes = append([]practice.Node{}, m.Nodes...)
	m.Edges = append([]practice.Edge{}, m.Edges...)
	return m
}

func (repo *practiceRepository) ReplaceMindmap(_ context.Context, m practice.Mindmap) (practice.Mindmap, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, old := range repo.db.mindmaps {
		if old.ChapterID == m.ChapterID && old.UserID == m.UserID {
			delete(repo.db.mindmaps, id)
		}
	}
	m.ID = newID()
	repo.db.mindmaps[m.ID] = copyMindmap(m)
	return m, nil
}

func (repo *practiceRepository) GetLatestMindmap(_ context.Context, chapterID, userID string) (practice.Mindmap, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var (
		latest practice.Mindmap
		found  bool
	)
	for _, m := range repo.db.mindmaps {
		if m.ChapterID != chapterID || m.UserID != userID {
			continue
		}
		if !found || m.CreatedAt.After(latest.CreatedAt) {
			latest, found = m, true
		}
	}
	if !found {
		return practice.Mindmap{}, practice.ErrMindmapNotFound
	}
	return copyMindmap(latest), nil
}

func (repo *practiceRepository) ReplaceTest(_ context.Context, t practice.Test) (practice.Test, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, old := range repo.db.tests {
		if old.ChapterID == t.ChapterID && old.UserID == t.UserID {
			delete(repo.db.tests, id)
		}
	}
	t.ID = newID()
	repo.db.tests[t.ID] = copyTest(t)
	return t, nil
}

func (repo *practiceRepository) QueryTests(_ context.Context, chapterID, userID string) ([]practice.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tests := make([]practice.Test, 0)
	for _, t := range repo.db.tests {
		if t.ChapterID == chapterID && t.UserID == userID {
			tests = append(tests, copyTest(t))
		}
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].CreatedAt.After(tests[j].CreatedAt) })
	return tests, nil
}

func (repo *practiceRepository) GetTest(_ context.Context, id string) (practice.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.tests[id]; ok {
		return copyTest(t), nil
	}
	return practice.Test{}, practice.ErrTestNotFound
}

func (repo *practiceRepository) SetTestQuestionCompleted(_ context.Context, testID string, index int, completed bool) (practice.Test, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.tests[testID]
	if !ok {
		return practice.Test{}, practice.ErrTestNotFound
	}
	if index < 0 || index >= len(t.Questions) {
		return practice.Test{}, practice.ErrInvalidQuestionIndex
	}
	t = copyTest(t)
	t.Questions[index].IsCompleted = completed
	t.Rescore()
	t.UpdatedAt = time.Now().UTC()
	repo.db.tests[testID] = t
	return copyTest(t), nil
}
