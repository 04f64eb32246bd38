package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/dotcoder/core/chapter"
)

type chapterRepository struct {
	db *DB
}

var _ chapter.Repository = (*chapterRepository)(nil)

func NewChapterRepository(db *DB) chapter.Repository {
	return &chapterRepository{db: db}
}

func copyChapter(ch chapter.Chapter) chapter.Chapter {
	ch.Tags = copyStrings(ch.Tags)
	return ch
}

func copyQuestion(q chapter.Question) chapter.Question {
	q.Tags = copyStrings(q.Tags)
	return q
}

func (repo *chapterRepository) QueryChapters(_ context.Context, userID string) ([]chapter.Chapter, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	chapters := make([]chapter.Chapter, 0)
	for _, ch := range repo.db.chapters {
		if ch.UserID == userID {
			chapters = append(chapters, copyChapter(ch))
		}
	}
	sort.Slice(chapters, func(i, j int) bool {
		if chapters[i].Order != chapters[j].Order {
			return chapters[i].Order < chapters[j].Order
		}
		return chapters[i].CreatedAt.After(chapters[j].CreatedAt)
	})
	return chapters, nil
}

func (repo *chapterRepository) GetChapter(_ context.Context, id string) (chapter.Chapter, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ch, ok := repo.db.chapters[id]; ok {
		return copyChapter(ch), nil
	}
	return chapter.Chapter{}, chapter.ErrChapterNotFound
}

func (repo *chapterRepository) CreateChapter(_ context.Context, ch chapter.Chapter) (chapter.Chapter, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ch.Order = 0
	for _, c := range repo.db.chapters {
		if c.UserID == ch.UserID && c.Order >= ch.Order {
			ch.Order = c.Order + 1
		}
	}
	ch.ID = newID()
	ch.QuestionCount = 0
	repo.db.chapters[ch.ID] = copyChapter(ch)
	return ch, nil
}

func (repo *chapterRepository) UpdateChapter(_ context.Context, ch chapter.Chapter) (chapter.Chapter, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	current, ok := repo.db.chapters[ch.ID]
	if !ok {
		return chapter.Chapter{}, chapter.ErrChapterNotFound
	}
	ch.QuestionCount = current.QuestionCount
	repo.db.chapters[ch.ID] = copyChapter(ch)
	return ch, nil
}

func (repo *chapterRepository) DeleteChapter(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.chapters[id]; !ok {
		return chapter.ErrChapterNotFound
	}
	delete(repo.db.chapters, id)
	for qid, q := range repo.db.questions {
		if q.ChapterID == id {
			delete(repo.db.questions, qid)
		}
	}
	for tid, t := range repo.db.tests {
		if t.ChapterID == id {
			delete(repo.db.tests, tid)
		}
	}
	for mid, m := range repo.db.mindmaps {
		if m.ChapterID == id {
			delete(repo.db.mindmaps, mid)
		}
	}
	return nil
}

func (repo *chapterRepository) ReorderChapters(_ context.Context, userID string, items []chapter.ReorderItem) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := time.Now().UTC()
	for _, it := range items {
		ch, ok := repo.db.chapters[it.ID]
		if !ok || ch.UserID != userID {
			continue
		}
		ch.Order = it.Order
		ch.UpdatedAt = now
		repo.db.chapters[it.ID] = ch
	}
	return nil
}

func (repo *chapterRepository) QueryQuestions(_ context.Context, chapterID string) ([]chapter.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	questions := make([]chapter.Question, 0)
	for _, q := range repo.db.questions {
		if q.ChapterID == chapterID {
			questions = append(questions, copyQuestion(q))
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}

func (repo *chapterRepository) GetQuestion(_ context.Context, id string) (chapter.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if q, ok := repo.db.questions[id]; ok {
		return copyQuestion(q), nil
	}
	return chapter.Question{}, chapter.ErrQuestionNotFound
}

// refreshQuestionCount must be called with the write lock held.
func (repo *chapterRepository) refreshQuestionCount(chapterID string) {
	ch, ok := repo.db.chapters[chapterID]
	if !ok {
		return
	}
	count := 0
	for _, q := range repo.db.questions {
		if q.ChapterID == chapterID {
			count++
		}
	}
	ch.QuestionCount = count
	repo.db.chapters[chapterID] = ch
}

func (repo *chapterRepository) CreateQuestion(_ context.Context, q chapter.Question) (chapter.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.chapters[q.ChapterID]; !ok {
		return chapter.Question{}, chapter.ErrChapterNotFound
	}
	q.Order = 0
	for _, other := range repo.db.questions {
		if other.ChapterID == q.ChapterID && other.Order >= q.Order {
			q.Order = other.Order + 1
		}
	}
	q.ID = newID()
	repo.db.questions[q.ID] = copyQuestion(q)
	repo.refreshQuestionCount(q.ChapterID)
	return q, nil
}

func (repo *chapterRepository) UpdateQuestion(_ context.Context, q chapter.Question) (chapter.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.questions[q.ID]; !ok {
		return chapter.Question{}, chapter.ErrQuestionNotFound
	}
	repo.db.questions[q.ID] = copyQuestion(q)
	return q, nil
}

func (repo *chapterRepository) DeleteQuestion(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q, ok := repo.db.questions[id]
	if !ok {
		return chapter.ErrQuestionNotFound
	}
	delete(repo.db.questions, id)
	repo.refreshQuestionCount(q.ChapterID)
	return nil
}
