package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/dotcoder/core/cheatsheet"
)

type cheatsheetRepository struct {
	db *DB
}

var _ cheatsheet.Repository = (*cheatsheetRepository)(nil)

func NewCheatsheetRepository(db *DB) cheatsheet.Repository {
	return &cheatsheetRepository{db: db}
}

func copyCheatsheet(cs cheatsheet.Cheatsheet) cheatsheet.Cheatsheet {
	items := make([]cheatsheet.Item, len(cs.Items))
	for i, it := range cs.Items {
		it.Tags = copyStrings(it.Tags)
		items[i] = it
	}
	cs.Items = items
	return cs
}

func (repo *cheatsheetRepository) QueryCheatsheets(_ context.Context, userID string) ([]cheatsheet.Cheatsheet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sheets := make([]cheatsheet.Cheatsheet, 0)
	for _, cs := range repo.db.cheatsheets {
		if cs.UserID == userID {
			sheets = append(sheets, copyCheatsheet(cs))
		}
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].CreatedAt.After(sheets[j].CreatedAt) })
	return sheets, nil
}

func (repo *cheatsheetRepository) GetCheatsheet(_ context.Context, id string) (cheatsheet.Cheatsheet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cs, ok := repo.db.cheatsheets[id]; ok {
		return copyCheatsheet(cs), nil
	}
	return cheatsheet.Cheatsheet{}, cheatsheet.ErrNotFound
}

func (repo *cheatsheetRepository) CreateCheatsheet(_ context.Context, cs cheatsheet.Cheatsheet) (cheatsheet.Cheatsheet, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cs.ID = newID()
	repo.db.cheatsheets[cs.ID] = copyCheatsheet(cs)
	return cs, nil
}

func (repo *cheatsheetRepository) UpdateCheatsheet(_ context.Context, cs cheatsheet.Cheatsheet) (cheatsheet.Cheatsheet, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.cheatsheets[cs.ID]; !ok {
		return cheatsheet.Cheatsheet{}, cheatsheet.ErrNotFound
	}
	repo.db.cheatsheets[cs.ID] = copyCheatsheet(cs)
	return cs, nil
}

func (repo *cheatsheetRepository) DeleteCheatsheet(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.cheatsheets[id]; !ok {
		return cheatsheet.ErrNotFound
	}
	delete(repo.db.cheatsheets, id)
	return nil
}
