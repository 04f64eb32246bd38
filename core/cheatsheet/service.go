package cheatsheet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
)

var (
	// errors
	ErrNotFound     = errors.New("Cheatsheet not found")
	ErrItemNotFound = errors.New("Item not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryCheatsheets returns the user's cheatsheets sorted by createdAt DESC.
		QueryCheatsheets(ctx context.Context, userID string) ([]Cheatsheet, error)
		GetCheatsheet(ctx context.Context, id string) (Cheatsheet, error)
		CreateCheatsheet(ctx context.Context, cs Cheatsheet) (Cheatsheet, error)
		// UpdateCheatsheet saves every field of cs, items included.
		UpdateCheatsheet(ctx context.Context, cs Cheatsheet) (Cheatsheet, error)
		DeleteCheatsheet(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func newItems(nis []NewItem) []Item {
	items := make([]Item, 0, len(nis))
	for i, ni := range nis {
		items = append(items, newItem(ni, i))
	}
	return items
}

func newItem(ni NewItem, order int) Item {
	it := Item{
		ID:            uuid.New().String(),
		Title:         ni.Title,
		Content:       ni.Content,
		QuestionLinks: ni.QuestionLinks,
		AnswerLinks:   ni.AnswerLinks,
		Tags:          ni.Tags,
		Order:         order,
	}
	if ni.Order != nil {
		it.Order = *ni.Order
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return it
}

func (svc *Service) Query(ctx context.Context, userID string) ([]Cheatsheet, error) {
	return svc.repo.QueryCheatsheets(ctx, userID)
}

// Get returns the cheatsheet if it belongs to userID.
// Fails with ErrNotFound or core.ErrPermissionDenied.
func (svc *Service) Get(ctx context.Context, id, userID string) (Cheatsheet, error) {
	cs, err := svc.repo.GetCheatsheet(ctx, id)
	if err != nil {
		return Cheatsheet{}, err
	}
	if cs.UserID != userID {
		return Cheatsheet{}, core.ErrPermissionDenied
	}
	return cs, nil
}

func (svc *Service) Create(ctx context.Context, userID string, nc NewCheatsheet) (Cheatsheet, error) {
	now := nowFunc().UTC()
	cs := Cheatsheet{
		Title:       nc.Title,
		Subject:     nc.Subject,
		Description: nc.Description,
		UserID:      userID,
		Color:       nc.Color,
		Icon:        nc.Icon,
		IsPublic:    nc.IsPublic,
		Items:       newItems(nc.Items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cs.Color == "" {
		cs.Color = defaultColor
	}
	if cs.Icon == "" {
		cs.Icon = defaultIcon
	}
	return svc.repo.CreateCheatsheet(ctx, cs)
}

func (svc *Service) Update(ctx context.Context, id, userID string, uc UpdateCheatsheet) (Cheatsheet, error) {
	cs, err := svc.Get(ctx, id, userID)
	if err != nil {
		return Cheatsheet{}, err
	}
	if uc.Title != "" {
		cs.Title = uc.Title
	}
	if uc.Subject != nil {
		cs.Subject = *uc.Subject
	}
	if uc.Description != nil {
		cs.Description = *uc.Description
	}
	if uc.Color != nil {
		cs.Color = *uc.Color
	}
	if uc.Icon != nil {
		cs.Icon = *uc.Icon
	}
	if uc.IsPublic != nil {
		cs.IsPublic = *uc.IsPublic
	}
	if uc.Items != nil {
		cs.Items = newItems(*uc.Items)
	}
	cs.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateCheatsheet(ctx, cs)
}

func (svc *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := svc.Get(ctx, id, userID); err != nil {
		return err
	}
	return svc.repo.DeleteCheatsheet(ctx, id)
}

// AddItem appends an item after the current last one (order = max + 1).
func (svc *Service) AddItem(ctx context.Context, id, userID string, ni NewItem) (Cheatsheet, error) {
	cs, err := svc.Get(ctx, id, userID)
	if err != nil {
		return Cheatsheet{}, err
	}
	ni.Order = nil
	cs.Items = append(cs.Items, newItem(ni, cs.maxItemOrder()+1))
	cs.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateCheatsheet(ctx, cs)
}

func (svc *Service) UpdateItem(ctx context.Context, id, itemID, userID string, ui UpdateItem) (Cheatsheet, error) {
	cs, err := svc.Get(ctx, id, userID)
	if err != nil {
		return Cheatsheet{}, err
	}
	found := false
	for i, it := range cs.Items {
		if it.ID == itemID {
			cs.Items[i] = ui.apply(it)
			found = true
			break
		}
	}
	if !found {
		return Cheatsheet{}, ErrItemNotFound
	}
	cs.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateCheatsheet(ctx, cs)
}

// DeleteItem removes the item; unknown item ids are ignored.
func (svc *Service) DeleteItem(ctx context.Context, id, itemID, userID string) (Cheatsheet, error) {
	cs, err := svc.Get(ctx, id, userID)
	if err != nil {
		return Cheatsheet{}, err
	}
	items := make([]Item, 0, len(cs.Items))
	for _, it := range cs.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	cs.Items = items
	cs.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateCheatsheet(ctx, cs)
}
