package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/cheatsheet"
)

type cheatsheetRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Subject     string     `db:"subject"`
	Description string     `db:"description"`
	Color       string     `db:"color"`
	Icon        string     `db:"icon"`
	IsPublic    bool       `db:"is_public"`
	Items       types.JSON `db:"items"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func newCheatsheetRow(cs cheatsheet.Cheatsheet) (cheatsheetRow, error) {
	row := cheatsheetRow{
		ID:          cs.ID,
		UserID:      cs.UserID,
		Title:       cs.Title,
		Subject:     cs.Subject,
		Description: cs.Description,
		Color:       cs.Color,
		Icon:        cs.Icon,
		IsPublic:    cs.IsPublic,
		CreatedAt:   cs.CreatedAt,
		UpdatedAt:   cs.UpdatedAt,
	}
	items := cs.Items
	if items == nil {
		items = []cheatsheet.Item{}
	}
	if err := row.Items.Marshal(items); err != nil {
		return cheatsheetRow{}, errors.Wrap(err, "encoding cheatsheet items")
	}
	return row, nil
}

func (r cheatsheetRow) cheatsheet() (cheatsheet.Cheatsheet, error) {
	cs := cheatsheet.Cheatsheet{
		ID:          r.ID,
		Title:       r.Title,
		Subject:     r.Subject,
		Description: r.Description,
		UserID:      r.UserID,
		Color:       r.Color,
		Icon:        r.Icon,
		IsPublic:    r.IsPublic,
		Items:       []cheatsheet.Item{},
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if len(r.Items) > 0 {
		if err := r.Items.Unmarshal(&cs.Items); err != nil {
			return cheatsheet.Cheatsheet{}, errors.Wrap(err, "decoding cheatsheet items")
		}
	}
	return cs, nil
}

const cheatsheetColumns = `id, user_id, title, subject, description, color, icon, is_public, items, created_at, updated_at`

type cheatsheetRepository struct {
	db core.DB
}

var _ cheatsheet.Repository = (*cheatsheetRepository)(nil)

func NewCheatsheetRepository(db core.DB) cheatsheet.Repository {
	return &cheatsheetRepository{db: db}
}

func (repo *cheatsheetRepository) QueryCheatsheets(ctx context.Context, userID string) ([]cheatsheet.Cheatsheet, error) {
	if !validID(userID) {
		return []cheatsheet.Cheatsheet{}, nil
	}
	var rows []cheatsheetRow
	q := `SELECT ` + cheatsheetColumns + ` FROM cheatsheets WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting cheatsheets")
	}
	sheets := make([]cheatsheet.Cheatsheet, 0, len(rows))
	for _, r := range rows {
		cs, err := r.cheatsheet()
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, cs)
	}
	return sheets, nil
}

func (repo *cheatsheetRepository) GetCheatsheet(ctx context.Context, id string) (cheatsheet.Cheatsheet, error) {
	if !validID(id) {
		return cheatsheet.Cheatsheet{}, cheatsheet.ErrNotFound
	}
	var row cheatsheetRow
	q := `SELECT ` + cheatsheetColumns + ` FROM cheatsheets WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return cheatsheet.Cheatsheet{}, trapNoRowsErr(err, cheatsheet.ErrNotFound)
	}
	return row.cheatsheet()
}

func (repo *cheatsheetRepository) CreateCheatsheet(ctx context.Context, cs cheatsheet.Cheatsheet) (cheatsheet.Cheatsheet, error) {
	cs.ID = newID()
	row, err := newCheatsheetRow(cs)
	if err != nil {
		return cheatsheet.Cheatsheet{}, err
	}
	q := `INSERT INTO cheatsheets (` + cheatsheetColumns + `)
	VALUES (:id, :user_id, :title, :subject, :description, :color, :icon, :is_public, :items, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return cheatsheet.Cheatsheet{}, errors.Wrap(err, "inserting cheatsheet")
	}
	return cs, nil
}

func (repo *cheatsheetRepository) UpdateCheatsheet(ctx context.Context, cs cheatsheet.Cheatsheet) (cheatsheet.Cheatsheet, error) {
	row, err := newCheatsheetRow(cs)
	if err != nil {
		return cheatsheet.Cheatsheet{}, err
	}
	q := `UPDATE cheatsheets SET title = :title, subject = :subject, description = :description, color = :color,
		icon = :icon, is_public = :is_public, items = :items, updated_at = :updated_at
	WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, row)
	if err != nil {
		return cheatsheet.Cheatsheet{}, errors.Wrap(err, "updating cheatsheet")
	}
	if err = checkAffected(res, cheatsheet.ErrNotFound); err != nil {
		return cheatsheet.Cheatsheet{}, err
	}
	return cs, nil
}

func (repo *cheatsheetRepository) DeleteCheatsheet(ctx context.Context, id string) error {
	if !validID(id) {
		return cheatsheet.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM cheatsheets WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting cheatsheet")
	}
	return checkAffected(res, cheatsheet.ErrNotFound)
}
