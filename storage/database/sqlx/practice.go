package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/practice"
)

type testRow struct {
	ID             string     `db:"id"`
	ChapterID      string     `db:"chapter_id"`
	UserID         string     `db:"user_id"`
	Title          string     `db:"title"`
	Questions      types.JSON `db:"questions"`
	GeneratedBy    string     `db:"generated_by"`
	Status         string     `db:"status"`
	ScoreCompleted int        `db:"score_completed"`
	ScoreTotal     int        `db:"score_total"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func newTestRow(t practice.Test) (testRow, error) {
	row := testRow{
		ID:             t.ID,
		ChapterID:      t.ChapterID,
		UserID:         t.UserID,
		Title:          t.Title,
		GeneratedBy:    t.GeneratedBy,
		Status:         t.Status,
		ScoreCompleted: t.Score.Completed,
		ScoreTotal:     t.Score.Total,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	questions := t.Questions
	if questions == nil {
		questions = []practice.TestQuestion{}
	}
	if err := row.Questions.Marshal(questions); err != nil {
		return testRow{}, errors.Wrap(err, "encoding test questions")
	}
	return row, nil
}

func (r testRow) test() (practice.Test, error) {
	t := practice.Test{
		ID:          r.ID,
		Title:       r.Title,
		ChapterID:   r.ChapterID,
		UserID:      r.UserID,
		Questions:   []practice.TestQuestion{},
		GeneratedBy: r.GeneratedBy,
		Status:      r.Status,
		Score:       practice.Score{Completed: r.ScoreCompleted, Total: r.ScoreTotal},
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if len(r.Questions) > 0 {
		if err := r.Questions.Unmarshal(&t.Questions); err != nil {
			return practice.Test{}, errors.Wrap(err, "decoding test questions")
		}
	}
	return t, nil
}

type mindmapRow struct {
	ID            string      `db:"id"`
	ChapterID     string      `db:"chapter_id"`
	UserID        string      `db:"user_id"`
	Title         string      `db:"title"`
	Nodes         types.JSON  `db:"nodes"`
	Edges         types.JSON  `db:"edges"`
	GeneratedFrom string      `db:"generated_from"`
	RawData       null.String `db:"raw_data"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func newMindmapRow(m practice.Mindmap) (mindmapRow, error) {
	row := mindmapRow{
		ID:            m.ID,
		ChapterID:     m.ChapterID,
		UserID:        m.UserID,
		Title:         m.Title,
		GeneratedFrom: m.GeneratedFrom,
		RawData:       null.NewString(m.RawData, m.RawData != ""),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if err := row.Nodes.Marshal(m.Nodes); err != nil {
		return mindmapRow{}, errors.Wrap(err, "encoding mindmap nodes")
	}
	if err := row.Edges.Marshal(m.Edges); err != nil {
		return mindmapRow{}, errors.Wrap(err, "encoding mindmap edges")
	}
	return row, nil
}

func (r mindmapRow) mindmap() (practice.Mindmap, error) {
	m := practice.Mindmap{
		ID:            r.ID,
		Title:         r.Title,
		ChapterID:     r.ChapterID,
		UserID:        r.UserID,
		Nodes:         []practice.Node{},
		Edges:         []practice.Edge{},
		GeneratedFrom: r.GeneratedFrom,
		RawData:       r.RawData.String,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
	if len(r.Nodes) > 0 {
		if err := r.Nodes.Unmarshal(&m.Nodes); err != nil {
			return practice.Mindmap{}, errors.Wrap(err, "decoding mindmap nodes")
		}
	}
	if len(r.Edges) > 0 {
		if err := r.Edges.Unmarshal(&m.Edges); err != nil {
			return practice.Mindmap{}, errors.Wrap(err, "decoding mindmap edges")
		}
	}
	return m, nil
}

const (
	testColumns = `id, chapter_id, user_id, title, questions, generated_by, status, score_completed, score_total,
	created_at, updated_at`

	mindmapColumns = `id, chapter_id, user_id, title, nodes, edges, generated_from, raw_data, created_at, updated_at`
)

type practiceRepository struct {
	db core.DB
}

var _ practice.Repository = (*practiceRepository)(nil)

func NewPracticeRepository(db core.DB) practice.Repository {
	return &practiceRepository{db: db}
}

func (repo *practiceRepository) ReplaceMindmap(ctx context.Context, m practice.Mindmap) (practice.Mindmap, error) {
	m.ID = newID()
	row, err := newMindmapRow(m)
	if err != nil {
		return practice.Mindmap{}, err
	}
	err = withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `DELETE FROM mindmaps WHERE chapter_id = $1 AND user_id = $2`
		if _, err := tx.ExecContext(ctx, q, m.ChapterID, m.UserID); err != nil {
			return errors.Wrap(err, "deleting previous mindmaps")
		}
		q = `INSERT INTO mindmaps (` + mindmapColumns + `)
		VALUES (:id, :chapter_id, :user_id, :title, :nodes, :edges, :generated_from, :raw_data, :created_at, :updated_at)`
		_, err := sqlx.NamedExecContext(ctx, tx, q, row)
		return errors.Wrap(err, "inserting mindmap")
	})
	if err != nil {
		return practice.Mindmap{}, err
	}
	return m, nil
}

func (repo *practiceRepository) GetLatestMindmap(ctx context.Context, chapterID, userID string) (practice.Mindmap, error) {
	if !validID(chapterID) || !validID(userID) {
		return practice.Mindmap{}, practice.ErrMindmapNotFound
	}
	var row mindmapRow
	q := `SELECT ` + mindmapColumns + ` FROM mindmaps WHERE chapter_id = $1 AND user_id = $2
	ORDER BY created_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &row, q, chapterID, userID); err != nil {
		return practice.Mindmap{}, trapNoRowsErr(err, practice.ErrMindmapNotFound)
	}
	return row.mindmap()
}

func (repo *practiceRepository) ReplaceTest(ctx context.Context, t practice.Test) (practice.Test, error) {
	t.ID = newID()
	row, err := newTestRow(t)
	if err != nil {
		return practice.Test{}, err
	}
	err = withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `DELETE FROM tests WHERE chapter_id = $1 AND user_id = $2`
		if _, err := tx.ExecContext(ctx, q, t.ChapterID, t.UserID); err != nil {
			return errors.Wrap(err, "deleting previous tests")
		}
		q = `INSERT INTO tests (` + testColumns + `)
		VALUES (:id, :chapter_id, :user_id, :title, :questions, :generated_by, :status, :score_completed,
			:score_total, :created_at, :updated_at)`
		_, err := sqlx.NamedExecContext(ctx, tx, q, row)
		return errors.Wrap(err, "inserting test")
	})
	if err != nil {
		return practice.Test{}, err
	}
	return t, nil
}

func (repo *practiceRepository) QueryTests(ctx context.Context, chapterID, userID string) ([]practice.Test, error) {
	if !validID(chapterID) || !validID(userID) {
		return []practice.Test{}, nil
	}
	var rows []testRow
	q := `SELECT ` + testColumns + ` FROM tests WHERE chapter_id = $1 AND user_id = $2 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, chapterID, userID); err != nil {
		return nil, errors.Wrap(err, "selecting tests")
	}
	tests := make([]practice.Test, 0, len(rows))
	for _, r := range rows {
		t, err := r.test()
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func (repo *practiceRepository) getTest(ctx context.Context, exec core.DBExecutor, id string, forUpdate bool) (practice.Test, error) {
	if !validID(id) {
		return practice.Test{}, practice.ErrTestNotFound
	}
	q := `SELECT ` + testColumns + ` FROM tests WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	var row testRow
	if err := exec.GetContext(ctx, &row, q, id); err != nil {
		return practice.Test{}, trapNoRowsErr(err, practice.ErrTestNotFound)
	}
	return row.test()
}

func (repo *practiceRepository) GetTest(ctx context.Context, id string) (practice.Test, error) {
	return repo.getTest(ctx, repo.db, id, false)
}

func (repo *practiceRepository) SetTestQuestionCompleted(ctx context.Context, testID string, index int, completed bool) (practice.Test, error) {
	var t practice.Test
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var err error
		if t, err = repo.getTest(ctx, tx, testID, true); err != nil {
			return err
		}
		if index < 0 || index >= len(t.Questions) {
			return practice.ErrInvalidQuestionIndex
		}
		t.Questions[index].IsCompleted = completed
		t.Rescore()
		t.UpdatedAt = time.Now().UTC()

		row, err := newTestRow(t)
		if err != nil {
			return err
		}
		q := `UPDATE tests SET questions = :questions, status = :status, score_completed = :score_completed,
			score_total = :score_total, updated_at = :updated_at
		WHERE id = :id`
		_, err = sqlx.NamedExecContext(ctx, tx, q, row)
		return errors.Wrap(err, "updating test")
	})
	if err != nil {
		return practice.Test{}, err
	}
	return t, nil
}
