package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/chapter"
)

type chapterRow struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Order         int            `db:"order"`
	Color         string         `db:"color"`
	Icon          string         `db:"icon"`
	Tags          pq.StringArray `db:"tags"`
	QuestionCount int            `db:"question_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func newChapterRow(ch chapter.Chapter) chapterRow {
	return chapterRow{
		ID:            ch.ID,
		UserID:        ch.UserID,
		Title:         ch.Title,
		Description:   ch.Description,
		Order:         ch.Order,
		Color:         ch.Color,
		Icon:          ch.Icon,
		Tags:          pq.StringArray(nonNilStrings(ch.Tags)),
		QuestionCount: ch.QuestionCount,
		CreatedAt:     ch.CreatedAt,
		UpdatedAt:     ch.UpdatedAt,
	}
}

func (r chapterRow) chapter() chapter.Chapter {
	return chapter.Chapter{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		UserID:        r.UserID,
		Order:         r.Order,
		Color:         r.Color,
		Icon:          r.Icon,
		Tags:          nonNilStrings(r.Tags),
		QuestionCount: r.QuestionCount,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type questionRow struct {
	ID           string         `db:"id"`
	ChapterID    string         `db:"chapter_id"`
	UserID       string         `db:"user_id"`
	Title        string         `db:"title"`
	LogicContent string         `db:"logic_content"`
	LogicVisible bool           `db:"logic_visible"`
	CodeContent  string         `db:"code_content"`
	CodeLanguage string         `db:"code_language"`
	CodeVisible  bool           `db:"code_visible"`
	Order        int            `db:"order"`
	Link         string         `db:"link"`
	Tags         pq.StringArray `db:"tags"`
	Difficulty   string         `db:"difficulty"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func newQuestionRow(q chapter.Question) questionRow {
	return questionRow{
		ID:           q.ID,
		ChapterID:    q.ChapterID,
		UserID:       q.UserID,
		Title:        q.Title,
		LogicContent: q.Logic.Content,
		LogicVisible: q.Logic.IsVisible,
		CodeContent:  q.Code.Content,
		CodeLanguage: q.Code.Language,
		CodeVisible:  q.Code.IsVisible,
		Order:        q.Order,
		Link:         q.Link,
		Tags:         pq.StringArray(nonNilStrings(q.Tags)),
		Difficulty:   q.Difficulty,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func (r questionRow) question() chapter.Question {
	return chapter.Question{
		ID:         r.ID,
		ChapterID:  r.ChapterID,
		UserID:     r.UserID,
		Title:      r.Title,
		Logic:      chapter.Logic{Content: r.LogicContent, IsVisible: r.LogicVisible},
		Code:       chapter.Code{Content: r.CodeContent, Language: r.CodeLanguage, IsVisible: r.CodeVisible},
		Order:      r.Order,
		Link:       r.Link,
		Tags:       nonNilStrings(r.Tags),
		Difficulty: r.Difficulty,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const (
	chapterColumns = `id, user_id, title, description, "order", color, icon, tags, question_count, created_at, updated_at`

	questionColumns = `id, chapter_id, user_id, title, logic_content, logic_visible, code_content, code_language,
	code_visible, "order", link, tags, difficulty, created_at, updated_at`
)

type chapterRepository struct {
	db core.DB
}

var _ chapter.Repository = (*chapterRepository)(nil)

func NewChapterRepository(db core.DB) chapter.Repository {
	return &chapterRepository{db: db}
}

func (repo *chapterRepository) QueryChapters(ctx context.Context, userID string) ([]chapter.Chapter, error) {
	if !validID(userID) {
		return []chapter.Chapter{}, nil
	}
	var rows []chapterRow
	q := `SELECT ` + chapterColumns + ` FROM chapters WHERE user_id = $1 ORDER BY "order" ASC, created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting chapters")
	}
	chapters := make([]chapter.Chapter, 0, len(rows))
	for _, r := range rows {
		chapters = append(chapters, r.chapter())
	}
	return chapters, nil
}

func (repo *chapterRepository) GetChapter(ctx context.Context, id string) (chapter.Chapter, error) {
	if !validID(id) {
		return chapter.Chapter{}, chapter.ErrChapterNotFound
	}
	var row chapterRow
	q := `SELECT ` + chapterColumns + ` FROM chapters WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return chapter.Chapter{}, trapNoRowsErr(err, chapter.ErrChapterNotFound)
	}
	return row.chapter(), nil
}

func (repo *chapterRepository) CreateChapter(ctx context.Context, ch chapter.Chapter) (chapter.Chapter, error) {
	ch.ID = newID()
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		// serialize concurrent creations for the same user
		var ownerID string
		if err := tx.GetContext(ctx, &ownerID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, ch.UserID); err != nil {
			return errors.Wrap(err, "locking chapter owner")
		}
		q := `SELECT COALESCE(MAX("order"), -1) + 1 FROM chapters WHERE user_id = $1`
		if err := tx.GetContext(ctx, &ch.Order, q, ch.UserID); err != nil {
			return errors.Wrap(err, "computing chapter order")
		}
		q = `INSERT INTO chapters (` + chapterColumns + `)
		VALUES (:id, :user_id, :title, :description, :order, :color, :icon, :tags, :question_count, :created_at, :updated_at)`
		_, err := sqlx.NamedExecContext(ctx, tx, q, newChapterRow(ch))
		return errors.Wrap(err, "inserting chapter")
	})
	if err != nil {
		return chapter.Chapter{}, err
	}
	return ch, nil
}

func (repo *chapterRepository) UpdateChapter(ctx context.Context, ch chapter.Chapter) (chapter.Chapter, error) {
	q := `UPDATE chapters SET title = :title, description = :description, "order" = :order, color = :color,
		icon = :icon, tags = :tags, updated_at = :updated_at
	WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, newChapterRow(ch))
	if err != nil {
		return chapter.Chapter{}, errors.Wrap(err, "updating chapter")
	}
	if err = checkAffected(res, chapter.ErrChapterNotFound); err != nil {
		return chapter.Chapter{}, err
	}
	return repo.GetChapter(ctx, ch.ID)
}

// DeleteChapter relies on ON DELETE CASCADE for questions, tests and mindmaps.
func (repo *chapterRepository) DeleteChapter(ctx context.Context, id string) error {
	if !validID(id) {
		return chapter.ErrChapterNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	return checkAffected(res, chapter.ErrChapterNotFound)
}

func (repo *chapterRepository) ReorderChapters(ctx context.Context, userID string, items []chapter.ReorderItem) error {
	now := time.Now().UTC()
	return withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `UPDATE chapters SET "order" = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
		for _, it := range items {
			if !validID(it.ID) {
				continue
			}
			if _, err := tx.ExecContext(ctx, q, it.Order, now, it.ID, userID); err != nil {
				return errors.Wrapf(err, "reordering chapter %s", it.ID)
			}
		}
		return nil
	})
}

func (repo *chapterRepository) QueryQuestions(ctx context.Context, chapterID string) ([]chapter.Question, error) {
	if !validID(chapterID) {
		return []chapter.Question{}, nil
	}
	var rows []questionRow
	q := `SELECT ` + questionColumns + ` FROM questions WHERE chapter_id = $1 ORDER BY "order" ASC, created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, chapterID); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	questions := make([]chapter.Question, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, r.question())
	}
	return questions, nil
}

func (repo *chapterRepository) GetQuestion(ctx context.Context, id string) (chapter.Question, error) {
	if !validID(id) {
		return chapter.Question{}, chapter.ErrQuestionNotFound
	}
	var row questionRow
	q := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return chapter.Question{}, trapNoRowsErr(err, chapter.ErrQuestionNotFound)
	}
	return row.question(), nil
}

func refreshQuestionCount(ctx context.Context, tx *sqlx.Tx, chapterID string) error {
	q := `UPDATE chapters SET question_count = (SELECT COUNT(*) FROM questions WHERE chapter_id = $1) WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, chapterID)
	return errors.Wrap(err, "refreshing question count")
}

func (repo *chapterRepository) CreateQuestion(ctx context.Context, qn chapter.Question) (chapter.Question, error) {
	if !validID(qn.ChapterID) {
		return chapter.Question{}, chapter.ErrChapterNotFound
	}
	qn.ID = newID()
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var chapterID string
		if err := tx.GetContext(ctx, &chapterID, `SELECT id FROM chapters WHERE id = $1 FOR UPDATE`, qn.ChapterID); err != nil {
			return trapNoRowsErr(err, chapter.ErrChapterNotFound)
		}
		q := `SELECT COALESCE(MAX("order"), -1) + 1 FROM questions WHERE chapter_id = $1`
		if err := tx.GetContext(ctx, &qn.Order, q, qn.ChapterID); err != nil {
			return errors.Wrap(err, "computing question order")
		}
		q = `INSERT INTO questions (` + questionColumns + `)
		VALUES (:id, :chapter_id, :user_id, :title, :logic_content, :logic_visible, :code_content, :code_language,
			:code_visible, :order, :link, :tags, :difficulty, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, q, newQuestionRow(qn)); err != nil {
			return errors.Wrap(err, "inserting question")
		}
		return refreshQuestionCount(ctx, tx, qn.ChapterID)
	})
	if err != nil {
		return chapter.Question{}, err
	}
	return qn, nil
}

func (repo *chapterRepository) UpdateQuestion(ctx context.Context, qn chapter.Question) (chapter.Question, error) {
	q := `UPDATE questions SET title = :title, logic_content = :logic_content, logic_visible = :logic_visible,
		code_content = :code_content, code_language = :code_language, code_visible = :code_visible,
		"order" = :order, link = :link, tags = :tags, difficulty = :difficulty, updated_at = :updated_at
	WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, newQuestionRow(qn))
	if err != nil {
		return chapter.Question{}, errors.Wrap(err, "updating question")
	}
	if err = checkAffected(res, chapter.ErrQuestionNotFound); err != nil {
		return chapter.Question{}, err
	}
	return qn, nil
}

func (repo *chapterRepository) DeleteQuestion(ctx context.Context, id string) error {
	if !validID(id) {
		return chapter.ErrQuestionNotFound
	}
	return withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var chapterID string
		if err := tx.GetContext(ctx, &chapterID, `DELETE FROM questions WHERE id = $1 RETURNING chapter_id`, id); err != nil {
			return trapNoRowsErr(err, chapter.ErrQuestionNotFound)
		}
		return refreshQuestionCount(ctx, tx, chapterID)
	})
}
