package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if role == "" {
		role = user.RoleUser
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		Settings:  user.DefaultSettings(),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateChapter(t *testing.T, repo chapter.Repository, userID, title string, tags ...string) chapter.Chapter {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	ch, err := repo.CreateChapter(context.Background(), chapter.Chapter{
		Title:     title,
		UserID:    userID,
		Icon:      "📚",
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateChapter(): %v", err)
	}
	return ch
}

func CreateQuestion(t *testing.T, repo chapter.Repository, ch chapter.Chapter, title, logic, code string, tags ...string) chapter.Question {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	q, err := repo.CreateQuestion(context.Background(), chapter.Question{
		ChapterID:  ch.ID,
		UserID:     ch.UserID,
		Title:      title,
		Logic:      chapter.Logic{Content: logic, IsVisible: true},
		Code:       chapter.Code{Content: code, Language: "javascript", IsVisible: true},
		Tags:       tags,
		Difficulty: chapter.DifficultyMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateQuestion(): %v", err)
	}
	return q
}

func CreateCheatsheet(t *testing.T, repo cheatsheet.Repository, userID, title string, items ...cheatsheet.Item) cheatsheet.Cheatsheet {
	now := time.Now().UTC()
	if items == nil {
		items = []cheatsheet.Item{}
	}
	cs, err := repo.CreateCheatsheet(context.Background(), cheatsheet.Cheatsheet{
		Title:     title,
		UserID:    userID,
		Color:     "#10b981",
		Icon:      "📋",
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCheatsheet(): %v", err)
	}
	return cs
}

func CreateBlog(t *testing.T, repo blog.Repository, author user.User, title, status string, createdAt ...time.Time) blog.Blog {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	content := "<p>" + title + " content</p>"
	b, err := repo.CreateBlog(context.Background(), blog.Blog{
		Title:     title,
		Content:   content,
		Tags:      []string{},
		Author:    author.Ref(),
		Status:    status,
		ReadTime:  blog.ReadTime(content),
		Likes:     []string{},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateBlog(): %v", err)
	}
	return b
}

func CreateThread(t *testing.T, repo thread.Repository, owner user.User, title string, createdAt ...time.Time) thread.Thread {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	th, err := repo.CreateThread(context.Background(), thread.Thread{
		User:      owner.Ref(),
		Title:     title,
		Content:   title + " content",
		Tags:      []string{},
		Replies:   []thread.Reply{},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateThread(): %v", err)
	}
	return th
}

func AddReply(t *testing.T, repo thread.Repository, th thread.Thread, author core.UserRef, content string) thread.Thread {
	th, err := repo.AddReply(context.Background(), th.ID, thread.Reply{
		ID:        uuid.New().String(),
		User:      author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddReply(): %v", err)
	}
	return th
}

func CreateTest(t *testing.T, repo practice.Repository, ch chapter.Chapter, questions ...string) practice.Test {
	now := time.Now().UTC()
	tq := make([]practice.TestQuestion, 0, len(questions))
	for _, q := range questions {
		tq = append(tq, practice.TestQuestion{Question: q, Source: "AI Generated", Difficulty: chapter.DifficultyMedium, Tags: []string{}})
	}
	test := practice.Test{
		Title:       ch.Title + " - Practice Test",
		ChapterID:   ch.ID,
		UserID:      ch.UserID,
		Questions:   tq,
		GeneratedBy: practice.GeneratedByAI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	test.Rescore()
	test, err := repo.ReplaceTest(context.Background(), test)
	if err != nil {
		t.Fatalf("CreateTest(): %v", err)
	}
	return test
}
