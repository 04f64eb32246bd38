package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
)

// DB is a process-local store used by tests and by the "memory" database engine.
// A single lock guards every table so that cascades and counters stay consistent.
type DB struct {
	mutex       sync.RWMutex
	users       map[string]user.User
	chapters    map[string]chapter.Chapter
	questions   map[string]chapter.Question
	cheatsheets map[string]cheatsheet.Cheatsheet
	blogs       map[string]blog.Blog
	threads     map[string]thread.Thread
	tests       map[string]practice.Test
	mindmaps    map[string]practice.Mindmap
}

func Open() *DB {
	return &DB{
		users:       make(map[string]user.User),
		chapters:    make(map[string]chapter.Chapter),
		questions:   make(map[string]chapter.Question),
		cheatsheets: make(map[string]cheatsheet.Cheatsheet),
		blogs:       make(map[string]blog.Blog),
		threads:     make(map[string]thread.Thread),
		tests:       make(map[string]practice.Test),
		mindmaps:    make(map[string]practice.Mindmap),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	fresh := Open()
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = fresh.users
	db.chapters = fresh.chapters
	db.questions = fresh.questions
	db.cheatsheets = fresh.cheatsheets
	db.blogs = fresh.blogs
	db.threads = fresh.threads
	db.tests = fresh.tests
	db.mindmaps = fresh.mindmaps
}

func newID() string {
	return uuid.New().String()
}

func copyStrings(s []string) []string {
	c := make([]string, len(s))
	copy(c, s)
	return c
}

// joinUser refreshes the name & email of ref from the users table, as a SQL join would.
func (db *DB) joinUser(ref *core.UserRef) {
	if usr, ok := db.users[ref.ID]; ok {
		ref.Name, ref.Email = usr.Name, usr.Email
	}
}
