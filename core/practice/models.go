package practice

import "time"

// Test statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Test generators
const (
	GeneratedByAI     = "ai"
	GeneratedByManual = "manual"
	GeneratedByWeb    = "web"
)

// Mindmap node types & sources
const (
	NodeRoot   = "root"
	NodeBranch = "branch"
	NodeLeaf   = "leaf"

	FromChapter    = "chapter"
	FromQuestions  = "questions"
	FromCheatsheet = "cheatsheet"
	FromManual     = "manual"
)

type TestQuestion struct {
	Question     string   `json:"question"`
	Source       string   `json:"source"`
	SourceURL    string   `json:"sourceUrl"`
	Solution     string   `json:"solution"`
	SolutionCode string   `json:"solutionCode"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags"`
	IsCompleted  bool     `json:"isCompleted"`
}

type Score struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type Test struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	ChapterID   string         `json:"chapter"`
	UserID      string         `json:"user"`
	Questions   []TestQuestion `json:"questions"`
	GeneratedBy string         `json:"generatedBy"`
	Status      string         `json:"status"`
	Score       Score          `json:"score"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Rescore recomputes the score and status from the questions' completion flags.
func (t *Test) Rescore() {
	completed := 0
	for _, q := range t.Questions {
		if q.IsCompleted {
			completed++
		}
	}
	t.Score = Score{Completed: completed, Total: len(t.Questions)}
	t.Status = StatusFor(completed, len(t.Questions))
}

// StatusFor derives a test status from its score.
func StatusFor(completed, total int) string {
	switch {
	case completed == total:
		return StatusCompleted
	case completed > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Type  string  `json:"type"`
}

type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the drawable part of a Mindmap.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type Mindmap struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ChapterID     string    `json:"chapter"`
	UserID        string    `json:"user"`
	Nodes         []Node    `json:"nodes"`
	Edges         []Edge    `json:"edges"`
	GeneratedFrom string    `json:"generatedFrom"`
	RawData       string    `json:"rawData"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
