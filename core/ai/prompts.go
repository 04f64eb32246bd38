package ai

import (
	"fmt"
	"strings"
)

func mindmapPrompt(title, content string) string {
	return fmt.Sprintf(`You are a study assistant. Read the study notes below and build a detailed mindmap.

Chapter: %s

Content:
%s

The mindmap must have:
1. one root node for the main topic
2. 3 to 6 branch nodes for the major concepts
3. leaf nodes for the details of each branch

Reply with ONLY a JSON object (no markdown, no code block) shaped exactly like:
{
  "nodes": [
    {"id": "root", "label": "Main Topic", "type": "root", "x": 400, "y": 300},
    {"id": "branch-1", "label": "Concept 1", "type": "branch", "x": 200, "y": 150},
    {"id": "leaf-1-1", "label": "Detail 1", "type": "leaf", "x": 100, "y": 100}
  ],
  "edges": [
    {"source": "root", "target": "branch-1"},
    {"source": "branch-1", "target": "leaf-1-1"}
  ]
}

Lay the nodes out radially around the root (x: 400, y: 300).`, title, content)
}

func testQuestionsPrompt(title, content, difficulty string, count int, tags []string) string {
	var tagHint string
	if len(tags) > 0 {
		tagHint = fmt.Sprintf("\n\nConcept tags found in the notes: %s\nPrefer problems that practice these concepts.", strings.Join(tags, ", "))
	}
	return fmt.Sprintf(`You are a study assistant writing practice questions, each paired with a similar problem from a coding platform.

Chapter: %s

Study notes:
%s%s

Write %d %s practice questions that test the understanding of this material.
For every question, link a REAL similar problem on LeetCode, HackerRank, GeeksforGeeks or Codeforces.

Reply with ONLY a JSON array (no markdown, no code block) shaped exactly like:
[
  {
    "question": "A clear, specific question about the material",
    "source": "LeetCode",
    "sourceUrl": "https://leetcode.com/problems/problem-name/",
    "solution": "Step by step solution or explanation",
    "solutionCode": "code when relevant, otherwise an empty string",
    "difficulty": "%s",
    "tags": ["arrays", "two-pointers"]
  }
]

Use 2 to 4 lowercase concept tags per question and mix conceptual, applied and coding questions.`, title, content, tagHint, count, difficulty, difficulty)
}

func studyGuidePrompt(title, content, query string) string {
	return fmt.Sprintf(`You are an expert tutor helping a student.

The student is studying: %s

Their notes:
%s

The student asks: "%s"

Answer in a helpful and detailed way:
1. answer the question directly
2. relate it to their notes when relevant
3. give examples or analogies
4. point to related topics worth learning

Be conversational but educational, and format with markdown.`, title, content, query)
}

func suggestionsPrompt(title, content string) string {
	return fmt.Sprintf(`You are a study assistant reviewing study notes.

Chapter: %s
Content:
%s

Give 3 to 5 suggestions to improve these notes: missing concepts, parts needing more detail, related topics, study tips.

Reply with ONLY a JSON object (no markdown) shaped like:
{
  "suggestions": [
    {"type": "enhancement", "icon": "💡", "text": "Suggestion"},
    {"type": "topic", "icon": "📚", "text": "Related topic"},
    {"type": "tip", "icon": "✨", "text": "Study tip"}
  ]
}`, title, content)
}

func tagsPrompt(title, logic, code string) string {
	if code == "" {
		code = "No code"
	}
	if logic == "" {
		logic = "No description"
	}
	return fmt.Sprintf(`Analyze this code and return accurate LeetCode-style tags.

Ignore the title "%s", it may be wrong. Only trust the code itself.

Code:
%s

Description (may be inaccurate):
%s

Steps:
1. read the code carefully
2. name the data structures used (array, string, hash-table, stack, queue, tree, graph, linked-list, heap)
3. name the algorithm patterns (greedy, dp, two-pointers, binary-search, bfs, dfs, backtracking, sliding-window, sorting)
4. only tag what the code actually does; a counting array like freq[26] is a hash-table

Reply with ONLY a JSON array of 3 to 5 lowercase tags, e.g. ["string", "hash-table", "greedy"]`, title, code, logic)
}
