package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTest_Rescore(t *testing.T) {
	tests := []struct {
		name       string
		completed  []bool
		wantScore  Score
		wantStatus string
	}{
		{name: "none done", completed: []bool{false, false, false}, wantScore: Score{0, 3}, wantStatus: StatusPending},
		{name: "some done", completed: []bool{true, false, true}, wantScore: Score{2, 3}, wantStatus: StatusInProgress},
		{name: "all done", completed: []bool{true, true}, wantScore: Score{2, 2}, wantStatus: StatusCompleted},
		{name: "no questions", completed: nil, wantScore: Score{0, 0}, wantStatus: StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test := Test{Status: StatusPending}
			for _, done := range tt.completed {
				test.Questions = append(test.Questions, TestQuestion{IsCompleted: done})
			}
			test.Rescore()

			assert.Equal(t, tt.wantScore, test.Score)
			assert.Equal(t, tt.wantStatus, test.Status)
		})
	}
}
