package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuestion(t *testing.T) {

	m := QuestionModel{}

	tests := []struct {
		name     string
		question Question
		wantErr  error
		wantTags []string
	}{
		{
			name:     "valid question",
			question: Question{Title: "  How does this work?  ", Content: "Details here"},
		},
		{
			name:     "title missing",
			question: Question{Title: "   ", Content: "Details here"},
			wantErr:  ErrQuestionTitleMissing,
		},
		{
			name:     "content missing",
			question: Question{Title: "How does this work?", Content: ""},
			wantErr:  ErrQuestionContentMissing,
		},
		{
			name:     "tags lowercased and cleaned",
			question: Question{Title: "t", Content: "c", Tags: []string{" Go ", "", "MongoDB"}},
			wantTags: []string{"go", "mongodb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := m.Validate(tt.question)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cleaned)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, cleaned.Title)
			if tt.wantTags != nil {
				assert.Equal(t, tt.wantTags, cleaned.Tags)
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {

	m := AnswerModel{}

	cleaned, err := m.Validate(Answer{Content: "  an answer  "})
	assert.NoError(t, err)
	assert.Equal(t, "an answer", cleaned.Content)

	cleaned, err = m.Validate(Answer{Content: "   "})
	assert.ErrorIs(t, err, ErrAnswerContentMissing)
	assert.Nil(t, cleaned)
}

func TestValidateComment(t *testing.T) {

	cleaned, err := ValidateComment(Comment{Comment: "  nice one  "})
	assert.NoError(t, err)
	assert.Equal(t, "nice one", cleaned.Comment)

	cleaned, err = ValidateComment(Comment{Comment: ""})
	assert.ErrorIs(t, err, ErrCommentEmpty)
	assert.Nil(t, cleaned)
}
