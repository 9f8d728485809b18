package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)

// user
var (
	ErrUserNameNotAvailable = errors.New("user name is not available")
	ErrEMailAddressTaken    = errors.New("email-address is already used")
	ErrInvalidUser          = errors.New("invalid user name or password")
	ErrInvalidPassword      = errors.New("password does not meet rules")
)

// question & answer
// transformed by controllers to respective Unprocessable Entity (422)
var (
	ErrQuestionTitleMissing   = errors.New("question title is required")
	ErrQuestionContentMissing = errors.New("question content is required")
	ErrAnswerContentMissing   = errors.New("answer content is required")
	ErrCommentEmpty           = errors.New("comment is required")
)

// scoring / voting
var (
	ErrSelfVote          = errors.New("voting on own content is not allowed")
	ErrNotQuestionAuthor = errors.New("only the question author can accept answers")
	ErrAnswerMismatch    = errors.New("answer does not belong to this question")
	ErrInvalidVoteKind   = errors.New("vote type must be upvote or downvote")
)
