package controllers

import (
	"fmt"
	"net/http"
	"stackit-api/apperror"
	"stackit-api/models"
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// HandleError encodes the std ErrorResponse
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {

	if err == nil {
		apiError.Code = 0
		apiError.Message = ""

		return 0, apiError
	}

	fmt.Println(err)
	switch err {
	// permissions
	case apperror.ErrDenied:
		apiError.Code = ActionDenied
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	case models.ErrNotQuestionAuthor:
		apiError.Code = NotQuestionAuthor
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusForbidden
	// user
	case models.ErrUserNameNotAvailable:
		apiError.Code = UserNameTaken
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrEMailAddressTaken:
		apiError.Code = EMailAddressTaken
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidUser:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidPassword:
		apiError.Code = InvalidPassword
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	// content
	case models.ErrQuestionTitleMissing:
		apiError.Code = QuestionTitleMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrQuestionContentMissing:
		apiError.Code = QuestionContentMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrAnswerContentMissing:
		apiError.Code = AnswerContentMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrCommentEmpty:
		apiError.Code = CommentEmpty
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	// scoring / voting
	case models.ErrSelfVote:
		apiError.Code = SelfVote
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrAnswerMismatch:
		apiError.Code = AnswerMismatch
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidVoteKind:
		apiError.Code = InvalidVoteKind
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnprocessableEntity
	default:
		apiError.Code = SystemError
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	}
	return httpStatus, apiError
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	InvalidLogin
	// generic system
	ActionDenied
	// user
	UserNameTaken
	EMailAddressTaken
	InvalidPassword
	// content
	QuestionTitleMissing
	QuestionContentMissing
	AnswerContentMissing
	CommentEmpty
	// scoring / voting
	SelfVote
	NotQuestionAuthor
	AnswerMismatch
	InvalidVoteKind
	SystemError = 99999
)

func (er ErrorResponse) String(code int32) string {
	msg := ""
	switch code {
	// common (system)
	case InvalidJSON:
		msg = "Invalid JSON"
	case InvalidRequest:
		msg = "Invalid Request" // JSON was correct, data was not
	case InvalidLogin:
		msg = "invalid user name or password"
	case ActionDenied:
		msg = "update/delete action not allowed"
	// user
	case UserNameTaken:
		msg = "user name is not available"
	case EMailAddressTaken:
		msg = "email-address is already used"
	case InvalidPassword:
		msg = "password does not meet rules"
	// content
	case QuestionTitleMissing:
		msg = "question title is required"
	case QuestionContentMissing:
		msg = "question content is required"
	case AnswerContentMissing:
		msg = "answer content is required"
	case CommentEmpty:
		msg = "comment is required"
	// scoring / voting
	case SelfVote:
		msg = "voting on own content is not allowed"
	case NotQuestionAuthor:
		msg = "only the question author can accept answers"
	case AnswerMismatch:
		msg = "answer does not belong to this question"
	case InvalidVoteKind:
		msg = "vote type must be upvote or downvote"
	case SystemError:
		msg = "Server Problem"
	}

	return msg
}
