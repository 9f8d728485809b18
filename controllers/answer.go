package controllers

import (
	"net/http"
	"stackit-api/apperror"
	"stackit-api/authentication"
	"stackit-api/environment"
	"stackit-api/helpers"
	"stackit-api/models"

	"github.com/gin-gonic/gin"
)

// ListAnswers returns a question's answers, accepted one first
func ListAnswers(c *gin.Context) {

	// anonymous visitors are fine here
	userID, _ := authentication.Authenticate(c.Request)

	answers, err := environment.Env.AnswerModel.ListAnswers(c.Param("id"), userID)
	if err != nil {
		// nothing found (not an error to the client)
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		// technical errors
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, answers)
}

// AddAnswer creates an answer under a question and credits the author
// (+10, streak, stats); the question author gets notified
func AddAnswer(c *gin.Context) {

	var (
		err      error
		data     models.Answer
		apiError ErrorResponse
	)

	// for enhanced security, read user from token
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	// validate request
	answer, err := environment.Env.AnswerModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// apply question from route and userID from token
	answer.QuestionID = helpers.ObjectID(c.Param("id"))
	answer.CreatedID = helpers.ObjectID(userID)

	ID, err := environment.Env.AnswerModel.CreateAnswer(answer)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// ledger: +10, streak, stats, achievements, notification
	err = environment.Env.ScoringModel.ScoreNewAnswer(answer)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// AddAnswerComment appends a comment to an answer
func AddAnswerComment(c *gin.Context) {

	var (
		err      error
		data     models.Comment
		apiError ErrorResponse
	)

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	comment, err := models.ValidateComment(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	comment.CreatedID = helpers.ObjectID(userID)

	ID, err := environment.Env.AnswerModel.AddComment(c.Param("id"), comment)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// DeleteAnswer removes an answer (author or admin), cascading to the
// question's counter and acceptance bookkeeping
func DeleteAnswer(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	credentials := environment.Env.Credentials.GetCredentials(helpers.ObjectID(userID))

	err = environment.Env.AnswerModel.DeleteAnswer(c.Param("id"), credentials.UserID, credentials.IsAdmin())
	if err != nil {
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
