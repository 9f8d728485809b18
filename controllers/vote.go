package controllers

import (
	"net/http"
	"stackit-api/authentication"
	"stackit-api/environment"
	"stackit-api/helpers"
	"stackit-api/models"

	"github.com/gin-gonic/gin"
)

// CastVote toggles a vote on a question or answer and reports the outcome
// (added | retracted | flipped) together with the new counters
func CastVote(c *gin.Context) {

	var (
		err      error
		data     models.VoteRequest
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

	// apply userID from token (username resolved in model)
	data.UserID = helpers.ObjectID(userID)

	outcome, err := environment.Env.ScoringModel.CastVote(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// AcceptAnswer marks an answer as the question's solution (author only)
func AcceptAnswer(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.ScoringModel.AcceptAnswer(
		c.Param("id"), c.Param("answerId"), helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}

// UnacceptAnswer withdraws an acceptance and re-opens the question
func UnacceptAnswer(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.ScoringModel.UnacceptAnswer(
		c.Param("id"), c.Param("answerId"), helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
