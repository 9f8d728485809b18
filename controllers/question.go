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

// ListQuestions lists or searches questions
// http://localhost:3000/questions?category=Programming&status=open&tag=go&search=mongo
func ListQuestions(c *gin.Context) {

	searchSpecs := models.QuestionSearch{
		CategoryText: c.Query("category"),
		StatusText:   c.Query("status"),
		Tag:          c.Query("tag"),
		SearchTerm:   c.Query("search"),
	}

	questions, err := environment.Env.QuestionModel.SearchQuestions(&searchSpecs)
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

	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns one question (public route, optional login for the
// user's own vote marker)
func GetQuestion(c *gin.Context) {

	// anonymous visitors are fine here
	userID, _ := authentication.Authenticate(c.Request)

	question, err := environment.Env.QuestionModel.GetQuestion(c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// track the visit unless it's just a page refresh
	if environment.Env.Requests.Continue(c.ClientIP(), c.Param("id")) {
		environment.Env.Tracker.SaveVisitor("question", c.Param("id"), userID)
	}

	c.JSON(http.StatusOK, &question)
}

// AddQuestion creates a question and credits the author
func AddQuestion(c *gin.Context) {

	var (
		err      error
		data     models.Question
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
	question, err := environment.Env.QuestionModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// apply userID from token (username resolved in model)
	question.MetaInfo.CreatedID = helpers.ObjectID(userID)

	ID, err := environment.Env.QuestionModel.CreateQuestion(question)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// ledger: +5, stats, achievements
	err = environment.Env.ScoringModel.ScoreNewQuestion(question.MetaInfo.CreatedID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// AddQuestionComment appends a comment to a question
func AddQuestionComment(c *gin.Context) {

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

	ID, err := environment.Env.QuestionModel.AddComment(c.Param("id"), comment)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID})
}

// RemoveQuestionComment deletes a comment (author or admin)
func RemoveQuestionComment(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// admins may remove any comment
	credentials := environment.Env.Credentials.GetCredentials(helpers.ObjectID(userID))

	err = environment.Env.QuestionModel.RemoveComment(
		c.Param("id"), c.Param("commentId"), credentials.UserID, credentials.IsAdmin())
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
