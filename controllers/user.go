package controllers

import (
	"net/http"
	"stackit-api/authentication"
	"stackit-api/environment"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetUser sends the own account data (protected route)
func GetUser(c *gin.Context) {

	// userID (currentUser) could be used to check a user's permission to view another profile
	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, err.Error())
		return
	}

	// fehlender parameter muss nicht geprüft werden, sonst wär's eine andere route
	user, err := environment.Env.UserModel.GetUserByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	// don't send password hash
	user.Password = ""

	c.JSON(http.StatusOK, &user)
}

// GetProfile sends the public gamification profile of any user
// {points, level, achievements, stats}
func GetProfile(c *gin.Context) {

	// track profile visits (de-duped by the request registry)
	userID, _ := authentication.Authenticate(c.Request)
	if environment.Env.Requests.Continue(c.ClientIP(), c.Param("id")) {
		environment.Env.Tracker.SaveVisitor("user", c.Param("id"), userID)
	}

	profile, err := environment.Env.UserModel.GetPublicProfile(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, &profile)
}

// Leaderboard sends the top users ranked by StackPoints
// http://localhost:3000/leaderboard?limit=10
func Leaderboard(c *gin.Context) {

	limit := int64(10)
	if l, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	board, err := environment.Env.UserModel.Leaderboard(limit)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// nothing found (not an error to the client)
	if board == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, board)
}
