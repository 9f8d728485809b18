package controllers

import (
	"net/http"
	"stackit-api/apperror"
	"stackit-api/authentication"
	"stackit-api/environment"
	"stackit-api/helpers"

	"github.com/gin-gonic/gin"
)

// ListNotifications sends the user's inbox, newest first
func ListNotifications(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	notifications, err := environment.Env.NotificationModel.ListNotifications(helpers.ObjectID(userID))
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

	c.JSON(http.StatusOK, notifications)
}

// CountUnreadNotifications serves the client's badge counter
func CountUnreadNotifications(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	count, err := environment.Env.NotificationModel.UnreadCount(helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// wrap response into an object
	res := struct {
		Unread int64 `json:"unread"`
	}{count}

	c.JSON(http.StatusOK, res)
}

// MarkNotificationRead flags one notification as read
func MarkNotificationRead(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.NotificationModel.MarkRead(c.Param("id"), helpers.ObjectID(userID))
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

// MarkAllNotificationsRead flags the entire inbox as read
func MarkAllNotificationsRead(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.NotificationModel.MarkAllRead(helpers.ObjectID(userID))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusOK)
}
