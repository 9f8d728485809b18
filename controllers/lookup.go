package controllers

import (
	"fmt"
	"net/http"
	"stackit-api/database"

	"github.com/gin-gonic/gin"
)

// ListLookups serves the code/text map (categories, statuses, roles)
func ListLookups(c *gin.Context) {
	lookups, err := database.GetLookups()
	if err != nil {
		fmt.Println(err)
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, lookups)
}
