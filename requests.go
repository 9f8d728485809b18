package main

import (
	"fmt"
	"os"
	"stackit-api/authentication"
	"stackit-api/controllers"
	"stackit-api/middleware"
)

func handleRequests() {
	router.Use(middleware.CORSMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// auth-related
	router.POST("/login", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/refresh", controllers.Refresh) // nicht prüfen, ob das at noch valide ist (keine Middleware)
	router.POST("/register", controllers.Register)

	router.POST("/user/exists", controllers.UserExists)
	router.POST("/email/exists", controllers.EMailExists)

	// user-mgmt
	router.GET("/users/:id", authentication.TokenAuthMiddleware(), controllers.GetUser)
	router.POST("/user/changePass", authentication.TokenAuthMiddleware(), controllers.ChangePassword)
	router.POST("/user/verifyPass", authentication.TokenAuthMiddleware(), controllers.VerifyPassword)

	// gamification read-paths (public)
	router.GET("/profiles/:id", controllers.GetProfile)
	router.GET("/leaderboard", controllers.Leaderboard)

	// questions
	// GET hat keinen BODY (Go/Gin & Postman unterstützen das zwar, Angular nicht) - deshalb Parameter
	router.GET("/questions", controllers.ListQuestions)
	router.GET("/questions/:id", controllers.GetQuestion)
	router.POST("/questions", authentication.TokenAuthMiddleware(), controllers.AddQuestion)
	router.POST("/questions/:id/comments", authentication.TokenAuthMiddleware(), controllers.AddQuestionComment)
	router.DELETE("/questions/:id/comments/:commentId", authentication.TokenAuthMiddleware(), controllers.RemoveQuestionComment)

	// answers
	router.GET("/questions/:id/answers", controllers.ListAnswers)
	router.POST("/questions/:id/answers", authentication.TokenAuthMiddleware(), controllers.AddAnswer)
	router.POST("/answers/:id/comments", authentication.TokenAuthMiddleware(), controllers.AddAnswerComment)
	router.DELETE("/answers/:id", authentication.TokenAuthMiddleware(), controllers.DeleteAnswer)

	// voting & acceptance (domain-singular/verb)
	router.POST("/vote", authentication.TokenAuthMiddleware(), controllers.CastVote)
	router.POST("/questions/:id/accept/:answerId", authentication.TokenAuthMiddleware(), controllers.AcceptAnswer)
	router.DELETE("/questions/:id/accept/:answerId", authentication.TokenAuthMiddleware(), controllers.UnacceptAnswer)

	// notifications
	router.GET("/notifications", authentication.TokenAuthMiddleware(), controllers.ListNotifications)
	router.GET("/notifications/unread", authentication.TokenAuthMiddleware(), controllers.CountUnreadNotifications)
	router.POST("/notifications/:id/read", authentication.TokenAuthMiddleware(), controllers.MarkNotificationRead)
	router.POST("/notifications/read", authentication.TokenAuthMiddleware(), controllers.MarkAllNotificationsRead)

	// statistics
	router.GET("/stats/visits", controllers.GetVisits) // visits since last 7 days "hot"
	router.GET("/stats/visitors", authentication.TokenAuthMiddleware(), controllers.ListVisitors)

	// system tools
	router.GET("/monitor/requests/count", authentication.TokenAuthMiddleware(), controllers.CountRequests)
	router.GET("/monitor/requests/dump", authentication.TokenAuthMiddleware(), controllers.DumpRequests)
	router.POST("/monitor/requests/flush", authentication.TokenAuthMiddleware(), controllers.FlushRequests)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV not set"))
	}
}
