package environment

import (
	"os"
	"stackit-api/analytics"
	"stackit-api/authorization"
	"stackit-api/client"
	"stackit-api/database"
	"stackit-api/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Requests          *client.Registry
	Tracker           *analytics.Tracker
	Credentials       *authorization.Credentials
	UserModel         models.UserModel
	QuestionModel     models.QuestionModel
	AnswerModel       models.AnswerModel
	NotificationModel models.NotificationModel
	ScoringModel      models.ScoringModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	collections := map[string]*mongo.Collection{
		"users":         db.Collection("users"),
		"questions":     db.Collection("questions"),
		"answers":       db.Collection("answers"),
		"notifications": db.Collection("notifications"),
	}

	// client request registry (page-refresh de-duping, monitor endpoints)
	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	// prepare analytics gathering (profile visits, score events)
	// always create the object so no further checking is needed in the models
	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(database.GetInfluxConnection(), collections)
	env.Tracker.Requests = env.Requests
	influxClient := *database.GetInfluxConnection()
	env.Tracker.VisitorAPI = database.InfluxAPI{
		WriteAPI:  influxClient.WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_VISITORS_BUCKET")),
		QueryAPI:  influxClient.QueryAPI(os.Getenv("ANALYTICS_ORG")),
		DeleteAPI: influxClient.DeleteAPI(),
	}
	env.Tracker.ScoreAPI = database.InfluxAPI{
		WriteAPI:  influxClient.WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_SCORES_BUCKET")),
		QueryAPI:  influxClient.QueryAPI(os.Getenv("ANALYTICS_ORG")),
		DeleteAPI: influxClient.DeleteAPI(),
	}

	// permission look-ups without a user-model dependency
	env.Credentials = new(authorization.Credentials)
	env.Credentials.SetConnections(collections)

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = collections["users"]

	// inject user model function to analytics tracker after its initialization
	env.Tracker.GetUserName = env.UserModel.GetUserName

	env.QuestionModel.Client = mongoClient
	env.QuestionModel.Collection = collections["questions"]
	// Funktionen aus dem User Model in's Question Model "injecten"
	env.QuestionModel.GetUserNameOID = env.UserModel.GetUserNameOID

	env.AnswerModel.Client = mongoClient
	env.AnswerModel.Collection = collections["answers"]
	env.AnswerModel.GetUserNameOID = env.UserModel.GetUserNameOID
	env.AnswerModel.AdjustAnswerCount = env.QuestionModel.AdjustAnswerCount
	env.AnswerModel.ClearAcceptedAnswer = env.QuestionModel.ClearAcceptedAnswer

	env.NotificationModel.Client = mongoClient
	env.NotificationModel.Collection = collections["notifications"]

	// the scoring coordinator spans users, questions and answers
	env.ScoringModel.Client = mongoClient
	env.ScoringModel.UserCollection = collections["users"]
	env.ScoringModel.QuestionCollection = collections["questions"]
	env.ScoringModel.AnswerCollection = collections["answers"]
	env.ScoringModel.GetUserNameOID = env.UserModel.GetUserNameOID
	env.ScoringModel.Notify = env.NotificationModel.Create
	env.ScoringModel.TrackEvent = env.Tracker.SaveScoreEvent

	return env
}

// Env is the singleton registry
var Env *Environment

// InitializeModels injects the database connections to the models
// (do not confuse with package init)
func InitializeModels() {
	Env = newEnv(database.GetConnection())
}
