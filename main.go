package main

import (
	"fmt"
	"log"
	"stackit-api/authentication"
	"stackit-api/database"
	"stackit-api/environment"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// wird VOR der Programmausführung (main) gerufen
// die Reihenfolge der Package-Inits ist aber undefiniert!
func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Connect to main database here (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to JWT Store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to Analytics-DB (influxDB)
	err = database.OpenInfluxConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseInfluxConnection()

	// Initialize the Models
	environment.InitializeModels()

	// replicate visit counts from the analytics cache into MongoDB
	replTicker := time.NewTicker(1 * time.Hour)
	go func() {
		for range replTicker.C {
			environment.Env.Tracker.Replicate()
		}
	}()

	// expire stale entries in the request registry
	flushTicker := time.NewTicker(15 * time.Minute)
	go func() {
		for range flushTicker.C {
			environment.Env.Requests.Flush()
		}
	}()

	fmt.Println("StackIt-API running...")
	handleRequests()
}
