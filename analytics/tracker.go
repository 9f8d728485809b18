package analytics

import (
	"context"
	"fmt"
	"os"
	"sort"
	"stackit-api/client"
	"stackit-api/database"
	"stackit-api/helpers"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tracker collects visit and scoring events in the analytics cache
// (InfluxDB) and periodically replicates aggregates into MongoDB
type Tracker struct {
	influxClient influxdb2.Client
	VisitorAPI   database.InfluxAPI
	ScoreAPI     database.InfluxAPI
	collections  map[string]*mongo.Collection
	GetUserName  func(ID string) (string, error)
	Requests     *client.Registry
}

// Visit is served to creators viewing their content's audience
type Visit struct {
	VisitTS  time.Time `json:"visitTS"`
	ObjectID string    `json:"-"`
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(influxClient *influxdb2.Client, mongoCollections map[string]*mongo.Collection) {
	t.influxClient = *influxClient
	t.collections = mongoCollections
}

// SaveVisitor stores event data in the analytics cache
// page refreshes are de-duped via the request registry (controller's job)
func (t *Tracker) SaveVisitor(domain string, profileID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// include object type (domain) in key name,
	// so this information can be "wrapped" in aggregation queries

	// the risk of high series cardinality is accepted, since profiles is what we're interested in
	// https://docs.influxdata.com/influxdb/v2.0/write-data/best-practices/resolve-high-cardinality/

	p := influxdb2.NewPoint(
		"visit",
		map[string]string{"profileId": domain + "_" + profileID},
		map[string]interface{}{"userId": userID},
		time.Now())

	// ToDo: log Error
	_ = t.VisitorAPI.WriteAPI.WritePoint(context.Background(), p)
}

// SaveScoreEvent stores a scoring event (vote, credit, accept) so point
// flows can be charted over time; injected into the scoring model
func (t *Tracker) SaveScoreEvent(userID primitive.ObjectID, event string, points int32) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	p := influxdb2.NewPoint(
		"score",
		map[string]string{"userId": userID.Hex()},
		map[string]interface{}{"event": event, "points": int64(points)},
		time.Now())

	// ToDo: log Error
	_ = t.ScoreAPI.WriteAPI.WritePoint(context.Background(), p)
}

// GetVisits counts the number of visits of a profile
// the value is "live" - meaning it's read from the analytics cache (influxDB)
// which is set to a maximum period (TTL) of 30 days
// creators and admins may receive the total counts which is added by the MongoDB information
func (t *Tracker) GetVisits(domain string, profileID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and r["profileId"] == "%s")
		|> count()
		|> yield(name: "count")`

	id := domain + "_" + profileID
	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339),
		id)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// nur 1 record
	var res interface{}
	for result.Next() {
		res = result.Record().Value()
	}

	var cnt int64 = 0
	if res != nil {
		cnt = res.(int64)
	}

	return cnt, nil
}

// ListVisitors returns the 10 most recent visitors of a profile
// (only the last visit per user)
func (t *Tracker) ListVisitors(profileID string, startDT time.Time) ([]Visit, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return nil, nil
	}

	flux := `import "strings"
		from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and strings.containsStr(substr: "%s", v: r.profileId))
		|> group(columns: ["_value"], mode:"by")
		|> max(column: "_time")
		|> sort(columns: ["_time"], desc: true)
		|> limit(n:10, offset: 0)`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339), // 2021-04-01T00:00:00Z
		profileID)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var visit Visit
	var visits []Visit
	for result.Next() {
		visit.VisitTS = result.Record().Time()
		visit.ObjectID = profileID
		if result.Record().Value() == nil {
			visit.UserID = ""
			visit.UserName = ""
		} else {
			visit.UserID = result.Record().Value().(string)
			visit.UserName, _ = t.GetUserName(visit.UserID)
		}

		visits = append(visits, visit)
	}

	// das flux query ist zumindest im GUI richtig sortiert, das slice kommt aber anders daher
	sort.Slice(visits, func(i, j int) bool {
		return visits[j].VisitTS.Before(visits[i].VisitTS)
	})

	return visits, nil
}

// Replicate moves the visits from the cache (InfluxDB) into the database (Mongo)
// usually called by a GO-routine that runs in a ticker
func (t *Tracker) Replicate() {

	ctx := context.Background()

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Now().UTC().Location()) // just start somewhere as the minimum date
	stop := time.Now().AddDate(0, -1, 0)                                    // move everything older than one month

	// 1. get counts from influxDB
	flux := `from(bucket: "%s")
	|> range(start: %s, stop: %s) // use pre-calculated stop because delete-api needs time
	|> filter(fn: (r) => r["_measurement"] == "visit")
	|> count()
	|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		start.Format(time.RFC3339),
		stop.Format(time.RFC3339))

	result, err := t.VisitorAPI.QueryAPI.Query(ctx, flux)
	if err != nil {
		// ToDO: Log Error
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	// 2. save counts to MongoDB (bulk)
	// create a write model for each collection
	opModels := make(map[string][]mongo.WriteModel)

	var strs []string // used to "extract" object type from key
	for result.Next() {

		strs = strings.Split(result.Record().ValueByKey("profileId").(string), "_")

		var operation bson.D
		switch strs[0] {
		case "question":
			operation = bson.D{
				{Key: "$inc", Value: bson.D{
					{Key: "metaInfo.visits", Value: result.Record().Value()},
				}},
			}
		case "user":
			operation = bson.D{
				{Key: "$inc", Value: bson.D{
					{Key: "stats.totalViews", Value: result.Record().Value()},
				}},
			}
		default:
			// ToDo: Log
			fmt.Println("ERROR: repl not correctly implemented")
			continue
		}

		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.D{{Key: "_id", Value: helpers.ObjectID(strs[1])}}).SetUpdate(operation)

		// die objekt-typen (domains) aus der influxDB auf collections der mongoDB mappen
		switch strs[0] {
		case "question":
			opModels["questions"] = append(opModels["questions"], opModel)
		case "user":
			opModels["users"] = append(opModels["users"], opModel)
		}
	}

	// len returns int, mongoDB's matchCount int64
	// to avoid all the conversions, two variables are used for actually the same thing
	var i int = 0
	for _, v := range opModels {
		i += len(v)
	}

	// abort if no data to process
	if i == 0 {
		fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), 0)
		return
	}

	opts := options.BulkWrite().SetOrdered(false)

	var cnt int64 = 0 // total replicated profile's visits

	// process each collection's write models (= update operations)
	for k, v := range opModels {
		if v != nil {
			res, err := t.collections[k].BulkWrite(ctx, v, opts)
			if err != nil {
				// ToDO: Log Error
				fmt.Println(helpers.WrapError(err, helpers.FuncName()))
				continue
			}
			cnt += res.MatchedCount
		}
	}

	fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), cnt)

	// 3. delete transfered data from influxDB
	err = t.VisitorAPI.DeleteAPI.DeleteWithName(ctx, os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_VISITORS_BUCKET"), start, stop, "")
	if err != nil {
		// ToDo: Log "real" (severe) error
		fmt.Println("ERROR: could not delete data in influxDB that was already written to MongoDB => duplicated/high values")
		return
	}
}
