package models

import (
	"context"
	"stackit-api/apperror"
	"stackit-api/database"
	"stackit-api/helpers"
	"stackit-api/lookups"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Question is the "interface" used for client communication
type Question struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id"`
	MetaInfo         Header               `json:"metaInfo" bson:"metaInfo"`
	Title            string               `json:"title" bson:"title"`
	Content          string               `json:"content" bson:"content"`
	Tags             []string             `json:"tags" bson:"tags,omitempty"`
	CategoryCode     int32                `json:"categoryCode" bson:"categoryCD"`
	CategoryText     string               `json:"categoryText" bson:"-"`
	StatusCode       int32                `json:"statusCode" bson:"statusCD"`
	StatusText       string               `json:"statusText" bson:"-"`
	Upvoters         []primitive.ObjectID `json:"-" bson:"upvoters,omitempty"`
	Downvoters       []primitive.ObjectID `json:"-" bson:"downvoters,omitempty"`
	UpVotes          int32                `json:"upVotes" bson:"-"`
	DownVotes        int32                `json:"downVotes" bson:"-"`
	VoteCount        int32                `json:"voteCount" bson:"-"` // up minus down, may be negative
	UserVote         string               `json:"userVote,omitempty" bson:"-"`
	AnswerCount      int32                `json:"answerCount" bson:"answerCount"`
	AcceptedAnswerID primitive.ObjectID   `json:"acceptedAnswerID,omitempty" bson:"acceptedAnswerID,omitempty"`
	Comments         []Comment            `json:"comments,omitempty" bson:"comments,omitempty"`
}

// QuestionListItem is the reduced/simplified model used for listings
type QuestionListItem struct {
	ID           primitive.ObjectID `json:"id"`
	CreatedTS    time.Time          `json:"createdTS"`
	CreatedID    primitive.ObjectID `json:"createdID"`
	CreatedName  string             `json:"createdName"`
	Title        string             `json:"title"`
	Tags         []string           `json:"tags,omitempty"`
	CategoryCode int32              `json:"categoryCode"`
	CategoryText string             `json:"categoryText"`
	StatusCode   int32              `json:"statusCode"`
	StatusText   string             `json:"statusText"`
	VoteCount    int32              `json:"voteCount"`
	AnswerCount  int32              `json:"answerCount"`
	Answered     bool               `json:"answered"`
	Visits       int64              `json:"visits"`
}

// QuestionSearch is passed as the search params
type QuestionSearch struct {
	CategoryText string // client should pass readable text in URL rather than codes
	StatusText   string
	Tag          string
	SearchTerm   string
}

// QuestionModel provides the logic to the interface and access to the database
type QuestionModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	// Gewisse Informationen kommen vom User-Model, die werden hier referenziert
	// somit muss das nicht der Controller machen
	GetUserNameOID func(userID primitive.ObjectID) (string, error)
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m QuestionModel) Validate(question Question) (*Question, error) {

	cleaned := question

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrQuestionTitleMissing
	}

	cleaned.Content = strings.TrimSpace(cleaned.Content)
	if cleaned.Content == "" {
		return nil, ErrQuestionContentMissing
	}

	// drop empty tags, keep order
	var tags []string
	for _, t := range cleaned.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, strings.ToLower(t))
		}
	}
	cleaned.Tags = tags

	return &cleaned, nil
}

// CreateQuestion adds a new question - validated by controller;
// crediting points and stats is the scoring model's job (called next by the controller)
func (m QuestionModel) CreateQuestion(question *Question) (string, error) {

	// set "system-fields"
	userName, err := m.GetUserNameOID(question.MetaInfo.CreatedID)
	if err != nil {
		// fachlicher Fehler oder bereits wrapped
		return "", err
	}

	question.ID = primitive.NewObjectID()
	question.MetaInfo.CreatedName = userName
	question.MetaInfo.TouchedTS = time.Now()
	question.MetaInfo.RecVer = 0
	question.MetaInfo.Visits = 0
	question.StatusCode = lookups.QSopen
	question.Upvoters = nil
	question.Downvoters = nil
	question.AnswerCount = 0
	question.AcceptedAnswerID = primitive.NilObjectID
	question.Comments = nil

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Collection.InsertOne(ctx, question)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetQuestion returns one question; visit counting is handled by the
// analytics tracker (controller), not here
func (m QuestionModel) GetQuestion(questionID string, userID string) (*Question, error) {

	id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data := Question{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// add look-ups & derived fields
	data.MetaInfo.CreatedTS = primitive.ObjectID.Timestamp(data.ID)
	data.CategoryText = database.GetLookupText(lookups.LookupType(lookups.LTcategory), data.CategoryCode)
	data.StatusText = database.GetLookupText(lookups.LookupType(lookups.LTquestionStatus), data.StatusCode)
	data.UpVotes = int32(len(data.Upvoters))
	data.DownVotes = int32(len(data.Downvoters))
	data.VoteCount = data.UpVotes - data.DownVotes
	data.UserVote = userVoteOf(data.Upvoters, data.Downvoters, userID)

	for i := range data.Comments {
		data.Comments[i].CreatedTS = primitive.ObjectID.Timestamp(data.Comments[i].ID)
	}

	return &data, nil
}

// SearchQuestions lists or searches questions (ohne Comments)
func (m QuestionModel) SearchQuestions(searchSpecs *QuestionSearch) ([]QuestionListItem, error) {

	// use original struct to receive selected fields
	fields := bson.D{
		{Key: "_id", Value: 1}, // _id kommt immer, ausser es wird explizit ausgeschlossen (0)
		{Key: "metaInfo", Value: 1},
		{Key: "title", Value: 1},
		{Key: "tags", Value: 1},
		{Key: "categoryCD", Value: 1},
		{Key: "statusCD", Value: 1},
		{Key: "upvoters", Value: 1},
		{Key: "downvoters", Value: 1},
		{Key: "answerCount", Value: 1},
		{Key: "acceptedAnswerID", Value: 1},
	}

	sort := bson.D{
		{Key: "metaInfo.touchedTS", Value: -1},
	}

	opts := options.Find().SetProjection(fields).SetLimit(20).SetSort(sort)

	filter := bson.D{}

	if searchSpecs.CategoryText != "" {
		code, err := database.GetLookupValue(lookups.LookupType(lookups.LTcategory), searchSpecs.CategoryText)
		if err == nil {
			filter = append(filter, bson.E{Key: "categoryCD", Value: code})
		}
	}

	if searchSpecs.StatusText != "" {
		code, err := database.GetLookupValue(lookups.LookupType(lookups.LTquestionStatus), searchSpecs.StatusText)
		if err == nil {
			filter = append(filter, bson.E{Key: "statusCD", Value: code})
		}
	}

	if searchSpecs.Tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: strings.ToLower(searchSpecs.Tag)})
	}

	if searchSpecs.SearchTerm != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: primitive.Regex{Pattern: ".*" + searchSpecs.SearchTerm + ".*", Options: "i"}}}, // LIKE %searchTerm% (case-insensitive)
			bson.D{{Key: "content", Value: primitive.Regex{Pattern: ".*" + searchSpecs.SearchTerm + ".*", Options: "i"}}},
		}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var questions []Question

	err = cursor.All(ctx, &questions)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if questions == nil {
		return nil, apperror.ErrNoData
	}

	// copy data to reduced list-struct
	var questionList []QuestionListItem
	var item QuestionListItem

	for _, q := range questions {
		item.ID = q.ID
		item.CreatedTS = primitive.ObjectID.Timestamp(q.ID)
		item.CreatedID = q.MetaInfo.CreatedID
		item.CreatedName = q.MetaInfo.CreatedName
		item.Title = q.Title
		item.Tags = q.Tags
		item.CategoryCode = q.CategoryCode
		item.CategoryText = database.GetLookupText(lookups.LookupType(lookups.LTcategory), q.CategoryCode)
		item.StatusCode = q.StatusCode
		item.StatusText = database.GetLookupText(lookups.LookupType(lookups.LTquestionStatus), q.StatusCode)
		item.VoteCount = int32(len(q.Upvoters)) - int32(len(q.Downvoters))
		item.AnswerCount = q.AnswerCount
		item.Answered = (q.AcceptedAnswerID != primitive.NilObjectID)
		item.Visits = q.MetaInfo.Visits

		questionList = append(questionList, item)
	}

	return questionList, nil
}

// AddComment pushes a new comment - validated by controller
func (m QuestionModel) AddComment(questionID string, comment *Comment) (string, error) {

	id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return "", apperror.ErrNoData
	}

	userName, err := m.GetUserNameOID(comment.CreatedID)
	if err != nil {
		return "", err
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedName = userName

	filter := bson.D{{Key: "_id", Value: id}}
	fields := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: comment}}},
		{Key: "$set", Value: bson.D{{Key: "metaInfo.touchedTS", Value: time.Now()}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return "", apperror.ErrNoData // document might have been deleted
	}

	return comment.ID.Hex(), nil
}

// RemoveComment pulls a comment from the array; only the comment's author
// may remove it (admins handled by controller via credentials)
func (m QuestionModel) RemoveComment(questionID string, commentID string, userID primitive.ObjectID, force bool) error {

	id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return apperror.ErrNoData
	}

	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return apperror.ErrNoData
	}

	pull := bson.D{{Key: "_id", Value: cid}}
	if !force {
		pull = append(pull, bson.E{Key: "createdID", Value: userID})
	}

	filter := bson.D{{Key: "_id", Value: id}}
	fields := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "comments", Value: pull}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 || result.ModifiedCount == 0 {
		return apperror.ErrNoData // question or comment gone (or not the author)
	}

	return nil
}

// AdjustAnswerCount is injected into the answer model so creating or
// deleting an answer keeps the question's counter current
func (m QuestionModel) AdjustAnswerCount(questionID primitive.ObjectID, delta int32) error {

	filter := bson.D{{Key: "_id", Value: questionID}}
	fields := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "answerCount", Value: delta}}},
		{Key: "$set", Value: bson.D{{Key: "metaInfo.touchedTS", Value: time.Now()}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData // document might have been deleted
	}

	return nil
}

// ClearAcceptedAnswer resets the acceptance bookkeeping when the accepted
// answer is deleted; a no-op when the given answer was not the accepted one
func (m QuestionModel) ClearAcceptedAnswer(questionID primitive.ObjectID, answerID primitive.ObjectID) error {

	filter := bson.D{
		{Key: "_id", Value: questionID},
		{Key: "acceptedAnswerID", Value: answerID},
	}
	fields := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "acceptedAnswerID", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "statusCD", Value: lookups.QSopen}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// userVoteOf tells a client how the requesting user voted on a profile
// (empty when anonymous or not voted)
func userVoteOf(upvoters []primitive.ObjectID, downvoters []primitive.ObjectID, userID string) string {

	if userID == "" {
		return ""
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ""
	}

	for _, v := range upvoters {
		if v == id {
			return VoteUp
		}
	}
	for _, v := range downvoters {
		if v == id {
			return VoteDown
		}
	}

	return ""
}
