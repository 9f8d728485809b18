package models

import (
	"context"
	"stackit-api/apperror"
	"stackit-api/helpers"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Answer is the "interface" used for client communication
type Answer struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id"`
	QuestionID  primitive.ObjectID   `json:"questionID" bson:"questionID"`
	CreatedTS   time.Time            `json:"createdTS" bson:"-"` // extracted from OID
	CreatedID   primitive.ObjectID   `json:"createdID" bson:"createdID"`
	CreatedName string               `json:"createdName" bson:"createdName"` // "Anonymous" when posted anonymously
	Content     string               `json:"content" bson:"content"`
	IsAnonymous bool                 `json:"isAnonymous" bson:"isAnonymous"`
	Upvoters    []primitive.ObjectID `json:"-" bson:"upvoters,omitempty"`
	Downvoters  []primitive.ObjectID `json:"-" bson:"downvoters,omitempty"`
	UpVotes     int32                `json:"upVotes" bson:"-"`
	DownVotes   int32                `json:"downVotes" bson:"-"`
	VoteCount   int32                `json:"voteCount" bson:"-"`
	UserVote    string               `json:"userVote,omitempty" bson:"-"`
	IsAccepted  bool                 `json:"isAccepted" bson:"isAccepted"`
	AcceptedTS  *time.Time           `json:"acceptedTS,omitempty" bson:"acceptedTS,omitempty"`
	AcceptedBy  primitive.ObjectID   `json:"acceptedBy,omitempty" bson:"acceptedBy,omitempty"`
	Comments    []Comment            `json:"comments,omitempty" bson:"comments,omitempty"`

	// guard so the Confidence Booster can never be granted twice through
	// accept/unaccept/accept cycles on the same answer
	BoosterAwarded bool `json:"-" bson:"boosterAwarded"`
}

// AnswerModel provides the logic to the interface and access to the database
type AnswerModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	// Gewisse Informationen kommen von anderen Models, die werden hier referenziert
	// somit muss das nicht der Controller machen
	GetUserNameOID      func(userID primitive.ObjectID) (string, error)
	AdjustAnswerCount   func(questionID primitive.ObjectID, delta int32) error
	ClearAcceptedAnswer func(questionID primitive.ObjectID, answerID primitive.ObjectID) error
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m AnswerModel) Validate(answer Answer) (*Answer, error) {

	cleaned := answer

	cleaned.Content = strings.TrimSpace(cleaned.Content)
	if cleaned.Content == "" {
		return nil, ErrAnswerContentMissing
	}

	return &cleaned, nil
}

// CreateAnswer adds a new answer - validated by controller;
// crediting points, streak and stats is the scoring model's job
func (m AnswerModel) CreateAnswer(answer *Answer) (string, error) {

	// set "system-fields"
	userName, err := m.GetUserNameOID(answer.CreatedID)
	if err != nil {
		return "", err
	}

	answer.ID = primitive.NewObjectID()
	answer.CreatedName = userName
	if answer.IsAnonymous {
		// the author's ID stays in the document (accept flow needs it),
		// the name is just not shown
		answer.CreatedName = "Anonymous"
	}
	answer.Upvoters = nil
	answer.Downvoters = nil
	answer.IsAccepted = false
	answer.AcceptedTS = nil
	answer.AcceptedBy = primitive.NilObjectID
	answer.Comments = nil
	answer.BoosterAwarded = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Collection.InsertOne(ctx, answer)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	// keep the question's counter & touch-stamp current
	err = m.AdjustAnswerCount(answer.QuestionID, 1)
	if err != nil {
		return "", err
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListAnswers returns all answers to a question, accepted one first
// userID is required to look-up the requesting user's votes
func (m AnswerModel) ListAnswers(questionID string, userID string) ([]Answer, error) {

	id, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	filter := bson.D{{Key: "questionID", Value: id}}

	sort := bson.D{
		{Key: "isAccepted", Value: -1},
		{Key: "_id", Value: 1},
	}

	opts := options.Find().SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var answers []Answer

	err = cursor.All(ctx, &answers)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if answers == nil {
		return nil, apperror.ErrNoData
	}

	for i := range answers {
		answers[i].CreatedTS = primitive.ObjectID.Timestamp(answers[i].ID)
		answers[i].UpVotes = int32(len(answers[i].Upvoters))
		answers[i].DownVotes = int32(len(answers[i].Downvoters))
		answers[i].VoteCount = answers[i].UpVotes - answers[i].DownVotes
		answers[i].UserVote = userVoteOf(answers[i].Upvoters, answers[i].Downvoters, userID)
		if answers[i].IsAnonymous {
			// never leak the author to other clients
			if userID == "" || answers[i].CreatedID.Hex() != userID {
				answers[i].CreatedID = primitive.NilObjectID
			}
		}
		for j := range answers[i].Comments {
			answers[i].Comments[j].CreatedTS = primitive.ObjectID.Timestamp(answers[i].Comments[j].ID)
		}
	}

	return answers, nil
}

// GetAnswer returns one answer (used by the accept & delete flows)
func (m AnswerModel) GetAnswer(answerID string) (*Answer, error) {

	id, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data := Answer{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data.CreatedTS = primitive.ObjectID.Timestamp(data.ID)
	data.UpVotes = int32(len(data.Upvoters))
	data.DownVotes = int32(len(data.Downvoters))
	data.VoteCount = data.UpVotes - data.DownVotes

	return &data, nil
}

// AddComment pushes a new comment - validated by controller
func (m AnswerModel) AddComment(answerID string, comment *Comment) (string, error) {

	id, err := primitive.ObjectIDFromHex(answerID)
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
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return "", apperror.ErrNoData
	}

	return comment.ID.Hex(), nil
}

// DeleteAnswer removes an answer; only the author may delete it unless
// force is set (admin). Cascades to the question's counter and, when the
// answer was the accepted one, re-opens the question.
func (m AnswerModel) DeleteAnswer(answerID string, userID primitive.ObjectID, force bool) error {

	answer, err := m.GetAnswer(answerID)
	if err != nil {
		return err
	}

	if !force && answer.CreatedID != userID {
		return apperror.ErrDenied
	}

	filter := bson.D{{Key: "_id", Value: answer.ID}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.DeletedCount == 0 {
		return apperror.ErrNoData // someone else was faster
	}

	err = m.AdjustAnswerCount(answer.QuestionID, -1)
	if err != nil {
		return err
	}

	if answer.IsAccepted {
		return m.ClearAcceptedAnswer(answer.QuestionID, answer.ID)
	}

	return nil
}
