package models

import (
	"context"
	"fmt"
	"stackit-api/apperror"
	"stackit-api/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notification types as stored and served to clients
const (
	NotificationQuestionAnswered  = "question_answered"
	NotificationAnswerAccepted    = "answer_accepted"
	NotificationAnswerUpvoted     = "answer_upvoted"
	NotificationQuestionUpvoted   = "question_upvoted"
	NotificationAchievementEarned = "achievement_earned"
	NotificationLevelUp           = "level_up"
)

// Notification is the "interface" used for client communication
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"-" bson:"userID"` // recipient
	Type      string             `json:"type" bson:"type"`
	Message   string             `json:"message" bson:"message"`
	RelatedID primitive.ObjectID `json:"relatedID,omitempty" bson:"relatedID,omitempty"` // question or answer
	Read      bool               `json:"read" bson:"read"`
	CreatedTS time.Time          `json:"createdTS" bson:"-"` // extracted from OID
}

// typed constructors so message wording is never scattered across handlers

// QuestionAnsweredNotification informs the question author about a new answer
func QuestionAnsweredNotification(recipient primitive.ObjectID, actorName string, questionTitle string, questionID primitive.ObjectID) Notification {
	return Notification{
		UserID:    recipient,
		Type:      NotificationQuestionAnswered,
		Message:   fmt.Sprintf("%s answered your question \"%s\"", actorName, questionTitle),
		RelatedID: questionID,
	}
}

// AnswerAcceptedNotification informs the answer author about the acceptance
func AnswerAcceptedNotification(recipient primitive.ObjectID, questionTitle string, answerID primitive.ObjectID) Notification {
	return Notification{
		UserID:    recipient,
		Type:      NotificationAnswerAccepted,
		Message:   fmt.Sprintf("Your answer to \"%s\" was accepted", questionTitle),
		RelatedID: answerID,
	}
}

// AnswerUpvotedNotification informs the answer author about a new upvote
func AnswerUpvotedNotification(recipient primitive.ObjectID, actorName string, answerID primitive.ObjectID) Notification {
	return Notification{
		UserID:    recipient,
		Type:      NotificationAnswerUpvoted,
		Message:   fmt.Sprintf("%s upvoted your answer", actorName),
		RelatedID: answerID,
	}
}

// QuestionUpvotedNotification informs the question author about a new upvote
func QuestionUpvotedNotification(recipient primitive.ObjectID, actorName string, questionID primitive.ObjectID) Notification {
	return Notification{
		UserID:    recipient,
		Type:      NotificationQuestionUpvoted,
		Message:   fmt.Sprintf("%s upvoted your question", actorName),
		RelatedID: questionID,
	}
}

// AchievementEarnedNotification congratulates on a new achievement
func AchievementEarnedNotification(recipient primitive.ObjectID, achievementName string) Notification {
	return Notification{
		UserID:  recipient,
		Type:    NotificationAchievementEarned,
		Message: fmt.Sprintf("You earned the \"%s\" achievement!", achievementName),
	}
}

// LevelUpNotification congratulates on reaching a new level
func LevelUpNotification(recipient primitive.ObjectID, level string) Notification {
	return Notification{
		UserID:  recipient,
		Type:    NotificationLevelUp,
		Message: fmt.Sprintf("You reached level %s!", level),
	}
}

// NotificationModel provides the logic to the interface and access to the database
type NotificationModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// Create stores a notification; injected into the scoring model which
// calls it best-effort (failures never abort the scoring event)
func (m NotificationModel) Create(notification Notification) error {

	notification.ID = primitive.NewObjectID()
	notification.Read = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err := m.Collection.InsertOne(ctx, notification)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// ListNotifications returns the recipient's inbox, newest first (limited)
func (m NotificationModel) ListNotifications(userID primitive.ObjectID) ([]Notification, error) {

	filter := bson.D{{Key: "userID", Value: userID}}

	sort := bson.D{{Key: "_id", Value: -1}}

	opts := options.Find().SetLimit(50).SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var notifications []Notification

	err = cursor.All(ctx, &notifications)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if notifications == nil {
		return nil, apperror.ErrNoData
	}

	for i := range notifications {
		notifications[i].CreatedTS = primitive.ObjectID.Timestamp(notifications[i].ID)
	}

	return notifications, nil
}

// UnreadCount serves the client's badge counter
func (m NotificationModel) UnreadCount(userID primitive.ObjectID) (int64, error) {

	filter := bson.D{
		{Key: "userID", Value: userID},
		{Key: "read", Value: false},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	count, err := m.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	return count, nil
}

// MarkRead flags one notification; the recipient filter makes sure
// nobody can touch another user's inbox
func (m NotificationModel) MarkRead(notificationID string, userID primitive.ObjectID) error {

	id, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return apperror.ErrNoData
	}

	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "userID", Value: userID},
	}
	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "read", Value: true}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// MarkAllRead flags the recipient's entire inbox
func (m NotificationModel) MarkAllRead(userID primitive.ObjectID) error {

	filter := bson.D{
		{Key: "userID", Value: userID},
		{Key: "read", Value: false},
	}
	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "read", Value: true}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err := m.Collection.UpdateMany(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}
