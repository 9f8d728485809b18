package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationConstructors(t *testing.T) {

	recipient := primitive.NewObjectID()
	related := primitive.NewObjectID()

	n := QuestionAnsweredNotification(recipient, "maria", "How do goroutines work?", related)
	assert.Equal(t, NotificationQuestionAnswered, n.Type)
	assert.Equal(t, recipient, n.UserID)
	assert.Equal(t, related, n.RelatedID)
	assert.Equal(t, `maria answered your question "How do goroutines work?"`, n.Message)

	n = AnswerAcceptedNotification(recipient, "How do goroutines work?", related)
	assert.Equal(t, NotificationAnswerAccepted, n.Type)
	assert.Equal(t, `Your answer to "How do goroutines work?" was accepted`, n.Message)

	n = AnswerUpvotedNotification(recipient, "maria", related)
	assert.Equal(t, NotificationAnswerUpvoted, n.Type)
	assert.Equal(t, "maria upvoted your answer", n.Message)

	n = QuestionUpvotedNotification(recipient, "maria", related)
	assert.Equal(t, NotificationQuestionUpvoted, n.Type)
	assert.Equal(t, "maria upvoted your question", n.Message)

	n = AchievementEarnedNotification(recipient, AchievementHelper)
	assert.Equal(t, NotificationAchievementEarned, n.Type)
	assert.Equal(t, `You earned the "Helper" achievement!`, n.Message)
	assert.Equal(t, primitive.NilObjectID, n.RelatedID)

	n = LevelUpNotification(recipient, LevelExpert)
	assert.Equal(t, NotificationLevelUp, n.Type)
	assert.Equal(t, "You reached level Expert!", n.Message)
}
