package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in questions and answers
// (no separate collection - comment sections here are short and always
// read together with their parent)
type Comment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	CreatedTS   time.Time          `json:"createdTS" bson:"-"` // extracted from OID
	CreatedID   primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName string             `json:"createdName" bson:"createdName"`
	Comment     string             `json:"comment" bson:"comment"`
}

// ValidateComment checks given values (immutable)
func ValidateComment(comment Comment) (*Comment, error) {

	cleaned := comment

	// hier kann eine "Zensur-Func" aufgerufen werden
	cleaned.Comment = strings.TrimSpace(cleaned.Comment)

	if cleaned.Comment == "" {
		return nil, ErrCommentEmpty
	}

	return &cleaned, nil
}
