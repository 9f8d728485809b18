package authorization

import (
	"context"
	"stackit-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Functions to check permissions
// without dependencies to the User Model

type Credentials struct {
	UserID    primitive.ObjectID
	LoginName string `bson:"loginName"`
	RoleCode  int32  `bson:"roleCD"`
	userCol   *mongo.Collection
}

// SetConnections is called in Env Model Initialization
func (c *Credentials) SetConnections(mongoCollections map[string]*mongo.Collection) {
	c.userCol = mongoCollections["users"]
}

// GetCredentials returns account infos to control permissions
// any error is considered an anonymous user (visitor)
func (c *Credentials) GetCredentials(userOID primitive.ObjectID) *Credentials {
	var credentials Credentials

	fields := bson.D{
		{Key: "_id", Value: 0}, // _id kommt immer, ausser es wird explizit ausgeschlossen (0)
		{Key: "loginName", Value: 1},
		{Key: "roleCD", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := c.userCol.FindOne(ctx, bson.M{"_id": userOID}, opts).Decode(&credentials)
	if err != nil {
		c.setDefaultProfile(&credentials)
	}
	credentials.UserID = userOID // not read again from DB ;-)

	return &credentials
}

// IsAdmin tells if the account carries the admin role
func (c *Credentials) IsAdmin() bool {
	return c.RoleCode == lookups.URadmin
}

// CanModify tells if the account may edit or delete an item
// (its creator or an admin)
func (c *Credentials) CanModify(ownerID primitive.ObjectID) bool {
	if c.IsAdmin() {
		return true
	}
	return c.UserID == ownerID && c.UserID != primitive.NilObjectID
}

// this is used as the error handler of GetCredentials
// any error of that function will be treated as an anonymous user, receiving the default credentials
func (c *Credentials) setDefaultProfile(credentials *Credentials) {
	credentials.UserID = primitive.NilObjectID
	credentials.RoleCode = lookups.URguest
}
