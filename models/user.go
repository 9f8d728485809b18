package models

import (
	"context"
	"stackit-api/helpers"
	"stackit-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStats holds the counters maintained by the scoring model
// and by the content-creation flows
type UserStats struct {
	QuestionsAsked  int32      `json:"questionsAsked" bson:"questionsAsked"`
	AnswersGiven    int32      `json:"answersGiven" bson:"answersGiven"`
	AcceptedAnswers int32      `json:"acceptedAnswers" bson:"acceptedAnswers"`
	TotalUpvotes    int32      `json:"totalUpvotes" bson:"totalUpvotes"`
	TotalDownvotes  int32      `json:"totalDownvotes" bson:"totalDownvotes"`
	AnswerStreak    int32      `json:"answerStreak" bson:"answerStreak"`
	LastAnswerDate  *time.Time `json:"lastAnswerDate" bson:"lastAnswerDate,omitempty"`
	TotalViews      int64      `json:"totalViews" bson:"totalViews"`
}

// Preferences control optional platform behaviour per user
type Preferences struct {
	EMailNotifications bool `json:"eMailNotifications" bson:"eMailNotifications"`
	AllowAnonymous     bool `json:"allowAnonymous" bson:"allowAnonymous"`
}

// User is the "interface" used for client communication
type User struct {
	ID                      primitive.ObjectID `json:"id" bson:"_id"`
	LoginName               string             `json:"loginName" bson:"loginName"`
	Password                string             `json:"password" bson:"password"` // hash value
	RoleCode                int32              `json:"roleCode" bson:"roleCD"`
	RoleText                string             `json:"roleText" bson:"-"`
	EMailAddress            string             `json:"eMail" bson:"eMail"`
	Avatar                  string             `json:"avatar" bson:"avatar,omitempty"`
	Bio                     string             `json:"bio" bson:"bio,omitempty"`
	StackPoints             int32              `json:"stackPoints" bson:"stackPoints"`
	Level                   string             `json:"level" bson:"level"`
	Achievements            []Achievement      `json:"achievements" bson:"achievements,omitempty"`
	Stats                   UserStats          `json:"stats" bson:"stats"`
	ConfidenceBoosterBadges int32              `json:"confidenceBoosterBadges" bson:"confidenceBoosterBadges"`
	Preferences             Preferences        `json:"preferences" bson:"preferences"`
	LastSeenTS              time.Time          `json:"lastSeenTS" bson:"lastSeenTS,omitempty"`
}

// PublicProfile is the reduced structure served to other users
// (no credentials, no preferences)
type PublicProfile struct {
	ID                      primitive.ObjectID `json:"id"`
	LoginName               string             `json:"loginName"`
	Avatar                  string             `json:"avatar,omitempty"`
	Bio                     string             `json:"bio,omitempty"`
	StackPoints             int32              `json:"stackPoints"`
	Level                   string             `json:"level"`
	Achievements            []Achievement      `json:"achievements"`
	Stats                   UserStats          `json:"stats"`
	ConfidenceBoosterBadges int32              `json:"confidenceBoosterBadges"`
	JoinedTS                time.Time          `json:"joinedTS"`
}

// LeaderboardItem is the reduced structure used for the ranking list
type LeaderboardItem struct {
	ID          primitive.ObjectID `json:"id"`
	LoginName   string             `json:"loginName"`
	Avatar      string             `json:"avatar,omitempty"`
	StackPoints int32              `json:"stackPoints"`
	Level       string             `json:"level"`
}

// UserModel provides the logic to the interface and access to the database
type UserModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// UserExists checks if a User Name is available - used in client for in-type error checking
// (wrapper of internal helper function)
func (m UserModel) UserExists(userName string) bool {
	b, _ := userExists(m.Collection, userName)
	return b
}

// EMailAddressExists checks if an eMail-Address is already assigned with any User Name
// used in client for in-type error checking
func (m UserModel) EMailAddressExists(emailAddress string) bool {
	b, _ := eMailExists(m.Collection, emailAddress)
	return b
}

// CreateUser adds a new User with a fresh ledger (0 points, Beginner)
func (m UserModel) CreateUser(user User) (string, error) {

	var err error

	b, err := userExists(m.Collection, user.LoginName)
	if b || err != nil {
		return "", ErrUserNameNotAvailable
	}

	b, err = eMailExists(m.Collection, user.EMailAddress)
	if b || err != nil {
		return "", ErrEMailAddressTaken
	}

	pwdHash, err := helpers.GenerateHash(user.Password)
	if err != nil {
		return "", err
	}

	user.ID = primitive.NewObjectID()
	user.Password = pwdHash
	user.RoleCode = lookups.URmember
	user.StackPoints = 0
	user.Level = LevelForPoints(0)
	user.Achievements = nil
	user.Stats = UserStats{}
	user.ConfidenceBoosterBadges = 0
	user.Preferences = Preferences{EMailNotifications: true, AllowAnonymous: true}
	user.LastSeenTS = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Collection.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetUserByName reads a user's login account data
func (m UserModel) GetUserByName(userName string) (*User, error) {

	var err error
	var user User

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Collection.FindOne(ctx, bson.M{"loginName": userName}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		// pass any other real
		return nil, err
	}

	addLookups(&user)

	return &user, nil
}

// GetUserByID reads a user's login account data
func (m UserModel) GetUserByID(ID string) (*User, error) {

	var user User

	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return nil, ErrInvalidUser
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		// pass any other error
		return nil, err
	}

	addLookups(&user)

	return &user, nil
}

// GetUserName returns the login name from an ID (reduced version, without profile data)
func (m UserModel) GetUserName(ID string) (string, error) {

	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return "", ErrInvalidUser
	}

	return m.GetUserNameOID(id)
}

// GetUserNameOID is the ObjectID-flavour of GetUserName,
// injected into the other models so they need no user-model reference
func (m UserModel) GetUserNameOID(ID primitive.ObjectID) (string, error) {

	data := struct {
		LoginName string `bson:"loginName"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	fields := bson.D{
		{Key: "_id", Value: 0}, // _id kommt immer, ausser es wird explizit ausgeschlossen (0)
		{Key: "loginName", Value: 1}}

	err := m.Collection.FindOne(ctx, bson.M{"_id": ID}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrInvalidUser
		}
		// pass any other error
		return "", err
	}

	return data.LoginName, nil
}

// GetPublicProfile returns the gamification read-path of a user
// {points, level, achievements, stats} for profile pages
func (m UserModel) GetPublicProfile(ID string) (*PublicProfile, error) {

	user, err := m.GetUserByID(ID)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{
		ID:                      user.ID,
		LoginName:               user.LoginName,
		Avatar:                  user.Avatar,
		Bio:                     user.Bio,
		StackPoints:             user.StackPoints,
		Level:                   user.Level,
		Achievements:            user.Achievements,
		Stats:                   user.Stats,
		ConfidenceBoosterBadges: user.ConfidenceBoosterBadges,
		JoinedTS:                primitive.ObjectID.Timestamp(user.ID),
	}

	// clients expect an array, not null
	if profile.Achievements == nil {
		profile.Achievements = []Achievement{}
	}

	return profile, nil
}

// Leaderboard returns the top users ranked by StackPoints
func (m UserModel) Leaderboard(limit int64) ([]LeaderboardItem, error) {

	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "loginName", Value: 1},
		{Key: "avatar", Value: 1},
		{Key: "stackPoints", Value: 1},
		{Key: "level", Value: 1},
	}

	sort := bson.D{
		{Key: "stackPoints", Value: -1},
		{Key: "_id", Value: 1}, // stable order for equal points
	}

	opts := options.Find().SetProjection(fields).SetLimit(limit).SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	cursor, err := m.Collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var users []User

	err = cursor.All(ctx, &users)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var board []LeaderboardItem
	var item LeaderboardItem

	for _, u := range users {
		item.ID = u.ID
		item.LoginName = u.LoginName
		item.Avatar = u.Avatar
		item.StackPoints = u.StackPoints
		item.Level = u.Level

		board = append(board, item)
	}

	return board, nil
}

// CheckPassword tests if a login's password matches
// (kein DB-Zugriff nötig)
func (m UserModel) CheckPassword(givenPassword string, userInfo User) bool {
	match, err := helpers.CompareHash(userInfo.Password, givenPassword)
	if err != nil {
		return false
	}
	return match
}

// SetLastSeen saves timestamp of last log-in
func (m UserModel) SetLastSeen(userID primitive.ObjectID) {
	// no error is returned since this function is not essential

	filter := bson.D{{Key: "_id", Value: userID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "lastSeenTS", Value: time.Now()}}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// just fire & forget
	_, _ = m.Collection.UpdateOne(ctx, filter, update)
}

// SetPassword is used to change a User's password
func (m UserModel) SetPassword(userID primitive.ObjectID, newPassword string) error {

	pwdHash, err := helpers.GenerateHash(newPassword)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: "_id", Value: userID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: pwdHash}}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	result, err := m.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	// just an additional check to discover data consistency problems
	if result.MatchedCount != 1 || result.ModifiedCount != 1 {
		return ErrInvalidUser
	}

	return nil
}

// internal implementations that are used by multiple methods of the model and corresponding handlers
func userExists(collection *mongo.Collection, userName string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// there seems to be no function like "exists" so a projection on just the ID is used
	fields := bson.D{
		{Key: "_id", Value: 1}}

	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}

	err := collection.FindOne(ctx, bson.M{"loginName": userName}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		// treat errors as a "yes" - caller should not evaluate the result in case of an error
		return true, err
	}
	// no error means a document was found, hence the user does exist
	return true, nil
}

func eMailExists(collection *mongo.Collection, emailAddress string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	fields := bson.D{
		{Key: "_id", Value: 1}}

	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}

	err := collection.FindOne(ctx, bson.M{"eMail": emailAddress}, options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		// treat errors as a "yes" - caller should not evaluate the result in case of an error
		return true, err
	}
	return true, nil
}

// internal helpers
// actually that's not immutable, but ok here
func addLookups(user *User) *User {
	user.RoleText = lookups.UserRole(int(user.RoleCode))
	return user
}
