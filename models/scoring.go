package models

import (
	"context"
	"stackit-api/apperror"
	"stackit-api/helpers"
	"stackit-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// vote domains (the two content types carrying vote sets)
const (
	DomainQuestion = "question"
	DomainAnswer   = "answer"
)

// VoteRequest represents a single vote action as sent by a client
type VoteRequest struct {
	Domain    string             `json:"domain" binding:"required"`
	ProfileID primitive.ObjectID `json:"profileID" binding:"required"` // question or answer
	UserID    primitive.ObjectID `json:"-"`                            // actually required, read from token
	Kind      string             `json:"vote" binding:"required"`
}

// PointsChange reports what a credit operation did to a user's ledger
type PointsChange struct {
	OldPoints int32
	NewPoints int32
	OldLevel  string
	NewLevel  string
	LeveledUp bool
}

// ScoringModel coordinates every scoring event: votes, content credits,
// acceptance, achievements and the notifications they trigger.
// All writes are single-document updates; there is no multi-document
// transaction, so a crash between two steps leaves a small inconsistency
// window (the next event converges the counters again).
type ScoringModel struct {
	Client             *mongo.Client
	UserCollection     *mongo.Collection
	QuestionCollection *mongo.Collection
	AnswerCollection   *mongo.Collection
	// Gewisse Informationen kommen von anderen Models, die werden hier referenziert
	// somit muss das nicht der Controller machen
	GetUserNameOID func(userID primitive.ObjectID) (string, error)
	Notify         func(notification Notification) error // injected from notification model, called fire & forget
	TrackEvent     func(userID primitive.ObjectID, event string, points int32)
}

// projection targets used by the vote & accept flows
type votableDoc struct {
	ID         primitive.ObjectID   `bson:"_id"`
	CreatedID  primitive.ObjectID   `bson:"createdID"` // answers
	MetaInfo   Header               `bson:"metaInfo"`  // questions
	Title      string               `bson:"title"`
	Upvoters   []primitive.ObjectID `bson:"upvoters"`
	Downvoters []primitive.ObjectID `bson:"downvoters"`
}

type ledgerDoc struct {
	StackPoints int32  `bson:"stackPoints"`
	Level       string `bson:"level"`
}

// CastVote toggles a vote on a question or answer.
// Same kind again retracts, the opposite kind flips - the voter is member
// of at most one vote set at any time. Author credits follow the toggle
// symmetrically: a withdrawn upvote debits what it earned.
func (m ScoringModel) CastVote(vote VoteRequest) (*VoteOutcome, error) {

	if vote.Kind != VoteUp && vote.Kind != VoteDown {
		return nil, ErrInvalidVoteKind
	}

	collection, err := m.domainCollection(vote.Domain)
	if err != nil {
		return nil, err
	}

	target, err := m.readVotable(collection, vote.ProfileID)
	if err != nil {
		return nil, err
	}

	author := m.authorOf(vote.Domain, target)

	// reject before any mutation
	if author == vote.UserID {
		return nil, ErrSelfVote
	}

	inUp := containsID(target.Upvoters, vote.UserID)
	inDown := containsID(target.Downvoters, vote.UserID)

	outcome := voteTransition(inUp, inDown, vote.Kind)

	// express the toggle as ONE update so the sets stay mutually exclusive
	// even when the same user fires concurrent requests
	requested, opposite := "upvoters", "downvoters"
	if vote.Kind == VoteDown {
		requested, opposite = "downvoters", "upvoters"
	}

	var fields bson.D
	if outcome.Direction == VoteRetracted {
		fields = bson.D{
			{Key: "$pull", Value: bson.D{{Key: requested, Value: vote.UserID}}},
		}
	} else {
		fields = bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: requested, Value: vote.UserID}}},
			{Key: "$pull", Value: bson.D{{Key: opposite, Value: vote.UserID}}},
		}
	}

	filter := bson.D{{Key: "_id", Value: vote.ProfileID}}

	projection := bson.D{
		{Key: "upvoters", Value: 1},
		{Key: "downvoters", Value: 1},
	}

	opts := options.FindOneAndUpdate().
		SetProjection(projection).
		SetReturnDocument(options.After)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	updated := votableDoc{}
	err = collection.FindOneAndUpdate(ctx, filter, fields, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData // document might have been deleted
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	outcome.UpVotes = int32(len(updated.Upvoters))
	outcome.DownVotes = int32(len(updated.Downvoters))
	outcome.VoteCount = outcome.UpVotes - outcome.DownVotes

	// credit or debit the author for received upvotes
	if delta := outcome.CreditDelta(); delta != 0 {
		points := PointsQuestionUpvoted
		if vote.Domain == DomainAnswer {
			points = PointsAnswerUpvoted
		}

		_, err = m.CreditPoints(author, delta*points)
		if err != nil {
			return nil, err
		}

		m.adjustStat(author, "stats.totalUpvotes", delta)

		if m.TrackEvent != nil {
			m.TrackEvent(author, vote.Domain+"_vote", delta*points)
		}

		// a fresh upvote tells the author; retractions stay silent
		if delta > 0 && m.Notify != nil {
			actorName, nerr := m.GetUserNameOID(vote.UserID)
			if nerr == nil {
				var notification Notification
				if vote.Domain == DomainAnswer {
					notification = AnswerUpvotedNotification(author, actorName, vote.ProfileID)
				} else {
					notification = QuestionUpvotedNotification(author, actorName, vote.ProfileID)
				}
				// just fire & forget
				_ = m.Notify(notification)
			}
		}

		err = m.evaluateAndAward(author)
		if err != nil {
			return nil, err
		}
	}

	// keep the downvote counter current (no points attached to downvotes)
	if downDelta := downvoteDelta(outcome.Direction, vote.Kind); downDelta != 0 {
		m.adjustStat(author, "stats.totalDownvotes", downDelta)
	}

	return &outcome, nil
}

// CreditPoints is the single entry point for every StackPoints mutation.
// The pipeline update clamps the total at 0 and recomputes the level in the
// same atomic step, so level and points can never drift apart.
func (m ScoringModel) CreditPoints(userID primitive.ObjectID, amount int32) (*PointsChange, error) {

	levelSwitch := bson.D{
		{Key: "$switch", Value: bson.D{
			{Key: "branches", Value: bson.A{
				bson.D{{Key: "case", Value: bson.D{{Key: "$gte", Value: bson.A{"$stackPoints", 10000}}}}, {Key: "then", Value: LevelMaster}},
				bson.D{{Key: "case", Value: bson.D{{Key: "$gte", Value: bson.A{"$stackPoints", 5000}}}}, {Key: "then", Value: LevelExpert}},
				bson.D{{Key: "case", Value: bson.D{{Key: "$gte", Value: bson.A{"$stackPoints", 2000}}}}, {Key: "then", Value: LevelAdvanced}},
				bson.D{{Key: "case", Value: bson.D{{Key: "$gte", Value: bson.A{"$stackPoints", 500}}}}, {Key: "then", Value: LevelIntermediate}},
			}},
			{Key: "default", Value: LevelBeginner},
		}},
	}

	update := bson.A{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "stackPoints", Value: bson.D{
				{Key: "$max", Value: bson.A{0, bson.D{{Key: "$add", Value: bson.A{"$stackPoints", amount}}}}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "level", Value: levelSwitch},
		}}},
	}

	filter := bson.D{{Key: "_id", Value: userID}}

	projection := bson.D{
		{Key: "stackPoints", Value: 1},
		{Key: "level", Value: 1},
	}

	opts := options.FindOneAndUpdate().
		SetProjection(projection).
		SetReturnDocument(options.Before)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	before := ledgerDoc{}
	err := m.UserCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	newPoints, newLevel := applyPoints(before.StackPoints, amount)

	change := &PointsChange{
		OldPoints: before.StackPoints,
		NewPoints: newPoints,
		OldLevel:  LevelForPoints(before.StackPoints),
		NewLevel:  newLevel,
		LeveledUp: newLevel != LevelForPoints(before.StackPoints) && newPoints > before.StackPoints,
	}

	if change.LeveledUp && m.Notify != nil {
		// just fire & forget
		_ = m.Notify(LevelUpNotification(userID, change.NewLevel))
	}

	return change, nil
}

// ScoreNewQuestion credits the author of a fresh question
// (called by the controller right after QuestionModel.CreateQuestion)
func (m ScoringModel) ScoreNewQuestion(userID primitive.ObjectID) error {

	m.adjustStat(userID, "stats.questionsAsked", 1)

	_, err := m.CreditPoints(userID, PointsQuestionAsked)
	if err != nil {
		return err
	}

	if m.TrackEvent != nil {
		m.TrackEvent(userID, "question_asked", PointsQuestionAsked)
	}

	return m.evaluateAndAward(userID)
}

// ScoreNewAnswer credits the author of a fresh answer, maintains the
// consecutive-day streak and tells the question author
func (m ScoringModel) ScoreNewAnswer(answer *Answer) error {

	// streak is derived from the stored last answer date (UTC calendar days)
	streakFields := struct {
		Stats UserStats `bson:"stats"`
	}{}

	projection := bson.D{
		{Key: "stats", Value: 1},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.UserCollection.FindOne(ctx, bson.M{"_id": answer.CreatedID}, options.FindOne().SetProjection(projection)).Decode(&streakFields)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInvalidUser
		}
		return helpers.WrapError(err, helpers.FuncName())
	}

	now := time.Now()
	streak := nextAnswerStreak(streakFields.Stats.LastAnswerDate, now, streakFields.Stats.AnswerStreak)

	filter := bson.D{{Key: "_id", Value: answer.CreatedID}}
	fields := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "stats.answersGiven", Value: int32(1)}}},
		{Key: "$set", Value: bson.D{
			{Key: "stats.answerStreak", Value: streak},
			{Key: "stats.lastAnswerDate", Value: now},
		}},
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2() // nach 10 Sekunden abbrechen

	_, err = m.UserCollection.UpdateOne(ctx2, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	_, err = m.CreditPoints(answer.CreatedID, PointsAnswerGiven)
	if err != nil {
		return err
	}

	if m.TrackEvent != nil {
		m.TrackEvent(answer.CreatedID, "answer_given", PointsAnswerGiven)
	}

	// tell the question author (not when answering the own question)
	question, err := m.readVotable(m.QuestionCollection, answer.QuestionID)
	if err == nil && question.MetaInfo.CreatedID != answer.CreatedID && m.Notify != nil {
		actorName := answer.CreatedName // already "Anonymous" when flagged
		// just fire & forget
		_ = m.Notify(QuestionAnsweredNotification(question.MetaInfo.CreatedID, actorName, question.Title, answer.QuestionID))
	}

	return m.evaluateAndAward(answer.CreatedID)
}

// AcceptAnswer marks an answer as the question's solution.
// Only the question author may accept; at most one answer per question is
// accepted - accepting a second one silently demotes the first (its points
// are kept). Re-accepting the current answer is a no-op.
func (m ScoringModel) AcceptAnswer(questionID string, answerID string, callerID primitive.ObjectID) error {

	qid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return apperror.ErrNoData
	}

	aid, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return apperror.ErrNoData
	}

	question, err := m.readQuestionState(qid)
	if err != nil {
		return err
	}

	if question.CreatedID != callerID {
		return ErrNotQuestionAuthor
	}

	answer := Answer{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.AnswerCollection.FindOne(ctx, bson.M{"_id": aid}).Decode(&answer)
	if err != nil {
		return apperror.ErrNoData
	}

	if answer.QuestionID != qid {
		return ErrAnswerMismatch
	}

	if question.AcceptedAnswerID == aid {
		return nil // already the accepted one
	}

	// demote a previously accepted answer first (exclusivity);
	// earned points and badges are kept
	if question.AcceptedAnswerID != primitive.NilObjectID {
		err = m.clearAcceptance(question.AcceptedAnswerID)
		if err != nil {
			return err
		}
	}

	// mark the answer; the Before-document carries the booster guard
	now := time.Now()
	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "isAccepted", Value: true},
			{Key: "acceptedTS", Value: now},
			{Key: "acceptedBy", Value: callerID},
			{Key: "boosterAwarded", Value: answer.BoosterAwarded || answer.IsAnonymous},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2() // nach 10 Sekunden abbrechen

	before := Answer{}
	err = m.AnswerCollection.FindOneAndUpdate(ctx2, bson.M{"_id": aid}, fields, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperror.ErrNoData
		}
		return helpers.WrapError(err, helpers.FuncName())
	}

	// bookkeeping on the question
	qFields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "acceptedAnswerID", Value: aid},
			{Key: "statusCD", Value: lookups.QSanswered},
			{Key: "metaInfo.touchedTS", Value: now},
		}},
	}

	ctx3, cancel3 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel3() // nach 10 Sekunden abbrechen

	_, err = m.QuestionCollection.UpdateOne(ctx3, bson.M{"_id": qid}, qFields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	// credit the answer author
	m.adjustStat(answer.CreatedID, "stats.acceptedAnswers", 1)

	if answer.IsAnonymous && !before.BoosterAwarded {
		// guarded - an accept/unaccept/accept cycle grants this only once
		m.adjustStat(answer.CreatedID, "confidenceBoosterBadges", 1)
	}

	_, err = m.CreditPoints(answer.CreatedID, PointsAnswerAccepted)
	if err != nil {
		return err
	}

	if m.TrackEvent != nil {
		m.TrackEvent(answer.CreatedID, "answer_accepted", PointsAnswerAccepted)
	}

	if m.Notify != nil {
		// just fire & forget
		_ = m.Notify(AnswerAcceptedNotification(answer.CreatedID, question.Title, aid))
	}

	return m.evaluateAndAward(answer.CreatedID)
}

// UnacceptAnswer withdraws an acceptance and re-opens the question.
// Earned points, stats and achievements are deliberately NOT reversed.
func (m ScoringModel) UnacceptAnswer(questionID string, answerID string, callerID primitive.ObjectID) error {

	qid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return apperror.ErrNoData
	}

	aid, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return apperror.ErrNoData
	}

	question, err := m.readQuestionState(qid)
	if err != nil {
		return err
	}

	if question.CreatedID != callerID {
		return ErrNotQuestionAuthor
	}

	if question.AcceptedAnswerID != aid {
		return ErrAnswerMismatch
	}

	err = m.clearAcceptance(aid)
	if err != nil {
		return err
	}

	qFields := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "acceptedAnswerID", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "statusCD", Value: lookups.QSopen}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err = m.QuestionCollection.UpdateOne(ctx, bson.M{"_id": qid}, qFields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// internal implementations

func (m ScoringModel) domainCollection(domain string) (*mongo.Collection, error) {
	switch domain {
	case DomainQuestion:
		return m.QuestionCollection, nil
	case DomainAnswer:
		return m.AnswerCollection, nil
	default:
		return nil, apperror.ErrNoData
	}
}

func (m ScoringModel) authorOf(domain string, target *votableDoc) primitive.ObjectID {
	if domain == DomainQuestion {
		return target.MetaInfo.CreatedID
	}
	return target.CreatedID
}

func (m ScoringModel) readVotable(collection *mongo.Collection, ID primitive.ObjectID) (*votableDoc, error) {

	projection := bson.D{
		{Key: "createdID", Value: 1},
		{Key: "metaInfo.createdID", Value: 1},
		{Key: "title", Value: 1},
		{Key: "upvoters", Value: 1},
		{Key: "downvoters", Value: 1},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	data := votableDoc{}
	err := collection.FindOne(ctx, bson.M{"_id": ID}, options.FindOne().SetProjection(projection)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &data, nil
}

// readQuestionState loads the fields the accept flows need
func (m ScoringModel) readQuestionState(questionID primitive.ObjectID) (*struct {
	CreatedID        primitive.ObjectID
	Title            string
	AcceptedAnswerID primitive.ObjectID
}, error) {

	data := struct {
		MetaInfo         Header             `bson:"metaInfo"`
		Title            string             `bson:"title"`
		AcceptedAnswerID primitive.ObjectID `bson:"acceptedAnswerID"`
	}{}

	projection := bson.D{
		{Key: "metaInfo.createdID", Value: 1},
		{Key: "title", Value: 1},
		{Key: "acceptedAnswerID", Value: 1},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.QuestionCollection.FindOne(ctx, bson.M{"_id": questionID}, options.FindOne().SetProjection(projection)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &struct {
		CreatedID        primitive.ObjectID
		Title            string
		AcceptedAnswerID primitive.ObjectID
	}{data.MetaInfo.CreatedID, data.Title, data.AcceptedAnswerID}, nil
}

func (m ScoringModel) clearAcceptance(answerID primitive.ObjectID) error {

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "isAccepted", Value: false}}},
		{Key: "$unset", Value: bson.D{
			{Key: "acceptedTS", Value: ""},
			{Key: "acceptedBy", Value: ""},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err := m.AnswerCollection.UpdateOne(ctx, bson.M{"_id": answerID}, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// adjustStat bumps a counter on the user document
// no error is returned since the counters are not essential
func (m ScoringModel) adjustStat(userID primitive.ObjectID, field string, delta int32) {

	filter := bson.D{{Key: "_id", Value: userID}}
	fields := bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: delta}}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// just fire & forget
	_, _ = m.UserCollection.UpdateOne(ctx, filter, fields)
}

// evaluateAndAward re-runs the rule table against the user's current stats
// and appends (and announces) whatever is newly earned
func (m ScoringModel) evaluateAndAward(userID primitive.ObjectID) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	user := User{}
	err := m.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInvalidUser
		}
		return helpers.WrapError(err, helpers.FuncName())
	}

	newlyEarned := EvaluateAchievements(&user)
	if len(newlyEarned) == 0 {
		return nil
	}

	filter := bson.D{{Key: "_id", Value: userID}}
	fields := bson.D{
		{Key: "$push", Value: bson.D{
			{Key: "achievements", Value: bson.D{
				{Key: "$each", Value: newlyEarned},
			}},
		}},
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2() // nach 10 Sekunden abbrechen

	_, err = m.UserCollection.UpdateOne(ctx2, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if m.Notify != nil {
		for _, a := range newlyEarned {
			// just fire & forget
			_ = m.Notify(AchievementEarnedNotification(userID, a.Name))
		}
	}

	return nil
}

// downvoteDelta mirrors CreditDelta for the received-downvotes counter
func downvoteDelta(direction string, voteKind string) int32 {
	switch voteKind {
	case VoteDown:
		switch direction {
		case VoteAdded, VoteFlipped:
			return 1
		case VoteRetracted:
			return -1
		}
	case VoteUp:
		if direction == VoteFlipped {
			return -1
		}
	}
	return 0
}

// containsID reports membership of an ObjectID in a vote set
func containsID(set []primitive.ObjectID, ID primitive.ObjectID) bool {
	for _, v := range set {
		if v == ID {
			return true
		}
	}
	return false
}
