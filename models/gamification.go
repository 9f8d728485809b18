package models

import "time"

// StackPoints awarded per contribution
// (kept in one place so the values are never scattered across handlers)
const (
	PointsQuestionAsked   int32 = 5
	PointsAnswerGiven     int32 = 10
	PointsQuestionUpvoted int32 = 2
	PointsAnswerUpvoted   int32 = 5
	PointsAnswerAccepted  int32 = 15
)

// user levels, derived from StackPoints only
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
	LevelMaster       = "Master"
)

// vote actions as sent by clients
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// results of a vote toggle
const (
	VoteAdded     = "added"
	VoteRetracted = "retracted"
	VoteFlipped   = "flipped"
)

// VoteOutcome describes what a vote toggle did to a profile's vote sets.
// creditDelta is internal bookkeeping: +1 when an upvote landed, -1 when an
// earlier upvote was withdrawn (retracted or flipped to a downvote), 0 else.
type VoteOutcome struct {
	Changed     bool   `json:"changed"`
	Direction   string `json:"direction"`
	UpVotes     int32  `json:"upVotes"`
	DownVotes   int32  `json:"downVotes"`
	VoteCount   int32  `json:"voteCount"`
	creditDelta int32
}

// CreditDelta exposes the upvote bookkeeping to the scoring coordinator
func (vo VoteOutcome) CreditDelta() int32 {
	return vo.creditDelta
}

// LevelForPoints derives the user level from a StackPoints total.
// Evaluated high-to-low; anything below the first threshold (including
// negative input) is Beginner.
func LevelForPoints(points int32) string {
	switch {
	case points >= 10000:
		return LevelMaster
	case points >= 5000:
		return LevelExpert
	case points >= 2000:
		return LevelAdvanced
	case points >= 500:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// voteTransition computes the toggle semantics from the voter's current
// membership in the two vote sets. Pure function, no database access -
// the actual set mutation is issued by the scoring model in a single
// atomic update so the mutual-exclusion invariant can never break.
func voteTransition(inUpvoters bool, inDownvoters bool, voteKind string) VoteOutcome {
	outcome := VoteOutcome{Changed: true}

	switch voteKind {
	case VoteUp:
		switch {
		case inUpvoters:
			outcome.Direction = VoteRetracted
			outcome.creditDelta = -1
		case inDownvoters:
			outcome.Direction = VoteFlipped
			outcome.creditDelta = +1
		default:
			outcome.Direction = VoteAdded
			outcome.creditDelta = +1
		}
	case VoteDown:
		switch {
		case inDownvoters:
			outcome.Direction = VoteRetracted
		case inUpvoters:
			// the earlier upvote is withdrawn by the flip
			outcome.Direction = VoteFlipped
			outcome.creditDelta = -1
		default:
			outcome.Direction = VoteAdded
		}
	default:
		outcome.Changed = false
	}

	return outcome
}

// applyPoints adds an amount (possibly negative) to a user's StackPoints,
// clamped at 0, and recomputes the level in the same step. Every point
// mutation in the system funnels through this function or its database
// twin in the scoring model - the level is never set independently.
func applyPoints(points int32, amount int32) (newPoints int32, newLevel string) {
	newPoints = points + amount
	if newPoints < 0 {
		newPoints = 0
	}
	return newPoints, LevelForPoints(newPoints)
}

// nextAnswerStreak computes the consecutive-day answer streak.
// Calendar days are compared in UTC: an answer on the very next day
// extends the streak, a gap resets it to 1, a second answer on the same
// day leaves it unchanged.
func nextAnswerStreak(lastAnswer *time.Time, now time.Time, current int32) int32 {
	if lastAnswer == nil {
		return 1
	}

	prev := lastAnswer.UTC()
	cur := now.UTC()

	prevDay := time.Date(prev.Year(), prev.Month(), prev.Day(), 0, 0, 0, 0, time.UTC)
	curDay := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.UTC)

	diffDays := int(curDay.Sub(prevDay).Hours() / 24)

	switch {
	case diffDays == 0:
		return current
	case diffDays == 1:
		if current < 1 {
			return 2 // streak was never initialized but an answer exists
		}
		return current + 1
	default:
		return 1
	}
}
