package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {

	tests := []struct {
		name   string
		points int32
		want   string
	}{
		{name: "negative clamps to beginner", points: -50, want: LevelBeginner},
		{name: "zero", points: 0, want: LevelBeginner},
		{name: "just below intermediate", points: 499, want: LevelBeginner},
		{name: "intermediate threshold", points: 500, want: LevelIntermediate},
		{name: "just below advanced", points: 1999, want: LevelIntermediate},
		{name: "advanced threshold", points: 2000, want: LevelAdvanced},
		{name: "just below expert", points: 4999, want: LevelAdvanced},
		{name: "expert threshold", points: 5000, want: LevelExpert},
		{name: "just below master", points: 9999, want: LevelExpert},
		{name: "master threshold", points: 10000, want: LevelMaster},
		{name: "far beyond master", points: 123456, want: LevelMaster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForPoints(tt.points))
		})
	}
}

func TestVoteTransitionUpvote(t *testing.T) {

	// fresh upvote
	outcome := voteTransition(false, false, VoteUp)
	assert.True(t, outcome.Changed)
	assert.Equal(t, VoteAdded, outcome.Direction)
	assert.Equal(t, int32(1), outcome.CreditDelta())

	// same kind again retracts and debits
	outcome = voteTransition(true, false, VoteUp)
	assert.Equal(t, VoteRetracted, outcome.Direction)
	assert.Equal(t, int32(-1), outcome.CreditDelta())

	// flip from downvote earns the credit
	outcome = voteTransition(false, true, VoteUp)
	assert.Equal(t, VoteFlipped, outcome.Direction)
	assert.Equal(t, int32(1), outcome.CreditDelta())
}

func TestVoteTransitionDownvote(t *testing.T) {

	// fresh downvote carries no points
	outcome := voteTransition(false, false, VoteDown)
	assert.True(t, outcome.Changed)
	assert.Equal(t, VoteAdded, outcome.Direction)
	assert.Equal(t, int32(0), outcome.CreditDelta())

	// retraction of a downvote carries no points either
	outcome = voteTransition(false, true, VoteDown)
	assert.Equal(t, VoteRetracted, outcome.Direction)
	assert.Equal(t, int32(0), outcome.CreditDelta())

	// flip from upvote withdraws the earlier credit
	outcome = voteTransition(true, false, VoteDown)
	assert.Equal(t, VoteFlipped, outcome.Direction)
	assert.Equal(t, int32(-1), outcome.CreditDelta())
}

func TestVoteTransitionInvalidKind(t *testing.T) {
	outcome := voteTransition(false, false, "sideways")
	assert.False(t, outcome.Changed)
	assert.Equal(t, int32(0), outcome.CreditDelta())
}

// a full toggle cycle must leave the credit balance at zero
func TestVoteToggleCycleIsNeutral(t *testing.T) {

	var balance int32

	balance += voteTransition(false, false, VoteUp).CreditDelta() // add
	balance += voteTransition(true, false, VoteUp).CreditDelta()  // retract
	assert.Equal(t, int32(0), balance)

	balance += voteTransition(false, false, VoteUp).CreditDelta()  // add
	balance += voteTransition(true, false, VoteDown).CreditDelta() // flip down
	balance += voteTransition(false, true, VoteUp).CreditDelta()   // flip back up
	balance += voteTransition(true, false, VoteUp).CreditDelta()   // retract
	assert.Equal(t, int32(0), balance)
}

func TestApplyPoints(t *testing.T) {

	// credit crossing a level boundary
	points, level := applyPoints(4995, PointsQuestionAsked)
	assert.Equal(t, int32(5000), points)
	assert.Equal(t, LevelExpert, level)

	// debit stays above zero
	points, level = applyPoints(10, -5)
	assert.Equal(t, int32(5), points)
	assert.Equal(t, LevelBeginner, level)

	// debit below zero clamps
	points, level = applyPoints(3, -10)
	assert.Equal(t, int32(0), points)
	assert.Equal(t, LevelBeginner, level)

	// level follows the clamped value, not the raw sum
	points, level = applyPoints(0, -100)
	assert.Equal(t, int32(0), points)
	assert.Equal(t, LevelBeginner, level)
}

func TestNextAnswerStreak(t *testing.T) {

	day := func(y int, m time.Month, d, hh int) time.Time {
		return time.Date(y, m, d, hh, 0, 0, 0, time.UTC)
	}

	// first answer ever
	assert.Equal(t, int32(1), nextAnswerStreak(nil, day(2026, 8, 29, 10), 0))

	// second answer on the same day leaves the streak untouched
	last := day(2026, 8, 29, 8)
	assert.Equal(t, int32(3), nextAnswerStreak(&last, day(2026, 8, 29, 23), 3))

	// next calendar day extends, even just across midnight
	last = day(2026, 8, 29, 23)
	assert.Equal(t, int32(4), nextAnswerStreak(&last, day(2026, 8, 30, 0), 3))

	// a gap resets to 1
	last = day(2026, 8, 27, 12)
	assert.Equal(t, int32(1), nextAnswerStreak(&last, day(2026, 8, 29, 12), 6))

	// uninitialized counter with a stored date still counts both days
	last = day(2026, 8, 28, 12)
	assert.Equal(t, int32(2), nextAnswerStreak(&last, day(2026, 8, 29, 12), 0))
}

func TestDownvoteDelta(t *testing.T) {

	tests := []struct {
		name      string
		direction string
		kind      string
		want      int32
	}{
		{name: "downvote added", direction: VoteAdded, kind: VoteDown, want: 1},
		{name: "downvote retracted", direction: VoteRetracted, kind: VoteDown, want: -1},
		{name: "flip up to down", direction: VoteFlipped, kind: VoteDown, want: 1},
		{name: "flip down to up", direction: VoteFlipped, kind: VoteUp, want: -1},
		{name: "upvote added", direction: VoteAdded, kind: VoteUp, want: 0},
		{name: "upvote retracted", direction: VoteRetracted, kind: VoteUp, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, downvoteDelta(tt.direction, tt.kind))
		})
	}
}
