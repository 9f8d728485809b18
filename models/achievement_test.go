package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func earnedNames(achievements []Achievement) []string {
	names := make([]string, 0, len(achievements))
	for _, a := range achievements {
		names = append(names, a.Name)
	}
	return names
}

func TestEvaluateAchievements(t *testing.T) {

	tests := []struct {
		name string
		user User
		want []string
	}{
		{
			name: "fresh user earns nothing",
			user: User{},
			want: []string{},
		},
		{
			name: "first question",
			user: User{Stats: UserStats{QuestionsAsked: 1}},
			want: []string{AchievementFirstQuestion},
		},
		{
			name: "helper needs five answers",
			user: User{Stats: UserStats{AnswersGiven: 4}},
			want: []string{},
		},
		{
			name: "helper at five answers",
			user: User{Stats: UserStats{AnswersGiven: 5}},
			want: []string{AchievementHelper},
		},
		{
			name: "problem solver at ten accepted",
			user: User{Stats: UserStats{AcceptedAnswers: 10}},
			want: []string{AchievementProblemSolver},
		},
		{
			name: "streak below seven days",
			user: User{Stats: UserStats{AnswerStreak: 6}},
			want: []string{},
		},
		{
			name: "streak of seven days",
			user: User{Stats: UserStats{AnswerStreak: 7}},
			want: []string{AchievementAnswerStreak},
		},
		{
			name: "anonymous answer accepted",
			user: User{ConfidenceBoosterBadges: 1},
			want: []string{AchievementConfidenceBooster},
		},
		{
			name: "several at once",
			user: User{Stats: UserStats{QuestionsAsked: 3, AnswersGiven: 12, AcceptedAnswers: 10}},
			want: []string{AchievementProblemSolver, AchievementFirstQuestion, AchievementHelper},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAchievements(&tt.user)
			assert.ElementsMatch(t, tt.want, earnedNames(got))
		})
	}
}

// a second evaluation without a stat change must come back empty
func TestEvaluateAchievementsOnlyOnce(t *testing.T) {

	user := User{Stats: UserStats{QuestionsAsked: 1, AnswersGiven: 5}}

	first := EvaluateAchievements(&user)
	assert.Len(t, first, 2)

	user.Achievements = append(user.Achievements, first...)

	second := EvaluateAchievements(&user)
	assert.Empty(t, second)
}

// growing into a new rule re-awards only the new one
func TestEvaluateAchievementsIncremental(t *testing.T) {

	user := User{
		Stats: UserStats{QuestionsAsked: 1},
		Achievements: []Achievement{
			{Name: AchievementFirstQuestion, EarnedTS: time.Now()},
		},
	}

	user.Stats.AnswersGiven = 5

	got := EvaluateAchievements(&user)
	assert.Equal(t, []string{AchievementHelper}, earnedNames(got))
}

func TestEvaluateAchievementsDoesNotMutate(t *testing.T) {

	user := User{Stats: UserStats{QuestionsAsked: 1}}

	_ = EvaluateAchievements(&user)
	assert.Empty(t, user.Achievements)
}
