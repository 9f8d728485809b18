package models

import (
	"time"
)

// achievement names - each may be earned at most once per user, ever
const (
	AchievementAnswerStreak      = "Answer Streak"
	AchievementProblemSolver     = "Problem Solver"
	AchievementFirstQuestion     = "First Question"
	AchievementHelper            = "Helper"
	AchievementConfidenceBooster = "Confidence Booster"
)

// Achievement is embedded in the user document
type Achievement struct {
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Icon        string    `json:"icon" bson:"icon"`
	EarnedTS    time.Time `json:"earnedTS" bson:"earnedTS"`
}

// the rule table; conditions are independent, not ordered and not
// mutually exclusive
type achievementRule struct {
	name        string
	description string
	icon        string
	qualifies   func(user *User) bool
}

var achievementRules = []achievementRule{
	{
		name:        AchievementAnswerStreak,
		description: "Answered questions for 7 consecutive days",
		icon:        "🔥",
		qualifies:   func(u *User) bool { return u.Stats.AnswerStreak >= 7 },
	},
	{
		name:        AchievementProblemSolver,
		description: "Had 10 answers accepted",
		icon:        "🧠",
		qualifies:   func(u *User) bool { return u.Stats.AcceptedAnswers >= 10 },
	},
	{
		name:        AchievementFirstQuestion,
		description: "Asked your first question",
		icon:        "📝",
		qualifies:   func(u *User) bool { return u.Stats.QuestionsAsked >= 1 },
	},
	{
		name:        AchievementHelper,
		description: "Helped 5 people with answers",
		icon:        "🆘",
		qualifies:   func(u *User) bool { return u.Stats.AnswersGiven >= 5 },
	},
	{
		name:        AchievementConfidenceBooster,
		description: "Had an anonymous answer accepted",
		icon:        "🌟",
		qualifies:   func(u *User) bool { return u.ConfidenceBoosterBadges >= 1 },
	},
}

// EvaluateAchievements returns the achievements a user newly qualifies for.
// Already-earned names are skipped, so calling this twice without a stat
// change in between yields an empty result the second time. The function
// does not mutate the user and does not emit notifications - appending and
// notifying is the scoring model's job.
func EvaluateAchievements(user *User) []Achievement {

	earned := make(map[string]bool, len(user.Achievements))
	for _, a := range user.Achievements {
		earned[a.Name] = true
	}

	var newlyEarned []Achievement
	now := time.Now()

	for _, rule := range achievementRules {
		if earned[rule.name] {
			continue
		}
		if rule.qualifies(user) {
			newlyEarned = append(newlyEarned, Achievement{
				Name:        rule.name,
				Description: rule.description,
				Icon:        rule.icon,
				EarnedTS:    now,
			})
		}
	}

	return newlyEarned
}
