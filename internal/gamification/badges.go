package gamification

import "time"

// BadgeInput is the learner state badge conditions are checked against.
type BadgeInput struct {
	StageCompleted    bool
	StageMastery      int // percent of the stage mastered
	StageTime         time.Duration
	AnswerStreak      int
	CardsReviewed     int // this session
	TotalMastered     int
	TotalCards        int
	ListeningAttempts int
	ListeningCorrect  int
	VocabMastered     int
	DayStreak         int
}

var badgeRules = map[BadgeID]func(BadgeInput) bool{
	BadgeStageMaster: func(in BadgeInput) bool {
		return in.StageCompleted && in.StageMastery == 100
	},
	BadgePerfectStreak: func(in BadgeInput) bool {
		return in.AnswerStreak >= 20
	},
	BadgeFastLearner: func(in BadgeInput) bool {
		return in.StageCompleted && in.StageTime < 10*time.Minute
	},
	BadgeDedicatedStudent: func(in BadgeInput) bool {
		return in.CardsReviewed >= 100
	},
	BadgeArabicScholar: func(in BadgeInput) bool {
		return in.TotalCards > 0 && in.TotalMastered == in.TotalCards
	},
	BadgeListeningExpert: func(in BadgeInput) bool {
		if in.ListeningAttempts == 0 {
			return false
		}
		return in.ListeningCorrect*100 >= 95*in.ListeningAttempts
	},
	BadgeVocabularyMaster: func(in BadgeInput) bool {
		return in.VocabMastered >= 50
	},
	BadgeConsistentLearner: func(in BadgeInput) bool {
		return in.DayStreak >= 7
	},
}

// NewBadges returns the badges whose conditions hold and that are not in
// earned, in display order.
func NewBadges(in BadgeInput, earned map[BadgeID]bool) []BadgeID {
	var out []BadgeID
	for _, id := range AllBadges {
		if earned[id] {
			continue
		}
		if badgeRules[id](in) {
			out = append(out, id)
		}
	}
	return out
}
