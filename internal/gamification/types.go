package gamification

import "time"

// BadgeID identifies an achievement badge.
type BadgeID string

const (
	BadgeStageMaster       BadgeID = "stage_master"
	BadgePerfectStreak     BadgeID = "perfect_streak"
	BadgeFastLearner       BadgeID = "fast_learner"
	BadgeDedicatedStudent  BadgeID = "dedicated_student"
	BadgeArabicScholar     BadgeID = "arabic_scholar"
	BadgeListeningExpert   BadgeID = "listening_expert"
	BadgeVocabularyMaster  BadgeID = "vocabulary_master"
	BadgeConsistentLearner BadgeID = "consistent_learner"
)

// AllBadges lists badges in display order.
var AllBadges = []BadgeID{
	BadgeStageMaster,
	BadgePerfectStreak,
	BadgeFastLearner,
	BadgeDedicatedStudent,
	BadgeArabicScholar,
	BadgeListeningExpert,
	BadgeVocabularyMaster,
	BadgeConsistentLearner,
}

// DisplayName returns the human-readable badge name.
func (b BadgeID) DisplayName() string {
	switch b {
	case BadgeStageMaster:
		return "Stage Master"
	case BadgePerfectStreak:
		return "Perfect Streak"
	case BadgeFastLearner:
		return "Fast Learner"
	case BadgeDedicatedStudent:
		return "Dedicated Student"
	case BadgeArabicScholar:
		return "Arabic Scholar"
	case BadgeListeningExpert:
		return "Listening Expert"
	case BadgeVocabularyMaster:
		return "Vocabulary Master"
	case BadgeConsistentLearner:
		return "Consistent Learner"
	default:
		return string(b)
	}
}

// Description returns what earns the badge.
func (b BadgeID) Description() string {
	switch b {
	case BadgeStageMaster:
		return "Master every card in a stage"
	case BadgePerfectStreak:
		return "Answer 20 cards correctly in a row"
	case BadgeFastLearner:
		return "Complete a stage in under 10 minutes"
	case BadgeDedicatedStudent:
		return "Review 100 cards in one session"
	case BadgeArabicScholar:
		return "Master every card in the catalog"
	case BadgeListeningExpert:
		return "Reach 95% accuracy on listening"
	case BadgeVocabularyMaster:
		return "Master 50 vocabulary cards"
	case BadgeConsistentLearner:
		return "Practice 7 days in a row"
	default:
		return ""
	}
}

// Icon returns the badge glyph.
func (b BadgeID) Icon() string {
	switch b {
	case BadgeStageMaster:
		return "👑"
	case BadgePerfectStreak:
		return "🔥"
	case BadgeFastLearner:
		return "⚡"
	case BadgeDedicatedStudent:
		return "📚"
	case BadgeArabicScholar:
		return "🎓"
	case BadgeListeningExpert:
		return "👂"
	case BadgeVocabularyMaster:
		return "📖"
	case BadgeConsistentLearner:
		return "📅"
	default:
		return "★"
	}
}

// AwardKind classifies an award.
type AwardKind int

const (
	AwardBadge AwardKind = iota
	AwardLevelUp
	AwardChallenge
	AwardSessionXP
)

func (k AwardKind) String() string {
	switch k {
	case AwardBadge:
		return "badge"
	case AwardLevelUp:
		return "level_up"
	case AwardChallenge:
		return "challenge"
	case AwardSessionXP:
		return "session_xp"
	default:
		return "unknown"
	}
}

// Award is a single reward earned during a session.
type Award struct {
	Kind      AwardKind
	Badge     BadgeID // AwardBadge only
	Level     int     // AwardLevelUp only
	Challenge string  // AwardChallenge only
	XP        int
	Reason    string
	AwardedAt time.Time
}
