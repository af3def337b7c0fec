package content

// StageID names one content pool in the learning progression.
type StageID string

const (
	StageAlphabet       StageID = "alphabet"
	StageLongVowels     StageID = "long_vowels"
	StageSukunTanwin    StageID = "sukun_tanwin"
	StageSimpleWords    StageID = "simple_words"
	StageWordRoots      StageID = "word_roots"
	StageSimpleSentence StageID = "simple_sentences"
	StageAdvancedVocab  StageID = "advanced_vocabulary"
	StageListening      StageID = "listening_comprehension"
	StageQuranic        StageID = "quranic_mastery"
)

// AllStages returns all stages in progression order.
func AllStages() []StageID {
	return []StageID{
		StageAlphabet,
		StageLongVowels,
		StageSukunTanwin,
		StageSimpleWords,
		StageWordRoots,
		StageSimpleSentence,
		StageAdvancedVocab,
		StageListening,
		StageQuranic,
	}
}

// ParseStage returns the stage for s, or false if s names no known stage.
func ParseStage(s string) (StageID, bool) {
	for _, st := range AllStages() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// StageDisplayName returns a human-readable name for a stage.
func StageDisplayName(s StageID) string {
	switch s {
	case StageAlphabet:
		return "Alphabet & Short Vowels"
	case StageLongVowels:
		return "Long Vowels"
	case StageSukunTanwin:
		return "Sukun & Tanwin"
	case StageSimpleWords:
		return "Simple Words"
	case StageWordRoots:
		return "Word Roots"
	case StageSimpleSentence:
		return "Simple Sentences"
	case StageAdvancedVocab:
		return "Advanced Vocabulary"
	case StageListening:
		return "Listening Comprehension"
	case StageQuranic:
		return "Quranic Mastery"
	default:
		return string(s)
	}
}

// NextStage returns the stage after s in the progression. The last stage
// (and any unknown stage) maps to itself.
func NextStage(s StageID) StageID {
	stages := AllStages()
	for i, st := range stages {
		if st == s && i < len(stages)-1 {
			return stages[i+1]
		}
	}
	return s
}

// IsLetterStage reports whether the stage quizzes single (possibly vowelled) letters.
func IsLetterStage(s StageID) bool {
	switch s {
	case StageAlphabet, StageLongVowels, StageSukunTanwin:
		return true
	}
	return false
}

// IsVocabularyStage reports whether mastered items in the stage count as vocabulary.
func IsVocabularyStage(s StageID) bool {
	switch s {
	case StageSimpleWords, StageWordRoots, StageAdvancedVocab, StageQuranic:
		return true
	}
	return false
}

// Difficulty is both an item's content tag and the learner-selected option filter.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty returns the difficulty for s, or false if unknown.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Beginner, Intermediate, Advanced:
		return Difficulty(s), true
	}
	return "", false
}
