package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes how an item is prompted and where its answer lives.
type Kind string

const (
	KindLetter            Kind = "letter"
	KindWord              Kind = "word"
	KindRoot              Kind = "root"
	KindSentence          Kind = "sentence"
	KindQuranic           Kind = "quranic"
	KindListeningLetter   Kind = "listening_letter"
	KindListeningSyllable Kind = "listening_syllable"
	KindListeningWord     Kind = "listening_word"
	KindListeningSentence Kind = "listening_sentence"
	KindListeningContext  Kind = "listening_context"
	KindDictationLetter   Kind = "dictation_letter"
	KindDictationSyllable Kind = "dictation_syllable"
	KindDictationWord     Kind = "dictation_word"
	KindDictationSentence Kind = "dictation_sentence"
)

// IsListening reports whether the kind is a listening exercise.
func (k Kind) IsListening() bool {
	return strings.HasPrefix(string(k), "listening_")
}

// IsDictation reports whether the kind is a dictation exercise.
func (k Kind) IsDictation() bool {
	return strings.HasPrefix(string(k), "dictation_")
}

// ExplicitAnswerFirst reports whether the explicit Answer field outranks
// Letter and Arabic when extracting the correct answer.
func (k Kind) ExplicitAnswerFirst() bool {
	return k.IsListening() || k.IsDictation()
}

// Default long-horizon scheduling parameters.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	BaseInterval      = 24 * time.Hour
)

// MasteryThreshold is the streak at which an item counts as mastered.
const MasteryThreshold = 2

var (
	// ErrUnknownStage is returned for a stage the catalog does not carry.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrNoAnswer is returned for an item with no extractable correct answer.
	ErrNoAnswer = errors.New("item has no correct answer")

	// ErrNoPrompt is returned for an item with nothing to show.
	ErrNoPrompt = errors.New("item has no prompt field")
)

// Item is a single quizzable unit.
type Item struct {
	ID         string     `json:"id"`
	Stage      StageID    `json:"stage,omitempty"`
	Kind       Kind       `json:"kind"`
	Difficulty Difficulty `json:"difficulty"`

	// Prompt fields. At least one must be set.
	Letter   string `json:"letter,omitempty"`
	Arabic   string `json:"arabic,omitempty"`
	Audio    string `json:"audio,omitempty"`
	Question string `json:"question,omitempty"`

	// Answer is the explicit correct answer used by listening and dictation items.
	Answer string `json:"answer,omitempty"`

	// Display-only fields.
	Name            string `json:"name,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
	Meaning         string `json:"meaning,omitempty"`
	Description     string `json:"description,omitempty"`

	// SuppliedOptions is the option list shipped with listening and dictation items.
	SuppliedOptions []string `json:"options,omitempty"`

	// Progress.
	Mastery      int           `json:"-"`
	Streak       int           `json:"-"`
	LastReviewed time.Time     `json:"-"`
	EaseFactor   float64       `json:"-"`
	Interval     time.Duration `json:"-"`
	NextReview   time.Time     `json:"-"`

	// Options is regenerated on every deck initialization.
	Options []string `json:"-"`
}

// CorrectAnswer extracts the answer the learner must pick.
// Listening and dictation items check Answer first; all other kinds use
// Letter, then Arabic, then Answer.
func (it *Item) CorrectAnswer() string {
	if it.Kind.ExplicitAnswerFirst() && it.Answer != "" {
		return it.Answer
	}
	switch {
	case it.Letter != "":
		return it.Letter
	case it.Arabic != "":
		return it.Arabic
	default:
		return it.Answer
	}
}

// IsMastered reports whether the item met the in-session mastery threshold.
func (it *Item) IsMastered() bool {
	return it.Mastery == 1
}

// Validate checks the fields the engine relies on.
func (it *Item) Validate() error {
	if it.ID == "" {
		return errors.New("item id is empty")
	}
	if it.Letter == "" && it.Arabic == "" && it.Audio == "" && it.Question == "" {
		return fmt.Errorf("item %s: %w", it.ID, ErrNoPrompt)
	}
	if it.CorrectAnswer() == "" {
		return fmt.Errorf("item %s: %w", it.ID, ErrNoAnswer)
	}
	return nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	if it.SuppliedOptions != nil {
		it.SuppliedOptions = append([]string(nil), it.SuppliedOptions...)
	}
	if it.Options != nil {
		it.Options = append([]string(nil), it.Options...)
	}
	return it
}

// Key identifies the item across stages.
func (it *Item) Key() string {
	return string(it.Stage) + "/" + it.ID
}

// DisplayText is the main prompt shown on the card.
func (it *Item) DisplayText() string {
	switch {
	case it.Letter != "":
		return it.Letter
	case it.Arabic != "":
		return it.Arabic
	case it.Kind.IsListening() || it.Kind.IsDictation():
		return "♪ Listen to the audio"
	default:
		return it.Question
	}
}

// Instruction describes what the learner is asked to do.
func (it *Item) Instruction() string {
	switch it.Kind {
	case KindListeningLetter:
		return "Identify the letter by its sound"
	case KindListeningSyllable:
		return "Identify the syllable by its sound"
	case KindListeningWord:
		return "Identify the word by its pronunciation"
	case KindListeningSentence:
		return "Identify the sentence by its pronunciation"
	case KindListeningContext:
		if it.Question != "" {
			return it.Question
		}
		return "Understand the meaning from audio"
	case KindDictationLetter:
		return "Pick the letter you hear"
	case KindDictationSyllable:
		return "Pick the syllable you hear"
	case KindDictationWord:
		return "Pick the word you hear"
	case KindDictationSentence:
		return "Pick the sentence you hear"
	}
	return it.Description
}

// Hint returns the transliteration or meaning, whichever is available.
func (it *Item) Hint() string {
	if it.Transliteration != "" {
		return it.Transliteration
	}
	return it.Meaning
}
