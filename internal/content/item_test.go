package content

import "testing"

func TestCorrectAnswer_Precedence(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"letter wins", Item{Kind: KindLetter, Letter: "بَ", Arabic: "x", Answer: "y"}, "بَ"},
		{"arabic when no letter", Item{Kind: KindWord, Arabic: "بيت", Answer: "y"}, "بيت"},
		{"answer last", Item{Kind: KindWord, Answer: "y"}, "y"},
		{"listening answer first", Item{Kind: KindListeningWord, Arabic: "بيت", Answer: "كتاب"}, "كتاب"},
		{"dictation answer first", Item{Kind: KindDictationLetter, Letter: "م", Answer: "مُ"}, "مُ"},
		{"listening falls back", Item{Kind: KindListeningLetter, Letter: "ب"}, "ب"},
		{"empty", Item{Kind: KindWord}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.CorrectAnswer(); got != tt.want {
				t.Errorf("CorrectAnswer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	ok := Item{ID: "a", Kind: KindLetter, Letter: "ب"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	noID := Item{Kind: KindLetter, Letter: "ب"}
	if noID.Validate() == nil {
		t.Error("expected error for empty id")
	}

	noPrompt := Item{ID: "a", Kind: KindWord, Answer: "x"}
	if noPrompt.Validate() == nil {
		t.Error("expected error for missing prompt")
	}
}

func TestClone_Independent(t *testing.T) {
	orig := Item{ID: "a", Options: []string{"x", "y"}}
	c := orig.Clone()
	c.Options[0] = "z"
	if orig.Options[0] != "x" {
		t.Errorf("Clone shares Options backing array")
	}
}

func TestNextStage(t *testing.T) {
	if got := NextStage(StageAlphabet); got != StageLongVowels {
		t.Errorf("NextStage(alphabet) = %s, want long_vowels", got)
	}
	if got := NextStage(StageQuranic); got != StageQuranic {
		t.Errorf("NextStage(quranic_mastery) = %s, want itself", got)
	}
}

func TestDisplayText_Listening(t *testing.T) {
	it := Item{Kind: KindListeningWord, Audio: "a.mp3", Answer: "x"}
	if it.DisplayText() == "x" {
		t.Error("listening prompt must not reveal the answer")
	}
}
