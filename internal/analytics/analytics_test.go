package analytics

import (
	"testing"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/store"
)

func miss(stage content.StageID, kind content.Kind, sel, want string) Answer {
	return Answer{Stage: stage, Kind: kind, Selected: sel, CorrectAnswer: want, ResponseTime: time.Second}
}

func hit(stage content.StageID, kind content.Kind, rt time.Duration) Answer {
	return Answer{Stage: stage, Kind: kind, Correct: true, ResponseTime: rt}
}

func TestRecord_ErrorPatterns(t *testing.T) {
	tr := NewTracker()
	for range 3 {
		tr.Record(miss(content.StageAlphabet, content.KindLetter, "ت", "ب"))
	}
	tr.Record(miss(content.StageAlphabet, content.KindLetter, "ث", "ب"))
	tr.Record(hit(content.StageAlphabet, content.KindLetter, time.Second))

	got := tr.ErrorPatterns()
	if len(got) != 2 {
		t.Fatalf("len(ErrorPatterns()) = %d, want 2", len(got))
	}
	if got[0].Count != 3 || got[0].Key.Selected != "ت" {
		t.Errorf("top pattern = %+v", got[0])
	}
	if k := got[0].Key.String(); k != "alphabet_letter_ت_ب" {
		t.Errorf("key = %q", k)
	}
}

func TestRecord_AreaAverages(t *testing.T) {
	tr := NewTracker()
	tr.Record(hit(content.StageSimpleWords, content.KindWord, time.Second))
	tr.Record(hit(content.StageSimpleWords, content.KindWord, 3*time.Second))
	tr.Record(miss(content.StageSimpleWords, content.KindWord, "x", "y"))

	s := tr.Areas()[AreaKey{Stage: content.StageSimpleWords, Kind: content.KindWord}]
	if s.Attempts != 3 || s.Correct != 2 {
		t.Errorf("area = %+v", s)
	}
	wantAvg := (time.Second + 3*time.Second + time.Second) / 3
	if s.AvgResponseTime != wantAvg {
		t.Errorf("AvgResponseTime = %v, want %v", s.AvgResponseTime, wantAvg)
	}
}

func TestErrorKey_Description(t *testing.T) {
	tests := []struct {
		key  ErrorKey
		want string
	}{
		{ErrorKey{content.StageAlphabet, content.KindLetter, "ت", "ب"}, "Confusing ت with ب in Alphabet & Short Vowels"},
		{ErrorKey{content.StageListening, content.KindListeningWord, "a", "b"}, "Mishearing a as b in Listening Comprehension"},
		{ErrorKey{content.StageSimpleWords, content.KindWord, "a", "b"}, `Confusing word "a" with "b"`},
		{ErrorKey{content.StageWordRoots, content.KindRoot, "a", "b"}, "Difficulty with root in Word Roots"},
	}
	for _, tt := range tests {
		if got := tt.key.Description(); got != tt.want {
			t.Errorf("Description(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestObserve(t *testing.T) {
	tr := NewTracker()
	var _ events.Observer = tr
	tr.Observe(events.Outcome{
		Stage:         content.StageAlphabet,
		Item:          content.Item{ID: "ba", Kind: content.KindLetter},
		Selected:      "ت",
		CorrectAnswer: "ب",
	})
	if tr.Len() != 1 || len(tr.ErrorPatterns()) != 1 {
		t.Errorf("Observe did not record outcome")
	}
}

func TestFromRecords(t *testing.T) {
	recs := []store.AnswerEventRecord{
		{Sequence: 1, AnswerEventData: store.AnswerEventData{Stage: "alphabet", Kind: "letter", Selected: "ت", CorrectAnswer: "ب"}},
		{Sequence: 2, AnswerEventData: store.AnswerEventData{Stage: "alphabet", Kind: "letter", Correct: true}},
	}
	tr := FromRecords(recs)
	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
	s := tr.Areas()[AreaKey{Stage: content.StageAlphabet, Kind: content.KindLetter}]
	if s.Attempts != 2 || s.Correct != 1 {
		t.Errorf("area = %+v", s)
	}
}

func TestSummary_Window(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	tr := NewTracker()
	old := hit(content.StageAlphabet, content.KindLetter, time.Second)
	old.At = now.Add(-8 * 24 * time.Hour)
	tr.Record(old)
	for i := range 3 {
		a := hit(content.StageAlphabet, content.KindLetter, time.Second)
		a.Correct = i < 2
		a.At = now.Add(-time.Hour)
		tr.Record(a)
	}

	s := tr.Summary(now)
	if s.RecentAnswers != 3 || s.Accuracy != 67 {
		t.Errorf("Summary() = %+v, want 3 answers at 67%%", s)
	}
}
