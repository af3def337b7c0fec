package options

import (
	"strings"
	"testing"

	"github.com/abhisek/harf/internal/content"
)

type stubValues map[content.StageID][]string

func (s stubValues) ArabicValues(stage content.StageID) []string { return s[stage] }

// firstSource always picks the lowest index.
type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

func countOf(opts []string, s string) int {
	n := 0
	for _, o := range opts {
		if o == s {
			n++
		}
	}
	return n
}

func TestGenerate_CorrectExactlyOnce(t *testing.T) {
	g := New(stubValues{
		content.StageSimpleWords: {"بيت", "باب", "قلم", "بيت"},
	}, NewSource(42))

	items := []content.Item{
		{Stage: content.StageAlphabet, Kind: content.KindLetter, Letter: "بَ"},
		{Stage: content.StageLongVowels, Kind: content.KindLetter, Letter: "بَا"},
		{Stage: content.StageSimpleWords, Kind: content.KindWord, Arabic: "بيت"},
		{Stage: content.StageListening, Kind: content.KindListeningWord, Answer: "كتاب", SuppliedOptions: []string{"كتاب", "كاتب"}},
		{Stage: content.StageListening, Kind: content.KindListeningWord, Answer: "كتاب"},
	}
	for _, level := range []content.Difficulty{content.Beginner, content.Intermediate, content.Advanced} {
		for i := range items {
			for run := 0; run < 50; run++ {
				opts := g.Generate(&items[i], level)
				if n := countOf(opts, items[i].CorrectAnswer()); n != 1 {
					t.Fatalf("item %d level %s: correct appears %d times in %v", i, level, n, opts)
				}
				if len(opts) < 1 || len(opts) > 3 {
					t.Fatalf("item %d level %s: len = %d, want 1..3", i, level, len(opts))
				}
				seen := map[string]bool{}
				for _, o := range opts {
					if seen[o] {
						t.Fatalf("duplicate option %q in %v", o, opts)
					}
					seen[o] = true
				}
			}
		}
	}
}

func TestGenerate_BeginnerUsesBareLetters(t *testing.T) {
	g := New(nil, NewSource(7))
	it := content.Item{Stage: content.StageAlphabet, Kind: content.KindLetter, Letter: "بَ"}
	for run := 0; run < 100; run++ {
		for _, o := range g.Generate(&it, content.Beginner) {
			if o == it.Letter {
				continue
			}
			if vowelOf(o) != "" {
				t.Fatalf("beginner distractor %q carries a short vowel", o)
			}
		}
	}
}

func TestGenerate_IntermediateSharesVowel(t *testing.T) {
	g := New(nil, NewSource(7))
	it := content.Item{Stage: content.StageAlphabet, Kind: content.KindLetter, Letter: "تِ"}
	for run := 0; run < 100; run++ {
		for _, o := range g.Generate(&it, content.Intermediate) {
			if !strings.Contains(o, Kasra) {
				t.Fatalf("intermediate option %q lacks kasra", o)
			}
		}
	}
}

func TestGenerate_WordStageDrawsFromSameStage(t *testing.T) {
	pool := []string{"بيت", "باب", "قلم"}
	g := New(stubValues{
		content.StageSimpleWords: pool,
		content.StageQuranic:     {"اللَّه"},
	}, NewSource(3))
	it := content.Item{Stage: content.StageSimpleWords, Kind: content.KindWord, Arabic: "بيت"}

	opts := g.Generate(&it, content.Beginner)
	if len(opts) != 3 {
		t.Fatalf("len = %d, want 3", len(opts))
	}
	for _, o := range opts {
		if countOf(pool, o) != 1 {
			t.Errorf("option %q not from the stage pool", o)
		}
	}
}

func TestGenerate_ShortageReturnsFewer(t *testing.T) {
	g := New(stubValues{content.StageSimpleWords: {"بيت"}}, firstSource{})
	it := content.Item{Stage: content.StageSimpleWords, Kind: content.KindWord, Arabic: "بيت"}

	opts := g.Generate(&it, content.Advanced)
	if len(opts) != 1 || opts[0] != "بيت" {
		t.Errorf("Generate = %v, want [بيت]", opts)
	}
}

func TestGenerate_ListeningPlaceholders(t *testing.T) {
	g := New(nil, NewSource(1))
	it := content.Item{Stage: content.StageListening, Kind: content.KindListeningWord, Audio: "a.mp3", Answer: "كتاب"}

	opts := g.Generate(&it, content.Advanced)
	if len(opts) != 3 {
		t.Fatalf("len = %d, want 3", len(opts))
	}
	for _, o := range opts {
		if o != "كتاب" && countOf(Placeholders, o) != 1 {
			t.Errorf("unexpected option %q", o)
		}
	}
}

func TestGenerate_ListeningIgnoresDifficultyFilter(t *testing.T) {
	g := New(nil, NewSource(1))
	it := content.Item{
		Stage: content.StageListening, Kind: content.KindListeningLetter, Answer: "بَ",
		SuppliedOptions: []string{"بَ", "تَ", "ثَ"},
	}
	opts := g.Generate(&it, content.Beginner)
	if len(opts) != 3 {
		t.Errorf("Generate = %v, want 3 options", opts)
	}
}

func TestLetterSet(t *testing.T) {
	set := LetterSet()
	if len(set) != 112 {
		t.Errorf("len(LetterSet()) = %d, want 112", len(set))
	}
}

func TestShuffle_Permutation(t *testing.T) {
	rng := NewSource(99)
	counts := map[string]int{}
	for i := 0; i < 6000; i++ {
		s := []string{"a", "b", "c"}
		Shuffle(rng, s)
		counts[strings.Join(s, "")]++
	}
	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6", len(counts))
	}
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("permutation %s appeared %d times, want ~1000", perm, n)
		}
	}
}
