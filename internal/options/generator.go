// Package options builds multiple-choice answer sets for learning items.
package options

import (
	"math/rand/v2"
	"strings"

	"github.com/abhisek/harf/internal/content"
)

// DistractorCount is the number of wrong answers drawn per item.
const DistractorCount = 2

// Short vowel marks.
const (
	Fatha = "َ"
	Damma = "ُ"
	Kasra = "ِ"
)

var shortVowels = []string{Fatha, Kasra, Damma}

// Placeholders is the pool for listening items that ship no options.
var Placeholders = []string{"Option 1", "Option 2", "Option 3", "Option 4"}

// Source is the randomness the generator draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG source. A zero seed draws a random one.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// ValueSource lists the Arabic values of a stage's full content set.
type ValueSource interface {
	ArabicValues(stage content.StageID) []string
}

// poolResolver returns the candidate pool for an item.
type poolResolver func(g *Generator, it *content.Item) []string

// filter reports whether candidate may be used as a distractor for correct.
type filter func(candidate, correct string) bool

// Generator produces option sets. It is not safe for concurrent use when the
// source is not.
type Generator struct {
	values    ValueSource
	rng       Source
	resolvers map[content.StageID]poolResolver
	filters   map[content.Difficulty]filter
}

// New returns a generator drawing word pools from values.
func New(values ValueSource, rng Source) *Generator {
	g := &Generator{
		values: values,
		rng:    rng,
		resolvers: map[content.StageID]poolResolver{
			content.StageListening: suppliedPool,
		},
		filters: map[content.Difficulty]filter{
			content.Beginner:     bareOnly,
			content.Intermediate: sameVowel,
		},
	}
	for _, s := range content.AllStages() {
		switch {
		case content.IsLetterStage(s):
			g.resolvers[s] = letterPool
		case s != content.StageListening:
			g.resolvers[s] = stagePool
		}
	}
	return g
}

// Generate returns the option set for an item at the given difficulty:
// the correct answer plus up to DistractorCount distractors, shuffled.
func (g *Generator) Generate(it *content.Item, level content.Difficulty) []string {
	correct := it.CorrectAnswer()

	var pool []string
	if resolve, ok := g.resolvers[it.Stage]; ok {
		pool = resolve(g, it)
	}
	if content.IsLetterStage(it.Stage) {
		if keep, ok := g.filters[level]; ok {
			pool = filterPool(pool, correct, keep)
		}
	}

	out := append([]string{correct}, g.sample(distractors(pool, correct), DistractorCount)...)
	Shuffle(g.rng, out)
	return out
}

func (g *Generator) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	for i := 0; i < n; i++ {
		j := i + g.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Shuffle permutes s uniformly in place.
func Shuffle[T any](rng Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// distractors returns a fresh, deduplicated copy of pool without correct.
func distractors(pool []string, correct string) []string {
	seen := make(map[string]bool, len(pool))
	out := make([]string, 0, len(pool))
	for _, c := range pool {
		if c == correct || c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func filterPool(pool []string, correct string, keep filter) []string {
	out := make([]string, 0, len(pool))
	for _, c := range pool {
		if keep(c, correct) {
			out = append(out, c)
		}
	}
	return out
}

func letterPool(_ *Generator, _ *content.Item) []string {
	return LetterSet()
}

func stagePool(g *Generator, it *content.Item) []string {
	if g.values == nil {
		return nil
	}
	return g.values.ArabicValues(it.Stage)
}

func suppliedPool(_ *Generator, it *content.Item) []string {
	if len(it.SuppliedOptions) > 0 {
		return it.SuppliedOptions
	}
	return Placeholders
}

func bareOnly(candidate, _ string) bool {
	return vowelOf(candidate) == ""
}

func sameVowel(candidate, correct string) bool {
	v := vowelOf(correct)
	if v == "" {
		return true
	}
	return strings.Contains(candidate, v)
}

// vowelOf returns the first short vowel mark in s, or "".
func vowelOf(s string) string {
	for _, r := range s {
		switch string(r) {
		case Fatha, Kasra, Damma:
			return string(r)
		}
	}
	return ""
}

var baseLetters = []string{
	"ا", "ب", "ت", "ث", "ج", "ح", "خ", "د", "ذ", "ر", "ز", "س", "ش", "ص",
	"ض", "ط", "ظ", "ع", "غ", "ف", "ق", "ك", "ل", "م", "ن", "ه", "و", "ي",
}

// LetterSet returns the 112 letter symbols: every base letter bare and with
// each short vowel.
func LetterSet() []string {
	out := make([]string, 0, len(baseLetters)*(len(shortVowels)+1))
	for _, l := range baseLetters {
		out = append(out, l)
		for _, v := range shortVowels {
			out = append(out, l+v)
		}
	}
	return out
}
