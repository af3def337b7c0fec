package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin_AllStagesPresent(t *testing.T) {
	c, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin: %v", err)
	}
	stages := c.Stages()
	if len(stages) != len(AllStages()) {
		t.Fatalf("Stages() = %d stages, want %d", len(stages), len(AllStages()))
	}
	for i, s := range AllStages() {
		if stages[i] != s {
			t.Errorf("Stages()[%d] = %s, want %s", i, stages[i], s)
		}
		if c.Count(s) == 0 {
			t.Errorf("stage %s has no items", s)
		}
	}
}

func TestLoadBuiltin_ItemsHaveAnswers(t *testing.T) {
	c, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin: %v", err)
	}
	for _, s := range c.Stages() {
		items, err := c.Items(s)
		if err != nil {
			t.Fatalf("Items(%s): %v", s, err)
		}
		for _, it := range items {
			if it.Stage != s {
				t.Errorf("item %s stage = %q, want %q", it.ID, it.Stage, s)
			}
			if it.CorrectAnswer() == "" {
				t.Errorf("item %s has no correct answer", it.Key())
			}
		}
	}
}

func TestCatalogItems_ReturnsCopies(t *testing.T) {
	c, err := NewCatalog(StageFile{
		Stage: StageListening,
		Items: []Item{{ID: "l1", Kind: KindListeningWord, Audio: "a.mp3", Answer: "x", SuppliedOptions: []string{"x", "y"}}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	first, _ := c.Items(StageListening)
	first[0].Mastery = 1
	first[0].SuppliedOptions[0] = "changed"

	second, _ := c.Items(StageListening)
	if second[0].Mastery != 0 {
		t.Errorf("Mastery leaked through copy: %d", second[0].Mastery)
	}
	if second[0].SuppliedOptions[0] != "x" {
		t.Errorf("SuppliedOptions leaked through copy: %q", second[0].SuppliedOptions[0])
	}
}

func TestCatalogItems_UnknownStage(t *testing.T) {
	c, _ := NewCatalog()
	_, err := c.Items("klingon")
	if !errors.Is(err, ErrUnknownStage) {
		t.Errorf("Items(klingon) err = %v, want ErrUnknownStage", err)
	}
}

func TestCatalogItems_KnownStageWithoutContent(t *testing.T) {
	c, _ := NewCatalog()
	items, err := c.Items(StageQuranic)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestNewCatalog_RejectsMissingAnswer(t *testing.T) {
	_, err := NewCatalog(StageFile{
		Stage: StageListening,
		Items: []Item{{ID: "l1", Kind: KindListeningWord, Audio: "a.mp3"}},
	})
	if !errors.Is(err, ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}

func TestNewCatalog_RejectsDuplicateID(t *testing.T) {
	_, err := NewCatalog(StageFile{
		Stage: StageSimpleWords,
		Items: []Item{
			{ID: "w1", Kind: KindWord, Arabic: "بيت"},
			{ID: "w1", Kind: KindWord, Arabic: "باب"},
		},
	})
	if err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestLoad_ContentDirExtendsStage(t *testing.T) {
	dir := t.TempDir()
	extra := `{"stage":"simple_words","items":[{"id":"extra-1","kind":"word","difficulty":"beginner","arabic":"نَار","meaning":"fire"}]}`
	if err := os.WriteFile(filepath.Join(dir, "extra.json"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	builtin, _ := LoadBuiltin()
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := c.Count(StageSimpleWords), builtin.Count(StageSimpleWords)+1; got != want {
		t.Errorf("Count = %d, want %d", got, want)
	}
}

func TestLoad_ContentDirSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	bad := `{"stage":"simple_words","items":[{"id":"x","kind":"spaceship","difficulty":"beginner","arabic":"نَار"}]}`
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("err = %v, want ErrInvalidCatalog", err)
	}
}

func TestArabicValues(t *testing.T) {
	c, _ := NewCatalog(StageFile{
		Stage: StageSimpleWords,
		Items: []Item{
			{ID: "a", Kind: KindWord, Arabic: "بيت"},
			{ID: "b", Kind: KindWord, Arabic: "باب"},
		},
	})
	got := c.ArabicValues(StageSimpleWords)
	if len(got) != 2 || got[0] != "بيت" || got[1] != "باب" {
		t.Errorf("ArabicValues = %v", got)
	}
}

func TestNewCatalog_TrimsAnswerFields(t *testing.T) {
	c, err := NewCatalog(StageFile{
		Stage: StageSimpleWords,
		Items: []Item{
			{ID: "a", Kind: KindWord, Arabic: " بيت\n"},
			{ID: "b", Kind: KindWord, Arabic: "باب"},
		},
	}, StageFile{
		Stage: StageListening,
		Items: []Item{{ID: "l1", Kind: KindListeningWord, Audio: "a.mp3", Answer: "  ماء "}},
	})
	if err != nil {
		t.Fatal(err)
	}
	words, _ := c.Items(StageSimpleWords)
	if got := words[0].CorrectAnswer(); got != "بيت" {
		t.Errorf("CorrectAnswer() = %q, want trimmed", got)
	}
	if got := c.ArabicValues(StageSimpleWords); got[0] != words[0].CorrectAnswer() {
		t.Errorf("ArabicValues[0] = %q, CorrectAnswer() = %q", got[0], words[0].CorrectAnswer())
	}
	listening, _ := c.Items(StageListening)
	if got := listening[0].CorrectAnswer(); got != "ماء" {
		t.Errorf("listening CorrectAnswer() = %q, want trimmed", got)
	}

	_, err = NewCatalog(StageFile{
		Stage: StageSimpleWords,
		Items: []Item{{ID: "blank", Kind: KindWord, Arabic: "   "}},
	})
	if err == nil {
		t.Error("expected error for whitespace-only answer")
	}
}
