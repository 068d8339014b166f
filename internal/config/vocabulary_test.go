package config

import (
	"path/filepath"
	"testing"
)

func TestLoadVocabulary(t *testing.T) {
	t.Run("valid vocabulary loads", func(t *testing.T) {
		vocab, err := LoadVocabulary(filepath.Join("testdata", "valid_vocabulary.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !vocab.IsTrait("loyal") || !vocab.IsTrait("shy") {
			t.Fatalf("expected adult and kit traits indexed")
		}
		if vocab.NumTraits() != 4 {
			t.Fatalf("expected 4 traits, got %d", vocab.NumTraits())
		}
		if !vocab.IsInjury("minor_injury") || !vocab.IsInjury("claw-wound") {
			t.Fatalf("expected injuries and groups recognised")
		}
		if vocab.IsBackstory("kittypet1") {
			t.Fatalf("expected unknown backstory rejected")
		}
	})

	t.Run("group references unknown injury", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ntraits: [calm]\ninjuries: [sprain]\ninjury_groups:\n  minor_injury: [sprain, sore]\n")
		if _, err := LoadVocabulary(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate trait", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ntraits: [calm]\nkit_traits: [calm]\n")
		if _, err := LoadVocabulary(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("no traits", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\n")
		if _, err := LoadVocabulary(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestExpandInjuries(t *testing.T) {
	vocab := DefaultVocabulary()
	got := vocab.ExpandInjuries([]string{"minor_injury", "poisoned"})
	want := []string{"sprain", "sore", "bruises", "scrapes", "poisoned"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDefaultVocabularyIsValid(t *testing.T) {
	if err := validateVocabulary(DefaultVocabulary()); err != nil {
		t.Fatalf("expected default vocabulary to validate, got %v", err)
	}
}
