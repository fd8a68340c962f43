package gointl

import (
	"reflect"
	"testing"
)

func TestDiffLangpacks_NoChanges(t *testing.T) {
	pack := Langpack{"hello": "Hi", "bye": "Bye"}

	diff := DiffLangpacks(pack, pack)

	if diff.HasGaps() {
		t.Error("Expected no gaps for identical langpacks")
	}

	if len(diff.Translated) != 2 {
		t.Errorf("Expected 2 translated, got %d", len(diff.Translated))
	}
}

func TestDiffLangpacks_EmptyTarget(t *testing.T) {
	source := Langpack{"hello": "Hi", "bye": "Bye"}

	diff := DiffLangpacks(source, Langpack{})

	if !reflect.DeepEqual(diff.Missing, []string{"bye", "hello"}) {
		t.Errorf("Expected sorted missing keys, got %v", diff.Missing)
	}

	if len(diff.Translated) != 0 {
		t.Errorf("Expected 0 translated, got %d", len(diff.Translated))
	}

	if diff.Coverage() != 0 {
		t.Errorf("Expected coverage 0, got %f", diff.Coverage())
	}
}

func TestDiffLangpacks_Mixed(t *testing.T) {
	source := Langpack{
		"hello":   "Hi",
		"bye":     "Bye",
		"new":     "New",
		"pending": "",
	}
	target := Langpack{
		"hello":   "Salut",
		"bye":     "",
		"pending": "",
		"old":     "Vieux",
	}

	diff := DiffLangpacks(source, target)

	if !reflect.DeepEqual(diff.Missing, []string{"new"}) {
		t.Errorf("Missing = %v", diff.Missing)
	}
	if !reflect.DeepEqual(diff.Untranslated, []string{"bye"}) {
		t.Errorf("Untranslated = %v", diff.Untranslated)
	}
	if !reflect.DeepEqual(diff.Orphaned, []string{"old"}) {
		t.Errorf("Orphaned = %v", diff.Orphaned)
	}
	if !reflect.DeepEqual(diff.Translated, []string{"hello"}) {
		t.Errorf("Translated = %v", diff.Translated)
	}
}

func TestLangpackDiff_NeedsTranslation(t *testing.T) {
	diff := &LangpackDiff{
		Missing:      []string{"a", "b"},
		Untranslated: []string{"c"},
	}

	got := diff.NeedsTranslation()
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("NeedsTranslation() = %v", got)
	}
}

func TestLangpackDiff_Stats(t *testing.T) {
	diff := &LangpackDiff{
		Missing:      []string{"a", "b"},
		Untranslated: []string{"c"},
		Orphaned:     []string{"d"},
		Translated:   []string{"e", "f", "g"},
	}

	stats := diff.Stats()

	if stats.Missing != 2 || stats.Untranslated != 1 || stats.Orphaned != 1 || stats.Translated != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestLangpackDiff_Coverage(t *testing.T) {
	diff := &LangpackDiff{Missing: []string{"a"}, Translated: []string{"b", "c", "d"}}
	if diff.Coverage() != 0.75 {
		t.Errorf("Coverage() = %f, want 0.75", diff.Coverage())
	}

	if (&LangpackDiff{}).Coverage() != 1 {
		t.Error("empty diff should be fully covered")
	}
}
