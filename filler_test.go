package gointl

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// mockProvider is a simple mock for testing
type mockProvider struct {
	translations map[string]string
	callCount    int
	lastRequest  TranslateRequest
	err          error
	short        bool
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		translations: map[string]string{
			"Hi":                     "Salut",
			"Bye":                    "Au revoir",
			"Hello {name}":           "Bonjour {name}",
			"{count} items in {box}": "{count} articles",
		},
	}
}

func (m *mockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.callCount++
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = "[" + text + "]"
		}
	}
	if m.short {
		return results[:len(results)-1], nil
	}
	return results, nil
}

func newFillerFixture(t *testing.T, en, fr string) (*fakeObjects, *Resolver) {
	t.Helper()
	objects := newFakeObjects()
	objects.objects["app/en.json"] = en
	if fr != "" {
		objects.objects["app/fr.json"] = fr
	}
	r, err := NewResolver(NewStore(objects), []string{"en", "fr", "de"})
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return objects, r
}

func TestFiller_FillsGaps(t *testing.T) {
	objects, r := newFillerFixture(t,
		`{"hello":"Hi","bye":"Bye","greet":"Hello {name}","pending":""}`,
		`{"hello":"Coucou","bye":""}`,
	)
	provider := newMockProvider()
	filler := NewFiller(r, provider, WithStyle(StyleCasual), WithTranslationContext("shop"))

	result, err := filler.Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	if !reflect.DeepEqual(result.Translated, []string{"greet", "bye"}) {
		t.Errorf("Translated = %v", result.Translated)
	}
	if !reflect.DeepEqual(result.Registered, []string{"pending"}) {
		t.Errorf("Registered = %v", result.Registered)
	}
	if !result.Saved {
		t.Error("expected langpack to be saved")
	}

	if provider.callCount != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.callCount)
	}
	req := provider.lastRequest
	if req.SourceLang != "en" || req.TargetLang != "fr" || req.Style != StyleCasual || req.Context != "shop" {
		t.Errorf("unexpected request: %+v", req)
	}
	if !reflect.DeepEqual(req.TextContexts, []string{"greet", "bye"}) {
		t.Errorf("keys should be sent as text contexts, got %v", req.TextContexts)
	}

	pack, _ := r.GetLangpack(context.Background(), "app", "fr", true)
	want := Langpack{"hello": "Coucou", "bye": "Au revoir", "greet": "Bonjour {name}", "pending": ""}
	if !reflect.DeepEqual(pack, want) {
		t.Errorf("filled langpack = %v, want %v", pack, want)
	}
	if len(objects.saves) != 1 {
		t.Errorf("expected exactly one write, got %v", objects.saves)
	}
}

func TestFiller_MissingTargetLangpack(t *testing.T) {
	_, r := newFillerFixture(t, `{"hello":"Hi"}`, "")

	result, err := NewFiller(r, newMockProvider()).Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !result.Saved || len(result.Translated) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestFiller_PlaceholderMismatchSkipped(t *testing.T) {
	_, r := newFillerFixture(t, `{"items":"{count} items in {box}"}`, `{}`)

	result, err := NewFiller(r, newMockProvider()).Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !reflect.DeepEqual(result.Skipped, []string{"items"}) {
		t.Errorf("Skipped = %v", result.Skipped)
	}
	if result.Saved {
		t.Error("nothing to save when every translation is rejected")
	}
}

func TestFiller_NothingToDo(t *testing.T) {
	objects, r := newFillerFixture(t, `{"hello":"Hi"}`, `{"hello":"Salut"}`)
	provider := newMockProvider()

	result, err := NewFiller(r, provider).Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if result.Changed() || provider.callCount != 0 || len(objects.saves) != 0 {
		t.Errorf("expected no work, got %+v with %d calls", result, provider.callCount)
	}
}

func TestFiller_FallbackIsNoop(t *testing.T) {
	_, r := newFillerFixture(t, `{"hello":""}`, "")
	provider := newMockProvider()

	result, err := NewFiller(r, provider).Fill(context.Background(), "app", "en")
	if err != nil || result.Changed() || provider.callCount != 0 {
		t.Errorf("filling the fallback should do nothing: %+v, %v", result, err)
	}
}

func TestFiller_Batches(t *testing.T) {
	_, r := newFillerFixture(t, `{"a":"A","b":"B","c":"C","d":"D","e":"E"}`, `{}`)
	provider := newMockProvider()

	result, err := NewFiller(r, provider, WithBatchSize(2)).Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if provider.callCount != 3 {
		t.Errorf("Expected 3 provider calls, got %d", provider.callCount)
	}
	if len(result.Translated) != 5 {
		t.Errorf("Expected 5 translations, got %d", len(result.Translated))
	}
}

func TestFiller_PruneOrphans(t *testing.T) {
	_, r := newFillerFixture(t, `{"hello":"Hi"}`, `{"hello":"Salut","old":"Vieux"}`)

	result, err := NewFiller(r, newMockProvider(), WithPruneOrphans(true)).Fill(context.Background(), "app", "fr")
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !reflect.DeepEqual(result.Pruned, []string{"old"}) || !result.Saved {
		t.Errorf("unexpected result: %+v", result)
	}

	pack, _ := r.GetLangpack(context.Background(), "app", "fr", true)
	if _, ok := pack["old"]; ok {
		t.Error("orphaned key should be removed")
	}
}

func TestFiller_ProviderErrors(t *testing.T) {
	objects, r := newFillerFixture(t, `{"hello":"Hi"}`, `{}`)

	provider := newMockProvider()
	provider.err = &ProviderError{Message: "invalid API key"}
	_, err := NewFiller(r, provider).Fill(context.Background(), "app", "fr")
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Errorf("Expected ProviderError, got: %v", err)
	}

	provider = newMockProvider()
	provider.short = true
	_, err = NewFiller(r, provider).Fill(context.Background(), "app", "fr")
	var countErr *CountMismatchError
	if !errors.As(err, &countErr) {
		t.Errorf("Expected CountMismatchError, got: %v", err)
	}

	if len(objects.saves) != 0 {
		t.Error("a failed fill must not write")
	}
}

func TestFiller_MissingSource(t *testing.T) {
	objects := newFakeObjects()
	r, _ := NewResolver(NewStore(objects), []string{"en", "fr"})

	_, err := NewFiller(r, newMockProvider()).Fill(context.Background(), "app", "fr")
	if !IsNotFound(err) {
		t.Errorf("Expected not found, got: %v", err)
	}
}

func TestFiller_FillAll(t *testing.T) {
	_, r := newFillerFixture(t, `{"hello":"Hi"}`, `{}`)

	results, err := NewFiller(r, newMockProvider()).FillAll(context.Background(), "app")
	if err != nil {
		t.Fatalf("FillAll failed: %v", err)
	}
	if len(results) != 2 || results[0].Language != "fr" || results[1].Language != "de" {
		t.Errorf("unexpected results: %+v", results)
	}
}
