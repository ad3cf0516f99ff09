package factory

import (
	"time"

	"github.com/mcoot/tilegame/internal/dependencies/mocks"
	"github.com/mcoot/tilegame/internal/storage/memory"
	"github.com/mcoot/tilegame/internal/testutil"
)

// TestDictionary is the name of the word list loaded by LoadTestDictionary
const TestDictionary = "Test"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, "", testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() {
	words := []string{
		"at", "be", "do", "go", "he", "if", "in", "is", "it", "me",
		"no", "of", "on", "or", "so", "to", "up", "us", "we",
		"ace", "act", "ant", "art", "ate", "bat", "bet", "cat", "cot", "dog",
		"eat", "ear", "era", "net", "not", "oat", "one", "ore", "rat", "rot",
		"sat", "sea", "set", "sit", "tan", "tea", "ten", "tin", "toe", "ton",
		"cats", "coat", "note", "rate", "seat", "star", "tone", "tore",
	}
	t.DictionaryService.LoadWords(TestDictionary, words)
}
