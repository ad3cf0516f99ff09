package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/tilegame/internal/model"
)

// MockWordList is an in-memory word list
type MockWordList struct {
	name  string
	words map[string]bool
}

// NewMockWordList creates a word list holding the given words
func NewMockWordList(name string, words ...string) *MockWordList {
	w := &MockWordList{name: name, words: make(map[string]bool)}
	for _, word := range words {
		w.words[strings.ToUpper(word)] = true
	}
	return w
}

func (w *MockWordList) Name() string { return w.name }

func (w *MockWordList) HasWord(word string) bool { return w.words[strings.ToUpper(word)] }

func (w *MockWordList) AddWord(word string) bool {
	word = strings.ToUpper(word)
	if w.words[word] {
		return false
	}
	w.words[word] = true
	return true
}

// MockDictionaries serves word lists by name; unknown names are unavailable
type MockDictionaries struct {
	Lists map[string]*MockWordList
}

// NewMockDictionaries creates a MockDictionaries serving the given lists
func NewMockDictionaries(lists ...*MockWordList) *MockDictionaries {
	d := &MockDictionaries{Lists: make(map[string]*MockWordList)}
	for _, l := range lists {
		d.Lists[l.name] = l
	}
	return d
}

func (d *MockDictionaries) Dictionary(ctx context.Context, name string) (model.WordList, error) {
	l, ok := d.Lists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDictionaryNotLoaded, name)
	}
	return l, nil
}
