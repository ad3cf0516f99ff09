package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/tilegame/internal/model"
	"github.com/mcoot/tilegame/internal/storage"
)

// Normalize converts a word to the canonical (upper) case used for lookups
func Normalize(word string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(word))
}

// Dictionary is a named word list plus an in-memory whitelist
type Dictionary struct {
	name string

	mu        sync.RWMutex
	words     map[string]struct{}
	whitelist map[string]struct{}
}

// NewDictionary creates a dictionary from a list of words
func NewDictionary(name string, words []string) *Dictionary {
	d := &Dictionary{
		name:      name,
		words:     make(map[string]struct{}, len(words)),
		whitelist: make(map[string]struct{}),
	}
	for _, w := range words {
		if w = Normalize(w); w != "" {
			d.words[w] = struct{}{}
		}
	}
	return d
}

// Name returns the dictionary name
func (d *Dictionary) Name() string {
	return d.name
}

// HasWord checks the word list and the whitelist
func (d *Dictionary) HasWord(word string) bool {
	word = Normalize(word)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.words[word]; ok {
		return true
	}
	_, ok := d.whitelist[word]
	return ok
}

// AddWord whitelists a word. Returns false if the word was already known.
// The whitelist lives only in memory.
func (d *Dictionary) AddWord(word string) bool {
	word = Normalize(word)
	if word == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.words[word]; ok {
		return false
	}
	if _, ok := d.whitelist[word]; ok {
		return false
	}
	d.whitelist[word] = struct{}{}
	return true
}

// WordCount returns the number of words, whitelist included
func (d *Dictionary) WordCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words) + len(d.whitelist)
}

var _ model.WordList = (*Dictionary)(nil)

// Service resolves dictionaries by name, loading them on first use from
// storage or from <dir>/<name>.txt
type Service struct {
	storage storage.Storage
	dir     string
	logger  *slog.Logger

	mu           sync.RWMutex
	dictionaries map[string]*Dictionary
}

// New creates a new DictionaryService
func New(storage storage.Storage, dir string, logger *slog.Logger) *Service {
	return &Service{
		storage:      storage,
		dir:          dir,
		logger:       logger.With(slog.String("component", "dictionary")),
		dictionaries: make(map[string]*Dictionary),
	}
}

// Dictionary returns the named dictionary, loading it if needed.
// Fails with ErrDictionaryNotLoaded when no source has it.
func (s *Service) Dictionary(ctx context.Context, name string) (model.WordList, error) {
	if name == "" {
		return nil, model.ErrDictionaryNotLoaded
	}

	s.mu.RLock()
	d, ok := s.dictionaries[name]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	if err := s.LoadFromStorage(ctx, name); err == nil {
		return s.cached(name), nil
	} else if !errors.Is(err, model.ErrDictionaryNotLoaded) {
		return nil, err
	}

	if s.dir != "" {
		path := filepath.Join(s.dir, name+".txt")
		if err := s.LoadFromFile(ctx, name, path); err == nil {
			return s.cached(name), nil
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s", model.ErrDictionaryNotLoaded, name)
}

// LoadFromStorage loads a dictionary's words from storage
func (s *Service) LoadFromStorage(ctx context.Context, name string) error {
	words, err := s.storage.GetDictionaryWords(ctx, name)
	if err != nil {
		return err
	}
	s.LoadWords(name, words)
	return nil
}

// LoadFromFile loads dictionary words from a file (one word per line)
// and saves them to storage for future use
func (s *Service) LoadFromFile(ctx context.Context, name, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.storage.SaveDictionaryWords(ctx, name, words); err != nil {
		return err
	}

	s.LoadWords(name, words)
	return nil
}

// LoadWords directly installs a dictionary (useful for testing)
func (s *Service) LoadWords(name string, words []string) {
	d := NewDictionary(name, words)

	s.mu.Lock()
	s.dictionaries[name] = d
	s.mu.Unlock()

	s.logger.Info("dictionary loaded",
		slog.String("dictionary", name),
		slog.Int("words", d.WordCount()),
	)
}

// IsLoaded returns whether a dictionary is in memory
func (s *Service) IsLoaded(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dictionaries[name]
	return ok
}

func (s *Service) cached(name string) *Dictionary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionaries[name]
}

// Interface check
type ServiceInterface interface {
	Dictionary(ctx context.Context, name string) (model.WordList, error)
	LoadFromStorage(ctx context.Context, name string) error
	LoadFromFile(ctx context.Context, name, path string) error
	LoadWords(name string, words []string)
	IsLoaded(name string) bool
}

var _ ServiceInterface = (*Service)(nil)
