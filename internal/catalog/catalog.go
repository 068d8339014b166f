// Package catalog reads locale-scoped data files and memoizes what was built from them.
// Every Cache bound to a Source is invalidated together when the Source's locale changes.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source resolves catalog files under <dir>/<locale>/, falling back to a second locale.
type Source struct {
	dir        string
	locale     string
	fallback   string
	generation int
}

func NewSource(dir, locale, fallback string) *Source {
	return &Source{dir: dir, locale: locale, fallback: fallback}
}

func (s *Source) Dir() string    { return s.dir }
func (s *Source) Locale() string { return s.locale }

// SetLocale switches locale. Caches notice the change on their next lookup.
func (s *Source) SetLocale(locale string) {
	if locale == s.locale {
		return
	}
	s.locale = locale
	s.generation++
}

// Path returns the file for rel under the active locale.
func (s *Source) Path(rel string) string {
	return filepath.Join(s.dir, s.locale, filepath.FromSlash(rel))
}

// Read decodes the file at rel (JSON or YAML) into out. A file missing from both
// the active and the fallback locale reports found=false with no error.
func (s *Source) Read(rel string, out any) (bool, error) {
	locales := []string{s.locale}
	if s.fallback != "" && s.fallback != s.locale {
		locales = append(locales, s.fallback)
	}

	for _, locale := range locales {
		path := filepath.Join(s.dir, locale, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("parsing %s: %w", path, err)
		}
		return true, nil
	}
	return false, nil
}

// ErrCachedFailure marks an error replayed from an earlier failed load of the same key.
var ErrCachedFailure = errors.New("load already failed for this locale")

// Cache memoizes values built from a Source for as long as its locale stays the same.
type Cache[K comparable, V any] struct {
	src        *Source
	generation int
	entries    map[K]entry[V]
}

type entry[V any] struct {
	value V
	err   error
}

func NewCache[K comparable, V any](src *Source) *Cache[K, V] {
	return &Cache[K, V]{src: src, generation: src.generation, entries: make(map[K]entry[V])}
}

// Get returns the cached value for key, building it with load on a miss. A failed load is
// remembered too: later calls return its error wrapped in ErrCachedFailure without loading
// again, until the locale changes or the cache is cleared.
func (c *Cache[K, V]) Get(key K, load func(*Source) (V, error)) (V, error) {
	if c.generation != c.src.generation {
		c.Clear()
		c.generation = c.src.generation
	}
	if e, ok := c.entries[key]; ok {
		if e.err != nil {
			return e.value, fmt.Errorf("%w: %w", ErrCachedFailure, e.err)
		}
		return e.value, nil
	}
	v, err := load(c.src)
	if err != nil {
		var zero V
		c.entries[key] = entry[V]{value: zero, err: err}
		return zero, err
	}
	c.entries[key] = entry[V]{value: v}
	return v, nil
}

func (c *Cache[K, V]) Clear() {
	clear(c.entries)
}

func (c *Cache[K, V]) Len() int { return len(c.entries) }
