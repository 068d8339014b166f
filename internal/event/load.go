package event

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"clansim/internal/catalog"
	"clansim/internal/config"
	"clansim/internal/logger"
)

const (
	eventsDir   = "events"
	generalFile = "general"
)

// CatalogTypes are the event directories a locale carries.
var CatalogTypes = []string{TypeDeath, TypeInjury, TypeMisc, TypeNewCat}

// CatalogType maps the type a caller asks for onto the directory its events live in.
func CatalogType(eventType string) string {
	switch eventType {
	case TypeBirthDeath:
		return TypeDeath
	case TypeHealth:
		return TypeInjury
	}
	return eventType
}

// Path is the catalog file for one type and biome, relative to the locale root.
func Path(eventType, biome string) string {
	return path.Join(eventsDir, CatalogType(eventType), strings.ToLower(biome)+".json")
}

// Load reads and compiles one events file. A missing file yields no events and no error.
func Load(src *catalog.Source, eventType, biome string, vocab *config.Vocabulary) ([]*ShortEvent, error) {
	rel := Path(eventType, biome)
	var list []*ShortEvent
	found, err := src.Read(rel, &list)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	if !found {
		logger.Log.WithField("file", rel).Debug("event file not found")
		return nil, nil
	}
	for _, e := range list {
		if err := e.Compile(vocab); err != nil {
			return nil, fmt.Errorf("loading events from %s: %w", rel, err)
		}
	}
	return list, nil
}

// Source provides the compiled events of one (type, biome) file.
type Source interface {
	Events(eventType, biome string) ([]*ShortEvent, error)
}

type fileKey struct {
	eventType string
	biome     string
}

// Cache memoizes event files per (type, biome) for the active locale.
type Cache struct {
	cache *catalog.Cache[fileKey, []*ShortEvent]
	vocab *config.Vocabulary
}

func NewCache(src *catalog.Source, vocab *config.Vocabulary) *Cache {
	return &Cache{cache: catalog.NewCache[fileKey, []*ShortEvent](src), vocab: vocab}
}

func (c *Cache) Events(eventType, biome string) ([]*ShortEvent, error) {
	key := fileKey{CatalogType(eventType), strings.ToLower(biome)}
	return c.cache.Get(key, func(src *catalog.Source) ([]*ShortEvent, error) {
		return Load(src, key.eventType, key.biome, c.vocab)
	})
}

func (c *Cache) Clear() { c.cache.Clear() }

// Static serves events from memory, keyed by "<type>/<biome>".
type Static map[string][]*ShortEvent

func (s Static) Events(eventType, biome string) ([]*ShortEvent, error) {
	return s[CatalogType(eventType)+"/"+strings.ToLower(biome)], nil
}

// eventsFor collects the biome file and the general file, keeping entries of one frequency.
func eventsFor(src Source, eventType, biome string, frequency int) []*ShortEvent {
	var out []*ShortEvent
	for _, file := range []string{biome, generalFile} {
		list, err := src.Events(eventType, file)
		if errors.Is(err, catalog.ErrCachedFailure) {
			continue
		}
		if err != nil {
			logger.Log.WithError(err).WithField("file", Path(eventType, file)).Warn("event file could not be loaded")
			continue
		}
		for _, e := range list {
			if e.Frequency == frequency {
				out = append(out, e)
			}
		}
	}
	return out
}
