package interaction

import (
	"fmt"
	"path"

	"clansim/internal/catalog"
	"clansim/internal/constraint"
	"clansim/internal/logger"
	"clansim/internal/relationship"
)

const (
	normalDir = "relationship_events/normal_interactions"
	groupDir  = "relationship_events/group_interactions"
)

// GroupFiles are the group interaction files read per locale.
var GroupFiles = []string{"general.json"}

// NormalPath is the catalog file for one dimension and polarity, relative to the locale root.
func NormalPath(d relationship.Dimension, p Polarity) string {
	return path.Join(normalDir, string(d), string(p)+".json")
}

func GroupPath(file string) string {
	return path.Join(groupDir, file)
}

// Load reads every interaction file for the source's locale. Missing files are
// logged and skipped; malformed entries fail the load.
func Load(src *catalog.Source, vocab constraint.Vocabulary) (*Catalog, error) {
	out := NewCatalog()

	for _, d := range relationship.Dimensions {
		for _, p := range []Polarity{Increase, Decrease} {
			rel := NormalPath(d, p)
			var list []*SingleInteraction
			found, err := src.Read(rel, &list)
			if err != nil {
				return nil, fmt.Errorf("loading interactions: %w", err)
			}
			if !found {
				logger.Log.WithField("file", rel).Warn("interaction file not found")
				continue
			}
			for _, inter := range list {
				if err := out.Add(d, p, inter, vocab); err != nil {
					return nil, fmt.Errorf("loading interactions from %s: %w", rel, err)
				}
			}
		}
	}

	for _, file := range GroupFiles {
		rel := GroupPath(file)
		var list []*GroupInteraction
		found, err := src.Read(rel, &list)
		if err != nil {
			return nil, fmt.Errorf("loading group interactions: %w", err)
		}
		if !found {
			logger.Log.WithField("file", rel).Debug("group interaction file not found")
			continue
		}
		for _, inter := range list {
			if err := out.AddGroup(inter, vocab); err != nil {
				return nil, fmt.Errorf("loading group interactions from %s: %w", rel, err)
			}
		}
	}

	return out, nil
}

// Cache memoizes the loaded catalog for the active locale.
type Cache struct {
	cache *catalog.Cache[string, *Catalog]
	vocab constraint.Vocabulary
}

func NewCache(src *catalog.Source, vocab constraint.Vocabulary) *Cache {
	return &Cache{cache: catalog.NewCache[string, *Catalog](src), vocab: vocab}
}

func (c *Cache) Catalog() (*Catalog, error) {
	return c.cache.Get("interactions", func(src *catalog.Source) (*Catalog, error) {
		return Load(src, c.vocab)
	})
}

func (c *Cache) Clear() { c.cache.Clear() }
