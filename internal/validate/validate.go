// Package validate lints a locale's catalogs without running a simulation. Unlike the
// loaders, it keeps going after a bad entry so every problem is reported at once.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"clansim/internal/catalog"
	"clansim/internal/config"
	"clansim/internal/event"
	"clansim/internal/interaction"
	"clansim/internal/relationship"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeUnreadableFile      = "unreadable_file"
	codeMissingFile         = "missing_file"
	codeInvalidEntry        = "invalid_entry"
	codeDuplicateID         = "duplicate_id"
	codeDanglingPlaceholder = "dangling_placeholder"
	codeUnknownReference    = "unknown_reference"
	codeWrongBiome          = "wrong_biome"
	codeUnknownTrait        = "unknown_trait"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	File     string
	Entry    string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Errors() []Issue   { return r.filter(SeverityError) }
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarn) }

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Report) add(severity Severity, code, file, entry, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Entry:    entry,
	})
}

// Run lints every interaction and event file for the source's locale against vocab.
func Run(src *catalog.Source, vocab *config.Vocabulary) (*Report, error) {
	if src == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if vocab == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}

	r := &Report{}
	checkVocabulary(r, vocab)
	checkInteractions(r, src, vocab)
	checkEvents(r, src, vocab)
	return r, nil
}

func checkVocabulary(r *Report, vocab *config.Vocabulary) {
	for trait, affinity := range vocab.Compatibility {
		for _, name := range append(append([]string{trait}, affinity.Positive...), affinity.Negative...) {
			if !vocab.IsTrait(name) {
				r.add(SeverityWarn, codeUnknownTrait, "vocabulary", trait, "compatibility names unknown trait %q", name)
			}
		}
	}
}

func checkInteractions(r *Report, src *catalog.Source, vocab *config.Vocabulary) {
	seen := map[string]string{}
	for _, d := range relationship.Dimensions {
		for _, p := range []interaction.Polarity{interaction.Increase, interaction.Decrease} {
			file := interaction.NormalPath(d, p)
			var list []*interaction.SingleInteraction
			if !read(r, src, file, &list, SeverityWarn) {
				continue
			}
			for _, inter := range list {
				if err := inter.Compile(vocab); err != nil {
					r.add(SeverityError, codeInvalidEntry, file, inter.ID, "%v", err)
					continue
				}
				duplicate(r, seen, file, inter.ID)
				for _, text := range inter.Interactions {
					placeholders(r, file, inter.ID, text, []string{interaction.RoleMain, interaction.RoleRandom}, 0)
				}
			}
		}
	}

	for _, name := range interaction.GroupFiles {
		file := interaction.GroupPath(name)
		var list []*interaction.GroupInteraction
		if !read(r, src, file, &list, "") {
			continue
		}
		for _, inter := range list {
			if err := inter.Compile(vocab); err != nil {
				r.add(SeverityError, codeInvalidEntry, file, inter.ID, "%v", err)
				continue
			}
			duplicate(r, seen, file, inter.ID)
			roles := []string{interaction.RoleMain}
			for i := 1; i < inter.CatAmount; i++ {
				roles = append(roles, interaction.RoleRandom+strconv.Itoa(i))
			}
			for _, text := range inter.Interactions {
				placeholders(r, file, inter.ID, text, roles, 0)
			}
		}
	}
}

func checkEvents(r *Report, src *catalog.Source, vocab *config.Vocabulary) {
	seen := map[string]string{}
	var all []*event.ShortEvent
	files := map[*event.ShortEvent]string{}

	for _, eventType := range event.CatalogTypes {
		for _, biome := range append(slices.Clone(config.Biomes), "general") {
			file := event.Path(eventType, biome)
			var list []*event.ShortEvent
			if !read(r, src, file, &list, "") {
				continue
			}
			for _, e := range list {
				if err := e.Compile(vocab); err != nil {
					r.add(SeverityError, codeInvalidEntry, file, e.ID, "%v", err)
					continue
				}
				duplicate(r, seen, file, e.ID)
				if biome != "general" && !slices.Contains(e.Location, "any") && !slices.Contains(e.Location, biome) {
					r.add(SeverityWarn, codeWrongBiome, file, e.ID, "location %v never matches the %s file", e.Location, biome)
				}

				roles := []string{event.RoleMain, event.RoleVictim}
				if e.NeedsRandom() {
					roles = append(roles, event.RoleRandom)
				}
				placeholders(r, file, e.ID, e.EventText, roles, len(e.NewCat))
				placeholders(r, file, e.ID, e.DeathText, roles, len(e.NewCat))
				all = append(all, e)
				files[e] = file
			}
		}
	}

	for _, e := range all {
		if e.FutureEvent == nil {
			continue
		}
		pool := e.FutureEvent.Pool
		for _, id := range append(slices.Clone(pool.EventID), pool.ExcludedEventID...) {
			if _, ok := seen[id]; !ok {
				r.add(SeverityWarn, codeUnknownReference, files[e], e.ID, "future event pool names unknown event %q", id)
			}
		}
	}
}

// read decodes one file. A missing file is reported at missing, or ignored when missing is empty.
func read(r *Report, src *catalog.Source, file string, out any, missing Severity) bool {
	found, err := src.Read(file, out)
	if err != nil {
		r.add(SeverityError, codeUnreadableFile, file, "", "%v", err)
		return false
	}
	if !found {
		if missing != "" {
			r.add(missing, codeMissingFile, file, "", "file not found")
		}
		return false
	}
	return true
}

func duplicate(r *Report, seen map[string]string, file, id string) {
	if first, ok := seen[id]; ok {
		r.add(SeverityError, codeDuplicateID, file, id, "id already used in %s", first)
		return
	}
	seen[id] = file
}

var rolePattern = regexp.MustCompile(`\b(m_c|r_c\d*|mur_c|n_c:\d+)\b`)

// placeholders flags role abbreviations in text that no cat will fill.
func placeholders(r *Report, file, id, text string, roles []string, newCats int) {
	for _, role := range rolePattern.FindAllString(text, -1) {
		if n, ok := strings.CutPrefix(role, "n_c:"); ok {
			if i, _ := strconv.Atoi(n); i < newCats {
				continue
			}
		} else if slices.Contains(roles, role) {
			continue
		}
		r.add(SeverityWarn, codeDanglingPlaceholder, file, id, "text names %s but the entry never binds it", role)
	}
}
