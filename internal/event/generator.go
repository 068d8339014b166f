package event

import (
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/dice"
	"clansim/internal/logger"
	"clansim/internal/relationship"
)

// Sub types with built-in handling.
const (
	SubWar          = "war"
	SubMurder       = "murder"
	SubMassDeath    = "mass_death"
	SubOldAge       = "old_age"
	SubTransition   = "transition"
	SubMurderReveal = "murder_reveal"
	SubHiddenReveal = "hidden_murder_reveal"
)

// Tags with built-in handling.
const (
	TagAllLives       = "all_lives"
	TagSomeLives      = "some_lives"
	TagNoBody         = "no_body"
	TagLost           = "lost"
	TagClanWide       = "clan_wide"
	TagKitManipulated = "kit_manipulated"
	TagRomantic       = "romantic"
)

// maxQueries bounds the frequency ladder: four tiers, tried at most twice.
const maxQueries = 2 * 4

type Config struct {
	Generation config.EventGenerationConfig
	Death      config.DeathConfig
}

type Options struct {
	Source     Source
	Clan       *clan.Clan
	Registry   *relationship.Registry
	Rules      cat.Rules
	Vocabulary *config.Vocabulary
	Config     Config
	Rand       *rand.Rand
}

// Generator picks and executes short events against one clan. It remembers the
// events it used so they are not repeated until the catalog runs dry.
type Generator struct {
	source  Source
	clan    *clan.Clan
	rels    *relationship.Registry
	rules   cat.Rules
	vocab   *config.Vocabulary
	cfg     Config
	rng     *rand.Rand
	used    map[string]struct{}
	futures []*FutureEvent
}

func NewGenerator(opts Options) *Generator {
	rels := opts.Registry
	if rels == nil {
		rels = relationship.NewRegistry(nil)
	}
	cfg := opts.Config
	defaults := config.Defaults().DeathRelated
	if cfg.Death.OldAgeDeathStart == 0 {
		cfg.Death.OldAgeDeathStart = defaults.OldAgeDeathStart
	}
	if cfg.Death.LeaderFullDeathMinMoons == 0 {
		cfg.Death.LeaderFullDeathMinMoons = defaults.LeaderFullDeathMinMoons
	}
	return &Generator{
		source: opts.Source,
		clan:   opts.Clan,
		rels:   rels,
		rules:  opts.Rules,
		vocab:  opts.Vocabulary,
		cfg:    cfg,
		rng:    opts.Rand,
		used:   make(map[string]struct{}),
	}
}

func (g *Generator) Registry() *relationship.Registry { return g.rels }

// Used lists the event IDs used since the last reset, sorted.
func (g *Generator) Used() []string {
	out := make([]string, 0, len(g.used))
	for id := range g.used {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Request asks for one event of Type with Main in the m_c role.
type Request struct {
	Type     string
	Main     *cat.Cat
	Random   *cat.Cat
	Victim   *cat.Cat
	SubTypes []string
	// Future is set when a scheduled follow-up triggers the request.
	Future *FutureEvent
}

// query is what the filter needs to know about one request.
type query struct {
	main, random *cat.Cat
	other        *clan.OtherClan
	subTypes     []string
	allowed      []string
	excluded     []string
	ignoreSub    bool
	avoidance    int
}

// Generate finds an event for the request and executes it. It returns nil with no
// error when nothing fits; the warning is logged.
func (g *Generator) Generate(req Request) (*Record, error) {
	if req.Main == nil {
		return nil, nil
	}
	if !req.Main.AliveInHomeClan() || req.Random != nil && !req.Random.AliveInHomeClan() {
		if req.Future != nil {
			// Nobody is left to play it; drop the future event.
			req.Future.Triggered = true
		}
		return nil, nil
	}

	q := &query{
		main:      req.Main,
		random:    req.Random,
		subTypes:  slices.Clone(req.SubTypes),
		avoidance: g.clan.CampAvoidance(),
	}
	other, war := g.clan.PickOtherClan(g.rng)
	q.other = other
	if war {
		q.subTypes = append(q.subTypes, SubWar)
	}
	if f := req.Future; f != nil {
		q.allowed = f.Pool.EventID
		q.excluded = f.Pool.ExcludedEventID
		q.ignoreSub = f.IgnoreSubTyping()
	}

	chosen, random := g.selectEvent(req.Type, q)
	if chosen == nil {
		logger.Log.WithFields(logrus.Fields{
			"type":      req.Type,
			"sub_types": q.subTypes,
			"main":      req.Main.ID,
		}).Warn("no event found")
		return nil, nil
	}

	g.used[chosen.ID] = struct{}{}
	if req.Future != nil {
		req.Future.Triggered = true
	}
	logger.Log.WithFields(logrus.Fields{
		"event": chosen.ID,
		"main":  req.Main.ID,
	}).Debug("event chosen")

	r := &run{
		g:      g,
		e:      chosen,
		main:   req.Main,
		random: random,
		victim: req.Victim,
		other:  other,
		rec:    &Record{EventID: chosen.ID, Types: []string{req.Type}},
	}
	return r.execute()
}

// selectEvent walks the frequency ladder. A roll picks the starting tier; each miss moves to the
// next more common tier. Missing at the most common tier clears the used set once and retries it.
func (g *Generator) selectEvent(eventType string, q *query) (*ShortEvent, *cat.Cat) {
	frequency := rollFrequency(g)
	for queries := 0; frequency < 5 && queries < maxQueries; queries++ {
		candidates := g.filter(eventsFor(g.source, eventType, g.clan.Biome, frequency), q)
		if e, random := g.choose(candidates, q); e != nil {
			return e, random
		}
		frequency++
		if frequency == 5 && len(g.used) > 0 {
			clear(g.used)
			frequency = 4
		}
	}
	return nil, nil
}

// rollFrequency reads "in how many of ten moons should this kind of event appear".
func rollFrequency(g *Generator) int {
	switch roll := dice.Between(g.rng, 1, 10); {
	case roll <= 4:
		return 4
	case roll <= 7:
		return 3
	case roll <= 9:
		return 2
	default:
		return 1
	}
}
