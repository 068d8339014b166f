// Package sim advances a clan one moon at a time: cats age, pairs interact, short
// events roll, and everything the moon produced is handed to the store.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/dice"
	"clansim/internal/event"
	"clansim/internal/interaction"
	"clansim/internal/logger"
	"clansim/internal/store"
)

type Options struct {
	Clan         *clan.Clan
	Interactions *interaction.Engine
	Events       *event.Generator
	// Store is optional; without one moons are only reported.
	Store  store.Store
	Config config.SimulationConfig
	Rand   *rand.Rand
	// StartMoon is the last moon already played, for numbering resumed runs.
	StartMoon int
}

type Simulator struct {
	clan   *clan.Clan
	inter  *interaction.Engine
	events *event.Generator
	store  store.Store
	cfg    config.SimulationConfig
	rng    *rand.Rand
	moon   int
}

// Report is what one moon produced.
type Report struct {
	Moon    int
	Records []event.Record
	// Died lists cats alive at the start of the moon and dead at its end.
	Died []string
}

func New(opts Options) (*Simulator, error) {
	if opts.Clan == nil || opts.Interactions == nil || opts.Events == nil {
		return nil, fmt.Errorf("simulator needs a clan, an interaction engine and an event generator")
	}
	return &Simulator{
		clan:   opts.Clan,
		inter:  opts.Interactions,
		events: opts.Events,
		store:  opts.Store,
		cfg:    opts.Config,
		rng:    opts.Rand,
		moon:   opts.StartMoon,
	}, nil
}

// Current is the last moon played.
func (s *Simulator) Current() int { return s.moon }

// Run plays moons one after another and stops at the first error.
func (s *Simulator) Run(ctx context.Context, moons int) ([]*Report, error) {
	reports := make([]*Report, 0, moons)
	for range moons {
		report, err := s.Moon(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Moon plays a single moon.
func (s *Simulator) Moon(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.moon++
	s.clan.Age++
	for _, c := range s.clan.All() {
		if c.Dead {
			continue
		}
		c.Moons++
		if c.Status != nil {
			c.Status.IncreaseCurrentMoonsAs()
		}
	}

	report := &Report{Moon: s.moon}
	living := s.clan.Living()
	add := func(rec *event.Record) {
		if rec == nil {
			return
		}
		rec.Moon = s.moon
		report.Records = append(report.Records, *rec)
	}

	if err := s.interact(living, add); err != nil {
		return nil, err
	}

	futures, err := s.events.RunFutures()
	if err != nil {
		return nil, fmt.Errorf("running future events: %w", err)
	}
	for _, rec := range futures {
		add(rec)
	}

	if err := s.rollEvents(living, add); err != nil {
		return nil, err
	}

	for _, c := range living {
		if c.Dead {
			report.Died = append(report.Died, c.ID)
		}
	}

	if err := s.persist(ctx, report); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"moon":   s.moon,
		"events": len(report.Records),
		"living": s.clan.LivingCount(),
		"died":   len(report.Died),
	}).Info("moon played")
	return report, nil
}

// interact runs a bounded sample of ordered pairs per cat, then the configured group interactions.
func (s *Simulator) interact(living []*cat.Cat, add func(*event.Record)) error {
	env := interaction.Environment{Biome: s.clan.Biome, Season: s.clan.Season}
	for _, from := range living {
		var others []*cat.Cat
		for _, c := range living {
			if c.ID != from.ID {
				others = append(others, c)
			}
		}
		for _, to := range dice.Sample(s.rng, others, s.cfg.InteractionsPerCat) {
			out, err := s.inter.Run(from, to, env)
			if err != nil {
				return err
			}
			add(fromOutcome(out))
		}
	}

	if len(living) < 3 {
		return nil
	}
	for range s.cfg.GroupInteractions {
		out, err := s.inter.RunGroup(dice.Choice(s.rng, living), living, env)
		if err != nil {
			return err
		}
		add(fromOutcome(out))
	}
	return nil
}

// rollEvents gives every cat living at the start of the moon one chance per event type.
func (s *Simulator) rollEvents(living []*cat.Cat, add func(*event.Record)) error {
	for _, c := range living {
		for _, eventType := range s.cfg.EventTypes {
			if !c.AliveInHomeClan() {
				break
			}
			if dice.IntN(s.rng, 100) >= s.cfg.EventChance {
				continue
			}
			rec, err := s.events.Generate(event.Request{Type: eventType, Main: c})
			if err != nil {
				return fmt.Errorf("generating %s event for %s: %w", eventType, c.ID, err)
			}
			add(rec)
		}
	}
	return nil
}

func (s *Simulator) persist(ctx context.Context, report *Report) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveRelationships(ctx, report.Moon, s.inter.Registry().Snapshots()); err != nil {
		return err
	}
	if err := s.store.AppendEvents(ctx, report.Moon, report.Records); err != nil {
		return err
	}
	for _, c := range s.clan.All() {
		if c.Status == nil {
			continue
		}
		if err := s.store.SaveStatus(ctx, c.ID, c.Status.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func fromOutcome(out *interaction.Outcome) *event.Record {
	if out == nil {
		return nil
	}
	return &event.Record{
		EventID: out.InteractionID,
		Text:    out.Text,
		Types:   out.Tags,
		CatIDs:  out.CatIDs,
	}
}
