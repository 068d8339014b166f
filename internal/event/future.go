package event

import (
	"slices"

	"clansim/internal/dice"
)

// FutureEvent is a follow-up scheduled by an executed event.
type FutureEvent struct {
	ParentEvent string `json:"parent_event"`
	EventType   string `json:"event_type"`
	Pool        Pool   `json:"pool"`
	MoonDelay   int    `json:"moon_delay"`
	// InvolvedCats maps a role in the follow-up to a cat ID.
	InvolvedCats map[string]string `json:"involved_cats"`
	Triggered    bool              `json:"triggered"`
}

// IgnoreSubTyping is true when the pool names no sub types; the follow-up then ignores them.
func (f *FutureEvent) IgnoreSubTyping() bool { return len(f.Pool.SubType) == 0 }

func (r *run) scheduleFuture() {
	block := r.e.FutureEvent
	if block == nil {
		return
	}
	delay := 0
	switch len(block.MoonDelay) {
	case 1:
		delay = block.MoonDelay[0]
	case 2:
		delay = dice.Between(r.g.rng, block.MoonDelay[0], block.MoonDelay[1])
	}

	involved := make(map[string]string, len(block.InvolvedCats))
	for role, from := range block.InvolvedCats {
		if c := r.first(from); c != nil {
			involved[role] = c.ID
		}
	}
	r.g.futures = append(r.g.futures, &FutureEvent{
		ParentEvent:  r.e.ID,
		EventType:    block.EventType,
		Pool:         block.Pool,
		MoonDelay:    delay,
		InvolvedCats: involved,
	})
}

// Futures lists the follow-ups still waiting.
func (g *Generator) Futures() []*FutureEvent { return g.futures }

// Schedule adds follow-ups, for instance ones restored from a save.
func (g *Generator) Schedule(futures ...*FutureEvent) {
	g.futures = append(g.futures, futures...)
}

// RunFutures counts every waiting follow-up down by one moon and runs those that are due.
// Follow-ups that found no event stay queued for the next moon; those whose cats are gone are dropped.
func (g *Generator) RunFutures() ([]*Record, error) {
	var records []*Record
	for _, f := range g.futures {
		f.MoonDelay--
		if f.MoonDelay > 0 {
			continue
		}
		main, ok := g.clan.Get(f.InvolvedCats[RoleMain])
		if !ok {
			f.Triggered = true
			continue
		}
		req := Request{
			Type:     f.EventType,
			Main:     main,
			SubTypes: f.Pool.SubType,
			Future:   f,
		}
		if id, ok := f.InvolvedCats[RoleRandom]; ok {
			if req.Random, ok = g.clan.Get(id); !ok {
				f.Triggered = true
				continue
			}
		}
		if id, ok := f.InvolvedCats[RoleVictim]; ok {
			req.Victim, _ = g.clan.Get(id)
		}
		rec, err := g.Generate(req)
		if err != nil {
			return records, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	g.futures = slices.DeleteFunc(g.futures, func(f *FutureEvent) bool { return f.Triggered })
	return records, nil
}
