// Package event holds the short event catalog and the generator that picks, binds
// and executes one event for a cat.
package event

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/constraint"
	"clansim/internal/relationship"
	"clansim/internal/status"
)

// Role abbreviations used in event text and effect blocks.
const (
	RoleMain     = "m_c"
	RoleRandom   = "r_c"
	RoleVictim   = "mur_c"
	RoleMulti    = "multi_cat"
	RoleClan     = "clan"
	RoleSomeClan = "some_clan"
	newCatPrefix = "n_c:"
)

// DefaultFrequency is used when an entry sets none. 4 is the most common tier.
const DefaultFrequency = 4

// Accessory group names accepted in new_accessory.
const (
	AccessoryWild   = "WILD"
	AccessoryPlant  = "PLANT"
	AccessoryCollar = "COLLAR"
)

type InjuryBlock struct {
	Cats     []string `yaml:"cats" json:"cats"`
	Injuries []string `yaml:"injuries" json:"injuries"`
}

type HistoryBlock struct {
	Cats      []string `yaml:"cats" json:"cats"`
	RegDeath  string   `yaml:"reg_death" json:"reg_death,omitempty"`
	LeadDeath string   `yaml:"lead_death" json:"lead_death,omitempty"`
	Scar      string   `yaml:"scar" json:"scar,omitempty"`
}

type RelationshipBlock struct {
	CatsFrom []string `yaml:"cats_from" json:"cats_from"`
	CatsTo   []string `yaml:"cats_to" json:"cats_to"`
	Mutual   bool     `yaml:"mutual" json:"mutual"`
	Values   []string `yaml:"values" json:"values"`
	Amount   int      `yaml:"amount" json:"amount"`
}

// ReputationBlock gates on a reputation tier and shifts it when the event runs.
type ReputationBlock struct {
	CurrentRep []string `yaml:"current_rep" json:"current_rep"`
	Changed    int      `yaml:"changed" json:"changed"`
}

func (r *ReputationBlock) allows(tier string) bool {
	return len(r.CurrentRep) == 0 || slices.Contains(r.CurrentRep, constraint.Any) || slices.Contains(r.CurrentRep, tier)
}

// SupplyBlock adjusts freshkill or herbs. Type is "freshkill", "all_herb", "any_herb" or a herb name.
type SupplyBlock struct {
	Type    string   `yaml:"type" json:"type"`
	Trigger []string `yaml:"trigger" json:"trigger"`
	Adjust  string   `yaml:"adjust" json:"adjust"`
}

const (
	SupplyFreshkill = "freshkill"
	SupplyAllHerb   = "all_herb"
	SupplyAnyHerb   = "any_herb"
)

// Supply adjustments. increase_N adds N.
const (
	ReduceFull     = "reduce_full"
	ReduceHalf     = "reduce_half"
	ReduceQuarter  = "reduce_quarter"
	ReduceEighth   = "reduce_eighth"
	increasePrefix = "increase_"
)

// adjustment returns the fraction kept and the amount added.
func adjustment(adjust string) (keep float64, add int, err error) {
	switch adjust {
	case ReduceFull:
		return 0, 0, nil
	case ReduceHalf:
		return 0.5, 0, nil
	case ReduceQuarter:
		return 0.75, 0, nil
	case ReduceEighth:
		return 0.875, 0, nil
	}
	if n, ok := strings.CutPrefix(adjust, increasePrefix); ok {
		amount, err := strconv.Atoi(n)
		if err != nil || amount <= 0 {
			return 0, 0, fmt.Errorf("%w: adjust %q", constraint.ErrUnknownValue, adjust)
		}
		return 1, amount, nil
	}
	return 0, 0, fmt.Errorf("%w: adjust %q", constraint.ErrUnknownValue, adjust)
}

// FutureBlock schedules a follow-up event. InvolvedCats maps a role in the follow-up to a role in this event.
type FutureBlock struct {
	EventType    string            `yaml:"event_type" json:"event_type"`
	Pool         Pool              `yaml:"pool" json:"pool"`
	MoonDelay    []int             `yaml:"moon_delay" json:"moon_delay"`
	InvolvedCats map[string]string `yaml:"involved_cats" json:"involved_cats"`
}

// Pool narrows the events a future event may pick.
type Pool struct {
	EventID         []string `yaml:"event_id" json:"event_id,omitempty"`
	ExcludedEventID []string `yaml:"excluded_event_id" json:"excluded_event_id,omitempty"`
	SubType         []string `yaml:"sub_type" json:"sub_type,omitempty"`
}

// ShortEvent is one catalog entry. It is read-only once compiled; a run keeps its own state.
type ShortEvent struct {
	ID              string              `yaml:"event_id"`
	Location        []string            `yaml:"location"`
	Season          []string            `yaml:"season"`
	SubType         []string            `yaml:"sub_type"`
	Tags            []string            `yaml:"tags"`
	EventText       string              `yaml:"event_text"`
	DeathText       string              `yaml:"death_text"`
	Frequency       int                 `yaml:"frequency"`
	Main            constraint.Spec     `yaml:"m_c"`
	Random          *constraint.Spec    `yaml:"r_c"`
	NewAccessory    []string            `yaml:"new_accessory"`
	NewCat          [][]string          `yaml:"new_cat"`
	Injury          []InjuryBlock       `yaml:"injury"`
	ExcludeInvolved []string            `yaml:"exclude_involved"`
	History         []HistoryBlock      `yaml:"history"`
	Relationships   []RelationshipBlock `yaml:"relationships"`
	Outsider        *ReputationBlock    `yaml:"outsider"`
	OtherClan       *ReputationBlock    `yaml:"other_clan"`
	Supplies        []SupplyBlock       `yaml:"supplies"`
	NewGender       []string            `yaml:"new_gender"`
	FutureEvent     *FutureBlock        `yaml:"future_event"`

	// Weight is the selection weight, higher for more specific entries. Always at least 1.
	Weight int `yaml:"-"`
}

// Text is the entry's narration, falling back to death_text.
func (e *ShortEvent) Text() string {
	if e.EventText != "" {
		return e.EventText
	}
	return e.DeathText
}

func (e *ShortEvent) HasSubType(s string) bool { return slices.Contains(e.SubType, s) }
func (e *ShortEvent) HasTag(s string) bool     { return slices.Contains(e.Tags, s) }

// NeedsRandom reports whether the entry binds an r_c.
func (e *ShortEvent) NeedsRandom() bool { return e.Random != nil }

// Compile fills defaults, validates every name against vocab and computes Weight.
// A nil vocab skips the vocabulary checks.
func (e *ShortEvent) Compile(vocab *config.Vocabulary) error {
	if e.ID == "" {
		return fmt.Errorf("event without event_id")
	}
	if e.Frequency == 0 {
		e.Frequency = DefaultFrequency
	}
	if e.Frequency < 1 || e.Frequency > 4 {
		return fmt.Errorf("event %s: frequency must be 1..4, got %d", e.ID, e.Frequency)
	}
	if e.Text() == "" {
		return fmt.Errorf("event %s: no event_text", e.ID)
	}
	if len(e.Location) == 0 {
		e.Location = []string{constraint.Any}
	}
	if len(e.Season) == 0 {
		e.Season = []string{constraint.Any}
	}
	if err := checkPlaces(e.Location, e.Season); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}

	specVocab := specVocabulary(vocab)
	if err := e.Main.Compile(specVocab); err != nil {
		return fmt.Errorf("event %s: m_c: %w", e.ID, err)
	}
	if e.Random != nil {
		if err := e.Random.Compile(specVocab); err != nil {
			return fmt.Errorf("event %s: r_c: %w", e.ID, err)
		}
	}

	if err := e.checkBlocks(vocab); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}

	e.Weight = e.weight(vocab.NumTraits())
	return nil
}

// specVocabulary keeps a nil vocabulary an untyped nil inside the interface.
func specVocabulary(vocab *config.Vocabulary) constraint.Vocabulary {
	if vocab == nil {
		return nil
	}
	return vocab
}

func (e *ShortEvent) checkBlocks(vocab *config.Vocabulary) error {
	roles := e.roles()
	checkRoles := func(block string, names []string, extra ...string) error {
		for _, name := range names {
			if !slices.Contains(roles, name) && !slices.Contains(extra, name) {
				return fmt.Errorf("%s: unknown role %q", block, name)
			}
		}
		return nil
	}

	for _, block := range e.Injury {
		if len(block.Cats) == 0 || len(block.Injuries) == 0 {
			return fmt.Errorf("injury block needs cats and injuries")
		}
		if err := checkRoles("injury", block.Cats); err != nil {
			return err
		}
		if vocab == nil {
			continue
		}
		for _, name := range block.Injuries {
			if !vocab.IsInjury(name) {
				return fmt.Errorf("%w: injury %q", constraint.ErrUnknownValue, name)
			}
		}
	}
	for _, block := range e.History {
		if len(block.Cats) == 0 {
			return fmt.Errorf("history block needs cats")
		}
		if err := checkRoles("history", block.Cats, RoleMulti); err != nil {
			return err
		}
	}
	for _, block := range e.Relationships {
		if err := checkRoles("relationships", append(slices.Clone(block.CatsFrom), block.CatsTo...), RoleClan, RoleSomeClan); err != nil {
			return err
		}
		for _, v := range block.Values {
			if !relationship.Dimension(v).Valid() {
				return fmt.Errorf("%w: %s", relationship.ErrUnknownDimension, v)
			}
		}
	}
	if err := checkRoles("exclude_involved", e.ExcludeInvolved); err != nil {
		return err
	}

	if e.Outsider != nil {
		for _, tier := range e.Outsider.CurrentRep {
			if !slices.Contains([]string{constraint.Any, clan.RepHostile, clan.RepNeutral, clan.RepWelcoming}, tier) {
				return fmt.Errorf("%w: outsider reputation %q", constraint.ErrUnknownValue, tier)
			}
		}
	}
	if e.OtherClan != nil {
		for _, tier := range e.OtherClan.CurrentRep {
			if !slices.Contains([]string{constraint.Any, clan.RelHostile, clan.RelNeutral, clan.RelAlly}, tier) {
				return fmt.Errorf("%w: other clan relation %q", constraint.ErrUnknownValue, tier)
			}
		}
	}

	for _, block := range e.Supplies {
		switch block.Type {
		case SupplyFreshkill, SupplyAllHerb, SupplyAnyHerb:
		default:
			if vocab != nil && !vocab.IsHerb(block.Type) {
				return fmt.Errorf("%w: supply type %q", constraint.ErrUnknownValue, block.Type)
			}
		}
		for _, trigger := range block.Trigger {
			if !clan.ValidTrigger(trigger) {
				return fmt.Errorf("%w: supply trigger %q", constraint.ErrUnknownValue, trigger)
			}
		}
		if _, _, err := adjustment(block.Adjust); err != nil {
			return err
		}
	}

	for i, attrs := range e.NewCat {
		if _, err := parseNewCat(attrs); err != nil {
			return fmt.Errorf("new_cat %d: %w", i, err)
		}
	}

	if f := e.FutureEvent; f != nil {
		if f.EventType == "" {
			return fmt.Errorf("future_event needs an event_type")
		}
		if len(f.MoonDelay) > 2 || len(f.MoonDelay) == 2 && f.MoonDelay[0] > f.MoonDelay[1] {
			return fmt.Errorf("future_event moon_delay must be [min, max]")
		}
		for _, from := range f.InvolvedCats {
			if err := checkRoles("future_event", []string{from}); err != nil {
				return err
			}
		}
	}
	return nil
}

// roles lists the abbreviations an effect block may name.
func (e *ShortEvent) roles() []string {
	roles := []string{RoleMain, RoleVictim}
	if e.Random != nil {
		roles = append(roles, RoleRandom)
	}
	for i := range e.NewCat {
		roles = append(roles, newCatPrefix+strconv.Itoa(i))
	}
	return roles
}

// weight scores how specific the entry is. Every constrained dimension adds to the
// base of 1; narrow lists add more than wide ones.
func (e *ShortEvent) weight(numTraits int) int {
	w := 1
	if !slices.Contains(e.Location, constraint.Any) {
		w++
	}
	if !slices.Contains(e.Season, constraint.Any) {
		w += len(config.Seasons) - len(e.Season)
	}
	w += specWeight(&e.Main, numTraits)
	if e.Random != nil {
		w += specWeight(e.Random, numTraits)
	}
	if o := e.OtherClan; o != nil && len(o.CurrentRep) > 0 && !slices.Contains(o.CurrentRep, constraint.Any) {
		w += (3 - len(e.OtherClan.CurrentRep)) * 5
	}
	return max(w, 1)
}

func specWeight(s *constraint.Spec, numTraits int) int {
	w := 0
	if s.AgeConstrained() {
		w += len(status.Ages) - len(s.Age)
	}
	if s.StatusConstrained() {
		w += len(status.ClanRanks) - len(s.Status)
	}
	w += len(s.RelationshipStatus)
	if len(s.Skill) > 0 {
		w += len(cat.SkillPaths) - len(s.Skill)
	}
	w += len(s.NotSkill)
	if len(s.Trait) > 0 {
		w += max(numTraits-len(s.Trait), 0)
	}
	w += len(s.NotTrait)
	if len(s.Backstory) > 0 {
		w++
	}
	return max(w, 0)
}

func checkPlaces(locations, seasons []string) error {
	for _, l := range locations {
		if l != constraint.Any && !slices.ContainsFunc(config.Biomes, func(known string) bool { return strings.EqualFold(known, l) }) {
			return fmt.Errorf("%w: location %q", constraint.ErrUnknownValue, l)
		}
	}
	for _, s := range seasons {
		if s != constraint.Any && !slices.ContainsFunc(config.Seasons, func(known string) bool { return strings.EqualFold(known, s) }) {
			return fmt.Errorf("%w: season %q", constraint.ErrUnknownValue, s)
		}
	}
	return nil
}

func matchesPlace(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == constraint.Any || strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}
