package event

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/dice"
	"clansim/internal/narrate"
	"clansim/internal/relationship"
	"clansim/internal/status"
)

// Relationship changes a manipulated kit takes toward the cat who manipulated it.
var kitManipulation = map[relationship.Dimension]int{
	relationship.Like:    -20,
	relationship.Respect: -30,
	relationship.Comfort: -30,
	relationship.Trust:   -30,
}

// run is the state of one event execution. The catalog entry itself is never written.
type run struct {
	g      *Generator
	e      *ShortEvent
	main   *cat.Cat
	random *cat.Cat
	victim *cat.Cat
	other  *clan.OtherClan
	rec    *Record

	involved  []string
	newCats   [][]*cat.Cat
	multi     []*cat.Cat
	dead      []*cat.Cat
	text      string
	notice    string
	herb      string
	livesLeft int
}

// execute applies the event's effects in order: mass death, new cats, accessories,
// relationships, gender, deaths and their histories, injuries, murder reveals,
// reputation, supplies. It returns nil when the event had to be abandoned, and every
// abandon check runs before the first change to the clan.
func (r *run) execute() (*Record, error) {
	r.involve(r.main)
	if r.e.NeedsRandom() {
		r.involve(r.random)
	}
	r.involve(r.victim)

	var accessories []string
	if len(r.e.NewAccessory) > 0 {
		if accessories = r.accessoryPool(); len(accessories) == 0 {
			return nil, nil
		}
	}

	if r.e.HasSubType(SubMassDeath) {
		if !r.g.clan.Disasters || !r.massDeath() {
			return nil, nil
		}
	}

	if err := r.addNewCats(); err != nil {
		return nil, err
	}
	for _, role := range r.e.ExcludeInvolved {
		for _, c := range r.cats(role) {
			r.involved = slices.DeleteFunc(r.involved, func(id string) bool { return id == c.ID })
		}
	}

	if len(accessories) > 0 {
		r.rec.addType(TypeMisc)
		r.main.Accessories = append(r.main.Accessories, dice.Choice(r.g.rng, accessories))
	}

	r.text = r.render(r.e.Text())
	r.changeRelationships()
	if r.e.HasTag(TagKitManipulated) {
		r.manipulateKit()
	}
	if len(r.e.NewGender) > 0 {
		r.main.GenderAlign = dice.Choice(r.g.rng, r.e.NewGender)
	}

	r.handleDeaths()
	r.deathHistory()
	r.handleInjuries()

	if (r.e.HasSubType(SubMurderReveal) || r.e.HasSubType(SubHiddenReveal)) && r.victim != nil {
		var aware []string
		if r.random != nil {
			aware = append(aware, r.random.ID)
		}
		r.main.History.RevealMurder(r.victim.ID, r.e.HasTag(TagClanWide), aware)
	}

	if r.e.Outsider != nil {
		r.g.clan.ChangeReputation(r.e.Outsider.Changed)
		r.rec.addType(TypeMisc)
	}
	if r.e.OtherClan != nil && r.other != nil {
		r.g.clan.ChangeRelations(r.other, r.e.OtherClan.Changed)
		r.rec.addType(TypeOtherClans)
	}
	if len(r.e.Supplies) > 0 {
		r.rec.addType(TypeMisc)
		r.adjustSupplies()
	}

	if r.e.HasTag(TagClanWide) {
		r.involved = nil
	}

	text := r.render(r.e.Text())
	if r.notice != "" {
		text += " " + r.notice
	}
	r.rec.Text = text
	r.rec.CatIDs = r.involved
	r.scheduleFuture()
	return r.rec, nil
}

func (r *run) involve(c *cat.Cat) {
	if c != nil && !slices.Contains(r.involved, c.ID) {
		r.involved = append(r.involved, c.ID)
	}
}

// cats resolves a role abbreviation to the cats it names.
func (r *run) cats(role string) []*cat.Cat {
	one := func(c *cat.Cat) []*cat.Cat {
		if c == nil {
			return nil
		}
		return []*cat.Cat{c}
	}
	switch role {
	case RoleMain:
		return one(r.main)
	case RoleRandom:
		return one(r.random)
	case RoleVictim:
		return one(r.victim)
	case RoleMulti:
		return r.multi
	case RoleClan:
		return r.g.clan.Living()
	case RoleSomeClan:
		living := r.g.clan.Living()
		if len(living) == 0 {
			return nil
		}
		return dice.Sample(r.g.rng, living, dice.Between(r.g.rng, 1, max(len(living)/2, 1)))
	}
	if n, ok := strings.CutPrefix(role, newCatPrefix); ok {
		i, err := strconv.Atoi(n)
		if err == nil && i >= 0 && i < len(r.newCats) {
			return r.newCats[i]
		}
	}
	return nil
}

// first resolves a role to a single cat.
func (r *run) first(role string) *cat.Cat {
	if list := r.cats(role); len(list) > 0 {
		return list[0]
	}
	return nil
}

// names maps every bound role to the name text should show.
func (r *run) names() map[string]string {
	names := map[string]string{}
	for role, c := range map[string]*cat.Cat{RoleMain: r.main, RoleRandom: r.random, RoleVictim: r.victim} {
		if c != nil {
			names[role] = c.Name
		}
	}
	for i, group := range r.newCats {
		if len(group) > 0 {
			names[newCatPrefix+strconv.Itoa(i)] = group[0].Name
		}
	}
	if len(r.multi) > 0 {
		list := make([]string, 0, len(r.multi))
		for _, c := range r.multi {
			list = append(list, c.Name)
		}
		names[RoleMulti] = strings.Join(list, ", ")
	}
	if r.g.clan.Name != "" {
		names["c_n"] = r.g.clan.Name + "Clan"
	}
	if r.other != nil {
		names["o_c_n"] = r.other.Name + "Clan"
	}
	if r.herb != "" {
		names["chosen_herb"] = r.herb
	}
	return names
}

func (r *run) render(text string) string {
	return narrate.Render(text, r.names())
}

func (r *run) addNewCats() error {
	if len(r.e.NewCat) == 0 {
		return nil
	}
	r.rec.addType(TypeMisc)
	for i, attrs := range r.e.NewCat {
		spec, err := parseNewCat(attrs)
		if err != nil {
			return fmt.Errorf("event %s: new_cat %d: %w", r.e.ID, i, err)
		}
		group, err := spec.build(r.g.rng, r.first)
		if err != nil {
			return fmt.Errorf("event %s: new_cat %d: %w", r.e.ID, i, err)
		}
		for _, c := range group {
			if err := r.g.clan.Add(c); err != nil {
				return fmt.Errorf("event %s: %w", r.e.ID, err)
			}
			r.involve(c)
		}
		r.newCats = append(r.newCats, group)
	}
	return nil
}

// accessoryPool lists the accessories main could be given. Empty means nothing fits.
func (r *run) accessoryPool() []string {
	var groups config.AccessoryGroups
	if r.g.vocab != nil {
		groups = r.g.vocab.Accessories
	}

	var pool []string
	for _, name := range r.e.NewAccessory {
		switch name {
		case AccessoryWild:
			pool = append(pool, groups.Wild...)
		case AccessoryPlant:
			pool = append(pool, groups.Plant...)
		case AccessoryCollar:
			pool = append(pool, groups.Collar...)
		default:
			pool = append(pool, name)
		}
	}

	without := func(group []string) {
		pool = slices.DeleteFunc(pool, func(a string) bool { return slices.Contains(group, a) })
	}
	if r.main.HasScar("NOTAIL") || r.main.HasScar("HALFTAIL") {
		without(groups.Tail)
	}
	// One accessory per body slot.
	for _, worn := range r.main.Accessories {
		for _, group := range [][]string{groups.Collar, groups.Head, groups.Tail, groups.Body} {
			if slices.Contains(group, worn) {
				without(group)
				break
			}
		}
	}

	return pool
}

func (r *run) changeRelationships() {
	for _, block := range r.e.Relationships {
		from := r.catsFor(block.CatsFrom)
		to := r.catsFor(block.CatsTo)
		r.shift(from, to, block)
		if block.Mutual {
			r.shift(to, from, block)
		}
	}
}

func (r *run) catsFor(roles []string) []*cat.Cat {
	var out []*cat.Cat
	for _, role := range roles {
		out = append(out, r.cats(role)...)
	}
	return out
}

func (r *run) shift(from, to []*cat.Cat, block RelationshipBlock) {
	for _, a := range from {
		for _, b := range to {
			if a.ID == b.ID {
				continue
			}
			rel, _ := r.g.rels.Link(a.ID, b.ID)
			for _, v := range block.Values {
				_ = rel.Add(relationship.Dimension(v), block.Amount)
			}
			rel.AppendLog(r.text)
		}
	}
}

// manipulateKit turns a random kitten against r_c.
func (r *run) manipulateKit() {
	if r.random == nil {
		return
	}
	kits := r.g.livingKittens(r.main, r.random)
	if len(kits) == 0 {
		return
	}
	kit := dice.Choice(r.g.rng, kits)
	r.involve(kit)
	rel, _ := r.g.rels.Link(kit.ID, r.random.ID)
	for d, delta := range kitManipulation {
		_ = rel.Add(d, delta)
	}
}

func (r *run) handleDeaths() {
	c := r.g.clan
	r.livesLeft = c.LeaderLives
	body := !r.e.HasTag(TagNoBody)

	dead := slices.Clone(r.dead)
	if r.e.Main.Dies && !slices.Contains(dead, r.main) {
		dead = append(dead, r.main)
	}
	if r.e.Random != nil && r.e.Random.Dies && r.random != nil && !slices.Contains(dead, r.random) {
		dead = append(dead, r.random)
	}
	if len(dead) == 0 {
		return
	}

	for _, member := range dead {
		r.rec.addType(TypeBirthDeath)
		if member.Rank() != status.RankLeader {
			member.Die(body)
			continue
		}
		switch {
		case r.e.HasTag(TagAllLives):
			c.LeaderLives -= 10
		case r.e.HasTag(TagSomeLives):
			c.LeaderLives -= dice.Between(r.g.rng, 2, max(r.livesLeft-2, 2))
		default:
			c.LeaderLives--
		}
		c.LeaderLives = max(c.LeaderLives, 0)
		if c.LeaderLives == 0 {
			member.Die(body)
			r.notice = fmt.Sprintf("%s has lost their last life.", member.Name)
		} else {
			r.notice = fmt.Sprintf("%s lost a life and has %d left.", member.Name, c.LeaderLives)
		}
	}
	r.dead = dead
}

// historyText picks the leader or regular death text for member.
func (r *run) historyText(member *cat.Cat, block HistoryBlock) string {
	text := block.RegDeath
	if member.Rank() == status.RankLeader {
		text = block.LeadDeath
	}
	return r.render(text)
}

// recordDeath writes member's death history. A leader who lost several lives at once
// gets one extra record per additional life.
func (r *run) recordDeath(member *cat.Cat, block HistoryBlock) {
	other := ""
	if r.random != nil {
		other = r.random.ID
	}
	if member.Rank() == status.RankLeader {
		r.livesLeft--
		for r.livesLeft > r.g.clan.LeaderLives {
			member.History.AddDeath("multi_lives", other)
			r.livesLeft--
		}
	}
	member.History.AddDeath(r.historyText(member, block), other)
}

func (r *run) deathHistory() {
	for _, block := range r.e.History {
		if slices.Contains(block.Cats, RoleMain) && r.e.Main.Dies {
			if r.e.HasSubType(SubMurder) && r.random != nil {
				r.random.History.AddMurder(r.random.ID, r.main.ID)
			}
			r.recordDeath(r.main, block)
		}
		if slices.Contains(block.Cats, RoleRandom) && r.e.Random != nil && r.e.Random.Dies && r.random != nil {
			r.recordDeath(r.random, block)
		}
		if slices.Contains(block.Cats, RoleMulti) {
			for _, member := range r.multi {
				if slices.Contains(r.dead, member) {
					r.recordDeath(member, block)
				}
			}
		}
		for _, role := range block.Cats {
			if !strings.HasPrefix(role, newCatPrefix) {
				continue
			}
			for _, member := range r.cats(role) {
				if member.Dead {
					member.History.AddDeath(r.render(block.RegDeath), "")
				}
			}
		}
	}
}

func (r *run) handleInjuries() {
	if len(r.e.Injury) == 0 {
		return
	}
	r.rec.addType(TypeHealth)
	for _, block := range r.e.Injury {
		possible := block.Injuries
		if r.g.vocab != nil {
			possible = r.g.vocab.ExpandInjuries(block.Injuries)
		}
		for _, role := range block.Cats {
			for _, member := range r.cats(role) {
				injury := dice.Choice(r.g.rng, possible)
				member.GetInjured(injury)
				r.injuryHistory(member, role, injury)
			}
		}
	}
}

// injuryHistory records what the injury could later turn into, from the first history block naming role.
func (r *run) injuryHistory(member *cat.Cat, role, injury string) {
	for _, block := range r.e.History {
		if !slices.Contains(block.Cats, role) {
			continue
		}
		scar := r.render(block.Scar)
		death := r.historyText(member, block)
		if scar == "" && death == "" {
			return
		}
		other := ""
		if r.random != nil {
			other = r.random.ID
		}
		member.History.AddPossible(cat.PossibleHistory{
			Condition: injury,
			ScarText:  scar,
			DeathText: death,
			OtherCat:  other,
		})
		return
	}
}

func (r *run) adjustSupplies() {
	c := r.g.clan
	size := c.LivingCount()
	for _, block := range r.e.Supplies {
		keep, add, err := adjustment(block.Adjust)
		if err != nil {
			continue
		}
		scale := func(stock int) int { return max(int(float64(stock)*keep)+add, 0) }

		switch block.Type {
		case SupplyFreshkill:
			c.Freshkill.Adjust(keep, float64(add))
		case SupplyAllHerb:
			for _, herb := range c.Herbs.Herbs() {
				c.Herbs[herb] = scale(c.Herbs[herb])
			}
		default:
			herb := block.Type
			if block.Type == SupplyAnyHerb {
				options := c.Herbs.Matching(c.Herbs.Herbs(), block.Trigger, size)
				if len(options) == 0 {
					options = r.g.triggeredHerbs(block, size)
				}
				if len(options) == 0 {
					continue
				}
				herb = dice.Choice(r.g.rng, options)
			}
			r.herb = herb
			c.Herbs[herb] = scale(c.Herbs[herb])
		}
	}
}
