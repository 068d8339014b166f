package status

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"clansim/internal/dice"
)

// ErrInvalidStatusConfig is returned when a record is requested with neither an age nor a rank.
var ErrInvalidStatusConfig = errors.New("status requires an age or a rank")

// ErrAgeRequired is returned when a cat without a clan rank joins a clan and no age is given
// to derive one from.
var ErrAgeRequired = errors.New("joining a clan requires an age")

type GroupEntry struct {
	Group   string `json:"group" yaml:"group"`
	Rank    Rank   `json:"rank" yaml:"rank"`
	MoonsAs int    `json:"moons_as" yaml:"moons_as"`
}

type StandingEntry struct {
	Group    string     `json:"group" yaml:"group"`
	Standing []Standing `json:"standing" yaml:"standing"`
	Near     bool       `json:"near" yaml:"near"`
}

// Snapshot is the persisted form of a Record.
type Snapshot struct {
	GroupHistory    []GroupEntry    `json:"group_history" yaml:"group_history"`
	StandingHistory []StandingEntry `json:"standing_history" yaml:"standing_history"`
}

// Record tracks a cat's group membership and rank over time. The last group entry is current.
type Record struct {
	groups    []GroupEntry
	standings []StandingEntry
}

type Options struct {
	Age     Age
	Rank    Rank
	Social  Social
	GroupID string
	// Deterministic picks apprentice/warrior instead of rolling among plausible ranks.
	Deterministic bool
	Rand          *rand.Rand
}

// New builds a fresh record for a newly generated cat.
func New(opts Options) (*Record, error) {
	if opts.Age == "" && opts.Rank == "" {
		return nil, ErrInvalidStatusConfig
	}
	if opts.Rank != "" && !opts.Rank.Valid() {
		return nil, fmt.Errorf("unknown rank: %s", opts.Rank)
	}
	if opts.Age != "" && !opts.Age.Valid() {
		return nil, fmt.Errorf("unknown age: %s", opts.Age)
	}

	rank := opts.Rank
	social := opts.Social
	entry := GroupEntry{Group: opts.GroupID}

	if rank == "" {
		switch social {
		case SocialRogue:
			rank = RankRogue
		case SocialLoner:
			rank = RankLoner
		case SocialKittypet:
			rank = RankKittypet
		default:
			rank = RankFromAge(opts.Age, opts.Deterministic, opts.Rand)
		}
	}
	if social == "" {
		social = SocialOf(rank)
	}
	if social == SocialClancat && entry.Group == NoGroup {
		entry.Group = HomeClanID
	}

	if SocialOf(rank) != social {
		if opts.Deterministic && social == SocialClancat {
			rank = RankWarrior
		} else {
			rank = dice.Choice(opts.Rand, ranksForSocial(social))
		}
	}
	entry.Rank = rank

	r := &Record{groups: []GroupEntry{entry}}
	r.startStanding()
	return r, nil
}

// Default is the record given to a cat created with no status information at all.
func Default() *Record {
	r, _ := New(Options{Rank: RankWarrior})
	return r
}

// FromSnapshot restores a saved record.
func FromSnapshot(s Snapshot) (*Record, error) {
	if len(s.GroupHistory) == 0 {
		return nil, ErrInvalidStatusConfig
	}
	r := &Record{
		groups:    append([]GroupEntry(nil), s.GroupHistory...),
		standings: make([]StandingEntry, 0, len(s.StandingHistory)),
	}
	for _, entry := range s.StandingHistory {
		entry.Standing = append([]Standing(nil), entry.Standing...)
		r.standings = append(r.standings, entry)
	}
	if len(r.standings) == 0 {
		r.startStanding()
	}
	return r, nil
}

func (r *Record) Snapshot() Snapshot {
	s := Snapshot{
		GroupHistory:    append([]GroupEntry(nil), r.groups...),
		StandingHistory: make([]StandingEntry, 0, len(r.standings)),
	}
	for _, entry := range r.standings {
		entry.Standing = append([]Standing(nil), entry.Standing...)
		s.StandingHistory = append(s.StandingHistory, entry)
	}
	return s
}

func (r *Record) startStanding() {
	if group := r.GroupID(); group != NoGroup {
		r.standings = append(r.standings, StandingEntry{Group: group, Standing: []Standing{StandingMember}, Near: true})
	}
	if len(r.StandingWith(HomeClanID)) == 0 {
		r.standings = append(r.standings, StandingEntry{Group: HomeClanID, Standing: []Standing{StandingKnown}, Near: true})
	}
}

// RankFromAge resolves a clan rank for an age category.
func RankFromAge(age Age, deterministic bool, rng *rand.Rand) Rank {
	switch age {
	case AgeNewborn:
		return RankNewborn
	case AgeKitten:
		return RankKitten
	case AgeAdolescent:
		if deterministic {
			return RankApprentice
		}
		return dice.Choice(rng, []Rank{RankApprentice, RankMediatorApprentice, RankMedicineApprentice})
	case AgeYoungAdult, AgeAdult, AgeSeniorAdult:
		if deterministic {
			return RankWarrior
		}
		return dice.Choice(rng, []Rank{RankWarrior, RankMedicineCat, RankMediator})
	default:
		return RankElder
	}
}

func (r *Record) current() *GroupEntry {
	return &r.groups[len(r.groups)-1]
}

func (r *Record) GroupID() string { return r.current().Group }

func (r *Record) Kind() GroupKind { return KindOf(r.GroupID()) }

func (r *Record) Rank() Rank { return r.current().Rank }

func (r *Record) Social() Social { return SocialOf(r.Rank()) }

// GroupHistory returns a copy of the group history.
func (r *Record) GroupHistory() []GroupEntry {
	return append([]GroupEntry(nil), r.groups...)
}

// StandingHistory returns a copy of the standing history.
func (r *Record) StandingHistory() []StandingEntry {
	return r.Snapshot().StandingHistory
}

// AllSocials lists every social category held, with consecutive repeats collapsed.
func (r *Record) AllSocials() []Social {
	var socials []Social
	for _, entry := range r.groups {
		s := SocialOf(entry.Rank)
		if len(socials) > 0 && socials[len(socials)-1] == s {
			continue
		}
		socials = append(socials, s)
	}
	return socials
}

func (r *Record) AllGroups() []string {
	var groups []string
	seen := make(map[string]struct{})
	for _, entry := range r.groups {
		if _, ok := seen[entry.Group]; ok {
			continue
		}
		seen[entry.Group] = struct{}{}
		groups = append(groups, entry.Group)
	}
	return groups
}

// AllRanks sums moons spent per rank across the whole history.
func (r *Record) AllRanks() map[Rank]int {
	held := make(map[Rank]int)
	for _, entry := range r.groups {
		held[entry.Rank] += entry.MoonsAs
	}
	return held
}

func (r *Record) InHomeClan() bool { return r.Kind() == GroupHomeClan }

func (r *Record) IsOutsider() bool { return r.Social() != SocialClancat }

func (r *Record) IsClancat() bool { return r.Social() == SocialClancat }

func (r *Record) IsLeader() bool { return r.Rank() == RankLeader }

func (r *Record) IsFormerClancat() bool {
	if r.IsClancat() {
		return false
	}
	for _, s := range r.AllSocials() {
		if s == SocialClancat {
			return true
		}
	}
	return false
}

// IsOtherClancat reports a clancat outside the home clan. A dead cat counts as the home
// clan's own when its last living group was the home clan.
func (r *Record) IsOtherClancat() bool {
	if !r.IsClancat() || r.InHomeClan() {
		return false
	}
	if r.Kind().IsAfterlife() && r.LastLivingGroup() == HomeClanID {
		return false
	}
	return true
}

func (r *Record) IncreaseCurrentMoonsAs() {
	r.current().MoonsAs++
}

func (r *Record) SetCurrentMoonsAs(moons int) {
	if moons < 0 {
		moons = 0
	}
	r.current().MoonsAs = moons
}

// ChangeGroup records a standing against the group being left (when given) and appends the new entry.
func (r *Record) ChangeGroup(newRank Rank, newGroup string, standingWithPast Standing) {
	if standingWithPast != "" {
		r.ChangeStanding(standingWithPast, NoGroup)
	}
	r.groups = append(r.groups, GroupEntry{Group: newGroup, Rank: newRank})
	r.ChangeStanding(StandingMember, NoGroup)
}

// ChangeStanding appends a standing for a group, defaulting to the current one. Earlier copies
// of the same standing are dropped so only the latest occurrence remains.
func (r *Record) ChangeStanding(standing Standing, group string) {
	if group == NoGroup {
		group = r.GroupID()
	}
	if group == NoGroup {
		return
	}
	for i := range r.standings {
		if r.standings[i].Group != group {
			continue
		}
		kept := r.standings[i].Standing[:0]
		for _, s := range r.standings[i].Standing {
			if s != standing {
				kept = append(kept, s)
			}
		}
		r.standings[i].Standing = append(kept, standing)
		return
	}
	r.standings = append(r.standings, StandingEntry{Group: group, Standing: []Standing{standing}, Near: true})
}

// Exile turns the cat into a loner exiled from its current group.
func (r *Record) Exile() {
	r.ChangeGroup(RankLoner, NoGroup, StandingExiled)
}

// BecomeLost removes the cat from its group, marking it lost there. An empty social means kittypet.
func (r *Record) BecomeLost(social Social) {
	if social == "" || social == SocialClancat {
		social = SocialKittypet
	}
	r.ChangeGroup(Rank(social), NoGroup, StandingLost)
}

// AddToGroup moves the cat into group. Prior clan ranks are restored where possible; leaders and
// deputies coming back from outside an afterlife are demoted. A cat with no clan rank joining a
// clan takes a rank from age, which must then be valid.
func (r *Record) AddToGroup(group string, age Age, standingWithPast Standing) error {
	target := KindOf(group)
	if r.GroupID() == NoGroup {
		standingWithPast = ""
	}

	var rank Rank
	switch {
	case r.Kind().IsAfterlife():
		rank = r.Rank()
	case r.IsFormerClancat():
		prior, ok := r.FindPriorRank(NoGroup)
		if !ok {
			prior = r.Rank()
		}
		rank = prior
		if (rank == RankLeader || rank == RankDeputy) && !target.IsAfterlife() {
			if age == AgeSenior {
				rank = RankElder
			} else {
				rank = RankWarrior
			}
		}
	default:
		rank = r.Rank()
	}

	if target.IsClan() && !rank.IsClanRank() {
		if !age.Valid() {
			return fmt.Errorf("%w: cat joining group %s", ErrAgeRequired, group)
		}
		rank = RankFromAge(age, true, nil)
	}
	r.ChangeGroup(rank, group, standingWithPast)
	return nil
}

// DefaultAfterlifeID picks where a dying cat goes: outsiders who were never clancats (or were
// exiled from the home clan) go to the unknown residence, everyone else follows guideAfterlife.
func (r *Record) DefaultAfterlifeID(guideAfterlife string) string {
	if r.IsOutsider() && (r.IsExiled(HomeClanID) || !r.IsFormerClancat()) {
		return UnknownResidenceID
	}
	if guideAfterlife == NoGroup {
		return StarClanID
	}
	return guideAfterlife
}

// SendToAfterlife moves the cat to target, or to its default afterlife when target is not one.
func (r *Record) SendToAfterlife(target string) {
	if target == NoGroup || !KindOf(target).IsAfterlife() {
		target = r.DefaultAfterlifeID(StarClanID)
	}
	// Afterlife groups keep the current rank, so no age is needed.
	_ = r.AddToGroup(target, "", StandingKnown)
}

// ChangeRank sets a new rank within the current group. A trailing zero-moon entry is replaced
// rather than kept, and consecutive duplicate (group, rank) entries are never appended.
func (r *Record) ChangeRank(rank Rank) {
	group := r.GroupID()
	if len(r.groups) > 1 && r.current().MoonsAs == 0 {
		r.groups = r.groups[:len(r.groups)-1]
	}
	last := r.current()
	if last.Group == group && last.Rank == rank {
		return
	}
	r.groups = append(r.groups, GroupEntry{Group: group, Rank: rank})
}

// LeaveNear marks the cat as no longer near group.
func (r *Record) LeaveNear(group string) {
	for i := range r.standings {
		if r.standings[i].Group == group {
			r.standings[i].Near = false
		}
	}
}

func (r *Record) StandingWith(group string) []Standing {
	for _, entry := range r.standings {
		if entry.Group == group {
			return append([]Standing(nil), entry.Standing...)
		}
	}
	return nil
}

// FindPriorRank returns the most recent clan rank, optionally limited to one group.
// The bool is false for cats that never held one; callers check IsFormerClancat first.
func (r *Record) FindPriorRank(group string) (Rank, bool) {
	for i := len(r.groups) - 1; i >= 0; i-- {
		entry := r.groups[i]
		if group != NoGroup && entry.Group != group {
			continue
		}
		if group == NoGroup && !entry.Rank.IsClanRank() {
			continue
		}
		return entry.Rank, true
	}
	return "", false
}

// LastLivingGroup returns the last non-afterlife group the cat belonged to.
func (r *Record) LastLivingGroup() string {
	for i := len(r.groups) - 1; i >= 0; i-- {
		group := r.groups[i].Group
		kind := KindOf(group)
		if kind != GroupNone && !kind.IsAfterlife() {
			return group
		}
	}
	return NoGroup
}

// IsLost reports whether any group (or the given one) currently considers the cat lost.
func (r *Record) IsLost(group string) bool {
	for _, entry := range r.standings {
		if group != NoGroup && entry.Group != group {
			continue
		}
		if n := len(entry.Standing); n > 0 && entry.Standing[n-1] == StandingLost {
			return true
		}
	}
	return false
}

// IsExiled without a group reports exile from any group; with a group it checks the latest standing there.
func (r *Record) IsExiled(group string) bool {
	if group == NoGroup {
		for _, entry := range r.standings {
			for _, s := range entry.Standing {
				if s == StandingExiled {
					return true
				}
			}
		}
		return false
	}
	standing := r.StandingWith(group)
	return len(standing) > 0 && standing[len(standing)-1] == StandingExiled
}

func (r *Record) IsNear(group string) bool {
	for _, entry := range r.standings {
		if entry.Group == group && entry.Near {
			return true
		}
	}
	return false
}
