package status

// Rank is the role a cat holds inside its group. Outsiders hold a rank equal to their social category.
type Rank string

const (
	RankNewborn            Rank = "newborn"
	RankKitten             Rank = "kitten"
	RankApprentice         Rank = "apprentice"
	RankMedicineApprentice Rank = "medicine cat apprentice"
	RankMediatorApprentice Rank = "mediator apprentice"
	RankWarrior            Rank = "warrior"
	RankMedicineCat        Rank = "medicine cat"
	RankMediator           Rank = "mediator"
	RankDeputy             Rank = "deputy"
	RankLeader             Rank = "leader"
	RankElder              Rank = "elder"
	RankLoner              Rank = "loner"
	RankRogue              Rank = "rogue"
	RankKittypet           Rank = "kittypet"
)

// ClanRanks lists every rank a clancat can hold, in seniority order.
var ClanRanks = []Rank{
	RankNewborn,
	RankKitten,
	RankApprentice,
	RankMedicineApprentice,
	RankMediatorApprentice,
	RankWarrior,
	RankMedicineCat,
	RankMediator,
	RankDeputy,
	RankLeader,
	RankElder,
}

// AllRanks lists clan ranks followed by outsider ranks.
var AllRanks = append(append([]Rank{}, ClanRanks...), RankLoner, RankRogue, RankKittypet)

func (r Rank) IsClanRank() bool {
	for _, rank := range ClanRanks {
		if rank == r {
			return true
		}
	}
	return false
}

func (r Rank) Valid() bool {
	for _, rank := range AllRanks {
		if rank == r {
			return true
		}
	}
	return false
}

type Social string

const (
	SocialClancat  Social = "clancat"
	SocialLoner    Social = "loner"
	SocialRogue    Social = "rogue"
	SocialKittypet Social = "kittypet"
)

var socialLookup = map[Rank]Social{
	RankNewborn:            SocialClancat,
	RankKitten:             SocialClancat,
	RankApprentice:         SocialClancat,
	RankMedicineApprentice: SocialClancat,
	RankMediatorApprentice: SocialClancat,
	RankWarrior:            SocialClancat,
	RankMedicineCat:        SocialClancat,
	RankMediator:           SocialClancat,
	RankDeputy:             SocialClancat,
	RankLeader:             SocialClancat,
	RankElder:              SocialClancat,
	RankLoner:              SocialLoner,
	RankRogue:              SocialRogue,
	RankKittypet:           SocialKittypet,
}

// SocialOf returns the social category a rank belongs to.
func SocialOf(r Rank) Social {
	return socialLookup[r]
}

func ranksForSocial(s Social) []Rank {
	var ranks []Rank
	for _, rank := range AllRanks {
		if socialLookup[rank] == s {
			ranks = append(ranks, rank)
		}
	}
	return ranks
}

type Standing string

const (
	StandingMember Standing = "member"
	StandingKnown  Standing = "known"
	StandingLost   Standing = "lost"
	StandingExiled Standing = "exiled"
)

type Age string

const (
	AgeNewborn     Age = "newborn"
	AgeKitten      Age = "kitten"
	AgeAdolescent  Age = "adolescent"
	AgeYoungAdult  Age = "young adult"
	AgeAdult       Age = "adult"
	AgeSeniorAdult Age = "senior adult"
	AgeSenior      Age = "senior"
)

var Ages = []Age{AgeNewborn, AgeKitten, AgeAdolescent, AgeYoungAdult, AgeAdult, AgeSeniorAdult, AgeSenior}

func (a Age) Valid() bool {
	for _, age := range Ages {
		if age == a {
			return true
		}
	}
	return false
}

// AgeForMoons maps a numeric age onto its age category.
func AgeForMoons(moons int) Age {
	switch {
	case moons < 1:
		return AgeNewborn
	case moons < 6:
		return AgeKitten
	case moons < 12:
		return AgeAdolescent
	case moons < 48:
		return AgeYoungAdult
	case moons < 96:
		return AgeAdult
	case moons < 120:
		return AgeSeniorAdult
	default:
		return AgeSenior
	}
}

// Well-known group IDs. Other clans are numbered from FirstOtherClanID upward.
const (
	NoGroup              = ""
	HomeClanID           = "1"
	StarClanID           = "2"
	UnknownResidenceID   = "3"
	DarkForestID         = "4"
	FirstOtherClanNumber = 5
)

type GroupKind string

const (
	GroupNone             GroupKind = "none"
	GroupHomeClan         GroupKind = "player_clan"
	GroupOtherClan        GroupKind = "other_clan"
	GroupStarClan         GroupKind = "starclan"
	GroupUnknownResidence GroupKind = "unknown_residence"
	GroupDarkForest       GroupKind = "dark_forest"
)

// KindOf resolves a group ID to the kind of group it names.
func KindOf(groupID string) GroupKind {
	switch groupID {
	case NoGroup:
		return GroupNone
	case HomeClanID:
		return GroupHomeClan
	case StarClanID:
		return GroupStarClan
	case UnknownResidenceID:
		return GroupUnknownResidence
	case DarkForestID:
		return GroupDarkForest
	default:
		return GroupOtherClan
	}
}

func (k GroupKind) IsAfterlife() bool {
	return k == GroupStarClan || k == GroupUnknownResidence || k == GroupDarkForest
}

func (k GroupKind) IsClan() bool {
	return k == GroupHomeClan || k == GroupOtherClan
}
