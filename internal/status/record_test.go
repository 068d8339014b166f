package status

import (
	"errors"
	"testing"

	"clansim/internal/dice"
)

func TestNew(t *testing.T) {
	t.Run("missing age and rank", func(t *testing.T) {
		if _, err := New(Options{}); !errors.Is(err, ErrInvalidStatusConfig) {
			t.Fatalf("expected ErrInvalidStatusConfig, got %v", err)
		}
	})

	t.Run("deterministic adolescent is an apprentice in the home clan", func(t *testing.T) {
		r, err := New(Options{Age: AgeAdolescent, Deterministic: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Rank() != RankApprentice {
			t.Fatalf("expected apprentice, got %s", r.Rank())
		}
		if r.GroupID() != HomeClanID {
			t.Fatalf("expected home clan, got %q", r.GroupID())
		}
		if got := r.StandingWith(HomeClanID); len(got) != 1 || got[0] != StandingMember {
			t.Fatalf("expected member standing, got %v", got)
		}
	})

	t.Run("random adult rank is a clan rank", func(t *testing.T) {
		rng := dice.New(7)
		for i := 0; i < 50; i++ {
			r, err := New(Options{Age: AgeAdult, Rand: rng})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			switch r.Rank() {
			case RankWarrior, RankMedicineCat, RankMediator:
			default:
				t.Fatalf("unexpected rank %s", r.Rank())
			}
		}
	})

	t.Run("outsider social without rank", func(t *testing.T) {
		r, err := New(Options{Age: AgeAdult, Social: SocialRogue})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Rank() != RankRogue || r.GroupID() != NoGroup {
			t.Fatalf("expected groupless rogue, got %s in %q", r.Rank(), r.GroupID())
		}
		if got := r.StandingWith(HomeClanID); len(got) != 1 || got[0] != StandingKnown {
			t.Fatalf("expected known standing with home clan, got %v", got)
		}
	})

	t.Run("mismatched rank and social rerolls deterministically", func(t *testing.T) {
		r, err := New(Options{Rank: RankLoner, Social: SocialClancat, Deterministic: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Rank() != RankWarrior {
			t.Fatalf("expected warrior, got %s", r.Rank())
		}
	})

	t.Run("other clan member keeps both standings", func(t *testing.T) {
		r, err := New(Options{Rank: RankWarrior, GroupID: "5"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(r.StandingHistory()) != 2 {
			t.Fatalf("expected two standing records, got %+v", r.StandingHistory())
		}
		if !r.IsOtherClancat() {
			t.Fatalf("expected other clancat")
		}
	})
}

func TestExile(t *testing.T) {
	r, err := New(Options{Rank: RankWarrior})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	before := len(r.GroupHistory())

	r.Exile()

	history := r.GroupHistory()
	if len(history) != before+1 {
		t.Fatalf("expected exactly one new entry, got %d", len(history)-before)
	}
	if history[len(history)-1].Rank != RankLoner {
		t.Fatalf("expected loner, got %s", history[len(history)-1].Rank)
	}
	standing := r.StandingWith(HomeClanID)
	if standing[len(standing)-1] != StandingExiled {
		t.Fatalf("expected exiled last, got %v", standing)
	}
	if r.Social() != SocialLoner {
		t.Fatalf("expected loner social, got %s", r.Social())
	}
	if !r.IsExiled(HomeClanID) || !r.IsExiled(NoGroup) {
		t.Fatalf("expected exiled")
	}
	if !r.IsFormerClancat() {
		t.Fatalf("expected former clancat")
	}
}

func TestBecomeLostAndReturn(t *testing.T) {
	r, _ := New(Options{Rank: RankDeputy})
	r.SetCurrentMoonsAs(12)
	r.BecomeLost("")

	if r.Rank() != RankKittypet {
		t.Fatalf("expected kittypet, got %s", r.Rank())
	}
	if !r.IsLost(HomeClanID) {
		t.Fatalf("expected lost from home clan")
	}

	if err := r.AddToGroup(HomeClanID, AgeAdult, StandingKnown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rank() != RankWarrior {
		t.Fatalf("expected demoted deputy to return as warrior, got %s", r.Rank())
	}
	if r.IsLost(HomeClanID) {
		t.Fatalf("expected member standing to replace lost")
	}

	r2, _ := New(Options{Rank: RankLeader})
	r2.Exile()
	if err := r2.AddToGroup(HomeClanID, AgeSenior, StandingKnown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2.Rank() != RankElder {
		t.Fatalf("expected senior leader to return as elder, got %s", r2.Rank())
	}
}

func TestOutsiderJoiningClanNeedsAge(t *testing.T) {
	r, err := New(Options{Rank: RankLoner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.AddToGroup(HomeClanID, "", StandingKnown); !errors.Is(err, ErrAgeRequired) {
		t.Fatalf("expected ErrAgeRequired, got %v", err)
	}
	if r.Rank() != RankLoner || r.InHomeClan() {
		t.Fatalf("expected record unchanged, got %s in %s", r.Rank(), r.GroupID())
	}

	if err := r.AddToGroup(HomeClanID, AgeAdolescent, StandingKnown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rank() != RankApprentice || !r.InHomeClan() {
		t.Fatalf("expected apprentice in the home clan, got %s in %s", r.Rank(), r.GroupID())
	}
}

func TestChangeStandingKeepsLastOccurrence(t *testing.T) {
	r, _ := New(Options{Rank: RankWarrior})
	r.ChangeStanding(StandingKnown, HomeClanID)
	r.ChangeStanding(StandingMember, HomeClanID)

	got := r.StandingWith(HomeClanID)
	want := []Standing{StandingKnown, StandingMember}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestChangeRank(t *testing.T) {
	r, _ := New(Options{Rank: RankApprentice})
	r.IncreaseCurrentMoonsAs()

	r.ChangeRank(RankWarrior)
	r.ChangeRank(RankDeputy)
	history := r.GroupHistory()
	if len(history) != 2 {
		t.Fatalf("expected zero-moon warrior entry collapsed, got %+v", history)
	}
	if history[1].Rank != RankDeputy {
		t.Fatalf("expected deputy, got %s", history[1].Rank)
	}

	r.IncreaseCurrentMoonsAs()
	r.ChangeRank(RankDeputy)
	if len(r.GroupHistory()) != 2 {
		t.Fatalf("expected duplicate rank ignored")
	}

	ranks := r.AllRanks()
	if ranks[RankApprentice] != 1 || ranks[RankDeputy] != 1 {
		t.Fatalf("unexpected rank moons %v", ranks)
	}
}

func TestAfterlife(t *testing.T) {
	t.Run("clancat keeps rank in starclan", func(t *testing.T) {
		r, _ := New(Options{Rank: RankLeader})
		r.SendToAfterlife(NoGroup)
		if r.GroupID() != StarClanID || r.Rank() != RankLeader {
			t.Fatalf("expected leader in starclan, got %s in %q", r.Rank(), r.GroupID())
		}
		if r.LastLivingGroup() != HomeClanID {
			t.Fatalf("expected last living group home clan, got %q", r.LastLivingGroup())
		}
		if r.IsOtherClancat() {
			t.Fatalf("dead home clancat is not an other clancat")
		}
	})

	t.Run("outsider goes to unknown residence", func(t *testing.T) {
		r, _ := New(Options{Rank: RankRogue})
		if got := r.DefaultAfterlifeID(StarClanID); got != UnknownResidenceID {
			t.Fatalf("expected unknown residence, got %q", got)
		}
	})

	t.Run("prior rank lookup", func(t *testing.T) {
		r, _ := New(Options{Rank: RankMedicineCat})
		r.Exile()
		rank, ok := r.FindPriorRank(NoGroup)
		if !ok || rank != RankMedicineCat {
			t.Fatalf("expected medicine cat, got %s %v", rank, ok)
		}
		r2, _ := New(Options{Rank: RankLoner})
		if _, ok := r2.FindPriorRank(NoGroup); ok {
			t.Fatalf("expected no prior clan rank")
		}
	})
}

func TestNearness(t *testing.T) {
	r, _ := New(Options{Rank: RankWarrior})
	if !r.IsNear(HomeClanID) {
		t.Fatalf("expected near")
	}
	r.LeaveNear(HomeClanID)
	if r.IsNear(HomeClanID) {
		t.Fatalf("expected not near")
	}
	if r.IsNear("9") {
		t.Fatalf("unknown group is never near")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	r, _ := New(Options{Rank: RankWarrior})
	r.Exile()
	restored, err := FromSnapshot(r.Snapshot())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if restored.Rank() != RankLoner || !restored.IsExiled(HomeClanID) {
		t.Fatalf("restored record lost state")
	}
	if _, err := FromSnapshot(Snapshot{}); !errors.Is(err, ErrInvalidStatusConfig) {
		t.Fatalf("expected ErrInvalidStatusConfig, got %v", err)
	}
}
