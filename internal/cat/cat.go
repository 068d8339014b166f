package cat

import (
	"slices"

	"github.com/google/uuid"

	"clansim/internal/status"
)

// Cat is an actor record. The simulation reads most fields and only writes injuries,
// accessories, gender alignment, death and status history.
type Cat struct {
	ID          string
	Name        string
	Moons       int
	Gender      string
	GenderAlign string
	Trait       string
	Backstory   string
	Skills      SkillSet
	Status      *status.Record

	Injuries    []string
	Scars       []string
	Accessories []string
	Dead        bool
	NoBody      bool

	Parent1 string
	Parent2 string
	Mates   []string

	History History
}

// NewID returns a fresh actor ID.
func NewID() string {
	return uuid.NewString()
}

func (c *Cat) Age() status.Age {
	return status.AgeForMoons(c.Moons)
}

// AliveInHomeClan is the eligibility gate for interactions and event roles.
func (c *Cat) AliveInHomeClan() bool {
	return c != nil && !c.Dead && c.Status != nil && c.Status.InHomeClan()
}

func (c *Cat) Rank() status.Rank {
	if c.Status == nil {
		return ""
	}
	return c.Status.Rank()
}

func (c *Cat) HasInjury(name string) bool {
	return slices.Contains(c.Injuries, name)
}

// GetInjured adds an injury unless the cat already has it.
func (c *Cat) GetInjured(name string) {
	if c.HasInjury(name) {
		return
	}
	c.Injuries = append(c.Injuries, name)
}

func (c *Cat) HasScar(name string) bool {
	return slices.Contains(c.Scars, name)
}

// Die marks the cat dead and moves it to the default afterlife.
func (c *Cat) Die(body bool) {
	if c.Dead {
		return
	}
	c.Dead = true
	c.NoBody = !body
	if c.Status != nil {
		c.Status.SendToAfterlife(status.NoGroup)
	}
}

func (c *Cat) IsMateOf(other *Cat) bool {
	return other != nil && slices.Contains(c.Mates, other.ID)
}

// IsParentOf reports whether c is a parent of other.
func (c *Cat) IsParentOf(other *Cat) bool {
	if other == nil || c.ID == "" {
		return false
	}
	return other.Parent1 == c.ID || other.Parent2 == c.ID
}

// IsSiblingOf reports a shared known parent.
func (c *Cat) IsSiblingOf(other *Cat) bool {
	if other == nil || c.ID == other.ID {
		return false
	}
	for _, p := range []string{c.Parent1, c.Parent2} {
		if p != "" && (p == other.Parent1 || p == other.Parent2) {
			return true
		}
	}
	return false
}

// IsRelatedTo covers parent, child and sibling links.
func (c *Cat) IsRelatedTo(other *Cat) bool {
	return c.IsParentOf(other) || other.IsParentOf(c) || c.IsSiblingOf(other)
}
