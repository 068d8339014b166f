package cat

// PossibleHistory is recorded when an injury could later scar or kill the cat.
type PossibleHistory struct {
	Condition string `json:"condition"`
	ScarText  string `json:"scar_text,omitempty"`
	DeathText string `json:"death_text,omitempty"`
	OtherCat  string `json:"other_cat,omitempty"`
}

type DeathRecord struct {
	Text     string `json:"text"`
	OtherCat string `json:"other_cat,omitempty"`
}

type MurderRecord struct {
	VictimID   string   `json:"victim"`
	MurdererID string   `json:"murderer"`
	Revealed   bool     `json:"revealed"`
	ClanWide   bool     `json:"clan_wide"`
	AwareIDs   []string `json:"aware,omitempty"`
}

type History struct {
	Possible []PossibleHistory `json:"possible,omitempty"`
	Deaths   []DeathRecord     `json:"deaths,omitempty"`
	Scars    []string          `json:"scars,omitempty"`
	Murders  []MurderRecord    `json:"murders,omitempty"`
}

func (h *History) AddPossible(p PossibleHistory) {
	h.Possible = append(h.Possible, p)
}

func (h *History) AddDeath(text, otherCat string) {
	h.Deaths = append(h.Deaths, DeathRecord{Text: text, OtherCat: otherCat})
}

func (h *History) AddScar(text string) {
	h.Scars = append(h.Scars, text)
}

func (h *History) AddMurder(murdererID, victimID string) {
	h.Murders = append(h.Murders, MurderRecord{MurdererID: murdererID, VictimID: victimID})
}

// RevealMurder marks the murder of victimID as known. It reports false when no such record exists.
func (h *History) RevealMurder(victimID string, clanWide bool, aware []string) bool {
	for i := range h.Murders {
		if h.Murders[i].VictimID != victimID {
			continue
		}
		h.Murders[i].Revealed = true
		h.Murders[i].ClanWide = clanWide
		h.Murders[i].AwareIDs = append(h.Murders[i].AwareIDs, aware...)
		return true
	}
	return false
}
