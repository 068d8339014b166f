package event

// Event types a record may carry.
const (
	TypeDeath       = "death"
	TypeBirthDeath  = "birth_death"
	TypeInjury      = "injury"
	TypeHealth      = "health"
	TypeMisc        = "misc"
	TypeNewCat      = "new_cat"
	TypeOtherClans  = "other_clans"
	TypeRelation    = "relation"
	TypeInteraction = "interaction"
)

// Record is one line of the moon's event log.
type Record struct {
	Moon    int      `json:"moon"`
	EventID string   `json:"event_id"`
	Text    string   `json:"text"`
	Types   []string `json:"types"`
	CatIDs  []string `json:"cat_ids"`
}

func (r *Record) addType(t string) {
	for _, existing := range r.Types {
		if existing == t {
			return
		}
	}
	r.Types = append(r.Types, t)
}

// HasType reports whether t is one of the record's types.
func (r *Record) HasType(t string) bool {
	for _, existing := range r.Types {
		if existing == t {
			return true
		}
	}
	return false
}
