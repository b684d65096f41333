// Package classify holds the heuristics that sort log entities into players,
// enemies and pets.
//
// These are heuristics of the log format, not facts: the id prefix is a
// structural convention and the pet list is a hand-maintained, English-only
// list that is known to be incomplete.
package classify

import "strings"

// Kind is the category encoded in an entity id.
type Kind int

const (
	Unknown Kind = iota
	Player
	Enemy
)

func (k Kind) String() string {
	switch k {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Classify returns the kind encoded in the two leading hex digits of id.
// "10" is a player, "40" an enemy; anything else is Unknown.
func Classify(id string) Kind {
	if len(id) < 2 {
		return Unknown
	}
	switch id[:2] {
	case "10":
		return Player
	case "40":
		return Enemy
	}
	return Unknown
}

// IsPlayerID reports whether id has the player prefix.
func IsPlayerID(id string) bool { return Classify(id) == Player }

// IsEnemyID reports whether id has the enemy prefix.
func IsEnemyID(id string) bool { return Classify(id) == Enemy }

// DefaultPetNames is the built-in pet list (English client names).
var DefaultPetNames = []string{
	"Eos",
	"Selene",
	"Seraph",
	"Carbuncle",
	"Ruby Carbuncle",
	"Topaz Carbuncle",
	"Emerald Carbuncle",
	"Ifrit-Egi",
	"Titan-Egi",
	"Garuda-Egi",
	"Demi-Bahamut",
	"Demi-Phoenix",
	"Solar Bahamut",
	"Rook Autoturret",
	"Bishop Autoturret",
	"Automaton Queen",
	"Esteem",
	"Earthly Star",
	"Liturgic Bell",
	"Living Muse",
}

// Classifier decides player membership using a pet-name list.
// The zero value knows no pets. A Classifier is safe for concurrent reads.
type Classifier struct {
	pets map[string]struct{}
}

// Default uses DefaultPetNames.
var Default = New()

// New returns a Classifier knowing DefaultPetNames plus extra.
func New(extra ...string) *Classifier {
	c := &Classifier{pets: make(map[string]struct{}, len(DefaultPetNames)+len(extra))}
	for _, name := range DefaultPetNames {
		c.pets[normalize(name)] = struct{}{}
	}
	for _, name := range extra {
		if n := normalize(name); n != "" {
			c.pets[n] = struct{}{}
		}
	}
	return c
}

// IsPet reports whether name is a known pet name. Matching ignores case and
// surrounding whitespace.
func (c *Classifier) IsPet(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.pets[normalize(name)]
	return ok
}

// IsPlayer reports whether the entity counts as a player: player-prefixed id
// and not a pet. Pet-named player ids are excluded, not reclassified.
func (c *Classifier) IsPlayer(id, name string) bool {
	return IsPlayerID(id) && !c.IsPet(name)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
