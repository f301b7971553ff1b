// Package shot defines shot types, per-type counters, and the normalized
// practice session record the rest of the engine computes over.
package shot

// ShotType identifies one of the tracked hockey shot techniques.
type ShotType string

const (
	Wrist    ShotType = "wrist"
	Snap     ShotType = "snap"
	Slap     ShotType = "slap"
	Backhand ShotType = "backhand"

	// Aggregate selectors used by challenge templates. "all" means every
	// type individually, "any" means the types combined.
	All ShotType = "all"
	Any ShotType = "any"
)

// Types returns the four trackable shot types in canonical order. The
// order doubles as the tie-break order wherever two types score equal.
func Types() [4]ShotType {
	return [4]ShotType{Wrist, Snap, Slap, Backhand}
}

// Trackable reports whether t is one of the four concrete shot types.
func Trackable(t ShotType) bool {
	switch t {
	case Wrist, Snap, Slap, Backhand:
		return true
	}
	return false
}

// Counts holds one integer per shot type.
type Counts struct {
	Wrist    int `json:"wrist"`
	Snap     int `json:"snap"`
	Slap     int `json:"slap"`
	Backhand int `json:"backhand"`
}

func (c Counts) Get(t ShotType) int {
	switch t {
	case Wrist:
		return c.Wrist
	case Snap:
		return c.Snap
	case Slap:
		return c.Slap
	case Backhand:
		return c.Backhand
	}
	return 0
}

func (c *Counts) Add(t ShotType, n int) {
	switch t {
	case Wrist:
		c.Wrist += n
	case Snap:
		c.Snap += n
	case Slap:
		c.Slap += n
	case Backhand:
		c.Backhand += n
	}
}

// Total returns the sum across all four types.
func (c Counts) Total() int {
	return c.Wrist + c.Snap + c.Slap + c.Backhand
}
