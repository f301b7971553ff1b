package stats

import "github.com/puck-challenge/backend/internal/shot"

// SkillProfile summarizes where a player is weakest, computed from the
// current week's sessions. Zero-average types are treated as unknown
// rather than weak, so a type the player never practices with hit
// tracking cannot win "weakest".
type SkillProfile struct {
	AvgAccuracy ByType `json:"avg_accuracy"`
	AvgShots    ByType `json:"avg_shots"`

	// WeakestAccuracy is the type with the lowest nonzero average
	// accuracy; LaggingVolume the one with the lowest nonzero average
	// shots per session. Empty when no data qualifies. Ties resolve in
	// canonical type order.
	WeakestAccuracy shot.ShotType `json:"weakest_accuracy"`
	LaggingVolume   shot.ShotType `json:"lagging_volume"`
}

// BuildProfile derives the skill profile from a weekly document.
// Average accuracy per type runs over sessions where that type was shot;
// average volume runs over all sessions.
func BuildProfile(w *Weekly) SkillProfile {
	var p SkillProfile
	if w == nil || len(w.Sessions) == 0 {
		return p
	}

	for _, t := range shot.Types() {
		var accSum float64
		var accN int
		var shotSum int
		for _, s := range w.Sessions {
			shotSum += s.Shots.Get(t)
			if s.Shots.Get(t) > 0 {
				accSum += s.Accuracy(t)
				accN++
			}
		}
		if accN > 0 {
			p.AvgAccuracy.set(t, accSum/float64(accN))
		}
		p.AvgShots.set(t, float64(shotSum)/float64(len(w.Sessions)))
	}

	p.WeakestAccuracy = lowestNonzero(p.AvgAccuracy)
	p.LaggingVolume = lowestNonzero(p.AvgShots)
	return p
}

func lowestNonzero(b ByType) shot.ShotType {
	var best shot.ShotType
	var bestVal float64
	for _, t := range shot.Types() {
		v := b.Get(t)
		if v <= 0 {
			continue
		}
		if best == "" || v < bestVal {
			best = t
			bestVal = v
		}
	}
	return best
}
