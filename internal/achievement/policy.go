package achievement

// AgeGroup is the bracket a player falls into for difficulty gating.
type AgeGroup string

const (
	U7    AgeGroup = "u7"
	U9    AgeGroup = "u9"
	U11   AgeGroup = "u11"
	U13   AgeGroup = "u13"
	U15   AgeGroup = "u15"
	U18   AgeGroup = "u18"
	Adult AgeGroup = "adult"
)

// AgeGroupFor brackets a player's age. Ages at or above 18 (and unset
// ages, which default upstream to 18) land in the adult group.
func AgeGroupFor(age int) AgeGroup {
	switch {
	case age < 7:
		return U7
	case age < 9:
		return U9
	case age < 11:
		return U11
	case age < 13:
		return U13
	case age < 15:
		return U15
	case age < 18:
		return U18
	}
	return Adult
}

// AllowedDifficulties returns the tiers a bracket may be assigned.
func AllowedDifficulties(g AgeGroup) []Difficulty {
	switch g {
	case U7, U9, U11:
		return []Difficulty{Easy, Medium, Hard}
	case U13, U15:
		return []Difficulty{Easy, Medium, Hard, Hardest}
	}
	return []Difficulty{Easy, Medium, Hard, Hardest, Impossible}
}

// EffectiveDifficulty compresses the hardest tiers for younger brackets
// so their templates stay eligible rather than being filtered out.
func EffectiveDifficulty(t Template, g AgeGroup) Difficulty {
	switch g {
	case U7, U9, U11:
		if t.Difficulty == Hardest || t.Difficulty == Impossible {
			return Hard
		}
	case U13, U15:
		if t.Difficulty == Impossible {
			return Hardest
		}
	}
	return t.Difficulty
}

// Eligible reports whether a template may be assigned to a player in
// bracket g with the given pro entitlement.
func Eligible(t Template, g AgeGroup, isPro bool) bool {
	if t.ProLevel && !isPro {
		return false
	}
	eff := EffectiveDifficulty(t, g)
	for _, d := range AllowedDifficulties(g) {
		if d == eff {
			return true
		}
	}
	return false
}
