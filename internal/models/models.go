// package models defines the records that flow through a stats lookup
package models

// AvailabilityStatus is the search service's reachability flag for a candidate.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "AVAILABLE"
	StatusOther     AvailabilityStatus = "OTHER"
)

// ParseAvailabilityStatus maps a raw status string to [StatusAvailable] or [StatusOther].
func ParseAvailabilityStatus(s string) AvailabilityStatus {
	if AvailabilityStatus(s) == StatusAvailable {
		return StatusAvailable
	}
	return StatusOther
}

// Candidate is one search hit, in the relevance order returned by the service.
type Candidate struct {
	Handle string
	Status AvailabilityStatus
}

// Variant names a game title whose statistics are tracked independently ("cs2", "csgo").
type Variant string

// VariantProfile is the per-variant entry of a player's profile.
type VariantProfile struct {
	SkillLevel int
	Elo        int
}

// ProfileSnapshot maps each variant the player has played to its profile entry.
type ProfileSnapshot struct {
	Handle string
	Games  map[Variant]VariantProfile
}

// Game returns the profile entry for v, if present.
func (p ProfileSnapshot) Game(v Variant) (VariantProfile, bool) {
	g, ok := p.Games[v]
	return g, ok
}

// GameVariantStats is a player's lifetime aggregate for one variant.
type GameVariantStats struct {
	Matches           int
	WinRatePct        float64
	AvgKillDeathRatio float64
	AvgHeadshotPct    float64
}

// NormalizedStats is the result of a lookup: profile and lifetime figures for exactly one variant.
type NormalizedStats struct {
	Variant           Variant `json:"variant"`
	SkillLevel        int     `json:"skillLevel"`
	Elo               int     `json:"elo"`
	Matches           int     `json:"matches"`
	WinRatePct        float64 `json:"winRatePct"`
	AvgKillDeathRatio float64 `json:"avgKillDeathRatio"`
	AvgHeadshotPct    float64 `json:"avgHeadshotPct"`
}

// Merge builds the normalized record for variant v from its profile entry and lifetime stats.
func Merge(v Variant, profile VariantProfile, stats GameVariantStats) NormalizedStats {
	return NormalizedStats{
		Variant:           v,
		SkillLevel:        profile.SkillLevel,
		Elo:               profile.Elo,
		Matches:           stats.Matches,
		WinRatePct:        stats.WinRatePct,
		AvgKillDeathRatio: stats.AvgKillDeathRatio,
		AvgHeadshotPct:    stats.AvgHeadshotPct,
	}
}
