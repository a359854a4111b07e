package model

// FrostFreeSentinel marks zones that never see frost (zone 11 and up).
// Frost-relative offsets are meaningless for these zones.
const FrostFreeSentinel = "Frost-free"

// HardinessZoneInfo is static reference data, seeded once and never mutated.
type HardinessZoneInfo struct {
	Zone            string // e.g. "7a"
	LastFrostSpring string // "Mon D" format, e.g. "Apr 15", or FrostFreeSentinel
	FirstFrostFall  string
	MinTempF        int
	MaxTempF        int
}
