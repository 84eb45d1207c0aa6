// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tier

import (
	"math"
	"sort"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// BoundsFor returns the capacity bounds for a window of days. Windows
// outside the anchor range clamp to the nearest anchor; windows between
// anchors interpolate linearly and round to the nearest integer.
func BoundsFor(anchors []types.TierBounds, days int) types.TierBounds {
	if len(anchors) == 0 {
		anchors = types.DefaultTierBounds()
	}
	sorted := make([]types.TierBounds, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Days < sorted[j].Days })

	if days <= sorted[0].Days {
		b := sorted[0]
		b.Days = days
		return b
	}
	last := sorted[len(sorted)-1]
	if days >= last.Days {
		b := last
		b.Days = days
		return b
	}

	for i := 1; i < len(sorted); i++ {
		lo, hi := sorted[i-1], sorted[i]
		if days > hi.Days {
			continue
		}
		frac := float64(days-lo.Days) / float64(hi.Days-lo.Days)
		return types.TierBounds{
			Days:     days,
			Top:      lerpRange(lo.Top, hi.Top, frac),
			Solid:    lerpRange(lo.Solid, hi.Solid, frac),
			Boundary: lerpRange(lo.Boundary, hi.Boundary, frac),
		}
	}
	return last
}

func lerpRange(lo, hi types.Range, frac float64) types.Range {
	return types.Range{Min: lerp(lo.Min, hi.Min, frac), Max: lerp(lo.Max, hi.Max, frac)}
}

func lerp(lo, hi int, frac float64) int {
	return int(math.Round(float64(lo) + float64(hi-lo)*frac))
}

// GuardSize returns the number of leading global ranks the omission guard
// checks: the larger of the two core tiers' combined size and 12, with the
// 12 scaled up proportionally for windows longer than a week.
func GuardSize(nTop, nSolid, days int) int {
	if days < 7 {
		days = 7
	}
	floor := int(math.Ceil(12 * float64(days) / 7))
	if n := nTop + nSolid; n > floor {
		return n
	}
	return floor
}
