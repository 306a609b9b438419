package fee

import (
	"fmt"
	"math"
	"sort"
)

// Range is one distance tier of the delivery fee schedule. MaxKm <= 0
// means the tier is open-ended.
type Range struct {
	MinKm float64
	MaxKm float64
	Fee   float64
}

// Quote is the authoritative fee/commission pair for one delivery.
type Quote struct {
	DeliveryFee       float64
	PartnerCommission float64
}

// Schedule maps delivery distance to a fee and partner commission.
// The tier table is administrative configuration injected at startup,
// the schedule itself is a pure function of distance.
type Schedule struct {
	ranges         []Range
	commissionRate float64
}

// NewSchedule builds a schedule from tiers and a commission rate in (0, 1].
// Tiers are sorted by MinKm; they must cover from zero without gaps.
func NewSchedule(ranges []Range, commissionRate float64) (*Schedule, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("fee schedule: no ranges")
	}
	if commissionRate <= 0 || commissionRate > 1 {
		return nil, fmt.Errorf("fee schedule: commission rate %v out of (0,1]", commissionRate)
	}

	sorted := append([]Range(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinKm < sorted[j].MinKm })

	if sorted[0].MinKm > 0 {
		return nil, fmt.Errorf("fee schedule: first range starts at %vkm, not 0", sorted[0].MinKm)
	}
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.MaxKm <= 0 {
			return nil, fmt.Errorf("fee schedule: open-ended range before the last one")
		}
		if sorted[i].MinKm > prev.MaxKm {
			return nil, fmt.Errorf("fee schedule: gap between %vkm and %vkm", prev.MaxKm, sorted[i].MinKm)
		}
	}

	return &Schedule{ranges: sorted, commissionRate: commissionRate}, nil
}

// Quote returns the delivery fee and partner commission for a distance.
// Distances beyond the last closed tier fall into the last tier.
func (s *Schedule) Quote(distanceKm float64) Quote {
	if distanceKm < 0 {
		distanceKm = 0
	}

	tier := s.ranges[len(s.ranges)-1]
	for _, r := range s.ranges {
		if distanceKm >= r.MinKm && (r.MaxKm <= 0 || distanceKm < r.MaxKm) {
			tier = r
			break
		}
	}

	fee := tier.Fee
	return Quote{
		DeliveryFee:       fee,
		PartnerCommission: round2(fee * s.commissionRate),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
