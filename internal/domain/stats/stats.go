// Package stats provides the stateless numeric primitives behind trust
// scoring: Wilson confidence bounds, exponential trust decay, Goh-Barabasi
// burstiness, compression-based text distance and the Gini coefficient.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/golang/snappy"
)

// z-values for the supported confidence levels.
const (
	z95 = 1.96
	z90 = 1.645
)

// WilsonLowerBound returns the lower bound of the Wilson score interval for
// positive successes out of total trials. With small samples the bound pulls
// hard toward zero, which downstream blending turns into a pull toward a
// neutral score. Returns 0 when total is 0.
func WilsonLowerBound(positive, total int, confidence float64) float64 {
	if total == 0 {
		return 0
	}
	z := z90
	if confidence == 0.95 {
		z = z95
	}
	n := float64(total)
	phat := math.Min(1, float64(positive)/n)
	denominator := 1 + z*z/n
	center := phat + z*z/(2*n)
	spread := z * math.Sqrt((phat*(1-phat)+z*z/(4*n))/n)
	return math.Min(1, math.Max(0, (center-spread)/denominator))
}

// TrustDecay returns the exponential decay factor 0.5^(days/halfLife),
// clamped to 1.0 for days <= 1. Trust signals lose currency as an account
// goes dormant.
func TrustDecay(daysSinceActivity, halfLifeDays float64) float64 {
	if daysSinceActivity <= 1 {
		return 1.0
	}
	return math.Pow(0.5, daysSinceActivity/halfLifeDays)
}

// Burst holds the Goh-Barabasi burstiness parameter B and the lag-1 memory
// coefficient M of an event sequence.
//
// B near -1 signals mechanical regularity (scheduled automation), B near 0 is
// Poisson-random, B near +1 is natural bursty behavior.
type Burst struct {
	B float64
	M float64
}

// Burstiness computes B = (sigma-mu)/(sigma+mu) over the inter-event
// intervals of timestamps, plus the lag-1 autocorrelation of consecutive
// intervals. Fewer than 3 events yields the neutral zero result.
func Burstiness(timestamps []time.Time) Burst {
	if len(timestamps) < 3 {
		return Burst{}
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Sub(sorted[i-1]).Seconds())
	}

	n := float64(len(intervals))
	var mean float64
	for _, iv := range intervals {
		mean += iv
	}
	mean /= n

	var variance float64
	for _, iv := range intervals {
		variance += (iv - mean) * (iv - mean)
	}
	variance /= n
	sigma := math.Sqrt(variance)

	var b float64
	if sigma+mean > 0 {
		b = (sigma - mean) / (sigma + mean)
	}

	// Memory coefficient: correlation between consecutive intervals.
	var m float64
	if len(intervals) > 1 {
		var num, d1, d2 float64
		for i := 0; i < len(intervals)-1; i++ {
			num += (intervals[i] - mean) * (intervals[i+1] - mean)
			d1 += (intervals[i] - mean) * (intervals[i] - mean)
			d2 += (intervals[i+1] - mean) * (intervals[i+1] - mean)
		}
		if d1 > 0 && d2 > 0 {
			m = num / math.Sqrt(d1*d2)
		}
	}

	return Burst{B: b, M: m}
}

// NCD approximates the Normalized Compression Distance between two texts:
//
//	NCD(x,y) = (C(xy) - min(C(x),C(y))) / max(C(x),C(y))
//
// where C is the snappy-compressed length. Values below ~0.15 indicate
// near-identical content; values above ~0.7 indicate dissimilar content.
// Empty input yields the maximum distance 1.0.
func NCD(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 1.0
	}
	c1 := float64(len(snappy.Encode(nil, []byte(text1))))
	c2 := float64(len(snappy.Encode(nil, []byte(text2))))
	c12 := float64(len(snappy.Encode(nil, []byte(text1+text2))))
	return (c12 - math.Min(c1, c2)) / math.Max(c1, c2)
}

// Gini computes the Gini coefficient of a sorted, non-negative sequence.
// 0 means perfectly even distribution, 1 means fully concentrated.
func Gini(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	var total float64
	for _, v := range sorted {
		total += v
	}
	if total == 0 {
		return 0
	}
	var num float64
	for i, v := range sorted {
		num += float64(2*(i+1)-n-1) * v
	}
	return num / (float64(n) * total)
}
