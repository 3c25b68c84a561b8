package recommend

import "math"

// CosineSimilarity compares two vectors in [-1, 1]. Zero-length or
// zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na <= 0 || nb <= 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// NormalizeInPlace rescales scores to [0,1] by min-max over the slice.
// When every value is identical the whole slice maps to 0, never NaN.
func NormalizeInPlace(scores []float64) {
	if len(scores) == 0 {
		return
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	spread := max - min
	for i := range scores {
		if spread == 0 {
			scores[i] = 0
			continue
		}
		scores[i] = (scores[i] - min) / spread
	}
}

// Bias relaxes a stated threshold in [0,1] slightly toward accepting
// near-misses. A downward-relaxed value (an upper bound like budget) is nudged
// toward 1, an upward-relaxed value (a lower bound like minimum rating) toward
// 0. The exponent must be in (0,1).
func Bias(value, exponent float64, downward bool) float64 {
	if downward {
		return math.Pow(value, exponent)
	}
	return math.Pow(value, 1/exponent)
}
