package mingru

import (
	"fmt"
	"math"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Trajectory evaluates the whole sequence with the log-space scan and
// returns every hidden state including the initial one.
//
// gate and cand are [B, S, C, ...], h0 is [B, 1, C, ...]; the result is
// [B, S+1, C, ...] with slot 0 equal to h0 (up to exp(log(h0)) rounding).
//
// The recurrence h_t = exp(a_t) h_{t-1} + exp(b_t) with
//
//	a_t = log(1 - z_t) = -softplus(gate_t)
//	b_t = log(z_t) + log_g(cand_t) = -softplus(-gate_t) + log_g(cand_t)
//	b_0 = log(h0)
//
// has the closed form h_t = exp(A*_t) * sum_{k<=t} exp(b_k - A*_k), where
// A* is the inclusive prefix sum of [0, a_1, ..., a_S]. Both prefixes are
// computed with parallel.Scan, so depth over the time axis is logarithmic.
//
// Gates are clamped to ±LogitBound and candidates floored at -LogitBound
// before the logs are taken, so every a_t lies in [-LogitBound, 0] and every
// b_t is finite. A* then grows at most linearly in S and D = B - A* keeps
// the precision of B for any finite logits.
func Trajectory[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	if err := checkGated("trajectory", gate, cand, h0); err != nil {
		return nil, err
	}
	if err := checkPositive(h0); err != nil {
		return nil, err
	}
	return trajectory(gate, cand, h0, cfg.Parallel)
}

func trajectory[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg parallel.Config) (*tensor.Tensor[T], error) {
	shape := gate.Shape()
	steps := shape[1]
	lanes := parallel.Lanes{Outer: shape[0], Length: steps + 1, Inner: shape.Inner(1)}
	n := lanes.Size()

	// Step 1: A = [0, a_1..a_S] and B = [b_0, b_1..b_S] along time.
	logA := make([]float64, n)
	logB := make([]float64, n)
	gs, cs, hs := gate.Data(), cand.Data(), h0.Data()
	parallel.For(n, func(i int) {
		k := i % lanes.Inner
		t := (i / lanes.Inner) % lanes.Length
		b := i / (lanes.Inner * lanes.Length)
		if t == 0 {
			logA[i] = 0
			logB[i] = math.Log(float64(hs[b*lanes.Inner+k]))
			return
		}
		src := (b*steps+t-1)*lanes.Inner + k
		g := saturateGate(float64(gs[src]))
		logA[i] = -Softplus(g)
		logB[i] = -Softplus(-g) + LogG(floorCandidate(float64(cs[src])))
	}, cfg)

	// Step 2: A* = cumsum(A).
	aStar, err := parallel.Scan(logA, lanes, add, cfg)
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}

	// Step 3: D = B - A*.
	parallel.For(n, func(i int) {
		logB[i] -= aStar[i]
	}, cfg)

	// Step 4: C = logcumsumexp(D).
	c, err := parallel.Scan(logB, lanes, logAddExp, cfg)
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}

	// Steps 5 and 6: h = exp(A* + C).
	out, err := tensor.New[T](shape.With(1, steps+1))
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	dst := out.Data()
	parallel.For(n, func(i int) {
		// Rounding in log space can step just past the largest float64.
		dst[i] = T(min(math.Exp(aStar[i]+c[i]), math.MaxFloat64))
	}, cfg)
	return out, nil
}

func add(a, b float64) float64 {
	return a + b
}

// logAddExp computes log(exp(a) + exp(b)) by shifting both terms by their
// maximum before exponentiating.
func logAddExp(a, b float64) float64 {
	m := math.Max(a, b)
	if math.IsInf(m, 0) {
		// -inf + -inf stays -inf; any +inf dominates.
		return m
	}
	return m + math.Log1p(math.Exp(-math.Abs(a-b)))
}
