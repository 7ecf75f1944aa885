package mingru

import (
	"math"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Sigmoid computes 1 / (1 + exp(-x)) without overflowing exp for large |x|.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Softplus computes log(1 + exp(x)) as max(x, 0) + log1p(exp(-|x|)).
func Softplus(x float64) float64 {
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

// G is the candidate activation:
//
//	g(x) = x + 0.5     for x >= 0
//	g(x) = sigmoid(x)  for x < 0
//
// g is continuous at 0 (both branches give 0.5) and its range is (0, inf),
// so candidate states can always be moved to log space. For x below about
// -745 the sigmoid branch underflows to 0 in float64; use LogG there.
func G(x float64) float64 {
	if x >= 0 {
		return x + 0.5
	}
	return Sigmoid(x)
}

// LogG computes log(g(x)) without materializing g(x):
//
//	log_g(x) = log(x + 0.5)     for x >= 0
//	log_g(x) = -softplus(-x)    for x < 0
//
// The result is finite for every finite x.
func LogG(x float64) float64 {
	if x >= 0 {
		return math.Log(x + 0.5)
	}
	return -Softplus(-x)
}

// LogitBound is the magnitude at which gate logits saturate inside the
// recurrence. Candidate logits are floored at -LogitBound. sigmoid(LogitBound)
// rounds to 1 in float64 and g(-LogitBound) is about 3.7e-44, so every log
// coefficient stays finite and g(cand) stays strictly positive.
const LogitBound = 100

// saturateGate clamps a gate logit to [-LogitBound, LogitBound].
func saturateGate(g float64) float64 {
	return max(min(g, LogitBound), -LogitBound)
}

// floorCandidate clamps a candidate logit from below at -LogitBound.
func floorCandidate(c float64) float64 {
	return max(c, -LogitBound)
}

// ApplyG returns g applied elementwise to x.
func ApplyG[T tensor.Float](x *tensor.Tensor[T], cfg Config) *tensor.Tensor[T] {
	return apply(x, G, cfg.Parallel)
}

// ApplyLogG returns log_g applied elementwise to x.
func ApplyLogG[T tensor.Float](x *tensor.Tensor[T], cfg Config) *tensor.Tensor[T] {
	return apply(x, LogG, cfg.Parallel)
}

func apply[T tensor.Float](x *tensor.Tensor[T], f func(float64) float64, cfg parallel.Config) *tensor.Tensor[T] {
	out := x.Clone()
	src, dst := x.Data(), out.Data()
	parallel.For(len(src), func(i int) {
		dst[i] = T(f(float64(src[i])))
	}, cfg)
	return out
}
