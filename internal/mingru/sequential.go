package mingru

import (
	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Step advances the recurrence by one timestep:
//
//	z   = sigmoid(gate)
//	h_t = (1 - z) * h + z * g(cand)
//
// gate, cand and h share the shape [B, 1, C, ...]. The update is exact and
// elementwise; it is the reference the parallel scan is checked against.
// Gate logits saturate at ±LogitBound and candidate logits are floored at
// -LogitBound, as in the scan.
func Step[T tensor.Float](gate, cand, h *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	if err := checkGated("step", gate, cand, h); err != nil {
		return nil, err
	}
	if gate.Dim(1) != 1 {
		return nil, &ShapeError{Op: "step", Want: gate.Shape().With(1, 1), Got: gate.Shape(), Details: "expected a single timestep"}
	}
	if err := checkPositive(h); err != nil {
		return nil, err
	}
	return step(gate, cand, h, cfg.Parallel), nil
}

func step[T tensor.Float](gate, cand, h *tensor.Tensor[T], cfg parallel.Config) *tensor.Tensor[T] {
	out := h.Clone()
	gs, cs, hs, dst := gate.Data(), cand.Data(), h.Data(), out.Data()
	parallel.For(len(dst), func(i int) {
		g := saturateGate(float64(gs[i]))
		// 1 - z is evaluated as sigmoid(-g).
		dst[i] = T(Sigmoid(-g)*float64(hs[i]) + Sigmoid(g)*G(floorCandidate(float64(cs[i]))))
	}, cfg)
	return out
}
