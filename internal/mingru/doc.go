// Package mingru evaluates a minimal gated recurrent unit over batches of
// sequences.
//
// The recurrence per channel is
//
//	z_t = sigmoid(gate_t)
//	h_t = (1 - z_t) * h_{t-1} + z_t * g(cand_t)
//
// where gate and cand are the two halves of an external projection of x_t.
// A single timestep is evaluated directly (Step). Longer sequences are
// evaluated at once by a log-space associative scan (Trajectory) that is
// numerically equivalent to iterating Step.
//
// Entry points:
//   - Evaluate: flat sequences [B, S, Cin] with a linear-style projection
//   - EvaluateSpatial: feature-map sequences [B, S, Cin, H, W] with a convolution
//   - EvaluateGated: precomputed gate/candidate logits of any trailing shape
//
// Example usage:
//
//	h0, _ := tensor.Full(tensor.Shape{batch, 1, hidden}, float32(mingru.G(0)))
//	h, err := mingru.Evaluate(x, h0, proj, mingru.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
// Every hidden state is strictly positive; initial states that are not fail
// with ErrNonPositiveHiddenState.
package mingru
