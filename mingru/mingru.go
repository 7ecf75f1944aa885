// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package mingru

import (
	"github.com/born-ml/mingru/internal/mingru"
	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Errors returned by the evaluation functions.
var (
	ErrShapeMismatch          = mingru.ErrShapeMismatch
	ErrInvalidSequenceLength  = mingru.ErrInvalidSequenceLength
	ErrNonPositiveHiddenState = mingru.ErrNonPositiveHiddenState
)

// LogitBound is the gate saturation magnitude and the candidate floor.
const LogitBound = mingru.LogitBound

// ShapeError provides detailed information about shape validation failures.
type ShapeError = mingru.ShapeError

// Config controls how the recurrence is evaluated.
type Config = mingru.Config

// ParallelConfig sets worker fan-out for the data-parallel kernels.
type ParallelConfig = parallel.Config

// DefaultConfig returns a config that uses every CPU.
func DefaultConfig() Config {
	return mingru.DefaultConfig()
}

// DefaultParallelConfig returns the default worker fan-out.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Projection produces gate and candidate logits, gate half first.
type Projection[T tensor.Float] = mingru.Projection[T]

// ProjectionFunc adapts a plain function to Projection.
type ProjectionFunc[T tensor.Float] = mingru.ProjectionFunc[T]

// Evaluate runs the minGRU over x [B, S, Cin] from h0 [B, 1, Chid].
//
// p maps Cin to 2*Chid channels. The result is [B, S, Chid].
func Evaluate[T tensor.Float](x, h0 *tensor.Tensor[T], p Projection[T], cfg Config) (*tensor.Tensor[T], error) {
	return mingru.Evaluate(x, h0, p, cfg)
}

// EvaluateSpatial runs the convolutional minGRU over x [B, S, Cin, H, W]
// from h0 [B, 1, Chid, H, W]. The result is [B, S, Chid, H, W].
func EvaluateSpatial[T tensor.Float](x, h0 *tensor.Tensor[T], p Projection[T], cfg Config) (*tensor.Tensor[T], error) {
	return mingru.EvaluateSpatial(x, h0, p, cfg)
}

// EvaluateGated runs the recurrence on precomputed logits.
//
// gate and cand are [B, S, C, ...]; h0 is [B, 1, C, ...].
func EvaluateGated[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	return mingru.EvaluateGated(gate, cand, h0, cfg)
}

// Trajectory returns all S+1 states of the parallel scan, h0 included.
func Trajectory[T tensor.Float](gate, cand, h0 *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	return mingru.Trajectory(gate, cand, h0, cfg)
}

// Step advances the recurrence by one timestep.
//
// gate, cand and h are [B, 1, C, ...].
func Step[T tensor.Float](gate, cand, h *tensor.Tensor[T], cfg Config) (*tensor.Tensor[T], error) {
	return mingru.Step(gate, cand, h, cfg)
}

// G is the positive candidate activation: x+0.5 for x >= 0, sigmoid(x) otherwise.
func G(x float64) float64 {
	return mingru.G(x)
}

// LogG is log(G(x)), computed without underflow.
func LogG(x float64) float64 {
	return mingru.LogG(x)
}
