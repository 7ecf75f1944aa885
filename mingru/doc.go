// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mingru provides the public API of the minimal gated recurrent unit.
//
// # Overview
//
// A minGRU keeps one strictly positive hidden value per channel and updates
// it with
//
//	z_t = sigmoid(gate_t)
//	h_t = (1 - z_t) * h_{t-1} + z_t * g(cand_t)
//
// where gate and cand are both produced by a single projection of x_t with
// 2*hidden output channels. Because the recurrence does not feed h back into
// the projection, a whole sequence is evaluated at once with a log-space
// parallel scan; a single timestep is evaluated directly.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mingru/mingru"
//	    "github.com/born-ml/mingru/nn"
//	    "github.com/born-ml/mingru/tensor"
//	)
//
//	func main() {
//	    proj, _ := nn.NewLinear[float32](16, 2*32, true, nil)
//	    h0, _ := tensor.Full(tensor.Shape{batch, 1, 32}, float32(mingru.G(0)))
//
//	    // x: [batch, steps, 16] -> h: [batch, steps, 32]
//	    h, err := mingru.Evaluate(x, h0, proj, mingru.DefaultConfig())
//	}
//
// # Feature maps
//
// EvaluateSpatial runs the same recurrence over [B, S, C, H, W] with a
// same-padded convolution as the projection (see nn.NewConv2D). Every pixel
// is an independent lane of the scan.
//
// # Multi-layer stacks
//
// nn.NewMinGRU builds stacks with residual connections and dropout between
// layers and returns the final hidden state of every layer.
//
// # Errors
//
// Invalid shapes report ErrShapeMismatch (as *ShapeError), empty sequences
// ErrInvalidSequenceLength, and initial states with non-positive or
// non-finite values ErrNonPositiveHiddenState. Match them with errors.Is.
package mingru
