// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the projection layers and the multi-layer minGRU.
//
// # Overview
//
// This package contains:
//   - Linear: fully connected projection for flat sequences
//   - Conv2D: same-padded convolution for feature-map sequences
//   - MinGRU: stacked minGRU layers with residual and dropout options
//   - Module interface and Xavier initialization
//
// Linear and Conv2D satisfy mingru.Projection.
//
// # Stacks
//
//	rnn, err := nn.NewMinGRU[float32](nn.MinGRUConfig{
//	    InputSize:   3,
//	    HiddenSizes: []int{16, 32, 64},
//	    Residual:    true,
//	    Bias:        true,
//	})
//	rnn.Eval()
//	out, h, err := rnn.Forward(x, nil) // out: [B, S, 64], h[l]: [B, 1, size_l]
//
// Passing h back into Forward continues the sequences where they stopped.
package nn
