// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/mingru/mingru"
	"github.com/born-ml/mingru/nn"
	"github.com/born-ml/mingru/tensor"
)

// TestProjectionsImplementInterface verifies the layers satisfy mingru.Projection.
func TestProjectionsImplementInterface(_ *testing.T) {
	var _ mingru.Projection[float32] = (*nn.Linear[float32])(nil)
	var _ mingru.Projection[float64] = (*nn.Conv2D[float64])(nil)
	var _ nn.Module[float32] = (*nn.Linear[float32])(nil)
	var _ nn.Module[float32] = nn.Identity[float32]{}
}

// TestMinGRUStack runs the three-layer residual stack through the public API.
func TestMinGRUStack(t *testing.T) {
	rnn, err := nn.NewMinGRU[float32](nn.MinGRUConfig{
		InputSize:   3,
		HiddenSizes: []int{16, 32, 64},
		Residual:    true,
		Bias:        true,
		Dropout:     0.1,
		Recurrence:  mingru.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("NewMinGRU failed: %v", err)
	}
	rnn.Eval()

	x, _ := tensor.Full(tensor.Shape{10, 8, 3}, float32(0.1))
	out, h, err := rnn.Forward(x, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if !out.Shape().Equal(tensor.Shape{10, 8, 64}) {
		t.Errorf("out shape = %v, want [10 8 64]", out.Shape())
	}
	for i, size := range []int{16, 32, 64} {
		if !h[i].Shape().Equal(tensor.Shape{10, 1, size}) {
			t.Errorf("h[%d] shape = %v, want [10 1 %d]", i, h[i].Shape(), size)
		}
	}
}

// TestConv2DSamePadding checks that spatial projections keep height and width.
func TestConv2DSamePadding(t *testing.T) {
	conv, err := nn.NewConv2D[float64](2, 6, 5, true, nil)
	if err != nil {
		t.Fatalf("NewConv2D failed: %v", err)
	}
	x, _ := tensor.New[float64](tensor.Shape{3, 2, 7, 4})
	out, err := conv.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if !out.Shape().Equal(tensor.Shape{3, 6, 7, 4}) {
		t.Errorf("out shape = %v, want [3 6 7 4]", out.Shape())
	}
}
