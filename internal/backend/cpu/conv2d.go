package cpu

import (
	"fmt"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Conv2D performs 2D convolution using im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// Algorithm: Im2col
//  1. Transform input patches into columns (im2col)
//  2. Treat the kernel as a [C_out, C_in*K_h*K_w] matrix
//  3. Dot every output channel with every column, in parallel over (n, c_out)
//
// Reference: "High Performance Convolutional Neural Networks for Document Processing"
// (Chellapilla et al., 2006).
func Conv2D[T tensor.Float](input, kernel *tensor.Tensor[T], stride, padding int, cfg parallel.Config) (*tensor.Tensor[T], error) {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		return nil, fmt.Errorf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape))
	}
	if len(kernelShape) != 4 {
		return nil, fmt.Errorf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape))
	}
	if stride <= 0 || padding < 0 {
		return nil, fmt.Errorf("conv2d: invalid stride %d or padding %d", stride, padding)
	}

	N := inputShape[0]     // batch size
	CIn := inputShape[1]   // input channels
	H := inputShape[2]     // input height
	W := inputShape[3]     // input width
	COut := kernelShape[0] // output channels
	CInK := kernelShape[1] // kernel input channels (must match CIn)
	KH := kernelShape[2]   // kernel height
	KW := kernelShape[3]   // kernel width

	if CIn != CInK {
		return nil, fmt.Errorf("conv2d: input channels %d != kernel channels %d", CIn, CInK)
	}

	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1
	if HOut <= 0 || WOut <= 0 {
		return nil, fmt.Errorf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", HOut, WOut)
	}

	output, err := tensor.New[T](tensor.Shape{N, COut, HOut, WOut})
	if err != nil {
		return nil, fmt.Errorf("conv2d: failed to create output tensor: %w", err)
	}

	// colBuf: [N * H_out * W_out, C_in * K_h * K_w]
	geom := im2colGeometry{C: CIn, H: H, W: W, KH: KH, KW: KW, HOut: HOut, WOut: WOut, stride: stride, padding: padding}
	colWidth := CIn * KH * KW
	colBuf := make([]float64, N*HOut*WOut*colWidth)
	parallel.For(N, func(n int) {
		im2col(colBuf, input.Data(), n, geom)
	}, cfg)

	kernelData := kernel.Data()
	outputData := output.Data()
	plane := HOut * WOut

	// output[n, c, p] = sum_k kernel[c, k] * colBuf[n*plane + p, k]
	parallel.ForBatch(N, COut, func(n, c int) {
		weights := kernelData[c*colWidth : (c+1)*colWidth]
		dst := outputData[(n*COut+c)*plane : (n*COut+c+1)*plane]
		for p := range dst {
			col := colBuf[(n*plane+p)*colWidth : (n*plane+p+1)*colWidth]
			var sum float64
			for k, v := range weights {
				sum += float64(v) * col[k]
			}
			dst[p] = T(sum)
		}
	}, cfg)

	return output, nil
}

type im2colGeometry struct {
	C, H, W         int
	KH, KW          int
	HOut, WOut      int
	stride, padding int
}

// im2col fills the colBuf rows of batch element n.
//
// Each row of colBuf corresponds to one output position.
// Each column corresponds to one kernel weight.
// Out-of-bounds taps read zero (padding).
func im2col[T tensor.Float](colBuf []float64, inputData []T, n int, g im2colGeometry) {
	colWidth := g.C * g.KH * g.KW
	colIdx := n * g.HOut * g.WOut

	for outH := 0; outH < g.HOut; outH++ {
		for outW := 0; outW < g.WOut; outW++ {
			// Top-left corner in input space
			hStart := outH*g.stride - g.padding
			wStart := outW*g.stride - g.padding
			bufIdx := colIdx * colWidth

			for c := 0; c < g.C; c++ {
				for kh := 0; kh < g.KH; kh++ {
					for kw := 0; kw < g.KW; kw++ {
						h := hStart + kh
						w := wStart + kw
						if h >= 0 && h < g.H && w >= 0 && w < g.W {
							colBuf[bufIdx] = float64(inputData[n*g.C*g.H*g.W+c*g.H*g.W+h*g.W+w])
						} else {
							colBuf[bufIdx] = 0.0
						}
						bufIdx++
					}
				}
			}
			colIdx++
		}
	}
}
