package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/mingru/internal/backend/cpu"
	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
)

// Conv2D is a 2D convolutional layer with stride 1 and "same" padding.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, k, k]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, height, width]
//
// k must be odd; padding is k/2 so height and width are preserved, which
// the spatial minGRU requires of its projection.
//
// Example:
//
//	conv, _ := nn.NewConv2D[float32](3, 2*8, 3, true, rng) // gate+candidate for 8 hidden maps
//	output, err := conv.Forward(input)                     // [N, 3, H, W] -> [N, 16, H, W]
type Conv2D[T tensor.Float] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	padding     int

	weight *tensor.Tensor[T] // [out_channels, in_channels, k, k]
	bias   *tensor.Tensor[T] // [out_channels] or nil

	cfg parallel.Config
}

// NewConv2D creates a new same-padded 2D convolutional layer with Xavier initialization.
//
// Initialization:
//   - Weights: Xavier/Glorot uniform, fan_in = in*k*k, fan_out = out*k*k
//   - Bias: Zeros
func NewConv2D[T tensor.Float](inChannels, outChannels, kernelSize int, useBias bool, rng *rand.Rand) (*Conv2D[T], error) {
	if inChannels <= 0 || outChannels <= 0 {
		return nil, fmt.Errorf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels)
	}
	if kernelSize <= 0 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("conv2d: kernel size must be odd and positive, got %d", kernelSize)
	}

	fanIn := inChannels * kernelSize * kernelSize
	fanOut := outChannels * kernelSize * kernelSize
	weight, err := Xavier[T](fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}, rng)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	var bias *tensor.Tensor[T]
	if useBias {
		if bias, err = tensor.New[T](tensor.Shape{outChannels}); err != nil {
			return nil, fmt.Errorf("conv2d: %w", err)
		}
	}

	return NewConv2DFrom(weight, bias)
}

// NewConv2DFrom creates a Conv2D layer from caller-supplied parameters.
//
// weight must be [out_channels, in_channels, k, k] with odd k; bias may be
// nil or [out_channels].
func NewConv2DFrom[T tensor.Float](weight, bias *tensor.Tensor[T]) (*Conv2D[T], error) {
	ws := weight.Shape()
	if len(ws) != 4 || ws.HasZero() {
		return nil, fmt.Errorf("conv2d: weight must be [out, in, k, k], got %v", ws)
	}
	if ws[2] != ws[3] || ws[2]%2 == 0 {
		return nil, fmt.Errorf("conv2d: kernel must be square with odd size, got %dx%d", ws[2], ws[3])
	}
	if bias != nil && !bias.Shape().Equal(tensor.Shape{ws[0]}) {
		return nil, fmt.Errorf("conv2d: bias shape mismatch: expected %v, got %v", tensor.Shape{ws[0]}, bias.Shape())
	}

	return &Conv2D[T]{
		inChannels:  ws[1],
		outChannels: ws[0],
		kernelSize:  ws[2],
		padding:     ws[2] / 2,
		weight:      weight,
		bias:        bias,
		cfg:         parallel.DefaultConfig(),
	}, nil
}

// Forward performs the forward pass.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, height, width].
func (c *Conv2D[T]) Forward(input *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		return nil, fmt.Errorf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape))
	}
	if inputShape[1] != c.inChannels {
		return nil, fmt.Errorf("conv2d: input channels %d != expected %d", inputShape[1], c.inChannels)
	}

	output, err := cpu.Conv2D(input, c.weight, 1, c.padding, c.cfg)
	if err != nil {
		return nil, err
	}
	if c.bias == nil {
		return output, nil
	}
	return cpu.AddBias(output, c.bias, 1)
}

// Project implements mingru.Projection.
func (c *Conv2D[T]) Project(x *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return c.Forward(x)
}

// InChannels implements mingru.Projection.
func (c *Conv2D[T]) InChannels() int {
	return c.inChannels
}

// OutChannels implements mingru.Projection.
func (c *Conv2D[T]) OutChannels() int {
	return c.outChannels
}

// KernelSize returns the kernel size.
func (c *Conv2D[T]) KernelSize() int {
	return c.kernelSize
}

// SetParallel replaces the kernel parallelism config.
func (c *Conv2D[T]) SetParallel(cfg parallel.Config) {
	c.cfg = cfg
}

// Weight returns the weight tensor.
func (c *Conv2D[T]) Weight() *tensor.Tensor[T] {
	return c.weight
}

// Bias returns the bias tensor, or nil.
func (c *Conv2D[T]) Bias() *tensor.Tensor[T] {
	return c.bias
}
