package cpu

import (
	"testing"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill[T tensor.Float](t *testing.T, shape tensor.Shape, f func(i int) T) *tensor.Tensor[T] {
	t.Helper()
	x, err := tensor.New[T](shape)
	require.NoError(t, err)
	for i := range x.Data() {
		x.Data()[i] = f(i)
	}
	return x
}

// TestConv2D_BasicForward tests basic Conv2D forward pass.
func TestConv2D_BasicForward(t *testing.T) {
	// Input: [1, 1, 3, 3]
	// 1 2 3
	// 4 5 6
	// 7 8 9
	input := fill(t, tensor.Shape{1, 1, 3, 3}, func(i int) float32 { return float32(i + 1) })

	// Kernel: [1, 1, 2, 2], identity-like
	kernel, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)

	output, err := Conv2D(input, kernel, 1, 0, parallel.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, output.Shape())
	// Diagonal sums: 1+5, 2+6, 4+8, 5+9
	assert.Equal(t, []float32{6, 8, 12, 14}, output.Data())
}

// TestConv2D_SamePadding tests the zero padding used by spatial projections.
func TestConv2D_SamePadding(t *testing.T) {
	input := fill(t, tensor.Shape{1, 1, 3, 3}, func(int) float64 { return 1 })
	kernel := fill(t, tensor.Shape{1, 1, 3, 3}, func(int) float64 { return 1 })

	output, err := Conv2D(input, kernel, 1, 1, parallel.Sequential())
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, output.Shape())
	// Corner: 4 valid taps, edge: 6, center: 9
	assert.Equal(t, []float64{
		4, 6, 4,
		6, 9, 6,
		4, 6, 4,
	}, output.Data())
}

// TestConv2D_WithStride tests Conv2D with stride > 1.
func TestConv2D_WithStride(t *testing.T) {
	input := fill(t, tensor.Shape{1, 1, 4, 4}, func(i int) float32 { return float32(i + 1) })
	kernel := fill(t, tensor.Shape{1, 1, 2, 2}, func(int) float32 { return 1 })

	output, err := Conv2D(input, kernel, 2, 0, parallel.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, output.Shape())
	// [1,2,5,6]=14 [3,4,7,8]=22 [9,10,13,14]=46 [11,12,15,16]=54
	assert.Equal(t, []float32{14, 22, 46, 54}, output.Data())
}

// TestConv2D_MultiChannelBatch tests multiple input/output channels and batch layout.
func TestConv2D_MultiChannelBatch(t *testing.T) {
	// Input: [2, 2, 3, 3]; batch 0 channel c holds c+1, batch 1 holds 10*(c+1).
	input := fill(t, tensor.Shape{2, 2, 3, 3}, func(i int) float64 {
		n, c := i/18, (i/9)%2
		if n == 1 {
			return float64(10 * (c + 1))
		}
		return float64(c + 1)
	})

	// Output channel 0: all ones, channel 1: all 0.5
	kernel := fill(t, tensor.Shape{2, 2, 2, 2}, func(i int) float64 {
		if i < 8 {
			return 1
		}
		return 0.5
	})

	output, err := Conv2D(input, kernel, 1, 0, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 2, 2, 2}, output.Shape())

	// Each 2x2 patch: 4*1 + 4*2 = 12 for batch 0, 4*10 + 4*20 = 120 for batch 1.
	for p := 0; p < 4; p++ {
		assert.Equal(t, 12.0, output.At(0, 0, p/2, p%2))
		assert.Equal(t, 6.0, output.At(0, 1, p/2, p%2))
		assert.Equal(t, 120.0, output.At(1, 0, p/2, p%2))
		assert.Equal(t, 60.0, output.At(1, 1, p/2, p%2))
	}
}

func TestConv2D_InvalidShapes(t *testing.T) {
	cfg := parallel.Sequential()
	input := fill(t, tensor.Shape{1, 2, 3, 3}, func(int) float32 { return 1 })

	wrongChannels := fill(t, tensor.Shape{1, 3, 3, 3}, func(int) float32 { return 1 })
	_, err := Conv2D(input, wrongChannels, 1, 1, cfg)
	require.Error(t, err)

	tooLarge := fill(t, tensor.Shape{1, 2, 5, 5}, func(int) float32 { return 1 })
	_, err = Conv2D(input, tooLarge, 1, 0, cfg)
	require.Error(t, err)

	flat := fill(t, tensor.Shape{2, 3}, func(int) float32 { return 1 })
	_, err = Conv2D(flat, wrongChannels, 1, 0, cfg)
	require.Error(t, err)

	_, err = Conv2D(input, wrongChannels, 0, 0, cfg)
	require.Error(t, err)
}
