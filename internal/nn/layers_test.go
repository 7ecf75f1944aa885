package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/mingru/internal/parallel"
	"github.com/born-ml/mingru/internal/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTensor[T tensor.Float](t *testing.T, data []T, shape tensor.Shape) *tensor.Tensor[T] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func TestXavier(t *testing.T) {
	shape := tensor.Shape{8, 4}
	bound := math.Sqrt(6.0 / 12.0)

	w, err := Xavier[float64](4, 8, shape, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, shape, w.Shape())
	for _, v := range w.Data() {
		assert.LessOrEqual(t, math.Abs(v), bound)
	}

	again, err := Xavier[float64](4, 8, shape, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, w.Data(), again.Data(), "same seed must give same weights")

	_, err = Xavier[float32](1, 1, tensor.Shape{-1}, nil)
	require.Error(t, err)
}

func TestLinear_Forward(t *testing.T) {
	weight := mustTensor(t, []float64{1, 0, 0, 0, 1, 1}, tensor.Shape{2, 3})
	bias := mustTensor(t, []float64{1, 2}, tensor.Shape{2})
	layer, err := NewLinearFrom(weight, bias)
	require.NoError(t, err)

	assert.Equal(t, 3, layer.InChannels())
	assert.Equal(t, 2, layer.OutChannels())

	x := mustTensor(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{2, 7, 5, 13}, out.Data())

	projected, err := layer.Project(x)
	require.NoError(t, err)
	assert.Equal(t, out.Data(), projected.Data())
}

func TestLinear_NoBias(t *testing.T) {
	layer, err := NewLinear[float32](3, 4, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Nil(t, layer.Bias())
	assert.Equal(t, tensor.Shape{4, 3}, layer.Weight().Shape())

	x, err := tensor.New[float32](tensor.Shape{5, 3})
	require.NoError(t, err)
	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, 4}, out.Shape())
	for _, v := range out.Data() {
		assert.Zero(t, v)
	}
}

func TestLinear_Errors(t *testing.T) {
	_, err := NewLinear[float64](0, 2, true, nil)
	require.Error(t, err)

	weight := mustTensor(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	_, err = NewLinearFrom(weight, mustTensor(t, []float64{1, 2, 3}, tensor.Shape{3}))
	require.Error(t, err)
	_, err = NewLinearFrom(mustTensor(t, []float64{1, 2}, tensor.Shape{2}), nil)
	require.Error(t, err)

	layer, err := NewLinearFrom(weight, nil)
	require.NoError(t, err)
	_, err = layer.Forward(mustTensor(t, []float64{1, 2, 3}, tensor.Shape{1, 3}))
	require.Error(t, err)
	_, err = layer.Forward(mustTensor(t, []float64{1, 2}, tensor.Shape{2}))
	require.Error(t, err)
}

func TestConv2D_SamePadding(t *testing.T) {
	ones := make([]float64, 9)
	for i := range ones {
		ones[i] = 1
	}
	weight := mustTensor(t, ones, tensor.Shape{1, 1, 3, 3})
	bias := mustTensor(t, []float64{0.5}, tensor.Shape{1})
	conv, err := NewConv2DFrom(weight, bias)
	require.NoError(t, err)

	x := mustTensor(t, append([]float64(nil), ones...), tensor.Shape{1, 1, 3, 3})
	out, err := conv.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, out.Shape(), "same padding keeps H and W")
	assert.Equal(t, []float64{4.5, 6.5, 4.5, 6.5, 9.5, 6.5, 4.5, 6.5, 4.5}, out.Data())
}

func TestConv2D_PointwiseMatchesLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	weights := make([]float64, 6*4)
	for i := range weights {
		weights[i] = rng.NormFloat64()
	}
	bias := []float64{0.1, -0.2, 0.3, 0, 1, -1}

	linear, err := NewLinearFrom(
		mustTensor(t, weights, tensor.Shape{6, 4}),
		mustTensor(t, bias, tensor.Shape{6}),
	)
	require.NoError(t, err)
	conv, err := NewConv2DFrom(
		mustTensor(t, append([]float64(nil), weights...), tensor.Shape{6, 4, 1, 1}),
		mustTensor(t, append([]float64(nil), bias...), tensor.Shape{6}),
	)
	require.NoError(t, err)

	x := make([]float64, 5*4)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	flat, err := linear.Forward(mustTensor(t, x, tensor.Shape{5, 4}))
	require.NoError(t, err)
	spatial, err := conv.Forward(mustTensor(t, append([]float64(nil), x...), tensor.Shape{5, 4, 1, 1}))
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{5, 6, 1, 1}, spatial.Shape())
	if diff := cmp.Diff(flat.Data(), spatial.Data(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("1x1 conv differs from linear (-linear +conv):\n%s", diff)
	}
}

func TestConv2D_ParallelMatchesSequential(t *testing.T) {
	conv, err := NewConv2D[float64](3, 4, 3, true, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	for i := range conv.Bias().Data() {
		conv.Bias().Data()[i] = float64(i)
	}

	rng := rand.New(rand.NewSource(10))
	x, err := tensor.New[float64](tensor.Shape{2, 3, 5, 4})
	require.NoError(t, err)
	for i := range x.Data() {
		x.Data()[i] = rng.NormFloat64()
	}

	conv.SetParallel(parallel.Sequential())
	want, err := conv.Forward(x)
	require.NoError(t, err)
	conv.SetParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	got, err := conv.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 4, 5, 4}, got.Shape())
	assert.Equal(t, want.Data(), got.Data())
}

func TestConv2D_Errors(t *testing.T) {
	_, err := NewConv2D[float64](1, 2, 2, true, nil)
	require.Error(t, err, "even kernel")
	_, err = NewConv2D[float64](0, 2, 3, true, nil)
	require.Error(t, err)

	_, err = NewConv2DFrom(mustTensor(t, make([]float64, 6), tensor.Shape{1, 1, 3, 2}), nil)
	require.Error(t, err, "non-square kernel")
	_, err = NewConv2DFrom(mustTensor(t, make([]float64, 9), tensor.Shape{1, 1, 3, 3}), mustTensor(t, []float64{1, 2}, tensor.Shape{2}))
	require.Error(t, err, "bias size")

	conv, err := NewConv2D[float64](2, 2, 3, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, conv.KernelSize())
	_, err = conv.Forward(mustTensor(t, make([]float64, 9), tensor.Shape{1, 1, 3, 3}))
	require.Error(t, err, "channel mismatch")
	_, err = conv.Forward(mustTensor(t, make([]float64, 9), tensor.Shape{1, 9}))
	require.Error(t, err, "rank")
}

func TestIdentity(t *testing.T) {
	x := mustTensor(t, []float32{1, 2}, tensor.Shape{1, 2})
	out, err := Identity[float32]{}.Forward(x)
	require.NoError(t, err)
	assert.Same(t, x, out)
}
