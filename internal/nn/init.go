package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/mingru/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// rng may be nil, in which case the global math/rand source is used.
func Xavier[T tensor.Float](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.Tensor[T], error) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t, err := tensor.New[T](shape)
	if err != nil {
		return nil, err
	}

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	data := t.Data()
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = T((uniform()*2.0 - 1.0) * bound)
	}
	return t, nil
}
