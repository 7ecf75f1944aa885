package nn

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/born-ml/mingru/internal/mingru"
	"github.com/born-ml/mingru/internal/tensor"
)

// MinGRUConfig describes a stack of minGRU layers.
type MinGRUConfig struct {
	// InputSize is the channel count of the first layer's input.
	InputSize int

	// HiddenSizes holds one hidden width per layer.
	HiddenSizes []int

	// Residual adds an aligned copy of each layer's input to its output.
	Residual bool

	// Dropout is the probability of zeroing an output element between
	// layers. Values are clamped to [0, 1]. The last layer is never dropped.
	Dropout float64

	// Bias enables bias terms in projections and align layers.
	Bias bool

	// Spatial switches to same-padded convolutions over [B, S, C, H, W].
	Spatial bool

	// KernelSize is the convolution size when Spatial is set. Zero means 3.
	KernelSize int

	// Seed drives weight initialization and dropout masks.
	Seed int64

	// Recurrence configures evaluation. The zero value runs sequentially.
	Recurrence mingru.Config
}

// Layer is one minGRU layer of a stack.
type Layer[T tensor.Float] struct {
	proj  mingru.Projection[T]
	align Module[T]
	in    int
	out   int
}

// Projection returns the gate/candidate projection.
func (l *Layer[T]) Projection() mingru.Projection[T] { return l.proj }

// Align returns the residual align module.
func (l *Layer[T]) Align() Module[T] { return l.align }

// MinGRU is a multi-layer minGRU.
//
// Each layer projects its input to 2*hidden channels and runs the
// recurrence. Layer l+1 consumes the output of layer l. In training mode,
// dropout with keep probability 1-Dropout is applied between layers; the
// kept elements are not rescaled.
//
// Forward is safe for concurrent use. Each call draws its dropout masks from
// its own source seeded with Seed plus the call count, so a fresh stack
// replays the same masks for the same call order. Train and Eval must not
// run concurrently with Forward.
type MinGRU[T tensor.Float] struct {
	layers   []*Layer[T]
	sizes    []int
	residual bool
	dropout  float64
	spatial  bool
	training bool
	seed     int64
	calls    atomic.Int64
	cfg      mingru.Config
}

// NewMinGRU builds a stack from cfg. The stack starts in training mode.
func NewMinGRU[T tensor.Float](cfg MinGRUConfig) (*MinGRU[T], error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("mingru stack: invalid input size %d", cfg.InputSize)
	}
	if len(cfg.HiddenSizes) == 0 {
		return nil, errors.New("mingru stack: at least one hidden size is required")
	}
	kernel := cfg.KernelSize
	if kernel == 0 {
		kernel = 3
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // Weight init (not security-critical)
	sizes := append([]int{cfg.InputSize}, cfg.HiddenSizes...)

	m := &MinGRU[T]{
		sizes:    sizes,
		residual: cfg.Residual,
		dropout:  max(min(cfg.Dropout, 1), 0),
		spatial:  cfg.Spatial,
		training: true,
		seed:     cfg.Seed,
		cfg:      cfg.Recurrence,
	}

	for i, out := range cfg.HiddenSizes {
		in := sizes[i]
		if out <= 0 {
			return nil, fmt.Errorf("mingru stack: layer %d: invalid hidden size %d", i, out)
		}
		layer, err := newLayer[T](in, out, kernel, cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("mingru stack: layer %d: %w", i, err)
		}
		m.layers = append(m.layers, layer)
	}
	return m, nil
}

func newLayer[T tensor.Float](in, out, kernel int, cfg MinGRUConfig, rng *rand.Rand) (*Layer[T], error) {
	layer := &Layer[T]{in: in, out: out, align: Identity[T]{}}

	if cfg.Spatial {
		proj, err := NewConv2D[T](in, 2*out, kernel, cfg.Bias, rng)
		if err != nil {
			return nil, err
		}
		proj.SetParallel(cfg.Recurrence.Parallel)
		layer.proj = proj
		if cfg.Residual && in != out {
			align, err := NewConv2D[T](in, out, 1, cfg.Bias, rng)
			if err != nil {
				return nil, err
			}
			align.SetParallel(cfg.Recurrence.Parallel)
			layer.align = align
		}
		return layer, nil
	}

	proj, err := NewLinear[T](in, 2*out, cfg.Bias, rng)
	if err != nil {
		return nil, err
	}
	proj.SetParallel(cfg.Recurrence.Parallel)
	layer.proj = proj
	if cfg.Residual && in != out {
		align, err := NewLinear[T](in, out, cfg.Bias, rng)
		if err != nil {
			return nil, err
		}
		align.SetParallel(cfg.Recurrence.Parallel)
		layer.align = align
	}
	return layer, nil
}

// NumLayers returns the number of layers.
func (m *MinGRU[T]) NumLayers() int { return len(m.layers) }

// LayerSizes returns the input size followed by every hidden size.
func (m *MinGRU[T]) LayerSizes() []int { return append([]int(nil), m.sizes...) }

// Layers returns the layers in evaluation order.
func (m *MinGRU[T]) Layers() []*Layer[T] { return m.layers }

// Train enables dropout.
func (m *MinGRU[T]) Train() { m.training = true }

// Eval disables dropout.
func (m *MinGRU[T]) Eval() { m.training = false }

// Training reports whether dropout is active.
func (m *MinGRU[T]) Training() bool { return m.training }

// InitHiddenState returns g(0) = 0.5 filled states, one per layer, sized for x.
//
// Flat stacks return [B, 1, hidden]; spatial stacks [B, 1, hidden, H, W].
func (m *MinGRU[T]) InitHiddenState(x *tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	xs := x.Shape()
	if err := m.checkInput(xs); err != nil {
		return nil, err
	}
	h := make([]*tensor.Tensor[T], len(m.layers))
	for i, layer := range m.layers {
		t, err := tensor.Full(xs.With(1, 1).With(2, layer.out), T(mingru.G(0)))
		if err != nil {
			return nil, fmt.Errorf("mingru stack: %w", err)
		}
		h[i] = t
	}
	return h, nil
}

// Forward evaluates the stack.
//
// x is [B, S, InputSize] or [B, S, InputSize, H, W] for spatial stacks.
// h holds one initial state per layer; nil allocates InitHiddenState.
// It returns the last layer's output and, per layer, the hidden state at
// the final timestep, taken before residual and dropout are applied.
func (m *MinGRU[T]) Forward(x *tensor.Tensor[T], h []*tensor.Tensor[T]) (*tensor.Tensor[T], []*tensor.Tensor[T], error) {
	if err := m.checkInput(x.Shape()); err != nil {
		return nil, nil, err
	}
	if h == nil {
		var err error
		if h, err = m.InitHiddenState(x); err != nil {
			return nil, nil, err
		}
	}
	if len(h) != len(m.layers) {
		return nil, nil, fmt.Errorf("mingru stack: expected %d hidden states, got %d", len(m.layers), len(h))
	}

	var masks *rand.Rand
	if m.training && m.dropout > 0 && len(m.layers) > 1 {
		masks = rand.New(rand.NewSource(m.seed + m.calls.Add(1))) //nolint:gosec // Dropout masks (not security-critical)
	}

	inp := x
	next := make([]*tensor.Tensor[T], len(m.layers))
	var out *tensor.Tensor[T]
	for i, layer := range m.layers {
		var err error
		if m.spatial {
			out, err = mingru.EvaluateSpatial(inp, h[i], layer.proj, m.cfg)
		} else {
			out, err = mingru.Evaluate(inp, h[i], layer.proj, m.cfg)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("mingru stack: layer %d: %w", i, err)
		}

		if next[i], err = out.Narrow(1, out.Dim(1)-1, 1); err != nil {
			return nil, nil, fmt.Errorf("mingru stack: layer %d: %w", i, err)
		}

		if m.residual {
			if out, err = m.addResidual(out, inp, layer); err != nil {
				return nil, nil, fmt.Errorf("mingru stack: layer %d: residual: %w", i, err)
			}
		}

		if masks != nil && i < len(m.layers)-1 {
			out = m.drop(out, masks)
		}
		inp = out
	}
	return out, next, nil
}

func (m *MinGRU[T]) checkInput(xs tensor.Shape) error {
	rank := 3
	if m.spatial {
		rank = 5
	}
	if len(xs) != rank || xs[2] != m.sizes[0] {
		want := "[B, S, input_size]"
		if m.spatial {
			want = "[B, S, input_size, H, W]"
		}
		return &mingru.ShapeError{
			Op:      "mingru stack",
			Got:     xs,
			Details: fmt.Sprintf("input must be %s with input_size %d", want, m.sizes[0]),
		}
	}
	return nil
}

// addResidual returns out + align(inp), applying align per timestep.
func (m *MinGRU[T]) addResidual(out, inp *tensor.Tensor[T], layer *Layer[T]) (*tensor.Tensor[T], error) {
	is := inp.Shape()
	flat, err := inp.Reshape(append([]int{is[0] * is[1]}, is[2:]...)...)
	if err != nil {
		return nil, err
	}
	aligned, err := layer.align.Forward(flat)
	if err != nil {
		return nil, err
	}
	if aligned, err = aligned.Reshape(out.Shape()...); err != nil {
		return nil, err
	}
	return out.Add(aligned)
}

func (m *MinGRU[T]) drop(out *tensor.Tensor[T], masks *rand.Rand) *tensor.Tensor[T] {
	keep := 1 - m.dropout
	return out.Map(func(v T) T {
		if masks.Float64() < keep {
			return v
		}
		return 0
	})
}
