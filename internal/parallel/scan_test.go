package parallel

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serialScan is the left-to-right reference for Scan.
func serialScan[T any](data []T, lanes Lanes, op func(a, b T) T) []T {
	out := make([]T, len(data))
	copy(out, data)
	for o := 0; o < lanes.Outer; o++ {
		for k := 0; k < lanes.Inner; k++ {
			base := o*lanes.Length*lanes.Inner + k
			for t := 1; t < lanes.Length; t++ {
				i := base + t*lanes.Inner
				out[i] = op(out[i-lanes.Inner], out[i])
			}
		}
	}
	return out
}

func TestScan_Sum(t *testing.T) {
	configs := map[string]Config{
		"sequential": Sequential(),
		"parallel":   {Enabled: true, NumWorkers: 4, MinChunkSize: 1},
		"default":    DefaultConfig(),
	}
	shapes := []Lanes{
		{Outer: 1, Length: 1, Inner: 1},
		{Outer: 1, Length: 2, Inner: 1},
		{Outer: 2, Length: 5, Inner: 3},
		{Outer: 3, Length: 51, Inner: 4},
		{Outer: 1, Length: 64, Inner: 1},
		{Outer: 1, Length: 65, Inner: 2},
	}

	add := func(a, b float64) float64 { return a + b }

	for name, cfg := range configs {
		for _, lanes := range shapes {
			data := make([]float64, lanes.Size())
			for i := range data {
				data[i] = math.Sin(float64(i)) * 3
			}

			got, err := Scan(data, lanes, add, cfg)
			require.NoError(t, err)

			want := serialScan(data, lanes, add)
			if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("%s %+v: mismatch (-want +got):\n%s", name, lanes, diff)
			}
		}
	}
}

func TestScan_PreservesOrder(t *testing.T) {
	// String concatenation is associative but not commutative.
	lanes := Lanes{Outer: 2, Length: 7, Inner: 2}
	data := make([]string, lanes.Size())
	for i := range data {
		data[i] = string(rune('a' + i%26))
	}

	concat := func(a, b string) string { return a + b }
	got, err := Scan(data, lanes, concat, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1})
	require.NoError(t, err)

	assert.Equal(t, serialScan(data, lanes, concat), got)
	// Lane (0, 0) holds elements 0, 2, 4, ...
	assert.Equal(t, "acegikm", got[6*lanes.Inner])
	assert.True(t, strings.HasPrefix(got[lanes.Size()-1], "pr"))
}

func TestScan_DoesNotMutateInput(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	_, err := Scan(data, Lanes{Outer: 1, Length: 4, Inner: 1}, func(a, b float64) float64 { return a + b }, Sequential())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, data)
}

func TestScan_InvalidLanes(t *testing.T) {
	add := func(a, b int) int { return a + b }

	_, err := Scan([]int{1, 2, 3}, Lanes{Outer: 1, Length: 2, Inner: 1}, add, Sequential())
	require.Error(t, err)

	_, err = Scan([]int{}, Lanes{Outer: 1, Length: 0, Inner: 1}, add, Sequential())
	require.Error(t, err)
}

func BenchmarkScan(b *testing.B) {
	lanes := Lanes{Outer: 8, Length: 256, Inner: 64}
	data := make([]float64, lanes.Size())
	for i := range data {
		data[i] = float64(i % 7)
	}
	add := func(a, b float64) float64 { return a + b }

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			_, _ = Scan(data, lanes, add, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Scan(data, lanes, add, Sequential())
		}
	})
}
