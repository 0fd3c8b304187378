package noise

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

func TestNoiseLayer_ApplyNoise(t *testing.T) {
	n := NewNoiseLayerWithSeed(12345)

	tests := []struct {
		name    string
		bits    frame.BitString
		ber     float64
		wantErr bool
	}{
		{name: "zero BER", bits: "01011010", ber: 0.0},
		{name: "low BER", bits: "01011010", ber: 0.01},
		{name: "high BER", bits: "0101", ber: 0.5},
		{name: "invalid BER - negative", bits: "01", ber: -0.1, wantErr: true},
		{name: "invalid BER - too high", bits: "01", ber: 1.5, wantErr: true},
		{name: "invalid bits", bits: "0121", ber: 0.01, wantErr: true},
		{name: "empty bits", bits: "", ber: 0.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := n.ApplyNoise(tt.bits, tt.ber)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.bits, result.OriginalBits)
			assert.Len(t, result.NoisyBits, len(tt.bits))
			assert.Equal(t, len(tt.bits), result.TotalBits)
			assert.Equal(t, len(result.ErrorPositions), result.ErrorsInjected)
			assert.Equal(t, result.ErrorsInjected, BitsFlipped(result.OriginalBits, result.NoisyBits))
			assert.True(t, isBinary(result.NoisyBits))

			if tt.ber == 0.0 {
				assert.Zero(t, result.ErrorsInjected)
				assert.Equal(t, tt.bits, result.NoisyBits)
			}
		})
	}
}

func TestNoiseLayer_FullFlip(t *testing.T) {
	n := NewNoiseLayerWithSeed(1)
	result, err := n.ApplyNoise("0011", 1.0)
	require.NoError(t, err)
	assert.Equal(t, frame.BitString("1100"), result.NoisyBits)
	assert.Equal(t, []int{0, 1, 2, 3}, result.ErrorPositions)
	assert.Equal(t, 1.0, result.ActualBER)
}

func TestNoiseLayer_ConsistentSeed(t *testing.T) {
	bits := frame.BitString("0101101011001011")

	r1, err := NewNoiseLayerWithSeed(12345).ApplyNoise(bits, 0.2)
	require.NoError(t, err)
	r2, err := NewNoiseLayerWithSeed(12345).ApplyNoise(bits, 0.2)
	require.NoError(t, err)

	assert.Equal(t, r1.NoisyBits, r2.NoisyBits)
	assert.Equal(t, r1.ErrorPositions, r2.ErrorPositions)
}

func TestBitsFlipped(t *testing.T) {
	assert.Equal(t, 0, BitsFlipped("1010", "1010"))
	assert.Equal(t, 2, BitsFlipped("1010", "0110"))
	assert.Equal(t, 2, BitsFlipped("10", "1011"))
}

func TestNoiseLayer_SimulateChannel(t *testing.T) {
	n := NewNoiseLayerWithSeed(99)
	bits := frame.BitString(strings.Repeat("01", 50))

	stats, err := n.SimulateChannel(bits, 0.1, 200)
	require.NoError(t, err)

	assert.Equal(t, 200, stats.Iterations)
	assert.Equal(t, 100*200, stats.TotalBits)
	assert.InDelta(t, 0.1, stats.AverageBER, 0.02)
	assert.LessOrEqual(t, stats.MinErrors, stats.MaxErrors)

	total := 0
	for _, c := range stats.ErrorDistribution {
		total += c
	}
	assert.Equal(t, 200, total)

	var buf bytes.Buffer
	written, err := stats.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)
	assert.Contains(t, buf.String(), "BER objetivo: 0.1000")
}

func TestNoiseLayer_SimulateChannelInvalid(t *testing.T) {
	n := NewNoiseLayerWithSeed(1)
	_, err := n.SimulateChannel("01", 0.1, 0)
	assert.Error(t, err)
	_, err = n.SimulateChannel("01", 2, 3)
	assert.Error(t, err)
}

func isBinary(b frame.BitString) bool {
	for i := 0; i < len(b); i++ {
		if b[i] != '0' && b[i] != '1' {
			return false
		}
	}
	return true
}

func BenchmarkNoiseLayer_ApplyNoise(b *testing.B) {
	n := NewNoiseLayer()
	bits := frame.BitString(strings.Repeat("01", 500))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := n.ApplyNoise(bits, 0.01); err != nil {
			b.Fatalf("ApplyNoise failed: %v", err)
		}
	}
}
