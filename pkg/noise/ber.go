package noise

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

// NoiseLayer maneja la inyección de errores en la transmisión
type NoiseLayer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNoiseLayer crea una nueva instancia con semilla aleatoria
func NewNoiseLayer() *NoiseLayer {
	return NewNoiseLayerWithSeed(time.Now().UnixNano())
}

// NewNoiseLayerWithSeed crea una instancia con semilla específica (para tests reproducibles)
func NewNoiseLayerWithSeed(seed int64) *NoiseLayer {
	return &NoiseLayer{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ErrorResult contiene información sobre los errores inyectados
type ErrorResult struct {
	OriginalBits   frame.BitString
	NoisyBits      frame.BitString
	ErrorPositions []int // posiciones 0-based invertidas
	TotalBits      int
	ErrorsInjected int
	ActualBER      float64
}

// ValidarConfiguracion valida los parámetros de ruido
func ValidarConfiguracion(ber float64, bits frame.BitString) error {
	if math.IsNaN(ber) || ber < 0.0 || ber > 1.0 {
		return fmt.Errorf("BER inválido: %.3f (debe estar entre 0.0 y 1.0)", ber)
	}
	if _, err := frame.ParseBits(string(bits)); err != nil {
		return fmt.Errorf("no hay bits válidos para procesar: %w", err)
	}
	return nil
}

// ApplyNoise invierte cada bit con probabilidad ber.
func (n *NoiseLayer) ApplyNoise(bits frame.BitString, ber float64) (*ErrorResult, error) {
	if err := ValidarConfiguracion(ber, bits); err != nil {
		return nil, err
	}

	noisy := []byte(bits)
	var errorPositions []int

	n.mu.Lock()
	for i := range noisy {
		if n.rng.Float64() < ber {
			noisy[i] ^= 1 // '0' <-> '1'
			errorPositions = append(errorPositions, i)
		}
	}
	n.mu.Unlock()

	return &ErrorResult{
		OriginalBits:   bits,
		NoisyBits:      frame.BitString(noisy),
		ErrorPositions: errorPositions,
		TotalBits:      len(bits),
		ErrorsInjected: len(errorPositions),
		ActualBER:      float64(len(errorPositions)) / float64(len(bits)),
	}, nil
}

// BitsFlipped cuenta las posiciones en que a y b difieren. Si los largos
// no coinciden, cada bit sobrante cuenta como diferencia.
func BitsFlipped(a, b frame.BitString) int {
	short, long := len(a), len(b)
	if short > long {
		short, long = long, short
	}
	count := long - short
	for i := 0; i < short; i++ {
		if a[i] != b[i] {
			count++
		}
	}
	return count
}

// ChannelStats contiene estadísticas del canal ruidoso
type ChannelStats struct {
	TargetBER                    float64
	AverageBER                   float64
	BERVariance                  float64
	BERStdDev                    float64
	Iterations                   int
	TotalBits                    int
	TotalErrors                  int
	AverageErrorsPerTransmission float64
	MaxErrors                    int
	MinErrors                    int
	ErrorDistribution            map[int]int // cantidad_errores -> frecuencia
}

// SimulateChannel simula múltiples transmisiones para análisis estadístico
func (n *NoiseLayer) SimulateChannel(bits frame.BitString, ber float64, iteraciones int) (*ChannelStats, error) {
	if iteraciones <= 0 {
		return nil, fmt.Errorf("iteraciones debe ser mayor a 0: %d", iteraciones)
	}

	stats := &ChannelStats{
		TargetBER:         ber,
		Iterations:        iteraciones,
		TotalBits:         len(bits) * iteraciones,
		ErrorDistribution: make(map[int]int),
	}

	berValues := make([]float64, 0, iteraciones)
	for i := 0; i < iteraciones; i++ {
		result, err := n.ApplyNoise(bits, ber)
		if err != nil {
			return nil, fmt.Errorf("error en iteración %d: %w", i, err)
		}

		stats.TotalErrors += result.ErrorsInjected
		berValues = append(berValues, result.ActualBER)
		stats.ErrorDistribution[result.ErrorsInjected]++

		if i == 0 || result.ErrorsInjected > stats.MaxErrors {
			stats.MaxErrors = result.ErrorsInjected
		}
		if i == 0 || result.ErrorsInjected < stats.MinErrors {
			stats.MinErrors = result.ErrorsInjected
		}
	}

	stats.AverageBER = float64(stats.TotalErrors) / float64(stats.TotalBits)
	stats.AverageErrorsPerTransmission = float64(stats.TotalErrors) / float64(iteraciones)

	var variance float64
	for _, v := range berValues {
		diff := v - stats.AverageBER
		variance += diff * diff
	}
	stats.BERVariance = variance / float64(len(berValues))
	stats.BERStdDev = math.Sqrt(stats.BERVariance)

	return stats, nil
}

// WriteTo escribe un resumen legible de las estadísticas.
func (stats *ChannelStats) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintln(cw, "Estadísticas del canal ruidoso:")
	fmt.Fprintf(cw, "   BER objetivo: %.4f (%.2f%%)\n", stats.TargetBER, stats.TargetBER*100)
	fmt.Fprintf(cw, "   BER promedio: %.4f (%.2f%%)\n", stats.AverageBER, stats.AverageBER*100)
	fmt.Fprintf(cw, "   Desviación std BER: %.4f\n", stats.BERStdDev)
	fmt.Fprintf(cw, "   Iteraciones: %d\n", stats.Iterations)
	fmt.Fprintf(cw, "   Total de bits: %d\n", stats.TotalBits)
	fmt.Fprintf(cw, "   Total de errores: %d\n", stats.TotalErrors)
	fmt.Fprintf(cw, "   Errores promedio por transmisión: %.1f\n", stats.AverageErrorsPerTransmission)
	fmt.Fprintf(cw, "   Rango de errores: %d - %d\n", stats.MinErrors, stats.MaxErrors)

	type errorCount struct{ errors, count int }
	distribution := make([]errorCount, 0, len(stats.ErrorDistribution))
	for e, c := range stats.ErrorDistribution {
		distribution = append(distribution, errorCount{e, c})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].count != distribution[j].count {
			return distribution[i].count > distribution[j].count
		}
		return distribution[i].errors < distribution[j].errors
	})
	if len(distribution) > 5 {
		distribution = distribution[:5]
	}

	fmt.Fprintln(cw, "   Distribución de errores (top 5):")
	for _, d := range distribution {
		pct := float64(d.count) / float64(stats.Iterations) * 100
		fmt.Fprintf(cw, "     %d errores: %d veces (%.1f%%)\n", d.errors, d.count, pct)
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
