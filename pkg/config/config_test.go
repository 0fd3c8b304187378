package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "127.0.0.1", config.Receiver.Host)
	assert.Equal(t, 5000, config.Receiver.Port)
	assert.Equal(t, "tcp", config.Receiver.Transport)
	assert.Equal(t, "127.0.0.1:5000", config.Receiver.Address())
	assert.Equal(t, 0.001, config.Noise.Probability)
	assert.Equal(t, []float64{0.01, 0.05, 0.1}, config.Noise.TestProbabilities)
	assert.Equal(t, 16, config.Fletcher.BlockSize)
	assert.Equal(t, "padzero", config.Fletcher.Variant)
	assert.Equal(t, 8, config.Fletcher.TransportBlockSize)
	assert.Equal(t, "droppartial", config.Fletcher.TransportVariant)
	assert.Equal(t, "out", config.Output.Dir)
	assert.Equal(t, "client_report.csv", config.Output.ClientReport)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "emitter.yaml")
		content := "receiver:\n  port: 6000\nfletcher:\n  block_size: 8\n  variant: droppartial\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 6000, config.Receiver.Port)
		assert.Equal(t, "127.0.0.1", config.Receiver.Host)
		assert.Equal(t, 8, config.Fletcher.BlockSize)
		assert.Equal(t, "droppartial", config.Fletcher.Variant)
		assert.Equal(t, 0.001, config.Noise.Probability)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no existe")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("receiver: [unclosed"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fletcher:\n  block_size: 12\n"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "emitter.yaml")
	config := DefaultConfig()
	config.Receiver.Transport = "ws"
	config.Noise.Seed = 42

	require.NoError(t, SaveConfig(config, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *config, decoded)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "ws transport", mutate: func(c *Config) { c.Receiver.Transport = "ws" }},
		{name: "empty host", mutate: func(c *Config) { c.Receiver.Host = "" }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Receiver.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Receiver.Port = 70000 }, wantErr: true},
		{name: "udp transport", mutate: func(c *Config) { c.Receiver.Transport = "udp" }, wantErr: true},
		{name: "negative probability", mutate: func(c *Config) { c.Noise.Probability = -0.1 }, wantErr: true},
		{name: "empty test probabilities", mutate: func(c *Config) { c.Noise.TestProbabilities = nil }, wantErr: true},
		{name: "test probability above 1", mutate: func(c *Config) { c.Noise.TestProbabilities = []float64{0.1, 1.5} }, wantErr: true},
		{name: "block size 12", mutate: func(c *Config) { c.Fletcher.BlockSize = 12 }, wantErr: true},
		{name: "unknown variant", mutate: func(c *Config) { c.Fletcher.Variant = "swap" }, wantErr: true},
		{name: "transport block size 0", mutate: func(c *Config) { c.Fletcher.TransportBlockSize = 0 }, wantErr: true},
		{name: "unknown transport variant", mutate: func(c *Config) { c.Fletcher.TransportVariant = "swap" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_FletcherScheme(t *testing.T) {
	config := DefaultConfig()
	scheme, err := config.FletcherScheme()
	require.NoError(t, err)
	assert.Equal(t, frame.FletcherScheme{Width: 16, Variant: frame.FletcherPadZero}, scheme)

	config.Fletcher.BlockSize = 3
	_, err = config.FletcherScheme()
	assert.Error(t, err)
}

func TestConfig_TransportFletcherScheme(t *testing.T) {
	config := DefaultConfig()
	scheme, err := config.TransportFletcherScheme()
	require.NoError(t, err)
	assert.Equal(t, frame.FletcherScheme{Width: 8, Variant: frame.FletcherDropPartial}, scheme)

	config.Fletcher.TransportVariant = "swap"
	_, err = config.TransportFletcherScheme()
	assert.ErrorIs(t, err, frame.ErrUnsupportedScheme)
}

// verifyFletcher8 repite la verificación del receptor: bloques de 8 bits,
// los últimos 16 bits son sum2‖sum1 y los datos deben ser múltiplo de 8.
func verifyFletcher8(trama frame.BitString) bool {
	const width = 8
	if trama.Len() < 2*width {
		return false
	}
	data := trama[:trama.Len()-2*width]
	if data.Len()%width != 0 {
		return false
	}
	gotSum2 := parseUint(trama[data.Len() : data.Len()+width])
	gotSum1 := parseUint(trama[data.Len()+width:])

	var sum1, sum2 uint64
	for i := 0; i < data.Len(); i += width {
		sum1 = (sum1 + parseUint(data[i:i+width])) % 255
		sum2 = (sum2 + sum1) % 255
	}
	return sum1 == gotSum1 && sum2 == gotSum2
}

func parseUint(bits frame.BitString) uint64 {
	var v uint64
	for i := 0; i < bits.Len(); i++ {
		v = v<<1 | uint64(bits.Bit(i))
	}
	return v
}

func TestTransportFletcherScheme_ReceiverAccepts(t *testing.T) {
	scheme, err := DefaultConfig().TransportFletcherScheme()
	require.NoError(t, err)

	for _, bits := range []string{"0110100001101001", "011010000110100101", "0110100001101111011011000110000101"} {
		res, err := frame.Encode(bits, scheme)
		require.NoError(t, err)
		assert.True(t, verifyFletcher8(res.Codeword), "trama %s", res.Codeword)
	}

	// el esquema de archivos (padzero/16) no es el que acepta el receptor
	fileScheme, err := DefaultConfig().FletcherScheme()
	require.NoError(t, err)
	res, err := frame.Encode("0110100001101001", fileScheme)
	require.NoError(t, err)
	assert.False(t, verifyFletcher8(res.Codeword))
}
