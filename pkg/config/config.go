package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Diegoval-Dev/R-Lab2/emitter/pkg/frame"
)

// Config representa la configuración del emisor
type Config struct {
	Receiver Receiver `yaml:"receiver"`
	Noise    Noise    `yaml:"noise"`
	Fletcher Fletcher `yaml:"fletcher"`
	Output   Output   `yaml:"output"`
	Logging  Logging  `yaml:"logging"`
}

// Receiver indica a dónde se envían las tramas
type Receiver struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"` // "tcp" o "ws"
	Path      string `yaml:"path"`      // solo para ws
}

// Noise contiene las probabilidades de error por bit
type Noise struct {
	Probability       float64   `yaml:"probability"`
	TestProbabilities []float64 `yaml:"test_probabilities"`
	Seed              int64     `yaml:"seed"` // 0 = semilla por tiempo
}

// Fletcher contiene los parámetros del checksum. BlockSize y Variant
// aplican al comando encode; los Transport* a las tramas que se envían al
// receptor, que verifica bloques de 8 bits con trailer sum2‖sum1.
type Fletcher struct {
	BlockSize          int    `yaml:"block_size"`
	Variant            string `yaml:"variant"`
	TransportBlockSize int    `yaml:"transport_block_size"`
	TransportVariant   string `yaml:"transport_variant"`
}

// Output contiene rutas de salida
type Output struct {
	Dir          string `yaml:"dir"`
	ClientReport string `yaml:"client_report"`
}

// Logging contiene la configuración de logs
type Logging struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	TraceFile string `yaml:"trace_file"`
}

// DefaultConfig devuelve la configuración por defecto
func DefaultConfig() *Config {
	return &Config{
		Receiver: Receiver{
			Host:      "127.0.0.1",
			Port:      5000,
			Transport: "tcp",
			Path:      "/",
		},
		Noise: Noise{
			Probability:       0.001,
			TestProbabilities: []float64{0.01, 0.05, 0.1},
		},
		Fletcher: Fletcher{
			BlockSize:          16,
			Variant:            "padzero",
			TransportBlockSize: 8,
			TransportVariant:   "droppartial",
		},
		Output: Output{
			Dir:          "out",
			ClientReport: "client_report.csv",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Address devuelve host:port
func (r Receiver) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoadConfig carga la configuración desde path. Los campos ausentes
// conservan su valor por defecto.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("el archivo de configuración no existe: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("ruta de configuración inválida: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("leyendo configuración: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("interpretando configuración: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig guarda la configuración en path
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creando directorio de configuración: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("serializando configuración: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("escribiendo configuración: %w", err)
	}
	return nil
}

// Validate revisa que los valores sean utilizables
func (c *Config) Validate() error {
	if c.Receiver.Host == "" {
		return fmt.Errorf("receiver.host no puede estar vacío")
	}
	if c.Receiver.Port <= 0 || c.Receiver.Port > 65535 {
		return fmt.Errorf("receiver.port inválido: %d", c.Receiver.Port)
	}
	switch c.Receiver.Transport {
	case "tcp", "ws":
	default:
		return fmt.Errorf("receiver.transport inválido: %q (usar 'tcp' o 'ws')", c.Receiver.Transport)
	}

	if err := validProbability("noise.probability", c.Noise.Probability); err != nil {
		return err
	}
	if len(c.Noise.TestProbabilities) == 0 {
		return fmt.Errorf("noise.test_probabilities no puede estar vacío")
	}
	for _, p := range c.Noise.TestProbabilities {
		if err := validProbability("noise.test_probabilities", p); err != nil {
			return err
		}
	}

	if !frame.ValidWidth(c.Fletcher.BlockSize) {
		return fmt.Errorf("fletcher.block_size inválido: %d (usar 4, 8, 16 o 32)", c.Fletcher.BlockSize)
	}
	if _, err := frame.ParseVariant(c.Fletcher.Variant); err != nil {
		return fmt.Errorf("fletcher.variant: %w", err)
	}
	if !frame.ValidWidth(c.Fletcher.TransportBlockSize) {
		return fmt.Errorf("fletcher.transport_block_size inválido: %d (usar 4, 8, 16 o 32)", c.Fletcher.TransportBlockSize)
	}
	if _, err := frame.ParseVariant(c.Fletcher.TransportVariant); err != nil {
		return fmt.Errorf("fletcher.transport_variant: %w", err)
	}
	return nil
}

// FletcherScheme arma el esquema Fletcher configurado para encode.
func (c *Config) FletcherScheme() (frame.FletcherScheme, error) {
	return fletcherScheme("fletcher.block_size", c.Fletcher.BlockSize, c.Fletcher.Variant)
}

// TransportFletcherScheme arma el esquema Fletcher de las tramas enviadas.
func (c *Config) TransportFletcherScheme() (frame.FletcherScheme, error) {
	return fletcherScheme("fletcher.transport_block_size", c.Fletcher.TransportBlockSize, c.Fletcher.TransportVariant)
}

func fletcherScheme(field string, width int, variantName string) (frame.FletcherScheme, error) {
	variant, err := frame.ParseVariant(variantName)
	if err != nil {
		return frame.FletcherScheme{}, err
	}
	if !frame.ValidWidth(width) {
		return frame.FletcherScheme{}, fmt.Errorf("%s inválido: %d", field, width)
	}
	return frame.FletcherScheme{Width: width, Variant: variant}, nil
}

func validProbability(field string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s inválido: %v (debe estar entre 0.0 y 1.0)", field, p)
	}
	return nil
}
