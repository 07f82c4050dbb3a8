package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации движка освещения и стенда.
type Config struct {
	Lighting  LightingConfig  `yaml:"lighting"`
	Palette   PaletteConfig   `yaml:"palette"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type LightingConfig struct {
	CasterPolicy          string `yaml:"caster_policy"`           // opaque | solid
	SunlightVerticalDecay bool   `yaml:"sunlight_vertical_decay"` // false: полный солнечный свет падает вниз без ослабления
	TransparentPenalty    int    `yaml:"transparent_penalty"`     // Доп. ослабление цвета в прозрачном блоке
	SoftNodeLimit         int    `yaml:"soft_node_limit"`         // Порог предупреждения по узлам пула
	MaxNodes              int    `yaml:"max_nodes"`               // Жёсткий предел узлов, 0 без предела
}

type PaletteConfig struct {
	Path string `yaml:"path"` // Пусто: встроенная палитра
}

type StorageConfig struct {
	DataPath string `yaml:"data_path"`
	InMemory bool   `yaml:"in_memory"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Lighting: LightingConfig{
			CasterPolicy:       "opaque",
			TransparentPenalty: 1,
			SoftNodeLimit:      1 << 16,
		},
		Storage: StorageConfig{
			DataPath: "data",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "lightbench",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "LIGHT_METRICS_PORT", 2112)
}

// GetDataPath возвращает каталог хранилища чанков: config -> env -> default
func (s *StorageConfig) GetDataPath() string {
	return getStringWithEnvFallback(s.DataPath, "LIGHT_DATA_PATH", "data")
}

// GetPalettePath возвращает путь к файлу палитры: config -> env -> пусто (встроенная палитра)
func (p *PaletteConfig) GetPalettePath() string {
	return getStringWithEnvFallback(p.Path, "LIGHT_PALETTE", "")
}

// GetServiceName возвращает имя сервиса для трассировки
func (t *TelemetryConfig) GetServiceName() string {
	return getStringWithEnvFallback(t.ServiceName, "OTEL_SERVICE_NAME", "lightbench")
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// getStringWithEnvFallback возвращает строку с приоритетом: config -> env -> default
func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV LIGHT_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("LIGHT_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан, используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML конфигурацию поверх значений по умолчанию
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны числовых параметров
func (c *Config) Validate() error {
	l := c.Lighting
	if l.TransparentPenalty < 0 || l.TransparentPenalty > 15 {
		return fmt.Errorf("lighting.transparent_penalty=%d: ожидается 0..15", l.TransparentPenalty)
	}
	if l.SoftNodeLimit < 0 {
		return fmt.Errorf("lighting.soft_node_limit=%d: не может быть отрицательным", l.SoftNodeLimit)
	}
	if l.MaxNodes < 0 {
		return fmt.Errorf("lighting.max_nodes=%d: не может быть отрицательным", l.MaxNodes)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port=%d: ожидается 0..65535", c.Metrics.Port)
	}
	return nil
}
