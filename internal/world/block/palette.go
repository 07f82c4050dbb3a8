package block

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxEmission — максимальная яркость собственного свечения в канале
const MaxEmission = 15

// Palette описывает внешнюю базу цветов, из которой выводятся свойства блоков
type Palette interface {
	// IsTransparent сообщает, прозрачен ли цвет с указанным индексом
	IsTransparent(colorIndex uint8) bool
	// Emission возвращает свечение цвета по каналам R, G, B (0..15)
	Emission(colorIndex uint8) [3]uint8
}

// PaletteEntry описывает один цвет палитры
type PaletteEntry struct {
	Name        string
	RGB         [3]uint8
	Transparent bool
	Emission    [3]uint8
}

// ColorPalette хранит палитру на 255 цветов (индекс 255 зарезервирован под воздух).
// Незаданные индексы ведут себя как непрозрачный не светящийся цвет.
type ColorPalette struct {
	entries [AirColorIndex]PaletteEntry
	defined [AirColorIndex]bool
}

// NewColorPalette создаёт пустую палитру
func NewColorPalette() *ColorPalette {
	return &ColorPalette{}
}

// Set регистрирует цвет под указанным индексом
func (p *ColorPalette) Set(colorIndex uint8, entry PaletteEntry) error {
	if colorIndex == AirColorIndex {
		return fmt.Errorf("индекс %d зарезервирован под воздух", colorIndex)
	}
	for i, e := range entry.Emission {
		if e > MaxEmission {
			return fmt.Errorf("цвет %d: свечение канала %d = %d превышает %d", colorIndex, i, e, MaxEmission)
		}
	}
	p.entries[colorIndex] = entry
	p.defined[colorIndex] = true
	return nil
}

// Get возвращает цвет по индексу
func (p *ColorPalette) Get(colorIndex uint8) (PaletteEntry, bool) {
	if colorIndex == AirColorIndex || !p.defined[colorIndex] {
		return PaletteEntry{}, false
	}
	return p.entries[colorIndex], true
}

// Len возвращает количество заданных цветов
func (p *ColorPalette) Len() int {
	n := 0
	for _, ok := range p.defined {
		if ok {
			n++
		}
	}
	return n
}

// IsTransparent реализует Palette
func (p *ColorPalette) IsTransparent(colorIndex uint8) bool {
	if colorIndex == AirColorIndex {
		return false
	}
	return p.defined[colorIndex] && p.entries[colorIndex].Transparent
}

// Emission реализует Palette
func (p *ColorPalette) Emission(colorIndex uint8) [3]uint8 {
	if colorIndex == AirColorIndex || !p.defined[colorIndex] {
		return [3]uint8{}
	}
	return p.entries[colorIndex].Emission
}

// Индексы цветов палитры по умолчанию
const (
	ColorStone      uint8 = 0
	ColorDirt       uint8 = 1
	ColorGrass      uint8 = 2
	ColorGlass      uint8 = 3
	ColorRedLamp    uint8 = 4
	ColorGreenLamp  uint8 = 5
	ColorBlueLamp   uint8 = 6
	ColorWhiteLamp  uint8 = 7
	ColorAmberGlass uint8 = 8
)

// DefaultPalette возвращает встроенную палитру, используемую генератором и тестами
func DefaultPalette() *ColorPalette {
	p := NewColorPalette()
	defaults := map[uint8]PaletteEntry{
		ColorStone:      {Name: "stone", RGB: [3]uint8{128, 128, 128}},
		ColorDirt:       {Name: "dirt", RGB: [3]uint8{121, 85, 58}},
		ColorGrass:      {Name: "grass", RGB: [3]uint8{88, 160, 64}},
		ColorGlass:      {Name: "glass", RGB: [3]uint8{200, 230, 255}, Transparent: true},
		ColorRedLamp:    {Name: "red_lamp", RGB: [3]uint8{255, 40, 40}, Emission: [3]uint8{15, 0, 0}},
		ColorGreenLamp:  {Name: "green_lamp", RGB: [3]uint8{40, 255, 40}, Emission: [3]uint8{0, 15, 0}},
		ColorBlueLamp:   {Name: "blue_lamp", RGB: [3]uint8{40, 40, 255}, Emission: [3]uint8{0, 0, 15}},
		ColorWhiteLamp:  {Name: "white_lamp", RGB: [3]uint8{255, 255, 255}, Emission: [3]uint8{15, 15, 15}},
		ColorAmberGlass: {Name: "amber_glass", RGB: [3]uint8{255, 190, 0}, Transparent: true, Emission: [3]uint8{9, 6, 0}},
	}
	for idx, e := range defaults {
		_ = p.Set(idx, e)
	}
	return p
}

// paletteFile описывает формат YAML-файла палитры
type paletteFile struct {
	Colors []paletteColor `yaml:"colors"`
}

type paletteColor struct {
	Index       int    `yaml:"index"`
	Name        string `yaml:"name"`
	RGB         []int  `yaml:"rgb"`
	Transparent bool   `yaml:"transparent"`
	Emission    []int  `yaml:"emission"`
}

// LoadPalette читает палитру из YAML-файла
func LoadPalette(path string) (*ColorPalette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения палитры %s: %w", path, err)
	}
	p, err := ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора палитры %s: %w", path, err)
	}
	return p, nil
}

// ParsePalette разбирает палитру из YAML
func ParsePalette(data []byte) (*ColorPalette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	p := NewColorPalette()
	for _, c := range f.Colors {
		if c.Index < 0 || c.Index >= int(AirColorIndex) {
			return nil, fmt.Errorf("цвет %q: индекс %d вне диапазона 0..%d", c.Name, c.Index, AirColorIndex-1)
		}
		rgb, err := toTriple(c.RGB, 255)
		if err != nil {
			return nil, fmt.Errorf("цвет %q: rgb: %w", c.Name, err)
		}
		emission, err := toTriple(c.Emission, MaxEmission)
		if err != nil {
			return nil, fmt.Errorf("цвет %q: emission: %w", c.Name, err)
		}
		if err := p.Set(uint8(c.Index), PaletteEntry{
			Name:        c.Name,
			RGB:         rgb,
			Transparent: c.Transparent,
			Emission:    emission,
		}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// toTriple проверяет и конвертирует список из 0 или 3 чисел
func toTriple(values []int, max int) ([3]uint8, error) {
	var out [3]uint8
	if len(values) == 0 {
		return out, nil
	}
	if len(values) != 3 {
		return out, fmt.Errorf("ожидалось 3 значения, получено %d", len(values))
	}
	for i, v := range values {
		if v < 0 || v > max {
			return out, fmt.Errorf("значение %d вне диапазона 0..%d", v, max)
		}
		out[i] = uint8(v)
	}
	return out, nil
}
