package world

// MaxLight — максимальный уровень освещённости в канале
const MaxLight = 15

// Channel обозначает один из четырёх независимых каналов освещённости
type Channel uint8

const (
	ChannelAmbient Channel = iota // Солнечный (окружающий) свет
	ChannelRed
	ChannelGreen
	ChannelBlue

	ChannelCount = 4
)

// Channels перечисляет все каналы
var Channels = [ChannelCount]Channel{ChannelAmbient, ChannelRed, ChannelGreen, ChannelBlue}

var channelNames = [ChannelCount]string{"ambient", "red", "green", "blue"}

// String возвращает имя канала
func (c Channel) String() string {
	if c >= ChannelCount {
		return "unknown"
	}
	return channelNames[c]
}

// IsColor возвращает true для каналов собственного свечения (R, G, B)
func (c Channel) IsColor() bool {
	return c >= ChannelRed && c < ChannelCount
}

func (c Channel) shift() uint {
	return uint(ChannelCount-1-c) * 4
}

// LightValue упаковывает четыре 4-битных канала: ambient<<12 | red<<8 | green<<4 | blue
type LightValue uint16

// NewLightValue собирает значение из четырёх уровней (каждый обрезается до 0..15)
func NewLightValue(ambient, red, green, blue uint8) LightValue {
	var v LightValue
	v = v.With(ChannelAmbient, ambient)
	v = v.With(ChannelRed, red)
	v = v.With(ChannelGreen, green)
	v = v.With(ChannelBlue, blue)
	return v
}

// Get возвращает уровень канала
func (v LightValue) Get(c Channel) uint8 {
	return uint8(v>>c.shift()) & 0xF
}

// With возвращает значение с заменённым уровнем канала
func (v LightValue) With(c Channel, level uint8) LightValue {
	if level > MaxLight {
		level = MaxLight
	}
	s := c.shift()
	return v&^(0xF<<s) | LightValue(level)<<s
}

// Masked оставляет только каналы из маски
func (v LightValue) Masked(m ChannelMask) LightValue {
	var out LightValue
	for _, c := range Channels {
		if m.Has(c) {
			out = out.With(c, v.Get(c))
		}
	}
	return out
}

// NonZero возвращает маску каналов с ненулевым уровнем
func (v LightValue) NonZero() ChannelMask {
	var m ChannelMask
	for _, c := range Channels {
		if v.Get(c) > 0 {
			m |= MaskOf(c)
		}
	}
	return m
}

// ChannelMask хранит 4-битную маску каналов
type ChannelMask uint8

// MaskAll включает все каналы
const MaskAll ChannelMask = 0xF

// MaskOf возвращает маску одного канала
func MaskOf(c Channel) ChannelMask {
	return 1 << c
}

// Has проверяет наличие канала в маске
func (m ChannelMask) Has(c Channel) bool {
	return m&MaskOf(c) != 0
}
