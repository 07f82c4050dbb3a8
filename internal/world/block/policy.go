package block

import (
	"errors"
	"fmt"
	"strings"
)

// CasterPolicy определяет, от какого предиката (opaque или solid) выводятся
// AO-caster и light-caster. Выбирается один раз при старте.
type CasterPolicy int

const (
	// CasterPolicyOpaque: затеняют и задерживают свет только непрозрачные блоки
	CasterPolicyOpaque CasterPolicy = iota
	// CasterPolicySolid: любой твёрдый блок, включая прозрачный, затеняет и задерживает свет
	CasterPolicySolid
)

// ErrInvalidPolicy возвращается при разборе неизвестного имени политики
var ErrInvalidPolicy = errors.New("unknown caster policy")

// ParseCasterPolicy разбирает имя политики из конфигурации
func ParseCasterPolicy(s string) (CasterPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opaque":
		return CasterPolicyOpaque, nil
	case "solid":
		return CasterPolicySolid, nil
	default:
		return CasterPolicyOpaque, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// String возвращает имя политики
func (p CasterPolicy) String() string {
	switch p {
	case CasterPolicyOpaque:
		return "opaque"
	case CasterPolicySolid:
		return "solid"
	default:
		return "unknown"
	}
}
