package types

import (
	"fmt"
	"math"
)

// Materials is a bundle of the three build currencies.
type Materials struct {
	Wood    int `yaml:"wood"`
	Stone   int `yaml:"stone"`
	Crystal int `yaml:"crystal"`
}

// Plus returns the component-wise sum.
func (m Materials) Plus(o Materials) Materials {
	return Materials{Wood: m.Wood + o.Wood, Stone: m.Stone + o.Stone, Crystal: m.Crystal + o.Crystal}
}

// Add adds o to m in place.
func (m *Materials) Add(o Materials) {
	*m = m.Plus(o)
}

// Covers reports whether m can pay cost.
func (m Materials) Covers(cost Materials) bool {
	return m.Wood >= cost.Wood && m.Stone >= cost.Stone && m.Crystal >= cost.Crystal
}

// ConsumeIfPossible subtracts cost from m if every component suffices.
// On failure m is unchanged.
func (m *Materials) ConsumeIfPossible(cost Materials) bool {
	if !m.Covers(cost) {
		return false
	}
	m.Wood -= cost.Wood
	m.Stone -= cost.Stone
	m.Crystal -= cost.Crystal
	return true
}

// Min returns the component-wise minimum.
func (m Materials) Min(o Materials) Materials {
	return Materials{Wood: min(m.Wood, o.Wood), Stone: min(m.Stone, o.Stone), Crystal: min(m.Crystal, o.Crystal)}
}

// Scaled multiplies every component by f, rounding half away from zero.
// Non-positive factors and negative results yield zero.
func (m Materials) Scaled(f float64) Materials {
	if f <= 0 {
		return Materials{}
	}
	scale := func(v int) int {
		return max(0, int(math.Round(float64(v)*f)))
	}
	return Materials{Wood: scale(m.Wood), Stone: scale(m.Stone), Crystal: scale(m.Crystal)}
}

// IsZero reports whether every component is zero.
func (m Materials) IsZero() bool {
	return m == Materials{}
}

// Valid reports whether no component is negative.
func (m Materials) Valid() bool {
	return m.Wood >= 0 && m.Stone >= 0 && m.Crystal >= 0
}

func (m Materials) String() string {
	return fmt.Sprintf("Wood: %d, Stone: %d, Crystal: %d", m.Wood, m.Stone, m.Crystal)
}

// Short renders m compactly, e.g. "3W 1S 0C".
func (m Materials) Short() string {
	return fmt.Sprintf("%dW %dS %dC", m.Wood, m.Stone, m.Crystal)
}
