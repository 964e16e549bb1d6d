// Package economy tracks the player's materials, passive income and a short
// transaction history.
package economy

import (
	"fmt"

	"github.com/nathoo/towercore/types"
)

// TransactionKind classifies a ledger entry.
type TransactionKind int

const (
	Income TransactionKind = iota
	Spend
	Refund
	PassiveIncome
	Theft
	Ability
)

func (k TransactionKind) String() string {
	switch k {
	case Income:
		return "income"
	case Spend:
		return "spend"
	case Refund:
		return "refund"
	case PassiveIncome:
		return "passive"
	case Theft:
		return "theft"
	case Ability:
		return "ability"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Transaction is one entry of the history.
type Transaction struct {
	Kind        TransactionKind
	Delta       types.Materials // always non-negative; Kind gives the sign
	Description string
	Wave        int
}

// WaveIncomeSummary describes the most recent wave payout.
type WaveIncomeSummary struct {
	Wave      int
	Income    types.Materials
	Flawless  bool
	EarlyCall bool
}

// Requirement is a hint about what the player is saving for.
type Requirement struct {
	Cost        types.Materials
	Description string
}

// Config holds the tunable economy parameters.
type Config struct {
	PassiveIncome   types.Materials `yaml:"passive_income"`
	PassiveInterval int             `yaml:"passive_interval"`
	HistorySize     int             `yaml:"history_size"`
	WaveBase        types.Materials `yaml:"wave_base"`
	FlawlessBonus   types.Materials `yaml:"flawless_bonus"`
	EarlyCallBonus  types.Materials `yaml:"early_call_bonus"`
}

// DefaultConfig returns the stock economy settings.
func DefaultConfig() Config {
	return Config{
		PassiveIncome:   types.Materials{Wood: 1},
		PassiveInterval: 150,
		HistorySize:     12,
		WaveBase:        types.Materials{Wood: 2, Stone: 1, Crystal: 1},
		FlawlessBonus:   types.Materials{Wood: 1, Stone: 1, Crystal: 1},
		EarlyCallBonus:  types.Materials{Wood: 1, Crystal: 1},
	}
}

// Manager owns the material balance. Every mutation goes through it so the
// balance never goes negative and every change is logged.
type Manager struct {
	cfg         Config
	materials   types.Materials
	untilIncome int
	history     []Transaction // newest first
	lastWave    *WaveIncomeSummary
	upcoming    *Requirement
}

// New returns a manager holding initial materials.
func New(initial types.Materials, cfg Config) *Manager {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultConfig().HistorySize
	}
	if cfg.PassiveInterval < 0 {
		cfg.PassiveInterval = 0
	}
	return &Manager{cfg: cfg, materials: initial, untilIncome: cfg.PassiveInterval}
}

// Materials returns the current balance.
func (m *Manager) Materials() types.Materials { return m.materials }

// Config returns the active settings.
func (m *Manager) Config() Config { return m.cfg }

// Tick advances the passive income timer and pays out when it expires.
func (m *Manager) Tick(wave int) {
	if m.cfg.PassiveInterval <= 0 || m.cfg.PassiveIncome.IsZero() {
		return
	}
	m.untilIncome--
	if m.untilIncome > 0 {
		return
	}
	m.untilIncome = m.cfg.PassiveInterval
	m.materials.Add(m.cfg.PassiveIncome)
	m.record(PassiveIncome, m.cfg.PassiveIncome, "Passive income", wave)
}

// PassiveProgress is the fraction of the current passive interval elapsed.
func (m *Manager) PassiveProgress() float64 {
	if m.cfg.PassiveInterval <= 0 {
		return 0
	}
	return float64(m.cfg.PassiveInterval-m.untilIncome) / float64(m.cfg.PassiveInterval)
}

// CanAfford reports whether cost is covered.
func (m *Manager) CanAfford(cost types.Materials) bool { return m.materials.Covers(cost) }

// Spend deducts cost if affordable and logs it.
func (m *Manager) Spend(cost types.Materials, description string, wave int) bool {
	return m.spend(Spend, cost, description, wave)
}

// SpendForAbility is Spend logged as an ability use.
func (m *Manager) SpendForAbility(cost types.Materials, description string, wave int) bool {
	return m.spend(Ability, cost, description, wave)
}

func (m *Manager) spend(kind TransactionKind, cost types.Materials, description string, wave int) bool {
	if !m.materials.ConsumeIfPossible(cost) {
		return false
	}
	m.record(kind, cost, description, wave)
	return true
}

// AddIncome credits amount.
func (m *Manager) AddIncome(amount types.Materials, description string, wave int) {
	m.credit(Income, amount, description, wave)
}

// Refund credits amount as a refund.
func (m *Manager) Refund(amount types.Materials, description string, wave int) {
	m.credit(Refund, amount, description, wave)
}

// credit adds amount and logs it, zero amounts included. Negative amounts
// are dropped.
func (m *Manager) credit(kind TransactionKind, amount types.Materials, description string, wave int) {
	if !amount.Valid() {
		return
	}
	m.materials.Add(amount)
	m.record(kind, amount, description, wave)
}

// Steal removes up to amount, per component, and returns what was taken.
// Nothing is logged when nothing was taken.
func (m *Manager) Steal(amount types.Materials, source string, wave int) types.Materials {
	taken := m.materials.Min(amount)
	if !taken.Valid() || taken.IsZero() {
		return types.Materials{}
	}
	m.materials.ConsumeIfPossible(taken)
	m.record(Theft, taken, source, wave)
	return taken
}

// AwardWaveIncome pays the wave base plus flawless and early-call bonuses.
func (m *Manager) AwardWaveIncome(wave int, flawless, earlyCall bool) types.Materials {
	income := m.cfg.WaveBase
	if flawless {
		income.Add(m.cfg.FlawlessBonus)
	}
	if earlyCall {
		income.Add(m.cfg.EarlyCallBonus)
	}
	m.materials.Add(income)
	m.record(Income, income, fmt.Sprintf("Wave %d cleared", wave), wave)
	m.lastWave = &WaveIncomeSummary{Wave: wave, Income: income, Flawless: flawless, EarlyCall: earlyCall}
	return income
}

// LastWaveIncome returns the most recent wave payout.
func (m *Manager) LastWaveIncome() (WaveIncomeSummary, bool) {
	if m.lastWave == nil {
		return WaveIncomeSummary{}, false
	}
	return *m.lastWave, true
}

// SetUpcomingRequirement records a savings hint. A zero cost clears it.
func (m *Manager) SetUpcomingRequirement(cost types.Materials, description string) {
	if cost.IsZero() {
		m.upcoming = nil
		return
	}
	m.upcoming = &Requirement{Cost: cost, Description: description}
}

// UpcomingRequirement returns the savings hint, if any.
func (m *Manager) UpcomingRequirement() (Requirement, bool) {
	if m.upcoming == nil {
		return Requirement{}, false
	}
	return *m.upcoming, true
}

// Transactions returns the history, newest first.
func (m *Manager) Transactions() []Transaction {
	return append([]Transaction(nil), m.history...)
}

func (m *Manager) record(kind TransactionKind, delta types.Materials, description string, wave int) {
	tx := Transaction{Kind: kind, Delta: delta, Description: description, Wave: wave}
	m.history = append([]Transaction{tx}, m.history...)
	if len(m.history) > m.cfg.HistorySize {
		m.history = m.history[:m.cfg.HistorySize]
	}
}
