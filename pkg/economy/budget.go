package economy

import (
	"github.com/ChicagoDave/gridcity/pkg/params"
)

// Budget is the city treasury and tax policy.
type Budget struct {
	Treasury          float64
	TaxRate           float64
	LastCollectionDay int
}

// NewBudget creates a budget from the starting economy parameters.
func NewBudget(p *params.EconomyParams) *Budget {
	return &Budget{
		Treasury: p.StartingTreasury,
		TaxRate:  p.TaxRate,
	}
}

// CanAfford reports whether the treasury covers a cost.
func (b *Budget) CanAfford(cost float64) bool {
	return b.Treasury >= cost
}

// Spend deducts a cost if the treasury covers it.
func (b *Budget) Spend(cost float64) bool {
	if !b.CanAfford(cost) {
		return false
	}
	b.Treasury -= cost
	return true
}

// Refund returns money to the treasury.
func (b *Budget) Refund(amount float64) {
	b.Treasury += amount
}

// Collection is the breakdown of one tax cycle.
type Collection struct {
	Day         int
	TaxRevenue  float64
	Maintenance float64
	Net         float64
}

// CollectTaxes runs the monthly cycle when due: income tax on the city's
// total salaries, minus road and service maintenance. The treasury may go
// negative; deficits are the player's problem to fix. Returns nil when the
// interval has not elapsed.
func (b *Budget) CollectTaxes(day int, totalSalaries, maintenance float64, p *params.EconomyParams) *Collection {
	interval := p.TaxIntervalDays
	if interval <= 0 {
		interval = 30
	}
	if day-b.LastCollectionDay < interval {
		return nil
	}
	b.LastCollectionDay = day

	revenue := totalSalaries * b.TaxRate
	net := revenue - maintenance
	b.Treasury += net
	return &Collection{
		Day:         day,
		TaxRevenue:  revenue,
		Maintenance: maintenance,
		Net:         net,
	}
}
