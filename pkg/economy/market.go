// Package economy covers the city budget and the global goods market:
// monthly tax collection against maintenance costs, and deterministic
// boom/bust commodity prices that market events push around.
package economy

import "math"

// Good is a tradeable commodity class.
type Good uint8

const (
	RawFood Good = iota
	ProcessedFood
	Lumber
	Steel
	Fuel
	Electronics
	ConsumerGoods

	goodCount
)

// GoodCount is the number of commodity classes.
const GoodCount = int(goodCount)

// Goods lists every commodity.
var Goods = []Good{RawFood, ProcessedFood, Lumber, Steel, Fuel, Electronics, ConsumerGoods}

type goodInfo struct {
	name        string
	basePrice   float64
	cyclePeriod uint32
}

// Cycle periods differ per good so booms and busts drift out of phase.
var goods = [goodCount]goodInfo{
	RawFood:       {"Raw Food", 2, 40},
	ProcessedFood: {"Processed Food", 5, 50},
	Lumber:        {"Lumber", 4, 60},
	Steel:         {"Steel", 8, 45},
	Fuel:          {"Fuel", 6, 35},
	Electronics:   {"Electronics", 15, 55},
	ConsumerGoods: {"Consumer Goods", 10, 65},
}

// String returns the display name of the good.
func (g Good) String() string { return goods[g].name }

// BasePrice is the reference price the market oscillates around.
func (g Good) BasePrice() float64 { return goods[g].basePrice }

// Event is a global market shock that temporarily shifts prices.
type Event uint8

const (
	// OilShock spikes fuel prices on geopolitical tension.
	OilShock Event = iota
	// TradeEmbargo restricts imports, raising most prices.
	TradeEmbargo
	// TechBoom lowers electronics prices.
	TechBoom
	// FoodCrisis cuts food supply.
	FoodCrisis
	// Recession depresses demand for consumer goods.
	Recession
	// ConstructionBoom drives up raw material prices.
	ConstructionBoom

	eventCount
)

// Events lists every market event.
var Events = []Event{OilShock, TradeEmbargo, TechBoom, FoodCrisis, Recession, ConstructionBoom}

type priceEffect struct {
	good  Good
	delta float64
}

type eventInfo struct {
	name     string
	duration int // slow ticks
	effects  []priceEffect
}

var events = [eventCount]eventInfo{
	OilShock: {"Oil Shock", 15, []priceEffect{
		{Fuel, 0.6}, {Electronics, 0.2}, {ConsumerGoods, 0.1},
	}},
	TradeEmbargo: {"Trade Embargo", 20, []priceEffect{
		{RawFood, 0.3}, {ProcessedFood, 0.3}, {Steel, 0.3}, {Electronics, 0.4}, {ConsumerGoods, 0.2},
	}},
	TechBoom: {"Tech Boom", 12, []priceEffect{
		{Electronics, -0.3}, {Steel, 0.1},
	}},
	FoodCrisis: {"Food Crisis", 10, []priceEffect{
		{RawFood, 0.5}, {ProcessedFood, 0.4},
	}},
	Recession: {"Recession", 25, []priceEffect{
		{ConsumerGoods, -0.2}, {Electronics, -0.2}, {Lumber, -0.15},
	}},
	ConstructionBoom: {"Construction Boom", 18, []priceEffect{
		{Steel, 0.4}, {Lumber, 0.35}, {ConsumerGoods, 0.1},
	}},
}

// Name returns the display name of the event.
func (e Event) Name() string { return events[e].name }

// Duration is the event's length in slow ticks.
func (e Event) Duration() int { return events[e].duration }

// PriceEntry tracks one commodity's price against its base.
type PriceEntry struct {
	Base     float64
	Current  float64
	Previous float64
}

// Multiplier is the price relative to base, 1.0 meaning at base.
func (p *PriceEntry) Multiplier() float64 {
	if p.Base <= 0 {
		return 1
	}
	return p.Current / p.Base
}

// Trend is positive while the price rises.
func (p *PriceEntry) Trend() float64 { return p.Current - p.Previous }

// ActiveEvent is a running market event with its remaining duration.
type ActiveEvent struct {
	Event     Event
	Remaining int
}

// Market holds the commodity prices. Update runs once per slow tick and is
// fully deterministic in the tick counter.
type Market struct {
	Prices [goodCount]PriceEntry
	Active []ActiveEvent

	cycle uint32
}

// NewMarket creates a market with every good at its base price.
func NewMarket() *Market {
	m := &Market{}
	for g := Good(0); g < goodCount; g++ {
		base := goods[g].basePrice
		m.Prices[g] = PriceEntry{Base: base, Current: base, Previous: base}
	}
	return m
}

// Price returns a good's current price.
func (m *Market) Price(g Good) float64 { return m.Prices[g].Current }

// Cycle returns the internal update counter, exposed for the save codec.
func (m *Market) Cycle() uint32 { return m.cycle }

// SetCycle restores the update counter from a save.
func (m *Market) SetCycle(c uint32) { m.cycle = c }

// Multiplier returns a good's price relative to base.
func (m *Market) Multiplier(g Good) float64 { return m.Prices[g].Multiplier() }

const (
	primeA = 6364136223846793005
	primeB = 1442695040888963407
)

// pseudoRandom returns a deterministic value in [0, 1) for a seed.
func pseudoRandom(seed uint64) float64 {
	hash := seed*primeA + primeB
	bits := (hash >> 16) & 0xFFFF_FFFF
	return float64(bits%10000) / 10000
}

func sineCycle(tick, period uint32) float64 {
	phase := float64(tick%period) / float64(period)
	return math.Sin(phase * 2 * math.Pi)
}

// Update advances prices one slow tick. Production and consumption rates
// per good feed the supply/demand factor: surplus pushes a price down,
// deficit pushes it up. Each slow tick has roughly a 5% chance of starting
// a new market event, with at most two running at once.
func (m *Market) Update(tick uint64, production, consumption [GoodCount]float64) {
	cycle := m.cycle
	m.cycle++

	if pseudoRandom(tick*7919) < 0.05 && len(m.Active) < 2 {
		candidate := Event(tick * 6271 % uint64(eventCount))
		duplicate := false
		for _, ae := range m.Active {
			if ae.Event == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			m.Active = append(m.Active, ActiveEvent{Event: candidate, Remaining: candidate.Duration()})
		}
	}

	var eventDelta [goodCount]float64
	for _, ae := range m.Active {
		for _, eff := range events[ae.Event].effects {
			eventDelta[eff.good] += eff.delta
		}
	}

	kept := m.Active[:0]
	for _, ae := range m.Active {
		ae.Remaining--
		if ae.Remaining > 0 {
			kept = append(kept, ae)
		}
	}
	m.Active = kept

	for g := Good(0); g < goodCount; g++ {
		entry := &m.Prices[g]
		entry.Previous = entry.Current
		base := entry.Base

		net := production[g] - consumption[g]
		sdFactor := 1.0
		switch {
		case consumption[g] > 0.1:
			sdFactor = clampF(1.0-net/consumption[g]*0.3, 0.7, 1.5)
		case net > 0:
			sdFactor = 0.85
		}

		cycleFactor := 1.0 + sineCycle(cycle, goods[g].cyclePeriod)*0.12
		noise := (pseudoRandom(tick*31+uint64(g)*997) - 0.5) * 0.06
		eventFactor := 1.0 + eventDelta[g]

		price := base * sdFactor * cycleFactor * (1.0 + noise) * eventFactor
		entry.Current = clampF(price, base*0.3, base*3.0)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
