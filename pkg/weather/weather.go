package weather

import "math"

// Season divides the 360-day year into four 90-day quarters.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// SeasonFromDay maps a simulation day to its season. Day 1 starts spring;
// the year wraps after day 360.
func SeasonFromDay(day int) Season {
	d := ((day - 1) % 360 + 360) % 360
	switch {
	case d < 90:
		return Spring
	case d < 180:
		return Summer
	case d < 270:
		return Autumn
	default:
		return Winter
	}
}

// HappinessModifier is the seasonal mood contribution.
func (s Season) HappinessModifier() float64 {
	switch s {
	case Spring:
		return 1
	case Summer:
		return 2
	case Winter:
		return -2
	}
	return 0
}

// String returns the season name.
func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Autumn:
		return "Autumn"
	}
	return "Winter"
}

// Condition is the current sky state, derived from the atmospheric signals.
type Condition uint8

const (
	Sunny Condition = iota
	PartlyCloudy
	Overcast
	Rain
	HeavyRain
	Snow
	Storm
)

// ConditionFromAtmosphere cascades cloud cover, precipitation signal
// (0..1), and temperature into a condition. Freezing precipitation is
// snow; the wettest skies are storms.
func ConditionFromAtmosphere(cloud, precip, temp float64) Condition {
	if precip >= 0.1 {
		if temp < 0 {
			return Snow
		}
		switch {
		case precip >= 0.7:
			return Storm
		case precip >= 0.4:
			return HeavyRain
		default:
			return Rain
		}
	}
	switch {
	case cloud >= 0.7:
		return Overcast
	case cloud >= 0.3:
		return PartlyCloudy
	default:
		return Sunny
	}
}

// IsPrecipitation reports whether the condition drops water.
func (c Condition) IsPrecipitation() bool {
	switch c {
	case Rain, HeavyRain, Snow, Storm:
		return true
	}
	return false
}

// String returns the condition name.
func (c Condition) String() string {
	switch c {
	case Sunny:
		return "Sunny"
	case PartlyCloudy:
		return "Partly Cloudy"
	case Overcast:
		return "Overcast"
	case Rain:
		return "Rain"
	case HeavyRain:
		return "Heavy Rain"
	case Snow:
		return "Snow"
	}
	return "Storm"
}

// PrecipitationCategory buckets physical intensity (inches per hour).
type PrecipitationCategory uint8

const (
	PrecipNone PrecipitationCategory = iota
	Drizzle
	Light
	Moderate
	Heavy
	Torrential
	Extreme
)

// CategoryFromIntensity buckets inches-per-hour intensity.
func CategoryFromIntensity(inchesPerHour float64) PrecipitationCategory {
	switch {
	case inchesPerHour >= 4.0:
		return Extreme
	case inchesPerHour >= 2.0:
		return Torrential
	case inchesPerHour >= 1.0:
		return Heavy
	case inchesPerHour >= 0.25:
		return Moderate
	case inchesPerHour >= 0.1:
		return Light
	case inchesPerHour >= 0.01:
		return Drizzle
	}
	return PrecipNone
}

// Name returns the category label.
func (p PrecipitationCategory) Name() string {
	switch p {
	case Drizzle:
		return "Drizzle"
	case Light:
		return "Light"
	case Moderate:
		return "Moderate"
	case Heavy:
		return "Heavy"
	case Torrential:
		return "Torrential"
	case Extreme:
		return "Extreme"
	}
	return "None"
}

// rollingRainfallDays is the rainfall history window.
const rollingRainfallDays = 30

// Weather is the full atmospheric state. Update advances it once per
// simulated hour.
type Weather struct {
	Zone      Zone
	Season    Season
	Condition Condition

	// Temperature in Celsius, smoothed toward the diurnal target.
	Temperature float64
	CloudCover  float64
	Humidity    float64
	// precipSignal is the abstract 0..1 wetness driving the condition.
	precipSignal float64
	// PrecipitationIntensity is physical, in inches per hour.
	PrecipitationIntensity float64
	SnowDepth              float64

	DailyRainfall   float64
	RollingRainfall float64
	history         []float64

	eventDaysRemaining int
	lastHour           int
	lastDay            int
	prevExtreme        bool
}

// Change describes a meaningful weather shift for event subscribers.
type Change struct {
	OldCondition Condition
	NewCondition Condition
	OldSeason    Season
	NewSeason    Season
	IsExtreme    bool
}

// New creates weather for a zone, starting on a mild spring morning.
func New(zone Zone) *Weather {
	return &Weather{
		Zone:        zone,
		Temperature: 15,
		CloudCover:  0.1,
		Humidity:    0.5,
		lastHour:    -1,
		lastDay:     -1,
		history:     make([]float64, rollingRainfallDays),
	}
}

// DiurnalFactor models the day/night temperature cycle: 0 at the daily
// minimum around 06:00, 1 at the maximum around 15:00, following a cosine
// through both phases.
func DiurnalFactor(hour int) float64 {
	h := float64(hour % 24)
	if h >= 6 && h <= 15 {
		t := (h - 6) / 9
		return 0.5 - 0.5*math.Cos(t*math.Pi)
	}
	since15 := h + 9
	if h >= 15 {
		since15 = h - 15
	}
	t := since15 / 15
	return 0.5 + 0.5*math.Cos(t*math.Pi)
}

// Update advances the weather to the given day and hour. It is a no-op
// unless the hour changed. The returned Change is non-nil when the
// condition, season, or extreme status shifted.
func (w *Weather) Update(day, hour int) *Change {
	if hour == w.lastHour && day == w.lastDay {
		return nil
	}

	oldCondition := w.Condition
	oldSeason := w.Season
	oldExtreme := w.prevExtreme

	dayChanged := day != w.lastDay
	w.lastHour, w.lastDay = hour, day

	if dayChanged {
		w.rollDailyRainfall()
	}

	w.Season = SeasonFromDay(day)
	cp := w.Zone.SeasonParams(w.Season)

	// Diurnal temperature with a deterministic daily wobble.
	dayVariation := math.Sin(float64(day)*0.1) * 3
	lo := cp.TempMin + dayVariation
	hi := cp.TempMax + dayVariation
	target := lo + (hi-lo)*DiurnalFactor(hour)
	w.Temperature += (target - w.Temperature) * 0.3

	if dayChanged {
		w.advanceDailyEvent(day, cp)
	}

	// Hourly cloud drift.
	hourHash := (uint64(day)*7919 + uint64(hour)*6271) % 1000
	w.CloudCover = clamp01(w.CloudCover + (float64(hourHash)/1000-0.5)*0.06)
	w.Humidity = clamp01(w.Humidity)
	w.precipSignal = clamp01(w.precipSignal)

	// Zones without snow turn freezing precipitation into rain.
	effectiveTemp := w.Temperature
	if !cp.SnowEnabled && effectiveTemp < 0 {
		effectiveTemp = 0.1
	}
	w.Condition = ConditionFromAtmosphere(w.CloudCover, w.precipSignal, effectiveTemp)

	dayHash := (uint64(day) * 2654435761) % 100
	w.PrecipitationIntensity = intensityFor(w.Condition, w.Season, int(dayHash))
	w.DailyRainfall += w.PrecipitationIntensity
	w.RollingRainfall = w.DailyRainfall
	for _, v := range w.history {
		w.RollingRainfall += v
	}

	w.updateSnow()

	isExtreme := IsExtreme(w.Condition, w.Temperature)
	w.prevExtreme = isExtreme

	if w.Condition != oldCondition || w.Season != oldSeason || isExtreme != oldExtreme {
		return &Change{
			OldCondition: oldCondition,
			NewCondition: w.Condition,
			OldSeason:    oldSeason,
			NewSeason:    w.Season,
			IsExtreme:    isExtreme,
		}
	}
	return nil
}

// advanceDailyEvent counts down the active event and, once clear, rolls a
// deterministic day hash against the season's precipitation chance.
func (w *Weather) advanceDailyEvent(day int, cp SeasonParams) {
	if w.eventDaysRemaining > 0 {
		w.eventDaysRemaining--
		if w.eventDaysRemaining == 0 {
			w.CloudCover *= 0.5
			w.precipSignal = 0
			w.Humidity *= 0.7
		}
	}
	if w.eventDaysRemaining > 0 {
		return
	}

	hash := (uint64(day) * 2654435761) % 100
	precipThreshold := uint64(cp.PrecipChance * 100)
	isPrecipDay := hash < precipThreshold
	isExtremeDay := hash < 4

	switch {
	case w.Season == Summer && isExtremeDay:
		// Heat wave.
		w.CloudCover = 0.05
		w.precipSignal = 0
		w.Humidity = 0.3
		w.eventDaysRemaining = 3 + int(hash%4)
		w.Temperature = cp.TempMax + 8
	case w.Season == Winter && isExtremeDay && cp.SnowEnabled:
		// Cold snap.
		w.CloudCover = 0.2
		w.precipSignal = 0
		w.Humidity = 0.4
		w.eventDaysRemaining = 3 + int(hash%5)
		w.Temperature = cp.TempMin - 10
	case isPrecipDay:
		stormThreshold := precipThreshold / 3
		if stormThreshold < 1 {
			stormThreshold = 1
		}
		if hash < stormThreshold {
			w.CloudCover = 0.9
			w.precipSignal = 0.7 + float64(hash%20)*0.01
			w.Humidity = 0.9 + float64(hash%10)*0.005
			w.eventDaysRemaining = 1 + int(hash%3)
		} else {
			w.CloudCover = 0.7 + float64(hash%20)*0.01
			w.precipSignal = 0.2 + float64(hash%15)*0.02
			w.Humidity = 0.8
			w.eventDaysRemaining = 2 + int(hash%4)
		}
	default:
		w.CloudCover += (cp.BaseCloud - w.CloudCover) * 0.2
		w.precipSignal *= 0.5
		w.Humidity += (cp.BaseHumidity - w.Humidity) * 0.2
	}
}

func (w *Weather) rollDailyRainfall() {
	if len(w.history) != rollingRainfallDays {
		w.history = make([]float64, rollingRainfallDays)
	}
	copy(w.history, w.history[1:])
	w.history[rollingRainfallDays-1] = w.DailyRainfall
	w.DailyRainfall = 0
}

// updateSnow accumulates snowfall and melts it above freezing.
func (w *Weather) updateSnow() {
	if w.Condition == Snow {
		w.SnowDepth += w.PrecipitationIntensity * 0.1
	} else if w.Temperature > 0 && w.SnowDepth > 0 {
		w.SnowDepth -= w.Temperature * 0.01
		if w.SnowDepth < 0 {
			w.SnowDepth = 0
		}
	}
}

// intensityFor maps the condition to a physical intensity in inches per
// hour. Summer storms run heavier, winter rain lighter.
func intensityFor(c Condition, s Season, dayHash int) float64 {
	h := float64(dayHash%100) / 100

	seasonal := 1.0
	switch s {
	case Summer:
		seasonal = 1.3
	case Autumn:
		seasonal = 1.1
	case Winter:
		seasonal = 0.7
	}

	switch c {
	case Rain:
		return clampF((0.1+h*0.6)*seasonal, 0.1, 1.0)
	case HeavyRain:
		if s == Summer {
			seasonal = 1.25
		} else if s == Winter {
			seasonal = 0.85
		}
		return clampF((1.0+h*1.0)*seasonal, 1.0, 2.5)
	case Storm:
		if s == Winter {
			seasonal = 0.9
		}
		v := (2.0 + h*1.5) * seasonal
		if v < 2.0 {
			return 2.0
		}
		return v
	case Snow:
		return 0.05 + h*0.25
	}
	return 0
}

// IsExtreme reports whether the condition and temperature count as extreme
// weather: any storm, heat of 35° and above, or cold of -5° and below.
func IsExtreme(c Condition, temp float64) bool {
	if c == Storm {
		return true
	}
	if temp >= 35 && !c.IsPrecipitation() {
		return true
	}
	return temp <= -5 && !c.IsPrecipitation()
}

// TravelMultiplier scales citizen movement speed for the current sky.
func (w *Weather) TravelMultiplier() float64 {
	m := 1.0
	switch w.Condition {
	case Overcast:
		m = 0.95
	case Rain:
		m = 0.8
	case HeavyRain:
		m = 0.6
	case Snow:
		m = 0.5
	case Storm:
		m = 0.4
	}
	if w.SnowDepth >= 0.2 {
		m *= 0.7
	}
	if m < 0.3 {
		m = 0.3
	}
	return m
}

// ParkMultiplier scales leisure attraction of outdoor spaces.
func (w *Weather) ParkMultiplier() float64 {
	switch w.Condition {
	case Sunny:
		return 1.3
	case PartlyCloudy:
		return 1.0
	case Overcast:
		return 0.7
	case Rain:
		return 0.5
	case HeavyRain:
		return 0.4
	case Snow:
		return 0.2
	}
	return 0.1
}

// PowerMultiplier scales electricity demand: air conditioning in heat,
// heating in cold.
func (w *Weather) PowerMultiplier() float64 {
	m := 1.0
	if w.Temperature > 25 {
		m += (w.Temperature - 25) * 0.02
	}
	if w.Temperature < 5 {
		m += (5 - w.Temperature) * 0.02
	}
	return clampF(m, 0.5, 2.0)
}

// WaterMultiplier scales water demand, rising with heat.
func (w *Weather) WaterMultiplier() float64 {
	m := 1.0
	if w.Temperature > 25 {
		m += (w.Temperature - 25) * 0.03
	}
	return clampF(m, 0.5, 2.0)
}

// HappinessModifier is the weather's total mood contribution.
func (w *Weather) HappinessModifier() float64 {
	m := w.Season.HappinessModifier()
	switch w.Condition {
	case Sunny:
		m += 2
	case PartlyCloudy:
		m += 1
	case Overcast:
		m -= 0.5
	case Rain:
		m -= 1
	case HeavyRain:
		m -= 2
	case Snow:
		m -= 1
	case Storm:
		m -= 4
	}
	if w.Temperature >= 35 {
		m -= 5
	}
	if w.Temperature <= -5 {
		m -= 8
	}
	return m
}

// ConstructionSpeedFactor combines the seasonal and weather slowdowns that
// apply to building sites.
func (w *Weather) ConstructionSpeedFactor() float64 {
	return SeasonSpeedFactor(w.Season) * WeatherSpeedFactor(w.Condition, w.Temperature)
}

// ConstructionCostFactor is the seasonal material cost markup.
func (w *Weather) ConstructionCostFactor() float64 {
	return SeasonCostFactor(w.Season)
}

// SeasonSpeedFactor is the seasonal construction pace: summer runs fast,
// winter drags.
func SeasonSpeedFactor(s Season) float64 {
	switch s {
	case Summer:
		return 1.1
	case Autumn:
		return 0.9
	case Winter:
		return 0.6
	}
	return 1.0
}

// WeatherSpeedFactor is the sky's construction pace. Storms halt work
// entirely; deep cold nearly does.
func WeatherSpeedFactor(c Condition, temp float64) float64 {
	switch c {
	case Storm:
		return 0
	case Rain, HeavyRain:
		return 0.5
	case Snow:
		return 0.3
	}
	if temp < -5 {
		return 0.2
	}
	return 1.0
}

// SeasonCostFactor is the seasonal construction cost markup.
func SeasonCostFactor(s Season) float64 {
	switch s {
	case Autumn:
		return 1.05
	case Winter:
		return 1.25
	}
	return 1.0
}

func clamp01(v float64) float64 {
	return clampF(v, 0, 1)
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
