package weather

// State is the serializable snapshot of the atmosphere, exported for the
// save codec. Every field that drives future updates is included so a
// reloaded city continues the same weather.
type State struct {
	Zone      Zone
	Season    Season
	Condition Condition

	Temperature            float64
	CloudCover             float64
	Humidity               float64
	PrecipSignal           float64
	PrecipitationIntensity float64
	SnowDepth              float64

	DailyRainfall   float64
	RollingRainfall float64
	History         []float64

	EventDaysRemaining int
	LastHour           int
	LastDay            int
	PrevExtreme        bool
}

// State captures the current atmosphere.
func (w *Weather) State() State {
	history := make([]float64, len(w.history))
	copy(history, w.history)
	return State{
		Zone:                   w.Zone,
		Season:                 w.Season,
		Condition:              w.Condition,
		Temperature:            w.Temperature,
		CloudCover:             w.CloudCover,
		Humidity:               w.Humidity,
		PrecipSignal:           w.precipSignal,
		PrecipitationIntensity: w.PrecipitationIntensity,
		SnowDepth:              w.SnowDepth,
		DailyRainfall:          w.DailyRainfall,
		RollingRainfall:        w.RollingRainfall,
		History:                history,
		EventDaysRemaining:     w.eventDaysRemaining,
		LastHour:               w.lastHour,
		LastDay:                w.lastDay,
		PrevExtreme:            w.prevExtreme,
	}
}

// FromState rebuilds the weather from a captured snapshot.
func FromState(s State) *Weather {
	history := make([]float64, rollingRainfallDays)
	copy(history, s.History)
	return &Weather{
		Zone:                   s.Zone,
		Season:                 s.Season,
		Condition:              s.Condition,
		Temperature:            s.Temperature,
		CloudCover:             s.CloudCover,
		Humidity:               s.Humidity,
		precipSignal:           s.PrecipSignal,
		PrecipitationIntensity: s.PrecipitationIntensity,
		SnowDepth:              s.SnowDepth,
		DailyRainfall:          s.DailyRainfall,
		RollingRainfall:        s.RollingRainfall,
		history:                history,
		eventDaysRemaining:     s.EventDaysRemaining,
		lastHour:               s.LastHour,
		lastDay:                s.LastDay,
		prevExtreme:            s.PrevExtreme,
	}
}
