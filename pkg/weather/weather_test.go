package weather

import (
	"math"
	"testing"
)

func TestSeasonFromDay(t *testing.T) {
	cases := []struct {
		day  int
		want Season
	}{
		{1, Spring}, {90, Spring},
		{91, Summer}, {180, Summer},
		{181, Autumn}, {270, Autumn},
		{271, Winter}, {360, Winter},
		{361, Spring},
	}
	for _, c := range cases {
		if got := SeasonFromDay(c.day); got != c.want {
			t.Errorf("SeasonFromDay(%d) = %v, want %v", c.day, got, c.want)
		}
	}
}

func TestSeasonHappiness(t *testing.T) {
	if Spring.HappinessModifier() != 1 || Summer.HappinessModifier() != 2 {
		t.Error("spring/summer happiness off")
	}
	if Autumn.HappinessModifier() != 0 || Winter.HappinessModifier() != -2 {
		t.Error("autumn/winter happiness off")
	}
}

func TestConditionFromAtmosphere(t *testing.T) {
	cases := []struct {
		cloud, precip, temp float64
		want                Condition
	}{
		{0.1, 0.0, 20, Sunny},
		{0.5, 0.0, 20, PartlyCloudy},
		{0.8, 0.05, 20, Overcast},
		{0.8, 0.2, 10, Rain},
		{0.8, 0.5, 10, HeavyRain},
		{0.8, 0.3, -5, Snow},
		{0.9, 0.8, 15, Storm},
	}
	for _, c := range cases {
		if got := ConditionFromAtmosphere(c.cloud, c.precip, c.temp); got != c.want {
			t.Errorf("ConditionFromAtmosphere(%v, %v, %v) = %v, want %v",
				c.cloud, c.precip, c.temp, got, c.want)
		}
	}
}

func TestPrecipitationPredicate(t *testing.T) {
	wet := []Condition{Rain, HeavyRain, Snow, Storm}
	dry := []Condition{Sunny, PartlyCloudy, Overcast}
	for _, c := range wet {
		if !c.IsPrecipitation() {
			t.Errorf("%v should be precipitation", c)
		}
	}
	for _, c := range dry {
		if c.IsPrecipitation() {
			t.Errorf("%v should not be precipitation", c)
		}
	}
}

func TestPrecipitationCategories(t *testing.T) {
	cases := []struct {
		intensity float64
		want      PrecipitationCategory
	}{
		{0, PrecipNone}, {0.005, PrecipNone},
		{0.01, Drizzle}, {0.099, Drizzle},
		{0.1, Light}, {0.249, Light},
		{0.25, Moderate}, {0.99, Moderate},
		{1.0, Heavy}, {1.99, Heavy},
		{2.0, Torrential}, {3.99, Torrential},
		{4.0, Extreme}, {10, Extreme},
	}
	for _, c := range cases {
		if got := CategoryFromIntensity(c.intensity); got != c.want {
			t.Errorf("CategoryFromIntensity(%v) = %v, want %v", c.intensity, got, c.want)
		}
	}
}

func TestIsExtreme(t *testing.T) {
	if !IsExtreme(Storm, 20) {
		t.Error("storm should always be extreme")
	}
	if !IsExtreme(Sunny, 36) {
		t.Error("36 degrees should be a heat wave")
	}
	if !IsExtreme(Sunny, -6) {
		t.Error("-6 degrees should be a cold snap")
	}
	if IsExtreme(Sunny, 20) || IsExtreme(Rain, 10) || IsExtreme(Snow, -3) {
		t.Error("ordinary weather flagged extreme")
	}
}

func TestDiurnalFactorEndpoints(t *testing.T) {
	if f := DiurnalFactor(6); f > 0.001 {
		t.Errorf("factor at 06:00 = %v, want ~0", f)
	}
	if f := DiurnalFactor(15); f < 0.999 {
		t.Errorf("factor at 15:00 = %v, want ~1", f)
	}
	if f := DiurnalFactor(10); f <= 0 || f >= 1 {
		t.Errorf("mid-morning factor = %v, want inside (0,1)", f)
	}
}

func TestConstructionFactors(t *testing.T) {
	if SeasonSpeedFactor(Summer) != 1.1 || SeasonSpeedFactor(Winter) != 0.6 {
		t.Error("season speed factors off")
	}
	if SeasonCostFactor(Autumn) != 1.05 || SeasonCostFactor(Winter) != 1.25 {
		t.Error("season cost factors off")
	}
	if WeatherSpeedFactor(Storm, 15) != 0 {
		t.Error("storm should halt construction")
	}
	if WeatherSpeedFactor(Rain, 10) != 0.5 || WeatherSpeedFactor(Snow, -2) != 0.3 {
		t.Error("rain/snow slowdowns off")
	}
	if WeatherSpeedFactor(Sunny, -10) != 0.2 {
		t.Error("deep cold should crawl")
	}
	if WeatherSpeedFactor(Sunny, 20) != 1.0 {
		t.Error("clear mild sky should run full speed")
	}
}

func TestMultiplierRanges(t *testing.T) {
	w := New(Temperate)
	if m := w.PowerMultiplier(); m < 0.5 || m > 2 {
		t.Errorf("power multiplier %v out of range", m)
	}
	if m := w.WaterMultiplier(); m < 0.5 || m > 2 {
		t.Errorf("water multiplier %v out of range", m)
	}
	if m := w.TravelMultiplier(); m < 0.3 || m > 1.5 {
		t.Errorf("travel multiplier %v out of range", m)
	}

	w.Condition = HeavyRain
	if w.TravelMultiplier() >= 0.7 {
		t.Error("heavy rain should slow travel below 0.7")
	}
	w.Condition = Snow
	if w.TravelMultiplier() >= 0.7 {
		t.Error("snow should slow travel below 0.7")
	}
}

func TestParkMultiplierByCondition(t *testing.T) {
	w := New(Temperate)
	w.Condition = HeavyRain
	if w.ParkMultiplier() >= 0.5 {
		t.Error("heavy rain parks too attractive")
	}
	w.Condition = Overcast
	if w.ParkMultiplier() >= 0.8 {
		t.Error("overcast parks too attractive")
	}
	w.Condition = Snow
	if w.ParkMultiplier() >= 0.3 {
		t.Error("snowed-in parks too attractive")
	}
}

func TestHappinessSwings(t *testing.T) {
	w := New(Temperate)
	w.Temperature = 38
	w.Condition = Sunny
	if w.HappinessModifier() >= 0 {
		t.Error("heat wave should drag happiness negative")
	}

	w.Temperature = 25
	w.Season = Summer
	if w.HappinessModifier() <= 0 {
		t.Error("clear summer day should lift happiness")
	}

	w.Season = Winter
	w.Temperature = -10
	w.Condition = Snow
	if w.HappinessModifier() >= -5 {
		t.Error("winter cold snap should drag happiness well below zero")
	}
}

func TestParseZone(t *testing.T) {
	if ParseZone("subarctic") != Subarctic || ParseZone("Oceanic") != Oceanic {
		t.Error("zone parsing failed")
	}
	if ParseZone("unknown") != Temperate {
		t.Error("unknown climate should default to temperate")
	}
}

func TestUpdateOncePerHour(t *testing.T) {
	w := New(Temperate)
	w.Update(1, 8)
	before := w.Temperature
	w.Update(1, 8)
	if w.Temperature != before {
		t.Error("same hour re-update changed state")
	}
	w.Update(1, 9)
	if w.Temperature == before {
		t.Error("new hour left temperature untouched")
	}
}

func TestUpdateDeterministic(t *testing.T) {
	run := func() []float64 {
		w := New(Continental)
		var temps []float64
		for day := 1; day <= 30; day++ {
			for hour := 0; hour < 24; hour++ {
				w.Update(day, hour)
			}
			temps = append(temps, w.Temperature)
		}
		return temps
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d diverged: %v vs %v", i+1, a[i], b[i])
		}
	}
}

func TestTemperatureTracksSeasonBand(t *testing.T) {
	w := New(Temperate)
	for day := 1; day <= 60; day++ {
		for hour := 0; hour < 24; hour++ {
			w.Update(day, hour)
		}
	}
	// Spring band is 8..22 with +-3 daily wobble and heat-wave overshoots;
	// sanity bounds only.
	if w.Temperature < -10 || w.Temperature > 40 {
		t.Errorf("spring temperature %v far outside plausible band", w.Temperature)
	}
}

func TestSeasonChangeEmitsEvent(t *testing.T) {
	w := New(Temperate)
	w.Update(90, 0)
	change := w.Update(91, 0)
	if change == nil {
		t.Fatal("no event at the spring/summer boundary")
	}
	if change.OldSeason != Spring || change.NewSeason != Summer {
		t.Errorf("season change %v -> %v, want Spring -> Summer", change.OldSeason, change.NewSeason)
	}
}

func TestTropicalNeverSnows(t *testing.T) {
	w := New(Tropical)
	for day := 271; day <= 360; day++ {
		for hour := 0; hour < 24; hour++ {
			w.Update(day, hour)
			if w.Condition == Snow {
				t.Fatalf("snow in the tropics on day %d hour %d", day, hour)
			}
		}
	}
}

func TestAridStaysDry(t *testing.T) {
	w := New(Arid)
	wetHours := 0
	total := 0
	for day := 1; day <= 90; day++ {
		for hour := 0; hour < 24; hour++ {
			w.Update(day, hour)
			total++
			if w.Condition.IsPrecipitation() {
				wetHours++
			}
		}
	}
	if float64(wetHours)/float64(total) > 0.15 {
		t.Errorf("arid climate rained %d of %d hours", wetHours, total)
	}
}

func TestRollingRainfallAccumulates(t *testing.T) {
	w := New(Oceanic)
	for day := 1; day <= 40; day++ {
		for hour := 0; hour < 24; hour++ {
			w.Update(day, hour)
		}
	}
	if w.RollingRainfall <= 0 {
		t.Error("oceanic climate recorded no rainfall over 40 days")
	}
	if math.IsNaN(w.RollingRainfall) {
		t.Error("rolling rainfall is NaN")
	}
}
