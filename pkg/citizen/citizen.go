// Package citizen defines the ECS components and demographic model for the
// simulated population. Components are plain structs; systems in pkg/movement
// and pkg/sim drive them.
package citizen

// Gender of a citizen. Stable save-format tag.
type Gender uint8

const (
	Male   Gender = 0
	Female Gender = 1
)

// String returns the display name of the gender.
func (g Gender) String() string {
	if g == Female {
		return "Female"
	}
	return "Male"
}

// LifeStage buckets age into behavioral phases.
type LifeStage uint8

const (
	Child      LifeStage = iota // 0-5, stays home
	SchoolAge                   // 6-17, attends school
	YoungAdult                  // 18-25, first job
	Adult                       // 26-54, career
	Senior                      // 55-64, working but slowing
	Retired                     // 65+, no work
)

// StageForAge returns the life stage for an age in years.
func StageForAge(age uint8) LifeStage {
	switch {
	case age <= 5:
		return Child
	case age <= 17:
		return SchoolAge
	case age <= 25:
		return YoungAdult
	case age <= 54:
		return Adult
	case age <= 64:
		return Senior
	default:
		return Retired
	}
}

// CanWork reports whether the stage participates in the labor force.
func (s LifeStage) CanWork() bool {
	return s == YoungAdult || s == Adult || s == Senior
}

// AttendsSchool reports whether the stage commutes to school.
func (s LifeStage) AttendsSchool() bool {
	return s == SchoolAge
}

// String returns the display name of the life stage.
func (s LifeStage) String() string {
	switch s {
	case Child:
		return "Child"
	case SchoolAge:
		return "School Age"
	case YoungAdult:
		return "Young Adult"
	case Adult:
		return "Adult"
	case Senior:
		return "Senior"
	case Retired:
		return "Retired"
	}
	return "Unknown"
}

// State is the citizen activity state. The numeric values are stable
// save-format tags; new variants append.
type State uint8

const (
	AtHome             State = 0
	CommutingToWork    State = 1
	Working            State = 2
	CommutingHome      State = 3
	CommutingToShop    State = 4
	Shopping           State = 5
	CommutingToLeisure State = 6
	AtLeisure          State = 7
	CommutingToSchool  State = 8
	AtSchool           State = 9
)

// IsCommuting reports whether the citizen is moving along a path.
func (s State) IsCommuting() bool {
	switch s {
	case CommutingToWork, CommutingHome, CommutingToShop,
		CommutingToLeisure, CommutingToSchool:
		return true
	}
	return false
}

// IsAtDestination reports whether the citizen has arrived somewhere.
func (s State) IsAtDestination() bool {
	switch s {
	case AtHome, Working, Shopping, AtLeisure, AtSchool:
		return true
	}
	return false
}

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case AtHome:
		return "At Home"
	case CommutingToWork:
		return "Commuting To Work"
	case Working:
		return "Working"
	case CommutingHome:
		return "Commuting Home"
	case CommutingToShop:
		return "Commuting To Shop"
	case Shopping:
		return "Shopping"
	case CommutingToLeisure:
		return "Commuting To Leisure"
	case AtLeisure:
		return "At Leisure"
	case CommutingToSchool:
		return "Commuting To School"
	case AtSchool:
		return "At School"
	}
	return "Unknown"
}

// Details is the demographic component of a citizen.
type Details struct {
	Age       uint8
	Gender    Gender
	Education uint8 // 0 none, 1 elementary, 2 high school, 3 university
	Happiness float64
	Health    float64
	Salary    float64
	Savings   float64
}

// LifeStage derives the life stage from the citizen's age.
func (d *Details) LifeStage() LifeStage {
	return StageForAge(d.Age)
}

// BaseSalaryForEducation returns the monthly base salary for an education
// level, before any job-match modifier.
func BaseSalaryForEducation(education uint8) float64 {
	switch education {
	case 0:
		return 1500
	case 1:
		return 2200
	case 2:
		return 3500
	case 3:
		return 6000
	}
	return 8000
}
