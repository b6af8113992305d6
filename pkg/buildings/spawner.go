package buildings

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ChicagoDave/gridcity/pkg/citizen"
	"github.com/ChicagoDave/gridcity/pkg/grid"
	"github.com/ChicagoDave/gridcity/pkg/params"
)

// occupancy pairs a building slot with its remaining room.
type occupancy struct {
	entity ecs.Entity
	x, y   int
	free   int
	mixed  bool
}

// Spawner moves citizens into free residences and assigns workers to open
// job slots. Spawn demographics are drawn from a seeded generator so runs
// replay identically.
type Spawner struct {
	core ecs.Map8[
		citizen.Details, citizen.Personality, citizen.Needs, citizen.StateComp,
		citizen.Position, citizen.Velocity, citizen.HomeLocation, citizen.PathCache,
	]
	work         ecs.Map[citizen.WorkLocation]
	family       ecs.Map[citizen.Family]
	lod          ecs.Map[citizen.LOD]
	building     ecs.Map[Building]
	mixed        ecs.Map[MixedUse]
	construction ecs.Map[Construction]
	buildings    ecs.Filter1[Building]

	rng     *rand.Rand
	spawned uint64
}

// NewSpawner creates the citizen spawner for a world.
func NewSpawner(w *ecs.World, seed int64) *Spawner {
	return &Spawner{
		core: ecs.NewMap8[
			citizen.Details, citizen.Personality, citizen.Needs, citizen.StateComp,
			citizen.Position, citizen.Velocity, citizen.HomeLocation, citizen.PathCache,
		](w),
		work:         ecs.NewMap[citizen.WorkLocation](w),
		family:       ecs.NewMap[citizen.Family](w),
		lod:          ecs.NewMap[citizen.LOD](w),
		building:     ecs.NewMap[Building](w),
		mixed:        ecs.NewMap[MixedUse](w),
		construction: ecs.NewMap[Construction](w),
		buildings:    *ecs.NewFilter1[Building](w),
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Update spawns citizens into free residential capacity. While population
// sits below half the housing capacity the burst limit applies, so a fresh
// city fills quickly and an established one trickles.
func (s *Spawner) Update(p *params.SpawnerParams, tick uint64) int {
	if p.SpawnIntervalTicks > 1 && tick%uint64(p.SpawnIntervalTicks) != 0 {
		return 0
	}

	homes, jobs, resCapacity, resOccupants := s.collectSlots()
	if len(homes) == 0 {
		return 0
	}

	limit := p.MaxPerTick
	if resOccupants*2 < resCapacity {
		limit = p.BurstPerTick
	}

	spawned := 0
	jobCursor := 0
	for i := range homes {
		home := &homes[i]
		// The most recent unpartnered adult in this building, for
		// household linking.
		var single ecs.Entity
		for home.free > 0 && spawned < limit {
			e := s.spawnCitizen(home, jobs, &jobCursor)
			single = s.linkHousehold(e, single)
			home.free--
			spawned++
		}
		if spawned >= limit {
			break
		}
	}
	return spawned
}

// collectSlots scans every finished building for free residential and job
// capacity. Buildings under construction are skipped.
func (s *Spawner) collectSlots() (homes, jobs []occupancy, resCapacity, resOccupants int) {
	query := s.buildings.Query()
	for query.Next() {
		b := query.Get()
		entity := query.Entity()
		if s.construction.Has(entity) {
			continue
		}
		switch {
		case b.Zone.IsResidential():
			resCapacity += b.Capacity
			resOccupants += b.Occupants
			if free := b.Capacity - b.Occupants; free > 0 {
				homes = append(homes, occupancy{entity, b.GridX, b.GridY, free, false})
			}
		case b.Zone.IsJobZone():
			if free := b.Capacity - b.Occupants; free > 0 {
				jobs = append(jobs, occupancy{entity, b.GridX, b.GridY, free, false})
			}
		case b.Zone.IsMixedUse():
			if !s.mixed.Has(entity) {
				continue
			}
			mu := s.mixed.Get(entity)
			resCapacity += mu.ResidentialCapacity
			resOccupants += mu.ResidentialOccupants
			if free := mu.ResidentialCapacity - mu.ResidentialOccupants; free > 0 {
				homes = append(homes, occupancy{entity, b.GridX, b.GridY, free, true})
			}
			if free := mu.CommercialCapacity - mu.CommercialOccupants; free > 0 {
				jobs = append(jobs, occupancy{entity, b.GridX, b.GridY, free, true})
			}
		}
	}
	return homes, jobs, resCapacity, resOccupants
}

func (s *Spawner) spawnCitizen(home *occupancy, jobs []occupancy, jobCursor *int) ecs.Entity {
	seed := s.spawned
	s.spawned++

	details := s.rollDetails()
	personality := citizen.PersonalityFromSeed(seed)
	needs := citizen.DefaultNeeds()
	state := citizen.StateComp{State: citizen.AtHome}
	pos := homePosition(home.x, home.y)
	vel := citizen.Velocity{}
	residence := citizen.HomeLocation{GridX: home.x, GridY: home.y, Building: home.entity}
	path := citizen.PathCache{}

	entity := s.core.NewEntity(&details, &personality, &needs, &state, &pos, &vel, &residence, &path)
	s.lod.Add(entity, &citizen.LOD{Tier: citizen.LODFull})

	s.occupy(home)
	if details.LifeStage().CanWork() {
		s.assignJob(entity, jobs, jobCursor)
	}
	return entity
}

func (s *Spawner) rollDetails() citizen.Details {
	var age uint8
	if s.rng.Float64() < 0.22 {
		age = uint8(s.rng.Intn(18))
	} else {
		age = uint8(18 + s.rng.Intn(53))
	}

	var education uint8
	if age >= 18 {
		switch r := s.rng.Float64(); {
		case r < 0.25:
			education = 0
		case r < 0.60:
			education = 1
		case r < 0.90:
			education = 2
		default:
			education = 3
		}
	}

	d := citizen.Details{
		Age:       age,
		Gender:    citizen.Gender(s.rng.Intn(2)),
		Education: education,
		Happiness: 75,
		Health:    90,
	}
	if d.LifeStage().CanWork() {
		d.Salary = citizen.BaseSalaryForEducation(education)
		d.Savings = d.Salary
	}
	return d
}

// occupy books one resident into the home's building components.
func (s *Spawner) occupy(home *occupancy) {
	if home.mixed {
		s.mixed.Get(home.entity).ResidentialOccupants++
		return
	}
	s.building.Get(home.entity).Occupants++
}

// assignJob fills the next open job slot, if any remain this pass.
func (s *Spawner) assignJob(worker ecs.Entity, jobs []occupancy, cursor *int) {
	for *cursor < len(jobs) && jobs[*cursor].free <= 0 {
		*cursor++
	}
	if *cursor >= len(jobs) {
		return
	}
	slot := &jobs[*cursor]
	slot.free--

	if slot.mixed {
		s.mixed.Get(slot.entity).CommercialOccupants++
	} else {
		s.building.Get(slot.entity).Occupants++
	}
	s.work.Add(worker, &citizen.WorkLocation{
		GridX:    slot.x,
		GridY:    slot.y,
		Building: slot.entity,
	})
}

// linkHousehold ties the new citizen into the building's household. Adults
// pair off with the previous unpartnered adult most of the time; children
// attach to that adult as parent. Returns the building's current
// unpartnered adult.
func (s *Spawner) linkHousehold(e, single ecs.Entity) ecs.Entity {
	stage := s.stageOf(e)
	switch {
	case stage.CanWork() || stage == citizen.Retired:
		if single != (ecs.Entity{}) && s.rng.Float64() < 0.6 {
			s.ensureFamily(e).Partner = single
			s.ensureFamily(single).Partner = e
			return ecs.Entity{}
		}
		return e
	case single != (ecs.Entity{}):
		s.ensureFamily(e).Parent = single
		fam := s.ensureFamily(single)
		fam.Children = append(fam.Children, e)
	}
	return single
}

func (s *Spawner) stageOf(e ecs.Entity) citizen.LifeStage {
	d, _, _, _, _, _, _, _ := s.core.Get(e)
	return d.LifeStage()
}

func (s *Spawner) ensureFamily(e ecs.Entity) *citizen.Family {
	if !s.family.Has(e) {
		s.family.Add(e, &citizen.Family{})
	}
	return s.family.Get(e)
}

// Spawned reports the number of citizens created over the spawner's
// lifetime. It doubles as the seed counter for personalities.
func (s *Spawner) Spawned() uint64 { return s.spawned }

// SetSpawned restores the seed counter after a load.
func (s *Spawner) SetSpawned(n uint64) { s.spawned = n }

func homePosition(gx, gy int) citizen.Position {
	p := grid.GridToWorld(gx, gy)
	return citizen.Position{X: p.X, Y: p.Y}
}
