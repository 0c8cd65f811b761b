package entity

import "fmt"

// Zone is an infrastructure zone attached to a locus: an airport, port,
// economic zone, or tourist zone. Tier ranks the zone's size (1 = largest),
// and Effect scales the zone's contribution to infection and GDP flows.
type Zone struct {
	Name   string
	Tier   int
	Effect float64
}

// Vaccine is a stockpiled vaccine line held by a country.
type Vaccine struct {
	Name     string
	Doses    float64
	Efficacy float64
}

// Locus is a geographic sub-unit of a country. It carries the compartment
// populations of the epidemic model, the per-locus rate parameters, facility
// counts, and infrastructure zones.
//
// Rate parameter mapping to the classical compartment model:
//
//	BirthRate            (A)  susceptible growth per step
//	InfectionRate        (B)  susceptible -> infected
//	RecoveryRate         (C)  infected -> recovered
//	ReentryRate          (E)  recovered -> susceptible
//	SusceptibleDeathRate (Ds) susceptible -> dead
//	InfectedDeathRate    (Di) infected -> dead
//	RecoveredDeathRate   (Dr) recovered -> dead
type Locus struct {
	Base

	Name string
	Lat  float64
	Lon  float64
	Area float64

	Susceptible float64
	Infected    float64
	Recovered   float64
	Dead        float64

	BirthRate            float64
	InfectionRate        float64
	RecoveryRate         float64
	ReentryRate          float64
	SusceptibleDeathRate float64
	InfectedDeathRate    float64
	RecoveredDeathRate   float64

	QuarantineFacilities       int
	GeneralHospitals           int
	VaccineDistributionCenters int

	Airports      []*Zone
	Ports         []*Zone
	EconomicZones []*Zone
	TouristZones  []*Zone
}

// LivingPopulation returns the sum of the non-dead compartments.
func (l *Locus) LivingPopulation() float64 {
	return l.Susceptible + l.Infected + l.Recovered
}

// Validate checks locus invariants: non-empty name, rates in [0,1],
// non-negative populations and area.
func (l *Locus) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("locus: name must not be empty")
	}
	for _, r := range []struct {
		name string
		val  float64
	}{
		{"birth_rate", l.BirthRate},
		{"infection_rate", l.InfectionRate},
		{"recovery_rate", l.RecoveryRate},
		{"reentry_rate", l.ReentryRate},
		{"susceptible_death_rate", l.SusceptibleDeathRate},
		{"infected_death_rate", l.InfectedDeathRate},
		{"recovered_death_rate", l.RecoveredDeathRate},
	} {
		if r.val < 0 || r.val > 1 {
			return fmt.Errorf("locus %s: %s %v outside [0,1]", l.Name, r.name, r.val)
		}
	}
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"susceptible", l.Susceptible},
		{"infected", l.Infected},
		{"recovered", l.Recovered},
		{"dead", l.Dead},
		{"area", l.Area},
	} {
		if p.val < 0 {
			return fmt.Errorf("locus %s: %s must be non-negative, got %v", l.Name, p.name, p.val)
		}
	}
	if l.QuarantineFacilities < 0 || l.GeneralHospitals < 0 || l.VaccineDistributionCenters < 0 {
		return fmt.Errorf("locus %s: facility counts must be non-negative", l.Name)
	}
	return nil
}

// Country is a top-level geo-political entity aggregating loci and the
// national resources that processes draw on.
type Country struct {
	Base

	Name string
	GDP  float64

	HealthResourceStockpile      float64
	SanitationEquipmentStockpile float64
	HumanWelfareResource         float64

	HappinessIndex      float64
	ProcedureResistance float64
	CleanlinessIndex    float64

	DiseaseResearchCenters int
	VaccineResearchCenters int

	Vaccines []*Vaccine
	Loci     []*Locus
}

// NewCountry validates the country and wires its loci into the sync cascade.
// Callers that build a Country literal directly must call Init themselves.
func NewCountry(c *Country) (*Country, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Init()
	return c, nil
}

// Init registers the country's loci as sync children.
// Must be called exactly once after the loci slice is final.
func (c *Country) Init() {
	for _, l := range c.Loci {
		c.Register(l)
	}
}

// Validate checks country invariants and all loci.
func (c *Country) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("country: name must not be empty")
	}
	if len(c.Loci) == 0 {
		return fmt.Errorf("country %s: must have at least one locus", c.Name)
	}
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"gdp", c.GDP},
		{"health_resource_stockpile", c.HealthResourceStockpile},
		{"sanitation_equipment_stockpile", c.SanitationEquipmentStockpile},
		{"human_welfare_resource", c.HumanWelfareResource},
	} {
		if p.val < 0 {
			return fmt.Errorf("country %s: %s must be non-negative, got %v", c.Name, p.name, p.val)
		}
	}
	for _, r := range []struct {
		name string
		val  float64
	}{
		{"happiness_index", c.HappinessIndex},
		{"procedure_resistance", c.ProcedureResistance},
		{"cleanliness_index", c.CleanlinessIndex},
	} {
		if r.val < 0 || r.val > 1 {
			return fmt.Errorf("country %s: %s %v outside [0,1]", c.Name, r.name, r.val)
		}
	}
	for _, l := range c.Loci {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("country %s: %w", c.Name, err)
		}
	}
	return nil
}

// Locus returns the named locus, or nil if the country has no such locus.
func (c *Country) Locus(name string) *Locus {
	for _, l := range c.Loci {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// TotalLiving returns the living population summed over all loci.
func (c *Country) TotalLiving() float64 {
	var total float64
	for _, l := range c.Loci {
		total += l.LivingPopulation()
	}
	return total
}

// TotalDead returns the dead population summed over all loci.
func (c *Country) TotalDead() float64 {
	var total float64
	for _, l := range c.Loci {
		total += l.Dead
	}
	return total
}

// TotalInfected returns the infected population summed over all loci.
func (c *Country) TotalInfected() float64 {
	var total float64
	for _, l := range c.Loci {
		total += l.Infected
	}
	return total
}
