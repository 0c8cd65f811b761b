package config

import (
	"fmt"
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
)

func mapZones(docs []ZoneDoc) []*entity.Zone {
	if len(docs) == 0 {
		return nil
	}
	zones := make([]*entity.Zone, len(docs))
	for i, z := range docs {
		zones[i] = &entity.Zone{Name: z.Name, Tier: z.Tier, Effect: z.Effect}
	}
	return zones
}

// Country maps a validated document onto a simulation entity. Entity-level
// validation still runs; the CUE schema bounds fields, the entity checks
// cross-field invariants.
func Country(doc *CountryDoc) (*entity.Country, error) {
	c := &entity.Country{
		Name: doc.Name,
		GDP:  doc.GDP,

		HealthResourceStockpile:      doc.HealthResourceStockpile,
		SanitationEquipmentStockpile: doc.SanitationEquipmentStockpile,
		HumanWelfareResource:         doc.HumanWelfareResource,

		HappinessIndex:      doc.HappinessIndex,
		ProcedureResistance: doc.ProcedureResistance,
		CleanlinessIndex:    doc.CleanlinessIndex,

		DiseaseResearchCenters: doc.DiseaseResearchCenters,
		VaccineResearchCenters: doc.VaccineResearchCenters,
	}

	for _, v := range doc.Vaccines {
		c.Vaccines = append(c.Vaccines, &entity.Vaccine{Name: v.Name, Doses: v.Doses, Efficacy: v.Efficacy})
	}

	for _, l := range doc.Loci {
		c.Loci = append(c.Loci, &entity.Locus{
			Name: l.Name,
			Lat:  l.Lat,
			Lon:  l.Lon,
			Area: l.Area,

			Susceptible: l.Susceptible,
			Infected:    l.Infected,
			Recovered:   l.Recovered,
			Dead:        l.Dead,

			BirthRate:            l.BirthRate,
			InfectionRate:        l.InfectionRate,
			RecoveryRate:         l.RecoveryRate,
			ReentryRate:          l.ReentryRate,
			SusceptibleDeathRate: l.SusceptibleDeathRate,
			InfectedDeathRate:    l.InfectedDeathRate,
			RecoveredDeathRate:   l.RecoveredDeathRate,

			QuarantineFacilities:       l.QuarantineFacilities,
			GeneralHospitals:           l.GeneralHospitals,
			VaccineDistributionCenters: l.VaccineDistributionCenters,

			Airports:      mapZones(l.Airports),
			Ports:         mapZones(l.Ports),
			EconomicZones: mapZones(l.EconomicZones),
			TouristZones:  mapZones(l.TouristZones),
		})
	}

	return entity.NewCountry(c)
}

// World maps a full directory load onto the simulation world.
func World(docs map[string]*CountryDoc) (epidemics.World, error) {
	world := make(epidemics.World, len(docs))
	for name, doc := range docs {
		c, err := Country(doc)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", name, err)
		}
		world[c.Name] = c
	}
	return world, nil
}

// Summary renders a one-line-per-country digest of a loaded world, sorted by
// name. The validate command prints this.
func Summary(docs map[string]*CountryDoc) string {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for _, name := range names {
		doc := docs[name]
		var living, infected float64
		for _, l := range doc.Loci {
			living += l.Susceptible + l.Infected + l.Recovered
			infected += l.Infected
		}
		out += fmt.Sprintf("%s: loci=%d living=%.0f infected=%.0f gdp=%.0f\n",
			DisplayName(doc.Name), len(doc.Loci), living, infected, doc.GDP)
	}
	return out
}
