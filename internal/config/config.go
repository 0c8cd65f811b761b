// Package config loads country definitions from YAML, validates them against
// the embedded CUE schema, and maps them onto simulation entities.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// ZoneDoc is the YAML shape of an infrastructure zone.
type ZoneDoc struct {
	Name   string  `yaml:"name"`
	Tier   int     `yaml:"tier"`
	Effect float64 `yaml:"effect"`
}

// VaccineDoc is the YAML shape of a vaccine stock line.
type VaccineDoc struct {
	Name     string  `yaml:"name"`
	Doses    float64 `yaml:"doses"`
	Efficacy float64 `yaml:"efficacy"`
}

// LocusDoc is the YAML shape of a locus.
type LocusDoc struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Area float64 `yaml:"area"`

	Susceptible float64 `yaml:"susceptible"`
	Infected    float64 `yaml:"infected"`
	Recovered   float64 `yaml:"recovered"`
	Dead        float64 `yaml:"dead"`

	BirthRate            float64 `yaml:"birth_rate"`
	InfectionRate        float64 `yaml:"infection_rate"`
	RecoveryRate         float64 `yaml:"recovery_rate"`
	ReentryRate          float64 `yaml:"reentry_rate"`
	SusceptibleDeathRate float64 `yaml:"susceptible_death_rate"`
	InfectedDeathRate    float64 `yaml:"infected_death_rate"`
	RecoveredDeathRate   float64 `yaml:"recovered_death_rate"`

	QuarantineFacilities       int `yaml:"quarantine_facilities"`
	GeneralHospitals           int `yaml:"general_hospitals"`
	VaccineDistributionCenters int `yaml:"vaccine_distribution_centers"`

	Airports      []ZoneDoc `yaml:"airports,omitempty"`
	Ports         []ZoneDoc `yaml:"ports,omitempty"`
	EconomicZones []ZoneDoc `yaml:"economic_zones,omitempty"`
	TouristZones  []ZoneDoc `yaml:"tourist_zones,omitempty"`
}

// CountryDoc is the YAML shape of a country definition file.
type CountryDoc struct {
	Name string  `yaml:"name"`
	GDP  float64 `yaml:"gdp"`

	HealthResourceStockpile      float64 `yaml:"health_resource_stockpile"`
	SanitationEquipmentStockpile float64 `yaml:"sanitation_equipment_stockpile"`
	HumanWelfareResource         float64 `yaml:"human_welfare_resource"`

	HappinessIndex      float64 `yaml:"happiness_index"`
	ProcedureResistance float64 `yaml:"procedure_resistance"`
	CleanlinessIndex    float64 `yaml:"cleanliness_index"`

	DiseaseResearchCenters int `yaml:"disease_research_centers"`
	VaccineResearchCenters int `yaml:"vaccine_research_centers"`

	Vaccines []VaccineDoc `yaml:"vaccines,omitempty"`
	Loci     []LocusDoc   `yaml:"loci"`
}

// SchemaError is a positioned schema violation from CUE validation.
type SchemaError struct {
	File    string
	Field   string
	Message string
	Line    int
}

func (e SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s: %s", e.File, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// Decode parses one country YAML document and validates it against the
// schema. name labels errors (usually the file path).
func Decode(name string, data []byte) (*CountryDoc, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse yaml: %w", name, err)
	}
	if errs := validateSchema(name, raw); len(errs) > 0 {
		return nil, joinSchemaErrors(errs)
	}

	var doc CountryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: decode yaml: %w", name, err)
	}
	return &doc, nil
}

// LoadFile reads and decodes one country definition file.
func LoadFile(path string) (*CountryDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Decode(path, data)
}

// LoadDir loads every .yaml file in dir as a country definition, keyed by
// country name. Country names must be unique across the directory.
func LoadDir(dir string) (map[string]*CountryDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make(map[string]*CountryDoc, len(names))
	for _, name := range names {
		doc, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, dup := docs[doc.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate country %q", filepath.Join(dir, name), doc.Name)
		}
		docs[doc.Name] = doc
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no country definitions in %s", dir)
	}
	return docs, nil
}

// validateSchema unifies the document with the #Country definition and
// collects every violation with its source position.
func validateSchema(file string, raw map[string]any) []SchemaError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []SchemaError{{File: file, Field: "schema", Message: err.Error()}}
	}
	def := schema.LookupPath(cue.ParsePath("#Country"))
	if err := def.Err(); err != nil {
		return []SchemaError{{File: file, Field: "schema", Message: err.Error()}}
	}

	unified := def.Unify(ctx.Encode(raw))
	err := unified.Validate(cue.Concrete(true), cue.Final())
	if err == nil {
		return nil
	}

	var out []SchemaError
	for _, e := range cueerrors.Errors(err) {
		se := SchemaError{
			File:    file,
			Field:   strings.Join(e.Path(), "."),
			Message: e.Error(),
		}
		if pos := e.Position(); pos.IsValid() {
			se.Line = pos.Line()
		}
		out = append(out, se)
	}
	return out
}

func joinSchemaErrors(errs []SchemaError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("schema validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

var titleCaser = cases.Title(language.English)

// DisplayName renders a config identifier ("united states", "india") as a
// display name.
func DisplayName(s string) string {
	return titleCaser.String(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
}
