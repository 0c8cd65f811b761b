package sim

import (
	"encoding/json"
	"fmt"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// Intervention kinds accepted by BuildIntervention.
const (
	KindMaskMandate      = "mask_mandate"
	KindAidKits          = "aid_kits"
	KindSanitationDrive  = "sanitation_drive"
	KindQuarantine       = "quarantine"
	KindVaccination      = "vaccination"
	KindHospitalBuild    = "hospital_build"
	KindZoneEffectChange = "zone_effect"
)

// InterventionSpec schedules one player intervention. The process starts
// DORMANT and the runner wakes it at AtStep via the status chart; Duration 0
// keeps it alive until the end of the run. One-shot kinds (hospital_build,
// zone_effect) kill themselves after their first live step regardless.
type InterventionSpec struct {
	ID       string             `json:"id" yaml:"id"`
	Kind     string             `json:"kind" yaml:"kind"`
	AtStep   int                `json:"at_step" yaml:"at_step"`
	Duration int                `json:"duration,omitempty" yaml:"duration,omitempty"`
	Targets  []epidemics.Target `json:"targets,omitempty" yaml:"targets,omitempty"`

	// zone_effect only.
	ZoneKind    epidemics.ZoneKind     `json:"zone_kind,omitempty" yaml:"zone_kind,omitempty"`
	ZoneTargets []epidemics.ZoneTarget `json:"zone_targets,omitempty" yaml:"zone_targets,omitempty"`
}

// Validate checks the fields that do not need a world to judge.
func (s InterventionSpec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("intervention id must not be empty")
	}
	if s.AtStep < 0 {
		return fmt.Errorf("intervention %s: at_step %d must be non-negative", s.ID, s.AtStep)
	}
	if s.Duration < 0 {
		return fmt.Errorf("intervention %s: duration %d must be non-negative", s.ID, s.Duration)
	}
	return nil
}

// Payload renders the scheduled intervention for the intervention log.
func (s InterventionSpec) Payload() any { return s }

// ParseInterventionPayload decodes a logged intervention payload back into a
// spec. Replay rebuilds the schedule from these.
func ParseInterventionPayload(data string) (InterventionSpec, error) {
	var spec InterventionSpec
	if err := json.Unmarshal([]byte(data), &spec); err != nil {
		return InterventionSpec{}, fmt.Errorf("parse intervention payload: %w", err)
	}
	return spec, nil
}

// BuildIntervention constructs the process for a spec against a world. The
// process is created DORMANT; scheduling is the caller's business.
func BuildIntervention(spec InterventionSpec, world epidemics.World) (process.Process, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	st := entity.StatusDormant
	switch spec.Kind {
	case KindMaskMandate:
		return epidemics.NewMaskMandateProcess(spec.ID, st, world, spec.Targets)
	case KindAidKits:
		return epidemics.NewAidKitDistributionProcess(spec.ID, st, world, spec.Targets)
	case KindSanitationDrive:
		return epidemics.NewSanitationDriveProcess(spec.ID, st, world, spec.Targets)
	case KindQuarantine:
		return epidemics.NewQuarantineRolloutProcess(spec.ID, st, world, spec.Targets)
	case KindVaccination:
		return epidemics.NewVaccinationCampaignProcess(spec.ID, st, world, spec.Targets)
	case KindHospitalBuild:
		return epidemics.NewHospitalBuildProcess(spec.ID, st, world, spec.Targets)
	case KindZoneEffectChange:
		return epidemics.NewZoneEffectChangeProcess(spec.ID, st, world, spec.ZoneKind, spec.ZoneTargets)
	default:
		return nil, fmt.Errorf("intervention %s: unknown kind %q", spec.ID, spec.Kind)
	}
}
