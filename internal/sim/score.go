package sim

import (
	"math"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// Weights controls how much each component contributes to the total score.
// Components are in [0,1] and the total is their weighted sum, rounded to
// four decimals.
type Weights struct {
	PopulationSurvived float64
	GDPPreserved       float64
	InfectionControl   float64
	ResourceEfficiency float64
	Containment        float64
}

// DefaultWeights is the standard competition weighting.
func DefaultWeights() Weights {
	return Weights{
		PopulationSurvived: 0.30,
		GDPPreserved:       0.20,
		InfectionControl:   0.20,
		ResourceEfficiency: 0.15,
		Containment:        0.15,
	}
}

// containmentWindow is how many consecutive non-increasing infected-share
// samples count as containment.
const containmentWindow = 10

// Metrics is the raw material for scoring, accumulated over a run by the
// observer process and finalized when the engine stops.
type Metrics struct {
	InitialPopulation float64
	InitialGDP        float64
	InitialResources  float64

	FinalPopulation float64
	FinalGDP        float64
	FinalResources  float64
	DeadPopulation  float64

	MaxInfectedShare float64
	ResourcesSpent   float64
	ContainmentStep  int
	TotalSteps       int

	shares []float64
}

// observe records one step's infected share.
func (m *Metrics) observe(share float64) {
	m.shares = append(m.shares, share)
	if share > m.MaxInfectedShare {
		m.MaxInfectedShare = share
	}
	m.TotalSteps = len(m.shares)
}

// finalize derives the end-of-run fields from the share series and final
// resource levels.
func (m *Metrics) finalize() {
	m.ContainmentStep = ContainmentStep(m.shares)
	m.ResourcesSpent = math.Max(0, m.InitialResources-m.FinalResources)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// PopulationSurvivedScore scores the share of the initial population that is
// still alive.
func PopulationSurvivedScore(initialPop, dead float64) float64 {
	if initialPop == 0 {
		return 0
	}
	return clamp01((initialPop - dead) / initialPop)
}

// GDPPreservedScore maps GDP change onto [0,1]: 0 for a total collapse, 0.5
// for no change, 1 for a doubling.
func GDPPreservedScore(initialGDP, finalGDP float64) float64 {
	if initialGDP == 0 {
		return 0
	}
	change := (finalGDP - initialGDP) / initialGDP
	return clamp01((change + 1) / 2)
}

// InfectionControlScore rewards keeping the peak infected share low.
func InfectionControlScore(maxInfectedShare float64) float64 {
	return clamp01(1 - maxInfectedShare)
}

// ResourceEfficiencyScore scores outcomes per resource spent. With nothing
// spent it falls back to the mean of the outcome components.
func ResourceEfficiencyScore(populationSurvived, infectionControl, spent float64) float64 {
	if spent <= 0 {
		return (populationSurvived + infectionControl) / 2
	}
	perResource := (populationSurvived + infectionControl) / math.Log1p(spent)
	return clamp01(perResource / 2 * 5)
}

// ContainmentScore rewards early containment. A run that never contains the
// outbreak scores zero.
func ContainmentScore(containmentStep, totalSteps int) float64 {
	if containmentStep <= 0 || containmentStep >= totalSteps {
		return 0
	}
	return clamp01(1 - float64(containmentStep)/float64(totalSteps))
}

// ContainmentStep returns the first step where the infected share declines
// monotonically over the containment window, or 0 when no such window exists.
func ContainmentStep(shares []float64) int {
	if len(shares) < containmentWindow {
		return 0
	}
	for i := 0; i <= len(shares)-containmentWindow; i++ {
		decreasing := true
		for j := 0; j < containmentWindow-1; j++ {
			if shares[i+j] < shares[i+j+1] {
				decreasing = false
				break
			}
		}
		if decreasing {
			return i
		}
	}
	return 0
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// Evaluate turns run metrics into the persisted score row using the
// standard weighting.
func Evaluate(runID, player string, m Metrics) store.Score {
	return EvaluateWeighted(runID, player, m, DefaultWeights())
}

// EvaluateWeighted is Evaluate with caller-supplied component weights.
func EvaluateWeighted(runID, player string, m Metrics, w Weights) store.Score {
	pop := PopulationSurvivedScore(m.InitialPopulation, m.DeadPopulation)
	gdp := GDPPreservedScore(m.InitialGDP, m.FinalGDP)
	inf := InfectionControlScore(m.MaxInfectedShare)
	res := ResourceEfficiencyScore(pop, inf, m.ResourcesSpent)
	con := ContainmentScore(m.ContainmentStep, m.TotalSteps)

	total := pop*w.PopulationSurvived +
		gdp*w.GDPPreserved +
		inf*w.InfectionControl +
		res*w.ResourceEfficiency +
		con*w.Containment

	return store.Score{
		RunID:              runID,
		Player:             player,
		PopulationSurvived: pop,
		GDPPreserved:       gdp,
		InfectionControl:   inf,
		ResourceEfficiency: res,
		Containment:        con,
		Total:              round4(total),
	}
}
