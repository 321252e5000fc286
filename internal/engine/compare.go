package engine

import (
	"fmt"

	"github.com/piwi3910/framefill/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the previewed placement and its headline numbers
// for a single scenario.
type ComparisonResult struct {
	Scenario  ComparisonScenario
	Report    model.PlacementReport
	Matched   int
	Packed    int
	MatchRate float64
	Fallback  bool
}

// CompareScenarios previews the placement under each scenario's settings
// without touching the document. Results keep scenario order. A
// precondition failure is the same for every scenario and is returned as is.
func CompareScenarios(src NodeSource, container model.NodeID, images []model.ImageItem, scenarios []ComparisonScenario) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		report, _, err := New(scenario.Settings, nil).Preview(src, container, images)
		if err != nil {
			return nil, err
		}
		results = append(results, ComparisonResult{
			Scenario:  scenario,
			Report:    report,
			Matched:   len(report.Pairs),
			Packed:    len(report.Packed),
			MatchRate: report.MatchRate(),
			Fallback:  report.Fallback,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates what-if alternatives around base, varying
// the matcher tolerances and the grid spacing.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	loose := base
	loose.MaxAspectDiff = base.MaxAspectDiff * 1.5
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Aspect tolerance %.2f", loose.MaxAspectDiff),
		Settings: loose,
	})

	strict := base
	strict.MaxAspectDiff = base.MaxAspectDiff * 0.5
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Aspect tolerance %.2f", strict.MaxAspectDiff),
		Settings: strict,
	})

	wide := base
	wide.MinSizeRatio = base.MinSizeRatio / 2
	wide.MaxSizeRatio = base.MaxSizeRatio * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Size ratio %.2f-%.1f", wide.MinSizeRatio, wide.MaxSizeRatio),
		Settings: wide,
	})

	if base.Gap > 0 || base.Padding > 0 {
		tight := base
		tight.Gap = 0
		tight.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Tight Grid",
			Settings: tight,
		})
	}

	return scenarios
}
