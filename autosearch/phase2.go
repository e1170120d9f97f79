package autosearch

import (
	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/cornell-brg/uecgra-model/power"
)

// runPhase2 runs the greedy, one-pass group search and returns the
// accepted mode per group (keyed by Group.Key).
func runPhase2(g *graph.Graph, m *power.Model, groups []Group, mode SearchMode) (map[string]params.Mode, Measurement, []graph.Diagnostic, error) {
	modes := make(map[string]params.Mode, len(groups))
	for _, grp := range groups {
		modes[grp.Key] = params.Nominal
		if err := setGroupMode(m, grp, params.Nominal); err != nil {
			return nil, Measurement{}, nil, err
		}
	}

	var diags []graph.Diagnostic
	baseline, baseDiags, err := measure(m)
	diags = append(diags, baseDiags...)
	if err != nil {
		return nil, Measurement{}, diags, err
	}

	startMode := params.Nominal
	if mode == PerformanceFirst {
		startMode = params.Sprint
	}
	for _, grp := range groups {
		modes[grp.Key] = startMode
		if err := setGroupMode(m, grp, startMode); err != nil {
			return nil, baseline, diags, err
		}
	}

	accepted, acceptDiags, err := measure(m)
	diags = append(diags, acceptDiags...)
	if err != nil {
		return nil, baseline, diags, err
	}

	for _, grp := range groups {
		var newMode params.Mode
		var newAccepted Measurement
		var err error
		var stepDiags []graph.Diagnostic

		switch mode {
		case EnergyFirst:
			newMode, newAccepted, stepDiags, err = trialEnergyFirst(m, grp, accepted)
		default:
			newMode, newAccepted, stepDiags, err = trialPerformanceFirst(m, grp, accepted)
		}
		diags = append(diags, stepDiags...)
		if err != nil {
			return nil, baseline, diags, err
		}

		modes[grp.Key] = newMode
		accepted = newAccepted
	}

	return modes, baseline, diags, nil
}

// trialEnergyFirst is the energy-first Phase 2 step: try rest; keep it if
// the ED product beats the accepted state, otherwise revert to nominal.
func trialEnergyFirst(m *power.Model, grp Group, accepted Measurement) (params.Mode, Measurement, []graph.Diagnostic, error) {
	if err := setGroupMode(m, grp, params.Rest); err != nil {
		return 0, Measurement{}, nil, err
	}
	candidate, diags, err := measure(m)
	if err != nil {
		return 0, Measurement{}, diags, err
	}

	if compare(accepted, candidate) > 1.00 {
		return params.Rest, candidate, diags, nil
	}

	if err := setGroupMode(m, grp, params.Nominal); err != nil {
		return 0, Measurement{}, diags, err
	}

	return params.Nominal, accepted, diags, nil
}

// trialPerformanceFirst is the performance-first Phase 2 step: try rest,
// then nominal, falling back to sprint, following the nested-threshold
// structure down to PerfNominalCeiling's largely-vacuous second test.
func trialPerformanceFirst(m *power.Model, grp Group, accepted Measurement) (params.Mode, Measurement, []graph.Diagnostic, error) {
	var diags []graph.Diagnostic

	if err := setGroupMode(m, grp, params.Rest); err != nil {
		return 0, Measurement{}, diags, err
	}
	restCandidate, restDiags, err := measure(m)
	diags = append(diags, restDiags...)
	if err != nil {
		return 0, Measurement{}, diags, err
	}

	restRatio := compare(accepted, restCandidate)
	if restRatio > 1.00 {
		return params.Rest, restCandidate, diags, nil
	}
	if restRatio >= PerfNominalCeiling {
		// Neither accepted nor explored further; group stays at its
		// pre-trial sprint assignment.
		if err := setGroupMode(m, grp, params.Sprint); err != nil {
			return 0, Measurement{}, diags, err
		}

		return params.Sprint, accepted, diags, nil
	}

	if err := setGroupMode(m, grp, params.Nominal); err != nil {
		return 0, Measurement{}, diags, err
	}
	nominalCandidate, nomDiags, err := measure(m)
	diags = append(diags, nomDiags...)
	if err != nil {
		return 0, Measurement{}, diags, err
	}

	nominalRatio := compare(accepted, nominalCandidate)
	if nominalRatio > 1.00 {
		return params.Nominal, nominalCandidate, diags, nil
	}

	if err := setGroupMode(m, grp, params.Sprint); err != nil {
		return 0, Measurement{}, diags, err
	}

	return params.Sprint, accepted, diags, nil
}
