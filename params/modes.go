package params

import "errors"

// ErrUnknownMode indicates a DVFS mode name outside {rest, nominal, sprint}.
var ErrUnknownMode = errors.New("params: unknown DVFS mode")

// ErrUnknownVoltage indicates a voltage value that is not exactly one of the
// three DVFS operating points; PeriodForVoltage returns it. ModeForVoltage
// never returns it, since it classifies any voltage by threshold.
var ErrUnknownVoltage = errors.New("params: voltage does not match a DVFS mode")

// Mode identifies one of the three DVFS operating points a tile may run at.
type Mode int

const (
	// Rest is the lowest-voltage, slowest operating point.
	Rest Mode = iota
	// Nominal is the baseline operating point.
	Nominal
	// Sprint is the highest-voltage, fastest operating point.
	Sprint
)

// String renders the canonical lower-case name used in DVFS JSON output.
func (m Mode) String() string {
	switch m {
	case Rest:
		return "rest"
	case Nominal:
		return "nominal"
	case Sprint:
		return "sprint"
	default:
		return "unknown"
	}
}

// operatingPoint bundles the voltage/period pair for one DVFS mode.
type operatingPoint struct {
	V float64 // volts
	T float64 // normalized clock period
}

// modeTable is the closed set of (V, T) pairs a Node may be configured to:
// rest = 0.61V @ T=3.00, nominal = 0.90V @ T=1.00, sprint = 1.23V @ T=0.66
// (three ticks of sprint period round-snap to 2.00, see sim.Simulator's
// rational-clock snap).
var modeTable = map[Mode]operatingPoint{
	Rest:    {V: 0.61, T: 3.00},
	Nominal: {V: 0.90, T: 1.00},
	Sprint:  {V: 1.23, T: 0.66},
}

// Modes lists the three DVFS modes in a fixed, deterministic order
// (Rest, Nominal, Sprint) for callers that must iterate candidates.
var Modes = []Mode{Rest, Nominal, Sprint}

// Operating returns the (V, T) pair for mode m.
func Operating(m Mode) (v, t float64) {
	op := modeTable[m]

	return op.V, op.T
}

// PeriodForVoltage returns the normalized period T for an exact mode
// voltage v. It returns ErrUnknownVoltage if v is not one of the three
// configured mode voltages.
func PeriodForVoltage(v float64) (float64, error) {
	for _, m := range Modes {
		op := modeTable[m]
		if op.V == v {
			return op.T, nil
		}
	}

	return 0, ErrUnknownVoltage
}

// ModeForVoltage classifies v into one of the three DVFS modes using fixed
// thresholds: V < 0.65 -> Rest, V < 0.95 -> Nominal, otherwise Sprint.
// Unlike PeriodForVoltage this never errors: it is used to label the
// *final* Autosearch assignment (which is always one of the three modes by
// construction) as well as arbitrary intermediate voltages for diagnostic
// rendering.
func ModeForVoltage(v float64) Mode {
	switch {
	case v < 0.65:
		return Rest
	case v < 0.95:
		return Nominal
	default:
		return Sprint
	}
}

// ModeByName parses the {slow, nominal, fast} DVFS selector used in DFG
// configuration JSON or the {rest, nominal, sprint} selector
// used in DVFS output JSON into a Mode.
func ModeByName(name string) (Mode, error) {
	switch name {
	case "slow", "rest":
		return Rest, nil
	case "nominal":
		return Nominal, nil
	case "fast", "sprint":
		return Sprint, nil
	default:
		return 0, ErrUnknownMode
	}
}
