package params

// Power-model design constants. These are fixed at design
// time; they are not tunable via CLI flags because the first-order model's
// curve-fit coefficients have no meaningful "user" value.
const (
	// VNominal is the nominal supply voltage V_N used to derive leakage
	// current I_L.
	VNominal = 0.90

	// VMin and VMax bound the physically meaningful voltage range; they are
	// informational bounds on the modeled V/F curve, not enforced clamps.
	VMin = 0.65
	VMax = 1.25

	// LeakageFraction (gamma) is the leakage fraction of dynamic power at
	// nominal voltage running a mul.
	LeakageFraction = 0.10

	// SRAMLeakageRatio (beta) is the SRAM-to-tile static leakage ratio.
	SRAMLeakageRatio = 2.0

	// DynamicPowerExponent (s) is the exponent applied to V in the dynamic
	// power term.
	DynamicPowerExponent = 2.0

	// TileCount and SRAMCount are the fixed CGRA dimensions used to compute
	// the reporting-only power envelope P_alloc.
	TileCount = 64
	SRAMCount = 16
)

// freqCoeffV2/V1/V0 are the coefficients a2, a1, a0 of the clock-frequency
// quadratic f(V) = a2*V^2 + a1*V + a0.
// Coefficients are curve-fit constants, not physical units.
const (
	freqCoeffV2 = -1161.6
	freqCoeffV1 = 4056.9
	freqCoeffV0 = -1689.1
)

// FrequencyHz evaluates f(V) = -1161.6*V^2 + 4056.9*V - 1689.1.
func FrequencyHz(v float64) float64 {
	return freqCoeffV2*v*v + freqCoeffV1*v + freqCoeffV0
}

// alphaTable gives the op-class dynamic-power weight relative to mul.
// phi shares alpha with cp, and br shares alpha with cmp.
var alphaTable = map[OpClass]float64{
	OpMul:   1.00,
	OpAlu:   0.33,
	OpCp:    0.22,
	OpCmp:   0.22,
	OpByp:   0.11,
	OpSram:  0.82,
	OpPhi:   0.22, // alpha_cp
	OpBr:    0.22, // alpha_cmp
	OpZero:  0.00,
	OpConst: 0.00,
}

// Alpha returns the dynamic-power weight for the given op-class.
func Alpha(c OpClass) float64 {
	return alphaTable[c]
}
