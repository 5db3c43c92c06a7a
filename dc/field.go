package dc

// FieldType selects a summary field of a parsed dive.
type FieldType int

const (
	FieldDiveTime FieldType = iota
	FieldMaxDepth
	FieldAvgDepth
	FieldGasMixCount
	FieldGasMix
	FieldSalinity
	FieldAtmospheric
	FieldTemperatureMinimum
	FieldTemperatureMaximum
)

// String returns the field name.
func (t FieldType) String() string {
	switch t {
	case FieldDiveTime:
		return "divetime"
	case FieldMaxDepth:
		return "maxdepth"
	case FieldAvgDepth:
		return "avgdepth"
	case FieldGasMixCount:
		return "gasmix_count"
	case FieldGasMix:
		return "gasmix"
	case FieldSalinity:
		return "salinity"
	case FieldAtmospheric:
		return "atmospheric"
	case FieldTemperatureMinimum:
		return "temperature_minimum"
	case FieldTemperatureMaximum:
		return "temperature_maximum"
	default:
		return "unknown"
	}
}

// GasMix is a breathing gas, expressed as fractions of one.
type GasMix struct {
	Helium   float64 `json:"helium" yaml:"helium"`
	Oxygen   float64 `json:"oxygen" yaml:"oxygen"`
	Nitrogen float64 `json:"nitrogen" yaml:"nitrogen"`
}

// AirMix returns the gas mix of compressed air.
func AirMix() GasMix {
	mix := GasMix{Helium: 0.0, Oxygen: 0.21}
	mix.Nitrogen = 1.0 - mix.Oxygen - mix.Helium

	return mix
}
