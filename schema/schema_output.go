package schema

// Relative uncertainty label constants.
const (
	LargeValue    = "Large"
	ModerateValue = "Moderate"
	SmallValue    = "Small"
	NoneValue     = "None"
)

// GetPlainLabel returns a plain text label for a relative uncertainty given in percent.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 50:
		return LargeValue
	case percent >= 20:
		return ModerateValue
	case percent > 0:
		return SmallValue
	default:
		return NoneValue
	}
}
