package nutrition

type BMICategory string

const (
	Underweight BMICategory = "Underweight"
	Normal      BMICategory = "Normal weight"
	Overweight  BMICategory = "Overweight"
	Obese       BMICategory = "Obese"
)

// Category classifies bmi. Values in [24.9, 25) and at or above 29.9 fall through to Obese.
func Category(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi >= 18.5 && bmi < 24.9:
		return Normal
	case bmi >= 25 && bmi < 29.9:
		return Overweight
	default:
		return Obese
	}
}
