package scoring

// Config is the read-only tuning snapshot used for one scoring call.
type Config struct {
	WeightEducation         float64 `mapstructure:"weight-education" json:"weight_education" validate:"gte=0,lte=1"`
	WeightSkills            float64 `mapstructure:"weight-skills" json:"weight_skills" validate:"gte=0,lte=1"`
	WeightExperience        float64 `mapstructure:"weight-experience" json:"weight_experience" validate:"gte=0,lte=1"`
	ProfessionZeroThreshold float64 `mapstructure:"profession-zero-threshold" json:"profession_zero_threshold" validate:"gte=0,lte=1"`
	ProfessionCapThreshold  float64 `mapstructure:"profession-cap-threshold" json:"profession_cap_threshold" validate:"gte=0,lte=1"`
	PartialCreditCap        float64 `mapstructure:"partial-credit-cap" json:"partial_credit_cap" validate:"gte=0,lte=100"`
}

// DefaultConfig returns the stock weights and thresholds.
func DefaultConfig() Config {
	return Config{
		WeightEducation:         0.35,
		WeightSkills:            0.45,
		WeightExperience:        0.20,
		ProfessionZeroThreshold: 0.2,
		ProfessionCapThreshold:  0.4,
		PartialCreditCap:        30,
	}
}

// WeightSum is the total of the three dimension weights.
func (c Config) WeightSum() float64 {
	return c.WeightEducation + c.WeightSkills + c.WeightExperience
}
