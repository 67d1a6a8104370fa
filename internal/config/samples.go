package config

// SamplesConfig holds the representative inputs used by the demo entry points.
type SamplesConfig struct {
	Numbers   []int   `yaml:"numbers"`
	Numerator int     `yaml:"numerator"`
	Divisors  []int   `yaml:"divisors"`
	Email     *string `yaml:"email"` // nil means "no address supplied"
}

// DefaultSamples returns the inputs of the original exercises.
func DefaultSamples() SamplesConfig {
	return SamplesConfig{
		Numbers:   []int{10, 20, 30, 40},
		Numerator: 1000,
		Divisors:  []int{100, 50, 0, 25},
		Email:     nil,
	}
}
