package eligibility

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSocSampleSize overrides the number of distinct SOC codes sampled
// when a run matches nothing.
func WithSocSampleSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.sampleSize = n
		}
	}
}
