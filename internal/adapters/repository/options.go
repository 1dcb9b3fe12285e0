package repository

// Option applies a configuration option to the History.
type Option func(*History)

// WithCapacity bounds the number of batches kept. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.capacity = n
		}
	}
}
