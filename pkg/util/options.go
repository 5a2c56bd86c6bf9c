package util

// Option mutates a configuration target of type T.
type Option[T any] interface {
	ApplyTo(target *T)
}

// FunctionalOption adapts a plain function to the Option interface.
type FunctionalOption[T any] func(target *T)

// ApplyTo applies the option to the target.
func (f FunctionalOption[T]) ApplyTo(target *T) {
	f(target)
}

// ApplyOptions applies all options to the target, in order.
func ApplyOptions[T any](target *T, opts ...Option[T]) {
	for _, opt := range opts {
		opt.ApplyTo(target)
	}
}
