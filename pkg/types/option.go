package types

// Option is a tagged optional value. It replaces nullable pointers at call
// sites that need an explicit present/absent distinction, such as the promo
// code applied to a cart.
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None returns the absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.present
}

// OrZero returns the value or the zero value when absent.
func (o Option[T]) OrZero() T {
	return o.value
}
