package posts

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreatePostInput struct {
	Title   string
	Content string
	// Author is the caller-supplied author label (wire name "author_information").
	// It is required; it is not derived from the authenticated identity.
	Author string
}

// UpdatePostInput carries a partial update. Required document fields cannot be
// set to null; unspecified fields keep their current value.
type UpdatePostInput struct {
	Title   Optional[string]
	Content Optional[string]
	Author  Optional[string]
}
