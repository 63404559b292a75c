package events

// FilterResolver maps a topic name to the binary prefix installed on a
// subscriber channel. Implementations must be deterministic: resolving the
// same name twice yields identical bytes, because the prefix a subscriber
// installs has to match the prefix publishers stamp on the wire.
type FilterResolver interface {
	Resolve(topic string) ([]byte, error)
}

// TypeResolver resolves topic names against the built-in event taxonomy.
// It is the resolver the engine uses unless one is injected.
type TypeResolver struct{}

func (TypeResolver) Resolve(topic string) ([]byte, error) {
	t, err := Parse(topic)
	if err != nil {
		return nil, err
	}
	return t.Filter(), nil
}

// ResolverFunc adapts a plain function to the FilterResolver interface.
type ResolverFunc func(topic string) ([]byte, error)

func (f ResolverFunc) Resolve(topic string) ([]byte, error) { return f(topic) }
