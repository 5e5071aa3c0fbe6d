package scraper

import (
	"testing"

	"github.com/drewfead/lunchmap/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Registry(t *testing.T) {
	var wrapped []string
	trace := func(name string) SourceMiddleware {
		return func(inner internal.Source) internal.Source {
			wrapped = append(wrapped, name)
			return inner
		}
	}

	r := NewRegistry(
		WithSource(Laziza(), trace("first"), trace("second")),
		WithSource(VHPizzeria()),
		WithSource(DocksideBurgers()),
		WithSource(Laziza()),
	)

	assert.Equal(t, []string{"laziza", "vhpizzeria", "docksideburgers"}, r.Descriptors())
	assert.Equal(t, []string{"first", "second"}, wrapped)

	s, err := r.GetSource("vhpizzeria")
	require.NoError(t, err)
	assert.Equal(t, "vhpizzeria", s.Descriptor())

	_, err = r.GetSource("glasklart")
	require.ErrorIs(t, err, ErrSourceNotFound)
	require.ErrorIs(t, err, internal.ErrSourceNotFound)

	ids := r.Descriptors()
	ids[0] = "mutated"
	assert.Equal(t, "laziza", r.Descriptors()[0])
}
