package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/drewfead/lunchmap/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	stuck := &countingSource{
		descriptor: "namdo",
		next: func(int32, internal.MenuRequest) (internal.Menu, error) {
			<-release
			return internal.SimpleList("late"), nil
		},
	}
	s := Timeout(30 * time.Millisecond)(stuck)
	assert.Equal(t, "namdo", s.Descriptor())

	start := time.Now()
	_, err := s.FetchMenu(context.Background(), requestOn(t, goldenDate))
	require.ErrorIs(t, err, internal.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUnit_Timeout_PassesThrough(t *testing.T) {
	s := Timeout(time.Second)(Laziza())
	menu, err := s.FetchMenu(context.Background(), requestOn(t, goldenDate))
	require.NoError(t, err)
	assert.Equal(t, internal.SimpleList("Libanesisk buffé"), menu)

}

func TestUnit_Timeout_RecoversPanics(t *testing.T) {
	panicky := &countingSource{
		descriptor: "spill",
		next: func(int32, internal.MenuRequest) (internal.Menu, error) {
			panic("boom")
		},
	}
	_, err := Timeout(time.Second)(panicky).FetchMenu(context.Background(), requestOn(t, goldenDate))
	require.ErrorIs(t, err, internal.ErrInternal)
}
