package dc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{ data []byte }

func (p *stubParser) Family() Family { return FamilySuuntoSolution }

func (p *stubParser) SetData(data []byte) error {
	p.data = data
	return nil
}

func (p *stubParser) Field(FieldType) (any, error) { return nil, ErrUnsupported }

func (p *stubParser) SamplesForeach(SampleFunc) error { return nil }

func withCleanRegistry(t *testing.T) {
	t.Helper()

	saved := map[Family]Backend{}
	backends.Range(func(f Family, b Backend) bool {
		saved[f] = b
		return true
	})
	backends.Clear()

	t.Cleanup(func() {
		backends.Clear()
		for f, b := range saved {
			backends.Store(f, b)
		}
	})
}

func TestRegistry_NewParser(t *testing.T) {
	withCleanRegistry(t)

	_, err := NewParser(FamilySuuntoSolution)
	require.ErrorIs(t, err, ErrUnsupported)

	Register(Backend{
		Family:    FamilySuuntoSolution,
		NewParser: func() Parser { return &stubParser{} },
	})

	p, err := NewParser(FamilySuuntoSolution)
	require.NoError(t, err)
	assert.Equal(t, FamilySuuntoSolution, p.Family())

	// No extractor registered for the family.
	err = ExtractDives(FamilySuuntoSolution, nil, nil)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestRegistry_ExtractDives(t *testing.T) {
	withCleanRegistry(t)

	var got []byte
	Register(Backend{
		Family: FamilyUwatecSmart,
		ExtractDives: func(image []byte, fn DiveFunc) error {
			got = image
			fn(Dive{Offset: 0, Data: image})
			return nil
		},
	})

	count := 0
	err := ExtractDives(FamilyUwatecSmart, []byte{1, 2, 3}, func(Dive) bool {
		count++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 1, count)
}

func TestRegistry_Families(t *testing.T) {
	withCleanRegistry(t)

	Register(Backend{Family: FamilySuuntoSolution})
	Register(Backend{Family: FamilyUwatecSmart})

	assert.Equal(t, []Family{FamilyUwatecSmart, FamilySuuntoSolution}, Families())

	_, ok := Lookup(FamilyNull)
	assert.False(t, ok)
}

func TestRegister_NullFamilyPanics(t *testing.T) {
	assert.Panics(t, func() { Register(Backend{}) })
}

func TestEventHandlerFunc(t *testing.T) {
	var events []Event
	h := EventHandlerFunc(func(ev Event) { events = append(events, ev) })

	h.OnEvent(ProgressEvent{Current: 1, Maximum: ProgressUnknown})
	h.OnEvent(DevInfoEvent{Model: 0x10, Serial: 1234})
	NopEventHandler().OnEvent(ClockEvent{})

	require.Len(t, events, 2)
	assert.Equal(t, ProgressEvent{Current: 1, Maximum: ProgressUnknown}, events[0])
	assert.Equal(t, DevInfoEvent{Model: 0x10, Serial: 1234}, events[1])
}
