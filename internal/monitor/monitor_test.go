package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
)

func TestRegister_RejectsDuplicatesAndNilProbes(t *testing.T) {
	m := New(NewMemorySink(), nil)

	require.NoError(t, m.Register("a", func() float64 { return 1 }))
	assert.Error(t, m.Register("a", func() float64 { return 2 }))
	assert.Error(t, m.Register("", func() float64 { return 1 }))
	assert.Error(t, m.Register("b", nil))
}

func TestFlush_SamplesLiveValues(t *testing.T) {
	sink := NewMemorySink()
	m := New(sink, nil)

	v := 10.0
	require.NoError(t, m.Register("x", func() float64 { return v }))

	require.NoError(t, m.Flush(0))
	v = 20
	require.NoError(t, m.Flush(1))

	assert.Equal(t, 10.0, sink.Flushes[0]["x"])
	assert.Equal(t, 20.0, sink.Flushes[1]["x"])
}

func TestRegisterWorld_StandardSeries(t *testing.T) {
	c, err := entity.NewCountry(&entity.Country{
		Name: "Testland", GDP: 2000,
		Loci: []*entity.Locus{
			{Name: "Alpha", Area: 10, Susceptible: 900, Infected: 100},
			{Name: "Beta", Area: 5, Susceptible: 500},
		},
	})
	require.NoError(t, err)
	world := epidemics.World{"Testland": c}

	sink := NewMemorySink()
	m := New(sink, nil)
	require.NoError(t, m.RegisterWorld(world))

	// 4 resource series + 4 compartments per locus.
	assert.Equal(t, 4+2*4, m.Len())

	require.NoError(t, m.Flush(0))
	assert.Equal(t, 2000.0, sink.Flushes[0]["Testland/gdp"])
	assert.Equal(t, 100.0, sink.Flushes[0]["Testland/Alpha/infected"])
	assert.Equal(t, 500.0, sink.Flushes[0]["Testland/Beta/susceptible"])
}

func TestRegisterWorld_TracksMutations(t *testing.T) {
	c, err := entity.NewCountry(&entity.Country{
		Name: "Testland", GDP: 2000,
		Loci: []*entity.Locus{{Name: "Alpha", Area: 10, Susceptible: 900}},
	})
	require.NoError(t, err)
	world := epidemics.World{"Testland": c}

	sink := NewMemorySink()
	m := New(sink, nil)
	require.NoError(t, m.RegisterWorld(world))

	locus := c.Locus("Alpha")
	locus.Stage(func() { locus.Infected = 50 })
	c.Sync()

	require.NoError(t, m.Flush(1))
	assert.Equal(t, 50.0, sink.Flushes[1]["Testland/Alpha/infected"])
}
