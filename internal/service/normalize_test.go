package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateTuple returns a well-formed 17-element state vector.
func stateTuple() []any {
	return []any{
		"4ca1d3",   // 0  icao24
		"BAW123 ",  // 1  callsign
		" United Kingdom ", // 2 origin country
		1700000000.0, // 3  time_position
		1700000000.0, // 4  last_contact
		-0.45,        // 5  longitude
		51.47,        // 6  latitude
		10000.0,      // 7  baro_altitude (m)
		false,        // 8  on_ground
		250.0,        // 9  velocity (m/s)
		180.0,        // 10 true_track
		0.0,          // 11 vertical_rate
		nil,          // 12 sensors
		10500.0,      // 13 geo_altitude (m)
		"1234",       // 14 squawk
		false,        // 15 spi
		0.0,          // 16 position_source
	}
}

func TestMapStateVector(t *testing.T) {
	flight, ok := MapStateVector(stateTuple())
	require.True(t, ok)

	assert.Equal(t, "4CA1D3", flight.ID)
	assert.Equal(t, "BAW123", flight.Callsign)
	assert.Equal(t, 51.47, flight.Lat)
	assert.Equal(t, -0.45, flight.Lon)
	// geo altitude preferred: 10500 m = 34448.82 ft, rounded to nearest 25
	assert.Equal(t, 34450, flight.Alt)
	// 250 m/s = 485.96 kt
	assert.Equal(t, 486, flight.Speed)
	assert.Equal(t, 180.0, flight.Heading)
	assert.Equal(t, "United Kingdom", flight.Origin)
	assert.Equal(t, UnknownAirport, flight.Destination)
	assert.Nil(t, flight.Registration)
}

func TestMapStateVectorIsDeterministic(t *testing.T) {
	first, ok := MapStateVector(stateTuple())
	require.True(t, ok)
	second, ok := MapStateVector(stateTuple())
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestMapStateVectorDropsMissingPosition(t *testing.T) {
	noLat := stateTuple()
	noLat[6] = nil
	_, ok := MapStateVector(noLat)
	assert.False(t, ok)

	noLon := stateTuple()
	noLon[5] = nil
	_, ok = MapStateVector(noLon)
	assert.False(t, ok)
}

func TestMapStateVectorDropsShortTuple(t *testing.T) {
	_, ok := MapStateVector(stateTuple()[:10])
	assert.False(t, ok)
}

func TestMapStateVectorBaroFallback(t *testing.T) {
	tuple := stateTuple()
	tuple[13] = nil // no geo altitude

	flight, ok := MapStateVector(tuple)
	require.True(t, ok)
	// 10000 m = 32808.4 ft, rounded to nearest 25
	assert.Equal(t, 32800, flight.Alt)
}

func TestMapStateVectorAltitudeDefaults(t *testing.T) {
	tuple := stateTuple()
	tuple[7] = nil
	tuple[13] = nil

	flight, ok := MapStateVector(tuple)
	require.True(t, ok)
	assert.Equal(t, 0, flight.Alt)
}

func TestMapStateVectorNegativeAltitudeClamped(t *testing.T) {
	tuple := stateTuple()
	tuple[13] = -100.0

	flight, ok := MapStateVector(tuple)
	require.True(t, ok)
	assert.Equal(t, 0, flight.Alt)
}

func TestMapStateVectorUnknownSpeedAndHeading(t *testing.T) {
	tuple := stateTuple()
	tuple[9] = nil
	tuple[10] = "north"

	flight, ok := MapStateVector(tuple)
	require.True(t, ok)
	assert.Equal(t, 0, flight.Speed)
	assert.Equal(t, 0.0, flight.Heading)
}

func TestMapStateVectorSentinels(t *testing.T) {
	tuple := stateTuple()
	tuple[0] = nil
	tuple[1] = nil
	tuple[2] = "  "

	flight, ok := MapStateVector(tuple)
	require.True(t, ok)
	assert.Equal(t, UnknownID, flight.ID)
	assert.Equal(t, "", flight.Callsign)
	assert.Equal(t, UnknownAirport, flight.Origin)
}

func TestClampHeading(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{450, 90},
		{-90, 270},
		{-450, 270},
		{725.5, 5.5},
	}

	for _, tt := range tests {
		got := ClampHeading(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "ClampHeading(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}

func TestClampHeadingPeriodic(t *testing.T) {
	for _, h := range []float64{12.3, 359.9, -17.0, 181.5} {
		for k := -2; k <= 2; k++ {
			assert.InDelta(t, ClampHeading(h), ClampHeading(h+float64(k)*360), 1e-9)
		}
	}
}
