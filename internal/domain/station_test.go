package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdelboden = "ABO       Adelboden                rka150d0   MeteoSwiss Swiss Network   7°34'/46°30'   2609350/1148939   1327"

func TestParseStationLine(t *testing.T) {
	t.Run("primary marker", func(t *testing.T) {
		st, err := ParseStationLine(testAdelboden)

		require.NoError(t, err)
		assert.Equal(t, Station{
			ID:          "ABO",
			Name:        "Adelboden",
			Parameter:   ParamPrecipitation,
			DataSource:  "MeteoSwiss Swiss Network",
			LonLat:      "7°34'/46°30'",
			Coordinates: "2609350/1148939",
			Elevation:   "1327",
		}, st)
	})

	t.Run("multi-word name", func(t *testing.T) {
		st, err := ParseStationLine("GVE  Genève / Cointrin  rka150d0  MeteoSwiss  6°08'/46°15'  2498904/1122632  411")

		require.NoError(t, err)
		assert.Equal(t, "GVE", st.ID)
		assert.Equal(t, "Genève / Cointrin", st.Name)
		assert.Equal(t, "MeteoSwiss", st.DataSource)
		assert.Equal(t, "411", st.Elevation)
	})

	t.Run("secondary marker fallback", func(t *testing.T) {
		st, err := ParseStationLine("BER  Bern / Zollikofen  rre150d0  MeteoSwiss  7°28'/46°59'  2601929/1204409  552")

		require.NoError(t, err)
		assert.Equal(t, ParamPrecipitationReset, st.Parameter)
		assert.Equal(t, "Bern / Zollikofen", st.Name)
	})

	t.Run("primary marker wins over secondary", func(t *testing.T) {
		st, err := ParseStationLine("XYZ  Some rre150d0 Place  rka150d0  Source  8°00'/47°00'  1/2  3")

		require.NoError(t, err)
		assert.Equal(t, ParamPrecipitation, st.Parameter)
		assert.Equal(t, "Some rre150d0 Place", st.Name)
	})

	t.Run("empty data source", func(t *testing.T) {
		st, err := ParseStationLine("ABO Adelboden rka150d0 7°34'/46°30' 2609350/1148939 1327")

		require.NoError(t, err)
		assert.Empty(t, st.DataSource)
		assert.Equal(t, "7°34'/46°30'", st.LonLat)
	})

	t.Run("marker overlaps trailing fields", func(t *testing.T) {
		st, err := ParseStationLine("ABO rka150d0 a b")

		require.NoError(t, err)
		assert.Empty(t, st.Name)
		assert.Empty(t, st.DataSource)
		assert.Equal(t, ParamPrecipitation, st.LonLat)
	})

	t.Run("no marker", func(t *testing.T) {
		line := "ABO Adelboden tre200d0 MeteoSwiss 7°34'/46°30' 2609350/1148939 1327"
		_, err := ParseStationLine(line)

		require.ErrorIs(t, err, ErrMarkerNotFound)
		assert.Contains(t, err.Error(), line)
	})

	t.Run("too few fields", func(t *testing.T) {
		_, err := ParseStationLine("rka150d0 x")

		require.ErrorIs(t, err, ErrTooFewFields)
	})
}
