package vector

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/terrametric/zonal.report/internal/fsutil"
)

const twoZones = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "field-a", "crop": "wheat"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Polygon", "coordinates": [[[5,5],[6,5],[6,6],[5,6],[5,5]]]}
    }
  ]
}`

func loadTwoZones(t *testing.T) (*Collection, *fsutil.MemoryFileSystem) {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("zones.geojson", []byte(twoZones), 0644))

	coll, err := Load(mfs, "zones.geojson")
	require.NoError(t, err)
	return coll, mfs
}

func TestLoad(t *testing.T) {
	coll, _ := loadTwoZones(t)

	require.Equal(t, 2, coll.Len())
	require.Len(t, coll.Geometries(), 2)

	poly, ok := coll.Geometry(0).(orb.Polygon)
	require.True(t, ok, "expected a polygon")
	require.Len(t, poly[0], 5)
}

func TestLoad_MissingFile(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	_, err := Load(mfs, "absent.geojson")
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("bad.geojson", []byte("{not geojson"), 0644))

	_, err := Load(mfs, "bad.geojson")
	require.Error(t, err)
}

func TestProperties(t *testing.T) {
	coll, _ := loadTwoZones(t)

	v, ok := coll.Property(0, "crop")
	require.True(t, ok)
	require.Equal(t, "wheat", v)

	coll.SetProperty(1, "statistics", map[string]interface{}{"band_1_mean": 2.5})
	v, ok = coll.Property(1, "statistics")
	require.True(t, ok)
	require.NotNil(t, v)

	coll.SetProperty(0, "timeseries", []interface{}{})
	coll.SetProperty(1, "timeseries", []interface{}{})
	coll.DropProperty("timeseries")
	for i := 0; i < coll.Len(); i++ {
		_, ok := coll.Property(i, "timeseries")
		require.False(t, ok, "feature %d should have no timeseries", i)
	}
}

func TestFeatureID(t *testing.T) {
	coll, _ := loadTwoZones(t)

	require.Equal(t, "field-a", coll.FeatureID(0, "id"))
	// Missing identifier falls back to the positional label.
	require.Equal(t, "feature_1", coll.FeatureID(1, "id"))
	require.Equal(t, "feature_0", coll.FeatureID(0, "no_such_field"))
}

func TestFeatureID_NumericValue(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"id": 7},
	   "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`
	require.NoError(t, mfs.WriteFile("z.geojson", []byte(doc), 0644))

	coll, err := Load(mfs, "z.geojson")
	require.NoError(t, err)
	require.Equal(t, "7", coll.FeatureID(0, "id"))
}

func TestSaveRoundTrip(t *testing.T) {
	coll, mfs := loadTwoZones(t)
	coll.SetProperty(0, "statistics", map[string]interface{}{"band_1_mean": 2.5, "band_1_min": nil})

	require.NoError(t, coll.Save(mfs, "out/enriched.geojson"))

	data, err := mfs.ReadFile("out/enriched.geojson")
	require.NoError(t, err)
	require.Contains(t, string(data), `"band_1_mean":2.5`)
	require.Contains(t, string(data), `"band_1_min":null`)

	reloaded, err := Load(mfs, "out/enriched.geojson")
	require.NoError(t, err)
	require.Equal(t, coll.Len(), reloaded.Len())
}

func TestSimplify(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	// A square traced with redundant collinear midpoints on every edge.
	doc := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"id":"z"},
	   "geometry":{"type":"Polygon","coordinates":[[
	     [0,0],[1,0],[2,0],[2,1],[2,2],[1,2],[0,2],[0,1],[0,0]]]}}]}`
	require.NoError(t, mfs.WriteFile("z.geojson", []byte(doc), 0644))

	coll, err := Load(mfs, "z.geojson")
	require.NoError(t, err)

	before := len(coll.Geometry(0).(orb.Polygon)[0])
	coll.Simplify(0.1)
	after := len(coll.Geometry(0).(orb.Polygon)[0])

	require.Less(t, after, before, "collinear vertices should be removed")
	require.GreaterOrEqual(t, after, 5, "the square itself must survive")
}

func TestSimplify_ZeroToleranceIsNoOp(t *testing.T) {
	coll, _ := loadTwoZones(t)

	before := len(coll.Geometry(0).(orb.Polygon)[0])
	coll.Simplify(0)
	after := len(coll.Geometry(0).(orb.Polygon)[0])

	require.Equal(t, before, after)
}

func TestSave_ContainsFeatureCollectionHeader(t *testing.T) {
	coll, mfs := loadTwoZones(t)
	require.NoError(t, coll.Save(mfs, "plain.geojson"))

	data, err := mfs.ReadFile("plain.geojson")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"FeatureCollection"`))
}
