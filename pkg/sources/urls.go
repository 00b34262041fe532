package sources

const (
	WorldGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
	NaturalEarthURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_110m_land.geojson"
)

// LandMaskURLs are the named land polygon sets the viewer can rasterise.
var LandMaskURLs = map[string]string{
	"countries":     WorldGeoJSONURL,
	"natural-earth": NaturalEarthURL,
}
