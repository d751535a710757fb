package sources

const (
	CartoDarkTileURL     = "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
	CartoSubdomains      = "abcd"
	CartoMaxZoom         = 19
	CartoAttribution     = "© OpenStreetMap contributors © CARTO"
	OpenStreetMapTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	OpenStreetMapMaxZoom = 19
	OpenStreetMapAttrib  = "© OpenStreetMap contributors"
)
