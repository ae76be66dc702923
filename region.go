package scm

// RegionEndpoint is the REST path for regions.
const RegionEndpoint = "/config/objects/v1/regions"

// GeoLocation is a point in decimal degrees.
type GeoLocation struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Region is a named geographic region with member addresses.
type Region struct {
	Resource
	GeoLocation *GeoLocation `json:"geo_location,omitempty"`
	Address     []string     `json:"address,omitempty"`
}

// RegionRequest creates or updates a region.
type RegionRequest struct {
	Name        string       `json:"name" validate:"required,max=31"`
	GeoLocation *GeoLocation `json:"geo_location,omitempty"`
	Address     []string     `json:"address,omitempty" validate:"omitempty,unique,dive,required"`
	Container
}

// RegionService manages regions.
type RegionService = ResourceService[Region, RegionRequest]

var regionFilters = filterSet[Region]{
	// geo_location takes map[string]Range keyed by "latitude" and/or "longitude".
	"geo_location": rangesFilter(func(r *Region) map[string]float64 {
		if r.GeoLocation == nil {
			return nil
		}
		return map[string]float64{
			"latitude":  r.GeoLocation.Latitude,
			"longitude": r.GeoLocation.Longitude,
		}
	}),
	"addresses": stringsFilter(func(r *Region) []string { return r.Address }),
}

// NewRegionService creates a service for regions.
func NewRegionService(t Transport, opts ...ServiceOption) (RegionService, error) {
	return newResourceService[Region, RegionRequest](resourceDef[Region]{
		name:     "region",
		endpoint: RegionEndpoint,
		filters:  regionFilters,
	}, t, opts...)
}
