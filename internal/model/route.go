package model

// RouteStop is one visit on a planned delivery route
type RouteStop struct {
	ID           string  `json:"id"` // host or recipient ID
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	LegKm        float64 `json:"leg_km"` // distance from previous stop
	CumulativeKm float64 `json:"cumulative_km"`
}

// RoutePlan is a greedy nearest-neighbor ordering of stops
type RoutePlan struct {
	Stops   []RouteStop `json:"stops"`
	TotalKm float64     `json:"total_km"`
	Skipped []string    `json:"skipped,omitempty"` // IDs without coordinates
}

// PlanRouteInput is the payload for POST /v1/routes/plan
type PlanRouteInput struct {
	StartLat float64  `json:"start_lat"`
	StartLng float64  `json:"start_lng"`
	Kind     string   `json:"kind"`          // "recipients" or "hosts"
	IDs      []string `json:"ids,omitempty"` // optional subset; empty = all active
}
