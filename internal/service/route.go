package service

import (
	"context"

	"github.com/mealbridge/api/internal/model"
)

// HostLister defines the host lookups route planning needs
type HostLister interface {
	List(ctx context.Context, activeOnly bool) ([]*model.Host, error)
	Get(ctx context.Context, id string) (*model.Host, error)
}

// RecipientLister defines the recipient lookups route planning needs
type RecipientLister interface {
	List(ctx context.Context, activeOnly bool) ([]*model.Recipient, error)
	Get(ctx context.Context, id string) (*model.Recipient, error)
}

// RouteService orders delivery stops with a greedy nearest-neighbor pass
type RouteService struct {
	hosts      HostLister
	recipients RecipientLister
}

// RouteServiceConfig holds configuration for the route service
type RouteServiceConfig struct {
	Hosts      HostLister
	Recipients RecipientLister
}

// NewRouteService creates a new route service
func NewRouteService(cfg RouteServiceConfig) *RouteService {
	return &RouteService{hosts: cfg.Hosts, recipients: cfg.Recipients}
}

// candidate is a stop awaiting placement in the route
type candidate struct {
	id   string
	name string
	lat  float64
	lng  float64
}

// Plan builds a route from the start point visiting each stop once, always
// moving to the nearest unvisited stop. Stops without coordinates are
// reported as skipped rather than failing the whole plan; when nothing has
// coordinates the plan is empty and every stop is listed in Skipped.
func (s *RouteService) Plan(ctx context.Context, in model.PlanRouteInput) (*model.RoutePlan, error) {
	candidates, skipped, err := s.loadCandidates(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if len(skipped) == 0 {
			return nil, ErrNoRoutableStops
		}
		return &model.RoutePlan{Skipped: skipped}, nil
	}

	plan := &model.RoutePlan{Skipped: skipped}
	curLat, curLng := in.StartLat, in.StartLng
	remaining := candidates

	for len(remaining) > 0 {
		best := 0
		bestDist := HaversineDistance(curLat, curLng, remaining[0].lat, remaining[0].lng)
		for i := 1; i < len(remaining); i++ {
			d := HaversineDistance(curLat, curLng, remaining[i].lat, remaining[i].lng)
			if d < bestDist {
				best, bestDist = i, d
			}
		}

		next := remaining[best]
		plan.TotalKm += bestDist
		plan.Stops = append(plan.Stops, model.RouteStop{
			ID:           next.id,
			Name:         next.name,
			Lat:          next.lat,
			Lng:          next.lng,
			LegKm:        bestDist,
			CumulativeKm: plan.TotalKm,
		})

		curLat, curLng = next.lat, next.lng
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return plan, nil
}

func (s *RouteService) loadCandidates(ctx context.Context, in model.PlanRouteInput) ([]candidate, []string, error) {
	var candidates []candidate
	var skipped []string

	add := func(id, name string, loc *model.Location) {
		if !loc.HasCoordinates() {
			skipped = append(skipped, id)
			return
		}
		candidates = append(candidates, candidate{id: id, name: name, lat: *loc.Lat, lng: *loc.Lng})
	}

	switch in.Kind {
	case "hosts":
		if len(in.IDs) > 0 {
			for _, id := range in.IDs {
				h, err := s.hosts.Get(ctx, id)
				if err != nil {
					return nil, nil, err
				}
				if h == nil {
					return nil, nil, ErrHostNotFound
				}
				add(h.ID, h.Name, h.Location)
			}
		} else {
			hosts, err := s.hosts.List(ctx, true)
			if err != nil {
				return nil, nil, err
			}
			for _, h := range hosts {
				add(h.ID, h.Name, h.Location)
			}
		}
	case "recipients":
		if len(in.IDs) > 0 {
			for _, id := range in.IDs {
				rec, err := s.recipients.Get(ctx, id)
				if err != nil {
					return nil, nil, err
				}
				if rec == nil {
					return nil, nil, ErrRecipientNotFound
				}
				add(rec.ID, rec.Name, rec.Location)
			}
		} else {
			recipients, err := s.recipients.List(ctx, true)
			if err != nil {
				return nil, nil, err
			}
			for _, rec := range recipients {
				add(rec.ID, rec.Name, rec.Location)
			}
		}
	default:
		return nil, nil, ErrInvalidStopKind
	}

	return candidates, skipped, nil
}
