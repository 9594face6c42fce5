package service

import (
	"context"
	"testing"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHostLister struct {
	hosts []*model.Host
}

func (f *fakeHostLister) List(_ context.Context, activeOnly bool) ([]*model.Host, error) {
	if !activeOnly {
		return f.hosts, nil
	}
	var out []*model.Host
	for _, h := range f.hosts {
		if h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHostLister) Get(_ context.Context, id string) (*model.Host, error) {
	for _, h := range f.hosts {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, nil
}

type fakeRecipientLister struct {
	recipients []*model.Recipient
}

func (f *fakeRecipientLister) List(_ context.Context, _ bool) ([]*model.Recipient, error) {
	return f.recipients, nil
}

func (f *fakeRecipientLister) Get(_ context.Context, id string) (*model.Recipient, error) {
	for _, r := range f.recipients {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func loc(lat, lng float64) *model.Location {
	return &model.Location{Address: "x", Lat: &lat, Lng: &lng}
}

func TestPlanOrdersByNearestNeighbor(t *testing.T) {
	hosts := &fakeHostLister{hosts: []*model.Host{
		{ID: "host:far", Name: "Far", Active: true, Location: loc(40.30, -75.00)},
		{ID: "host:near", Name: "Near", Active: true, Location: loc(40.01, -75.00)},
		{ID: "host:mid", Name: "Mid", Active: true, Location: loc(40.10, -75.00)},
	}}
	svc := NewRouteService(RouteServiceConfig{Hosts: hosts, Recipients: &fakeRecipientLister{}})

	plan, err := svc.Plan(context.Background(), model.PlanRouteInput{
		StartLat: 40.00,
		StartLng: -75.00,
		Kind:     "hosts",
	})
	require.NoError(t, err)
	require.Len(t, plan.Stops, 3)

	assert.Equal(t, "host:near", plan.Stops[0].ID)
	assert.Equal(t, "host:mid", plan.Stops[1].ID)
	assert.Equal(t, "host:far", plan.Stops[2].ID)

	// Cumulative distances are monotonic and the last equals the total
	assert.Less(t, plan.Stops[0].CumulativeKm, plan.Stops[1].CumulativeKm)
	assert.Less(t, plan.Stops[1].CumulativeKm, plan.Stops[2].CumulativeKm)
	assert.InDelta(t, plan.TotalKm, plan.Stops[2].CumulativeKm, 1e-9)
}

func TestPlanSkipsStopsWithoutCoordinates(t *testing.T) {
	hosts := &fakeHostLister{hosts: []*model.Host{
		{ID: "host:a", Name: "A", Active: true, Location: loc(40.01, -75.00)},
		{ID: "host:nocoords", Name: "No Coords", Active: true, Location: &model.Location{Address: "somewhere"}},
	}}
	svc := NewRouteService(RouteServiceConfig{Hosts: hosts, Recipients: &fakeRecipientLister{}})

	plan, err := svc.Plan(context.Background(), model.PlanRouteInput{StartLat: 40, StartLng: -75, Kind: "hosts"})
	require.NoError(t, err)
	assert.Len(t, plan.Stops, 1)
	assert.Equal(t, []string{"host:nocoords"}, plan.Skipped)
}

func TestPlanAllStopsWithoutCoordinates(t *testing.T) {
	hosts := &fakeHostLister{hosts: []*model.Host{
		{ID: "host:a", Name: "A", Active: true, Location: &model.Location{Address: "somewhere"}},
		{ID: "host:b", Name: "B", Active: true, Location: &model.Location{Address: "elsewhere"}},
	}}
	svc := NewRouteService(RouteServiceConfig{Hosts: hosts, Recipients: &fakeRecipientLister{}})

	plan, err := svc.Plan(context.Background(), model.PlanRouteInput{StartLat: 40, StartLng: -75, Kind: "hosts"})
	require.NoError(t, err)
	assert.Empty(t, plan.Stops)
	assert.Zero(t, plan.TotalKm)
	assert.Equal(t, []string{"host:a", "host:b"}, plan.Skipped)
}

func TestPlanSubsetByIDs(t *testing.T) {
	recipients := &fakeRecipientLister{recipients: []*model.Recipient{
		{ID: "recipient:a", Name: "A", Location: loc(40.01, -75.00)},
		{ID: "recipient:b", Name: "B", Location: loc(40.02, -75.00)},
	}}
	svc := NewRouteService(RouteServiceConfig{Hosts: &fakeHostLister{}, Recipients: recipients})

	plan, err := svc.Plan(context.Background(), model.PlanRouteInput{
		StartLat: 40, StartLng: -75,
		Kind: "recipients",
		IDs:  []string{"recipient:b"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Stops, 1)
	assert.Equal(t, "recipient:b", plan.Stops[0].ID)
}

func TestPlanErrors(t *testing.T) {
	svc := NewRouteService(RouteServiceConfig{Hosts: &fakeHostLister{}, Recipients: &fakeRecipientLister{}})

	_, err := svc.Plan(context.Background(), model.PlanRouteInput{Kind: "warehouses"})
	assert.ErrorIs(t, err, ErrInvalidStopKind)

	// No hosts exist at all
	_, err = svc.Plan(context.Background(), model.PlanRouteInput{Kind: "hosts"})
	assert.ErrorIs(t, err, ErrNoRoutableStops)

	_, err = svc.Plan(context.Background(), model.PlanRouteInput{Kind: "hosts", IDs: []string{"host:missing"}})
	assert.ErrorIs(t, err, ErrHostNotFound)
}
