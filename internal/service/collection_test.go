package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCollectionRepo struct {
	records []*model.SandwichCollection
	nextID  int
}

func (m *memCollectionRepo) Create(_ context.Context, c *model.SandwichCollection) error {
	m.nextID++
	c.ID = fmt.Sprintf("sandwich_collection:%d", m.nextID)
	c.CreatedOn = time.Now()
	copied := *c
	m.records = append(m.records, &copied)
	return nil
}

func (m *memCollectionRepo) Get(_ context.Context, id string) (*model.SandwichCollection, error) {
	for _, c := range m.records {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCollectionRepo) List(_ context.Context, filters *model.CollectionFilters) ([]*model.SandwichCollection, error) {
	var out []*model.SandwichCollection
	for _, c := range m.records {
		if filters != nil && filters.HostID != "" && c.HostID != filters.HostID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memCollectionRepo) ListByHostAndDate(_ context.Context, hostID string, day time.Time) ([]*model.SandwichCollection, error) {
	var out []*model.SandwichCollection
	for _, c := range m.records {
		if c.HostID == hostID && c.CollectionDate.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCollectionRepo) ListInRange(_ context.Context, from, to time.Time) ([]*model.SandwichCollection, error) {
	var out []*model.SandwichCollection
	for _, c := range m.records {
		if !c.CollectionDate.Before(from) && !c.CollectionDate.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCollectionRepo) Update(_ context.Context, id string, _ map[string]interface{}) (*model.SandwichCollection, error) {
	return m.Get(context.Background(), id)
}

func (m *memCollectionRepo) Delete(_ context.Context, id string) error {
	for i, c := range m.records {
		if c.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCollectionRepo) DeleteBatch(_ context.Context, batchID string) (int, error) {
	count := 0
	var kept []*model.SandwichCollection
	for _, c := range m.records {
		if c.ImportBatchID != nil && *c.ImportBatchID == batchID {
			count++
			continue
		}
		kept = append(kept, c)
	}
	m.records = kept
	return count, nil
}

func (m *memCollectionRepo) Stats(_ context.Context, _, _ *time.Time) (*model.CollectionStats, error) {
	stats := &model.CollectionStats{}
	perHost := map[string]*model.HostTotal{}
	for _, c := range m.records {
		ht, ok := perHost[c.HostID]
		if !ok {
			ht = &model.HostTotal{HostID: c.HostID}
			perHost[c.HostID] = ht
		}
		ht.Sandwiches += c.Total()
		ht.Records++
		stats.TotalSandwiches += c.Total()
		stats.TotalRecords++
	}
	for _, ht := range perHost {
		stats.PerHost = append(stats.PerHost, *ht)
	}
	return stats, nil
}

type memHostRepo struct {
	hosts    []*model.Host
	contacts []model.HostContact
}

func (m *memHostRepo) Create(_ context.Context, h *model.Host) error {
	h.ID = fmt.Sprintf("host:%d", len(m.hosts)+1)
	m.hosts = append(m.hosts, h)
	return nil
}

func (m *memHostRepo) Get(_ context.Context, id string) (*model.Host, error) {
	for _, h := range m.hosts {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, nil
}

func (m *memHostRepo) List(_ context.Context, activeOnly bool) ([]*model.Host, error) {
	if !activeOnly {
		return m.hosts, nil
	}
	var out []*model.Host
	for _, h := range m.hosts {
		if h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHostRepo) Update(_ context.Context, id string, updates map[string]interface{}) (*model.Host, error) {
	h, _ := m.Get(context.Background(), id)
	if h == nil {
		return nil, nil
	}
	for field, value := range updates {
		switch field {
		case "name":
			h.Name = value.(string)
		case "active":
			h.Active = value.(bool)
		}
	}
	return h, nil
}

func (m *memHostRepo) Delete(_ context.Context, id string) error {
	for i, h := range m.hosts {
		if h.ID == id {
			m.hosts = append(m.hosts[:i], m.hosts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memHostRepo) CreateContact(_ context.Context, c *model.HostContact) error {
	c.ID = fmt.Sprintf("host_contact:%d", len(m.contacts)+1)
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *memHostRepo) ClearPrimaryContact(_ context.Context, hostID string) error {
	for i := range m.contacts {
		if m.contacts[i].HostID == hostID {
			m.contacts[i].Primary = false
		}
	}
	return nil
}

func (m *memHostRepo) GetContacts(_ context.Context, hostID string) ([]model.HostContact, error) {
	var out []model.HostContact
	for _, c := range m.contacts {
		if c.HostID == hostID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memHostRepo) DeleteContact(_ context.Context, contactID string) error {
	for i, c := range m.contacts {
		if c.ID == contactID {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}
	return nil
}

func newCollectionFixture() (*CollectionService, *memCollectionRepo, *memHostRepo) {
	hosts := &memHostRepo{hosts: []*model.Host{
		{ID: "host:rivertown", Name: "Rivertown Church", Active: true},
		{ID: "host:closed", Name: "Closed Site", Active: false},
	}}
	collections := &memCollectionRepo{}
	svc := NewCollectionService(CollectionServiceConfig{CollectionRepo: collections, HostRepo: hosts})
	return svc, collections, hosts
}

func TestCreateCollection(t *testing.T) {
	svc, _, _ := newCollectionFixture()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	c, err := svc.Create(context.Background(), "user:vol", model.CreateCollectionInput{
		HostID:          "host:rivertown",
		CollectionDate:  date,
		IndividualCount: 120,
		GroupCount:      30,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, c.Total())
	assert.Equal(t, "user:vol", c.LoggedBy)
}

func TestCreateCollectionRejectsExactDuplicate(t *testing.T) {
	svc, _, _ := newCollectionFixture()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	in := model.CreateCollectionInput{
		HostID:          "host:rivertown",
		CollectionDate:  date,
		IndividualCount: 120,
		GroupCount:      30,
	}

	_, err := svc.Create(context.Background(), "user:a", in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "user:b", in)
	assert.ErrorIs(t, err, ErrDuplicateCollection)

	// Different counts on the same day are allowed
	in.GroupCount = 31
	_, err = svc.Create(context.Background(), "user:b", in)
	assert.NoError(t, err)
}

func TestCreateCollectionValidation(t *testing.T) {
	svc, _, _ := newCollectionFixture()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), "u", model.CreateCollectionInput{
		HostID: "host:rivertown", CollectionDate: date, IndividualCount: -1,
	})
	assert.ErrorIs(t, err, ErrNegativeCount)

	_, err = svc.Create(context.Background(), "u", model.CreateCollectionInput{
		HostID: "host:rivertown", CollectionDate: date,
	})
	assert.ErrorIs(t, err, ErrZeroCount)

	_, err = svc.Create(context.Background(), "u", model.CreateCollectionInput{
		HostID: "host:missing", CollectionDate: date, IndividualCount: 10,
	})
	assert.ErrorIs(t, err, ErrHostNotFound)

	_, err = svc.Create(context.Background(), "u", model.CreateCollectionInput{
		HostID: "host:closed", CollectionDate: date, IndividualCount: 10,
	})
	assert.ErrorIs(t, err, ErrHostInactive)
}

func TestUpdateCollectionOwnership(t *testing.T) {
	svc, _, _ := newCollectionFixture()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	c, err := svc.Create(context.Background(), "user:owner", model.CreateCollectionInput{
		HostID: "host:rivertown", CollectionDate: date, IndividualCount: 10,
	})
	require.NoError(t, err)

	newCount := 20
	_, err = svc.Update(context.Background(), "user:other", model.RoleVolunteer, c.ID, model.UpdateCollectionInput{IndividualCount: &newCount})
	assert.ErrorIs(t, err, ErrNotCollectionOwner)

	_, err = svc.Update(context.Background(), "user:owner", model.RoleVolunteer, c.ID, model.UpdateCollectionInput{IndividualCount: &newCount})
	assert.NoError(t, err)

	// Coordinators may edit anyone's record
	_, err = svc.Update(context.Background(), "user:coord", model.RoleCoordinator, c.ID, model.UpdateCollectionInput{IndividualCount: &newCount})
	assert.NoError(t, err)
}

func TestFindDuplicates(t *testing.T) {
	svc, repo, _ := newCollectionFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Exact pair
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:1", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100, GroupCount: 0},
		&model.SandwichCollection{ID: "c:2", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100, GroupCount: 0},
	)
	// Near pair on another host: 100 vs 95, within 10%
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:3", HostID: "host:closed", CollectionDate: day, IndividualCount: 100, GroupCount: 0},
		&model.SandwichCollection{ID: "c:4", HostID: "host:closed", CollectionDate: day, IndividualCount: 95, GroupCount: 0},
	)
	// Lone record, never a duplicate
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:5", HostID: "host:rivertown", CollectionDate: day.AddDate(0, 0, 1), IndividualCount: 50},
	)

	groups, err := svc.FindDuplicates(context.Background(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	kinds := map[string]string{}
	for _, g := range groups {
		kinds[g.HostID] = g.Kind
	}
	assert.Equal(t, model.DuplicateExact, kinds["host:rivertown"])
	assert.Equal(t, model.DuplicateNear, kinds["host:closed"])
}

func TestFindDuplicatesIgnoresDistantTotals(t *testing.T) {
	svc, repo, _ := newCollectionFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:1", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100},
		&model.SandwichCollection{ID: "c:2", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 50},
	)

	groups, err := svc.FindDuplicates(context.Background(), day, day)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestResolveDuplicatesKeepsEarliest(t *testing.T) {
	svc, repo, _ := newCollectionFixture()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Exact triple with distinct creation times
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:1", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100, CreatedOn: day.Add(2 * time.Hour)},
		&model.SandwichCollection{ID: "c:2", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100, CreatedOn: day.Add(1 * time.Hour)},
		&model.SandwichCollection{ID: "c:3", HostID: "host:rivertown", CollectionDate: day, IndividualCount: 100, CreatedOn: day.Add(3 * time.Hour)},
	)
	// Near pair stays untouched
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:4", HostID: "host:closed", CollectionDate: day, IndividualCount: 100},
		&model.SandwichCollection{ID: "c:5", HostID: "host:closed", CollectionDate: day, IndividualCount: 95},
	)

	deleted, err := svc.ResolveDuplicates(context.Background(), day, day)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining := map[string]bool{}
	for _, r := range repo.records {
		remaining[r.ID] = true
	}
	assert.True(t, remaining["c:2"], "earliest record survives")
	assert.False(t, remaining["c:1"])
	assert.False(t, remaining["c:3"])
	assert.True(t, remaining["c:4"])
	assert.True(t, remaining["c:5"])
}

func TestWeeklyTotals(t *testing.T) {
	// Monday 2026-03-02 and the following Sunday land in the same week;
	// the next Monday starts a new one.
	records := []*model.SandwichCollection{
		{CollectionDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), IndividualCount: 10},
		{CollectionDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), IndividualCount: 5},
		{CollectionDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), IndividualCount: 7},
	}

	totals := weeklyTotals(records)
	require.Len(t, totals, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), totals[0].WeekStart)
	assert.Equal(t, 15, totals[0].Sandwiches)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), totals[1].WeekStart)
	assert.Equal(t, 7, totals[1].Sandwiches)
}

func TestDeleteBatch(t *testing.T) {
	svc, repo, _ := newCollectionFixture()
	batch := "batch-1"
	repo.records = append(repo.records,
		&model.SandwichCollection{ID: "c:1", ImportBatchID: &batch},
		&model.SandwichCollection{ID: "c:2", ImportBatchID: &batch},
		&model.SandwichCollection{ID: "c:3"},
	)

	count, err := svc.DeleteBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, repo.records, 1)

	_, err = svc.DeleteBatch(context.Background(), "batch-unknown")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}
