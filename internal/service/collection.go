package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// nearDuplicateThreshold is the relative difference in totals under which
// two records for the same host and day are flagged as near duplicates.
const nearDuplicateThreshold = 0.10

// CollectionRepository defines the interface for collection storage
type CollectionRepository interface {
	Create(ctx context.Context, c *model.SandwichCollection) error
	Get(ctx context.Context, id string) (*model.SandwichCollection, error)
	List(ctx context.Context, filters *model.CollectionFilters) ([]*model.SandwichCollection, error)
	ListByHostAndDate(ctx context.Context, hostID string, day time.Time) ([]*model.SandwichCollection, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*model.SandwichCollection, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.SandwichCollection, error)
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, batchID string) (int, error)
	Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error)
}

// CollectionService handles sandwich collection logging and reporting
type CollectionService struct {
	collectionRepo CollectionRepository
	hostRepo       HostRepository
}

// CollectionServiceConfig holds configuration for the collection service
type CollectionServiceConfig struct {
	CollectionRepo CollectionRepository
	HostRepo       HostRepository
}

// NewCollectionService creates a new collection service
func NewCollectionService(cfg CollectionServiceConfig) *CollectionService {
	return &CollectionService{
		collectionRepo: cfg.CollectionRepo,
		hostRepo:       cfg.HostRepo,
	}
}

// Create logs a collection. An exact duplicate (same host, same day,
// identical counts) is rejected.
func (s *CollectionService) Create(ctx context.Context, loggedBy string, in model.CreateCollectionInput) (*model.SandwichCollection, error) {
	if err := validateCounts(in.IndividualCount, in.GroupCount); err != nil {
		return nil, err
	}

	host, err := s.hostRepo.Get(ctx, in.HostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrHostNotFound
	}
	if !host.Active {
		return nil, ErrHostInactive
	}

	existing, err := s.collectionRepo.ListByHostAndDate(ctx, in.HostID, in.CollectionDate)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.IndividualCount == in.IndividualCount && c.GroupCount == in.GroupCount {
			return nil, ErrDuplicateCollection
		}
	}

	collection := &model.SandwichCollection{
		HostID:          in.HostID,
		CollectionDate:  in.CollectionDate,
		IndividualCount: in.IndividualCount,
		GroupCount:      in.GroupCount,
		Notes:           in.Notes,
		LoggedBy:        loggedBy,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Get retrieves a collection record
func (s *CollectionService) Get(ctx context.Context, id string) (*model.SandwichCollection, error) {
	c, err := s.collectionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCollectionNotFound
	}
	return c, nil
}

// List returns collections matching the filters
func (s *CollectionService) List(ctx context.Context, filters *model.CollectionFilters) ([]*model.SandwichCollection, error) {
	return s.collectionRepo.List(ctx, filters)
}

// Update edits a collection. Volunteers may only edit records they logged;
// coordinators and admins may edit any record.
func (s *CollectionService) Update(ctx context.Context, actorID, actorRole, id string, in model.UpdateCollectionInput) (*model.SandwichCollection, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.HasRole(actorRole, model.RoleCoordinator) && c.LoggedBy != actorID {
		return nil, ErrNotCollectionOwner
	}

	individual := c.IndividualCount
	group := c.GroupCount
	if in.IndividualCount != nil {
		individual = *in.IndividualCount
	}
	if in.GroupCount != nil {
		group = *in.GroupCount
	}
	if err := validateCounts(individual, group); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.CollectionDate != nil {
		updates["collection_date"] = *in.CollectionDate
	}
	if in.IndividualCount != nil {
		updates["individual_count"] = *in.IndividualCount
	}
	if in.GroupCount != nil {
		updates["group_count"] = *in.GroupCount
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	updated, err := s.collectionRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCollectionNotFound
	}
	return updated, nil
}

// Delete removes a collection record. Same ownership rule as Update.
func (s *CollectionService) Delete(ctx context.Context, actorID, actorRole, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !model.HasRole(actorRole, model.RoleCoordinator) && c.LoggedBy != actorID {
		return ErrNotCollectionOwner
	}
	return s.collectionRepo.Delete(ctx, id)
}

// DeleteBatch removes every record created by an import batch and returns
// the number deleted
func (s *CollectionService) DeleteBatch(ctx context.Context, batchID string) (int, error) {
	count, err := s.collectionRepo.DeleteBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrBatchNotFound
	}
	return count, nil
}

// FindDuplicates scans a date range for suspect records: exact duplicates
// share host, day, and counts; near duplicates share host and day with
// totals within the threshold.
func (s *CollectionService) FindDuplicates(ctx context.Context, from, to time.Time) ([]model.DuplicateGroup, error) {
	records, err := s.collectionRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return groupDuplicates(records), nil
}

// ResolveDuplicates deletes every record in each exact-duplicate group
// except the earliest-created one. Near duplicates are left for a human to
// judge. Returns the number of records removed.
func (s *CollectionService) ResolveDuplicates(ctx context.Context, from, to time.Time) (int, error) {
	groups, err := s.FindDuplicates(ctx, from, to)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, g := range groups {
		if g.Kind != model.DuplicateExact {
			continue
		}
		keep := g.Records[0]
		for _, r := range g.Records[1:] {
			if r.CreatedOn.Before(keep.CreatedOn) {
				keep = r
			}
		}
		for _, r := range g.Records {
			if r.ID == keep.ID {
				continue
			}
			if err := s.collectionRepo.Delete(ctx, r.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}

// Stats returns sandwich totals overall, per host, and per week
func (s *CollectionService) Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error) {
	stats, err := s.collectionRepo.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Attach host names for readability
	hosts, err := s.hostRepo.List(ctx, false)
	if err == nil {
		names := make(map[string]string, len(hosts))
		for _, h := range hosts {
			names[h.ID] = h.Name
		}
		for i := range stats.PerHost {
			stats.PerHost[i].HostName = names[stats.PerHost[i].HostID]
		}
	}

	// Weekly roll-up needs the individual records
	rangeFrom := time.Now().AddDate(-1, 0, 0)
	rangeTo := time.Now()
	if from != nil {
		rangeFrom = *from
	}
	if to != nil {
		rangeTo = *to
	}
	records, err := s.collectionRepo.ListInRange(ctx, rangeFrom, rangeTo)
	if err != nil {
		return nil, err
	}
	stats.Weekly = weeklyTotals(records)
	return stats, nil
}

func validateCounts(individual, group int) error {
	if individual < 0 || group < 0 {
		return ErrNegativeCount
	}
	if individual+group == 0 {
		return ErrZeroCount
	}
	return nil
}

type hostDay struct {
	hostID string
	day    string
}

func groupDuplicates(records []*model.SandwichCollection) []model.DuplicateGroup {
	byKey := make(map[hostDay][]*model.SandwichCollection)
	var order []hostDay
	for _, r := range records {
		key := hostDay{hostID: r.HostID, day: r.CollectionDate.Format("2006-01-02")}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	var groups []model.DuplicateGroup
	for _, key := range order {
		set := byKey[key]
		if len(set) < 2 {
			continue
		}

		kind := classifyDuplicates(set)
		if kind == "" {
			continue
		}

		day, _ := time.Parse("2006-01-02", key.day)
		group := model.DuplicateGroup{HostID: key.hostID, Date: day, Kind: kind}
		for _, r := range set {
			group.Records = append(group.Records, *r)
		}
		groups = append(groups, group)
	}
	return groups
}

// classifyDuplicates returns "exact" when any two records have identical
// counts, "near" when any two totals differ by less than the threshold of
// the larger, and "" otherwise.
func classifyDuplicates(set []*model.SandwichCollection) string {
	kind := ""
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			a, b := set[i], set[j]
			if a.IndividualCount == b.IndividualCount && a.GroupCount == b.GroupCount {
				return model.DuplicateExact
			}
			larger := math.Max(float64(a.Total()), float64(b.Total()))
			if larger > 0 && math.Abs(float64(a.Total()-b.Total()))/larger <= nearDuplicateThreshold {
				kind = model.DuplicateNear
			}
		}
	}
	return kind
}

// weeklyTotals buckets records by the Monday of their week
func weeklyTotals(records []*model.SandwichCollection) []model.WeeklyTotal {
	byWeek := make(map[time.Time]int)
	for _, r := range records {
		byWeek[weekStart(r.CollectionDate)] += r.Total()
	}

	weeks := make([]time.Time, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	totals := make([]model.WeeklyTotal, 0, len(weeks))
	for _, w := range weeks {
		totals = append(totals, model.WeeklyTotal{WeekStart: w, Sandwiches: byWeek[w]})
	}
	return totals
}

func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}
