package model

import "time"

// SandwichCollection is a logged record of sandwiches gathered at a host site
type SandwichCollection struct {
	ID              string    `json:"id"`
	HostID          string    `json:"host_id"`
	CollectionDate  time.Time `json:"collection_date"`
	IndividualCount int       `json:"individual_count"`
	GroupCount      int       `json:"group_count"`
	Notes           *string   `json:"notes,omitempty"`
	LoggedBy        string    `json:"logged_by"`
	ImportBatchID   *string   `json:"import_batch_id,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// Total returns the combined sandwich count for the record.
func (c *SandwichCollection) Total() int {
	return c.IndividualCount + c.GroupCount
}

// CreateCollectionInput is the payload for POST /v1/collections
type CreateCollectionInput struct {
	HostID          string    `json:"host_id"`
	CollectionDate  time.Time `json:"collection_date"`
	IndividualCount int       `json:"individual_count"`
	GroupCount      int       `json:"group_count"`
	Notes           *string   `json:"notes,omitempty"`
}

// UpdateCollectionInput is the payload for PATCH /v1/collections/{collectionId}
type UpdateCollectionInput struct {
	CollectionDate  *time.Time `json:"collection_date,omitempty"`
	IndividualCount *int       `json:"individual_count,omitempty"`
	GroupCount      *int       `json:"group_count,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// Duplicate match kinds
const (
	DuplicateExact = "exact" // same host, date, and identical counts
	DuplicateNear  = "near"  // same host and date, totals within threshold
)

// DuplicateGroup is a set of collection records suspected to be the same
// real-world collection logged more than once.
type DuplicateGroup struct {
	HostID  string               `json:"host_id"`
	Date    time.Time            `json:"date"`
	Kind    string               `json:"kind"`
	Records []SandwichCollection `json:"records"`
}

// CollectionFilters narrows collection listings
type CollectionFilters struct {
	HostID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// CollectionStats summarizes logged collections
type CollectionStats struct {
	TotalSandwiches int           `json:"total_sandwiches"`
	TotalRecords    int           `json:"total_records"`
	PerHost         []HostTotal   `json:"per_host"`
	Weekly          []WeeklyTotal `json:"weekly"`
}

// HostTotal is a per-host sandwich sum
type HostTotal struct {
	HostID     string `json:"host_id"`
	HostName   string `json:"host_name,omitempty"`
	Sandwiches int    `json:"sandwiches"`
	Records    int    `json:"records"`
}

// WeeklyTotal is a per-week sandwich sum; WeekStart is the Monday of the week.
type WeeklyTotal struct {
	WeekStart  time.Time `json:"week_start"`
	Sandwiches int       `json:"sandwiches"`
}

// ImportReport summarizes a CSV import run
type ImportReport struct {
	BatchID string        `json:"batch_id"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"` // exact duplicates
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError is a row-level import failure
type ImportError struct {
	Row     int    `json:"row"` // 1-based, counting the header as row 1
	Message string `json:"message"`
}
