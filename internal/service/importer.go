package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealbridge/api/internal/model"
)

// importMaxRows caps a single CSV upload
const importMaxRows = 10000

// ImportService loads historical collection logs from CSV files.
//
// Expected columns: host, date, individual, group, notes (notes optional).
// A header row is required. Dates are YYYY-MM-DD. Hosts are matched by name,
// case-insensitively; unknown hosts fail the row, not the file.
type ImportService struct {
	collectionRepo CollectionRepository
	hostRepo       HostRepository
}

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	CollectionRepo CollectionRepository
	HostRepo       HostRepository
}

// NewImportService creates a new import service
func NewImportService(cfg ImportServiceConfig) *ImportService {
	return &ImportService{
		collectionRepo: cfg.CollectionRepo,
		hostRepo:       cfg.HostRepo,
	}
}

// Import reads CSV rows and creates collection records tagged with a fresh
// batch ID so a bad import can be deleted in one call. Exact duplicates are
// skipped; malformed rows are reported with their row number.
func (s *ImportService) Import(ctx context.Context, loggedBy string, file io.Reader) (*model.ImportReport, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	hosts, err := s.hostRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	hostsByName := make(map[string]*model.Host, len(hosts))
	for _, h := range hosts {
		hostsByName[strings.ToLower(strings.TrimSpace(h.Name))] = h
	}

	batchID := uuid.NewString()
	report := &model.ImportReport{BatchID: batchID}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, model.ImportError{Row: row, Message: "malformed CSV row"})
			continue
		}
		if row-1 > importMaxRows {
			return nil, fmt.Errorf("import exceeds %d rows", importMaxRows)
		}

		in, rowErr := parseImportRow(record, cols, hostsByName)
		if rowErr != "" {
			report.Failed++
			report.Errors = append(report.Errors, model.ImportError{Row: row, Message: rowErr})
			continue
		}

		existing, err := s.collectionRepo.ListByHostAndDate(ctx, in.HostID, in.CollectionDate)
		if err != nil {
			return nil, err
		}
		duplicate := false
		for _, c := range existing {
			if c.IndividualCount == in.IndividualCount && c.GroupCount == in.GroupCount {
				duplicate = true
				break
			}
		}
		if duplicate {
			report.Skipped++
			continue
		}

		collection := &model.SandwichCollection{
			HostID:          in.HostID,
			CollectionDate:  in.CollectionDate,
			IndividualCount: in.IndividualCount,
			GroupCount:      in.GroupCount,
			Notes:           in.Notes,
			LoggedBy:        loggedBy,
			ImportBatchID:   &batchID,
		}
		if err := s.collectionRepo.Create(ctx, collection); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, model.ImportError{Row: row, Message: "failed to save record"})
			continue
		}
		report.Created++
	}

	return report, nil
}

type columnIndex struct {
	host       int
	date       int
	individual int
	group      int
	notes      int
}

func mapColumns(header []string) (*columnIndex, error) {
	cols := &columnIndex{host: -1, date: -1, individual: -1, group: -1, notes: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "host", "host_name":
			cols.host = i
		case "date", "collection_date":
			cols.date = i
		case "individual", "individual_count":
			cols.individual = i
		case "group", "group_count":
			cols.group = i
		case "notes":
			cols.notes = i
		}
	}
	if cols.host < 0 || cols.date < 0 || cols.individual < 0 || cols.group < 0 {
		return nil, fmt.Errorf("header must contain host, date, individual, and group columns")
	}
	return cols, nil
}

func parseImportRow(record []string, cols *columnIndex, hostsByName map[string]*model.Host) (*model.CreateCollectionInput, string) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	hostName := field(cols.host)
	host, ok := hostsByName[strings.ToLower(hostName)]
	if !ok {
		return nil, fmt.Sprintf("unknown host %q", hostName)
	}

	date, err := time.Parse("2006-01-02", field(cols.date))
	if err != nil {
		return nil, fmt.Sprintf("invalid date %q", field(cols.date))
	}

	individual, err := strconv.Atoi(field(cols.individual))
	if err != nil || individual < 0 {
		return nil, fmt.Sprintf("invalid individual count %q", field(cols.individual))
	}
	group, err := strconv.Atoi(field(cols.group))
	if err != nil || group < 0 {
		return nil, fmt.Sprintf("invalid group count %q", field(cols.group))
	}
	if individual+group == 0 {
		return nil, "counts are both zero"
	}

	in := &model.CreateCollectionInput{
		HostID:          host.ID,
		CollectionDate:  date,
		IndividualCount: individual,
		GroupCount:      group,
	}
	if notes := field(cols.notes); notes != "" {
		in.Notes = &notes
	}
	return in, ""
}
