package service

import (
	"context"
	"errors"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// HostRepository defines the interface for host storage
type HostRepository interface {
	Create(ctx context.Context, host *model.Host) error
	Get(ctx context.Context, id string) (*model.Host, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Host, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Host, error)
	Delete(ctx context.Context, id string) error
	CreateContact(ctx context.Context, contact *model.HostContact) error
	ClearPrimaryContact(ctx context.Context, hostID string) error
	GetContacts(ctx context.Context, hostID string) ([]model.HostContact, error)
	DeleteContact(ctx context.Context, contactID string) error
}

// HostCollectionLister looks up the collection records that reference a host
type HostCollectionLister interface {
	List(ctx context.Context, filters *model.CollectionFilters) ([]*model.SandwichCollection, error)
}

// HostService manages collection host sites and their contacts
type HostService struct {
	hostRepo    HostRepository
	collections HostCollectionLister
}

// NewHostService creates a new host service
func NewHostService(hostRepo HostRepository, collections HostCollectionLister) *HostService {
	return &HostService{hostRepo: hostRepo, collections: collections}
}

// Create registers a new host site, active by default
func (s *HostService) Create(ctx context.Context, in model.CreateHostInput) (*model.Host, error) {
	if in.Name == "" {
		return nil, model.NewValidationError([]model.FieldError{{Field: "name", Message: "is required"}})
	}

	host := &model.Host{
		Name:     in.Name,
		Location: in.Location,
		Notes:    in.Notes,
		Active:   true,
	}
	if err := s.hostRepo.Create(ctx, host); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrHostNameExists
		}
		return nil, err
	}
	return host, nil
}

// Get retrieves a host with its contacts
func (s *HostService) Get(ctx context.Context, id string) (*model.Host, error) {
	host, err := s.hostRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrHostNotFound
	}

	contacts, err := s.hostRepo.GetContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	host.Contacts = contacts
	return host, nil
}

// List returns host sites
func (s *HostService) List(ctx context.Context, activeOnly bool) ([]*model.Host, error) {
	return s.hostRepo.List(ctx, activeOnly)
}

// Update applies a partial edit to a host
func (s *HostService) Update(ctx context.Context, id string, in model.UpdateHostInput) (*model.Host, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Location != nil {
		updates["location"] = map[string]interface{}{
			"address": in.Location.Address,
			"city":    in.Location.City,
			"lat":     in.Location.Lat,
			"lng":     in.Location.Lng,
		}
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	updated, err := s.hostRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrHostNotFound
	}
	return updated, nil
}

// Delete removes a host site. A host that collection records reference is
// deactivated instead so logged history stays intact; the returned host is
// non-nil in that case.
func (s *HostService) Delete(ctx context.Context, id string) (*model.Host, error) {
	host, err := s.hostRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrHostNotFound
	}

	refs, err := s.collections.List(ctx, &model.CollectionFilters{HostID: id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(refs) > 0 {
		return s.hostRepo.Update(ctx, id, map[string]interface{}{"active": false})
	}

	if err := s.hostRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return nil, nil
}

// AddContact attaches a contact person to a host. Marking a contact primary
// demotes any existing primary.
func (s *HostService) AddContact(ctx context.Context, hostID string, in model.CreateHostContactInput) (*model.HostContact, error) {
	if in.Name == "" {
		return nil, model.NewValidationError([]model.FieldError{{Field: "name", Message: "is required"}})
	}

	host, err := s.hostRepo.Get(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrHostNotFound
	}

	if in.Primary {
		if err := s.hostRepo.ClearPrimaryContact(ctx, hostID); err != nil {
			return nil, err
		}
	}

	contact := &model.HostContact{
		HostID:  hostID,
		Name:    in.Name,
		Role:    in.Role,
		Phone:   in.Phone,
		Email:   in.Email,
		Primary: in.Primary,
	}
	if err := s.hostRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// RemoveContact deletes a contact from a host
func (s *HostService) RemoveContact(ctx context.Context, hostID, contactID string) error {
	contacts, err := s.hostRepo.GetContacts(ctx, hostID)
	if err != nil {
		return err
	}
	for _, c := range contacts {
		if c.ID == contactID {
			return s.hostRepo.DeleteContact(ctx, contactID)
		}
	}
	return ErrContactNotFound
}
