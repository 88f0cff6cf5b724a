package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeclean-backend/internal/models"
)

type PropertyService struct {
	store    PropertyStore
	geocoder Geocoder
	logger   *zap.Logger
}

func NewPropertyService(store PropertyStore, geocoder Geocoder, logger *zap.Logger) *PropertyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{store: store, geocoder: geocoder, logger: logger}
}

func (s *PropertyService) Create(ctx context.Context, ownerID uuid.UUID, req *models.PropertyRequest) (*models.Property, error) {
	if err := ValidateProperty(req); err != nil {
		return nil, err
	}

	property := &models.Property{ID: uuid.New(), OwnerID: ownerID}
	applyPropertyRequest(property, req)
	s.geocode(ctx, property)

	created, err := s.store.CreateProperty(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return created, nil
}

// Get loads a property the caller owns.
func (s *PropertyService) Get(ctx context.Context, userID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != userID {
		return nil, forbidden("property belongs to another owner")
	}
	return property, nil
}

func (s *PropertyService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	return s.store.ListProperties(ctx, ownerID)
}

func (s *PropertyService) Update(ctx context.Context, userID, propertyID uuid.UUID, req *models.PropertyRequest) (*models.Property, error) {
	if err := ValidateProperty(req); err != nil {
		return nil, err
	}
	property, err := s.Get(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	addressChanged := property.FullAddress() != models.FormatAddress(
		strings.TrimSpace(req.Street), strings.TrimSpace(req.Suburb),
		strings.ToUpper(strings.TrimSpace(req.State)), strings.TrimSpace(req.Postcode))
	applyPropertyRequest(property, req)
	if addressChanged || property.Latitude == nil {
		property.Latitude, property.Longitude = nil, nil
		s.geocode(ctx, property)
	}

	updated, err := s.store.UpdateProperty(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return updated, nil
}

func (s *PropertyService) Delete(ctx context.Context, userID, propertyID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, propertyID); err != nil {
		return err
	}
	return s.store.DeleteProperty(ctx, propertyID)
}

// Linen returns the linen plan for a property the caller owns.
func (s *PropertyService) Linen(ctx context.Context, userID, propertyID uuid.UUID, spares int) (*models.LinenPlan, error) {
	property, err := s.Get(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	return PlanLinen(property, spares), nil
}

func applyPropertyRequest(p *models.Property, req *models.PropertyRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Street = strings.TrimSpace(req.Street)
	p.Suburb = strings.TrimSpace(req.Suburb)
	p.State = strings.ToUpper(strings.TrimSpace(req.State))
	p.Postcode = strings.TrimSpace(req.Postcode)
	p.Bedrooms = req.Bedrooms
	p.Bathrooms = req.Bathrooms
	p.HasPets = req.HasPets
	p.HasPool = req.HasPool
	p.HasGarden = req.HasGarden
	p.IsFurnished = req.IsFurnished
	p.EntryMethod = strings.TrimSpace(req.EntryMethod)
}

// geocode fills coordinates when it can. Failures leave them empty.
func (s *PropertyService) geocode(ctx context.Context, p *models.Property) {
	if s.geocoder == nil {
		return
	}
	result, err := s.geocoder.Geocode(ctx, p.FullAddress())
	if err != nil {
		s.logger.Warn("geocoding property failed", zap.String("property_id", p.ID.String()), zap.Error(err))
		return
	}
	if !result.Valid || result.Coordinates == nil {
		s.logger.Info("property address not geocoded",
			zap.String("property_id", p.ID.String()),
			zap.String("reason", result.Error),
		)
		return
	}
	lat, lng := result.Coordinates.Lat, result.Coordinates.Lng
	p.Latitude = &lat
	p.Longitude = &lng
}
