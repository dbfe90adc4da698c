package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultMaxResolutionDays is the SLA given to a catalog service when none is supplied
const DefaultMaxResolutionDays = 30

// Service is an entry of the service catalog ("Carta de Serviços"). Name is unique
// and is the natural key used by the importer.
type Service struct {
	ID                int64
	DivisionID        int64
	Name              string
	Description       string
	MaxResolutionDays int
	EntityID          *int64
	ServiceMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceMetadata holds the free-text attributes imported from the catalog spreadsheet
type ServiceMetadata struct {
	ResponsibleOrgan   string
	AttendanceChannels string
	RequestURL         string
	ServiceType        string
	RequestChannel     string
	SystemType         string
}

func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrValidation, "service name is required")
	}
	if s.DivisionID == 0 {
		return goerr.Wrap(ErrValidation, "service division is required", goerr.V(NameKey, s.Name))
	}
	if s.MaxResolutionDays <= 0 {
		return goerr.Wrap(ErrValidation, "max resolution days must be positive",
			goerr.V(NameKey, s.Name), goerr.V("max_resolution_days", s.MaxResolutionDays))
	}
	return nil
}
