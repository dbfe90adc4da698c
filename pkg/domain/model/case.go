package model

import (
	"strings"
	"time"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Case is a citizen request ("Processo") opened against a catalog service.
// OpenedAt and DueDate are set once at creation and never change afterwards.
type Case struct {
	ID             int64
	ProtocolNumber string // empty until assigned; unique when set
	ExternalID     string // identifier in the external system; unique when set
	ServiceID      int64
	Requester      string
	OpenedAt       time.Time
	DueDate        time.Time
	CompletedAt    *time.Time
	Status         types.CaseStatus
	AssigneeID     string
	RequestDetails string
	Location       *GeoPoint
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GeoPoint is the optional geographic location of a case
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

func (c *Case) Validate() error {
	if c.ServiceID == 0 {
		return goerr.Wrap(ErrValidation, "case service is required")
	}
	if strings.TrimSpace(c.Requester) == "" {
		return goerr.Wrap(ErrValidation, "case requester is required")
	}
	if !c.Status.Normalize().IsValid() {
		return goerr.Wrap(ErrValidation, "invalid case status", goerr.V("status", c.Status))
	}
	if p := c.Location; p != nil {
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return goerr.Wrap(ErrValidation, "location out of range",
				goerr.V("latitude", p.Latitude), goerr.V("longitude", p.Longitude))
		}
	}
	return nil
}

// DaysOpen returns the number of whole days the case has been open. Completed cases
// report no value.
func (c *Case) DaysOpen(now time.Time) (int, bool) {
	if c.Status == types.CaseStatusCompleted {
		return 0, false
	}
	return int(now.Sub(c.OpenedAt) / (24 * time.Hour)), true
}

// IsOverdue reports whether an open case is past its due date on the given day.
func (c *Case) IsOverdue(today time.Time) bool {
	return c.Status.Normalize().IsOpen() && c.DueDate.Before(DateOf(today))
}
