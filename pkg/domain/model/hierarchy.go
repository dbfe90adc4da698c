package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Entity is an organisation a catalog service may be attributed to (e.g. a municipal
// autarchy). Name is unique.
type Entity struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Entity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return goerr.Wrap(ErrValidation, "entity name is required")
	}
	return nil
}

// Secretariat is the root of the administrative tree. Name and Acronym are unique.
type Secretariat struct {
	ID        int64
	Name      string
	Acronym   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Secretariat) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrValidation, "secretariat name is required")
	}
	if strings.TrimSpace(s.Acronym) == "" {
		return goerr.Wrap(ErrValidation, "secretariat acronym is required", goerr.V(NameKey, s.Name))
	}
	if n := len([]rune(s.Acronym)); n > MaxAcronymLength {
		return goerr.Wrap(ErrValidation, "secretariat acronym is too long",
			goerr.V(NameKey, s.Name), goerr.V("acronym", s.Acronym), goerr.V("length", n))
	}
	return nil
}

// Department belongs to exactly one Secretariat.
type Department struct {
	ID            int64
	SecretariatID int64
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d *Department) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return goerr.Wrap(ErrValidation, "department name is required")
	}
	if d.SecretariatID == 0 {
		return goerr.Wrap(ErrValidation, "department secretariat is required", goerr.V(NameKey, d.Name))
	}
	return nil
}

// Division belongs to exactly one Department.
type Division struct {
	ID           int64
	DepartmentID int64
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Division) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return goerr.Wrap(ErrValidation, "division name is required")
	}
	if d.DepartmentID == 0 {
		return goerr.Wrap(ErrValidation, "division department is required", goerr.V(NameKey, d.Name))
	}
	return nil
}
