package types

import "github.com/m-mizutani/goerr/v2"

// CaseStatus represents the lifecycle tag of a case. Any status may be set to any
// other; only COMPLETED has a side effect, applied by the bulk completion action.
type CaseStatus string

const (
	CaseStatusOpen        CaseStatus = "OPEN"
	CaseStatusInReview    CaseStatus = "IN_REVIEW"
	CaseStatusPendingInfo CaseStatus = "PENDING_INFO"
	CaseStatusCompleted   CaseStatus = "COMPLETED"
	CaseStatusCancelled   CaseStatus = "CANCELLED"
)

// AllCaseStatuses returns all valid case statuses in lifecycle order
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusOpen,
		CaseStatusInReview,
		CaseStatusPendingInfo,
		CaseStatusCompleted,
		CaseStatusCancelled,
	}
}

// OpenCaseStatuses returns the statuses counted as "open" by dashboards
func OpenCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusOpen,
		CaseStatusInReview,
		CaseStatusPendingInfo,
	}
}

// IsValid checks if the case status is valid
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen,
		CaseStatusInReview,
		CaseStatusPendingInfo,
		CaseStatusCompleted,
		CaseStatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the case still awaits resolution
func (s CaseStatus) IsOpen() bool {
	switch s {
	case CaseStatusOpen, CaseStatusInReview, CaseStatusPendingInfo:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is COMPLETED or CANCELLED
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusCompleted || s == CaseStatusCancelled
}

// Normalize returns the status, treating empty as CaseStatusOpen.
func (s CaseStatus) Normalize() CaseStatus {
	if s == "" {
		return CaseStatusOpen
	}
	return s
}

// Label returns a human readable name of the status
func (s CaseStatus) Label() string {
	switch s {
	case CaseStatusOpen:
		return "Open"
	case CaseStatusInReview:
		return "In review"
	case CaseStatusPendingInfo:
		return "Pending information"
	case CaseStatusCompleted:
		return "Completed"
	case CaseStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus parses a string into a CaseStatus
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid case status", goerr.V("status", s))
	}
	return status, nil
}
