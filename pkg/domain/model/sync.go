package model

import (
	"time"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/google/uuid"
)

// ExternalCase is a case record fetched from the external case management system
type ExternalCase struct {
	ExternalID     string
	ProtocolNumber string
	Secretariat    string
	ServiceName    string
	Requester      string
	Status         types.CaseStatus
	RequestDetails string
}

// SyncOutcome classifies what happened to an external record
type SyncOutcome string

const (
	SyncOutcomeCreated SyncOutcome = "created"
	SyncOutcomeUpdated SyncOutcome = "updated"
	SyncOutcomeError   SyncOutcome = "error"
)

type SyncRecordResult struct {
	ExternalID string
	Outcome    SyncOutcome
	Reason     string
}

// SyncReport summarises a sync run
type SyncReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Created    int
	Updated    int
	Errored    int
	Records    []SyncRecordResult
}

func NewSyncReport(startedAt time.Time) *SyncReport {
	return &SyncReport{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		Records:   []SyncRecordResult{},
	}
}

func (r *SyncReport) Add(result SyncRecordResult) {
	switch result.Outcome {
	case SyncOutcomeCreated:
		r.Created++
	case SyncOutcomeUpdated:
		r.Updated++
	case SyncOutcomeError:
		r.Errored++
	}
	r.Records = append(r.Records, result)
}
