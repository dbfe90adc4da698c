package model

import (
	"time"

	"github.com/gea-gov/gea/pkg/domain/types"
)

// Series is a chart-ready categorical split as parallel label/count arrays
type Series struct {
	Labels []string
	Data   []int
}

// CaseSummary is the row shown in dashboard tables
type CaseSummary struct {
	ID             int64
	ProtocolNumber string
	ServiceName    string
	Status         types.CaseStatus
	OpenedAt       time.Time
	DueDate        time.Time
}

// OperationalDashboard holds the case KPIs
type OperationalDashboard struct {
	GeneratedAt       time.Time
	TotalOpen         int
	TotalOverdue      int
	ByStatus          Series
	LoadBySecretariat Series
	CriticalCases     []CaseSummary
	RecentActivity    []CaseSummary
}

// CatalogAnalytics holds the service catalog KPIs
type CatalogAnalytics struct {
	GeneratedAt          time.Time
	TotalServices        int
	TotalNonSystematized int
	BySecretariat        Series
	BySystemType         Series
	ByOperatingSystem    Series
}
