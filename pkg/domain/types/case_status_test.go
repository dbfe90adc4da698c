package types_test

import (
	"testing"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestCaseStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.CaseStatus
		want   bool
	}{
		{name: "open", status: types.CaseStatusOpen, want: true},
		{name: "in review", status: types.CaseStatusInReview, want: true},
		{name: "pending info", status: types.CaseStatusPendingInfo, want: true},
		{name: "completed", status: types.CaseStatusCompleted, want: true},
		{name: "cancelled", status: types.CaseStatusCancelled, want: true},
		{name: "lowercase", status: types.CaseStatus("open"), want: false},
		{name: "empty", status: types.CaseStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.status.IsValid()).Equal(tt.want)
		})
	}
}

func TestCaseStatus_IsOpen(t *testing.T) {
	for _, s := range types.OpenCaseStatuses() {
		gt.B(t, s.IsOpen()).True()
		gt.B(t, s.IsTerminal()).False()
	}
	gt.B(t, types.CaseStatusCompleted.IsOpen()).False()
	gt.B(t, types.CaseStatusCancelled.IsOpen()).False()
	gt.B(t, types.CaseStatusCompleted.IsTerminal()).True()
	gt.B(t, types.CaseStatusCancelled.IsTerminal()).True()
}

func TestCaseStatus_Normalize(t *testing.T) {
	gt.Value(t, types.CaseStatus("").Normalize()).Equal(types.CaseStatusOpen)
	gt.Value(t, types.CaseStatusCancelled.Normalize()).Equal(types.CaseStatusCancelled)
}

func TestParseCaseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.CaseStatus
		wantErr bool
	}{
		{name: "open", input: "OPEN", want: types.CaseStatusOpen},
		{name: "pending info", input: "PENDING_INFO", want: types.CaseStatusPendingInfo},
		{name: "unknown", input: "ARCHIVED", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseCaseStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseImportLayout(t *testing.T) {
	layout, err := types.ParseImportLayout("")
	gt.NoError(t, err).Required()
	gt.Value(t, layout).Equal(types.ImportLayoutFull)

	layout, err = types.ParseImportLayout("simple")
	gt.NoError(t, err).Required()
	gt.Value(t, layout).Equal(types.ImportLayoutSimple)

	_, err = types.ParseImportLayout("xml")
	gt.Error(t, err)
}
