package colab

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
)

type record struct {
	ID          flexString `json:"id"`
	Protocol    flexString `json:"protocolo"`
	Secretariat string     `json:"secretaria_responsavel"`
	Service     string     `json:"servico"`
	Requester   string     `json:"solicitante"`
	Status      string     `json:"status"`
	Description string     `json:"descricao"`
}

func (r record) toModel() *model.ExternalCase {
	return &model.ExternalCase{
		ExternalID:     string(r.ID),
		ProtocolNumber: string(r.Protocol),
		Secretariat:    strings.TrimSpace(r.Secretariat),
		ServiceName:    strings.TrimSpace(r.Service),
		Requester:      strings.TrimSpace(r.Requester),
		Status:         mapStatus(r.Status),
		RequestDetails: r.Description,
	}
}

var statusAliases = map[string]types.CaseStatus{
	"ABERTO":       types.CaseStatusOpen,
	"NOVO":         types.CaseStatusOpen,
	"EM_ANALISE":   types.CaseStatusInReview,
	"EM ANALISE":   types.CaseStatusInReview,
	"EM ANÁLISE":   types.CaseStatusInReview,
	"PENDENTE":     types.CaseStatusPendingInfo,
	"CONCLUIDO":    types.CaseStatusCompleted,
	"CONCLUÍDO":    types.CaseStatusCompleted,
	"RESOLVIDO":    types.CaseStatusCompleted,
	"CANCELADO":    types.CaseStatusCancelled,
	"INDEFERIDO":   types.CaseStatusCancelled,
	"ARQUIVADO":    types.CaseStatusCancelled,
	"PENDING":      types.CaseStatusPendingInfo,
	"IN REVIEW":    types.CaseStatusInReview,
	"DONE":         types.CaseStatusCompleted,
	"CANCELED":     types.CaseStatusCancelled,
	"PENDING INFO": types.CaseStatusPendingInfo,
}

// mapStatus translates the external status vocabulary. Unknown values pass through
// upper-cased and are rejected later by case validation.
func mapStatus(s string) types.CaseStatus {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return ""
	}
	if status, ok := statusAliases[key]; ok {
		return status
	}
	return types.CaseStatus(key)
}

// flexString decodes a JSON string or number into its text form
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
