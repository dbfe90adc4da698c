package tabular

import (
	"strconv"
	"strings"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Column headers of the full catalog layout
const (
	ColumnTitle              = "Titulo"
	ColumnSecretariat        = "Secretaria"
	ColumnEntity             = "Entidade"
	ColumnResponsibleOrgan   = "Orgao"
	ColumnAttendanceChannels = "Tipos de Atendimento"
	ColumnRequestURL         = "Solicitação pela Internet"
	ColumnServiceType        = "Tipo"
	ColumnRequestChannel     = "Forma Solicitação"
	ColumnSystemType         = "Tipo Sistema"
	ColumnDeadline           = "Prazo"
)

// mapSimple reads positional rows: title, responsible organisation. The header row
// is dropped and so are rows with fewer than two columns.
func mapSimple(records [][]string) []model.ImportRow {
	rows := []model.ImportRow{}
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		rows = append(rows, model.ImportRow{
			Line:        i + 1,
			Title:       strings.TrimSpace(rec[0]),
			Secretariat: strings.TrimSpace(rec[1]),
		})
	}
	return rows
}

// mapFull reads rows by header name. Unknown columns are ignored.
func mapFull(records [][]string) ([]model.ImportRow, error) {
	if len(records) == 0 {
		return nil, goerr.Wrap(ErrEmptySheet, "missing header row")
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, required := range []string{ColumnTitle, ColumnSecretariat} {
		if _, ok := index[required]; !ok {
			return nil, goerr.Wrap(ErrMissingColumn, "cannot map catalog rows", goerr.V("column", required))
		}
	}

	rows := []model.ImportRow{}
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		col := func(name string) string {
			j, ok := index[name]
			if !ok || j >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[j])
		}

		rows = append(rows, model.ImportRow{
			Line:              i + 2,
			Title:             col(ColumnTitle),
			Secretariat:       col(ColumnSecretariat),
			Entity:            col(ColumnEntity),
			MaxResolutionDays: parseDeadline(col(ColumnDeadline)),
			Metadata: &model.ServiceMetadata{
				ResponsibleOrgan:   col(ColumnResponsibleOrgan),
				AttendanceChannels: col(ColumnAttendanceChannels),
				RequestURL:         col(ColumnRequestURL),
				ServiceType:        col(ColumnServiceType),
				RequestChannel:     col(ColumnRequestChannel),
				SystemType:         col(ColumnSystemType),
			},
		})
	}
	return rows, nil
}

// parseDeadline returns the number of days in a Prazo cell, or 0 when the cell is
// empty or not a positive number. Cells like "15 dias" keep their leading digits.
func parseDeadline(cell string) int {
	end := 0
	for end < len(cell) && cell[end] >= '0' && cell[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(cell[:end])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
