package tabular_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/service/tabular"
	"github.com/m-mizutani/gt"
	"github.com/xuri/excelize/v2"
)

const fullCSV = "\xEF\xBB\xBFTitulo,Secretaria,Entidade,Orgao,Tipos de Atendimento,Solicitação pela Internet,Tipo,Forma Solicitação,Tipo Sistema,Prazo\n" +
	"Emissão de alvará,Secretaria de Fazenda,Prefeitura,Tributos,Presencial,https://example.org/alvara,Empresa,1Doc,Web,15\n" +
	"Poda de árvores,Meio Ambiente,,,,,,Presencial,,\n" +
	",,,,,,,,,\n" +
	"\"Coleta, especial\",Obras,,,,,,,,20 dias\n"

func TestRead_FullCSV(t *testing.T) {
	rows, err := tabular.Read(strings.NewReader(fullCSV), tabular.FormatCSV, types.ImportLayoutFull)
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(3)

	first := rows[0]
	gt.Number(t, first.Line).Equal(2)
	gt.Value(t, first.Title).Equal("Emissão de alvará")
	gt.Value(t, first.Secretariat).Equal("Secretaria de Fazenda")
	gt.Value(t, first.Entity).Equal("Prefeitura")
	gt.Number(t, first.MaxResolutionDays).Equal(15)
	gt.Value(t, first.Metadata).NotNil()
	gt.Value(t, first.Metadata.ResponsibleOrgan).Equal("Tributos")
	gt.Value(t, first.Metadata.AttendanceChannels).Equal("Presencial")
	gt.Value(t, first.Metadata.RequestURL).Equal("https://example.org/alvara")
	gt.Value(t, first.Metadata.ServiceType).Equal("Empresa")
	gt.Value(t, first.Metadata.RequestChannel).Equal("1Doc")
	gt.Value(t, first.Metadata.SystemType).Equal("Web")

	gt.Number(t, rows[1].MaxResolutionDays).Equal(0)
	gt.Value(t, rows[1].Entity).Equal("")

	gt.Value(t, rows[2].Title).Equal("Coleta, especial")
	gt.Number(t, rows[2].Line).Equal(5)
	gt.Number(t, rows[2].MaxResolutionDays).Equal(20)
}

func TestRead_FullMissingColumn(t *testing.T) {
	_, err := tabular.Read(strings.NewReader("Nome,Secretaria\nA,B\n"), tabular.FormatCSV, types.ImportLayoutFull)
	gt.Error(t, err).Is(tabular.ErrMissingColumn)
}

func TestRead_SimpleCSV(t *testing.T) {
	data := "titulo,orgao\n" +
		"Consulta,Secretaria de Saude\n" +
		"linha curta\n" +
		",Obras\n" +
		"Poda,Meio Ambiente,extra\n"

	rows, err := tabular.Read(strings.NewReader(data), tabular.FormatCSV, types.ImportLayoutSimple)
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(3)

	gt.Number(t, rows[0].Line).Equal(2)
	gt.Value(t, rows[0].Title).Equal("Consulta")
	gt.Value(t, rows[0].Secretariat).Equal("Secretaria de Saude")
	gt.Value(t, rows[0].Metadata).Nil()

	gt.Value(t, rows[1].Title).Equal("")
	gt.Number(t, rows[1].Line).Equal(4)
	gt.Value(t, rows[2].Secretariat).Equal("Meio Ambiente")
}

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		gt.NoError(t, err).Required()
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		gt.NoError(t, err).Required()
		gt.NoError(t, f.SetSheetRow(sheet, cell, &row)).Required()
	}

	var buf bytes.Buffer
	gt.NoError(t, f.Write(&buf)).Required()
	return buf.Bytes()
}

func TestRead_XLSX(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]any{
		{"Titulo", "Secretaria", "Forma Solicitação", "Prazo"},
		{"Habite-se", "Secretaria de Obras", "Portal", 45},
		{"Vacina", "Saude", "Presencial", ""},
	})

	rows, err := tabular.Read(bytes.NewReader(data), tabular.FormatXLSX, types.ImportLayoutFull)
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(2)
	gt.Value(t, rows[0].Title).Equal("Habite-se")
	gt.Number(t, rows[0].MaxResolutionDays).Equal(45)
	gt.Value(t, rows[0].Metadata.RequestChannel).Equal("Portal")
	gt.Value(t, rows[1].Secretariat).Equal("Saude")
}

func TestRead_XLSXNamedSheet(t *testing.T) {
	data := buildWorkbook(t, "Catalogo", [][]any{
		{"titulo", "orgao"},
		{"Consulta", "Saude"},
	})

	rows, err := tabular.Read(bytes.NewReader(data), tabular.FormatXLSX, types.ImportLayoutSimple, tabular.WithSheet("Catalogo"))
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(1)
	gt.Value(t, rows[0].Title).Equal("Consulta")

	_, err = tabular.Read(bytes.NewReader(data), tabular.FormatXLSX, types.ImportLayoutSimple, tabular.WithSheet("Missing"))
	gt.Value(t, err).NotNil()
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	gt.NoError(t, os.WriteFile(path, []byte(fullCSV), 0o600)).Required()

	rows, err := tabular.ReadFile(context.Background(), path, types.ImportLayoutFull)
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(3)

	_, err = tabular.ReadFile(context.Background(), filepath.Join(dir, "missing.csv"), types.ImportLayoutFull)
	gt.Value(t, err).NotNil()

	_, err = tabular.ReadFile(context.Background(), filepath.Join(dir, "catalog.pdf"), types.ImportLayoutFull)
	gt.Error(t, err).Is(tabular.ErrUnsupportedFormat)
}

func TestFormatOf(t *testing.T) {
	f, err := tabular.FormatOf("Carta.XLSX")
	gt.NoError(t, err)
	gt.Value(t, f).Equal(tabular.FormatXLSX)

	f, err = tabular.FormatOf("carta.csv")
	gt.NoError(t, err)
	gt.Value(t, f).Equal(tabular.FormatCSV)
}

func TestParseObjectURL(t *testing.T) {
	bucket, object, err := tabular.ParseObjectURL("gs://gea-imports/2024/catalogo.xlsx")
	gt.NoError(t, err).Required()
	gt.Value(t, bucket).Equal("gea-imports")
	gt.Value(t, object).Equal("2024/catalogo.xlsx")

	for _, raw := range []string{"gs://", "gs://gea-imports", "gs://gea-imports/", "gs:///catalogo.csv", "gs://gea-imports/dir/", "catalogo.csv"} {
		_, _, err := tabular.ParseObjectURL(raw)
		gt.Error(t, err).Is(tabular.ErrInvalidObjectURL)
	}
}

func TestReadFile_ObjectURLValidatedBeforeFetch(t *testing.T) {
	ctx := context.Background()

	_, err := tabular.ReadFile(ctx, "gs://gea-imports", types.ImportLayoutFull)
	gt.Error(t, err).Is(tabular.ErrInvalidObjectURL)

	_, err = tabular.ReadFile(ctx, "gs://gea-imports/catalogo.pdf", types.ImportLayoutFull)
	gt.Error(t, err).Is(tabular.ErrUnsupportedFormat)
}
