package tabular

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open XLSX workbook")
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, goerr.Wrap(ErrEmptySheet, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read worksheet", goerr.V("sheet", sheet))
	}
	return rows, nil
}
