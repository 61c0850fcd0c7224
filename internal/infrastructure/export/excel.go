package export

import (
	"bytes"
	"sort"

	"github.com/xuri/excelize/v2"
)

// BuildOrdersXLSX monta a planilha de pedidos com os totais por produto,
// em ordem alfabética, na aba "Pedidos"
func BuildOrdersXLSX(totals map[string]int) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "Pedidos"); err != nil {
		return nil, err
	}
	sheet = "Pedidos"

	headers := []string{"Produto", "Quantidade"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	products := make([]string, 0, len(totals))
	for product := range totals {
		products = append(products, product)
	}
	sort.Strings(products)

	for i, product := range products {
		rowIdx := i + 2
		values := []interface{}{product, totals[product]}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
