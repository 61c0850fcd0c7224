package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBuildOrdersXLSX(t *testing.T) {
	data, err := BuildOrdersXLSX(map[string]int{"manga": 7, "acerola": 2})
	if err != nil {
		t.Fatalf("BuildOrdersXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Pedidos")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header plus two products", len(rows))
	}
	if rows[0][0] != "Produto" || rows[0][1] != "Quantidade" {
		t.Fatalf("header = %v", rows[0])
	}
	// ordenado alfabeticamente
	if rows[1][0] != "acerola" || rows[1][1] != "2" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "manga" || rows[2][1] != "7" {
		t.Fatalf("row 2 = %v", rows[2])
	}
}

func TestBuildOrdersXLSXEmpty(t *testing.T) {
	data, err := BuildOrdersXLSX(nil)
	if err != nil {
		t.Fatalf("BuildOrdersXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Pedidos")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want header only", len(rows))
	}
}
