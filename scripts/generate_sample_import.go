package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// generateSampleImport creates a sample product import workbook for manual
// testing of the batch import endpoint. The sheet mixes valid rows with rows
// that should be reported back as row-level failures (missing name, bad date,
// negative shelf life).
func main() {
	dataDir := "data/imports"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"商品名称", "生产日期", "保质期天数", "提醒天数"},
		{"牛奶", "2024-01-01", 7, 3},
		{"酸奶", "2024-01-02", 14, 3},
		{"面包", "2024-01-03", 3, 1},
		{"", "2024-01-04", 30, 3},      // missing name, should fail
		{"奶酪", "not-a-date", 90, 7},  // bad production date, should fail
		{"火腿", "2024-01-05", -5, 3},  // negative shelf life, should fail
		{"鸡蛋", time.Now().Format("2006-01-02"), 21, 5},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatalf("Failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Fatalf("Failed to write row %d: %v", i+1, err)
		}
	}

	filePath := filepath.Join(dataDir, "sample_products.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		log.Fatalf("Failed to save %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d data rows (3 of them intentionally invalid)\n", filePath, len(rows)-1)
}
