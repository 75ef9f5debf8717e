// Package export renders catalog data as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Products"

var header = []string{
	"ID",
	"Category ID",
	"Name",
	"Description",
	"Price",
	"Stock",
	"Enabled",
	"Deleted At",
	"Created At",
	"Updated At",
}

// WriteProductsXLSX streams an xlsx workbook with one row per product,
// preceded by a header row. An empty slice still yields the header.
func WriteProductsXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range products {
		p := &products[i]

		var deletedAt interface{}
		if p.DeletedAt.Valid {
			deletedAt = p.DeletedAt.Time.Format("2006-01-02 15:04:05")
		}

		row := []interface{}{
			p.ID,
			p.CategoryID,
			p.Name,
			derefString(p.Description),
			p.Price,
			p.Stock,
			p.Enabled,
			deletedAt,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinate: %w", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
