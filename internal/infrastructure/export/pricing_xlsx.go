// Package export renders admin reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
)

// ContentTypeXLSX is the MIME type of the workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const pricingSheet = "Pricing"

var pricingHeadings = []string{
	"Product", "Category", "Base Price", "Markup %", "Price Override", "Sell Price", "Supplier ID", "Sold Out",
}

// WritePricingXLSX writes the pricing table as a one-sheet workbook. The
// global markup is noted above the header row and products without a markup
// override show the global figure in the markup column.
func WritePricingXLSX(w io.Writer, table *appcatalog.PricingTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", pricingSheet); err != nil {
		return err
	}

	if err := f.SetCellValue(pricingSheet, "A1", "Global markup %"); err != nil {
		return err
	}
	if err := f.SetCellValue(pricingSheet, "B1", table.GlobalMarkup.InexactFloat64()); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	const headerRow = 3
	for i, h := range pricingHeadings {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(pricingSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(pricingHeadings), headerRow)
	if err := f.SetCellStyle(pricingSheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(pricingSheet, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
		return err
	}

	for i, p := range table.Products {
		row := headerRow + 1 + i
		markup := table.GlobalMarkup
		if p.MarkupOverride != nil {
			markup = *p.MarkupOverride
		}
		values := []any{
			p.Name,
			p.Category,
			p.BasePrice.InexactFloat64(),
			markup.InexactFloat64(),
			optional(p.PriceOverride),
			p.SellPrice.InexactFloat64(),
			optionalString(p.SupplierProductID),
			yesNo(p.SoldOut),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(pricingSheet, start, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(pricingSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("F%d", row), money); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(pricingSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(pricingSheet, "B", "H", 16); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func optional(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
