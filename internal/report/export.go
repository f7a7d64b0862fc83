package report

import (
	"context"
	"fmt"
	"io"

	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Meal Records"

var exportHeaders = []string{
	"Date", "School Code", "School", "Menu ID", "Meal Type",
	"Students Present", "Meals Served", "Estimated Cost",
}

// ExportXLSX writes the period's meal records, with a totals row, as an
// Excel workbook.
func (s *Service) ExportXLSX(ctx context.Context, r period.Range, w io.Writer) error {
	servings := []Serving{}
	if !r.Empty() {
		var err error
		if servings, err = s.repo.Servings(ctx, r, 0); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return err
		}
	}

	for i, sv := range servings {
		row := []any{
			sv.Date.Format(period.Layout),
			sv.SchoolCode,
			sv.SchoolName,
			sv.MenuID,
			sv.MealType,
			sv.StudentsPresent,
			sv.MealsServed,
			sv.EstimatedCost().StringFixed(2),
		}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	_, totals, cost := Summarize(servings)
	totalRow := []any{"TOTAL", "", "", "", "", totals.StudentsPresent, totals.MealsServed, cost.StringFixed(2)}
	if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", len(servings)+2), &totalRow); err != nil {
		return err
	}

	return f.Write(w)
}
