package api

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/suchin-t/tourboard/pkg/advisory"
	"github.com/suchin-t/tourboard/pkg/analytics"
	"github.com/suchin-t/tourboard/pkg/dataset"
)

// handleExport streams an xlsx workbook for one province: the monthly
// history, the forecast band, and (for provinces in the factor table)
// the advisory report.
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	if province == "" {
		writeError(w, http.StatusBadRequest, "missing province")
		return
	}
	horizon, err := parseHorizon(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fc, err := h.svc.Forecast(r.Context(), province, horizon)
	if err != nil {
		writeEndpointError(w, err)
		return
	}

	// The national total and Bangkok have no advisory view; export the
	// sheets that exist and skip the rest.
	var report *advisory.Report
	if province != dataset.NationalTotal && province != dataset.Capital {
		report, err = h.svc.SWOT(r.Context(), province)
		if err != nil {
			report = nil
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeHistorySheet(f, fc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := writeForecastSheet(f, fc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report != nil {
		if err := writeAdvisorySheet(f, report); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		h.logger.Warn("xlsx drop default sheet failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", province+".xlsx"))
	// Headers are already sent; a write failure can only be logged.
	if err := f.Write(w); err != nil {
		h.logger.Warn("xlsx write failed", "province", province, "error", err)
	}
}

func writeHistorySheet(f *excelize.File, fc *analytics.ForecastView) error {
	const sheet = "History"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, "month", "label", "visitors"); err != nil {
		return err
	}
	for i, sp := range fc.History {
		if err := setRow(f, sheet, i+2, sp.Month, sp.Label, sp.Visitors); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 18)
}

func writeForecastSheet(f *excelize.File, fc *analytics.ForecastView) error {
	const sheet = "Forecast"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, "month", "label", "predicted", "lower", "upper", "trend", "yearly"); err != nil {
		return err
	}
	row := 2
	for _, fp := range fc.Forecast {
		if err := setRow(f, sheet, row, fp.Month, fp.Label, fp.Predicted, fp.Lower, fp.Upper, fp.Trend, fp.Yearly); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sheet, "A", "G", 16)
}

func writeAdvisorySheet(f *excelize.File, report *advisory.Report) error {
	const sheet = "SWOT"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, "category", "factor", "current", "benchmark", "gap", "importance"); err != nil {
		return err
	}
	row := 2
	groups := []struct {
		name  string
		items []advisory.Item
	}{
		{"strength", report.Strengths},
		{"weakness", report.Weaknesses},
		{"opportunity", report.Opportunities},
	}
	for _, g := range groups {
		for _, item := range g.items {
			if err := setRow(f, sheet, row, g.name, item.Feature, item.Current, item.Benchmark, item.Gap, item.Importance); err != nil {
				return err
			}
			row++
		}
	}
	for _, ctx := range [][]advisory.Row{report.Search, report.Infrastructure} {
		for _, cr := range ctx {
			if err := setRow(f, sheet, row, "context", cr.Feature, cr.Current, cr.Benchmark, cr.Gap, ""); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(sheet, "A", "F", 20)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
