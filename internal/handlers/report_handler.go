package handlers

import (
	"fmt"
	"net/http"

	"vyapar-backend/internal/services"
	"vyapar-backend/internal/timeutil"
	"vyapar-backend/pkg/utils"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// StatementPDF streams a party's ledger statement as PDF.
func (h *ReportHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	partyID, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid party id")
		return
	}

	from, to, err := dateRange(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	data, err := h.reports.StatementPDF(r.Context(), partyID, from, to)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "statement pdf failed")
		return
	}

	name := fmt.Sprintf("statement_%d_%s.pdf", partyID, timeutil.Now().Format("20060102"))
	h.reports.UploadExport(r.Context(), name, data, "application/pdf")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// OutstandingCSV streams the all-party receivables report.
func (h *ReportHandler) OutstandingCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.OutstandingCSV(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "outstanding report failed")
		return
	}

	name := fmt.Sprintf("outstanding_%s.csv", timeutil.Now().Format("20060102"))
	h.reports.UploadExport(r.Context(), name, data, "text/csv")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// BulkStatementsZip streams one statement PDF per party, zipped.
func (h *ReportHandler) BulkStatementsZip(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	data, err := h.reports.BulkStatementsZip(r.Context(), from, to)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "bulk statements failed")
		return
	}

	name := fmt.Sprintf("statements_%s.zip", timeutil.Now().Format("20060102"))
	h.reports.UploadExport(r.Context(), name, data, "application/zip")

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}
