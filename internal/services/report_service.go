package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"vyapar-backend/internal/config"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/reconcile"
	"vyapar-backend/internal/storage"
	"vyapar-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// statementWorkers bounds concurrent PDF builds in bulk export.
const statementWorkers = 4

type ReportService struct {
	cfg    *config.Config
	ledger *LedgerService
	party  *PartyService
	r2     *storage.R2Client
}

func NewReportService(cfg *config.Config, ledger *LedgerService, party *PartyService, r2 *storage.R2Client) *ReportService {
	return &ReportService{cfg: cfg, ledger: ledger, party: party, r2: r2}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// StatementPDF renders a party's ledger statement for the range.
func (s *ReportService) StatementPDF(ctx context.Context, partyID int, from, to time.Time) ([]byte, error) {
	party, err := s.party.Get(ctx, partyID)
	if err != nil {
		return nil, err
	}
	st, err := s.ledger.Statement(ctx, partyID, from, to)
	if err != nil {
		return nil, err
	}
	return s.renderStatement(party, st, from, to)
}

func (s *ReportService) renderStatement(party *models.Party, st *reconcile.Statement, from, to time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, s.cfg.Business.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Ledger Statement", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, party.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if party.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+party.GSTIN, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Period: %s to %s",
		timeutil.ToIST(from).Format(timeutil.DateLayout),
		timeutil.ToIST(to).Format(timeutil.DateLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Table header
	widths := []float64{24, 30, 56, 26, 26, 28}
	headers := []string{"Date", "Ref No", "Description", "Debit", "Credit", "Balance"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 6, "Opening Balance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 6, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 6, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 6, formatMoney(st.OpeningBalance), "1", 1, "R", false, 0, "")

	for _, row := range st.Rows {
		pdf.CellFormat(widths[0], 6, timeutil.ToIST(row.Date).Format(timeutil.DateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, row.RefNo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, row.Description, "1", 0, "L", false, 0, "")
		debit, credit := "", ""
		if row.Debit != 0 {
			debit = formatMoney(row.Debit)
		}
		if row.Credit != 0 {
			credit = formatMoney(row.Credit)
		}
		pdf.CellFormat(widths[3], 6, debit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, credit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, formatMoney(row.Balance), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 7, "Closing Balance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 7, formatMoney(st.TotalDebit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, formatMoney(st.TotalCredit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 7, formatMoney(st.ClosingBalance), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// OutstandingCSV lists every party's receivable position.
func (s *ReportService) OutstandingCSV(ctx context.Context) ([]byte, error) {
	parties, err := s.party.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Party", "GSTIN", "Invoices", "Total", "Paid", "Outstanding", "Advance"})

	for _, p := range parties {
		result, err := s.ledger.Receivables(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("receivables for party %d: %w", p.ID, err)
		}
		sum := result.Summary
		w.Write([]string{
			p.Name,
			p.GSTIN,
			strconv.Itoa(sum.TotalInvoices),
			formatMoney(sum.TotalAmount),
			formatMoney(sum.TotalPaid),
			formatMoney(sum.TotalOutstanding),
			formatMoney(sum.Advance),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write outstanding csv: %w", err)
	}
	return buf.Bytes(), nil
}

// BulkStatementsZip renders one statement PDF per party and zips them,
// building PDFs on a small worker pool.
func (s *ReportService) BulkStatementsZip(ctx context.Context, from, to time.Time) ([]byte, error) {
	parties, err := s.party.List(ctx, "")
	if err != nil {
		return nil, err
	}

	type job struct {
		party models.Party
	}
	type rendered struct {
		name string
		data []byte
		err  error
	}

	jobs := make(chan job)
	results := make(chan rendered, len(parties))

	var wg sync.WaitGroup
	for w := 0; w < statementWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				st, err := s.ledger.Statement(ctx, j.party.ID, from, to)
				if err != nil {
					results <- rendered{err: fmt.Errorf("statement for party %d: %w", j.party.ID, err)}
					continue
				}
				data, err := s.renderStatement(&j.party, st, from, to)
				results <- rendered{
					name: fmt.Sprintf("%03d_%s.pdf", j.party.ID, sanitizeFilename(j.party.Name)),
					data: data,
					err:  err,
				}
			}
		}()
	}

	go func() {
		for _, p := range parties {
			jobs <- job{party: p}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for r := range results {
		if r.err != nil {
			zw.Close()
			return nil, r.err
		}
		f, err := zw.Create(r.name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("zip entry %s: %w", r.name, err)
		}
		if _, err := f.Write(r.data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("zip write %s: %w", r.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadExport pushes an export to object storage when configured.
// Returns the object key, or "" when storage is off.
func (s *ReportService) UploadExport(ctx context.Context, name string, data []byte, contentType string) string {
	if s.r2 == nil {
		return ""
	}
	key := fmt.Sprintf("exports/%s/%s", timeutil.Now().Format("2006-01"), name)
	stored, err := s.r2.Upload(ctx, key, data, contentType)
	if err != nil {
		log.Printf("[Report] export upload failed: %v", err)
		return ""
	}
	return stored
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "party"
	}
	return string(out)
}
