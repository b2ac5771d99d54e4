package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/entities"
)

// TransactionLister provides the full ledger for reporting.
type TransactionLister interface {
	All() ([]entities.Transaction, error)
}

// ArchiveStore reads the records retained from deleted books and members.
type ArchiveStore interface {
	List() ([]entities.ArchivedTransaction, error)
}

type ReportsController struct {
	ledger  TransactionLister
	archive ArchiveStore
}

func NewReportsController(ledger TransactionLister, archive ArchiveStore) *ReportsController {
	return &ReportsController{ledger: ledger, archive: archive}
}

const reportDateLayout = "2006-01-02"

var reportHeader = []string{
	"id", "member_id", "book_id", "borrow_date", "return_date",
	"status", "created_at", "updated_at", "max_borrow", "report_section",
}

// TransactionsReport streams the full ledger as a CSV attachment, grouped
// into ACTIVE (open, within the loan window), OVERDUE (open past
// max_borrow) and COMPLETED sections, in that order.
// PUT /api/transactions/:id
func (ctrl *ReportsController) TransactionsReport(c *gin.Context) {
	all, err := ctrl.ledger.All()
	if err != nil {
		respondInternalError(c, err, "load transactions for report")
		return
	}

	now := time.Now()
	var active, overdue, completed []entities.Transaction
	for _, t := range all {
		switch {
		case t.ReturnDate != nil:
			completed = append(completed, t)
		case now.After(t.MaxBorrow):
			overdue = append(overdue, t)
		default:
			active = append(active, t)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		respondInternalError(c, err, "write report header")
		return
	}
	for _, section := range []struct {
		label string
		rows  []entities.Transaction
	}{
		{"ACTIVE", active},
		{"OVERDUE", overdue},
		{"COMPLETED", completed},
	} {
		for _, t := range section.rows {
			if err := w.Write(reportRow(t, section.label)); err != nil {
				respondInternalError(c, err, "write report row")
				return
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		respondInternalError(c, err, "flush report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions_report.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// DeletedRecords returns the archived transactions of deleted books and
// members. The archive is append-only; this is the audit view of it.
// GET /api/deletedRecords
func (ctrl *ReportsController) DeletedRecords(c *gin.Context) {
	records, err := ctrl.archive.List()
	if err != nil {
		respondInternalError(c, err, "list deleted records")
		return
	}
	c.JSON(http.StatusOK, records)
}

func reportRow(t entities.Transaction, section string) []string {
	returnDate := ""
	if t.ReturnDate != nil {
		returnDate = t.ReturnDate.Format(reportDateLayout)
	}
	return []string{
		fmt.Sprintf("%d", t.ID),
		fmt.Sprintf("%d", t.MemberID),
		fmt.Sprintf("%d", t.BookID),
		t.BorrowDate.Format(reportDateLayout),
		returnDate,
		string(t.Status),
		t.CreatedAt.Format(reportDateLayout),
		t.UpdatedAt.Format(reportDateLayout),
		t.MaxBorrow.Format(reportDateLayout),
		section,
	}
}
