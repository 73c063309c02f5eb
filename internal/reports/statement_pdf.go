package reports

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
	"github.com/Nana-Caring/Backend--sub002/internal/money"
)

type Handler struct {
	Ledger   *ledger.Repository
	Accounts *accounts.Repository
}

func NewHandler(ledgerRepo *ledger.Repository, accountsRepo *accounts.Repository) *Handler {
	return &Handler{Ledger: ledgerRepo, Accounts: accountsRepo}
}

// StatementPDF renders every ledger entry across the caller's accounts for a
// date range as a downloadable PDF.
func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	userID, err := accounts.ExtractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}

	ctx := accounts.UserContext(c)
	entries, err := h.Ledger.HistoryForUser(ctx, userID, from, to)
	if err != nil {
		return err
	}
	userAccounts, err := h.Accounts.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	typeByAccount := make(map[string]accounts.Type, len(userAccounts))
	for _, a := range userAccounts {
		typeByAccount[a.ID] = a.Type
	}

	var totalCredits, totalDebits int64
	for _, e := range entries {
		if e.Type == ledger.Credit {
			totalCredits += e.Amount
		} else {
			totalDebits += e.Amount
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "NANA CARING")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+from+" to "+to)
	pdf.Ln(5)
	pdf.Cell(0, 6, "User: "+maskID(userID))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Credits (ZAR)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Debits (ZAR)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net (ZAR)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.CentsToRandString(totalCredits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.CentsToRandString(totalDebits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.CentsToRandString(totalCredits-totalDebits), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{20, 24, 26, 66, 28, 18}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "ACCOUNT", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[3], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[4], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[5], 8, "REF", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(30, 30, 30)
	}
	header()

	maxRows := 200
	for i, e := range entries {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "…truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}

		amount := money.CentsToRandString(e.Amount)
		if e.Type == ledger.Debit {
			amount = "-" + amount
		}

		pdf.CellFormat(colW[0], 8, strings.ToUpper(string(e.Type)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, e.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, string(typeByAccount[e.AccountID]), "1", 0, "C", false, 0, "")

		x := pdf.GetX()
		y := pdf.GetY()
		pdf.MultiCell(colW[3], 8, trimTo(e.Description, 60), "1", "L", false)
		usedH := pdf.GetY() - y
		pdf.SetXY(x+colW[3], y)

		pdf.CellFormat(colW[4], usedH, amount, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[5], usedH, shortID(e.Reference), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by Nana Caring • "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed: "+err.Error())
	}

	filename := "nana-statement-" + from + "-to-" + to + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
