package offboarding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GenerateClearanceCertificate renders a PDF certificate for a fully
// cleared checklist and returns the file path.
func (s *Service) GenerateClearanceCertificate(ctx context.Context, checklistID, outputDir string) (string, error) {
	checklist, err := s.Checklist(ctx, checklistID)
	if err != nil {
		return "", err
	}
	if checklist.OverallStatus != OverallFullyCleared {
		return "", ErrNotFullyCleared
	}

	req, err := s.Store.RequestByID(ctx, checklist.TerminationRequestID)
	if err != nil {
		return "", err
	}
	employeeName, err := s.Store.EmployeeName(ctx, req.EmployeeID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(outputDir, checklistID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Clearance Certificate")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Termination date: %s", req.TerminationDate.Format("2006-01-02")))
	pdf.Ln(10)
	for _, item := range checklist.Clearances {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %s", item.Department, item.Status))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Equipment returned: %d of %d", returnedCount(checklist.Equipment), len(checklist.Equipment)))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Access card returned: yes")
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", time.Now().UTC().Format("2006-01-02")))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func returnedCount(items []EquipmentItem) int {
	count := 0
	for _, item := range items {
		if item.Returned {
			count++
		}
	}
	return count
}
