package leadbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadweaver/leadweaver/internal/crawler"
)

// Company is one row from an imported company book.
type Company struct {
	Name    string
	Website string
}

// ReadCompanies loads candidate companies from the first sheet of an xlsx
// book. Column A holds the company name and column B an optional website;
// a header row is recognized and skipped.
func ReadCompanies(path string) ([]Company, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lead book: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("lead book has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var companies []Company
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if i == 0 && isHeaderCell(name) {
			continue
		}

		company := Company{Name: name}
		if len(row) > 1 {
			company.Website = strings.TrimSpace(row[1])
		}
		companies = append(companies, company)
	}

	return companies, nil
}

func isHeaderCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "company", "company name", "name", "公司", "公司名称":
		return true
	}
	return false
}

// Export column order for the ranked report sheet.
var reportHeader = []string{
	"Rank", "Company", "Website", "Score",
	"Relevance", "Credibility", "Contact", "Content", "Technical",
	"Emails", "Phones", "Description", "Error",
}

// WriteResults writes crawl results, already ranked by the caller, to an
// xlsx report.
func WriteResults(path string, results []*crawler.CrawlResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range results {
		values := []any{
			i + 1,
			r.CompanyName,
			r.Website,
			r.Score.Overall,
			r.Score.Relevance,
			r.Score.Credibility,
			r.Score.Contact,
			r.Score.Content,
			r.Score.Technical,
			strings.Join(r.ContactEmails, ", "),
			strings.Join(r.Phones, ", "),
			r.Description,
			r.Error,
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}
