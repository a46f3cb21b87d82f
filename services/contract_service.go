package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental-backend/models"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// ContractService renders the printable rental contract from the same view
// model the rental detail screen uses.
type ContractService struct {
	DB *gorm.DB

	rentals *RentalService
}

func NewContractService(db *gorm.DB, rentals *RentalService) *ContractService {
	return &ContractService{DB: db, rentals: rentals}
}

// ContractFilename builds the download name for a rental contract.
func ContractFilename(vehicleNo string, rentalID uint) string {
	return fmt.Sprintf("Rental-Contract-%s-%d.pdf", vehicleNo, rentalID)
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

// loadCompany fetches the letterhead settings. A missing row is fine, the
// header just prints blank; any other error is a real failure.
func (s *ContractService) loadCompany() (models.CompanySetting, error) {
	var company models.CompanySetting
	if err := s.DB.First(&company).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CompanySetting{}, fmt.Errorf("failed to load company settings: %w", err)
	}
	return company, nil
}

type extraItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// formatExtraItems turns the rental's ad-hoc line items into printable lines.
// Malformed payloads render nothing rather than failing the whole contract.
func formatExtraItems(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []extraItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		line := it.Name
		if it.Quantity > 1 {
			line = fmt.Sprintf("%s x%d", it.Name, it.Quantity)
		}
		lines = append(lines, line)
	}
	return lines
}

// Render produces the contract PDF bytes and its download filename.
func (s *ContractService) Render(rentalID uint) ([]byte, string, error) {
	view, err := s.rentals.Get(rentalID)
	if err != nil {
		return nil, "", err
	}

	company, err := s.loadCompany()
	if err != nil {
		return nil, "", err
	}

	rental := view.Rental

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Rental Contract", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Vehicle Rental Contract"
	if company.Name != "" {
		title = company.Name + " - Vehicle Rental Contract"
	}
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if company.Address != "" {
		pdf.CellFormat(0, 5, company.Address, "", 1, "C", false, 0, "")
	}
	if company.Phone != "" {
		pdf.CellFormat(0, 5, "Tel: "+company.Phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 7, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "1", 1, "L", false, 0, "")
	}

	row("Contract No.", rental.ReferenceCode)
	row("Vehicle No.", view.VehicleNo)
	row("Customer", view.CustomerName)
	row("Nationality", rental.Customer.Nationality)
	row("Passport No.", rental.Customer.PassportNumber)
	row("Contact", view.PrimaryContact)
	row("Start Date", fmtDate(rental.StartDate))
	row("End Date", fmtDate(rental.EndDate))
	row("Period (days)", fmt.Sprintf("%d", rental.PeriodDays))
	row("Total Cost", fmt.Sprintf("%.2f", rental.TotalCost))
	row("Staff In Charge", view.Incharger)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Deposits Held", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(rental.Deposits) == 0 {
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
	}
	for _, d := range rental.Deposits {
		line := d.DepositValue
		if d.DepositType.Name != "" {
			line = d.DepositType.Name + ": " + line
		}
		if d.RegisteredNumber != "" {
			line += " (" + d.RegisteredNumber + ")"
		}
		pdf.CellFormat(0, 6, "- "+line, "", 1, "L", false, 0, "")
	}

	if lines := formatExtraItems(rental.ExtraItems); len(lines) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Extra Items", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range lines {
			pdf.CellFormat(0, 6, "- "+line, "", 1, "L", false, 0, "")
		}
	}

	if rental.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, rental.Notes, "", "L", false)
	}

	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 7, "Customer signature: ______________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Staff signature: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render contract pdf: %w", err)
	}
	return buf.Bytes(), ContractFilename(view.VehicleNo, rental.ID), nil
}
