package httpapi

import (
	"bytes"
	"fmt"

	"clinic-register/internal/domain"

	"github.com/xuri/excelize/v2"
)

// column one exported spreadsheet column
type column struct {
	header string
	width  float64
}

var patientColumns = []column{
	{"ID", 8},
	{"Name", 24},
	{"Age", 8},
	{"Email", 28},
	{"Phone", 18},
	{"Condition", 22},
	{"Blood Type", 12},
	{"Allergies", 22},
	{"Last Visit", 14},
	{"Created At", 20},
	{"Status", 12},
}

var appointmentColumns = []column{
	{"ID", 16},
	{"Patient ID", 12},
	{"Patient", 24},
	{"Date", 14},
	{"Time", 10},
	{"Doctor", 22},
	{"Department", 18},
	{"Status", 12},
	{"Notes", 40},
}

// GeneratePatientsExport one row per patient, insertion order
func GeneratePatientsExport(patients []domain.Patient) ([]byte, error) {
	rows := make([][]any, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []any{
			p.ID, p.Name, p.Age, p.Email, p.Phone, p.Condition,
			p.BloodType, p.Allergies, p.LastVisit,
			p.CreatedAt.Format("2006-01-02 15:04"), string(p.Status),
		})
	}
	return generateSheet("Patients", patientColumns, rows)
}

// GenerateAppointmentsExport one row per appointment, insertion order
func GenerateAppointmentsExport(appointments []domain.Appointment) ([]byte, error) {
	rows := make([][]any, 0, len(appointments))
	for _, a := range appointments {
		rows = append(rows, []any{
			a.ID, a.PatientID, a.PatientName, a.Date, a.Time,
			a.Doctor, a.Department, string(a.Status), a.Notes,
		})
	}
	return generateSheet("Appointments", appointmentColumns, rows)
}

func generateSheet(sheetName string, columns []column, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// not deferring Close: WriteTo needs the file open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0F2F1"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, c.header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, c.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, values := range rows {
		for c, v := range values {
			if v == nil || v == "" {
				continue
			}
			if err := setCellValue(f, sheetName, c+1, r+2, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", r+2, c+1, err)
			}
		}
	}

	// freeze header row
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
