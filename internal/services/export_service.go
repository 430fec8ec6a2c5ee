package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

// ExportFile is a generated download: the suggested filename plus the
// raw bytes.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACE =====

type ExportService interface {
	// ClassReportCSV builds the per-student report for a subject:
	// averages, absences, lates and the most recent grade date.
	ClassReportCSV(ctx context.Context, subjectID string) (*ExportFile, error)
	ClassReportXLSX(ctx context.Context, subjectID string) (*ExportFile, error)

	// UsersCSV exports the user directory, optionally filtered by role.
	UsersCSV(ctx context.Context, role *models.UserRole) (*ExportFile, error)
}

// ===== SERVICE IMPLEMENTATION =====

type exportService struct {
	repo      repositories.Repository
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewExportService(repo repositories.Repository, analytics AnalyticsService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:      repo,
		analytics: analytics,
		logger:    logger,
	}
}

type classReportRow struct {
	StudentID     string
	Name          string
	Email         string
	GradeLevel    int
	AverageScore  string
	Absences      int
	Lates         int
	LastGradeDate string
}

var classReportHeaders = []string{
	"studentId", "name", "email", "gradeLevel", "averageScore", "absences", "lates", "lastGradeDate",
}

func (s *exportService) classReport(ctx context.Context, subjectID string) (*models.Subject, []classReportRow, error) {
	subject, err := s.repo.Subject().GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: subject %s", ErrNotFound, subjectID)
		}
		return nil, nil, fmt.Errorf("failed to get subject: %w", err)
	}

	students, err := s.analytics.EnrolledStudents(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]classReportRow, 0, len(students))
	for _, student := range students {
		average, err := s.analytics.StudentAverage(ctx, student.ID, subjectID)
		if err != nil {
			return nil, nil, err
		}

		grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{StudentID: student.ID, SubjectID: subjectID})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list grades: %w", err)
		}
		lastGradeDate := "N/A"
		if len(grades) > 0 {
			lastGradeDate = grades[len(grades)-1].Date
		}

		attendance, err := s.repo.Attendance().ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list attendance: %w", err)
		}
		absences, lates := 0, 0
		for _, record := range attendance {
			if record.SubjectID != subjectID {
				continue
			}
			switch record.Status {
			case models.AttendanceAbsent:
				absences++
			case models.AttendanceLate:
				lates++
			}
		}

		rows = append(rows, classReportRow{
			StudentID:     student.ID,
			Name:          student.Name,
			Email:         student.Email,
			GradeLevel:    student.GradeLevel,
			AverageScore:  fmt.Sprintf("%d%%", average),
			Absences:      absences,
			Lates:         lates,
			LastGradeDate: lastGradeDate,
		})
	}
	return subject, rows, nil
}

func (s *exportService) ClassReportCSV(ctx context.Context, subjectID string) (*ExportFile, error) {
	subject, rows, err := s.classReport(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, classReportCells(row))
	}

	s.logger.Info("Generated class report CSV", "subject_id", subjectID, "rows", len(rows))
	return &ExportFile{
		Filename:    exportFilename(subject.Name+"_Report", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(buildCSV(classReportHeaders, cells)),
	}, nil
}

func (s *exportService) ClassReportXLSX(ctx context.Context, subjectID string) (*ExportFile, error) {
	subject, rows, err := s.classReport(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range classReportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, formatHeader(header)); err != nil {
			return nil, fmt.Errorf("failed to set header cell: %w", err)
		}
	}
	for i, row := range rows {
		for col, value := range classReportCells(row) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Generated class report XLSX", "subject_id", subjectID, "rows", len(rows))
	return &ExportFile{
		Filename:    exportFilename(subject.Name+"_Report", "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func classReportCells(row classReportRow) []string {
	return []string{
		row.StudentID,
		row.Name,
		row.Email,
		strconv.Itoa(row.GradeLevel),
		row.AverageScore,
		strconv.Itoa(row.Absences),
		strconv.Itoa(row.Lates),
		row.LastGradeDate,
	}
}

func (s *exportService) UsersCSV(ctx context.Context, role *models.UserRole) (*ExportFile, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	headers := []string{"id", "name", "email", "role", "status"}
	cells := make([][]string, 0, len(users))
	for _, user := range users {
		cells = append(cells, []string{user.ID, user.Name, user.Email, string(user.Role), "Active"})
	}

	s.logger.Info("Generated users CSV", "rows", len(cells))
	return &ExportFile{
		Filename:    exportFilename("School_Users_Export", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(buildCSV(headers, cells)),
	}, nil
}

// ===== CSV BUILDING =====

// buildCSV renders rows with minimal quoting: a field is quoted only
// when it contains a comma, quote or newline, with embedded quotes
// doubled. Rows join with a bare \n. This matches the download format
// spreadsheet users already get from the web client; encoding/csv
// additionally quotes leading-space fields and emits \r\n, which would
// change existing files byte for byte.
func buildCSV(headers []string, rows [][]string) string {
	var b strings.Builder

	formatted := make([]string, len(headers))
	for i, header := range headers {
		formatted[i] = csvField(formatHeader(header))
	}
	b.WriteString(strings.Join(formatted, ","))

	for _, row := range rows {
		b.WriteByte('\n')
		fields := make([]string, len(row))
		for i, value := range row {
			fields[i] = csvField(value)
		}
		b.WriteString(strings.Join(fields, ","))
	}
	return b.String()
}

func csvField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// formatHeader converts a camelCase column key to Title Case, e.g.
// "lastGradeDate" becomes "Last Grade Date".
func formatHeader(header string) string {
	var b strings.Builder
	for i, r := range header {
		if i == 0 {
			b.WriteRune(toUpper(r))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func exportFilename(base, ext string) string {
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s_%s.%s", base, time.Now().UTC().Format("2006-01-02"), ext)
}
