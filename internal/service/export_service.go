package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/models"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/export"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// maxFilenameBytes bounds the template part of export file names.
const maxFilenameBytes = 100

type timetableSource interface {
	ActiveTemplate() models.ScheduleTemplate
	Layout() models.Layout
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(relPath string) string
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type xlsxRenderer interface {
	Render(tables ...export.Table) ([]byte, error)
}

// ExportResult is a rendered timetable document.
type ExportResult struct {
	Filename    string
	ContentType string
	Format      ExportFormat
	Data        []byte
}

// ExportService renders the active template for printing and sharing. CSV
// lists every course of the template, PDF draws the weekly grid and XLSX
// carries both on separate sheets.
type ExportService struct {
	source  timetableSource
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. storage may be nil when
// documents are only streamed.
func NewExportService(source timetableSource, storage fileStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source:  source,
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		xlsx:    export.NewXLSXExporter(),
		logger:  logger,
		now:     time.Now,
	}
}

// ParseExportFormat accepts "csv", "pdf" or "xlsx" in any case; blank means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// Render produces the document for the active template.
func (s *ExportService) Render(format ExportFormat) (*ExportResult, error) {
	tpl := s.source.ActiveTemplate()
	layout := s.source.Layout()

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(courseTable(tpl, layout))
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(gridTable(tpl, layout))
		contentType = "application/pdf"
	case ExportFormatXLSX:
		grid := gridTable(tpl, layout)
		grid.Title = "Grid"
		courses := courseTable(tpl, layout)
		courses.Title = "Courses"
		payload, err = s.xlsx.Render(grid, courses)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	return &ExportResult{
		Filename:    s.buildFilename(tpl, format),
		ContentType: contentType,
		Format:      format,
		Data:        payload,
	}, nil
}

// Archive renders the document and writes it to file storage, returning the
// absolute path of the written file.
func (s *ExportService) Archive(format ExportFormat) (string, error) {
	if s.storage == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "export storage is not configured")
	}
	result, err := s.Render(format)
	if err != nil {
		return "", err
	}
	rel, err := s.storage.Save(result.Filename, result.Data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write export")
	}
	path := s.storage.Path(rel)
	s.logger.Info("timetable exported", zap.String("format", string(format)), zap.String("path", path))
	return path, nil
}

func courseTable(tpl models.ScheduleTemplate, layout models.Layout) export.Table {
	table := export.Table{
		Title:   tpl.Name,
		Headers: []string{"Day", "Start", "End", "Title", "Type", "Location", "Professor"},
	}
	for day := range layout.Days {
		for _, course := range models.CoursesForDay(tpl.Courses, day) {
			table.Rows = append(table.Rows, []string{
				layout.Days[day],
				course.StartTime,
				course.EndTime,
				course.Title,
				string(course.Type),
				course.Location,
				course.Professor,
			})
		}
	}
	return table
}

func gridTable(tpl models.ScheduleTemplate, layout models.Layout) export.Table {
	headers := append([]string{"Time"}, layout.Days...)
	table := export.Table{Title: tpl.Name, Headers: headers}
	for _, slot := range layout.Slots {
		row := make([]string, 0, len(headers))
		row = append(row, slot.StartTime+"-"+slot.EndTime)
		for day := range layout.Days {
			var lines []string
			for _, course := range models.CoursesForSlot(tpl.Courses, slot, day) {
				lines = append(lines, fmt.Sprintf("%s (%s)", course.Title, course.Type), course.Location)
				if course.Professor != "" {
					lines = append(lines, course.Professor)
				}
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (s *ExportService) buildFilename(tpl models.ScheduleTemplate, format ExportFormat) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(tpl.Name), timestamp, format)
}

func sanitizeFilename(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "timetable"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) <= maxFilenameBytes {
		return result
	}
	cut := maxFilenameBytes
	for cut > 0 && !utf8.RuneStart(result[cut]) {
		cut--
	}
	return result[:cut]
}
