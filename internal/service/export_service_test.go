package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/export"
	"github.com/noah-isme/timetable-editor/pkg/storage"
)

type tableCapture struct {
	table export.Table
}

func (c *tableCapture) Render(table export.Table) ([]byte, error) {
	c.table = table
	return []byte("ok"), nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *ScheduleStore, *storage.LocalStorage) {
	t.Helper()
	store := newStoreForTest(t, newMemoryStateRepo())
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(store, files, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) }
	return svc, store, files
}

func TestExportServiceCSVListsCoursesByDay(t *testing.T) {
	svc, store, _ := newExportServiceForTest(t)
	ctx := context.Background()
	_, err := store.AddCourse(ctx, lectureInput("Late", "13:00", "14:30", 0))
	require.NoError(t, err)
	_, err = store.AddCourse(ctx, lectureInput("Early", "09:00", "10:30", 0))
	require.NoError(t, err)
	_, err = store.AddCourse(ctx, lectureInput("Tuesday", "09:00", "10:30", 1))
	require.NoError(t, err)

	result, err := svc.Render(ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "main_schedule_20240304_100000.csv", result.Filename)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Early", records[1][3])
	assert.Equal(t, "Late", records[2][3])
	assert.Equal(t, "Tuesday", records[3][0])
}

func TestExportServicePDFDrawsGrid(t *testing.T) {
	store := newStoreForTest(t, newMemoryStateRepo())
	_, err := store.AddCourse(context.Background(), lectureInput("Math", "11:00", "12:30", 2))
	require.NoError(t, err)
	capture := &tableCapture{}
	svc := NewExportService(store, nil, nil, nil, capture)

	result, err := svc.Render(ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)

	layout := store.Layout()
	require.Len(t, capture.table.Headers, len(layout.Days)+1)
	require.Len(t, capture.table.Rows, len(layout.Slots))
	assert.Equal(t, "11:00-12:30", capture.table.Rows[1][0])
	assert.True(t, strings.HasPrefix(capture.table.Rows[1][3], "Math (lecture)"))
	assert.Empty(t, capture.table.Rows[0][3])
}

func TestExportServiceXLSXCarriesGridAndCourses(t *testing.T) {
	svc, store, _ := newExportServiceForTest(t)
	_, err := store.AddCourse(context.Background(), lectureInput("Math", "09:00", "10:30", 0))
	require.NoError(t, err)

	result, err := svc.Render(ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "main_schedule_20240304_100000.xlsx", result.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer book.Close() //nolint:errcheck
	assert.Equal(t, []string{"Grid", "Courses"}, book.GetSheetList())

	title, err := book.GetCellValue("Courses", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Math", title)
	cell, err := book.GetCellValue("Grid", "B2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cell, "Math (lecture)"))
}

func TestExportServiceArchiveWritesFile(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t)

	path, err := svc.Archive(ExportFormatPDF)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	bare := NewExportService(newStoreForTest(t, newMemoryStateRepo()), nil, nil, nil, nil)
	_, err = bare.Archive(ExportFormatCSV)
	assert.Error(t, err)
}

func TestSanitizeFilenameKeepsCharactersWhole(t *testing.T) {
	name := sanitizeFilename("a" + strings.Repeat("Расписание ", 10))
	assert.True(t, utf8.ValidString(name), "%q", name)
	assert.LessOrEqual(t, len(name), maxFilenameBytes)
	assert.True(t, strings.HasPrefix(name, "a"+"расписание_"))

	ascii := sanitizeFilename(strings.Repeat("x", 150))
	assert.Len(t, ascii, maxFilenameBytes)
	assert.Equal(t, "timetable", sanitizeFilename("   "))
	assert.Equal(t, "week_a-b", sanitizeFilename(" Week A/B "))
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, format)

	format, err = ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatXLSX, format)

	_, err = ParseExportFormat("docx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
