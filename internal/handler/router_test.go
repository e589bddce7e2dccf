package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/internal/repository"
	"github.com/noah-isme/timetable-editor/internal/service"
	"github.com/noah-isme/timetable-editor/pkg/storage"
)

type testApp struct {
	router  *gin.Engine
	store   *service.ScheduleStore
	notices *service.NoticeService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := repository.NewFileStateRepository(files)
	store := service.NewScheduleStore(repo, service.NewValidator(), service.StoreConfig{
		Key:    "timetable-state",
		Layout: models.DefaultLayout(),
	}, zap.NewNop(), nil)
	store.Initialize(context.Background())

	notices := service.NewNoticeService(time.Minute, zap.NewNop())
	t.Cleanup(notices.Close)
	store.Subscribe(notices.HandleSave)

	presenter := service.NewGridPresenter(store, store.Layout(), zap.NewNop())
	exports := service.NewExportService(store, nil, zap.NewNop(), nil, nil)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Templates: NewTemplateHandler(store),
		Courses:   NewCourseHandler(store),
		Grid:      NewGridHandler(presenter),
		Notices:   NewNoticeHandler(notices),
		Export:    NewExportHandler(exports),
	})
	return &testApp{router: router, store: store, notices: notices}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestRouterClickSubmitAndDropFlow(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/grid/cells/1/1/click", "")
	require.Equal(t, http.StatusOK, w.Code)
	var form dto.FormState
	decodeData(t, w, &form)
	require.Equal(t, dto.FormModeAdd, form.Mode)
	assert.Equal(t, "09:00", form.Draft.StartTime)

	w = app.do(t, http.MethodPost, "/api/v1/grid/form/submit", `{"title":"Math","type":"lecture","startTime":"09:00","endTime":"10:30","location":"Room 1","dayOfWeek":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created models.Course
	decodeData(t, w, &created)
	require.NotEmpty(t, created.ID)

	w = app.do(t, http.MethodPost, "/api/v1/grid/courses/"+created.ID+"/drop", `{"slotId":"2","dayOfWeek":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/grid/slots/2/days/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cell []models.Course
	decodeData(t, w, &cell)
	require.Len(t, cell, 1)
	assert.Equal(t, created.ID, cell[0].ID)
	assert.Equal(t, "12:30", cell[0].EndTime)

	w = app.do(t, http.MethodGet, "/api/v1/grid/slots/1/days/1", "")
	decodeData(t, w, &cell)
	assert.Empty(t, cell)

	w = app.do(t, http.MethodGet, "/api/v1/notices", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.NoticeKindSaved))
}

func TestRouterEditAndDeleteThroughForm(t *testing.T) {
	app := newTestApp(t)
	course, err := app.store.AddCourse(context.Background(), dto.CourseInput{
		Title: "Lab", Type: models.CourseTypeLab, StartTime: "13:00", EndTime: "14:30", Location: "L2", DayOfWeek: 4,
	})
	require.NoError(t, err)

	w := app.do(t, http.MethodPost, "/api/v1/grid/courses/"+course.ID+"/click", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"edit"`)

	w = app.do(t, http.MethodPost, "/api/v1/grid/form/delete", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, app.store.ActiveTemplate().Courses)

	w = app.do(t, http.MethodPost, "/api/v1/grid/form/delete", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterRejectsBadCellParams(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/grid/slots/1/days/monday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/grid/cells/42/0/click", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterTemplatesAndExport(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/templates", `{"name":"Week B"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var tpl models.ScheduleTemplate
	decodeData(t, w, &tpl)

	w = app.do(t, http.MethodGet, "/api/v1/grid", "")
	var view dto.GridView
	decodeData(t, w, &view)
	assert.Equal(t, tpl.ID, view.TemplateID)
	assert.Len(t, view.Rows, 6)

	w = app.do(t, http.MethodDelete, "/api/v1/templates/"+models.DefaultTemplateID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodDelete, "/api/v1/templates/"+tpl.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var state models.State
	decodeData(t, w, &state)
	assert.Len(t, state.Templates, 1, "last template is kept")

	w = app.do(t, http.MethodGet, "/api/v1/export?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "week_b_")

	w = app.do(t, http.MethodGet, "/api/v1/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = app.do(t, http.MethodGet, "/api/v1/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterNoticeAcknowledge(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/notices", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	app.notices.HandleSave(models.SaveEvent{Err: errors.New("disk full")})
	w = app.do(t, http.MethodGet, "/api/v1/notices", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.NoticeKindAlert))

	w = app.do(t, http.MethodDelete, "/api/v1/notices", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, visible := app.notices.Current()
	assert.False(t, visible)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	failing := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"storage": func(context.Context) error { return errors.New("down") },
	})
	router.GET("/ready", failing.Ready)
	router.GET("/health", failing.Health)
	router.GET("/metrics", failing.Prometheus)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "down")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timetable_templates")
}
