package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

type stateRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// StoreConfig names the storage keys and the grid the store validates against.
type StoreConfig struct {
	Key       string
	LegacyKey string
	Layout    models.Layout
}

// ScheduleStore owns every template and the active template pointer. Each
// successful mutation is written to the state repository before the call
// returns and announced to subscribers as a models.SaveEvent.
type ScheduleStore struct {
	repo      stateRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       StoreConfig
	newID     func() string
	now       func() time.Time

	mu          sync.RWMutex
	state       models.State
	subMu       sync.RWMutex
	subscribers []func(models.SaveEvent)
}

// NewScheduleStore constructs a store holding the default state until Initialize runs.
func NewScheduleStore(repo stateRepository, validate *validator.Validate, cfg StoreConfig, logger *zap.Logger, metrics *MetricsService) *ScheduleStore {
	if validate == nil {
		validate = validator.New()
	}
	mustRegisterCourseRules(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Layout.Days) == 0 {
		cfg.Layout = models.DefaultLayout()
	}
	return &ScheduleStore{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		newID:     uuid.NewString,
		now:       time.Now,
		state:     models.NewDefaultState(),
	}
}

// Subscribe registers fn for every save attempt, successful or not. fn runs
// synchronously on the mutating goroutine after the store lock is released,
// so events of concurrent mutations may arrive in a different order than
// their writes reached storage.
func (s *ScheduleStore) Subscribe(fn func(models.SaveEvent)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

// Layout returns the grid the store validates day indexes against.
func (s *ScheduleStore) Layout() models.Layout {
	return s.cfg.Layout
}

// Initialize loads persisted state. Missing or corrupt data falls back to a
// single empty default template; the failure is logged and never returned.
func (s *ScheduleStore) Initialize(ctx context.Context) {
	state, source := s.load(ctx)
	state = s.normalize(state)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.metrics.SetStateSize(len(state.Templates), state.CourseCount())
	s.logger.Info("schedule store initialised",
		zap.String("source", source),
		zap.Int("templates", len(state.Templates)),
		zap.String("current_template_id", state.CurrentTemplateID))
}

func (s *ScheduleStore) load(ctx context.Context) (models.State, string) {
	raw, err := s.repo.Get(ctx, s.cfg.Key)
	switch {
	case err == nil:
		var state models.State
		if err := json.Unmarshal(raw, &state); err != nil {
			s.logger.Warn("stored timetable unreadable, starting from default template", zap.String("key", s.cfg.Key), zap.Error(err))
			return models.NewDefaultState(), "default"
		}
		return state, "primary"
	case !errors.Is(err, appErrors.ErrStateNotFound):
		s.logger.Warn("failed to read stored timetable, starting from default template", zap.String("key", s.cfg.Key), zap.Error(err))
		return models.NewDefaultState(), "default"
	}

	if s.cfg.LegacyKey == "" {
		return models.NewDefaultState(), "default"
	}
	raw, err = s.repo.Get(ctx, s.cfg.LegacyKey)
	if err != nil {
		if !errors.Is(err, appErrors.ErrStateNotFound) {
			s.logger.Warn("failed to read legacy timetable", zap.String("key", s.cfg.LegacyKey), zap.Error(err))
		}
		return models.NewDefaultState(), "default"
	}
	templates, err := decodeLegacyTemplates(raw)
	if err != nil {
		s.logger.Warn("legacy timetable unreadable, starting from default template", zap.String("key", s.cfg.LegacyKey), zap.Error(err))
		return models.NewDefaultState(), "default"
	}
	return models.State{Templates: templates}, "legacy"
}

// decodeLegacyTemplates accepts the bare templates array as well as an
// object carrying only a templates field.
func decodeLegacyTemplates(raw []byte) ([]models.ScheduleTemplate, error) {
	trimmed := bytes.TrimSpace(raw)
	var templates []models.ScheduleTemplate
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &templates); err != nil {
			return nil, err
		}
		return templates, nil
	}
	var wrapper struct {
		Templates []models.ScheduleTemplate `json:"templates"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Templates, nil
}

// normalize repairs loaded state so the store invariants hold: at least one
// template, unique template and course ids, and a valid active pointer.
func (s *ScheduleStore) normalize(state models.State) models.State {
	if len(state.Templates) == 0 {
		return models.NewDefaultState()
	}
	seenTemplates := make(map[string]struct{}, len(state.Templates))
	for i := range state.Templates {
		tpl := &state.Templates[i]
		if _, dup := seenTemplates[tpl.ID]; tpl.ID == "" || dup {
			tpl.ID = s.newID()
		}
		seenTemplates[tpl.ID] = struct{}{}
		if strings.TrimSpace(tpl.Name) == "" {
			tpl.Name = fmt.Sprintf("Schedule %d", i+1)
		}
		if tpl.Courses == nil {
			tpl.Courses = []models.Course{}
		}
		seenCourses := make(map[string]struct{}, len(tpl.Courses))
		for j := range tpl.Courses {
			course := &tpl.Courses[j]
			if _, dup := seenCourses[course.ID]; course.ID == "" || dup {
				course.ID = s.newID()
			}
			seenCourses[course.ID] = struct{}{}
			if !s.cfg.Layout.ValidDay(course.DayOfWeek) {
				s.logger.Warn("stored course is outside the grid days",
					zap.String("template_id", tpl.ID),
					zap.String("course_id", course.ID),
					zap.Int("day_of_week", course.DayOfWeek),
					zap.Int("grid_days", len(s.cfg.Layout.Days)))
			}
		}
	}
	if state.FindTemplate(state.CurrentTemplateID) < 0 {
		state.CurrentTemplateID = state.Templates[0].ID
	}
	return state
}

// Snapshot returns a deep copy of the whole state.
func (s *ScheduleStore) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ListTemplates returns every template in order.
func (s *ScheduleStore) ListTemplates() []models.ScheduleTemplate {
	return s.Snapshot().Templates
}

// ActiveTemplate returns a copy of the currently selected template.
func (s *ScheduleStore) ActiveTemplate() models.ScheduleTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Templates[s.activeIndex()].Clone()
}

// Course returns a course of the active template.
func (s *ScheduleStore) Course(id string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl := s.state.Templates[s.activeIndex()]
	idx := tpl.FindCourse(id)
	if idx < 0 {
		return models.Course{}, false
	}
	return tpl.Courses[idx], true
}

// SelectTemplate activates a template; unknown ids are ignored.
func (s *ScheduleStore) SelectTemplate(ctx context.Context, id string) error {
	return s.mutate(ctx, func(state *models.State) (bool, error) {
		if state.FindTemplate(id) < 0 || state.CurrentTemplateID == id {
			return false, nil
		}
		state.CurrentTemplateID = id
		return true, nil
	})
}

// CreateTemplate appends an empty template and makes it active.
func (s *ScheduleStore) CreateTemplate(ctx context.Context, name string) (models.ScheduleTemplate, error) {
	var created models.ScheduleTemplate
	err := s.mutate(ctx, func(state *models.State) (bool, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Schedule %d", len(state.Templates)+1)
		}
		created = models.ScheduleTemplate{ID: s.newID(), Name: name, Courses: []models.Course{}}
		state.Templates = append(state.Templates, created)
		state.CurrentTemplateID = created.ID
		return true, nil
	})
	return created.Clone(), err
}

// RenameTemplate changes a template's name; blank names and unknown ids are ignored.
func (s *ScheduleStore) RenameTemplate(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.mutate(ctx, func(state *models.State) (bool, error) {
		idx := state.FindTemplate(id)
		if idx < 0 || state.Templates[idx].Name == name {
			return false, nil
		}
		state.Templates[idx].Name = name
		return true, nil
	})
}

// DeleteTemplate removes a template unless it is the last one. Deleting the
// active template activates the first remaining one.
func (s *ScheduleStore) DeleteTemplate(ctx context.Context, id string) error {
	return s.mutate(ctx, func(state *models.State) (bool, error) {
		if len(state.Templates) <= 1 {
			return false, nil
		}
		idx := state.FindTemplate(id)
		if idx < 0 {
			return false, nil
		}
		state.Templates = append(state.Templates[:idx], state.Templates[idx+1:]...)
		if state.CurrentTemplateID == id {
			state.CurrentTemplateID = state.Templates[0].ID
		}
		return true, nil
	})
}

// AddCourse validates input and appends it with a fresh id to the active template.
func (s *ScheduleStore) AddCourse(ctx context.Context, input dto.CourseInput) (models.Course, error) {
	course, err := s.courseFromInput(input)
	if err != nil {
		return models.Course{}, err
	}
	err = s.mutate(ctx, func(state *models.State) (bool, error) {
		course.ID = s.newID()
		tpl := &state.Templates[activeIndexOf(state)]
		tpl.Courses = append(tpl.Courses, course)
		return true, nil
	})
	return course, err
}

// UpdateCourse replaces the fields of an existing course, keeping its id.
// An unknown id is reported as NOT_FOUND; nothing is appended.
func (s *ScheduleStore) UpdateCourse(ctx context.Context, id string, input dto.CourseInput) (models.Course, error) {
	course, err := s.courseFromInput(input)
	if err != nil {
		return models.Course{}, err
	}
	course.ID = id
	err = s.mutate(ctx, func(state *models.State) (bool, error) {
		tpl := &state.Templates[activeIndexOf(state)]
		idx := tpl.FindCourse(id)
		if idx < 0 {
			return false, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		tpl.Courses[idx] = course
		return true, nil
	})
	if err != nil && !isPersistError(err) {
		return models.Course{}, err
	}
	return course, err
}

// DeleteCourse removes a course from the active template; unknown ids are ignored.
func (s *ScheduleStore) DeleteCourse(ctx context.Context, id string) error {
	return s.mutate(ctx, func(state *models.State) (bool, error) {
		tpl := &state.Templates[activeIndexOf(state)]
		idx := tpl.FindCourse(id)
		if idx < 0 {
			return false, nil
		}
		tpl.Courses = append(tpl.Courses[:idx], tpl.Courses[idx+1:]...)
		return true, nil
	})
}

// MoveCourse changes only the time and day of a course. Both the explicit
// move and the grid drop go through here. Unknown ids are ignored.
func (s *ScheduleStore) MoveCourse(ctx context.Context, id string, req dto.MoveCourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	if !s.cfg.Layout.ValidDay(req.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek must be between 0 and %d", len(s.cfg.Layout.Days)-1))
	}
	return s.mutate(ctx, func(state *models.State) (bool, error) {
		tpl := &state.Templates[activeIndexOf(state)]
		idx := tpl.FindCourse(id)
		if idx < 0 {
			return false, nil
		}
		course := &tpl.Courses[idx]
		course.StartTime = req.StartTime
		course.EndTime = req.EndTime
		course.DayOfWeek = req.DayOfWeek
		return true, nil
	})
}

// Save writes the current state without changing it.
func (s *ScheduleStore) Save(ctx context.Context) error {
	return s.mutate(ctx, func(*models.State) (bool, error) { return true, nil })
}

func (s *ScheduleStore) courseFromInput(input dto.CourseInput) (models.Course, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	input.Professor = strings.TrimSpace(input.Professor)
	if err := s.validator.Struct(input); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !s.cfg.Layout.ValidDay(input.DayOfWeek) {
		return models.Course{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek must be between 0 and %d", len(s.cfg.Layout.Days)-1))
	}
	return models.Course{
		Title:     input.Title,
		Type:      input.Type,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Location:  input.Location,
		DayOfWeek: input.DayOfWeek,
		Professor: input.Professor,
	}, nil
}

// mutate applies fn under the write lock and, when it reports a change,
// persists the whole state. The in-memory change stays even if the write
// fails; the caller receives a PERSIST_FAILED error in that case.
func (s *ScheduleStore) mutate(ctx context.Context, fn func(state *models.State) (bool, error)) error {
	s.mu.Lock()
	changed, err := fn(&s.state)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	event := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(event)
	if event.Err != nil {
		return appErrors.Wrap(event.Err, appErrors.ErrPersist.Code, appErrors.ErrPersist.Status, appErrors.ErrPersist.Message)
	}
	return nil
}

func (s *ScheduleStore) persistLocked(ctx context.Context) models.SaveEvent {
	start := time.Now()
	event := models.SaveEvent{
		At:        s.now(),
		Templates: len(s.state.Templates),
		Courses:   s.state.CourseCount(),
	}
	payload, err := json.Marshal(s.state)
	if err == nil {
		err = s.repo.Put(ctx, s.cfg.Key, payload)
	}
	event.Err = err
	s.metrics.ObservePersist(time.Since(start), err)
	s.metrics.SetStateSize(event.Templates, event.Courses)
	if err != nil {
		s.logger.Error("failed to persist timetable", zap.String("key", s.cfg.Key), zap.Error(err))
	} else {
		s.logger.Debug("timetable persisted", zap.Int("templates", event.Templates), zap.Int("courses", event.Courses))
	}
	return event
}

func (s *ScheduleStore) publish(event models.SaveEvent) {
	s.subMu.RLock()
	subscribers := make([]func(models.SaveEvent), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.subMu.RUnlock()
	for _, fn := range subscribers {
		fn(event)
	}
}

func (s *ScheduleStore) activeIndex() int {
	return activeIndexOf(&s.state)
}

func activeIndexOf(state *models.State) int {
	if idx := state.FindTemplate(state.CurrentTemplateID); idx >= 0 {
		return idx
	}
	return 0
}

func isPersistError(err error) bool {
	return errors.Is(err, appErrors.ErrPersist)
}
