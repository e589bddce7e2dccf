package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/models"
)

const (
	savedMessage = "Timetable saved"
	alertMessage = "Could not save the timetable. Your latest change is kept in this session only."
)

// NoticeService turns store save events into user notices. A successful save
// shows a confirmation that dismisses itself after ttl; a newer notice cancels
// the pending dismissal of the previous one. A failed save raises an alert
// that stays until acknowledged, even across later successful saves.
type NoticeService struct {
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	current *models.Notice
	timer   *time.Timer
	gen     uint64
}

// NewNoticeService constructs the service.
func NewNoticeService(ttl time.Duration, logger *zap.Logger) *NoticeService {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{ttl: ttl, logger: logger, now: time.Now}
}

// HandleSave is registered with ScheduleStore.Subscribe.
func (s *NoticeService) HandleSave(event models.SaveEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Err == nil && s.current != nil && s.current.Kind == models.NoticeKindAlert {
		return
	}

	s.stopTimerLocked()
	s.gen++
	created := s.now()

	if event.Err != nil {
		s.current = &models.Notice{Kind: models.NoticeKindAlert, Message: alertMessage, CreatedAt: created}
		s.logger.Warn("save alert raised", zap.Error(event.Err))
		return
	}

	expires := created.Add(s.ttl)
	s.current = &models.Notice{Kind: models.NoticeKindSaved, Message: savedMessage, CreatedAt: created, ExpiresAt: &expires}
	gen := s.gen
	s.timer = time.AfterFunc(s.ttl, func() { s.dismiss(gen) })
}

// Current returns the visible notice, if any.
func (s *NoticeService) Current() (models.Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Notice{}, false
	}
	return *s.current, true
}

// Acknowledge clears whatever notice is visible.
func (s *NoticeService) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.gen++
	s.current = nil
}

// Close stops the pending dismissal timer.
func (s *NoticeService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// dismiss only clears the notice it was scheduled for; a timer that fired
// while a newer notice was being installed finds a different generation.
func (s *NoticeService) dismiss(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.current = nil
	s.timer = nil
}

func (s *NoticeService) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
