package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/eprocure/lookups/internal/database/audit"
	"github.com/eprocure/lookups/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// OptionEvent describes one mutation on an option kind.
type OptionEvent struct {
	Kind      string
	EventType entities.AuditEventType
	Action    string // e.g. "create_one", "hard_delete_all"
	EntityIDs []string
	IPAddress string
	UserAgent string
	Err       error
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every LogAsync call has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogOptionEvent records a create, update or delete on an option kind.
func (s *Service) LogOptionEvent(e OptionEvent) {
	event := &entities.AuditEvent{
		EventType:   e.EventType,
		Action:      e.Action,
		Kind:        e.Kind,
		Description: describe(e),
		IPAddress:   e.IPAddress,
		UserAgent:   truncate(e.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
		CreatedAt:   time.Now(),
	}
	if len(e.EntityIDs) == 1 {
		event.EntityID = e.EntityIDs[0]
	}
	for _, id := range e.EntityIDs {
		event.Entities = append(event.Entities, entities.AuditEventEntity{EntityID: id})
	}

	if len(e.EntityIDs) > 0 {
		metadata := map[string]any{
			"count":      len(e.EntityIDs),
			"entity_ids": e.EntityIDs,
		}
		if mdBytes, err := json.Marshal(metadata); err == nil {
			event.Metadata = string(mdBytes)
		}
	}

	if e.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(e.Err.Error(), 500)
	}

	s.LogAsync(event)
}

func describe(e OptionEvent) string {
	switch len(e.EntityIDs) {
	case 0:
		return truncate(fmt.Sprintf("%s on %s", e.Action, e.Kind), 500)
	case 1:
		return truncate(fmt.Sprintf("%s on %s %s", e.Action, e.Kind, e.EntityIDs[0]), 500)
	default:
		return truncate(fmt.Sprintf("%s on %d %s records", e.Action, len(e.EntityIDs), e.Kind), 500)
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(kind string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(kind, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, kind string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, kind, limit, offset)
}

// GetHistory returns every recorded event for one option.
func (s *Service) GetHistory(kind, entityID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(kind, entityID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
