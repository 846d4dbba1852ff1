package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rakapradana/auth-gate-be/internal/models"
	"github.com/rakapradana/auth-gate-be/internal/websocket"
)

// EventServiceProvider defines the interface for audit event services.
type EventServiceProvider interface {
	RecordEvent(eventType, level, message string, userID *string)
	GetRecentEvents(limit int) ([]models.Event, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// Broadcaster pushes serialized events to connected listeners. Satisfied by
// the websocket hub.
type Broadcaster interface {
	Publish(message []byte)
}

// EventService records auth activity to the audit log and fans it out to
// live listeners.
type EventService struct {
	db  *sql.DB
	hub Broadcaster
}

// NewEventService creates a new EventService. hub may be nil when no live
// feed is attached.
func NewEventService(db *sql.DB, hub Broadcaster) *EventService {
	return &EventService{db: db, hub: hub}
}

// RecordEvent logs a new audit event. Auditing is best-effort: a failure is
// logged but never propagated into the request that triggered it.
func (s *EventService) RecordEvent(eventType, level, message string, userID *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO auth_events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to prepare audit event insert")
		return
	}
	defer stmt.Close()

	if _, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record audit event")
		return
	}

	if s.hub != nil {
		payload, err := json.Marshal(websocket.Message{
			Action:  "auth_event",
			Payload: event,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode audit event for broadcast")
			return
		}
		s.hub.Publish(payload)
	}
}

// GetRecentEvents retrieves the most recent audit events.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, user_id, created_at FROM auth_events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Non-nil so an empty log serializes as [] rather than null.
	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneOlderThan deletes audit events created before cutoff and returns the
// number of rows removed.
func (s *EventService) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM auth_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
