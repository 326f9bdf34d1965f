package ping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "pingboard/internal/domain/ping"
)

// Publisher is the slice of the event bus the service needs. *nats.Conn
// satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Config contains configuration for the ping service.
type Config struct {
	// EventsTopic is the subject prefix lifecycle events are published
	// under ("<topic>.created" and so on). Empty disables publishing.
	EventsTopic string
}

// PingService implements the domain.Service lifecycle operations on top of
// a Store.
type PingService struct {
	store    domain.Store
	eventBus Publisher
	config   Config
}

// NewPingService creates a new ping service. eventBus may be nil.
func NewPingService(store domain.Store, eventBus Publisher, config Config) *PingService {
	return &PingService{
		store:    store,
		eventBus: eventBus,
		config:   config,
	}
}

var _ domain.Service = (*PingService)(nil)

// Create stores a new ping with a fresh id, a server-assigned creation
// instant and a computed expiry.
func (s *PingService) Create(ctx context.Context, input domain.CreateInput) (domain.Ping, error) {
	if strings.TrimSpace(input.Owner) == "" {
		return domain.Ping{}, &domain.ValidationError{Reason: "owner is required"}
	}
	if input.CampusLocation != "" && !input.CampusLocation.Valid() {
		return domain.Ping{}, &domain.ValidationError{Reason: fmt.Sprintf("unknown campus location %q", input.CampusLocation)}
	}

	date, clock := input.Date, input.Time
	if input.HappeningNow {
		// Happening-now pings normally arrive with the caller's clock
		// already filled in; fill gaps from the server clock so a
		// computed expiry always exists.
		now := time.Now().UTC()
		if date == "" {
			date = now.Format(dateLayout)
		}
		if clock == "" {
			clock = now.Format("15:04")
		}
	} else if date == "" || clock == "" {
		return domain.Ping{}, &domain.ValidationError{Reason: "date and time are required unless happeningNow is set"}
	}

	expireAt, err := computeExpireAt(date, clock, input.DurationMinutes)
	if err != nil {
		return domain.Ping{}, err
	}

	p := domain.Ping{
		ID:               uuid.NewString(),
		Owner:            input.Owner,
		CampusLocation:   input.CampusLocation,
		SpecificLocation: domain.ParsePlace(input.SpecificLocation).Encode(),
		Description:      input.Description,
		Date:             date,
		Time:             clock,
		DurationMinutes:  input.DurationMinutes,
		HappeningNow:     input.HappeningNow,
		CreatedAt:        time.Now().UTC(),
		ExpireAt:         domain.FormatExpireAt(expireAt),
	}

	if err := s.store.Insert(ctx, p); err != nil {
		return domain.Ping{}, fmt.Errorf("inserting ping: %w", err)
	}

	s.publish("created", p)
	return p, nil
}

// Get returns a ping by id; reads are public.
func (s *PingService) Get(ctx context.Context, id string) (domain.Ping, error) {
	return s.store.GetByID(ctx, id)
}

// List returns every stored ping.
func (s *PingService) List(ctx context.Context) ([]domain.Ping, error) {
	return s.store.ListAll(ctx)
}

// ListByOwner returns the pings owned by the given identity.
func (s *PingService) ListByOwner(ctx context.Context, owner string) ([]domain.Ping, error) {
	return s.store.ListByOwner(ctx, owner)
}

// Update merges the patch into the stored ping. The store applies the merge
// owner-scoped in a single transaction, so a missing record and an owner
// mismatch are the same ErrNotFound outcome. The expiry is recomputed
// whenever the patch touches date, time or duration, merging stored values
// for whichever of the three the patch omits.
func (s *PingService) Update(ctx context.Context, id, owner string, patch domain.Patch) (domain.Ping, error) {
	if strings.TrimSpace(owner) == "" {
		return domain.Ping{}, &domain.ValidationError{Reason: "owner is required"}
	}
	if patch.CampusLocation != nil && !patch.CampusLocation.Valid() {
		return domain.Ping{}, &domain.ValidationError{Reason: fmt.Sprintf("unknown campus location %q", *patch.CampusLocation)}
	}

	updated, err := s.store.UpdateOwned(ctx, id, owner, func(stored domain.Ping) (domain.Ping, error) {
		merged := stored
		if patch.CampusLocation != nil {
			merged.CampusLocation = *patch.CampusLocation
		}
		if patch.SpecificLocation != nil {
			merged.SpecificLocation = domain.ParsePlace(*patch.SpecificLocation).Encode()
		}
		if patch.Description != nil {
			merged.Description = *patch.Description
		}
		if patch.Date != nil {
			merged.Date = *patch.Date
		}
		if patch.Time != nil {
			merged.Time = *patch.Time
		}
		if patch.DurationMinutes != nil {
			merged.DurationMinutes = *patch.DurationMinutes
		}
		if patch.HappeningNow != nil {
			merged.HappeningNow = *patch.HappeningNow
		}

		if patch.TouchesSchedule() {
			expireAt, err := computeExpireAt(merged.Date, merged.Time, merged.DurationMinutes)
			if err != nil {
				return domain.Ping{}, err
			}
			merged.ExpireAt = domain.FormatExpireAt(expireAt)
		}
		return merged, nil
	})
	if err != nil {
		return domain.Ping{}, err
	}

	s.publish("updated", updated)
	return updated, nil
}

// Delete removes the ping owner-scoped, with the same ErrNotFound
// conflation as Update.
func (s *PingService) Delete(ctx context.Context, id, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return &domain.ValidationError{Reason: "owner is required"}
	}
	if err := s.store.DeleteOwned(ctx, id, owner); err != nil {
		return err
	}
	s.publish("deleted", domain.Ping{ID: id, Owner: owner})
	return nil
}

// lifecycleEvent is the payload published for downstream consumers.
type lifecycleEvent struct {
	ID    string    `json:"id"`
	Owner string    `json:"owner"`
	At    time.Time `json:"at"`
}

// publish emits a lifecycle event. Publishing is best-effort: a failure is
// logged and never surfaced to the caller.
func (s *PingService) publish(action string, p domain.Ping) {
	if s.eventBus == nil || s.config.EventsTopic == "" {
		return
	}
	payload, err := json.Marshal(lifecycleEvent{ID: p.ID, Owner: p.Owner, At: time.Now().UTC()})
	if err != nil {
		return
	}
	subject := s.config.EventsTopic + "." + action
	if err := s.eventBus.Publish(subject, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", subject, err)
	}
}
