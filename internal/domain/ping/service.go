package ping

import "context"

// CreateInput carries the caller-supplied fields for a new ping. ID,
// CreatedAt and ExpireAt are always server-assigned.
type CreateInput struct {
	Owner            string         `json:"owner"`
	CampusLocation   CampusLocation `json:"campusLocation"`
	SpecificLocation string         `json:"specificLocation"`
	Description      string         `json:"description"`
	Date             string         `json:"date"`
	Time             string         `json:"time"`
	DurationMinutes  int            `json:"durationMinutes"`
	HappeningNow     bool           `json:"happeningNow"`
}

// Patch carries a partial update; nil fields are left as stored. ID and
// Owner are not patchable by construction.
type Patch struct {
	CampusLocation   *CampusLocation `json:"campusLocation"`
	SpecificLocation *string         `json:"specificLocation"`
	Description      *string         `json:"description"`
	Date             *string         `json:"date"`
	Time             *string         `json:"time"`
	DurationMinutes  *int            `json:"durationMinutes"`
	HappeningNow     *bool           `json:"happeningNow"`
}

// TouchesSchedule reports whether applying the patch requires the derived
// expiry to be recomputed.
func (p Patch) TouchesSchedule() bool {
	return p.Date != nil || p.Time != nil || p.DurationMinutes != nil
}

// Service defines the ping lifecycle operations.
type Service interface {
	// Create stores a new ping with a fresh id and a computed expiry.
	Create(ctx context.Context, input CreateInput) (Ping, error)

	// Get returns a ping by id; reads are public.
	Get(ctx context.Context, id string) (Ping, error)

	// List returns every stored ping.
	List(ctx context.Context) ([]Ping, error)

	// ListByOwner returns the pings whose owner exactly matches the given
	// identity.
	ListByOwner(ctx context.Context, owner string) ([]Ping, error)

	// Update merges the patch into the stored ping if the caller owns it,
	// recomputing the expiry when schedule fields are present. A missing
	// record and an owner mismatch both yield ErrNotFound.
	Update(ctx context.Context, id, owner string, patch Patch) (Ping, error)

	// Delete removes the ping if the caller owns it, with the same
	// ErrNotFound conflation as Update.
	Delete(ctx context.Context, id, owner string) error
}

// Store defines the persistence operations the service relies on.
type Store interface {
	Insert(ctx context.Context, p Ping) error
	GetByID(ctx context.Context, id string) (Ping, error)
	ListAll(ctx context.Context) ([]Ping, error)
	ListByOwner(ctx context.Context, owner string) ([]Ping, error)

	// UpdateOwned loads the ping owner-scoped, applies the callback and
	// writes the result back, all inside one transaction. Zero matching
	// rows surface as ErrNotFound.
	UpdateOwned(ctx context.Context, id, owner string, apply func(Ping) (Ping, error)) (Ping, error)

	// DeleteOwned removes the ping owner-scoped; zero matching rows
	// surface as ErrNotFound.
	DeleteOwned(ctx context.Context, id, owner string) error
}
