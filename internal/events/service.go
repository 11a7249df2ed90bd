package events

import (
	"context"
	"sort"
	"time"

	"campusevents/internal/apperr"
)

// Event lifecycle states. A single enumerated status replaces independent
// completed/cancelled flags so the two terminal states cannot coexist.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Sort orders accepted by List.
const (
	SortPopularity = "popularity"
	SortDate       = "date"
	SortSem        = "sem"
)

// Event is a campus event scoped to a college and optionally a semester.
// A nil Sem means the event is visible to all semesters.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventType   string     `json:"event_type"`
	Location    string     `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CollegeID   *string    `json:"college_id"`
	Sem         *int       `json:"sem"`
	Capacity    int        `json:"capacity"`
	CreatedBy   string     `json:"created_by"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Registrations is populated only for popularity-sorted listings.
	Registrations *int `json:"registrations,omitempty"`
}

// Registration is a student's own registration annotated onto an eligible event.
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EligibleEvent pairs an event with the calling student's registration, if any.
type EligibleEvent struct {
	Event
	Registration *Registration `json:"registration"`
}

// Filter narrows List results.
type Filter struct {
	CollegeID string
	EventType string
	Sem       *int
}

// CreateInput carries the fields an admin supplies for a new event.
type CreateInput struct {
	Title       string
	Description string
	EventType   string
	Location    string
	StartTime   *time.Time
	EndTime     *time.Time
	CollegeID   *string
	Sem         *int
	Capacity    int
}

// UpdateFields is a partial patch; nil fields are left untouched.
type UpdateFields struct {
	Title       *string
	Description *string
	EventType   *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	Sem         *int
	Capacity    *int
}

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, evt Event) (Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, fields UpdateFields) (Event, error)
	SetStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, f Filter) ([]Event, error)
	ListEligible(ctx context.Context, collegeID string, sem int) ([]Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]Event, error)
	RegistrationCounts(ctx context.Context) (map[string]int, error)
	UserRegistrations(ctx context.Context, userID string) (map[string]Registration, error)
}

// Service owns the event lifecycle and listing rules.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a new event. The college defaults to the creator's own;
// an event must belong to some college.
func (s *Service) Create(ctx context.Context, in CreateInput, creatorID string, creatorCollege *string) (Event, error) {
	if in.Title == "" {
		return Event{}, apperr.Invalid("title required")
	}
	college := in.CollegeID
	if college == nil || *college == "" {
		college = creatorCollege
	}
	if college == nil || *college == "" {
		return Event{}, apperr.Invalid("college_id required")
	}
	evt := Event{
		Title:       in.Title,
		Description: in.Description,
		EventType:   in.EventType,
		Location:    in.Location,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CollegeID:   college,
		Sem:         in.Sem,
		Capacity:    in.Capacity,
		CreatedBy:   creatorID,
		Status:      StatusActive,
	}
	return s.store.Insert(ctx, evt)
}

// GetByID returns a single event.
func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	evt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Event{}, apperr.Internal(err)
	}
	if evt == nil {
		return Event{}, apperr.NotFound("event not found")
	}
	return *evt, nil
}

// Update patches event fields. Only the creating admin may edit an event.
func (s *Service) Update(ctx context.Context, id string, fields UpdateFields, callerID string) (Event, error) {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return Event{}, err
	}
	return s.store.Update(ctx, id, fields)
}

// Cancel moves an active event to the cancelled terminal state.
func (s *Service) Cancel(ctx context.Context, id, callerID string) (Event, error) {
	return s.transition(ctx, id, callerID, StatusCancelled)
}

// Complete moves an active event to the completed terminal state.
func (s *Service) Complete(ctx context.Context, id, callerID string) (Event, error) {
	return s.transition(ctx, id, callerID, StatusCompleted)
}

// transition enforces the state machine: active may move to either terminal
// state, re-applying the current terminal state is a no-op, and the two
// terminal states never cross.
func (s *Service) transition(ctx context.Context, id, callerID, target string) (Event, error) {
	evt, err := s.owned(ctx, id, callerID)
	if err != nil {
		return Event{}, err
	}
	if evt.Status == target {
		return *evt, nil
	}
	if evt.Status != StatusActive {
		return Event{}, apperr.Conflict("event is already " + evt.Status)
	}
	if err := s.store.SetStatus(ctx, id, target); err != nil {
		return Event{}, apperr.Internal(err)
	}
	evt.Status = target
	return *evt, nil
}

func (s *Service) owned(ctx context.Context, id, callerID string) (*Event, error) {
	evt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if evt == nil {
		return nil, apperr.NotFound("event not found")
	}
	if evt.CreatedBy != callerID {
		return nil, apperr.Forbidden("only the event creator may modify this event")
	}
	return evt, nil
}

// List returns filtered events, sorted in memory: popularity joins per-event
// registration counts descending, date sorts ascending by start time, sem
// sorts ascending treating a missing semester as 0.
func (s *Service) List(ctx context.Context, f Filter, sortBy string) ([]Event, error) {
	list, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	switch sortBy {
	case SortPopularity:
		counts, err := s.store.RegistrationCounts(ctx)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		for i := range list {
			n := counts[list[i].ID]
			list[i].Registrations = &n
		}
		sort.SliceStable(list, func(i, j int) bool {
			return *list[i].Registrations > *list[j].Registrations
		})
	case SortDate:
		sort.SliceStable(list, func(i, j int) bool {
			return startOrZero(list[i]).Before(startOrZero(list[j]))
		})
	case SortSem:
		sort.SliceStable(list, func(i, j int) bool {
			return semOrZero(list[i]) < semOrZero(list[j])
		})
	}
	return list, nil
}

// Eligible returns the events a student may see: same college, and either no
// semester restriction or a matching one, each annotated with the student's
// own registration when present.
func (s *Service) Eligible(ctx context.Context, collegeID string, sem int, userID string) ([]EligibleEvent, error) {
	if collegeID == "" {
		return nil, apperr.Invalid("college_id required")
	}
	list, err := s.store.ListEligible(ctx, collegeID, sem)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	regs, err := s.store.UserRegistrations(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	res := make([]EligibleEvent, 0, len(list))
	for _, evt := range list {
		item := EligibleEvent{Event: evt}
		if reg, ok := regs[evt.ID]; ok {
			reg.Status = "Registered"
			item.Registration = &reg
		}
		res = append(res, item)
	}
	return res, nil
}

// ListByCreator returns an admin's own events, newest start time first.
func (s *Service) ListByCreator(ctx context.Context, creatorID string) ([]Event, error) {
	list, err := s.store.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func startOrZero(e Event) time.Time {
	if e.StartTime == nil {
		return time.Time{}
	}
	return *e.StartTime
}

func semOrZero(e Event) int {
	if e.Sem == nil {
		return 0
	}
	return *e.Sem
}
