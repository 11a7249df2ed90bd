package events

import (
	"context"
	"testing"
	"time"

	"campusevents/internal/apperr"
)

type fakeStore struct {
	events map[string]Event
	counts map[string]int
	regs   map[string]Registration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[string]Event),
		counts: make(map[string]int),
		regs:   make(map[string]Registration),
	}
}

func (f *fakeStore) Insert(_ context.Context, evt Event) (Event, error) {
	evt.ID = "e" + evt.Title
	f.events[evt.ID] = evt
	return evt, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Event, error) {
	evt, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	return &evt, nil
}

func (f *fakeStore) Update(_ context.Context, id string, fields UpdateFields) (Event, error) {
	evt := f.events[id]
	if fields.Title != nil {
		evt.Title = *fields.Title
	}
	if fields.Capacity != nil {
		evt.Capacity = *fields.Capacity
	}
	f.events[id] = evt
	return evt, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id, status string) error {
	evt := f.events[id]
	evt.Status = status
	f.events[id] = evt
	return nil
}

func (f *fakeStore) List(_ context.Context, _ Filter) ([]Event, error) {
	var res []Event
	for _, evt := range f.events {
		res = append(res, evt)
	}
	return res, nil
}

func (f *fakeStore) ListEligible(_ context.Context, collegeID string, sem int) ([]Event, error) {
	var res []Event
	for _, evt := range f.events {
		if evt.CollegeID == nil || *evt.CollegeID != collegeID {
			continue
		}
		if evt.Sem != nil && *evt.Sem != sem {
			continue
		}
		res = append(res, evt)
	}
	return res, nil
}

func (f *fakeStore) ListByCreator(_ context.Context, creatorID string) ([]Event, error) {
	var res []Event
	for _, evt := range f.events {
		if evt.CreatedBy == creatorID {
			res = append(res, evt)
		}
	}
	return res, nil
}

func (f *fakeStore) RegistrationCounts(_ context.Context) (map[string]int, error) {
	return f.counts, nil
}

func (f *fakeStore) UserRegistrations(_ context.Context, _ string) (map[string]Registration, error) {
	return f.regs, nil
}

func seedEvent(store *fakeStore, title, creator, status string) Event {
	college := "c1"
	evt := Event{ID: "e" + title, Title: title, CollegeID: &college, CreatedBy: creator, Status: status}
	store.events[evt.ID] = evt
	return evt
}

func TestCreateDefaultsToCreatorCollege(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	college := "c9"

	evt, err := svc.Create(context.Background(), CreateInput{Title: "Hack"}, "admin1", &college)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if evt.CollegeID == nil || *evt.CollegeID != "c9" {
		t.Errorf("college = %v, want creator's c9", evt.CollegeID)
	}
	if evt.Status != StatusActive {
		t.Errorf("status = %q, want active", evt.Status)
	}
}

func TestCreateRequiresSomeCollege(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), CreateInput{Title: "Hack"}, "admin1", nil)
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)
	seedEvent(store, "a", "admin1", StatusActive)

	evt, err := svc.Cancel(ctx, "ea", "admin1")
	if err != nil {
		t.Fatalf("Cancel active: %v", err)
	}
	if evt.Status != StatusCancelled {
		t.Fatalf("status = %q, want cancelled", evt.Status)
	}

	// Re-applying the same terminal state is a no-op.
	if _, err := svc.Cancel(ctx, "ea", "admin1"); err != nil {
		t.Errorf("repeat Cancel should be idempotent: %v", err)
	}

	// Crossing terminal states is rejected.
	_, err = svc.Complete(ctx, "ea", "admin1")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("complete of cancelled event: got %v, want conflict", err)
	}

	seedEvent(store, "b", "admin1", StatusActive)
	if _, err := svc.Complete(ctx, "eb", "admin1"); err != nil {
		t.Fatalf("Complete active: %v", err)
	}
	_, err = svc.Cancel(ctx, "eb", "admin1")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("cancel of completed event: got %v, want conflict", err)
	}
}

func TestOnlyCreatorMayModify(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)
	seedEvent(store, "a", "admin1", StatusActive)

	_, err := svc.Cancel(ctx, "ea", "admin2")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("cancel by non-creator: got %v, want forbidden", err)
	}
	title := "New"
	_, err = svc.Update(ctx, "ea", UpdateFields{Title: &title}, "admin2")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("update by non-creator: got %v, want forbidden", err)
	}

	_, err = svc.Cancel(ctx, "missing", "admin1")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("cancel of missing event: got %v, want not found", err)
	}
}

func TestListSortsByPopularity(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedEvent(store, "low", "admin1", StatusActive)
	seedEvent(store, "high", "admin1", StatusActive)
	store.counts["elow"] = 1
	store.counts["ehigh"] = 9

	list, err := svc.List(context.Background(), Filter{}, SortPopularity)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "ehigh" {
		t.Fatalf("expected ehigh first, got %+v", list)
	}
	if list[0].Registrations == nil || *list[0].Registrations != 9 {
		t.Errorf("registrations annotation = %v, want 9", list[0].Registrations)
	}
}

func TestListSortsByDateAndSem(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sem2, sem5 := 2, 5

	a := seedEvent(store, "a", "admin1", StatusActive)
	a.StartTime = &late
	a.Sem = &sem5
	store.events[a.ID] = a
	b := seedEvent(store, "b", "admin1", StatusActive)
	b.StartTime = &early
	b.Sem = &sem2
	store.events[b.ID] = b

	byDate, err := svc.List(context.Background(), Filter{}, SortDate)
	if err != nil {
		t.Fatalf("List by date: %v", err)
	}
	if byDate[0].ID != "eb" {
		t.Errorf("date sort: first = %s, want eb", byDate[0].ID)
	}

	bySem, err := svc.List(context.Background(), Filter{}, SortSem)
	if err != nil {
		t.Fatalf("List by sem: %v", err)
	}
	if bySem[0].ID != "eb" {
		t.Errorf("sem sort: first = %s, want eb", bySem[0].ID)
	}
}

func TestEligibleAnnotatesRegistration(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	evt := seedEvent(store, "a", "admin1", StatusActive)
	seedEvent(store, "b", "admin1", StatusActive)
	store.regs[evt.ID] = Registration{ID: "r1", EventID: evt.ID, UserID: "u1"}

	list, err := svc.Eligible(context.Background(), "c1", 0, "u1")
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	for _, item := range list {
		if item.ID == evt.ID {
			if item.Registration == nil || item.Registration.Status != "Registered" {
				t.Errorf("registered event missing annotation: %+v", item.Registration)
			}
		} else if item.Registration != nil {
			t.Errorf("unregistered event carries annotation: %+v", item.Registration)
		}
	}
}

func TestEligibleRequiresCollege(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Eligible(context.Background(), "", 0, "u1")
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}
