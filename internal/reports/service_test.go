package reports

import (
	"context"
	"testing"
	"time"

	"campusevents/internal/attendance"
	"campusevents/internal/events"
)

type fakeStore struct {
	eventsLite []EventLite
	regCounts  map[string]int
	attRows    []AttendanceRow
	users      []UserLite
	filtered   []events.Event
	titles     map[string]string
	fbRows     []FeedbackRow
	stats      AdminStats
}

func (f *fakeStore) EventsLite(_ context.Context, _ string) ([]EventLite, error) {
	return f.eventsLite, nil
}
func (f *fakeStore) RegistrationCounts(_ context.Context) (map[string]int, error) {
	return f.regCounts, nil
}
func (f *fakeStore) AttendanceRows(_ context.Context) ([]AttendanceRow, error) {
	return f.attRows, nil
}
func (f *fakeStore) UsersByIDs(_ context.Context, ids []string) ([]UserLite, error) {
	var res []UserLite
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				res = append(res, u)
			}
		}
	}
	return res, nil
}
func (f *fakeStore) EventsFiltered(_ context.Context, _, _ string) ([]events.Event, error) {
	return f.filtered, nil
}
func (f *fakeStore) EventTitles(_ context.Context, _ []string) (map[string]string, error) {
	return f.titles, nil
}
func (f *fakeStore) FeedbackRows(_ context.Context) ([]FeedbackRow, error) {
	return f.fbRows, nil
}
func (f *fakeStore) CreatorStats(_ context.Context, _ string) (AdminStats, error) {
	return f.stats, nil
}

func strptr(s string) *string { return &s }

func TestEventPopularity(t *testing.T) {
	svc := NewService(&fakeStore{
		eventsLite: []EventLite{{ID: "e1", Title: "Quiet"}, {ID: "e2", Title: "Busy"}},
		regCounts:  map[string]int{"e1": 2, "e2": 10},
	})

	rows, err := svc.EventPopularity(context.Background(), "")
	if err != nil {
		t.Fatalf("EventPopularity: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "e2" || rows[0].Registrations != 10 {
		t.Fatalf("unexpected ranking: %+v", rows)
	}
}

func TestStudentParticipation(t *testing.T) {
	svc := NewService(&fakeStore{
		attRows: []AttendanceRow{
			{EventID: "e1", StudentID: "s1", Status: strptr(attendance.StatusPresent)},
			{EventID: "e2", StudentID: "s1", Status: strptr(attendance.StatusPresent)},
			{EventID: "e1", StudentID: "s2", Status: strptr(attendance.StatusPresent)},
			{EventID: "e1", StudentID: "s3", Status: strptr(attendance.StatusAbsent)},
			{EventID: "e1", StudentID: "s4", Status: nil},
		},
		users: []UserLite{
			{ID: "s1", FullName: "One"},
			{ID: "s2", FullName: "Two"},
		},
	})

	res, err := svc.StudentParticipation(context.Background())
	if err != nil {
		t.Fatalf("StudentParticipation: %v", err)
	}
	if len(res.All) != 2 {
		t.Fatalf("all = %+v, want 2 students with present marks", res.All)
	}
	if res.All[0].ID != "s1" || res.All[0].Attended != 2 {
		t.Errorf("top student = %+v, want s1 with 2", res.All[0])
	}
	if len(res.Top3) != 2 {
		t.Errorf("top3 len = %d, want 2", len(res.Top3))
	}
}

func TestStudentParticipationEmpty(t *testing.T) {
	svc := NewService(&fakeStore{})
	res, err := svc.StudentParticipation(context.Background())
	if err != nil {
		t.Fatalf("StudentParticipation: %v", err)
	}
	if res.Top3 == nil || res.All == nil {
		t.Error("empty result should carry empty slices, not nil")
	}
}

func TestFlexibleDateBounds(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	janEnd := jan.Add(4 * time.Hour)
	jun := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	junEnd := jun.Add(4 * time.Hour)

	svc := NewService(&fakeStore{filtered: []events.Event{
		{ID: "e1", StartTime: &jan, EndTime: &janEnd},
		{ID: "e2", StartTime: &jun, EndTime: &junEnd},
	}})

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := svc.Flexible(context.Background(), FlexibleFilter{DateFrom: &from})
	if err != nil {
		t.Fatalf("Flexible: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "e2" {
		t.Fatalf("date_from filter: %+v, want only e2", rows)
	}

	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err = svc.Flexible(context.Background(), FlexibleFilter{DateTo: &to})
	if err != nil {
		t.Fatalf("Flexible: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "e1" {
		t.Fatalf("date_to filter: %+v, want only e1", rows)
	}
}

func TestAttendancePercentage(t *testing.T) {
	svc := NewService(&fakeStore{
		attRows: []AttendanceRow{
			{EventID: "e1", StudentID: "s1", Status: strptr(attendance.StatusPresent)},
			{EventID: "e1", StudentID: "s2", Status: strptr(attendance.StatusPresent)},
			{EventID: "e1", StudentID: "s3", Status: strptr(attendance.StatusPresent)},
			{EventID: "e1", StudentID: "s4", Status: strptr(attendance.StatusAbsent)},
			{EventID: "e1", StudentID: "s5", Status: nil},
		},
		titles: map[string]string{"e1": "Hack"},
	})

	rows, err := svc.AttendancePercentage(context.Background())
	if err != nil {
		t.Fatalf("AttendancePercentage: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v, want 1", rows)
	}
	if rows[0].AttendancePercentage != 60.00 {
		t.Errorf("percentage = %v, want 60.00", rows[0].AttendancePercentage)
	}
	if rows[0].PresentCount != 3 || rows[0].AttendanceRows != 5 {
		t.Errorf("counts = %d/%d, want 3/5", rows[0].PresentCount, rows[0].AttendanceRows)
	}
	if rows[0].Title == nil || *rows[0].Title != "Hack" {
		t.Errorf("title = %v, want Hack", rows[0].Title)
	}
}

func TestAverageFeedback(t *testing.T) {
	svc := NewService(&fakeStore{
		fbRows: []FeedbackRow{
			{EventID: "e1", Rating: 5},
			{EventID: "e1", Rating: 4},
			{EventID: "e1", Rating: 3},
			{EventID: "e2", Rating: 2},
		},
		titles: map[string]string{"e1": "Hack"},
	})

	rows, err := svc.AverageFeedback(context.Background())
	if err != nil {
		t.Fatalf("AverageFeedback: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want 2", rows)
	}
	byEvent := map[string]FeedbackScoreRow{}
	for _, r := range rows {
		byEvent[r.EventID] = r
	}
	if byEvent["e1"].AverageRating != 4.00 || byEvent["e1"].FeedbackCount != 3 {
		t.Errorf("e1 = %+v, want average 4.00 over 3", byEvent["e1"])
	}
	if byEvent["e2"].Title != nil {
		t.Errorf("e2 title = %v, want nil for missing event", byEvent["e2"].Title)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(1.0 / 3.0 * 100); got != 33.33 {
		t.Errorf("round2 = %v, want 33.33", got)
	}
	if got := round2(2.0 / 3.0 * 100); got != 66.67 {
		t.Errorf("round2 = %v, want 66.67", got)
	}
}

func TestStats(t *testing.T) {
	want := AdminStats{TotalEventsCreated: 7, TotalEventsCompleted: 3, TotalEventsCancelled: 1, TotalRegistrations: 42}
	svc := NewService(&fakeStore{stats: want})

	got, err := svc.Stats(context.Background(), "admin1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
