package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/attendance"
	"campusevents/internal/events"
)

// EventLite is the slim event shape report rows join against.
type EventLite struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	EventType string     `json:"event_type"`
	StartTime *time.Time `json:"start_time"`
}

// PopularityRow ranks an event by registration count.
type PopularityRow struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	EventType     string `json:"event_type"`
	Registrations int    `json:"registrations"`
}

// ParticipantRow ranks a student by events attended.
type ParticipantRow struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Attended int    `json:"attended"`
}

// Participation is the full ranking plus its top three.
type Participation struct {
	Top3 []ParticipantRow `json:"top3"`
	All  []ParticipantRow `json:"all"`
}

// FlexibleFilter narrows the flexible report.
type FlexibleFilter struct {
	EventType string
	CollegeID string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// RegistrationCountRow counts registrations per event.
type RegistrationCountRow struct {
	EventID            string `json:"event_id"`
	Title              string `json:"title"`
	RegistrationsCount int    `json:"registrations_count"`
}

// AttendanceRateRow reports per-event attendance percentage.
type AttendanceRateRow struct {
	EventID              string  `json:"event_id"`
	Title                *string `json:"title"`
	PresentCount         int     `json:"present_count"`
	AttendanceRows       int     `json:"attendance_rows"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// FeedbackScoreRow reports per-event mean rating.
type FeedbackScoreRow struct {
	EventID       string  `json:"event_id"`
	Title         *string `json:"title"`
	FeedbackCount int     `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
}

// AdminStats summarizes an admin's own events.
type AdminStats struct {
	TotalEventsCreated   int `json:"totalEventsCreated"`
	TotalEventsCompleted int `json:"totalEventsCompleted"`
	TotalEventsCancelled int `json:"totalEventsCancelled"`
	TotalRegistrations   int `json:"totalRegistrations"`
}

// AttendanceRow is a raw attendance tuple for aggregation.
type AttendanceRow struct {
	EventID   string
	StudentID string
	Status    *string
}

// FeedbackRow is a raw feedback tuple for aggregation.
type FeedbackRow struct {
	EventID string
	Rating  int
}

// UserLite is the display shape for participation rankings.
type UserLite struct {
	ID       string
	FullName string
	Email    string
}

// Store is the read surface the report aggregations run over.
type Store interface {
	EventsLite(ctx context.Context, collegeID string) ([]EventLite, error)
	RegistrationCounts(ctx context.Context) (map[string]int, error)
	AttendanceRows(ctx context.Context) ([]AttendanceRow, error)
	UsersByIDs(ctx context.Context, ids []string) ([]UserLite, error)
	EventsFiltered(ctx context.Context, eventType, collegeID string) ([]events.Event, error)
	EventTitles(ctx context.Context, ids []string) (map[string]string, error)
	FeedbackRows(ctx context.Context) ([]FeedbackRow, error)
	CreatorStats(ctx context.Context, creatorID string) (AdminStats, error)
}

// Service computes read-only aggregations by grouping fetched rows in
// memory, mirroring the request/response shapes the client expects.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// EventPopularity ranks events by registration count, descending.
func (s *Service) EventPopularity(ctx context.Context, collegeID string) ([]PopularityRow, error) {
	evts, err := s.store.EventsLite(ctx, collegeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	counts, err := s.store.RegistrationCounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	list := make([]PopularityRow, 0, len(evts))
	for _, e := range evts {
		list = append(list, PopularityRow{
			ID:            e.ID,
			Title:         e.Title,
			EventType:     e.EventType,
			Registrations: counts[e.ID],
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Registrations > list[j].Registrations
	})
	return list, nil
}

// StudentParticipation counts present marks per student and returns the
// ranked list plus its top three.
func (s *Service) StudentParticipation(ctx context.Context) (Participation, error) {
	rows, err := s.store.AttendanceRows(ctx)
	if err != nil {
		return Participation{}, apperr.Internal(err)
	}

	counts := make(map[string]int)
	for _, r := range rows {
		if r.StudentID == "" || r.Status == nil || !attendance.IsPresent(*r.Status) {
			continue
		}
		counts[r.StudentID]++
	}
	if len(counts) == 0 {
		return Participation{Top3: []ParticipantRow{}, All: []ParticipantRow{}}, nil
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	students, err := s.store.UsersByIDs(ctx, ids)
	if err != nil {
		return Participation{}, apperr.Internal(err)
	}

	list := make([]ParticipantRow, 0, len(students))
	for _, u := range students {
		list = append(list, ParticipantRow{
			ID:       u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Attended: counts[u.ID],
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Attended > list[j].Attended
	})

	top := list
	if len(top) > 3 {
		top = top[:3]
	}
	return Participation{Top3: top, All: list}, nil
}

// Flexible filters events by type/college in the query and by date bounds
// over the fetched rows.
func (s *Service) Flexible(ctx context.Context, f FlexibleFilter) ([]events.Event, error) {
	list, err := s.store.EventsFiltered(ctx, f.EventType, f.CollegeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	res := make([]events.Event, 0, len(list))
	for _, e := range list {
		if f.DateFrom != nil && (e.StartTime == nil || e.StartTime.Before(*f.DateFrom)) {
			continue
		}
		if f.DateTo != nil && (e.EndTime == nil || e.EndTime.After(*f.DateTo)) {
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

// RegistrationsPerEvent counts registrations per event, joined with titles.
func (s *Service) RegistrationsPerEvent(ctx context.Context) ([]RegistrationCountRow, error) {
	evts, err := s.store.EventsLite(ctx, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	counts, err := s.store.RegistrationCounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	res := make([]RegistrationCountRow, 0, len(evts))
	for _, e := range evts {
		res = append(res, RegistrationCountRow{
			EventID:            e.ID,
			Title:              e.Title,
			RegistrationsCount: counts[e.ID],
		})
	}
	return res, nil
}

// AttendancePercentage reports present/total per event as a percentage
// rounded to two decimals; an event with no rows reports 0.
func (s *Service) AttendancePercentage(ctx context.Context) ([]AttendanceRateRow, error) {
	rows, err := s.store.AttendanceRows(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	type agg struct{ present, total int }
	byEvent := make(map[string]*agg)
	order := []string{}
	for _, r := range rows {
		a, ok := byEvent[r.EventID]
		if !ok {
			a = &agg{}
			byEvent[r.EventID] = a
			order = append(order, r.EventID)
		}
		a.total++
		if r.Status != nil && attendance.IsPresent(*r.Status) {
			a.present++
		}
	}

	titles, err := s.titlesFor(ctx, order)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceRateRow, 0, len(order))
	for _, id := range order {
		a := byEvent[id]
		pct := 0.0
		if a.total > 0 {
			pct = round2(float64(a.present) / float64(a.total) * 100)
		}
		res = append(res, AttendanceRateRow{
			EventID:              id,
			Title:                titles[id],
			PresentCount:         a.present,
			AttendanceRows:       a.total,
			AttendancePercentage: pct,
		})
	}
	return res, nil
}

// AverageFeedback reports the mean rating per event, rounded to two decimals.
func (s *Service) AverageFeedback(ctx context.Context) ([]FeedbackScoreRow, error) {
	rows, err := s.store.FeedbackRows(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	type agg struct{ sum, count int }
	byEvent := make(map[string]*agg)
	order := []string{}
	for _, r := range rows {
		a, ok := byEvent[r.EventID]
		if !ok {
			a = &agg{}
			byEvent[r.EventID] = a
			order = append(order, r.EventID)
		}
		a.sum += r.Rating
		a.count++
	}

	titles, err := s.titlesFor(ctx, order)
	if err != nil {
		return nil, err
	}

	res := make([]FeedbackScoreRow, 0, len(order))
	for _, id := range order {
		a := byEvent[id]
		res = append(res, FeedbackScoreRow{
			EventID:       id,
			Title:         titles[id],
			FeedbackCount: a.count,
			AverageRating: round2(float64(a.sum) / float64(a.count)),
		})
	}
	return res, nil
}

// Stats summarizes the calling admin's events and registrations.
func (s *Service) Stats(ctx context.Context, adminID string) (AdminStats, error) {
	stats, err := s.store.CreatorStats(ctx, adminID)
	if err != nil {
		return AdminStats{}, apperr.Internal(err)
	}
	return stats, nil
}

func (s *Service) titlesFor(ctx context.Context, ids []string) (map[string]*string, error) {
	res := make(map[string]*string, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	titles, err := s.store.EventTitles(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, id := range ids {
		if title, ok := titles[id]; ok {
			t := title
			res[id] = &t
		} else {
			res[id] = nil
		}
	}
	return res, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
