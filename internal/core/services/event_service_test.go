package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pdao-carelink/internal/adapters/persistence/models"
)

// fakeEventRepo is an in-memory EventRepository for service tests
type fakeEventRepo struct {
	events      map[uint]*models.Event
	attendances map[uint]map[uint]*models.Attendance // eventID -> memberID
	nextID      uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:      make(map[uint]*models.Event),
		attendances: make(map[uint]map[uint]*models.Attendance),
		nextID:      1,
	}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	event.ID = r.nextID
	r.nextID++
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uint) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]models.Event, int64, error) {
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) CreateAttendance(_ context.Context, attendance *models.Attendance) error {
	byMember, ok := r.attendances[attendance.EventID]
	if !ok {
		byMember = make(map[uint]*models.Attendance)
		r.attendances[attendance.EventID] = byMember
	}
	if _, dup := byMember[attendance.MemberID]; dup {
		return gorm.ErrDuplicatedKey
	}
	byMember[attendance.MemberID] = attendance
	return nil
}

func (r *fakeEventRepo) GetAttendance(_ context.Context, eventID, memberID uint) (*models.Attendance, error) {
	a, ok := r.attendances[eventID][memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeEventRepo) ListAttendances(_ context.Context, eventID uint) ([]models.Attendance, error) {
	out := make([]models.Attendance, 0)
	for _, a := range r.attendances[eventID] {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeEventRepo) CountAttendances(_ context.Context, eventID uint) (int64, error) {
	return int64(len(r.attendances[eventID])), nil
}

func newEventFixture(today time.Time) (*EventService, *fakeEventRepo) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	svc.today = func() time.Time { return today }
	return svc, repo
}

func TestEventStatusDerivedFromDateOnly(t *testing.T) {
	today := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	svc, _ := newEventFixture(today)

	mk := func(title string, date time.Time) {
		_, err := svc.Create(context.Background(), &CreateEventInput{Title: title, EventDate: date}, 1)
		require.NoError(t, err)
	}
	mk("Yesterday", time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))
	// Late-evening timestamp on the same calendar day is still ongoing.
	mk("Today", time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC))
	mk("Tomorrow", time.Date(2026, 6, 16, 1, 0, 0, 0, time.UTC))

	events, total, err := svc.List(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	statuses := map[string]string{}
	for _, e := range events {
		statuses[e.Title] = e.Status
	}
	assert.Equal(t, models.EventStatusCompleted, statuses["Yesterday"])
	assert.Equal(t, models.EventStatusOngoing, statuses["Today"])
	assert.Equal(t, models.EventStatusUpcoming, statuses["Tomorrow"])
}

func TestCreateEventRequiresTitleAndDate(t *testing.T) {
	svc, _ := newEventFixture(time.Now())

	_, err := svc.Create(context.Background(), &CreateEventInput{Title: "  "}, 1)
	assert.ErrorIs(t, err, ErrMissingEventTitle)

	_, err = svc.Create(context.Background(), &CreateEventInput{
		Title: "Wheelchair Distribution",
	}, 1)
	assert.ErrorIs(t, err, ErrMissingEventTitle)
}

func TestSubmitAttendanceAtMostOnce(t *testing.T) {
	today := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	svc, _ := newEventFixture(today)

	event, err := svc.Create(context.Background(), &CreateEventInput{
		Title: "PWD Day", EventDate: today,
	}, 1)
	require.NoError(t, err)

	member := &models.Member{ID: 7, FirstName: "Juan", LastName: "Dela Cruz", Barangay: "Poblacion", Status: models.MemberStatusApproved}

	attendance, err := svc.SubmitAttendance(context.Background(), event.ID, member, 2)
	require.NoError(t, err)
	assert.Equal(t, member.ID, attendance.MemberID)

	_, err = svc.SubmitAttendance(context.Background(), event.ID, member, 2)
	assert.ErrorIs(t, err, ErrAlreadyAttended)

	list, err := svc.ListAttendances(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitAttendanceBarangayScope(t *testing.T) {
	today := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	svc, _ := newEventFixture(today)

	event, err := svc.Create(context.Background(), &CreateEventInput{
		Title: "Barangay Consultation", EventDate: today, TargetBarangay: "Poblacion",
	}, 1)
	require.NoError(t, err)

	outsider := &models.Member{ID: 8, FirstName: "Ana", LastName: "Lopez", Barangay: "San Isidro", Status: models.MemberStatusApproved}
	_, err = svc.SubmitAttendance(context.Background(), event.ID, outsider, 2)
	assert.ErrorIs(t, err, ErrOutsideBarangay)

	// Case-insensitive barangay match admits the local member.
	local := &models.Member{ID: 9, FirstName: "Liza", LastName: "Reyes", Barangay: "poblacion", Status: models.MemberStatusApproved}
	_, err = svc.SubmitAttendance(context.Background(), event.ID, local, 2)
	assert.NoError(t, err)
}

func TestSubmitAttendanceUnknownEvent(t *testing.T) {
	svc, _ := newEventFixture(time.Now())

	member := &models.Member{ID: 7, Status: models.MemberStatusApproved}
	_, err := svc.SubmitAttendance(context.Background(), 99, member, 2)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDetailCountsAttendance(t *testing.T) {
	today := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	svc, _ := newEventFixture(today)

	event, err := svc.Create(context.Background(), &CreateEventInput{
		Title: "PWD Day", EventDate: today,
	}, 1)
	require.NoError(t, err)

	for id := uint(1); id <= 3; id++ {
		member := &models.Member{ID: id, FirstName: "M", LastName: "S", Status: models.MemberStatusApproved}
		_, err := svc.SubmitAttendance(context.Background(), event.ID, member, 2)
		require.NoError(t, err)
	}

	detail, count, err := svc.Detail(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, models.EventStatusOngoing, detail.Status)
}
