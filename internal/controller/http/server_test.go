package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuth struct {
	AuthService
	passwords  map[string]string
	accounts   map[string]*model.Account
	actors     map[int64]*model.Actor
	registered []service.RegisterInput
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		passwords: map[string]string{},
		accounts:  map[string]*model.Account{},
		actors:    map[int64]*model.Actor{},
	}
}

func (f *fakeAuth) add(id int64, email string, role model.Role) *model.Actor {
	acc := &model.Account{ID: id, Email: email, Name: email, Role: role}
	f.accounts[email] = acc
	f.passwords[email] = "secret"
	actor := &model.Actor{Account: acc}
	switch role {
	case model.RoleStudent:
		actor.StudentID = &id
	case model.RoleTeacher:
		actor.TeacherID = &id
	}
	f.actors[id] = actor
	return actor
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (*model.Account, error) {
	email = service.NormalizeEmail(email)
	acc, ok := f.accounts[email]
	if !ok || f.passwords[email] != password {
		return nil, service.ErrInvalidCredentials
	}
	return acc, nil
}

func (f *fakeAuth) ResolveActor(_ context.Context, id int64) (*model.Actor, error) {
	return f.actors[id], nil
}

func (f *fakeAuth) Register(_ context.Context, in service.RegisterInput) (*model.Account, error) {
	if _, ok := f.accounts[service.NormalizeEmail(in.Email)]; ok {
		return nil, service.ErrEmailTaken
	}
	f.registered = append(f.registered, in)
	return &model.Account{ID: 100, Email: in.Email, Name: in.Name, Role: model.RoleStudent}, nil
}

type fakeBooking struct {
	BookingService
	err    error
	booked []int64
}

func (f *fakeBooking) BookLesson(_ context.Context, actor *model.Actor, lessonID int64) (*model.Booking, error) {
	if actor == nil {
		return nil, service.ErrUnauthenticated
	}
	if f.err != nil {
		return nil, f.err
	}
	f.booked = append(f.booked, lessonID)
	return &model.Booking{ID: 1, LessonID: lessonID}, nil
}

func (f *fakeBooking) CancelBooking(_ context.Context, actor *model.Actor, _ int64) error {
	if actor == nil {
		return service.ErrUnauthenticated
	}
	return f.err
}

type fakeAttendance struct {
	AttendanceService
	mu      sync.Mutex
	present []int64
}

func (f *fakeAttendance) ToggleAttendance(_ context.Context, _ *model.Actor, bookingID int64) (bool, error) {
	if bookingID != 5 {
		return false, service.ErrBookingNotFound
	}
	return true, nil
}

func (f *fakeAttendance) SetAttendance(_ context.Context, actor *model.Actor, _ int64, present []int64) error {
	if !actor.Is(model.RoleAdmin, model.RoleTeacher) {
		return service.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present = present
	return nil
}

type fakeCatalog struct {
	CatalogService
	lessonsErr error
	createErr  error

	group     *service.GroupInput
	lesson    *service.LessonInput
	abonement *service.AbonementInput
	updatedID int64
}

func (f *fakeCatalog) CreateGroup(_ context.Context, in service.GroupInput) (*model.Group, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.group = &in
	return &model.Group{ID: 1, Name: in.Name}, nil
}

func (f *fakeCatalog) CreateLesson(_ context.Context, in service.LessonInput) (*model.Lesson, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lesson = &in
	return &model.Lesson{ID: 1, GroupID: in.GroupID}, nil
}

func (f *fakeCatalog) CreateAbonement(_ context.Context, in service.AbonementInput) (*model.Abonement, error) {
	f.abonement = &in
	return &model.Abonement{ID: 1, Name: in.Name}, nil
}

func (f *fakeCatalog) UpdateAbonement(_ context.Context, id int64, in service.AbonementInput) (*model.Abonement, error) {
	f.updatedID = id
	f.abonement = &in
	return &model.Abonement{ID: id, Name: in.Name}, nil
}

func (f *fakeCatalog) ListAbonements(context.Context) ([]*model.Abonement, error) {
	return []*model.Abonement{
		{ID: 1, Name: "Разовое", PriceKopecks: 80000, Sessions: 1},
		{ID: 2, Name: "Восемь", PriceKopecks: 500050, Sessions: 8},
	}, nil
}

type fakeRoster struct {
	RosterService
	deleteErr error
	deleted   []int64
	payments  []*model.Payment
}

func (f *fakeRoster) ListStudents(context.Context) ([]*model.Student, error) {
	return []*model.Student{}, nil
}

func (f *fakeRoster) DeleteStudent(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRoster) RecordPayment(_ context.Context, studentID, amount int64, note string) (*model.Payment, error) {
	p := &model.Payment{ID: int64(len(f.payments) + 1), StudentID: studentID, AmountKopecks: amount, Note: note}
	f.payments = append(f.payments, p)
	return p, nil
}

func (f *fakeCatalog) ListLessons(context.Context) ([]*model.Lesson, error) {
	if f.lessonsErr != nil {
		return nil, f.lessonsErr
	}
	return []*model.Lesson{}, nil
}

func (f *fakeCatalog) Lesson(_ context.Context, id int64) (*service.LessonView, error) {
	if id != 7 {
		return nil, service.ErrLessonNotFound
	}
	return &service.LessonView{Lesson: &model.Lesson{ID: 7}, Taken: 2, SpotsLeft: 0}, nil
}

type fakeProfile struct {
	ProfileService
}

func (fakeProfile) Student(_ context.Context, actor *model.Actor) (*service.StudentProfile, error) {
	return &service.StudentProfile{
		Bookings: []*model.Booking{{ID: 1, StudentID: *actor.StudentID}},
		Payments: []*model.Payment{{ID: 1, StudentID: *actor.StudentID, AmountKopecks: 350000}},
	}, nil
}

func (fakeProfile) Dashboard(context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{Students: 3}, nil
}

type testApp struct {
	app        *fiber.App
	auth       *fakeAuth
	booking    *fakeBooking
	attendance *fakeAttendance
	catalog    *fakeCatalog
	roster     *fakeRoster
}

func newTestApp() *testApp {
	ta := &testApp{
		auth:       newFakeAuth(),
		booking:    &fakeBooking{},
		attendance: &fakeAttendance{},
		catalog:    &fakeCatalog{},
		roster:     &fakeRoster{},
	}
	ta.app = New(Services{
		Auth:       ta.auth,
		Booking:    ta.booking,
		Attendance: ta.attendance,
		Catalog:    ta.catalog,
		Roster:     ta.roster,
		Profile:    fakeProfile{},
	}, Config{}, zap.NewNop())
	return ta
}

// client хранит cookie сессии между запросами
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (ta *testApp) client(t *testing.T) *client {
	return &client{t: t, app: ta.app}
}

func (c *client) do(method, path string, form url.Values) (int, string, map[string]any) {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	return c.send(req)
}

// doMultipart отправляет форму как multipart/form-data
func (c *client) doMultipart(path string, form url.Values) (int, string, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, v := range values {
			require.NoError(c.t, w.WriteField(key, v))
		}
	}
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return c.send(req)
}

func (c *client) send(req *nethttp.Request) (int, string, map[string]any) {
	c.t.Helper()
	if c.cookie != "" {
		req.Header.Set(fiber.HeaderCookie, sessionCookie+"="+c.cookie)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck.Value
		}
	}

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(c.t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, resp.Header.Get(fiber.HeaderLocation), payload
}

func (c *client) login(email string) {
	c.t.Helper()
	status, location, _ := c.do("POST", "/login", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(c.t, fiber.StatusSeeOther, status)
	require.Equal(c.t, "/", location)
}

func flashMessages(payload map[string]any) []string {
	var out []string
	list, _ := payload["flash"].([]any)
	for _, item := range list {
		m, _ := item.(map[string]any)
		msg, _ := m["message"].(string)
		out = append(out, msg)
	}
	return out
}

func TestHealthz(t *testing.T) {
	ta := newTestApp()
	status, _, payload := ta.client(t).do("GET", "/healthz", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", payload["status"])
}

func TestLoginFlashAndProfile(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)

	c.login("Alice@Example.com")

	status, _, payload := c.do("GET", "/me", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"Вход выполнен"}, flashMessages(payload))
	assert.Len(t, payload["bookings"], 1)

	user, _ := payload["user"].(map[string]any)
	account, _ := user["account"].(map[string]any)
	assert.Equal(t, "alice@example.com", account["email"])

	// Flash показывается один раз
	_, _, payload = c.do("GET", "/me", nil)
	assert.Empty(t, flashMessages(payload))
}

func TestLoginInvalidCredentials(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)

	status, location, _ := c.do("POST", "/login", url.Values{"email": {"alice@example.com"}, "password": {"nope"}})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", location)

	_, _, payload := c.do("GET", "/login", nil)
	assert.Equal(t, []string{"Неверный email или пароль"}, flashMessages(payload))
	assert.Nil(t, payload["user"])
}

func TestLogout(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)
	c.login("alice@example.com")

	status, location, _ := c.do("GET", "/logout", nil)
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/", location)

	status, _, _ = c.do("GET", "/me", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestBookLesson_Anonymous(t *testing.T) {
	ta := newTestApp()
	status, _, payload := ta.client(t).do("POST", "/book/7", url.Values{})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "error", payload["status"])
	assert.Empty(t, ta.booking.booked)
}

func TestBookLesson_Success(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)
	c.login("alice@example.com")

	status, location, _ := c.do("POST", "/book/7", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/lesson/7", location)
	assert.Equal(t, []int64{7}, ta.booking.booked)

	_, _, payload := c.do("GET", "/lesson/7", nil)
	assert.Contains(t, flashMessages(payload), "Вы успешно записаны на урок.")
}

func TestBookLesson_DomainConflicts(t *testing.T) {
	cases := []struct {
		err      error
		location string
		message  string
	}{
		{service.ErrCapacityExceeded, "/lesson/7", "К сожалению, мест на этот урок нет."},
		{service.ErrDuplicateBooking, "/lesson/7", "Вы уже записаны на этот урок."},
		{service.ErrStoreConflict, "/lesson/7", "Ошибка записи: проверьте данные или свяжитесь с администратором."},
		{service.ErrLessonNotFound, "/lessons", "Урок не найден."},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			ta := newTestApp()
			ta.auth.add(1, "alice@example.com", model.RoleStudent)
			ta.booking.err = tc.err
			c := ta.client(t)
			c.login("alice@example.com")

			status, location, _ := c.do("POST", "/book/7", url.Values{})
			assert.Equal(t, fiber.StatusSeeOther, status)
			assert.Equal(t, tc.location, location)

			_, _, payload := c.do("GET", "/lessons", nil)
			assert.Contains(t, flashMessages(payload), tc.message)
		})
	}
}

func TestCancelBooking_PastLesson(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	ta.booking.err = service.ErrPastLesson
	c := ta.client(t)
	c.login("alice@example.com")

	status, location, _ := c.do("POST", "/booking/5/cancel", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/me", location)

	ta.booking.err = service.ErrForbidden
	status, _, _ = c.do("POST", "/booking/5/cancel", url.Values{})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	ta.auth.add(2, "admin@studio.local", model.RoleAdmin)

	status, _, _ := ta.client(t).do("GET", "/admin", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	student := ta.client(t)
	student.login("alice@example.com")
	status, _, _ = student.do("GET", "/admin", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	admin := ta.client(t)
	admin.login("admin@studio.local")
	status, _, payload := admin.do("GET", "/admin", nil)
	assert.Equal(t, fiber.StatusOK, status)
	stats, _ := payload["stats"].(map[string]any)
	assert.EqualValues(t, 3, stats["students"])
}

func TestAttendanceSubmit(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "anna@studio.local", model.RoleTeacher)
	ta.auth.add(2, "alice@example.com", model.RoleStudent)

	teacher := ta.client(t)
	teacher.login("anna@studio.local")
	status, location, _ := teacher.do("POST", "/admin/attendance/3", url.Values{"present": {"4", "x", "6"}})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/lesson/3", location)
	assert.Equal(t, []int64{4, 6}, ta.attendance.present)

	student := ta.client(t)
	student.login("alice@example.com")
	status, _, _ = student.do("POST", "/admin/attendance/3", url.Values{"present": {"4"}})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRegister(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "taken@example.com", model.RoleStudent)
	c := ta.client(t)

	status, _, payload := c.do("POST", "/register", url.Values{"name": {"Алиса"}, "email": {"a@example.com"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Пожалуйста, заполните имя, email и пароль.", payload["error"])

	status, _, payload = c.do("POST", "/register", url.Values{
		"name": {"Алиса"}, "email": {"taken@example.com"}, "password": {"x"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, payload["error"], "уже существует")

	status, location, _ := c.do("POST", "/register", url.Values{
		"name": {"Алиса"}, "email": {"a@example.com"}, "password": {"x"}, "phone": {"+7 900"},
	})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/login", location)
	require.Len(t, ta.auth.registered, 1)
	assert.Equal(t, "+7 900", ta.auth.registered[0].Phone)
}

func TestRegister_AlreadyLoggedIn(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)
	c.login("alice@example.com")

	status, location, _ := c.do("GET", "/register", nil)
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/", location)
}

func TestLessonNotFoundPage(t *testing.T) {
	ta := newTestApp()
	status, _, payload := ta.client(t).do("GET", "/lesson/9", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Урок не найден.", payload["message"])

	status, _, _ = ta.client(t).do("GET", "/lesson/abc", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUnexpectedErrorIs500(t *testing.T) {
	ta := newTestApp()
	ta.catalog.lessonsErr = errors.New("connection refused")

	status, _, payload := ta.client(t).do("GET", "/lessons", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, genericError, payload["message"])
}

func TestAttendanceSubmit_Multipart(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "anna@studio.local", model.RoleTeacher)
	teacher := ta.client(t)
	teacher.login("anna@studio.local")

	status, location, _ := teacher.doMultipart("/admin/attendance/3", url.Values{"present": {"4", "6"}})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/lesson/3", location)
	assert.ElementsMatch(t, []int64{4, 6}, ta.attendance.present)
}

func TestAttendanceSubmit_BrokenMultipart(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "anna@studio.local", model.RoleTeacher)
	teacher := ta.client(t)
	teacher.login("anna@studio.local")

	req := httptest.NewRequest("POST", "/admin/attendance/3", strings.NewReader("present=4"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEMultipartForm)
	status, _, payload := teacher.send(req)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Не удалось разобрать форму посещаемости", payload["error"])
	assert.Nil(t, ta.attendance.present)
}

func TestAdminForms(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		form     url.Values
		status   int
		location string
		errText  string
		check    func(t *testing.T, ta *testApp)
	}{
		{
			name:     "group with default capacity",
			path:     "/admin/add_group",
			form:     url.Values{"name": {"Сальса"}, "direction_id": {"1"}, "teacher_id": {"2"}, "capacity": {""}},
			status:   fiber.StatusSeeOther,
			location: "/groups",
			check: func(t *testing.T, ta *testApp) {
				require.NotNil(t, ta.catalog.group)
				assert.Nil(t, ta.catalog.group.Capacity)
				assert.Equal(t, int64(2), ta.catalog.group.TeacherID)
			},
		},
		{
			name:     "group with capacity",
			path:     "/admin/add_group",
			form:     url.Values{"name": {"Сальса"}, "direction_id": {"1"}, "teacher_id": {"2"}, "capacity": {"8"}},
			status:   fiber.StatusSeeOther,
			location: "/groups",
			check: func(t *testing.T, ta *testApp) {
				require.NotNil(t, ta.catalog.group.Capacity)
				assert.Equal(t, 8, *ta.catalog.group.Capacity)
			},
		},
		{
			name:    "group with zero capacity",
			path:    "/admin/add_group",
			form:    url.Values{"name": {"Сальса"}, "direction_id": {"1"}, "teacher_id": {"2"}, "capacity": {"0"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Количество мест должно быть > 0",
		},
		{
			name:    "group capacity out of integer range",
			path:    "/admin/add_group",
			form:    url.Values{"name": {"Сальса"}, "direction_id": {"1"}, "teacher_id": {"2"}, "capacity": {"3000000000"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Количество мест должно быть > 0",
		},
		{
			name:    "group without teacher",
			path:    "/admin/add_group",
			form:    url.Values{"name": {"Сальса"}, "direction_id": {"1"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Заполните название, направление и преподавателя",
		},
		{
			name:     "lesson with default duration",
			path:     "/admin/add_lesson",
			form:     url.Values{"group_id": {"3"}, "start_dt": {"2026-10-20T19:00"}},
			status:   fiber.StatusSeeOther,
			location: "/lessons",
			check: func(t *testing.T, ta *testApp) {
				require.NotNil(t, ta.catalog.lesson)
				assert.Nil(t, ta.catalog.lesson.DurationMinutes)
				assert.Equal(t, "2026-10-20T19:00", ta.catalog.lesson.Start)
			},
		},
		{
			name:     "lesson with duration",
			path:     "/admin/add_lesson",
			form:     url.Values{"group_id": {"3"}, "start_dt": {"2026-10-20T19:00"}, "duration": {"90"}},
			status:   fiber.StatusSeeOther,
			location: "/lessons",
			check: func(t *testing.T, ta *testApp) {
				require.NotNil(t, ta.catalog.lesson.DurationMinutes)
				assert.Equal(t, 90, *ta.catalog.lesson.DurationMinutes)
			},
		},
		{
			name:    "lesson with negative duration",
			path:    "/admin/add_lesson",
			form:    url.Values{"group_id": {"3"}, "start_dt": {"2026-10-20T19:00"}, "duration": {"-5"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Длительность должна быть > 0",
		},
		{
			name:     "abonement with comma price",
			path:     "/admin/add_abonement",
			form:     url.Values{"name": {"Восемь"}, "price": {"1500,5"}, "sessions": {"8"}},
			status:   fiber.StatusSeeOther,
			location: "/abonements",
			check: func(t *testing.T, ta *testApp) {
				require.NotNil(t, ta.catalog.abonement)
				assert.Equal(t, int64(150050), ta.catalog.abonement.PriceKopecks)
				assert.Equal(t, 8, ta.catalog.abonement.Sessions)
			},
		},
		{
			name:    "abonement with zero sessions",
			path:    "/admin/add_abonement",
			form:    url.Values{"name": {"Ноль"}, "price": {"100"}, "sessions": {"0"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Количество занятий должно быть > 0",
		},
		{
			name:    "abonement with bad price",
			path:    "/admin/add_abonement",
			form:    url.Values{"name": {"Ноль"}, "price": {"дорого"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Неверная цена",
		},
		{
			name:     "abonement edit",
			path:     "/admin/edit_abonement/3",
			form:     url.Values{"name": {"Разовое"}, "price": {"800"}},
			status:   fiber.StatusSeeOther,
			location: "/abonements",
			check: func(t *testing.T, ta *testApp) {
				assert.Equal(t, int64(3), ta.catalog.updatedID)
				assert.Equal(t, int64(80000), ta.catalog.abonement.PriceKopecks)
				assert.Zero(t, ta.catalog.abonement.Sessions)
			},
		},
		{
			name:     "payment",
			path:     "/admin/add_payment",
			form:     url.Values{"student_id": {"2"}, "amount": {"2000"}, "note": {"октябрь"}},
			status:   fiber.StatusSeeOther,
			location: "/admin/students",
			check: func(t *testing.T, ta *testApp) {
				require.Len(t, ta.roster.payments, 1)
				assert.Equal(t, int64(200000), ta.roster.payments[0].AmountKopecks)
				assert.Equal(t, "октябрь", ta.roster.payments[0].Note)
			},
		},
		{
			name:    "payment too large",
			path:    "/admin/add_payment",
			form:    url.Values{"student_id": {"2"}, "amount": {"1e17"}},
			status:  fiber.StatusUnprocessableEntity,
			errText: "Неверная сумма",
		},
		{
			name:     "student with group",
			path:     "/admin/add_student",
			form:     url.Values{"name": {"Борис"}, "email": {"boris@example.com"}, "password": {"x"}, "group_id": {"4"}},
			status:   fiber.StatusSeeOther,
			location: "/admin",
			check: func(t *testing.T, ta *testApp) {
				require.Len(t, ta.auth.registered, 1)
				require.NotNil(t, ta.auth.registered[0].GroupID)
				assert.Equal(t, int64(4), *ta.auth.registered[0].GroupID)
			},
		},
		{
			name:     "student delete",
			path:     "/admin/student/9/delete",
			form:     url.Values{},
			status:   fiber.StatusSeeOther,
			location: "/admin/students",
			check: func(t *testing.T, ta *testApp) {
				assert.Equal(t, []int64{9}, ta.roster.deleted)
			},
		},
		{
			name:     "attendance toggle",
			path:     "/admin/mark_attendance/5",
			form:     url.Values{},
			status:   fiber.StatusSeeOther,
			location: "/admin/students",
		},
		{
			name:   "attendance toggle unknown booking",
			path:   "/admin/mark_attendance/99",
			form:   url.Values{},
			status: fiber.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestApp()
			ta.auth.add(1, "admin@studio.local", model.RoleAdmin)
			admin := ta.client(t)
			admin.login("admin@studio.local")

			status, location, payload := admin.do("POST", tc.path, tc.form)
			assert.Equal(t, tc.status, status)
			if tc.location != "" {
				assert.Equal(t, tc.location, location)
			}
			if tc.errText != "" {
				assert.Equal(t, tc.errText, payload["error"])
				assert.Nil(t, ta.catalog.group)
				assert.Nil(t, ta.catalog.lesson)
				assert.Nil(t, ta.catalog.abonement)
				assert.Empty(t, ta.roster.payments)
			}
			if tc.check != nil {
				tc.check(t, ta)
			}
		})
	}
}

func TestAdminForms_DomainErrorsRedirectBack(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "admin@studio.local", model.RoleAdmin)
	ta.catalog.createErr = service.ErrGroupNotFound
	ta.roster.deleteErr = service.ErrStudentNotFound
	admin := ta.client(t)
	admin.login("admin@studio.local")

	status, location, _ := admin.do("POST", "/admin/add_lesson", url.Values{"group_id": {"3"}, "start_dt": {"2026-10-20T19:00"}})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/admin/add_lesson", location)

	status, location, _ = admin.do("POST", "/admin/student/9/delete", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, status)
	assert.Equal(t, "/admin/students", location)

	_, _, payload := admin.do("GET", "/admin/students", nil)
	assert.Equal(t, []string{"Группа не найдена", "Студент не найден"}, flashMessages(payload))
}

func TestAbonementsAndPaymentsAreFormatted(t *testing.T) {
	ta := newTestApp()
	ta.auth.add(1, "alice@example.com", model.RoleStudent)
	c := ta.client(t)

	_, _, payload := c.do("GET", "/abonements", nil)
	list, _ := payload["abonements"].([]any)
	require.Len(t, list, 2)
	first, _ := list[0].(map[string]any)
	second, _ := list[1].(map[string]any)
	assert.Equal(t, "800 ₽", first["price_text"])
	assert.Equal(t, "1 занятие", first["sessions_text"])
	assert.Equal(t, "Разовое", first["name"])
	assert.Equal(t, "5000.50 ₽", second["price_text"])
	assert.Equal(t, "8 занятий", second["sessions_text"])

	c.login("alice@example.com")
	_, _, payload = c.do("GET", "/me", nil)
	payments, _ := payload["payments"].([]any)
	require.Len(t, payments, 1)
	payment, _ := payments[0].(map[string]any)
	assert.Equal(t, "3500 ₽", payment["amount_text"])
	assert.EqualValues(t, 350000, payment["amount_kopecks"])
}
