package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/notify"
	"github.com/Freeeeeet/studio_booking/internal/repository"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
	"go.uber.org/zap"
)

// memDB - хранилище в памяти для тестов сервисов.
// RunInTx берёт общий мьютекс, что повторяет блокировку строки занятия.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID int64

	accounts   map[int64]*model.Account
	students   map[int64]*model.Student
	teachers   map[int64]*model.Teacher
	directions map[int64]*model.Direction
	groups     map[int64]*model.Group
	lessons    map[int64]*model.Lesson
	bookings   map[int64]*model.Booking
	payments   map[int64]*model.Payment
	abonements map[int64]*model.Abonement

	// createErr возвращается из bookings.Create, если задан
	createErr error
	// delay перед вставкой записи, чтобы конкурентные вызовы пересекались
	delay time.Duration
}

func newMemDB() *memDB {
	return &memDB{
		accounts:   map[int64]*model.Account{},
		students:   map[int64]*model.Student{},
		teachers:   map[int64]*model.Teacher{},
		directions: map[int64]*model.Direction{},
		groups:     map[int64]*model.Group{},
		lessons:    map[int64]*model.Lesson{},
		bookings:   map[int64]*model.Booking{},
		payments:   map[int64]*model.Payment{},
		abonements: map[int64]*model.Abonement{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(ctx)
}

type memAccounts struct{ db *memDB }

func (r memAccounts) Create(_ context.Context, a *model.Account) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.accounts {
		if existing.Email == a.Email {
			return base.ErrUniqueViolation
		}
	}
	a.ID = r.db.id()
	a.CreatedAt = time.Now()
	cp := *a
	r.db.accounts[a.ID] = &cp
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id int64) (*model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a, ok := r.db.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

type memStudents struct{ db *memDB }

func (r memStudents) Create(_ context.Context, s *model.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s.ID = r.db.id()
	cp := *s
	r.db.students[s.ID] = &cp
	return nil
}

func (r memStudents) withAccount(s *model.Student) *model.Student {
	cp := *s
	if a, ok := r.db.accounts[s.AccountID]; ok {
		cp.Name = a.Name
		cp.Email = a.Email
	}
	return &cp
}

func (r memStudents) GetByID(_ context.Context, id int64) (*model.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.students[id]; ok {
		return r.withAccount(s), nil
	}
	return nil, nil
}

func (r memStudents) GetByAccountID(_ context.Context, accountID int64) (*model.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.students {
		if s.AccountID == accountID {
			return r.withAccount(s), nil
		}
	}
	return nil, nil
}

func (r memStudents) List(_ context.Context) ([]*model.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Student
	for _, s := range r.db.students {
		out = append(out, r.withAccount(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStudents) Count(_ context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.students), nil
}

func (r memStudents) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.students[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.db.students, id)
	delete(r.db.accounts, s.AccountID)
	for bid, b := range r.db.bookings {
		if b.StudentID == id {
			delete(r.db.bookings, bid)
		}
	}
	for pid, p := range r.db.payments {
		if p.StudentID == id {
			delete(r.db.payments, pid)
		}
	}
	return nil
}

type memTeachers struct{ db *memDB }

func (r memTeachers) Create(_ context.Context, t *model.Teacher) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t.ID = r.db.id()
	cp := *t
	r.db.teachers[t.ID] = &cp
	return nil
}

func (r memTeachers) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r memTeachers) GetByAccountID(_ context.Context, accountID int64) (*model.Teacher, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.teachers {
		if t.AccountID != nil && *t.AccountID == accountID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memTeachers) List(_ context.Context) ([]*model.Teacher, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Teacher
	for _, t := range r.db.teachers {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeachers) Count(_ context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.teachers), nil
}

type memDirections struct{ db *memDB }

func (r memDirections) Create(_ context.Context, d *model.Direction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d.ID = r.db.id()
	cp := *d
	r.db.directions[d.ID] = &cp
	return nil
}

func (r memDirections) GetByID(_ context.Context, id int64) (*model.Direction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if d, ok := r.db.directions[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r memDirections) List(_ context.Context) ([]*model.Direction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Direction
	for _, d := range r.db.directions {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memDirections) Count(_ context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.directions), nil
}

type memGroups struct{ db *memDB }

func (r memGroups) Create(_ context.Context, g *model.Group) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g.ID = r.db.id()
	cp := *g
	r.db.groups[g.ID] = &cp
	return nil
}

func (r memGroups) GetByID(_ context.Context, id int64) (*model.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if g, ok := r.db.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r memGroups) List(_ context.Context) ([]*model.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Group
	for _, g := range r.db.groups {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memGroups) ListByTeacherID(_ context.Context, teacherID int64) ([]*model.Group, error) {
	all, _ := r.List(context.Background())
	var out []*model.Group
	for _, g := range all {
		if g.TeacherID == teacherID {
			out = append(out, g)
		}
	}
	return out, nil
}

type memLessons struct{ db *memDB }

func (r memLessons) Create(_ context.Context, l *model.Lesson) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l.ID = r.db.id()
	cp := *l
	cp.Group = nil
	r.db.lessons[l.ID] = &cp
	return nil
}

func (r memLessons) withGroup(l *model.Lesson) *model.Lesson {
	cp := *l
	if g, ok := r.db.groups[l.GroupID]; ok {
		gc := *g
		cp.Group = &gc
	}
	return &cp
}

func (r memLessons) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if l, ok := r.db.lessons[id]; ok {
		return r.withGroup(l), nil
	}
	return nil, nil
}

func (r memLessons) GetForUpdate(ctx context.Context, id int64) (*model.Lesson, error) {
	return r.GetByID(ctx, id)
}

func (r memLessons) List(_ context.Context) ([]*model.Lesson, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Lesson
	for _, l := range r.db.lessons {
		out = append(out, r.withGroup(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r memLessons) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Lesson, error) {
	all, _ := r.List(ctx)
	var out []*model.Lesson
	for _, l := range all {
		if !l.StartAt.Before(from) && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLessons) ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.Lesson, error) {
	all, _ := r.List(ctx)
	var out []*model.Lesson
	for _, l := range all {
		if l.Group != nil && l.Group.TeacherID == teacherID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLessons) CountUpcoming(ctx context.Context, from time.Time) (int, error) {
	upcoming, _ := r.ListUpcoming(ctx, from, 1<<30)
	return len(upcoming), nil
}

type memBookings struct{ db *memDB }

func (r memBookings) Create(_ context.Context, b *model.Booking) error {
	if r.db.delay > 0 {
		time.Sleep(r.db.delay)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.createErr != nil {
		return r.db.createErr
	}
	b.ID = r.db.id()
	b.CreatedAt = time.Now()
	cp := *b
	r.db.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if b, ok := r.db.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r memBookings) GetByLessonAndStudent(_ context.Context, lessonID, studentID int64) (*model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.LessonID == lessonID && b.StudentID == studentID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memBookings) CountByLesson(_ context.Context, lessonID int64) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, b := range r.db.bookings {
		if b.LessonID == lessonID {
			n++
		}
	}
	return n, nil
}

func (r memBookings) ListByLesson(_ context.Context, lessonID int64) ([]*model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.db.bookings {
		if b.LessonID == lessonID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBookings) ListByStudent(_ context.Context, studentID int64) ([]*model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.db.bookings {
		if b.StudentID == studentID {
			cp := *b
			if l, ok := r.db.lessons[b.LessonID]; ok {
				lc := *l
				cp.Lesson = &lc
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lesson.StartAt.Before(out[j].Lesson.StartAt) })
	return out, nil
}

func (r memBookings) SetAttendance(_ context.Context, lessonID int64, present []int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	set := make(map[int64]bool, len(present))
	for _, id := range present {
		set[id] = true
	}
	for _, b := range r.db.bookings {
		if b.LessonID == lessonID {
			b.Attended = set[b.ID]
		}
	}
	return nil
}

func (r memBookings) ToggleAttended(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	b.Attended = !b.Attended
	return b.Attended, nil
}

func (r memBookings) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.bookings, id)
	return nil
}

type memPayments struct{ db *memDB }

func (r memPayments) Create(_ context.Context, p *model.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.id()
	p.CreatedAt = time.Now()
	cp := *p
	r.db.payments[p.ID] = &cp
	return nil
}

func (r memPayments) ListByStudent(_ context.Context, studentID int64) ([]*model.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.db.payments {
		if p.StudentID == studentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memAbonements struct{ db *memDB }

func (r memAbonements) Create(_ context.Context, a *model.Abonement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.id()
	cp := *a
	r.db.abonements[a.ID] = &cp
	return nil
}

func (r memAbonements) GetByID(_ context.Context, id int64) (*model.Abonement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a, ok := r.db.abonements[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r memAbonements) Update(_ context.Context, a *model.Abonement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.abonements[a.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *a
	r.db.abonements[a.ID] = &cp
	return nil
}

func (r memAbonements) List(_ context.Context) ([]*model.Abonement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*model.Abonement
	for _, a := range r.db.abonements {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, e notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

// fixture - связанный набор сервисов над memDB
type fixture struct {
	db         *memDB
	notifier   *recordingNotifier
	auth       *AuthService
	booking    *BookingService
	attendance *AttendanceService
	catalog    *CatalogService
	roster     *RosterService
	profile    *ProfileService
	now        time.Time
}

func newFixture() *fixture {
	db := newMemDB()
	logger := zap.NewNop()
	n := &recordingNotifier{}
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	f := &fixture{db: db, notifier: n, now: now}
	f.auth = NewAuthService(db, memAccounts{db}, memStudents{db}, memTeachers{db}, logger).WithHashCost(4)
	f.booking = NewBookingService(db, memStudents{db}, memLessons{db}, memBookings{db}, n, logger)
	f.booking.now = clock
	f.attendance = NewAttendanceService(memLessons{db}, memBookings{db}, logger)
	f.catalog = NewCatalogService(
		memDirections{db}, memTeachers{db}, memGroups{db}, memLessons{db},
		memBookings{db}, memAbonements{db}, time.UTC, logger,
	)
	f.catalog.now = clock
	f.roster = NewRosterService(memStudents{db}, memPayments{db}, logger)
	f.profile = NewProfileService(
		memDirections{db}, memTeachers{db}, memStudents{db}, memLessons{db},
		memBookings{db}, memPayments{db},
	)
	f.profile.now = clock
	return f
}

func (f *fixture) actor(accountID int64) *model.Actor {
	a, err := f.auth.ResolveActor(context.Background(), accountID)
	if err != nil || a == nil {
		panic("resolve actor")
	}
	return a
}

// student регистрирует студента и возвращает его актора
func (f *fixture) student(name, email string) *model.Actor {
	acc, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret"})
	if err != nil {
		panic(err)
	}
	return f.actor(acc.ID)
}

// teacher создаёт преподавателя и возвращает его актора
func (f *fixture) teacher(name, email string) (*model.Actor, *model.Teacher) {
	t, err := f.auth.CreateTeacher(context.Background(), TeacherInput{Name: name, Email: email, Password: "secret"})
	if err != nil {
		panic(err)
	}
	return f.actor(*t.AccountID), t
}

func (f *fixture) admin() *model.Actor {
	if err := f.auth.SeedAdmin(context.Background(), "admin@studio.local", "admin123", ""); err != nil {
		panic(err)
	}
	acc, _ := memAccounts{f.db}.GetByEmail(context.Background(), "admin@studio.local")
	return f.actor(acc.ID)
}

// lesson создаёт направление, группу заданной вместимости и занятие, начинающееся через startIn
func (f *fixture) lesson(teacherID int64, capacity int, startIn time.Duration) *model.Lesson {
	ctx := context.Background()
	d, err := f.catalog.CreateDirection(ctx, "Бачата", "")
	if err != nil {
		panic(err)
	}
	g, err := f.catalog.CreateGroup(ctx, GroupInput{
		Name:        "Бачата начинающие",
		DirectionID: d.ID,
		TeacherID:   teacherID,
		Capacity:    &capacity,
	})
	if err != nil {
		panic(err)
	}
	l := &model.Lesson{GroupID: g.ID, StartAt: f.now.Add(startIn), DurationMinutes: 60}
	if err := (memLessons{f.db}).Create(ctx, l); err != nil {
		panic(err)
	}
	return l
}
