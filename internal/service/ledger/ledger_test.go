package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/darkside779/attendance/internal/entity"
)

// memoryStore serializes transactions with a mutex, which mirrors the
// row-level locking the database store relies on.
type memoryStore struct {
	mu      sync.Mutex
	nextID  int
	records map[int]*entity.Attendance
	mods    []entity.AttendanceModification
	active  int
}

func newMemoryStore(activeEmployees int) *memoryStore {
	return &memoryStore{
		nextID:  1,
		records: make(map[int]*entity.Attendance),
		active:  activeEmployees,
	}
}

func (s *memoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &memoryTx{store: s}
	if err := fn(staged); err != nil {
		return err
	}
	staged.commit()
	return nil
}

func (s *memoryStore) ListByDay(ctx context.Context, workDay string) ([]entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Attendance
	for _, r := range s.records {
		if r.WorkDay == workDay {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memoryStore) CountActiveEmployees(ctx context.Context) (int, error) {
	return s.active, nil
}

// memoryTx buffers writes so a returned error leaves the store untouched,
// matching database rollback behavior.
type memoryTx struct {
	store   *memoryStore
	inserts []*entity.Attendance
	updates []*entity.Attendance
	mods    []*entity.AttendanceModification
}

func (tx *memoryTx) GetForUpdate(ctx context.Context, employeeID int, workDay string) (*entity.Attendance, error) {
	for _, r := range tx.store.records {
		if r.EmployeeID == employeeID && r.WorkDay == workDay {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (tx *memoryTx) GetByID(ctx context.Context, id int) (*entity.Attendance, error) {
	r, ok := tx.store.records[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (tx *memoryTx) Insert(ctx context.Context, record *entity.Attendance) error {
	tx.inserts = append(tx.inserts, record)
	return nil
}

func (tx *memoryTx) Update(ctx context.Context, record *entity.Attendance) error {
	tx.updates = append(tx.updates, record)
	return nil
}

func (tx *memoryTx) AppendModification(ctx context.Context, mod *entity.AttendanceModification) error {
	tx.mods = append(tx.mods, mod)
	return nil
}

func (tx *memoryTx) commit() {
	for _, r := range tx.inserts {
		r.ID = tx.store.nextID
		tx.store.nextID++
		clone := *r
		tx.store.records[r.ID] = &clone
	}
	for _, r := range tx.updates {
		clone := *r
		tx.store.records[r.ID] = &clone
	}
	for _, m := range tx.mods {
		m.ID = len(tx.store.mods) + 1
		tx.store.mods = append(tx.store.mods, *m)
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("parsing %q: %v", value, err)
	}
	return ts
}

func TestCheckInThenCheckOut(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	in := mustTime(t, "2026-03-02 09:00:00")
	record, err := l.CheckIn(ctx, 1, in)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if record.Status != entity.StatusCheckedIn {
		t.Errorf("status = %q, want %q", record.Status, entity.StatusCheckedIn)
	}
	if record.WorkDay != "2026-03-02" {
		t.Errorf("work day = %q, want 2026-03-02", record.WorkDay)
	}

	out := mustTime(t, "2026-03-02 17:30:00")
	record, err = l.CheckOut(ctx, 1, out)
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if record.Status != entity.StatusCheckedOut {
		t.Errorf("status = %q, want %q", record.Status, entity.StatusCheckedOut)
	}
	if record.TotalHours == nil || *record.TotalHours != 8.5 {
		t.Errorf("total hours = %v, want 8.5", record.TotalHours)
	}
}

func TestCheckInTwiceSameDay(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	_, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 13:00:00"))
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("second check-in error = %v, want ErrAlreadyCheckedIn", err)
	}
	if n := len(store.records); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)

	_, err := l.CheckOut(context.Background(), 1, mustTime(t, "2026-03-02 17:00:00"))
	if !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("error = %v, want ErrNotCheckedIn", err)
	}
	if len(store.records) != 0 {
		t.Error("rejected check-out mutated the store")
	}
}

func TestCheckOutTwice(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 17:00:00")); err != nil {
		t.Fatalf("check-out: %v", err)
	}
	_, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 18:00:00"))
	if !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("second check-out error = %v, want ErrNotCheckedIn", err)
	}
}

func TestCheckOutBeforeCheckIn(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	_, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 08:00:00"))
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("error = %v, want ErrInvalidOrdering", err)
	}

	record := store.records[1]
	if record.CheckOut != nil || record.Status != entity.StatusCheckedIn {
		t.Error("rejected check-out mutated the record")
	}
}

func TestNewDayNewRecord(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("day one check-in: %v", err)
	}
	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-03 09:05:00")); err != nil {
		t.Fatalf("day two check-in: %v", err)
	}
	if n := len(store.records); n != 2 {
		t.Errorf("records = %d, want 2", n)
	}
}

func TestConcurrentCheckInExactlyOneWins(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ts := mustTime(t, "2026-03-02 09:00:00")

	const attempts = 16
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.CheckIn(context.Background(), 1, ts)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyCheckedIn):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful check-ins = %d, want exactly 1", ok)
	}
	if dup != attempts-1 {
		t.Errorf("duplicate rejections = %d, want %d", dup, attempts-1)
	}
	if n := len(store.records); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

// unlockedStore lets every transaction pass GetForUpdate before any insert
// lands, the interleaving a fresh employee-day allows: the row that would
// be locked does not exist yet. Only its unique index stops the duplicate,
// reported the way the database store translates it.
type unlockedStore struct {
	mu      sync.Mutex
	records map[dayKey]*entity.Attendance
}

type dayKey struct {
	employeeID int
	workDay    string
}

func (s *unlockedStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return fn(unlockedTx{store: s})
}

func (s *unlockedStore) ListByDay(ctx context.Context, workDay string) ([]entity.Attendance, error) {
	return nil, nil
}

func (s *unlockedStore) CountActiveEmployees(ctx context.Context) (int, error) {
	return 0, nil
}

type unlockedTx struct {
	store *unlockedStore
}

func (tx unlockedTx) GetForUpdate(ctx context.Context, employeeID int, workDay string) (*entity.Attendance, error) {
	return nil, nil
}

func (tx unlockedTx) GetByID(ctx context.Context, id int) (*entity.Attendance, error) {
	return nil, nil
}

func (tx unlockedTx) Insert(ctx context.Context, record *entity.Attendance) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	key := dayKey{employeeID: record.EmployeeID, workDay: record.WorkDay}
	if _, ok := tx.store.records[key]; ok {
		return ErrAlreadyCheckedIn
	}
	tx.store.records[key] = record
	return nil
}

func (tx unlockedTx) Update(ctx context.Context, record *entity.Attendance) error {
	return nil
}

func (tx unlockedTx) AppendModification(ctx context.Context, mod *entity.AttendanceModification) error {
	return nil
}

func TestCheckInRaceOnFreshDayLoserSeesAlreadyCheckedIn(t *testing.T) {
	store := &unlockedStore{records: make(map[dayKey]*entity.Attendance)}
	l := New(store)
	ts := mustTime(t, "2026-03-02 09:00:00")

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.CheckIn(context.Background(), 1, ts)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyCheckedIn):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful check-ins = %d, want exactly 1", ok)
	}
	if dup != attempts-1 {
		t.Errorf("losers observing already-checked-in = %d, want %d", dup, attempts-1)
	}
	if n := len(store.records); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

func TestModificationRequiresReason(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	_, err := l.ApplyModification(ctx, 1, "check_in", "2026-03-02T08:45", "  ", 99)
	if !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("error = %v, want ErrEmptyReason", err)
	}
	if len(store.mods) != 0 {
		t.Error("rejected modification left an audit entry")
	}
}

func TestModificationRejectsUnknownField(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	for _, field := range []string{"employee_id", "work_day", "total_hours", "id"} {
		_, err := l.ApplyModification(ctx, 1, field, "7", "fix", 99)
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("field %q: error = %v, want ErrInvalidField", field, err)
		}
	}
}

func TestModificationRecomputesHours(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 17:00:00")); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	mod, err := l.ApplyModification(ctx, 1, "check_out", "2026-03-02T18:15", "forgot to badge out", 99)
	if err != nil {
		t.Fatalf("modification: %v", err)
	}
	if mod.OldValue == nil || *mod.OldValue != "2026-03-02 17:00:00" {
		t.Errorf("old value = %v, want 2026-03-02 17:00:00", mod.OldValue)
	}

	record := store.records[1]
	if record.TotalHours == nil || *record.TotalHours != 9.25 {
		t.Errorf("recomputed hours = %v, want 9.25", record.TotalHours)
	}
}

func TestModificationOrderingStillEnforced(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 17:00:00")); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	_, err := l.ApplyModification(ctx, 1, "check_in", "2026-03-02T18:00", "typo", 99)
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("error = %v, want ErrInvalidOrdering", err)
	}

	record := store.records[1]
	if record.CheckIn == nil || record.CheckIn.Hour() != 9 {
		t.Error("rejected modification mutated check-in")
	}
	if len(store.mods) != 0 {
		t.Error("rejected modification left an audit entry")
	}
}

func TestClearingCheckOutReopensDay(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 17:00:00")); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	if _, err := l.ApplyModification(ctx, 1, "check_out", "", "badged out by mistake", 99); err != nil {
		t.Fatalf("clearing check-out: %v", err)
	}

	record := store.records[1]
	if record.CheckOut != nil || record.TotalHours != nil {
		t.Error("check-out was not cleared")
	}
	if record.Status != entity.StatusCheckedIn {
		t.Errorf("status = %q, want %q", record.Status, entity.StatusCheckedIn)
	}

	if _, err := l.CheckOut(ctx, 1, mustTime(t, "2026-03-02 18:00:00")); err != nil {
		t.Fatalf("re-check-out after reopen: %v", err)
	}
}

func TestAuditTrailAppendsPerEdit(t *testing.T) {
	store := newMemoryStore(5)
	l := New(store)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, 1, mustTime(t, "2026-03-02 09:00:00")); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	edits := []struct {
		field, value string
	}{
		{"notes", "arrived by train"},
		{"status", entity.StatusLate},
		{"check_in", "2026-03-02T09:20"},
	}
	for _, e := range edits {
		if _, err := l.ApplyModification(ctx, 1, e.field, e.value, "correction", 99); err != nil {
			t.Fatalf("modifying %s: %v", e.field, err)
		}
	}

	if n := len(store.mods); n != len(edits) {
		t.Fatalf("audit entries = %d, want %d", n, len(edits))
	}
	for i, e := range edits {
		if store.mods[i].FieldChanged != e.field {
			t.Errorf("entry %d field = %q, want %q", i, store.mods[i].FieldChanged, e.field)
		}
		if store.mods[i].ModifiedBy != 99 {
			t.Errorf("entry %d modified_by = %d, want 99", i, store.mods[i].ModifiedBy)
		}
	}
}

func TestSummaryForDate(t *testing.T) {
	store := newMemoryStore(10)
	l := New(store)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		if _, err := l.CheckIn(ctx, id, mustTime(t, "2026-03-02 09:00:00")); err != nil {
			t.Fatalf("check-in %d: %v", id, err)
		}
	}
	if _, err := l.CheckOut(ctx, 3, mustTime(t, "2026-03-02 17:00:00")); err != nil {
		t.Fatalf("check-out: %v", err)
	}
	// A different day must not leak into the summary.
	if _, err := l.CheckIn(ctx, 4, mustTime(t, "2026-03-03 09:00:00")); err != nil {
		t.Fatalf("next-day check-in: %v", err)
	}

	summary, err := l.SummaryForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	want := Summary{TotalEmployees: 10, Present: 3, Absent: 7, StillIn: 2, CheckedOut: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestTotalHoursRounding(t *testing.T) {
	tests := []struct {
		in, out string
		want    float64
	}{
		{"2026-03-02 09:00:00", "2026-03-02 17:00:00", 8},
		{"2026-03-02 09:00:00", "2026-03-02 17:20:00", 8.33},
		{"2026-03-02 09:00:00", "2026-03-02 09:00:30", 0.01},
		{"2026-03-02 09:00:00", "2026-03-02 09:00:00", 0},
	}
	for _, tc := range tests {
		got := TotalHours(mustTime(t, tc.in), mustTime(t, tc.out))
		if got != tc.want {
			t.Errorf("TotalHours(%s, %s) = %v, want %v", tc.in, tc.out, got, tc.want)
		}
	}
}
