package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rezerv/internal/bookings/errors"
	bookingsvalidator "rezerv/internal/bookings/validator"
	resourceserrors "rezerv/internal/resources/errors"
	userserrors "rezerv/internal/users/errors"
	"rezerv/pkg/config"
	mongotx "rezerv/pkg/db/mongo"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/logger"
	"rezerv/pkg/model"
)

const (
	testBookingID  = "65a1f2b3c4d5e6f708192a3b"
	testUserID     = "65a1f2b3c4d5e6f708192a3c"
	testResourceID = "65a1f2b3c4d5e6f708192a3d"
	otherUserID    = "65a1f2b3c4d5e6f708192a3e"
)

var (
	testStart = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

type mockBookingRepository struct {
	createFn            func(ctx context.Context, booking *model.Booking) error
	findByIDFn          func(ctx context.Context, id string) (*model.Booking, error)
	findAllFn           func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFn             func(ctx context.Context) (int64, error)
	findByUserFn        func(ctx context.Context, userID string) ([]*model.Booking, error)
	overlapByResourceFn func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error)
	overlapByUserFn     func(ctx context.Context, userID string, start, end time.Time) ([]*model.Booking, error)
	updateStatusFn      func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error)
	executeTxFn         func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindApprovedOverlappingByResource(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
	if m.overlapByResourceFn != nil {
		return m.overlapByResourceFn(ctx, resourceID, start, end)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindApprovedOverlappingByUser(ctx context.Context, userID string, start, end time.Time) ([]*model.Booking, error) {
	if m.overlapByUserFn != nil {
		return m.overlapByUserFn(ctx, userID, start, end)
	}
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTxFn != nil {
		return m.executeTxFn(ctx, fn)
	}
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepository struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired []string
	released []string
	failOn   map[string]bool
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{
		held:   make(map[string]bool),
		failOn: make(map[string]bool),
	}
}

func (m *mockLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.ApprovalLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[lockID] || m.held[lockID] {
		return nil, bookingserrors.ErrLockHeld
	}
	m.held[lockID] = true
	m.acquired = append(m.acquired, lockID)
	return &model.ApprovalLock{ID: lockID}, nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	m.released = append(m.released, lockID)
	return nil
}

type mockUserRepository struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.User{ID: id, Name: "Test User", Email: "test@example.com", Role: model.RoleUser}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

type mockResourceRepository struct {
	createFn   func(ctx context.Context, resource *model.Resource) error
	findByIDFn func(ctx context.Context, id string) (*model.Resource, error)
	findAllFn  func(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	countFn    func(ctx context.Context) (int64, error)
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if m.createFn != nil {
		return m.createFn(ctx, resource)
	}
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.Resource{ID: id, Name: "Room A", Active: true}, nil
}

func (m *mockResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockResourceRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *mockNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recipient+": "+subject)
	return m.err
}

type serviceFixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	users     *mockUserRepository
	resources *mockResourceRepository
	notifier  *mockNotifier
	service   BookingService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      &mockBookingRepository{},
		locks:     newMockLockRepository(),
		users:     &mockUserRepository{},
		resources: &mockResourceRepository{},
		notifier:  &mockNotifier{},
	}
	cfg := &config.Config{
		Log:             logger.Discard(),
		ApprovalLockTTL: 10 * time.Second,
	}
	f.service = NewBookingService(cfg, f.repo, f.locks, f.users, f.resources,
		bookingsvalidator.NewBookingValidator(cfg.Log), f.notifier)
	return f
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:         testBookingID,
		UserID:     testUserID,
		ResourceID: testResourceID,
		StartTime:  testStart,
		EndTime:    testEnd,
		Status:     model.StatusPending,
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		ResourceID: testResourceID,
		StartTime:  testStart,
		EndTime:    testEnd,
		Purpose:    "team sync",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected error code %s, got: %v", code, err)
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("creates pending booking", func(t *testing.T) {
		f := newServiceFixture()

		booking, err := f.service.Create(context.Background(), testUserID, validRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusPending {
			t.Errorf("expected status PENDING, got %s", booking.Status)
		}
		if booking.UserID != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, booking.UserID)
		}
		if booking.ID == "" {
			t.Error("expected an assigned id")
		}
	})

	t.Run("rejects missing resource id", func(t *testing.T) {
		f := newServiceFixture()
		req := validRequest()
		req.ResourceID = ""

		_, err := f.service.Create(context.Background(), testUserID, req)
		assertCode(t, err, apperrors.CodeValidation)
	})

	t.Run("rejects zero length interval", func(t *testing.T) {
		f := newServiceFixture()
		req := validRequest()
		req.EndTime = req.StartTime

		_, err := f.service.Create(context.Background(), testUserID, req)
		assertCode(t, err, apperrors.CodeInvalidInterval)
	})

	t.Run("rejects inverted interval", func(t *testing.T) {
		f := newServiceFixture()
		req := validRequest()
		req.StartTime, req.EndTime = req.EndTime, req.StartTime

		_, err := f.service.Create(context.Background(), testUserID, req)
		assertCode(t, err, apperrors.CodeInvalidInterval)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newServiceFixture()
		f.users.findByIDFn = func(ctx context.Context, id string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		}

		_, err := f.service.Create(context.Background(), testUserID, validRequest())
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newServiceFixture()
		f.resources.findByIDFn = func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotFound
		}

		_, err := f.service.Create(context.Background(), testUserID, validRequest())
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("inactive resource", func(t *testing.T) {
		f := newServiceFixture()
		f.resources.findByIDFn = func(ctx context.Context, id string) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Room A", Active: false}, nil
		}

		_, err := f.service.Create(context.Background(), testUserID, validRequest())
		assertCode(t, err, apperrors.CodeInvalidInput)
	})

	t.Run("approved booking already holds the slot", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.overlapByResourceFn = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
			approved := pendingBooking()
			approved.Status = model.StatusApproved
			return []*model.Booking{approved}, nil
		}

		_, err := f.service.Create(context.Background(), otherUserID, validRequest())
		assertCode(t, err, apperrors.CodeResourceConflict)
	})

	t.Run("user already approved elsewhere in the slot", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.overlapByUserFn = func(ctx context.Context, userID string, start, end time.Time) ([]*model.Booking, error) {
			approved := pendingBooking()
			approved.Status = model.StatusApproved
			return []*model.Booking{approved}, nil
		}

		_, err := f.service.Create(context.Background(), testUserID, validRequest())
		assertCode(t, err, apperrors.CodeUserConflict)
	})

	t.Run("overlapping pending requests both accepted", func(t *testing.T) {
		f := newServiceFixture()

		first, err := f.service.Create(context.Background(), testUserID, validRequest())
		if err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		second, err := f.service.Create(context.Background(), otherUserID, validRequest())
		if err != nil {
			t.Fatalf("second create failed: %v", err)
		}
		if first.Status != model.StatusPending || second.Status != model.StatusPending {
			t.Error("both overlapping requests should be accepted as PENDING")
		}
	})
}

func TestApproveBooking(t *testing.T) {
	t.Run("approves pending booking and notifies owner", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			if from != model.StatusPending || to != model.StatusApproved {
				t.Errorf("expected PENDING->APPROVED, got %s->%s", from, to)
			}
			b := pendingBooking()
			b.Status = to
			return b, nil
		}

		booking, err := f.service.Approve(context.Background(), testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusApproved {
			t.Errorf("expected status APPROVED, got %s", booking.Status)
		}
		if len(f.locks.acquired) != 2 || len(f.locks.released) != 2 {
			t.Errorf("expected both locks acquired and released, got acquired=%v released=%v",
				f.locks.acquired, f.locks.released)
		}
		if len(f.notifier.calls) != 1 {
			t.Errorf("expected one notification, got %d", len(f.notifier.calls))
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("already approved", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = model.StatusApproved
			return b, nil
		}

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeInvalidTransition)
		if len(f.locks.acquired) != 0 {
			t.Error("no locks should be taken for an invalid transition")
		}
	})

	t.Run("resource lock held", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.locks.failOn["approval_resource_"+testResourceID] = true

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeConflict)
		if len(f.locks.acquired) != 0 {
			t.Errorf("no lock should remain acquired, got %v", f.locks.acquired)
		}
	})

	t.Run("user lock held releases resource lock", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.locks.failOn["approval_user_"+testUserID] = true

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeConflict)
		if len(f.locks.held) != 0 {
			t.Errorf("resource lock should have been released, held=%v", f.locks.held)
		}
	})

	t.Run("re-check finds resource conflict", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.overlapByResourceFn = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
			winner := pendingBooking()
			winner.ID = "65a1f2b3c4d5e6f708192aff"
			winner.Status = model.StatusApproved
			return []*model.Booking{winner}, nil
		}
		updateCalled := false
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			updateCalled = true
			return nil, nil
		}

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeResourceConflict)
		if updateCalled {
			t.Error("status must not be written when the re-check fails")
		}
		if len(f.locks.held) != 0 {
			t.Errorf("locks should be released on failure, held=%v", f.locks.held)
		}
	})

	t.Run("re-check finds user conflict", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.overlapByUserFn = func(ctx context.Context, userID string, start, end time.Time) ([]*model.Booking, error) {
			winner := pendingBooking()
			winner.ID = "65a1f2b3c4d5e6f708192aff"
			winner.Status = model.StatusApproved
			return []*model.Booking{winner}, nil
		}

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeUserConflict)
	})

	t.Run("status moved between fetch and transaction", func(t *testing.T) {
		f := newServiceFixture()
		calls := 0
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			b := pendingBooking()
			if calls > 1 {
				b.Status = model.StatusRejected
			}
			return b, nil
		}

		_, err := f.service.Approve(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	})

	t.Run("notification failure does not fail approval", func(t *testing.T) {
		f := newServiceFixture()
		f.notifier.err = context.DeadlineExceeded
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = to
			return b, nil
		}

		booking, err := f.service.Approve(context.Background(), testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusApproved {
			t.Errorf("expected APPROVED, got %s", booking.Status)
		}
	})
}

// Two overlapping PENDING bookings on the same resource approved
// concurrently: exactly one wins, the other sees lock contention or the
// transactional re-check.
func TestConcurrentApprovalSingleWinner(t *testing.T) {
	firstID := "65a1f2b3c4d5e6f708192b01"
	secondID := "65a1f2b3c4d5e6f708192b02"

	var mu sync.Mutex
	bookings := map[string]*model.Booking{
		firstID:  {ID: firstID, UserID: testUserID, ResourceID: testResourceID, StartTime: testStart, EndTime: testEnd, Status: model.StatusPending},
		secondID: {ID: secondID, UserID: otherUserID, ResourceID: testResourceID, StartTime: testStart, EndTime: testEnd, Status: model.StatusPending},
	}

	f := newServiceFixture()
	f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		mu.Lock()
		defer mu.Unlock()
		b, ok := bookings[id]
		if !ok {
			return nil, bookingserrors.ErrNotFound
		}
		copied := *b
		return &copied, nil
	}
	f.repo.overlapByResourceFn = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
		mu.Lock()
		defer mu.Unlock()
		var out []*model.Booking
		for _, b := range bookings {
			if b.ResourceID == resourceID && b.Status == model.StatusApproved && b.Overlaps(start, end) {
				copied := *b
				out = append(out, &copied)
			}
		}
		return out, nil
	}
	f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
		mu.Lock()
		defer mu.Unlock()
		b, ok := bookings[id]
		if !ok || b.Status != from {
			return nil, bookingserrors.ErrNotFound
		}
		b.Status = to
		copied := *b
		return &copied, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{firstID, secondID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.service.Approve(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !apperrors.IsCode(err, apperrors.CodeConflict) &&
			!apperrors.IsCode(err, apperrors.CodeResourceConflict) {
			t.Errorf("loser should see lock or resource conflict, got: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one approval to win, got %d", successes)
	}

	approved := 0
	for _, b := range bookings {
		if b.Status == model.StatusApproved {
			approved++
		}
	}
	if approved != 1 {
		t.Fatalf("expected exactly one APPROVED booking, got %d", approved)
	}
}

func TestRejectBooking(t *testing.T) {
	t.Run("rejects pending booking and notifies owner", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			if from != model.StatusPending || to != model.StatusRejected {
				t.Errorf("expected PENDING->REJECTED, got %s->%s", from, to)
			}
			b := pendingBooking()
			b.Status = to
			return b, nil
		}

		booking, err := f.service.Reject(context.Background(), testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusRejected {
			t.Errorf("expected REJECTED, got %s", booking.Status)
		}
		if len(f.notifier.calls) != 1 {
			t.Errorf("expected one notification, got %d", len(f.notifier.calls))
		}
	})

	t.Run("cannot reject approved booking", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = model.StatusApproved
			return b, nil
		}

		_, err := f.service.Reject(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	})

	t.Run("not found", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.Reject(context.Background(), testBookingID)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("owner cancels pending booking", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			if from != model.StatusPending || to != model.StatusCancelled {
				t.Errorf("expected PENDING->CANCELLED, got %s->%s", from, to)
			}
			b := pendingBooking()
			b.Status = to
			return b, nil
		}

		booking, err := f.service.Cancel(context.Background(), testBookingID, testUserID, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusCancelled {
			t.Errorf("expected CANCELLED, got %s", booking.Status)
		}
	})

	t.Run("admin cancels approved booking of another user", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = model.StatusApproved
			return b, nil
		}
		f.repo.updateStatusFn = func(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
			if from != model.StatusApproved {
				t.Errorf("expected transition from APPROVED, got %s", from)
			}
			b := pendingBooking()
			b.Status = to
			return b, nil
		}

		_, err := f.service.Cancel(context.Background(), testBookingID, otherUserID, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		}

		_, err := f.service.Cancel(context.Background(), testBookingID, otherUserID, false)
		assertCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("cancelled booking stays cancelled", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = model.StatusCancelled
			return b, nil
		}

		_, err := f.service.Cancel(context.Background(), testBookingID, testUserID, false)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	})

	t.Run("rejected booking cannot be cancelled", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking()
			b.Status = model.StatusRejected
			return b, nil
		}

		_, err := f.service.Cancel(context.Background(), testBookingID, testUserID, false)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	})
}

func TestCheckAvailability(t *testing.T) {
	t.Run("free slot", func(t *testing.T) {
		f := newServiceFixture()

		available, err := f.service.CheckAvailability(context.Background(), testResourceID, testStart, testEnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !available {
			t.Error("expected resource to be available")
		}
	})

	t.Run("occupied slot", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.overlapByResourceFn = func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
			approved := pendingBooking()
			approved.Status = model.StatusApproved
			return []*model.Booking{approved}, nil
		}

		available, err := f.service.CheckAvailability(context.Background(), testResourceID, testStart, testEnd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if available {
			t.Error("expected resource to be unavailable")
		}
	})

	t.Run("invalid interval", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.CheckAvailability(context.Background(), testResourceID, testEnd, testStart)
		assertCode(t, err, apperrors.CodeInvalidInterval)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newServiceFixture()
		f.resources.findByIDFn = func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceserrors.ErrNotFound
		}

		_, err := f.service.CheckAvailability(context.Background(), testResourceID, testStart, testEnd)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestGetAllBookings(t *testing.T) {
	t.Run("returns page and total", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findAllFn = func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{pendingBooking()}, nil
		}
		f.repo.countFn = func(ctx context.Context) (int64, error) {
			return 7, nil
		}

		bookings, total, err := f.service.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(bookings) != 1 {
			t.Errorf("expected 1 booking, got %d", len(bookings))
		}
		if total != 7 {
			t.Errorf("expected total 7, got %d", total)
		}
	})

	t.Run("find failure", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.findAllFn = func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			return nil, context.DeadlineExceeded
		}

		_, _, err := f.service.GetAll(context.Background(), 10, 0)
		assertCode(t, err, apperrors.CodeInternal)
	})
}
