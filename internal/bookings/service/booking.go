package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rezerv/internal/bookings/errors"
	"rezerv/internal/bookings/repository"
	bookingsvalidator "rezerv/internal/bookings/validator"
	"rezerv/internal/notifications"
	resourceserrors "rezerv/internal/resources/errors"
	resourcesrepo "rezerv/internal/resources/repository"
	userserrors "rezerv/internal/users/errors"
	usersrepo "rezerv/internal/users/repository"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/model"
)

// BookingService is the lifecycle engine. Bookings are created PENDING and
// only move along the transition table; approval is the serialization point
// where slots are actually claimed.
type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Approve(ctx context.Context, id string) (*model.Booking, error)
	Reject(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id, requesterID string, requesterIsAdmin bool) (*model.Booking, error)
	CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (bool, error)
}

type bookingService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	locks     repository.ApprovalLockRepository
	users     usersrepo.UserRepository
	resources resourcesrepo.ResourceRepository
	validator *bookingsvalidator.BookingValidator
	notifier  notifications.Notifier
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	locks repository.ApprovalLockRepository,
	users usersrepo.UserRepository,
	resources resourcesrepo.ResourceRepository,
	validator *bookingsvalidator.BookingValidator,
	notifier notifications.Notifier,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		repo:      repo,
		locks:     locks,
		users:     users,
		resources: resources,
		validator: validator,
		notifier:  notifier,
	}
}

// Create validates the request, confirms the user and resource exist, and
// persists the booking as PENDING. Overlap against APPROVED bookings is
// checked so obviously doomed requests fail fast, but two overlapping
// PENDING requests may coexist; the conflict is settled at approval.
func (s *bookingService) Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}
	if err := s.validator.ValidateInterval(req); err != nil {
		return nil, apperrors.InvalidInterval("end_time must be strictly after start_time")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, s.translateUserErr(err, userID)
	}

	resource, err := s.resources.FindByID(ctx, req.ResourceID)
	if err != nil {
		return nil, s.translateResourceErr(err, req.ResourceID)
	}
	if !resource.Active {
		return nil, apperrors.InvalidInput("Resource is not active")
	}

	resourceOverlaps, err := s.repo.FindApprovedOverlappingByResource(ctx, req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.Internal("Failed to check resource availability", err)
	}
	if len(resourceOverlaps) > 0 {
		return nil, apperrors.ResourceConflict("Resource is already booked for the requested time")
	}

	userOverlaps, err := s.repo.FindApprovedOverlappingByUser(ctx, userID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.Internal("Failed to check user availability", err)
	}
	if len(userOverlaps) > 0 {
		return nil, apperrors.UserConflict("User already has an approved booking for the requested time")
	}

	booking := &model.Booking{
		UserID:     userID,
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Purpose:    req.Purpose,
		Status:     model.StatusPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("booking created",
		"booking_id", booking.ID,
		"user_id", userID,
		"resource_id", req.ResourceID,
		"start_time", req.StartTime,
		"end_time", req.EndTime)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateBookingErr(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		count    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	return bookings, count, nil
}

// Approve moves a PENDING booking to APPROVED. Advisory locks on the
// resource and the user serialize concurrent approvals, then the overlap
// checks are re-run inside a transaction so the decision and the write are
// atomic. Locks never block; contention surfaces as a retryable conflict.
func (s *bookingService) Approve(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateBookingErr(err, id)
	}
	if booking.Status != model.StatusPending {
		return nil, apperrors.InvalidTransition(
			fmt.Sprintf("Cannot approve booking in status %s", booking.Status))
	}

	resourceLockID := "approval_resource_" + booking.ResourceID
	userLockID := "approval_user_" + booking.UserID

	if _, err := s.locks.Acquire(ctx, resourceLockID, s.cfg.ApprovalLockTTL); err != nil {
		return nil, s.translateLockErr(err)
	}
	defer s.releaseLock(ctx, resourceLockID)

	if _, err := s.locks.Acquire(ctx, userLockID, s.cfg.ApprovalLockTTL); err != nil {
		return nil, s.translateLockErr(err)
	}
	defer s.releaseLock(ctx, userLockID)

	var approved *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		current, err := s.repo.FindByID(sc, id)
		if err != nil {
			return s.translateBookingErr(err, id)
		}
		if current.Status != model.StatusPending {
			return apperrors.InvalidTransition(
				fmt.Sprintf("Cannot approve booking in status %s", current.Status))
		}

		resourceOverlaps, err := s.repo.FindApprovedOverlappingByResource(sc, current.ResourceID, current.StartTime, current.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check resource availability", err)
		}
		if len(resourceOverlaps) > 0 {
			return apperrors.ResourceConflict("Resource is already booked for the requested time")
		}

		userOverlaps, err := s.repo.FindApprovedOverlappingByUser(sc, current.UserID, current.StartTime, current.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check user availability", err)
		}
		if len(userOverlaps) > 0 {
			return apperrors.UserConflict("User already has an approved booking for the requested time")
		}

		updated, err := s.repo.UpdateStatus(sc, id, model.StatusPending, model.StatusApproved)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.InvalidTransition("Booking status changed concurrently")
			}
			return apperrors.Internal("Failed to approve booking", err)
		}

		approved = updated
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Approval transaction failed", err)
	}

	s.cfg.Log.Info("booking approved",
		"booking_id", approved.ID,
		"user_id", approved.UserID,
		"resource_id", approved.ResourceID)

	s.notifyDecision(ctx, approved, "approved")

	return approved, nil
}

// Reject moves a PENDING booking to REJECTED. Rejection never touches slot
// ownership, so no locks or transaction are needed; the compare-and-set
// write guards against a racing approval.
func (s *bookingService) Reject(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateBookingErr(err, id)
	}
	if booking.Status != model.StatusPending {
		return nil, apperrors.InvalidTransition(
			fmt.Sprintf("Cannot reject booking in status %s", booking.Status))
	}

	rejected, err := s.repo.UpdateStatus(ctx, id, model.StatusPending, model.StatusRejected)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.InvalidTransition("Booking status changed concurrently")
		}
		return nil, apperrors.Internal("Failed to reject booking", err)
	}

	s.cfg.Log.Info("booking rejected", "booking_id", rejected.ID, "user_id", rejected.UserID)

	s.notifyDecision(ctx, rejected, "rejected")

	return rejected, nil
}

// Cancel moves a booking to CANCELLED. Owners may cancel their own bookings
// in PENDING or APPROVED; admins may cancel any. Cancelling an APPROVED
// booking frees the slot for future approvals.
func (s *bookingService) Cancel(ctx context.Context, id, requesterID string, requesterIsAdmin bool) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateBookingErr(err, id)
	}

	if !requesterIsAdmin && booking.UserID != requesterID {
		return nil, apperrors.Forbidden("You may only cancel your own bookings")
	}

	if !booking.Status.CanTransitionTo(model.StatusCancelled) {
		return nil, apperrors.InvalidTransition(
			fmt.Sprintf("Cannot cancel booking in status %s", booking.Status))
	}

	cancelled, err := s.repo.UpdateStatus(ctx, id, booking.Status, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.InvalidTransition("Booking status changed concurrently")
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("booking cancelled",
		"booking_id", cancelled.ID,
		"requester_id", requesterID,
		"previous_status", booking.Status)

	return cancelled, nil
}

// CheckAvailability reports whether the resource is free of APPROVED
// bookings over [start, end). PENDING requests do not count against
// availability.
func (s *bookingService) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, apperrors.InvalidInterval("end must be strictly after start")
	}

	if _, err := s.resources.FindByID(ctx, resourceID); err != nil {
		return false, s.translateResourceErr(err, resourceID)
	}

	overlaps, err := s.repo.FindApprovedOverlappingByResource(ctx, resourceID, start, end)
	if err != nil {
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return len(overlaps) == 0, nil
}

// notifyDecision tells the booking's owner about an approval or rejection.
// Failures are logged and swallowed; the decision already committed.
func (s *bookingService) notifyDecision(ctx context.Context, booking *model.Booking, decision string) {
	user, err := s.users.FindByID(ctx, booking.UserID)
	if err != nil {
		s.cfg.Log.Warn("skipping notification, failed to load booking owner",
			"booking_id", booking.ID, "user_id", booking.UserID, "error", err)
		return
	}

	resourceName := booking.ResourceID
	if resource, err := s.resources.FindByID(ctx, booking.ResourceID); err == nil {
		resourceName = resource.Name
	}

	subject := fmt.Sprintf("Your booking was %s", decision)
	body := fmt.Sprintf("Your booking of %s from %s to %s was %s.",
		resourceName,
		booking.StartTime.Format(time.RFC3339),
		booking.EndTime.Format(time.RFC3339),
		decision)

	if err := s.notifier.Notify(ctx, user.Email, subject, body); err != nil {
		s.cfg.Log.Warn("failed to send booking notification",
			"booking_id", booking.ID, "recipient", user.Email, "error", err)
	}
}

// releaseLock best-effort deletes an advisory lock. The TTL index reclaims
// anything left behind by a crashed or cancelled request.
func (s *bookingService) releaseLock(ctx context.Context, lockID string) {
	if err := s.locks.Release(context.WithoutCancel(ctx), lockID); err != nil {
		s.cfg.Log.Warn("failed to release approval lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingService) translateBookingErr(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal("Failed to load booking", err)
	}
}

func (s *bookingService) translateUserErr(err error, id string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		return apperrors.Internal("Failed to load user", err)
	}
}

func (s *bookingService) translateResourceErr(err error, id string) error {
	switch {
	case errors.Is(err, resourceserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Resource", id)
	case errors.Is(err, resourceserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid resource ID format")
	default:
		return apperrors.Internal("Failed to load resource", err)
	}
}

func (s *bookingService) translateLockErr(err error) error {
	if errors.Is(err, bookingserrors.ErrLockHeld) {
		return apperrors.Conflict("Another approval is in progress, retry shortly")
	}
	return apperrors.Internal("Failed to acquire approval lock", err)
}
