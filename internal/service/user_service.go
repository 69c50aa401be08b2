package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/qa-admin-service/internal/api/dto"
	"github.com/spec-kit/qa-admin-service/internal/domain"
	"github.com/spec-kit/qa-admin-service/internal/events"
	"github.com/spec-kit/qa-admin-service/internal/repository"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// UpdateOutcome distinguishes the two success variants of a partial update.
type UpdateOutcome string

const (
	OutcomeUpdated   UpdateOutcome = "updated"
	OutcomeNoChanges UpdateOutcome = "no_changes"
)

// UserService coordinates user record workflows.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, dispatcher: deps.Dispatcher}
}

// CreateUser validates the payload, checks username then email uniqueness,
// inserts the record and re-reads it to return the stored shape.
//
// The check-then-insert pair is not atomic; concurrent creates with the
// same username or email can both pass the check. A unique index on the
// collection is the only real guard.
func (s *UserService) CreateUser(ctx context.Context, req dto.UserCreateRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := dto.NewUserDocument(req)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.UserNameExists(ctx, user.UserName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("Username already exists", nil)
	}
	taken, err = s.users.EmailExists(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("Email already exists", nil)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewDomainError("INTERNAL_ERROR",
			"User created but could not be retrieved", http.StatusInternalServerError, nil)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserCreated,
		EntityID: created.ID.Hex(),
		Payload:  events.UserCreatedPayload{UserName: created.UserName, Email: created.Email},
	})
	return created, nil
}

// GetUser returns a single user record.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all user records and the collection total.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, int64, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountUsers returns the number of stored user records.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// UpdateUser applies a partial update. updatedAt is refreshed on every
// accepted update even when the payload carries no data fields; the
// no-changes outcome reflects the data fields only.
func (s *UserService) UpdateUser(ctx context.Context, id string, payload map[string]any) (UpdateOutcome, error) {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return "", err
	}

	fields, err := dto.UserUpdateDocument(payload)
	if err != nil {
		return "", err
	}

	res, err := s.users.ApplyUpdate(ctx, oid, fields)
	if err != nil {
		return "", err
	}
	if res.Matched == 0 {
		return "", apperrors.NewNotFound("User", nil)
	}

	// dataFields excludes the always-present updatedAt refresh.
	dataFields := len(fields) - 1
	outcome := OutcomeUpdated
	if dataFields == 0 {
		outcome = OutcomeNoChanges
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserUpdated,
		EntityID: id,
		Payload:  events.UserUpdatedPayload{FieldsChanged: outcome == OutcomeUpdated},
	})
	return outcome, nil
}

// DeleteUser removes a user record.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return err
	}
	deleted, err := s.users.Delete(ctx, oid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperrors.NewNotFound("User", nil)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserDeleted,
		EntityID: id,
	})
	return nil
}

func (s *UserService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// parseObjectID converts an externally supplied identifier into an
// ObjectID, rejecting malformed values before any store access.
func parseObjectID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidationError(
			"Invalid "+resource+" ID format", nil)
	}
	return oid, nil
}
