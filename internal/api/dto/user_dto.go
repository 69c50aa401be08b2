package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/spec-kit/qa-admin-service/internal/domain"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// DateLayout is the calendar date format accepted and rendered by the API.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// UserCreateRequest is the external shape of a user creation payload.
type UserCreateRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Status      string `json:"status"`
}

// Validate checks required fields, naming every missing one.
func (r UserCreateRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return apperrors.NewValidationError(
		"Missing required fields: "+strings.Join(missing, ", "),
		map[string]any{"fields": missing},
	)
}

// NewUserDocument maps the external create payload to the storage shape.
// String inputs are trimmed, status defaults to "active", and dateOfBirth
// must parse as YYYY-MM-DD when present.
func NewUserDocument(r UserCreateRequest) (*domain.User, error) {
	user := &domain.User{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		UserName:    strings.TrimSpace(r.Username),
		Email:       strings.TrimSpace(r.Email),
		PhoneNumber: strings.TrimSpace(r.Phone),
		Gender:      strings.TrimSpace(r.Gender),
		Status:      strings.TrimSpace(r.Status),
	}
	if user.Status == "" {
		user.Status = domain.DefaultUserStatus
	}

	if dob := strings.TrimSpace(r.DateOfBirth); dob != "" {
		parsed, err := time.Parse(DateLayout, dob)
		if err != nil {
			return nil, apperrors.NewValidationError(
				"Invalid dateOfBirth format. Use YYYY-MM-DD format.", nil)
		}
		user.DateOfBirth = &parsed
	}

	return user, nil
}

// UserResponse is the external shape of a user record. Absent optional
// storage fields render as empty strings.
type UserResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Status      string `json:"status"`
}

// UserResponseFrom maps the storage shape back to the external shape.
func UserResponseFrom(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
		Email:     u.Email,
		Phone:     u.PhoneNumber,
		Gender:    u.Gender,
		Status:    u.Status,
	}
	if resp.Status == "" {
		resp.Status = domain.DefaultUserStatus
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(DateLayout)
	}
	return resp
}

// UserUpdateDocument translates a partial external payload into a $set
// document. Only present keys are applied, identifier fields are stripped,
// API field names are renamed to their storage names, and updatedAt is
// always refreshed.
func UserUpdateDocument(payload map[string]any) (bson.M, error) {
	fields := bson.M{}

	for key, value := range payload {
		switch key {
		case "id", "_id":
			// identifiers are never client-updatable
		case "username":
			fields["userName"] = value
		case "phone":
			fields["phoneNumber"] = value
		case "dateOfBirth":
			parsed, err := parseDateOfBirth(value)
			if err != nil {
				return nil, err
			}
			fields["dateOfBirth"] = parsed
		default:
			fields[key] = value
		}
	}

	fields["updatedAt"] = time.Now().UTC()
	return fields, nil
}

func parseDateOfBirth(value any) (any, error) {
	str, ok := value.(string)
	if !ok && value != nil {
		return nil, apperrors.NewValidationError(
			"Invalid dateOfBirth format. Use YYYY-MM-DD format.", nil)
	}
	if str == "" || value == nil {
		// empty string clears the stored date
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, str)
	if err != nil {
		return nil, apperrors.NewValidationError(
			"Invalid dateOfBirth format. Use YYYY-MM-DD format.", nil)
	}
	return parsed, nil
}
