package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultUserStatus is applied when a user record carries no status.
const DefaultUserStatus = "active"

// User is the storage shape of a user document. Field names follow the
// persisted collection, which differs from the API shape (userName vs
// username, phoneNumber vs phone).
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	UserName    string             `bson:"userName"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phoneNumber,omitempty"`
	Gender      string             `bson:"gender,omitempty"`
	DateOfBirth *time.Time         `bson:"dateOfBirth,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}
