package models

import "time"

// Gender values accepted for a user record.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// UserRecord is a single profile in the user directory. The repository owns
// the durable copy; id, created_at and updated_at are set by the repository
// and never by callers.
type UserRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	DOB       string    `json:"dob"` // YYYY-MM-DD
	Avatar    string    `json:"avatar,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserRequest carries the caller-settable fields of a new record.
type CreateUserRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Age     int    `json:"age" validate:"required,gt=0"`
	Gender  string `json:"gender" validate:"required,oneof=male female other"`
	DOB     string `json:"dob" validate:"required,dateformat"`
	Avatar  string `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// UpdateUserRequest is a partial update. Nil fields are left unchanged by the
// repository merge; the record id can never be changed through an update.
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Age     *int    `json:"age,omitempty" validate:"omitempty,gt=0"`
	Gender  *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	DOB     *string `json:"dob,omitempty" validate:"omitempty,dateformat"`
	Avatar  *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Age == nil && r.Gender == nil &&
		r.DOB == nil && r.Avatar == nil && r.Phone == nil && r.Address == nil
}
