package validation

import (
	"payflow/internal/models"
)

// UserRegistration validates a registration request
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("first_name", input.FirstName)
	v.MaxLength("first_name", input.FirstName, MaxNameLength)
	v.Required("last_name", input.LastName)
	v.MaxLength("last_name", input.LastName, MaxNameLength)
	v.Required("username", input.Username)
	v.Username("username", input.Username)
	v.Password("password", input.Password)
}

// UserUpdate validates a partial profile update. Only supplied fields
// are checked; empty fields mean "leave unchanged".
func (v *Validator) UserUpdate(input *models.UpdateUserInput) {
	if input.FirstName != "" {
		v.MaxLength("first_name", input.FirstName, MaxNameLength)
	}
	if input.LastName != "" {
		v.MaxLength("last_name", input.LastName, MaxNameLength)
	}
	if input.Password != "" {
		v.Password("password", input.Password)
	}
}
