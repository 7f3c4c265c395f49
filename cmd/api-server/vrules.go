package main

import (
	"github.com/jamesatitpong11/labflow-sub001/internal/validator"
)

// Validation rules

const (
	_roleAdmin = "admin"
	_roleStaff = "staff"
)

var _genders = []string{"", "male", "female", "other"}

func validateRequestAddUser(v *validator.Validator, input requestAddUser) {
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.Matches(input.Username, validator.RgxUsername), "username", "may only contain letters, digits, '.', '_' and '-'")
	v.CheckField(validator.MaxRunes(input.Username, 64), "username", "must not be more than 64 characters")

	validatePassword(v, input.Password)

	v.CheckField(validator.In(input.Role, "", _roleAdmin, _roleStaff), "role", "must be admin or staff")
}

func validateRequestUpdateUser(v *validator.Validator, input requestUpdateUser) {
	v.Check(input.Name != nil || input.Role != nil || input.Password != nil, "nothing to update")

	if input.Name != nil {
		v.CheckField(validator.MaxRunes(*input.Name, 128), "name", "must not be more than 128 characters")
	}
	if input.Role != nil {
		v.CheckField(validator.In(*input.Role, _roleAdmin, _roleStaff), "role", "must be admin or staff")
	}
	if input.Password != nil {
		validatePassword(v, *input.Password)
	}
}

// bcrypt rejects input longer than 72 bytes.
func validatePassword(v *validator.Validator, password string) {
	v.CheckField(validator.MinRunes(password, 8), "password", "must be at least 8 characters")
	v.CheckField(validator.MaxBytes(password, 72), "password", "must not be more than 72 bytes")
}

func validateRequestAddPatient(v *validator.Validator, input requestAddPatient) {
	v.CheckField(validator.NotBlank(input.FirstName), "firstName", "cannot be blank")
	v.CheckField(validator.NotBlank(input.LastName), "lastName", "cannot be blank")
	v.CheckField(validator.In(input.Gender, _genders...), "gender", "must be male, female or other")

	if input.IDCard != nil && *input.IDCard != "" {
		v.CheckField(validator.ThaiIDCard(*input.IDCard), "idCard", "is not a valid 13-digit ID card number")
	}
	if input.Phone != "" {
		v.CheckField(validator.Matches(input.Phone, validator.RgxDigits), "phone", "must contain digits only")
		v.CheckField(validator.Between(len(input.Phone), 9, 10), "phone", "must be 9 or 10 digits")
	}
}

func validateRequestAddVisit(v *validator.Validator, input requestAddVisit) {
	v.CheckField(validator.NotBlank(input.PatientLN), "patientLn", "cannot be blank")
	v.CheckField(validator.MaxRunes(input.Department, 128), "department", "must not be more than 128 characters")
}
