package model

import "time"

type ID = uint

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	Role         string `json:"role" db:"role"`
}

type Patient struct {
	ID        ID         `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	LN     string  `json:"ln" db:"ln"`
	IDCard *string `json:"idCard,omitempty" db:"id_card"`

	Title     string     `json:"title" db:"title"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Gender    string     `json:"gender" db:"gender"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`

	Phone   string `json:"phone" db:"phone"`
	Address string `json:"address" db:"address"`
}

type Visit struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	VisitNumber string    `json:"visitNumber" db:"visit_number"`
	PatientLN   string    `json:"patientLn" db:"patient_ln"`
	VisitDate   time.Time `json:"visitDate" db:"visit_date"`

	Department string `json:"department" db:"department"`
	Symptoms   string `json:"symptoms" db:"symptoms"`
	Note       string `json:"note" db:"note"`
	CreatedBy  string `json:"createdBy" db:"created_by"`
}

type Session struct {
	ID ID `json:"-" db:"id"`

	Username  string `json:"username" db:"username"`
	SessionID string `json:"sessionId" db:"session_id"`

	LoginTime    time.Time `json:"loginTime" db:"login_time"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
	UserAgent    string    `json:"userAgent" db:"user_agent"`
}
