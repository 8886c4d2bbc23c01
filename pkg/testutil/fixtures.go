// Package testutil provides shared fixtures and helpers for tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"universitas/internal/auth/models"
	id "universitas/pkg/domain"
)

// TestInstitution is the institutional domain used across tests.
const TestInstitution = "prasetiyamulya.ac.id"

// TestIDs provides pre-generated IDs for deterministic test data.
var TestIDs = struct {
	StudentID1   id.UserID
	StudentID2   id.UserID
	InstructorID id.UserID
}{
	StudentID1:   id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	StudentID2:   id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	InstructorID: id.UserID(uuid.MustParse("33333333-3333-3333-3333-333333333333")),
}

// FixedTime is a stable timestamp for fixtures.
var FixedTime = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

// NewStudent builds a student account for the test institution.
func NewStudent(username string) *models.Account {
	return &models.Account{
		ID:           id.NewUserID(),
		Email:        fmt.Sprintf("%s@student.%s", username, TestInstitution),
		Username:     username,
		FullName:     "Student " + username,
		Major:        "SDE",
		Role:         models.RoleStudent,
		PasswordHash: "hash-" + username,
		CreatedAt:    FixedTime,
		UpdatedAt:    FixedTime,
	}
}

// NewInstructor builds an instructor account for the test institution.
func NewInstructor(username string) *models.Account {
	return &models.Account{
		ID:           id.NewUserID(),
		Email:        fmt.Sprintf("%s@%s", username, TestInstitution),
		Username:     username,
		FullName:     "Instructor " + username,
		Major:        "ACC",
		Role:         models.RoleInstructor,
		PasswordHash: "hash-" + username,
		CreatedAt:    FixedTime,
		UpdatedAt:    FixedTime,
	}
}

// Grade returns a pointer to v.
func Grade(v float64) *float64 {
	return &v
}
