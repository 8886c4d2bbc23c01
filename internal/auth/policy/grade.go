package policy

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"universitas/internal/auth/models"
	dErrors "universitas/pkg/domain-errors"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

// ParseGrade turns a submitted grade into the value to store. A nil result
// with a nil error clears the grade.
func ParseGrade(in models.GradeInput) (*float64, error) {
	raw := strings.TrimSpace(in.Raw)
	if !in.Set || raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	// Overflow yields ±Inf, which the range checks below reject.
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(value) {
		return nil, dErrors.NewField(dErrors.CodeGradeNotNumeric, "grade", "Grade must be a number.")
	}
	if value > MaxGrade {
		return nil, dErrors.NewField(dErrors.CodeGradeOutOfRange, "grade", "Grade must not be greater than 100.")
	}
	if value < MinGrade {
		return nil, dErrors.NewField(dErrors.CodeGradeOutOfRange, "grade", "Grade must not be less than 0.")
	}
	return &value, nil
}
