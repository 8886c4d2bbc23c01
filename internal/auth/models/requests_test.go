package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "universitas/pkg/domain-errors"
)

func TestRegisterRequest_CheckRequired(t *testing.T) {
	valid := func() *RegisterRequest {
		return &RegisterRequest{
			Email:    "alice@student.prasetiyamulya.ac.id",
			FullName: "Alice",
			Major:    "SDE",
			Role:     "student",
			Password: "s3cret!",
		}
	}

	t.Run("complete request passes", func(t *testing.T) {
		assert.NoError(t, valid().CheckRequired())
	})

	cases := []struct {
		field  string
		mutate func(*RegisterRequest)
	}{
		{"email", func(r *RegisterRequest) { r.Email = "" }},
		{"full_name", func(r *RegisterRequest) { r.FullName = "  " }},
		{"major", func(r *RegisterRequest) { r.Major = "" }},
		{"role", func(r *RegisterRequest) { r.Role = "" }},
		{"password", func(r *RegisterRequest) { r.Password = "" }},
	}
	for _, tc := range cases {
		t.Run("missing "+tc.field, func(t *testing.T) {
			req := valid()
			tc.mutate(req)
			err := req.CheckRequired()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
			assert.Equal(t, tc.field, dErrors.FieldOf(err))
		})
	}

	t.Run("first missing field in declaration order wins", func(t *testing.T) {
		err := (&RegisterRequest{Password: "x"}).CheckRequired()
		require.Error(t, err)
		assert.Equal(t, "email", dErrors.FieldOf(err))
	})
}

func TestLoginRequest_Sanitize(t *testing.T) {
	req := &LoginRequest{Email: "  Alice@Student.Prasetiyamulya.ac.id ", Password: "pw"}
	req.Sanitize()
	assert.Equal(t, "alice@student.prasetiyamulya.ac.id", req.Email)
	assert.NoError(t, req.Validate())
}

func TestGradeInput_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		body string
		want GradeInput
	}{
		{"string", `{"grade":"87.5"}`, GradeInput{Raw: "87.5", Set: true}},
		{"number", `{"grade":87.5}`, GradeInput{Raw: "87.5", Set: true}},
		{"empty string", `{"grade":""}`, GradeInput{Raw: "", Set: true}},
		{"null", `{"grade":null}`, GradeInput{}},
		{"absent", `{}`, GradeInput{}},
		{"bool kept verbatim", `{"grade":true}`, GradeInput{Raw: "true", Set: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req GradeUpdateRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.want, req.Grade)
		})
	}
}

func TestMajors(t *testing.T) {
	majors := DefaultMajors()
	assert.True(t, majors.Contains("SDE"))
	assert.False(t, majors.Contains("XYZ"))
	assert.Equal(t, "Software Engineering", majors.Label("SDE"))
	assert.Equal(t, "XYZ", majors.Label("XYZ"))
}
