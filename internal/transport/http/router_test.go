package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	authhandler "universitas/internal/auth/handler"
	"universitas/internal/auth/metrics"
	"universitas/internal/auth/models"
	"universitas/internal/auth/password"
	authservice "universitas/internal/auth/service"
	"universitas/internal/auth/store/account"
	"universitas/internal/auth/store/revocation"
	jwttoken "universitas/internal/jwt_token"
	"universitas/internal/platform/health"
	studentshandler "universitas/internal/students/handler"
	studentsservice "universitas/internal/students/service"
	"universitas/pkg/platform/httputil"
)

const routerDomain = "prasetiyamulya.ac.id"

type RouterSuite struct {
	suite.Suite
	trl    *revocation.InMemoryTRL
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	accounts := account.NewInMemory()
	s.trl = revocation.NewInMemoryTRL()
	tokens := jwttoken.NewJWTService("router-test-key", 5*time.Minute, time.Hour)

	authSvc, err := authservice.New(accounts, password.NewHasher(4), tokens, s.trl,
		&authservice.Config{InstitutionDomain: routerDomain},
		authservice.WithLogger(logger),
		authservice.WithMetrics(m),
	)
	s.Require().NoError(err)
	studentsSvc := studentsservice.New(accounts, models.DefaultMajors(),
		studentsservice.WithLogger(logger),
		studentsservice.WithMetrics(m),
	)

	s.router = NewRouter(Config{
		Logger:         logger,
		Auth:           authhandler.New(authSvc, logger),
		Students:       studentshandler.New(studentsSvc, logger),
		Health:         health.New("test"),
		TokenValidator: jwttoken.NewJWTServiceAdapter(tokens),
		Revocations:    revocation.NewChecker(s.trl),
		Latency:        m,
	})
}

func (s *RouterSuite) TearDownTest() {
	s.NoError(s.trl.Close())
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) register(email, role, major string) {
	w := s.do(http.MethodPost, "/api/auth/register/", "", map[string]string{
		"email":                 email,
		"full_name":             "Test " + role,
		"major":                 major,
		"role":                  role,
		"password":              "s3cret-pass",
		"password_confirmation": "s3cret-pass",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *RouterSuite) login(email string) models.TokenPair {
	w := s.do(http.MethodPost, "/api/auth/login/", "", map[string]string{
		"email":    email,
		"password": "s3cret-pass",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var pair models.TokenPair
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pair))
	return pair
}

func (s *RouterSuite) errorCode(w *httptest.ResponseRecorder) string {
	var body httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func (s *RouterSuite) TestMajorsArePublic() {
	w := s.do(http.MethodGet, "/api/majors/", "", nil)

	s.Equal(http.StatusOK, w.Code)
	var majors []models.Major
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &majors))
	s.Equal(models.DefaultMajors(), models.Majors(majors))
}

func (s *RouterSuite) TestHealthIsMounted() {
	w := s.do(http.MethodGet, "/health/live", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestRejectsNonJSONBodies() {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", bytes.NewBufferString("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnsupportedMediaType, w.Code)
}

func (s *RouterSuite) TestStudentRecordsRequireInstructor() {
	s.register("dosen@"+routerDomain, "instructor", "ACC")
	s.register("mhs@student."+routerDomain, "student", "SDE")

	s.Run("unauthenticated is 401", func() {
		w := s.do(http.MethodGet, "/api/auth/students/", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal("unauthorized", s.errorCode(w))
	})

	s.Run("student is 403", func() {
		pair := s.login("mhs@student." + routerDomain)
		w := s.do(http.MethodGet, "/api/auth/students/", pair.Access, nil)
		s.Equal(http.StatusForbidden, w.Code)
		s.Equal("forbidden", s.errorCode(w))
	})

	s.Run("instructor lists and grades students", func() {
		pair := s.login("dosen@" + routerDomain)

		w := s.do(http.MethodGet, "/api/auth/students/", pair.Access, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var records []models.StudentRecord
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
		s.Require().Len(records, 1)
		s.Equal("Software Engineering", records[0].Major)
		s.Nil(records[0].Grade)

		path := "/api/auth/students/" + records[0].ID.String() + "/"
		w = s.do(http.MethodPatch, path, pair.Access, map[string]any{"grade": "88.5"})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		w = s.do(http.MethodGet, path, pair.Access, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var record models.StudentRecord
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &record))
		s.Require().NotNil(record.Grade)
		s.Equal(88.5, *record.Grade)

		w = s.do(http.MethodPatch, path, pair.Access, map[string]any{"grade": 101})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("grade_out_of_range", s.errorCode(w))
	})
}

func (s *RouterSuite) TestLogoutRevokesTokens() {
	s.register("dosen@"+routerDomain, "instructor", "ACC")
	pair := s.login("dosen@" + routerDomain)

	w := s.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/logout/", pair.Access, map[string]string{"refresh": pair.Refresh})
	s.Require().Equal(http.StatusResetContent, w.Code)

	w = s.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("authentication_failed", s.errorCode(w))

	w = s.do(http.MethodGet, "/api/auth/students/", pair.Access, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestOverlongPasswordIsAFieldError() {
	long := strings.Repeat("p", 80)
	w := s.do(http.MethodPost, "/api/auth/register/", "", map[string]string{
		"email":                 "mhs@student." + routerDomain,
		"full_name":             "Test student",
		"major":                 "SDE",
		"role":                  "student",
		"password":              long,
		"password_confirmation": long,
	})

	s.Equal(http.StatusBadRequest, w.Code)
	var body httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("password_too_long", body.Error)
	s.Equal("password", body.Field)

	w = s.do(http.MethodPost, "/api/auth/login/", "", map[string]string{
		"email":    "mhs@student." + routerDomain,
		"password": long,
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestStudentIsForbiddenBeforeParsing() {
	s.register("mhs@student."+routerDomain, "student", "SDE")
	pair := s.login("mhs@student." + routerDomain)

	w := s.do(http.MethodGet, "/api/auth/students/not-a-uuid/", pair.Access, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("forbidden", s.errorCode(w))

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/students/not-a-uuid/", strings.NewReader(`[1,2`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("forbidden", s.errorCode(rec))
}

func (s *RouterSuite) TestOversizedRegistrationIsRefused() {
	w := s.do(http.MethodPost, "/api/auth/register/", "", map[string]string{
		"email":     "mhs@student." + routerDomain,
		"full_name": strings.Repeat("a", defaultMaxBodyBytes),
	})

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Equal("payload_too_large", s.errorCode(w))
}
