package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/service"
	"taxifleet/storage/memory"
)

const (
	testUser     = "new_driver"
	testPassword = "root1234A"
)

type testEnv struct {
	router   *gin.Engine
	services service.IServiceManager
	driverID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services := service.New(memory.New(), logger.NewNop(), 5, service.WithBcryptCost(bcrypt.MinCost))
	d, err := services.Driver().Create(context.Background(), forms.DriverCreationForm{
		Username:      testUser,
		LicenseNumber: "HRN84739",
		FirstName:     "Name",
		LastName:      "Surname",
		Password1:     testPassword,
		Password2:     testPassword,
	})
	require.NoError(t, err)

	return &testEnv{
		router:   NewRouter(services, logger.NewNop()),
		services: services,
		driverID: d.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.SetBasicAuth(testUser, testPassword)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testUser, testPassword)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no credentials", func(*http.Request) {}},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth(testUser, "nope") }},
		{"unknown user", func(r *http.Request) { r.SetBasicAuth("ghost", testPassword) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/drivers/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["num_drivers"])
	assert.EqualValues(t, 0, body["num_cars"])
	assert.EqualValues(t, 0, body["num_manufacturers"])
}

func TestManufacturerEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/manufacturers/", url.Values{"name": {"Test manufacture"}, "country": {"USA"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode(t, rec)["id"].(float64))

	rec = env.do(t, http.MethodPost, "/manufacturers/", url.Values{"name": {"Test manufacture"}, "country": {"UK"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	rec = env.do(t, http.MethodGet, "/manufacturers/?name=TEST", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["manufacturers"].(map[string]interface{})
	assert.EqualValues(t, 1, list["count"])

	rec = env.do(t, http.MethodGet, "/manufacturers/?name=audi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode(t, rec)["manufacturers"].(map[string]interface{})
	assert.EqualValues(t, 0, list["count"])

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/manufacturers/%d/update/", id), url.Values{"name": {"Renamed"}, "country": {"USA"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode(t, rec)["name"])

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/manufacturers/%d/delete/", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/manufacturers/%d/", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/manufacturers/abc/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCarEndpointsAndToggleAssign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.services.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/cars/", url.Values{"model": {"M5"}, "manufacturer_id": {fmt.Sprint(m.ID)}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	carID := int64(decode(t, rec)["id"].(float64))

	rec = env.do(t, http.MethodPost, "/cars/", url.Values{"model": {""}, "manufacturer_id": {"0"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "model")
	assert.Contains(t, errs, "manufacturer_id")

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/cars/%d/toggle-assign/", carID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["assigned"])

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/cars/%d/", carID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	drivers := decode(t, rec)["drivers"].([]interface{})
	require.Len(t, drivers, 1)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/cars/%d/toggle-assign/", carID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["assigned"])

	rec = env.do(t, http.MethodGet, "/cars/?model=m", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["cars"].(map[string]interface{})
	assert.EqualValues(t, 1, list["count"])

	rec = env.do(t, http.MethodPost, "/cars/999/toggle-assign/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriverEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/drivers/", url.Values{
		"username":       {"another_driver"},
		"license_number": {"ABC12345"},
		"password1":      {"Root1234"},
		"password2":      {"Root1234"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.NotContains(t, created, "password_hash")
	id := int64(created["id"].(float64))
	assert.Equal(t, fmt.Sprintf("/drivers/%d/", id), rec.Header().Get("Location"))

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/drivers/%d/update/", id), url.Values{"license_number": {"HrN8473"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{forms.ErrLicenseLength.Error()}, errs["license_number"])

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/drivers/%d/update/", id), url.Values{"license_number": {"XYZ54321"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "XYZ54321", decode(t, rec)["license_number"])

	rec = env.do(t, http.MethodGet, "/drivers/?username=driver", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["drivers"].(map[string]interface{})
	assert.EqualValues(t, 2, list["count"])

	rec = env.do(t, http.MethodGet, "/drivers/?username=another", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode(t, rec)["drivers"].(map[string]interface{})
	assert.EqualValues(t, 1, list["count"])

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/drivers/%d/delete/", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/drivers/%d/", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriverCreateAcceptsJSON(t *testing.T) {
	env := newTestEnv(t)

	body := `{"username":"json_driver","license_number":"JSN00001","password1":"Root1234","password2":"Root1234"}`
	rec := env.doJSON(t, http.MethodPost, "/drivers/", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "json_driver", decode(t, rec)["username"])
}

func TestPathIDsAndPagesAreDecimal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		_, err := env.services.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: fmt.Sprintf("Maker %02d", i), Country: "USA"})
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/manufacturers/010/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.EqualValues(t, 10, got["id"])
	assert.Equal(t, "Maker 10", got["name"])

	for _, target := range []string{"/manufacturers/0x3/", "/manufacturers/0b11/", "/manufacturers/1e1/", "/manufacturers/-1/", "/manufacturers/0/"} {
		rec = env.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}

	rec = env.do(t, http.MethodGet, "/manufacturers/?page=02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["manufacturers"].(map[string]interface{})
	assert.EqualValues(t, 2, list["page"])

	rec = env.do(t, http.MethodGet, "/manufacturers/?page=0x2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode(t, rec)["manufacturers"].(map[string]interface{})
	assert.EqualValues(t, 1, list["page"])
}

func TestUndecodableValuesAreFieldErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cars/", url.Values{"model": {"M5"}, "manufacturer_id": {"abc"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "strconv")
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Select a valid choice. That choice is not one of the available choices."}, errs["manufacturer_id"])

	rec = env.do(t, http.MethodPost, "/cars/", url.Values{"model": {"M5"}, "manufacturer_id": {"1"}, "driver_ids": {"1", "x"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs = decode(t, rec)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "driver_ids")

	rec = env.doJSON(t, http.MethodPost, "/cars/", `{"model":"M5","manufacturer_id":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "json:")
	errs = decode(t, rec)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "manufacturer_id")

	rec = env.doJSON(t, http.MethodPost, "/cars/", `{"model":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs = decode(t, rec)["errors"].(map[string]interface{})
	assert.Contains(t, errs, forms.NonFieldErrors)
}

func TestDriverCreateRejectsPasswordBcryptCannotHash(t *testing.T) {
	env := newTestEnv(t)

	password := strings.Repeat("Ab1", 30)
	rec := env.do(t, http.MethodPost, "/drivers/", url.Values{
		"username":       {"long_password"},
		"license_number": {"ABC12345"},
		"password1":      {password},
		"password2":      {password},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	errs := decode(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{forms.MsgPasswordTooLong}, errs["password2"])
}
