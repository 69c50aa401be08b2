package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/spec-kit/qa-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/qa-admin-service/internal/domain"
	"github.com/spec-kit/qa-admin-service/internal/observability"
	"github.com/spec-kit/qa-admin-service/internal/repository"
	"github.com/spec-kit/qa-admin-service/internal/service"
)

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
	order []primitive.ObjectID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (m *memUserRepo) Insert(_ context.Context, user *domain.User) error {
	user.ID = primitive.NewObjectID()
	stored := *user
	m.users[user.ID] = &stored
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, id := range m.order {
		out = append(out, *m.users[id])
	}
	return out, nil
}

func (m *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memUserRepo) UserNameExists(_ context.Context, userName string) (bool, error) {
	for _, u := range m.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ApplyUpdate(_ context.Context, id primitive.ObjectID, fields bson.M) (repository.UpdateResult, error) {
	if _, ok := m.users[id]; !ok {
		return repository.UpdateResult{}, nil
	}
	return repository.UpdateResult{Matched: 1, Modified: 1}, nil
}

func (m *memUserRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

type memReportRepo struct {
	reports map[primitive.ObjectID]*domain.Report
	order   []primitive.ObjectID
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: map[primitive.ObjectID]*domain.Report{}}
}

func (m *memReportRepo) Insert(_ context.Context, report *domain.Report) error {
	report.ID = primitive.NewObjectID()
	stored := *report
	m.reports[report.ID] = &stored
	m.order = append(m.order, report.ID)
	return nil
}

func (m *memReportRepo) List(_ context.Context) ([]domain.Report, error) {
	out := []domain.Report{}
	for _, id := range m.order {
		out = append(out, *m.reports[id])
	}
	return out, nil
}

func (m *memReportRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *report
	return &copied, nil
}

func (m *memReportRepo) SetStatus(_ context.Context, id primitive.ObjectID, status domain.ReportStatus) (int64, error) {
	report, ok := m.reports[id]
	if !ok {
		return 0, nil
	}
	report.Status = status
	return 1, nil
}

func newUsersApp(repo repository.UserRepository) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	h := handlers.NewUsersHandler(service.NewUserService(service.UserDependencies{UserRepo: repo}))
	api := app.Group("/api/users")
	api.Get("/", h.List)
	api.Get("/count", h.Count)
	api.Post("/", h.Create)
	api.Get("/:id", h.Get)
	api.Put("/:id", h.Update)
	api.Delete("/:id", h.Delete)
	return app
}

func newReportsApp(repo repository.ReportRepository) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	h := handlers.NewReportsHandler(service.NewReportService(service.ReportDependencies{ReportRepo: repo}))
	app.Get("/", h.Root)
	reports := app.Group("/reports")
	reports.Post("/", h.Create)
	reports.Get("/", h.List)
	reports.Put("/:id/status", h.UpdateStatus)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestCreateUserEndpoint(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, body := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","username":"ab1","email":"a@b.com"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ab1", user["username"])
	assert.Equal(t, "active", user["status"])
	assert.NotEmpty(t, user["id"])
}

func TestCreateUserEndpoint_MissingFields(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", `{"firstName":"A"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Missing required fields")
}

func TestCreateUserEndpoint_Conflict(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","username":"ab1","email":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"C","lastName":"D","username":"ab1","email":"c@d.com"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Username already exists", body["error"])
}

func TestListUsersEnvelope(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","username":"ab1","email":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/users?draw=7", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 7, body["draw"])
	assert.EqualValues(t, 1, body["recordsTotal"])
	assert.EqualValues(t, 1, body["recordsFiltered"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestUserCountEndpoint(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/count", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 0, body["count"])
}

func TestGetUserEndpoint_BadAndMissingIDs(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/not-hex", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])
}

func TestUpdateUserEndpoint(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, created := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","username":"ab1","email":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["user"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, http.MethodPut, "/api/users/"+id, `{"gender":"other"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User updated successfully", body["message"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/users/"+id, `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No changes made to user", body["message"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/users/"+primitive.NewObjectID().Hex(), `{"gender":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserEndpoint(t *testing.T) {
	app := newUsersApp(newMemUserRepo())

	resp, created := doJSON(t, app, http.MethodPost, "/api/users",
		`{"firstName":"A","lastName":"B","username":"ab1","email":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["user"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/users/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User deleted successfully", body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func postReportForm(t *testing.T, app *fiber.App, fields map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/reports", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestCreateReportEndpoint(t *testing.T) {
	app := newReportsApp(newMemReportRepo())

	resp, body := postReportForm(t, app, map[string]string{
		"description": "login broken",
		"tester_name": "nour",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "login broken", body["description"])
	assert.Equal(t, "open", body["status"])
	assert.Equal(t, "nour", body["tester_name"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateReportEndpoint_MissingDescription(t *testing.T) {
	app := newReportsApp(newMemReportRepo())

	resp, body := postReportForm(t, app, map[string]string{"tester_name": "nour"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestUpdateReportStatusEndpoint(t *testing.T) {
	app := newReportsApp(newMemReportRepo())

	resp, created := postReportForm(t, app, map[string]string{"description": "x"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(string)

	resp, body := doJSON(t, app, http.MethodPut, "/reports/"+id+"/status?status=in_progress", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])

	resp, _ = doJSON(t, app, http.MethodPut, "/reports/"+id+"/status?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/reports/"+primitive.NewObjectID().Hex()+"/status?status=resolved", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListReportsEndpoint(t *testing.T) {
	app := newReportsApp(newMemReportRepo())

	resp, _ := postReportForm(t, app, map[string]string{"description": "a"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = postReportForm(t, app, map[string]string{"description": "b"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	var reports []map[string]any
	raw, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &reports))
	assert.Len(t, reports, 2)
}

func TestRootEndpoint(t *testing.T) {
	app := newReportsApp(newMemReportRepo())

	resp, body := doJSON(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Test Reports API is running!", body["message"])
}
