package like

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parley/internal/config"
	"parley/internal/database"
	"parley/internal/repository"
	"parley/internal/service"
	"parley/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "like-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := database.ConnectTest()
	require.NoError(t, err)

	svc := service.NewLikeService(repository.NewLikeRepository(db))

	app := fiber.New()
	NewServer(&config.Config{SecretKey: testSecret}, svc, nil).SetupRoutes(app)
	return app
}

func bearerFor(t *testing.T, userID uint) string {
	t.Helper()
	raw, err := token.Sign(testSecret, userID, "tester", time.Now())
	require.NoError(t, err)
	return raw
}

func doJSON(t *testing.T, app *fiber.App, method, target, bearer string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func like(t *testing.T, app *fiber.App, bearer, entityType string, entityID uint) (*http.Response, uint) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/likes", bearer, fiber.Map{
		"entity_type": entityType, "entity_id": entityID,
	})
	if resp.StatusCode != http.StatusCreated {
		return resp, 0
	}
	defer resp.Body.Close()

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return resp, uint(created["id"].(float64))
}

func TestLikeRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/likes", "", fiber.Map{"entity_type": "discussion", "entity_id": 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLikeValidation(t *testing.T) {
	app := newTestApp(t)
	bearer := bearerFor(t, 1)

	resp, _ := like(t, app, bearer, "post", 1)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown entity_type rejected")

	resp, _ = like(t, app, bearer, "discussion", 0)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "entity_id required")
}

func TestDuplicateLikeIs409(t *testing.T) {
	app := newTestApp(t)
	bearer := bearerFor(t, 1)

	resp, _ := like(t, app, bearer, "discussion", 9)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = like(t, app, bearer, "discussion", 9)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// a different user may still like the same target
	resp, _ = like(t, app, bearerFor(t, 2), "discussion", 9)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestListByTarget(t *testing.T) {
	app := newTestApp(t)

	like(t, app, bearerFor(t, 1), "discussion", 9)
	like(t, app, bearerFor(t, 2), "discussion", 9)
	like(t, app, bearerFor(t, 1), "comment", 9)

	resp := doJSON(t, app, http.MethodGet, "/likes?entity_type=discussion&entity_id=9", bearerFor(t, 1), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 2, "comment like on the same id is a different target")
}

func TestUnlikeOwnership(t *testing.T) {
	app := newTestApp(t)

	resp, id := like(t, app, bearerFor(t, 1), "discussion", 9)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/likes/%d", id), bearerFor(t, 2), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/likes/%d", id), bearerFor(t, 1), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// re-like works after unlike
	resp, _ = like(t, app, bearerFor(t, 1), "discussion", 9)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
