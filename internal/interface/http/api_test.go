package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/config"
	"github.com/civicresolve/backend/internal/container"
	"github.com/civicresolve/backend/internal/infrastructure/memory"
	"github.com/civicresolve/backend/internal/interface/middleware"
	"github.com/civicresolve/backend/internal/router"
	"github.com/civicresolve/backend/pkg/helpers"
	"github.com/civicresolve/backend/pkg/validation"
)

// newTestServer wires the full route tree against fresh in-memory stores.
// Redis, GCS, ES and RabbitMQ stay nil; those paths degrade gracefully.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := config.Load()
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(nil)
	container.SetGCS(nil)
	container.SetES(nil)
	container.SetRabbitPub(nil)
	container.SetJWT(helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour))
	container.SetUserRepo(memory.NewUserStore(memory.SampleUsers()))
	container.SetIssueRepo(memory.NewIssueStore(memory.SampleIssues()))
	container.SetAadhaarDir(memory.NewAadhaarDirectory(memory.SampleAadhaarIDs()))

	r := gin.New()
	r.Use(middleware.RequestID())
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func login(t *testing.T, r *gin.Engine, email string) []*http.Cookie {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/sessions", gin.H{
		"email":    email,
		"password": memory.SamplePassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestIssueFeedEndpoints(t *testing.T) {
	r := newTestServer(t)

	t.Run("list returns whole feed", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/issues", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var issues []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issues))
		assert.Len(t, issues, 9)
	})

	t.Run("get by id", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/issues/i1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var issue map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issue))
		assert.Equal(t, "Large Pothole on Main Street", issue["title"])
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/api/issues/i999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("search by term and status", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/issues/search?q=%23park&status=Resolved", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var issues []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issues))
		require.Len(t, issues, 1)
		assert.Equal(t, "i3", issues[0]["id"])
	})

	t.Run("unknown status is 422", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/api/issues/search?status=Closed", nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestIssueMutationsRequireAuth(t *testing.T) {
	r := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/issues/i1/upvote", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/issues", gin.H{
		"title":       "t",
		"description": "d",
		"image_url":   "https://example.com/x.jpg",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueLifecycleOverHTTP(t *testing.T) {
	r := newTestServer(t)
	citizen := login(t, r, "john.doe@gmail.com")
	authority := login(t, r, "officer.k@gov.in")

	t.Run("citizen creates an issue", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodPost, "/api/issues", gin.H{
			"title":       "Cracked sidewalk",
			"description": "Sidewalk heaved by tree roots outside 42 Elm.",
			"tags":        []string{"#sidewalk"},
			"image_url":   "https://example.com/sidewalk.jpg",
			"lat":         34.05,
			"lng":         -118.25,
		}, citizen)
		require.Equal(t, http.StatusCreated, w.Code)
		var issue map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issue))
		assert.Equal(t, "i10", issue["id"])
		assert.Equal(t, "john_doe", issue["author_username"])
		assert.Equal(t, "Pending", issue["status"])
	})

	t.Run("citizen cannot change status", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPatch, "/api/issues/i10/status", gin.H{
			"status":  "In Progress",
			"comment": "on it",
		}, citizen)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("authority advances the lifecycle", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodPatch, "/api/issues/i10/status", gin.H{
			"status":  "In Progress",
			"comment": "Crew scheduled for Tuesday.",
		}, authority)
		require.Equal(t, http.StatusOK, w.Code)
		var issue map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issue))
		assert.Equal(t, "In Progress", issue["status"])
	})

	t.Run("resolved is terminal", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPatch, "/api/issues/i3/status", gin.H{
			"status":  "Pending",
			"comment": "reopen",
		}, authority)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("upvote counts every call", func(t *testing.T) {
		var last float64
		for k := 0; k < 3; k++ {
			w, env := doJSON(t, r, http.MethodPost, "/api/issues/i10/upvote", nil, citizen)
			require.Equal(t, http.StatusOK, w.Code)
			var out map[string]float64
			require.NoError(t, json.Unmarshal(env.Data, &out))
			last = out["upvotes"]
		}
		assert.Equal(t, float64(3), last)
	})
}

func TestRegistrationOverHTTP(t *testing.T) {
	r := newTestServer(t)

	var userID string

	t.Run("register", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
			"username": "fresh_face",
			"email":    "fresh.face@example.com",
			"mobile":   "9998887776",
			"password": "longenough",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		var st map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &st))
		userID, _ = st["user_id"].(string)
		require.NotEmpty(t, userID)
		assert.Equal(t, "profile_submitted", st["stage"])
	})

	t.Run("duplicate username is 422", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
			"username": "john_doe",
			"email":    "other@example.com",
			"mobile":   "9998887775",
			"password": "longenough",
		}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("availability probe", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/users/availability?username=fresh_face&email=unused@example.com", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]bool
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.False(t, out["username_available"])
		assert.True(t, out["email_available"])
	})

	t.Run("mobile before email is 409", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/verify-otp", gin.H{
			"channel": "mobile",
			"code":    "999999",
		}, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong code is 401", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/verify-otp", gin.H{
			"channel": "email",
			"code":    "111111",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("complete the workflow", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/verify-otp", gin.H{
			"channel": "email",
			"code":    "123456",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/verify-otp", gin.H{
			"channel": "mobile",
			"code":    "999999",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, env := doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/verify-aadhaar", gin.H{
			"aadhaar_id": "123456789012",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var st map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &st))
		assert.Equal(t, "complete", st["stage"])
		assert.Equal(t, true, st["verified"])
	})

	t.Run("login works after verification", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/sessions", gin.H{
			"email":    "fresh.face@example.com",
			"password": "longenough",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUnverifiedLoginBlocked(t *testing.T) {
	r := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username": "half_done",
		"email":    "half.done@example.com",
		"mobile":   "9990001112",
		"password": "longenough",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/sessions", gin.H{
		"email":    "half.done@example.com",
		"password": "longenough",
	}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserLookupEndpoints(t *testing.T) {
	r := newTestServer(t)

	t.Run("public profile hides contact details", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/users/u1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var u map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &u))
		assert.Equal(t, "john_doe", u["username"])
		assert.NotContains(t, u, "email")
		assert.NotContains(t, u, "mobile")
	})

	t.Run("issues by author", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/users/u2/issues", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var issues []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issues))
		assert.Len(t, issues, 2)
	})

	t.Run("issues by authority", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/authorities/a2/issues", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var issues []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &issues))
		assert.Len(t, issues, 2)
	})

	t.Run("own profile includes contact details", func(t *testing.T) {
		cookies := login(t, r, "jane.smith@gmail.com")
		w, env := doJSON(t, r, http.MethodGet, "/api/profile", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		var u map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &u))
		assert.Equal(t, "jane.smith@gmail.com", u["email"])
	})
}
