package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"bootcamp-directory/internal/config"
	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/infrastructure/revocation"
	"bootcamp-directory/internal/testutil/memstore"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthStub struct{ err error }

func (h healthStub) Health(context.Context) error { return h.err }

type fixedGeocoder struct{}

func (fixedGeocoder) Geocode(context.Context, string) (*domainBootcamp.Location, error) {
	return &domainBootcamp.Location{
		Type:             "Point",
		Coordinates:      []float64{-71.104028, 42.350846},
		FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		City:             "Boston",
		Zipcode:          "02215",
	}, nil
}

type savedFile struct {
	name string
	data []byte
}

type fileSink struct {
	mu    sync.Mutex
	saved []savedFile
}

func (f *fileSink) Save(_ context.Context, name, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, savedFile{name: name, data: data})
	return nil
}

type outbox struct {
	mu     sync.Mutex
	bodies []string
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies = append(o.bodies, body)
	return nil
}

func (o *outbox) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bodies[len(o.bodies)-1]
}

type app struct {
	router *gin.Engine
	users  *memstore.Users
	mail   *outbox
	files  *fileSink
}

type envelope struct {
	Success    bool            `json:"success"`
	Count      *int            `json:"count"`
	Pagination json.RawMessage `json:"pagination"`
	Data       json.RawMessage `json:"data"`
	Token      string          `json:"token"`
	Error      string          `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Environment: "test", PublicURL: "http://api.test"},
		JWT:       config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, CookieExpireDays: 30},
		Reset:     config.ResetConfig{TokenTTL: 10 * time.Minute},
		Upload:    config.UploadConfig{MaxBytes: 1000000},
		RateLimit: config.RateLimitConfig{GeneralRPS: 1000, GeneralBurst: 1000},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}},
	}
}

func newApp(t *testing.T, health error) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a := &app{users: memstore.NewUsers(), mail: &outbox{}, files: &fileSink{}}
	a.router = SetupRoutes(ctx, testConfig(), &Dependencies{
		Health:    healthStub{err: health},
		Users:     a.users,
		Bootcamps: memstore.NewBootcamps(),
		Courses:   memstore.NewCourses(),
		Reviews:   memstore.NewReviews(),
		Mailer:    a.mail,
		Registry:  revocation.NewMemoryRegistry(),
		Geocoder:  fixedGeocoder{},
		Files:     a.files,
		Publisher: &memstore.Publisher{},
	})
	return a
}

func (a *app) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(t, req)
}

func (a *app) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *app) register(t *testing.T, name, email string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return env.Token
}

func (a *app) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), &domainUser.User{
		Name: "Admin", Email: "admin@gmail.com", PasswordHashed: hash, Role: domainUser.RoleAdmin,
	}))

	w, env := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@gmail.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return env.Token
}

func (a *app) createBootcamp(t *testing.T, token, name string) map[string]interface{} {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/bootcamps", token, map[string]interface{}{
		"name":        name,
		"description": "Full stack web development",
		"address":     "233 Bay State Rd Boston MA 02215",
		"careers":     []string{"Web Development", "UI/UX"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func TestHealth(t *testing.T) {
	w, _ := newApp(t, nil).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = newApp(t, errors.New("down")).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRegister_DeliversTokenInBodyAndCookie(t *testing.T) {
	a := newApp(t, nil)

	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "John Doe", "email": "john@gmail.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotEmpty(t, env.Token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, env.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)

	w, env = a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Other John", "email": "john@gmail.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Duplicate field value entered", env.Error)
}

func TestLogin_SameFailureForUnknownEmailAndWrongPassword(t *testing.T) {
	a := newApp(t, nil)
	a.register(t, "John Doe", "john@gmail.com")

	wrongPw, wrongEnv := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "john@gmail.com", "password": "nope12345",
	})
	unknown, unknownEnv := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ghost@gmail.com", "password": "secret123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, wrongPw.Code, unknown.Code)
	assert.Equal(t, wrongEnv.Error, unknownEnv.Error)
	assert.Equal(t, "Invalid credentials", wrongEnv.Error)
}

func TestProtect_AcceptsHeaderOrCookie(t *testing.T) {
	a := newApp(t, nil)
	token := a.register(t, "John Doe", "john@gmail.com")

	w, env := a.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized to access this route", env.Error)

	w, env = a.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "john@gmail.com")
	assert.NotContains(t, string(env.Data), "password")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w, _ = a.serve(t, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogout_ClearsCookieAndRevokesToken(t *testing.T) {
	a := newApp(t, nil)
	token := a.register(t, "John Doe", "john@gmail.com")

	w, _ := a.do(t, http.MethodGet, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "none", cookies[0].Value)
	assert.Equal(t, 10, cookies[0].MaxAge)

	w, _ = a.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordReset_SingleUse(t *testing.T) {
	a := newApp(t, nil)
	a.register(t, "John Doe", "john@gmail.com")

	w, _ := a.do(t, http.MethodPost, "/api/v1/auth/forgotpassword", "", map[string]string{"email": "john@gmail.com"})
	require.Equal(t, http.StatusOK, w.Code)

	body := a.mail.last()
	i := strings.Index(body, "/api/v1/auth/resetpassword/")
	require.GreaterOrEqual(t, i, 0)
	path := strings.TrimSpace(body[i:])

	w, env := a.do(t, http.MethodPut, path, "", map[string]string{"password": "newsecret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, env.Token)

	w, env = a.do(t, http.MethodPut, path, "", map[string]string{"password": "another12"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", env.Error)

	w, _ = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "john@gmail.com", "password": "newsecret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsers_AdminOnly(t *testing.T) {
	a := newApp(t, nil)
	token := a.register(t, "John Doe", "john@gmail.com")

	w, env := a.do(t, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User role standard is not authorized to access this route", env.Error)

	adminToken := a.seedAdmin(t)
	w, env = a.do(t, http.MethodGet, "/api/v1/users?limit=1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.JSONEq(t, `{"next":{"page":2,"limit":1}}`, string(env.Pagination))
}

func TestBootcamps_ListWithSelectAndPagination(t *testing.T) {
	a := newApp(t, nil)
	admin := a.seedAdmin(t)
	a.createBootcamp(t, admin, "Devworks Bootcamp")
	a.createBootcamp(t, admin, "ModernTech Bootcamp")

	w, env := a.do(t, http.MethodGet, "/api/v1/bootcamps?select=name&limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, *env.Count)
	assert.JSONEq(t, `{"prev":{"page":1,"limit":1}}`, string(env.Pagination))

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Len(t, items[0], 2)
	assert.Contains(t, items[0], "id")
	assert.Contains(t, items[0], "name")

	w, env = a.do(t, http.MethodGet, "/api/v1/bootcamps?averageCost[between]=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestBootcamps_OneBootcampPerStandardUser(t *testing.T) {
	a := newApp(t, nil)
	token := a.register(t, "John Doe", "john@gmail.com")
	a.createBootcamp(t, token, "Devworks Bootcamp")

	w, env := a.do(t, http.MethodPost, "/api/v1/bootcamps", token, map[string]interface{}{
		"name":        "Second Bootcamp",
		"description": "Another one",
		"address":     "Boston MA",
		"careers":     []string{"Other"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "has already published a bootcamp")
}

func TestBootcamps_Ownership(t *testing.T) {
	a := newApp(t, nil)
	owner := a.register(t, "John Doe", "john@gmail.com")
	stranger := a.register(t, "Jane Roe", "jane@gmail.com")
	admin := a.seedAdmin(t)
	b := a.createBootcamp(t, owner, "Devworks Bootcamp")
	id := b["id"].(string)

	w, env := a.do(t, http.MethodPut, "/api/v1/bootcamps/"+id, stranger, map[string]interface{}{"housing": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, env.Error, "is not authorized to update this bootcamp")

	w, _ = a.do(t, http.MethodPut, "/api/v1/bootcamps/"+id, admin, map[string]interface{}{"housing": true})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/v1/bootcamps/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Bootcamp not found with id of not-an-id", env.Error)
}

func TestBootcamps_PhotoUpload(t *testing.T) {
	a := newApp(t, nil)
	owner := a.register(t, "John Doe", "john@gmail.com")
	id := a.createBootcamp(t, owner, "Devworks Bootcamp")["id"].(string)

	upload := func(contentType string) (*httptest.ResponseRecorder, envelope) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="Campus.PNG"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("fake image bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/v1/bootcamps/"+id+"/photo", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+owner)
		return a.serve(t, req)
	}

	w, env := upload("text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please upload an image file", env.Error)

	w, env = upload("image/png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `"photo_`+id+`.png"`, string(env.Data))
	require.Len(t, a.files.saved, 1)
	assert.Equal(t, "fake image bytes", string(a.files.saved[0].data))
}

func TestCoursesAndReviews_NestedRoutes(t *testing.T) {
	a := newApp(t, nil)
	owner := a.register(t, "John Doe", "john@gmail.com")
	reviewer := a.register(t, "Jane Roe", "jane@gmail.com")
	id := a.createBootcamp(t, owner, "Devworks Bootcamp")["id"].(string)

	w, _ := a.do(t, http.MethodPost, "/api/v1/bootcamps/"+id+"/courses", reviewer, map[string]interface{}{
		"title": "Front End", "description": "HTML CSS JS", "weeks": "8", "tuition": 8000, "minimumSkill": "beginner",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/v1/bootcamps/"+id+"/courses", owner, map[string]interface{}{
		"title": "Front End", "description": "HTML CSS JS", "weeks": "8", "tuition": 8000, "minimumSkill": "beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := a.do(t, http.MethodGet, "/api/v1/bootcamps/"+id+"/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)

	review := map[string]interface{}{"title": "Great", "text": "Learned a lot", "rating": 9}
	w, _ = a.do(t, http.MethodPost, "/api/v1/bootcamps/"+id+"/reviews", reviewer, review)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = a.do(t, http.MethodPost, "/api/v1/bootcamps/"+id+"/reviews", reviewer, review)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Duplicate field value entered", env.Error)

	w, env = a.do(t, http.MethodGet, "/api/v1/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(t, nil)
	a.do(t, http.MethodGet, "/api/v1/bootcamps", "", nil)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_server_requests_total")
}
