package router_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"hellfire/internal/models"
	"hellfire/internal/router"
	"hellfire/internal/services"
	"hellfire/internal/storage"
	"hellfire/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testApp struct {
	server    *httptest.Server
	conn      *gorm.DB
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.SetupTestDatabase(t)
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	uploads, err := storage.NewStore(uploadDir, 1<<20)
	require.NoError(t, err)

	svc := &router.Services{
		Auth:       services.NewAuthService(conn),
		Content:    services.NewContentService(conn),
		Reactions:  services.NewReactionService(conn),
		Moderation: services.NewModerationService(conn),
		Profiles:   services.NewProfileService(conn, uploads),
	}
	engine, err := router.NewEngine(svc, router.Options{
		SessionSecret:  "test-secret",
		TemplatesDir:   "../../web/templates",
		StaticDir:      "../../web/static",
		UploadDir:      uploadDir,
		MaxUploadBytes: 8 << 10,
	})
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return &testApp{server: server, conn: conn, uploadDir: uploadDir}
}

// client is a browser stand-in: it keeps cookies and does not follow redirects.
type client struct {
	t    *testing.T
	app  *testApp
	http *http.Client
}

func (a *testApp) newClient(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{
		t:   t,
		app: a,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) get(path string) (int, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.app.server.URL + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, string(body)
}

// post submits a form and returns the status and redirect target.
func (c *client) post(path string, form url.Values) (int, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.app.server.URL+path, form)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location")
}

func (c *client) upload(path, field, filename string, data []byte) (int, string) {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())

	resp, err := c.http.Post(c.app.server.URL+path, w.FormDataContentType(), &buf)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location")
}

func (c *client) register(username, password string) {
	c.t.Helper()
	code, loc := c.post("/register", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.t, http.StatusFound, code)
	require.Equal(c.t, "/login", loc)
}

func (c *client) login(username, password string) {
	c.t.Helper()
	code, loc := c.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.t, http.StatusFound, code)
	require.Equal(c.t, "/", loc)
}

func topicURL(id uint) string {
	return fmt.Sprintf("/topic/%d", id)
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	alice := app.newClient(t)

	alice.register("alice", "secret")
	_, body := alice.get("/login")
	assert.Contains(t, body, "Registration successful!")

	code, loc := alice.post("/register", url.Values{"username": {"alice"}, "password": {"other"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/register", loc)
	_, body = alice.get("/register")
	assert.Contains(t, body, "This username is already taken.")

	var count int64
	app.conn.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)

	code, loc = alice.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", loc)
	_, body = alice.get("/login")
	assert.Contains(t, body, "Wrong username or password.")

	alice.login("alice", "secret")
	_, body = alice.get("/")
	assert.Contains(t, body, "Logged in!")
	assert.Contains(t, body, "Log out")

	code, _ = alice.get("/logout")
	assert.Equal(t, http.StatusFound, code)
	_, body = alice.get("/")
	assert.Contains(t, body, "Logged out.")
	assert.NotContains(t, body, "Log out")
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	app := newTestApp(t)
	anon := app.newClient(t)

	code, loc := anon.post("/create", url.Values{"title": {"x"}, "content": {"y"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", loc)

	code, loc = anon.post("/like/1", nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", loc)

	var count int64
	app.conn.Model(&models.Topic{}).Count(&count)
	assert.Zero(t, count)
}

func TestCommentOwnershipFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.newClient(t)
	bob := app.newClient(t)

	alice.register("alice", "pw-a")
	bob.register("bob", "pw-b")
	alice.login("alice", "pw-a")
	bob.login("bob", "pw-b")

	code, loc := alice.post("/create", url.Values{"title": {"Hi"}, "content": {"Body"}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/", loc)

	var topic models.Topic
	require.NoError(t, app.conn.First(&topic).Error)
	assert.Equal(t, "alice", topic.Author)

	_, body := alice.get("/")
	assert.Contains(t, body, "Hi")

	code, loc = bob.post(topicURL(topic.ID)+"/comment", url.Values{"content": {"Nice"}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, topicURL(topic.ID), loc)

	var comment models.Comment
	require.NoError(t, app.conn.First(&comment).Error)
	assert.Equal(t, "bob", comment.Author)

	code, loc = alice.post(fmt.Sprintf("/comment/%d/delete", comment.ID), nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, topicURL(topic.ID), loc)
	_, body = alice.get(topicURL(topic.ID))
	assert.Contains(t, body, "Only the author can delete this comment!")
	assert.Contains(t, body, "Nice")

	var count int64
	app.conn.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(1), count)

	code, _ = bob.post(fmt.Sprintf("/comment/%d/delete", comment.ID), nil)
	assert.Equal(t, http.StatusFound, code)
	_, body = bob.get(topicURL(topic.ID))
	assert.Contains(t, body, "Comment deleted!")

	app.conn.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestTopicPages(t *testing.T) {
	app := newTestApp(t)
	anon := app.newClient(t)
	topic := testutil.CreateTestTopic(t, app.conn, "alice", "Markdown", "**bold** <script>alert(1)</script>")

	code, body := anon.get(topicURL(topic.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<strong>bold</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")

	code, _ = anon.get("/topic/999")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = anon.get("/topic/abc")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLikeToggle(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateTestUser(t, app.conn, "alice", "pw", false)
	topic := testutil.CreateTestTopic(t, app.conn, "bob", "Hi", "Body")

	alice := app.newClient(t)
	alice.login("alice", "pw")

	likes := func() int64 {
		var n int64
		app.conn.Model(&models.Like{}).Where("topic_id = ?", topic.ID).Count(&n)
		return n
	}

	code, loc := alice.post(fmt.Sprintf("/like/%d", topic.ID), nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, topicURL(topic.ID), loc)
	assert.Equal(t, int64(1), likes())
	_, body := alice.get(topicURL(topic.ID))
	assert.Contains(t, body, "Unlike")

	alice.post(fmt.Sprintf("/like/%d", topic.ID), nil)
	assert.Zero(t, likes())

	code, loc = alice.post("/like/999", nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/", loc)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateTestUser(t, app.conn, "root", "pw", true)
	testutil.CreateTestUser(t, app.conn, "alice", "pw", false)
	topic := testutil.CreateTestTopic(t, app.conn, "alice", "Doomed", "Body")
	testutil.CreateTestComment(t, app.conn, topic.ID, "alice", "c")

	alice := app.newClient(t)
	alice.login("alice", "pw")

	resp, err := alice.http.Get(app.server.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	_, body := alice.get("/")
	assert.Contains(t, body, "This page is for admins only!")

	code, loc := alice.post(fmt.Sprintf("/admin/delete_topic/%d", topic.ID), nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/", loc)
	var count int64
	app.conn.Model(&models.Topic{}).Count(&count)
	assert.Equal(t, int64(1), count)

	root := app.newClient(t)
	root.login("root", "pw")

	code, body = root.get("/admin")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Doomed")
	assert.Contains(t, body, "alice")

	code, loc = root.post(fmt.Sprintf("/admin/edit_topic/%d", topic.ID), url.Values{"title": {"Saved"}, "content": {"New body"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/admin", loc)
	var edited models.Topic
	require.NoError(t, app.conn.First(&edited, topic.ID).Error)
	assert.Equal(t, "Saved", edited.Title)
	assert.Equal(t, "New body", edited.Content)

	code, loc = root.post(fmt.Sprintf("/admin/delete_topic/%d", topic.ID), nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/admin", loc)
	app.conn.Model(&models.Topic{}).Count(&count)
	assert.Zero(t, count)
	app.conn.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestProfilePictureAndTheme(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateTestUser(t, app.conn, "alice", "pw", false)
	testutil.CreateTestUser(t, app.conn, "bob", "pw", false)

	alice := app.newClient(t)
	alice.login("alice", "pw")
	bob := app.newClient(t)
	bob.login("bob", "pw")

	code, loc := bob.upload("/profile/alice", "profile_pic", "evil.png", pngBytes)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/profile/alice", loc)

	var user models.User
	require.NoError(t, app.conn.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, models.DefaultProfilePic, user.ProfilePic)

	code, _ = alice.upload("/profile/alice", "profile_pic", "../my avatar.png", pngBytes)
	assert.Equal(t, http.StatusFound, code)
	require.NoError(t, app.conn.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, "my_avatar.png", user.ProfilePic)
	_, err := os.Stat(filepath.Join(app.uploadDir, "my_avatar.png"))
	assert.NoError(t, err)

	code, body := alice.get("/profile/alice")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Profile picture updated!")
	assert.Contains(t, body, "/uploads/my_avatar.png")

	code, _ = alice.upload("/profile/alice", "profile_pic", "notes.png", []byte("plain text"))
	assert.Equal(t, http.StatusFound, code)
	_, body = alice.get("/profile/alice")
	assert.Contains(t, body, "Please upload a valid image file.")

	code, loc = alice.post("/set_theme", url.Values{"theme": {"ice"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/profile/alice", loc)
	require.NoError(t, app.conn.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, "ice", user.Theme)

	_, body = alice.get("/")
	assert.Contains(t, body, `class="theme-ice"`)

	code, _ = alice.get("/profile/ghost")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestProfilePictureBodyLimit(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateTestUser(t, app.conn, "alice", "pw", false)
	alice := app.newClient(t)
	alice.login("alice", "pw")

	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 32<<10)...)
	code, loc := alice.upload("/profile/alice", "profile_pic", "huge.png", big)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/profile/alice", loc)

	_, body := alice.get("/profile/alice")
	assert.Contains(t, body, "Profile picture is too large.")

	var user models.User
	require.NoError(t, app.conn.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, models.DefaultProfilePic, user.ProfilePic)

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
