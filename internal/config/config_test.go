package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameDefaults(t *testing.T) {
	g, err := NewGame()
	require.NoError(t, err)
	assert.Equal(t, 10, g.PreviewTime)
	assert.Equal(t, 500*time.Millisecond, g.CompletionDelay)
	assert.Equal(t, 1500*time.Millisecond, g.WrongMarkerDuration)
	assert.Equal(t, 343.0, g.MaxWidth)
	assert.Equal(t, 400.0, g.MaxHeight)
	assert.Equal(t, 2*time.Hour, g.SessionTTL)
}

func TestNewGameFromEnv(t *testing.T) {
	t.Setenv("PREVIEW_TIME", "0")
	t.Setenv("COMPLETION_DELAY", "0s")
	t.Setenv("PUZZLE_MAX_WIDTH", "600.5")
	g, err := NewGame()
	require.NoError(t, err)
	assert.Zero(t, g.PreviewTime)
	assert.Zero(t, g.CompletionDelay)
	assert.Equal(t, 600.5, g.MaxWidth)
}

func TestNewGameRejects(t *testing.T) {
	for key, value := range map[string]string{
		"PREVIEW_TIME":      "-1",
		"COMPLETION_DELAY":  "soon",
		"PUZZLE_MAX_HEIGHT": "0",
		"SESSION_TTL":       "0s",
		"PUZZLE_MAX_WIDTH":  "wide",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := NewGame()
			assert.Error(t, err)
		})
	}
}

func TestNewRateLimit(t *testing.T) {
	rl, err := NewRateLimit()
	require.NoError(t, err)
	assert.Equal(t, RateLimit{RPS: 20, Burst: 40}, *rl)

	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("RATE_LIMIT_BURST", "5")
	rl, err = NewRateLimit()
	require.NoError(t, err)
	assert.Equal(t, RateLimit{RPS: 1, Burst: 5}, *rl)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr())
	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Addr())
	t.Setenv("APP_ADDR", "127.0.0.1:7000")
	assert.Equal(t, "127.0.0.1:7000", Addr())
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JIGSAW_DOTENV_A=from-file\nJIGSAW_DOTENV_B=from-file\n"), 0o600))

	t.Setenv("JIGSAW_DOTENV_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("JIGSAW_DOTENV_A") })

	require.NoError(t, LoadDotenv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("JIGSAW_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("JIGSAW_DOTENV_B"))
}

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	j, err := NewJWT(time.Hour)
	require.NoError(t, err)
	assert.False(t, j.Ephemeral())

	token, err := j.Sign("session-1")
	require.NoError(t, err)
	id, err := j.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)

	_, err = j.ParseSession(token + "x")
	assert.Error(t, err)
}

func TestJWTRejectsForeignAndExpiredTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	j, err := NewJWT(time.Hour)
	require.NoError(t, err)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "s"},
	}).SignedString([]byte("another-secret-entirely"))
	require.NoError(t, err)
	_, err = j.ParseSession(other)
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "s",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("0123456789abcdef"))
	require.NoError(t, err)
	_, err = j.ParseSession(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{}).
		SignedString([]byte("0123456789abcdef"))
	require.NoError(t, err)
	_, err = j.ParseSession(noSubject)
	assert.Error(t, err)
}

func TestJWTSecretSources(t *testing.T) {
	j, err := NewJWT(time.Hour)
	require.NoError(t, err)
	assert.True(t, j.Ephemeral())

	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("  file-secret-0123456789\n"), 0o600))
	t.Setenv("JWT_SECRET_FILE", path)
	j, err = NewJWT(time.Hour)
	require.NoError(t, err)
	assert.False(t, j.Ephemeral())

	t.Setenv("JWT_SECRET", "short")
	_, err = NewJWT(time.Hour)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	log, err := NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	t.Setenv("DEVELOPMENT", "1")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	log, err = NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	t.Setenv("LOG_LEVEL", "loud")
	_, err = NewLogger()
	assert.Error(t, err)
}

func TestNewLoggerWithFile(t *testing.T) {
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "jigsaw.log"))
	log, err := NewLogger()
	require.NoError(t, err)
	assert.NotEmpty(t, log.Hooks[logrus.InfoLevel])
}

func TestWebSocketRejectsNonPositivePongWait(t *testing.T) {
	for _, v := range []string{"0s", "-5s", "forever"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("WS_PONG_WAIT", v)
			_, err := NewWebSocket()
			assert.Error(t, err)
		})
	}

	t.Setenv("WS_PONG_WAIT", "10s")
	ws, err := NewWebSocket()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Second, ws.PingPeriod)
}

func TestWebSocketOrigins(t *testing.T) {
	ws, err := NewWebSocket()
	require.NoError(t, err)
	assert.Equal(t, 54*time.Second, ws.PingPeriod)

	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	ws, err = NewWebSocket()
	require.NoError(t, err)
	assert.True(t, ws.Upgrader.CheckOrigin(originRequest("https://b.example")))
	assert.False(t, ws.Upgrader.CheckOrigin(originRequest("https://c.example")))
}

func originRequest(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", origin)
	return r
}
