package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagmk/Reel/internal/models"
)

func init() { gin.SetMode(gin.TestMode) }

func TestManagerSaveLoadDestroy(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{Secret: "k", TTL: time.Hour}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	s := &Session{User: &Principal{AccountID: uuid.New(), Email: "u@example.com", Role: models.RoleUser}}
	require.NoError(t, m.Save(c, s))
	require.NotEmpty(t, s.ID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(cookies[0])
	loaded := m.Load(c2)
	assert.True(t, loaded.IsUser())
	assert.Equal(t, s.ID, loaded.ID)

	require.NoError(t, m.Destroy(c2, loaded))
	_, err := store.Get(c2.Request.Context(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, FromContext(c2).IsUser())
}

func TestManagerLoadIgnoresTamperedCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), Options{Secret: "k"}, nil)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "reel.sid", Value: "not-a-token"})

	s := m.Load(c)
	assert.False(t, s.IsUser())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.ID)
}

func TestManagerRegenerateDropsOldRecord(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{Secret: "k", TTL: time.Hour}, nil)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	old := &Session{User: &Principal{AccountID: uuid.New(), Role: models.RoleUser}}
	require.NoError(t, m.Save(c, old))
	oldID := old.ID

	fresh := m.Regenerate(c, old)
	assert.Empty(t, fresh.ID)
	assert.Equal(t, old.User, fresh.User)
	assert.Same(t, fresh, FromContext(c))
	_, err := store.Get(c.Request.Context(), oldID)
	assert.ErrorIs(t, err, ErrNotFound)

	fresh.Admin = &Principal{AccountID: uuid.New(), Role: models.RoleDeveloper}
	require.NoError(t, m.Save(c, fresh))
	assert.NotEqual(t, oldID, fresh.ID)
}
