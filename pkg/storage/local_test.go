package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	p, err := s.Put(ctx, "videos/1-clip.mp4", strings.NewReader("data"), 4, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/videos/1-clip.mp4", p)

	b, err := os.ReadFile(filepath.Join(root, "videos", "1-clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	require.NoError(t, s.Delete(ctx, p))
	_, err = os.Stat(filepath.Join(root, "videos", "1-clip.mp4"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, s.Delete(ctx, p), "second delete reports the missing file")
}

func TestLocalStoreRejectsForeignAndEscapingPaths(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(context.Background(), "/etc/passwd"), ErrForeignPath)

	p, err := s.Put(context.Background(), "../../escape.mp4", strings.NewReader("x"), 1, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.mp4", p)
	_, err = os.Stat(filepath.Join(root, "escape.mp4"))
	assert.NoError(t, err)
}

func TestVideoKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "videos/1700000000123-my_first_clip.mp4", VideoKey("my first\tclip.mp4", now))
	assert.Equal(t, "videos/1700000000123-x.mp4", VideoKey("dir/x.mp4", now))
}

func TestIsVideoContentType(t *testing.T) {
	assert.True(t, IsVideoContentType("video/mp4"))
	assert.True(t, IsVideoContentType("Video/QuickTime"))
	assert.False(t, IsVideoContentType("image/png"))
	assert.False(t, IsVideoContentType(""))
}
