package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FolderVideos is the prefix under which uploaded videos are stored.
const FolderVideos = "videos"

// ErrForeignPath is returned by Delete for a path the store did not issue.
var ErrForeignPath = errors.New("path not managed by this store")

// MediaStore persists uploaded media and removes it again.
// Put returns the public path recorded on the video; Delete accepts that path.
type MediaStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

var whitespace = regexp.MustCompile(`\s+`)

// VideoKey returns videos/<unixMillis>-<name>, with whitespace in name replaced by underscores.
func VideoKey(originalName string, now time.Time) string {
	name := whitespace.ReplaceAllString(path.Base(originalName), "_")
	return path.Join(FolderVideos, strconv.FormatInt(now.UnixMilli(), 10)+"-"+name)
}

// IsVideoContentType reports whether contentType is a video/* MIME type.
func IsVideoContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/")
}
