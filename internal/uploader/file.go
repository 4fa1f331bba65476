package uploader

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"
)

// File is a user-selected file. Tasks refer to files by pointer, so two
// File values with the same name are still distinct files.
type File struct {
	Name         string
	MediaType    string
	Size         int64
	LastModified time.Time
	Open         func() (io.ReadCloser, error)
}

// FileFromPath describes a file on disk. The media type is derived from the extension.
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &File{
		Name:         filepath.Base(path),
		MediaType:    mime.TypeByExtension(filepath.Ext(path)),
		Size:         info.Size(),
		LastModified: info.ModTime(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FileFromBytes describes an in-memory file.
func FileFromBytes(name, mediaType string, data []byte) *File {
	return &File{
		Name:         name,
		MediaType:    mediaType,
		Size:         int64(len(data)),
		LastModified: time.Now(),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
