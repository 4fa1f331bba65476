// Package uploader drives client-side uploads: it tracks one task per
// dropped file and uploads the files of a drop one at a time.
package uploader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pdf-parse/backend/internal/parser"
)

// Task tracks one file's upload.
type Task struct {
	File       *File
	Progress   int
	Processing bool
	ParsedText *string
}

// Key identifies a task for display. It is not unique across files that
// share a name and modification time.
func (t Task) Key() string {
	return fmt.Sprintf("%s-%d", t.File.Name, t.File.LastModified.UnixMilli())
}

// UploadFunc sends one file and returns its extracted text.
type UploadFunc func(ctx context.Context, f *File) (string, error)

// Uploader holds the ordered task list.
type Uploader struct {
	mu    sync.Mutex
	tasks []*Task

	upload   UploadFunc
	notifier Notifier
	onFiles  func(files []*File)
	onText   func(name, text string)
	maxSize  int64
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithNotifier sets where failure notifications go.
func WithNotifier(n Notifier) Option {
	return func(u *Uploader) { u.notifier = n }
}

// OnFiles is called once per drop with the accepted files.
func OnFiles(fn func(files []*File)) Option {
	return func(u *Uploader) { u.onFiles = fn }
}

// OnText is called for each file whose upload succeeds.
func OnText(fn func(name, text string)) Option {
	return func(u *Uploader) { u.onText = fn }
}

// WithMaxSize records a size limit. It is exposed through MaxSize but not
// enforced when accepting files.
func WithMaxSize(n int64) Option {
	return func(u *Uploader) { u.maxSize = n }
}

// New creates an Uploader that sends files with upload.
func New(upload UploadFunc, opts ...Option) *Uploader {
	u := &Uploader{
		upload:   upload,
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// MaxSize returns the configured, unenforced size limit.
func (u *Uploader) MaxSize() int64 {
	return u.maxSize
}

// Accept reports whether the drop target takes f. Only PDFs are accepted.
func (u *Uploader) Accept(f *File) bool {
	return f != nil && parser.IsPDF(f.MediaType, f.Name)
}

// AcceptDrop queues the acceptable files and uploads them sequentially,
// each upload finishing before the next begins. It returns the number of
// successful uploads.
func (u *Uploader) AcceptDrop(ctx context.Context, files []*File) int {
	accepted := make([]*File, 0, len(files))
	for _, f := range files {
		if u.Accept(f) {
			accepted = append(accepted, f)
		}
	}

	u.mu.Lock()
	for _, f := range accepted {
		u.tasks = append(u.tasks, &Task{File: f, Progress: 0, Processing: true})
	}
	u.mu.Unlock()

	if u.onFiles != nil {
		u.onFiles(accepted)
	}
	if len(accepted) > 0 {
		u.notifier.Notify(Notification{
			Variant:     VariantDefault,
			Title:       "File Uploaded",
			Description: fmt.Sprintf("%s has been uploaded successfully.", joinNames(accepted)),
		})
	}

	succeeded := 0
	for _, f := range accepted {
		if u.uploadOne(ctx, f) {
			succeeded++
		}
	}
	return succeeded
}

func joinNames(files []*File) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

func (u *Uploader) uploadOne(ctx context.Context, f *File) bool {
	text, err := u.upload(ctx, f)
	if err != nil {
		u.notifier.Notify(Notification{
			Variant:     VariantDestructive,
			Title:       "Upload Failed",
			Description: err.Error(),
		})
		u.update(f, func(t *Task) {
			t.Progress = 0
			t.Processing = false
		})
		return false
	}

	u.update(f, func(t *Task) {
		t.ParsedText = &text
		t.Progress = 100
		t.Processing = false
	})
	if u.onText != nil {
		u.onText(f.Name, text)
	}
	return true
}

// update applies fn to every task for f. Tasks removed in the meantime
// are not matched, so a late result is dropped.
func (u *Uploader) update(f *File, fn func(t *Task)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, t := range u.tasks {
		if t.File == f {
			fn(t)
		}
	}
}

// RemoveFile drops the tasks for f. An upload already in flight is not cancelled.
func (u *Uploader) RemoveFile(f *File) {
	u.mu.Lock()
	defer u.mu.Unlock()

	kept := u.tasks[:0]
	for _, t := range u.tasks {
		if t.File != f {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(u.tasks); i++ {
		u.tasks[i] = nil
	}
	u.tasks = kept
}

// Tasks returns a snapshot of the task list in drop order.
func (u *Uploader) Tasks() []Task {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]Task, len(u.tasks))
	for i, t := range u.tasks {
		out[i] = *t
	}
	return out
}
