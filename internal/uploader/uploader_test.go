package uploader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func pdf(name string) *File {
	return FileFromBytes(name, "application/pdf", []byte(name))
}

// sequenceRecorder records upload start/end events and the peak number of
// concurrent uploads.
type sequenceRecorder struct {
	mu       sync.Mutex
	events   []string
	inFlight int
	peak     int
}

func (s *sequenceRecorder) upload(texts map[string]string, errs map[string]error) UploadFunc {
	return func(ctx context.Context, f *File) (string, error) {
		s.mu.Lock()
		s.events = append(s.events, "start "+f.Name)
		s.inFlight++
		if s.inFlight > s.peak {
			s.peak = s.inFlight
		}
		s.mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		s.mu.Lock()
		s.inFlight--
		s.events = append(s.events, "end "+f.Name)
		s.mu.Unlock()

		if err, ok := errs[f.Name]; ok {
			return "", err
		}
		return texts[f.Name], nil
	}
}

func TestAcceptDrop_SequentialInOrder(t *testing.T) {
	rec := &sequenceRecorder{}
	u := New(rec.upload(map[string]string{"A.pdf": "a", "B.pdf": "b", "C.pdf": "c"}, nil))

	n := u.AcceptDrop(context.Background(), []*File{pdf("A.pdf"), pdf("B.pdf"), pdf("C.pdf")})

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		"start A.pdf", "end A.pdf",
		"start B.pdf", "end B.pdf",
		"start C.pdf", "end C.pdf",
	}, rec.events)
	assert.Equal(t, 1, rec.peak)
}

func TestAcceptDrop_TaskStates(t *testing.T) {
	var onFiles [][]*File
	var texts []string
	notifier := &recordingNotifier{}

	a, b := pdf("a.pdf"), pdf("b.pdf")
	var u *Uploader
	u = New(
		func(ctx context.Context, f *File) (string, error) {
			// every task is queued and processing before the first upload starts
			for _, task := range u.Tasks() {
				if task.File != f && task.ParsedText == nil {
					assert.True(t, task.Processing)
					assert.Equal(t, 0, task.Progress)
				}
			}
			if f == b {
				return "", errors.New("Failed to upload file")
			}
			return "Alpha", nil
		},
		WithNotifier(notifier),
		OnFiles(func(files []*File) { onFiles = append(onFiles, files) }),
		OnText(func(name, text string) { texts = append(texts, name+"="+text) }),
	)

	n := u.AcceptDrop(context.Background(), []*File{a, b})
	assert.Equal(t, 1, n)

	require.Len(t, onFiles, 1)
	assert.Equal(t, []*File{a, b}, onFiles[0])
	assert.Equal(t, []string{"a.pdf=Alpha"}, texts)

	tasks := u.Tasks()
	require.Len(t, tasks, 2)

	assert.Equal(t, 100, tasks[0].Progress)
	assert.False(t, tasks[0].Processing)
	require.NotNil(t, tasks[0].ParsedText)
	assert.Equal(t, "Alpha", *tasks[0].ParsedText)

	assert.Equal(t, 0, tasks[1].Progress)
	assert.False(t, tasks[1].Processing)
	assert.Nil(t, tasks[1].ParsedText)

	assert.Equal(t, []Notification{
		{
			Variant:     VariantDefault,
			Title:       "File Uploaded",
			Description: "a.pdf, b.pdf has been uploaded successfully.",
		},
		{
			Variant:     VariantDestructive,
			Title:       "Upload Failed",
			Description: "Failed to upload file",
		},
	}, notifier.all())
}

func TestAcceptDrop_NothingAcceptedNoNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	u := New(func(ctx context.Context, f *File) (string, error) {
		return "", nil
	}, WithNotifier(notifier))

	txt := &File{Name: "notes.txt", MediaType: "text/plain"}
	assert.Equal(t, 0, u.AcceptDrop(context.Background(), []*File{txt}))
	assert.Empty(t, notifier.all())
}

func TestAcceptDrop_FiltersNonPDF(t *testing.T) {
	var uploaded []string
	u := New(func(ctx context.Context, f *File) (string, error) {
		uploaded = append(uploaded, f.Name)
		return "", nil
	})

	files := []*File{
		FileFromBytes("notes.txt", "text/plain", nil),
		pdf("doc.pdf"),
		FileFromBytes("scan.png", "image/png", nil),
		nil,
	}
	u.AcceptDrop(context.Background(), files)

	assert.Equal(t, []string{"doc.pdf"}, uploaded)
	assert.Len(t, u.Tasks(), 1)
}

func TestAcceptDrop_NoSizeLimitEnforced(t *testing.T) {
	u := New(func(ctx context.Context, f *File) (string, error) { return "ok", nil }, WithMaxSize(8))
	big := FileFromBytes("big.pdf", "application/pdf", make([]byte, 1024))

	assert.Equal(t, 1, u.AcceptDrop(context.Background(), []*File{big}))
	assert.Equal(t, int64(8), u.MaxSize())
}

// blockingUpload lets a test hold individual uploads open.
type blockingUpload struct {
	started map[string]chan struct{}
	release map[string]chan struct{}
	mu      sync.Mutex
	calls   []string
}

func newBlockingUpload(names ...string) *blockingUpload {
	b := &blockingUpload{started: map[string]chan struct{}{}, release: map[string]chan struct{}{}}
	for _, n := range names {
		b.started[n] = make(chan struct{})
		b.release[n] = make(chan struct{})
	}
	return b
}

func (b *blockingUpload) upload(ctx context.Context, f *File) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, f.Name)
	b.mu.Unlock()
	if ch, ok := b.started[f.Name]; ok {
		close(ch)
		<-b.release[f.Name]
	}
	return "text of " + f.Name, nil
}

func TestRemoveFile_DuringOtherUpload(t *testing.T) {
	blocker := newBlockingUpload("A.pdf")
	u := New(blocker.upload)
	a, b, c := pdf("A.pdf"), pdf("B.pdf"), pdf("C.pdf")

	done := make(chan int)
	go func() { done <- u.AcceptDrop(context.Background(), []*File{a, b, c}) }()

	<-blocker.started["A.pdf"]
	u.RemoveFile(b)
	close(blocker.release["A.pdf"])
	<-done

	tasks := u.Tasks()
	require.Len(t, tasks, 2)
	assert.Same(t, a, tasks[0].File)
	assert.Same(t, c, tasks[1].File)
	for _, task := range tasks {
		assert.Equal(t, 100, task.Progress)
		require.NotNil(t, task.ParsedText)
		assert.Equal(t, "text of "+task.File.Name, *task.ParsedText)
	}

	// removal does not cancel: B is still uploaded, its result is dropped
	assert.Equal(t, []string{"A.pdf", "B.pdf", "C.pdf"}, blocker.calls)
}

func TestRemoveFile_WhileItsUploadIsInFlight(t *testing.T) {
	blocker := newBlockingUpload("B.pdf")
	u := New(blocker.upload)
	a, b := pdf("A.pdf"), pdf("B.pdf")

	done := make(chan int)
	go func() { done <- u.AcceptDrop(context.Background(), []*File{a, b}) }()

	<-blocker.started["B.pdf"]
	u.RemoveFile(b)
	close(blocker.release["B.pdf"])
	assert.Equal(t, 2, <-done)

	tasks := u.Tasks()
	require.Len(t, tasks, 1)
	assert.Same(t, a, tasks[0].File)
}

func TestRemoveFile_MatchesByIdentity(t *testing.T) {
	u := New(func(ctx context.Context, f *File) (string, error) { return "", nil })
	first, second := pdf("same.pdf"), pdf("same.pdf")
	u.AcceptDrop(context.Background(), []*File{first, second})

	u.RemoveFile(first)

	tasks := u.Tasks()
	require.Len(t, tasks, 1)
	assert.Same(t, second, tasks[0].File)
}

func TestTask_Key(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	task := Task{File: &File{Name: "report.pdf", LastModified: ts}}
	assert.Equal(t, "report.pdf-1700000000123", task.Key())
}

func TestAcceptDrop_CancelledContextNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	u := New(func(ctx context.Context, f *File) (string, error) {
		return "", ctx.Err()
	}, WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, u.AcceptDrop(ctx, []*File{pdf("a.pdf")}))
	notes := notifier.all()
	require.Len(t, notes, 2)
	assert.Equal(t, VariantDestructive, notes[1].Variant)
	assert.Equal(t, context.Canceled.Error(), notes[1].Description)
}
