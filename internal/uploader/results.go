package uploader

import (
	"sort"
	"sync"
	"time"
)

// Entry is the extracted text shown for one file name.
type Entry struct {
	Name       string
	Text       string
	UploadedAt time.Time
}

// Results is the display view over uploaded files: one entry per file name,
// the most recent text winning.
type Results struct {
	mu      sync.Mutex
	files   []*File
	entries map[string]Entry
	now     func() time.Time
}

// NewResults creates an empty view.
func NewResults() *Results {
	return &Results{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Options wires the view to an Uploader's callbacks.
func (r *Results) Options() []Option {
	return []Option{OnFiles(r.AddFiles), OnText(r.SetText)}
}

// AddFiles records files as uploaded.
func (r *Results) AddFiles(files []*File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, files...)
}

// SetText replaces any entry for name.
func (r *Results) SetText(name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = Entry{Name: name, Text: text, UploadedAt: r.now()}
}

// Entry returns the entry for name.
func (r *Results) Entry(name string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns all entries ordered by file name.
func (r *Results) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Files returns the uploaded files in the order they were added.
func (r *Results) Files() []*File {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*File, len(r.files))
	copy(out, r.files)
	return out
}

// Remove deletes the entry for name and every uploaded file with that name.
func (r *Results) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
	kept := r.files[:0]
	for _, f := range r.files {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	r.files = kept
}
