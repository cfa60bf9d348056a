// Package uitest provides recording fakes for the ui capabilities.
package uitest

import (
	"bytes"
	"context"
	"sync"

	"github.com/a-h/templ"

	"github.com/okian/skillview/internal/ui"
)

// Notice is one recorded Notify call.
type Notice struct {
	Message string
	Kind    ui.Kind
}

// Recorder implements every ui capability and remembers what happened.
type Recorder struct {
	mu sync.Mutex

	// ConfirmAnswer is returned by Confirm.
	ConfirmAnswer bool

	Confirms   []string
	Notices    []Notice
	Logins     int
	Entries    int
	Mounted    map[ui.Slot]string
	MountCount map[ui.Slot]int
	Controls   map[string][]ui.ControlState
	Resets     []string
	Visibility map[string][]bool
}

// New returns an empty Recorder that answers Confirm with answer.
func New(answer bool) *Recorder {
	return &Recorder{
		ConfirmAnswer: answer,
		Mounted:       map[ui.Slot]string{},
		MountCount:    map[ui.Slot]int{},
		Controls:      map[string][]ui.ControlState{},
		Visibility:    map[string][]bool{},
	}
}

// UI returns the recorder as a ui.UI bundle.
func (r *Recorder) UI() ui.UI {
	return ui.UI{Notifier: r, Navigator: r, Surface: r}
}

func (r *Recorder) Notify(_ context.Context, message string, kind ui.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, Notice{Message: message, Kind: kind})
}

func (r *Recorder) Confirm(_ context.Context, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Confirms = append(r.Confirms, message)
	return r.ConfirmAnswer
}

func (r *Recorder) ToLogin(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Logins++
}

func (r *Recorder) ToEntry(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries++
}

func (r *Recorder) Mount(ctx context.Context, slot ui.Slot, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mounted[slot] = buf.String()
	r.MountCount[slot]++
	return nil
}

func (r *Recorder) SetControl(_ context.Context, id string, state ui.ControlState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Controls[id] = append(r.Controls[id], state)
}

func (r *Recorder) ResetForm(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resets = append(r.Resets, id)
}

func (r *Recorder) Show(_ context.Context, id string, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Visibility[id] = append(r.Visibility[id], visible)
}

// HTML returns what is currently mounted in slot.
func (r *Recorder) HTML(slot ui.Slot) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Mounted[slot]
}

// Messages returns the recorded notice texts in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Message
	}
	return out
}

// Navigations returns how many login and entry redirects happened.
func (r *Recorder) Navigations() (login, entry int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Logins, r.Entries
}

// ControlHistory returns a copy of the states set on id.
func (r *Recorder) ControlHistory(id string) []ui.ControlState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ui.ControlState(nil), r.Controls[id]...)
}

// Mounts returns how many times slot was mounted.
func (r *Recorder) Mounts(slot ui.Slot) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.MountCount[slot]
}
