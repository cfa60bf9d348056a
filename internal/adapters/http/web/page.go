package web

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
)

// Redirect targets.
const (
	LoginPath = "/login"
	EntryPath = "/"
)

type ctxKey struct{}

// response collects what controllers did while one request was handled.
// Everything except notices is written as out-of-band swaps.
type response struct {
	mu       sync.Mutex
	closed   bool
	parts    []string
	notices  []string
	redirect string
}

func (r *response) add(part string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.parts = append(r.parts, part)
	return true
}

func (r *response) notice(html string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.notices = append(r.notices, html)
	return true
}

func (r *response) navigate(to string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.redirect == "" {
		r.redirect = to
	}
	return true
}

// close stops further collection and returns what was collected.
func (r *response) close() (parts, notices []string, redirect string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return r.parts, r.notices, r.redirect
}

func responseFrom(ctx context.Context) *response {
	r, _ := ctx.Value(ctxKey{}).(*response)
	return r
}

// Page is the server-side model of the dashboard page. It implements the
// ui capabilities for the controllers: it remembers the latest fragment per
// slot for full page renders and forwards every change to the request that
// caused it. Changes made outside any request are held until the next one.
type Page struct {
	mu      sync.Mutex
	slots   map[ui.Slot]string
	pending *response
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{slots: map[ui.Slot]string{}, pending: &response{}}
}

// UI exposes the page as the controllers' ui bundle.
func (p *Page) UI() ui.UI {
	return ui.UI{Notifier: p, Navigator: p, Surface: p}
}

// begin attaches a fresh collector to ctx.
func (p *Page) begin(ctx context.Context) (context.Context, *response) {
	r := &response{}
	return context.WithValue(ctx, ctxKey{}, r), r
}

func (p *Page) target(ctx context.Context, fn func(*response) bool) {
	if r := responseFrom(ctx); r != nil && fn(r) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.pending)
}

// drain hands over everything collected outside a request.
func (p *Page) drain() (parts, notices []string, redirect string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	parts, notices, redirect = p.pending.close()
	p.pending = &response{}
	return parts, notices, redirect
}

// Slot returns the latest fragment mounted in slot.
func (p *Page) Slot(slot ui.Slot) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slots[slot]
}

// Mount renders c and records it as the slot's content.
func (p *Page) Mount(ctx context.Context, slot ui.Slot, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return err
	}
	html := buf.String()
	p.mu.Lock()
	p.slots[slot] = html
	p.mu.Unlock()
	p.target(ctx, func(r *response) bool { return r.add(slotSwap(slot, html)) })
	return nil
}

// SetControl re-renders a known control in the given state. Unknown ids
// are ignored.
func (p *Page) SetControl(ctx context.Context, id string, state ui.ControlState) {
	raw, ok := strings.CutPrefix(id, "delete-btn-")
	if !ok {
		return
	}
	projectID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}
	html := withOOB(view.DeleteButton(projectID, state.Disabled, state.Label))
	p.target(ctx, func(r *response) bool { return r.add(html) })
}

// ResetForm swaps in an empty copy of the form.
func (p *Page) ResetForm(ctx context.Context, id string) {
	if id != ui.UploadForm {
		return
	}
	html := withOOB(renderString(ctx, view.UploadForm()))
	p.target(ctx, func(r *response) bool { return r.add(html) })
}

// Show toggles an indicator.
func (p *Page) Show(ctx context.Context, id string, visible bool) {
	if id != ui.UploadProgress {
		return
	}
	html := withOOB(renderString(ctx, view.UploadProgress(visible)))
	p.target(ctx, func(r *response) bool { return r.add(html) })
}

// Notify queues a notice for the current or next response.
func (p *Page) Notify(ctx context.Context, message string, kind ui.Kind) {
	html := renderString(ctx, view.Notice(message, string(kind)))
	p.target(ctx, func(r *response) bool { return r.notice(html) })
}

// Confirm always agrees: the browser asks the user (hx-confirm) before
// the request is sent.
func (p *Page) Confirm(context.Context, string) bool { return true }

func (p *Page) ToLogin(ctx context.Context) {
	p.target(ctx, func(r *response) bool { return r.navigate(LoginPath) })
}

func (p *Page) ToEntry(ctx context.Context) {
	p.target(ctx, func(r *response) bool { return r.navigate(EntryPath) })
}

// write sends the collected changes: held changes first, then this
// request's, then extra.
func (p *Page) write(w http.ResponseWriter, r *http.Request, resp *response, extra ...string) {
	heldParts, heldNotices, heldRedirect := p.drain()
	parts, notices, redirect := resp.close()
	if redirect == "" {
		redirect = heldRedirect
	}
	if redirect != "" {
		sendRedirect(w, r, redirect)
		return
	}

	var b strings.Builder
	for _, set := range [][]string{heldParts, parts, extra} {
		for _, part := range set {
			b.WriteString(part)
		}
	}
	if all := append(heldNotices, notices...); len(all) > 0 {
		b.WriteString(`<div hx-swap-oob="beforeend:#notices">`)
		for _, n := range all {
			b.WriteString(n)
		}
		b.WriteString(`</div>`)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// renderDashboard writes the full page from the latest fragments.
func (p *Page) renderDashboard(w http.ResponseWriter, r *http.Request, resp *response) error {
	_, heldNotices, heldRedirect := p.drain()
	_, notices, redirect := resp.close()
	if redirect == "" {
		redirect = heldRedirect
	}
	if redirect != "" {
		sendRedirect(w, r, redirect)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return view.DashboardPage(view.Dashboard{
		User:     templ.Raw(p.Slot(ui.SlotUser)),
		Notices:  templ.Raw(strings.Join(append(heldNotices, notices...), "")),
		Projects: templ.Raw(p.Slot(ui.SlotProjects)),
		Skills:   templ.Raw(p.Slot(ui.SlotSkills)),
	}).Render(r.Context(), w)
}

// slotPart re-sends a slot's current content.
func (p *Page) slotPart(slot ui.Slot) string {
	return slotSwap(slot, p.Slot(slot))
}

func slotSwap(slot ui.Slot, html string) string {
	return `<div id="` + string(slot) + `" hx-swap-oob="innerHTML">` + html + `</div>`
}

// withOOB marks the first element of html as an out-of-band swap.
func withOOB(html string) string {
	i := strings.IndexAny(html, " >")
	if !strings.HasPrefix(html, "<") || i < 0 {
		return html
	}
	return html[:i] + ` hx-swap-oob="true"` + html[i:]
}

func renderString(ctx context.Context, c templ.Component) string {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return ""
	}
	return buf.String()
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func sendRedirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
