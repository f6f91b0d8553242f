// Package web serves the browser views: the submission form and the lookup page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/cloo-solutions/feedback/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// LookupPath is where a successful submission lands.
const LookupPath = "/my-feedback"

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"stars": func(rating int) string {
		if rating < domain.MinRating || rating > domain.MaxRating {
			return ""
		}
		return strings.Repeat("★", rating) + strings.Repeat("☆", domain.MaxRating-rating)
	},
}

type Handler struct {
	client   view.FeedbackClient
	submitTp *template.Template
	lookupTp *template.Template
	log      *zap.SugaredLogger
}

func NewHandler(client view.FeedbackClient) (*Handler, error) {
	submitTp, err := template.New("submit").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/submit.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse submit template: %w", err)
	}
	lookupTp, err := template.New("lookup").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/lookup.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse lookup template: %w", err)
	}

	return &Handler{
		client:   client,
		submitTp: submitTp,
		lookupTp: lookupTp,
		log:      logger.Named("web"),
	}, nil
}

// Routes mounts the views on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.SubmitForm)
	r.Post("/", h.Submit)
	r.Get(LookupPath, h.Lookup)
}

type submitPage struct {
	Title          string
	Form           domain.FeedbackRequest
	Errors         map[string]string
	Banner         string
	Stars          []int
	SelectedRating int
	CommentLength  int
}

func newSubmitPage(form domain.FeedbackRequest, outcome view.SubmitOutcome) submitPage {
	errs := make(map[string]string, len(outcome.FieldErrors))
	for _, fe := range outcome.FieldErrors {
		if _, seen := errs[fe.Field]; !seen {
			errs[fe.Field] = fe.Message
		}
	}

	selected := 0
	if form.Rating == math.Trunc(form.Rating) {
		selected = int(form.Rating)
	}

	return submitPage{
		Title:          "Submit Feedback",
		Form:           form,
		Errors:         errs,
		Banner:         outcome.Banner,
		Stars:          []int{1, 2, 3, 4, 5},
		SelectedRating: selected,
		CommentLength:  utf8.RuneCountInString(form.Comment),
	}
}

// SubmitForm renders an empty submission form.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.submitTp, newSubmitPage(domain.FeedbackRequest{}, view.SubmitOutcome{}))
}

// Submit handles the form post. On success it redirects to the lookup view
// pre-filled with the member ID; otherwise it re-renders the form with the
// field errors or the banner.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warnw("failed to parse form", "error", err)
		h.render(w, http.StatusBadRequest, h.submitTp, newSubmitPage(domain.FeedbackRequest{}, view.SubmitOutcome{Banner: view.UnexpectedErrorMessage}))
		return
	}

	form := domain.FeedbackRequest{
		MemberID:     r.PostForm.Get("memberId"),
		ProviderName: r.PostForm.Get("providerName"),
		Rating:       parseRating(r.PostForm.Get("rating")),
		Comment:      r.PostForm.Get("comment"),
	}

	outcome := view.Submit(r.Context(), h.client, form)
	if outcome.OK() {
		http.Redirect(w, r, LookupPath+"?memberId="+url.QueryEscape(form.MemberID), http.StatusSeeOther)
		return
	}

	status := http.StatusUnprocessableEntity
	if outcome.Banner != "" {
		status = http.StatusOK
	}
	h.render(w, status, h.submitTp, newSubmitPage(form, outcome))
}

// parseRating maps a missing or unparsable value to 0 (unset).
func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type lookupPage struct {
	Title  string
	Result view.LookupResult
}

// Lookup accepts ?memberId=, ?feedbackId=, or ?q=&mode=. With no query it
// renders the empty search form.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		mode  view.SearchMode
		query string
		ok    bool
	)
	switch {
	case q.Has("memberId"):
		mode, query, ok = view.SearchByMemberID, q.Get("memberId"), true
	case q.Has("feedbackId"):
		mode, query, ok = view.SearchByFeedbackID, q.Get("feedbackId"), true
	case q.Has("q"):
		mode, query, ok = view.ParseSearchMode(q.Get("mode")), q.Get("q"), true
	default:
		mode = view.ParseSearchMode(q.Get("mode"))
	}

	page := lookupPage{Title: "My Feedback", Result: view.LookupResult{Mode: mode}}
	if ok {
		page.Result = view.Lookup(r.Context(), h.client, mode, query)
	}
	h.render(w, http.StatusOK, h.lookupTp, page)
}

func (h *Handler) render(w http.ResponseWriter, status int, tp *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tp.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.Errorw("failed to render template", "template", tp.Name(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
