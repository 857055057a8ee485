package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/nav"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

// maxReloadsLimit caps ?limit= on the reload history endpoint.
const maxReloadsLimit = 500

// Reloader triggers a manual index rebuild.
type Reloader interface {
	Reload(ctx context.Context, trigger string) (*content.Snapshot, error)
}

// APIHandlers contains the JSON API handlers.
type APIHandlers struct {
	holder       *content.Holder
	navigation   []nav.Item
	history      history.Store
	historyLimit int
	reloader     Reloader
	errorAdapter *errors.HTTPErrorAdapter
}

// APIOptions holds the optional collaborators of the API.
type APIOptions struct {
	History      history.Store
	HistoryLimit int
	Reloader     Reloader
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(holder *content.Holder, navigation []nav.Item, opts APIOptions) *APIHandlers {
	h := &APIHandlers{
		holder:       holder,
		navigation:   navigation,
		history:      opts.History,
		historyLimit: opts.HistoryLimit,
		reloader:     opts.Reloader,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
	if h.history == nil {
		h.history = history.Noop{}
	}
	if h.historyLimit <= 0 {
		h.historyLimit = 20
	}
	return h
}

// HandlePages lists every indexed page in discovery order.
func (h *APIHandlers) HandlePages(w http.ResponseWriter, r *http.Request) {
	snap := h.holder.Load()
	resp := responses.PagesResponse{Count: snap.Len(), Hash: snap.Hash(), Pages: snap.Summaries()}
	h.write(w, r, resp)
}

// HandlePage returns one page by slug.
func (h *APIHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	slug := content.NormalizeSlug(r.PathValue("slug"))
	page, ok := h.holder.Load().GetPage(slug)
	if !ok {
		err := errors.WrapError(content.ErrPageNotFound, errors.CategoryNotFound, "page not found").
			WithSeverity(errors.SeverityInfo).
			WithContext("slug", slug).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.write(w, r, responses.PageResponse{DocPage: page, Markdown: string(page.Body)})
}

// HandleNav returns the navigation tree marked for ?url=.
func (h *APIHandlers) HandleNav(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("url")
	items := nav.Mark(h.navigation, current)
	if items == nil {
		items = []nav.Entry{}
	}
	h.write(w, r, responses.NavResponse{CurrentURL: current, Items: items})
}

// HandleIndex returns the manifest of the current snapshot.
func (h *APIHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, content.NewManifest(h.holder.Load()))
}

// HandleReloads lists recent rebuilds, newest first. ?limit= overrides the default count.
func (h *APIHandlers) HandleReloads(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReloadsLimit {
			verr := errors.ValidationError("limit must be an integer between 1 and 500").
				WithSeverity(errors.SeverityWarning).
				WithContext("limit", raw).
				Build()
			h.errorAdapter.WriteErrorResponse(w, r, verr)
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryStorage, "failed to read reload history").Build())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	h.write(w, r, responses.ReloadsResponse{Count: len(entries), Reloads: entries})
}

// HandleReload rebuilds the index on request.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NewError(errors.CategoryRuntime, "manual reload is not available").Build())
		return
	}
	snap, err := h.reloader.Reload(r.Context(), "manual")
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.ContentError("reload failed").
			WithCause(err).
			WithContext("cause", string(errors.GetCategory(err))).
			Build())
		return
	}
	h.write(w, r, responses.ReloadResponse{Status: "ok", Pages: snap.Len(), Hash: snap.Hash()})
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSONPretty(w, r, http.StatusOK, v); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
