package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/phenrril/galeria/internal/adapters/sheet"
	"github.com/phenrril/galeria/internal/catalog"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/fence"
	"github.com/phenrril/galeria/internal/session"
	"github.com/phenrril/galeria/internal/usecase"
)

const maxUpload = 32 << 20

type Options struct {
	SessionKey    string
	AdminAPIKey   string
	RatePerSecond float64
	RateBurst     int
	SecureCookies bool
	TrustProxy    bool

	// UploadsDir is served under /uploads/ when set.
	UploadsDir string
}

type Server struct {
	mux         *http.ServeMux
	catalog     *usecase.CatalogUC
	search      *usecase.SearchUC
	submissions *usecase.SubmissionUC
	sessions    *session.Registry

	secret        []byte
	adminKey      string
	secureCookies bool
}

func New(cat *usecase.CatalogUC, search *usecase.SearchUC, subs *usecase.SubmissionUC, sessions *session.Registry, opts Options) http.Handler {
	key := opts.SessionKey
	if key == "" {
		key = "dev-insecure"
	}
	s := &Server{
		mux:           http.NewServeMux(),
		catalog:       cat,
		search:        search,
		submissions:   subs,
		sessions:      sessions,
		secret:        []byte(key),
		adminKey:      opts.AdminAPIKey,
		secureCookies: opts.SecureCookies,
	}
	s.routes(opts.UploadsDir)
	return Chain(s.mux,
		RateLimit(opts.RatePerSecond, opts.RateBurst, opts.TrustProxy),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes(uploadsDir string) {
	if uploadsDir != "" {
		s.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("GET /api/watches", s.apiWatches)
	s.mux.HandleFunc("GET /api/watches/{id}", s.apiWatch)
	s.mux.HandleFunc("GET /api/brands", s.apiBrands)
	s.mux.HandleFunc("GET /api/art", s.apiArt)
	s.mux.HandleFunc("GET /api/art/{id}", s.apiArtPiece)
	s.mux.HandleFunc("GET /api/new-arrivals", s.apiNewArrivals)
	s.mux.HandleFunc("GET /api/search", s.apiSearch)

	s.mux.HandleFunc("GET /api/sort", s.apiGetSort)
	s.mux.HandleFunc("PUT /api/sort", s.apiPutSort)

	s.mux.HandleFunc("GET /api/favorites", s.apiFavorites)
	s.mux.HandleFunc("POST /api/favorites", s.apiAddFavorite)
	s.mux.HandleFunc("DELETE /api/favorites/{id}", s.apiRemoveFavorite)

	s.mux.HandleFunc("POST /api/trade", s.apiTrade)
	s.mux.HandleFunc("POST /api/sell", s.apiSell)
	s.mux.HandleFunc("POST /api/contact", s.apiContact)

	s.mux.HandleFunc("GET /admin/export.xlsx", s.adminExport)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps use-case errors to the {"error": msg} payload.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, domain.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, fence.ErrSuperseded):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// listSort prefers an explicit ?sort= over the session selection.
func (s *Server) listSort(r *http.Request, sid string) domain.SortOption {
	if v := r.URL.Query().Get("sort"); v != "" {
		return domain.ParseSortOption(v)
	}
	return s.sessions.Sort(sid)
}

func watchFields(raw string) []catalog.WatchField {
	var out []catalog.WatchField
	for _, f := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "brand":
			out = append(out, catalog.FieldBrand)
		case "model":
			out = append(out, catalog.FieldModel)
		}
	}
	return out
}

func (s *Server) apiWatches(w http.ResponseWriter, r *http.Request) {
	q := usecase.ListQuery{
		Query:  r.URL.Query().Get("q"),
		Sort:   s.listSort(r, s.readSession(r)),
		Fields: watchFields(r.URL.Query().Get("fields")),
	}
	list, err := s.catalog.Watches(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiWatch(w http.ResponseWriter, r *http.Request) {
	wa, err := s.catalog.Watch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wa)
}

func (s *Server) apiBrands(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.Brands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiArt(w http.ResponseWriter, r *http.Request) {
	q := usecase.ListQuery{Query: r.URL.Query().Get("q"), Sort: s.listSort(r, s.readSession(r))}
	list, err := s.catalog.ArtPieces(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiArtPiece(w http.ResponseWriter, r *http.Request) {
	a, err := s.catalog.ArtPiece(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) apiNewArrivals(w http.ResponseWriter, r *http.Request) {
	feed, err := s.catalog.NewArrivals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	sid := s.readSession(r)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	hits, err := s.search.Search(r.Context(), sid, r.URL.Query().Get("q"), page, s.listSort(r, sid))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

type sortBody struct {
	Sort domain.SortOption `json:"sort"`
}

func (s *Server) apiGetSort(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sortBody{Sort: s.sessions.Sort(s.readSession(r))})
}

func (s *Server) apiPutSort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sort string `json:"sort"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	st := s.sessions.Get(s.sessionID(w, r))
	st.SetSort(domain.ParseSortOption(body.Sort))
	writeJSON(w, http.StatusOK, sortBody{Sort: st.Sort()})
}

func (s *Server) apiFavorites(w http.ResponseWriter, r *http.Request) {
	st, ok := s.sessions.Lookup(s.readSession(r))
	if !ok {
		writeJSON(w, http.StatusOK, []domain.Favorite{})
		return
	}
	writeJSON(w, http.StatusOK, st.Favorites.List())
}

func (s *Server) apiAddFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind domain.FavoriteKind `json:"kind"`
		ID   string              `json:"id"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	var fav domain.Favorite
	switch body.Kind {
	case domain.FavoriteKindWatch:
		wa, err := s.catalog.Watch(r.Context(), body.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		fav = domain.FavoriteWatch(*wa)
	case domain.FavoriteKindArt:
		a, err := s.catalog.ArtPiece(r.Context(), body.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		fav = domain.FavoriteArt(*a)
	default:
		writeError(w, r, &domain.ValidationError{Field: "kind", Message: "must be watch or art"})
		return
	}
	st := s.sessions.Get(s.sessionID(w, r))
	code := http.StatusOK
	if st.Favorites.Add(fav) {
		code = http.StatusCreated
	}
	writeJSON(w, code, st.Favorites.List())
}

func (s *Server) apiRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if st, ok := s.sessions.Lookup(s.readSession(r)); ok {
		st.Favorites.Remove(r.PathValue("id"))
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func (s *Server) apiTrade(w http.ResponseWriter, r *http.Request) {
	var req domain.TradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	doc, err := s.submissions.SubmitTrade(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func (s *Server) apiContact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}
	doc, err := s.submissions.SubmitContact(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

func formBool(v string) bool {
	v = strings.TrimSpace(v)
	return strings.EqualFold(v, "on") || strings.EqualFold(v, "yes") || cast.ToBool(v)
}

func (s *Server) apiSell(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}
	req := domain.SellRequest{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Brand:     r.FormValue("brand"),
		Model:     r.FormValue("model"),
		Year:      r.FormValue("year"),
		Condition: r.FormValue("condition"),
		Box:       formBool(r.FormValue("box")),
		Papers:    formBool(r.FormValue("papers")),
	}
	if v := strings.TrimSpace(r.FormValue("askingPrice")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, &domain.ValidationError{Field: "askingPrice", Message: "not a number"})
			return
		}
		req.AskingPrice = p
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["photos"]
	}
	photos := make([]usecase.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload"})
			return
		}
		defer f.Close()
		photos = append(photos, usecase.Photo{Name: fh.Filename, Size: fh.Size, Body: f})
	}

	progress := func(i int, sent, total int64) {
		if sent == total {
			log.Debug().Int("photo", i).Int64("bytes", sent).Msg("sell photo uploaded")
		}
	}
	doc, err := s.submissions.SubmitSell(r.Context(), req, photos, progress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": doc.ID, "image": doc.Data["image"]})
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminKey == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin access disabled"})
		return false
	}
	key := r.Header.Get("X-API-Key")
	if key == "" {
		key, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}
	return true
}

func (s *Server) adminExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "watches"
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, kind))
	switch kind {
	case "watches":
		list, err := s.catalog.Watches(r.Context(), usecase.ListQuery{})
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := sheet.ExportWatches(w, list); err != nil {
			log.Error().Err(err).Msg("export watches")
		}
	case "art":
		list, err := s.catalog.ArtPieces(r.Context(), usecase.ListQuery{})
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := sheet.ExportArt(w, list); err != nil {
			log.Error().Err(err).Msg("export art")
		}
	default:
		w.Header().Del("Content-Disposition")
		writeError(w, r, &domain.ValidationError{Field: "kind", Message: "must be watches or art"})
	}
}
