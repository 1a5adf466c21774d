package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/red445992/Code2Convert-HackForBusiness2/internal/auth"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/catalog"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/ledger"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	catalog *catalog.Service
	ledger  *ledger.Ledger
	auth    *auth.Manager
	log     zerolog.Logger
}

// New constructs a Handler.
func New(cat *catalog.Service, led *ledger.Ledger, am *auth.Manager, log zerolog.Logger) *Handler {
	return &Handler{catalog: cat, ledger: led, auth: am, log: log}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Group(func(protected chi.Router) {
				protected.Use(h.auth.Middleware)
				protected.Get("/profile", h.getProfile)
				protected.Put("/profile", h.updateProfile)
				protected.Post("/change-password", h.changePassword)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.auth.Middleware)

			pr.Get("/products", h.listProducts)
			pr.Post("/products", h.createProduct)

			pr.Get("/inventory", h.getInventory)
			pr.Post("/inventory/sale", h.recordSale)
			pr.Post("/inventory/restock", h.recordRestock)

			pr.Get("/stats", h.getStats)
		})
	})

	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Auth handlers

type registerRequest struct {
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	City      string `json:"city"`
	District  string `json:"district"`
}

type authResponse struct {
	Token string `json:"token"`
	Shop  any    `json:"shop"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ShopName == "" || req.OwnerName == "" || req.Email == "" || req.Phone == "" || req.Password == "" || req.Address == "" {
		respondError(w, http.StatusBadRequest, "shop_name, owner_name, email, phone, password and address are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	shop, err := h.catalog.RegisterShop(r.Context(), catalog.NewShop{
		Name:         req.ShopName,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashed,
		Address:      req.Address,
		City:         req.City,
		District:     req.District,
	})
	if err != nil {
		h.respondMapped(w, err)
		return
	}

	token, err := h.auth.Issue(shop.ID, shop.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, Shop: shop})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	shop, err := h.catalog.GetShopByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(shop.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !shop.IsActive {
		respondError(w, http.StatusUnauthorized, "account is deactivated")
		return
	}

	if err := h.catalog.TouchLastLogin(r.Context(), shop.ID); err != nil {
		h.log.Warn().Err(err).Str("shop_id", shop.ID).Msg("unable to record login time")
	}

	token, err := h.auth.Issue(shop.ID, shop.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, Shop: shop})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	shop, err := h.catalog.GetShop(r.Context(), claims.ShopID)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shop)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var patch catalog.ShopPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	shop, err := h.catalog.UpdateShopProfile(r.Context(), claims.ShopID, patch)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shop)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.NewPassword) < 6 {
		respondError(w, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}

	shop, err := h.catalog.GetShop(r.Context(), claims.ShopID)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	if !auth.CheckPassword(shop.PasswordHash, req.CurrentPassword) {
		respondError(w, http.StatusForbidden, "current password is incorrect")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if err := h.catalog.SetShopPassword(r.Context(), shop.ID, hashed); err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Catalog handlers

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if common := r.URL.Query().Get("common"); common != "" {
		isCommon := strings.EqualFold(common, "true")
		filter.IsCommon = &isCommon
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
}

type createProductRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	Unit         string  `json:"unit"`
	Barcode      *string `json:"barcode"`
	DefaultPrice float64 `json:"default_price"`
	ImageURL     *string `json:"image_url"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), catalog.NewProduct{
		Name:         req.Name,
		Category:     req.Category,
		Brand:        req.Brand,
		Unit:         req.Unit,
		Barcode:      req.Barcode,
		DefaultPrice: req.DefaultPrice,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// Ledger handlers

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	views, err := h.ledger.GetInventory(r.Context(), claims.ShopID)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"inventory": views, "count": len(views)})
}

type saleRequest struct {
	ProductID    string  `json:"product_id"`
	Quantity     int64   `json:"quantity"`
	SellingPrice float64 `json:"selling_price"`
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if _, err := h.catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		h.respondMapped(w, err)
		return
	}

	result, err := h.ledger.RecordSale(r.Context(), claims.ShopID, req.ProductID, req.Quantity, req.SellingPrice)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

type restockRequest struct {
	ProductID    string  `json:"product_id"`
	Quantity     int64   `json:"quantity"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
}

func (h *Handler) recordRestock(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	var req restockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if _, err := h.catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		h.respondMapped(w, err)
		return
	}

	result, err := h.ledger.RecordRestock(r.Context(), claims.ShopID, req.ProductID, req.Quantity, req.CostPrice, req.SellingPrice)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	stats, err := h.ledger.GetStats(r.Context(), claims.ShopID)
	if err != nil {
		h.respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// respondMapped translates domain errors into HTTP responses.
func (h *Handler) respondMapped(w http.ResponseWriter, err error) {
	var insufficient *ledger.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.Is(err, ledger.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrDuplicateIdentity):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store unavailable")
		respondError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		h.log.Error().Err(err).Msg("unexpected error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
