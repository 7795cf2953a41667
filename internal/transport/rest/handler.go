// Package rest provides the HTTP surface of the storefront: session
// management, the projected product list, view criteria and cart operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/shop"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	registry *shop.Registry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the storefront HTTP handler over the session registry.
func NewHandler(registry *shop.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the storefront.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", h.DeleteSession)
			r.Get("/products", h.Products)
			r.Get("/categories", h.Categories)

			r.Route("/view", func(r chi.Router) {
				r.Put("/search", h.SetSearchTerm)
				r.Put("/category", h.SetCategory)
				r.Put("/sort", h.SetSortOrder)
				r.Delete("/", h.ClearFilters)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart)
				r.Post("/items", h.AddItem)
				r.Put("/items/{productID}", h.SetQuantity)
				r.Delete("/items/{productID}", h.RemoveItem)
			})
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

type sessionResponse struct {
	ID string `json:"id"`
}

type searchRequest struct {
	Term string `json:"term" validate:"max=200"`
}

type categoryRequest struct {
	Category string `json:"category" validate:"max=100"`
}

type sortRequest struct {
	Order string `json:"order" validate:"required"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// quantityRequest carries the exact quantity to set. Bounds are not enforced
// here: out-of-range values are defined no-ops of the cart engine, and the
// unchanged cart in the response makes that visible to the client.
type quantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type productListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
}

type cartResponse struct {
	Lines      []cart.Line `json:"lines"`
	TotalItems int32       `json:"total_items"`
	TotalPrice string      `json:"total_price"`
}

// toCartResponse renders the cart for display. This is the single place
// where the full-precision total is rounded to two decimals.
func toCartResponse(s *shop.Shop) cartResponse {
	return cartResponse{
		Lines:      s.CartLines(),
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice().StringFixed(2),
	}
}

// CreateSession starts a new browsing session with an empty cart.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := h.registry.Create()
	mLogger.InfoContext(r.Context(), "Session created", "session_id", id)
	web.RespondJSON(w, mLogger, http.StatusCreated, sessionResponse{ID: id.String()})
}

// DeleteSession drops the session and its cart.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseUUID(w, r, mLogger, "sessionID")
	if !ok {
		return
	}
	h.registry.Delete(id)
	mLogger.InfoContext(r.Context(), "Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Products returns the current projection: the catalog narrowed and ordered
// by the session's active criteria, recomputed on every request.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	products := s.Products()
	mLogger.DebugContext(r.Context(), "Projection computed", "count", len(products))
	web.RespondJSON(w, mLogger, http.StatusOK, productListResponse{Products: products, Count: len(products)})
}

// Categories returns the distinct categories of the full catalog.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Categories())
}

// SetSearchTerm sets the title search term; an empty term clears it.
func (h *Handler) SetSearchTerm(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	var req searchRequest
	if !h.decodeValid(w, r, mLogger, &req) {
		return
	}
	s.SetSearchTerm(req.Term)
	mLogger.DebugContext(r.Context(), "Search term updated", "term", req.Term)
	w.WriteHeader(http.StatusNoContent)
}

// SetCategory sets the category filter; an empty category clears it.
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	var req categoryRequest
	if !h.decodeValid(w, r, mLogger, &req) {
		return
	}
	s.SetCategory(req.Category)
	mLogger.DebugContext(r.Context(), "Category filter updated", "category", req.Category)
	w.WriteHeader(http.StatusNoContent)
}

// SetSortOrder sets the price ordering of the projection.
func (h *Handler) SetSortOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	var req sortRequest
	if !h.decodeValid(w, r, mLogger, &req) {
		return
	}
	order, err := catalog.ParseSortOrder(req.Order)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Invalid sort order", "order", req.Order)
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid sort order: %s", req.Order))
		return
	}
	s.SetSortOrder(order)
	mLogger.DebugContext(r.Context(), "Sort order updated", "order", order)
	w.WriteHeader(http.StatusNoContent)
}

// ClearFilters resets search term, category and sort order in one atomic
// step.
func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	s.ClearFilters()
	mLogger.DebugContext(r.Context(), "Filters cleared")
	w.WriteHeader(http.StatusNoContent)
}

// Cart returns the cart lines in insertion order together with the derived
// totals.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s))
}

// AddItem adds one unit of a catalog product to the cart. Unknown product
// ids are rejected with 404; an out-of-stock product is a defined no-op and
// the unchanged cart is returned.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	var req addItemRequest
	if !h.decodeValid(w, r, mLogger, &req) {
		return
	}
	if err := s.AddToCart(req.ProductID); err != nil {
		if errors.Is(err, shop.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "product_id", req.ProductID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", req.ProductID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding product to cart", "product_id", req.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add product to cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Product added to cart", "product_id", req.ProductID)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s))
}

// SetQuantity sets a cart line's quantity. Rejected values and absent lines
// leave the cart unchanged; the response carries the resulting cart either
// way.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productID")
	var req quantityRequest
	if !h.decodeValid(w, r, mLogger, &req) {
		return
	}
	s.SetQuantity(productID, req.Quantity)
	mLogger.DebugContext(r.Context(), "Quantity update applied", "product_id", productID, "quantity", req.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s))
}

// RemoveItem removes a cart line. Removing an absent line is a no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productID")
	s.RemoveFromCart(productID)
	mLogger.InfoContext(r.Context(), "Product removed from cart", "product_id", productID)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// session resolves the sessionID path parameter to a Shop, writing the error
// response itself on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*shop.Shop, bool) {
	id, ok := web.ParseUUID(w, r, mLogger, "sessionID")
	if !ok {
		return nil, false
	}
	s, err := h.registry.Get(id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Session not found", "session_id", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Session %s not found", id))
		return nil, false
	}
	return s, true
}

// decodeValid decodes the JSON body into req and validates it, writing the
// error response itself on failure.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
