package bearer

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ProductController exposes the catalog over JSON routes. Routes are
// meant to be registered behind the bearer middleware; write routes
// additionally check the caller's role from the validated claims.
type ProductController struct {
	Logger     Logger
	Store      *ProductStore
	ContextKey string
}

// NewProductController wires a ProductStore into JSON handlers.
func NewProductController(store *ProductStore, cfg Config) *ProductController {
	contextKey := "user"
	if cfg != nil && cfg.GetContextKey() != "" {
		contextKey = cfg.GetContextKey()
	}

	return &ProductController{
		Logger:     defLogger{},
		Store:      store,
		ContextKey: contextKey,
	}
}

// RegisterProductRoutes registers CRUD routes, all behind mw.
func (p *ProductController) RegisterProductRoutes(group RouteRegistrar, mw ...router.MiddlewareFunc) {
	group.Get("/products", p.List, mw...)
	group.Get("/products/:id", p.Get, mw...)
	group.Post("/products", p.Create, mw...)
	group.Post("/products/:id", p.Update, mw...)
	group.Post("/products/:id/delete", p.Delete, mw...)
}

// ProductPayload is the create/update body.
type ProductPayload struct {
	Name        string  `form:"name" json:"name"`
	Description string  `form:"description" json:"description"`
	SKU         string  `form:"sku" json:"sku"`
	Price       float64 `form:"price" json:"price"`
}

// Validate will run validation rules
func (r ProductPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.SKU, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.0)),
	)
}

// List returns the catalog.
func (p *ProductController) List(ctx router.Context) error {
	products, err := p.Store.List(ctx.Context())
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, OK(products))
}

// Get returns one product.
func (p *ProductController) Get(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail("invalid product id", "BAD_ID"))
	}

	product, err := p.Store.Get(ctx.Context(), id)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OK(product))
}

// Create inserts a product. Requires a role allowed to write.
func (p *ProductController) Create(ctx router.Context) error {
	if !p.callerCanWrite(ctx) {
		return ctx.JSON(http.StatusForbidden, Fail("insufficient role", "FORBIDDEN"))
	}

	payload := new(ProductPayload)
	if err := ctx.Bind(payload); err != nil {
		p.Logger.Error("product create parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, Fail("failed to parse request body", "BAD_PAYLOAD"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail(err.Error(), "VALIDATION"))
	}

	product, err := p.Store.Create(ctx.Context(), &Product{
		Name:        payload.Name,
		Description: payload.Description,
		SKU:         payload.SKU,
		Price:       payload.Price,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OK(product))
}

// Update replaces a product's fields. Requires a role allowed to write.
func (p *ProductController) Update(ctx router.Context) error {
	if !p.callerCanWrite(ctx) {
		return ctx.JSON(http.StatusForbidden, Fail("insufficient role", "FORBIDDEN"))
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail("invalid product id", "BAD_ID"))
	}

	payload := new(ProductPayload)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail("failed to parse request body", "BAD_PAYLOAD"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail(err.Error(), "VALIDATION"))
	}

	product, err := p.Store.Update(ctx.Context(), &Product{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
		SKU:         payload.SKU,
		Price:       payload.Price,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OK(product))
}

// Delete removes a product. Requires an admin role.
func (p *ProductController) Delete(ctx router.Context) error {
	claims, ok := p.callerClaims(ctx)
	if !ok || !CanManage(UserRole(claims.Role())) {
		return ctx.JSON(http.StatusForbidden, Fail("insufficient role", "FORBIDDEN"))
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail("invalid product id", "BAD_ID"))
	}

	if err := p.Store.Delete(ctx.Context(), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (p *ProductController) callerClaims(ctx router.Context) (AuthClaims, bool) {
	return GetRouterClaims(ctx, p.ContextKey)
}

func (p *ProductController) callerCanWrite(ctx router.Context) bool {
	return CanFromRouter(ctx, p.ContextKey, "write")
}
