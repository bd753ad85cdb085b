package bearer

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// APIController exposes the authentication service over JSON routes.
type APIController struct {
	Logger Logger
	Auther Authenticator
	Config Config
}

// APIControllerOption mutates the controller during construction.
type APIControllerOption func(*APIController) *APIController

// NewAPIController wires an Authenticator into JSON handlers.
func NewAPIController(auther Authenticator, cfg Config, opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger: defLogger{},
		Auther: auther,
		Config: cfg,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in API controller...")
	}

	return c
}

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(l Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = l
		return c
	}
}

// RegisterAPIRoutes registers login and logout.
func (a *APIController) RegisterAPIRoutes(group RouteRegistrar) {
	group.Post("/login", a.LoginPost)
	group.Post("/logout", a.LogoutPost)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(1, 200),
		),
	)
}

// LoginPost verifies credentials and returns the issued token. A
// failed login is always the same 401 body regardless of whether the
// username existed.
func (a *APIController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, Fail("failed to parse request body", "BAD_PAYLOAD"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, Fail(err.Error(), "VALIDATION"))
	}

	result, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Info("login rejected", "username", payload.Username)
		return RenderError(ctx, ErrAuthenticationFailed)
	}

	return ctx.JSON(http.StatusOK, OK(result))
}

// LogoutPost revokes the presented token. It responds 204 whether or
// not the token was valid, already revoked, or absent.
func (a *APIController) LogoutPost(ctx router.Context) error {
	scheme := "Bearer"
	if a.Config != nil {
		if s := a.Config.GetAuthScheme(); s != "" {
			scheme = s
		}
	}

	token := ExtractBearerToken(ctx.Header("Authorization"), scheme)
	a.Auther.Logout(ctx.Context(), token)

	return ctx.NoContent(http.StatusNoContent)
}
