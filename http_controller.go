package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Response is the JSON envelope every endpoint answers with. Callers
// distinguish outcomes through the Success flag; HTTP status stays 200
// except where noted on the profile route.
type Response struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	Message string   `json:"message,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

const passwordUpdatedMessage = "Password updated successfully"

type AuthControllerRoutes struct {
	Register       string
	Login          string
	AdminLogin     string
	Profile        string
	ResetPassword  string
	ChangePassword string
}

// AuthController maps the auth workflows onto the storefront's user routes.
// It is deliberately thin: bind, validate shape, dispatch, format envelope.
type AuthController struct {
	Debug     bool
	Logger    Logger
	Workflows *Workflows
	Routes    *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(workflows *Workflows, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:    defLogger{},
		Workflows: workflows,
		Routes: &AuthControllerRoutes{
			Register:       "/register",
			Login:          "/login",
			AdminLogin:     "/admin",
			Profile:        "/myprofile",
			ResetPassword:  "/resetpassword",
			ChangePassword: "/changepassword",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Workflows == nil {
		panic("Missing Workflows in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the user routes. The protected middleware guards
// profile fetch and password change; everything else is public.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, protected fiber.Handler) {
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.AdminLogin, controller.AdminLoginPost)

	app.Post(controller.Routes.Profile, protected, controller.ProfilePost)

	app.Post(controller.Routes.ResetPassword, controller.ResetPasswordPost)
	app.Post(controller.Routes.ChangePassword, protected, controller.ChangePasswordPost)
}

// RegisterRequest payload
type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate only checks presence; email shape and password strength are the
// registration workflow's policy so their messages stay canonical.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.fail(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, err)
	}

	a.debugPayload("register", payload.Email)

	token, err := a.Workflows.Register(ctx.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("register workflow", "error", err)
		return a.fail(ctx, err)
	}

	return ctx.JSON(Response{Success: true, Token: token})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.fail(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, err)
	}

	a.debugPayload("login", payload.Email)

	token, err := a.Workflows.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(Response{Success: true, Token: token})
}

func (a *AuthController) AdminLoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("admin login parse payload", "error", err)
		return a.fail(ctx, err)
	}

	token, err := a.Workflows.AdminLogin(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(Response{Success: true, Token: token})
}

// ProfilePost is the one route where failures also surface through the HTTP
// status: 404 when the record is gone, 500 on store trouble.
func (a *AuthController) ProfilePost(ctx *fiber.Ctx) error {
	userID, ok := UserID(ctx)
	if !ok {
		return ctx.JSON(Response{Success: false, Message: ErrUnableToDecodeToken.Message})
	}

	profile, err := a.Workflows.Profile(ctx.UserContext(), userID)
	if err != nil {
		if IsNotFound(err) {
			return ctx.Status(fiber.StatusNotFound).
				JSON(Response{Success: false, Message: ErrUserNotFound.Message})
		}
		a.Logger.Error("profile workflow", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(Response{Success: false, Message: "Server error"})
	}

	return ctx.JSON(Response{Success: true, Profile: &profile})
}

// ResetPasswordRequest payload
type ResetPasswordRequest struct {
	Email       string `form:"email" json:"email"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
	)
}

func (a *AuthController) ResetPasswordPost(ctx *fiber.Ctx) error {
	payload := new(ResetPasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("reset password parse payload", "error", err)
		return a.fail(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, err)
	}

	if err := a.Workflows.ResetPassword(ctx.UserContext(), payload.Email, payload.NewPassword); err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(Response{Success: true, Message: passwordUpdatedMessage})
}

// ChangePasswordRequest payload
type ChangePasswordRequest struct {
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
	)
}

func (a *AuthController) ChangePasswordPost(ctx *fiber.Ctx) error {
	payload := new(ChangePasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("change password parse payload", "error", err)
		return a.fail(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.fail(ctx, err)
	}

	userID, ok := UserID(ctx)
	if !ok {
		return ctx.JSON(Response{Success: false, Message: ErrUnableToDecodeToken.Message})
	}

	if err := a.Workflows.ChangePassword(ctx.UserContext(), userID, payload.OldPassword, payload.NewPassword); err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(Response{Success: true, Message: passwordUpdatedMessage})
}

// fail converts any workflow or binding error into the failure envelope.
// Status stays 200: clients read the success flag, not the status line.
func (a *AuthController) fail(ctx *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ctx.JSON(Response{Success: false, Message: richErr.Message})
	}

	return ctx.JSON(Response{Success: false, Message: err.Error()})
}

func (a *AuthController) debugPayload(op, identifier string) {
	if !a.Debug {
		return
	}

	fmt.Println("======= AUTH " + op + " ======")
	fmt.Println(print.MaybePrettyJSON(map[string]any{
		"operation":  op,
		"identifier": identifier,
	}))
	fmt.Println("=========================")
}
