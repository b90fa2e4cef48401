package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse phone numbers that
// carry no country prefix.
var DefaultPhoneRegion = "US"

// AuthControllerRoutes are the paths the controller mounts.
type AuthControllerRoutes struct {
	SignIn         string
	SignUp         string
	VerifyEmail    string
	ForgotPassword string
	CheckResetCode string
	ResetPassword  string
}

// AuthController exposes the account flows as a JSON API.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Flows        *Flows
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerFlows(flows *Flows) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Flows = flows
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: renderError,
		Routes: &AuthControllerRoutes{
			SignIn:         "/auth/sign-in",
			SignUp:         "/auth/sign-up",
			VerifyEmail:    "/auth/verify-email",
			ForgotPassword: "/auth/forgot-password",
			CheckResetCode: "/auth/check-reset-code",
			ResetPassword:  "/auth/reset-password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Flows == nil {
		panic("Missing Flows in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the JSON endpoints on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.SignIn, controller.SignInPost).
		SetName("auth.sign-in.post")
	app.Post(controller.Routes.SignUp, controller.SignUpPost).
		SetName("auth.sign-up.post")
	app.Post(controller.Routes.VerifyEmail, controller.VerifyEmailPost).
		SetName("auth.verify-email.post")
	app.Post(controller.Routes.ForgotPassword, controller.ForgotPasswordPost).
		SetName("auth.forgot-password.post")
	app.Post(controller.Routes.CheckResetCode, controller.CheckResetCodePost).
		SetName("auth.check-reset-code.post")
	app.Post(controller.Routes.ResetPassword, controller.ResetPasswordPost).
		SetName("auth.reset-password.post")
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignInPost(ctx router.Context) error {
	payload := new(SignInRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	result, err := a.Flows.SignIn(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("sign in error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, result)
}

// SignUpRequest payload
type SignUpRequest struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber(DefaultPhoneRegion))),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) SignUpPost(ctx router.Context) error {
	payload := new(SignUpRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	user, err := a.Flows.SignUp(ctx.Context(), SignUpInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
	})
	if err != nil {
		a.Logger.Error("sign up error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, user)
}

// VerifyEmailRequest payload
type VerifyEmailRequest struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// Validate will run validation rules
func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (a *AuthController) VerifyEmailPost(ctx router.Context) error {
	payload := new(VerifyEmailRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	user, err := a.Flows.VerifyEmail(ctx.Context(), payload.Email, payload.Code)
	if err != nil {
		a.Logger.Error("verify email error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, user)
}

// ForgotPasswordRequest payload
type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPasswordPost(ctx router.Context) error {
	payload := new(ForgotPasswordRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	if _, err := a.Flows.ForgotPassword(ctx.Context(), payload.Email); err != nil {
		a.Logger.Error("forgot password error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]string{
		"status": "reset code sent",
	})
}

// CheckResetCodeRequest payload
type CheckResetCodeRequest struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// Validate will run validation rules
func (r CheckResetCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (a *AuthController) CheckResetCodePost(ctx router.Context) error {
	payload := new(CheckResetCodeRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	if _, err := a.Flows.CheckPasswordResetCode(ctx.Context(), payload.Email, payload.Code); err != nil {
		a.Logger.Error("check reset code error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]string{
		"status": "code valid",
	})
}

// ResetPasswordRequest payload
type ResetPasswordRequest struct {
	Email           string `form:"email" json:"email"`
	Code            string `form:"code" json:"code"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will run validation rules
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) ResetPasswordPost(ctx router.Context) error {
	payload := new(ResetPasswordRequest)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return err
	}

	if _, err := a.Flows.ResetPassword(ctx.Context(), payload.Email, payload.Code, payload.Password); err != nil {
		a.Logger.Error("reset password error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]string{
		"status": "password reset",
	})
}

type validatable interface {
	Validate() error
}

func (a *AuthController) bindAndValidate(ctx router.Context, payload validatable) error {
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("failed to parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, ErrorResponse{
			Error: "failed to parse request body",
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REQUEST ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"validation": FormatValidationErrorToMap(err),
		})
	}

	return nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePhoneNumber accepts empty values and otherwise requires a
// parseable, valid number for the given default region.
func ValidatePhoneNumber(region string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}

		num, err := phonenumbers.Parse(s, region)
		if err != nil {
			return errors.New("must be a valid phone number")
		}

		if !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}

		return nil
	}
}
