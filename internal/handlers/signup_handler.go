package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/internal/signup"
	"github.com/labstack/echo/v4"
)

//go:embed templates/signup.html
var templatesFS embed.FS

var signupPage = template.Must(template.ParseFS(templatesFS, "templates/signup.html"))

// Submitter is the part of signup.Submitter the handler uses
type Submitter interface {
	Submit(ctx context.Context, req models.RegistrationRequest) (signup.Acknowledgement, error)
}

// SignupHandler handles the registration form and its JSON counterpart
type SignupHandler struct {
	submitter Submitter
}

// NewSignupHandler creates a new SignupHandler
func NewSignupHandler(submitter Submitter) *SignupHandler {
	return &SignupHandler{submitter: submitter}
}

// RegisterSignupRoutes registers the JSON sign-up endpoint
func (h *SignupHandler) RegisterSignupRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
}

// RegisterFormRoutes registers the HTML form page
func (h *SignupHandler) RegisterFormRoutes(e *echo.Echo, m ...echo.MiddlewareFunc) {
	e.GET("/signup", h.ShowForm)
	e.POST("/signup", h.SubmitForm, m...)
}

// Signup handles a JSON registration request
func (h *SignupHandler) Signup(c echo.Context) error {
	var req models.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ack, err := h.submitter.Submit(c.Request().Context(), req)
	if err == nil {
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": ack.Message})
	}

	var missing *signup.MissingFieldsError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": signup.Notice(ack, err),
			"fields":  missing.Fields,
		})
	}
	return c.JSON(statusFor(err), echo.Map{"success": false, "message": signup.Notice(ack, err)})
}

type formView struct {
	Form    models.RegistrationRequest
	Notice  string
	Success bool
}

// ShowForm renders an empty registration form
func (h *SignupHandler) ShowForm(c echo.Context) error {
	return renderForm(c, http.StatusOK, formView{})
}

// SubmitForm handles a form post and re-renders the page with the outcome.
// Entered values are kept on failure; the password is never echoed back.
func (h *SignupHandler) SubmitForm(c echo.Context) error {
	var req models.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}

	ack, err := h.submitter.Submit(c.Request().Context(), req)

	view := formView{Form: req, Notice: signup.Notice(ack, err), Success: err == nil}
	view.Form.Password = ""
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	return renderForm(c, status, view)
}

func renderForm(c echo.Context, status int, view formView) error {
	var buf bytes.Buffer
	if err := signupPage.Execute(&buf, view); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render sign-up form")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func statusFor(err error) int {
	var missing *signup.MissingFieldsError
	var failure *signup.SubmissionFailure
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
