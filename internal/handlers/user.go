package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler serves read-only lookups of registered accounts
type UserHandler struct {
	accountRepository repositories.AccountRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accountRepo repositories.AccountRepository) *UserHandler {
	return &UserHandler{accountRepository: accountRepo}
}

// RegisterUserRoutes registers user lookup routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/search/:text", h.SearchUsers)
}

type searchQuery struct {
	Text string `param:"text" validate:"required,max=100"`
}

// ListUsers returns every registered user
func (h *UserHandler) ListUsers(c echo.Context) error {
	accounts, err := h.accountRepository.ListAccounts()
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list users")
	}
	return c.JSON(http.StatusOK, profiles(accounts))
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	account, err := h.accountRepository.GetAccountByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get user")
	}
	return c.JSON(http.StatusOK, account.Profile())
}

// SearchUsers finds users whose name, username or email contains the text
func (h *UserHandler) SearchUsers(c echo.Context) error {
	var q searchQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search")
	}
	q.Text = strings.TrimSpace(q.Text)
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Search text must be 1 to 100 characters")
	}

	accounts, err := h.accountRepository.SearchAccounts(q.Text)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search users")
	}
	return c.JSON(http.StatusOK, profiles(accounts))
}

func profiles(accounts []models.Account) []models.UserProfile {
	out := make([]models.UserProfile, len(accounts))
	for i, a := range accounts {
		out[i] = a.Profile()
	}
	return out
}
