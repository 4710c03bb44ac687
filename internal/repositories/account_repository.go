package repositories

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/postdir/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameTaken is returned by CreateAccount when the username is in use
	ErrUsernameTaken = errors.New("username taken")
	// ErrEmailTaken is returned by CreateAccount when the email is in use
	ErrEmailTaken = errors.New("email already registered")
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	CreateAccount(account *models.Account) error
	GetAccountByID(id uint) (*models.Account, error)
	GetAccountByUsername(username string) (*models.Account, error)
	GetAccountByEmail(email string) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
	SearchAccounts(text string) ([]models.Account, error)
}

// PostgresAccountRepository implements AccountRepository for PostgreSQL.
// The gorm.DB must be opened with TranslateError so unique violations come
// back as gorm.ErrDuplicatedKey.
type PostgresAccountRepository struct {
	db *gorm.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository
func NewPostgresAccountRepository(db *gorm.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// CreateAccount creates a new account in PostgreSQL
func (r *PostgresAccountRepository) CreateAccount(account *models.Account) error {
	err := r.db.Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The violated index is not reported; find out which one it was.
		if _, lookupErr := r.GetAccountByUsername(account.Username); lookupErr == nil {
			return ErrUsernameTaken
		}
		return ErrEmailTaken
	}
	return err
}

// GetAccountByID retrieves an account by its ID
func (r *PostgresAccountRepository) GetAccountByID(id uint) (*models.Account, error) {
	return r.first("id = ?", id)
}

// GetAccountByUsername retrieves an account by username (case-insensitive)
func (r *PostgresAccountRepository) GetAccountByUsername(username string) (*models.Account, error) {
	return r.first("LOWER(username) = LOWER(?)", username)
}

// GetAccountByEmail retrieves an account by email (case-insensitive)
func (r *PostgresAccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	return r.first("LOWER(email) = LOWER(?)", email)
}

// ListAccounts returns every account ordered by ID
func (r *PostgresAccountRepository) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// SearchAccounts finds accounts whose first name, last name, username or
// email contains text, ignoring case
func (r *PostgresAccountRepository) SearchAccounts(text string) ([]models.Account, error) {
	pattern := "%" + escapeLike(text) + "%"
	var accounts []models.Account
	err := r.db.
		Where("first_name ILIKE ? OR last_name ILIKE ? OR username ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("id").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresAccountRepository) first(query string, arg interface{}) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where(query, arg).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes text match literally inside a LIKE pattern
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

// MemoryAccountRepository keeps accounts in process memory. Used in
// development and tests; everything is lost on restart.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts []models.Account
}

// NewMemoryAccountRepository creates an empty MemoryAccountRepository
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{}
}

// CreateAccount stores account and assigns it an ID
func (r *MemoryAccountRepository) CreateAccount(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Username, account.Username) {
			return ErrUsernameTaken
		}
	}
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return ErrEmailTaken
		}
	}

	now := time.Now()
	account.ID = uint(len(r.accounts) + 1)
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts = append(r.accounts, *account)
	return nil
}

// GetAccountByID retrieves an account by its ID
func (r *MemoryAccountRepository) GetAccountByID(id uint) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ID == id })
}

// GetAccountByUsername retrieves an account by username (case-insensitive)
func (r *MemoryAccountRepository) GetAccountByUsername(username string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return strings.EqualFold(a.Username, username) })
}

// GetAccountByEmail retrieves an account by email (case-insensitive)
func (r *MemoryAccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return strings.EqualFold(a.Email, email) })
}

// ListAccounts returns every account ordered by ID
func (r *MemoryAccountRepository) ListAccounts() ([]models.Account, error) {
	return r.filter(func(models.Account) bool { return true }), nil
}

// SearchAccounts finds accounts whose first name, last name, username or
// email contains text, ignoring case
func (r *MemoryAccountRepository) SearchAccounts(text string) ([]models.Account, error) {
	needle := strings.ToLower(text)
	return r.filter(func(a models.Account) bool {
		for _, field := range []string{a.FirstName, a.LastName, a.Username, a.Email} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (r *MemoryAccountRepository) find(match func(models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *MemoryAccountRepository) filter(match func(models.Account) bool) []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Account{}
	for _, a := range r.accounts {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}
