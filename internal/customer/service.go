package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aurum-erp/aurum-erp/internal/shared"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	Create(ctx context.Context, c Customer) (*Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	GetByAccountNo(ctx context.Context, accountNo string) (*Customer, error)
	List(ctx context.Context, search string, limit, offset int) ([]Customer, int, error)
}

// Service handles customer business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// OpenAccount creates a customer with a fresh account number.
func (s *Service) OpenAccount(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	accountNo := strings.TrimSpace(req.AccountNo)
	name := strings.TrimSpace(req.Name)
	if accountNo == "" || name == "" {
		return nil, shared.ErrValidation
	}
	c, err := s.repo.Create(ctx, Customer{
		AccountNo: accountNo,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		CivilID:   strings.TrimSpace(req.CivilID),
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAccountNo) {
			return nil, shared.ErrDuplicateAccount
		}
		return nil, err
	}
	return c, nil
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByAccountNo looks a customer up by account number. Missing accounts
// are a hard error for this lookup.
func (s *Service) GetByAccountNo(ctx context.Context, accountNo string) (*Customer, error) {
	c, err := s.repo.GetByAccountNo(ctx, strings.TrimSpace(accountNo))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns a page of customers plus pagination metadata.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, shared.Pagination, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	customers, total, err := s.repo.List(ctx, strings.TrimSpace(req.Search), perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return customers, shared.NewPagination(page, perPage, total), nil
}
