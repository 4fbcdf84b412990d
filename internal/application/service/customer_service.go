package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID   uuid.UUID
	Name     string
	Email    *string
	Phone    *string
	Document *string
	Address  *string
	City     *string
	Notes    *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Document != nil && *input.Document != "" {
		existing, err := s.customerRepo.GetByDocument(ctx, *input.Document)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A customer with this document already exists")
		}
	}

	customer := &entity.Customer{
		UserID:   input.UserID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Document: input.Document,
		Address:  input.Address,
		City:     input.City,
		Notes:    input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with page-based pagination
func (s *CustomerService) ListCustomers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers using cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	customers, err := s.customerRepo.ListWithCursor(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(customers, params.Limit,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	UserID   uuid.UUID
	ID       uuid.UUID
	IsAdmin  bool
	Name     *string
	Email    *string
	Phone    *string
	Document *string
	Address  *string
	City     *string
	Notes    *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	// Admins can update any customer, regular users only their own
	if !input.IsAdmin && customer.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Document != nil {
		customer.Document = input.Document
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, id uuid.UUID, isAdmin bool) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if !isAdmin && customer.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.customerRepo.Delete(ctx, id)
}

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	UserID      uuid.UUID
	Name        string
	CompanyName *string
	Email       *string
	Phone       *string
	Document    *string
	Address     *string
	City        *string
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		UserID:      input.UserID,
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		Document:    input.Document,
		Address:     input.Address,
		City:        input.City,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers
func (s *SupplierService) ListSuppliers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	IsAdmin     bool
	Name        *string
	CompanyName *string
	Email       *string
	Phone       *string
	Document    *string
	Address     *string
	City        *string
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if !input.IsAdmin && supplier.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.CompanyName != nil {
		supplier.CompanyName = input.CompanyName
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Document != nil {
		supplier.Document = input.Document
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.City != nil {
		supplier.City = input.City
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier deletes a supplier
func (s *SupplierService) DeleteSupplier(ctx context.Context, userID, id uuid.UUID, isAdmin bool) error {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}

	if !isAdmin && supplier.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.supplierRepo.Delete(ctx, id)
}
