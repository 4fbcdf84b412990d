package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

// PurchaseService handles supplier restock purchases
type PurchaseService struct {
	purchaseRepo     repository.PurchaseRepository
	purchaseItemRepo repository.PurchaseItemRepository
	supplierRepo     repository.SupplierRepository
	productRepo      repository.ProductRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	purchaseItemRepo repository.PurchaseItemRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:     purchaseRepo,
		purchaseItemRepo: purchaseItemRepo,
		supplierRepo:     supplierRepo,
		productRepo:      productRepo,
	}
}

// PurchaseItemInput is one line of a purchase request. UnitCost is a decimal
// currency value.
type PurchaseItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitCost  float64
}

// CreatePurchaseInput represents the create purchase input
type CreatePurchaseInput struct {
	UserID       uuid.UUID
	SupplierID   uuid.UUID
	PurchaseDate *time.Time
	Items        []PurchaseItemInput
}

// CreatePurchase creates a pending purchase. Stock is only incremented on
// approval.
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Purchase requires at least one item")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	items := make([]entity.PurchaseItem, 0, len(input.Items))
	var total int64
	var totalProducts int
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, apperror.NewBadRequestError("Item quantity must be at least 1")
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}

		unitCost := int64(line.UnitCost*100 + 0.5)
		lineTotal := unitCost * int64(line.Quantity)
		total += lineTotal
		totalProducts += line.Quantity

		items = append(items, entity.PurchaseItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  unitCost,
			LineTotal: lineTotal,
		})
	}

	purchaseDate := time.Now()
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}

	purchase := &entity.Purchase{
		UserID:        input.UserID,
		SupplierID:    input.SupplierID,
		PurchaseDate:  purchaseDate,
		ReferenceNo:   utils.GenerateReferenceNo("CMP"),
		Status:        entity.PurchaseStatusPending,
		TotalProducts: totalProducts,
		Total:         total,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].PurchaseID = purchase.ID
	}
	if err := s.purchaseItemRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	return s.purchaseRepo.GetWithDetails(ctx, purchase.ID)
}

// GetPurchase retrieves a purchase with its items
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with optional status filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, status *entity.PurchaseStatus) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, userID, params, search, status)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

// ApprovePurchase approves a pending purchase and increments product stock
func (s *PurchaseService) ApprovePurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	if purchase.Status == entity.PurchaseStatusApproved {
		return nil, apperror.NewBadRequestError("Purchase is already approved")
	}

	for _, item := range purchase.Items {
		if err := s.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	purchase.Status = entity.PurchaseStatusApproved
	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, err
	}

	return purchase, nil
}

// DeletePurchase deletes a pending purchase. Approved purchases are kept for
// stock traceability.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if purchase == nil {
		return apperror.NewNotFoundError("Purchase")
	}
	if purchase.Status == entity.PurchaseStatusApproved {
		return apperror.NewBadRequestError("Approved purchases cannot be deleted")
	}

	if err := s.purchaseItemRepo.DeleteByPurchaseID(ctx, purchase.ID); err != nil {
		return err
	}
	return s.purchaseRepo.Delete(ctx, purchase.ID)
}
