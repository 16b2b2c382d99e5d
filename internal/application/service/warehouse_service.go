package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
)

// WarehouseService builds the packing summary for orders being prepared
type WarehouseService struct {
	preSaleRepo repository.PreSaleRepository
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(preSaleRepo repository.PreSaleRepository) *WarehouseService {
	return &WarehouseService{preSaleRepo: preSaleRepo}
}

// ProductDemand aggregates how much of one product the open orders need,
// split into sold units and bonus units
type ProductDemand struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	BonusQuantity int       `json:"bonus_quantity"`
	TotalQuantity int       `json:"total_quantity"`
	Orders        int       `json:"orders"`
}

// Summary returns per-product demand across every pre-sale still in the
// warehouse pipeline, largest demand first. Dispatched orders have left the
// warehouse and are excluded.
func (s *WarehouseService) Summary(ctx context.Context) ([]ProductDemand, error) {
	items, err := s.preSaleRepo.ListItemsByStatus(ctx, []enum.PreSaleStatus{
		enum.PreSaleStatusPending,
		enum.PreSaleStatusPreparing,
		enum.PreSaleStatusReadyForDelivery,
	})
	if err != nil {
		return nil, err
	}
	return groupItemsByProduct(items), nil
}

func groupItemsByProduct(items []entity.PreSaleItem) []ProductDemand {
	demands := make(map[uuid.UUID]*ProductDemand)
	ordersSeen := make(map[uuid.UUID]map[uuid.UUID]bool)

	for _, item := range items {
		demand, ok := demands[item.ProductID]
		if !ok {
			demand = &ProductDemand{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
			}
			demands[item.ProductID] = demand
			ordersSeen[item.ProductID] = make(map[uuid.UUID]bool)
		}

		if item.IsBonus {
			demand.BonusQuantity += item.Quantity
		} else {
			demand.Quantity += item.Quantity
		}
		demand.TotalQuantity += item.Quantity

		if !ordersSeen[item.ProductID][item.PreSaleID] {
			ordersSeen[item.ProductID][item.PreSaleID] = true
			demand.Orders++
		}
	}

	result := make([]ProductDemand, 0, len(demands))
	for _, demand := range demands {
		result = append(result, *demand)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalQuantity != result[j].TotalQuantity {
			return result[i].TotalQuantity > result[j].TotalQuantity
		}
		return result[i].ProductName < result[j].ProductName
	})

	return result
}
