package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"billing-service/internal/repository"
	"billing-service/pkg/logger"
)

// SampleInventory is the starter catalog loaded into an empty inventory
var SampleInventory = []ItemInput{
	{Name: "Steel Rebar", Description: "TMT reinforcement bar", HSN: "7214", Size: "12mm", Unit: "kg", Quantity: 1000, MinStock: 100, Price: decimal.NewFromInt(65), GSTRate: decimal.NewFromInt(18)},
	{Name: "Portland Cement", Description: "OPC 53 grade", HSN: "2523", Size: "50kg", Unit: "bag", Quantity: 500, MinStock: 50, Price: decimal.NewFromInt(350), GSTRate: decimal.NewFromInt(28)},
	{Name: "Plywood", Description: "Marine grade plywood", HSN: "4412", Size: "8x4 ft", Unit: "sheet", Quantity: 100, MinStock: 10, Price: decimal.NewFromInt(1800), GSTRate: decimal.NewFromInt(18)},
	{Name: "Concrete Mix", Description: "Ready mix concrete M20", HSN: "3824", Size: "1 m3", Unit: "m3", Quantity: 50, MinStock: 5, Price: decimal.NewFromInt(4500), GSTRate: decimal.NewFromInt(18)},
	{Name: "Plastiwood Deck Board", Description: "WPC decking", HSN: "3925", Size: "2.4m", Unit: "piece", Quantity: 150, MinStock: 20, Price: decimal.NewFromInt(2500), GSTRate: decimal.NewFromInt(18)},
}

// SeedSampleInventory loads SampleInventory when the catalog is empty. It
// reports how many items were added.
func SeedSampleInventory(ctx context.Context, repo repository.Repository) (int, error) {
	count, err := repo.CountItems(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.FromCtx(ctx).Info("Inventory not empty, skipping sample data", zap.Int64("items", count))
		return 0, nil
	}

	err = repo.Transaction(ctx, func(tx repository.Repository) error {
		inventory := NewInventoryService(tx)
		for _, in := range SampleInventory {
			if _, err := inventory.Add(ctx, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(SampleInventory), nil
}
