package inventory_test

import "github.com/jhoicas/almacen-api/internal/domain/repository"

func repositoryFilter(productID int64) repository.WarehouseItemFilter {
	return repository.WarehouseItemFilter{ProductID: productID, Limit: 10}
}
