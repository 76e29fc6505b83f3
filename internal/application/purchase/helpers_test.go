package purchase_test

import "github.com/jhoicas/almacen-api/internal/domain/repository"

func repoFilter(productID int64) repository.WarehouseItemFilter {
	return repository.WarehouseItemFilter{ProductID: productID, Limit: 10}
}
