package main

import "github.com/jhoicas/recepcion-api/internal/domain/repository"

// readRepos repositorios de lectura fuera de transacción, según el driver de almacenamiento.
type readRepos struct {
	po        repository.PurchaseOrderRepository
	grn       repository.GoodsReceiptRepository
	warehouse repository.WarehouseRepository
}
