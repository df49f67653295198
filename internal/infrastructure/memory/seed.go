package memory

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
)

// Los datos maestros (órdenes, bodegas, productos, plan de cuentas) los crean otros
// módulos del ERP; estas funciones los cargan en el Store para pruebas y ejecución local.

// SeedPurchaseOrder guarda la orden con sus líneas.
func (s *Store) SeedPurchaseOrder(ctx context.Context, po entity.PurchaseOrder) error {
	return s.write(ctx, func(st *state) error {
		st.purchaseOrders[po.ID] = copyPurchaseOrder(po)
		return nil
	})
}

// SeedWarehouse guarda una bodega.
func (s *Store) SeedWarehouse(ctx context.Context, w entity.Warehouse) error {
	return s.write(ctx, func(st *state) error {
		st.warehouses[w.ID] = w
		return nil
	})
}

// SeedProduct guarda un producto.
func (s *Store) SeedProduct(ctx context.Context, p entity.Product) error {
	return s.write(ctx, func(st *state) error {
		st.products[p.ID] = p
		return nil
	})
}

// SeedVariant guarda una variante de producto.
func (s *Store) SeedVariant(ctx context.Context, v entity.ProductVariant) error {
	return s.write(ctx, func(st *state) error {
		st.variants[v.ID] = v
		return nil
	})
}

// SeedAccount asocia una cuenta lógica (INVENTORY, TAX_PAYABLE, ACCOUNTS_PAYABLE) con
// la cuenta contable de la empresa.
func (s *Store) SeedAccount(ctx context.Context, companyID, logicalAccount, accountID string) error {
	return s.write(ctx, func(st *state) error {
		st.accounts[accountKey(companyID, logicalAccount)] = accountID
		return nil
	})
}

// SeedDefaultAccounts configura las tres cuentas del motor de recepción con códigos PUC.
func (s *Store) SeedDefaultAccounts(ctx context.Context, companyID string) error {
	for logical, code := range map[string]string{
		entity.AccountInventory:       "1435",
		entity.AccountTaxPayable:      "2408",
		entity.AccountAccountsPayable: "2205",
	} {
		if err := s.SeedAccount(ctx, companyID, logical, code); err != nil {
			return err
		}
	}
	return nil
}
