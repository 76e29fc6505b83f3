// Package testutil provee dobles de prueba compartidos por los tests de aplicación y HTTP.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store es una implementación en memoria de todos los repositorios y del TxRunner.
// Run serializa las transacciones y restaura una copia del estado si fn falla,
// igual que un Rollback. Las lecturas fuera de Run no son seguras en paralelo con Run.
type Store struct {
	txMu  sync.Mutex
	data  *state
	fails map[string]error
}

type state struct {
	products    map[int64]*entity.Product
	orders      map[int64]*entity.PurchaseOrder
	items       map[int64]*entity.WarehouseItem
	movements   []*entity.StockMovement
	sales       map[int64]*entity.SalesOrder
	salesItems  []*entity.SalesOrderItem
	users       map[string]*entity.User
	sequences   map[string]int64
	lastID      int64
	lockedTrace []int64
}

var _ inventory.TxRunner = (*Store)(nil)

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		data: &state{
			products:  map[int64]*entity.Product{},
			orders:    map[int64]*entity.PurchaseOrder{},
			items:     map[int64]*entity.WarehouseItem{},
			sales:     map[int64]*entity.SalesOrder{},
			users:     map[string]*entity.User{},
			sequences: map[string]int64{},
		},
		fails: map[string]error{},
	}
}

// FailOn hace que la operación op ("WarehouseItems.EnsureForProduct", "PurchaseOrders.Update", ...)
// devuelva err en sus siguientes invocaciones.
func (s *Store) FailOn(op string, err error) { s.fails[op] = err }

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() { s.fails = map[string]error{} }

func (s *Store) failure(op string) error { return s.fails[op] }

// Run ejecuta fn con los repositorios del store; si fn falla el estado vuelve al snapshot.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(s.Repos()); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repos devuelve los repositorios del store.
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Products:       s.Products(),
		PurchaseOrders: s.PurchaseOrders(),
		WarehouseItems: s.WarehouseItems(),
		Movements:      s.Movements(),
		SalesOrders:    s.SalesOrders(),
		Sequences:      s.Sequences(),
	}
}

// Products devuelve el repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// PurchaseOrders devuelve el repositorio de órdenes de compra.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return purchaseOrderRepo{s} }

// WarehouseItems devuelve el repositorio del libro de almacén.
func (s *Store) WarehouseItems() repository.WarehouseItemRepository { return warehouseItemRepo{s} }

// Movements devuelve el repositorio de movimientos.
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s} }

// SalesOrders devuelve el repositorio de órdenes de venta.
func (s *Store) SalesOrders() repository.SalesOrderRepository { return salesOrderRepo{s} }

// Sequences devuelve el repositorio de secuencias.
func (s *Store) Sequences() repository.SequenceRepository { return sequenceRepo{s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// SeedProduct inserta un producto directamente (sin numeración transaccional).
func (s *Store) SeedProduct(name string, price string) *entity.Product {
	s.data.lastID++
	p := &entity.Product{
		ID:    s.data.lastID,
		Code:  entity.FormatProductCode(s.data.lastID),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	s.data.products[p.ID] = p
	return p
}

// SeedLedger crea o reemplaza la entrada del libro de un producto con la cantidad dada.
func (s *Store) SeedLedger(productID, quantity int64) *entity.WarehouseItem {
	for _, it := range s.data.items {
		if it.ProductID == productID {
			it.Quantity = quantity
			return it
		}
	}
	s.data.lastID++
	it := &entity.WarehouseItem{ID: s.data.lastID, ProductID: productID, Quantity: quantity}
	s.data.items[it.ID] = it
	return it
}

// LedgerQuantity devuelve la cantidad de la entrada del producto (-1 si no existe).
func (s *Store) LedgerQuantity(productID int64) int64 {
	for _, it := range s.data.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return -1
}

// MovementSum suma los deltas registrados para el producto.
func (s *Store) MovementSum(productID int64) int64 {
	var sum int64
	for _, m := range s.data.movements {
		if m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum
}

// SalesOrderCount devuelve cuántas órdenes de venta hay persistidas.
func (s *Store) SalesOrderCount() int { return len(s.data.sales) }

// SalesItemCount devuelve cuántos ítems de venta hay persistidos.
func (s *Store) SalesItemCount() int { return len(s.data.salesItems) }

// LockedProducts devuelve los ids bloqueados con LockProducts, en orden de llamada.
func (s *Store) LockedProducts() []int64 { return append([]int64(nil), s.data.lockedTrace...) }

func (st *state) nextID() int64 {
	st.lastID++
	return st.lastID
}

func (st *state) stock(productID int64) int64 {
	var sum int64
	for _, it := range st.items {
		if it.ProductID == productID {
			sum += it.Quantity
		}
	}
	return sum
}

func (st *state) clone() *state {
	c := &state{
		products:    make(map[int64]*entity.Product, len(st.products)),
		orders:      make(map[int64]*entity.PurchaseOrder, len(st.orders)),
		items:       make(map[int64]*entity.WarehouseItem, len(st.items)),
		movements:   make([]*entity.StockMovement, 0, len(st.movements)),
		sales:       make(map[int64]*entity.SalesOrder, len(st.sales)),
		salesItems:  make([]*entity.SalesOrderItem, 0, len(st.salesItems)),
		users:       make(map[string]*entity.User, len(st.users)),
		sequences:   make(map[string]int64, len(st.sequences)),
		lastID:      st.lastID,
		lockedTrace: append([]int64(nil), st.lockedTrace...),
	}
	for k, v := range st.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range st.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range st.items {
		cp := *v
		c.items[k] = &cp
	}
	for _, v := range st.movements {
		cp := *v
		c.movements = append(c.movements, &cp)
	}
	for k, v := range st.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for _, v := range st.salesItems {
		cp := *v
		c.salesItems = append(c.salesItems, &cp)
	}
	for k, v := range st.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range st.sequences {
		c.sequences[k] = v
	}
	return c
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ── products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.s.failure("Products.Create"); err != nil {
		return err
	}
	for _, other := range r.s.data.products {
		if strings.EqualFold(other.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	p.ID = r.s.data.nextID()
	cp := *p
	r.s.data.products[p.ID] = &cp
	return nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Stock = r.s.data.stock(id)
	return &cp, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.data.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.data.products {
		if other.ID != p.ID && strings.EqualFold(other.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	cp.Stock = 0
	r.s.data.products[p.ID] = &cp
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for id, p := range r.s.data.products {
		if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.Code, f.Search) && !contains(p.Description, f.Search) {
			continue
		}
		cp := *p
		cp.Stock = r.s.data.stock(id)
		out = append(out, &cp)
	}
	desc := strings.HasPrefix(f.Ordering, "-")
	field := strings.TrimPrefix(f.Ordering, "-")
	less := func(a, b *entity.Product) bool {
		switch field {
		case "price":
			return a.Price.LessThan(b.Price)
		case "stock":
			return a.Stock < b.Stock
		case "created_at":
			return a.ID < b.ID
		default:
			return a.Name < b.Name
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	st := r.s.data
	if _, ok := st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.products, id)
	for k, it := range st.items {
		if it.ProductID == id {
			delete(st.items, k)
		}
	}
	for k, po := range st.orders {
		if po.ProductID == id {
			delete(st.orders, k)
		}
	}
	kept := st.salesItems[:0]
	for _, it := range st.salesItems {
		if it.ProductID != id {
			kept = append(kept, it)
		}
	}
	st.salesItems = kept
	movs := st.movements[:0]
	for _, m := range st.movements {
		if m.ProductID != id {
			movs = append(movs, m)
		}
	}
	st.movements = movs
	return nil
}

func (r productRepo) Stock(_ context.Context, productID int64) (int64, error) {
	if err := r.s.failure("Products.Stock"); err != nil {
		return 0, err
	}
	return r.s.data.stock(productID), nil
}

// ── purchase orders ──────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ s *Store }

func (r purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if err := r.s.failure("PurchaseOrders.Create"); err != nil {
		return err
	}
	po.ID = r.s.data.nextID()
	cp := *po
	r.s.data.orders[po.ID] = &cp
	return nil
}

func (r purchaseOrderRepo) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	po, ok := r.s.data.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	if p, ok := r.s.data.products[po.ProductID]; ok {
		cp.ProductName = p.Name
	}
	return &cp, nil
}

func (r purchaseOrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	if err := r.s.failure("PurchaseOrders.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.orders[po.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *po
	r.s.data.orders[po.ID] = &cp
	return nil
}

func (r purchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var out []*entity.PurchaseOrder
	for id := range r.s.data.orders {
		po, _ := r.GetByID(ctx, id)
		if f.Status != "" && po.Status != f.Status {
			continue
		}
		if f.ProductName != "" && !contains(po.ProductName, f.ProductName) {
			continue
		}
		out = append(out, po)
	}
	desc := strings.HasPrefix(f.Ordering, "-")
	field := strings.TrimPrefix(f.Ordering, "-")
	less := func(a, b *entity.PurchaseOrder) bool {
		if field == "supplier" {
			return a.Supplier < b.Supplier
		}
		return a.ID < b.ID
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r purchaseOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.data.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.orders, id)
	for _, it := range r.s.data.items {
		if it.PurchaseOrderID != nil && *it.PurchaseOrderID == id {
			it.PurchaseOrderID = nil
		}
	}
	return nil
}

// ── warehouse items ──────────────────────────────────────────────────────────

type warehouseItemRepo struct{ s *Store }

func (r warehouseItemRepo) find(productID int64) *entity.WarehouseItem {
	for _, it := range r.s.data.items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}

func (r warehouseItemRepo) GetByProductForUpdate(_ context.Context, productID int64) (*entity.WarehouseItem, error) {
	if err := r.s.failure("WarehouseItems.GetByProductForUpdate"); err != nil {
		return nil, err
	}
	it := r.find(productID)
	if it == nil {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r warehouseItemRepo) EnsureForProduct(_ context.Context, productID int64) (*entity.WarehouseItem, error) {
	if err := r.s.failure("WarehouseItems.EnsureForProduct"); err != nil {
		return nil, err
	}
	it := r.find(productID)
	if it == nil {
		it = &entity.WarehouseItem{ID: r.s.data.nextID(), ProductID: productID}
		r.s.data.items[it.ID] = it
	}
	cp := *it
	return &cp, nil
}

func (r warehouseItemRepo) LockProducts(_ context.Context, productIDs []int64) error {
	r.s.data.lockedTrace = append(r.s.data.lockedTrace, productIDs...)
	return nil
}

func (r warehouseItemRepo) Update(_ context.Context, item *entity.WarehouseItem) error {
	if err := r.s.failure("WarehouseItems.Update"); err != nil {
		return err
	}
	if item.Quantity < 0 {
		return domain.ErrInconsistency
	}
	cp := *item
	r.s.data.items[item.ID] = &cp
	return nil
}

func (r warehouseItemRepo) List(_ context.Context, f repository.WarehouseItemFilter) ([]*entity.WarehouseItem, int, error) {
	var out []*entity.WarehouseItem
	for _, it := range r.s.data.items {
		if it.Quantity <= 0 {
			continue
		}
		if f.ProductID != 0 && it.ProductID != f.ProductID {
			continue
		}
		cp := *it
		if p, ok := r.s.data.products[it.ProductID]; ok {
			cp.ProductName = p.Name
			cp.ProductCode = p.Code
		}
		if f.Search != "" && !contains(cp.ProductName, f.Search) && !contains(cp.ProductCode, f.Search) {
			continue
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), len(out), nil
}

// ── movements ────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.s.failure("Movements.Create"); err != nil {
		return err
	}
	m.ID = r.s.data.nextID()
	cp := *m
	r.s.data.movements = append(r.s.data.movements, &cp)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

// ── sales orders ─────────────────────────────────────────────────────────────

type salesOrderRepo struct{ s *Store }

func (r salesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	if err := r.s.failure("SalesOrders.Create"); err != nil {
		return err
	}
	o.ID = r.s.data.nextID()
	cp := *o
	cp.Items = nil
	r.s.data.sales[o.ID] = &cp
	return nil
}

func (r salesOrderRepo) CreateItem(_ context.Context, it *entity.SalesOrderItem) error {
	if err := r.s.failure("SalesOrders.CreateItem"); err != nil {
		return err
	}
	if _, ok := r.s.data.sales[it.SalesOrderID]; !ok {
		return domain.ErrNotFound
	}
	it.ID = r.s.data.nextID()
	cp := *it
	r.s.data.salesItems = append(r.s.data.salesItems, &cp)
	return nil
}

func (r salesOrderRepo) GetByID(_ context.Context, id int64) (*entity.SalesOrder, error) {
	o, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = nil
	for _, it := range r.s.data.salesItems {
		if it.SalesOrderID != id {
			continue
		}
		ic := *it
		if p, ok := r.s.data.products[it.ProductID]; ok {
			ic.ProductName = p.Name
			ic.ProductCode = p.Code
		}
		cp.Items = append(cp.Items, &ic)
	}
	cp.ComputeTotal()
	return &cp, nil
}

func (r salesOrderRepo) List(ctx context.Context, f repository.SalesOrderFilter) ([]*entity.SalesOrder, int, error) {
	var out []*entity.SalesOrder
	for id, o := range r.s.data.sales {
		if f.CustomerName != "" && !contains(o.CustomerName, f.CustomerName) {
			continue
		}
		full, _ := r.GetByID(ctx, id)
		out = append(out, full)
	}
	desc := strings.HasPrefix(f.Ordering, "-")
	field := strings.TrimPrefix(f.Ordering, "-")
	less := func(a, b *entity.SalesOrder) bool {
		if field == "total_amount" {
			return a.TotalAmount.LessThan(b.TotalAmount)
		}
		return a.ID < b.ID
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return page(out, f.Limit, f.Offset), len(out), nil
}

// ── sequences ────────────────────────────────────────────────────────────────

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) Next(_ context.Context, name string) (int64, error) {
	if err := r.s.failure("Sequences.Next"); err != nil {
		return 0, err
	}
	r.s.data.sequences[name]++
	return r.s.data.sequences[name], nil
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	for _, other := range r.s.data.users {
		if other.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *u
	r.s.data.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.s.data.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) Count(_ context.Context) (int, error) { return len(r.s.data.users), nil }
