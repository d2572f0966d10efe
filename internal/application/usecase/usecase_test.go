package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

func as(id string, perms ...entity.Permission) context.Context {
	return authz.WithPrincipal(context.Background(), authz.ForUser(&entity.User{ID: id, Email: id + "@x.com", Permissions: perms}))
}

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func seedItem(t *testing.T, store *memory.Store, id, owner string, price int64) {
	t.Helper()
	require.NoError(t, store.Items().Create(context.Background(), &entity.Item{
		ID: id, Title: "Item " + id, Price: price, UserID: owner, CreatedAt: time.Now(),
	}))
}

// ── Items ─────────────────────────────────────────────────────────────────────

func TestItemCreate_DuenoEsQuienLlama(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store.Items())

	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Title: "Gorra", Price: 1000})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	out, err := uc.Create(as("ana"), dto.CreateItemRequest{Title: "Gorra", Price: 1000})
	require.NoError(t, err)
	assert.Equal(t, "ana", out.UserID)

	_, err = uc.Create(as("ana"), dto.CreateItemRequest{Title: "Gorra", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(as("ana"), dto.CreateItemRequest{Title: "Gorra", Price: entity.MaxAmount + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(as("ana"), dto.UpdateItemRequest{ID: out.ID, Price: i64Ptr(entity.MaxAmount + 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemDelete_Permisos(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store.Items())

	seedItem(t, store, "i1", "ana", 100)
	seedItem(t, store, "i2", "ana", 100)

	_, err := uc.Delete(as("beto", entity.PermissionUser), "i1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "ni dueño ni ADMIN/ITEMDELETE")

	_, err = uc.Delete(as("ana", entity.PermissionUser), "i1")
	require.NoError(t, err, "el dueño puede borrar")
	got, _ := store.Items().GetByID(context.Background(), "i1")
	assert.Nil(t, got)

	_, err = uc.Delete(as("root", entity.PermissionAdmin), "i2")
	require.NoError(t, err, "ADMIN puede borrar items ajenos")

	_, err = uc.Delete(as("ana"), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUpdate_ParcialYPermisos(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store.Items())
	seedItem(t, store, "i1", "ana", 100)

	_, err := uc.Update(as("beto", entity.PermissionUser), dto.UpdateItemRequest{ID: "i1", Title: strPtr("Hack")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Update(as("ana"), dto.UpdateItemRequest{ID: "i1", Price: i64Ptr(250)})
	require.NoError(t, err)
	assert.Equal(t, int64(250), out.Price)
	assert.Equal(t, "Item i1", out.Title, "los campos nil no cambian")
	assert.Equal(t, "ana", out.UserID)

	_, err = uc.Update(as("editor", entity.PermissionItemUpdate), dto.UpdateItemRequest{ID: "i1", Title: strPtr("Nuevo")})
	require.NoError(t, err)
	stored, _ := store.Items().GetByID(context.Background(), "i1")
	assert.Equal(t, "Nuevo", stored.Title)
	assert.Equal(t, "ana", stored.UserID)
}

func TestItemList_Validacion(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store.Items())
	seedItem(t, store, "i1", "ana", 100)

	items, err := uc.List(context.Background(), dto.ItemListRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = uc.List(context.Background(), dto.ItemListRequest{OrderBy: "title_ASC"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	conn, err := uc.Connection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, conn.Aggregate.Count)
}

// ── Carrito ───────────────────────────────────────────────────────────────────

func TestCartAdd_DosVecesIncrementa(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUseCase(store.Carts(), store.Items())
	seedItem(t, store, "i1", "ana", 100)
	ctx := as("beto")

	first, err := uc.Add(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := uc.Add(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	lines, err := store.Carts().ListByUser(context.Background(), "beto")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartAdd_ConcurrenteNoDuplicaLineas(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUseCase(store.Carts(), store.Items())
	seedItem(t, store, "i1", "ana", 100)
	ctx := as("beto")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Add(ctx, "i1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, _ := store.Carts().ListByUser(context.Background(), "beto")
	require.Len(t, lines, 1)
	assert.Equal(t, n, lines[0].Quantity)
}

func TestCartAdd_Errores(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUseCase(store.Carts(), store.Items())

	_, err := uc.Add(context.Background(), "i1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.Add(as("beto"), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRemove_SoloDueno(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCartUseCase(store.Carts(), store.Items())
	seedItem(t, store, "i1", "ana", 100)
	line, err := uc.Add(as("beto"), "i1")
	require.NoError(t, err)

	_, err = uc.Remove(as("carla", entity.PermissionAdmin), line.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Remove(as("beto"), line.ID)
	require.NoError(t, err)

	_, err = uc.Remove(as("beto"), line.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func TestMe_AnonimoEsNil(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users(), store.Carts())

	me, err := uc.Me(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, me)
}

func TestMe_IncluyeCarrito(t *testing.T) {
	store := memory.NewStore()
	seedItem(t, store, "i1", "ana", 100)
	_, err := usecase.NewCartUseCase(store.Carts(), store.Items()).Add(as("beto"), "i1")
	require.NoError(t, err)

	me, err := usecase.NewUserUseCase(store.Users(), store.Carts()).Me(as("beto", entity.PermissionUser))
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, "beto", me.ID)
	require.Len(t, me.Cart, 1)
	assert.Equal(t, "i1", me.Cart[0].Item.ID)
}

func TestUsers_RequierePermiso(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users(), store.Carts())

	_, err := uc.List(as("beto", entity.PermissionUser))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.List(as("root", entity.PermissionPermissionUpdate))
	assert.NoError(t, err)
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func seedOrder(t *testing.T, store *memory.Store, id, owner string, created time.Time) {
	t.Helper()
	require.NoError(t, store.Orders().Create(context.Background(), &entity.Order{
		ID: id, UserID: owner, Total: 1500, Currency: "usd", Charge: "ch_" + id, CreatedAt: created,
		Items: []entity.OrderItem{{ID: id + "-1", OrderID: id, Title: "Gorra", Price: 1500, Quantity: 1, UserID: owner}},
	}))
}

func TestOrderGet_DuenoOAdmin(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewOrderUseCase(store.Orders(), store.Users(), nil)
	seedOrder(t, store, "o1", "ana", time.Now())

	out, err := uc.Get(as("ana"), "o1")
	require.NoError(t, err)
	assert.Equal(t, "$15.00 USD", out.FormattedTotal)
	require.Len(t, out.Items, 1)

	_, err = uc.Get(as("beto"), "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(as("root", entity.PermissionAdmin), "o1")
	assert.NoError(t, err)

	_, err = uc.Get(as("ana"), "o2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Get(context.Background(), "o1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestOrderList_SoloPropios(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewOrderUseCase(store.Orders(), store.Users(), nil)
	now := time.Now()
	seedOrder(t, store, "o1", "ana", now.Add(-time.Hour))
	seedOrder(t, store, "o2", "ana", now)
	seedOrder(t, store, "o3", "beto", now)

	out, err := uc.List(as("ana"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "o2", out[0].ID)
	assert.Equal(t, "o1", out[1].ID)
}

type stubReceipts struct{ customer *entity.User }

func (s *stubReceipts) GenerateOrderReceipt(order *entity.Order, customer *entity.User) ([]byte, error) {
	s.customer = customer
	return []byte("%PDF-" + order.ID), nil
}

func TestOrderReceipt(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{ID: "ana", Email: "ana@x.com", Name: "Ana"}))
	seedOrder(t, store, "o1", "ana", time.Now())
	receipts := &stubReceipts{}
	uc := usecase.NewOrderUseCase(store.Orders(), store.Users(), receipts)

	pdf, err := uc.Receipt(as("ana"), "o1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-o1", string(pdf))
	assert.Equal(t, "Ana", receipts.customer.Name)

	_, err = uc.Receipt(as("beto"), "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
