package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo. Las lecturas son públicas.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create publica un item cuyo dueño es quien llama.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.InvalidInput("el título es obligatorio")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		UserID:      p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.FromItem(item), nil
}

// Update aplica los campos no nil. Sólo el dueño o ADMIN/ITEMUPDATE.
func (uc *ItemUseCase) Update(ctx context.Context, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.RequireOwnerOrPermission(p, item.UserID, entity.PermissionAdmin, entity.PermissionItemUpdate); err != nil {
		return nil, err
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.InvalidInput("el título es obligatorio")
		}
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		item.Price = *in.Price
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.LargeImage != nil {
		item.LargeImage = *in.LargeImage
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return dto.FromItem(item), nil
}

// Delete borra el item. Sólo el dueño o ADMIN/ITEMDELETE.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (*dto.ItemResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.RequireOwnerOrPermission(p, item.UserID, entity.PermissionAdmin, entity.PermissionItemDelete); err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return dto.FromItem(item), nil
}

// GetByID devuelve (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromItem(item), nil
}

// List listado público, más reciente primero por defecto.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemListRequest) ([]*dto.ItemResponse, error) {
	in.DefaultPage()
	orderBy := in.OrderBy
	switch orderBy {
	case "":
		orderBy = repository.ItemOrderCreatedAtDesc
	case repository.ItemOrderCreatedAtDesc, repository.ItemOrderCreatedAtAsc,
		repository.ItemOrderPriceAsc, repository.ItemOrderPriceDesc:
	default:
		return nil, domain.InvalidInput("orden desconocido %q", orderBy)
	}
	items, err := uc.repo.List(ctx, repository.ItemFilter{Skip: in.Skip, First: in.First, OrderBy: orderBy})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.FromItem(it)
	}
	return out, nil
}

// Connection agregado del catálogo (itemsConnection).
func (uc *ItemUseCase) Connection(ctx context.Context) (*dto.ItemConnection, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ItemConnection{Aggregate: dto.AggregateCount{Count: n}}, nil
}

func validatePrice(price int64) error {
	if price < 0 {
		return domain.InvalidInput("el precio no puede ser negativo")
	}
	if price > entity.MaxAmount {
		return domain.InvalidInput("el precio supera el máximo permitido (%d)", entity.MaxAmount)
	}
	return nil
}
