package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ordenes-api/internal/application/catalog"
	"github.com/jhoicas/ordenes-api/internal/application/dto"
	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/memory"
)

func TestCatalog_GetYList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, name := range []string{"Abrigo", "Bufanda", "Camisa"} {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{
			ID: name, Type: entity.ProductTypeAccessory, Name: name, UnitPrice: decimal.NewFromInt(10), Quantity: 3,
		}))
	}
	uc := catalog.NewProductUseCase(store.Products())

	p, err := uc.GetByID(ctx, "Bufanda")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)

	_, err = uc.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	page, err := uc.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Abrigo", page.Items[0].Name)
	assert.Equal(t, 2, page.Page.Limit)

	page, err = uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 20, page.Page.Limit)
}
