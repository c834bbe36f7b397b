package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	ProdID      string
	Name        string
	CategoryID  string
	SalePrice   float64
	BuyPrice    float64
	IsAvailable bool
}

// Products manages the product catalogue and its recipes.
type Products struct {
	rpc rpc.Caller
}

func NewProducts(caller rpc.Caller) *Products {
	return &Products{rpc: caller}
}

func (s *Products) All(ctx context.Context) ([]models.Product, error) {
	data, callErr := s.rpc.Call(ctx, "products_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.Product]("products_get", data)
}

func (s *Products) ByID(ctx context.Context, id string) (*models.Product, error) {
	data, callErr := s.rpc.Call(ctx, "products_get_by_id", map[string]any{"_id": id})
	if callErr != nil {
		return nil, callErr
	}
	return decodeObject[models.Product]("products_get_by_id", data)
}

func (s *Products) Create(ctx context.Context, in ProductInput) error {
	_, callErr := s.rpc.Call(ctx, "products_insert", s.params(in))
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Products) Update(ctx context.Context, id string, in ProductInput) error {
	params := s.params(in)
	params["_id"] = id
	_, callErr := s.rpc.Call(ctx, "products_update", params)
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Products) Delete(ctx context.Context, id string) error {
	_, callErr := s.rpc.Call(ctx, "products_delete", map[string]any{"_id": id})
	if callErr != nil {
		return callErr
	}
	return nil
}

// Categories returns the product grouping lookup.
func (s *Products) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	data, callErr := s.rpc.Call(ctx, "product_categories_get", nil)
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.ProductCategory]("product_categories_get", data)
}

// Recipes returns the inventory items a product consumes.
func (s *Products) Recipes(ctx context.Context, productID string) ([]models.ProductRecipe, error) {
	data, callErr := s.rpc.Call(ctx, "get_product_recipes", map[string]any{"_product_id": productID})
	if callErr != nil {
		return nil, callErr
	}
	return decodeList[models.ProductRecipe]("get_product_recipes", data)
}

func (s *Products) AddRecipe(ctx context.Context, productID, itemID string, quantity float64) error {
	_, callErr := s.rpc.Call(ctx, "add_product_recipe", map[string]any{
		"_product_id": productID,
		"_item_id":    itemID,
		"_quantity":   quantity,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Products) UpdateRecipe(ctx context.Context, recipeID string, quantity float64) error {
	_, callErr := s.rpc.Call(ctx, "update_product_recipe", map[string]any{
		"_id":       recipeID,
		"_quantity": quantity,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Products) DeleteRecipe(ctx context.Context, recipeID string) error {
	_, callErr := s.rpc.Call(ctx, "delete_product_recipe", map[string]any{"_id": recipeID})
	if callErr != nil {
		return callErr
	}
	return nil
}

// DeleteRecipeByItem removes every recipe line referencing an item.
func (s *Products) DeleteRecipeByItem(ctx context.Context, productID, itemID string) error {
	_, callErr := s.rpc.Call(ctx, "delete_product_recipe_by_item", map[string]any{
		"_product_id": productID,
		"_item_id":    itemID,
	})
	if callErr != nil {
		return callErr
	}
	return nil
}

func (s *Products) params(in ProductInput) map[string]any {
	return map[string]any{
		"p_prod_id":      nullable(in.ProdID),
		"p_name":         in.Name,
		"p_category_id":  nullable(in.CategoryID),
		"p_sale_price":   in.SalePrice,
		"p_buy_price":    in.BuyPrice,
		"p_is_available": in.IsAvailable,
	}
}
