package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to add a product to the catalog
type CreateProductRequest struct {
	Reference string `json:"reference" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=200"`
}

// UpdateProductRequest represents a request to rename a product
type UpdateProductRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `json:"search"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a product to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Reference: product.Reference,
		Name:      product.Name,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
		Version:   product.GetVersion(),
	}
}

// ToProductResponses converts a product slice to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
