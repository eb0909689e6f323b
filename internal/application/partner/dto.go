package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/partner"
)

// CreateLocationRequest represents a new distribution location
type CreateLocationRequest struct {
	Code    string `json:"code" validate:"required,max=50"`
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"omitempty"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Notes   string `json:"notes" validate:"omitempty"`
}

// UpdateLocationRequest represents changes to a distribution location
type UpdateLocationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"omitempty"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Notes   string `json:"notes" validate:"omitempty"`
}

// LocationResponse represents a distribution location in responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// LocationListFilter represents filter options for the location list
type LocationListFilter struct {
	City     string `json:"city"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	Search   string `json:"search"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// CreateCentreRequest represents a new medical centre
type CreateCentreRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=200"`
	Region      string `json:"region" validate:"omitempty,max=100"`
	ContactName string `json:"contact_name" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Notes       string `json:"notes" validate:"omitempty"`
}

// UpdateCentreRequest represents changes to a medical centre
type UpdateCentreRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Region      string `json:"region" validate:"omitempty,max=100"`
	ContactName string `json:"contact_name" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Notes       string `json:"notes" validate:"omitempty"`
}

// CentreResponse represents a medical centre in responses
type CentreResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Region      string    `json:"region,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// CentreListFilter represents filter options for the centre list
type CentreListFilter struct {
	Region   string `json:"region"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	Search   string `json:"search"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ToLocationResponse converts a location to a response DTO
func ToLocationResponse(location *partner.Location) LocationResponse {
	return LocationResponse{
		ID:        location.ID,
		Code:      location.Code,
		Name:      location.Name,
		Address:   location.Address,
		City:      location.City,
		Phone:     location.Phone,
		Status:    string(location.Status),
		Notes:     location.Notes,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
		Version:   location.Version,
	}
}

// ToLocationResponses converts locations to response DTOs
func ToLocationResponses(locations []partner.Location) []LocationResponse {
	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToLocationResponse(&locations[i]))
	}
	return responses
}

// ToCentreResponse converts a centre to a response DTO
func ToCentreResponse(centre *partner.Centre) CentreResponse {
	return CentreResponse{
		ID:          centre.ID,
		Code:        centre.Code,
		Name:        centre.Name,
		Region:      centre.Region,
		ContactName: centre.ContactName,
		Phone:       centre.Phone,
		Status:      string(centre.Status),
		Notes:       centre.Notes,
		CreatedAt:   centre.CreatedAt,
		UpdatedAt:   centre.UpdatedAt,
		Version:     centre.Version,
	}
}

// ToCentreResponses converts centres to response DTOs
func ToCentreResponses(centres []partner.Centre) []CentreResponse {
	responses := make([]CentreResponse, 0, len(centres))
	for i := range centres {
		responses = append(responses, ToCentreResponse(&centres[i]))
	}
	return responses
}
