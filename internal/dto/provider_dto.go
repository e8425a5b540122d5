package dto

type UpdateCommissionRequest struct {
	CommissionRate *float64 `json:"commissionRate" validate:"required,gte=0,lte=100"`
}

type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
