package dto

type ListUsersQuery struct {
	UserType string `query:"userType" validate:"omitempty,oneof=customer service_provider admin"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
	Offset   int    `query:"offset" validate:"gte=0"`
}

type SetSettingRequest struct {
	Value string `json:"value" validate:"required"`
	Type  string `json:"type" validate:"omitempty,oneof=string bool int float json"`
}
