package dto

import "users-service/internal/domain"

// UserResponse внешнее представление пользователя.
// Отдаем только эти четыре поля; незаполненные поля опускаются.
type UserResponse struct {
	ID        *int64  `json:"id,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

func NewUserResponse(u *domain.User) UserResponse {
	id, firstName, lastName, isActive := u.ID, u.FirstName, u.LastName, u.IsActive
	return UserResponse{
		ID:        &id,
		FirstName: &firstName,
		LastName:  &lastName,
		IsActive:  &isActive,
	}
}

// NewPartialUserResponse projects a partial record. A zero id is treated as unset.
func NewPartialUserResponse(id int64, p domain.UserPatch) UserResponse {
	resp := UserResponse{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		IsActive:  p.IsActive,
	}
	if id != 0 {
		resp.ID = &id
	}
	return resp
}

// NewUserResponses never returns nil so an empty list encodes as [].
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = NewUserResponse(&users[i])
	}
	return out
}
