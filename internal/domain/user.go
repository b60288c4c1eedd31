package domain

// User запись пользователя. ID назначает хранилище при создании
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
}

// UserPatch частичное обновление: nil означает "поле не передано"
type UserPatch struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
}

func NewUser(firstName, lastName string, isActive bool) *User {
	return &User{
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  isActive,
	}
}

// IsEmpty reports whether the patch carries no fields.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.IsActive == nil
}

// Apply replaces the fields present in the patch.
func (u *User) Apply(p UserPatch) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}
