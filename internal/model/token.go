package model

// TokenPayload holds the identity claims carried by an access token.
// ID is absent from tokens issued before user ids were embedded.
type TokenPayload struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
}

// NewTokenPayload builds the claims for u.
func NewTokenPayload(u *User) TokenPayload {
	return TokenPayload{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
	}
}

// WellFormed reports whether every claim needed to identify a user is present.
func (p TokenPayload) WellFormed() bool {
	return p.Name != "" && p.Surname != "" && p.Email != ""
}
