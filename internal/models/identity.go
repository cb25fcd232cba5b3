package models

// Identity is the authenticated actor carried by the session cookie.
// A nil *Identity means the request is anonymous.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Owns reports whether the identity authored a record stamped with username.
func (i *Identity) Owns(username string) bool {
	return i != nil && i.Username == username
}
