package jwt

// Payload carried by a login token. The identity provider signs it with
// the shared session secret; we only trust what verifies.
type Payload struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IssuedAt int64  `json:"iat"`
}
