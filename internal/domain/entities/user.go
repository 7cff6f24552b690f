package entities

// User represents an authenticated account.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

// Session is the authenticated identity held by the application. The token
// is an opaque credential; the client never inspects it.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
