package shared

// shared types across the application

// Identity is the resolved caller of an authenticated request, built from the
// verified token and the mirrored user row.
type Identity struct {
	ID          string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	IsAdmin     bool   `json:"isAdmin"`
}
