package domain

// Storage keys of the persisted client state. Every store keeps exactly these
// three entries per session.
const (
	KeyAuthToken    = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Session is the persisted authentication state of one client.
type Session struct {
	AccessToken  string `json:"auth_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
	RememberMe   bool   `json:"-"`
}

// Credentials are what the login form submits.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// AuthResult is the outcome of a successful login or refresh.
type AuthResult struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // milliseconds, as issued by the backend
}
