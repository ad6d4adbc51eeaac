package todosdk

import "time"

// TokenRequest is the JSON body for POST /auth/token.
type TokenRequest struct {
	// GrantType selects the OAuth2 grant: "password" or
	// "client_credentials".
	GrantType string `json:"grant_type"`

	// ClientID identifies the OAuth2 client registered with the identity
	// provider.
	ClientID string `json:"client_id"`

	// ClientSecret is required for confidential clients.
	ClientSecret string `json:"client_secret,omitempty"`

	// Username and Password are required for the password grant and
	// ignored otherwise.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// RefreshRequest is the JSON body for POST /auth/refresh.
type RefreshRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	RefreshToken string `json:"refresh_token"`
}

// RevokeRequest is the JSON body for POST /auth/revoke.
type RevokeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Token        string `json:"token"`
}

// TokenResponse is the token pair minted by the identity provider,
// relayed verbatim by the service.
type TokenResponse struct {
	// AccessToken is the JWT used to authenticate todo API requests.
	AccessToken string `json:"access_token"`

	// RefreshToken obtains new access tokens via POST /auth/refresh.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	Scope string `json:"scope,omitempty"`
}

// Todo is a single to-do record as served by the API.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
}

// TodoRequest is the JSON body for creating or replacing a record.
type TodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"is_completed"`
}

// ErrorResponse is the standard JSON error body. Used internally for
// parsing; client code receives *APIError instead.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports the state of the service's critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// HealthResponse is the body of the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
