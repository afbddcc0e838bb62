package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/medireminder/medireminder/internal/model"
)

// Credentials identify a user by exactly one of email or phone.
type Credentials struct {
	Email    string
	Phone    string
	Password string
}

// SignUpParams carries credentials plus metadata stored on the new user.
type SignUpParams struct {
	Credentials
	Data map[string]any
}

// Session is the result of a sign-up or sign-in call. AccessToken is
// empty when the provider created the user but requires email/phone
// verification before issuing a session.
type Session struct {
	AccessToken string
	TokenType   string
	User        *model.AuthUser
}

// rawUser mirrors the provider's user object.
type rawUser struct {
	ID           any            `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// normalize converts the provider's user object into the one internal
// representation. The id is stringified regardless of its wire type and
// metadata defaults to an empty map.
func (u *rawUser) normalize() *model.AuthUser {
	if u == nil || u.ID == nil {
		return nil
	}
	metadata := u.UserMetadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &model.AuthUser{
		ID:           fmt.Sprint(u.ID),
		Email:        u.Email,
		Phone:        u.Phone,
		UserMetadata: metadata,
	}
}

// authPayload covers both response shapes the auth API produces: a full
// session with a nested user, or a bare user object at the top level when
// verification is still pending.
type authPayload struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        json.RawMessage `json:"user"`

	rawUser
}

// session normalizes the payload into a Session.
func (p *authPayload) session() (*Session, error) {
	user := &p.rawUser
	if len(p.User) > 0 {
		nested := &rawUser{}
		if err := json.Unmarshal(p.User, nested); err != nil {
			return nil, fmt.Errorf("decode user object: %w", err)
		}
		user = nested
	}
	return &Session{
		AccessToken: p.AccessToken,
		TokenType:   p.TokenType,
		User:        user.normalize(),
	}, nil
}

// credentialsBody builds the request body for auth calls, keyed by email
// or phone depending on which credential is set.
func credentialsBody(creds Credentials) map[string]any {
	body := map[string]any{"password": creds.Password}
	if creds.Email != "" {
		body["email"] = creds.Email
	} else {
		body["phone"] = creds.Phone
	}
	return body
}

// SignUp registers a new user with the identity provider.
func (c *Client) SignUp(ctx context.Context, params SignUpParams) (*Session, error) {
	body := credentialsBody(params.Credentials)
	if params.Data != nil {
		body["data"] = params.Data
	}

	payload := &authPayload{}
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   body,
	}, payload); err != nil {
		return nil, err
	}
	return payload.session()
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	payload := &authPayload{}
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  query,
		body:   credentialsBody(creds),
	}, payload); err != nil {
		return nil, err
	}
	return payload.session()
}

// GetUser validates an access token and returns the user it belongs to.
// Returns nil without error only if the provider responds with an empty
// user object.
func (c *Client) GetUser(ctx context.Context, token string) (*model.AuthUser, error) {
	raw := &rawUser{}
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: token,
	}, raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}
