package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

// dateLayout is the wire format for calendar dates (dob, start_date).
const dateLayout = "2006-01-02"

// AuthProvider is the identity provider surface the auth service needs.
// *supabase.Client satisfies it; tests supply fakes.
type AuthProvider interface {
	SignUp(ctx context.Context, params supabase.SignUpParams) (*supabase.Session, error)
	SignInWithPassword(ctx context.Context, creds supabase.Credentials) (*supabase.Session, error)
	GetUser(ctx context.Context, token string) (*model.AuthUser, error)
}

// AuthService handles signup, login, and token validation.
type AuthService struct {
	provider AuthProvider
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider AuthProvider, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		provider: provider,
		metrics:  recorder,
	}
}

// SignUpInput defines input for registering a user.
type SignUpInput struct {
	Identifier string
	Password   string
	FullName   string
	Username   string
	DOB        string // ISO-8601 date, optional
}

// AuthResult is a successful signup or login.
type AuthResult struct {
	AccessToken string
	TokenType   string
	User        *model.AuthUser
}

// classifyIdentifier routes an identifier to the email or phone
// credential field. Anything containing "@" is treated as an email.
func classifyIdentifier(identifier, password string) supabase.Credentials {
	creds := supabase.Credentials{Password: password}
	if strings.Contains(identifier, "@") {
		creds.Email = identifier
	} else {
		creds.Phone = identifier
	}
	return creds
}

// nullable maps an empty string to nil so absent metadata fields are
// stored as null rather than empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// SignUp registers a user with the identity provider. Additional profile
// info (full name, username, dob, join date) is stored as user metadata.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, validationErrorf("identifier is required")
	}

	var dob any
	if input.DOB != "" {
		parsed, err := time.Parse(dateLayout, input.DOB)
		if err != nil {
			return nil, validationErrorf("dob must be a valid date in YYYY-MM-DD format")
		}
		dob = parsed.Format(dateLayout)
	}

	metadata := map[string]any{
		"full_name": nullable(input.FullName),
		"username":  nullable(input.Username),
		"dob":       dob,
		"joined":    time.Now().Format("Jan 2006"),
	}

	start := time.Now()
	session, err := s.provider.SignUp(ctx, supabase.SignUpParams{
		Credentials: classifyIdentifier(identifier, input.Password),
		Data:        metadata,
	})
	s.metrics.ObserveUpstreamDuration("auth.sign_up", time.Since(start))
	if err != nil {
		var upstream *supabase.Error
		if errors.As(err, &upstream) {
			s.metrics.IncSignup("rejected")
			return nil, &SignupRejectedError{Reason: upstream.Message}
		}
		return nil, err
	}

	if session.AccessToken == "" || session.User == nil {
		s.metrics.IncSignup("pending")
		return nil, ErrPendingVerification
	}

	s.metrics.IncSignup("success")
	return sessionResult(session), nil
}

// LogInInput defines input for a password login.
type LogInInput struct {
	Identifier string
	Password   string
}

// LogIn exchanges credentials for a session. Any provider rejection or
// missing session surfaces as ErrInvalidCredentials.
func (s *AuthService) LogIn(ctx context.Context, input LogInInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, validationErrorf("identifier is required")
	}

	start := time.Now()
	session, err := s.provider.SignInWithPassword(ctx, classifyIdentifier(identifier, input.Password))
	s.metrics.ObserveUpstreamDuration("auth.sign_in", time.Since(start))
	if err != nil {
		s.metrics.IncLogin("rejected")
		return nil, ErrInvalidCredentials
	}

	if session.AccessToken == "" || session.User == nil {
		s.metrics.IncLogin("rejected")
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin("success")
	return sessionResult(session), nil
}

// CurrentUser validates an access token against the identity provider
// and returns the normalized user it belongs to.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.AuthUser, error) {
	start := time.Now()
	user, err := s.provider.GetUser(ctx, token)
	s.metrics.ObserveUpstreamDuration("auth.get_user", time.Since(start))
	if err != nil || user == nil {
		s.metrics.IncTokenValidation("rejected")
		return nil, ErrUnauthenticated
	}

	s.metrics.IncTokenValidation("success")
	return user, nil
}

func sessionResult(session *supabase.Session) *AuthResult {
	tokenType := session.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return &AuthResult{
		AccessToken: session.AccessToken,
		TokenType:   tokenType,
		User:        session.User,
	}
}
