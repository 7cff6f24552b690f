package directoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
	"github.com/google/uuid"
)

const (
	headerAuthToken = "X-Auth-Token"
	headerRequestID = "X-Request-Id"
)

// Client is the typed interface to the four backend collaborators: auth,
// clinics, reviews and admin.
type Client interface {
	Login(ctx context.Context, email, password string) (*entities.Session, error)
	Register(ctx context.Context, email, password, fullName string) (*entities.Session, error)
	Verify(ctx context.Context, token string) (*entities.User, error)

	ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error)
	GetClinic(ctx context.Context, id int) (*entities.Clinic, error)

	AddReview(ctx context.Context, token string, clinicID, rating int, text string) (*entities.Review, error)

	AdminList(ctx context.Context, token string) ([]entities.AdminClinic, error)
	AdminCreate(ctx context.Context, token string, input entities.ClinicInput) (int, error)
	AdminUpdate(ctx context.Context, token string, input entities.ClinicInput) error
	AdminDelete(ctx context.Context, token string, id int) error
}

// Endpoints holds the base URLs of the backend services.
type Endpoints struct {
	Auth    string
	Clinics string
	Reviews string
	Admin   string
}

type HTTPClient struct {
	endpoints  Endpoints
	httpClient *http.Client
}

func NewClient(endpoints Endpoints, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type authRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Token    string `json:"token,omitempty"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

type verifyResponse struct {
	User entities.User `json:"user"`
}

type reviewRequest struct {
	ClinicID   int    `json:"clinic_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type adminCreateResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type deleteRequest struct {
	ID int `json:"id"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*entities.Session, error) {
	out := &authResponse{}
	req := authRequest{Action: "login", Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Auth, "", req, out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.NewServerError("auth service returned no token")
	}
	return &entities.Session{Token: out.Token, User: out.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, fullName string) (*entities.Session, error) {
	out := &authResponse{}
	req := authRequest{Action: "register", Email: email, Password: password, FullName: fullName}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Auth, "", req, out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.NewServerError("auth service returned no token")
	}
	return &entities.Session{Token: out.Token, User: out.User}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (*entities.User, error) {
	out := &verifyResponse{}
	req := authRequest{Action: "verify", Token: token}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Auth, "", req, out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error) {
	parsed, err := url.Parse(c.endpoints.Clinics)
	if err != nil {
		return nil, apperrors.NewNetworkError("invalid clinics endpoint", err)
	}

	query := parsed.Query()
	if search != "" {
		query.Set("search", search)
	}
	if service != "" {
		query.Set("service", service)
	}
	parsed.RawQuery = query.Encode()

	var out []entities.Clinic
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetClinic(ctx context.Context, id int) (*entities.Clinic, error) {
	parsed, err := url.Parse(c.endpoints.Clinics)
	if err != nil {
		return nil, apperrors.NewNetworkError("invalid clinics endpoint", err)
	}

	query := parsed.Query()
	query.Set("clinic_id", strconv.Itoa(id))
	parsed.RawQuery = query.Encode()

	out := &entities.Clinic{}
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), "", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddReview(ctx context.Context, token string, clinicID, rating int, text string) (*entities.Review, error) {
	out := &entities.Review{}
	req := reviewRequest{ClinicID: clinicID, Rating: rating, ReviewText: text}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Reviews, token, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AdminList(ctx context.Context, token string) ([]entities.AdminClinic, error) {
	var out []entities.AdminClinic
	if err := c.doJSON(ctx, http.MethodGet, c.endpoints.Admin, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AdminCreate(ctx context.Context, token string, input entities.ClinicInput) (int, error) {
	out := &adminCreateResponse{}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Admin, token, input, out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) AdminUpdate(ctx context.Context, token string, input entities.ClinicInput) error {
	return c.doJSON(ctx, http.MethodPut, c.endpoints.Admin, token, input, nil)
}

func (c *HTTPClient) AdminDelete(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoints.Admin, token, deleteRequest{ID: id}, nil)
}

// doJSON performs one request and maps the outcome onto the error taxonomy:
// transport failures become NETWORK, non-2xx responses become
// UNAUTHENTICATED/FORBIDDEN/NOT_FOUND/SERVER by status with the
// server-provided message, and an unparsable 2xx body becomes SERVER.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("failed to encode request: %v", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperrors.NewNetworkError("failed to build request", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set(headerAuthToken, token)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set(headerRequestID, requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Str("request_id", requestID).
			Str("method", method).
			Str("endpoint", endpoint).
			Err(err).
			Msg("request failed")
		return apperrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := serverMessage(resp.Body, resp.StatusCode)
		observability.LoggerFromContext(ctx).Warn().
			Str("request_id", requestID).
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg(message)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.NewUnauthenticatedError(message)
		case http.StatusForbidden:
			return apperrors.NewForbiddenError(message)
		case http.StatusNotFound:
			return apperrors.NewNotFoundError(message)
		default:
			return apperrors.NewServerError(message)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewServerError(fmt.Sprintf("malformed response: %v", err))
	}
	return nil
}

// serverMessage extracts the {"error": ...} message from an error body.
func serverMessage(body io.Reader, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("service returned status %d", status)
}
