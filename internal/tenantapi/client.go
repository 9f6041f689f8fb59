package tenantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"pangea-go-server/internal/models"
)

// SessionStore supplies the bearer token for authenticated calls and is
// told to drop the session when the server answers 401. Token storage
// itself lives outside this service.
type SessionStore interface {
	Token() string
	Clear()
}

// Client talks to the Pangea tenant API.
type Client struct {
	BaseURL      string
	TenantAPIKey string
	session      SessionStore
	httpClient   *http.Client
}

func NewClient(baseURL, tenantAPIKey string, session SessionStore) *Client {
	return &Client{
		BaseURL:      baseURL,
		TenantAPIKey: tenantAPIKey,
		session:      session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest executes one API call and returns the raw body of a 2xx
// response. Non-2xx maps to StatusError; 401 additionally clears the
// session.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.BaseURL, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.TenantAPIKey != "" {
		req.Header.Set("X-Tenant-API-Key", c.TenantAPIKey)
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// The connection died mid-body; the partial read is useless.
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
			log.Println("[Pangea API] 401 received - clearing session")
			c.session.Clear()
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}

type countriesResponse struct {
	Data []models.Country `json:"data"`
}

// GetCountries fetches the entire country catalog, always unfiltered.
// Geography and search filtering happen client-side.
func (c *Client) GetCountries(ctx context.Context) ([]models.Country, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "countries", nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[countriesResponse](body)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type packagesResponse struct {
	Data []models.Package `json:"data"`
}

// GetPackages fetches package listings for one country.
func (c *Client) GetPackages(ctx context.Context, countryName string) ([]models.Package, error) {
	query := url.Values{"country": {countryName}}
	body, err := c.doRequest(ctx, http.MethodGet, "tenant/packages", query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[packagesResponse](body)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetPackage looks up a single package by id, filtered server-side.
// Returns nil when nothing matches.
func (c *Client) GetPackage(ctx context.Context, packageID string) (*models.Package, error) {
	query := url.Values{"package_id": {packageID}}
	body, err := c.doRequest(ctx, http.MethodGet, "tenant/packages", query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[packagesResponse](body)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

type esimsResponse struct {
	Data []esimDTO `json:"data"`
}

// GetESims fetches the authenticated user's eSIM inventory.
func (c *Client) GetESims(ctx context.Context) ([]models.ESim, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "esims", nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[esimsResponse](body)
	if err != nil {
		return nil, err
	}
	esims := make([]models.ESim, 0, len(resp.Data))
	for _, dto := range resp.Data {
		esims = append(esims, dto.toDomain())
	}
	return esims, nil
}

type activateRequest struct {
	ESimID string `json:"esim_id"`
}

type activateResponse struct {
	Success bool    `json:"success"`
	ESim    esimDTO `json:"esim"`
}

// ActivateESim triggers server-side activation. No local state is
// invented: the returned record is whatever the server reports.
func (c *Client) ActivateESim(ctx context.Context, esimID string) (models.ESim, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "esim/activate", nil, activateRequest{ESimID: esimID})
	if err != nil {
		return models.ESim{}, err
	}
	resp, err := decode[activateResponse](body)
	if err != nil {
		return models.ESim{}, err
	}
	return resp.ESim.toDomain(), nil
}

// GetUsage fetches live usage for one eSIM.
func (c *Client) GetUsage(ctx context.Context, esimID string) (models.ESimUsage, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "esim/usage/"+url.PathEscape(esimID), nil, nil)
	if err != nil {
		return models.ESimUsage{}, err
	}
	return decode[models.ESimUsage](body)
}
