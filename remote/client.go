package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/models"
)

// Client talks to the system of record. It is intentionally dumb: no
// retries, no backoff — a failed call surfaces immediately and retry is a
// user-initiated new attempt.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:   config.RemoteBaseURL(),
		apiKey:    config.RemoteAPIKey(),
		apiKeyHdr: config.RemoteAPIKeyHeader(),
		http:      &http.Client{Timeout: config.RemoteTimeout()},
	}
}

// NewClientWithBaseURL exists for tests standing up httptest servers.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any, dest any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHdr, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// decodeError distinguishes a structured rejection from an opaque one.
// A parseable body with code "insufficient_stock" becomes a typed error;
// everything else collapses into APIError.
func decodeError(status int, raw []byte) error {
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Code == codeInsufficientStock {
			return &InsufficientStockError{Items: parsed.Items}
		}
		if parsed.Message != "" {
			return &APIError{Status: status, Message: parsed.Message}
		}
		if parsed.Error != "" {
			return &APIError{Status: status, Message: parsed.Error}
		}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
}

func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

/* authentication */

func (c *Client) Login(ctx context.Context, login, password string) (*models.Principal, error) {
	var principal models.Principal
	payload := map[string]string{"login": login, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, payload, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

/* catalog items */

func itemPath(itemType models.ItemType) string {
	if itemType == models.ItemTypeDevice {
		return "/devices"
	}
	return "/medicines"
}

// ListItems reads the authoritative catalog for one location. An empty
// branchId means the central warehouse.
func (c *Client) ListItems(ctx context.Context, itemType models.ItemType, branchId string) ([]models.CatalogItem, error) {
	params := url.Values{}
	if branchId != "" {
		params.Set("branch_id", branchId)
	}
	var items []models.CatalogItem
	if err := c.do(ctx, http.MethodGet, itemPath(itemType), params, nil, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Type == "" {
			items[i].Type = itemType
		}
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, input models.NewCatalogItem) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := c.do(ctx, http.MethodPost, itemPath(input.Type), nil, input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemType models.ItemType, id string, input models.NewCatalogItem) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := c.do(ctx, http.MethodPut, itemPath(itemType)+"/"+id, nil, input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, itemType models.ItemType, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(itemType)+"/"+id, nil, nil, nil)
}

/* intake */

// SubmitIntake posts one aggregated batch for one collaborator.
func (c *Client) SubmitIntake(ctx context.Context, itemType models.ItemType, req IntakeRequest) error {
	return c.do(ctx, http.MethodPost, itemPath(itemType)+"/receive", nil, req, nil)
}

/* dispensing */

func (c *Client) SubmitDispense(ctx context.Context, req DispenseRequest) error {
	return c.do(ctx, http.MethodPost, "/dispensings", nil, req, nil)
}

/* shipments */

func (c *Client) ListShipments(ctx context.Context, branchId string) ([]models.Shipment, error) {
	params := url.Values{}
	if branchId != "" {
		params.Set("branch_id", branchId)
	}
	var shipments []models.Shipment
	if err := c.do(ctx, http.MethodGet, "/shipments", params, nil, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

func (c *Client) CreateShipment(ctx context.Context, input models.NewShipment) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := c.do(ctx, http.MethodPost, "/shipments", nil, input, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

type ShipmentAction string

const (
	ShipmentActionAccept ShipmentAction = "accept"
	ShipmentActionReject ShipmentAction = "reject"
	ShipmentActionCancel ShipmentAction = "cancel"
	ShipmentActionRetry  ShipmentAction = "retry"
)

// ApplyShipmentAction invokes one of the remote action endpoints. The
// reason is only meaningful for reject; other actions ignore it.
func (c *Client) ApplyShipmentAction(ctx context.Context, id string, action ShipmentAction, reason string) error {
	var payload any
	if action == ShipmentActionReject {
		payload = map[string]string{"reason": reason}
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/shipments/%s/%s", id, action), nil, payload, nil)
}
