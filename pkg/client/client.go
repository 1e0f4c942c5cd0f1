// Package client es el SDK del panel de ventas para hablar con la API HTTP.
//
// Una Session guarda el token del usuario y avisa a sus suscriptores cuando cambia;
// Client la recibe explícitamente y adjunta el Bearer token en cada llamada.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Errores del cliente.
var (
	ErrConnectivity = errors.New("client: servidor no disponible")
	ErrNotSignedIn  = errors.New("client: sesión no iniciada")
)

const maxResponseBytes = 4 << 20

// APIError respuesta de error de la API ({code, message}).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode indica si err es un APIError con el código dado (ej: "INSUFFICIENT_STOCK").
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Option configura el transporte HTTP.
type Option func(*transport)

// WithHTTPClient reemplaza el http.Client por defecto (timeout de 15 s).
func WithHTTPClient(hc *http.Client) Option {
	return func(t *transport) { t.http = hc }
}

type transport struct {
	baseURL string
	http    *http.Client
}

func newTransport(baseURL string, opts ...Option) *transport {
	t := &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// do envía in como JSON y decodifica la respuesta en out. Los fallos de red envuelven ErrConnectivity.
func (t *transport) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: crear HTTP request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrConnectivity, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrConnectivity, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if apiErr.Code == "" {
			apiErr.Code = strings.ToUpper(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("%w: %w", ErrConnectivity, apiErr)
		}
		return apiErr
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("client: decodificar respuesta: %w", err)
		}
	}
	return nil
}

// Client llamadas autenticadas a la API. Toma el token de la Session en cada petición.
type Client struct {
	t       *transport
	session *Session
}

// New construye el cliente sobre la sesión dada.
func New(session *Session) *Client {
	return &Client{t: session.t, session: session}
}

// Ping consulta /health. Solo sirve como indicador: cualquier error cuenta como false.
func (c *Client) Ping(ctx context.Context) bool {
	return c.t.do(ctx, http.MethodGet, "/health", "", nil, nil) == nil
}

func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	token := c.session.Token()
	if token == "" {
		return ErrNotSignedIn
	}
	err := c.t.do(ctx, method, path, token, in, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		// Token vencido o revocado: la sesión deja de ser válida.
		c.session.clear()
	}
	return err
}

// ListProducts devuelve el catálogo.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.authed(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct obtiene un producto.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.authed(ctx, http.MethodGet, "/api/products/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct crea un producto y devuelve la entidad guardada.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var out Product
	if err := c.authed(ctx, http.MethodPost, "/api/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct aplica el patch y devuelve la entidad actualizada.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	var out Product
	if err := c.authed(ctx, http.MethodPut, "/api/products/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct elimina un producto.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}
