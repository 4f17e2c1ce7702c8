package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-owners/internal/domain/pets"

	"github.com/juju/errors"
)

const DefaultTimeout = 10 * time.Second

// Owner y Pet son las representaciones JSON que expone la API.
type Owner struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Pet struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Owner  Owner       `json:"owner"`
	Health pets.Health `json:"health"`
}

// APIError representa una respuesta no-2xx.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("owners api: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("owners api: status=%d body=%s", e.StatusCode, e.Body)
}

// Client habla con /owners. Sirve para tests end-to-end y para scripts.
type Client struct {
	http    *http.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.Annotatef(err, "invalid base url %q", baseURL)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (c *Client) Owners(ctx context.Context) ([]Owner, error) {
	var out []Owner
	err := c.doJSON(ctx, http.MethodGet, "/owners", nil, &out)
	return out, err
}

func (c *Client) AddOwner(ctx context.Context, o Owner) (Owner, error) {
	var out Owner
	err := c.doJSON(ctx, http.MethodPost, "/owners", o, &out)
	return out, err
}

// Pets lista las mascotas del owner; health nil => sin filtro.
func (c *Client) Pets(ctx context.Context, owner string, health *pets.Health) ([]Pet, error) {
	path := "/owners/" + url.PathEscape(owner) + "/pets"
	if health != nil {
		path += "?" + url.Values{"health": {string(*health)}}.Encode()
	}

	var out []Pet
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Pet(ctx context.Context, owner, pet string) (Pet, error) {
	var out Pet
	err := c.doJSON(ctx, http.MethodGet, "/owners/"+url.PathEscape(owner)+"/pets/"+url.PathEscape(pet), nil, &out)
	return out, err
}

func (c *Client) CreatePet(ctx context.Context, owner, name string, health pets.Health) (Pet, error) {
	in := map[string]string{"name": name}
	if health != "" {
		in["health"] = string(health)
	}

	var out Pet
	err := c.doJSON(ctx, http.MethodPost, "/owners/"+url.PathEscape(owner)+"/pets", in, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Annotate(err, "marshal json")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Annotate(err, "new request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Annotatef(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	// 1MB max
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Annotate(err, "unmarshal json")
	}
	return nil
}
