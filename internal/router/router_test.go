package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-owners/internal/client"
	"pet-owners/internal/domain/owners"
	"pet-owners/internal/domain/pets"
	"pet-owners/internal/router"

	"go.uber.org/zap/zaptest"
)

func flintstones() []owners.Configuration {
	return []owners.Configuration{
		{Name: "Fred", Age: 35, Pets: []string{"Dino"}},
		{Name: "Barney", Age: 30, Pets: []string{"Rex"}},
	}
}

func newServer(t *testing.T, opts router.Options) (*router.App, *httptest.Server, *client.Client) {
	t.Helper()

	if opts.Owners == nil {
		opts.Owners = flintstones()
	}
	opts.Logger = zaptest.NewLogger(t)

	app, err := router.New(opts)
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	ts := httptest.NewServer(app)
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, 0)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return app, ts, c
}

func TestHTTP_Owners_ListAndAdd(t *testing.T) {
	_, ts, c := newServer(t, router.Options{})
	ctx := context.Background()

	list, err := c.Owners(ctx)
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Fred" || list[1].Name != "Barney" {
		t.Fatalf("unexpected owners: %#v", list)
	}

	added, err := c.AddOwner(ctx, client.Owner{Name: "Wilma", Age: 33})
	if err != nil {
		t.Fatalf("add owner: %v", err)
	}
	if added.Name != "Wilma" || added.Age != 33 {
		t.Fatalf("expected echo of Wilma, got %#v", added)
	}

	list, _ = c.Owners(ctx)
	if len(list) != 3 {
		t.Fatalf("expected 3 owners after add, got %#v", list)
	}

	{
		st, _ := doReq(t, ts.URL, "POST", "/owners", "{not json")
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid json, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/owners", map[string]any{"name": "", "age": 3})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty name, got %d", st)
		}
	}
}

func TestHTTP_Pets_HealthFilter(t *testing.T) {
	_, ts, c := newServer(t, router.Options{})
	ctx := context.Background()

	vaccinated := pets.HealthVaccinated
	got, err := c.Pets(ctx, "Barney", &vaccinated)
	if err != nil {
		t.Fatalf("get pets: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rex" {
		t.Fatalf("expected [Rex], got %#v", got)
	}

	pending := pets.HealthRequiresVaccination
	got, err = c.Pets(ctx, "Barney", &pending)
	if err != nil {
		t.Fatalf("get pets: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no pets requiring vaccination, got %#v", got)
	}

	got, err = c.Pets(ctx, "Barney", nil)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 pet without filter, got %#v err=%v", got, err)
	}

	got, err = c.Pets(ctx, "NoOne", nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list for unknown owner, got %#v err=%v", got, err)
	}

	st, _ := doReq(t, ts.URL, "GET", "/owners/Barney/pets?health=SICK", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown health, got %d", st)
	}
}

func TestHTTP_GetPet(t *testing.T) {
	_, ts, c := newServer(t, router.Options{})
	ctx := context.Background()

	p, err := c.Pet(ctx, "Barney", "Rex")
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if p.ID == "" || p.Owner.Name != "Barney" || p.Owner.Age != 30 || p.Health != pets.HealthVaccinated {
		t.Fatalf("unexpected pet: %#v", p)
	}

	_, err = c.Pet(ctx, "NoOne", "Rex")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}

	// el owner se serializa plano, sin pets anidados
	_, body := doReq(t, ts.URL, "GET", "/owners/Barney/pets/Rex", nil)
	var raw map[string]json.RawMessage
	_ = json.Unmarshal(body, &raw)
	if strings.Contains(string(raw["owner"]), "pets") {
		t.Fatalf("owner must not embed pets: %s", raw["owner"])
	}
}

func TestHTTP_CreateAndPatchPet(t *testing.T) {
	_, ts, c := newServer(t, router.Options{})
	ctx := context.Background()

	created, err := c.CreatePet(ctx, "Fred", "Baby Puss", pets.HealthRequiresVaccination)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	got, err := c.Pet(ctx, "Fred", "Baby Puss")
	if err != nil {
		t.Fatalf("get created pet: %v", err)
	}
	if got != created {
		t.Fatalf("round-trip mismatch: created=%#v got=%#v", created, got)
	}

	{
		st, body := doReq(t, ts.URL, "PATCH", "/owners/Fred/pets/Baby%20Puss", map[string]any{"health": "VACCINATED"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
	}
	vaccinated := pets.HealthVaccinated
	list, _ := c.Pets(ctx, "Fred", &vaccinated)
	if len(list) != 2 {
		t.Fatalf("expected Dino and Baby Puss vaccinated, got %#v", list)
	}

	{
		st, _ := doReq(t, ts.URL, "PATCH", "/owners/Fred/pets/Ghost", map[string]any{"health": "VACCINATED"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 patching unknown pet, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/owners/Fred/pets/Dino", map[string]any{"color": "orange"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", st)
		}
	}

	_, err = c.CreatePet(ctx, "Nobody", "X", "")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown owner, got %v", err)
	}
}

func TestHTTP_PetNamesWithSlash(t *testing.T) {
	_, ts, c := newServer(t, router.Options{})
	ctx := context.Background()

	if _, err := c.CreatePet(ctx, "Fred", "A/B", ""); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	got, err := c.Pet(ctx, "Fred", "A/B")
	if err != nil {
		t.Fatalf("get pet with slash: %v", err)
	}
	if got.Name != "A/B" || got.Owner.Name != "Fred" {
		t.Fatalf("unexpected pet: %#v", got)
	}

	{
		st, body := doReq(t, ts.URL, "PATCH", "/owners/Fred/pets/A%2FB", map[string]any{"health": "REQUIRES_VACCINATION"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
	}

	if _, err := c.AddOwner(ctx, client.Owner{Name: "AC/DC", Age: 50}); err != nil {
		t.Fatalf("add owner: %v", err)
	}
	if _, err := c.CreatePet(ctx, "AC/DC", "Bon", ""); err != nil {
		t.Fatalf("create pet for owner with slash: %v", err)
	}
	list, err := c.Pets(ctx, "AC/DC", nil)
	if err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Bon" || list[0].Owner.Name != "AC/DC" {
		t.Fatalf("unexpected pets: %#v", list)
	}
	if _, err := c.Pet(ctx, "AC/DC", "Bon"); err != nil {
		t.Fatalf("get pet of owner with slash: %v", err)
	}

	// Sin %2F el path no llega crudo: "50%" no debe decodificarse dos veces.
	if _, err := c.CreatePet(ctx, "Fred", "50%", ""); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if _, err := c.Pet(ctx, "Fred", "50%"); err != nil {
		t.Fatalf("get pet with percent: %v", err)
	}
}

func TestApp_ServicesAreSingletons(t *testing.T) {
	app, _, c := newServer(t, router.Options{})

	if app.OwnerService() != app.OwnerService() {
		t.Fatalf("expected the same owners service instance")
	}
	if app.PetService() != app.PetService() {
		t.Fatalf("expected the same pets service instance")
	}

	// Lo que se agrega vía la instancia se ve por HTTP: es la misma que usan los handlers.
	if _, err := app.OwnerService().AddOwner(context.Background(), owners.Owner{Name: "Wilma", Age: 33}); err != nil {
		t.Fatalf("add owner: %v", err)
	}
	list, err := c.Owners(context.Background())
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if len(list) != 3 || list[2].Name != "Wilma" {
		t.Fatalf("expected Wilma visible over HTTP, got %#v", list)
	}
}

func TestApp_SQLiteStore(t *testing.T) {
	_, _, c := newServer(t, router.Options{Driver: "sqlite", DSN: ":memory:"})
	ctx := context.Background()

	vaccinated := pets.HealthVaccinated
	got, err := c.Pets(ctx, "Barney", &vaccinated)
	if err != nil {
		t.Fatalf("get pets: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rex" || got[0].Owner.Age != 30 {
		t.Fatalf("expected [Rex] from sqlite store, got %#v", got)
	}

	if _, err := c.CreatePet(ctx, "Barney", "Hoppy", ""); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	all, _ := c.Pets(ctx, "Barney", nil)
	if len(all) != 2 || all[0].Name != "Hoppy" {
		t.Fatalf("expected [Hoppy Rex], got %#v", all)
	}
}

func TestApp_UnknownDriver(t *testing.T) {
	if _, err := router.New(router.Options{Driver: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestHTTP_HealthAndSwagger(t *testing.T) {
	_, ts, _ := newServer(t, router.Options{})

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 swagger doc, got %d", st)
	}
	if !strings.Contains(string(body), "/owners/{owner}/pets") {
		t.Fatalf("swagger doc missing pets route: %s", string(body))
	}
}

// body: nil, string crudo o algo serializable a JSON.
func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
