package highlevel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordedRequest struct {
	method  string
	path    string
	query   map[string][]string
	auth    string
	version string
	ctype   string
	body    map[string]any
}

func newTestServer(t *testing.T, status int, respBody string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	got := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.auth = r.Header.Get("Authorization")
		got.version = r.Header.Get("Version")
		got.ctype = r.Header.Get("Content-Type")
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func testClient(srv *httptest.Server, obs Observer) *Client {
	return New(Config{BaseURL: srv.URL + "/", Version: "2021-07-28", Observer: obs}).WithToken("tok-123")
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []observed
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, observed{method, route, status})
}

func TestListCustomFieldsSendsHeadersAndQuery(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"customFields":[{"id":"f1","name":"Shoe size","dataType":"NUMERICAL","fieldKey":"contact.shoe_size","extra":"ignored"}]}`)
	obs := &fakeObserver{}

	out, err := testClient(srv, obs).ListCustomFields(context.Background(), "loc_1", "contact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.CustomFields) != 1 || out.CustomFields[0].FieldKey != "contact.shoe_size" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if got.method != http.MethodGet || got.path != "/locations/loc_1/customFields" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}
	if got.query["model"][0] != "contact" {
		t.Fatalf("expected model query, got %v", got.query)
	}
	if got.auth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", got.auth)
	}
	if got.version != "2021-07-28" {
		t.Fatalf("unexpected version header %q", got.version)
	}
	if got.ctype != "" {
		t.Fatalf("GET without body should not set Content-Type, got %q", got.ctype)
	}
	if len(obs.calls) != 1 || obs.calls[0] != (observed{http.MethodGet, routeLocationFields, 200}) {
		t.Fatalf("unexpected observations: %+v", obs.calls)
	}
}

func TestCreateCustomFieldPostsBody(t *testing.T) {
	srv, got := newTestServer(t, http.StatusCreated, `{"customField":{"id":"f9","name":"Favourite colour","dataType":"SINGLE_OPTIONS","picklistOptions":["red","blue"]}}`)

	field, err := testClient(srv, nil).CreateCustomField(context.Background(), "loc_1", CustomFieldInput{
		Name:     "Favourite colour",
		DataType: "SINGLE_OPTIONS",
		Model:    "contact",
		Options:  []string{"red", "blue"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.ID != "f9" || len(field.PicklistOptions) != 2 {
		t.Fatalf("unexpected field: %+v", field)
	}
	if got.method != http.MethodPost || got.ctype != "application/json" {
		t.Fatalf("unexpected request: %s ctype=%q", got.method, got.ctype)
	}
	if got.body["name"] != "Favourite colour" || got.body["dataType"] != "SINGLE_OPTIONS" {
		t.Fatalf("unexpected body: %v", got.body)
	}
	if _, ok := got.body["position"]; ok {
		t.Fatalf("unset optional fields must be omitted: %v", got.body)
	}
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"message":"duplicate fieldKey"}`)
	obs := &fakeObserver{}

	_, err := testClient(srv, obs).CreateCustomField(context.Background(), "loc_1", CustomFieldInput{Name: "x", DataType: "TEXT"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != 422 || apiErr.Status != "Unprocessable Entity" {
		t.Fatalf("unexpected status: %d %q", apiErr.StatusCode, apiErr.Status)
	}
	if apiErr.Body != `{"message":"duplicate fieldKey"}` {
		t.Fatalf("body not preserved: %q", apiErr.Body)
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "duplicate fieldKey") {
		t.Fatalf("unexpected error text: %s", err.Error())
	}
	if len(obs.calls) != 1 || obs.calls[0].status != 422 {
		t.Fatalf("unexpected observations: %+v", obs.calls)
	}
}

func TestDeleteTolerantOfEmptyBodyAndSpelling(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, ``)
	res, err := testClient(srv, nil).DeleteCustomValue(context.Background(), "loc_1", "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("empty 2xx body should count as success")
	}
	if got.method != http.MethodDelete || got.path != "/locations/loc_1/customValues/v1" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}

	srv2, _ := newTestServer(t, http.StatusOK, `{"succeded":false}`)
	res, err = testClient(srv2, nil).DeleteCustomField(context.Background(), "loc_1", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK() {
		t.Fatalf("expected succeded=false to be reported")
	}
}

func TestObjectFieldEndpoints(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"fields":[{"id":"of1","fieldKey":"custom_objects.pets.breed","objectKey":"custom_objects.pets","dataType":"TEXT"}],"folders":[{"id":"fd1","name":"Basics","objectKey":"custom_objects.pets"}]}`)

	out, err := testClient(srv, nil).ListObjectFields(context.Background(), "loc_1", "custom_objects.pets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Fields) != 1 || len(out.Folders) != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if got.path != "/custom-fields/object-key/custom_objects.pets" || got.query["locationId"][0] != "loc_1" {
		t.Fatalf("unexpected request: %s %v", got.path, got.query)
	}
}

func TestCreateFolderAndDeleteFolder(t *testing.T) {
	srv, got := newTestServer(t, http.StatusCreated, `{"id":"fd1","name":"Basics","objectKey":"custom_objects.pets","locationId":"loc_1"}`)

	folder, err := testClient(srv, nil).CreateFolder(context.Background(), FolderInput{LocationID: "loc_1", Name: "Basics", ObjectKey: "custom_objects.pets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if folder.ID != "fd1" || got.path != "/custom-fields/folder" || got.body["objectKey"] != "custom_objects.pets" {
		t.Fatalf("unexpected create: %+v %s %v", folder, got.path, got.body)
	}

	srv2, got2 := newTestServer(t, http.StatusOK, `{"succeded":true,"id":"fd1"}`)
	res, err := testClient(srv2, nil).DeleteFolder(context.Background(), "loc_1", "fd1")
	if err != nil || !res.OK() {
		t.Fatalf("unexpected delete: %+v %v", res, err)
	}
	if got2.path != "/custom-fields/folder/fd1" || got2.query["locationId"][0] != "loc_1" {
		t.Fatalf("unexpected delete request: %s %v", got2.path, got2.query)
	}
}

func TestRequiredIDsFailBeforeNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("server should not be called")
	}))
	t.Cleanup(srv.Close)
	c := testClient(srv, nil)
	ctx := context.Background()

	if _, err := c.GetCustomField(ctx, "loc_1", " "); err == nil {
		t.Fatalf("expected error for empty field id")
	}
	if _, err := c.ListCustomValues(ctx, ""); err == nil {
		t.Fatalf("expected error for empty location id")
	}
	if _, err := c.CreateFolder(ctx, FolderInput{LocationID: "loc_1", Name: "x"}); err == nil {
		t.Fatalf("expected error for empty object key")
	}
}

func TestDoWithoutVersionOmitsHeader(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"ok":true}`)

	var out map[string]any
	err := testClient(srv, nil).Do(context.Background(), Request{Method: http.MethodGet, Path: "/ping"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.version != "" {
		t.Fatalf("expected no Version header, got %q", got.version)
	}
	if out["ok"] != true {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestDoTransportErrorObserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &fakeObserver{}
	c := New(Config{BaseURL: url, Observer: obs}).WithToken("t")
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError")
	}
	if len(obs.calls) != 1 || obs.calls[0].status != 0 {
		t.Fatalf("unexpected observations: %+v", obs.calls)
	}
}
