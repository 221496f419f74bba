package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/database"
	auditRepo "github.com/eprocure/lookups/internal/database/audit"
	"github.com/eprocure/lookups/internal/database/lookups"
	"github.com/eprocure/lookups/internal/entities"
	"github.com/eprocure/lookups/internal/options"
)

type testEnv struct {
	db     *database.Database
	audit  *audit.Service
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	country, _ := entities.LookupKind("country_option")
	currency, _ := entities.LookupKind("currency_option")
	kinds := []entities.Kind{country, currency}

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "lookups.db"), kinds)
	require.NoError(t, err)

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	t.Cleanup(func() {
		auditService.Wait()
		db.Close()
	})

	services := make([]OptionService, 0, len(kinds))
	for _, k := range kinds {
		services = append(services, options.NewService(k, lookups.NewRepository(db.DB, k)))
	}

	router := NewRouter(RouterConfig{
		Services:     services,
		Kinds:        kinds,
		Database:     db,
		AuditService: auditService,
		Version:      "test",
	})

	return &testEnv{db: db, audit: auditService, router: router}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeOption(t *testing.T, w *httptest.ResponseRecorder) OptionResponse {
	t.Helper()
	var out OptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeOptions(t *testing.T, w *httptest.ResponseRecorder) []OptionResponse {
	t.Helper()
	var out []OptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) create(t *testing.T, kind, id, name string) OptionResponse {
	t.Helper()
	w := e.do(t, "POST", "/api/"+kind+"/create/one", OptionRequest{ID: id, Name: name, Description: name + " desc"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeOption(t, w)
}

func TestOptions_CreateOne(t *testing.T) {
	env := newTestEnv(t)

	t.Run("generates an id when none is given", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/create/one", OptionRequest{Name: "Kenya"})
		require.Equal(t, http.StatusOK, w.Code)

		created := decodeOption(t, w)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Kenya", created.Name)
		assert.Nil(t, created.DeletedAt)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		created := env.create(t, "country_option", "C1", "Rwanda")
		assert.Equal(t, "C1", created.ID)
		assert.Equal(t, "Rwanda desc", created.Description)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/create/one", OptionRequest{Name: "Rwanda"})
		assert.Equal(t, http.StatusConflict, w.Code)
		msg := decodeMessage(t, w)
		assert.Equal(t, "Conflict", msg.Status)
		assert.Contains(t, msg.Message, "Rwanda")
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/create/one", map[string]string{"description": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/country_option/create/one", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOptions_CreateMany(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/currency_option/create/many", []OptionRequest{{Name: "USD"}, {Name: "EUR"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeOptions(t, w)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	t.Run("collision writes nothing", func(t *testing.T) {
		w := env.do(t, "POST", "/api/currency_option/create/many", []OptionRequest{{Name: "GBP"}, {Name: "USD"}})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = env.do(t, "GET", "/api/currency_option/read/all", nil)
		assert.Len(t, decodeOptions(t, w), 2)
	})

	t.Run("empty list is a bad request", func(t *testing.T) {
		w := env.do(t, "POST", "/api/currency_option/create/many", []OptionRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("element without name is rejected", func(t *testing.T) {
		w := env.do(t, "POST", "/api/currency_option/create/many", []map[string]string{{"description": "no name"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOptions_Read(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "country_option", "C1", "Rwanda")
	env.create(t, "country_option", "C2", "Uganda")
	env.create(t, "country_option", "C3", "Burundi")

	w := env.do(t, "PUT", "/api/country_option/soft/delete/one?id=C1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("read one", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/read/one?id=C2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Uganda", decodeOption(t, w).Name)
	})

	t.Run("read one soft deleted is not found", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/read/one?id=C1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("read one without id is a bad request", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/read/one", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("read many skips missing and deleted", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/read/many?id_list=C1,C2,missing", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decodeOptions(t, w)
		require.Len(t, list, 1)
		assert.Equal(t, "C2", list[0].ID)
	})

	t.Run("read many accepts repeated params", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/read/many?id_list=C2&id_list=C3", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeOptions(t, w), 2)
	})

	t.Run("read many with blank id is a bad request", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/read/many?id_list=C2,", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("read many without ids is a bad request", func(t *testing.T) {
		w := env.do(t, "POST", "/api/country_option/read/many", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("read all hides deleted rows", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/read/all", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeOptions(t, w), 2)
	})

	t.Run("hard read all shows deleted rows", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/read/hard/all", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decodeOptions(t, w)
		require.Len(t, list, 3)
		for _, o := range list {
			if o.ID == "C1" {
				assert.NotNil(t, o.DeletedAt)
			} else {
				assert.Nil(t, o.DeletedAt)
			}
		}
	})
}

func TestOptions_Update(t *testing.T) {
	env := newTestEnv(t)
	original := env.create(t, "country_option", "C1", "Rwanda")
	env.create(t, "country_option", "C2", "Uganda")

	t.Run("update one merges name and description", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/one", OptionRequest{ID: "C1", Name: "Republic of Rwanda"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decodeOption(t, w)
		assert.Equal(t, "Republic of Rwanda", updated.Name)
		assert.Empty(t, updated.Description)
		assert.True(t, original.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("update one unknown id", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/one", OptionRequest{ID: "nope", Name: "X"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update one without id", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/one", OptionRequest{Name: "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update many rolls back on failure", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/many", []OptionRequest{
			{ID: "C2", Name: "Uganda Updated"},
			{ID: "missing", Name: "Ghost"},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, "GET", "/api/country_option/read/one?id=C2", nil)
		assert.Equal(t, "Uganda", decodeOption(t, w).Name)
	})

	t.Run("update many", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/many", []OptionRequest{
			{ID: "C1", Name: "Rwanda", Description: "RW"},
			{ID: "C2", Name: "Uganda", Description: "UG"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, decodeOptions(t, w), 2)
	})

	t.Run("update soft deleted row is not found", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/soft/delete/one?id=C2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "PUT", "/api/country_option/update/one", OptionRequest{ID: "C2", Name: "Uganda"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hard update writes deleted rows verbatim", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/hard/one", HardOptionRequest{ID: "C2", Name: "Uganda", Description: "restored"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		saved := decodeOption(t, w)
		assert.Nil(t, saved.DeletedAt)
		assert.False(t, saved.CreatedAt.IsZero())

		w = env.do(t, "GET", "/api/country_option/read/one?id=C2", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hard update inserts unknown ids", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/hard/all", []HardOptionRequest{
			{ID: "C9", Name: "Tanzania"},
			{ID: "C1", Name: "Rwanda"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, "GET", "/api/country_option/read/one?id=C9", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hard update without id", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/update/hard/one", HardOptionRequest{Name: "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOptions_Delete(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		env.create(t, "country_option", id, "Country "+id)
	}
	env.create(t, "currency_option", "A", "Currency A")

	t.Run("soft delete one", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/soft/delete/one?id=A", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, decodeOption(t, w).DeletedAt)
	})

	t.Run("soft delete unknown id", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/soft/delete/one?id=zzz", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("soft delete many skips unknown ids", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/soft/delete/many?idList=B,zzz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decodeOptions(t, w)
		require.Len(t, list, 1)
		assert.Equal(t, "B", list[0].ID)
	})

	t.Run("soft delete many with nothing resolved", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/country_option/soft/delete/many?idList=x,y", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hard delete by path", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/hard/delete/C", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", decodeMessage(t, w).Status)
	})

	t.Run("hard delete by query wins over path", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/hard/delete/ignored?id=D", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/country_option/hard/delete?id=D", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hard delete soft deleted row", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/hard/delete?id=A", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hard delete many", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/hard/delete/many?idList=B,E,unknown", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/country_option/read/hard/all", nil)
		assert.Empty(t, decodeOptions(t, w))
	})

	t.Run("hard delete all only touches its kind", func(t *testing.T) {
		env.create(t, "country_option", "F", "Country F")

		w := env.do(t, "GET", "/api/country_option/hard/delete/all", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/country_option/read/hard/all", nil)
		assert.Empty(t, decodeOptions(t, w))

		w = env.do(t, "GET", "/api/currency_option/read/one?id=A", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptions_AuditTrail(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "country_option", "C1", "Rwanda")
	env.do(t, "PUT", "/api/country_option/soft/delete/one?id=C1", nil)
	env.do(t, "GET", "/api/country_option/read/all", nil)
	env.audit.Wait()

	w := env.do(t, "GET", "/api/audit?kind=country_option", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "soft_delete_one", page.Data[0].Action)

	w = env.do(t, "GET", "/api/audit/country_option/C1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "create_one")

	w = env.do(t, "GET", "/api/audit?kind=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type auditPage struct {
	Data  []entities.AuditEvent `json:"data"`
	Total int64                 `json:"total"`
}

func (e *testEnv) auditEvents(t *testing.T, query string) auditPage {
	t.Helper()
	e.audit.Wait()
	w := e.do(t, "GET", "/api/audit?"+query, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page auditPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestOptions_MutationsWhileAuditWrites(t *testing.T) {
	env := newTestEnv(t)

	// Each request leaves an audit insert running while the next one writes.
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("M%02d", i)
		w := env.do(t, "POST", "/api/country_option/create/one", OptionRequest{ID: id, Name: "Country " + id})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, "PUT", "/api/country_option/soft/delete/one?id="+id, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	page := env.auditEvents(t, "kind=country_option&limit=1")
	assert.Equal(t, int64(50), page.Total)
}

func TestOptions_HistoryIncludesBatchMutations(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/currency_option/create/many", []OptionRequest{{ID: "H1", Name: "USD"}, {ID: "H2", Name: "EUR"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, "PUT", "/api/currency_option/soft/delete/many?idList=H1,H2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.audit.Wait()

	w = env.do(t, "GET", "/api/audit/currency_option/H1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Events []entities.AuditEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history), w.Body.String())
	require.Len(t, history.Events, 2)
	assert.Equal(t, "create_many", history.Events[0].Action)
	assert.Equal(t, "soft_delete_many", history.Events[1].Action)

	w = env.do(t, "GET", "/api/audit/country_option/H1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Empty(t, history.Events)
}

func TestOptions_HardDeleteManyAuditsRemovedIDs(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "country_option", "K1", "Kenya")
	env.create(t, "country_option", "K2", "Uganda")

	w := env.do(t, "GET", "/api/country_option/hard/delete/many?idList=K1,ghost,K2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(decodeMessage(t, w).Message, "2 "), w.Body.String())

	page := env.auditEvents(t, "kind=country_option&type=hard_delete")
	require.Len(t, page.Data, 1)
	assert.Contains(t, page.Data[0].Metadata, `"K1"`)
	assert.Contains(t, page.Data[0].Metadata, `"K2"`)
	assert.NotContains(t, page.Data[0].Metadata, "ghost")

	t.Run("nothing removed is not audited", func(t *testing.T) {
		w := env.do(t, "GET", "/api/country_option/hard/delete/many?idList=ghost", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(decodeMessage(t, w).Message, "0 "))

		page := env.auditEvents(t, "kind=country_option&type=hard_delete")
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestKindsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/kinds", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Kinds []KindInfo `json:"kinds"`
		Count int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "/api/country_option", body.Kinds[0].RoutePrefix)
}

func TestUnmountedKindIsNotRouted(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/gender_option/read/all", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// failingService returns an infrastructure error from ReadAll and panics on
// anything it does not override.
type failingService struct {
	OptionService
	kind entities.Kind
}

func (f failingService) Kind() entities.Kind { return f.kind }

func (f failingService) ReadAll(ctx context.Context) ([]entities.Option, error) {
	return nil, errors.New("database is locked")
}

func TestOptions_InternalErrors(t *testing.T) {
	kind, _ := entities.LookupKind("gender_option")
	router := NewRouter(RouterConfig{
		Services: []OptionService{failingService{kind: kind}},
		Kinds:    []entities.Kind{kind},
	})

	t.Run("store failure is a 500 without details", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/gender_option/read/all", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		msg := decodeMessage(t, w)
		assert.Equal(t, "internal server error", msg.Message)
		assert.Equal(t, "Internal Server Error", msg.Status)
	})

	t.Run("panic is recovered into a 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/gender_option/read/hard/all", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
