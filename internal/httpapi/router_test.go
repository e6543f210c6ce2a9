package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sidequest/internal/app"
	"sidequest/internal/card"
	"sidequest/internal/persist"
	"sidequest/internal/random"
	"sidequest/internal/store/storetest"
	"sidequest/internal/templates"
	"sidequest/internal/undo"
)

const testSecret = "test-secret"

type testAPI struct {
	router *gin.Engine
	auth   *Authenticator
	mem    *storetest.Memory
	clock  *undo.ManualClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	set, err := templates.Load(context.Background(), "../templates/testdata/quests.json", "../templates/testdata/npcs.json")
	if err != nil {
		t.Fatalf("templates.Load() error = %v", err)
	}
	auth, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	mem := storetest.NewMemory()
	clock := undo.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	gw := persist.New(mem, time.Second)
	sessions := NewSessions(func(identity string) *app.App {
		return app.New(app.Options{
			Templates: set,
			Selector:  random.New(rand.NewSource(3)),
			Gateway:   gw,
			Identity:  identity,
			Clock:     clock,
		})
	})
	router := NewRouter(RouterConfig{
		Sessions:       sessions,
		Auth:           auth,
		Templates:      set,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testAPI{router: router, auth: auth, mem: mem, clock: clock}
}

func (api *testAPI) do(t *testing.T, method, path, identity, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != "" {
		token, err := api.auth.IssueToken(identity, time.Hour)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthcheck(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthcheck", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestThemes(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/themes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decode[struct {
		Themes []themeInfo `json:"themes"`
	}](t, rec)
	if len(out.Themes) != 2 || out.Themes[0].Name != "fantasy" || len(out.Themes[0].QuestTypes) != 2 {
		t.Fatalf("unexpected themes: %+v", out)
	}
}

func TestAuth(t *testing.T) {
	api := newTestAPI(t)

	t.Run("missing token", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/quests/generate", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewAuthenticator("other-secret")
		token, _ := other.IssueToken("gm-1", time.Hour)
		req := httptest.NewRequest(http.MethodPost, "/api/quests/generate", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := api.auth.IssueToken("gm-1", -time.Minute)
		if _, err := api.auth.Identity(token); err == nil {
			t.Fatal("expected error for expired token")
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		if _, err := NewAuthenticator("  "); err != ErrNoSecret {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/quests/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestGenerateAndExport(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/quests/generate", "gm-1", `{"theme":"fantasy","type":"bounty"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}
	view := decode[card.View](t, rec)
	if view.Title != "Bounty Quest" || len(view.Rows) != 2 {
		t.Fatalf("unexpected card: %+v", view)
	}

	rec = api.do(t, http.MethodGet, "/api/cards/"+view.ID+"/export", "gm-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected export status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="bounty_quest.txt"` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type: %q", rec.Header().Get("Content-Type"))
	}

	rec = api.do(t, http.MethodGet, "/api/cards/"+view.ID, "gm-2", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other identity saw the card: %d", rec.Code)
	}
}

func TestGenerateUnknownTheme(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/npcs/generate", "gm-1", `{"theme":"western"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decode[ErrorEnvelope](t, rec)
	if !strings.Contains(out.Error.Message, "Theme/Type not found") {
		t.Fatalf("unexpected message: %q", out.Error.Message)
	}
}

func TestEditAndLock(t *testing.T) {
	api := newTestAPI(t)
	view := decode[card.View](t, api.do(t, http.MethodPost, "/api/npcs/generate", "gm-1", `{"theme":"fantasy"}`))

	rec := api.do(t, http.MethodPatch, "/api/cards/"+view.ID, "gm-1", `{"title":"Old Mira","fields":{"race":"Gnome"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}
	edited := decode[card.View](t, rec)
	if edited.Title != "Old Mira" {
		t.Fatalf("unexpected title: %q", edited.Title)
	}

	rec = api.do(t, http.MethodPost, "/api/cards/"+view.ID+"/locks/race", "gm-1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"locked":true`) {
		t.Fatalf("unexpected lock response: %d %s", rec.Code, rec.Body.String())
	}
	next := decode[card.View](t, api.do(t, http.MethodPost, "/api/npcs/generate", "gm-1", `{"theme":"fantasy"}`))
	for _, row := range next.Rows {
		if row.Key == "race" && row.Value != "Gnome" {
			t.Fatalf("locked race = %q", row.Value)
		}
	}
}

func TestSaveDeleteUndo(t *testing.T) {
	api := newTestAPI(t)
	view := decode[card.View](t, api.do(t, http.MethodPost, "/api/quests/generate", "gm-1", `{"theme":"fantasy"}`))

	rec := api.do(t, http.MethodPost, "/api/cards/"+view.ID+"/tags", "gm-1", `{"tag":"urgent"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected tag status: %d", rec.Code)
	}
	rec = api.do(t, http.MethodPost, "/api/cards/"+view.ID+"/tags", "gm-1", `{"tag":"URGENT"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate tag status: %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/cards/"+view.ID+"/save", "gm-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected save status: %d %s", rec.Code, rec.Body.String())
	}
	if api.mem.LastOwner != "gm-1" {
		t.Fatalf("saved under %q", api.mem.LastOwner)
	}

	listed := decode[struct {
		Cards []card.View `json:"cards"`
	}](t, api.do(t, http.MethodGet, "/api/saved/quests", "gm-1", ""))
	if len(listed.Cards) != 1 || listed.Cards[0].Tags[0] != "urgent" {
		t.Fatalf("unexpected saved list: %+v", listed)
	}
	savedID := listed.Cards[0].ID

	rec = api.do(t, http.MethodDelete, "/api/cards/"+savedID, "gm-1", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected delete status: %d", rec.Code)
	}
	rec = api.do(t, http.MethodPost, "/api/undo", "gm-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected undo status: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodDelete, "/api/cards/"+savedID, "gm-1", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected delete status: %d", rec.Code)
	}
	api.clock.Advance(undo.DefaultGrace)
	if api.mem.Deletes() != 1 {
		t.Fatalf("DeleteCalls = %d", api.mem.Deletes())
	}
	rec = api.do(t, http.MethodPost, "/api/undo", "gm-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("undo after commit status: %d", rec.Code)
	}
}

func TestSavedSearch(t *testing.T) {
	api := newTestAPI(t)
	view := decode[card.View](t, api.do(t, http.MethodPost, "/api/quests/generate", "gm-1", `{"theme":"fantasy","type":"bounty"}`))
	api.do(t, http.MethodPost, "/api/cards/"+view.ID+"/save", "gm-1", "")

	rec := api.do(t, http.MethodGet, "/api/saved/quest?q=ashen", "gm-1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Bounty Quest") {
		t.Fatalf("unexpected search response: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodGet, "/api/saved/dragons", "gm-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for unknown kind: %d", rec.Code)
	}
}

func TestRollAndNotices(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/roll", "gm-1", `{"notation":"3d6"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	roll := decode[rollResponse](t, rec)
	if roll.Dice != "3d6" || len(roll.Results) != 3 {
		t.Fatalf("unexpected roll: %+v", roll)
	}

	rec = api.do(t, http.MethodPost, "/api/roll", "gm-1", `{"sides":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for d1: %d", rec.Code)
	}
	out := decode[struct {
		Notices []app.Notice `json:"notices"`
	}](t, api.do(t, http.MethodGet, "/api/notices", "gm-1", ""))
	if len(out.Notices) != 1 || out.Notices[0].Level != app.LevelError {
		t.Fatalf("unexpected notices: %+v", out)
	}
}

func TestPreferences(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPut, "/api/prefs/theme", "gm-1", `{"theme":"scifi"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"generatorTheme":"scifi"`) {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodPut, "/api/prefs/theme", "gm-1", `{"theme":"western"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	rec = api.do(t, http.MethodPost, "/api/prefs/display/toggle", "gm-1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"theme":"dark"`) {
		t.Fatalf("unexpected toggle response: %d %s", rec.Code, rec.Body.String())
	}
}
