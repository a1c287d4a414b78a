package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	tu "github.com/desertthunder/medspa/internal/testing"
)

func newTestHandler(t *testing.T) (*Handler, *tu.MockBackend, *favorites.Provider) {
	t.Helper()
	backend := tu.NewMockBackend(
		models.Listing{ID: "m1", Name: "Spa A", City: "Austin", State: "TX", Rating: 4.8, ReviewCount: 120,
			Treatments: []string{"Botox", "HydraFacial"}, PhotoReference: "ref-1"},
		models.Listing{ID: "m2", Name: "Glow Clinic", City: "Dallas"},
	)
	logger := log.New(io.Discard)
	provider := favorites.NewProvider(favorites.NewMemoryStorage(), logger)

	h, err := New(backend, provider, false, logger)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return h, backend, provider
}

func signedIn(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithSession(req.Context(), &models.Session{ID: "s1", UserID: userID}))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	t.Run("Home", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"2 med spas listed", "Spa A", "4.8★ (120 reviews)", `class="navbar"`} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in home page", want)
			}
		}
	})

	t.Run("Home Empty State On Backend Error", func(t *testing.T) {
		h, backend, _ := newTestHandler(t)
		backend.Err = shared.ErrAPIRequest

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Listings are unavailable right now.") {
			t.Errorf("expected empty state, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		if rec := serve(h, httptest.NewRequest(http.MethodGet, "/nope", nil)); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Search", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/search?q=glow", nil))

		body := rec.Body.String()
		if !strings.Contains(body, "Glow Clinic") || strings.Contains(body, "Spa A") {
			t.Errorf("unexpected search results:\n%s", body)
		}
		if !strings.Contains(body, `value="glow"`) {
			t.Error("expected query to be echoed in the form")
		}
	})

	t.Run("Search Empty State", func(t *testing.T) {
		h, backend, _ := newTestHandler(t)
		backend.Err = shared.ErrAPIRequest

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/search?q=x", nil))
		if !strings.Contains(rec.Body.String(), "Search is unavailable right now.") {
			t.Error("expected empty state on backend error")
		}
	})

	t.Run("Detail", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/spas/m1", nil))

		body := rec.Body.String()
		for _, want := range []string{"<h1>Spa A</h1>", "<li>Botox</li>", "/api/place-photo?maxwidth=800&amp;photo_reference=ref-1"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in detail page", want)
			}
		}
	})

	t.Run("Detail Not Found", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/spas/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Auth Error", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/auth/auth-code-error?error=invalid_grant", nil))
		if !strings.Contains(rec.Body.String(), "invalid_grant") {
			t.Error("expected error detail in page")
		}
	})
}

func TestMyPage(t *testing.T) {
	t.Run("Redirects Without Session", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/my-page", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		loc, _ := url.Parse(rec.Header().Get("Location"))
		if loc.Path != "/login" || loc.Query().Get("next") != "/my-page" {
			t.Errorf("unexpected redirect %s", loc)
		}
	})

	t.Run("Lists Favorites", func(t *testing.T) {
		h, _, provider := newTestHandler(t)
		store := provider.Store(context.Background(), favorites.OwnerKey("u1"))
		store.Add(context.Background(), models.Favorite{ID: "m1", Name: "Spa A"})

		rec := serve(h, signedIn(httptest.NewRequest(http.MethodGet, "/my-page", nil), "u1"))
		if !strings.Contains(rec.Body.String(), "Spa A") {
			t.Error("expected favorite in my page")
		}
	})

	t.Run("Empty Favorites", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, signedIn(httptest.NewRequest(http.MethodGet, "/my-page", nil), "u2"))
		if !strings.Contains(rec.Body.String(), "You haven&#39;t saved any med spas yet.") {
			t.Errorf("expected empty state, got:\n%s", rec.Body.String())
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	t.Run("Requires Session", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		rec := serve(h, httptest.NewRequest(http.MethodPost, "/spas/m1/favorite", nil))

		loc, _ := url.Parse(rec.Header().Get("Location"))
		if loc.Path != "/login" || loc.Query().Get("next") != "/spas/m1" {
			t.Errorf("unexpected redirect %s", loc)
		}
	})

	t.Run("Adds Then Removes", func(t *testing.T) {
		h, _, provider := newTestHandler(t)
		store := provider.Store(context.Background(), favorites.OwnerKey("u1"))

		rec := serve(h, signedIn(httptest.NewRequest(http.MethodPost, "/spas/m1/favorite", nil), "u1"))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/spas/m1" {
			t.Errorf("unexpected response %d %s", rec.Code, rec.Header().Get("Location"))
		}
		if !store.Contains("m1") {
			t.Fatal("expected m1 to be saved")
		}

		detail := serve(h, signedIn(httptest.NewRequest(http.MethodGet, "/spas/m1", nil), "u1"))
		if !strings.Contains(detail.Body.String(), "★ Saved") {
			t.Error("expected detail page to show saved state")
		}

		form := strings.NewReader("return=/my-page")
		req := httptest.NewRequest(http.MethodPost, "/spas/m1/favorite", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec = serve(h, signedIn(req, "u1"))

		if store.Contains("m1") {
			t.Error("expected m1 to be removed")
		}
		if rec.Header().Get("Location") != "/my-page" {
			t.Errorf("expected return to /my-page, got %s", rec.Header().Get("Location"))
		}
	})
}

func TestSidebarToggle(t *testing.T) {
	h, _, _ := newTestHandler(t)

	form := strings.NewReader("return=/search?q=botox")
	req := httptest.NewRequest(http.MethodPost, "/ui/sidebar", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(h, req)

	if rec.Header().Get("Location") != "/search?q=botox" {
		t.Errorf("expected redirect back, got %s", rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SidebarCookie || cookies[0].Value != "open" {
		t.Fatalf("expected sidebar=open cookie, got %v", cookies)
	}

	page := httptest.NewRequest(http.MethodGet, "/", nil)
	page.AddCookie(cookies[0])
	body := serve(h, page).Body.String()
	if !strings.Contains(body, `id="sidebar"`) || !strings.Contains(body, `data-sidebar="open"`) {
		t.Error("expected navbar and sidebar to render the open state")
	}

	req = httptest.NewRequest(http.MethodPost, "/ui/sidebar", nil)
	req.AddCookie(cookies[0])
	rec = serve(h, req)
	if got := rec.Result().Cookies()[0].Value; got != "closed" {
		t.Errorf("expected sidebar to close, got %s", got)
	}
	if rec.Header().Get("Location") != "/" {
		t.Errorf("expected fallback redirect to /, got %s", rec.Header().Get("Location"))
	}

	closed := httptest.NewRequest(http.MethodGet, "/", nil)
	if body := serve(h, closed).Body.String(); strings.Contains(body, `id="sidebar"`) {
		t.Error("expected sidebar hidden by default")
	}
}
