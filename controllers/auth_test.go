package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterCreatesTenant(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"businessName":  "Acme Store",
		"businessEmail": "acme@example.com",
		"username":      "acme_admin",
		"email":         "admin@example.com",
		"password":      "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}

	// The first user is the business admin
	w = doRequest(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	me := decodeBody(t, w)
	user := me["user"].(map[string]interface{})
	if user["role"] != "business_admin" {
		t.Errorf("expected business_admin, got %v", user["role"])
	}

	// Default alert rules were seeded
	w = doRequest(t, r, http.MethodGet, "/api/alert-rules", token, nil)
	var rules []map[string]interface{}
	decodeInto(t, w, &rules)
	if len(rules) != 3 {
		t.Errorf("expected 3 default alert rules, got %d", len(rules))
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := setupServer(t)
	registerBusiness(t, r, "acme")

	// Same business email
	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"businessName":  "Acme Clone",
		"businessEmail": "acme@example.com",
		"username":      "clone_admin",
		"email":         "clone@example.com",
		"password":      "password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate business email: expected 409, got %d", w.Code)
	}

	// Same username
	w = doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"businessName":  "Other Store",
		"businessEmail": "other@example.com",
		"username":      "acme_admin",
		"email":         "other@example.com",
		"password":      "password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username: expected 409, got %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	r := setupServer(t)
	registerBusiness(t, r, "acme")

	// By username
	w := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "acme_admin",
		"password":   "password123",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login by username: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// By email
	w = doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "acme_admin@example.com",
		"password":   "password123",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login by email: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Wrong password
	w = doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "acme_admin",
		"password":   "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/api/products", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}

	// Plans stay public
	w = doRequest(t, r, http.MethodGet, "/plans", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("plans: expected 200 without token, got %d", w.Code)
	}
}
