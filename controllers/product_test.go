package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestProductLifecycle(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")

	// Create with the minimal payload
	w := doRequest(t, r, http.MethodPost, "/api/products", adminToken, gin.H{
		"name":  "USB Cable",
		"price": 4.50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	productID := created["ID"].(string)
	if created["QuantityInStock"].(float64) != 0 {
		t.Errorf("new product should start with zero stock, got %v", created["QuantityInStock"])
	}

	// Read it back, twice; reads must not change anything
	for i := 0; i < 2; i++ {
		w = doRequest(t, r, http.MethodGet, "/api/products/"+productID, adminToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 on read %d, got %d", i, w.Code)
		}
		body := decodeBody(t, w)
		if body["Name"] != "USB Cable" {
			t.Errorf("read %d: expected name USB Cable, got %v", i, body["Name"])
		}
	}

	// Full replacement update
	w = doRequest(t, r, http.MethodPut, "/api/products/"+productID, adminToken, gin.H{
		"name":  "USB-C Cable",
		"price": 5.00,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody(t, w)
	if updated["Name"] != "USB-C Cable" {
		t.Errorf("expected updated name, got %v", updated["Name"])
	}

	// Delete, then the record is gone
	w = doRequest(t, r, http.MethodDelete, "/api/products/"+productID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w.Code)
	}
	w = doRequest(t, r, http.MethodGet, "/api/products/"+productID, adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	w = doRequest(t, r, http.MethodDelete, "/api/products/"+productID, adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestProductWriteRequiresAdminRole(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	managerToken := createStaffToken(t, r, adminToken, "acme_manager", "inventory_manager")
	cashierToken := createStaffToken(t, r, adminToken, "acme_cashier", "cashier")

	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	// Staff roles cannot create, update or delete products
	for name, token := range map[string]string{"inventory_manager": managerToken, "cashier": cashierToken} {
		w := doRequest(t, r, http.MethodPost, "/api/products", token, gin.H{
			"name":  "Rogue Product",
			"price": 1.00,
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("%s create: expected 403, got %d", name, w.Code)
		}

		w = doRequest(t, r, http.MethodDelete, "/api/products/"+productID, token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s delete: expected 403, got %d", name, w.Code)
		}
	}

	// The denied delete must not have removed the product
	w := doRequest(t, r, http.MethodGet, "/api/products/"+productID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("product should survive denied deletes, got %d", w.Code)
	}
}

func TestProductTenantIsolation(t *testing.T) {
	r := setupServer(t)
	acmeToken := registerBusiness(t, r, "acme")
	rivalToken := registerBusiness(t, r, "rival")

	productID := createProduct(t, r, acmeToken, "Secret Gadget", 99.99)

	// Another tenant sees 404, not 403: existence must not leak
	w := doRequest(t, r, http.MethodGet, "/api/products/"+productID, rivalToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-tenant read: expected 404, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/products/"+productID, rivalToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-tenant delete: expected 404, got %d", w.Code)
	}

	// Listing only shows own products
	w = doRequest(t, r, http.MethodGet, "/api/products", rivalToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" && w.Body.String() != "null" {
		t.Errorf("rival should see no products, got %s", w.Body.String())
	}
}

func TestProductValidationAggregatesErrors(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")

	// Missing both required fields: the response lists every violation
	w := doRequest(t, r, http.MethodPost, "/api/products", adminToken, gin.H{
		"description": "no name, no price",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	errs, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected errors map, got %v", body)
	}
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected violation for name, got %v", errs)
	}
	if _, ok := errs["price"]; !ok {
		t.Errorf("expected violation for price, got %v", errs)
	}

	// Nothing may be persisted on a validation failure
	w = doRequest(t, r, http.MethodGet, "/api/products", adminToken, nil)
	if w.Body.String() != "[]" && w.Body.String() != "null" {
		t.Errorf("validation failure must not persist anything, got %s", w.Body.String())
	}
}

func TestBarcodelessProductsDoNotCollide(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")

	// The minimal payload carries no barcode; any number of such products
	// may coexist in one business
	for _, name := range []string{"First", "Second", "Third"} {
		w := doRequest(t, r, http.MethodPost, "/api/products", adminToken, gin.H{
			"name":  name,
			"price": 1.00,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("product %s without barcode: expected 201, got %d: %s", name, w.Code, w.Body.String())
		}
	}

	w := doRequest(t, r, http.MethodGet, "/api/products", adminToken, nil)
	var products []map[string]interface{}
	decodeInto(t, w, &products)
	if len(products) != 3 {
		t.Errorf("expected 3 products, got %d", len(products))
	}
}

func TestProductBarcodeUniquePerBusiness(t *testing.T) {
	r := setupServer(t)
	acmeToken := registerBusiness(t, r, "acme")
	rivalToken := registerBusiness(t, r, "rival")

	w := doRequest(t, r, http.MethodPost, "/api/products", acmeToken, gin.H{
		"name":    "Widget",
		"price":   9.99,
		"barcode": "123456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same barcode within the tenant conflicts
	w = doRequest(t, r, http.MethodPost, "/api/products", acmeToken, gin.H{
		"name":    "Widget Clone",
		"price":   8.99,
		"barcode": "123456",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate barcode: expected 409, got %d", w.Code)
	}

	// Another tenant may reuse the barcode
	w = doRequest(t, r, http.MethodPost, "/api/products", rivalToken, gin.H{
		"name":    "Widget",
		"price":   9.99,
		"barcode": "123456",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("cross-tenant barcode reuse: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}
