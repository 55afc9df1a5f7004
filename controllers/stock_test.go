package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func stockIn(t *testing.T, r *gin.Engine, token, productID string, qty int) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", token, gin.H{
		"productId":    productID,
		"movementType": "stock_in",
		"quantity":     qty,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("stock_in %d: expected 201, got %d: %s", qty, w.Code, w.Body.String())
	}
}

func productStock(t *testing.T, r *gin.Engine, token, productID string) float64 {
	t.Helper()
	w := doRequest(t, r, http.MethodGet, "/api/products/"+productID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read product: expected 200, got %d", w.Code)
	}
	return decodeBody(t, w)["QuantityInStock"].(float64)
}

func TestStockMovementAppliesBalance(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	stockIn(t, r, adminToken, productID, 50)

	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", adminToken, gin.H{
		"productId":    productID,
		"movementType": "stock_out",
		"quantity":     20,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("stock_out: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["quantityInStock"].(float64) != 30 {
		t.Errorf("expected balance 30 in response, got %v", body["quantityInStock"])
	}

	if got := productStock(t, r, adminToken, productID); got != 30 {
		t.Errorf("expected persisted balance 30, got %v", got)
	}

	// Both movements are on the ledger
	w = doRequest(t, r, http.MethodGet, "/api/stock-movements?productId="+productID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list movements: expected 200, got %d", w.Code)
	}
}

func TestStockMovementRejectsOverdraw(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	stockIn(t, r, adminToken, productID, 5)

	// Drawing more than the balance fails entirely
	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", adminToken, gin.H{
		"productId":    productID,
		"movementType": "stock_out",
		"quantity":     6,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("overdraw: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Balance untouched and no ledger row written
	if got := productStock(t, r, adminToken, productID); got != 5 {
		t.Errorf("overdraw must not change balance, got %v", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/stock-movements?productId="+productID, adminToken, nil)
	var movements []map[string]interface{}
	decodeInto(t, w, &movements)
	if len(movements) != 1 {
		t.Errorf("overdraw must not append to the ledger, got %d movements", len(movements))
	}
}

func TestStockAdjustmentIsSigned(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	stockIn(t, r, adminToken, productID, 10)

	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", adminToken, gin.H{
		"productId":    productID,
		"movementType": "adjustment",
		"quantity":     -3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("negative adjustment: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := productStock(t, r, adminToken, productID); got != 7 {
		t.Errorf("expected balance 7 after adjustment, got %v", got)
	}

	// A zero adjustment is meaningless
	w = doRequest(t, r, http.MethodPost, "/api/stock-movements", adminToken, gin.H{
		"productId":    productID,
		"movementType": "adjustment",
		"quantity":     0,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero adjustment: expected 422, got %d", w.Code)
	}

	// Outbound movements require positive quantities
	w = doRequest(t, r, http.MethodPost, "/api/stock-movements", adminToken, gin.H{
		"productId":    productID,
		"movementType": "stock_out",
		"quantity":     -1,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative stock_out: expected 422, got %d", w.Code)
	}
}

func TestStockMovementRoles(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	managerToken := createStaffToken(t, r, adminToken, "acme_manager", "inventory_manager")
	cashierToken := createStaffToken(t, r, adminToken, "acme_cashier", "cashier")
	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	// Inventory managers record movements
	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", managerToken, gin.H{
		"productId":    productID,
		"movementType": "stock_in",
		"quantity":     10,
	})
	if w.Code != http.StatusCreated {
		t.Errorf("inventory_manager: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Cashiers do not
	w = doRequest(t, r, http.MethodPost, "/api/stock-movements", cashierToken, gin.H{
		"productId":    productID,
		"movementType": "stock_in",
		"quantity":     10,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("cashier: expected 403, got %d", w.Code)
	}
}

func TestLedgerSurvivesProductDeletion(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 9.99)

	stockIn(t, r, adminToken, productID, 10)

	w := doRequest(t, r, http.MethodDelete, "/api/products/"+productID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete product: expected 200, got %d", w.Code)
	}

	// The audit trail keeps the deleted product's movements
	w = doRequest(t, r, http.MethodGet, "/api/stock-movements", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list movements: expected 200, got %d", w.Code)
	}
	var movements []map[string]interface{}
	decodeInto(t, w, &movements)
	if len(movements) != 1 {
		t.Errorf("expected the movement to remain listed, got %d", len(movements))
	}
}

func TestStockMovementTenantScoped(t *testing.T) {
	r := setupServer(t)
	acmeToken := registerBusiness(t, r, "acme")
	rivalToken := registerBusiness(t, r, "rival")
	productID := createProduct(t, r, acmeToken, "Widget", 9.99)

	// Movements against another tenant's product look like a missing product
	w := doRequest(t, r, http.MethodPost, "/api/stock-movements", rivalToken, gin.H{
		"productId":    productID,
		"movementType": "stock_in",
		"quantity":     100,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-tenant movement: expected 404, got %d", w.Code)
	}

	if got := productStock(t, r, acmeToken, productID); got != 0 {
		t.Errorf("cross-tenant movement must not change balance, got %v", got)
	}
}
