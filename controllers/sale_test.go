package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSaleDerivesTotalsAndMovesStock(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 10.00)
	stockIn(t, r, adminToken, productID, 20)

	w := doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "cash",
		"taxAmount":     2.0,
		"items": []gin.H{
			{"productId": productID, "quantity": 3},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	sale := decodeBody(t, w)
	if got := sale["Subtotal"].(float64); got != 30 {
		t.Errorf("expected subtotal 30 from stored prices, got %v", got)
	}
	if got := sale["TotalAmount"].(float64); got != 32 {
		t.Errorf("expected total 32, got %v", got)
	}

	// Stock drops and the movement is on the ledger
	if got := productStock(t, r, adminToken, productID); got != 17 {
		t.Errorf("expected stock 17 after sale, got %v", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/stock-movements?productId="+productID, adminToken, nil)
	var movements []map[string]interface{}
	decodeInto(t, w, &movements)
	if len(movements) != 2 {
		t.Fatalf("expected stock_in plus sale movement, got %d", len(movements))
	}
	if movements[0]["MovementType"] != "stock_out" {
		t.Errorf("newest movement should be the sale's stock_out, got %v", movements[0]["MovementType"])
	}
}

func TestSaleRejectsTotalMismatch(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 10.00)
	stockIn(t, r, adminToken, productID, 20)

	// Client-side total disagrees with the derived one
	w := doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "cash",
		"totalAmount":   25.0,
		"items": []gin.H{
			{"productId": productID, "quantity": 3},
		},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("total mismatch: expected 422, got %d: %s", w.Code, w.Body.String())
	}

	if got := productStock(t, r, adminToken, productID); got != 20 {
		t.Errorf("rejected sale must not move stock, got %v", got)
	}
}

func TestSaleInsufficientStockRollsBack(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	cheapID := createProduct(t, r, adminToken, "Cheap", 1.00)
	scarceID := createProduct(t, r, adminToken, "Scarce", 5.00)
	stockIn(t, r, adminToken, cheapID, 100)
	stockIn(t, r, adminToken, scarceID, 2)

	// Second line over-draws; the whole sale is rolled back
	w := doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "cash",
		"items": []gin.H{
			{"productId": cheapID, "quantity": 10},
			{"productId": scarceID, "quantity": 3},
		},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	if got := productStock(t, r, adminToken, cheapID); got != 100 {
		t.Errorf("first line must be rolled back too, got %v", got)
	}
	if got := productStock(t, r, adminToken, scarceID); got != 2 {
		t.Errorf("scarce stock must be untouched, got %v", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/sales", adminToken, nil)
	var sales []map[string]interface{}
	decodeInto(t, w, &sales)
	if len(sales) != 0 {
		t.Errorf("failed sale must not persist, got %d sales", len(sales))
	}
}

func TestCreditSaleRequiresClientAndMovesCredit(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	productID := createProduct(t, r, adminToken, "Widget", 10.00)
	stockIn(t, r, adminToken, productID, 20)
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 100)

	// Credit sale without a client is invalid
	w := doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "credit",
		"items":         []gin.H{{"productId": productID, "quantity": 1}},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("credit sale without client: expected 422, got %d: %s", w.Code, w.Body.String())
	}

	// With a client the sale books a credit transaction
	w = doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "credit",
		"clientId":      clientID,
		"items":         []gin.H{{"productId": productID, "quantity": 4}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("credit sale: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if got := clientBalance(t, r, adminToken, clientID); got != 40 {
		t.Errorf("expected credit balance 40, got %v", got)
	}

	// A credit sale past the client's limit is rejected whole
	w = doRequest(t, r, http.MethodPost, "/api/sales", adminToken, gin.H{
		"paymentMethod": "credit",
		"clientId":      clientID,
		"items":         []gin.H{{"productId": productID, "quantity": 7}},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-limit credit sale: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := clientBalance(t, r, adminToken, clientID); got != 40 {
		t.Errorf("rejected credit sale must not change balance, got %v", got)
	}
	if got := productStock(t, r, adminToken, productID); got != 16 {
		t.Errorf("rejected credit sale must not move stock, got %v", got)
	}
}

func TestCashierCanSell(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	cashierToken := createStaffToken(t, r, adminToken, "acme_cashier", "cashier")
	productID := createProduct(t, r, adminToken, "Widget", 10.00)
	stockIn(t, r, adminToken, productID, 20)

	w := doRequest(t, r, http.MethodPost, "/api/sales", cashierToken, gin.H{
		"paymentMethod": "cash",
		"items":         []gin.H{{"productId": productID, "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Errorf("cashier sale: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}
