package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func createInvoice(t *testing.T, r *gin.Engine, token, clientID, productID string, qty int) map[string]interface{} {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/invoices", token, gin.H{
		"clientId": clientID,
		"items":    []gin.H{{"productId": productID, "quantity": qty}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create invoice: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)
}

func TestInvoicePaymentStatusDerivation(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 500)
	productID := createProduct(t, r, adminToken, "Widget", 25.00)

	invoice := createInvoice(t, r, adminToken, clientID, productID, 4)
	invoiceID := invoice["ID"].(string)
	if invoice["TotalAmount"].(float64) != 100 {
		t.Fatalf("expected total 100, got %v", invoice["TotalAmount"])
	}
	if invoice["PaymentStatus"] != "pending" {
		t.Errorf("new invoice should be pending, got %v", invoice["PaymentStatus"])
	}

	// Partial payment
	w := doRequest(t, r, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", adminToken, gin.H{
		"amount":        40.0,
		"paymentMethod": "cash",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("partial payment: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["paymentStatus"]; got != "partial" {
		t.Errorf("expected partial after 40/100, got %v", got)
	}

	// Remainder settles the invoice
	w = doRequest(t, r, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", adminToken, gin.H{
		"amount":        60.0,
		"paymentMethod": "card",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("final payment: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["paymentStatus"]; got != "paid" {
		t.Errorf("expected paid after full settlement, got %v", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/invoices/"+invoiceID+"/payments", adminToken, nil)
	var payments []map[string]interface{}
	decodeInto(t, w, &payments)
	if len(payments) != 2 {
		t.Errorf("expected 2 payments on record, got %d", len(payments))
	}
}

func TestInvoiceNumberUniquePerBusiness(t *testing.T) {
	r := setupServer(t)
	acmeToken := registerBusiness(t, r, "acme")
	rivalToken := registerBusiness(t, r, "rival")
	acmeClient := createClient(t, r, acmeToken, "Jo's Cafe", 500)
	rivalClient := createClient(t, r, rivalToken, "Mel's Diner", 500)
	acmeProduct := createProduct(t, r, acmeToken, "Widget", 10.00)
	rivalProduct := createProduct(t, r, rivalToken, "Widget", 10.00)

	w := doRequest(t, r, http.MethodPost, "/api/invoices", acmeToken, gin.H{
		"clientId":      acmeClient,
		"invoiceNumber": "INV-001",
		"items":         []gin.H{{"productId": acmeProduct, "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same number within the tenant conflicts
	w = doRequest(t, r, http.MethodPost, "/api/invoices", acmeToken, gin.H{
		"clientId":      acmeClient,
		"invoiceNumber": "INV-001",
		"items":         []gin.H{{"productId": acmeProduct, "quantity": 2}},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate invoice number: expected 409, got %d", w.Code)
	}

	// Another tenant may reuse it
	w = doRequest(t, r, http.MethodPost, "/api/invoices", rivalToken, gin.H{
		"clientId":      rivalClient,
		"invoiceNumber": "INV-001",
		"items":         []gin.H{{"productId": rivalProduct, "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Errorf("cross-tenant number reuse: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInvoiceItemsPricedFromCatalogue(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 500)
	productID := createProduct(t, r, adminToken, "Widget", 12.50)

	invoice := createInvoice(t, r, adminToken, clientID, productID, 2)
	items := invoice["Items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["UnitPrice"].(float64) != 12.50 {
		t.Errorf("expected catalogue price 12.50, got %v", item["UnitPrice"])
	}
	if item["TotalPrice"].(float64) != 25 {
		t.Errorf("expected line total 25, got %v", item["TotalPrice"])
	}

	// Referencing another tenant's product fails
	rivalToken := registerBusiness(t, r, "rival")
	rivalProduct := createProduct(t, r, rivalToken, "Gadget", 99.99)

	w := doRequest(t, r, http.MethodPost, "/api/invoices", adminToken, gin.H{
		"clientId": clientID,
		"items":    []gin.H{{"productId": rivalProduct, "quantity": 1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("foreign product reference: expected 400, got %d", w.Code)
	}
}

func TestInvoiceWriteRequiresAdminRole(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	cashierToken := createStaffToken(t, r, adminToken, "acme_cashier", "cashier")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 500)
	productID := createProduct(t, r, adminToken, "Widget", 10.00)

	invoice := createInvoice(t, r, adminToken, clientID, productID, 1)
	invoiceID := invoice["ID"].(string)

	// Cashiers read invoices but cannot write them
	w := doRequest(t, r, http.MethodGet, "/api/invoices/"+invoiceID, cashierToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("cashier read invoice: expected 200, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/invoices/"+invoiceID, cashierToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("cashier delete invoice: expected 403, got %d", w.Code)
	}
}
