package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func createClient(t *testing.T, r *gin.Engine, token, name string, creditLimit float64) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/clients", token, gin.H{
		"name":        name,
		"creditLimit": creditLimit,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create client %s: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	return decodeBody(t, w)["ID"].(string)
}

func clientBalance(t *testing.T, r *gin.Engine, token, clientID string) float64 {
	t.Helper()
	w := doRequest(t, r, http.MethodGet, "/api/clients/"+clientID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read client: expected 200, got %d", w.Code)
	}
	return decodeBody(t, w)["CreditBalance"].(float64)
}

func TestCreditTransactionMovesBalance(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 500)

	w := doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", adminToken, gin.H{
		"transactionType": "credit_sale",
		"amount":          200.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("credit_sale: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["creditBalance"].(float64); got != 200 {
		t.Errorf("expected balance 200, got %v", got)
	}

	w = doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", adminToken, gin.H{
		"transactionType": "payment",
		"amount":          150.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("payment: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if got := clientBalance(t, r, adminToken, clientID); got != 50 {
		t.Errorf("expected persisted balance 50, got %v", got)
	}
}

func TestCreditSaleRespectsLimit(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 100)

	w := doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", adminToken, gin.H{
		"transactionType": "credit_sale",
		"amount":          80.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first credit_sale: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Pushing past the limit fails; balance and ledger stay untouched
	w = doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", adminToken, gin.H{
		"transactionType": "credit_sale",
		"amount":          30.0,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-limit credit_sale: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := clientBalance(t, r, adminToken, clientID); got != 80 {
		t.Errorf("rejected sale must not change balance, got %v", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/clients/"+clientID+"/credit-transactions", adminToken, nil)
	var transactions []map[string]interface{}
	decodeInto(t, w, &transactions)
	if len(transactions) != 1 {
		t.Errorf("rejected sale must not append to ledger, got %d entries", len(transactions))
	}

	// Adjustments may override the limit
	w = doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", adminToken, gin.H{
		"transactionType": "adjustment",
		"amount":          30.0,
		"notes":           "manager approved",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("adjustment over limit: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := clientBalance(t, r, adminToken, clientID); got != 110 {
		t.Errorf("expected balance 110 after adjustment, got %v", got)
	}
}

func TestCreditTransactionTenantScoped(t *testing.T) {
	r := setupServer(t)
	acmeToken := registerBusiness(t, r, "acme")
	rivalToken := registerBusiness(t, r, "rival")
	clientID := createClient(t, r, acmeToken, "Jo's Cafe", 500)

	w := doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", rivalToken, gin.H{
		"transactionType": "credit_sale",
		"amount":          50.0,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-tenant transaction: expected 404, got %d", w.Code)
	}
	if got := clientBalance(t, r, acmeToken, clientID); got != 0 {
		t.Errorf("cross-tenant transaction must not change balance, got %v", got)
	}
}

func TestClientCashierAccess(t *testing.T) {
	r := setupServer(t)
	adminToken := registerBusiness(t, r, "acme")
	cashierToken := createStaffToken(t, r, adminToken, "acme_cashier", "cashier")
	clientID := createClient(t, r, adminToken, "Jo's Cafe", 500)

	// Cashiers read clients and record credit transactions
	w := doRequest(t, r, http.MethodGet, "/api/clients/"+clientID, cashierToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("cashier read client: expected 200, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/clients/"+clientID+"/credit-transactions", cashierToken, gin.H{
		"transactionType": "credit_sale",
		"amount":          10.0,
	})
	if w.Code != http.StatusCreated {
		t.Errorf("cashier credit transaction: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// But cannot manage the client record itself
	w = doRequest(t, r, http.MethodDelete, "/api/clients/"+clientID, cashierToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("cashier delete client: expected 403, got %d", w.Code)
	}
}
