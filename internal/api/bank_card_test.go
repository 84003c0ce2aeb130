package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankCardCreateAndPartialUpdate(t *testing.T) {
	h := newHarness(t)
	id, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")

	w := h.do(http.MethodPost, "/bankCard", gin.H{
		"country": "MN", "firstname": "Alice", "lastname": "Smith",
		"cardNumber": "4111111111111111", "expiryDate": "12/29", "cvc": "123", "userId": id,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	card := decode(t, w)["BankCard"].(map[string]any)
	cardID := uint(card["id"].(float64))

	w = h.do(http.MethodPut, "/bankCard/"+itoa(cardID), gin.H{"expiryDate": "01/30"}, "")

	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["bankCard"].(map[string]any)
	assert.Equal(t, "01/30", updated["expiryDate"])
	assert.Equal(t, "4111111111111111", updated["cardNumber"])
	assert.Equal(t, "Alice", updated["firstname"])
}

func TestBankCardAllowsMultiplePerUser(t *testing.T) {
	h := newHarness(t)
	id, token := h.signUp("alice", "alice@x.com", "Passw0rd1")

	var newest any
	for _, number := range []string{"4111111111111111", "5500000000000004"} {
		w := h.do(http.MethodPost, "/bankCard", gin.H{"cardNumber": number, "userId": id}, "")
		require.Equal(t, http.StatusOK, w.Code)
		newest = decode(t, w)["BankCard"].(map[string]any)["id"]
	}

	// getMe shows the card added last
	w := h.do(http.MethodGet, "/auth/getMe", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode(t, w)["bankCard"].(map[string]any)
	assert.Equal(t, newest, card["id"])
	assert.Equal(t, "5500000000000004", card["cardNumber"])
}

func TestBankCardErrors(t *testing.T) {
	h := newHarness(t)

	noUser := h.do(http.MethodPost, "/bankCard", gin.H{"cardNumber": "4111"}, "")
	assert.Equal(t, http.StatusBadRequest, noUser.Code)
	assert.NotEmpty(t, decode(t, noUser)["message"])

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/bankCard", gin.H{"userId": 404}, "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/bankCard/abc", gin.H{"cvc": "1"}, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/bankCard/77", gin.H{"cvc": "1"}, "").Code)
}
