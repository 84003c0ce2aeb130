package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func donations(t *testing.T, h *harness, path string) []any {
	t.Helper()
	w := h.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["donations"].([]any)
}

func TestAliceReceivesBobsDonation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/signup", gin.H{"username": "alice", "email": "alice@x.com", "password": "Passw0rd1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])
	alice := uint(body["user"].(map[string]any)["id"].(float64))

	w = h.do(http.MethodPost, "/profile", gin.H{"name": "Alice", "userId": alice}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodGet, "/profile/"+itoa(alice), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode(t, w)["name"])

	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")
	h.createProfile(bob, "Bob")

	w = h.do(http.MethodPost, "/donation", gin.H{"amount": 5, "donorId": bob, "recipientId": alice}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(5), decode(t, w)["Donation"].(map[string]any)["amount"])

	list := donations(t, h, "/donation/"+itoa(alice))
	require.Len(t, list, 1)
	d := list[0].(map[string]any)
	assert.Equal(t, float64(5), d["amount"])
	donor := d["donor"].(map[string]any)
	assert.Equal(t, "Bob", donor["profile"].(map[string]any)["name"])
	assert.Equal(t, "Bob.png", donor["profile"].(map[string]any)["avatarImage"])
	assert.NotContains(t, donor, "password")
}

func TestListDonationsOnlyForRecipientNewestFirst(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")
	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")
	carol, _ := h.signUp("carol", "carol@x.com", "Passw0rd1")

	for _, d := range []gin.H{
		{"amount": 1, "donorId": bob, "recipientId": alice, "specialMessage": "first"},
		{"amount": 3, "donorId": alice, "recipientId": carol},
		{"amount": 10, "donorId": carol, "recipientId": alice, "specialMessage": "second"},
	} {
		require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/donation", d, "").Code)
	}

	list := donations(t, h, "/donation/"+itoa(alice))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].(map[string]any)["specialMessage"])
	assert.Equal(t, "first", list[1].(map[string]any)["specialMessage"])

	filtered := donations(t, h, "/donation/"+itoa(alice)+"?amount=10")
	require.Len(t, filtered, 1)
	assert.Equal(t, float64(10), filtered[0].(map[string]any)["amount"])

	assert.Empty(t, donations(t, h, "/donation/"+itoa(bob)))
}

func TestDonationListCacheIsInvalidatedOnCreate(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")
	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")

	assert.Empty(t, donations(t, h, "/donation/"+itoa(alice)))
	assert.True(t, h.cache.has(donationCacheKey(alice)))

	h.do(http.MethodPost, "/donation", gin.H{"amount": 2, "donorId": bob, "recipientId": alice}, "")

	assert.False(t, h.cache.has(donationCacheKey(alice)))
	assert.Len(t, donations(t, h, "/donation/"+itoa(alice)), 1)
}

func TestCreateDonationValidation(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")
	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")

	tests := []struct {
		name  string
		body  gin.H
		field string
	}{
		{"zero amount", gin.H{"amount": 0, "donorId": bob, "recipientId": alice}, "amount"},
		{"negative amount", gin.H{"amount": -5, "donorId": bob, "recipientId": alice}, "amount"},
		{"rounds to zero", gin.H{"amount": 0.004, "donorId": bob, "recipientId": alice}, "amount"},
		{"no recipient", gin.H{"amount": 5, "donorId": bob}, "recipientId"},
		{"unknown recipient", gin.H{"amount": 5, "donorId": bob, "recipientId": 999}, "recipientId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/donation", tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.field, decode(t, w)["field"])
		})
	}
	assert.Empty(t, donations(t, h, "/donation/"+itoa(alice)))
}

func TestCreateDonationRoundsToCents(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")
	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")

	w := h.do(http.MethodPost, "/donation", gin.H{"amount": 0.005, "donorId": bob, "recipientId": alice}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.01, decode(t, w)["Donation"].(map[string]any)["amount"])
}

func TestListDonationsBadInput(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/donation/abc", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/donation/1?days=7", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/donation/1?amount=x", nil, "").Code)
}

func TestEarnings(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.signUp("alice", "alice@x.com", "Passw0rd1")
	bob, _ := h.signUp("bob", "bob@x.com", "Passw0rd1")
	for _, amount := range []any{5, "2.50"} {
		require.Equal(t, http.StatusOK,
			h.do(http.MethodPost, "/donation", gin.H{"amount": amount, "donorId": bob, "recipientId": alice}, "").Code)
	}

	w := h.do(http.MethodGet, "/donation/"+itoa(alice)+"/earnings?days=all", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 7.5, body["total"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "all", body["days"])
}
