package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"creator_support/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ID accepts a positive integer id sent either as a JSON number or as a numeric string
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", b)
	}
	*id = ID(v)
	return nil
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// Dashboard windows accepted by the days query parameter
var donationWindows = map[string]int{"30": 30, "90": 90, "all": 0}

// donationFilter reads the optional amount and days query parameters
func donationFilter(c *gin.Context, defaultDays string, now time.Time) (domain.DonationFilter, string, *HTTPError) {
	var f domain.DonationFilter
	for _, raw := range c.QueryArray("amount") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			amount, err := decimal.NewFromString(part)
			if err != nil || !amount.IsPositive() {
				return f, "", validationError("amount must be a positive number", "amount")
			}
			f.Amounts = append(f.Amounts, amount)
		}
	}
	days := c.DefaultQuery("days", defaultDays)
	n, ok := donationWindows[days]
	if !ok {
		return f, "", validationError("days must be one of 30, 90 or all", "days")
	}
	if n > 0 {
		since := now.AddDate(0, 0, -n)
		f.Since = &since
	}
	return f, days, nil
}
