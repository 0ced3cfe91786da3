package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rs. 0.00", Money(0))
	assert.Equal(t, "Rs. 950.00", Money(950))
	assert.Equal(t, "Rs. 13,000.00", Money(13000))
	assert.Equal(t, "Rs. 113,000.00", Money(113000))
	assert.Equal(t, "Rs. 1,250,000.00", Money(1250000))
	assert.Equal(t, "Rs. -500.00", Money(-500))
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "07 Mar 2025", Date(d))
}
