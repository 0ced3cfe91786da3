package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBillNumber(t *testing.T) {
	createdAt := time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)

	out, err := FormatBillNumber(DefaultBillNumberTemplate, createdAt, 42)
	require.NoError(t, err)
	assert.Equal(t, "BILL-20250307-000042", out)
}

func TestFormatBillNumberTokens(t *testing.T) {
	createdAt := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	out, err := FormatBillNumber("{YY}{MM}-{SEQ}", createdAt, 7)
	require.NoError(t, err)
	assert.Equal(t, "2412-7", out)
}

func TestFormatBillNumberRejectsBadInput(t *testing.T) {
	createdAt := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	_, err := FormatBillNumber("", createdAt, 1)
	assert.Error(t, err)

	_, err = FormatBillNumber(DefaultBillNumberTemplate, createdAt, 0)
	assert.Error(t, err)

	_, err = FormatBillNumber("BILL-{NOPE}", createdAt, 1)
	assert.Error(t, err)
}
