package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftDecimals(t *testing.T) {
	tests := []struct {
		raw      string
		decimals int32
		want     string
	}{
		{"1000000000000000000", 18, "1"},
		{"123456789", 6, "123.456789"},
		{"5", 0, "5"},
		{"0", 9, "0"},
	}

	for _, tt := range tests {
		got, err := ShiftDecimals(tt.raw, tt.decimals)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "raw=%s decimals=%d got=%s", tt.raw, tt.decimals, got)
	}

	_, err := ShiftDecimals("not-a-number", 18)
	assert.Error(t, err)
}

func TestFormatThousands(t *testing.T) {
	tests := map[string]string{
		"0":             "0",
		"999.99":        "999",
		"1000":          "1,000",
		"1234567.89":    "1,234,567",
		"12345678":      "12,345,678",
		"-1234.5":       "-1,234",
		"100000000000":  "100,000,000,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatThousands(decimal.RequireFromString(in)), in)
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "45.0", FormatFloat(45))
	assert.Equal(t, "45.5", FormatFloat(45.5))
	assert.Equal(t, "30.12", FormatFloat(30.12))
}

func TestShardIndex(t *testing.T) {
	idx := ShardIndex("0xabc", 4)
	assert.Equal(t, idx, ShardIndex("0xabc", 4))
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 4)
	assert.Equal(t, 0, ShardIndex("0xabc", 1))
}

func TestGetDisplayWalletAddress(t *testing.T) {
	assert.Equal(t, "0x1234...cdef", GetDisplayWalletAddress("0x1234567890abcdef"))
	assert.Equal(t, "0x12", GetDisplayWalletAddress("0x12"))
}
