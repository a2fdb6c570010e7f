package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"0.50", 50},
		{"1", 100},
		{"20.00", 2000},
		{"0.01", 1},
		{"1234.5", 123450},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseMoneyRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0.005", "1.999"} {
		_, err := ParseMoney(in)
		assert.Error(t, err, in)
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "0.50", Money(50).String())
	assert.Equal(t, "25.00", Rupees(25, 0).String())
	assert.Equal(t, "1234.05", Money(123405).String())
}

func TestRepeatedSmallCreditsDoNotDrift(t *testing.T) {
	var m Money
	reward, err := ParseMoney("0.10")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		m += reward
	}
	assert.Equal(t, "100.00", m.String())
}

func TestSplit(t *testing.T) {
	r, p := Money(2550).Split()
	assert.Equal(t, int64(25), r)
	assert.Equal(t, int64(50), p)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in India.
	ts := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, Date("2026-03-01"), DateOf(ts))
	assert.Equal(t, Date("2026-03-02"), DateOf(ts.In(loc)))
	assert.True(t, Date("").IsZero())
}
