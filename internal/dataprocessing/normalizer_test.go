package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarstock/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2010-05-01", "2010-05-01", true},
		{" 2010-05-01 ", "2010-05-01", true},
		{"2010-05-01T13:45:00", "2010-05-01", true},
		{"2010-05-01 13:45:00", "2010-05-01", true},
		{"2010-05-01 13:45:00.123456", "2010-05-01", true},
		{"2010-05-01T23:30:00+02:00", "2010-05-01", true},
		{"2010-05-01T23:30:00Z", "2010-05-01", true},
		{"01.05.2010", "2010-05-01", true},
		{"1.5.2010", "2010-05-01", true},
		{"2010", "2010-01-01", true},
		{"40179", "2010-01-01", true},
		{"40179.5", "2010-01-01", true},
		{"20100101", "2010-01-01", true},
		{"20120701", "2012-07-01", true},
		{"20211301", "", false},
		{"", "", false},
		{"   ", "", false},
		{"2021-02-30", "", false},
		{"2021-13-01", "", false},
		{"not a date", "", false},
		{"1200-01-01", "", false},
		{"99999999", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantOK, got.Known())
		})
	}
}

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"5", "5", true},
		{"5.5", "5.5", true},
		{"5,5", "5.5", true},
		{"1.234,5", "1234.5", true},
		{"1,234.5", "1234.5", true},
		{" 9.99 ", "9.99", true},
		{"0", "0", true},
		{"", "0", false},
		{"-1", "0", false},
		{"abc", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCapacity(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	decomposed := "Endgu\u0308ltig stillgelegt"
	require.NotEqual(t, string(domain.StatusDecommissioned), decomposed)
	assert.Equal(t, domain.StatusDecommissioned, NormalizeStatus(decomposed))
	assert.Equal(t, domain.StatusActive, NormalizeStatus("  In Betrieb "))
	assert.True(t, NormalizeStatus(decomposed).IsDecommissioned())
}

func TestNormalizer_Normalize(t *testing.T) {
	rows := []RawRow{
		{
			domain.ColumnUnitID:              "SEE1",
			domain.ColumnStatus:              "In Betrieb",
			domain.ColumnCommissioningDate:   "2010-05-01",
			domain.ColumnDecommissioningDate: "",
			domain.ColumnCapacity:            "5,5",
			domain.ColumnDownloadDate:        "2024-01-31",
		},
		{
			domain.ColumnStatus:              "In Betrieb",
			domain.ColumnCommissioningDate:   "2021-02-30",
			domain.ColumnDecommissioningDate: "",
			domain.ColumnCapacity:            "",
			domain.ColumnDownloadDate:        "garbage",
		},
	}

	records, diag := NewNormalizer(nil).Normalize(context.Background(), rows)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "SEE1", first.UnitID)
	assert.Equal(t, domain.StatusActive, first.Status)
	assert.Equal(t, 2010, first.CommissioningDate.Year())
	assert.False(t, first.DecommissioningDate.Known())
	assert.Equal(t, "5.5", first.CapacityKW.String())
	assert.True(t, first.CapacityKnown)
	assert.Equal(t, "2024-01-31", first.DownloadDate.String())

	second := records[1]
	assert.False(t, second.CommissioningDate.Known(), "out-of-range day degrades to unknown")
	assert.False(t, second.CapacityKnown)
	assert.True(t, second.CapacityKW.IsZero())

	assert.Equal(t, 2, diag.TotalRecords)
	assert.Equal(t, 2, diag.StatusCounts["In Betrieb"])
	assert.Equal(t, 1, diag.MalformedDates[domain.ColumnCommissioningDate])
	assert.Equal(t, 1, diag.MalformedDates[domain.ColumnDownloadDate])
	assert.Equal(t, 2, diag.MissingDates[domain.ColumnDecommissioningDate])
	assert.Equal(t, 2, diag.TotalMalformed())
	assert.Equal(t, 1, diag.UnknownCapacity)
	require.Len(t, diag.Samples, 2)
	assert.Contains(t, diag.Samples[0], "row 3")
}
