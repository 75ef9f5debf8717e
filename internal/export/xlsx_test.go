package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func readSheet(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteProductsXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductsXLSX(&buf, nil))

	rows := readSheet(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, header, rows[0])
}

func TestWriteProductsXLSXRows(t *testing.T) {
	createdAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	description := "Over-ear, 30h battery"
	deletedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	products := []domain.Product{
		{
			ID:          101,
			CategoryID:  7,
			Name:        "Wireless Headphones",
			Description: &description,
			Price:       129.99,
			Stock:       42,
			Enabled:     true,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		},
		{
			ID:         102,
			CategoryID: 7,
			Name:       "No Description",
			Price:      5,
			Stock:      0,
			Enabled:    false,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			DeletedAt:  gorm.DeletedAt{Time: deletedAt, Valid: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProductsXLSX(&buf, products))

	rows := readSheet(t, &buf)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "101", first[0])
	assert.Equal(t, "7", first[1])
	assert.Equal(t, "Wireless Headphones", first[2])
	assert.Equal(t, "Over-ear, 30h battery", first[3])
	assert.Equal(t, "42", first[5])
	assert.Equal(t, "TRUE", first[6])
	assert.Equal(t, "2026-02-14 09:30:00", first[8])

	second := rows[2]
	assert.Equal(t, "No Description", second[2])
	assert.Equal(t, "FALSE", second[6])
	assert.Equal(t, "2026-03-01 08:00:00", second[7])
}
