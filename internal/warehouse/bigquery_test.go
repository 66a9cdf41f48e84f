package warehouse

import (
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"catalog-kit/internal/domain"
)

func TestConvertSchema(t *testing.T) {
	schema := bigquery.Schema{
		{Name: "id", Type: bigquery.IntegerFieldType},
		{Name: "created_at", Type: bigquery.TimestampFieldType},
		{Name: "payload", Type: bigquery.JSONFieldType},
		{Name: "span", Type: bigquery.IntervalFieldType},
	}

	got := convertSchema(schema)
	assert.Equal(t, []domain.Field{
		{Name: "id", Type: domain.FieldTypeInteger},
		{Name: "created_at", Type: domain.FieldTypeTimestamp},
		{Name: "payload", Type: domain.FieldTypeJSON},
		{Name: "span", Type: domain.FieldType("INTERVAL")},
	}, got)
	assert.True(t, got[1].Type.IsTemporal())
}

func TestConvertSchema_Empty(t *testing.T) {
	got := convertSchema(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestConvertValue(t *testing.T) {
	d := civil.Date{Year: 2024, Month: time.March, Day: 9}
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), convertValue(d))

	dt := civil.DateTime{Date: d, Time: civil.Time{Hour: 13, Minute: 30}}
	assert.Equal(t, time.Date(2024, 3, 9, 13, 30, 0, 0, time.UTC), convertValue(dt))

	assert.Nil(t, convertValue(nil))
	assert.Equal(t, int64(3), convertValue(int64(3)))
}

func TestColumnNames(t *testing.T) {
	schema := bigquery.Schema{{Name: "min_date"}, {Name: "max_date"}}
	assert.Equal(t, []string{"min_date", "max_date"}, columnNames(schema))
}
