package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_Header(t *testing.T) {
	rs := &ResultSet{Columns: []string{"gender", "", "patient_count"}}

	t.Run("named", func(t *testing.T) {
		assert.Equal(t, []string{"gender", "1", "patient_count"}, rs.Header(false))
	})

	t.Run("positional", func(t *testing.T) {
		assert.Equal(t, []string{"0", "1", "2"}, rs.Header(true))
	})
}

func TestResultSet_Empty(t *testing.T) {
	var nilSet *ResultSet
	assert.True(t, nilSet.Empty())
	assert.Equal(t, 0, nilSet.Len())

	rs := &ResultSet{Columns: []string{"a"}}
	assert.True(t, rs.Empty())

	rs.Rows = append(rs.Rows, []any{int64(1)})
	assert.False(t, rs.Empty())
	assert.Equal(t, 1, rs.Len())
}
