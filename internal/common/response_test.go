package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaSerializesZeroCounts(t *testing.T) {
	// an empty page must still report total and total_pages
	data, err := json.Marshal(NewMeta(1, 10, 0))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"limit":10,"total":0,"total_pages":0}`, string(data))
}

func TestNewMetaRoundsTotalPagesUp(t *testing.T) {
	meta := NewMeta(2, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(25), meta.Total)
}
