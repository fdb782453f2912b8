package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "wrapped payload",
			key:      "customer",
			body:     `{"customer": {"name": "Ahmed", "phone": "0501234567"}}`,
			expected: bindTarget{Name: "Ahmed", Phone: "0501234567"},
		},
		{
			name:     "flat payload",
			key:      "customer",
			body:     `{"name": "Sara", "phone": "0559876543"}`,
			expected: bindTarget{Name: "Sara", Phone: "0559876543"},
		},
		{
			name:     "flat payload with unrelated key",
			key:      "customer",
			body:     `{"other": "value", "name": "Khalid", "phone": "0533334444"}`,
			expected: bindTarget{Name: "Khalid", Phone: "0533334444"},
		},
		{
			name:        "wrapped payload with wrong field type",
			key:         "customer",
			body:        `{"customer": {"name": "Omar", "phone": 12345}}`,
			expectError: true,
		},
		{
			name:        "wrapped key holds a scalar",
			key:         "customer",
			body:        `{"customer": "not an object"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
