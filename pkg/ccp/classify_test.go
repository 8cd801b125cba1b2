package ccp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorBody(code, message string) []byte {
	return []byte(fmt.Sprintf(`{"ErrorCode":%q,"ErrorMessage":%q}`, code, message))
}

func TestClassifyResponse_ErrorCatalogue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status   int
		code     string
		category Category
		summary  string
	}{
		{400, "AIMWS030E", CategoryValidation, "Invalid query format"},
		{400, "APPAP227E", CategoryAccountNotFound, "Too many objects"},
		{400, "APPAP228E", CategoryAccountNotFound, "Too many objects"},
		{400, "APPAP229E", CategoryAccountNotFound, "Too many objects"},
		{400, "APPAP007E", CategoryConnection, "Connection to Vault failed"},
		{400, "APPAP081E", CategoryValidation, "Request validation error"},
		{400, "CASVL010E", CategoryValidation, "Request validation error"},
		{400, "AIMWS031E", CategoryValidation, "Request validation error"},
		{400, "APPAP999E", CategoryGeneral, "Bad Request"},
		{403, "APPAP306E", CategoryAuthentication, "Authentication failed"},
		{403, "APPAP008E", CategoryAuthorization, "User not defined"},
		{403, "APPAP999E", CategoryAuthorization, "Authorization failed"},
		{404, "APPAP004E", CategoryAccountNotFound, "Safe not found"},
		{404, "APPAP999E", CategoryAccountNotFound, "Resource not found"},
		{500, "APPAP282E", CategoryGeneral, "Password change in progress"},
		{500, "APPAP999E", CategoryGeneral, "Internal server error"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d_%s", tc.status, tc.code), func(t *testing.T) {
			t.Parallel()

			err := classifyResponse(tc.status, errorBody(tc.code, "server detail"))
			require.NotNil(t, err)
			assert.Equal(t, tc.category, err.Category)
			assert.Equal(t, tc.status, err.StatusCode)
			assert.Equal(t, tc.code, err.ErrorCode)
			assert.Contains(t, err.Message, tc.summary)
			assert.Contains(t, err.Message, tc.code)
			assert.Contains(t, err.Message, "server detail")
		})
	}
}

func TestClassifyResponse_UnknownStatusIncludesNumericCode(t *testing.T) {
	t.Parallel()

	err := classifyResponse(418, errorBody("APPAP001E", "teapot"))
	require.NotNil(t, err)
	assert.Equal(t, CategoryGeneral, err.Category)
	assert.Contains(t, err.Message, "418")
	assert.Contains(t, err.Message, "APPAP001E")
	assert.Contains(t, err.Message, "teapot")
}

func TestClassifyResponse_EmptyErrorBody(t *testing.T) {
	t.Parallel()

	err := classifyResponse(400, []byte(`{}`))
	require.NotNil(t, err)
	assert.Equal(t, CategoryGeneral, err.Category)
	assert.Contains(t, err.Message, "Unknown")
	assert.Contains(t, err.Message, "No message provided")
}

func TestClassifyResponse_NonJSONFallback(t *testing.T) {
	t.Parallel()

	const raw = "<html>gateway exploded</html>"

	testCases := []struct {
		status   int
		category Category
		summary  string
	}{
		{400, CategoryValidation, "Bad Request"},
		{403, CategoryAuthentication, "Forbidden"},
		{404, CategoryAccountNotFound, "Not Found"},
		{500, CategoryGeneral, "Internal Server Error"},
		{502, CategoryGeneral, "HTTP error 502"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			t.Parallel()

			err := classifyResponse(tc.status, []byte(raw))
			require.NotNil(t, err)
			assert.Equal(t, tc.category, err.Category)
			assert.Contains(t, err.Message, tc.summary)
			assert.Contains(t, err.Message, raw)
			assert.Empty(t, err.ErrorCode)
		})
	}
}

func TestClassifyResponse_EmptyBodyUsesStatusText(t *testing.T) {
	t.Parallel()

	err := classifyResponse(404, nil)
	require.NotNil(t, err)
	assert.Equal(t, CategoryAccountNotFound, err.Category)
	assert.Contains(t, err.Message, "Not Found")
}
