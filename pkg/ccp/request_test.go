package ccp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParams_MissingCriteria(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  Request
	}{
		{name: "empty request", req: Request{}},
		// Folder and Reason do not count toward the minimum criteria.
		{name: "folder only", req: Request{Folder: String("Root")}},
		{name: "reason only", req: Request{Reason: String("audit")}},
		{name: "empty strings", req: Request{Safe: String(""), Query: String("")}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildParams("my-app", tc.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), "application ID and at least one other parameter")
		})
	}
}

func TestBuildParams_AppIDAlwaysFirst(t *testing.T) {
	t.Parallel()

	p, err := buildParams("my-app", Request{Safe: String("Billing")})
	require.NoError(t, err)
	require.NotEmpty(t, p)
	assert.Equal(t, "AppID", p[0].name)
	assert.Equal(t, "my-app", p[0].value)
}

func TestBuildParams_QuerySupersedesDiscreteFields(t *testing.T) {
	t.Parallel()

	format := QueryFormatRegexp
	p, err := buildParams("my-app", Request{
		Query:       String("Safe=X"),
		QueryFormat: &format,
		Safe:        String("Y"),
		Object:      String("ignored-too"),
		Username:    String("ignored-three"),
	})
	require.NoError(t, err)

	query, ok := p.get("Query")
	require.True(t, ok)
	assert.Equal(t, "Safe=X", query)

	qf, ok := p.get("Query Format")
	require.True(t, ok)
	assert.Equal(t, "Regexp", qf)

	for _, suppressed := range []string{"Safe", "Folder", "Object", "UserName", "Address", "Database", "PolicyID"} {
		_, present := p.get(suppressed)
		assert.False(t, present, "discrete field %s must not accompany Query", suppressed)
	}
}

func TestBuildParams_QueryFormatOmittedWhenUnset(t *testing.T) {
	t.Parallel()

	p, err := buildParams("my-app", Request{Query: String("Object=db")})
	require.NoError(t, err)

	_, present := p.get("Query Format")
	assert.False(t, present)
}

func TestBuildParams_DiscreteFieldWireNames(t *testing.T) {
	t.Parallel()

	p, err := buildParams("my-app", Request{
		Safe:     String("Billing"),
		Folder:   String("Root"),
		Object:   String("postgres-prod"),
		Username: String("svc_billing"),
		Address:  String("db1.example.com"),
		Database: String("invoices"),
		PolicyID: String("PSQL"),
	})
	require.NoError(t, err)

	want := map[string]string{
		"Safe":     "Billing",
		"Folder":   "Root",
		"Object":   "postgres-prod",
		"UserName": "svc_billing",
		"Address":  "db1.example.com",
		"Database": "invoices",
		"PolicyID": "PSQL",
	}
	for name, value := range want {
		got, ok := p.get(name)
		require.True(t, ok, "missing wire parameter %s", name)
		assert.Equal(t, value, got)
	}
}

func TestBuildParams_AccountHasNoWireParameter(t *testing.T) {
	t.Parallel()

	// Account satisfies the minimum-criteria check but is never emitted.
	p, err := buildParams("my-app", Request{Account: String("billing-db")})
	require.NoError(t, err)
	assert.Len(t, p, 1)
	assert.Equal(t, "AppID", p[0].name)
}

func TestValidateParamValue_RestrictedCharacters(t *testing.T) {
	t.Parallel()

	for _, char := range []string{"+", "&", "%", ";"} {
		char := char
		t.Run(char, func(t *testing.T) {
			t.Parallel()

			err := validateParamValue("bad"+char+"value", "Safe")
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), "'Safe'")
			assert.Contains(t, err.Error(), "'"+char+"'")
		})
	}
}

func TestValidateParamValue_Spaces(t *testing.T) {
	t.Parallel()

	err := validateParamValue("two words", "Reason")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "'Reason'")
	assert.Contains(t, err.Error(), "spaces")
}

func TestBuildParams_ValidatesWireValuesOnly(t *testing.T) {
	t.Parallel()

	// The discrete fields are not validated when a query suppresses them.
	p, err := buildParams("my-app", Request{
		Query: String("Safe=X"),
		Safe:  String("has spaces and ; too"),
	})
	require.NoError(t, err)
	_, present := p.get("Safe")
	assert.False(t, present)
}

func TestBuildParams_ConnectionTimeout(t *testing.T) {
	t.Parallel()

	for _, invalid := range []int{0, -1} {
		_, err := buildParams("my-app", Request{
			Safe:              String("Billing"),
			ConnectionTimeout: Int(invalid),
		})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "Connection timeout must be positive")
	}

	p, err := buildParams("my-app", Request{
		Safe:              String("Billing"),
		ConnectionTimeout: Int(45),
	})
	require.NoError(t, err)
	got, ok := p.get("Connection Timeout")
	require.True(t, ok)
	assert.Equal(t, "45", got)
}

func TestBuildParams_FailRequestOnPasswordChange(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		flag    *bool
		want    string
		present bool
	}{
		{name: "explicit true", flag: Bool(true), want: "true", present: true},
		{name: "explicit false", flag: Bool(false), want: "false", present: true},
		{name: "omitted", flag: nil, present: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := buildParams("my-app", Request{
				Safe:                        String("Billing"),
				FailRequestOnPasswordChange: tc.flag,
			})
			require.NoError(t, err)

			got, ok := p.get("FailRequestOnPasswordChange")
			assert.Equal(t, tc.present, ok)
			if tc.present {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestBuildParams_Reason(t *testing.T) {
	t.Parallel()

	p, err := buildParams("my-app", Request{
		Query:  String("Safe=X"),
		Reason: String("ticket-4711"),
	})
	require.NoError(t, err)
	got, ok := p.get("Reason")
	require.True(t, ok)
	assert.Equal(t, "ticket-4711", got)

	_, err = buildParams("my-app", Request{
		Safe:   String("Billing"),
		Reason: String("has spaces"),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestParamsEncode(t *testing.T) {
	t.Parallel()

	p := params{
		{"AppID", "my-app"},
		{"Query Format", "Exact"},
	}
	assert.Equal(t, "AppID=my-app&Query+Format=Exact", p.Encode())
}

func TestQueryFormatString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Exact", QueryFormatExact.String())
	assert.Equal(t, "Regexp", QueryFormatRegexp.String())
}
