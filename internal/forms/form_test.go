package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

func TestParseFieldKind(t *testing.T) {
	cases := []struct {
		wire  string
		want  FieldKind
		known bool
	}{
		{"text", KindText, true},
		{"number", KindNumber, true},
		{"password", KindSecret, true},
		{"secret", KindSecret, true},
		{"PASSWORD", KindSecret, true},
		{" text ", KindText, true},
		{"checkbox", KindText, false},
		{"", KindText, false},
	}
	for _, c := range cases {
		got, known := ParseFieldKind(c.wire)
		assert.Equal(t, c.want, got, "wire type %q", c.wire)
		assert.Equal(t, c.known, known, "wire type %q", c.wire)
	}
}

func TestMissingRequired(t *testing.T) {
	fields := []client.FieldDescriptor{
		{Name: "host", Label: "Host", Type: "text", Required: true},
		{Name: "port", Label: "Port", Type: "number", Required: true},
		{Name: "user", Label: "User", Type: "text", Required: true},
		{Name: "comment", Label: "Comment", Type: "text", Required: false},
	}

	missing := MissingRequired(fields, map[string]interface{}{
		"host":    "localhost",
		"user":    "   ",
		"comment": "",
	})
	assert.Equal(t, []string{"Port", "User"}, missing, "labels in descriptor order, blanks count as missing")

	assert.Empty(t, MissingRequired(fields, map[string]interface{}{
		"host": "localhost",
		"port": 3306,
		"user": "root",
	}))
}

func mysqlType() client.DataSourceType {
	return client.DataSourceType{
		Type:        "mysql",
		DisplayName: "MySQL",
		Fields: []client.FieldDescriptor{
			{Name: "host", Label: "Host", Type: "text", Required: true},
			{Name: "password", Label: "Password", Type: "password", Required: false},
		},
	}
}

func TestWizard_HappyPath(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StateClosed, w.State())

	w.Open([]client.DataSourceType{mysqlType()})
	assert.Equal(t, StateTypeSelection, w.State())

	require.NoError(t, w.ChooseType("mysql"))
	assert.Equal(t, StateFieldEntry, w.State())
	chosen, ok := w.ChosenType()
	require.True(t, ok)
	assert.Equal(t, "MySQL", chosen.DisplayName)

	var gotName, gotEngine string
	ok = w.Submit("mysql_db", map[string]interface{}{"host": "localhost"}, func(name, engine string, parameters map[string]interface{}) (bool, string) {
		gotName, gotEngine = name, engine
		return true, ""
	})
	require.True(t, ok)
	assert.Equal(t, StateSuccess, w.State())
	assert.Equal(t, "mysql_db", gotName)
	assert.Equal(t, "mysql", gotEngine)
	assert.Empty(t, w.Err())

	w.Close()
	assert.Equal(t, StateClosed, w.State())
	_, ok = w.ChosenType()
	assert.False(t, ok)
}

func TestWizard_ChooseUnknownType(t *testing.T) {
	w := NewWizard()
	w.Open([]client.DataSourceType{mysqlType()})

	err := w.ChooseType("oracle")
	require.Error(t, err)
	assert.Equal(t, StateTypeSelection, w.State())
}

func TestWizard_ChooseTypeOutOfOrder(t *testing.T) {
	w := NewWizard()
	assert.Error(t, w.ChooseType("mysql"))
}

func TestWizard_SubmitValidation(t *testing.T) {
	w := NewWizard()
	w.Open([]client.DataSourceType{mysqlType()})
	require.NoError(t, w.ChooseType("mysql"))

	called := false
	submit := func(name, engine string, parameters map[string]interface{}) (bool, string) {
		called = true
		return true, ""
	}

	assert.False(t, w.Submit("  ", map[string]interface{}{"host": "localhost"}, submit))
	assert.Equal(t, "Connection name is required", w.Err())

	assert.False(t, w.Submit("mysql_db", map[string]interface{}{}, submit))
	assert.Equal(t, "Required fields missing: Host", w.Err())

	assert.False(t, called, "validation failures must not reach the submit function")
	assert.Equal(t, StateFieldEntry, w.State())
}

func TestWizard_SubmitFailureReturnsToFieldEntry(t *testing.T) {
	w := NewWizard()
	w.Open([]client.DataSourceType{mysqlType()})
	require.NoError(t, w.ChooseType("mysql"))

	ok := w.Submit("mysql_db", map[string]interface{}{"host": "localhost"}, func(name, engine string, parameters map[string]interface{}) (bool, string) {
		return false, "Connection failed: access denied"
	})
	assert.False(t, ok)
	assert.Equal(t, StateFieldEntry, w.State())
	assert.Equal(t, "Connection failed: access denied", w.Err())

	// The corrected form can be resubmitted from the same state.
	ok = w.Submit("mysql_db", map[string]interface{}{"host": "localhost"}, func(name, engine string, parameters map[string]interface{}) (bool, string) {
		return true, ""
	})
	assert.True(t, ok)
	assert.Equal(t, StateSuccess, w.State())
}

func TestWizard_SubmitFailureWithoutMessage(t *testing.T) {
	w := NewWizard()
	w.Open([]client.DataSourceType{mysqlType()})
	require.NoError(t, w.ChooseType("mysql"))

	w.Submit("mysql_db", map[string]interface{}{"host": "h"}, func(name, engine string, parameters map[string]interface{}) (bool, string) {
		return false, ""
	})
	assert.Equal(t, "Failed to create data source", w.Err())
}
