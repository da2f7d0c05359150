package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"app.yaml", "", FormatYAML},
		{"app.YML", "", FormatYAML},
		{"app.jsonc", "", FormatJSONC},
		{"app.json", "name: foo", FormatJSON},
		{"", `{"name": "foo"}`, FormatJSON},
		{"", `[1, 2]`, FormatJSON},
		{"", "{\n// comment\n\"name\": \"foo\"}", FormatJSONC},
		{"", "name: foo", FormatYAML},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, DetectFormat(test.name, test.data), "%s %s", test.name, test.data)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   interface{}
	}{
		{"json", `{"name": "foo", "list": [1, 2]}`, FormatJSON, map[string]interface{}{"name": "foo", "list": []interface{}{1.0, 2.0}}},
		{"jsonc", "{\n  // the name\n  \"name\": \"foo\" /* inline */\n}", FormatJSONC, map[string]interface{}{"name": "foo"}},
		{"json with comments", "{\"name\": \"foo\" // trailing\n}", FormatJSON, map[string]interface{}{"name": "foo"}},
		{"broken json", `{"name": "foo",}`, FormatJSON, map[string]interface{}{"name": "foo"}},
		{"jsonc trailing comma", "{\"a\": 1, // c\n}", FormatJSONC, map[string]interface{}{"a": 1.0}},
		{"jsonc trailing comma in array", "[1, 2, /* last */]", FormatJSONC, []interface{}{1.0, 2.0}},
		{"yaml", "name: foo\nnested:\n  count: 1\n", FormatYAML, map[string]interface{}{"name": "foo", "nested": map[string]interface{}{"count": 1}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := Parse(test.data, test.format)
			require.Nil(t, err)
			assert.Equal(t, test.want, res)
		})
	}

	_, err := Parse("name: [unclosed", FormatYAML)
	assert.NotNil(t, err)

	_, err = Parse("{/* unclosed", FormatJSONC)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not closed")

	res, err := Parse("{\"a\": 1, // comment\n}", DetectFormat("", "{\"a\": 1, // comment\n}"))
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1.0}, res)
}

func TestParseFile(t *testing.T) {
	var v struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}

	require.Nil(t, ParseFile("app.yaml", []byte("name: foo\ncount: 2\n"), &v))
	assert.Equal(t, "foo", v.Name)
	assert.Equal(t, 2, v.Count)

	require.Nil(t, ParseFile("app.jsonc", []byte(`{"name": "bar", /* c */ "count": 3}`), &v))
	assert.Equal(t, "bar", v.Name)
	assert.Equal(t, 3, v.Count)

	require.Nil(t, ParseFile("app.jsonc", []byte(`{"name": "baz", "count": 4,}`), &v))
	assert.Equal(t, "baz", v.Name)
	assert.Equal(t, 4, v.Count)
}

func TestRepair(t *testing.T) {
	res, err := Repair(`{"name": "foo"`)
	require.Nil(t, err)
	assert.Equal(t, `{"name": "foo"}`, res)
}

func TestTrimComments(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"{\"a\": 1} // comment", `{"a": 1} `},
		{"{\"a\": 1, // comment\n\"b\": 2}", "{\"a\": 1, \n\"b\": 2}"},
		{`{"a": /* block */ 1}`, `{"a":  1}`},
		{`{"url": "http://example.com"}`, `{"url": "http://example.com"}`},
		{`{"s": "quote \" // not a comment"}`, `{"s": "quote \" // not a comment"}`},
		{`{"s": "/* kept */"}`, `{"s": "/* kept */"}`},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, string(TrimComments([]byte(test.data))), test.data)
	}
}
