package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestEncodeParams(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want string
	}{
		{name: "nil", in: nil, want: "{}"},
		{name: "empty", in: Params{}, want: "{}"},
		{name: "quotes", in: NewParams("url", "https://a.example"), want: `{&quot;url&quot;:&quot;https://a.example&quot;}`},
		{name: "apostrophe", in: NewParams("q", "it's"), want: `{&quot;q&quot;:&quot;it&#039;s&quot;}`},
		{name: "markup escaped by json", in: NewParams("n", "<b>&"), want: `{&quot;n&quot;:&quot;\u003cb\u003e\u0026&quot;}`},
		{name: "submission order", in: NewParams("zeta", "1", "alpha", "2"), want: `{&quot;zeta&quot;:&quot;1&quot;,&quot;alpha&quot;:&quot;2&quot;}`},
		{name: "typed values", in: Params{{ID: "limit", Value: raw("5")}, {ID: "on", Value: raw("true")}}, want: `{&quot;limit&quot;:5,&quot;on&quot;:true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeParams(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParams_InvalidValue(t *testing.T) {
	_, err := EncodeParams(Params{{ID: "x", Value: raw("{")}})
	assert.ErrorContains(t, err, "encode params")
}

func TestParams_RoundTrip(t *testing.T) {
	in := NewParams("url", `https://example.com/feed?a=1&b="2"`, "section", "it's <main>", "empty", "", "unicode", "Grüße")
	stored, err := EncodeParams(in)
	require.NoError(t, err)

	out, err := DecodeParams(stored)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParams_RoundTripKeepsTypesAndOrder(t *testing.T) {
	var in Params
	require.NoError(t, json.Unmarshal(
		[]byte(`{"zeta":"a","limit":5,"enabled":true,"tags":["x", "y"],"alpha":null,"opts":{"b":1,"a":2}}`), &in))

	stored, err := EncodeParams(in)
	require.NoError(t, err)
	out, err := DecodeParams(stored)
	require.NoError(t, err)

	want := Params{
		{ID: "zeta", Value: raw(`"a"`)},
		{ID: "limit", Value: raw(`5`)},
		{ID: "enabled", Value: raw(`true`)},
		{ID: "tags", Value: raw(`["x","y"]`)},
		{ID: "alpha", Value: raw(`null`)},
		{ID: "opts", Value: raw(`{"b":1,"a":2}`)},
	}
	assert.Equal(t, want, out)

	back, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"a","limit":5,"enabled":true,"tags":["x","y"],"alpha":null,"opts":{"b":1,"a":2}}`, string(back))
}

func TestDecodeParams_LegacyRows(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Params
	}{
		{name: "empty column", stored: "", want: Params{}},
		{name: "php empty array", stored: "[]", want: Params{}},
		{name: "null", stored: "null", want: Params{}},
		{name: "plain json", stored: `{"url":"https://a.example"}`, want: NewParams("url", "https://a.example")},
		{name: "named entities", stored: `{&quot;limit&quot;:&quot;20&quot;}`, want: NewParams("limit", "20")},
		{name: "numeric entity", stored: `{&#34;x&#34;:&#34;y&#34;}`, want: NewParams("x", "y")},
		{name: "number value", stored: `{"limit":20,"ratio":0.5}`, want: Params{{ID: "limit", Value: raw("20")}, {ID: "ratio", Value: raw("0.5")}}},
		{name: "repeated key", stored: `{"a":"1","b":"2","a":"3"}`, want: NewParams("a", "3", "b", "2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParams(tt.stored)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeParams_Invalid(t *testing.T) {
	for _, stored := range []string{`{"url":`, `["a"]`, `"text"`, `42`} {
		_, err := DecodeParams(stored)
		assert.ErrorContains(t, err, "decode params", stored)
	}
}

func TestParam_Text(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{`"plain"`, "plain"},
		{`"<b>"`, "<b>"},
		{`20`, "20"},
		{`-0.5e3`, "-0.5e3"},
		{`true`, "1"},
		{`false`, ""},
		{`null`, ""},
		{``, ""},
		{`["a","b"]`, `["a","b"]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Param{ID: "p", Value: raw(tt.value)}.Text(), tt.value)
	}
}

func TestParams_Lookup(t *testing.T) {
	p := NewParams("url", "u", "limit", "20")
	p = p.Set("limit", raw("30"))
	p = p.SetString("extra", "x")

	assert.True(t, p.Has("url"))
	assert.False(t, p.Has("missing"))
	assert.Equal(t, "30", p.Text("limit"))
	assert.Equal(t, "", p.Text("missing"))

	v, ok := p.Value("url")
	require.True(t, ok)
	assert.Equal(t, raw(`"u"`), v)

	ids := make([]string, 0, len(p))
	for _, param := range p {
		ids = append(ids, param.ID)
	}
	assert.Equal(t, []string{"url", "limit", "extra"}, ids)
}

func TestNewParams_OddArguments(t *testing.T) {
	assert.Panics(t, func() { NewParams("url") })
}
