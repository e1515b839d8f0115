package pagination

import (
	"net/url"
	"testing"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		base      Params
		override  Params
		blacklist []string
		want      Params
	}{
		{
			name:     "override wins",
			base:     Params{"foo": "1", "page": "3"},
			override: Params{"page": "7"},
			want:     Params{"foo": "1", "page": "7"},
		},
		{
			name:      "blacklisted base key dropped",
			base:      Params{"foo": "1", "script_name": "/app"},
			override:  Params{"page": "2"},
			blacklist: []string{"script_name"},
			want:      Params{"foo": "1", "page": "2"},
		},
		{
			name:      "blacklisted override key dropped",
			base:      Params{"foo": "1"},
			override:  Params{"script_name": "/app", "bar": "2"},
			blacklist: []string{"script_name"},
			want:      Params{"foo": "1", "bar": "2"},
		},
		{
			name:     "nested maps merge",
			base:     Params{"filter": Params{"status": "open", "owner": "me"}},
			override: Params{"filter": Params{"status": "closed"}},
			want:     Params{"filter": Params{"status": "closed", "owner": "me"}},
		},
		{
			name:     "scalar replaces nested",
			base:     Params{"filter": Params{"status": "open"}},
			override: Params{"filter": "all"},
			want:     Params{"filter": "all"},
		},
		{
			name:     "loose maps are normalized",
			base:     Params{"filter": map[string]any{"status": "open"}},
			override: Params{"filter": map[string]string{"owner": "me"}},
			want:     Params{"filter": Params{"status": "open", "owner": "me"}},
		},
		{
			name:     "opaque values pass through",
			base:     Params{"n": 42},
			override: Params{"flag": true},
			want:     Params{"n": 42, "flag": true},
		},
		{
			name: "nil inputs",
			want: Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.override, tt.blacklist...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Params{"filter": Params{"status": "open"}, "tags": []string{"a"}}
	override := Params{"filter": Params{"owner": "me"}}

	got := Merge(base, override)
	got["tags"].([]string)[0] = "changed"
	got["filter"].(Params)["status"] = "changed"

	assert.Equal(t, Params{"filter": Params{"status": "open"}, "tags": []string{"a"}}, base)
	assert.Equal(t, Params{"filter": Params{"owner": "me"}}, override)
}

func TestMerge_BlacklistNeverLeaks(t *testing.T) {
	blacklist := []string{"script_name", "original_script_name"}
	inputs := []Params{
		{"script_name": "/x"},
		{"original_script_name": "/y", "page": "2"},
		{"script_name": Params{"nested": "1"}},
		{},
	}
	for _, base := range inputs {
		for _, override := range inputs {
			got := Merge(base, override, blacklist...)
			for _, key := range blacklist {
				assert.NotContains(t, got, key)
			}
		}
	}
}

func TestMerge_PageRoundTrip(t *testing.T) {
	bases := []Params{
		{},
		{"page": "3"},
		{"q": "shoes", "sort": "price"},
		{"filter": Params{"status": "open"}, "page": []string{"1", "2"}},
	}
	for _, base := range bases {
		for _, page := range []string{"1", "7", "1200"} {
			merged := Merge(base, Params{"page": page})
			got, ok := merged.Get("page")
			require.True(t, ok)
			assert.Equal(t, page, got)
		}
	}
}

func TestFromValues(t *testing.T) {
	values := url.Values{
		"filter[status]": {"open"},
		"filter[owner]":  {"me"},
		"ids[]":          {"1", "2"},
		"q":              {"go"},
		"tag":            {"a", "b"},
		"broken[":        {"x"},
		"empty":          {},
	}

	got := FromValues(values)

	assert.Equal(t, Params{
		"filter":  Params{"status": "open", "owner": "me"},
		"ids":     []string{"1", "2"},
		"q":       "go",
		"tag":     []string{"a", "b"},
		"broken[": "x",
	}, got)
}

func TestParseNested(t *testing.T) {
	got, err := ParseNested("a[b][c]=1&x=2&x=3&l[]=1&l[]=2&name=hello+world&flag")
	require.NoError(t, err)

	assert.Equal(t, Params{
		"a":    Params{"b": Params{"c": "1"}},
		"x":    "3",
		"l":    []string{"1", "2"},
		"name": "hello world",
		"flag": "",
	}, got)
}

func TestParseNested_Conflicts(t *testing.T) {
	for _, query := range []string{
		"a=1&a[b]=2",
		"a[b]=1&a=2",
		"a=1&a[]=2",
		"bad%zzkey=1",
	} {
		t.Run(query, func(t *testing.T) {
			_, err := ParseNested(query)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestParams_Encode(t *testing.T) {
	p := Params{
		"b": "2",
		"a": Params{"y": "1", "x": []string{"p", "q"}},
		"c": 3,
	}

	assert.Equal(t, "a%5Bx%5D%5B%5D=p&a%5Bx%5D%5B%5D=q&a%5By%5D=1&b=2&c=3", p.Encode())
	assert.Equal(t, "", Params{}.Encode())
	assert.Equal(t, "q=a+b%26c", Params{"q": "a b&c"}.Encode())
}

func TestParams_EncodeRoundTrip(t *testing.T) {
	p := Params{
		"filter": Params{"status": "open", "tags": []string{"x", "y"}},
		"page":   "4",
		"q":      "a=b",
	}

	parsed, err := ParseNested(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
}

func TestParams_Get(t *testing.T) {
	p := Params{"filter": Params{"page": "2"}, "q": "x"}

	v, ok := p.Get("filter", "page")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = p.Get("q", "deeper")
	assert.False(t, ok)

	_, ok = p.Get("missing")
	assert.False(t, ok)

	_, ok = p.Get()
	assert.False(t, ok)
}

func TestParams_Lookup(t *testing.T) {
	p := FromValues(url.Values{
		"page":         {"3"},
		"filter[page]": {"7"},
		"tags":         {"a", "b"},
	})

	v, ok := p.Lookup("page")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	v, ok = p.Lookup("filter[page]")
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	_, ok = p.Lookup("tags")
	assert.False(t, ok, "lists are not a single value")

	_, ok = p.Lookup("filter[missing]")
	assert.False(t, ok)
}
