package pagination

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBuilder resolves to /items?<query> and counts its invocations.
type recordingBuilder struct {
	calls atomic.Int32
	fail  map[string]bool // page values that fail to resolve
}

func (b *recordingBuilder) build(p Params) (string, error) {
	b.calls.Add(1)
	if page, ok := p["page"].(string); ok && b.fail[page] {
		return "", fmt.Errorf("no route for page %s", page)
	}
	return "/items?" + p.Encode(), nil
}

func newTestRenderer(t *testing.T, opts Options) (*Renderer, *recordingBuilder) {
	t.Helper()
	b := &recordingBuilder{}
	if opts.URLBuilder == nil {
		opts.URLBuilder = b.build
	}
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	return r, b
}

func TestRenderer_Render(t *testing.T) {
	r, b := newTestRenderer(t, Options{
		Policy: Policy{InnerWindow: 1, OuterWindow: 1},
		Params: Params{"foo": "1"},
	})

	links := r.Render(State{CurrentPage: 5, TotalPages: 10})

	require.Len(t, links, 7)
	wantPages := []int{1, 0, 4, 5, 6, 0, 10}
	for i, l := range links {
		assert.Equal(t, wantPages[i], l.Page())
		if l.Token.IsGap() {
			assert.False(t, l.HasURL)
			assert.Empty(t, l.URL)
			continue
		}
		assert.True(t, l.HasURL)
		assert.Equal(t, fmt.Sprintf("/items?foo=1&page=%d", l.Page()), l.URL)
		assert.Equal(t, l.Page() == 5, l.IsCurrent)
	}

	// gaps never reach the builder
	assert.Equal(t, int32(5), b.calls.Load())
}

func TestRenderer_Rel(t *testing.T) {
	r, _ := newTestRenderer(t, Options{Policy: Policy{InnerWindow: 1, OuterWindow: 1}})

	links := r.Render(State{CurrentPage: 2, TotalPages: 5})

	rels := map[int]string{}
	for _, l := range links {
		if !l.Token.IsGap() {
			rels[l.Page()] = l.Rel
		}
	}
	assert.Equal(t, "prev start", rels[1])
	assert.Equal(t, "", rels[2])
	assert.Equal(t, "next", rels[3])
	assert.Equal(t, "", rels[5])
}

func TestRenderer_EmptyCollection(t *testing.T) {
	r, b := newTestRenderer(t, Options{Policy: DefaultPolicy()})
	s := State{CurrentPage: 1, TotalPages: 0}

	assert.Empty(t, r.Render(s))
	assert.Nil(t, r.Previous(s))
	assert.Nil(t, r.Next(s))
	assert.Equal(t, int32(0), b.calls.Load())
}

func TestRenderer_PreviousNext(t *testing.T) {
	r, _ := newTestRenderer(t, Options{Policy: DefaultPolicy()})

	first := State{CurrentPage: 1, TotalPages: 5}
	assert.Nil(t, r.Previous(first))
	next := r.Next(first)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Page())
	assert.Equal(t, "/items?page=2", next.URL)
	assert.Equal(t, "next", next.Rel)
	assert.False(t, next.IsCurrent)

	last := State{CurrentPage: 5, TotalPages: 5}
	assert.Nil(t, r.Next(last))
	prev := r.Previous(last)
	require.NotNil(t, prev)
	assert.Equal(t, "/items?page=4", prev.URL)

	single := State{CurrentPage: 1, TotalPages: 1}
	assert.Nil(t, r.Previous(single))
	assert.Nil(t, r.Next(single))
}

func TestRenderer_Blacklist(t *testing.T) {
	t.Run("default blacklist strips routing keys", func(t *testing.T) {
		r, _ := newTestRenderer(t, Options{
			Policy: DefaultPolicy(),
			Params: Params{"q": "x", "script_name": "/app", "original_script_name": "/app"},
		})
		u, err := r.URL(2)
		require.NoError(t, err)
		assert.Equal(t, "/items?page=2&q=x", u)
	})

	t.Run("empty blacklist forwards everything", func(t *testing.T) {
		r, _ := newTestRenderer(t, Options{
			Policy:    DefaultPolicy(),
			Blacklist: []string{},
			Params:    Params{"script_name": "/app"},
		})
		u, err := r.URL(2)
		require.NoError(t, err)
		assert.Equal(t, "/items?page=2&script_name=%2Fapp", u)
	})

	t.Run("blacklist never blocks the page param", func(t *testing.T) {
		r, _ := newTestRenderer(t, Options{
			Policy:    DefaultPolicy(),
			Blacklist: []string{"page", "token"},
			Params:    Params{"page": "9", "token": "secret"},
		})
		u, err := r.URL(3)
		require.NoError(t, err)
		assert.Equal(t, "/items?page=3", u)
	})

	t.Run("extra params bypass the blacklist", func(t *testing.T) {
		r, _ := newTestRenderer(t, Options{
			Policy: DefaultPolicy(),
			Params: Params{"q": "x", "script_name": "/request"},
			Extra:  Params{"script_name": "/mounted"},
		})
		u, err := r.URL(2)
		require.NoError(t, err)
		assert.Equal(t, "/items?page=2&q=x&script_name=%2Fmounted", u)
	})
}

func TestRenderer_ExtraParams(t *testing.T) {
	r, _ := newTestRenderer(t, Options{
		Policy: DefaultPolicy(),
		Params: Params{"sort": "date", "q": "x"},
		Extra:  Params{"sort": "name"},
	})

	u, err := r.URL(1)
	require.NoError(t, err)
	assert.Equal(t, "/items?page=1&q=x&sort=name", u)
}

func TestRenderer_NestedPageParam(t *testing.T) {
	tests := []struct {
		name      string
		pageParam string
		params    Params
		want      Params
	}{
		{
			name:      "bracketed key merges with siblings",
			pageParam: "filter[page]",
			params:    Params{"filter": Params{"status": "open"}, "q": "x"},
			want:      Params{"filter": Params{"status": "open", "page": "2"}, "q": "x"},
		},
		{
			name:      "bracketed key replaces scalar",
			pageParam: "filter[page]",
			params:    Params{"filter": "all"},
			want:      Params{"filter": Params{"page": "2"}},
		},
		{
			name:      "flat spelling of the nested key is removed",
			pageParam: "filter[page]",
			params:    Params{"filter[page]": "9"},
			want:      Params{"filter": Params{"page": "2"}},
		},
		{
			name:      "dotted key stays flat",
			pageParam: "list.page",
			params:    Params{"q": "x"},
			want:      Params{"list.page": "2", "q": "x"},
		},
		{
			name:      "simple key with dash",
			pageParam: "page-no",
			params:    Params{},
			want:      Params{"page-no": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t, Options{
				Policy:    DefaultPolicy(),
				PageParam: tt.pageParam,
				Params:    tt.params,
			})
			assert.Equal(t, tt.want, r.Params(2))

			// the renderer's base params are not modified by a link
			assert.Equal(t, tt.want, r.Params(2))
		})
	}
}

func TestRenderer_NestedPageParamURL(t *testing.T) {
	r, _ := newTestRenderer(t, Options{
		Policy:    DefaultPolicy(),
		PageParam: "filter[page]",
		Params:    Params{"filter": Params{"status": "open"}},
	})

	u, err := r.URL(2)
	require.NoError(t, err)
	assert.Equal(t, "/items?filter%5Bpage%5D=2&filter%5Bstatus%5D=open", u)
}

func TestRenderer_BuilderErrorsArePerLink(t *testing.T) {
	b := &recordingBuilder{fail: map[string]bool{"3": true}}
	r, err := NewRenderer(Options{
		Policy:     Policy{InnerWindow: 1, OuterWindow: 1},
		URLBuilder: b.build,
	})
	require.NoError(t, err)

	links := r.Render(State{CurrentPage: 2, TotalPages: 4})

	require.Len(t, links, 4)
	for _, l := range links {
		if l.Page() == 3 {
			assert.Error(t, l.Err)
			assert.False(t, l.HasURL)
			continue
		}
		assert.NoError(t, l.Err)
		assert.True(t, l.HasURL)
	}
	assert.Error(t, Errors(links))

	_, err = r.URL(3)
	assert.EqualError(t, err, "no route for page 3")

	next := r.Next(State{CurrentPage: 2, TotalPages: 4})
	require.NotNil(t, next)
	assert.Error(t, next.Err)
}

func TestErrors_NoFailures(t *testing.T) {
	assert.NoError(t, Errors([]Link{{Token: PageToken(1), HasURL: true}, {Token: Gap}}))
	assert.NoError(t, Errors(nil))
}

func TestNewRenderer_Validation(t *testing.T) {
	_, err := NewRenderer(Options{Policy: Policy{InnerWindow: -1}, URLBuilder: func(Params) (string, error) { return "", nil }})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPolicy))

	_, err = NewRenderer(Options{Policy: DefaultPolicy()})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestRenderer_ConcurrentUse(t *testing.T) {
	r, _ := newTestRenderer(t, Options{
		Policy: DefaultPolicy(),
		Params: Params{"filter": Params{"status": "open"}},
	})
	want := r.Render(State{CurrentPage: 7, TotalPages: 30})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, r.Render(State{CurrentPage: 7, TotalPages: 30}))
		}()
	}
	wg.Wait()
}
