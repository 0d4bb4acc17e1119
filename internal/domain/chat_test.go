package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEscapesBeforeFilters(t *testing.T) {
	f, err := NewChatFilter(ChatFilterData{Source: "<script>", Replacement: "PWNED", Enabled: true})
	require.NoError(t, err)

	out := SanitizeMessage("<script>alert(1)</script>", NewChatFilters(f))
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", out)
}

func TestDefaultFilters(t *testing.T) {
	fs := DefaultChatFilters()

	assert.Equal(t, "<code>x</code> <strong>b</strong>", SanitizeMessage("`x` *b*", fs))
	assert.Equal(t, "a <em>b</em>", SanitizeMessage("a _b_", fs))
	assert.Equal(t, "[](/kappa)", SanitizeMessage(`\kappa`, fs))
	assert.Equal(t, "<strong>a</strong> <strong>b</strong>", SanitizeMessage("*a* *b*", fs))
}

func TestAutolink(t *testing.T) {
	assert.Equal(t,
		`see <a href="https://example.com/x" target="_blank">https://example.com/x</a> now`,
		Autolink("see https://example.com/x now"),
	)
	assert.Equal(t, "no links", Autolink("no links"))
}

func TestDisabledFilterSkipped(t *testing.T) {
	f, err := NewChatFilter(ChatFilterData{Source: "cat", Replacement: "dog", Enabled: false})
	require.NoError(t, err)

	assert.Equal(t, "cat", SanitizeMessage("cat", NewChatFilters(f)))
}

func TestFiltersUpdateAndRemove(t *testing.T) {
	fs := DefaultChatFilters()
	n := fs.Len()

	f, err := NewChatFilter(ChatFilterData{Source: `\*([^\*]+)\*`, Replacement: "<b>$1</b>", Enabled: true})
	require.NoError(t, err)
	fs.Update(f)
	assert.Equal(t, n, fs.Len())
	assert.Equal(t, "<b>x</b>", fs.Apply("*x*"))
	assert.Equal(t, `\*([^\*]+)\*`, fs.Data()[1].Source)

	extra, err := NewChatFilter(ChatFilterData{Source: "foo", Replacement: "bar", Enabled: true})
	require.NoError(t, err)
	fs.Update(extra)
	assert.Equal(t, n+1, fs.Len())
	assert.Equal(t, "foo", fs.Data()[n].Source)

	assert.True(t, fs.Remove("foo"))
	assert.False(t, fs.Remove("foo"))
	assert.Equal(t, n, fs.Len())
}

func TestNewChatFilterInvalid(t *testing.T) {
	_, err := NewChatFilter(ChatFilterData{Source: "(", Replacement: ""})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestReplacementWholeMatch(t *testing.T) {
	f, err := NewChatFilter(ChatFilterData{Source: "hi", Replacement: "[$&]", Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "[hi] [hi]", f.Apply("hi hi"))
}

func TestClassifyMessage(t *testing.T) {
	class, cmd := ClassifyMessage("/me waves")
	assert.True(t, cmd)
	assert.Equal(t, MsgClassNone, class)

	class, cmd = ClassifyMessage(">implying")
	assert.False(t, cmd)
	assert.Equal(t, MsgClassGreentext, class)

	class, cmd = ClassifyMessage("hello")
	assert.False(t, cmd)
	assert.Equal(t, MsgClassNone, class)
}

func TestNewMotd(t *testing.T) {
	m := NewMotd("<b>hi</b>\nhttp://a.io/x")
	assert.Equal(t, "<b>hi</b>\nhttp://a.io/x", m.Motd)
	assert.Equal(t, `&lt;b&gt;hi&lt;/b&gt;<br><a href="http://a.io/x" target="_blank">http://a.io/x</a>`, m.HTML)
}
