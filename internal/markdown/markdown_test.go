package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# ゴドリック攻略

導入文です。

## 第一形態

- 接近して**攻撃**
- 回避を優先

## 第二形態

### 炎のブレス

距離をとる。
`

func TestRender(t *testing.T) {
	html := string(Render(sample))
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<li>接近して<strong>攻撃</strong></li>")
}

func TestRenderDropsRawHTML(t *testing.T) {
	html := string(Render("本文<script>alert(1)</script>"))
	assert.NotContains(t, html, "<script>")
}

func TestHeadings(t *testing.T) {
	headings := Headings(sample)
	require.Len(t, headings, 3)
	assert.Equal(t, "第一形態", headings[0].Text)
	assert.Equal(t, 2, headings[0].Level)
	assert.Equal(t, 3, headings[2].Level)
	assert.Equal(t, "炎のブレス", headings[2].Text)
	for _, h := range headings {
		assert.NotEmpty(t, h.ID)
	}
}

func TestPlainText(t *testing.T) {
	plain := PlainText(sample)
	assert.NotContains(t, plain, "**")
	assert.NotContains(t, plain, "#")
	assert.True(t, strings.HasPrefix(plain, "ゴドリック攻略"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "ゴドリック…", Excerpt(sample, 5))
	assert.Equal(t, "短い", Excerpt("短い", 10))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime(sample))
	assert.Equal(t, 3, ReadTime(strings.Repeat("あ", 1001)))
}
