package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^$|^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"already slug", "hello-world", "hello-world"},
		{"diacritics stripped", "Crème Brûlée", "creme-brulee"},
		{"punctuation collapses", "Go 1.24: What's New?!", "go-1-24-what-s-new"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"non-ascii run becomes one hyphen", "Go语言入门Guide", "go-guide"},
		{"empty", "", ""},
		{"fully non-representable", "中文标题", ""},
		{"only punctuation", "!!!", ""},
		{"mixed case", "MiXeD CaSe", "mixed-case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMake_OutputShape(t *testing.T) {
	titles := []string{
		"Hello World", "", "中文", "a--b", "-a-", "A!B@C#1$2%3",
		"  spaces  everywhere  ", "éèêë", "Ünïcödé Tïtle", "123", "_",
	}
	for _, title := range titles {
		got := Make(title)
		assert.Regexp(t, slugPattern, got, "slug for %q", title)
	}
}
