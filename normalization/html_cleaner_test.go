package normalization

import (
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "Родился в Москве",
			expected: "Родился в Москве",
		},
		{
			name:     "nbsp and dashes normalized",
			input:    "1920&nbsp;– 1980",
			expected: "1920 - 1980",
		},
		{
			name:     "span unwrapped",
			input:    "<p><span>Биография</span> ученого</p>",
			expected: "<p>Биография ученого</p>",
		},
		{
			name:     "nested wrappers unwrapped",
			input:    "<div><div><span>текст</span></div></div>",
			expected: "текст",
		},
		{
			name:     "adjacent italics merged",
			input:    "<i>Труды</i><i> по геологии</i>",
			expected: "<i>Труды по геологии</i>",
		},
		{
			name:     "anchor name removed",
			input:    `<a name="_ftn1">сноска</a>`,
			expected: "сноска",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanHTML(tt.input)
			if got != tt.expected {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanHTML_StripsScripts(t *testing.T) {
	input := `<p>Библиография</p><script>alert(1)</script><style>p{}</style>`
	got := CleanHTML(input)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") || strings.Contains(got, "style") {
		t.Errorf("CleanHTML left script/style content: %q", got)
	}
	if !strings.Contains(got, "Библиография") {
		t.Errorf("CleanHTML dropped content: %q", got)
	}
}

func TestCleanHTML_CollapsesWhitespace(t *testing.T) {
	got := CleanHTML("строка  с\t\tпробелами\n\n\n\nи пустотами")
	if strings.Contains(got, "  ") || strings.Contains(got, "\n\n\n") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}
