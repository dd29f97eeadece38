package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		vars     map[string]string
		expected string
	}{
		{
			name:     "basic substitution",
			content:  "Hello {{company_name}}, your site scored {{score}}.",
			vars:     map[string]string{"company_name": "Acme", "score": "87"},
			expected: "Hello Acme, your site scored 87.",
		},
		{
			name:     "whitespace inside braces tolerated",
			content:  "Hello {{ company_name }}!",
			vars:     map[string]string{"company_name": "Acme"},
			expected: "Hello Acme!",
		},
		{
			name:     "unknown placeholder left verbatim",
			content:  "Hello {{company_name}}, from {{reviewer}}.",
			vars:     map[string]string{"company_name": "Acme"},
			expected: "Hello Acme, from {{reviewer}}.",
		},
		{
			name:     "repeated placeholder",
			content:  "{{x}} and {{x}}",
			vars:     map[string]string{"x": "one"},
			expected: "one and one",
		},
		{
			name:     "no placeholders",
			content:  "Static copy.",
			vars:     map[string]string{"company_name": "Acme"},
			expected: "Static copy.",
		},
		{
			name:     "nil vars",
			content:  "Hello {{company_name}}",
			vars:     nil,
			expected: "Hello {{company_name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := &CopyTemplate{Name: "test", Content: tt.content}
			assert.Equal(t, tt.expected, tmpl.Render(tt.vars))
		})
	}
}
