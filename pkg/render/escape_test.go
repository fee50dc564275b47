package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"Hello, World!", "Hello, World!"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"a < b > c", "a &lt; b &gt; c"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#39;s"},
		{"<script>alert('xss')</script>", "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"},
		{"&amp;", "&amp;amp;"},
		{"Hello 世界 🌍", "Hello 世界 🌍"},
		{"line\nbreak", "line\nbreak"},
	}

	for _, tt := range tests {
		if got := escapeHTML(tt.input); got != tt.want {
			t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"simple-value", "simple-value"},
		{"a&b", "a&amp;b"},
		{`value="test"`, "value=&quot;test&quot;"},
		{"a\n\r\tb", "a&#10;&#13;&#9;b"},
		{`<>&"'` + "\n\r\t", "&lt;&gt;&amp;&quot;&#39;&#10;&#13;&#9;"},
	}

	for _, tt := range tests {
		if got := escapeAttr(tt.input); got != tt.want {
			t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func BenchmarkEscapeHTML(b *testing.B) {
	s := `<script>alert("xss")</script> & more content here`
	for i := 0; i < b.N; i++ {
		escapeHTML(s)
	}
}
