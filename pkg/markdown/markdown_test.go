package markdown_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/markdown"
)

func TestRenderHeadings(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "level one",
			source: "# Hi",
			want:   `<h1 class="text-2xl font-bold text-gray-900 mt-4 mb-2">Hi</h1>`,
		},
		{
			name:   "level three",
			source: "### Assets we need",
			want:   `<h3 class="text-lg font-semibold text-gray-900 mt-4 mb-2">Assets we need</h3>`,
		},
		{
			name:   "level six",
			source: "###### fine print",
			want:   `<h6 class="text-sm font-medium text-gray-900 mt-4 mb-2">fine print</h6>`,
		},
		{
			name:   "seven hashes is a paragraph",
			source: "####### too deep",
			want:   `<p class="text-gray-700 my-2">####### too deep</p>`,
		},
		{
			name:   "hash without space is a paragraph",
			source: "#nospace",
			want:   `<p class="text-gray-700 my-2">#nospace</p>`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, markdown.Render(tc.source)); diff != "" {
				t.Fatalf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderLists(t *testing.T) {
	got := markdown.Render("- a\n- b")
	want := strings.Join([]string{
		`<ul class="list-disc list-inside space-y-1 my-2 text-gray-700">`,
		"<li>a</li>",
		"<li>b</li>",
		"</ul>",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unordered list mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderListSwitchesKind(t *testing.T) {
	got := markdown.Render("- a\n1. b")
	want := strings.Join([]string{
		`<ul class="list-disc list-inside space-y-1 my-2 text-gray-700">`,
		"<li>a</li>",
		"</ul>",
		`<ol class="list-decimal list-inside space-y-1 my-2 text-gray-700">`,
		"<li>b</li>",
		"</ol>",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list switch mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderBlankLineClosesList(t *testing.T) {
	got := markdown.Render("- a\n\n- b")
	if want := 2; strings.Count(got, "<ul") != want {
		t.Fatalf("expected %d lists, got output:\n%s", want, got)
	}
}

func TestRenderInlineFormatting(t *testing.T) {
	got := markdown.Render("**bold** and *italic*")
	want := `<p class="text-gray-700 my-2"><strong>bold</strong> and <em>italic</em></p>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inline mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderUnderscoreItalicBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "standalone underscores italicise",
			source: "an _aside_ here",
			want:   `<p class="text-gray-700 my-2">an <em>aside</em> here</p>`,
		},
		{
			name:   "snake case survives",
			source: "use submitted_data and size_bytes fields",
			want:   `<p class="text-gray-700 my-2">use submitted_data and size_bytes fields</p>`,
		},
		{
			name:   "double underscore is bold",
			source: "__really__",
			want:   `<p class="text-gray-700 my-2"><strong>really</strong></p>`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, markdown.Render(tc.source)); diff != "" {
				t.Fatalf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderInlineCodeAndLinks(t *testing.T) {
	got := markdown.Render("see `token` in [the docs](https://example.com/docs)")
	want := `<p class="text-gray-700 my-2">see <code class="bg-gray-100 px-1 rounded text-sm">token</code> in <a href="https://example.com/docs" class="text-blue-600 underline" target="_blank" rel="noopener">the docs</a></p>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inline code/link mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	got := markdown.Render(`<script>alert("x") & more</script>`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("unescaped markup in output:\n%s", got)
	}
	for _, want := range []string{"&lt;script&gt;", "&quot;x&quot;", "&amp; more"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := markdown.Render("```\nlet a = 1 < 2;\n**not bold**\n```")
	want := `<pre class="bg-gray-100 rounded-lg p-4 text-sm overflow-x-auto my-3"><code>let a = 1 &lt; 2;` + "\n" + `**not bold**</code></pre>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("code block mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderUnterminatedCodeBlockConsumesToEnd(t *testing.T) {
	got := markdown.Render("```\nline one\nline two")
	if !strings.Contains(got, "line one\nline two") {
		t.Fatalf("expected trailing lines captured, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "</code></pre>") {
		t.Fatalf("expected closed pre block, got:\n%s", got)
	}
}

func TestRenderTable(t *testing.T) {
	got := markdown.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{
		`<th class="text-left font-semibold text-gray-900 border-b border-gray-300 px-3 py-2">a</th>`,
		`<th class="text-left font-semibold text-gray-900 border-b border-gray-300 px-3 py-2">b</th>`,
		`<td class="border-b border-gray-200 px-3 py-2 text-gray-700">1</td>`,
		`<td class="border-b border-gray-200 px-3 py-2 text-gray-700">2</td>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "---") {
		t.Fatalf("separator row leaked into output:\n%s", got)
	}
	if want := 1; strings.Count(got, "<table") != want {
		t.Fatalf("expected %d table, got output:\n%s", want, got)
	}
}

func TestRenderTableWithoutSeparatorTreatsSecondRowAsData(t *testing.T) {
	got := markdown.Render("| a | b |\n| 1 | 2 |")
	if !strings.Contains(got, "<tbody>") {
		t.Fatalf("expected body rows, got:\n%s", got)
	}
	if want := 2; strings.Count(got, "<td") != want {
		t.Fatalf("expected %d data cells, got output:\n%s", want, got)
	}
}

func TestRenderLonePipeRowEmitsNothing(t *testing.T) {
	if got := markdown.Render("| only one row |"); got != "" {
		t.Fatalf("expected empty output for single table row, got:\n%s", got)
	}
}

func TestRenderHorizontalRule(t *testing.T) {
	for _, source := range []string{"---", "*****"} {
		got := markdown.Render(source)
		if got != `<hr class="border-gray-200 my-4" />` {
			t.Fatalf("render(%q) = %q", source, got)
		}
	}
}

func TestRenderParagraphJoinsLines(t *testing.T) {
	got := markdown.Render("first line\nsecond line\n\nnext paragraph")
	want := `<p class="text-gray-700 my-2">first line second line</p>` + "\n" +
		`<p class="text-gray-700 my-2">next paragraph</p>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paragraph mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	source := "# Title\n\nIntro with **bold**.\n\n- one\n- two\n\n| a |\n| b |\n"
	first := markdown.Render(source)
	for i := 0; i < 5; i++ {
		if next := markdown.Render(source); next != first {
			t.Fatalf("render not deterministic on pass %d", i)
		}
	}
}

func TestRenderEmptyInput(t *testing.T) {
	if got := markdown.Render(""); got != "" {
		t.Fatalf("render(\"\") = %q", got)
	}
}
