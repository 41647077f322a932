package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"ghdigest/internal/digest"
)

func TestExport(t *testing.T) {
	d := digest.New()
	d.Add("foo", "https://github.com/djc/foo/pull/1", "fix things")
	d.Add("bar/baz", "https://github.com/bar/baz/issues/2", "report things")

	path := filepath.Join(t.TempDir(), "digest.xlsx")
	if err := NewExcelExporter(path).Export(d, "202401", digest.Verbatim); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	month, err := f.GetCellValue("Summary", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if month != "202401" {
		t.Fatalf("summary month = %q", month)
	}

	// project sheet names have the path separator sanitized
	sheets := f.GetSheetList()
	want := map[string]bool{"Summary": false, "bar-baz": false, "foo": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("sheet %q missing (have %v)", name, sheets)
		}
	}

	title, err := f.GetCellValue("foo", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if title != "fix things" {
		t.Fatalf("foo title = %q", title)
	}
	url, err := f.GetCellValue("foo", "C2")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://github.com/djc/foo/pull/1" {
		t.Fatalf("foo url = %q", url)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"bar/baz", "bar-baz"},
		{"a[b]c", "a(b)c"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := sanitizeSheetName(c.in); got != c.want {
			t.Fatalf("sanitizeSheetName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	long := sanitizeSheetName("0123456789012345678901234567890123456789")
	if len(long) != 31 {
		t.Fatalf("long name not truncated: %d chars", len(long))
	}
}
