package library

import (
	"context"
	"slices"
	"testing"
)

func TestDocument_Add(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		section string
		entry   string
		want    string
		created bool
	}{
		{
			name:    "into existing section",
			src:     "/a\nurl1\n-opt\n\n/b\nurl2\n",
			section: "/a",
			entry:   "url3",
			want:    "/a\nurl1\n-opt\nurl3\n\n/b\nurl2\n",
		},
		{
			name:    "into last section",
			src:     "/a\nurl1\n/b\nurl2\n",
			section: "/b",
			entry:   "url3 playlist",
			want:    "/a\nurl1\n/b\nurl2\nurl3 playlist\n",
		},
		{
			name:    "into unnamed section",
			src:     "# header\nurl0\n/a\nurl1\n",
			section: "",
			entry:   "url2",
			want:    "# header\nurl0\nurl2\n/a\nurl1\n",
		},
		{
			name:    "missing section is appended",
			src:     "/a\nurl1\n",
			section: "/new",
			entry:   "url2",
			want:    "/a\nurl1\n\n/new\nurl2\n",
			created: true,
		},
		{
			name:    "duplicate header uses last occurrence",
			src:     "/a\nold\n/a\nnew\n",
			section: "/a",
			entry:   "url",
			want:    "/a\nold\n/a\nnew\nurl\n",
		},
		{
			name:    "empty document",
			src:     "",
			section: "",
			entry:   "url",
			want:    "url\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(tt.src)

			if created := doc.Add(tt.section, tt.entry); created != tt.created {
				t.Errorf("Add() created = %v, want %v", created, tt.created)
			}

			if got := doc.String(); got != tt.want {
				t.Errorf("document =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestDocument_AddIsVisibleToBuild(t *testing.T) {
	doc := NewDocument("/a\nurl1\n$x = 'v'\n/b\n")
	doc.Add("/a", "url2")

	d, err := ParseString(context.Background(), doc.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got, want := d.URLs("/a"), []string{"url1", "url2"}; !slices.Equal(got, want) {
		t.Errorf(`URLs("/a") = %q, want %q`, got, want)
	}

	if len(d.Scripts("/a")) != 1 {
		t.Error("script lost by edit")
	}
}

func TestDocument_Remove(t *testing.T) {
	doc := NewDocument("/a\nurl1\nurl2 playlist # x\n-url2\n/b\nurl2\n")

	if n := doc.Remove("url2"); n != 2 {
		t.Errorf("Remove() = %d, want 2", n)
	}

	if got, want := doc.String(), "/a\nurl1\n-url2\n/b\n"; got != want {
		t.Errorf("document = %q, want %q", got, want)
	}

	if n := doc.Remove("absent"); n != 0 {
		t.Errorf("Remove(absent) = %d, want 0", n)
	}
}

func TestDocument_Sections(t *testing.T) {
	doc := NewDocument("url\n/b\n/a\n")

	if got, want := doc.Sections(), []string{"/b", "/a"}; !slices.Equal(got, want) {
		t.Errorf("Sections() = %q, want %q", got, want)
	}

	if got := doc.LastSection(); got != "/a" {
		t.Errorf("LastSection() = %q, want %q", got, "/a")
	}

	if got := NewDocument("url\n").LastSection(); got != "" {
		t.Errorf("LastSection() = %q, want empty", got)
	}
}

func TestIsSection(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"/rock", true},
		{"/", true},
		{"/a b", true},
		{"music", false},
		{" /rock", false},
		{"/rock # note", false},
		{"-opt", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsSection(tt.line); got != tt.want {
				t.Errorf("IsSection(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
