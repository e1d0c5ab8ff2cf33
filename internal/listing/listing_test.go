// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"net/http/httptest"
	"reflect"
	"testing"
)

type item struct {
	title    string
	category string
	tags     []string
	author   string
}

func itemFields(it item) Fields {
	return Fields{Category: it.category, Tags: it.tags, Author: it.author}
}

var testItems = []item{
	{"post one", "technology", []string{"golang", "web"}, "asha"},
	{"post two", "campus", []string{"events"}, "brian"},
	{"post three", "technology", []string{"golang"}, "asha"},
}

func TestApplyFiltersByCategory(t *testing.T) {
	sel := Selection{Category: "technology", Tag: All, Author: All, Page: 1}
	res := Apply(testItems, itemFields, sel, 2)

	if res.FilteredCount != 2 {
		t.Fatalf("FilteredCount = %d, want 2", res.FilteredCount)
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
	if len(res.Visible) != 2 {
		t.Fatalf("len(Visible) = %d, want 2", len(res.Visible))
	}
	if res.Visible[0].title != "post one" || res.Visible[1].title != "post three" {
		t.Errorf("Visible = %v, want filtered items in original order", res.Visible)
	}
}

func TestApplyAllMatchesEverything(t *testing.T) {
	sel := Selection{Category: All, Tag: All, Author: All, Page: 1}
	res := Apply(testItems, itemFields, sel, 2)

	if res.FilteredCount != 3 {
		t.Errorf("FilteredCount = %d, want 3", res.FilteredCount)
	}
	if res.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", res.TotalPages)
	}
	if len(res.Visible) != 2 {
		t.Errorf("len(Visible) = %d, want 2 on first page", len(res.Visible))
	}
}

func TestApplySecondPage(t *testing.T) {
	sel := Selection{Category: All, Page: 2}
	res := Apply(testItems, itemFields, sel, 2)

	if len(res.Visible) != 1 {
		t.Fatalf("len(Visible) = %d, want 1", len(res.Visible))
	}
	if res.Visible[0].title != "post three" {
		t.Errorf("Visible[0] = %q, want post three", res.Visible[0].title)
	}
}

func TestApplyClampsPageAfterFilterChange(t *testing.T) {
	// On page 2 of the unfiltered list, then switch to a category with
	// a single page of results: the page must clamp, not go empty.
	sel := Selection{Category: "campus", Page: 2}
	res := Apply(testItems, itemFields, sel, 2)

	if res.Page != 1 {
		t.Errorf("Page = %d, want 1", res.Page)
	}
	if len(res.Visible) != 1 || res.Visible[0].title != "post two" {
		t.Errorf("Visible = %v, want [post two]", res.Visible)
	}
}

func TestApplyByTag(t *testing.T) {
	sel := Selection{Tag: "golang", Page: 1}
	res := Apply(testItems, itemFields, sel, 10)

	if res.FilteredCount != 2 {
		t.Errorf("FilteredCount = %d, want 2", res.FilteredCount)
	}
}

func TestApplyNoMatches(t *testing.T) {
	sel := Selection{Category: "sports", Page: 1}
	res := Apply(testItems, itemFields, sel, 2)

	if res.FilteredCount != 0 {
		t.Errorf("FilteredCount = %d, want 0", res.FilteredCount)
	}
	if len(res.Visible) != 0 {
		t.Errorf("len(Visible) = %d, want 0", len(res.Visible))
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
}

func TestOptionsFirstAppearanceOrder(t *testing.T) {
	got := Options(testItems, func(it item) string { return it.category })
	want := []string{All, "technology", "campus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %v, want %v", got, want)
	}
}

func TestOptionsSkipsEmpty(t *testing.T) {
	items := []item{{category: ""}, {category: "a"}, {category: ""}}
	got := Options(items, func(it item) string { return it.category })
	want := []string{All, "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %v, want %v", got, want)
	}
}

func TestTagOptions(t *testing.T) {
	got := TagOptions(testItems, func(it item) []string { return it.tags })
	want := []string{All, "golang", "web", "events"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagOptions() = %v, want %v", got, want)
	}
}

func TestParseSelection(t *testing.T) {
	r := httptest.NewRequest("GET", "/blog?category=technology&page=3", nil)
	sel := ParseSelection(r)

	if sel.Category != "technology" {
		t.Errorf("Category = %q, want technology", sel.Category)
	}
	if sel.Tag != All {
		t.Errorf("Tag = %q, want %q", sel.Tag, All)
	}
	if sel.Page != 3 {
		t.Errorf("Page = %d, want 3", sel.Page)
	}
}

func TestSelectionQueryValues(t *testing.T) {
	sel := Selection{Category: "technology", Tag: All, Author: "asha"}
	v := sel.QueryValues()

	if v.Get("category") != "technology" {
		t.Errorf("category = %q", v.Get("category"))
	}
	if v.Has("tag") {
		t.Error("tag should not be set for the all selection")
	}
	if v.Get("author") != "asha" {
		t.Errorf("author = %q", v.Get("author"))
	}
}

func TestSelectionWithKeepsOtherDimensions(t *testing.T) {
	sel := Selection{Category: "technology", Tag: All, Author: All, Page: 3}

	got := sel.WithTag("golang")
	if got.Category != "technology" {
		t.Errorf("Category = %q, want technology kept", got.Category)
	}
	if got.Tag != "golang" {
		t.Errorf("Tag = %q, want golang", got.Tag)
	}
	if got.Page != 1 {
		t.Errorf("Page = %d, want 1 after a filter change", got.Page)
	}
	if sel.Tag != All {
		t.Error("WithTag mutated the receiver")
	}
}

func TestSelectionURL(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{"no filters", Selection{Category: All, Tag: All, Author: All}, "/blog"},
		{"one filter", Selection{Category: "campus", Tag: All, Author: All}, "/blog?category=campus"},
		{"combined, page dropped", Selection{Category: "campus", Tag: "golang", Author: All, Page: 4}, "/blog?category=campus&tag=golang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.URL("/blog"); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectionActive(t *testing.T) {
	if (Selection{Category: All, Tag: All, Author: All}).Active() {
		t.Error("Active() = true for the all selection")
	}
	if !(Selection{Category: "campus", Tag: All, Author: All}).Active() {
		t.Error("Active() = false with a category filter on")
	}
}
