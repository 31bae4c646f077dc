package vdom

import (
	"testing"
)

func TestDiffProps(t *testing.T) {
	prev := Props{"class": "a", "style": "width:100%", "ref": func() {}, "data-x": 1}
	next := Props{"class": "b", "style": "width:100%", "ref": func() {}, "title": "t"}

	got := DiffProps(prev, next)
	want := []Patch{
		{Op: OpSetAttribute, Key: "class", Value: "b"},
		{Op: OpRemoveAttribute, Key: "data-x"},
		{Op: OpSetAttribute, Key: "title", Value: "t"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("patch %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDiffPropsEqual(t *testing.T) {
	p := Props{"class": "a", "data-n": 3}
	if got := DiffProps(p, Props{"class": "a", "data-n": 3}); len(got) != 0 {
		t.Errorf("expected no patches, got %v", got)
	}
}

func TestNewElement(t *testing.T) {
	n := NewElement("div", Props{"key": "k", "id": "g"}, NewText("x"), nil)
	if n.Key != "k" {
		t.Errorf("Key = %q", n.Key)
	}
	if len(n.Kids) != 1 || n.Kids[0].Text != "x" {
		t.Errorf("Kids = %+v", n.Kids)
	}
	if n.Attr("id") != "g" || n.Attr("key") != "" {
		t.Errorf("Attr lookups wrong")
	}
}
