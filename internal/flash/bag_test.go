package flash

import (
	"testing"

	"toastd/internal/toast"
)

func TestBagConsumeSemantics(t *testing.T) {
	b := NewBag(nil)
	b.Add("info", toast.TextValue("hello"))
	b.Set("k", []toast.Value{toast.TextValue("v")})

	if !b.Has("k") {
		t.Fatal("Has(k) = false")
	}
	if got := b.PeekAll(); len(got) != 2 {
		t.Fatalf("PeekAll len = %d, want 2", len(got))
	}
	if got := b.PeekAll(); len(got) != 2 {
		t.Fatal("PeekAll must not consume")
	}

	if got := b.Get("k"); len(got) != 1 || got[0].Text != "v" {
		t.Fatalf("Get(k) = %+v", got)
	}
	if b.Has("k") {
		t.Fatal("Get must consume")
	}

	all := b.All()
	if len(all) != 1 || len(all["info"]) != 1 {
		t.Fatalf("All = %+v", all)
	}
	if b.Len() != 0 || len(b.All()) != 0 {
		t.Fatal("All must consume")
	}
}

func TestBagPeekReturnsCopy(t *testing.T) {
	b := NewBag(map[string][]toast.Value{"info": {toast.TextValue("a")}})
	peek := b.PeekAll()
	peek["info"][0] = toast.TextValue("mutated")
	delete(peek, "info")
	if got := b.Get("info"); len(got) != 1 || got[0].Text != "a" {
		t.Fatalf("bag changed through peek: %+v", got)
	}
}

func TestBagSetEmptyDeletes(t *testing.T) {
	b := NewBag(nil)
	b.Set("k", []toast.Value{toast.TextValue("v")})
	b.Set("k", nil)
	if b.Has("k") {
		t.Fatal("empty Set should delete")
	}
}

func TestBagDirty(t *testing.T) {
	b := NewBag(map[string][]toast.Value{"info": {toast.TextValue("a")}})
	if b.Dirty() {
		t.Fatal("fresh bag is dirty")
	}
	b.PeekAll()
	b.Has("info")
	if b.Dirty() {
		t.Fatal("non-consuming reads made bag dirty")
	}
	b.Get("missing")
	if b.Dirty() {
		t.Fatal("Get of missing key made bag dirty")
	}
	b.All()
	if !b.Dirty() {
		t.Fatal("All should mark dirty")
	}
}
