package main

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestCatalogAdd(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	steps := []struct {
		entry   Entry
		wantNew bool
	}{
		{Entry{SetID: 39804, ItemID: 129891}, true},
		{Entry{SetID: 39804, ItemID: 129892}, false},
		{Entry{SetID: 1, ItemID: 2}, true},
		{Entry{SetID: 39804, ItemID: 129891}, false},
	}
	for _, s := range steps {
		if got := c.Add(s.entry); got != s.wantNew {
			t.Errorf("Add(%+v) = %v, want %v", s.entry, got, s.wantNew)
		}
	}
	if got, want := c.Sets(), []int64{39804, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sets() = %v, want %v", got, want)
	}
	if got, want := c.Items(39804), []int64{129891, 129892}; !reflect.DeepEqual(got, want) {
		t.Errorf("Items(39804) = %v, want %v", got, want)
	}
}

func TestCatalogJSON(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	c.Add(Entry{SetID: 20, ItemID: 3})
	c.Add(Entry{SetID: 100, ItemID: 5})
	c.Add(Entry{SetID: 20, ItemID: 4})

	raw, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if want := `{"20":[3,4],"100":[5]}`; string(raw) != want {
		t.Errorf("MarshalJSON() = %s, want %s", raw, want)
	}

	path := filepath.Join(t.TempDir(), "beatmaps")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	back, err := ReadCatalogFile(path)
	if err != nil {
		t.Fatalf("ReadCatalogFile() error = %v", err)
	}
	if !reflect.DeepEqual(back.Sets(), c.Sets()) {
		t.Errorf("round trip sets = %v, want %v", back.Sets(), c.Sets())
	}
	for _, set := range c.Sets() {
		if !reflect.DeepEqual(back.Items(set), c.Items(set)) {
			t.Errorf("round trip items[%d] = %v, want %v", set, back.Items(set), c.Items(set))
		}
	}
}

func TestCatalogUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`[]`, `{"x":[1]}`, `{"1":"a"}`} {
		c := NewCatalog()
		if err := c.UnmarshalJSON([]byte(in)); err == nil {
			t.Errorf("UnmarshalJSON(%s) succeeded, want error", in)
		}
	}
}
