package locations

import "testing"

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("catalog size = %d, want 6", len(all))
	}
	seen := make(map[string]bool)
	for _, loc := range all {
		if loc.Name == "" || loc.Flag == "" {
			t.Errorf("incomplete entry %+v", loc)
		}
		if seen[loc.Name] {
			t.Errorf("duplicate entry %q", loc.Name)
		}
		seen[loc.Name] = true
		c := loc.Coordinates
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			t.Errorf("%s: coordinates out of range: %+v", loc.Name, c)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "changed"
	if All()[0].Name == "changed" {
		t.Fatal("All exposes the catalog")
	}
}

func TestColumns(t *testing.T) {
	all := All()
	left, right := Columns()
	if len(left) != 3 || len(right) != 3 {
		t.Fatalf("columns = %d/%d", len(left), len(right))
	}
	for i := range left {
		if left[i] != all[i] {
			t.Errorf("left[%d] = %q, want %q", i, left[i].Name, all[i].Name)
		}
		if right[i] != all[3+i] {
			t.Errorf("right[%d] = %q, want %q", i, right[i].Name, all[3+i].Name)
		}
	}
}

func TestLabel(t *testing.T) {
	l := Location{Name: "London", Flag: "GB"}
	if got := l.Label(); got != "London -> GB" {
		t.Fatalf("Label = %q", got)
	}
}
