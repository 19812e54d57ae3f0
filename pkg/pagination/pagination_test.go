package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, PerPage: 0}.Normalize()
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Fatalf("expected defaults, got %+v", p)
	}

	p = Params{Page: 3, PerPage: 500}.Normalize()
	if p.PerPage != MaxPerPage {
		t.Fatalf("expected per_page capped at %d, got %d", MaxPerPage, p.PerPage)
	}
}

func TestQueryOmitsEmptySearch(t *testing.T) {
	q := Params{Page: 2, PerPage: 15, Search: "bandung"}.Query()
	if q["page"] != "2" || q["per_page"] != "15" || q["search"] != "bandung" {
		t.Fatalf("unexpected query: %v", q)
	}
	if _, ok := (Params{Page: 1}).Query()["search"]; ok {
		t.Fatal("empty search must not be sent upstream")
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{0, 25, 1},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{100, 15, 7},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.perPage); got != tt.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

func TestSliceAndPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7}

	if got := Slice(rows, 2, 3); len(got) != 3 || got[0] != 4 {
		t.Fatalf("unexpected slice: %v", got)
	}
	if got := Slice(rows, 3, 3); len(got) != 1 || got[0] != 7 {
		t.Fatalf("unexpected tail slice: %v", got)
	}
	if got := Slice(rows, 4, 3); got != nil {
		t.Fatalf("page past the end must be empty, got %v", got)
	}

	res := Paginate(rows, 2, 3)
	if res.Total != 7 || res.LastPage != 3 || res.CurrentPage != 2 {
		t.Fatalf("unexpected envelope: %+v", res)
	}
}
