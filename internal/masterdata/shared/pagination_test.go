package shared

import "testing"

func TestNormalizeClampsPaging(t *testing.T) {
	cases := []struct {
		name     string
		in       ListFilters
		wantPage int
		wantLim  int
		wantDir  string
	}{
		{name: "zero values", in: ListFilters{}, wantPage: 1, wantLim: 25, wantDir: SortAsc},
		{name: "negative page", in: ListFilters{Page: -3, Limit: 10}, wantPage: 1, wantLim: 10, wantDir: SortAsc},
		{name: "oversized limit", in: ListFilters{Page: 2, Limit: 5000}, wantPage: 2, wantLim: 200, wantDir: SortAsc},
		{name: "unknown direction", in: ListFilters{Page: 1, Limit: 10, SortDir: "sideways"}, wantPage: 1, wantLim: 10, wantDir: SortAsc},
		{name: "descending kept", in: ListFilters{Page: 4, Limit: 50, SortDir: SortDesc}, wantPage: 4, wantLim: 50, wantDir: SortDesc},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.in
			f.Normalize()
			if f.Page != tc.wantPage || f.Limit != tc.wantLim || f.SortDir != tc.wantDir {
				t.Fatalf("normalized to page=%d limit=%d dir=%q, want page=%d limit=%d dir=%q",
					f.Page, f.Limit, f.SortDir, tc.wantPage, tc.wantLim, tc.wantDir)
			}
		})
	}
}
