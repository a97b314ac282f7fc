package testrail

import "testing"

func TestApplyFiltersKeepsInsertionOrder(t *testing.T) {
	got := applyFilters("get_runs/5", Filters{{Key: "priority", Value: 1}, {Key: "type", Value: 2}})
	if got != "get_runs/5&priority=1&type=2" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestApplyFiltersLeavesPathWithoutFilters(t *testing.T) {
	if got := applyFilters("get_projects", nil); got != "get_projects" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestApplyFiltersSkipsEmptyKeys(t *testing.T) {
	got := applyFilters("get_tests/1", Filters{{Key: "", Value: "x"}, {Key: "status_id", Value: "1,5"}})
	if got != "get_tests/1&status_id=1,5" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestFiltersWithDoesNotAlias(t *testing.T) {
	base := make(Filters, 0, 4).With("a", 1)
	left := base.With("b", 2)
	right := base.With("c", 3)
	if applyFilters("p", left) != "p&a=1&b=2" {
		t.Fatalf("left filters corrupted: %v", left)
	}
	if applyFilters("p", right) != "p&a=1&c=3" {
		t.Fatalf("right filters corrupted: %v", right)
	}
}

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters([]string{"created_after=1700000000", " limit = 5"})
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	if got := applyFilters("get_runs/1", f); got != "get_runs/1&created_after=1700000000&limit=5" {
		t.Fatalf("unexpected path %q", got)
	}

	if _, err := ParseFilters([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for pair without '='")
	}
	if _, err := ParseFilters([]string{"=1"}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
