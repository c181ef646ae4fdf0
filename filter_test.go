package reload

import (
	"errors"
	"testing"
)

var sampleChange = Change{
	Path: "/build/module.go",
	Base: "module.go",
	Ext:  ".go",
	Op:   "WRITE",
}

func TestExprFilterMatchesChangeFields(t *testing.T) {
	filter, err := NewExprFilter(`ext == ".go" && op == "WRITE"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := filter.Match(sampleChange)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok {
		t.Fatalf("expected filter to accept %+v", sampleChange)
	}

	ok, err = filter.Match(Change{Base: "module.tmp", Ext: ".tmp", Op: "WRITE"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if ok {
		t.Fatalf("expected filter to veto a temp file")
	}
}

func TestExprFilterRejectsBadExpressions(t *testing.T) {
	if _, err := NewExprFilter(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
	_, err := NewExprFilter(`ext +`)
	var filterErr *FilterError
	if !errors.As(err, &filterErr) {
		t.Fatalf("expected *FilterError, got %v", err)
	}
	if filterErr.Engine != "expr" {
		t.Fatalf("engine = %q, want expr", filterErr.Engine)
	}
}

func TestCELFilterMatchesChangeFields(t *testing.T) {
	filter, err := NewCELFilter(`base.endsWith(".go") && op != "CHMOD"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := filter.Match(sampleChange)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok {
		t.Fatalf("expected filter to accept %+v", sampleChange)
	}
}

func TestCELFilterRequiresBoolResult(t *testing.T) {
	if _, err := NewCELFilter(`base`); err == nil {
		t.Fatalf("expected error for non-boolean expression")
	}
	if _, err := NewCELFilter(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestChangeFilterFuncNilAccepts(t *testing.T) {
	var f ChangeFilterFunc
	ok, err := f.Match(sampleChange)
	if err != nil || !ok {
		t.Fatalf("nil filter func should accept, got ok=%t err=%v", ok, err)
	}
}
