package ingest

import "testing"

func TestBalancedBlock_Simple(t *testing.T) {
	doc := `{a: 1, b: {c: 2}}`
	got := BalancedBlock(doc, 0)
	if got != doc {
		t.Errorf("got %q, want %q", got, doc)
	}
}

func TestBalancedBlock_BracesInsideStrings(t *testing.T) {
	doc := `{note: 'has } brace', other: "also } here"} trailing`
	want := `{note: 'has } brace', other: "also } here"}`
	got := BalancedBlock(doc, 0)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBalancedBlock_EscapedQuoteInsideString(t *testing.T) {
	doc := `{note: 'it\'s a } test'}`
	got := BalancedBlock(doc, 0)
	if got != doc {
		t.Errorf("got %q, want %q", got, doc)
	}
}

func TestBalancedBlock_NotABrace(t *testing.T) {
	if got := BalancedBlock("abc", 0); got != "" {
		t.Errorf("expected empty for non-brace start, got %q", got)
	}
	if got := BalancedBlock("{", 5); got != "" {
		t.Errorf("expected empty for out-of-range start, got %q", got)
	}
}

func TestBalancedBlock_NeverCloses(t *testing.T) {
	if got := BalancedBlock("{a: {b: 1}", 0); got != "" {
		t.Errorf("expected empty for unbalanced block, got %q", got)
	}
}

func TestStockBlocks_DocumentOrder(t *testing.T) {
	doc := `
		STOCK_DATA.WOW = {company: 'Woolworths'};
		some unrelated text
		STOCK_DATA.BHP = {company: 'BHP Group'};
	`
	blocks := stockBlocks(doc)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].ticker != "WOW" || blocks[1].ticker != "BHP" {
		t.Errorf("order: got [%s %s], want [WOW BHP]", blocks[0].ticker, blocks[1].ticker)
	}
	if blocks[0].literal != `{company: 'Woolworths'}` {
		t.Errorf("literal: got %q", blocks[0].literal)
	}
}

func TestStockBlocks_RepeatedTicker_LaterWinsKeepsPosition(t *testing.T) {
	doc := `
		STOCK_DATA.WOW = {company: 'First'};
		STOCK_DATA.BHP = {company: 'BHP'};
		STOCK_DATA.WOW = {company: 'Second'};
	`
	blocks := stockBlocks(doc)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].ticker != "WOW" {
		t.Errorf("repeated ticker should keep first position, got %s", blocks[0].ticker)
	}
	if blocks[0].literal != `{company: 'Second'}` {
		t.Errorf("later literal should win, got %q", blocks[0].literal)
	}
}

func TestStockBlocks_SkipsUnbalanced(t *testing.T) {
	doc := `STOCK_DATA.XYZ = {company: 'never closes'`
	if blocks := stockBlocks(doc); len(blocks) != 0 {
		t.Errorf("expected unbalanced block to be skipped, got %d blocks", len(blocks))
	}
}

func TestStockBlocks_TickerLengthBounds(t *testing.T) {
	doc := `
		STOCK_DATA.A = {company: 'too short'};
		STOCK_DATA.ABCDEF = {company: 'too long'};
		STOCK_DATA.AB = {company: 'ok'};
	`
	blocks := stockBlocks(doc)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].ticker != "AB" {
		t.Errorf("got ticker %s, want AB", blocks[0].ticker)
	}
}

func TestNamedBlock(t *testing.T) {
	doc := `const REFERENCE_DATA = {WOW: {marketCap: 42}}; const OTHER = {};`
	got := namedBlock(doc, referenceBlockName)
	want := `{WOW: {marketCap: 42}}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := namedBlock(doc, freshnessBlockName); got != "" {
		t.Errorf("absent block: got %q, want empty", got)
	}
}
