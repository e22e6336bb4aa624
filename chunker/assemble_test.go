package chunker

import "testing"

func makeUnit(page int, lines ...annotatedLine) semanticUnit {
	u := semanticUnit{minHeadingLevel: noHeadingLevel}
	for _, ln := range lines {
		ln.pageNumber = page
		u.add(ln)
	}
	return u
}

func prose(text string) annotatedLine {
	return annotatedLine{text: text, kind: lineNormal, tokenCount: len(text) + 1}
}

func TestAssemble_PacksUnderBudget(t *testing.T) {
	p := newBytePipeline(Options{MaxTokens: 10, MinTokens: 0})
	units := []semanticUnit{
		makeUnit(0, prose("aaaa")), // 5 tokens
		makeUnit(1, prose("bbbb")), // 5 tokens
		makeUnit(2, prose("cccc")), // 5 tokens
	}
	chunks := p.assemble(units)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "aaaa\nbbbb\n" || chunks[0].TokenCount != 10 {
		t.Errorf("unexpected first chunk %q (%d tokens)", chunks[0].Text, chunks[0].TokenCount)
	}
	if chunks[0].StartPage != 0 || chunks[0].EndPage != 1 {
		t.Errorf("expected first chunk pages 0-1, got %d-%d", chunks[0].StartPage, chunks[0].EndPage)
	}
	if chunks[1].Text != "cccc\n" || chunks[1].StartPage != 2 {
		t.Errorf("unexpected second chunk %q starting page %d", chunks[1].Text, chunks[1].StartPage)
	}
}

func TestAssemble_OversizedUnitBecomesOwnChunk(t *testing.T) {
	p := newBytePipeline(Options{MaxTokens: 10, MinTokens: 0})
	units := []semanticUnit{
		makeUnit(0, prose("aa")),
		makeUnit(0, prose("this line is far over the ten token budget")),
		makeUnit(0, prose("bb")),
	}
	chunks := p.assemble(units)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].TokenCount <= 10 {
		t.Errorf("expected the middle chunk to pass through oversized, got %d tokens", chunks[1].TokenCount)
	}
}

func TestAssemble_HeadingMetadataUnions(t *testing.T) {
	p := newBytePipeline(Options{MaxTokens: 100, MinTokens: 0})
	heading := annotatedLine{text: "## Section", kind: lineMajorHeading, headingLevel: 2, tokenCount: 11}
	units := []semanticUnit{
		makeUnit(0, prose("before")),
		makeUnit(0, heading, prose("after")),
	}
	chunks := p.assemble(units)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].HasMajorHeading {
		t.Error("expected chunk to inherit the major heading flag")
	}
	if chunks[0].MinHeadingLevel != 2 {
		t.Errorf("expected heading level 2, got %d", chunks[0].MinHeadingLevel)
	}
}

func TestAssemble_EmptyInput(t *testing.T) {
	p := newBytePipeline(DefaultOptions())
	if chunks := p.assemble(nil); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
