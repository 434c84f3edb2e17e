package render

import (
	"testing"

	"vitae-cli/internal/model"
)

func TestPreviewer_CachesUntilContentChanges(t *testing.T) {
	t.Parallel()
	var p Previewer
	r := sampleResume(1)

	first, err := p.Render(r, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first.Cached || first.NumberOfPages != 1 || first.CurrentPage != 1 || first.Template != model.TemplateLondon {
		t.Fatalf("unexpected first preview: %+v", first)
	}

	again, err := p.Render(r, model.TemplateLondon)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !again.Cached {
		t.Fatalf("expected cached preview for unchanged input")
	}

	r.PersonalDetails.FirstName = "Augusta"
	changed, err := p.Render(r, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if changed.Cached {
		t.Fatalf("expected re-render after content change")
	}

	other, err := p.Render(r, model.TemplateManhattan)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if other.Cached || other.Template != model.TemplateManhattan {
		t.Fatalf("expected re-render for template change, got %+v", other)
	}
}

func TestPreviewer_PageClamping(t *testing.T) {
	t.Parallel()
	var p Previewer
	if got := p.SetPage(3); got != 0 {
		t.Fatalf("no pages yet, expected 0, got %d", got)
	}

	prev, err := p.Render(sampleResume(25), model.TemplateLondon)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	n := prev.NumberOfPages
	if n < 2 {
		t.Fatalf("expected several pages, got %d", n)
	}
	if got := p.SetPage(n + 5); got != n {
		t.Fatalf("SetPage clamp high: got %d want %d", got, n)
	}
	if got := p.NextPage(); got != n {
		t.Fatalf("NextPage past end: got %d", got)
	}
	if got := p.SetPage(-1); got != 1 {
		t.Fatalf("SetPage clamp low: got %d", got)
	}
	if got := p.PrevPage(); got != 1 {
		t.Fatalf("PrevPage before start: got %d", got)
	}

	// Shrinking the document pulls the pager back into range.
	p.SetPage(n)
	small, err := p.Render(sampleResume(1), model.TemplateLondon)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if small.CurrentPage != small.NumberOfPages {
		t.Fatalf("expected current page clamped to %d, got %d", small.NumberOfPages, small.CurrentPage)
	}
	last, ok := p.Last()
	if !ok || last.CurrentPage != small.CurrentPage {
		t.Fatalf("Last mismatch: %+v", last)
	}
}
