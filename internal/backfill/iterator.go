package backfill

import "context"

// PageIterator walks the pull request pages of one repository. It is finite:
// iteration ends at the first empty page. After a failed page the iterator
// stays on that page, so the next call to Next requests it again.
type PageIterator struct {
	lister Lister
	repo   string
	page   int
	done   bool
}

// NewPageIterator starts at page 1.
func NewPageIterator(lister Lister, repo string) *PageIterator {
	return &PageIterator{lister: lister, repo: repo, page: 1}
}

// Next returns the next non-empty page. ok is false once the sequence is
// exhausted. On error Checkpoint still reports the failed page.
func (it *PageIterator) Next(ctx context.Context) (pulls []APIPullRequest, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	pulls, err = it.lister.ListPulls(ctx, it.repo, it.page)
	if err != nil {
		return nil, false, err
	}
	if len(pulls) == 0 {
		it.done = true
		return nil, false, nil
	}
	it.page++
	return pulls, true, nil
}

// Checkpoint is the page the next call to Next will request.
func (it *PageIterator) Checkpoint() int {
	return it.page
}
