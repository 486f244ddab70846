package paginate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/amishk599/jobsweep/internal/listing"
	"github.com/amishk599/jobsweep/internal/model"
)

// DefaultPageParam is the query parameter carrying the page number.
const DefaultPageParam = "page"

// Limits bounds one pagination pass. MaxPages <= 0 leaves the page count
// unbounded (pagination still stops on an exhausted listing); Target <= 0
// means no result cap.
type Limits struct {
	MaxPages int
	Target   int
}

// Result is the outcome of a pagination pass.
type Result struct {
	Stubs []model.ListingStub // stubs first seen during this pass, in order
	Pages int                 // listing pages fetched
	Index *DedupIndex         // the index passed in (or created), now updated
}

// Controller drives sequential listing-page fetches for a start URL.
type Controller struct {
	fetcher   model.PageFetcher
	miner     *listing.Miner
	pageParam string
	logger    *slog.Logger
}

// NewController creates a pagination controller. An empty pageParam uses
// DefaultPageParam.
func NewController(fetcher model.PageFetcher, miner *listing.Miner, pageParam string, logger *slog.Logger) *Controller {
	if pageParam == "" {
		pageParam = DefaultPageParam
	}
	return &Controller{
		fetcher:   fetcher,
		miner:     miner,
		pageParam: pageParam,
		logger:    logger,
	}
}

// Paginate fetches listing pages of startURL until the listing is
// exhausted, MaxPages pages have been fetched, or index holds Target URLs.
// A page with no rows, or with no rows that are new to index, ends the pass.
// A nil index starts a fresh one. Listing fetch failures are returned; an
// empty first page is not an error.
func (c *Controller) Paginate(ctx context.Context, startURL string, limits Limits, index *DedupIndex) (Result, error) {
	if index == nil {
		index = NewDedupIndex()
	}
	res := Result{Index: index}

	for page := 0; limits.MaxPages <= 0 || page < limits.MaxPages; page++ {
		if capReached(index, limits.Target) {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("paginating %s: %w", startURL, err)
		}

		pageURL, err := PageURL(startURL, page, c.pageParam)
		if err != nil {
			return res, fmt.Errorf("paginating %s: %w", startURL, err)
		}

		markup, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return res, fmt.Errorf("paginating %s: fetching page %d: %w", startURL, page, err)
		}
		res.Pages++

		rows, err := c.miner.Rows(markup)
		if err != nil {
			return res, fmt.Errorf("paginating %s: page %d: %w", startURL, page, err)
		}

		found, added := 0, 0
		for stub := range rows {
			found++
			if capReached(index, limits.Target) {
				break
			}
			if index.Add(stub) {
				added++
				res.Stubs = append(res.Stubs, stub)
			}
		}

		c.logger.Debug("listing page mined",
			"url", pageURL,
			"page", page,
			"rows", found,
			"new", added,
			"collected", index.Len(),
		)

		if found == 0 {
			if page == 0 {
				c.logger.Info("no results on first listing page", "url", pageURL)
			}
			break
		}
		if added == 0 {
			c.logger.Debug("listing exhausted, no new rows", "url", pageURL, "page", page)
			break
		}
	}

	return res, nil
}

// PageURL returns the URL of the given zero-based page: startURL itself for
// page 0, otherwise startURL with param set to the page number.
func PageURL(startURL string, page int, param string) (string, error) {
	if page == 0 {
		return startURL, nil
	}
	u, err := url.Parse(startURL)
	if err != nil {
		return "", fmt.Errorf("parse start url %q: %w", startURL, err)
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func capReached(index *DedupIndex, target int) bool {
	return target > 0 && index.Len() >= target
}
