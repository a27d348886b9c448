package copyright

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/events"
	"github.com/inkwell-press/inkwell/src/jobs"
	"github.com/inkwell-press/inkwell/src/models"
)

// The article operations the checker needs; *articles.Service is the real
// implementation.
type ArticleService interface {
	GetText(ctx context.Context, articleID uuid.UUID) (string, error)
	UpdateCopyright(ctx context.Context, articleID uuid.UUID, status models.CopyrightStatus, detail *string) error
}

/*
Checker screens newly created articles for copyright problems. It
subscribes to article creation events, pulls the article text in the
background, runs a crude quotation-density heuristic over it, and records
the verdict back on the article. Articles stay in the pending state until
their check completes.
*/
type Checker struct {
	Articles ArticleService

	mu       sync.Mutex
	inFlight jobs.Jobs
}

func NewChecker(articleService ArticleService) *Checker {
	return &Checker{Articles: articleService}
}

// Starts screening every article created through the given registry.
func (c *Checker) Subscribe(registry *events.Registry) {
	registry.Subscribe(events.ArticleCreated, func(ctx context.Context, payload any) {
		created := payload.(events.ArticleCreatedPayload)

		job := jobs.New(fmt.Sprintf("copyright check %s", created.Article.ID))
		c.mu.Lock()
		c.inFlight = append(c.inFlight.Prune(), job)
		c.mu.Unlock()

		go func() {
			defer job.Finish()
			if err := c.Check(job.Ctx, created.Article.ID); err != nil {
				job.Logger.Error().Err(err).Msg("copyright check failed")
			}
		}()
	})
}

// Runs one check synchronously: fetch the text, analyze it, record the
// verdict.
func (c *Checker) Check(ctx context.Context, articleID uuid.UUID) error {
	text, err := c.Articles.GetText(ctx, articleID)
	if err != nil {
		return err
	}

	status, detail := analyze(text)
	return c.Articles.UpdateCopyright(ctx, articleID, status, detail)
}

// Cancels in-flight checks and waits for them, returning the names of any
// that did not finish in time.
func (c *Checker) Shutdown(timeout time.Duration) []string {
	c.mu.Lock()
	inFlight := c.inFlight
	c.mu.Unlock()
	return inFlight.CancelAndWait(timeout)
}

const (
	// Flag when more than a quarter of the words sit inside quotation
	// marks, or when any single quotation runs this long.
	quotedFractionLimit = 0.25
	longQuoteWordLimit  = 100
)

/*
A heuristic, not a judgment: it counts how much of the text sits inside
double quotation marks. Heavy or very long quotation is flagged for a
human to look at; everything else is marked clear.
*/
func analyze(text string) (models.CopyrightStatus, *string) {
	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		return models.CopyrightClear, nil
	}

	// Segments at odd indexes are inside quotation marks. An unbalanced
	// trailing quote makes the last segment a "quote", which is the
	// conservative reading.
	segments := strings.Split(text, `"`)
	quotedWords := 0
	longestQuote := 0
	for i := 1; i < len(segments); i += 2 {
		words := len(strings.Fields(segments[i]))
		quotedWords += words
		if words > longestQuote {
			longestQuote = words
		}
	}

	quotedFraction := float64(quotedWords) / float64(totalWords)

	if longestQuote > longQuoteWordLimit {
		detail := fmt.Sprintf("contains a quotation of %d words", longestQuote)
		return models.CopyrightFlagged, &detail
	}
	if quotedFraction > quotedFractionLimit {
		detail := fmt.Sprintf("%.0f%% of the text is quoted material", quotedFraction*100)
		return models.CopyrightFlagged, &detail
	}

	return models.CopyrightClear, nil
}
