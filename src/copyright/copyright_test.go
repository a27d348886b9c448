package copyright

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/events"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArticleService struct {
	mu   sync.Mutex
	text string

	recordedStatus models.CopyrightStatus
	recordedDetail *string
	recordCalls    int
}

func (s *fakeArticleService) GetText(ctx context.Context, articleID uuid.UUID) (string, error) {
	return s.text, nil
}

func (s *fakeArticleService) UpdateCopyright(ctx context.Context, articleID uuid.UUID, status models.CopyrightStatus, detail *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCalls++
	s.recordedStatus = status
	s.recordedDetail = detail
	return nil
}

func TestAnalyze(t *testing.T) {
	t.Run("ordinary prose is clear", func(t *testing.T) {
		status, detail := analyze(strings.Repeat("all my own words here ", 50))
		assert.Equal(t, models.CopyrightClear, status)
		assert.Nil(t, detail)
	})

	t.Run("empty text is clear", func(t *testing.T) {
		status, detail := analyze("")
		assert.Equal(t, models.CopyrightClear, status)
		assert.Nil(t, detail)
	})

	t.Run("light quotation is clear", func(t *testing.T) {
		text := strings.Repeat("my own analysis goes here ", 40) + `as Woolf put it, "a room of one's own".`
		status, _ := analyze(text)
		assert.Equal(t, models.CopyrightClear, status)
	})

	t.Run("heavy quotation is flagged", func(t *testing.T) {
		text := `my brief intro ` + `"` + strings.Repeat("someone else's words ", 30) + `"`
		status, detail := analyze(text)
		assert.Equal(t, models.CopyrightFlagged, status)
		require.NotNil(t, detail)
		assert.NotEmpty(t, *detail)
	})

	t.Run("one very long quote is flagged even in a long text", func(t *testing.T) {
		text := strings.Repeat("plenty of original words ", 200) +
			`"` + strings.Repeat("quoted ", longQuoteWordLimit+1) + `"`
		status, _ := analyze(text)
		assert.Equal(t, models.CopyrightFlagged, status)
	})
}

func TestCheckRecordsVerdict(t *testing.T) {
	svc := &fakeArticleService{text: "all original words"}
	checker := NewChecker(svc)

	err := checker.Check(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, svc.recordCalls)
	assert.Equal(t, models.CopyrightClear, svc.recordedStatus)
}

func TestCheckerRunsOnArticleCreated(t *testing.T) {
	svc := &fakeArticleService{text: `"` + strings.Repeat("lifted wholesale ", 40) + `"`}
	checker := NewChecker(svc)

	registry := events.NewRegistry()
	checker.Subscribe(registry)

	registry.Dispatch(context.Background(), events.ArticleCreated, events.ArticleCreatedPayload{
		Article: &models.Article{ID: uuid.New(), Title: "Borrowed Words"},
	})

	unfinished := checker.Shutdown(time.Second)
	require.Empty(t, unfinished)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 1, svc.recordCalls)
	assert.Equal(t, models.CopyrightFlagged, svc.recordedStatus)
	require.NotNil(t, svc.recordedDetail)
}
