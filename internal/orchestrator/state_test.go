package orchestrator

import (
	"errors"
	"testing"

	"news_podcast/internal/models"

	"github.com/stretchr/testify/require"
)

func mounted(t *testing.T) State {
	t.Helper()
	s, cmd := Mount(Initial())
	require.NotNil(t, cmd)
	s, ok := HeadlinesLoaded(s, cmd.Seq, []models.Article{{URL: "u1", Title: "One"}}, nil)
	require.True(t, ok)
	return s
}

func TestMountFetchesDefaults(t *testing.T) {
	s, cmd := Mount(Initial())
	require.Equal(t, &FetchCmd{Seq: 1, Query: Query{Category: models.CategoryBusiness, PageSize: 5}}, cmd)
	require.Equal(t, PhaseLoading, s.Phase)
}

func TestChangesBeforeMountDoNotFetch(t *testing.T) {
	s, cmd := SetCategory(Initial(), models.CategoryHealth)
	require.Nil(t, cmd)

	_, cmd = Mount(s)
	require.Equal(t, models.CategoryHealth, cmd.Query.Category)
}

func TestSameValueIsNotAChange(t *testing.T) {
	s := mounted(t)

	_, cmd := SetCategory(s, models.CategoryBusiness)
	require.Nil(t, cmd)
	_, cmd = SetPageSize(s, 5)
	require.Nil(t, cmd)
}

func TestInvalidSelectionsAreIgnored(t *testing.T) {
	s := mounted(t)

	next, cmd := SetCategory(s, "weather")
	require.Nil(t, cmd)
	require.Equal(t, models.CategoryBusiness, next.Category)

	next, cmd = SetPageSize(s, 7)
	require.Nil(t, cmd)
	require.Equal(t, 5, next.PageSize)
}

func TestHeadlineErrorKeepsArticlesAndRecovers(t *testing.T) {
	s := mounted(t)
	s, cmd := SetPageSize(s, 10)
	require.NotNil(t, cmd)

	s, ok := HeadlinesLoaded(s, cmd.Seq, nil, errors.New("timeout"))
	require.True(t, ok)
	require.Equal(t, PhaseError, s.Phase)
	require.Equal(t, []models.Article{{URL: "u1", Title: "One"}}, s.Articles)
	require.Nil(t, s.Notice)

	s = SetTopic(s, "x")
	require.Equal(t, PhaseIdle, s.Phase)
}

func TestStaleResponseIsDropped(t *testing.T) {
	s := mounted(t)
	s, first := SetCategory(s, models.CategoryScience)
	s, second := SetCategory(s, models.CategorySports)

	s, ok := HeadlinesLoaded(s, second.Seq, []models.Article{{URL: "sports"}}, nil)
	require.True(t, ok)

	s, ok = HeadlinesLoaded(s, first.Seq, []models.Article{{URL: "science"}}, nil)
	require.False(t, ok)
	require.Equal(t, []models.Article{{URL: "sports"}}, s.Articles)
	require.Equal(t, PhaseReady, s.Phase)
}

func TestTopicModeDefersFetch(t *testing.T) {
	s := mounted(t)
	s, cmd := SetMode(s, ModeTopic)
	require.Nil(t, cmd)

	s, cmd = SetCategory(s, models.CategoryTechnology)
	require.Nil(t, cmd)
	s, cmd = SetPageSize(s, 15)
	require.Nil(t, cmd)

	s, cmd = SetMode(s, ModeNews)
	require.Equal(t, Query{Category: models.CategoryTechnology, PageSize: 15}, cmd.Query)

	// Going back and forth without changes does not fetch again.
	s, _ = HeadlinesLoaded(s, cmd.Seq, nil, nil)
	s, _ = SetMode(s, ModeTopic)
	_, cmd = SetMode(s, ModeNews)
	require.Nil(t, cmd)
}

func TestTopicRoundTripToSameQueryDoesNotFetch(t *testing.T) {
	s := mounted(t)
	s, _ = SetMode(s, ModeTopic)
	s, _ = SetCategory(s, models.CategoryHealth)
	s, _ = SetCategory(s, models.CategoryBusiness)

	_, cmd := SetMode(s, ModeNews)
	require.Nil(t, cmd)
}

func TestSummarizeGuards(t *testing.T) {
	_, ok := StartSummarize(Initial())
	require.False(t, ok, "no articles")

	s := mounted(t)
	topic, _ := SetMode(s, ModeTopic)
	_, ok = StartSummarize(topic)
	require.False(t, ok, "topic mode")

	running, ok := StartSummarize(s)
	require.True(t, ok)
	require.True(t, running.IsSummarizing)

	_, ok = StartSummarize(running)
	require.False(t, ok, "already running")
}

func TestSummaryDone(t *testing.T) {
	s := mounted(t)
	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{Text: "S1", AudioURL: "a1", Cached: true}, nil)
	require.False(t, s.IsSummarizing)
	require.Equal(t, "S1", s.Summary.Text)
	require.Equal(t, "a1", s.AudioURL)
	require.Equal(t, &Notice{Kind: NoticeCached, Message: "Used cached summary"}, s.Notice)

	s, _ = TogglePlayback(s)
	require.True(t, s.IsPlaying)

	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{Text: "S2", AudioURL: "a2"}, nil)
	require.False(t, s.IsPlaying)
	require.Equal(t, &Notice{Kind: NoticeGenerated, Message: "Generated new summary"}, s.Notice)

	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{}, errors.New("boom"))
	require.False(t, s.IsSummarizing)
	require.Equal(t, "S2", s.Summary.Text)
	require.Equal(t, "a2", s.AudioURL)
	require.Equal(t, NoticeError, s.Notice.Kind)
}

func TestExploreGuards(t *testing.T) {
	s := mounted(t)
	s, _ = SetMode(s, ModeTopic)

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, _, ok := StartExplore(SetTopic(s, topic))
		require.False(t, ok, "%q", topic)
	}

	s, topic, ok := StartExplore(SetTopic(s, "  fusion "))
	require.True(t, ok)
	require.Equal(t, "fusion", topic)
	require.True(t, s.IsExploring)

	s = ExplorationDone(s, models.GenerationResult{Text: "E", AudioURL: "e1"}, nil)
	require.Equal(t, "E", s.Exploration.Text)
	require.Equal(t, &Notice{Kind: NoticeGenerated, Message: "Generated new exploration"}, s.Notice)
}

func TestExploreNeedsTopicMode(t *testing.T) {
	_, _, ok := StartExplore(SetTopic(mounted(t), "fusion"))
	require.False(t, ok)
}

func TestTogglePlayback(t *testing.T) {
	s, op := TogglePlayback(Initial())
	require.Equal(t, OpNone, op)
	require.False(t, s.IsPlaying)

	s = mounted(t)
	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{Text: "S", AudioURL: "a"}, nil)

	s, op = TogglePlayback(s)
	require.Equal(t, OpPlay, op)
	require.True(t, s.IsPlaying)

	s, op = TogglePlayback(s)
	require.Equal(t, OpPause, op)
	require.False(t, s.IsPlaying)
}

func TestModeSwitchKeepsResults(t *testing.T) {
	s := mounted(t)
	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{Text: "S", AudioURL: "a"}, nil)

	s, _ = SetMode(s, ModeTopic)
	s, _, _ = StartExplore(SetTopic(s, "fusion"))
	s = ExplorationDone(s, models.GenerationResult{Text: "E", AudioURL: "e"}, nil)

	s, _ = SetMode(s, ModeNews)
	require.Equal(t, "S", s.Summary.Text)
	require.Equal(t, "a", s.Summary.AudioURL)
	require.Equal(t, "E", s.Exploration.Text)
	require.Equal(t, "e", s.AudioURL)
}

func TestScrapeTracking(t *testing.T) {
	s := Initial()
	s, ok := StartScrape(s, "u1")
	require.True(t, ok)
	require.Equal(t, ScrapeStatus{Loading: true}, s.Scrapes["u1"])

	_, ok = StartScrape(s, "u1")
	require.False(t, ok)

	s = ScrapeDone(s, "u1", "URL is required")
	require.Equal(t, ScrapeStatus{Err: "URL is required"}, s.Scrapes["u1"])

	s, ok = StartScrape(s, "u1")
	require.True(t, ok)
	require.Empty(t, s.Scrapes["u1"].Err)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	s := Initial()
	next, _ := StartScrape(s, "u1")
	require.Empty(t, s.Scrapes)
	require.NotEmpty(t, next.Scrapes)
}

func TestDismissNotice(t *testing.T) {
	s := mounted(t)
	s, _ = StartSummarize(s)
	s = SummaryDone(s, models.GenerationResult{Text: "S"}, nil)
	require.NotNil(t, s.Notice)
	require.Equal(t, NoticeGenerated, s.Notice.Kind)

	s = DismissNotice(s)
	require.Nil(t, s.Notice)
	require.Equal(t, "S", s.Summary.Text)
}

func TestExplorationFailureKeepsPreviousResult(t *testing.T) {
	s, _ := SetMode(mounted(t), ModeTopic)
	s, _, ok := StartExplore(SetTopic(s, "fusion"))
	require.True(t, ok)
	s = ExplorationDone(s, models.GenerationResult{Text: "E", AudioURL: "e"}, nil)
	s, _ = TogglePlayback(s)
	seq := s.AudioSeq

	s, _, ok = StartExplore(s)
	require.True(t, ok)
	require.True(t, s.IsExploring)
	s = ExplorationDone(s, models.GenerationResult{}, errors.New("boom"))

	require.False(t, s.IsExploring)
	require.Equal(t, "E", s.Exploration.Text)
	require.Equal(t, "e", s.AudioURL)
	require.True(t, s.IsPlaying)
	require.Equal(t, seq, s.AudioSeq)
	require.Equal(t, &Notice{Kind: NoticeError, Message: "Failed to generate exploration"}, s.Notice)
}

func TestAudioBindingsAreSequenced(t *testing.T) {
	s := Initial()
	s = SummaryDone(s, models.GenerationResult{AudioURL: "a"}, nil)
	s = ExplorationDone(s, models.GenerationResult{AudioURL: "b"}, nil)
	require.Equal(t, uint64(2), s.AudioSeq)

	s = SummaryDone(s, models.GenerationResult{}, errors.New("boom"))
	require.Equal(t, uint64(2), s.AudioSeq)
	require.Equal(t, "b", s.AudioURL)
}
