package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/escalopa/quran-mushaf/internal/adapter/i18n"
	"github.com/escalopa/quran-mushaf/internal/application"
	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

var errUsage = errors.New("usage")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AA88"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

type cli struct {
	out      io.Writer
	lang     domain.Language
	tr       domain.I18nPort
	log      *logger.Logger
	layout   *application.LayoutService
	builder  *application.ReferenceBuilder
	memo     *application.MemorizationService
	timing   *application.TimingService
	reciters []domain.Reciter
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "page":
		return c.page(args)
	case "surah":
		return c.surah(args)
	case "index":
		return c.index(args)
	case "due":
		return c.due(ctx)
	case "stats":
		return c.stats(ctx)
	case "status":
		return c.status(ctx, args)
	case "test":
		return c.test(ctx, args)
	case "follow":
		return c.follow(ctx, args)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// intArgs parses exactly n positive integers
func intArgs(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers: %w", n, errUsage)
	}
	out := make([]int, n)
	for i := range out {
		v, err := strconv.Atoi(args[i])
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid number %q: %w", args[i], errUsage)
		}
		out[i] = v
	}
	return out, nil
}

func (c *cli) page(args []string) error {
	nums, err := intArgs(args, 1)
	if err != nil {
		return err
	}

	page, ok := c.layout.PageLayout(nums[0])
	if !ok {
		return fmt.Errorf("%s: %w", c.tr.Get(c.lang, "page_not_found", nums[0]), domain.ErrNotFound)
	}
	c.renderPage(page)
	return nil
}

func (c *cli) renderPage(page *domain.MushafPage) {
	c.printf("%s\n", titleStyle.Render(c.tr.Get(c.lang, "page_title", page.PageNumber)))

	for _, line := range page.Lines {
		switch line.Type {
		case domain.LineSurahName:
			c.printf("%s\n", bannerStyle.Render("── "+i18n.FormatSurahTitle(c.lang, c.tr, line.SurahReference)+" ──"))
		case domain.LineBasmalah:
			c.printf("%s\n", bannerStyle.Render(c.tr.Get(c.lang, "basmalah")))
		case domain.LineAyah:
			parts := make([]string, len(line.Words))
			for i, w := range line.Words {
				parts[i] = w.Uthmani
			}
			c.printf("%s\n", strings.Join(parts, " "))
		default:
			c.printf("\n")
		}
	}
}

func (c *cli) surah(args []string) error {
	nums, err := intArgs(args, 1)
	if err != nil {
		return err
	}

	pages := c.layout.PagesForSurah(nums[0])
	if len(pages) == 0 {
		return fmt.Errorf("%s: %w", c.tr.Get(c.lang, "surah_empty", nums[0]), domain.ErrNotFound)
	}

	surah, _ := domain.GetSurah(nums[0])
	c.printf("%s\n\n", titleStyle.Render(c.tr.Get(c.lang, "surah_title",
		i18n.FormatSurahTitle(c.lang, c.tr, nums[0]),
		surah.Ayahs,
		pages[0].PageNumber,
		pages[len(pages)-1].PageNumber,
	)))
	for i := range pages {
		c.renderPage(&pages[i])
		c.printf("\n")
	}
	return nil
}

func (c *cli) index(args []string) error {
	kind := domain.ReferenceJuz
	if len(args) > 0 {
		kind = domain.ReferenceType(args[0])
	}

	idx := c.builder.Build()
	var refs []domain.ReferencePoint
	switch kind {
	case domain.ReferencePage:
		refs = idx.Pages
	case domain.ReferenceJuz:
		refs = idx.Juz
	case domain.ReferenceHizb:
		refs = idx.Hizb
	case domain.ReferenceRub:
		refs = idx.Rub
	default:
		return fmt.Errorf("unknown index %q: %w", kind, errUsage)
	}

	label := c.tr.Get(c.lang, "ref_"+string(kind))
	for _, ref := range refs {
		c.printf("%s\n", c.tr.Get(c.lang, "index_row",
			label,
			ref.Index,
			i18n.FormatAyahRef(c.lang, c.tr, ref.SurahNumber, ref.AyahNumber),
			ref.Page,
		))
	}
	return nil
}

func (c *cli) due(ctx context.Context) error {
	items, stats, err := c.memo.DueReviews(ctx)
	if err != nil {
		return err
	}
	if stats.TotalDue == 0 {
		c.printf("%s\n", c.tr.Get(c.lang, "due_none"))
		return nil
	}

	c.printf("%s\n", titleStyle.Render(c.tr.Get(c.lang, "due_summary", stats.TotalDue, stats.Today, stats.Overdue)))
	for _, p := range items {
		next := c.tr.Get(c.lang, "due_never")
		if p.NextReviewDate != nil {
			next = p.NextReviewDate.Format(time.DateOnly)
		}
		c.printf("%s\n", c.tr.Get(c.lang, "due_row", i18n.FormatSurahTitle(c.lang, c.tr, p.SurahNumber), p.MasteryScore, next))
	}
	return nil
}

func (c *cli) stats(ctx context.Context) error {
	s, err := c.memo.Stats(ctx)
	if err != nil {
		return err
	}

	c.printf("%s\n", c.tr.Get(c.lang, "stats_progress", s.TotalProgress, s.MemorizedSurahs, s.MasteredSurahs, s.LearningSurahs))
	c.printf("%s\n", c.tr.Get(c.lang, "stats_streak", s.CurrentStreak, s.LongestStreak))
	c.printf("%s\n", c.tr.Get(c.lang, "stats_tests", s.TotalTests, s.AverageAccuracy))
	c.printf("%s\n", c.tr.Get(c.lang, "stats_study_time", s.TotalStudyTime.Round(time.Minute)))
	return nil
}

func (c *cli) status(ctx context.Context, args []string) error {
	nums, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("missing status: %w", errUsage)
	}

	p, err := c.memo.SetStatus(ctx, nums[0], domain.MemorizationStatus(args[1]))
	if err != nil {
		return err
	}
	c.printf("%s\n", c.tr.Get(c.lang, "status_set", i18n.FormatSurahTitle(c.lang, c.tr, p.SurahNumber), p.Status))
	return nil
}

func (c *cli) test(ctx context.Context, args []string) error {
	nums, err := intArgs(args, 2)
	if err != nil {
		return err
	}

	result, p, err := c.memo.TestRecitation(ctx, nums[0], nums[1], strings.Join(args[2:], " "), 0)
	if err != nil {
		return err
	}

	verdict := c.tr.Get(c.lang, "test_failed")
	if p.TestResults[len(p.TestResults)-1].Passed {
		verdict = c.tr.Get(c.lang, "test_passed")
	}
	c.printf("%s  %s\n", titleStyle.Render(c.tr.Get(c.lang, "test_result", result.Accuracy)), verdict)
	for _, s := range result.Suggestions {
		c.printf("%s\n", mutedStyle.Render("- "+s))
	}
	return nil
}

func (c *cli) reciter(id int) (domain.Reciter, error) {
	for _, r := range c.reciters {
		if id == 0 || r.ID == id {
			return r, nil
		}
	}
	return domain.Reciter{}, fmt.Errorf("%s: %w", c.tr.Get(c.lang, "reciter_not_found", id), domain.ErrNotFound)
}

func (c *cli) follow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("follow", flag.ContinueOnError)
	fs.SetOutput(c.out)
	reciterID := fs.Int("reciter", 0, "Reciter ID (default: first configured reciter)")
	plain := fs.Bool("plain", false, "Print words as lines instead of the interactive view")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	nums, err := intArgs(fs.Args(), 2)
	if err != nil {
		return err
	}
	surahNumber, ayahNumber := nums[0], nums[1]

	reciter, err := c.reciter(*reciterID)
	if err != nil {
		return err
	}

	track, err := c.timing.AyahTrack(ctx, reciter, surahNumber, ayahNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", c.tr.Get(c.lang, "follow_no_timings", i18n.FormatAyahRef(c.lang, c.tr, surahNumber, ayahNumber)), err)
	}
	if err != nil {
		return err
	}

	words := c.layout.AyahWords(surahNumber, ayahNumber)
	title := i18n.FormatAyahRef(c.lang, c.tr, surahNumber, ayahNumber)
	if *plain {
		return c.followPlain(ctx, track, words)
	}
	return c.followInteractive(track, words, title)
}
