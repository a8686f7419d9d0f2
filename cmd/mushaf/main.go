package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/escalopa/quran-mushaf/internal/adapter/i18n"
	"github.com/escalopa/quran-mushaf/internal/adapter/memstore"
	"github.com/escalopa/quran-mushaf/internal/adapter/redis"
	"github.com/escalopa/quran-mushaf/internal/adapter/sqlite"
	"github.com/escalopa/quran-mushaf/internal/adapter/timingapi"
	"github.com/escalopa/quran-mushaf/internal/application"
	"github.com/escalopa/quran-mushaf/internal/config"
	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("Application error: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mushaf", flag.ContinueOnError)
	lang := fs.String("lang", "", "Output language (en, ar)")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		usage(fs)
		return errUsage
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.App.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer lg.Sync()

	tr, err := i18n.NewI18n(cfg.App.LocalesDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	quranDB, err := sqlite.Open(cfg.Database.QuranPath)
	if err != nil {
		return err
	}
	defer closeDB(quranDB, lg)

	store, err := sqlite.LoadQuran(ctx, quranDB)
	if err != nil {
		return err
	}
	lg.Info("quran loaded", "words", store.Len(), "pages", len(store.Pages()))

	progress, closeProgress, err := openProgressStore(cfg.Redis, lg)
	if err != nil {
		return err
	}
	defer closeProgress()

	timing, closeTiming, err := newTimingService(cfg, lg.With("component", "timing"))
	if err != nil {
		return err
	}
	defer closeTiming()

	reciters, err := config.LoadReciters(cfg.Timing.RecitersFile)
	if err != nil {
		lg.Warn("reciters not loaded", "file", cfg.Timing.RecitersFile, "error", err)
	}

	layout := application.NewLayoutService(store, store)
	c := &cli{
		out:      os.Stdout,
		lang:     domain.Language(cfg.App.DefaultLanguage),
		tr:       tr,
		log:      lg,
		layout:   layout,
		builder:  application.NewReferenceBuilder(store, store, lg.With("component", "reference")),
		memo:     application.NewMemorizationService(progress, layout, lg.With("component", "memorization")),
		timing:   timing,
		reciters: reciters,
	}
	if *lang != "" {
		c.lang = domain.Language(*lang)
	}

	return c.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}

// openProgressStore uses redis when configured and memory otherwise
func openProgressStore(cfg config.RedisConfig, lg *logger.Logger) (domain.ProgressStore, func(), error) {
	if cfg.URI == "" {
		lg.Warn("redis not configured, progress is kept for this run only")
		return memstore.NewProgressStore(), func() {}, nil
	}

	store, err := redis.NewProgressStore(cfg.URI, cfg.Profile)
	if err != nil {
		return nil, nil, err
	}
	lg.Debug("redis progress store connected", "profile", cfg.Profile)
	return store, func() {
		if err := store.Close(); err != nil {
			lg.Error("close redis", "error", err)
		}
	}, nil
}

func closeDB(db *gorm.DB, lg *logger.Logger) {
	if err := sqlite.Close(db); err != nil {
		lg.Error("close database", "error", err)
	}
}

// newTimingService wires the configured timing sources. The returned func
// closes the timing database.
func newTimingService(cfg *config.Config, lg *logger.Logger) (*application.TimingService, func(), error) {
	var (
		segments *timingapi.Client
		perAyah  *sqlite.TimingStore
		closer   = func() {}
	)

	if cfg.Timing.BaseURL != "" {
		segments = timingapi.NewClient(cfg.Timing.BaseURL, cfg.Timing.Timeout)
	}
	if cfg.Database.TimingPath != "" {
		db, err := sqlite.Open(cfg.Database.TimingPath)
		if err != nil {
			return nil, nil, err
		}
		perAyah = sqlite.NewTimingStore(db)
		closer = func() { closeDB(db, lg) }
	}

	// typed nils must not reach the service as non-nil interfaces
	var (
		segmentSource domain.TimingSource
		surahAudio    domain.SurahAudio
		ayahSource    domain.TimingSource
	)
	if segments != nil {
		segmentSource, surahAudio = segments, segments
	}
	if perAyah != nil {
		ayahSource = perAyah
	}
	return application.NewTimingService(segmentSource, surahAudio, ayahSource, lg), closer, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "mushaf - Quran mushaf pages, navigation index and memorization reviews\n\n")
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  mushaf [-lang en|ar] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  page N                          Print mushaf page N\n")
	fmt.Fprintf(w, "  surah N                         Print every page of surah N\n")
	fmt.Fprintf(w, "  index [page|juz|hizb|rub]       Print the navigation index (default juz)\n")
	fmt.Fprintf(w, "  due                             List the surahs due for review\n")
	fmt.Fprintf(w, "  stats                           Print memorization statistics\n")
	fmt.Fprintf(w, "  status SURAH STATUS             Set a surah to new, learning, memorized or mastered\n")
	fmt.Fprintf(w, "  test SURAH AYAH WORDS...        Check a recited ayah and record the result\n")
	fmt.Fprintf(w, "  follow [-reciter ID] [-plain] SURAH AYAH\n")
	fmt.Fprintf(w, "                                  Highlight each word as the reciter reaches it\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nThe configuration file is read from CONFIG_PATH (default config.yaml).\n")
}
