package sqlite

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/escalopa/quran-mushaf/internal/adapter/memstore"
	"github.com/escalopa/quran-mushaf/internal/domain"
)

type wordRow struct {
	SurahNumber   int    `gorm:"column:surah_number"`
	AyahNumber    int    `gorm:"column:ayah_number"`
	WordNumber    int    `gorm:"column:word_number"`
	WordNumberAll int    `gorm:"column:word_number_all;primaryKey"`
	QPCV1         string `gorm:"column:qpc_v1"`
	Uthmani       string `gorm:"column:uthmani"`
	IsAyahMarker  bool   `gorm:"column:is_ayah_marker"`
}

func (wordRow) TableName() string { return "words" }

type layoutRow struct {
	Page       int    `gorm:"column:page;primaryKey"`
	Line       int    `gorm:"column:line;primaryKey"`
	Type       string `gorm:"column:type"`
	IsCentered bool   `gorm:"column:is_centered"`
	RangeStart *int   `gorm:"column:range_start"`
	RangeEnd   *int   `gorm:"column:range_end"`
}

func (layoutRow) TableName() string { return "qpc_v1_layout" }

// LoadQuran reads the words and qpc_v1_layout tables and indexes them in
// memory. Both tables are read concurrently.
func LoadQuran(ctx context.Context, db *gorm.DB) (*memstore.Store, error) {
	var (
		words []wordRow
		lines []layoutRow
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := db.WithContext(ctx).Order("word_number_all").Find(&words).Error; err != nil {
			return fmt.Errorf("load words: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.WithContext(ctx).Order("page, line").Find(&lines).Error; err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return memstore.New(mapWords(words), mapLines(lines)), nil
}

func mapWords(rows []wordRow) []domain.Word {
	words := make([]domain.Word, len(rows))
	for i, r := range rows {
		text := r.QPCV1
		if text == "" {
			text = r.Uthmani
		}
		words[i] = domain.Word{
			SurahNumber:  r.SurahNumber,
			AyahNumber:   r.AyahNumber,
			WordNumber:   r.WordNumber,
			GlobalIndex:  r.WordNumberAll,
			Text:         text,
			Uthmani:      r.Uthmani,
			IsAyahMarker: r.IsAyahMarker,
		}
	}
	return words
}

func mapLines(rows []layoutRow) []domain.LayoutLine {
	lines := make([]domain.LayoutLine, len(rows))
	for i, r := range rows {
		lines[i] = domain.LayoutLine{
			Page:       r.Page,
			Line:       r.Line,
			Type:       domain.LineType(r.Type),
			IsCentered: r.IsCentered,
			RangeStart: r.RangeStart,
			RangeEnd:   r.RangeEnd,
		}
	}
	return lines
}
