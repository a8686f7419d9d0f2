// Package i18n serves the localized messages and surah names of the
// command line from YAML locale files.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

// Languages lists the locales that must be present in the locales directory
var Languages = []domain.Language{domain.LangEnglish, domain.LangArabic}

type I18n struct {
	translations map[domain.Language]map[string]string
	surahs       map[domain.Language][]string
}

type localeFile struct {
	Messages map[string]string `yaml:"messages"`
	Surahs   []string          `yaml:"surahs"`
}

func NewI18n(localesDir string) (*I18n, error) {
	i18n := &I18n{
		translations: make(map[domain.Language]map[string]string),
		surahs:       make(map[domain.Language][]string),
	}

	for _, lang := range Languages {
		filename := filepath.Join(localesDir, string(lang)+".yaml")
		if err := i18n.loadLocale(lang, filename); err != nil {
			return nil, fmt.Errorf("load %s locale: %w", lang, err)
		}
	}

	return i18n, nil
}

func (i *I18n) loadLocale(lang domain.Language, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var lf localeFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	if len(lf.Surahs) != domain.TotalSurahs {
		return fmt.Errorf("expected %d surah names, got %d", domain.TotalSurahs, len(lf.Surahs))
	}

	i.translations[lang] = lf.Messages
	i.surahs[lang] = lf.Surahs
	return nil
}

// Get returns the message for key in lang, falling back to English and then
// to the key itself. Args are applied with fmt.Sprintf.
func (i *I18n) Get(lang domain.Language, key string, args ...interface{}) string {
	msg, ok := i.translations[lang][key]
	if !ok {
		msg, ok = i.translations[domain.LangEnglish][key]
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetSurahName retrieves the localized name of a Surah
func (i *I18n) GetSurahName(lang domain.Language, surahNumber int) string {
	if !domain.ValidSurah(surahNumber) {
		return fmt.Sprintf("Surah %d", surahNumber)
	}

	surahs, ok := i.surahs[lang]
	if !ok {
		surahs = i.surahs[domain.LangEnglish]
	}
	return surahs[surahNumber-1]
}

// FormatSurahTitle formats a surah as its number and localized name
func FormatSurahTitle(lang domain.Language, i18n domain.I18nPort, surahNumber int) string {
	name := i18n.GetSurahName(lang, surahNumber)
	return fmt.Sprintf("%d. %s", surahNumber, strings.TrimSpace(name))
}

// FormatAyahRef formats an ayah reference such as "Al-Fatihah 1:5"
func FormatAyahRef(lang domain.Language, i18n domain.I18nPort, surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%s %s", i18n.GetSurahName(lang, surahNumber), domain.AyahKey(surahNumber, ayahNumber))
}
