package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dukerupert/memoboard/internal/store"
)

// FontSettings is the global default typography applied to new notes.
type FontSettings struct {
	Family    string  `json:"family"`
	Size      float64 `json:"size"`
	Weight    string  `json:"weight"`
	Style     string  `json:"style"`
	Underline bool    `json:"underline"`
	Color     string  `json:"color"`
}

const (
	settingFontFamily = "GlobalFontFamily"
	settingFontSize   = "GlobalFontSize"
	settingFontWeight = "GlobalFontWeight"
	settingFontStyle  = "GlobalFontStyle"
	settingUnderline  = "GlobalUnderline"
	settingFontColor  = "GlobalFontColorHex"
)

// SettingsService reads and writes the global font settings as key/value rows.
type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Font returns the stored settings, substituting defaults for absent or
// unparsable values.
func (s *SettingsService) Font() (FontSettings, error) {
	rows, err := store.NewSettingsStore(s.db).GetAll()
	if err != nil {
		return FontSettings{}, err
	}

	get := func(key, fallback string) string {
		if v, ok := rows[key]; ok {
			return v
		}
		return fallback
	}

	size, err := strconv.ParseFloat(get(settingFontSize, "14"), 64)
	if err != nil || size <= 0 {
		size = defaultFontSize
	}
	underline, err := strconv.ParseBool(get(settingUnderline, "false"))
	if err != nil {
		underline = false
	}

	return FontSettings{
		Family:    get(settingFontFamily, defaultFontFamily),
		Size:      size,
		Weight:    get(settingFontWeight, defaultFontStyle),
		Style:     get(settingFontStyle, defaultFontStyle),
		Underline: underline,
		Color:     get(settingFontColor, defaultFontColor),
	}, nil
}

// UpdateFont persists the settings in one unit of work.
func (s *SettingsService) UpdateFont(f FontSettings) error {
	if f.Family == "" {
		f.Family = defaultFontFamily
	}
	if f.Size <= 0 {
		f.Size = defaultFontSize
	}
	if f.Weight == "" {
		f.Weight = defaultFontStyle
	}
	if f.Style == "" {
		f.Style = defaultFontStyle
	}
	if f.Color == "" {
		f.Color = defaultFontColor
	}

	return store.WithTx(s.db, func(tx *sql.Tx) error {
		settings := store.NewSettingsStore(tx)
		pairs := [][2]string{
			{settingFontFamily, f.Family},
			{settingFontSize, strconv.FormatFloat(f.Size, 'f', -1, 64)},
			{settingFontWeight, f.Weight},
			{settingFontStyle, f.Style},
			{settingUnderline, strconv.FormatBool(f.Underline)},
			{settingFontColor, f.Color},
		}
		for _, p := range pairs {
			if err := settings.Set(p[0], p[1]); err != nil {
				return fmt.Errorf("save font setting: %w", err)
			}
		}
		return nil
	})
}
