// package formatter provides functions to export saved favorites to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "markdown", "txt"}

// ExportToCSV converts favorites to CSV format with columns: ID, Name, Address, City, State, Rating, Reviews, Saved At
func ExportToCSV(favs []models.Favorite) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Address", "City", "State", "Rating", "Reviews", "Saved At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, fav := range favs {
		record := []string{
			fav.ID,
			fav.Name,
			fav.Address,
			fav.City,
			fav.State,
			strconv.FormatFloat(fav.Rating, 'f', 1, 64),
			strconv.Itoa(fav.ReviewCount),
			formatTime(fav.SavedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts favorites to a Markdown document. Names link to baseURL/spas/{id} when baseURL is set.
func ExportToMarkdown(favs []models.Favorite, baseURL string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorite med spas\n\n")
	buf.WriteString(fmt.Sprintf("**Saved**: %d\n\n", len(favs)))

	for i, fav := range favs {
		name := fav.Name
		if baseURL != "" {
			name = fmt.Sprintf("[%s](%s/spas/%s)", fav.Name, strings.TrimSuffix(baseURL, "/"), fav.ID)
		}
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, name))
		if loc := location(fav); loc != "" {
			buf.WriteString(" - " + loc)
		}
		buf.WriteString(fmt.Sprintf(" [%s]\n", shared.FormatRating(fav.Rating, fav.ReviewCount)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts favorites to plain text format
func ExportToText(favs []models.Favorite) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(favs)))
	for i, fav := range favs {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, fav.Name))
		if loc := location(fav); loc != "" {
			buf.WriteString(" (" + loc + ")")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders favorites as an indented JSON array
func ExportToJSON(favs []models.Favorite) ([]byte, error) {
	if favs == nil {
		favs = []models.Favorite{}
	}
	return shared.MarshalJSON(favs, true)
}

// Export renders favorites in format and returns the file extension for it.
func Export(favs []models.Favorite, format, baseURL string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		data, err := ExportToJSON(favs)
		return data, "json", err
	case "csv":
		data, err := ExportToCSV(favs)
		return data, "csv", err
	case "markdown", "md":
		data, err := ExportToMarkdown(favs, baseURL)
		return data, "md", err
	case "txt", "text":
		data, err := ExportToText(favs)
		return data, "txt", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported format %q (want one of %s)",
			shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// WriteExport exports favorites to path, creating parent directories as needed.
//
// Defaults to favorites.{ext} in the working directory.
func WriteExport(favs []models.Favorite, format, baseURL, path string) (string, error) {
	data, ext, err := Export(favs, format, baseURL)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "favorites." + ext
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func location(fav models.Favorite) string {
	return models.Listing{City: fav.City, State: fav.State}.Location()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
