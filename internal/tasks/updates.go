package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadFavorites Phase = iota
	FetchListing
	UpdateFavorite
	ExportFavorites
)

func (p Phase) String() string {
	switch p {
	case LoadFavorites:
		return "load_favorites"
	case FetchListing:
		return "fetch_listing"
	case UpdateFavorite:
		return "update_favorite"
	case ExportFavorites:
		return "export_favorites"
	default:
		return ""
	}
}

func loadFavoritesUpdate(total int, key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadFavorites,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Refreshing %d favorites (%s)...", total, key),
	}
}

func fetchListingUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching listing %s...", step, total, id),
	}
}

func refreshedUpdate(step, total int, res refreshOutcome) ProgressUpdate {
	u := ProgressUpdate{Phase: UpdateFavorite, Step: step, Total: total, Data: res.id}
	switch {
	case res.missing:
		u.Message = fmt.Sprintf("[%d/%d] ? %s no longer listed", step, total, res.name)
	case res.err != nil:
		u.Message = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.name, res.err)
	case res.changed:
		u.Message = fmt.Sprintf("[%d/%d] ✓ %s updated", step, total, res.name)
	default:
		u.Message = fmt.Sprintf("[%d/%d] %s unchanged", step, total, res.name)
	}
	return u
}

func exportingUpdate(total int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Exporting %d favorites as %s...", total, format),
	}
}

func exportedUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("✓ Wrote %s", path),
		Data:    path,
	}
}
