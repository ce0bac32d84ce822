package service

// Categories returns the sidebar options in display order
func Categories() []string {
	return []string{CategoryNFL, CategoryCFB, CategoryPlayerProps}
}

// IsKnownCategory reports whether category is one of the three sidebar options
func IsKnownCategory(category string) bool {
	switch category {
	case CategoryNFL, CategoryCFB, CategoryPlayerProps:
		return true
	}
	return false
}

// TableForCategory maps a sidebar category to the detail table it shows.
// Every value that is not NFL or College Football, including unknown ones,
// maps to the player prop table.
func TableForCategory(category string) string {
	switch category {
	case CategoryNFL:
		return TableNFLGames
	case CategoryCFB:
		return TableCFBGames
	default:
		// TODO: confirm with product whether unknown categories should be rejected instead
		return TablePlayerProps
	}
}

// HeaderTableForCategory returns the accuracy table shown above a category,
// or "" when the category has none
func HeaderTableForCategory(category string) string {
	switch category {
	case CategoryNFL:
		return TableNFLResults
	case CategoryCFB:
		return TableCFBResults
	default:
		return ""
	}
}
