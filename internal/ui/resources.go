package ui

import (
	"fyne.io/fyne/v2"
)

// AppIcon is loaded from the working directory when present
const AppIcon = "nus3audio-editor.png"

// LoadAppIcon loads the window icon, or nil when it is missing
func LoadAppIcon() fyne.Resource {
	res, err := fyne.LoadResourceFromPath(AppIcon)
	if err != nil {
		return nil
	}
	return res
}
