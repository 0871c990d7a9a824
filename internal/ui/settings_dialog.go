package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/nus3audio-editor/internal/config"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	vgaudioEntry    *widget.Entry
	runtimeEntry    *widget.Entry
	vgmstreamEntry  *widget.Entry
	preferCheck     *widget.Check
	timeoutEntry    *widget.Entry
	languageSelect  *widget.Select
	languageOptions map[string]string
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.vgaudioEntry = widget.NewEntry()
	sd.runtimeEntry = widget.NewEntry()
	sd.vgmstreamEntry = widget.NewEntry()
	sd.preferCheck = widget.NewCheck(t(KeyPreferVgmstream), nil)

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.SetPlaceHolder(strconv.Itoa(config.MinToolTimeout) + "-" + strconv.Itoa(config.MaxToolTimeout))
	sd.timeoutEntry.Validator = func(s string) error {
		_, err := strconv.Atoi(s)
		return err
	}

	// Language select shows display names, stores codes
	sd.languageOptions = map[string]string{}
	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageOptions[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyVGAudioCliPath)),
		sd.browseRow(sd.vgaudioEntry),
	)
	if !platform.IsWindows() {
		form.Add(widget.NewLabel(t(KeyRuntimePath)))
		form.Add(sd.runtimeEntry)
	}
	form.Add(widget.NewLabel(t(KeyVgmstreamPath)))
	form.Add(sd.browseRow(sd.vgmstreamEntry))
	form.Add(sd.preferCheck)
	form.Add(widget.NewLabel(t(KeyToolTimeout)))
	form.Add(sd.timeoutEntry)
	form.Add(widget.NewSeparator())
	form.Add(widget.NewLabel(t(KeyLanguage)))
	form.Add(sd.languageSelect)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

// browseRow puts a file browse button next to entry
func (sd *SettingsDialog) browseRow(entry *widget.Entry) fyne.CanvasObject {
	browse := widget.NewButton(sd.localization.GetText(KeyBrowse), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			entry.SetText(reader.URI().Path())
			_ = reader.Close()
		}, sd.window)
	})
	return container.NewBorder(nil, nil, nil, browse, entry)
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.vgaudioEntry.SetText(sd.settings.GetVGAudioCliPath())
	sd.runtimeEntry.SetText(sd.settings.GetRuntimePath())
	sd.vgmstreamEntry.SetText(sd.settings.GetVgmstreamPath())
	sd.preferCheck.SetChecked(sd.settings.GetPreferVgmstream())
	sd.timeoutEntry.SetText(strconv.Itoa(sd.settings.GetToolTimeout()))

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageOptions {
		if code == current {
			sd.languageSelect.SetSelected(name)
		}
	}
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetVGAudioCliPath(sd.vgaudioEntry.Text)
	if !platform.IsWindows() {
		sd.settings.SetRuntimePath(sd.runtimeEntry.Text)
	}
	sd.settings.SetVgmstreamPath(sd.vgmstreamEntry.Text)
	sd.settings.SetPreferVgmstream(sd.preferCheck.Checked)

	if seconds, err := strconv.Atoi(sd.timeoutEntry.Text); err == nil {
		sd.settings.SetToolTimeout(seconds)
	}

	if code, ok := sd.languageOptions[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
