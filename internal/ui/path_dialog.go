package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowPathDialog asks for a tool path; set is called when confirmed
func ShowPathDialog(window fyne.Window, localization *Localization, titleKey, messageKey, current string, set func(string)) {
	t := localization.GetText

	entry := widget.NewEntry()
	entry.SetText(current)
	browse := widget.NewButton(t(KeyBrowse), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			entry.SetText(reader.URI().Path())
			_ = reader.Close()
		}, window)
	})

	message := widget.NewLabel(t(messageKey))
	message.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(message, container.NewBorder(nil, nil, nil, browse, entry))

	d := dialog.NewCustomConfirm(t(titleKey), t(KeyOk), t(KeyCancel), content, func(ok bool) {
		if ok {
			set(entry.Text)
		}
	}, window)
	d.Resize(fyne.NewSize(SettingsWidth, content.MinSize().Height*2))
	d.Show()
}
