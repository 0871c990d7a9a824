package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

// PropertiesForm edits the name, format and loop of one sound
type PropertiesForm struct {
	localization *Localization
	info         editor.SoundInfo
	formats      map[string]nus3.Extension

	nameEntry     *widget.Entry
	formatRadio   *widget.RadioGroup
	loopCheck     *widget.Check
	loopFromEntry *widget.Entry
	loopToEntry   *widget.Entry
}

// NewPropertiesForm creates a form filled from info
func NewPropertiesForm(info editor.SoundInfo, localization *Localization) *PropertiesForm {
	t := localization.GetText
	f := &PropertiesForm{
		localization: localization,
		info:         info,
		formats: map[string]nus3.Extension{
			t(KeyIDSPFormat):  nus3.ExtIDSP,
			t(KeyLOPUSFormat): nus3.ExtLOPUS,
			t(KeyBinaryData):  nus3.ExtBin,
		},
	}

	f.nameEntry = widget.NewEntry()
	f.nameEntry.SetText(info.Name)

	f.loopFromEntry = widget.NewEntry()
	f.loopToEntry = widget.NewEntry()
	f.loopCheck = widget.NewCheck(t(KeyLoopAudio), f.onLoopToggled)

	f.formatRadio = widget.NewRadioGroup([]string{t(KeyIDSPFormat), t(KeyLOPUSFormat), t(KeyBinaryData)}, f.onFormatChanged)
	f.formatRadio.Required = true

	if info.Loop != nil {
		f.loopFromEntry.SetText(strconv.Itoa(info.Loop.Start))
		f.loopToEntry.SetText(strconv.Itoa(info.Loop.End))
	}
	f.loopCheck.SetChecked(info.Loop != nil)
	f.onLoopToggled(info.Loop != nil)
	f.formatRadio.SetSelected(f.formatLabel(info.Extension))

	return f
}

// formatLabel returns the radio option for ext
func (f *PropertiesForm) formatLabel(ext nus3.Extension) string {
	for label, e := range f.formats {
		if e == ext {
			return label
		}
	}
	return f.localization.GetText(KeyIDSPFormat)
}

// onFormatChanged disables looping for binary data
func (f *PropertiesForm) onFormatChanged(selected string) {
	if f.formats[selected] == nus3.ExtBin {
		f.loopCheck.SetChecked(false)
		f.loopCheck.Disable()
		return
	}
	f.loopCheck.Enable()
}

// onLoopToggled enables the loop fields, defaulting to the whole sound
func (f *PropertiesForm) onLoopToggled(checked bool) {
	if !checked {
		f.loopFromEntry.Disable()
		f.loopToEntry.Disable()
		return
	}

	f.loopFromEntry.Enable()
	f.loopToEntry.Enable()
	if f.loopFromEntry.Text == "" && f.loopToEntry.Text == "" {
		f.loopFromEntry.SetText("0")
		f.loopToEntry.SetText(strconv.Itoa(f.info.LengthInSamples))
	}
}

// Items returns the rows of the form
func (f *PropertiesForm) Items() []*widget.FormItem {
	t := f.localization.GetText
	return []*widget.FormItem{
		{Text: t(KeyName), Widget: f.nameEntry},
		{Text: t(KeyFormat), Widget: f.formatRadio},
		{Text: "", Widget: f.loopCheck},
		{Text: t(KeyLoopFrom), Widget: f.loopFromEntry},
		{Text: t(KeyLoopTo), Widget: f.loopToEntry},
	}
}

// Properties reads and validates the form
func (f *PropertiesForm) Properties() (editor.Properties, error) {
	t := f.localization.GetText
	props := editor.Properties{
		Name:      f.nameEntry.Text,
		Extension: f.formats[f.formatRadio.Selected],
	}
	if err := model.ValidateName(props.Name); err != nil {
		return props, err
	}
	if !f.loopCheck.Checked {
		return props, nil
	}
	if props.Extension == nus3.ExtBin {
		return props, errors.New(t(KeyBinaryCannotLoop))
	}

	start, errStart := strconv.Atoi(strings.TrimSpace(f.loopFromEntry.Text))
	end, errEnd := strconv.Atoi(strings.TrimSpace(f.loopToEntry.Text))
	if errStart != nil || errEnd != nil || start < 0 || end < 0 {
		return props, errors.New(t(KeyLoopPointsPositive))
	}
	if start >= end {
		return props, errors.New(t(KeyLoopBeginBeforeEnd))
	}
	props.Loop = &model.LoopPoints{Start: start, End: end}
	return props, nil
}

// ShowPropertiesDialog edits info; apply is called with the confirmed
// properties. On a validation error the dialog is shown again.
func ShowPropertiesDialog(window fyne.Window, info editor.SoundInfo, localization *Localization, apply func(editor.Properties) error) {
	t := localization.GetText
	form := NewPropertiesForm(info, localization)

	var d dialog.Dialog
	d = dialog.NewForm(fmt.Sprintf(t(KeyPropertiesOf), info.Name), t(KeyOk), t(KeyCancel), form.Items(), func(ok bool) {
		if !ok {
			return
		}
		props, err := form.Properties()
		if err == nil {
			err = apply(props)
		}
		if err != nil {
			errDialog := dialog.NewInformation(t(KeyError), err.Error(), window)
			errDialog.SetOnClosed(d.Show)
			errDialog.Show()
		}
	}, window)
	d.Resize(fyne.NewSize(PropertiesWidth, d.MinSize().Height))
	d.Show()
}
