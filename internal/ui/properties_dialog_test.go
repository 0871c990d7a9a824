package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
)

func newTestForm(t *testing.T, info editor.SoundInfo) *PropertiesForm {
	t.Helper()
	test.NewApp()
	return NewPropertiesForm(info, NewLocalization())
}

func TestPropertiesFormDefaults(t *testing.T) {
	form := newTestForm(t, editor.SoundInfo{
		Name:            "bgm",
		Extension:       nus3.ExtLOPUS,
		LengthInSamples: 48000,
	})

	if form.nameEntry.Text != "bgm" {
		t.Errorf("Expected name bgm, got %s", form.nameEntry.Text)
	}
	if form.formatRadio.Selected != "LOPUS format" {
		t.Errorf("Expected LOPUS selected, got %s", form.formatRadio.Selected)
	}
	if form.loopCheck.Checked || !form.loopFromEntry.Disabled() {
		t.Error("Loop fields should start disabled without a loop")
	}

	form.loopCheck.SetChecked(true)
	if form.loopFromEntry.Text != "0" || form.loopToEntry.Text != "48000" {
		t.Errorf("Expected loop 0-48000, got %s-%s", form.loopFromEntry.Text, form.loopToEntry.Text)
	}

	props, err := form.Properties()
	if err != nil {
		t.Fatalf("Properties failed: %v", err)
	}
	want := editor.Properties{Name: "bgm", Extension: nus3.ExtLOPUS, Loop: &model.LoopPoints{Start: 0, End: 48000}}
	if props.Name != want.Name || props.Extension != want.Extension || *props.Loop != *want.Loop {
		t.Errorf("Expected %+v, got %+v", want, props)
	}
}

func TestPropertiesFormBinaryDisablesLoop(t *testing.T) {
	form := newTestForm(t, editor.SoundInfo{
		Name:      "se",
		Extension: nus3.ExtIDSP,
		Loop:      &model.LoopPoints{Start: 10, End: 20},
	})

	if !form.loopCheck.Checked {
		t.Fatal("Existing loop should be checked")
	}

	form.formatRadio.SetSelected("Binary data")
	if form.loopCheck.Checked || !form.loopCheck.Disabled() {
		t.Error("Binary data should disable looping")
	}

	props, err := form.Properties()
	if err != nil {
		t.Fatalf("Properties failed: %v", err)
	}
	if props.Extension != nus3.ExtBin || props.Loop != nil {
		t.Errorf("Expected unlooped bin, got %+v", props)
	}

	form.formatRadio.SetSelected("IDSP format")
	if form.loopCheck.Disabled() {
		t.Error("Looping should be enabled again")
	}
}

func TestPropertiesFormValidation(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		sound    string
		wantErr  string
	}{
		{"negative", "-1", "10", "se", "Loop points must be positive."},
		{"not a number", "a", "10", "se", "Loop points must be positive."},
		{"backwards", "10", "10", "se", "Loop beginning must be placed before loop end."},
		{"empty name", "0", "10", "", "name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := newTestForm(t, editor.SoundInfo{Name: "se", Extension: nus3.ExtIDSP, LengthInSamples: 100})
			form.nameEntry.SetText(tt.sound)
			form.loopCheck.SetChecked(true)
			form.loopFromEntry.SetText(tt.from)
			form.loopToEntry.SetText(tt.to)

			_, err := form.Properties()
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}
