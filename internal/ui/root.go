package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/config"
	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/nus3"
	"github.com/ytget/nus3audio-editor/internal/platform"
	"github.com/ytget/nus3audio-editor/internal/playback"
)

// RootUI represents the main window
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	editorSvc    editor.Editor
	player       *playback.Player
	settings     *config.Settings
	localization *Localization
	cache        *platform.CacheDir
	watcher      *platform.FileWatcher
	version      string

	ctx    context.Context
	cancel context.CancelFunc

	// Sound list, only touched on the UI goroutine
	soundList  *widget.List
	emptyLabel *widget.Label
	sounds     []editor.SoundInfo
	selected   int

	// Playback bar
	playBtn        *widget.Button
	stopBtn        *widget.Button
	positionSlider *widget.Slider
	positionLabel  *widget.Label
	tickerRunning  atomic.Bool

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	revealBtn             *widget.Button
	revealPath            string
	notificationGen       atomic.Uint64

	quitOnce sync.Once
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, editorSvc editor.Editor, player *playback.Player,
	settings *config.Settings, cache *platform.CacheDir, version string) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		app:          app,
		editorSvc:    editorSvc,
		player:       player,
		settings:     settings,
		localization: localization,
		cache:        cache,
		version:      version,
		ctx:          ctx,
		cancel:       cancel,
		selected:     -1,
	}

	watcher, err := platform.NewFileWatcher(ui.onExternalChange)
	if err != nil {
		slog.Warn("external changes will not be noticed", "error", err)
	} else {
		ui.watcher = watcher
	}

	ui.editorSvc.SetUpdateCallback(func() {
		fyne.Do(ui.refreshSounds)
	})

	ui.setupUI()
	ui.refreshSounds()
	return ui
}

// Start shows the first-run greeting when needed. A non-nil cacheErr is
// reported first since conversions cannot work without the cache.
func (ui *RootUI) Start(cacheErr error) {
	if cacheErr != nil {
		ui.showError(fmt.Sprintf(ui.localization.GetText(KeyErrorCreatingCache), cacheErr))
	}
	if ui.settings.IsFirstTime() {
		ui.showGreeting()
		ui.settings.SetFirstTimeDone()
	}
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.soundList = widget.NewList(
		func() int { return len(ui.sounds) },
		ui.createSoundItem,
		ui.updateSoundItem,
	)
	ui.soundList.OnSelected = func(id widget.ListItemID) { ui.selected = id }
	ui.soundList.OnUnselected = func(id widget.ListItemID) {
		if ui.selected == id {
			ui.selected = -1
		}
	}

	ui.emptyLabel = widget.NewLabel(ui.localization.GetText(KeyEmptyBank))
	ui.emptyLabel.Alignment = fyne.TextAlignCenter
	ui.emptyLabel.Wrapping = fyne.TextWrapWord

	// Playback bar
	ui.playBtn = widget.NewButton(IconPlay, ui.onPlayPause)
	ui.stopBtn = widget.NewButton(IconStop, ui.onStop)
	ui.stopBtn.Importance = widget.LowImportance
	ui.positionSlider = widget.NewSlider(0, 1)
	ui.positionSlider.Step = SliderTick.Seconds()
	ui.positionLabel = widget.NewLabel(DashPlaceholder)
	playbackBar := container.NewBorder(nil, nil,
		container.NewHBox(ui.playBtn, ui.stopBtn),
		ui.positionLabel,
		ui.positionSlider,
	)

	// Notification panel (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.revealBtn = widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onReveal)
	ui.revealBtn.Importance = widget.LowImportance
	ui.revealBtn.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, ui.revealBtn, ui.notificationLabel)
	ui.notificationContainer.Hide()

	content := container.NewBorder(
		playbackBar,
		ui.notificationContainer,
		nil,
		nil,
		container.NewStack(ui.soundList, container.NewCenter(ui.emptyLabel)),
	)

	ui.window.SetContent(content)
	ui.window.SetCloseIntercept(ui.onQuit)
	ui.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeySpace {
			ui.onPlayPause()
		}
	})
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	quitItem := fyne.NewMenuItem(t(KeyQuit), ui.onQuit)
	quitItem.IsQuit = true
	fileMenu := fyne.NewMenu(t(KeyFile),
		fyne.NewMenuItem(t(KeyNew), ui.onNew),
		fyne.NewMenuItem(t(KeyOpen), ui.onOpen),
		fyne.NewMenuItem(t(KeySave), ui.onSave),
		fyne.NewMenuItem(t(KeySaveAs), ui.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(KeyExportSingle), ui.onExportSingle),
		fyne.NewMenuItem(t(KeyExportAll), ui.onExportAll),
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	editMenu := fyne.NewMenu(t(KeyEdit),
		fyne.NewMenuItem(t(KeyAddSound), ui.onAddSound),
		fyne.NewMenuItem(t(KeyRemoveSound), ui.onRemoveSound),
		fyne.NewMenuItem(t(KeyProperties), ui.onProperties),
		fyne.NewMenuItem(t(KeyReplace), ui.onReplace),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(KeyConfigureVGAudioCli), ui.onConfigureVGAudioCli),
	)
	if !platform.IsWindows() {
		editMenu.Items = append(editMenu.Items, fyne.NewMenuItem(t(KeyConfigureRuntime), ui.onConfigureRuntime))
	}
	editMenu.Items = append(editMenu.Items,
		fyne.NewMenuItem(t(KeyConfigureVgmstream), ui.onConfigureVgmstream),
		fyne.NewMenuItem(t(KeySettings), ui.onShowSettings),
	)

	playbackMenu := fyne.NewMenu(t(KeyPlayback),
		fyne.NewMenuItem(t(KeyPlayPause), ui.onPlayPause),
		fyne.NewMenuItem(t(KeyStop), ui.onStop),
	)

	versionItem := fyne.NewMenuItem(fmt.Sprintf("%s %s", t(KeyVersion), ui.version), nil)
	versionItem.Disabled = true
	helpMenu := fyne.NewMenu(t(KeyHelp),
		fyne.NewMenuItem(t(KeyHelpVGAudioCli), ui.showGreeting),
		fyne.NewMenuItem(t(KeyManual), ui.onManual),
		versionItem,
	)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	languages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		langItem := fyne.NewMenuItem(languages[code], func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, playbackMenu, languageMenu, helpMenu))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.createMenu()
	ui.emptyLabel.SetText(ui.localization.GetText(KeyEmptyBank))
	ui.revealBtn.SetText(ui.localization.GetText(KeyBrowse))
	ui.refreshSounds()
}

// refreshSounds reloads the list and title from the editor
func (ui *RootUI) refreshSounds() {
	snap := ui.editorSvc.Snapshot()
	ui.sounds = snap.Sounds

	bank := &model.Bank{Name: snap.Name, Modified: snap.Modified}
	ui.window.SetTitle(bank.Title(ui.localization.GetText(KeyAppTitle)))

	if ui.selected >= len(ui.sounds) {
		ui.soundList.UnselectAll()
		ui.selected = -1
	}
	if len(ui.sounds) == 0 {
		ui.emptyLabel.Show()
	} else {
		ui.emptyLabel.Hide()
	}
	ui.soundList.Refresh()
}

// createSoundItem creates a list row: label on the left, details on the right
func (ui *RootUI) createSoundItem() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	details := widget.NewLabel("")
	details.Importance = widget.LowImportance
	return container.NewBorder(nil, nil, nil, details, label)
}

// updateSoundItem fills a list row
func (ui *RootUI) updateSoundItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(ui.sounds) {
		return
	}
	info := ui.sounds[id]

	row, ok := obj.(*fyne.Container)
	if !ok || len(row.Objects) < 2 {
		return
	}
	label, _ := row.Objects[0].(*widget.Label)
	details, _ := row.Objects[1].(*widget.Label)
	if label == nil || details == nil {
		return
	}

	label.Importance = statusImportance(info.Status)
	label.SetText(info.Label)
	details.SetText(soundDetails(info))
}

// soundDetails summarises a sound for its list row
func soundDetails(info editor.SoundInfo) string {
	var parts []string
	if info.Status.IsPlayable() {
		parts = append(parts, fmt.Sprintf("%d Hz", info.SampleRate))
	}
	if info.Loop != nil {
		parts = append(parts, "⟲ "+info.Loop.String())
	}
	if info.EncodedSize > 0 {
		parts = append(parts, platform.HumanSize(info.EncodedSize))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// selectedIndex returns the selection or alerts that nothing is selected
func (ui *RootUI) selectedIndex() (int, bool) {
	if ui.selected < 0 || ui.selected >= len(ui.sounds) {
		ui.showAlert(ui.localization.GetText(KeyNothingSelected))
		return -1, false
	}
	return ui.selected, true
}

// File menu

func (ui *RootUI) onNew() {
	ui.player.Stop()
	if err := ui.editorSvc.New(); err != nil {
		ui.showOperationError(err)
		return
	}
	ui.watch("")
	ui.soundList.UnselectAll()
}

func (ui *RootUI) onOpen() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		ui.openBank(path)
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter(BankFilter))
	ui.setDialogLocation(d)
	d.Show()
}

// openBank loads path in the background
func (ui *RootUI) openBank(path string) {
	ui.settings.SetLastBrowseDir(filepath.Dir(path))
	ui.player.Stop()

	message := fmt.Sprintf(ui.localization.GetText(KeyOpening), filepath.Base(path))
	ui.run(message, func(ctx context.Context) (string, error) {
		report, err := ui.editorSvc.Open(ctx, path)
		if err != nil {
			return "", fmt.Errorf(ui.localization.GetText(KeyErrorReading), err)
		}
		ui.watch(path)
		if report.HasErrors() {
			ui.showWarning(fmt.Sprintf(ui.localization.GetText(KeyOpenedWithErrors), report))
		}
		return "", nil
	})
}

func (ui *RootUI) onSave() {
	if ui.editorSvc.Snapshot().Path == "" {
		ui.onSaveAs()
		return
	}
	ui.saveBank("")
}

func (ui *RootUI) onSaveAs() {
	snap := ui.editorSvc.Snapshot()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		ui.saveBank(path)
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter(BankFilter))
	name := snap.Name
	if name == "" {
		name = editor.UntitledBank
	}
	d.SetFileName(name + nus3.FileExtension)
	ui.setDialogLocation(d)
	d.Show()
}

// removePlaceholder deletes the empty file a save dialog created at chosen
// when the data was written to another path
func removePlaceholder(chosen, written string) {
	if chosen == "" || chosen == written {
		return
	}
	if info, err := os.Stat(chosen); err == nil && info.Mode().IsRegular() && info.Size() == 0 {
		_ = os.Remove(chosen)
	}
}

// saveBank writes the bank in the background; an empty path saves in place
func (ui *RootUI) saveBank(path string) {
	target := path
	if target == "" {
		target = ui.editorSvc.Snapshot().Path
	} else {
		ui.settings.SetLastBrowseDir(filepath.Dir(path))
	}

	message := fmt.Sprintf(ui.localization.GetText(KeySaving), filepath.Base(target))
	ui.run(message, func(ctx context.Context) (string, error) {
		if ui.watcher != nil {
			ui.watcher.Pause()
			defer time.AfterFunc(platform.DefaultWatchDebounce, ui.watcher.Resume)
		}

		report, err := ui.editorSvc.Save(ctx, path)
		if path != "" {
			removePlaceholder(path, platform.WithExtension(path, nus3.FileExtension))
		}
		if err != nil {
			return "", fmt.Errorf(ui.localization.GetText(KeyErrorSaving), err)
		}
		if report.HasErrors() {
			ui.showWarning(fmt.Sprintf(ui.localization.GetText(KeySavedEmpty), report))
		}

		saved := ui.editorSvc.Snapshot().Path
		ui.watch(saved)
		size := ""
		if info, err := os.Stat(saved); err == nil {
			size = platform.HumanSize(int(info.Size()))
		}
		ui.setRevealPath(saved)
		return fmt.Sprintf(ui.localization.GetText(KeySavedTo), filepath.Base(saved), size), nil
	})
}

func (ui *RootUI) onExportSingle() {
	index, ok := ui.selectedIndex()
	if !ok {
		return
	}
	info := ui.sounds[index]

	filter, ext := ExportFilter, editor.WAVExtension
	if info.Extension == nus3.ExtBin {
		filter, ext = ExportBinaryFilter, string(nus3.ExtBin)
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		ui.settings.SetLastBrowseDir(filepath.Dir(path))

		ui.run(ui.localization.GetText(KeyExporting), func(ctx context.Context) (string, error) {
			written, err := ui.editorSvc.ExportSound(ctx, index, path)
			removePlaceholder(path, written)
			if err != nil {
				return "", fmt.Errorf(ui.localization.GetText(KeyErrorWriting), err)
			}
			ui.setRevealPath(written)
			return fmt.Sprintf(ui.localization.GetText(KeyExportedTo), written), nil
		})
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter(filter))
	d.SetFileName(info.Name + "." + ext)
	ui.setDialogLocation(d)
	d.Show()
}

func (ui *RootUI) onExportAll() {
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		dir := uri.Path()
		ui.settings.SetLastBrowseDir(dir)

		ui.run(ui.localization.GetText(KeyExporting), func(ctx context.Context) (string, error) {
			skipped, err := ui.editorSvc.ExportAll(ctx, dir)
			if err != nil {
				return "", fmt.Errorf(ui.localization.GetText(KeyErrorWriting), err)
			}
			if len(skipped) > 0 {
				lines := make([]string, 0, len(skipped))
				for _, s := range skipped {
					lines = append(lines, s.String())
				}
				ui.showWarning(fmt.Sprintf(ui.localization.GetText(KeySkippedItems), strings.Join(lines, "\n")))
			}
			ui.setRevealPath(dir)
			return fmt.Sprintf(ui.localization.GetText(KeyExportedTo), dir), nil
		})
	}, ui.window)
	ui.setDialogLocation(d)
	d.Show()
}

// Edit menu

func (ui *RootUI) onAddSound() {
	index, err := ui.editorSvc.AddSound()
	if err != nil {
		ui.showOperationError(err)
		return
	}
	ui.refreshSounds()
	ui.soundList.Select(index)
	ui.soundList.ScrollTo(index)
}

func (ui *RootUI) onRemoveSound() {
	index, ok := ui.selectedIndex()
	if !ok {
		return
	}
	ui.player.Stop()
	if err := ui.editorSvc.RemoveSound(index); err != nil {
		ui.showOperationError(err)
		return
	}
	ui.soundList.UnselectAll()
}

func (ui *RootUI) onProperties() {
	index, ok := ui.selectedIndex()
	if !ok {
		return
	}
	ShowPropertiesDialog(ui.window, ui.sounds[index], ui.localization, func(props editor.Properties) error {
		_, err := ui.editorSvc.UpdateProperties(index, props)
		return err
	})
}

func (ui *RootUI) onReplace() {
	index, ok := ui.selectedIndex()
	if !ok {
		return
	}
	name := ui.sounds[index].Name

	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		ui.settings.SetLastBrowseDir(filepath.Dir(path))
		ui.player.Stop()

		message := fmt.Sprintf(ui.localization.GetText(KeyReplacing), name)
		ui.run(message, func(ctx context.Context) (string, error) {
			if err := ui.editorSvc.ReplaceSound(ctx, index, path); err != nil {
				return "", fmt.Errorf(ui.localization.GetText(KeyCouldNotDecode), filepath.Base(path), err)
			}
			return "", nil
		})
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter(ReplaceFilter))
	ui.setDialogLocation(d)
	d.Show()
}

func (ui *RootUI) onConfigureVGAudioCli() {
	ShowPathDialog(ui.window, ui.localization, KeyVGAudioCliPath, KeyVGAudioCliMessage,
		ui.settings.GetVGAudioCliPath(), ui.settings.SetVGAudioCliPath)
}

func (ui *RootUI) onConfigureRuntime() {
	ShowPathDialog(ui.window, ui.localization, KeyRuntimePath, KeyRuntimeMessage,
		ui.settings.GetRuntimePath(), ui.settings.SetRuntimePath)
}

func (ui *RootUI) onConfigureVgmstream() {
	ShowPathDialog(ui.window, ui.localization, KeyVgmstreamPath, KeyVgmstreamMessage,
		ui.settings.GetVgmstreamPath(), ui.settings.SetVgmstreamPath)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
	}).Show()
}

// Playback

func (ui *RootUI) onPlayPause() {
	index := ui.selected
	go func() {
		state, err := ui.player.Toggle(func() (*codec.PCM, *model.LoopPoints, error) {
			if index < 0 {
				return nil, nil, editor.ErrNoSelection
			}
			return ui.editorSvc.PlaybackAudio(index)
		})
		if err != nil {
			fyne.Do(func() { ui.showOperationError(err) })
			return
		}
		fyne.Do(func() { ui.setPlayState(state) })
		if state == model.PlaybackPlaying {
			ui.startTicker()
		}
	}()
}

func (ui *RootUI) onStop() {
	ui.player.Stop()
	ui.setPlayState(model.PlaybackStopped)
	ui.positionSlider.SetValue(0)
	ui.positionLabel.SetText(DashPlaceholder)
}

// setPlayState updates the play button
func (ui *RootUI) setPlayState(state model.PlaybackState) {
	if state == model.PlaybackPlaying {
		ui.playBtn.SetText(IconPause)
	} else {
		ui.playBtn.SetText(IconPlay)
	}
}

// startTicker follows playback position until the player stops
func (ui *RootUI) startTicker() {
	if !ui.tickerRunning.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer ui.tickerRunning.Store(false)

		ticker := time.NewTicker(SliderTick)
		defer ticker.Stop()

		for {
			select {
			case <-ui.ctx.Done():
				return
			case <-ticker.C:
			}

			st := ui.player.Status()
			fyne.Do(func() { ui.showPlaybackStatus(st) })
			if st.State == model.PlaybackStopped {
				return
			}
		}
	}()
}

// showPlaybackStatus moves the slider and position label
func (ui *RootUI) showPlaybackStatus(st playback.Status) {
	ui.setPlayState(st.State)
	if !st.State.IsActive() {
		ui.positionSlider.SetValue(0)
		ui.positionLabel.SetText(DashPlaceholder)
		return
	}

	ui.positionSlider.Max = st.Duration.Seconds()
	ui.positionSlider.SetValue(st.Position.Seconds())
	ui.positionLabel.SetText(fmt.Sprintf(PositionFormat, formatDuration(st.Position), formatDuration(st.Duration)))
}

// formatDuration renders m:ss.t
func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// Help

func (ui *RootUI) showGreeting() {
	t := ui.localization.GetText
	d := dialog.NewConfirm(t(KeyWelcome), t(KeyWelcomeMessage), func(showMe bool) {
		if !showMe {
			return
		}
		ui.openURL(VGAudioCliURL)
		ui.onConfigureVGAudioCli()
	}, ui.window)
	d.SetConfirmText(t(KeyShowMe))
	d.SetDismissText(t(KeyDismiss))
	d.Show()
}

func (ui *RootUI) onManual() {
	slog.Info("opening manual", "url", ManualURL)
	ui.openURL(ManualURL)
}

func (ui *RootUI) openURL(raw string) {
	u, err := url.Parse(raw)
	if err == nil {
		err = ui.app.OpenURL(u)
	}
	if err != nil {
		ui.showError(fmt.Sprintf(ui.localization.GetText(KeyErrorOpeningBrowser), err))
	}
}

// Quit

func (ui *RootUI) onQuit() {
	if !ui.editorSvc.Snapshot().Modified {
		ui.quit()
		return
	}

	t := ui.localization.GetText
	d := dialog.NewConfirm(t(KeyWarning), t(KeyUnsavedChanges), func(quit bool) {
		if quit {
			ui.quit()
		}
	}, ui.window)
	d.SetConfirmText(t(KeyQuit))
	d.SetDismissText(t(KeyGoBack))
	d.Show()
}

func (ui *RootUI) quit() {
	ui.quitOnce.Do(func() {
		ui.cancel()
		ui.player.Stop()
		if ui.watcher != nil {
			_ = ui.watcher.Close()
		}
		if err := ui.cache.Remove(); err != nil {
			slog.Error("failed to remove the cache directory", "dir", ui.cache.Root(), "error", err)
		}
		ui.app.Quit()
	})
}

// External changes

func (ui *RootUI) watch(path string) {
	if ui.watcher == nil {
		return
	}
	if err := ui.watcher.Watch(path); err != nil {
		slog.Warn("could not watch bank", "path", path, "error", err)
	}
}

// onExternalChange runs on the watcher goroutine
func (ui *RootUI) onExternalChange(path string) {
	slog.Info("bank changed on disk", "path", path)
	fyne.Do(func() {
		t := ui.localization.GetText
		d := dialog.NewConfirm(t(KeyWarning), fmt.Sprintf(t(KeyFileChanged), filepath.Base(path)), func(reload bool) {
			if reload {
				ui.openBank(path)
			}
		}, ui.window)
		d.SetConfirmText(t(KeyReload))
		d.SetDismissText(t(KeyDismiss))
		d.Show()
	})
}

// Background operations

// run executes op off the UI goroutine with a spinner. A non-empty result
// is shown as a notification; errors open a dialog.
func (ui *RootUI) run(message string, op func(ctx context.Context) (string, error)) {
	ui.showNotification(message, true)
	go func() {
		result, err := op(ui.ctx)
		if err != nil {
			slog.Error("operation failed", "operation", message, "error", err)
			ui.hideNotification()
			fyne.Do(func() { ui.showOperationError(err) })
			return
		}
		if result == "" {
			ui.hideNotification()
			return
		}
		ui.showNotification(result, false)
	}()
}

// showOperationError maps service errors to dialogs
func (ui *RootUI) showOperationError(err error) {
	switch {
	case errors.Is(err, editor.ErrBusy):
		ui.showAlert(ui.localization.GetText(KeyBusy))
	case errors.Is(err, editor.ErrNoSelection):
		ui.showAlert(ui.localization.GetText(KeyNothingSelected))
	case errors.Is(err, context.Canceled):
	default:
		ui.showError(err.Error())
	}
}

func (ui *RootUI) showAlert(message string) {
	dialog.ShowInformation(ui.localization.GetText(KeyAlert), message, ui.window)
}

func (ui *RootUI) showError(message string) {
	dialog.ShowInformation(ui.localization.GetText(KeyError), message, ui.window)
}

// showWarning may be called from any goroutine
func (ui *RootUI) showWarning(message string) {
	fyne.Do(func() {
		dialog.ShowInformation(ui.localization.GetText(KeyWarning), message, ui.window)
	})
}

// showNotification displays a message in the notification panel.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	gen := ui.notificationGen.Add(1)
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
			ui.revealBtn.Hide()
		} else {
			ui.notificationSpinner.Hide()
			if ui.revealPath != "" {
				ui.revealBtn.Show()
			}
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
	if !spinning {
		time.AfterFunc(NotificationAutoHide, func() {
			if ui.notificationGen.Load() == gen {
				ui.hideNotification()
			}
		})
	}
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	ui.notificationGen.Add(1)
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
		ui.revealPath = ""
		ui.revealBtn.Hide()
	})
}

// setRevealPath attaches a path to the next notification
func (ui *RootUI) setRevealPath(path string) {
	fyne.Do(func() { ui.revealPath = path })
}

func (ui *RootUI) onReveal() {
	if ui.revealPath == "" {
		return
	}
	if err := platform.OpenFileInManager(ui.revealPath); err != nil {
		ui.showError(fmt.Sprintf(ui.localization.GetText(KeyErrorRevealingFolder), err))
	}
}

// setDialogLocation starts file dialogs in the last used directory
func (ui *RootUI) setDialogLocation(d *dialog.FileDialog) {
	dir := ui.settings.GetLastBrowseDir()
	if dir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return
	}
	d.SetLocation(lister)
}
