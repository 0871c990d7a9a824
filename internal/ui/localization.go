package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle             = "app_title"
	KeyFile                 = "file"
	KeyNew                  = "new"
	KeyOpen                 = "open"
	KeySave                 = "save"
	KeySaveAs               = "save_as"
	KeyExportSingle         = "export_single"
	KeyExportAll            = "export_all"
	KeyQuit                 = "quit"
	KeyEdit                 = "edit"
	KeyAddSound             = "add_sound"
	KeyRemoveSound          = "remove_sound"
	KeyProperties           = "properties"
	KeyReplace              = "replace"
	KeyConfigureVGAudioCli  = "configure_vgaudio_cli"
	KeyConfigureRuntime     = "configure_runtime"
	KeyConfigureVgmstream   = "configure_vgmstream"
	KeySettings             = "settings"
	KeyPlayback             = "playback"
	KeyPlayPause            = "play_pause"
	KeyStop                 = "stop"
	KeyHelp                 = "help"
	KeyHelpVGAudioCli       = "help_vgaudio_cli"
	KeyManual               = "manual"
	KeyVersion              = "version"
	KeyLanguage             = "language"
	KeyError                = "error"
	KeyAlert                = "alert"
	KeyWarning              = "warning"
	KeyNothingSelected      = "nothing_selected"
	KeyUnsavedChanges       = "unsaved_changes"
	KeyGoBack               = "go_back"
	KeyWelcome              = "welcome"
	KeyWelcomeMessage       = "welcome_message"
	KeyDismiss              = "dismiss"
	KeyShowMe               = "show_me"
	KeyVGAudioCliPath       = "vgaudio_cli_path"
	KeyVGAudioCliMessage    = "vgaudio_cli_message"
	KeyRuntimePath          = "runtime_path"
	KeyRuntimeMessage       = "runtime_message"
	KeyVgmstreamPath        = "vgmstream_path"
	KeyVgmstreamMessage     = "vgmstream_message"
	KeyPreferVgmstream      = "prefer_vgmstream"
	KeyToolTimeout          = "tool_timeout"
	KeyBrowse               = "browse"
	KeyCancel               = "cancel"
	KeyOk                   = "ok"
	KeySettingsSaved        = "settings_saved"
	KeyOpening              = "opening"
	KeySaving               = "saving"
	KeyExporting            = "exporting"
	KeyReplacing            = "replacing"
	KeyBusy                 = "busy"
	KeyErrorReading         = "error_reading"
	KeyErrorSaving          = "error_saving"
	KeyErrorWriting         = "error_writing"
	KeyCouldNotDecode       = "could_not_decode"
	KeySavedEmpty           = "saved_empty"
	KeyOpenedWithErrors     = "opened_with_errors"
	KeySkippedItems         = "skipped_items"
	KeySavedTo              = "saved_to"
	KeyExportedTo           = "exported_to"
	KeyFileChanged          = "file_changed"
	KeyReload               = "reload"
	KeyPropertiesOf         = "properties_of"
	KeyName                 = "name"
	KeyFormat               = "format"
	KeyIDSPFormat           = "idsp_format"
	KeyLOPUSFormat          = "lopus_format"
	KeyBinaryData           = "binary_data"
	KeyLoopAudio            = "loop_audio"
	KeyLoopFrom             = "loop_from"
	KeyLoopTo               = "loop_to"
	KeyLoopPointsPositive   = "loop_points_positive"
	KeyLoopBeginBeforeEnd   = "loop_begin_before_end"
	KeyBinaryCannotLoop     = "binary_cannot_loop"
	KeyEmptyBank            = "empty_bank"
	KeyErrorCreatingCache   = "error_creating_cache"
	KeyErrorOpeningBrowser  = "error_opening_browser"
	KeyErrorRevealingFolder = "error_revealing_folder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage reads the language from the POSIX locale variables
func systemLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(key); value != "" {
			lang, _, _ := strings.Cut(value, "_")
			lang, _, _ = strings.Cut(lang, ".")
			return strings.ToLower(lang)
		}
	}
	return "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:             AppName,
		KeyFile:                 "File",
		KeyNew:                  "New",
		KeyOpen:                 "Open...",
		KeySave:                 "Save",
		KeySaveAs:               "Save as...",
		KeyExportSingle:         "Export single...",
		KeyExportAll:            "Export all...",
		KeyQuit:                 "Quit",
		KeyEdit:                 "Edit",
		KeyAddSound:             "Add sound",
		KeyRemoveSound:          "Remove sound",
		KeyProperties:           "Properties...",
		KeyReplace:              "Replace...",
		KeyConfigureVGAudioCli:  "Configure VGAudioCli path...",
		KeyConfigureRuntime:     "Configure .NET runtime path...",
		KeyConfigureVgmstream:   "Configure vgmstream path...",
		KeySettings:             "Settings...",
		KeyPlayback:             "Playback",
		KeyPlayPause:            "Play/Pause",
		KeyStop:                 "Stop",
		KeyHelp:                 "Help",
		KeyHelpVGAudioCli:       "VGAudioCli",
		KeyManual:               "User manual...",
		KeyVersion:              "Version",
		KeyLanguage:             "Language",
		KeyError:                "Error",
		KeyAlert:                "Alert",
		KeyWarning:              "Warning",
		KeyNothingSelected:      "Nothing is selected.",
		KeyUnsavedChanges:       "You have currently unsaved changes.\nWould you still like to quit?",
		KeyGoBack:               "Go back",
		KeyWelcome:              "Welcome",
		KeyWelcomeMessage:       "To get started, please download a release of\n" + VGAudioCliURL + "\nThen, visit \"Edit → Configure VGAudioCli path\" to set this location.",
		KeyDismiss:              "Dismiss",
		KeyShowMe:               "Show me",
		KeyVGAudioCliPath:       "VGAudioCli Path",
		KeyVGAudioCliMessage:    "Please set the path to the VGAudioCli executable.",
		KeyRuntimePath:          ".NET Runtime Path",
		KeyRuntimeMessage:       "Please set the path to the .NET runtime (mono, dotnet or wine).\nLeave empty to run VGAudioCli directly.",
		KeyVgmstreamPath:        "vgmstream Path",
		KeyVgmstreamMessage:     "Please set the path to the vgmstream executable.\nLeave empty to decode with VGAudioCli only.",
		KeyPreferVgmstream:      "Prefer vgmstream for decoding",
		KeyToolTimeout:          "Tool timeout (seconds)",
		KeyBrowse:               "Browse",
		KeyCancel:               "Cancel",
		KeyOk:                   "Ok",
		KeySettingsSaved:        "Settings saved",
		KeyOpening:              "Opening %s...",
		KeySaving:               "Saving %s...",
		KeyExporting:            "Exporting...",
		KeyReplacing:            "Replacing %s...",
		KeyBusy:                 "Please wait for the current operation to finish.",
		KeyErrorReading:         "Error reading file:\n%v",
		KeyErrorSaving:          "Error saving file:\n%v",
		KeyErrorWriting:         "Error writing file:\n%v",
		KeyCouldNotDecode:       "Could not decode %s:\n%v",
		KeySavedEmpty:           "The following items could not be encoded and were saved empty:\n%s",
		KeyOpenedWithErrors:     "The following items could not be loaded:\n%s",
		KeySkippedItems:         "The following items were skipped:\n%s",
		KeySavedTo:              "Saved %s (%s)",
		KeyExportedTo:           "Exported to %s",
		KeyFileChanged:          "%s was changed by another program.",
		KeyReload:               "Reload",
		KeyPropertiesOf:         "Properties of %s",
		KeyName:                 "Name",
		KeyFormat:               "Format",
		KeyIDSPFormat:           "IDSP format",
		KeyLOPUSFormat:          "LOPUS format",
		KeyBinaryData:           "Binary data",
		KeyLoopAudio:            "Loop audio",
		KeyLoopFrom:             "Loop from",
		KeyLoopTo:               "Loop to",
		KeyLoopPointsPositive:   "Loop points must be positive.",
		KeyLoopBeginBeforeEnd:   "Loop beginning must be placed before loop end.",
		KeyBinaryCannotLoop:     "Binary data cannot loop.",
		KeyEmptyBank:            "Open a nus3audio file or add a sound to begin.",
		KeyErrorCreatingCache:   "Error creating the cache directory:\n%v",
		KeyErrorOpeningBrowser:  "Error opening browser:\n%v",
		KeyErrorRevealingFolder: "Error revealing folder:\n%v",
	}

	l.texts["ru"] = map[string]string{
		KeyFile:                 "Файл",
		KeyNew:                  "Новый",
		KeyOpen:                 "Открыть...",
		KeySave:                 "Сохранить",
		KeySaveAs:               "Сохранить как...",
		KeyExportSingle:         "Экспортировать звук...",
		KeyExportAll:            "Экспортировать все...",
		KeyQuit:                 "Выход",
		KeyEdit:                 "Правка",
		KeyAddSound:             "Добавить звук",
		KeyRemoveSound:          "Удалить звук",
		KeyProperties:           "Свойства...",
		KeyReplace:              "Заменить...",
		KeyConfigureVGAudioCli:  "Путь к VGAudioCli...",
		KeyConfigureRuntime:     "Путь к среде .NET...",
		KeyConfigureVgmstream:   "Путь к vgmstream...",
		KeySettings:             "Настройки...",
		KeyPlayback:             "Воспроизведение",
		KeyPlayPause:            "Играть/Пауза",
		KeyStop:                 "Стоп",
		KeyHelp:                 "Справка",
		KeyManual:               "Руководство...",
		KeyVersion:              "Версия",
		KeyLanguage:             "Язык",
		KeyError:                "Ошибка",
		KeyAlert:                "Внимание",
		KeyWarning:              "Предупреждение",
		KeyNothingSelected:      "Ничего не выбрано.",
		KeyUnsavedChanges:       "Есть несохранённые изменения.\nВсё равно выйти?",
		KeyGoBack:               "Назад",
		KeyWelcome:              "Добро пожаловать",
		KeyWelcomeMessage:       "Для начала скачайте выпуск\n" + VGAudioCliURL + "\nЗатем укажите его в \"Правка → Путь к VGAudioCli\".",
		KeyDismiss:              "Закрыть",
		KeyShowMe:               "Показать",
		KeyVGAudioCliPath:       "Путь к VGAudioCli",
		KeyVGAudioCliMessage:    "Укажите путь к исполняемому файлу VGAudioCli.",
		KeyRuntimePath:          "Путь к среде .NET",
		KeyRuntimeMessage:       "Укажите путь к среде .NET (mono, dotnet или wine).\nОставьте пустым, чтобы запускать VGAudioCli напрямую.",
		KeyVgmstreamPath:        "Путь к vgmstream",
		KeyVgmstreamMessage:     "Укажите путь к исполняемому файлу vgmstream.\nОставьте пустым, чтобы декодировать только через VGAudioCli.",
		KeyPreferVgmstream:      "Декодировать через vgmstream",
		KeyToolTimeout:          "Тайм-аут инструментов (сек.)",
		KeyBrowse:               "Обзор",
		KeyCancel:               "Отмена",
		KeySettingsSaved:        "Настройки сохранены",
		KeyOpening:              "Открытие %s...",
		KeySaving:               "Сохранение %s...",
		KeyExporting:            "Экспорт...",
		KeyReplacing:            "Замена %s...",
		KeyBusy:                 "Дождитесь завершения текущей операции.",
		KeyErrorReading:         "Ошибка чтения файла:\n%v",
		KeyErrorSaving:          "Ошибка сохранения файла:\n%v",
		KeyErrorWriting:         "Ошибка записи файла:\n%v",
		KeyCouldNotDecode:       "Не удалось декодировать %s:\n%v",
		KeySavedEmpty:           "Следующие звуки не удалось закодировать, они сохранены пустыми:\n%s",
		KeyOpenedWithErrors:     "Следующие звуки не удалось загрузить:\n%s",
		KeySkippedItems:         "Следующие звуки были пропущены:\n%s",
		KeySavedTo:              "Сохранено %s (%s)",
		KeyExportedTo:           "Экспортировано в %s",
		KeyFileChanged:          "%s был изменён другой программой.",
		KeyReload:               "Перезагрузить",
		KeyPropertiesOf:         "Свойства %s",
		KeyName:                 "Имя",
		KeyFormat:               "Формат",
		KeyIDSPFormat:           "Формат IDSP",
		KeyLOPUSFormat:          "Формат LOPUS",
		KeyBinaryData:           "Двоичные данные",
		KeyLoopAudio:            "Зациклить",
		KeyLoopFrom:             "Цикл с",
		KeyLoopTo:               "Цикл до",
		KeyLoopPointsPositive:   "Точки цикла должны быть положительными.",
		KeyLoopBeginBeforeEnd:   "Начало цикла должно быть раньше конца.",
		KeyBinaryCannotLoop:     "Двоичные данные не могут быть зациклены.",
		KeyEmptyBank:            "Откройте файл nus3audio или добавьте звук.",
		KeyErrorCreatingCache:   "Ошибка создания каталога кэша:\n%v",
		KeyErrorOpeningBrowser:  "Ошибка открытия браузера:\n%v",
		KeyErrorRevealingFolder: "Ошибка открытия папки:\n%v",
	}
}
