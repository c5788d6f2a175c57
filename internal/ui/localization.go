package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyOpenDownloads     = "open_downloads"
	KeyStop              = "stop"
	KeyReveal            = "reveal"
	KeyRemove            = "remove"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyEnterURL          = "enter_url"
	KeyFormat            = "format"
	KeyStartTime         = "start_time"
	KeyEndTime           = "end_time"
	KeyTrimHint          = "trim_hint"
	KeyDestination       = "destination"
	KeyStatusInitial     = "status_initial"
	KeyStatusStarting    = "status_starting"
	KeyStatusReady       = "status_ready"
	KeyStatusDone        = "status_done"
	KeySavedTo           = "saved_to"
	KeyDownloadError     = "download_error"
	KeyURLError          = "url_error"
	KeyTrimError         = "trim_error"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyAlreadyInQueue    = "already_in_queue"
	KeyFolderMissing     = "folder_missing"
	KeyErrorOpeningDir   = "error_opening_dir"
	KeyParsingPlaylist   = "parsing_playlist"
	KeyPlaylistQueued    = "playlist_queued"
	KeyParsingFailed     = "parsing_failed"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyDefaultFormat     = "default_format"
	KeyVideoQuality      = "video_quality"
	KeyAudioBitrate      = "audio_bitrate"
	KeyAutoOpen          = "auto_open"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyDownloadCompleted = "download_completed"
	KeyETA               = "eta"
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

// SetLanguage sets the current language. Unknown codes are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
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

	// Final fallback - return key itself
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
		"pt": "Português",
		"ru": "Русский",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "TubeLoader",
		KeyDownload:          "Download",
		KeyOpenDownloads:     "Open Downloads",
		KeyStop:              "Stop",
		KeyReveal:            "Show",
		KeyRemove:            "Remove",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyEnterURL:          "Paste the YouTube URL here",
		KeyFormat:            "Format",
		KeyStartTime:         "Start",
		KeyEndTime:           "End",
		KeyTrimHint:          "Optional trim, both in HH:MM:SS",
		KeyDestination:       "Destination: %s",
		KeyStatusInitial:     "Waiting for a URL...",
		KeyStatusStarting:    "Starting download (%d active)...",
		KeyStatusReady:       "Ready for a new download.",
		KeyStatusDone:        "Done. %d download(s) active.",
		KeySavedTo:           "Saved to: %s",
		KeyDownloadError:     "Download error",
		KeyURLError:          "Please enter a valid YouTube URL.",
		KeyTrimError:         "Trim error",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyAlreadyInQueue:    "Already in queue",
		KeyFolderMissing:     "The Downloads folder was not found.",
		KeyErrorOpeningDir:   "Could not open the downloads folder",
		KeyParsingPlaylist:   "Reading playlist...",
		KeyPlaylistQueued:    "Queued %d videos from %s",
		KeyParsingFailed:     "Playlist parsing failed",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyDefaultFormat:     "Default Format",
		KeyVideoQuality:      "Video Quality",
		KeyAudioBitrate:      "MP3 Bitrate",
		KeyAutoOpen:          "Open folder when a download finishes",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyDownloadCompleted: "Download completed",
		KeyETA:               "ETA",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "TubeLoader",
		KeyDownload:          "Baixar",
		KeyOpenDownloads:     "Abrir Downloads",
		KeyStop:              "Parar",
		KeyReveal:            "Mostrar",
		KeyRemove:            "Remover",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyEnterURL:          "Cole a URL do YouTube aqui",
		KeyFormat:            "Formato",
		KeyStartTime:         "Início",
		KeyEndTime:           "Fim",
		KeyTrimHint:          "Corte opcional, ambos em HH:MM:SS",
		KeyDestination:       "Destino: %s",
		KeyStatusInitial:     "Aguardando URL...",
		KeyStatusStarting:    "Iniciando download (%d ativo)...",
		KeyStatusReady:       "Pronto para um novo download.",
		KeyStatusDone:        "Concluído. %d download(s) ativo(s).",
		KeySavedTo:           "Salvo em: %s",
		KeyDownloadError:     "Erro de Download",
		KeyURLError:          "Por favor, insira uma URL válida do YouTube.",
		KeyTrimError:         "Erro de Corte",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyAlreadyInQueue:    "Já na fila",
		KeyFolderMissing:     "A pasta Downloads não foi encontrada.",
		KeyErrorOpeningDir:   "Não foi possível abrir a pasta de downloads",
		KeyParsingPlaylist:   "Lendo playlist...",
		KeyPlaylistQueued:    "%d vídeos de %s na fila",
		KeyParsingFailed:     "Falha ao ler a playlist",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyDefaultFormat:     "Formato Padrão",
		KeyVideoQuality:      "Qualidade do Vídeo",
		KeyAudioBitrate:      "Bitrate do MP3",
		KeyAutoOpen:          "Abrir a pasta ao concluir",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyDownloadCompleted: "Download concluído",
		KeyETA:               "ETA",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "TubeLoader",
		KeyDownload:          "Скачать",
		KeyOpenDownloads:     "Открыть загрузки",
		KeyStop:              "Стоп",
		KeyReveal:            "Показать",
		KeyRemove:            "Убрать",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyEnterURL:          "Вставьте ссылку YouTube",
		KeyFormat:            "Формат",
		KeyStartTime:         "Начало",
		KeyEndTime:           "Конец",
		KeyTrimHint:          "Обрезка по желанию, оба поля в ЧЧ:ММ:СС",
		KeyDestination:       "Папка: %s",
		KeyStatusInitial:     "Ожидание ссылки...",
		KeyStatusStarting:    "Запуск загрузки (активных: %d)...",
		KeyStatusReady:       "Готово к новой загрузке.",
		KeyStatusDone:        "Готово. Активных загрузок: %d.",
		KeySavedTo:           "Сохранено: %s",
		KeyDownloadError:     "Ошибка загрузки",
		KeyURLError:          "Введите корректную ссылку YouTube.",
		KeyTrimError:         "Ошибка обрезки",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyAlreadyInQueue:    "Уже в очереди",
		KeyFolderMissing:     "Папка загрузок не найдена.",
		KeyErrorOpeningDir:   "Не удалось открыть папку загрузок",
		KeyParsingPlaylist:   "Чтение плейлиста...",
		KeyPlaylistQueued:    "В очереди %d видео из %s",
		KeyParsingFailed:     "Не удалось прочитать плейлист",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyDefaultFormat:     "Формат по умолчанию",
		KeyVideoQuality:      "Качество видео",
		KeyAudioBitrate:      "Битрейт MP3",
		KeyAutoOpen:          "Открывать папку после загрузки",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyETA:               "Осталось",
	}
}
