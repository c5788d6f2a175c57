package ui

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/model"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	formatSelect     *widget.Select
	qualitySelect    *widget.Select
	bitrateSelect    *widget.Select
	languageSelect   *widget.Select
	autoOpenCheck    *widget.Check

	languageCodes []string

	// onSaved runs after the values are stored.
	onSaved func()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}
	sd.createUI()
	return sd
}

// SetOnSaved registers a callback fired after a successful save.
func (sd *SettingsDialog) SetOnSaved(fn func()) {
	sd.onSaved = fn
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxParallelLimit))
	sd.maxParallelEntry.Validator = validateParallel

	sd.formatSelect = widget.NewSelect([]string{model.FormatMP4.Label(), model.FormatMP3.Label()}, nil)

	var qualities []string
	for _, q := range model.VideoQualities() {
		qualities = append(qualities, q.Label())
	}
	sd.qualitySelect = widget.NewSelect(qualities, nil)

	var bitrates []string
	for _, b := range model.AudioBitrates() {
		bitrates = append(bitrates, b.Label())
	}
	sd.bitrateSelect = widget.NewSelect(bitrates, nil)

	languages := sd.settings.GetLanguageOptions()
	sd.languageCodes = make([]string, 0, len(languages))
	for code := range languages {
		sd.languageCodes = append(sd.languageCodes, code)
	}
	sort.Strings(sd.languageCodes)
	labels := make([]string, len(sd.languageCodes))
	for i, code := range sd.languageCodes {
		labels[i] = languages[code]
	}
	sd.languageSelect = widget.NewSelect(labels, nil)

	sd.autoOpenCheck = widget.NewCheck(l.GetText(KeyAutoOpen), nil)

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(l.GetText(KeyMaxParallel), sd.maxParallelEntry),
		widget.NewFormItem(l.GetText(KeyDefaultFormat), sd.formatSelect),
		widget.NewFormItem(l.GetText(KeyVideoQuality), sd.qualitySelect),
		widget.NewFormItem(l.GetText(KeyAudioBitrate), sd.bitrateSelect),
		widget.NewFormItem(l.GetText(KeyLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.autoOpenCheck),
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.formatSelect.SetSelected(sd.settings.GetDefaultFormat().Label())
	sd.qualitySelect.SetSelected(sd.settings.GetVideoQuality().Label())
	sd.bitrateSelect.SetSelected(sd.settings.GetAudioBitrate().Label())
	current := sd.settings.GetLanguage()
	if label, ok := sd.settings.GetLanguageOptions()[current]; ok {
		sd.languageSelect.SetSelected(label)
	}
	sd.autoOpenCheck.SetChecked(sd.settings.GetAutoOpenOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(sd.maxParallelEntry.Text)); err == nil {
		sd.settings.SetMaxParallelDownloads(n)
	}
	if f, ok := formatFromLabel(sd.formatSelect.Selected); ok {
		sd.settings.SetDefaultFormat(f)
	}
	for _, q := range model.VideoQualities() {
		if q.Label() == sd.qualitySelect.Selected {
			sd.settings.SetVideoQuality(q)
		}
	}
	for _, b := range model.AudioBitrates() {
		if b.Label() == sd.bitrateSelect.Selected {
			sd.settings.SetAudioBitrate(b)
		}
	}
	if i := sd.languageSelect.SelectedIndex(); i >= 0 && i < len(sd.languageCodes) {
		sd.settings.SetLanguage(sd.languageCodes[i])
	}
	sd.settings.SetAutoOpenOnComplete(sd.autoOpenCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

var errParallelRange = errors.New("enter a number from 1 to " + strconv.Itoa(config.MaxParallelLimit))

func validateParallel(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > config.MaxParallelLimit {
		return errParallelRange
	}
	return nil
}

func formatFromLabel(label string) (model.MediaFormat, bool) {
	for _, f := range []model.MediaFormat{model.FormatMP4, model.FormatMP3} {
		if f.Label() == label {
			return f, true
		}
	}
	return "", false
}
