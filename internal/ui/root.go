package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/download"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
)

// Placeholder of the trim entries.
const TimePlaceholder = "HH:MM:SS"

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	downloadSvc  download.Downloader
	settings     *config.Settings
	localization *Localization
	parser       *platform.PlaylistParser
	logger       *logging.Logger
	activity     *activity

	urlEntry         *widget.Entry
	formatRadio      *widget.RadioGroup
	startEntry       *widget.Entry
	endEntry         *widget.Entry
	trimHint         *widget.Label
	destinationLabel *widget.Label
	statusLabel      *widget.Label
	downloadBtn      *widget.Button
	openBtn          *widget.Button
	taskList         *widget.List

	tasksMu sync.Mutex
	tasks   []*model.DownloadTask
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc download.Downloader, settings *config.Settings, logger *logging.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		downloadSvc:  downloadSvc,
		settings:     settings,
		localization: localization,
		parser:       platform.NewPlaylistParser(),
		logger:       logger.OrDefault(),
		activity:     newActivity(),
	}
	ui.parser.SetTimeout(PlaylistParseTimeout)

	if err := platform.EnsureDir(settings.GetDownloadDirectory()); err != nil {
		ui.logger.Warn("downloads directory unavailable", "err", err)
	}

	downloadSvc.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())
	downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

func (ui *RootUI) setupUI() {
	l := ui.localization
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(model.URLPlaceholder)
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.formatRadio = widget.NewRadioGroup([]string{model.FormatMP4.Label(), model.FormatMP3.Label()}, nil)
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true
	ui.formatRadio.SetSelected(ui.settings.GetDefaultFormat().Label())

	ui.startEntry = widget.NewEntry()
	ui.startEntry.SetPlaceHolder(TimePlaceholder)
	ui.endEntry = widget.NewEntry()
	ui.endEntry.SetPlaceHolder(TimePlaceholder)
	ui.trimHint = widget.NewLabel(l.GetText(KeyTrimHint))
	ui.trimHint.Importance = widget.LowImportance

	ui.destinationLabel = widget.NewLabel("")
	ui.destinationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.refreshDestination()

	ui.statusLabel = widget.NewLabel(l.GetText(KeyStatusInitial))
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	ui.downloadBtn = widget.NewButton(l.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.openBtn = widget.NewButton(IconFolder+" "+l.GetText(KeyOpenDownloads), ui.onOpenDownloads)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	timeBox := container.NewHBox(
		widget.NewLabel(l.GetText(KeyStartTime)), sized(ui.startEntry),
		widget.NewLabel(l.GetText(KeyEndTime)), sized(ui.endEntry),
		ui.trimHint,
	)
	form := container.NewVBox(
		container.NewBorder(nil, nil, settingsBtn, nil, ui.urlEntry),
		container.NewHBox(widget.NewLabel(l.GetText(KeyFormat)), ui.formatRadio),
		timeBox,
		ui.destinationLabel,
		container.NewGridWithColumns(2, ui.downloadBtn, ui.openBtn),
		ui.statusLabel,
		widget.NewSeparator(),
	)

	ui.taskList = widget.NewList(
		ui.taskCount,
		func() fyne.CanvasObject { return ui.createTaskItem() },
		ui.updateTaskItem,
	)

	ui.window.SetContent(container.NewBorder(form, nil, nil, nil, ui.taskList))
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
}

func sized(e *widget.Entry) fyne.CanvasObject {
	return container.NewGridWrap(fyne.NewSize(TimeEntryWidth, e.MinSize().Height), e)
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	languages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		langCode := code
		item := fyne.NewMenuItem(languages[code], func() { ui.onLanguageChange(langCode) })
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))
	ui.downloadBtn.SetText(l.GetText(KeyDownload))
	ui.openBtn.SetText(IconFolder + " " + l.GetText(KeyOpenDownloads))
	ui.trimHint.SetText(l.GetText(KeyTrimHint))
	ui.refreshDestination()
	ui.taskList.Refresh()
}

func (ui *RootUI) refreshDestination() {
	ui.destinationLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyDestination), ui.settings.GetDownloadDirectory()))
}

func (ui *RootUI) setStatus(text string) {
	ui.statusLabel.SetText(text)
}

// formRequest builds a request from the form. Errors carry the dialog title key.
func (ui *RootUI) formRequest() (model.Request, string, error) {
	format, ok := formatFromLabel(ui.formatRadio.Selected)
	if !ok {
		format = ui.settings.GetDefaultFormat()
	}
	req := model.Request{
		URL:       ui.urlEntry.Text,
		Format:    format,
		Quality:   ui.settings.GetVideoQuality(),
		Bitrate:   ui.settings.GetAudioBitrate(),
		Trim:      model.TimeRange{Start: ui.startEntry.Text, End: ui.endEntry.Text},
		OutputDir: ui.settings.GetDownloadDirectory(),
	}
	req.Normalize()
	if err := model.ValidateURL(req.URL); err != nil {
		return req, KeyURLError, err
	}
	if err := req.Trim.Validate(); err != nil {
		return req, KeyTrimError, err
	}
	if err := req.Validate(); err != nil {
		return req, KeyDownloadError, err
	}
	return req, "", nil
}

func (ui *RootUI) showError(titleKey string, err error) {
	ui.setStatus(ui.localization.GetText(titleKey) + ": " + err.Error())
	dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(titleKey), err), ui.window)
}

func (ui *RootUI) onDownloadClick() {
	if ui.downloadBtn.Disabled() {
		return
	}
	req, titleKey, err := ui.formRequest()
	if err != nil {
		if errors.Is(err, model.ErrEmptyURL) {
			ui.setStatus(ui.localization.GetText(KeyPleaseEnterURL))
		}
		ui.showError(titleKey, err)
		return
	}
	if err := platform.EnsureDir(req.OutputDir); err != nil {
		ui.showError(KeyDownloadError, err)
		return
	}

	if model.IsPlaylistURL(req.URL) {
		ui.handlePlaylistURL(req)
		return
	}

	active := ui.activity.reserve()
	ui.setStatus(fmt.Sprintf(ui.localization.GetText(KeyStatusStarting), active))
	ui.downloadBtn.Disable()
	ui.queue(req)
	ui.urlEntry.SetText("")
}

// queue adds one request against a slot that was already reserved.
func (ui *RootUI) queue(req model.Request) {
	task, err := ui.downloadSvc.AddTask(req)
	if err != nil {
		remaining := ui.activity.release()
		ui.afterFinish(remaining)
		if errors.Is(err, download.ErrDuplicateTask) {
			ui.showError(KeyAlreadyInQueue, err)
			return
		}
		ui.showError(KeyDownloadError, err)
		return
	}
	ui.tasksMu.Lock()
	ui.tasks = insertTask(ui.tasks, task)
	ui.tasksMu.Unlock()
	ui.taskList.Refresh()
	if remaining, finished := ui.activity.bind(task.ID); finished {
		ui.afterFinish(remaining)
	}
}

func (ui *RootUI) handlePlaylistURL(tmpl model.Request) {
	ui.setStatus(ui.localization.GetText(KeyParsingPlaylist))
	active := ui.activity.reserve()
	ui.downloadBtn.Disable()
	ui.logger.Info("expanding playlist", "url", tmpl.URL, "active", active)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PlaylistParseTimeout)
		defer cancel()
		playlist, err := ui.parser.ParsePlaylist(ctx, tmpl.URL)

		fyne.Do(func() {
			remaining := ui.activity.release()
			if err != nil {
				ui.afterFinish(remaining)
				ui.showError(KeyParsingFailed, err)
				return
			}
			reqs := playlist.Requests(tmpl)
			for _, r := range reqs {
				ui.activity.reserve()
				ui.queue(r)
			}
			if ui.activity.count() == 0 {
				ui.afterFinish(0)
			}
			ui.setStatus(fmt.Sprintf(ui.localization.GetText(KeyPlaylistQueued), len(reqs), playlist.Title))
			ui.urlEntry.SetText("")
		})
	}()
}

// afterFinish updates the status line and button once a slot is released.
func (ui *RootUI) afterFinish(remaining int) {
	ui.setStatus(finishStatus(ui.localization, remaining))
	if remaining == 0 {
		ui.downloadBtn.Enable()
	}
}

func finishStatus(l *Localization, remaining int) string {
	if remaining == 0 {
		return l.GetText(KeyStatusReady)
	}
	return fmt.Sprintf(l.GetText(KeyStatusDone), remaining)
}

func (ui *RootUI) onOpenDownloads() {
	dir := ui.settings.GetDownloadDirectory()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dialog.ShowError(errors.New(ui.localization.GetText(KeyFolderMissing)), ui.window)
		return
	}
	if err := platform.OpenFolder(dir); err != nil {
		ui.logger.Error("open downloads folder", "dir", dir, "err", err)
		ui.showError(KeyErrorOpeningDir, err)
	}
}

func (ui *RootUI) onShowSettings() {
	sd := NewSettingsDialog(ui.settings, ui.localization, ui.window)
	sd.SetOnSaved(func() {
		ui.downloadSvc.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
		ui.formatRadio.SetSelected(ui.settings.GetDefaultFormat().Label())
		if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
			ui.onLanguageChange(lang)
			return
		}
		ui.refreshDestination()
	})
	sd.Show()
}

func (ui *RootUI) taskCount() int {
	ui.tasksMu.Lock()
	defer ui.tasksMu.Unlock()
	return len(ui.tasks)
}

func (ui *RootUI) taskAt(i int) *model.DownloadTask {
	ui.tasksMu.Lock()
	defer ui.tasksMu.Unlock()
	if i < 0 || i >= len(ui.tasks) {
		return nil
	}
	return ui.tasks[i]
}

func (ui *RootUI) upsertTask(task *model.DownloadTask) {
	ui.tasksMu.Lock()
	ui.tasks = upsertTask(ui.tasks, task)
	ui.tasksMu.Unlock()
}

// upsertTask replaces the task with the same ID or appends it.
func upsertTask(tasks []*model.DownloadTask, task *model.DownloadTask) []*model.DownloadTask {
	for i, t := range tasks {
		if t.ID == task.ID {
			tasks[i] = task
			return tasks
		}
	}
	return append(tasks, task)
}

// insertTask appends task unless a newer snapshot with the same ID is already listed.
func insertTask(tasks []*model.DownloadTask, task *model.DownloadTask) []*model.DownloadTask {
	for _, t := range tasks {
		if t.ID == task.ID {
			return tasks
		}
	}
	return append(tasks, task)
}

// removeTask drops the task with id, keeping order.
func removeTask(tasks []*model.DownloadTask, id string) []*model.DownloadTask {
	for i, t := range tasks {
		if t.ID == id {
			return append(tasks[:i], tasks[i+1:]...)
		}
	}
	return tasks
}

func (ui *RootUI) createTaskItem() fyne.CanvasObject {
	row := NewTaskRow(ui.localization)
	row.SetCallbacks(ui.onStopTask, ui.onRevealFile, ui.onRemoveTask)
	return row
}

func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	row, ok := item.(*TaskRow)
	if !ok {
		return
	}
	if task := ui.taskAt(id); task != nil {
		row.UpdateTask(task)
	}
}

func (ui *RootUI) onStopTask(taskID string) {
	if err := ui.downloadSvc.StopTask(taskID); err != nil {
		ui.logger.Warn("stop task", "task", taskID, "err", err)
	}
}

func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.RevealFile(filePath); err != nil {
		ui.logger.Error("reveal file", "path", filePath, "err", err)
		ui.showError(KeyErrorOpeningDir, err)
	}
}

func (ui *RootUI) onRemoveTask(taskID string) {
	if err := ui.downloadSvc.RemoveTask(taskID); err != nil {
		ui.logger.Warn("remove task", "task", taskID, "err", err)
		return
	}
	ui.tasksMu.Lock()
	ui.tasks = removeTask(ui.tasks, taskID)
	ui.tasksMu.Unlock()
	ui.taskList.Refresh()
}

// onTaskUpdate runs on the download worker goroutine.
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	ui.upsertTask(task)

	finished := task.Status.IsFinished()
	remaining, tracked := 0, false
	if finished {
		remaining, tracked = ui.activity.finish(task.ID)
		ui.logger.Info("task finished", "task", task.ID, "status", task.Status, "output", task.PrimaryOutput())
	}

	fyne.Do(func() {
		ui.taskList.Refresh()
		if !finished {
			if task.Message != "" {
				ui.setStatus(task.Message)
			}
			return
		}
		if tracked {
			ui.afterFinish(remaining)
		}
		switch task.Status {
		case model.TaskStatusError:
			ui.showError(KeyDownloadError, errors.New(task.LastError))
		case model.TaskStatusCompleted:
			ui.onTaskCompleted(task)
		}
	})
}

func (ui *RootUI) onTaskCompleted(task *model.DownloadTask) {
	out := task.PrimaryOutput()
	saved := fmt.Sprintf(ui.localization.GetText(KeySavedTo), filepath.Base(out))
	ui.setStatus(saved + " " + finishStatus(ui.localization, ui.activity.count()))
	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadCompleted),
		Content: saved,
	})
	for _, p := range task.OutputPaths {
		platform.NotifyMediaScanner(p)
	}
	if ui.settings.GetAutoOpenOnComplete() && out != "" {
		ui.onRevealFile(out)
	}
}
