package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/tubeloader/internal/model"
)

// TaskRow renders one download: title, stage, progress and actions.
type TaskRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization

	titleLabel  *widget.Label
	statusLabel *widget.Label
	detailLabel *widget.Label
	progress    *widget.ProgressBar

	stopBtn   *widget.Button
	revealBtn *widget.Button
	removeBtn *widget.Button

	onStop   func(taskID string)
	onReveal func(filePath string)
	onRemove func(taskID string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(localization *Localization) *TaskRow {
	tr := &TaskRow{
		task:         &model.DownloadTask{Status: model.TaskStatusPending},
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(onStop func(string), onReveal func(string), onRemove func(string)) {
	tr.onStop = onStop
	tr.onReveal = onReveal
	tr.onRemove = onRemove
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Truncation = fyne.TextTruncateEllipsis
	tr.detailLabel = widget.NewLabel("")
	tr.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.detailLabel.Alignment = fyne.TextAlignTrailing

	tr.progress = widget.NewProgressBar()
	tr.progress.TextFormatter = func() string { return "" }

	tr.stopBtn = widget.NewButton(IconStop, func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.revealBtn = widget.NewButton(IconFolder, func() {
		if tr.onReveal != nil && tr.task.PrimaryOutput() != "" {
			tr.onReveal(tr.task.PrimaryOutput())
		}
	})
	tr.removeBtn = widget.NewButton(IconClose, func() {
		if tr.onRemove != nil {
			tr.onRemove(tr.task.ID)
		}
	})
	tr.stopBtn.Importance = widget.LowImportance
	tr.revealBtn.Importance = widget.LowImportance
	tr.removeBtn.Importance = widget.LowImportance
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.titleLabel.SetText(task.GetDisplayTitle())
	tr.statusLabel.SetText(taskStatusText(task))
	tr.detailLabel.SetText(taskDetails(task, tr.localization.GetText(KeyETA)))
	tr.progress.SetValue(task.Progress)

	switch task.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
	default:
		tr.statusLabel.Importance = widget.MediumImportance
	}

	setVisible(tr.stopBtn, !task.Status.IsFinished() && task.Status != model.TaskStatusStopping)
	setVisible(tr.revealBtn, task.Status == model.TaskStatusCompleted && task.PrimaryOutput() != "")
	setVisible(tr.removeBtn, task.Status.IsFinished())
	tr.Refresh()
}

// CreateRenderer lays the row out as title/status on the left and actions on the right.
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	actions := container.NewHBox(tr.stopBtn, tr.revealBtn, tr.removeBtn)
	text := container.NewVBox(
		tr.titleLabel,
		container.NewBorder(nil, nil, nil, tr.detailLabel, tr.statusLabel),
	)
	body := container.NewBorder(nil, tr.progress, nil, actions, text)
	return widget.NewSimpleRenderer(body)
}

func setVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}

// taskStatusText is the stage message while running and the outcome afterwards.
func taskStatusText(task *model.DownloadTask) string {
	switch task.Status {
	case model.TaskStatusError:
		if task.LastError != "" {
			return IconError + " " + firstLine(task.LastError)
		}
		return IconError + " " + task.Status.String()
	case model.TaskStatusCompleted:
		return IconDone + " " + task.Status.String()
	case model.TaskStatusStopped, model.TaskStatusPending, model.TaskStatusStopping:
		return task.Status.String()
	}
	if task.Message != "" {
		return task.Message
	}
	return task.Status.String()
}

// taskDetails joins percent, speed, ETA and size, skipping unknown parts.
func taskDetails(task *model.DownloadTask, etaLabel string) string {
	var parts []string
	if task.Status.IsActive() && task.Percent > 0 {
		parts = append(parts, fmt.Sprintf(ProgressLabelFormat, task.Percent))
	}
	if task.Status.IsActive() && task.Speed != "" {
		parts = append(parts, task.Speed)
	}
	if task.Status.IsActive() && task.ETASec > 0 {
		parts = append(parts, etaLabel+" "+task.GetETAString())
	}
	if task.FileSize > 0 {
		parts = append(parts, humanize.Bytes(uint64(task.FileSize)))
	}
	if len(parts) == 0 {
		return DashPlaceholder
	}
	return strings.Join(parts, MiddleDotSeparator)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
