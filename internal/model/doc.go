package model

// Package model defines the domain types shared by the pipeline, the task
// service, the GUI and the HTTP API: download requests, media formats, trim
// ranges, task state and progress events.
