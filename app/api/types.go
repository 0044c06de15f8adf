package api

import (
	"feedsink/app/database"
	"feedsink/app/registry"
	"feedsink/app/tasks"
)

type Handler struct {
	sources   *registry.Registry
	meta      database.MetadataRepository
	items     database.ItemRepository
	scheduler tasks.TaskSchedulerInterface
}
