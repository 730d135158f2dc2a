package services

import (
	"github.com/rs/zerolog"

	"github.com/amaumene/gomoviesfr/internal/store"
)

// Container bundles the services handed to the handler layer.
type Container struct {
	Movies *MovieService
	Store  store.Store
	Logger zerolog.Logger
}
