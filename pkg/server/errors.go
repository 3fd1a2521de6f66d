package server

import "errors"

var (
	// ErrNoConnection is returned when sending on a closed connection.
	ErrNoConnection = errors.New("server: no connection")

	// ErrUnknownMessage is reported for client messages of unknown type.
	ErrUnknownMessage = errors.New("server: unknown message")

	// ErrItemNotFound is returned for unknown item ids.
	ErrItemNotFound = errors.New("server: item not found")

	// ErrItemName is returned when an item has no name.
	ErrItemName = errors.New("server: item name is required")

	errNoItemsRegion = errors.New("server: page has no items region")
)
