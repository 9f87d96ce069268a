// Package usecase はgalleryフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrFrameNotFound is returned when no frame matches (owner, frameNumber).
	// An existing frame owned by someone else is deliberately indistinguishable
	// from a missing one.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrAuthRequired is returned when an anonymous caller requests a detail
	// without naming an owner.
	ErrAuthRequired = errors.New("authentication required")

	// ErrPermissionDenied is returned when a private frame is requested by
	// anyone other than its owner.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrProtectedFrame is returned when attempting to delete one of the
	// default frames (frame number 1-10).
	ErrProtectedFrame = errors.New("cannot delete default frames (1-10)")

	// ErrNoImage is returned when detaching an image from a frame that has none.
	ErrNoImage = errors.New("no image to delete")

	// ErrNoImageData is returned when an attach request carries no file payload.
	ErrNoImageData = errors.New("no file provided")

	// ErrImageTooLarge is returned when the uploaded payload exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image size exceeds the maximum allowed")

	// ErrInvalidVisibility is returned when a request names an unknown visibility value.
	ErrInvalidVisibility = errors.New("visibility must be private, public or unlisted")
)
