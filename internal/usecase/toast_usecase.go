package usecase

import "tiffin/internal/domain/entity"

// ToastUsecase holds the single visible toast. A new toast replaces the previous one.
type ToastUsecase interface {
	Show(message string, kind entity.ToastType) entity.Toast
	// Current returns the visible toast, if any has not yet expired.
	Current() (entity.Toast, bool)
	Dismiss()
}
