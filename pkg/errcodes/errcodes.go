package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Календарь и классификация
	InvalidDate      failure.ErrorCode = "InvalidDate"
	InvalidRange     failure.ErrorCode = "InvalidRange"
	InvalidPoolField failure.ErrorCode = "InvalidPoolField"
	InvalidStatus    failure.ErrorCode = "InvalidStatus"

	// Хранилище
	PoolTestNotFound  failure.ErrorCode = "PoolTestNotFound"
	InvalidPoolTestID failure.ErrorCode = "InvalidPoolTestID"
	RainfallNotFound  failure.ErrorCode = "RainfallNotFound"
	InvalidRainfallID failure.ErrorCode = "InvalidRainfallID"
	RangeNotFound     failure.ErrorCode = "RangeNotFound"
	SettingNotFound   failure.ErrorCode = "SettingNotFound"
	InvalidSettingKey failure.ErrorCode = "InvalidSettingKey"

	// Импорт
	InvalidImportFile failure.ErrorCode = "InvalidImportFile"
)

// IsNotFound reports whether code denotes a missing record.
func IsNotFound(code failure.ErrorCode) bool {
	switch code {
	case NotFound, PoolTestNotFound, RainfallNotFound, RangeNotFound, SettingNotFound:
		return true
	default:
		return false
	}
}
