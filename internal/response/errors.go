package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrTokenRequired    ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid     ErrCode = "TOKEN_INVALID"
	ErrInitDataInvalid  ErrCode = "INIT_DATA_INVALID"
	ErrInitDataRequired ErrCode = "INIT_DATA_REQUIRED"
	ErrInvalidUser      ErrCode = "INVALID_USER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrMissingAnswers ErrCode = "MISSING_ANSWERS"
	ErrBodyTooLarge   ErrCode = "PAYLOAD_TOO_LARGE"

	// ─── Questionnaires ────────────────────────────────────────────────
	ErrUnknownQuestionnaire ErrCode = "UNKNOWN_QUESTIONNAIRE"
	ErrInvalidSection       ErrCode = "INVALID_SECTION"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileTooLarge   ErrCode = "FILE_TOO_LARGE"
	ErrTooManyFiles   ErrCode = "TOO_MANY_FILES"
	ErrFileUnreadable ErrCode = "FILE_UNREADABLE"

	// ─── Delivery ──────────────────────────────────────────────────────
	ErrDeliveryFailed ErrCode = "DELIVERY_FAILED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotConfigured    ErrCode = "NOT_CONFIGURED"
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrInternal         ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "Сессия входа не найдена или истекла. Начните вход заново."
	case ErrTokenRequired:
		return "Токен авторизации обязателен."
	case ErrTokenInvalid:
		return "Токен авторизации недействителен или уже использован."
	case ErrInitDataInvalid:
		return "Данные Telegram не прошли проверку."
	case ErrInitDataRequired:
		return "Необходимы подписанные данные Telegram."
	case ErrInvalidUser:
		return "Некорректные данные пользователя."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Проверка не пройдена. Проверьте введённые данные."
	case ErrInvalidPayload:
		return "Некорректное тело запроса."
	case ErrMissingAnswers:
		return "Заполните обязательные поля анкеты."
	case ErrBodyTooLarge:
		return "Слишком большой запрос."

	// ─── Questionnaires ────────────────────────────────────────────────
	case ErrUnknownQuestionnaire:
		return "Неизвестный тип анкеты."
	case ErrInvalidSection:
		return "Раздел анкеты не найден."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileTooLarge:
		return "Размер файла превышает допустимый."
	case ErrTooManyFiles:
		return "Слишком много файлов."
	case ErrFileUnreadable:
		return "Не удалось прочитать файл."

	// ─── Delivery ──────────────────────────────────────────────────────
	case ErrDeliveryFailed:
		return "Не удалось отправить анкету. Попробуйте ещё раз."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrNotConfigured:
		return "Ошибка конфигурации сервера."
	case ErrStoreUnavailable:
		return "Хранилище сессий недоступно."
	case ErrNotFound:
		return "Ресурс не найден."
	case ErrInternal:
		return "Внутренняя ошибка сервера."
	default:
		return "Произошла непредвиденная ошибка."
	}
}
