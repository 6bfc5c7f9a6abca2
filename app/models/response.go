package models

type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	TextRequired = ErrorResponse{
		Error: "Текст сообщения обязателен",
	}
	PositionRequired = ErrorResponse{
		Error: "Позиции X и Y обязательны",
	}
	InvalidBody = ErrorResponse{
		Error: "Некорректное тело запроса",
	}
	IDRequired = ErrorResponse{
		Error: "ID сообщения обязателен",
	}
	MessageNotFound = ErrorResponse{
		Error: "Сообщение не найдено",
	}
	CreateFailed = ErrorResponse{
		Error: "Ошибка при создании сообщения",
	}
	ListFailed = ErrorResponse{
		Error: "Ошибка при получении сообщений",
	}
	DeleteFailed = ErrorResponse{
		Error: "Ошибка при удалении сообщения",
	}
	ScheduleFailed = ErrorResponse{
		Error: "Ошибка при получении расписания",
	}
	SyncFailed = ErrorResponse{
		Error: "Ошибка синхронизации",
	}
	SendFailed = ErrorResponse{
		Error: "Ошибка при отправке сообщения",
	}
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CreateMessageResponse struct {
	Success bool        `json:"success"`
	Message JsonMessage `json:"message"`
}

type ListMessagesResponse struct {
	Success  bool          `json:"success"`
	Messages []JsonMessage `json:"messages"`
}

type TimeResponse struct {
	ServerTime int64  `json:"serverTime"`
	Timestamp  string `json:"timestamp"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
